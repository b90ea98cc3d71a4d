package constants

import "time"

const (
	TopTier         = 1
	BottomTier      = 10
	MasterFloorTier = 5 // lowest Master tier, demotion stops here
)

const (
	DiamondPromotionPoints = 4
	MasterPromotionPoints  = 5
	DemotionLosingStreak   = 3
)

const (
	DatabaseTimeout = 5 * time.Second
	SnapshotTimeout = 5 * time.Second
	ChartTimeout    = 30 * time.Second
)

const (
	// sqlite with a single writer; also keeps :memory: databases on one connection
	DBMaxOpenConns    = 1
	DBMaxIdleConns    = 1
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	ShutdownTimeout     = 5 * time.Second
	ConsoleDrainTimeout = 250 * time.Millisecond
)

const (
	HistoryDefaultLimit = 20
	HistoryMaxLimit     = 500
)
