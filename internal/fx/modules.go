package fx

import (
	"database/sql"

	"duel-tracker/internal/charts"
	"duel-tracker/internal/config"
	"duel-tracker/internal/console"
	"duel-tracker/internal/database"
	"duel-tracker/internal/db"
	"duel-tracker/internal/logger"
	"duel-tracker/internal/msgcat"
	"duel-tracker/internal/repository"
	"duel-tracker/internal/service"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// ProvideDatabase opens the journal database only when the journal is on.
// A database that can't be opened leaves the journal off instead of
// stopping the app.
func ProvideDatabase(cfg *config.Config, logger zerolog.Logger) *sql.DB {
	if !cfg.JournalEnabled {
		logger.Info().Msg("journal disabled, not opening database")
		return nil
	}

	sqlDB, err := database.New(cfg, logger)
	if err != nil {
		logger.Warn().Err(err).Str("path", cfg.DBPath).Msg("journal unavailable, continuing without it")
		return nil
	}
	return sqlDB
}

func ProvideQueries(sqlDB *sql.DB) *db.Queries {
	if sqlDB == nil {
		return nil
	}
	return db.New(sqlDB)
}

func ProvideJournal(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *repository.JournalRepository {
	if sqlDB == nil {
		return nil
	}
	return repository.NewJournalRepository(sqlDB, queries, logger)
}

var Module = fx.Options(
	logger.Module,
	config.Module,
	fx.Provide(ProvideDatabase),
	fx.Provide(ProvideQueries),
	// repos
	fx.Provide(repository.NewSnapshotRepository),
	fx.Provide(ProvideJournal),
	// svc
	fx.Provide(service.NewTrackerService),
	// presentation
	fx.Provide(msgcat.Provide),
	fx.Provide(charts.NewRenderer),
	fx.Provide(console.NewTrackerConsole),
)
