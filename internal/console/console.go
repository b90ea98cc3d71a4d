// Package console is the line oriented front end: one command per line in,
// rendered catalog messages out.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"duel-tracker/internal/charts"
	"duel-tracker/internal/domain"
	"duel-tracker/internal/middleware"
	"duel-tracker/internal/msgcat"
	"duel-tracker/internal/rank"
	"duel-tracker/internal/service"
	"duel-tracker/internal/stats"

	"github.com/atotto/clipboard"
	"github.com/rs/zerolog"
)

var (
	errInvalidNumber   = errors.New("not a number")
	errMissingDeckName = errors.New("deck name is required")
)

type unknownCommandError struct {
	name string
}

func (e *unknownCommandError) Error() string {
	return fmt.Sprintf("unknown command %q", e.name)
}

type commandFunc func(ctx context.Context, w io.Writer, args string) error

type TrackerConsole struct {
	svc      *service.TrackerService
	charts   *charts.Renderer
	msgs     *msgcat.Catalog
	logger   zerolog.Logger
	copyFn   func(string) error
	prompt   string
	commands map[string]commandFunc
}

func NewTrackerConsole(svc *service.TrackerService, renderer *charts.Renderer, msgs *msgcat.Catalog, logger zerolog.Logger) *TrackerConsole {
	c := &TrackerConsole{
		svc:    svc,
		charts: renderer,
		msgs:   msgs,
		logger: logger,
		copyFn: clipboard.WriteAll,
		prompt: "> ",
	}
	c.commands = map[string]commandFunc{
		"start":     c.start,
		"load":      c.load,
		"save":      c.save,
		"win":       c.win,
		"lose":      c.lose,
		"status":    c.status,
		"records":   c.records,
		"winrate":   c.winRate,
		"order":     c.order,
		"orderwin":  c.orderWin,
		"deck":      c.deck,
		"matchup":   c.matchup,
		"opponents": c.opponents,
		"streaks":   c.streaks,
		"history":   c.history,
		"promote":   c.promote,
		"demote":    c.demote,
		"chart":     c.chart,
		"copy":      c.copy,
		"help":      c.help,
	}
	return c
}

// Run reads commands until quit, end of input or ctx is done. Domain errors
// are shown to the user and never end the loop.
func (c *TrackerConsole) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	dispatch := middleware.CommandID(c.logger)(func(ctx context.Context, cmd middleware.Command) error {
		fn, ok := c.commands[cmd.Name]
		if !ok {
			return &unknownCommandError{name: cmd.Name}
		}
		return fn(ctx, out, cmd.Args)
	})

	scanner := bufio.NewScanner(in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(out, c.prompt)
		if !scanner.Scan() {
			break
		}

		cmd, ok := parseLine(scanner.Text())
		if !ok {
			continue
		}
		if cmd.Name == "quit" || cmd.Name == "exit" {
			return nil
		}

		if err := dispatch(ctx, cmd); err != nil {
			c.renderError(out, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	return nil
}

func parseLine(line string) (middleware.Command, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return middleware.Command{}, false
	}
	name, args, _ := strings.Cut(line, " ")
	return middleware.Command{
		Name: strings.ToLower(name),
		Args: strings.TrimSpace(args),
	}, true
}

// parseMatch splits "my deck, opponent deck, first?" on commas. The third
// field is optional and defaults to going second.
func parseMatch(args string) domain.MatchInput {
	parts := strings.SplitN(args, ",", 3)
	var in domain.MatchInput
	if len(parts) > 0 {
		in.MyDeck = parts[0]
	}
	if len(parts) > 1 {
		in.OpponentDeck = parts[1]
	}
	if len(parts) > 2 {
		in.IsFirst = domain.ParseFirstMove(parts[2])
	}
	return in.Normalize()
}

func (c *TrackerConsole) start(ctx context.Context, w io.Writer, args string) error {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		return errInvalidNumber
	}
	tier, err := strconv.Atoi(fields[0])
	if err != nil {
		return errInvalidNumber
	}
	points, err := strconv.Atoi(fields[1])
	if err != nil {
		return errInvalidNumber
	}

	if _, err := c.svc.Start(ctx, tier, points); err != nil {
		return err
	}
	c.say(w, "session.started", nil)
	return c.status(ctx, w, "")
}

func (c *TrackerConsole) load(ctx context.Context, w io.Writer, _ string) error {
	state, err := c.svc.Resume(ctx)
	if err != nil {
		return err
	}
	c.say(w, "session.resumed", map[string]any{"Games": len(state.Records)})
	return c.status(ctx, w, "")
}

func (c *TrackerConsole) save(ctx context.Context, w io.Writer, _ string) error {
	if err := c.svc.Save(ctx); err != nil {
		return err
	}
	c.say(w, "session.saved", nil)
	return nil
}

func (c *TrackerConsole) win(ctx context.Context, w io.Writer, args string) error {
	tr, err := c.svc.RecordWin(ctx, parseMatch(args))
	if err != nil {
		return err
	}
	return c.afterTransition(ctx, w, tr)
}

func (c *TrackerConsole) lose(ctx context.Context, w io.Writer, args string) error {
	tr, err := c.svc.RecordLoss(ctx, parseMatch(args))
	if err != nil {
		return err
	}
	return c.afterTransition(ctx, w, tr)
}

func (c *TrackerConsole) promote(ctx context.Context, w io.Writer, _ string) error {
	tr, err := c.svc.Promote(ctx)
	if err != nil {
		return err
	}
	return c.afterTransition(ctx, w, tr)
}

func (c *TrackerConsole) demote(ctx context.Context, w io.Writer, _ string) error {
	tr, err := c.svc.Demote(ctx)
	if err != nil {
		return err
	}
	return c.afterTransition(ctx, w, tr)
}

func (c *TrackerConsole) afterTransition(ctx context.Context, w io.Writer, tr rank.Transition) error {
	if err := c.status(ctx, w, ""); err != nil {
		return err
	}

	tier := map[string]any{"Tier": c.tierName(tr.After)}
	switch tr.Outcome {
	case rank.OutcomePromoted:
		c.say(w, "rank.promoted", tier)
	case rank.OutcomePromotionBlocked:
		c.say(w, "rank.promotion_blocked", nil)
	case rank.OutcomeDemoted:
		c.say(w, "rank.demoted", tier)
	case rank.OutcomeDemotionBlocked:
		c.say(w, "rank.demotion_blocked", tier)
	}
	return nil
}

func (c *TrackerConsole) status(_ context.Context, w io.Writer, _ string) error {
	state, err := c.svc.State()
	if err != nil {
		return err
	}
	c.say(w, "status", map[string]any{
		"Tier":         c.tierName(state.Position),
		"Points":       state.Points,
		"LosingStreak": state.LosingStreak,
	})
	return nil
}

func (c *TrackerConsole) records(_ context.Context, w io.Writer, _ string) error {
	records, err := c.svc.Records()
	if err != nil {
		return err
	}
	if len(records) == 0 {
		c.say(w, "record.empty", nil)
		return nil
	}
	for _, line := range c.recordLines(records) {
		fmt.Fprintln(w, line)
	}
	return nil
}

func (c *TrackerConsole) winRate(_ context.Context, w io.Writer, _ string) error {
	records, err := c.svc.Records()
	if err != nil {
		return err
	}
	rate := stats.WinRate(records)
	if rate.NoData() {
		c.say(w, "stats.no_data", nil)
		return nil
	}
	c.say(w, "stats.win_rate", map[string]any{"Percent": rate.Percent(), "Games": rate.Games})
	return nil
}

func (c *TrackerConsole) order(_ context.Context, w io.Writer, _ string) error {
	records, err := c.svc.Records()
	if err != nil {
		return err
	}
	share := stats.FirstSecondRate(records)
	if share.NoData() {
		c.say(w, "stats.no_data", nil)
		return nil
	}
	c.say(w, "stats.order_rate", map[string]any{"First": share.FirstPercent(), "Second": share.SecondPercent()})
	return nil
}

func (c *TrackerConsole) orderWin(_ context.Context, w io.Writer, _ string) error {
	records, err := c.svc.Records()
	if err != nil {
		return err
	}
	rates := stats.FirstSecondWinRate(records)
	if rates.NoData() {
		c.say(w, "stats.no_data", nil)
		return nil
	}
	c.say(w, "stats.order_win_rate", map[string]any{"First": c.rateText(rates.First), "Second": c.rateText(rates.Second)})
	return nil
}

// rateText renders one side of a split rate; an empty side reads as no data
// instead of 0%.
func (c *TrackerConsole) rateText(r stats.Rate) string {
	if r.NoData() {
		return c.text("stats.rate_no_data", nil)
	}
	return c.text("stats.rate", map[string]any{"Percent": r.Percent()})
}

func (c *TrackerConsole) deck(_ context.Context, w io.Writer, args string) error {
	if args == "" {
		return errMissingDeckName
	}
	records, err := c.svc.Records()
	if err != nil {
		return err
	}
	rate := stats.DeckWinRate(records, args)
	if rate.NoData() {
		c.say(w, "stats.deck_no_data", map[string]any{"Deck": args})
		return nil
	}
	c.say(w, "stats.deck_win_rate", map[string]any{"Deck": args, "Percent": rate.Percent(), "Games": rate.Games})
	return nil
}

func (c *TrackerConsole) matchup(_ context.Context, w io.Writer, args string) error {
	if args == "" {
		return errMissingDeckName
	}
	records, err := c.svc.Records()
	if err != nil {
		return err
	}
	matchups := stats.MatchupWinRate(records, args)
	if len(matchups) == 0 {
		c.say(w, "stats.deck_no_data", map[string]any{"Deck": args})
		return nil
	}
	for _, m := range matchups {
		c.say(w, "stats.matchup", map[string]any{
			"MyDeck":       m.MyDeck,
			"OpponentDeck": m.OpponentDeck,
			"Percent":      m.Percent(),
			"Games":        m.Games,
		})
	}
	return nil
}

func (c *TrackerConsole) opponents(_ context.Context, w io.Writer, _ string) error {
	records, err := c.svc.Records()
	if err != nil {
		return err
	}
	shares := stats.OpponentDeckDistribution(records)
	if len(shares) == 0 {
		c.say(w, "stats.no_data", nil)
		return nil
	}
	for _, s := range shares {
		c.say(w, "stats.opponent_share", map[string]any{"Deck": s.Deck, "Percent": s.Percent()})
	}
	return nil
}

func (c *TrackerConsole) streaks(_ context.Context, w io.Writer, _ string) error {
	records, err := c.svc.Records()
	if err != nil {
		return err
	}
	if len(records) == 0 {
		c.say(w, "stats.no_data", nil)
		return nil
	}
	s := stats.CalculateStreaks(records)
	c.say(w, "stats.streaks", map[string]any{
		"Winning":     s.Winning(),
		"Current":     s.Length(),
		"LongestWin":  s.LongestWin,
		"LongestLoss": s.LongestLoss,
	})
	return nil
}

func (c *TrackerConsole) history(ctx context.Context, w io.Writer, args string) error {
	limit := 0
	if args != "" {
		n, err := strconv.Atoi(args)
		if err != nil || n <= 0 {
			return errInvalidNumber
		}
		limit = n
	}

	history, err := c.svc.History(ctx, limit)
	if err != nil {
		return err
	}
	if history.Games == 0 {
		c.say(w, "history.empty", nil)
		return nil
	}

	c.say(w, "history.summary", map[string]any{
		"Start":            c.tierName(domain.Position{Tier: history.Session.StartedTier}),
		"Points":           history.Session.StartedPoints,
		"Games":            history.Games,
		"Promoted":         history.Outcomes[rank.OutcomePromoted.String()],
		"Demoted":          history.Outcomes[rank.OutcomeDemoted.String()],
		"PromotionBlocked": history.Outcomes[rank.OutcomePromotionBlocked.String()],
		"DemotionBlocked":  history.Outcomes[rank.OutcomeDemotionBlocked.String()],
	})
	for _, e := range history.Entries {
		c.say(w, "history.line", map[string]any{
			"Sequence": e.Sequence,
			"Record":   c.recordLine(e.Record),
			"Before":   c.positionLabel(e.Before),
			"After":    c.positionLabel(e.After),
			"Outcome":  e.Outcome,
		})
	}
	return nil
}

func (c *TrackerConsole) chart(ctx context.Context, w io.Writer, _ string) error {
	records, err := c.svc.Records()
	if err != nil {
		return err
	}
	paths, err := c.charts.RenderAll(ctx, records)
	if err != nil {
		return err
	}
	for _, p := range paths {
		c.say(w, "chart.written", map[string]any{"Path": p})
	}
	return nil
}

func (c *TrackerConsole) copy(_ context.Context, w io.Writer, _ string) error {
	records, err := c.svc.Records()
	if err != nil {
		return err
	}
	if len(records) == 0 {
		c.say(w, "record.empty", nil)
		return nil
	}
	if err := c.copyFn(strings.Join(c.recordLines(records), "\n")); err != nil {
		return fmt.Errorf("failed to copy records: %w", err)
	}
	c.say(w, "record.copied", map[string]any{"Games": len(records)})
	return nil
}

func (c *TrackerConsole) help(_ context.Context, w io.Writer, _ string) error {
	c.say(w, "help", nil)
	return nil
}

func (c *TrackerConsole) tierName(p domain.Position) string {
	return c.text("tier."+string(p.Bracket()), map[string]any{"Level": p.Level()})
}

func (c *TrackerConsole) positionLabel(p domain.Position) string {
	return fmt.Sprintf("%s %d/%d", c.tierName(p), p.Points, p.LosingStreak)
}

func (c *TrackerConsole) recordLine(r domain.GameRecord) string {
	return c.text("record.line", r)
}

func (c *TrackerConsole) recordLines(records []domain.GameRecord) []string {
	lines := make([]string, len(records))
	for i, r := range records {
		lines[i] = c.recordLine(r)
	}
	return lines
}

func (c *TrackerConsole) renderError(w io.Writer, err error) {
	var unknown *unknownCommandError
	switch {
	case errors.As(err, &unknown):
		c.say(w, "error.unknown_command", map[string]any{"Command": unknown.name})
	case errors.Is(err, domain.ErrInvalidTier):
		c.say(w, "error.invalid_tier", nil)
	case errors.Is(err, domain.ErrInvalidPoints):
		c.say(w, "error.invalid_points", nil)
	case errors.Is(err, domain.ErrMissingDeck):
		c.say(w, "error.missing_deck", nil)
	case errors.Is(err, errMissingDeckName):
		c.say(w, "error.missing_deck_name", nil)
	case errors.Is(err, errInvalidNumber):
		c.say(w, "error.invalid_number", nil)
	case errors.Is(err, domain.ErrSnapshotNotFound):
		c.say(w, "error.no_snapshot", nil)
	case errors.Is(err, domain.ErrInvalidSnapshot):
		c.say(w, "error.invalid_snapshot", nil)
	case errors.Is(err, domain.ErrNoSession):
		c.say(w, "error.no_session", nil)
	case errors.Is(err, charts.ErrNoChartData):
		c.say(w, "error.no_chart_data", nil)
	default:
		c.say(w, "error.internal", map[string]any{"Err": err.Error()})
	}
}

func (c *TrackerConsole) say(w io.Writer, key string, data any) {
	fmt.Fprintln(w, c.text(key, data))
}

func (c *TrackerConsole) text(key string, data any) string {
	s, err := c.msgs.Render(key, data)
	if err != nil {
		c.logger.Error().Err(err).Str("key", key).Msg("failed to render message")
		return key
	}
	return s
}
