// Package charts exports the aggregated statistics as standalone HTML files.
package charts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"duel-tracker/internal/config"
	"duel-tracker/internal/constants"
	"duel-tracker/internal/domain"
	"duel-tracker/internal/stats"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

var ErrNoChartData = errors.New("no chart data")

const (
	OpponentsFile = "opponents.html"
	DecksFile     = "deck_win_rates.html"
)

// ChartConfig holds the presentation options shared by every chart.
type ChartConfig struct {
	Width  string
	Height string
	Theme  string
	Colors []string
}

func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Width:  "900px",
		Height: "500px",
		Theme:  "light",
		Colors: []string{"#5470C6", "#91CC75", "#FAC858", "#EE6666", "#73C0DE", "#3BA272", "#FC8452", "#9A60B4", "#EA7CCC"},
	}
}

type Renderer struct {
	dir    string
	chart  ChartConfig
	logger zerolog.Logger
}

func NewRenderer(cfg *config.Config, logger zerolog.Logger) *Renderer {
	return &Renderer{dir: cfg.ChartDir, chart: DefaultChartConfig(), logger: logger}
}

func (r *Renderer) Dir() string {
	return r.dir
}

// RenderOpponents writes the opponent deck distribution as a pie chart.
func (r *Renderer) RenderOpponents(records []domain.GameRecord) (string, error) {
	shares := stats.OpponentDeckDistribution(records)
	if len(shares) == 0 {
		return "", ErrNoChartData
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(r.globalOptions("Opponent decks", fmt.Sprintf("%d games", len(records)), "item")...)

	data := make([]opts.PieData, len(shares))
	for i, s := range shares {
		data[i] = opts.PieData{Name: s.Deck, Value: s.Count}
	}
	pie.AddSeries("Opponents", data).
		SetSeriesOptions(charts.WithLabelOpts(opts.Label{Show: opts.Bool(true)}))

	path := filepath.Join(r.dir, OpponentsFile)
	return path, r.write(path, pie)
}

// RenderDeckWinRates writes one bar per own deck.
func (r *Renderer) RenderDeckWinRates(records []domain.GameRecord) (string, error) {
	decks := stats.DeckWinRates(records)
	if len(decks) == 0 {
		return "", ErrNoChartData
	}

	labels := make([]string, len(decks))
	values := make([]opts.BarData, len(decks))
	for i, d := range decks {
		labels[i] = d.Deck
		values[i] = opts.BarData{Value: round2(d.Percent()), Name: recordLabel(d.Rate)}
	}

	path := filepath.Join(r.dir, DecksFile)
	return path, r.write(path, r.winRateBar("Deck win rate", "", labels, values))
}

// RenderMatchups writes the win rate of deck against every opponent it met.
func (r *Renderer) RenderMatchups(records []domain.GameRecord, deck string, file string) (string, error) {
	matchups := stats.MatchupWinRate(records, deck)
	if len(matchups) == 0 {
		return "", ErrNoChartData
	}

	labels := make([]string, len(matchups))
	values := make([]opts.BarData, len(matchups))
	for i, m := range matchups {
		labels[i] = m.OpponentDeck
		values[i] = opts.BarData{Value: round2(m.Percent()), Name: recordLabel(m.Rate)}
	}

	path := filepath.Join(r.dir, file)
	return path, r.write(path, r.winRateBar("Matchups", deck, labels, values))
}

// RenderAll writes the opponent chart, the deck chart and one matchup chart
// per own deck concurrently. Paths come back in that order.
func (r *Renderer) RenderAll(ctx context.Context, records []domain.GameRecord) ([]string, error) {
	if len(records) == 0 {
		return nil, ErrNoChartData
	}
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create chart directory: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, constants.ChartTimeout)
	defer cancel()

	decks := stats.DeckWinRates(records)
	jobs := []func() (string, error){
		func() (string, error) { return r.RenderOpponents(records) },
		func() (string, error) { return r.RenderDeckWinRates(records) },
	}
	for i, d := range decks {
		file := fmt.Sprintf("matchups_%02d.html", i+1)
		jobs = append(jobs, func() (string, error) { return r.RenderMatchups(records, d.Deck, file) })
	}

	paths := make([]string, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	for i, job := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			path, err := job()
			if err != nil {
				return err
			}
			paths[i] = path
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		r.logger.Error().Err(err).Str("dir", r.dir).Msg("chart export failed")
		return nil, err
	}

	r.logger.Info().Str("dir", r.dir).Int("files", len(paths)).Msg("charts exported")
	return paths, nil
}

func (r *Renderer) globalOptions(title, subtitle, trigger string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			Width:  r.chart.Width,
			Height: r.chart.Height,
			Theme:  r.chart.Theme,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: subtitle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: trigger,
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(false),
		}),
		charts.WithColorsOpts(opts.Colors(r.chart.Colors)),
	}
}

func (r *Renderer) winRateBar(title, subtitle string, labels []string, values []opts.BarData) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(append(r.globalOptions(title, subtitle, "axis"),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "Win Rate (%)",
			Min:  0,
			Max:  100,
		}),
	)...)

	bar.SetXAxis(labels).
		AddSeries("Win Rate", values).
		SetSeriesOptions(charts.WithLabelOpts(opts.Label{
			Show:     opts.Bool(true),
			Position: "top",
		}))
	return bar
}

type renderer interface {
	Render(w io.Writer) error
}

func (r *Renderer) write(path string, chart renderer) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create chart directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer f.Close()

	if err := chart.Render(f); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}

	r.logger.Debug().Str("path", path).Msg("chart written")
	return nil
}

// recordLabel is the win-loss line shown in the bar tooltip.
func recordLabel(r stats.Rate) string {
	return fmt.Sprintf("%dW %dL", r.Wins, r.Losses())
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
