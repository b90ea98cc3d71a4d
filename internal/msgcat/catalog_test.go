package msgcat

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DefaultsToKorean(t *testing.T) {
	c, err := New("", "")
	require.NoError(t, err)
	assert.Equal(t, "ko", c.Locale())

	got, err := c.Render("tier.diamond", map[string]any{"Level": 3})
	require.NoError(t, err)
	assert.Equal(t, "다이아 3티어", got)
}

func TestNew_UnknownLocaleFallsBack(t *testing.T) {
	c, err := New("fr", "")
	require.NoError(t, err)
	assert.Equal(t, "ko", c.Locale())
}

func TestNew_English(t *testing.T) {
	c, err := New("EN", "")
	require.NoError(t, err)
	assert.Equal(t, "en", c.Locale())

	got, err := c.Render("rank.promoted", map[string]any{"Tier": "Master 5"})
	require.NoError(t, err)
	assert.Equal(t, "Promoted! Current tier: Master 5", got)
}

func TestRender_RateNoData(t *testing.T) {
	for _, locale := range []string{"ko", "en"} {
		c, err := New(locale, "")
		require.NoError(t, err)

		side, err := c.Render("stats.rate_no_data", nil)
		require.NoError(t, err)
		got, err := c.Render("stats.order_win_rate", map[string]any{"First": "50.00%", "Second": side})
		require.NoError(t, err)
		assert.NotContains(t, got, "0.00%", locale)
		assert.Contains(t, got, side, locale)
	}
}

func TestRender_Formatting(t *testing.T) {
	c, err := New("ko", "")
	require.NoError(t, err)

	got, err := c.Render("stats.win_rate", map[string]any{"Percent": 100.0 / 3, "Games": 3})
	require.NoError(t, err)
	assert.Equal(t, "총 승률: 33.33% (3판 플레이)", got)

	got, err = c.Render("record.line", map[string]any{
		"MyDeck": "A", "OpponentDeck": "B", "IsFirst": false, "Result": true,
	})
	require.NoError(t, err)
	assert.Equal(t, "나의 덱: A, 상대 덱: B, 후공, 결과: 승리", got)
}

func TestRender_MissingKeyIsError(t *testing.T) {
	c, err := New("ko", "")
	require.NoError(t, err)

	_, err = c.Render("stats.win_rate", map[string]any{"Games": 3})
	assert.Error(t, err)

	_, err = c.Render("no.such.key", nil)
	assert.Error(t, err)
}

func TestOverrideDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "custom.yaml"), []byte("session:\n  saved: \"저장 완료\"\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("not yaml: ["), 0o644))

	c, err := New("ko", dir)
	require.NoError(t, err)
	got, err := c.Render("session.saved", nil)
	require.NoError(t, err)
	assert.Equal(t, "저장 완료", got)

	got, err = c.Render("rank.promotion_blocked", nil)
	require.NoError(t, err)
	assert.Equal(t, "최고 티어에 도달했습니다!", got)
}

func TestOverrideDir_DuplicateKey(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yaml"), []byte("help: one\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.yml"), []byte("help: two\n"), 0o644))

	_, err := New("ko", dir)
	assert.ErrorContains(t, err, "duplicate override key")
}
