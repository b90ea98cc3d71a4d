package middleware

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandID(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	var seenID string
	var ctxLogger *zerolog.Logger
	h := CommandID(logger)(func(ctx context.Context, cmd Command) error {
		seenID = GetCommandID(ctx)
		ctxLogger = zerolog.Ctx(ctx)
		return nil
	})

	require.NoError(t, h(context.Background(), Command{Name: "status"}))
	assert.Len(t, seenID, 36)
	require.NotNil(t, ctxLogger)
	assert.Contains(t, buf.String(), `"command":"status"`)
	assert.Contains(t, buf.String(), `"command_id":"`+seenID+`"`)
	assert.Contains(t, buf.String(), "command completed")
}

func TestCommandID_KeepsExistingID(t *testing.T) {
	ctx := context.WithValue(context.Background(), CommandIDKey, "fixed")

	var seenID string
	h := CommandID(zerolog.Nop())(func(ctx context.Context, cmd Command) error {
		seenID = GetCommandID(ctx)
		return nil
	})

	require.NoError(t, h(ctx, Command{Name: "save"}))
	assert.Equal(t, "fixed", seenID)
}

func TestCommandID_PassesErrorThrough(t *testing.T) {
	var buf bytes.Buffer
	boom := errors.New("boom")

	h := CommandID(zerolog.New(&buf))(func(ctx context.Context, cmd Command) error {
		return boom
	})

	assert.ErrorIs(t, h(context.Background(), Command{Name: "win"}), boom)
	assert.Contains(t, buf.String(), `"level":"warn"`)
}

func TestGetCommandID_Empty(t *testing.T) {
	assert.Equal(t, "", GetCommandID(context.Background()))
}
