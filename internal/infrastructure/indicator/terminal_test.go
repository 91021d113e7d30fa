package indicator_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jayseik/cinefill/internal/domain/entity"
	"github.com/jayseik/cinefill/internal/infrastructure/indicator"
)

func TestTerminal_ShowWritesOnChangeOnly(t *testing.T) {
	var buf bytes.Buffer
	ind := indicator.NewTerminal(&buf)
	ctx := context.Background()

	require.NoError(t, ind.Show(ctx, entity.BadgeFor(false)))
	require.NoError(t, ind.Show(ctx, entity.BadgeFor(false)))
	require.NoError(t, ind.Show(ctx, entity.BadgeFor(true)))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "OFF")
	assert.Contains(t, lines[1], "ON")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestTerminal_ShowReportsWriteError(t *testing.T) {
	ind := indicator.NewTerminal(failingWriter{})
	err := ind.Show(context.Background(), entity.BadgeFor(true))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "closed")
}
