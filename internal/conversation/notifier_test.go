package conversation

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/pantrypal/internal/logger"
)

func TestCLINotifier(t *testing.T) {
	var lines []string
	n := NewCLINotifier(logger.New(logger.LevelOff, nil), func(format string, a ...interface{}) {
		lines = append(lines, fmt.Sprintf(format, a...))
	})

	require.NoError(t, n.Notify(context.Background(), "Added 1 item: milk."))
	require.NoError(t, n.NotifyUrgent(context.Background(), "Storage is unavailable."))

	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Added 1 item: milk.")
	assert.Contains(t, lines[1], "Storage is unavailable.")
}
