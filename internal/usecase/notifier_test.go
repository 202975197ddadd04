package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"docsign-client/internal/config"
	"docsign-client/internal/domain/entity"
)

func newTestNotifier(ttl time.Duration) (*Notifier, *time.Time) {
	n := NewNotifier(&config.Config{Notice: config.NoticeConfig{TTL: ttl}}, zap.NewNop())
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	n.now = func() time.Time { return now }
	return n, &now
}

func TestNoticesExpire(t *testing.T) {
	n, now := newTestNotifier(5 * time.Second)

	n.Info("uploaded")
	require.Len(t, n.Active(), 1)

	*now = now.Add(4 * time.Second)
	assert.Len(t, n.Active(), 1)

	*now = now.Add(time.Second)
	assert.Empty(t, n.Active())
}

func TestErrorNoticeIsClassified(t *testing.T) {
	n, _ := newTestNotifier(time.Minute)

	n.Error(&entity.TransportError{Op: "GET /", Timeout: true, Err: errors.New("deadline")})
	n.Error(nil)

	active := n.Active()
	require.Len(t, active, 1)
	assert.Equal(t, entity.NoticeTransport, active[0].Kind)
	assert.Equal(t, "The signing service did not respond in time", active[0].Message)
}

func TestDismiss(t *testing.T) {
	n, _ := newTestNotifier(time.Minute)

	first := n.Push(entity.NoticeServer, "boom")
	n.Info("ok")

	assert.True(t, n.Dismiss(first.ID))
	assert.False(t, n.Dismiss(first.ID))

	active := n.Active()
	require.Len(t, active, 1)
	assert.Equal(t, "ok", active[0].Message)
}

func TestZeroTTLFallsBackToDefault(t *testing.T) {
	n, now := newTestNotifier(0)
	n.Info("x")

	*now = now.Add(4 * time.Second)
	assert.Len(t, n.Active(), 1)
}
