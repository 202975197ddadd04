package usecase

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"docsign-client/internal/config"
	"docsign-client/internal/domain/entity"
)

// Notifier keeps transient, auto-expiring notices for the shell to display
type Notifier struct {
	mu      sync.Mutex
	ttl     time.Duration
	notices []entity.Notice
	now     func() time.Time
	logger  *zap.Logger
}

func NewNotifier(cfg *config.Config, logger *zap.Logger) *Notifier {
	ttl := cfg.Notice.TTL
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	return &Notifier{
		ttl:    ttl,
		now:    time.Now,
		logger: logger,
	}
}

// Push adds a notice of the given kind
func (n *Notifier) Push(kind entity.NoticeKind, message string) entity.Notice {
	now := n.now()
	notice := entity.Notice{
		ID:        uuid.NewString(),
		Kind:      kind,
		Message:   message,
		CreatedAt: now,
		ExpiresAt: now.Add(n.ttl),
	}

	n.mu.Lock()
	n.notices = append(n.pruneLocked(now), notice)
	n.mu.Unlock()

	return notice
}

// Error classifies err and pushes it. Nil errors are ignored.
func (n *Notifier) Error(err error) {
	if err == nil {
		return
	}
	kind, message := entity.Classify(err)
	n.logger.Warn("Action failed",
		zap.String("kind", string(kind)),
		zap.String("message", message),
		zap.Error(err),
	)
	n.Push(kind, message)
}

func (n *Notifier) Info(message string) {
	n.Push(entity.NoticeInfo, message)
}

// Active returns the notices that have not expired, oldest first
func (n *Notifier) Active() []entity.Notice {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.notices = n.pruneLocked(n.now())
	out := make([]entity.Notice, len(n.notices))
	copy(out, n.notices)
	return out
}

// Dismiss removes a notice; it reports whether the id was known
func (n *Notifier) Dismiss(id string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	for i, notice := range n.notices {
		if notice.ID == id {
			n.notices = append(n.notices[:i], n.notices[i+1:]...)
			return true
		}
	}
	return false
}

func (n *Notifier) pruneLocked(now time.Time) []entity.Notice {
	kept := n.notices[:0]
	for _, notice := range n.notices {
		if !notice.Expired(now) {
			kept = append(kept, notice)
		}
	}
	return kept
}
