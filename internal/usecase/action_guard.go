package usecase

import (
	"fmt"
	"sync"

	"docsign-client/internal/domain/entity"
)

// ActionGuard keeps one ActionState per action kind. A kind that is in flight
// rejects a second submission.
type ActionGuard struct {
	mu     sync.Mutex
	states map[entity.ActionKind]entity.ActionState
}

func NewActionGuard() *ActionGuard {
	return &ActionGuard{states: make(map[entity.ActionKind]entity.ActionState)}
}

// Begin moves kind to InFlight, or fails with ErrActionInFlight
func (g *ActionGuard) Begin(kind entity.ActionKind) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.states[kind].Phase == entity.PhaseInFlight {
		return fmt.Errorf("%s: %w", kind, entity.ErrActionInFlight)
	}
	g.states[kind] = entity.ActionState{Phase: entity.PhaseInFlight}
	return nil
}

// Finish records the outcome of an action started with Begin
func (g *ActionGuard) Finish(kind entity.ActionKind, result any, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err != nil {
		g.states[kind] = entity.ActionState{Phase: entity.PhaseFailed, Err: err}
		return
	}
	g.states[kind] = entity.ActionState{Phase: entity.PhaseDone, Result: result}
}

// Reset returns kind to Idle
func (g *ActionGuard) Reset(kind entity.ActionKind) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.states, kind)
}

func (g *ActionGuard) State(kind entity.ActionKind) entity.ActionState {
	g.mu.Lock()
	defer g.mu.Unlock()

	state, ok := g.states[kind]
	if !ok {
		return entity.ActionState{Phase: entity.PhaseIdle}
	}
	return state
}

// Snapshot returns every non-idle action state
func (g *ActionGuard) Snapshot() map[entity.ActionKind]entity.ActionState {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make(map[entity.ActionKind]entity.ActionState, len(g.states))
	for k, v := range g.states {
		out[k] = v
	}
	return out
}
