package store

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/napolitain/kingdom-core/internal/models"
)

// Autosaver writes one slot at most once per interval, with a burst of one
type Autosaver struct {
	store   *Store
	name    string
	limiter *rate.Limiter
}

// NewAutosaver saves to slot name no more often than every interval
func NewAutosaver(s *Store, name string, interval time.Duration) *Autosaver {
	return &Autosaver{
		store:   s,
		name:    name,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
	}
}

// Save stores gs when the limiter allows. It reports whether a write happened.
func (a *Autosaver) Save(ctx context.Context, gs *models.GameState) (bool, error) {
	if !a.limiter.Allow() {
		return false, nil
	}
	if _, err := a.store.Save(ctx, a.name, gs); err != nil {
		return false, err
	}
	return true, nil
}

// Slot returns the slot name this autosaver writes to
func (a *Autosaver) Slot() string {
	return a.name
}
