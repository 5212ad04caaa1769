// Package diplomacy models the player's standing with each faction
package diplomacy

import (
	"sort"

	"github.com/napolitain/kingdom-core/internal/models"
)

// Relation bounds
const (
	MinRelation = -100
	MaxRelation = 100
)

// Fixed deltas for diplomatic actions
const (
	DeltaTrade      = 10
	DeltaTribute    = 15
	DeltaAlliance   = 25
	DeltaBrokenPact = -30
)

// decayStep is how far a relation moves toward its baseline per day
const decayStep = 1

// Status is the band a relation value falls into
type Status string

const (
	Hostile    Status = "hostile"
	Unfriendly Status = "unfriendly"
	Neutral    Status = "neutral"
	Friendly   Status = "friendly"
	Allied     Status = "allied"
)

// band thresholds are inclusive upper bounds, checked in ascending order
var bands = []struct {
	max    int
	status Status
}{
	{-50, Hostile},
	{-20, Unfriendly},
	{20, Neutral},
	{50, Friendly},
}

// StatusOf returns the band for a relation value
func StatusOf(relation int) Status {
	for _, b := range bands {
		if relation <= b.max {
			return b.status
		}
	}
	return Allied
}

// Clamp limits v to [MinRelation, MaxRelation]
func Clamp(v int) int {
	if v < MinRelation {
		return MinRelation
	}
	if v > MaxRelation {
		return MaxRelation
	}
	return v
}

// Action is a diplomatic event with a fixed relation delta
type Action string

const (
	ActionTrade      Action = "trade"
	ActionTribute    Action = "tribute"
	ActionAlliance   Action = "alliance"
	ActionBrokenPact Action = "broken_pact"
)

// Delta returns the relation change for a, and false for unknown actions
func (a Action) Delta() (int, bool) {
	switch a {
	case ActionTrade:
		return DeltaTrade, true
	case ActionTribute:
		return DeltaTribute, true
	case ActionAlliance:
		return DeltaAlliance, true
	case ActionBrokenPact:
		return DeltaBrokenPact, true
	}
	return 0, false
}

// Registry is an immutable table of faction definitions
type Registry struct {
	defs map[string]*models.FactionDefinition
	ids  []string
}

// NewRegistry builds a registry from loaded definitions
func NewRegistry(defs map[string]*models.FactionDefinition) *Registry {
	r := &Registry{defs: make(map[string]*models.FactionDefinition, len(defs))}
	for id, def := range defs {
		if def == nil {
			continue
		}
		r.defs[id] = def
		r.ids = append(r.ids, id)
	}
	sort.Strings(r.ids)
	return r
}

// Get returns the definition for id
func (r *Registry) Get(id string) (*models.FactionDefinition, bool) {
	def, ok := r.defs[id]
	return def, ok
}

// IDs returns faction identifiers in ascending order
func (r *Registry) IDs() []string {
	out := make([]string, len(r.ids))
	copy(out, r.ids)
	return out
}

// Relations operates on the relation map of a game state against a faction registry.
// All writes go through Set, which clamps.
type Relations struct {
	factions *Registry
}

// New returns relation operations bound to a registry
func New(factions *Registry) *Relations {
	return &Relations{factions: factions}
}

// Init seeds every known faction at its baseline. Call once per new game:
// calling it later erases earned standing.
func (r *Relations) Init(state *models.GameState) {
	if state.Relations == nil {
		state.Relations = make(map[string]int)
	}
	for _, id := range r.factions.ids {
		r.Set(state, id, r.factions.defs[id].Baseline)
	}
}

// Get returns the relation with faction, 0 when none is recorded
func (r *Relations) Get(state *models.GameState, faction string) int {
	return state.Relations[faction]
}

// Set stores value clamped to [MinRelation, MaxRelation]
func (r *Relations) Set(state *models.GameState, faction string, value int) {
	if state.Relations == nil {
		state.Relations = make(map[string]int)
	}
	state.Relations[faction] = Clamp(value)
}

// Change adds delta to the current relation
func (r *Relations) Change(state *models.GameState, faction string, delta int) {
	r.Set(state, faction, r.Get(state, faction)+delta)
}

// Apply changes the relation by the fixed delta of action. Unknown actions are a no-op.
func (r *Relations) Apply(state *models.GameState, faction string, action Action) bool {
	delta, ok := action.Delta()
	if !ok {
		return false
	}
	r.Change(state, faction, delta)
	return true
}

// Status returns the band of the current relation with faction
func (r *Relations) Status(state *models.GameState, faction string) Status {
	return StatusOf(r.Get(state, faction))
}

// Statuses returns the band for every known faction
func (r *Relations) Statuses(state *models.GameState) map[string]Status {
	out := make(map[string]Status, len(r.factions.ids))
	for _, id := range r.factions.ids {
		out[id] = r.Status(state, id)
	}
	return out
}

// ApplyDailyDecay moves every known faction's relation one step toward its baseline
func (r *Relations) ApplyDailyDecay(state *models.GameState) {
	for _, id := range r.factions.ids {
		baseline := r.factions.defs[id].Baseline
		current := r.Get(state, id)
		switch {
		case current > baseline:
			r.Set(state, id, current-decayStep)
		case current < baseline:
			r.Set(state, id, current+decayStep)
		}
	}
}
