// Package research implements the gated, one-at-a-time research progression
package research

import (
	"fmt"
	"sort"

	"github.com/napolitain/kingdom-core/internal/models"
)

// NodeStatus is the state of one research node for a given game
type NodeStatus string

const (
	Locked    NodeStatus = "locked"
	Available NodeStatus = "available"
	Active    NodeStatus = "active"
	Completed NodeStatus = "completed"
	Unknown   NodeStatus = "unknown"
)

// Tree is an immutable research table. Runtime progress lives in models.GameState.
type Tree struct {
	defs map[string]*models.ResearchDefinition
	ids  []string
}

// NewTree validates defs and builds a tree. Every prerequisite must exist,
// the prerequisite graph must be acyclic and every node needs at least one wave.
func NewTree(defs map[string]*models.ResearchDefinition) (*Tree, error) {
	t := &Tree{defs: make(map[string]*models.ResearchDefinition, len(defs))}
	for id, def := range defs {
		if def == nil {
			continue
		}
		if def.WavesRequired < 1 {
			return nil, fmt.Errorf("research %q: waves required must be at least 1, got %d", id, def.WavesRequired)
		}
		if def.GoldCost < 0 {
			return nil, fmt.Errorf("research %q: negative cost %d", id, def.GoldCost)
		}
		t.defs[id] = def
		t.ids = append(t.ids, id)
	}
	sort.Strings(t.ids)

	for _, id := range t.ids {
		if pre := t.defs[id].Prerequisite; pre != "" {
			if _, ok := t.defs[pre]; !ok {
				return nil, fmt.Errorf("research %q: unknown prerequisite %q", id, pre)
			}
		}
	}

	// Each node has at most one parent, so a cycle shows up as a chain longer than the table
	for _, id := range t.ids {
		steps := 0
		for cur := t.defs[id].Prerequisite; cur != ""; cur = t.defs[cur].Prerequisite {
			steps++
			if steps > len(t.ids) {
				return nil, fmt.Errorf("research %q: prerequisite cycle", id)
			}
		}
	}

	return t, nil
}

// MustTree is NewTree for tables known to be valid at compile time
func MustTree(defs map[string]*models.ResearchDefinition) *Tree {
	t, err := NewTree(defs)
	if err != nil {
		panic(err)
	}
	return t
}

// Get returns the definition for id
func (t *Tree) Get(id string) (*models.ResearchDefinition, bool) {
	def, ok := t.defs[id]
	return def, ok
}

// IDs returns all research identifiers in ascending order
func (t *Tree) IDs() []string {
	out := make([]string, len(t.ids))
	copy(out, t.ids)
	return out
}

func (t *Tree) prerequisiteMet(state *models.GameState, def *models.ResearchDefinition) bool {
	return def.Prerequisite == "" || state.Research.Completed.Has(def.Prerequisite)
}

// StatusOf returns the state of node id for this game
func (t *Tree) StatusOf(state *models.GameState, id string) NodeStatus {
	def, ok := t.defs[id]
	switch {
	case !ok:
		return Unknown
	case state.Research.Completed.Has(id):
		return Completed
	case state.Research.Active == id:
		return Active
	case !t.prerequisiteMet(state, def):
		return Locked
	}
	return Available
}

// Start begins research id, debiting its gold cost. It returns false and leaves
// the state untouched when id is unknown or completed, another research is active,
// the prerequisite is incomplete, or gold is short.
func (t *Tree) Start(state *models.GameState, id string) bool {
	def, ok := t.defs[id]
	if !ok {
		return false
	}
	if state.Research.Completed.Has(id) {
		return false
	}
	if state.Research.Active != "" {
		return false
	}
	if !t.prerequisiteMet(state, def) {
		return false
	}
	if state.Gold < def.GoldCost {
		return false
	}

	state.Gold -= def.GoldCost
	state.Research.Active = id
	state.Research.Progress = 0
	return true
}

// Advance adds one wave of progress to the active research. It returns true
// only on the call that completes it.
func (t *Tree) Advance(state *models.GameState) bool {
	id := state.Research.Active
	if id == "" {
		return false
	}
	def, ok := t.defs[id]
	if !ok {
		return false
	}

	state.Research.Progress++
	if state.Research.Progress < def.WavesRequired {
		return false
	}

	if state.Research.Completed == nil {
		state.Research.Completed = make(models.StringSet)
	}
	state.Research.Completed.Add(id)
	state.Research.Active = ""
	state.Research.Progress = 0
	return true
}

// Available returns every node that could be started now, ignoring gold and the
// active slot being busy. The result is sorted.
func (t *Tree) Available(state *models.GameState) []string {
	var out []string
	for _, id := range t.ids {
		if t.StatusOf(state, id) == Available {
			out = append(out, id)
		}
	}
	return out
}

// TotalEffects sums the effect maps of every completed node, grouped by effect key.
// It is recomputed on every call.
func (t *Tree) TotalEffects(state *models.GameState) map[string]float64 {
	out := make(map[string]float64)
	for _, id := range state.Research.Completed.Sorted() {
		def, ok := t.defs[id]
		if !ok {
			continue
		}
		for key, v := range def.Effects {
			out[key] += v
		}
	}
	return out
}

// Remaining returns how many waves the active research still needs, 0 when idle
func (t *Tree) Remaining(state *models.GameState) int {
	def, ok := t.defs[state.Research.Active]
	if !ok {
		return 0
	}
	return def.WavesRequired - state.Research.Progress
}
