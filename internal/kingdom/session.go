package kingdom

import (
	"github.com/napolitain/kingdom-core/internal/diplomacy"
	"github.com/napolitain/kingdom-core/internal/document"
	"github.com/napolitain/kingdom-core/internal/models"
	"github.com/napolitain/kingdom-core/internal/research"
)

// Session owns one game state and applies commands to it against the registries
type Session struct {
	reg       *Registries
	relations *diplomacy.Relations
	state     *models.GameState
}

// NewGame starts a fresh game. Every known faction is seeded at its baseline.
func NewGame(reg *Registries, seed string) *Session {
	state := models.NewGameState()
	if seed != "" {
		state.RNGSeed = seed
	}
	s := Resume(reg, state)
	s.relations.Init(state)
	return s
}

// Resume wraps a loaded state. Relations are not re-seeded.
func Resume(reg *Registries, state *models.GameState) *Session {
	return &Session{
		reg:       reg,
		relations: diplomacy.New(reg.Factions),
		state:     state,
	}
}

// State returns the live state
func (s *Session) State() *models.GameState {
	return s.state
}

// Registries returns the content tables the session runs against
func (s *Session) Registries() *Registries {
	return s.reg
}

// StartResearch begins research id, see research.Tree.Start
func (s *Session) StartResearch(id string) bool {
	return s.reg.Research.Start(s.state, id)
}

// AdvanceResearch records one completed wave. It returns true when research finished.
func (s *Session) AdvanceResearch() bool {
	return s.reg.Research.Advance(s.state)
}

// ChangeRelation shifts standing with faction by delta, clamped to the relation range
func (s *Session) ChangeRelation(faction string, delta int) {
	s.relations.Change(s.state, faction, delta)
}

// ApplyRelationAction applies a named diplomatic action. It returns false for an unknown action.
func (s *Session) ApplyRelationAction(faction string, action diplomacy.Action) bool {
	return s.relations.Apply(s.state, faction, action)
}

// ApplyDailyDecay moves every relation one step toward its faction baseline
func (s *Session) ApplyDailyDecay() {
	s.relations.ApplyDailyDecay(s.state)
}

// Build constructs one building of kind id, paying its cost
func (s *Session) Build(id models.BuildingType) bool {
	return s.reg.Buildings.Build(s.state, id)
}

// DailyProduction returns what the current buildings yield per day
func (s *Session) DailyProduction() map[models.ResourceType]int {
	return s.reg.Buildings.DailyProduction(s.state.Buildings)
}

// TotalDefense sums the defense of all buildings
func (s *Session) TotalDefense() int {
	return s.reg.Buildings.TotalDefense(s.state.Buildings)
}

// TotalWorkerSlots sums the worker slots of all buildings
func (s *Session) TotalWorkerSlots() int {
	return s.reg.Buildings.TotalWorkerSlots(s.state.Buildings)
}

// Relation returns standing with faction, 0 when none is recorded
func (s *Session) Relation(faction string) int {
	return s.relations.Get(s.state, faction)
}

// RelationStatus returns the band faction's standing falls in
func (s *Session) RelationStatus(faction string) diplomacy.Status {
	return s.relations.Status(s.state, faction)
}

// RelationStatuses returns the band of every known faction
func (s *Session) RelationStatuses() map[string]diplomacy.Status {
	return s.relations.Statuses(s.state)
}

// AvailableResearch lists nodes whose prerequisite is met and that are not done
func (s *Session) AvailableResearch() []string {
	return s.reg.Research.Available(s.state)
}

// ResearchStatus reports where node id stands for this state
func (s *Session) ResearchStatus(id string) research.NodeStatus {
	return s.reg.Research.StatusOf(s.state, id)
}

// TotalResearchEffects sums the effects of completed research
func (s *Session) TotalResearchEffects() map[string]float64 {
	return s.reg.Research.TotalEffects(s.state)
}

// DayReport is what EndDay changed
type DayReport struct {
	Day      int // the day that just started
	Produced map[models.ResourceType]int
}

// EndDay closes the current day: production is credited, relations decay one
// step, the day counter advances and action points refill.
func (s *Session) EndDay() DayReport {
	produced := s.reg.Buildings.ApplyDailyProduction(s.state)
	s.relations.ApplyDailyDecay(s.state)
	s.state.Day++
	s.state.AP = s.state.APMax
	s.state.Phase = models.DefaultPhase
	return DayReport{Day: s.state.Day, Produced: produced}
}

// Summary is a read-only snapshot of the derived figures shown on the HUD
type Summary struct {
	Day               int
	Gold              int
	Resources         map[models.ResourceType]int
	Production        map[models.ResourceType]int
	Defense           int
	WorkerSlots       int
	Relations         map[string]int
	Statuses          map[string]diplomacy.Status
	ActiveResearch    string
	ResearchRemaining int
	AvailableResearch []string
	ResearchEffects   map[string]float64
}

// Summarize collects the current derived figures
func (s *Session) Summarize() Summary {
	relations := make(map[string]int, len(s.state.Relations))
	for id, v := range s.state.Relations {
		relations[id] = v
	}
	resources := make(map[models.ResourceType]int, len(s.state.Resources))
	for rt, v := range s.state.Resources {
		resources[rt] = v
	}
	return Summary{
		Day:               s.state.Day,
		Gold:              s.state.Gold,
		Resources:         resources,
		Production:        s.DailyProduction(),
		Defense:           s.TotalDefense(),
		WorkerSlots:       s.TotalWorkerSlots(),
		Relations:         relations,
		Statuses:          s.RelationStatuses(),
		ActiveResearch:    s.state.Research.Active,
		ResearchRemaining: s.reg.Research.Remaining(s.state),
		AvailableResearch: s.AvailableResearch(),
		ResearchEffects:   s.TotalResearchEffects(),
	}
}

// Document renders the summary as a document tree for the wire
func (sum Summary) Document() document.Map {
	resources := document.Map{}
	for rt, v := range sum.Resources {
		resources[string(rt)] = document.Int(v)
	}
	production := document.Map{}
	for rt, v := range sum.Production {
		production[string(rt)] = document.Int(v)
	}
	relations := document.Map{}
	for id, v := range sum.Relations {
		relations[id] = document.Int(v)
	}
	statuses := document.Map{}
	for id, st := range sum.Statuses {
		statuses[id] = document.String(st)
	}
	available := document.List{}
	for _, id := range sum.AvailableResearch {
		available = append(available, document.String(id))
	}
	effects := document.Map{}
	for k, v := range sum.ResearchEffects {
		effects[k] = document.Float(v)
	}

	return document.Map{
		"day":                document.Int(sum.Day),
		"gold":               document.Int(sum.Gold),
		"resources":          resources,
		"production":         production,
		"defense":            document.Int(sum.Defense),
		"worker_slots":       document.Int(sum.WorkerSlots),
		"relations":          relations,
		"relation_statuses":  statuses,
		"active_research":    document.String(sum.ActiveResearch),
		"research_remaining": document.Int(sum.ResearchRemaining),
		"available_research": available,
		"research_effects":   effects,
	}
}
