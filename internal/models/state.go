package models

import (
	"sort"

	"github.com/napolitain/kingdom-core/internal/document"
)

// Defaults applied to a fresh game and to fields missing from a save
const (
	DefaultDay         = 1
	DefaultPhase       = "day"
	DefaultAPMax       = 3
	DefaultHP          = 10
	DefaultMapW        = 16
	DefaultMapH        = 10
	DefaultEnemyNextID = 1
	DefaultRNGSeed     = "default"
	DefaultLessonID    = "full_alpha"
)

// GridPos is a tile coordinate
type GridPos struct {
	X int
	Y int
}

// IntSet is a set of integers
type IntSet map[int]struct{}

// Add inserts n
func (s IntSet) Add(n int) {
	s[n] = struct{}{}
}

// Has reports whether n is in the set
func (s IntSet) Has(n int) bool {
	_, ok := s[n]
	return ok
}

// Sorted returns the members in ascending order
func (s IntSet) Sorted() []int {
	out := make([]int, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// StringSet is a set of identifiers
type StringSet map[string]struct{}

// Add inserts id
func (s StringSet) Add(id string) {
	s[id] = struct{}{}
}

// Has reports whether id is in the set
func (s StringSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Sorted returns the members in ascending order
func (s StringSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// ResearchProgress is the runtime state of the research tree.
// Active and Completed are disjoint; Progress counts finished waves of Active.
type ResearchProgress struct {
	Active    string // empty when idle
	Progress  int
	Completed StringSet
}

// TypingMetrics tracks the player's typing performance for the current battle
type TypingMetrics struct {
	CharsTyped      int
	Errors          int
	WordsTyped      int
	PerfectWords    int
	BestCombo       int
	BattleStartMsec int64
}

// GameState is the aggregate holding all mutable state of one game session
type GameState struct {
	Day    int
	Phase  string
	AP     int
	APMax  int
	HP     int
	Threat int

	Resources map[ResourceType]int
	Buildings map[BuildingType]int

	MapW            int
	MapH            int
	BasePos         GridPos
	CursorPos       GridPos
	Terrain         []string
	Structures      map[int]string // tile index -> structure kind
	StructureLevels map[int]int    // tile index -> level
	Discovered      IntSet

	NightPrompt         string
	NightSpawnRemaining int
	NightWaveTotal      int
	Enemies             []document.Map
	EnemyNextID         int
	LastPathOpen        bool

	RNGSeed  string
	RNGState int64

	LessonID                 string
	Gold                     int
	PurchasedKingdomUpgrades []string
	PurchasedUnitUpgrades    []string

	Relations map[string]int
	Research  ResearchProgress
	Metrics   TypingMetrics

	SpawnTimer   float64
	WaveCooldown float64
}

// NewGameState creates a game state with every field at its default
func NewGameState() *GameState {
	gs := &GameState{
		Day:                      DefaultDay,
		Phase:                    DefaultPhase,
		AP:                       DefaultAPMax,
		APMax:                    DefaultAPMax,
		HP:                       DefaultHP,
		Resources:                make(map[ResourceType]int),
		Buildings:                make(map[BuildingType]int),
		MapW:                     DefaultMapW,
		MapH:                     DefaultMapH,
		Terrain:                  []string{},
		Structures:               make(map[int]string),
		StructureLevels:          make(map[int]int),
		Discovered:               make(IntSet),
		Enemies:                  []document.Map{},
		EnemyNextID:              DefaultEnemyNextID,
		LastPathOpen:             true,
		RNGSeed:                  DefaultRNGSeed,
		LessonID:                 DefaultLessonID,
		PurchasedKingdomUpgrades: []string{},
		PurchasedUnitUpgrades:    []string{},
		Relations:                make(map[string]int),
		Research:                 ResearchProgress{Completed: make(StringSet)},
	}
	for _, rt := range AllResourceTypes() {
		gs.Resources[rt] = 0
	}
	gs.BasePos = MapCenter(gs.MapW, gs.MapH)
	gs.CursorPos = gs.BasePos
	return gs
}

// MapCenter returns the geometric centre tile of a w x h map
func MapCenter(w, h int) GridPos {
	return GridPos{X: w / 2, Y: h / 2}
}

// InBounds reports whether p lies on the map
func (gs *GameState) InBounds(p GridPos) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < gs.MapW && p.Y < gs.MapH
}
