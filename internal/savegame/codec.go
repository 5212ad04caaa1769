// Package savegame converts the game state aggregate to and from versioned save documents
package savegame

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/napolitain/kingdom-core/internal/diplomacy"
	"github.com/napolitain/kingdom-core/internal/document"
	"github.com/napolitain/kingdom-core/internal/models"
)

// Version is the save format this build writes and the newest it reads
const Version = 2

// legacyVersion is assumed when a document carries no version tag
const legacyVersion = 1

// Document keys
const (
	keyVersion             = "version"
	keyDay                 = "day"
	keyPhase               = "phase"
	keyAP                  = "ap"
	keyAPMax               = "ap_max"
	keyHP                  = "hp"
	keyThreat              = "threat"
	keyResources           = "resources"
	keyBuildings           = "buildings"
	keyMapW                = "map_w"
	keyMapH                = "map_h"
	keyBasePos             = "base_pos"
	keyCursorPos           = "cursor_pos"
	keyTerrain             = "terrain"
	keyStructures          = "structures"
	keyStructureLevels     = "structure_levels"
	keyDiscovered          = "discovered"
	keyNightPrompt         = "night_prompt"
	keyNightSpawnRemaining = "night_spawn_remaining"
	keyNightWaveTotal      = "night_wave_total"
	keyEnemies             = "enemies"
	keyEnemyNextID         = "enemy_next_id"
	keyLastPathOpen        = "last_path_open"
	keyRNGSeed             = "rng_seed"
	keyRNGState            = "rng_state"
	keyLessonID            = "lesson_id"
	keyGold                = "gold"
	keyKingdomUpgrades     = "purchased_kingdom_upgrades"
	keyUnitUpgrades        = "purchased_unit_upgrades"
	keyRelations           = "faction_relations"
	keyResearch            = "research"
	keyMetrics             = "typing_metrics"
	keySpawnTimer          = "spawn_timer"
	keyWaveCooldown        = "wave_cooldown"
)

// Serialize writes every field of gs into a version-tagged document.
// Integer-keyed maps get text keys and sets become ascending lists.
func Serialize(gs *models.GameState) document.Map {
	return document.Map{
		keyVersion: document.Int(Version),
		keyDay:     document.Int(gs.Day),
		keyPhase:   document.String(gs.Phase),
		keyAP:      document.Int(gs.AP),
		keyAPMax:   document.Int(gs.APMax),
		keyHP:      document.Int(gs.HP),
		keyThreat:  document.Int(gs.Threat),

		keyResources: resourcesToDoc(gs.Resources),
		keyBuildings: buildingsToDoc(gs.Buildings),

		keyMapW:            document.Int(gs.MapW),
		keyMapH:            document.Int(gs.MapH),
		keyBasePos:         posToDoc(gs.BasePos),
		keyCursorPos:       posToDoc(gs.CursorPos),
		keyTerrain:         stringsToList(gs.Terrain),
		keyStructures:      structuresToDoc(gs.Structures),
		keyStructureLevels: levelsToDoc(gs.StructureLevels),
		keyDiscovered:      intsToList(gs.Discovered.Sorted()),

		keyNightPrompt:         document.String(gs.NightPrompt),
		keyNightSpawnRemaining: document.Int(gs.NightSpawnRemaining),
		keyNightWaveTotal:      document.Int(gs.NightWaveTotal),
		keyEnemies:             enemiesToList(gs.Enemies),
		keyEnemyNextID:         document.Int(gs.EnemyNextID),
		keyLastPathOpen:        document.Bool(gs.LastPathOpen),

		keyRNGSeed:  document.String(gs.RNGSeed),
		keyRNGState: document.Int(gs.RNGState),

		keyLessonID:        document.String(gs.LessonID),
		keyGold:            document.Int(gs.Gold),
		keyKingdomUpgrades: stringsToList(gs.PurchasedKingdomUpgrades),
		keyUnitUpgrades:    stringsToList(gs.PurchasedUnitUpgrades),

		keyRelations: relationsToDoc(gs.Relations),
		keyResearch: document.Map{
			"active":    document.String(gs.Research.Active),
			"progress":  document.Int(gs.Research.Progress),
			"completed": stringsToList(gs.Research.Completed.Sorted()),
		},
		keyMetrics: document.Map{
			"chars_typed":       document.Int(gs.Metrics.CharsTyped),
			"errors":            document.Int(gs.Metrics.Errors),
			"words_typed":       document.Int(gs.Metrics.WordsTyped),
			"perfect_words":     document.Int(gs.Metrics.PerfectWords),
			"best_combo":        document.Int(gs.Metrics.BestCombo),
			"battle_start_msec": document.Int(gs.Metrics.BattleStartMsec),
		},

		keySpawnTimer:   document.Float(gs.SpawnTimer),
		keyWaveCooldown: document.Float(gs.WaveCooldown),
	}
}

// Deserialize rebuilds a game state from doc. Missing fields take their
// defaults and mistyped fields are coerced. The only failure is a document
// written by a newer format version, in which case no state is returned.
func Deserialize(doc document.Map) (*models.GameState, error) {
	version := readVersion(doc)
	if version > Version {
		return nil, &VersionError{Found: version, Supported: Version}
	}
	doc = migrate(doc, int64(math.Max(math.Floor(version), legacyVersion-1)))

	gs := models.NewGameState()

	gs.Day = doc.Int(keyDay, models.DefaultDay)
	gs.Phase = doc.String(keyPhase, models.DefaultPhase)
	gs.APMax = doc.Int(keyAPMax, models.DefaultAPMax)
	gs.AP = doc.Int(keyAP, gs.APMax)
	gs.HP = doc.Int(keyHP, models.DefaultHP)
	gs.Threat = doc.Int(keyThreat, 0)

	readResources(doc, gs.Resources)
	readBuildings(doc, gs.Buildings)

	gs.MapW = doc.Int(keyMapW, models.DefaultMapW)
	gs.MapH = doc.Int(keyMapH, models.DefaultMapH)
	gs.BasePos = readPos(doc, keyBasePos, gs)
	gs.CursorPos = readPos(doc, keyCursorPos, gs)
	gs.Terrain = readTerrain(doc)
	gs.Structures = readStructures(doc)
	gs.StructureLevels = readLevels(doc)
	gs.Discovered = readDiscovered(doc)

	gs.NightPrompt = doc.String(keyNightPrompt, "")
	gs.NightSpawnRemaining = doc.Int(keyNightSpawnRemaining, 0)
	gs.NightWaveTotal = doc.Int(keyNightWaveTotal, 0)
	gs.Enemies = readEnemies(doc)
	gs.EnemyNextID = doc.Int(keyEnemyNextID, models.DefaultEnemyNextID)
	gs.LastPathOpen = doc.Bool(keyLastPathOpen, true)

	gs.RNGSeed = doc.String(keyRNGSeed, models.DefaultRNGSeed)
	gs.RNGState = doc.Int64(keyRNGState, 0)

	gs.LessonID = doc.String(keyLessonID, models.DefaultLessonID)
	if gs.LessonID == "" {
		gs.LessonID = models.DefaultLessonID
	}
	gs.Gold = doc.Int(keyGold, 0)
	gs.PurchasedKingdomUpgrades = readStrings(doc, keyKingdomUpgrades)
	gs.PurchasedUnitUpgrades = readStrings(doc, keyUnitUpgrades)

	gs.Relations = readRelations(doc)
	gs.Research = readResearch(doc)
	gs.Metrics = readMetrics(doc)

	gs.SpawnTimer = doc.Float(keySpawnTimer, 0)
	gs.WaveCooldown = doc.Float(keyWaveCooldown, 0)

	return gs, nil
}

// readVersion returns the numeric version tag. Tags that overflow a float
// read as infinite so they still compare newer. Absent or non-numeric tags are legacy.
func readVersion(doc document.Map) float64 {
	v, ok := doc[keyVersion]
	if !ok {
		return legacyVersion
	}
	if s, isText := v.(document.String); isText {
		f, err := strconv.ParseFloat(strings.TrimSpace(string(s)), 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return legacyVersion
		}
		v = document.Float(f)
	}
	f, ok := document.ToFloat(v)
	if !ok || math.IsNaN(f) {
		return legacyVersion
	}
	return f
}

// Encode renders gs as indented save text
func Encode(gs *models.GameState) []byte {
	return document.MarshalIndent(Serialize(gs), "  ")
}

// Decode parses save text and deserializes it
func Decode(data []byte) (*models.GameState, error) {
	doc, err := document.ParseMap(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return Deserialize(doc)
}

func resourcesToDoc(res map[models.ResourceType]int) document.Map {
	m := make(document.Map, len(res))
	for rt, v := range res {
		m[string(rt)] = document.Int(v)
	}
	return m
}

func buildingsToDoc(b map[models.BuildingType]int) document.Map {
	m := make(document.Map, len(b))
	for bt, v := range b {
		m[string(bt)] = document.Int(v)
	}
	return m
}

func relationsToDoc(r map[string]int) document.Map {
	m := make(document.Map, len(r))
	for id, v := range r {
		m[id] = document.Int(v)
	}
	return m
}

func posToDoc(p models.GridPos) document.Map {
	return document.Map{"x": document.Int(p.X), "y": document.Int(p.Y)}
}

func structuresToDoc(s map[int]string) document.Map {
	m := make(document.Map, len(s))
	for idx, kind := range s {
		m[strconv.Itoa(idx)] = document.String(kind)
	}
	return m
}

func levelsToDoc(l map[int]int) document.Map {
	m := make(document.Map, len(l))
	for idx, level := range l {
		m[strconv.Itoa(idx)] = document.Int(level)
	}
	return m
}

func stringsToList(s []string) document.List {
	l := make(document.List, len(s))
	for i, v := range s {
		l[i] = document.String(v)
	}
	return l
}

func intsToList(n []int) document.List {
	l := make(document.List, len(n))
	for i, v := range n {
		l[i] = document.Int(v)
	}
	return l
}

func enemiesToList(enemies []document.Map) document.List {
	l := make(document.List, 0, len(enemies))
	for _, e := range enemies {
		if e == nil {
			e = document.Map{}
		}
		l = append(l, document.Clone(e))
	}
	return l
}

func readResources(doc document.Map, out map[models.ResourceType]int) {
	m, ok := doc.Map(keyResources)
	if !ok {
		return
	}
	for k, v := range m {
		if n, ok := document.ToInt(v); ok {
			out[models.ResourceType(k)] = int(n)
		}
	}
}

func readBuildings(doc document.Map, out map[models.BuildingType]int) {
	m, ok := doc.Map(keyBuildings)
	if !ok {
		return
	}
	for k, v := range m {
		if n, ok := document.ToInt(v); ok {
			out[models.BuildingType(k)] = int(n)
		}
	}
}

// readPos falls back to the map centre when the record is missing,
// malformed or off the map.
func readPos(doc document.Map, key string, gs *models.GameState) models.GridPos {
	center := models.MapCenter(gs.MapW, gs.MapH)
	m, ok := doc.Map(key)
	if !ok {
		return center
	}
	x, okX := document.ToInt(m["x"])
	y, okY := document.ToInt(m["y"])
	if !okX || !okY {
		return center
	}
	p := models.GridPos{X: int(x), Y: int(y)}
	if !gs.InBounds(p) {
		return center
	}
	return p
}

// readTerrain keeps list positions aligned with tile indices, so
// unreadable entries become empty strings rather than being dropped.
func readTerrain(doc document.Map) []string {
	l, ok := doc.List(keyTerrain)
	if !ok {
		return []string{}
	}
	out := make([]string, len(l))
	for i, v := range l {
		out[i], _ = document.ToString(v)
	}
	return out
}

func readStrings(doc document.Map, key string) []string {
	out := []string{}
	l, ok := doc.List(key)
	if !ok {
		return out
	}
	for _, v := range l {
		if s, ok := document.ToString(v); ok {
			out = append(out, s)
		}
	}
	return out
}

// parseTileKey converts a text map key back to a tile index
func parseTileKey(k string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(k))
	if err != nil {
		return 0, false
	}
	return n, true
}

func readStructures(doc document.Map) map[int]string {
	out := make(map[int]string)
	m, ok := doc.Map(keyStructures)
	if !ok {
		return out
	}
	for k, v := range m {
		idx, ok := parseTileKey(k)
		if !ok {
			continue
		}
		if kind, ok := document.ToString(v); ok {
			out[idx] = kind
		}
	}
	return out
}

func readLevels(doc document.Map) map[int]int {
	out := make(map[int]int)
	m, ok := doc.Map(keyStructureLevels)
	if !ok {
		return out
	}
	for k, v := range m {
		idx, ok := parseTileKey(k)
		if !ok {
			continue
		}
		if level, ok := document.ToInt(v); ok {
			out[idx] = int(level)
		}
	}
	return out
}

// readDiscovered accepts the list form and the older {"index": true} object form
func readDiscovered(doc document.Map) models.IntSet {
	out := make(models.IntSet)
	switch d := doc[keyDiscovered].(type) {
	case document.List:
		for _, v := range d {
			if n, ok := document.ToInt(v); ok {
				out.Add(int(n))
			}
		}
	case document.Map:
		for k, v := range d {
			idx, ok := parseTileKey(k)
			if !ok {
				continue
			}
			if on, ok := document.ToBool(v); ok && on {
				out.Add(idx)
			}
		}
	}
	return out
}

func readEnemies(doc document.Map) []document.Map {
	out := []document.Map{}
	l, ok := doc.List(keyEnemies)
	if !ok {
		return out
	}
	for _, v := range l {
		if m, ok := v.(document.Map); ok {
			out = append(out, document.Clone(m).(document.Map))
		}
	}
	return out
}

func readRelations(doc document.Map) map[string]int {
	out := make(map[string]int)
	m, ok := doc.Map(keyRelations)
	if !ok {
		return out
	}
	for id, v := range m {
		if n, ok := document.ToInt(v); ok {
			out[id] = diplomacy.Clamp(clampInt(n))
		}
	}
	return out
}

func readResearch(doc document.Map) models.ResearchProgress {
	rp := models.ResearchProgress{Completed: make(models.StringSet)}
	m, ok := doc.Map(keyResearch)
	if !ok {
		return rp
	}

	if l, ok := m.List("completed"); ok {
		for _, v := range l {
			if id, ok := document.ToString(v); ok && id != "" {
				rp.Completed.Add(id)
			}
		}
	}

	rp.Active = m.String("active", "")
	rp.Progress = m.Int("progress", 0)
	if rp.Progress < 0 {
		rp.Progress = 0
	}
	if rp.Active == "" || rp.Completed.Has(rp.Active) {
		rp.Active = ""
		rp.Progress = 0
	}
	return rp
}

func readMetrics(doc document.Map) models.TypingMetrics {
	m, ok := doc.Map(keyMetrics)
	if !ok {
		return models.TypingMetrics{}
	}
	return models.TypingMetrics{
		CharsTyped:      m.Int("chars_typed", 0),
		Errors:          m.Int("errors", 0),
		WordsTyped:      m.Int("words_typed", 0),
		PerfectWords:    m.Int("perfect_words", 0),
		BestCombo:       m.Int("best_combo", 0),
		BattleStartMsec: m.Int64("battle_start_msec", 0),
	}
}

// clampInt narrows n without wrapping on 32-bit platforms
func clampInt(n int64) int {
	const maxInt = int64(^uint(0) >> 1)
	if n > maxInt {
		return int(maxInt)
	}
	if n < -maxInt-1 {
		return int(-maxInt - 1)
	}
	return int(n)
}
