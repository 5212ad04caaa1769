package savegame

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/napolitain/kingdom-core/internal/document"
	"github.com/napolitain/kingdom-core/internal/models"
)

func populatedState() *models.GameState {
	gs := models.NewGameState()
	gs.Day = 12
	gs.Phase = "night"
	gs.AP = 1
	gs.APMax = 4
	gs.HP = 7
	gs.Threat = 3
	gs.Resources[models.Wood] = 40
	gs.Resources[models.Food] = 15
	gs.Buildings["farm"] = 3
	gs.Buildings["tower"] = 1
	gs.MapW = 20
	gs.MapH = 12
	gs.BasePos = models.GridPos{X: 3, Y: 4}
	gs.CursorPos = models.GridPos{X: 0, Y: 11}
	gs.Terrain = []string{"plains", "forest", "", "water"}
	gs.Structures[5] = "wall"
	gs.Structures[17] = "tower"
	gs.StructureLevels[17] = 2
	gs.Discovered.Add(9)
	gs.Discovered.Add(1)
	gs.Discovered.Add(4)
	gs.NightPrompt = "castle"
	gs.NightSpawnRemaining = 2
	gs.NightWaveTotal = 6
	gs.Enemies = []document.Map{
		{"id": document.Int(1), "kind": document.String("raider"), "hp": document.Int(3),
			"pos": document.Map{"x": document.Int(1), "y": document.Int(2)}, "speed": document.Float(1.5)},
	}
	gs.EnemyNextID = 2
	gs.LastPathOpen = false
	gs.RNGSeed = "seed-42"
	gs.RNGState = 9876543210
	gs.LessonID = "home_row"
	gs.Gold = 130
	gs.PurchasedKingdomUpgrades = []string{"granary"}
	gs.PurchasedUnitUpgrades = []string{"sharp_arrows", "thick_armor"}
	gs.Relations["north"] = 45
	gs.Relations["south"] = -80
	gs.Research.Active = "irrigation"
	gs.Research.Progress = 2
	gs.Research.Completed.Add("crop_rotation")
	gs.Metrics = models.TypingMetrics{CharsTyped: 500, Errors: 12, WordsTyped: 90, PerfectWords: 70, BestCombo: 14, BattleStartMsec: 123456}
	gs.SpawnTimer = 2.25
	gs.WaveCooldown = 4
	return gs
}

func TestRoundTrip(t *testing.T) {
	tests := map[string]*models.GameState{
		"default":   models.NewGameState(),
		"populated": populatedState(),
	}

	for name, want := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := Decode(Encode(want))
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("round trip mismatch\n got: %+v\nwant: %+v", got, want)
			}
		})
	}
}

func TestSerialize_Shape(t *testing.T) {
	doc := Serialize(populatedState())

	if doc.Int(keyVersion, 0) != Version {
		t.Errorf("version = %v, want %d", doc[keyVersion], Version)
	}

	structures, ok := doc.Map(keyStructures)
	if !ok || structures.String("17", "") != "tower" {
		t.Errorf("structures should use text keys, got %v", doc[keyStructures])
	}

	discovered, _ := doc.List(keyDiscovered)
	want := document.List{document.Int(1), document.Int(4), document.Int(9)}
	if !document.Equal(discovered, want) {
		t.Errorf("discovered = %v, want ascending %v", discovered, want)
	}

	if _, ok := doc[keySpawnTimer].(document.Float); !ok {
		t.Errorf("spawn_timer kind = %s, want float", document.KindOf(doc[keySpawnTimer]))
	}
}

func TestDeserialize_EmptyDocumentGivesDefaults(t *testing.T) {
	got, err := Deserialize(document.Map{})
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if want := models.NewGameState(); !reflect.DeepEqual(got, want) {
		t.Errorf("empty document\n got: %+v\nwant: %+v", got, want)
	}
}

func TestDeserialize_Defaults(t *testing.T) {
	gs, err := Deserialize(document.Map{
		keyAPMax: document.Int(5),
		keyMapW:  document.Int(30),
		keyMapH:  document.Int(8),
	})
	if err != nil {
		t.Fatal(err)
	}

	if gs.AP != 5 {
		t.Errorf("ap = %d, want ap_max 5", gs.AP)
	}
	center := models.GridPos{X: 15, Y: 4}
	if gs.BasePos != center || gs.CursorPos != center {
		t.Errorf("positions = %v/%v, want centre %v", gs.BasePos, gs.CursorPos, center)
	}
	if gs.Day != 1 || gs.Phase != "day" || gs.HP != 10 || gs.EnemyNextID != 1 {
		t.Errorf("scalar defaults wrong: %+v", gs)
	}
	if !gs.LastPathOpen || gs.RNGSeed != "default" || gs.LessonID != "full_alpha" {
		t.Errorf("flag defaults wrong: %+v", gs)
	}
	for _, rt := range models.AllResourceTypes() {
		if v, ok := gs.Resources[rt]; !ok || v != 0 {
			t.Errorf("resource %s = %d (present %v), want 0", rt, v, ok)
		}
	}
}

func TestDeserialize_PositionOffMap(t *testing.T) {
	gs, err := Deserialize(document.Map{
		keyMapW:      document.Int(10),
		keyMapH:      document.Int(6),
		keyBasePos:   document.Map{"x": document.Int(10), "y": document.Int(0)},
		keyCursorPos: document.Map{"x": document.Int(-1), "y": document.Int(2)},
	})
	if err != nil {
		t.Fatal(err)
	}
	center := models.GridPos{X: 5, Y: 3}
	if gs.BasePos != center || gs.CursorPos != center {
		t.Errorf("positions = %v/%v, want centre %v", gs.BasePos, gs.CursorPos, center)
	}
}

func TestDeserialize_TypeDrift(t *testing.T) {
	doc, err := document.ParseMap([]byte(`{
		"day": 4.0,
		"hp": "8",
		"gold": 12.9,
		"last_path_open": 0,
		"resources": {"wood": "15", "stone": 3.7, "food": [1]},
		"base_pos": {"x": "2", "y": 5.0},
		"cursor_pos": {"x": 1},
		"structures": {"3": "wall", "abc": "tower", " 7 ": "gate"},
		"structure_levels": {"3": "2", "x1": 9},
		"discovered": [5, "2", 2.0, null],
		"faction_relations": {"north": 250, "south": "-140", "east": "friendly"},
		"spawn_timer": 3,
		"enemies": [{"id": 1}, "junk", 7]
	}`))
	if err != nil {
		t.Fatal(err)
	}

	gs, err := Deserialize(doc)
	if err != nil {
		t.Fatal(err)
	}

	if gs.Day != 4 || gs.HP != 8 || gs.Gold != 12 {
		t.Errorf("day/hp/gold = %d/%d/%d, want 4/8/12", gs.Day, gs.HP, gs.Gold)
	}
	if gs.LastPathOpen {
		t.Error("last_path_open 0 should read as false")
	}
	if gs.Resources[models.Wood] != 15 || gs.Resources[models.Stone] != 3 || gs.Resources[models.Food] != 0 {
		t.Errorf("resources = %v", gs.Resources)
	}
	if gs.BasePos != (models.GridPos{X: 2, Y: 5}) {
		t.Errorf("base_pos = %v", gs.BasePos)
	}
	if gs.CursorPos != models.MapCenter(gs.MapW, gs.MapH) {
		t.Errorf("malformed cursor_pos should default to centre, got %v", gs.CursorPos)
	}
	wantStructures := map[int]string{3: "wall", 7: "gate"}
	if !reflect.DeepEqual(gs.Structures, wantStructures) {
		t.Errorf("structures = %v, want %v", gs.Structures, wantStructures)
	}
	if !reflect.DeepEqual(gs.StructureLevels, map[int]int{3: 2}) {
		t.Errorf("structure_levels = %v", gs.StructureLevels)
	}
	if got := gs.Discovered.Sorted(); !reflect.DeepEqual(got, []int{2, 5}) {
		t.Errorf("discovered = %v, want [2 5]", got)
	}
	if gs.Relations["north"] != 100 || gs.Relations["south"] != -100 {
		t.Errorf("relations not clamped: %v", gs.Relations)
	}
	if _, ok := gs.Relations["east"]; ok {
		t.Error("non-numeric relation should be dropped")
	}
	if gs.SpawnTimer != 3 {
		t.Errorf("spawn_timer = %v, want 3", gs.SpawnTimer)
	}
	if len(gs.Enemies) != 1 {
		t.Errorf("enemies = %v, want only the record", gs.Enemies)
	}
}

func TestDeserialize_DiscoveredObjectForm(t *testing.T) {
	gs, err := Deserialize(document.Map{
		keyDiscovered: document.Map{"4": document.Bool(true), "6": document.Bool(false), "x": document.Bool(true)},
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := gs.Discovered.Sorted(); !reflect.DeepEqual(got, []int{4}) {
		t.Errorf("discovered = %v, want [4]", got)
	}
}

func TestDeserialize_VersionTooNew(t *testing.T) {
	_, err := Decode([]byte(`{"version": 3, "day": 50}`))
	if !errors.Is(err, ErrVersionTooNew) {
		t.Fatalf("error = %v, want ErrVersionTooNew", err)
	}

	var verr *VersionError
	if !errors.As(err, &verr) {
		t.Fatalf("error %T is not *VersionError", err)
	}
	if verr.Found != 3 || verr.Supported != Version {
		t.Errorf("VersionError = %+v", verr)
	}
	if !strings.Contains(err.Error(), "please update") {
		t.Errorf("message %q should ask the player to update", err.Error())
	}
}

func TestDeserialize_VersionTooNew_OddTags(t *testing.T) {
	inputs := []string{
		`{"version": 1e300, "day": 50}`,
		`{"version": 99999999999999999999, "day": 50}`,
		`{"version": 2.5, "day": 50}`,
		`{"version": "1e30", "day": 50}`,
		`{"version": "1e400", "day": 50}`,
	}
	for _, in := range inputs {
		gs, err := Decode([]byte(in))
		if !errors.Is(err, ErrVersionTooNew) {
			t.Errorf("Decode(%s) error = %v, want ErrVersionTooNew", in, err)
		}
		if gs != nil {
			t.Errorf("Decode(%s) returned a state alongside the error", in)
		}
	}
}

func TestDeserialize_CurrentAndOlderVersionsAccepted(t *testing.T) {
	for _, v := range []int64{0, 1, 2} {
		if _, err := Deserialize(document.Map{keyVersion: document.Int(v)}); err != nil {
			t.Errorf("version %d rejected: %v", v, err)
		}
	}

	tags := []document.Value{
		document.Float(2.0),
		document.Float(1.5),
		document.String("2"),
		document.String("beta"),
		document.Null{},
		document.Float(-1e300),
	}
	for _, tag := range tags {
		if _, err := Deserialize(document.Map{keyVersion: tag}); err != nil {
			t.Errorf("version %v rejected: %v", tag, err)
		}
	}
}

func TestDecode_ParseErrors(t *testing.T) {
	inputs := []string{"", "{", `["not", "a", "map"]`, `{"day": 1} trailing`, "nul"}
	for _, in := range inputs {
		_, err := Decode([]byte(in))
		if !errors.Is(err, ErrParse) {
			t.Errorf("Decode(%q) error = %v, want ErrParse", in, err)
		}
	}
}

func TestDecode_DeepNestingIsParseError(t *testing.T) {
	n := 1 << 20
	data := `{"enemies":` + strings.Repeat("[", n) + strings.Repeat("]", n) + "}"
	if _, err := Decode([]byte(data)); !errors.Is(err, ErrParse) {
		t.Errorf("error = %v, want ErrParse", err)
	}
}

func TestDeserialize_ResearchSanitized(t *testing.T) {
	gs, err := Deserialize(document.Map{
		keyResearch: document.Map{
			"active":    document.String("masonry"),
			"progress":  document.Int(3),
			"completed": document.List{document.String("masonry"), document.String("")},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if gs.Research.Active != "" || gs.Research.Progress != 0 {
		t.Errorf("completed node left active: %+v", gs.Research)
	}
	if !gs.Research.Completed.Has("masonry") || gs.Research.Completed.Has("") {
		t.Errorf("completed = %v", gs.Research.Completed.Sorted())
	}
}

func TestDeserialize_DoesNotAliasEnemies(t *testing.T) {
	enemy := document.Map{"hp": document.Int(3)}
	doc := document.Map{keyEnemies: document.List{enemy}}

	gs, err := Deserialize(doc)
	if err != nil {
		t.Fatal(err)
	}
	gs.Enemies[0]["hp"] = document.Int(0)
	if enemy.Int("hp", -1) != 3 {
		t.Error("state enemy record aliases the input document")
	}
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kingdom.json")
	want := populatedState()

	if err := SaveToFile(path, want); err != nil {
		t.Fatalf("SaveToFile: %v", err)
	}
	got, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Error("file round trip mismatch")
	}
}

func TestLoadFromFile_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadFromFile(filepath.Join(dir, "missing.json")); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing file error = %v, want ErrNotFound", err)
	}

	if _, err := LoadFromFile(dir); !errors.Is(err, ErrIO) {
		t.Errorf("directory read error = %v, want ErrIO", err)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromFile(bad); !errors.Is(err, ErrParse) {
		t.Errorf("corrupt file error = %v, want ErrParse", err)
	}
}

func TestSaveToFile_BadDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "no", "such", "dir", "save.json")
	if err := SaveToFile(path, models.NewGameState()); !errors.Is(err, ErrIO) {
		t.Errorf("error = %v, want ErrIO", err)
	}
}

func FuzzDecode(f *testing.F) {
	f.Add(Encode(populatedState()))
	f.Add([]byte(`{"version": 1, "active_research": "a", "research_progress": "x"}`))
	f.Add([]byte(`{"structures": {"1": {}}, "discovered": {"a": 1}}`))
	f.Add([]byte(`{"version": 1e300}`))

	f.Fuzz(func(t *testing.T, data []byte) {
		gs, err := Decode(data)
		if err != nil {
			return
		}
		for id, v := range gs.Relations {
			if v < -100 || v > 100 {
				t.Fatalf("relation %s = %d out of range", id, v)
			}
		}
		if _, err := Decode(Encode(gs)); err != nil {
			t.Fatalf("re-encoded state failed to decode: %v", err)
		}
	})
}
