package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/napolitain/kingdom-core/internal/savegame"
	"github.com/napolitain/kingdom-core/internal/store"
)

// run executes one command line with the global flags placed first, so
// negative numeric arguments after "--" are not read as flags
func run(t *testing.T, common []string, step ...string) error {
	t.Helper()
	args := append(append([]string{}, common...), step...)
	cmd := newRootCmd()
	cmd.SetArgs(args)
	return cmd.Execute()
}

func TestCommandFlow(t *testing.T) {
	dir := t.TempDir()
	save := filepath.Join(dir, "kingdom.json")
	db := filepath.Join(dir, "kingdom.db")
	common := []string{"--data", "../../data", "--save", save, "-q"}

	steps := [][]string{
		{"new", "--seed", "abc"},
		{"relation", "river_league", "trade"},
		{"relation", "--", "northern_clans", "-25"},
		{"end-day", "--days", "2"},
		{"status"},
		{"research", "list"},
		{"slot", "save", "first", "--db", db},
		{"slot", "list", "--db", db},
		{"export", "--proto-json"},
	}
	for _, step := range steps {
		if err := run(t, common, step...); err != nil {
			t.Fatalf("%v: %v", step, err)
		}
	}

	state, err := savegame.LoadFromFile(save)
	if err != nil {
		t.Fatal(err)
	}
	if state.Day != 3 {
		t.Errorf("day = %d, want 3", state.Day)
	}
	if state.RNGSeed != "abc" {
		t.Errorf("seed = %q", state.RNGSeed)
	}
	// baseline 20, +10 trade, two days of decay
	if state.Relations["river_league"] != 28 {
		t.Errorf("river_league = %d, want 28", state.Relations["river_league"])
	}
	// baseline -10, -25, two days of decay
	if state.Relations["northern_clans"] != -33 {
		t.Errorf("northern_clans = %d, want -33", state.Relations["northern_clans"])
	}

	if err := run(t, common, "end-day"); err != nil {
		t.Fatal(err)
	}
	if err := run(t, common, "slot", "load", "first", "--db", db); err != nil {
		t.Fatal(err)
	}
	restored, err := savegame.LoadFromFile(save)
	if err != nil {
		t.Fatal(err)
	}
	if restored.Day != 3 {
		t.Errorf("restored day = %d, want 3", restored.Day)
	}
}

func TestCommandErrors(t *testing.T) {
	dir := t.TempDir()
	save := filepath.Join(dir, "kingdom.json")
	common := []string{"--data", "../../data", "--save", save, "-q"}

	if err := run(t, common, "status"); !errors.Is(err, savegame.ErrNotFound) {
		t.Errorf("status without save: %v, want ErrNotFound", err)
	}

	if err := run(t, common, "new"); err != nil {
		t.Fatal(err)
	}
	if err := run(t, common, "new"); err == nil {
		t.Error("second new without --force should fail")
	}

	failing := [][]string{
		{"relation", "nobody", "trade"},
		{"relation", "river_league", "hug"},
		{"build", "castle_of_glass"},
		{"build", "barracks"},
		{"research", "start", "reinforced_walls"},
		{"end-day", "--days", "0"},
	}
	for _, step := range failing {
		if err := run(t, common, step...); err == nil {
			t.Errorf("%v should fail", step)
		}
	}

	if err := os.WriteFile(save, []byte(`{"version": 9}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := run(t, common, "status"); !errors.Is(err, savegame.ErrVersionTooNew) {
		t.Errorf("status on future save: %v, want ErrVersionTooNew", err)
	}

	db := filepath.Join(dir, "kingdom.db")
	if err := run(t, common, "slot", "delete", "ghost", "--db", db); !errors.Is(err, store.ErrSlotNotFound) {
		t.Errorf("slot delete ghost: %v, want ErrSlotNotFound", err)
	}
}
