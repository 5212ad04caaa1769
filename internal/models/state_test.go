package models

import (
	"reflect"
	"testing"
)

func TestNewGameStateDefaults(t *testing.T) {
	gs := NewGameState()

	if gs.Day != 1 || gs.Phase != "day" || gs.AP != gs.APMax || gs.APMax != 3 || gs.HP != 10 {
		t.Errorf("scalar defaults = %+v", gs)
	}
	if gs.EnemyNextID != 1 || !gs.LastPathOpen || gs.RNGSeed != "default" || gs.LessonID != "full_alpha" {
		t.Errorf("session defaults = %+v", gs)
	}

	for _, rt := range AllResourceTypes() {
		if v, ok := gs.Resources[rt]; !ok || v != 0 {
			t.Errorf("resource %s = %d (present %v), want 0", rt, v, ok)
		}
	}

	center := GridPos{X: 8, Y: 5}
	if gs.BasePos != center || gs.CursorPos != center {
		t.Errorf("positions = %v/%v, want %v", gs.BasePos, gs.CursorPos, center)
	}
	if gs.Research.Completed == nil || gs.Relations == nil || gs.Discovered == nil {
		t.Error("collections should be allocated")
	}
}

func TestMapCenter(t *testing.T) {
	tests := []struct {
		w, h int
		want GridPos
	}{
		{16, 10, GridPos{8, 5}},
		{1, 1, GridPos{0, 0}},
		{7, 3, GridPos{3, 1}},
	}
	for _, tt := range tests {
		if got := MapCenter(tt.w, tt.h); got != tt.want {
			t.Errorf("MapCenter(%d, %d) = %v, want %v", tt.w, tt.h, got, tt.want)
		}
	}
}

func TestInBounds(t *testing.T) {
	gs := NewGameState()

	for _, p := range []GridPos{{-1, 0}, {0, -1}, {16, 0}, {0, 10}} {
		if gs.InBounds(p) {
			t.Errorf("%v should be out of bounds", p)
		}
	}
	if !gs.InBounds(GridPos{15, 9}) {
		t.Error("corner tile should be in bounds")
	}
}

func TestSetsSorted(t *testing.T) {
	ints := IntSet{}
	for _, n := range []int{9, 2, 5, 2} {
		ints.Add(n)
	}
	if got := ints.Sorted(); !reflect.DeepEqual(got, []int{2, 5, 9}) {
		t.Errorf("IntSet.Sorted = %v", got)
	}

	ids := StringSet{}
	ids.Add("b")
	ids.Add("a")
	if got := ids.Sorted(); !reflect.DeepEqual(got, []string{"a", "b"}) || !ids.Has("a") || ids.Has("c") {
		t.Errorf("StringSet = %v", got)
	}
}

func TestIsResourceType(t *testing.T) {
	for _, rt := range AllResourceTypes() {
		if !IsResourceType(rt) {
			t.Errorf("%s should be recognized", rt)
		}
	}
	if IsResourceType("gold") {
		t.Error("gold is tracked separately, not a resource kind")
	}
}
