package savegame

import (
	"reflect"
	"testing"

	"github.com/napolitain/kingdom-core/internal/document"
)

func TestMigrate_V1FlatResearch(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		wantActive    string
		wantProgress  int
		wantCompleted []string
	}{
		{
			name:          "list form",
			input:         `{"version": 1, "active_research": "irrigation", "research_progress": 2, "completed_research": ["crop_rotation"]}`,
			wantActive:    "irrigation",
			wantProgress:  2,
			wantCompleted: []string{"crop_rotation"},
		},
		{
			name:          "object form without version",
			input:         `{"completed_research": {"masonry": true, "fletching": false}}`,
			wantCompleted: []string{"masonry"},
		},
		{
			name:          "nested research wins over flat keys",
			input:         `{"version": 1, "research": {"active": "scribes", "progress": 0}, "active_research": "masonry"}`,
			wantActive:    "scribes",
			wantCompleted: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gs, err := Decode([]byte(tt.input))
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if gs.Research.Active != tt.wantActive || gs.Research.Progress != tt.wantProgress {
				t.Errorf("research = %q/%d, want %q/%d", gs.Research.Active, gs.Research.Progress, tt.wantActive, tt.wantProgress)
			}
			if got := gs.Research.Completed.Sorted(); !reflect.DeepEqual(got, tt.wantCompleted) {
				t.Errorf("completed = %v, want %v", got, tt.wantCompleted)
			}
		})
	}
}

func TestMigrate_LeavesInputUntouched(t *testing.T) {
	doc := document.Map{
		keyVersion:       document.Int(1),
		v1ActiveResearch: document.String("masonry"),
	}
	if _, err := Deserialize(doc); err != nil {
		t.Fatal(err)
	}
	if !doc.Has(v1ActiveResearch) || doc.Has(keyResearch) {
		t.Errorf("migration mutated caller document: %v", doc)
	}
}

func TestMigrate_WrittenSavesAreCurrent(t *testing.T) {
	gs, err := Decode([]byte(`{"version": 1, "active_research": "masonry", "research_progress": 1}`))
	if err != nil {
		t.Fatal(err)
	}
	doc := Serialize(gs)
	if doc.Int(keyVersion, 0) != Version {
		t.Errorf("re-saved version = %v, want %d", doc[keyVersion], Version)
	}
	if doc.Has(v1ActiveResearch) {
		t.Error("re-saved document still carries flat research keys")
	}
	research, _ := doc.Map(keyResearch)
	if research.String("active", "") != "masonry" {
		t.Errorf("research = %v", research)
	}
}
