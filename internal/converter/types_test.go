package converter

import (
	"math"
	"testing"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/napolitain/kingdom-core/internal/document"
)

func TestFromProto_Numbers(t *testing.T) {
	tests := []struct {
		name  string
		input float64
		want  document.Value
	}{
		{"whole", 12, document.Int(12)},
		{"negative whole", -3, document.Int(-3)},
		{"fraction", 2.5, document.Float(2.5)},
		{"beyond exact range", 1e17, document.Float(1e17)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromProto(structpb.NewNumberValue(tt.input))
			if !document.Equal(got, tt.want) {
				t.Errorf("FromProto(%v) = %#v, want %#v", tt.input, got, tt.want)
			}
		})
	}
}

func TestToProto_Scalars(t *testing.T) {
	if _, ok := ToProto(document.Float(math.NaN())).GetKind().(*structpb.Value_NullValue); !ok {
		t.Error("NaN should become null")
	}
	if v := ToProto(document.Int(7)); v.GetNumberValue() != 7 {
		t.Errorf("Int(7) = %v", v)
	}
	if v := ToProto(document.Int(1<<53 + 1)); v.GetStringValue() != "9007199254740993" {
		t.Errorf("Int(2^53+1) = %v, want decimal text", v)
	}
	if v := ToProto(document.Int(1 << 53)); v.GetNumberValue() != 1<<53 {
		t.Errorf("Int(2^53) = %v, want a number", v)
	}
	if v := ToProto(document.String("x")); v.GetStringValue() != "x" {
		t.Errorf("String = %v", v)
	}
	if _, ok := ToProto(nil).GetKind().(*structpb.Value_NullValue); !ok {
		t.Error("nil should become an explicit null value")
	}
}

func TestRoundTrip_Tree(t *testing.T) {
	doc := document.Map{
		"day":     document.Int(4),
		"ratio":   document.Float(0.25),
		"name":    document.String("north"),
		"open":    document.Bool(true),
		"nothing": document.Null{},
		"enemies": document.List{
			document.Map{"id": document.Int(1), "pos": document.Map{"x": document.Int(2), "y": document.Int(3)}},
		},
	}

	got := MapFromProto(MapToProto(doc))
	if !document.Equal(got, doc) {
		t.Errorf("round trip\n got: %#v\nwant: %#v", got, doc)
	}
}

func TestFromProto_Nil(t *testing.T) {
	if got := FromProto(nil); !document.Equal(got, document.Null{}) {
		t.Errorf("FromProto(nil) = %#v", got)
	}
	if got := MapFromProto(nil); len(got) != 0 {
		t.Errorf("MapFromProto(nil) = %#v", got)
	}
}
