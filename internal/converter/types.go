// Package converter provides conversions between document trees and protobuf struct values
package converter

import (
	"math"
	"strconv"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/napolitain/kingdom-core/internal/document"
)

// maxExactInt is the largest magnitude a float64 holds without losing integer precision
const maxExactInt = 1 << 53

// ToProto converts a document value to a protobuf value. Numbers become doubles
// and non-finite floats become null. Integers beyond exact double range are sent
// as decimal text, which the save codec reads back as integers.
func ToProto(v document.Value) *structpb.Value {
	switch x := v.(type) {
	case document.Int:
		if x > maxExactInt || x < -maxExactInt {
			return structpb.NewStringValue(strconv.FormatInt(int64(x), 10))
		}
		return structpb.NewNumberValue(float64(x))
	case document.Float:
		f := float64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return structpb.NewNullValue()
		}
		return structpb.NewNumberValue(f)
	case document.String:
		return structpb.NewStringValue(string(x))
	case document.Bool:
		return structpb.NewBoolValue(bool(x))
	case document.Map:
		return structpb.NewStructValue(MapToProto(x))
	case document.List:
		values := make([]*structpb.Value, len(x))
		for i, e := range x {
			values[i] = ToProto(e)
		}
		return structpb.NewListValue(&structpb.ListValue{Values: values})
	}
	return structpb.NewNullValue()
}

// FromProto converts a protobuf value to a document value. Integral numbers
// within exact float range become Int.
func FromProto(v *structpb.Value) document.Value {
	if v == nil {
		return document.Null{}
	}
	switch k := v.GetKind().(type) {
	case *structpb.Value_NumberValue:
		return numberFromProto(k.NumberValue)
	case *structpb.Value_StringValue:
		return document.String(k.StringValue)
	case *structpb.Value_BoolValue:
		return document.Bool(k.BoolValue)
	case *structpb.Value_StructValue:
		return MapFromProto(k.StructValue)
	case *structpb.Value_ListValue:
		values := k.ListValue.GetValues()
		l := make(document.List, len(values))
		for i, e := range values {
			l[i] = FromProto(e)
		}
		return l
	}
	return document.Null{}
}

func numberFromProto(f float64) document.Value {
	if f == math.Trunc(f) && math.Abs(f) <= maxExactInt {
		return document.Int(int64(f))
	}
	return document.Float(f)
}

// MapToProto converts a document object to a protobuf struct
func MapToProto(m document.Map) *structpb.Struct {
	fields := make(map[string]*structpb.Value, len(m))
	for k, e := range m {
		fields[k] = ToProto(e)
	}
	return &structpb.Struct{Fields: fields}
}

// MapFromProto converts a protobuf struct to a document object
func MapFromProto(s *structpb.Struct) document.Map {
	m := make(document.Map, len(s.GetFields()))
	for k, e := range s.GetFields() {
		m[k] = FromProto(e)
	}
	return m
}
