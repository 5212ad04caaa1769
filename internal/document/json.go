package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// ErrSyntax is returned when input is not a well-formed JSON document
var ErrSyntax = errors.New("malformed document")

// MaxDepth bounds object and list nesting, the same limit encoding/json applies
const MaxDepth = 10000

// Parse decodes JSON text into a value tree. Number literals without a fraction
// or exponent become Int when they fit in 64 bits; everything else becomes Float.
func Parse(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := parseValue(dec, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after document", ErrSyntax)
	}
	return v, nil
}

// ParseMap parses data and requires the root to be an object
func ParseMap(data []byte) (Map, error) {
	v, err := Parse(data)
	if err != nil {
		return nil, err
	}
	m, ok := v.(Map)
	if !ok {
		return nil, fmt.Errorf("%w: root is %s, want map", ErrSyntax, KindOf(v))
	}
	return m, nil
}

func parseValue(dec *json.Decoder, depth int) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		if depth >= MaxDepth {
			return nil, fmt.Errorf("nesting deeper than %d", MaxDepth)
		}
		switch t {
		case '{':
			m := make(Map)
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key is %T", keyTok)
				}
				v, err := parseValue(dec, depth+1)
				if err != nil {
					return nil, err
				}
				m[key] = v
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return m, nil
		case '[':
			l := List{}
			for dec.More() {
				v, err := parseValue(dec, depth+1)
				if err != nil {
					return nil, err
				}
				l = append(l, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return l, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %q", t)
	case json.Number:
		v := parseNumber(string(t))
		if f, ok := v.(Float); ok && math.IsInf(float64(f), 0) {
			return nil, fmt.Errorf("number %s out of range", t)
		}
		return v, nil
	case string:
		return String(t), nil
	case bool:
		return Bool(t), nil
	case nil:
		return Null{}, nil
	}
	return nil, fmt.Errorf("unexpected token %T", tok)
}

func parseNumber(lit string) Value {
	if !strings.ContainsAny(lit, ".eE") {
		if n, err := strconv.ParseInt(lit, 10, 64); err == nil {
			return Int(n)
		}
	}
	f, _ := strconv.ParseFloat(lit, 64)
	return Float(f)
}

// Marshal renders v as JSON with object keys sorted. Floats always carry a
// fraction or exponent so they parse back as Float; non-finite floats become null.
func Marshal(v Value) []byte {
	var buf bytes.Buffer
	writeValue(&buf, v, "", "")
	return buf.Bytes()
}

// MarshalIndent is Marshal with one indent level per nesting depth
func MarshalIndent(v Value, indent string) []byte {
	var buf bytes.Buffer
	writeValue(&buf, v, "\n", indent)
	buf.WriteByte('\n')
	return buf.Bytes()
}

func writeValue(buf *bytes.Buffer, v Value, prefix, indent string) {
	switch x := v.(type) {
	case Int:
		buf.WriteString(strconv.FormatInt(int64(x), 10))
	case Float:
		f := float64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			buf.WriteString("null")
			return
		}
		s := strconv.FormatFloat(f, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		buf.WriteString(s)
	case String:
		b, _ := json.Marshal(string(x))
		buf.Write(b)
	case Bool:
		buf.WriteString(strconv.FormatBool(bool(x)))
	case Map:
		if len(x) == 0 {
			buf.WriteString("{}")
			return
		}
		inner := prefix + indent
		buf.WriteByte('{')
		for i, k := range x.Keys() {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.WriteString(inner)
			b, _ := json.Marshal(k)
			buf.Write(b)
			buf.WriteByte(':')
			if indent != "" {
				buf.WriteByte(' ')
			}
			writeValue(buf, x[k], inner, indent)
		}
		buf.WriteString(prefix)
		buf.WriteByte('}')
	case List:
		if len(x) == 0 {
			buf.WriteString("[]")
			return
		}
		inner := prefix + indent
		buf.WriteByte('[')
		for i, e := range x {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.WriteString(inner)
			writeValue(buf, e, inner, indent)
		}
		buf.WriteString(prefix)
		buf.WriteByte(']')
	default:
		buf.WriteString("null")
	}
}
