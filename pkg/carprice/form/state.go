package form

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	ErrUnknownField  = errors.New("unknown form field")
	ErrUnknownOption = errors.New("value is not an option of this field")
)

// Value holds a single field value: unset, a number, or a categorical code.
// An unset value is distinct from zero.
type Value struct {
	set  bool
	kind Kind
	num  float64
	code int
}

// Unset returns the empty-field sentinel.
func Unset() Value { return Value{} }

// Number returns a numeric value. NaN is accepted as is.
func Number(v float64) Value { return Value{set: true, kind: KindNumber, num: v} }

// Code returns a categorical value.
func Code(c int) Value { return Value{set: true, kind: KindCategorical, code: c} }

func (v Value) IsSet() bool { return v.set }

// Float reports the numeric value, false for unset and categorical values.
func (v Value) Float() (float64, bool) {
	if !v.set || v.kind == KindCategorical {
		return 0, false
	}
	return v.num, true
}

// Code reports the categorical code, false otherwise.
func (v Value) Code() (int, bool) {
	if !v.set || v.kind != KindCategorical {
		return 0, false
	}
	return v.code, true
}

// String renders the value the way an input control displays it.
func (v Value) String() string {
	switch {
	case !v.set:
		return ""
	case v.kind == KindCategorical:
		return strconv.Itoa(v.code)
	case math.IsNaN(v.num):
		return "NaN"
	default:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	}
}

// MarshalJSON encodes unset as "", non-finite numbers as null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch {
	case !v.set:
		return []byte(`""`), nil
	case v.kind == KindCategorical:
		return []byte(strconv.Itoa(v.code)), nil
	case math.IsNaN(v.num) || math.IsInf(v.num, 0):
		return []byte("null"), nil
	default:
		return json.Marshal(v.num)
	}
}

// State is the current value of every field of a schema. It is not safe for
// concurrent use.
type State struct {
	schema Schema
	values map[string]Value
}

// NewState creates a state with numeric fields unset and categorical fields
// on their initial code.
func NewState(schema Schema) *State {
	s := &State{schema: schema}
	s.Reset()
	return s
}

// Reset restores every field to its initial value.
func (s *State) Reset() {
	s.values = make(map[string]Value, len(s.schema.Fields))
	for _, f := range s.schema.Fields {
		if f.Kind == KindCategorical {
			s.values[f.Name] = Code(f.initialCode())
			continue
		}
		s.values[f.Name] = Unset()
	}
}

func (s *State) Schema() Schema { return s.schema }

// Get returns the value of the named field.
func (s *State) Get(name string) (Value, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Set coerces raw input for the named field and stores it. Non-numeric input
// for numeric fields is stored as NaN without error.
func (s *State) Set(name, raw string) error {
	f, ok := s.schema.Field(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}

	v, err := coerce(f, raw)
	if err != nil {
		return err
	}
	s.values[name] = v
	return nil
}

func coerce(f Field, raw string) (Value, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Unset(), nil
	}

	switch f.Kind {
	case KindInteger:
		// Any numeric text is accepted and truncated toward zero: "2.0" and "1e0" are counts too.
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Value{set: true, kind: KindInteger, num: math.NaN()}, nil
		}
		return Value{set: true, kind: KindInteger, num: math.Trunc(n)}, nil
	case KindCategorical:
		if code, err := strconv.Atoi(raw); err == nil {
			if f.hasCode(code) {
				return Code(code), nil
			}
			return Value{}, fmt.Errorf("%w: %s=%d", ErrUnknownOption, f.Name, code)
		}
		if o, ok := f.lookupOption(raw); ok {
			return Code(o.Code), nil
		}
		return Value{}, fmt.Errorf("%w: %s=%q", ErrUnknownOption, f.Name, raw)
	default:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Number(math.NaN()), nil
		}
		return Number(n), nil
	}
}

// MarshalJSON encodes exactly the schema fields, in schema order.
func (s *State) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range s.schema.Fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		val, err := s.values[f.Name].MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("encode field %q: %w", f.Name, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Payload is the request body for the prediction endpoint.
func (s *State) Payload() ([]byte, error) {
	return s.MarshalJSON()
}
