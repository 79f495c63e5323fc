package predict

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"math/big"
	"strconv"
)

// PriceKey is the member the prediction service uses for its estimate.
const PriceKey = "predicted_price"

const unitKey = "currency"

var ErrMalformedResponse = errors.New("malformed prediction response")

// EstimateKind tells which response shape an estimate came from
type EstimateKind string

const (
	// Scalar is a bare JSON number.
	Scalar EstimateKind = "scalar"
	// Named is a numeric member of a JSON object.
	Named EstimateKind = "named"
)

// Estimate defines a price returned by the prediction endpoint
type Estimate struct {
	Kind  EstimateKind `json:"kind"`
	Value float64      `json:"value"`
	Key   string       `json:"key,omitempty"`
	Unit  string       `json:"unit,omitempty"`
}

// Formatted renders the estimate with two decimals.
func (e Estimate) Formatted() string {
	return FormatValue(e.Value)
}

type member struct {
	key string
	raw json.RawMessage
}

// ParseEstimate accepts either a bare number or an object. For objects the
// predicted_price member wins, otherwise the first numeric member in
// document order is used.
func ParseEstimate(body []byte) (Estimate, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return Estimate{}, fmt.Errorf("%w: empty body", ErrMalformedResponse)
	}

	if body[0] != '{' {
		v, ok := number(body)
		if !ok {
			return Estimate{}, fmt.Errorf("%w: expected number or object", ErrMalformedResponse)
		}
		return Estimate{Kind: Scalar, Value: v}, nil
	}

	members, err := objectMembers(body)
	if err != nil {
		return Estimate{}, err
	}

	est := Estimate{Kind: Named}
	for _, m := range members {
		if m.key != unitKey {
			continue
		}
		var unit string
		if err := json.Unmarshal(m.raw, &unit); err == nil {
			est.Unit = unit
		}
	}

	for _, m := range members {
		if m.key != PriceKey {
			continue
		}
		if v, ok := number(m.raw); ok {
			est.Key, est.Value = m.key, v
			return est, nil
		}
	}

	for _, m := range members {
		if m.key == unitKey {
			continue
		}
		if v, ok := number(m.raw); ok {
			est.Key, est.Value = m.key, v
			return est, nil
		}
	}

	return Estimate{}, fmt.Errorf("%w: object has no numeric member", ErrMalformedResponse)
}

func objectMembers(body []byte) ([]member, error) {
	dec := json.NewDecoder(bytes.NewReader(body))

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	var members []member
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: unexpected token %v", ErrMalformedResponse, tok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("%w: member %q: %v", ErrMalformedResponse, key, err)
		}
		members = append(members, member{key: key, raw: raw})
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after object", ErrMalformedResponse)
	}

	return members, nil
}

// number decodes raw only when it is a JSON number literal.
func number(raw []byte) (float64, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || (raw[0] != '-' && (raw[0] < '0' || raw[0] > '9')) {
		return 0, false
	}

	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, false
	}
	return v, true
}

// FormatValue renders v with two decimals, rounding half away from zero on
// its shortest decimal form, so 2.005 becomes "2.01".
func FormatValue(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', 2, 64)
	}

	r, ok := new(big.Rat).SetString(strconv.FormatFloat(v, 'f', -1, 64))
	if !ok {
		return strconv.FormatFloat(v, 'f', 2, 64)
	}
	return r.FloatString(2)
}
