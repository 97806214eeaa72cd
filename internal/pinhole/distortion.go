package pinhole

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats/scalar"
)

// keyTolerance absorbs the representation error left over after a key has
// been quantised (203 * 0.05 is 10.150000000000000355, not 10.15).
const keyTolerance = 1e-9

// DistortionEntry is one calibration sample: the multiplier f measured at a
// normalised offset from the optical centre.
type DistortionEntry struct {
	Offset     float64 `json:"offset"`
	Multiplier float64 `json:"multiplier"`
}

// DistortionTable maps normalised offsets to distortion multipliers.
// Keys are stored exactly as given and kept in ascending order; rounding to
// Precision only happens at lookup time.
type DistortionTable struct {
	keys      []float64
	values    []float64
	precision float64
}

// NewDistortionTable copies entries into an immutable table. A precision of
// zero restricts lookups to exact key equality.
func NewDistortionTable(entries map[float64]float64, precision float64) (*DistortionTable, error) {
	if precision < 0 || math.IsNaN(precision) || math.IsInf(precision, 0) {
		return nil, fmt.Errorf("%w: rounding precision must be >= 0, got %g", ErrInvalidArgument, precision)
	}

	keys := make([]float64, 0, len(entries))
	for k := range entries {
		if math.IsNaN(k) {
			return nil, fmt.Errorf("%w: distortion offset must not be NaN", ErrInvalidArgument)
		}
		keys = append(keys, k)
	}
	sort.Float64s(keys)

	values := make([]float64, len(keys))
	for i, k := range keys {
		values[i] = entries[k]
	}

	return &DistortionTable{keys: keys, values: values, precision: precision}, nil
}

// NewDistortionTableFromEntries builds a table from a slice of entries.
// Duplicate offsets are rejected since the slice form has no natural winner.
func NewDistortionTableFromEntries(entries []DistortionEntry, precision float64) (*DistortionTable, error) {
	m := make(map[float64]float64, len(entries))
	for _, e := range entries {
		if _, dup := m[e.Offset]; dup {
			return nil, fmt.Errorf("%w: duplicate distortion offset %g", ErrInvalidArgument, e.Offset)
		}
		m[e.Offset] = e.Multiplier
	}
	return NewDistortionTable(m, precision)
}

// Precision returns the rounding step used at lookup time.
func (t *DistortionTable) Precision() float64 {
	return t.precision
}

// Len returns the number of stored entries.
func (t *DistortionTable) Len() int {
	return len(t.keys)
}

// Entries returns the table contents ordered by offset.
func (t *DistortionTable) Entries() []DistortionEntry {
	out := make([]DistortionEntry, len(t.keys))
	for i, k := range t.keys {
		out[i] = DistortionEntry{Offset: k, Multiplier: t.values[i]}
	}
	return out
}

// Get returns the multiplier for key. The exact key is tried first, then
// the key rounded to the nearest multiple of Precision.
func (t *DistortionTable) Get(key float64) (float64, bool) {
	if i, ok := t.exact(key); ok {
		return t.values[i], true
	}
	if t.precision <= 0 {
		return 0, false
	}
	if i, ok := t.near(Quantize(key, t.precision)); ok {
		return t.values[i], true
	}
	return 0, false
}

// GetOr is Get with a fallback value for missing keys.
func (t *DistortionTable) GetOr(key, def float64) float64 {
	if v, ok := t.Get(key); ok {
		return v
	}
	return def
}

// Lookup is the strict form of Get: a missing key is an error.
func (t *DistortionTable) Lookup(key float64) (float64, error) {
	if v, ok := t.Get(key); ok {
		return v, nil
	}
	return 0, fmt.Errorf("%w: %g (precision %g)", ErrKeyNotFound, key, t.precision)
}

func (t *DistortionTable) exact(key float64) (int, bool) {
	i := sort.SearchFloat64s(t.keys, key)
	if i < len(t.keys) && t.keys[i] == key {
		return i, true
	}
	return 0, false
}

// near finds a stored key within keyTolerance of q. Only the two keys
// bracketing q can qualify.
func (t *DistortionTable) near(q float64) (int, bool) {
	i := sort.SearchFloat64s(t.keys, q)
	for _, j := range []int{i, i - 1} {
		if j >= 0 && j < len(t.keys) && scalar.EqualWithinAbsOrRel(t.keys[j], q, keyTolerance, keyTolerance) {
			return j, true
		}
	}
	return 0, false
}

// Quantize rounds v to the nearest multiple of step, ties to even.
// A non-positive step returns v unchanged.
func Quantize(v, step float64) float64 {
	if step <= 0 {
		return v
	}
	return math.RoundToEven(v/step) * step
}
