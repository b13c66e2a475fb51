package dataprocessing

import (
	"encoding/json"
	"math"
)

// finite returns nil for NaN and infinities, which JSON cannot carry
func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// MarshalJSON encodes an undefined median as null
func (m MedianFill) MarshalJSON() ([]byte, error) {
	type plain MedianFill
	return json.Marshal(struct {
		plain
		Median *float64 `json:"median"`
	}{plain: plain(m), Median: finite(m.Median)})
}

// MarshalJSON encodes an undefined median as null
func (g GroupMedian) MarshalJSON() ([]byte, error) {
	type plain GroupMedian
	return json.Marshal(struct {
		plain
		Median *float64 `json:"median"`
	}{plain: plain(g), Median: finite(g.Median)})
}

// MarshalJSON encodes an undefined global median as null
func (g GroupedFill) MarshalJSON() ([]byte, error) {
	type plain GroupedFill
	return json.Marshal(struct {
		plain
		GlobalMedian *float64 `json:"global_median"`
	}{plain: plain(g), GlobalMedian: finite(g.GlobalMedian)})
}
