package dataprocessing

import (
	"math"

	"custclean/pkg/contracts/domain"
)

// MedianFill describes a column-wide median imputation
type MedianFill struct {
	Column  string  `json:"column"`
	Median  float64 `json:"median"`
	Imputed int     `json:"imputed"`
}

// ImputeMedian fills every missing cell of col with the median of its
// observed values. A column with no observed values is returned unchanged
// with a NaN median.
func ImputeMedian(col *domain.Column) (MedianFill, error) {
	values, observed, err := col.Floats()
	if err != nil {
		return MedianFill{}, err
	}
	res := MedianFill{Column: col.Name, Median: Median(observedValues(values, observed))}
	if math.IsNaN(res.Median) {
		return res, nil
	}
	for i, ok := range observed {
		if !ok {
			col.SetFloat(i, res.Median)
			res.Imputed++
		}
	}
	return res, nil
}

// GroupMedian is the median of one group of a grouped imputation
type GroupMedian struct {
	Group    string  `json:"group"`
	Median   float64 `json:"median"`
	Observed int     `json:"observed"`
	Imputed  int     `json:"imputed"`
}

// GroupedFill describes a grouped median imputation
type GroupedFill struct {
	Column       string        `json:"column"`
	GroupBy      string        `json:"group_by"`
	Groups       []GroupMedian `json:"groups"`
	GlobalMedian float64       `json:"global_median"`
	Imputed      int           `json:"imputed"`
	FallbackRows []int         `json:"fallback_rows,omitempty"`
}

// ImputeGroupedMedian fills missing cells of target with the median of the
// observed target values sharing the same key. Medians are computed before
// any cell is filled. Rows whose key is missing, or whose group has no
// observed target, fall back to the column-wide median.
func ImputeGroupedMedian(target, key *domain.Column) (GroupedFill, error) {
	values, observed, err := target.Floats()
	if err != nil {
		return GroupedFill{}, err
	}
	res := GroupedFill{
		Column:       target.Name,
		GroupBy:      key.Name,
		GlobalMedian: Median(observedValues(values, observed)),
	}

	order := make(map[string]int)
	groupValues := make([][]float64, 0)
	for i, cell := range key.Cells {
		if cell.IsNull() {
			continue
		}
		name := cell.String()
		pos, ok := order[name]
		if !ok {
			pos = len(res.Groups)
			order[name] = pos
			res.Groups = append(res.Groups, GroupMedian{Group: name})
			groupValues = append(groupValues, nil)
		}
		if observed[i] {
			groupValues[pos] = append(groupValues[pos], values[i])
		}
	}
	for pos := range res.Groups {
		res.Groups[pos].Median = Median(groupValues[pos])
		res.Groups[pos].Observed = len(groupValues[pos])
	}

	for i, ok := range observed {
		if ok {
			continue
		}
		fill := math.NaN()
		if !key.IsNull(i) {
			pos := order[key.Cells[i].String()]
			if fill = res.Groups[pos].Median; !math.IsNaN(fill) {
				res.Groups[pos].Imputed++
			}
		}
		if math.IsNaN(fill) {
			fill = res.GlobalMedian
			if math.IsNaN(fill) {
				continue
			}
			res.FallbackRows = append(res.FallbackRows, i)
		}
		target.SetFloat(i, fill)
		res.Imputed++
	}
	return res, nil
}

// ClipResult describes an upper-bound clamp
type ClipResult struct {
	Column  string  `json:"column"`
	Upper   float64 `json:"upper"`
	Clipped int     `json:"clipped"`
}

// ClipUpper caps every value of col above upper to exactly upper. Values at
// or below the bound and missing cells are left as they are.
func ClipUpper(col *domain.Column, upper float64) (ClipResult, error) {
	values, observed, err := col.Floats()
	if err != nil {
		return ClipResult{}, err
	}
	res := ClipResult{Column: col.Name, Upper: upper}
	for i, v := range values {
		if observed[i] && v > upper {
			col.SetFloat(i, upper)
			res.Clipped++
		}
	}
	return res, nil
}
