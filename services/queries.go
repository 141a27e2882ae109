package services

import (
	"fmt"
	"math"
	"sort"

	"influencer-dashboard/models"
)

// TopNBy returns at most n records sorted by field descending, ties broken by
// tieField in the requested direction. The input slice is not reordered.
func TopNBy(records []*models.Influencer, field models.Field, n int, tieField models.Field, tieAscending bool) ([]*models.Influencer, error) {
	if !field.Valid() {
		return nil, fmt.Errorf("top n: %w: %s", ErrUnknownField, field)
	}
	if !tieField.Valid() {
		return nil, fmt.Errorf("top n: %w: %s", ErrUnknownField, tieField)
	}
	if n <= 0 {
		return []*models.Influencer{}, nil
	}

	sorted := make([]*models.Influencer, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, _ := field.Value(sorted[i])
		b, _ := field.Value(sorted[j])
		if a != b {
			return a > b
		}
		ta, _ := tieField.Value(sorted[i])
		tb, _ := tieField.Value(sorted[j])
		if tieAscending {
			return ta < tb
		}
		return ta > tb
	})

	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted, nil
}

// GroupMean averages valueField per distinct groupField value. Groups appear
// in the order they are first seen.
func GroupMean(records []*models.Influencer, groupField models.GroupField, valueField models.Field) ([]models.GroupValue, error) {
	if !groupField.Valid() {
		return nil, fmt.Errorf("group mean: %w: %s", ErrUnknownField, groupField)
	}
	if !valueField.Valid() {
		return nil, fmt.Errorf("group mean: %w: %s", ErrUnknownField, valueField)
	}

	index := make(map[string]int)
	sums := make([]float64, 0)
	groups := make([]models.GroupValue, 0)
	for _, r := range records {
		key, _ := groupField.Value(r)
		v, _ := valueField.Value(r)

		i, exists := index[key]
		if !exists {
			i = len(groups)
			index[key] = i
			groups = append(groups, models.GroupValue{Key: key})
			sums = append(sums, 0)
		}
		sums[i] += v
		groups[i].Count++
	}

	for i := range groups {
		groups[i].Value = sums[i] / float64(groups[i].Count)
	}
	return groups, nil
}

// Sum adds field over all records. The sum of no records is 0.
func Sum(records []*models.Influencer, field models.Field) (float64, error) {
	if !field.Valid() {
		return 0, fmt.Errorf("sum: %w: %s", ErrUnknownField, field)
	}
	var total float64
	for _, r := range records {
		v, _ := field.Value(r)
		total += v
	}
	return total, nil
}

// Mean averages field over all records. Over no records it returns NaN and
// ErrEmptySelection.
func Mean(records []*models.Influencer, field models.Field) (float64, error) {
	total, err := Sum(records, field)
	if err != nil {
		return math.NaN(), err
	}
	if len(records) == 0 {
		return math.NaN(), ErrEmptySelection
	}
	return total / float64(len(records)), nil
}

// SortGroupsDesc orders groups by value, largest first, keeping key order for ties.
func SortGroupsDesc(groups []models.GroupValue) {
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Value > groups[j].Value
	})
}
