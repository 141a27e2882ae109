package services

import (
	"errors"
	"math"
	"testing"

	"influencer-dashboard/models"
)

func queryFixture() []*models.Influencer {
	return []*models.Influencer{
		{Rank: 4, ChannelInfo: "d", Country: "India", InfluenceScore: 80, TotalLikes: 10, Metrics: models.Metrics{EngagementRate: 2}},
		{Rank: 2, ChannelInfo: "b", Country: "Brazil", InfluenceScore: 90, TotalLikes: 20, Metrics: models.Metrics{EngagementRate: 4}},
		{Rank: 1, ChannelInfo: "a", Country: "India", InfluenceScore: 90, TotalLikes: 30, Metrics: models.Metrics{EngagementRate: 6}},
		{Rank: 3, ChannelInfo: "c", Country: "Brazil", InfluenceScore: 70, TotalLikes: 40, Metrics: models.Metrics{EngagementRate: 8}},
	}
}

func TestTopNBy(t *testing.T) {
	top, err := TopNBy(queryFixture(), models.FieldInfluenceScore, 3, models.FieldRank, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"a", "b", "d"}
	if got := channels(top); len(got) != 3 || got[0] != want[0] || got[1] != want[1] || got[2] != want[2] {
		t.Errorf("TopNBy: got %v, want %v", got, want)
	}
}

func TestTopNByTieDescending(t *testing.T) {
	top, err := TopNBy(queryFixture(), models.FieldInfluenceScore, 2, models.FieldRank, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := channels(top); got[0] != "b" || got[1] != "a" {
		t.Errorf("TopNBy tie descending: got %v", got)
	}
}

func TestTopNByBounds(t *testing.T) {
	records := queryFixture()

	top, _ := TopNBy(records, models.FieldInfluenceScore, 10, models.FieldRank, true)
	if len(top) != 4 {
		t.Errorf("n larger than input: got %d records, want 4", len(top))
	}
	top, _ = TopNBy(records, models.FieldInfluenceScore, 0, models.FieldRank, true)
	if len(top) != 0 {
		t.Errorf("n=0: got %d records", len(top))
	}
	if records[0].ChannelInfo != "d" {
		t.Error("TopNBy must not reorder its input")
	}
}

func TestTopNByUnknownField(t *testing.T) {
	_, err := TopNBy(queryFixture(), models.Field("bogus"), 3, models.FieldRank, true)
	if !errors.Is(err, ErrUnknownField) {
		t.Errorf("expected ErrUnknownField, got %v", err)
	}
}

func TestGroupMean(t *testing.T) {
	groups, err := GroupMean(queryFixture(), models.GroupCountry, models.FieldEngagementRate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}

	seen := make(map[string]bool)
	for _, g := range groups {
		if seen[g.Key] {
			t.Errorf("duplicate group key %q", g.Key)
		}
		seen[g.Key] = true
	}

	if groups[0].Key != "India" || groups[0].Value != 4 || groups[0].Count != 2 {
		t.Errorf("India group: got %+v", groups[0])
	}
	if groups[1].Key != "Brazil" || groups[1].Value != 6 || groups[1].Count != 2 {
		t.Errorf("Brazil group: got %+v", groups[1])
	}
}

func TestGroupMeanUnknownGroup(t *testing.T) {
	_, err := GroupMean(nil, models.GroupField("city"), models.FieldEngagementRate)
	if !errors.Is(err, ErrUnknownField) {
		t.Errorf("expected ErrUnknownField, got %v", err)
	}
}

func TestSumAndMean(t *testing.T) {
	records := queryFixture()

	sum, err := Sum(records, models.FieldTotalLikes)
	if err != nil || sum != 100 {
		t.Errorf("Sum: got %v, %v; want 100", sum, err)
	}
	mean, err := Mean(records, models.FieldTotalLikes)
	if err != nil || mean != 25 {
		t.Errorf("Mean: got %v, %v; want 25", mean, err)
	}
}

func TestReductionsOverEmptySet(t *testing.T) {
	sum, err := Sum(nil, models.FieldTotalLikes)
	if err != nil || sum != 0 {
		t.Errorf("Sum of nothing: got %v, %v; want 0", sum, err)
	}

	mean, err := Mean(nil, models.FieldEngagementRate)
	if !errors.Is(err, ErrEmptySelection) {
		t.Errorf("Mean of nothing: expected ErrEmptySelection, got %v", err)
	}
	if !math.IsNaN(mean) {
		t.Errorf("Mean of nothing: got %v, want NaN", mean)
	}
}

func TestSortGroupsDesc(t *testing.T) {
	groups := []models.GroupValue{{Key: "a", Value: 1}, {Key: "b", Value: 3}, {Key: "c", Value: 2}}
	SortGroupsDesc(groups)
	if groups[0].Key != "b" || groups[1].Key != "c" || groups[2].Key != "a" {
		t.Errorf("SortGroupsDesc: got %v", groups)
	}
}
