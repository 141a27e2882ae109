package services

import (
	"reflect"
	"testing"

	"influencer-dashboard/models"
)

func filterFixture() []*models.Influencer {
	return []*models.Influencer{
		{Rank: 1, ChannelInfo: "virat", Country: "India"},
		{Rank: 2, ChannelInfo: "neymar", Country: "Brazil"},
		{Rank: 3, ChannelInfo: "priyanka", Country: "India"},
		{Rank: 4, ChannelInfo: "shakira", Country: "Colombia"},
		{Rank: 5, ChannelInfo: "anitta", Country: "Brazil"},
	}
}

func channels(records []*models.Influencer) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ChannelInfo)
	}
	return out
}

func TestFilter(t *testing.T) {
	records := filterFixture()
	tests := []struct {
		name string
		sel  models.Selection
		want []string
	}{
		{
			name: "country and influencer",
			sel:  models.Selection{Countries: []string{"India"}, Influencers: []string{"virat", "priyanka"}},
			want: []string{"virat", "priyanka"},
		},
		{
			name: "influencer outside countries",
			sel:  models.Selection{Countries: []string{"India"}, Influencers: []string{"virat", "neymar"}},
			want: []string{"virat"},
		},
		{
			name: "order preserved",
			sel:  models.Selection{Countries: []string{"Brazil", "India"}, Influencers: []string{"anitta", "neymar", "virat"}},
			want: []string{"virat", "neymar", "anitta"},
		},
		{
			name: "empty countries",
			sel:  models.Selection{Countries: nil, Influencers: []string{"virat", "neymar"}},
			want: []string{},
		},
		{
			name: "empty influencers",
			sel:  models.Selection{Countries: []string{"India"}, Influencers: []string{}},
			want: []string{},
		},
	}

	for _, tt := range tests {
		got := channels(Filter(records, tt.sel))
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	records := filterFixture()
	Filter(records, models.Selection{Countries: []string{"India"}, Influencers: []string{"virat"}})
	if len(records) != 5 || records[1].ChannelInfo != "neymar" {
		t.Error("input slice was modified")
	}
}

func TestOptions(t *testing.T) {
	countries, influencers := Options(filterFixture(), []string{"Brazil"})

	if want := []string{"Brazil", "Colombia", "India"}; !reflect.DeepEqual(countries, want) {
		t.Errorf("countries: got %v, want %v", countries, want)
	}
	if want := []string{"anitta", "neymar"}; !reflect.DeepEqual(influencers, want) {
		t.Errorf("influencers: got %v, want %v", influencers, want)
	}
}

func TestDefaultSelection(t *testing.T) {
	sel := DefaultSelection(filterFixture(), "India")
	if !reflect.DeepEqual(sel.Countries, []string{"India"}) {
		t.Errorf("countries: got %v", sel.Countries)
	}
	if want := []string{"priyanka", "virat"}; !reflect.DeepEqual(sel.Influencers, want) {
		t.Errorf("influencers: got %v, want %v", sel.Influencers, want)
	}
}
