package services

import (
	"errors"
	"math"
	"strconv"
	"testing"

	"influencer-dashboard/models"
	"influencer-dashboard/utils"
)

func newTestLogger() *utils.Logger { return utils.NewTestLogger() }

func approxEqual(a, b float64) bool {
	if a == b {
		return true
	}
	return math.Abs(a-b) <= 1e-9*math.Max(math.Abs(a), math.Abs(b))
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"45%", 0.45},
		{"12.3k", 12300},
		{"1.2m", 1200000},
		{"3b", 3e9},
		{"250", 250},
		{"  1.5%  ", 0.015},
		{"12.5K", 12500},
		{"3.2M", 3200000},
		{"0.01%", 0.0001},
		{"-2%", -0.02},
		{"0", 0},
	}

	for _, tt := range tests {
		got, err := Normalize(tt.raw)
		if err != nil {
			t.Errorf("Normalize(%q) returned error: %v", tt.raw, err)
			continue
		}
		if !approxEqual(got, tt.want) {
			t.Errorf("Normalize(%q) = %v; want %v", tt.raw, got, tt.want)
		}
	}
}

func TestNormalizeErrors(t *testing.T) {
	tests := []string{"abc", "", "   ", "%", "k", "1.2x", "k%", "12%k", "1..2m", "inf", "nan", "5mb",
		"1e308b", "1e308k", "0x1p4k", "-0x10"}

	for _, raw := range tests {
		_, err := Normalize(raw)
		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Errorf("Normalize(%q): expected *ParseError, got %v", raw, err)
			continue
		}
		if pe.Value != raw {
			t.Errorf("ParseError.Value: got %q, want %q", pe.Value, raw)
		}
	}
}

func TestNormalizeRoundTrip(t *testing.T) {
	values := []float64{0, 1, 2.5, 42, 1234.5, 0.75, 99.99}
	suffixes := []struct {
		suffix string
		scale  float64
	}{
		{"%", 0.01},
		{"k", 1e3},
		{"m", 1e6},
		{"b", 1e9},
		{"", 1},
	}

	for _, sfx := range suffixes {
		for _, x := range values {
			s := strconv.FormatFloat(x, 'f', -1, 64) + sfx.suffix
			got, err := Normalize(s)
			if err != nil {
				t.Errorf("Normalize(%q): %v", s, err)
				continue
			}
			if !approxEqual(got, x*sfx.scale) {
				t.Errorf("Normalize(%q) = %v; want %v", s, got, x*sfx.scale)
			}
		}
	}
}

func TestNormalizeIdempotentOnPlainValues(t *testing.T) {
	for _, raw := range []string{"12.3k", "1.2m", "45%", "250"} {
		first, err := Normalize(raw)
		if err != nil {
			t.Fatalf("Normalize(%q): %v", raw, err)
		}
		second, err := Normalize(strconv.FormatFloat(first, 'g', -1, 64))
		if err != nil {
			t.Fatalf("re-normalize %v: %v", first, err)
		}
		if second != first {
			t.Errorf("re-normalizing %q changed value: %v → %v", raw, first, second)
		}
	}
}

func rawRow(line int, rank, channel, country, followers, avgLikes string) *models.RawInfluencer {
	return &models.RawInfluencer{
		Line:           line,
		Rank:           rank,
		ChannelInfo:    channel,
		InfluenceScore: "90",
		Posts:          "3.3k",
		Followers:      followers,
		AvgLikes:       avgLikes,
		EngRate60Day:   "1.39%",
		NewPostAvgLike: "6.5m",
		TotalLikes:     "29.0b",
		Country:        country,
	}
}

func TestNormalizerNormalizesRow(t *testing.T) {
	n := NewNormalizer(newTestLogger(), false)
	out, err := n.Normalize([]*models.RawInfluencer{
		rawRow(2, "1", "  cristiano ", "Spain", "475.8m", "8.7m"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 record, got %d", len(out))
	}

	r := out[0]
	if r.ChannelInfo != "cristiano" {
		t.Errorf("ChannelInfo: got %q, want cristiano", r.ChannelInfo)
	}
	if r.Rank != 1 || r.InfluenceScore != 90 {
		t.Errorf("Rank/InfluenceScore: got %d/%v", r.Rank, r.InfluenceScore)
	}
	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"posts", r.Posts, 3300},
		{"followers", r.Followers, 475.8e6},
		{"avg_likes", r.AvgLikes, 8.7e6},
		{"60_day_eng_rate", r.EngRate60Day, 0.0139},
		{"new_post_avg_like", r.NewPostAvgLike, 6.5e6},
		{"total_likes", r.TotalLikes, 29e9},
	}
	for _, c := range checks {
		if !approxEqual(c.got, c.want) {
			t.Errorf("%s: got %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestNormalizerDropsMalformedRow(t *testing.T) {
	n := NewNormalizer(newTestLogger(), false)
	out, err := n.Normalize([]*models.RawInfluencer{
		rawRow(2, "1", "good", "India", "10m", "1m"),
		rawRow(3, "2", "bad", "India", "lots", "1m"),
		rawRow(4, "zero", "badrank", "India", "10m", "1m"),
		rawRow(5, "3", "overflow", "India", "1e308b", "1m"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 || out[0].ChannelInfo != "good" {
		t.Errorf("expected only the good row to survive, got %d records", len(out))
	}
}

func TestNormalizerStrictAborts(t *testing.T) {
	n := NewNormalizer(newTestLogger(), true)
	_, err := n.Normalize([]*models.RawInfluencer{
		rawRow(2, "1", "good", "India", "10m", "1m"),
		rawRow(3, "2", "bad", "India", "lots", "1m"),
	})

	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if pe.Line != 3 || pe.Column != models.ColFollowers {
		t.Errorf("ParseError location: got line %d column %q", pe.Line, pe.Column)
	}
}

func TestNormalizerDeduplicatesChannel(t *testing.T) {
	n := NewNormalizer(newTestLogger(), false)
	out, err := n.Normalize([]*models.RawInfluencer{
		rawRow(2, "1", "same", "India", "10m", "1m"),
		rawRow(3, "2", "same", "India", "20m", "2m"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 || out[0].Rank != 1 {
		t.Errorf("expected first occurrence only, got %d records", len(out))
	}
}

func TestFormatSI(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{45, "45"},
		{0.45, "0.45"},
		{1234, "1.2k"},
		{1.2e6, "1.2M"},
		{29e9, "29G"},
		{3.47e12, "3.5T"},
		{999_600, "1M"},
		{999.6, "1k"},
		{-1234, "-1.2k"},
		{math.NaN(), "-"},
	}
	for _, tt := range tests {
		if got := FormatSI(tt.in); got != tt.want {
			t.Errorf("FormatSI(%v) = %q; want %q", tt.in, got, tt.want)
		}
	}
}
