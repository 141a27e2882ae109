package services

import (
	"bytes"
	"strings"
	"testing"

	"influencer-dashboard/models"
)

func sampleInfluencers() []*models.Influencer {
	return []*models.Influencer{
		{Rank: 1, ChannelInfo: "cristiano", Country: "Spain", InfluenceScore: 92, Followers: 475.8e6, AvgLikes: 8.7e6, EngRate60Day: 0.0139, TotalLikes: 29e9,
			Metrics: models.Metrics{EngagementRate: 1.83, LikeFollowerRatio: 60.95}},
		{Rank: 2, ChannelInfo: "kyliejenner", Country: "United States", InfluenceScore: 91, Followers: 366.2e6, AvgLikes: 8.3e6, EngRate60Day: 0.0162, TotalLikes: 57.4e9,
			Metrics: models.Metrics{EngagementRate: 2.27, LikeFollowerRatio: 156.7}},
		{Rank: 3, ChannelInfo: "leomessi", Country: "Argentina", InfluenceScore: 90, Followers: 357.3e6, AvgLikes: 6.8e6, EngRate60Day: 0.0124, TotalLikes: 6.1e9,
			Metrics: models.Metrics{EngagementRate: 1.9, LikeFollowerRatio: 17.07}},
		{Rank: 12, ChannelInfo: "jlo", Country: "United States", InfluenceScore: 91, Followers: 200e6, AvgLikes: 1e6, EngRate60Day: 0.005, TotalLikes: 4e9,
			Metrics: models.Metrics{EngagementRate: 0.5, LikeFollowerRatio: 20}},
	}
}

func TestInsightIndicators(t *testing.T) {
	svc := NewInsightService(newTestLogger(), 10, 5)
	r, err := svc.Generate(sampleInfluencers(), models.Selection{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if r.RecordCount != 4 {
		t.Errorf("RecordCount: got %d, want 4", r.RecordCount)
	}
	if !approxEqual(r.Indicators.TotalLikes, 96.5e9) {
		t.Errorf("TotalLikes: got %v, want 96.5e9", r.Indicators.TotalLikes)
	}
	if !approxEqual(r.Indicators.TotalFollowers, 1399.3e6) {
		t.Errorf("TotalFollowers: got %v, want 1399.3e6", r.Indicators.TotalFollowers)
	}
	if r.Indicators.AvgEngagementRate == nil || !approxEqual(*r.Indicators.AvgEngagementRate, 1.625) {
		t.Errorf("AvgEngagementRate: got %v, want 1.625", r.Indicators.AvgEngagementRate)
	}
}

func TestInsightTopInfluencers(t *testing.T) {
	svc := NewInsightService(newTestLogger(), 3, 5)
	r, err := svc.Generate(sampleInfluencers(), models.Selection{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"cristiano", "kyliejenner", "jlo"}
	got := channels(r.TopInfluencers)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("TopInfluencers: got %v, want %v", got, want)
		}
	}
}

func TestInsightCountryInfluenceSortedAndRounded(t *testing.T) {
	svc := NewInsightService(newTestLogger(), 10, 5)
	r, err := svc.Generate(sampleInfluencers(), models.Selection{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(r.CountryInfluence) != 3 {
		t.Fatalf("CountryInfluence: got %d groups, want 3", len(r.CountryInfluence))
	}
	if r.CountryInfluence[0].Key != "Spain" || r.CountryInfluence[1].Key != "United States" {
		t.Errorf("CountryInfluence order: got %+v", r.CountryInfluence)
	}
	if r.CountryInfluence[1].Value != 91 {
		t.Errorf("United States mean: got %v, want 91", r.CountryInfluence[1].Value)
	}
	if len(r.CountryEngagement) != 3 {
		t.Errorf("CountryEngagement: got %d groups, want 3", len(r.CountryEngagement))
	}
}

func TestInsightHistogram(t *testing.T) {
	svc := NewInsightService(newTestLogger(), 10, 4)
	r, err := svc.Generate(sampleInfluencers(), models.Selection{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(r.LikesHistogram) != 4 {
		t.Fatalf("bins: got %d, want 4", len(r.LikesHistogram))
	}
	total := 0
	for _, b := range r.LikesHistogram {
		total += b.Count
	}
	if total != 4 {
		t.Errorf("histogram total: got %d, want 4", total)
	}
	if r.LikesHistogram[0].Low != 1e6 || r.LikesHistogram[3].High != 8.7e6 {
		t.Errorf("histogram range: got [%v, %v]", r.LikesHistogram[0].Low, r.LikesHistogram[3].High)
	}
	if r.LikesHistogram[0].Count != 1 || r.LikesHistogram[3].Count != 3 {
		t.Errorf("bin counts: got %+v", r.LikesHistogram)
	}
}

func TestInsightHeatmap(t *testing.T) {
	svc := NewInsightService(newTestLogger(), 10, 4)
	r, err := svc.Generate(sampleInfluencers(), models.Selection{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(r.EngagementHeatmap) != 4 {
		t.Fatalf("heatmap cells: got %d, want 4", len(r.EngagementHeatmap))
	}
	first := r.EngagementHeatmap[0]
	if first.Country != "Argentina" || first.RankFrom != 1 || first.RankTo != 10 {
		t.Errorf("first cell: got %+v", first)
	}
	last := r.EngagementHeatmap[3]
	if last.Country != "United States" || last.RankFrom != 11 || last.Mean != 0.005 {
		t.Errorf("last cell: got %+v", last)
	}
}

func TestInsightEmptyInput(t *testing.T) {
	svc := NewInsightService(newTestLogger(), 10, 5)
	r, err := svc.Generate(nil, models.Selection{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.RecordCount != 0 || r.Indicators.TotalLikes != 0 || r.Indicators.TotalFollowers != 0 {
		t.Errorf("expected zero totals, got %+v", r.Indicators)
	}
	if r.Indicators.AvgEngagementRate != nil {
		t.Errorf("AvgEngagementRate should be nil for an empty selection")
	}
	if r.TopInfluencers == nil || len(r.TopInfluencers) != 0 {
		t.Errorf("TopInfluencers should be an empty, non-nil slice")
	}
}

func TestInsightPrintNegativeScore(t *testing.T) {
	svc := NewInsightService(newTestLogger(), 10, 5)
	records := []*models.Influencer{
		{Rank: 1, ChannelInfo: "négatif_très_long_nom_de_chaîne_instagram", Country: "France", InfluenceScore: -25,
			Followers: 1e6, AvgLikes: 1e4, TotalLikes: 1e7, Metrics: models.Metrics{EngagementRate: 1}},
	}
	r, err := svc.Generate(records, models.Selection{Countries: []string{"France"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var buf bytes.Buffer
	svc.Fprint(&buf, r)
	out := buf.String()
	if !strings.Contains(out, "-25.00") {
		t.Errorf("expected negative country score in output:\n%s", out)
	}
	if !strings.Contains(out, "négatif_très_long_nom_de_ch...") {
		t.Errorf("expected channel truncated on a rune boundary:\n%s", out)
	}
}

func TestInsightPrintEmptyReport(t *testing.T) {
	svc := NewInsightService(newTestLogger(), 10, 5)
	r, err := svc.Generate(nil, models.Selection{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var buf bytes.Buffer
	svc.Fprint(&buf, r)
	if !strings.Contains(buf.String(), "No influencers in selection") {
		t.Errorf("expected empty-selection notice, got:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), "n/a") {
		t.Errorf("expected n/a engagement rate, got:\n%s", buf.String())
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		limit int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly_ten", 11, "exactly_ten"},
		{"abcdefghijkl", 8, "abcde..."},
		{"ÿÿÿÿÿÿÿÿ", 6, "ÿÿÿ..."},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.limit); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q; want %q", tt.in, tt.limit, got, tt.want)
		}
	}
}
