package services

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"

	"influencer-dashboard/models"
	"influencer-dashboard/utils"
)

// rankBand is the width of the rank buckets on the engagement heatmap.
const rankBand = 10

type InsightService struct {
	logger        *utils.Logger
	topN          int
	histogramBins int
}

func NewInsightService(logger *utils.Logger, topN, histogramBins int) *InsightService {
	if topN < 1 {
		topN = 10
	}
	if histogramBins < 1 {
		histogramBins = 20
	}
	return &InsightService{logger: logger, topN: topN, histogramBins: histogramBins}
}

// Generate builds the dashboard report for an already filtered record set.
func (s *InsightService) Generate(records []*models.Influencer, sel models.Selection) (*models.DashboardReport, error) {
	report := &models.DashboardReport{
		Selection:         sel,
		RecordCount:       len(records),
		TopN:              s.topN,
		TopInfluencers:    []*models.Influencer{},
		CountryEngagement: []models.GroupValue{},
		CountryInfluence:  []models.GroupValue{},
		LikesHistogram:    []models.HistogramBin{},
		FollowerLikes:     []models.ScatterPoint{},
		CountryLikeRatio:  []models.CategoryPoint{},
		EngagementHeatmap: []models.HeatmapCell{},
	}

	var err error
	if report.Indicators.TotalLikes, err = Sum(records, models.FieldTotalLikes); err != nil {
		return nil, err
	}
	if report.Indicators.TotalFollowers, err = Sum(records, models.FieldFollowers); err != nil {
		return nil, err
	}
	avg, err := Mean(records, models.FieldEngagementRate)
	switch {
	case err == nil:
		report.Indicators.AvgEngagementRate = &avg
	case !errors.Is(err, ErrEmptySelection):
		return nil, err
	}

	if len(records) == 0 {
		s.logger.Debug("[insights] Empty selection, returning zero report")
		return report, nil
	}

	if report.TopInfluencers, err = TopNBy(records, models.FieldInfluenceScore, s.topN, models.FieldRank, true); err != nil {
		return nil, err
	}

	if report.CountryEngagement, err = GroupMean(records, models.GroupCountry, models.FieldEngagementRate); err != nil {
		return nil, err
	}

	if report.CountryInfluence, err = GroupMean(records, models.GroupCountry, models.FieldInfluenceScore); err != nil {
		return nil, err
	}
	for i := range report.CountryInfluence {
		report.CountryInfluence[i].Value = round2(report.CountryInfluence[i].Value)
	}
	SortGroupsDesc(report.CountryInfluence)

	report.LikesHistogram = histogram(records, models.FieldAvgLikes, s.histogramBins)

	for _, r := range records {
		report.FollowerLikes = append(report.FollowerLikes, models.ScatterPoint{
			Label: r.ChannelInfo,
			X:     r.Followers,
			Y:     r.AvgLikes,
			Size:  r.InfluenceScore,
		})
		report.CountryLikeRatio = append(report.CountryLikeRatio, models.CategoryPoint{
			Category: r.Country,
			Label:    r.ChannelInfo,
			Value:    r.Metrics.LikeFollowerRatio,
		})
	}

	report.EngagementHeatmap = heatmap(records)
	return report, nil
}

// histogram buckets field into equal-width bins spanning [min, max]. The max
// value falls into the last bin.
func histogram(records []*models.Influencer, field models.Field, bins int) []models.HistogramBin {
	if len(records) == 0 {
		return []models.HistogramBin{}
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, r := range records {
		v, _ := field.Value(r)
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		return []models.HistogramBin{{Low: lo, High: hi, Count: len(records)}}
	}

	width := (hi - lo) / float64(bins)
	result := make([]models.HistogramBin, bins)
	for i := range result {
		result[i].Low = lo + float64(i)*width
		result[i].High = lo + float64(i+1)*width
	}
	result[bins-1].High = hi

	for _, r := range records {
		v, _ := field.Value(r)
		i := int((v - lo) / width)
		if i >= bins {
			i = bins - 1
		}
		result[i].Count++
	}
	return result
}

// heatmap averages the 60-day engagement rate per country and rank band,
// ordered by country then band.
func heatmap(records []*models.Influencer) []models.HeatmapCell {
	type key struct {
		country string
		band    int
	}
	sums := make(map[key]float64)
	counts := make(map[key]int)
	for _, r := range records {
		k := key{country: r.Country, band: (r.Rank - 1) / rankBand}
		sums[k] += r.EngRate60Day
		counts[k]++
	}

	cells := make([]models.HeatmapCell, 0, len(sums))
	for k, sum := range sums {
		cells = append(cells, models.HeatmapCell{
			RankFrom: k.band*rankBand + 1,
			RankTo:   (k.band + 1) * rankBand,
			Country:  k.country,
			Mean:     sum / float64(counts[k]),
			Count:    counts[k],
		})
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Country != cells[j].Country {
			return cells[i].Country < cells[j].Country
		}
		return cells[i].RankFrom < cells[j].RankFrom
	})
	return cells
}

func (s *InsightService) Print(r *models.DashboardReport) {
	s.Fprint(os.Stdout, r)
}

// Fprint writes the console report to w.
func (s *InsightService) Fprint(w io.Writer, r *models.DashboardReport) {
	sep := strings.Repeat("═", 62)
	thin := strings.Repeat("─", 62)

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  📊 TOP INSTAGRAM INFLUENCERS DASHBOARD\033[0m\n")
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)

	fmt.Fprintf(w, "\033[1;33m  Selection\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Countries   : %s\n", strings.Join(r.Selection.Countries, ", "))
	fmt.Fprintf(w, "  Influencers : \033[1m%d\033[0m selected, \033[1m%d\033[0m matching\n",
		len(r.Selection.Influencers), r.RecordCount)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Overview\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Total likes          : \033[1;32m%s\033[0m\n", FormatSI(r.Indicators.TotalLikes))
	if r.Indicators.AvgEngagementRate != nil {
		fmt.Fprintf(w, "  Avg engagement rate  : \033[1;32m%.2f%%\033[0m\n", *r.Indicators.AvgEngagementRate)
	} else {
		fmt.Fprintf(w, "  Avg engagement rate  : n/a\n")
	}
	fmt.Fprintf(w, "  Total followers      : \033[1;32m%s\033[0m\n", FormatSI(r.Indicators.TotalFollowers))
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Top %d Instagram Influencers\033[0m\n", len(r.TopInfluencers))
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.TopInfluencers) == 0 {
		fmt.Fprintf(w, "  No influencers in selection\n")
	}
	for i, inf := range r.TopInfluencers {
		fmt.Fprintf(w, "  \033[1m%2d.\033[0m %-32s score \033[1;32m%5.1f\033[0m  rank %d\n",
			i+1, truncate(inf.ChannelInfo, 30), inf.InfluenceScore, inf.Rank)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Country-wise Average Influence Score\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	for _, g := range r.CountryInfluence {
		bar := strings.Repeat("█", max(0, int(g.Value/10)))
		fmt.Fprintf(w, "  %-24s %s %.2f\n", truncate(g.Key, 22), bar, g.Value)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Country-wise Average Engagement Rate\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	for _, g := range r.CountryEngagement {
		fmt.Fprintf(w, "  %-24s %.2f%% (%d)\n", truncate(g.Key, 22), g.Value, g.Count)
	}

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n\n", sep)
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-3]) + "..."
}
