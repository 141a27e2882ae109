package storage

import (
	"sort"
	"strconv"

	"influencer-dashboard/models"
)

var baseHeader = []string{
	models.ColRank, models.ColChannelInfo, models.ColCountry, models.ColInfluenceScore,
	models.ColPosts, models.ColFollowers, models.ColAvgLikes, models.ColEngRate60Day,
	models.ColNewPostAvgLike, models.ColTotalLikes,
	string(models.FieldEngagementRate), string(models.FieldGrowthRate), string(models.FieldLikeFollowerRatio),
}

// extraColumns returns the sorted union of pass-through column names.
func extraColumns(records []*models.Influencer) []string {
	set := make(map[string]struct{})
	for _, r := range records {
		for k := range r.Extra {
			set[k] = struct{}{}
		}
	}
	cols := make([]string, 0, len(set))
	for k := range set {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}

// tableHeader is the export header: known columns, derived metrics, then extras.
func tableHeader(extras []string) []string {
	header := make([]string, 0, len(baseHeader)+len(extras))
	header = append(header, baseHeader...)
	return append(header, extras...)
}

// tableRow renders r in tableHeader order as typed cell values.
func tableRow(r *models.Influencer, extras []string) []interface{} {
	row := []interface{}{
		r.Rank, r.ChannelInfo, r.Country, r.InfluenceScore,
		r.Posts, r.Followers, r.AvgLikes, r.EngRate60Day,
		r.NewPostAvgLike, r.TotalLikes,
		r.Metrics.EngagementRate, r.Metrics.GrowthRate, r.Metrics.LikeFollowerRatio,
	}
	for _, e := range extras {
		row = append(row, r.Extra[e])
	}
	return row
}

func formatCell(v interface{}) string {
	switch x := v.(type) {
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return ""
}
