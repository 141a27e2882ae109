package models

// DashboardReport holds everything the presentation layer draws for one selection.
type DashboardReport struct {
	Selection         Selection       `json:"selection"`
	RecordCount       int             `json:"record_count"`
	TopN              int             `json:"top_n"`
	Indicators        Indicators      `json:"indicators"`
	TopInfluencers    []*Influencer   `json:"top_influencers"`
	CountryEngagement []GroupValue    `json:"country_engagement"`
	CountryInfluence  []GroupValue    `json:"country_influence"`
	LikesHistogram    []HistogramBin  `json:"likes_histogram"`
	FollowerLikes     []ScatterPoint  `json:"follower_likes"`
	CountryLikeRatio  []CategoryPoint `json:"country_like_ratio"`
	EngagementHeatmap []HeatmapCell   `json:"engagement_heatmap"`
}

// Indicators are the headline numbers. AvgEngagementRate is nil when the
// selection is empty and the mean is undefined.
type Indicators struct {
	TotalLikes        float64  `json:"total_likes"`
	AvgEngagementRate *float64 `json:"avg_engagement_rate"`
	TotalFollowers    float64  `json:"total_followers"`
}

// GroupValue is one row of a group-by aggregation.
type GroupValue struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`
	Count int     `json:"count"`
}

// HistogramBin counts values in [Low, High).
type HistogramBin struct {
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
	Count int     `json:"count"`
}

// ScatterPoint is one marker of a numeric x/y scatter.
type ScatterPoint struct {
	Label string  `json:"label"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Size  float64 `json:"size"`
}

// CategoryPoint is one marker on a categorical x axis.
type CategoryPoint struct {
	Category string  `json:"category"`
	Label    string  `json:"label"`
	Value    float64 `json:"value"`
}

// HeatmapCell is the mean of a value over a rank band within one country.
type HeatmapCell struct {
	RankFrom int     `json:"rank_from"`
	RankTo   int     `json:"rank_to"`
	Country  string  `json:"country"`
	Mean     float64 `json:"mean"`
	Count    int     `json:"count"`
}
