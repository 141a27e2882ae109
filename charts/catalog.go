// Package charts holds the dashboard's chart configuration and a PNG renderer
// for the charts that make sense as static images.
package charts

import (
	"fmt"

	"influencer-dashboard/models"
)

// Kind is the chart type understood by the front end.
type Kind string

const (
	KindIndicator  Kind = "indicator"
	KindBar        Kind = "bar"
	KindChoropleth Kind = "choropleth"
	KindHistogram  Kind = "histogram"
	KindScatter    Kind = "scatter"
	KindHeatmap    Kind = "density_heatmap"
)

// Chart IDs.
const (
	TotalLikes        = "total-likes"
	AvgEngagement     = "avg-engagement-rate"
	TotalFollowers    = "total-followers"
	TopInfluencers    = "top-influencers"
	CountryEngagement = "country-engagement"
	LikesHistogram    = "avg-likes-histogram"
	FollowerLikes     = "followers-vs-likes"
	CountryInfluence  = "country-influence"
	CountryLikeRatio  = "country-like-ratio"
	EngagementHeatmap = "engagement-heatmap"
)

// Magenta is the sequential colour scale used by every chart.
var Magenta = []string{
	"rgb(243, 203, 211)",
	"rgb(234, 169, 189)",
	"rgb(221, 136, 172)",
	"rgb(202, 105, 157)",
	"rgb(177, 77, 142)",
	"rgb(145, 53, 125)",
	"rgb(108, 33, 103)",
}

// Tab groups charts on the page.
type Tab struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

var Tabs = []Tab{
	{ID: "overview", Title: "Overview of Influencer Performance"},
	{ID: "engagement", Title: "Engagement and Influence Metrics"},
	{ID: "country", Title: "Country-Specific Insights"},
	{ID: "trends", Title: "Engagement Trends"},
}

// Spec is the presentation configuration of one chart. The report field named
// by Source holds its data.
type Spec struct {
	ID            string `json:"id"`
	Tab           string `json:"tab"`
	Kind          Kind   `json:"kind"`
	Title         string `json:"title"`
	Source        string `json:"source"`
	XTitle        string `json:"x_title,omitempty"`
	YTitle        string `json:"y_title,omitempty"`
	HoverTemplate string `json:"hover_template,omitempty"`
	ValueFormat   string `json:"value_format,omitempty"`
	LocationMode  string `json:"location_mode,omitempty"`
	Projection    string `json:"projection,omitempty"`
	TextAuto      bool   `json:"text_auto,omitempty"`
	ShowScale     bool   `json:"show_scale"`
	Height        int    `json:"height,omitempty"`
}

// Catalog lists every chart in page order.
var Catalog = []Spec{
	{ID: TotalLikes, Tab: "overview", Kind: KindIndicator, Title: "Total Likes",
		Source: "indicators.total_likes", ValueFormat: ".2s", Height: 160},
	{ID: AvgEngagement, Tab: "overview", Kind: KindIndicator, Title: "Avg Engagement Rate",
		Source: "indicators.avg_engagement_rate", ValueFormat: ".2s", Height: 160},
	{ID: TotalFollowers, Tab: "overview", Kind: KindIndicator, Title: "Total Followers",
		Source: "indicators.total_followers", ValueFormat: ".2s", Height: 160},
	{ID: TopInfluencers, Tab: "overview", Kind: KindBar, Title: "Top Instagram Influencers",
		Source: "top_influencers", XTitle: "Instagram Channel", YTitle: "Influence Score", TextAuto: true,
		HoverTemplate: "<b>Channel : </b>%{x}<br><b>Influence Score : </b>%{y}<br>"},
	{ID: CountryEngagement, Tab: "overview", Kind: KindChoropleth, Title: "Country-wise Average Engagement Rate",
		Source: "country_engagement", LocationMode: "country names", Projection: "natural earth",
		HoverTemplate: "<b>Country : </b>%{location}<br><b>Engagement Rate : </b>%{z:.2f}%<br>"},
	{ID: LikesHistogram, Tab: "engagement", Kind: KindHistogram, Title: "Distribution of Average Likes",
		Source: "likes_histogram", XTitle: "Average Likes", YTitle: "Frequency",
		HoverTemplate: "<b>Average Likes : </b>%{x}<br><b>Frequency : </b>%{y}"},
	{ID: FollowerLikes, Tab: "engagement", Kind: KindScatter, Title: "Followers vs Average Likes",
		Source: "follower_likes", XTitle: "Followers", YTitle: "Average Likes",
		HoverTemplate: "<b>Followers : </b>%{x}<br><b>Average Likes : </b>%{y}<br>"},
	{ID: CountryInfluence, Tab: "country", Kind: KindBar, Title: "Country-wise Average Influence Score",
		Source: "country_influence", XTitle: "Country", YTitle: "Influence Score", TextAuto: true,
		HoverTemplate: "<b>Country : </b>%{x}<br><b>Influence Score : </b>%{y}<br>"},
	{ID: CountryLikeRatio, Tab: "country", Kind: KindScatter, Title: "Country-wise Likes-to-Followers Ratio",
		Source: "country_like_ratio", XTitle: "Country", YTitle: "Likes-to-Followers Ratio",
		HoverTemplate: "<b>Country : </b>%{x}<br><b>Likes-to-Followers Ratio : </b>%{y}<br>"},
	{ID: EngagementHeatmap, Tab: "trends", Kind: KindHeatmap, Title: "60-Day Engagement Rate by Rank and Country",
		Source: "engagement_heatmap", XTitle: "Rank", YTitle: "Country", TextAuto: true, Height: 600,
		HoverTemplate: "<b>Country : </b>%{y}<br><b>Rank : </b>%{x}"},
}

// Lookup finds a chart by ID.
func Lookup(id string) (Spec, bool) {
	for _, s := range Catalog {
		if s.ID == id {
			return s, true
		}
	}
	return Spec{}, false
}

// TitleFor returns the chart title as drawn for report. The top influencers
// title carries the configured N.
func (s Spec) TitleFor(report *models.DashboardReport) string {
	if s.ID == TopInfluencers && report != nil && report.TopN > 0 {
		return fmt.Sprintf("Top %d Instagram Influencers", report.TopN)
	}
	return s.Title
}
