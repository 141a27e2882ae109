package models

// Column names of the influencer dataset header.
const (
	ColRank           = "rank"
	ColChannelInfo    = "channel_info"
	ColInfluenceScore = "influence_score"
	ColPosts          = "posts"
	ColFollowers      = "followers"
	ColAvgLikes       = "avg_likes"
	ColEngRate60Day   = "60_day_eng_rate"
	ColNewPostAvgLike = "new_post_avg_like"
	ColTotalLikes     = "total_likes"
	ColCountry        = "country"
)

// RequiredColumns lists the header columns the loader insists on.
var RequiredColumns = []string{
	ColRank, ColChannelInfo, ColInfluenceScore, ColPosts, ColFollowers,
	ColAvgLikes, ColEngRate60Day, ColNewPostAvgLike, ColTotalLikes, ColCountry,
}

// RawInfluencer holds one dataset row exactly as read from the CSV file.
// Every field is non-empty once the loader has dropped incomplete rows.
type RawInfluencer struct {
	Line           int
	Rank           string
	ChannelInfo    string
	InfluenceScore string
	Posts          string
	Followers      string
	AvgLikes       string
	EngRate60Day   string
	NewPostAvgLike string
	TotalLikes     string
	Country        string

	// Extra carries columns outside the known schema, passed through unmodified.
	Extra map[string]string
}

// Influencer is a normalized record. Metrics is filled by the deriver and is
// always a function of the normalized fields above it.
type Influencer struct {
	Rank           int               `json:"rank"`
	ChannelInfo    string            `json:"channel_info"`
	Country        string            `json:"country"`
	InfluenceScore float64           `json:"influence_score"`
	Posts          float64           `json:"posts"`
	Followers      float64           `json:"followers"`
	AvgLikes       float64           `json:"avg_likes"`
	EngRate60Day   float64           `json:"60_day_eng_rate"`
	NewPostAvgLike float64           `json:"new_post_avg_like"`
	TotalLikes     float64           `json:"total_likes"`
	Metrics        Metrics           `json:"metrics"`
	Extra          map[string]string `json:"extra,omitempty"`
}

// Metrics are the derived ratios of an Influencer.
type Metrics struct {
	EngagementRate    float64 `json:"engagement_rate"`
	GrowthRate        float64 `json:"growth_rate"`
	LikeFollowerRatio float64 `json:"like_follower_ratio"`
}

// Selection is the user's country and influencer choice.
type Selection struct {
	Countries   []string `json:"countries"`
	Influencers []string `json:"influencers"`
}
