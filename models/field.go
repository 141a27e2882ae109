package models

// Field names a numeric column of an Influencer, raw or derived.
type Field string

const (
	FieldRank              Field = ColRank
	FieldInfluenceScore    Field = ColInfluenceScore
	FieldPosts             Field = ColPosts
	FieldFollowers         Field = ColFollowers
	FieldAvgLikes          Field = ColAvgLikes
	FieldEngRate60Day      Field = ColEngRate60Day
	FieldNewPostAvgLike    Field = ColNewPostAvgLike
	FieldTotalLikes        Field = ColTotalLikes
	FieldEngagementRate    Field = "engagement_rate"
	FieldGrowthRate        Field = "growth_rate"
	FieldLikeFollowerRatio Field = "like_follower_ratio"
)

// GroupField names a categorical column usable as a group-by key.
type GroupField string

const (
	GroupCountry     GroupField = ColCountry
	GroupChannelInfo GroupField = ColChannelInfo
)

var fieldAccessors = map[Field]func(*Influencer) float64{
	FieldRank:              func(r *Influencer) float64 { return float64(r.Rank) },
	FieldInfluenceScore:    func(r *Influencer) float64 { return r.InfluenceScore },
	FieldPosts:             func(r *Influencer) float64 { return r.Posts },
	FieldFollowers:         func(r *Influencer) float64 { return r.Followers },
	FieldAvgLikes:          func(r *Influencer) float64 { return r.AvgLikes },
	FieldEngRate60Day:      func(r *Influencer) float64 { return r.EngRate60Day },
	FieldNewPostAvgLike:    func(r *Influencer) float64 { return r.NewPostAvgLike },
	FieldTotalLikes:        func(r *Influencer) float64 { return r.TotalLikes },
	FieldEngagementRate:    func(r *Influencer) float64 { return r.Metrics.EngagementRate },
	FieldGrowthRate:        func(r *Influencer) float64 { return r.Metrics.GrowthRate },
	FieldLikeFollowerRatio: func(r *Influencer) float64 { return r.Metrics.LikeFollowerRatio },
}

// Value returns the field's value for r. ok is false for an unknown field.
func (f Field) Value(r *Influencer) (v float64, ok bool) {
	get, ok := fieldAccessors[f]
	if !ok {
		return 0, false
	}
	return get(r), true
}

// Valid reports whether f names a known numeric column.
func (f Field) Valid() bool {
	_, ok := fieldAccessors[f]
	return ok
}

// Value returns the group key of r. ok is false for an unknown group field.
func (g GroupField) Value(r *Influencer) (string, bool) {
	switch g {
	case GroupCountry:
		return r.Country, true
	case GroupChannelInfo:
		return r.ChannelInfo, true
	}
	return "", false
}

// Valid reports whether g names a known categorical column.
func (g GroupField) Valid() bool {
	return g == GroupCountry || g == GroupChannelInfo
}
