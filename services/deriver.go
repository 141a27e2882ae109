package services

import (
	"errors"
	"math"

	"influencer-dashboard/models"
	"influencer-dashboard/utils"
)

// Derive computes the engagement rate, growth rate and like-to-follower ratio
// of a normalized record. Zero followers or zero average likes leave a metric
// undefined and yield a DerivationError.
func Derive(r *models.Influencer) (models.Metrics, error) {
	if r.Followers == 0 {
		return models.Metrics{}, &DerivationError{Channel: r.ChannelInfo, Metric: "engagement_rate", Reason: "followers is zero"}
	}
	if r.AvgLikes == 0 {
		return models.Metrics{}, &DerivationError{Channel: r.ChannelInfo, Metric: "growth_rate", Reason: "avg_likes is zero"}
	}

	m := models.Metrics{
		EngagementRate:    r.AvgLikes / r.Followers * 100,
		GrowthRate:        (r.NewPostAvgLike - r.AvgLikes) / r.AvgLikes * 100,
		LikeFollowerRatio: r.TotalLikes / r.Followers,
	}

	for name, v := range map[string]float64{
		"engagement_rate":     m.EngagementRate,
		"growth_rate":         m.GrowthRate,
		"like_follower_ratio": m.LikeFollowerRatio,
	} {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return models.Metrics{}, &DerivationError{Channel: r.ChannelInfo, Metric: name, Reason: "result is not finite"}
		}
	}
	return m, nil
}

// Deriver attaches metrics to records and excludes those it cannot derive.
type Deriver struct {
	logger *utils.Logger
}

func NewDeriver(logger *utils.Logger) *Deriver {
	return &Deriver{logger: logger}
}

// Apply sets Metrics on each record and returns the records that have them,
// in input order.
func (d *Deriver) Apply(records []*models.Influencer) []*models.Influencer {
	result := make([]*models.Influencer, 0, len(records))
	for _, r := range records {
		m, err := Derive(r)
		if err != nil {
			var de *DerivationError
			if errors.As(err, &de) {
				d.logger.Warn("[deriver] Excluding record: %v", de)
			}
			continue
		}
		r.Metrics = m
		result = append(result, r)
	}
	return result
}
