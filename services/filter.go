package services

import (
	"sort"

	"influencer-dashboard/models"
	"influencer-dashboard/utils"
)

// Filter returns the records whose country and channel are both selected.
// An empty country or influencer list selects nothing. Order is preserved.
func Filter(records []*models.Influencer, sel models.Selection) []*models.Influencer {
	result := make([]*models.Influencer, 0)
	if len(sel.Countries) == 0 || len(sel.Influencers) == 0 {
		return result
	}

	countries := utils.NewKeySet(sel.Countries...)
	channels := utils.NewKeySet(sel.Influencers...)
	for _, r := range records {
		if countries.Contains(r.Country) && channels.Contains(r.ChannelInfo) {
			result = append(result, r)
		}
	}
	return result
}

// Options lists every country in the dataset and the influencers of the given
// countries, both sorted.
func Options(records []*models.Influencer, countries []string) (countryOptions, influencerOptions []string) {
	selected := utils.NewKeySet(countries...)
	allCountries := utils.NewKeySet()
	channels := utils.NewKeySet()

	countryOptions = make([]string, 0)
	influencerOptions = make([]string, 0)
	for _, r := range records {
		if allCountries.Add(r.Country) {
			countryOptions = append(countryOptions, r.Country)
		}
		if selected.Contains(r.Country) && channels.Add(r.ChannelInfo) {
			influencerOptions = append(influencerOptions, r.ChannelInfo)
		}
	}
	sort.Strings(countryOptions)
	sort.Strings(influencerOptions)
	return countryOptions, influencerOptions
}

// DefaultSelection picks the given countries and every influencer from them.
func DefaultSelection(records []*models.Influencer, countries ...string) models.Selection {
	_, influencers := Options(records, countries)
	return models.Selection{
		Countries:   append([]string{}, countries...),
		Influencers: influencers,
	}
}
