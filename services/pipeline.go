package services

import (
	"fmt"

	"influencer-dashboard/models"
	"influencer-dashboard/utils"
)

// RawSource yields the raw dataset rows. Implementations may memoize.
type RawSource interface {
	Rows() ([]*models.RawInfluencer, error)
}

// Pipeline runs normalize → derive → filter → aggregate over a RawSource.
// Only the raw rows are reused between runs; everything downstream is recomputed.
type Pipeline struct {
	source     RawSource
	normalizer *Normalizer
	deriver    *Deriver
	insights   *InsightService
}

func NewPipeline(source RawSource, normalizer *Normalizer, deriver *Deriver, insights *InsightService) *Pipeline {
	return &Pipeline{source: source, normalizer: normalizer, deriver: deriver, insights: insights}
}

// Records returns every normalized record that has derived metrics.
func (p *Pipeline) Records() ([]*models.Influencer, error) {
	raw, err := p.source.Rows()
	if err != nil {
		return nil, fmt.Errorf("pipeline: load: %w", err)
	}
	normalized, err := p.normalizer.Normalize(raw)
	if err != nil {
		return nil, fmt.Errorf("pipeline: normalize: %w", err)
	}
	return p.deriver.Apply(normalized), nil
}

// Selected returns the records matching sel.
func (p *Pipeline) Selected(sel models.Selection) ([]*models.Influencer, error) {
	records, err := p.Records()
	if err != nil {
		return nil, err
	}
	return Filter(records, sel), nil
}

// Report runs the whole pipeline for sel.
func (p *Pipeline) Report(sel models.Selection) (*models.DashboardReport, error) {
	selected, err := p.Selected(sel)
	if err != nil {
		return nil, err
	}
	return p.insights.Generate(selected, sel)
}

// Options returns the country options and the influencers of countries.
func (p *Pipeline) Options(countries []string) (countryOptions, influencerOptions []string, err error) {
	records, err := p.Records()
	if err != nil {
		return nil, nil, err
	}
	countryOptions, influencerOptions = Options(records, countries)
	return countryOptions, influencerOptions, nil
}

// DefaultSelection selects the given countries and all their influencers.
func (p *Pipeline) DefaultSelection(countries ...string) (models.Selection, error) {
	records, err := p.Records()
	if err != nil {
		return models.Selection{}, err
	}
	return DefaultSelection(records, countries...), nil
}

// Insights exposes the report generator, e.g. for console printing.
func (p *Pipeline) Insights() *InsightService {
	return p.insights
}

// NewDefaultPipeline wires the standard stages with one logger.
func NewDefaultPipeline(source RawSource, logger *utils.Logger, strict bool, topN, histogramBins int) *Pipeline {
	return NewPipeline(source,
		NewNormalizer(logger, strict),
		NewDeriver(logger),
		NewInsightService(logger, topN, histogramBins))
}
