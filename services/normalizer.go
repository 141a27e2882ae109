package services

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"unicode"

	"influencer-dashboard/models"
	"influencer-dashboard/utils"
)

// suffixes are checked in order; "%" must win over the letter suffixes.
var suffixes = []struct {
	suffix string
	apply  func(float64) float64
}{
	{"%", func(v float64) float64 { return v / 100 }},
	{"k", func(v float64) float64 { return v * 1e3 }},
	{"m", func(v float64) float64 { return v * 1e6 }},
	{"b", func(v float64) float64 { return v * 1e9 }},
}

// Normalize converts a human-readable count or rate into its float magnitude.
// Examples:
//
//	"45%"   → 0.45
//	"12.3k" → 12300
//	"1.2m"  → 1200000
//	"3b"    → 3e9
//	"250"   → 250
func Normalize(value string) (float64, error) {
	s := strings.ToLower(strings.TrimSpace(value))

	apply := func(v float64) float64 { return v }
	for _, sfx := range suffixes {
		if strings.HasSuffix(s, sfx.suffix) {
			s = strings.TrimSpace(strings.TrimSuffix(s, sfx.suffix))
			apply = sfx.apply
			break
		}
	}

	if s == "" {
		return 0, &ParseError{Value: value, Reason: "no number"}
	}
	v, err := parseFinite(s)
	if err != nil {
		return 0, &ParseError{Value: value, Reason: err.Error()}
	}
	v = apply(v)
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, &ParseError{Value: value, Reason: "out of range"}
	}
	return v, nil
}

// parseFinite accepts plain decimal notation only; hex floats are rejected.
func parseFinite(s string) (float64, error) {
	if strings.HasPrefix(strings.TrimLeft(s, "+-"), "0x") {
		return 0, errors.New("invalid syntax")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) {
			return 0, numErr.Err
		}
		return 0, err
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, errors.New("not a finite number")
	}
	return v, nil
}

// Normalizer turns raw rows into Influencers.
type Normalizer struct {
	logger *utils.Logger
	strict bool
}

// NewNormalizer creates a Normalizer. In strict mode the first malformed row
// aborts the whole batch; otherwise the row is dropped with a warning.
func NewNormalizer(logger *utils.Logger, strict bool) *Normalizer {
	return &Normalizer{logger: logger, strict: strict}
}

// Normalize processes raw rows and returns normalized records in input order.
func (n *Normalizer) Normalize(raw []*models.RawInfluencer) ([]*models.Influencer, error) {
	seen := utils.NewKeySet()
	result := make([]*models.Influencer, 0, len(raw))

	for _, r := range raw {
		rec, err := normalizeRow(r)
		if err != nil {
			if n.strict {
				return nil, err
			}
			n.logger.Warn("[normalizer] Dropping row: %v", err)
			continue
		}

		if !seen.Add(rec.ChannelInfo) {
			n.logger.Warn("[normalizer] Duplicate channel skipped on line %d: %s", r.Line, rec.ChannelInfo)
			continue
		}

		result = append(result, rec)
	}

	n.logger.Debug("[normalizer] Normalized %d → %d records (dropped %d)",
		len(raw), len(result), len(raw)-len(result))
	return result, nil
}

func normalizeRow(r *models.RawInfluencer) (*models.Influencer, error) {
	rec := &models.Influencer{
		ChannelInfo: normaliseText(r.ChannelInfo),
		Country:     normaliseText(r.Country),
		Extra:       r.Extra,
	}

	rank, err := strconv.Atoi(strings.TrimSpace(r.Rank))
	if err != nil || rank < 1 {
		return nil, &ParseError{Line: r.Line, Column: models.ColRank, Value: r.Rank, Reason: "not a positive integer"}
	}
	rec.Rank = rank

	score, err := parseFinite(strings.TrimSpace(r.InfluenceScore))
	if err != nil {
		return nil, &ParseError{Line: r.Line, Column: models.ColInfluenceScore, Value: r.InfluenceScore, Reason: err.Error()}
	}
	rec.InfluenceScore = score

	columns := []struct {
		name string
		raw  string
		dst  *float64
	}{
		{models.ColPosts, r.Posts, &rec.Posts},
		{models.ColFollowers, r.Followers, &rec.Followers},
		{models.ColAvgLikes, r.AvgLikes, &rec.AvgLikes},
		{models.ColEngRate60Day, r.EngRate60Day, &rec.EngRate60Day},
		{models.ColNewPostAvgLike, r.NewPostAvgLike, &rec.NewPostAvgLike},
		{models.ColTotalLikes, r.TotalLikes, &rec.TotalLikes},
	}
	for _, col := range columns {
		v, err := Normalize(col.raw)
		if err != nil {
			var pe *ParseError
			if errors.As(err, &pe) {
				pe.Line = r.Line
				pe.Column = col.name
			}
			return nil, err
		}
		*col.dst = v
	}

	return rec, nil
}

// FormatSI renders v with two significant digits and a k/M/G/T suffix,
// the way the dashboard indicators display totals.
func FormatSI(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "-"
	}
	units := []struct {
		scale  float64
		suffix string
	}{
		{1e12, "T"},
		{1e9, "G"},
		{1e6, "M"},
		{1e3, "k"},
	}
	// The unit is picked from the rounded value so 999.6k reads as 1M.
	v = roundSig(v, 2)
	abs := math.Abs(v)
	for _, u := range units {
		if abs >= u.scale {
			return strconv.FormatFloat(roundSig(v/u.scale, 2), 'f', -1, 64) + u.suffix
		}
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func roundSig(v float64, digits int) float64 {
	if v == 0 {
		return 0
	}
	shift := digits - int(math.Ceil(math.Log10(math.Abs(v))))
	if shift >= 0 {
		pow := math.Pow(10, float64(shift))
		return math.Round(v*pow) / pow
	}
	pow := math.Pow(10, float64(-shift))
	return math.Round(v/pow) * pow
}

// normaliseText strips leading/trailing whitespace and collapses internal whitespace.
func normaliseText(s string) string {
	fields := strings.FieldsFunc(strings.TrimSpace(s), unicode.IsSpace)
	return strings.Join(fields, " ")
}
