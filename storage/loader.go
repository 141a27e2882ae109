package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"sync"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"influencer-dashboard/models"
	"influencer-dashboard/utils"
)

// missingValues are the cell contents treated as "no value".
var missingValues = []string{"", "NA", "N/A", "NaN", "nan", "null", "<nil>"}

// Loader reads the influencer CSV into raw rows.
type Loader struct {
	path   string
	logger *utils.Logger
}

// NewLoader creates a Loader for the CSV file at path.
func NewLoader(path string, logger *utils.Logger) *Loader {
	return &Loader{path: path, logger: logger}
}

// Load reads every row, keeping all values as strings, and drops rows with any
// missing cell. Columns outside the known schema are kept in RawInfluencer.Extra.
func (l *Loader) Load() ([]*models.RawInfluencer, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("loader: open %q: %w", l.path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("loader: read %q: %w", l.path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("loader: read %q: no header", l.path)
	}
	if err := checkColumns(records[0]); err != nil {
		return nil, fmt.Errorf("loader: %q: %w", l.path, err)
	}
	// A frame needs at least one data row.
	if len(records) == 1 {
		l.logger.Info("[loader] Loaded 0 rows from %s (header only)", l.path)
		return []*models.RawInfluencer{}, nil
	}

	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(missingValues),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("loader: read %q: %w", l.path, df.Err)
	}

	names := df.Names()
	cols := make(map[string]series.Series, len(names))
	for _, name := range names {
		cols[name] = df.Col(name)
	}

	known := make(map[string]bool, len(models.RequiredColumns))
	for _, c := range models.RequiredColumns {
		known[c] = true
	}

	rows := make([]*models.RawInfluencer, 0, df.Nrow())
	dropped := 0
	for i := 0; i < df.Nrow(); i++ {
		if rowHasMissing(cols, names, i) {
			l.logger.Debug("[loader] Dropping incomplete row on line %d", i+2)
			dropped++
			continue
		}

		cell := func(name string) string { return cols[name].Elem(i).String() }
		r := &models.RawInfluencer{
			Line:           i + 2,
			Rank:           cell(models.ColRank),
			ChannelInfo:    cell(models.ColChannelInfo),
			InfluenceScore: cell(models.ColInfluenceScore),
			Posts:          cell(models.ColPosts),
			Followers:      cell(models.ColFollowers),
			AvgLikes:       cell(models.ColAvgLikes),
			EngRate60Day:   cell(models.ColEngRate60Day),
			NewPostAvgLike: cell(models.ColNewPostAvgLike),
			TotalLikes:     cell(models.ColTotalLikes),
			Country:        cell(models.ColCountry),
		}
		for _, name := range names {
			if known[name] {
				continue
			}
			if r.Extra == nil {
				r.Extra = make(map[string]string)
			}
			r.Extra[name] = cell(name)
		}
		rows = append(rows, r)
	}

	l.logger.Info("[loader] Loaded %d rows from %s (dropped %d incomplete)", len(rows), l.path, dropped)
	return rows, nil
}

func rowHasMissing(cols map[string]series.Series, names []string, i int) bool {
	for _, name := range names {
		if cols[name].Elem(i).IsNA() {
			return true
		}
	}
	return false
}

type rowLoader interface {
	Load() ([]*models.RawInfluencer, error)
}

// Dataset memoizes a single load for the lifetime of the process. The file is
// static, so the cached rows are never invalidated. Callers must treat the
// returned rows as read-only.
type Dataset struct {
	loader rowLoader

	once sync.Once
	rows []*models.RawInfluencer
	err  error
}

// NewDataset wraps loader with load-once semantics.
func NewDataset(loader rowLoader) *Dataset {
	return &Dataset{loader: loader}
}

// Rows loads on first call and returns the same rows and error afterwards.
func (d *Dataset) Rows() ([]*models.RawInfluencer, error) {
	d.once.Do(func() {
		d.rows, d.err = d.loader.Load()
	})
	return d.rows, d.err
}

func checkColumns(header []string) error {
	present := utils.NewKeySet(header...)
	for _, required := range models.RequiredColumns {
		if !present.Contains(required) {
			return fmt.Errorf("missing column %q", required)
		}
	}
	return nil
}
