package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	_ "github.com/lib/pq"

	"influencer-dashboard/models"
	"influencer-dashboard/utils"
)

const insertColumns = 14

// PostgresWriter persists the normalized table to PostgreSQL.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string, retry *utils.RetryConfig) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	if err := retry.Do("postgres-ping", db.Ping); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS influencers (
			id                  SERIAL PRIMARY KEY,
			rank                INTEGER          NOT NULL,
			channel_info        TEXT             UNIQUE NOT NULL,
			country             TEXT             NOT NULL,
			influence_score     DOUBLE PRECISION NOT NULL,
			posts               DOUBLE PRECISION NOT NULL,
			followers           DOUBLE PRECISION NOT NULL,
			avg_likes           DOUBLE PRECISION NOT NULL,
			eng_rate_60_day     DOUBLE PRECISION NOT NULL,
			new_post_avg_like   DOUBLE PRECISION NOT NULL,
			total_likes         DOUBLE PRECISION NOT NULL,
			engagement_rate     DOUBLE PRECISION NOT NULL,
			growth_rate         DOUBLE PRECISION NOT NULL,
			like_follower_ratio DOUBLE PRECISION NOT NULL,
			extra               JSONB            NOT NULL DEFAULT '{}',
			loaded_at           TIMESTAMPTZ      NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_influencers_country ON influencers(country);
		CREATE INDEX IF NOT EXISTS idx_influencers_rank    ON influencers(rank);
		CREATE INDEX IF NOT EXISTS idx_influencers_score   ON influencers(influence_score);
	`)
	return err
}

// Write replaces the table contents with records in one transaction.
func (pw *PostgresWriter) Write(records []*models.Influencer) error {
	tx, err := pw.db.Begin()
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM influencers"); err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}

	const batchSize = 50
	for i := 0; i < len(records); i += batchSize {
		end := i + batchSize
		if end > len(records) {
			end = len(records)
		}
		query, args, err := buildInsert(records[i:end])
		if err != nil {
			return err
		}
		if _, err := tx.Exec(query, args...); err != nil {
			return fmt.Errorf("postgres: insert batch: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	return nil
}

func buildInsert(batch []*models.Influencer) (string, []interface{}, error) {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*insertColumns)

	for idx, r := range batch {
		placeholders := make([]string, insertColumns)
		for c := range placeholders {
			placeholders[c] = fmt.Sprintf("$%d", idx*insertColumns+c+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")

		extra := r.Extra
		if extra == nil {
			extra = map[string]string{}
		}
		extraJSON, err := json.Marshal(extra)
		if err != nil {
			return "", nil, fmt.Errorf("postgres: encode extra for %q: %w", r.ChannelInfo, err)
		}

		valueArgs = append(valueArgs,
			r.Rank, r.ChannelInfo, r.Country, r.InfluenceScore,
			r.Posts, r.Followers, r.AvgLikes, r.EngRate60Day, r.NewPostAvgLike, r.TotalLikes,
			r.Metrics.EngagementRate, r.Metrics.GrowthRate, r.Metrics.LikeFollowerRatio,
			string(extraJSON))
	}

	query := fmt.Sprintf(`
		INSERT INTO influencers (rank, channel_info, country, influence_score,
			posts, followers, avg_likes, eng_rate_60_day, new_post_avg_like, total_likes,
			engagement_rate, growth_rate, like_follower_ratio, extra)
		VALUES %s
		ON CONFLICT (channel_info) DO NOTHING
	`, strings.Join(valueStrings, ","))

	return query, valueArgs, nil
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}

// FetchAll retrieves all stored influencers in rank order.
func (pw *PostgresWriter) FetchAll() ([]*models.Influencer, error) {
	rows, err := pw.db.Query(`
		SELECT rank, channel_info, country, influence_score,
			posts, followers, avg_likes, eng_rate_60_day, new_post_avg_like, total_likes,
			engagement_rate, growth_rate, like_follower_ratio, extra
		FROM influencers
		ORDER BY rank, id
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch all: %w", err)
	}
	defer rows.Close()

	var records []*models.Influencer
	for rows.Next() {
		r := &models.Influencer{}
		var extra []byte
		if err := rows.Scan(
			&r.Rank, &r.ChannelInfo, &r.Country, &r.InfluenceScore,
			&r.Posts, &r.Followers, &r.AvgLikes, &r.EngRate60Day, &r.NewPostAvgLike, &r.TotalLikes,
			&r.Metrics.EngagementRate, &r.Metrics.GrowthRate, &r.Metrics.LikeFollowerRatio, &extra,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		if len(extra) > 0 && string(extra) != "{}" {
			if err := json.Unmarshal(extra, &r.Extra); err != nil {
				return nil, fmt.Errorf("postgres: decode extra for %q: %w", r.ChannelInfo, err)
			}
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
