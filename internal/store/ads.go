package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Position is the placement zone an ad belongs to.
type Position string

const (
	PositionTop    Position = "top"
	PositionMiddle Position = "middle"
	PositionBottom Position = "bottom"
)

// Valid reports whether p is one of the three known placements.
func (p Position) Valid() bool {
	switch p {
	case PositionTop, PositionMiddle, PositionBottom:
		return true
	}
	return false
}

// Ad represents the ads table structure. Within one position the
// display order equals the 0-based index of the record in the last
// saved batch; nothing else is inferred from it.
type Ad struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	Position  Position  `json:"position"`
	Order     int       `json:"order"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AdWrite is one element of a bulk save batch. A batch mixes inserts
// (drafts that have never been persisted) and in-place updates, so the
// two cases are dispatched explicitly instead of sniffing for a zero id.
type AdWrite interface {
	adWrite()
}

// NewAdDraft inserts a record that has no storage identity yet.
type NewAdDraft struct {
	Content  string
	Position Position
	Order    int
}

// ExistingAdUpdate rewrites content, position and order of a persisted
// record. If no record with ID exists the element is silently skipped.
type ExistingAdUpdate struct {
	ID       int64
	Content  string
	Position Position
	Order    int
}

func (NewAdDraft) adWrite()       {}
func (ExistingAdUpdate) adWrite() {}

type AdsStore struct {
	db *pgxpool.Pool
}

const adColumns = "id, content, position, display_order, is_active, created_at, updated_at"

func scanAd(row pgx.Row) (*Ad, error) {
	var ad Ad
	err := row.Scan(
		&ad.ID, &ad.Content, &ad.Position, &ad.Order,
		&ad.IsActive, &ad.CreatedAt, &ad.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &ad, nil
}

func collectAds(rows pgx.Rows) ([]Ad, error) {
	defer rows.Close()

	var ads []Ad
	for rows.Next() {
		ad, err := scanAd(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ad row: %w", err)
		}
		ads = append(ads, *ad)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over rows: %w", err)
	}
	return ads, nil
}

// List returns all ads, optionally filtered to one position, ordered by
// (position, display_order). No pagination; the ad pool is small.
func (s *AdsStore) List(ctx context.Context, position string) ([]Ad, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := fmt.Sprintf(`
		SELECT %s
		FROM ads
		ORDER BY position ASC, display_order ASC
	`, adColumns)
	args := []any{}

	if position != "" {
		query = fmt.Sprintf(`
			SELECT %s
			FROM ads
			WHERE position = $1
			ORDER BY position ASC, display_order ASC
		`, adColumns)
		args = append(args, position)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ads: %w", err)
	}

	return collectAds(rows)
}

// BulkUpsert applies one section's save batch and returns the fresh
// state of every position touched by the batch, ordered by
// (position, display_order). The returned set can contain sibling
// records that were not part of the batch.
//
// The writes ride a single pgx batch, which runs in an implicit
// transaction: a failing element rolls the whole batch back.
func (s *AdsStore) BulkUpsert(ctx context.Context, writes []AdWrite) ([]Ad, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	positions := make([]string, 0, 3)
	seen := make(map[Position]bool, 3)

	track := func(p Position) {
		if !seen[p] {
			seen[p] = true
			positions = append(positions, string(p))
		}
	}

	if len(writes) > 0 {
		batch := &pgx.Batch{}
		for _, w := range writes {
			switch w := w.(type) {
			case NewAdDraft:
				batch.Queue(
					`INSERT INTO ads (content, position, display_order) VALUES ($1, $2, $3)`,
					strings.TrimSpace(w.Content), w.Position, w.Order,
				)
				track(w.Position)
			case ExistingAdUpdate:
				batch.Queue(
					`UPDATE ads SET content = $1, position = $2, display_order = $3, updated_at = NOW() WHERE id = $4`,
					strings.TrimSpace(w.Content), w.Position, w.Order, w.ID,
				)
				track(w.Position)
			default:
				return nil, fmt.Errorf("unknown ad write type %T", w)
			}
		}

		br := s.db.SendBatch(ctx, batch)
		for range writes {
			if _, err := br.Exec(); err != nil {
				br.Close()
				return nil, fmt.Errorf("failed to apply ad batch: %w", err)
			}
		}
		if err := br.Close(); err != nil {
			return nil, fmt.Errorf("failed to close ad batch: %w", err)
		}
	}

	if len(positions) == 0 {
		return []Ad{}, nil
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM ads
		WHERE position = ANY($1)
		ORDER BY position ASC, display_order ASC
	`, adColumns)

	rows, err := s.db.Query(ctx, query, positions)
	if err != nil {
		return nil, fmt.Errorf("failed to re-read saved positions: %w", err)
	}

	return collectAds(rows)
}

// UpdateOne rewrites content, position and order of a single record.
func (s *AdsStore) UpdateOne(ctx context.Context, id int64, content string, position Position, order int) (*Ad, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := fmt.Sprintf(`
		UPDATE ads
		SET content = $1, position = $2, display_order = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING %s
	`, adColumns)

	ad, err := scanAd(s.db.QueryRow(ctx, query, strings.TrimSpace(content), position, order, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update ad: %w", err)
	}

	return ad, nil
}

// DeleteOne removes a record permanently and returns its last known state.
func (s *AdsStore) DeleteOne(ctx context.Context, id int64) (*Ad, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := fmt.Sprintf(`
		DELETE FROM ads
		WHERE id = $1
		RETURNING %s
	`, adColumns)

	ad, err := scanAd(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to delete ad: %w", err)
	}

	return ad, nil
}
