// Package drafts holds the client-side, possibly-unsaved state of the
// ad editor: one ordered draft list per placement. The server is the
// source of truth; every successful save or delete throws the local
// state away and reloads.
package drafts

import (
	"context"
	"sort"
	"strconv"

	"adsmanager/internal/client/api"
	"adsmanager/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Positions enumerates the three placements in display order.
var Positions = []store.Position{store.PositionTop, store.PositionMiddle, store.PositionBottom}

// Draft is a client-local ad. ID is zero until the first successful
// save; until then TempID keys the draft in UI lists.
type Draft struct {
	ID       int64
	TempID   string
	Content  string
	Position store.Position
	Order    int
}

// Persisted reports whether the draft exists server-side.
func (d *Draft) Persisted() bool {
	return d.ID != 0
}

// Key returns the unique UI identifier: the storage id if persisted,
// else the client-generated temp id.
func (d *Draft) Key() string {
	if d.Persisted() {
		return strconv.FormatInt(d.ID, 10)
	}
	return d.TempID
}

// Store owns the draft state for one selected site. It is passed by
// reference to UI handlers; there is no package-level singleton.
type Store struct {
	client   *api.Client
	logger   *zap.SugaredLogger
	sections map[store.Position][]*Draft
}

func NewStore(client *api.Client, logger *zap.SugaredLogger) *Store {
	return &Store{
		client:   client,
		logger:   logger,
		sections: emptySections(),
	}
}

func emptySections() map[store.Position][]*Draft {
	sections := make(map[store.Position][]*Draft, len(Positions))
	for _, p := range Positions {
		sections[p] = []*Draft{}
	}
	return sections
}

// Section returns the current ordered draft list for one placement.
func (s *Store) Section(position store.Position) []*Draft {
	return s.sections[position]
}

// Load fetches all ads for a site and rebuilds the three sections,
// each sorted ascending by order. A transport failure resets every
// section to empty; it is observable only through the log.
func (s *Store) Load(ctx context.Context, site string) {
	ads, err := s.client.ListAds(ctx, site, "")
	if err != nil {
		s.logger.Errorw("failed to load ads, resetting sections", "site", site, "error", err)
		s.sections = emptySections()
		return
	}

	sections := emptySections()
	for _, ad := range ads {
		if _, ok := sections[ad.Position]; !ok {
			continue
		}
		sections[ad.Position] = append(sections[ad.Position], &Draft{
			ID:       ad.ID,
			Content:  ad.Content,
			Position: ad.Position,
			Order:    ad.Order,
		})
	}
	for _, p := range Positions {
		section := sections[p]
		sort.SliceStable(section, func(i, j int) bool {
			return section[i].Order < section[j].Order
		})
	}

	s.sections = sections
}

// Add appends a fresh empty draft to a section. Local only.
func (s *Store) Add(position store.Position) *Draft {
	d := &Draft{
		TempID:   uuid.NewString(),
		Position: position,
		Order:    len(s.sections[position]),
	}
	s.sections[position] = append(s.sections[position], d)
	return d
}

// Remove drops the draft whose Key matches key from a section. Local
// only; a persisted record stays in storage until Delete is called.
func (s *Store) Remove(position store.Position, key string) {
	section := s.sections[position]
	kept := section[:0]
	for _, d := range section {
		if d.Key() != key {
			kept = append(kept, d)
		}
	}
	s.sections[position] = kept
}

// Reorder moves one draft within a section from index from to index
// to, shifting the drafts in between. A cancelled drag resolves no
// destination, so out-of-range indices are a no-op.
func (s *Store) Reorder(position store.Position, from, to int) {
	section := s.sections[position]
	if from < 0 || from >= len(section) || to < 0 || to >= len(section) || from == to {
		return
	}

	d := section[from]
	section = append(section[:from], section[from+1:]...)
	section = append(section[:to], append([]*Draft{d}, section[to:]...)...)
	s.sections[position] = section
}

// SaveSection submits one section's full list, overwriting each
// element's order with its index and omitting ids for unsaved drafts.
// On success the local state is discarded and reloaded from the
// server. On failure the local drafts stay untouched so the user can
// retry.
func (s *Store) SaveSection(ctx context.Context, site string, position store.Position) error {
	section := s.sections[position]
	batch := make([]api.AdUpsert, 0, len(section))
	for i, d := range section {
		batch = append(batch, api.AdUpsert{
			ID:       d.ID,
			Content:  d.Content,
			Position: position,
			Order:    i,
		})
	}

	if _, err := s.client.SaveAds(ctx, site, batch); err != nil {
		return err
	}

	s.Load(ctx, site)
	return nil
}

// Delete removes a persisted ad from storage and reloads. On failure
// the draft stays in place and the error is returned to the caller.
func (s *Store) Delete(ctx context.Context, site string, id int64) error {
	if _, err := s.client.DeleteAd(ctx, id); err != nil {
		return err
	}

	s.Load(ctx, site)
	return nil
}
