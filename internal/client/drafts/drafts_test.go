package drafts

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"adsmanager/internal/client/api"
	"adsmanager/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.uber.org/zap"
)

// receivedUpsert mirrors one bulk save element as the server sees it,
// with pointers so tests can assert which fields were present.
type receivedUpsert struct {
	ID       *int64 `json:"id"`
	Content  string `json:"content"`
	Position string `json:"position"`
	Order    *int   `json:"order"`
}

// contractServer is an in-memory implementation of the ads HTTP
// contract for exercising the draft store end to end.
type contractServer struct {
	mu      sync.Mutex
	nextID  int64
	ads     map[int64]store.Ad
	batches [][]receivedUpsert
}

func newContractServer() *contractServer {
	return &contractServer{ads: make(map[int64]store.Ad)}
}

func (s *contractServer) seed(content string, position store.Position, order int) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.ads[s.nextID] = store.Ad{ID: s.nextID, Content: content, Position: position, Order: order, IsActive: true}
	return s.nextID
}

func (s *contractServer) sorted() []store.Ad {
	var ads []store.Ad
	for _, ad := range s.ads {
		ads = append(ads, ad)
	}
	sort.Slice(ads, func(i, j int) bool {
		if ads[i].Position != ads[j].Position {
			return ads[i].Position < ads[j].Position
		}
		if ads[i].Order != ads[j].Order {
			return ads[i].Order < ads[j].Order
		}
		return ads[i].ID < ads[j].ID
	})
	if ads == nil {
		ads = []store.Ad{}
	}
	return ads
}

func (s *contractServer) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/v1/ads", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()

		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode(s.sorted())
		case http.MethodPost:
			var batch []receivedUpsert
			if err := json.NewDecoder(r.Body).Decode(&batch); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			s.batches = append(s.batches, batch)
			for _, el := range batch {
				order := 0
				if el.Order != nil {
					order = *el.Order
				}
				if el.ID != nil {
					ad, ok := s.ads[*el.ID]
					if !ok {
						continue
					}
					ad.Content = el.Content
					ad.Position = store.Position(el.Position)
					ad.Order = order
					s.ads[*el.ID] = ad
					continue
				}
				s.nextID++
				s.ads[s.nextID] = store.Ad{
					ID: s.nextID, Content: el.Content,
					Position: store.Position(el.Position), Order: order, IsActive: true,
				}
			}
			json.NewEncoder(w).Encode(map[string]any{"success": true, "ads": s.sorted()})
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	mux.HandleFunc("/v1/ads/", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()

		id, err := strconv.ParseInt(strings.TrimPrefix(r.URL.Path, "/v1/ads/"), 10, 64)
		if err != nil || r.Method != http.MethodDelete {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		ad, ok := s.ads[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "ad not found"})
			return
		}
		delete(s.ads, id)
		json.NewEncoder(w).Encode(map[string]any{"success": true, "deleted": ad})
	})

	return mux
}

func newTestStore(t *testing.T, srv *contractServer) (*Store, *httptest.Server) {
	t.Helper()
	ts := httptest.NewServer(srv.handler())
	t.Cleanup(ts.Close)
	return NewStore(api.NewClient(ts.URL+"/v1"), zap.NewNop().Sugar()), ts
}

func TestLoad_PartitionsAndSorts(t *testing.T) {
	srv := newContractServer()
	srv.seed("t1", store.PositionTop, 1)
	srv.seed("t0", store.PositionTop, 0)
	srv.seed("m0", store.PositionMiddle, 0)
	st, _ := newTestStore(t, srv)

	st.Load(context.Background(), "a1satta.vip")

	top := st.Section(store.PositionTop)
	require.Len(t, top, 2)
	assert.Equal(t, "t0", top[0].Content)
	assert.Equal(t, "t1", top[1].Content)
	assert.Len(t, st.Section(store.PositionMiddle), 1)
	assert.Empty(t, st.Section(store.PositionBottom))
}

func TestLoad_FailureResetsSections(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	st := NewStore(api.NewClient(ts.URL+"/v1"), zap.NewNop().Sugar())
	st.Add(store.PositionTop)
	st.Add(store.PositionTop)

	st.Load(context.Background(), "a1satta.vip")

	for _, p := range Positions {
		assert.Empty(t, st.Section(p))
	}
}

func TestAdd_AssignsTempIDAndOrder(t *testing.T) {
	st := NewStore(nil, zap.NewNop().Sugar())

	first := st.Add(store.PositionTop)
	second := st.Add(store.PositionTop)

	assert.Equal(t, 0, first.Order)
	assert.Equal(t, 1, second.Order)
	assert.NotEmpty(t, first.TempID)
	assert.NotEqual(t, first.Key(), second.Key())
	assert.False(t, first.Persisted())
	assert.Empty(t, first.Content)
}

func TestRemove_ByTempAndPersistedKey(t *testing.T) {
	st := NewStore(nil, zap.NewNop().Sugar())

	draft := st.Add(store.PositionMiddle)
	persisted := &Draft{ID: 7, Content: "kept?", Position: store.PositionMiddle}
	st.sections[store.PositionMiddle] = append(st.sections[store.PositionMiddle], persisted)

	st.Remove(store.PositionMiddle, draft.Key())
	require.Len(t, st.Section(store.PositionMiddle), 1)

	st.Remove(store.PositionMiddle, "7")
	assert.Empty(t, st.Section(store.PositionMiddle))
}

func TestReorder(t *testing.T) {
	st := NewStore(nil, zap.NewNop().Sugar())
	a := st.Add(store.PositionBottom)
	b := st.Add(store.PositionBottom)
	c := st.Add(store.PositionBottom)

	st.Reorder(store.PositionBottom, 0, 2)

	section := st.Section(store.PositionBottom)
	require.Len(t, section, 3)
	assert.Equal(t, []string{b.Key(), c.Key(), a.Key()}, []string{section[0].Key(), section[1].Key(), section[2].Key()})
}

func TestReorder_NoDestinationIsNoop(t *testing.T) {
	st := NewStore(nil, zap.NewNop().Sugar())
	a := st.Add(store.PositionBottom)
	b := st.Add(store.PositionBottom)

	st.Reorder(store.PositionBottom, 0, -1)
	st.Reorder(store.PositionBottom, 0, 5)
	st.Reorder(store.PositionBottom, 1, 1)

	section := st.Section(store.PositionBottom)
	assert.Equal(t, a.Key(), section[0].Key())
	assert.Equal(t, b.Key(), section[1].Key())
}

func TestSaveSection_IndexesOrdersAndOmitsNewIDs(t *testing.T) {
	srv := newContractServer()
	existing := srv.seed("old", store.PositionTop, 0)
	st, _ := newTestStore(t, srv)

	st.Load(context.Background(), "a1satta.vip")
	draft := st.Add(store.PositionTop)
	draft.Content = "fresh"
	st.Reorder(store.PositionTop, 1, 0) // fresh draft first

	require.NoError(t, st.SaveSection(context.Background(), "a1satta.vip", store.PositionTop))

	require.Len(t, srv.batches, 1)
	batch := srv.batches[0]
	require.Len(t, batch, 2)

	// order rewritten to array index on the way out
	assert.Nil(t, batch[0].ID)
	assert.Equal(t, "fresh", batch[0].Content)
	assert.Equal(t, 0, *batch[0].Order)
	require.NotNil(t, batch[1].ID)
	assert.Equal(t, existing, *batch[1].ID)
	assert.Equal(t, 1, *batch[1].Order)

	// local state replaced by the authoritative reload
	top := st.Section(store.PositionTop)
	require.Len(t, top, 2)
	assert.True(t, top[0].Persisted())
	assert.Equal(t, "fresh", top[0].Content)
	assert.Equal(t, "old", top[1].Content)
}

func TestSaveSection_FailureKeepsLocalState(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "boom"})
			return
		}
		json.NewEncoder(w).Encode([]store.Ad{})
	}))
	defer ts.Close()

	st := NewStore(api.NewClient(ts.URL+"/v1"), zap.NewNop().Sugar())
	draft := st.Add(store.PositionTop)
	draft.Content = "unsaved"

	err := st.SaveSection(context.Background(), "a1satta.vip", store.PositionTop)
	require.Error(t, err)

	top := st.Section(store.PositionTop)
	require.Len(t, top, 1)
	assert.Equal(t, "unsaved", top[0].Content)
}

func TestDelete_RemovesAndReloads(t *testing.T) {
	srv := newContractServer()
	id := srv.seed("doomed", store.PositionTop, 0)
	srv.seed("stays", store.PositionTop, 1)
	st, _ := newTestStore(t, srv)

	st.Load(context.Background(), "a1satta.vip")
	require.Len(t, st.Section(store.PositionTop), 2)

	require.NoError(t, st.Delete(context.Background(), "a1satta.vip", id))

	top := st.Section(store.PositionTop)
	require.Len(t, top, 1)
	assert.Equal(t, "stays", top[0].Content)
}

func TestDelete_FailureKeepsDraft(t *testing.T) {
	srv := newContractServer()
	id := srv.seed("kept", store.PositionTop, 0)
	st, _ := newTestStore(t, srv)

	st.Load(context.Background(), "a1satta.vip")
	err := st.Delete(context.Background(), "a1satta.vip", id+100)

	require.Error(t, err)
	require.Len(t, st.Section(store.PositionTop), 1)
	assert.Equal(t, "kept", st.Section(store.PositionTop)[0].Content)
}
