package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"adsmanager/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListAds_SendsSiteAndPositionParams(t *testing.T) {
	var gotQuery map[string]string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"site":     r.URL.Query().Get("site"),
			"position": r.URL.Query().Get("position"),
		}
		json.NewEncoder(w).Encode([]store.Ad{{ID: 1, Content: "x", Position: store.PositionTop}})
	}))
	defer ts.Close()

	c := NewClient(ts.URL + "/v1")
	ads, err := c.ListAds(context.Background(), "a1satta.vip", "top")

	require.NoError(t, err)
	require.Len(t, ads, 1)
	assert.Equal(t, "a1satta.vip", gotQuery["site"])
	assert.Equal(t, "top", gotQuery["position"])
}

func TestSaveAds_OmitsZeroIDs(t *testing.T) {
	var gotBody []map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]any{"success": true, "ads": []store.Ad{}})
	}))
	defer ts.Close()

	c := NewClient(ts.URL + "/v1")
	_, err := c.SaveAds(context.Background(), "a1satta.vip", []AdUpsert{
		{Content: "new", Position: store.PositionTop, Order: 0},
		{ID: 9, Content: "existing", Position: store.PositionTop, Order: 1},
	})

	require.NoError(t, err)
	require.Len(t, gotBody, 2)
	_, hasID := gotBody[0]["id"]
	assert.False(t, hasID, "unsaved drafts must not carry an id")
	assert.EqualValues(t, 9, gotBody[1]["id"])
}

func TestUpdateAd(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/v1/ads/3", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"ad":      store.Ad{ID: 3, Content: "edited", Position: store.PositionMiddle, Order: 2},
		})
	}))
	defer ts.Close()

	c := NewClient(ts.URL + "/v1")
	ad, err := c.UpdateAd(context.Background(), 3, UpdateAdRequest{
		Content: "edited", Position: store.PositionMiddle, Order: 2,
	})

	require.NoError(t, err)
	require.NotNil(t, ad)
	assert.Equal(t, "edited", ad.Content)
}

func TestDeleteAd_NotFound(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "ad not found"})
	}))
	defer ts.Close()

	c := NewClient(ts.URL + "/v1")
	_, err := c.DeleteAd(context.Background(), 42)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestDeleteAd_NotFoundWithoutEnvelope(t *testing.T) {
	// A proxy or stray handler can 404 with a non-JSON body; the
	// sentinel must still hold.
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer ts.Close()

	c := NewClient(ts.URL + "/v1")
	_, err := c.DeleteAd(context.Background(), 42)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestDeleteAd_ReturnsLastKnownState(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"deleted": store.Ad{ID: 42, Content: "bye", Position: store.PositionBottom},
		})
	}))
	defer ts.Close()

	c := NewClient(ts.URL + "/v1")
	ad, err := c.DeleteAd(context.Background(), 42)

	require.NoError(t, err)
	require.NotNil(t, ad)
	assert.Equal(t, int64(42), ad.ID)
	assert.Equal(t, "bye", ad.Content)
}
