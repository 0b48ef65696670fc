package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"adsmanager/internal/store"

	"github.com/go-chi/chi/v5"
)

// The admin panel spreads the whole draft into each bulk save element,
// so the decoder has to tolerate client-only fields (_tempId, site,
// isActive and the timestamps). Only id, content, position and order
// are meaningful to the server.
type adUpsertPayload struct {
	ID        *int64          `json:"id,omitempty"`
	TempID    json.RawMessage `json:"_tempId,omitempty"`
	Site      string          `json:"site,omitempty"`
	Content   string          `json:"content"`
	Position  string          `json:"position" validate:"required,oneof=top middle bottom"`
	Order     int             `json:"order" validate:"min=0"`
	IsActive  *bool           `json:"isActive,omitempty"`
	CreatedAt *time.Time      `json:"createdAt,omitempty"`
	UpdatedAt *time.Time      `json:"updatedAt,omitempty"`
}

type updateAdPayload struct {
	Content  string `json:"content"`
	Position string `json:"position" validate:"required,oneof=top middle bottom"`
	Order    int    `json:"order" validate:"min=0"`
}

type saveAdsResponse struct {
	Success bool       `json:"success"`
	Ads     []store.Ad `json:"ads"`
}

type updateAdResponse struct {
	Success bool      `json:"success"`
	Ad      *store.Ad `json:"ad"`
}

type deleteAdResponse struct {
	Success bool      `json:"success"`
	Deleted *store.Ad `json:"deleted"`
}

// GetAds godoc
//
//	@Summary		List ads
//	@Description	Returns all ads ordered by (position, order), optionally filtered to one position. The site parameter is accepted for panel compatibility and ignored.
//	@Tags			Ads
//	@Produce		json
//	@Param			position	query		string		false	"Placement filter (top|middle|bottom)"
//	@Param			site		query		string		false	"Site tag (ignored)"
//	@Success		200			{array}		store.Ad	"Ads"
//	@Failure		500			{object}	error		"Internal Server Error"
//	@Router			/ads [get]
func (app *application) getAdsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	position := r.URL.Query().Get("position")

	ads, err := app.store.Ads.List(ctx, position)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if ads == nil {
		ads = []store.Ad{}
	}

	writeJSON(w, http.StatusOK, ads)
}

// SaveAds godoc
//
//	@Summary		Bulk save ads
//	@Description	Applies one section's full ordered list as a mix of inserts (no id) and in-place updates (id present). Returns the fresh state of every position in the batch.
//	@Tags			Ads
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		[]adUpsertPayload	true	"Ordered ad list"
//	@Success		200		{object}	saveAdsResponse		"Authoritative ads for the saved positions"
//	@Failure		400		{object}	error				"Bad Request: Invalid input"
//	@Failure		500		{object}	error				"Internal Server Error"
//	@Router			/ads [post]
func (app *application) saveAdsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	var payload []adUpsertPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	writes := make([]store.AdWrite, 0, len(payload))
	for i, ad := range payload {
		if err := Validate.Struct(&ad); err != nil {
			app.badRequestResponse(w, r, fmt.Errorf("ad %d: %w", i, err))
			return
		}

		if ad.ID != nil {
			writes = append(writes, store.ExistingAdUpdate{
				ID:       *ad.ID,
				Content:  ad.Content,
				Position: store.Position(ad.Position),
				Order:    ad.Order,
			})
			continue
		}

		writes = append(writes, store.NewAdDraft{
			Content:  ad.Content,
			Position: store.Position(ad.Position),
			Order:    ad.Order,
		})
	}

	ads, err := app.store.Ads.BulkUpsert(ctx, writes)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if ads == nil {
		ads = []store.Ad{}
	}

	writeJSON(w, http.StatusOK, saveAdsResponse{Success: true, Ads: ads})
}

// UpdateAd godoc
//
//	@Summary		Update one ad
//	@Description	Rewrites content, position and order of a single ad
//	@Tags			Ads
//	@Accept			json
//	@Produce		json
//	@Param			adID	path		int					true	"Ad ID"
//	@Param			payload	body		updateAdPayload		true	"New field values"
//	@Success		200		{object}	updateAdResponse	"Updated ad"
//	@Failure		400		{object}	error				"Bad Request: Invalid input"
//	@Failure		404		{object}	error				"Not Found: Ad not found"
//	@Failure		500		{object}	error				"Internal Server Error"
//	@Router			/ads/{adID} [put]
func (app *application) updateAdHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	adID, err := strconv.ParseInt(chi.URLParam(r, "adID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid ad ID"))
		return
	}

	var payload updateAdPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(&payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	ad, err := app.store.Ads.UpdateOne(ctx, adID, payload.Content, store.Position(payload.Position), payload.Order)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, updateAdResponse{Success: true, Ad: ad})
}

// DeleteAd godoc
//
//	@Summary		Delete one ad
//	@Description	Permanently removes an ad and returns its last known state
//	@Tags			Ads
//	@Produce		json
//	@Param			adID	path		int					true	"Ad ID"
//	@Success		200		{object}	deleteAdResponse	"Deleted ad"
//	@Failure		400		{object}	error				"Bad Request: Invalid ad ID"
//	@Failure		404		{object}	error				"Not Found: Ad not found"
//	@Failure		500		{object}	error				"Internal Server Error"
//	@Router			/ads/{adID} [delete]
func (app *application) deleteAdHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	adID, err := strconv.ParseInt(chi.URLParam(r, "adID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid ad ID"))
		return
	}

	ad, err := app.store.Ads.DeleteOne(ctx, adID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, deleteAdResponse{Success: true, Deleted: ad})
}
