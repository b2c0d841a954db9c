package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"closerlab/internal/model"
	"closerlab/internal/service"
)

// OfferHandler handles offer catalog endpoints.
type OfferHandler struct {
	offerSvc *service.OfferService
}

func NewOfferHandler(offerSvc *service.OfferService) *OfferHandler {
	return &OfferHandler{offerSvc: offerSvc}
}

// Create handles POST /v1/offers (coach only)
func (h *OfferHandler) Create(w http.ResponseWriter, r *http.Request) {
	var offer model.Offer
	if err := json.NewDecoder(r.Body).Decode(&offer); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.offerSvc.Create(r.Context(), &offer)
	if errors.Is(err, service.ErrOfferIncomplete) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create offer")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Get handles GET /v1/offers/{offerId}
func (h *OfferHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["offerId"]

	offer, err := h.offerSvc.Get(r.Context(), id)
	if errors.Is(err, service.ErrOfferNotFound) {
		writeError(w, http.StatusNotFound, "offer not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load offer")
		return
	}
	writeJSON(w, http.StatusOK, offer)
}

// List handles GET /v1/offers
func (h *OfferHandler) List(w http.ResponseWriter, r *http.Request) {
	offers, err := h.offerSvc.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list offers")
		return
	}
	writeJSON(w, http.StatusOK, offers)
}
