package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/williamkasasa/hackathon-seaweed/internal/catalog"
	"github.com/williamkasasa/hackathon-seaweed/internal/checkout"
	"github.com/williamkasasa/hackathon-seaweed/internal/middleware"
	"github.com/williamkasasa/hackathon-seaweed/internal/model"
	"github.com/williamkasasa/hackathon-seaweed/pkg/logger"
)

// CheckoutHandler handles checkout session endpoints.
type CheckoutHandler struct {
	service *checkout.Service
	logger  *logger.Logger
}

// NewCheckoutHandler creates a new checkout handler.
func NewCheckoutHandler(service *checkout.Service, log *logger.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service: service,
		logger:  log,
	}
}

// Create handles POST /api/v1/checkout
func (h *CheckoutHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateCheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.service.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrEmptyCart),
			errors.Is(err, checkout.ErrOutOfStock),
			errors.Is(err, catalog.ErrProductNotFound):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("failed to create checkout session")
			writeError(w, http.StatusInternalServerError, "failed to create checkout session")
		}
		return
	}

	writeJSON(w, http.StatusCreated, session)
}

// Get handles GET /api/v1/checkout/{id}
func (h *CheckoutHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := middleware.ValidateCheckoutID(id); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	session, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, checkout.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, "checkout session not found")
			return
		}
		h.logger.Error("failed to fetch checkout session")
		writeError(w, http.StatusInternalServerError, "failed to fetch checkout session")
		return
	}

	writeJSON(w, http.StatusOK, session)
}

// Update handles POST /api/v1/checkout/{id}
func (h *CheckoutHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := middleware.ValidateCheckoutID(id); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req model.UpdateCheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.FulfillmentOptionID == "" {
		writeError(w, http.StatusBadRequest, "fulfillment_option_id is required")
		return
	}

	session, err := h.service.UpdateShipping(r.Context(), id, req.FulfillmentOptionID)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrSessionNotFound):
			writeError(w, http.StatusNotFound, "checkout session not found")
		case errors.Is(err, checkout.ErrUnknownFulfillmentOption):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("failed to update checkout session")
			writeError(w, http.StatusInternalServerError, "failed to update checkout session")
		}
		return
	}

	writeJSON(w, http.StatusOK, session)
}

// Complete handles POST /api/v1/checkout/{id}/complete
func (h *CheckoutHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := middleware.ValidateCheckoutID(id); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req model.CompleteCheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.service.Complete(r.Context(), id, req.PaymentToken, req.PaymentProvider)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrSessionNotFound):
			writeError(w, http.StatusNotFound, "checkout session not found")
		case errors.Is(err, checkout.ErrPaymentTokenRequired):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, checkout.ErrSessionNotPayable):
			writeError(w, http.StatusConflict, err.Error())
		default:
			// Payment exchange failures are retryable: the session is
			// untouched and still awaiting payment.
			h.logger.Error("failed to complete checkout session")
			writeError(w, http.StatusPaymentRequired, "payment failed, please try again")
		}
		return
	}

	writeJSON(w, http.StatusOK, session)
}
