package handler

import (
	"net/http"

	"github.com/rs/zerolog"

	"sport-shop/internal/auth"
	"sport-shop/internal/model"
	"sport-shop/internal/service"
)

// CustomerHandler handles customer-related HTTP requests.
type CustomerHandler struct {
	service service.CustomerService
	logger  zerolog.Logger
}

// NewCustomerHandler creates a new customer handler.
func NewCustomerHandler(service service.CustomerService, logger zerolog.Logger) *CustomerHandler {
	return &CustomerHandler{
		service: service,
		logger:  logger.With().Str("handler", "customer").Logger(),
	}
}

// GetAll handles GET /customers requests.
func (h *CustomerHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	customers, err := h.service.GetAll(r.Context())
	if err != nil {
		handleServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, customers)
}

// GetByID handles GET /customers/{id} requests.
func (h *CustomerHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, h.logger)
	if !ok {
		return
	}

	customer, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

// Check handles GET /customers/check?email= requests. The caller's own
// customer is used when the email matches nobody.
func (h *CustomerHandler) Check(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFrom(r.Context())

	customer, err := h.service.Check(r.Context(), r.URL.Query().Get("email"), principal)
	if err != nil {
		handleServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

// Create handles POST /customers requests. An existing customer matching
// the caller, email or phone is returned instead of a duplicate.
func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CustomerRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	principal, _ := auth.PrincipalFrom(r.Context())

	customer, err := h.service.FindOrCreate(r.Context(), &req, principal)
	if err != nil {
		handleServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

// Update handles PUT /customers/{id} requests.
func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, h.logger)
	if !ok {
		return
	}

	var req model.CustomerRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	customer, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		handleServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

// Delete handles DELETE /customers/{id} requests.
func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		handleServiceError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
