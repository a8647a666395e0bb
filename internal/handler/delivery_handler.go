package handler

import (
	"math"
	"net/http"

	"github.com/rs/zerolog"

	"sport-shop/internal/delivery"
	"sport-shop/internal/model"
)

// DeliveryHandler exposes delivery pricing. Unknown methods answer 400;
// a known method that cannot serve the shipment is a normal answer.
type DeliveryHandler struct {
	resolver *delivery.Resolver
	logger   zerolog.Logger
}

// NewDeliveryHandler creates a new delivery handler.
func NewDeliveryHandler(resolver *delivery.Resolver, logger zerolog.Logger) *DeliveryHandler {
	return &DeliveryHandler{
		resolver: resolver,
		logger:   logger.With().Str("handler", "delivery").Logger(),
	}
}

// Methods handles GET /delivery/methods: code to display name.
func (h *DeliveryHandler) Methods(w http.ResponseWriter, r *http.Request) {
	out := make(map[string]string)
	for _, m := range h.resolver.Methods() {
		out[m.Code] = m.Name
	}
	writeJSON(w, http.StatusOK, out)
}

// MethodIDs handles GET /delivery/methods/ids: id to code.
func (h *DeliveryHandler) MethodIDs(w http.ResponseWriter, r *http.Request) {
	out := make(map[int64]string)
	for id, m := range h.resolver.MethodsByID() {
		out[id] = m.Code
	}
	writeJSON(w, http.StatusOK, out)
}

// Cost handles GET /delivery/cost?method=&distance=&weight=.
func (h *DeliveryHandler) Cost(w http.ResponseWriter, r *http.Request) {
	code, ok := h.code(w, r)
	if !ok {
		return
	}
	distance, weight, ok := h.shipment(w, r, true)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.resolver.Cost(code, distance, weight))
}

// CostByID handles GET /delivery/cost/by-id?methodId=&distance=&weight=.
func (h *DeliveryHandler) CostByID(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}
	distance, weight, ok := h.shipment(w, r, true)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.resolver.CostByID(id, distance, weight))
}

// Time handles GET /delivery/time?method=&distance=. The answer is in days;
// -1 means the method cannot serve the distance.
func (h *DeliveryHandler) Time(w http.ResponseWriter, r *http.Request) {
	code, ok := h.code(w, r)
	if !ok {
		return
	}
	distance, _, ok := h.shipment(w, r, false)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.resolver.Time(code, distance))
}

// TimeByID handles GET /delivery/time/by-id?methodId=&distance=.
func (h *DeliveryHandler) TimeByID(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}
	distance, _, ok := h.shipment(w, r, false)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.resolver.TimeByID(id, distance))
}

// Available handles GET /delivery/available?method=&distance=&weight=.
func (h *DeliveryHandler) Available(w http.ResponseWriter, r *http.Request) {
	code, ok := h.code(w, r)
	if !ok {
		return
	}
	distance, weight, ok := h.shipment(w, r, true)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.resolver.Available(code, distance, weight))
}

// AvailableByID handles GET /delivery/available/by-id?methodId=&distance=&weight=.
func (h *DeliveryHandler) AvailableByID(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}
	distance, weight, ok := h.shipment(w, r, true)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.resolver.AvailableByID(id, distance, weight))
}

func (h *DeliveryHandler) code(w http.ResponseWriter, r *http.Request) (string, bool) {
	code := r.URL.Query().Get("method")
	if !h.resolver.IsKnown(code) {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeUnknownDelivery, "Unknown delivery method: "+code, h.logger)
		return "", false
	}
	return code, true
}

func (h *DeliveryHandler) id(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := queryInt64(r, "methodId")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidParameter, "methodId must be an integer", h.logger)
		return 0, false
	}
	if !h.resolver.IsKnownID(id) {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeUnknownDelivery, "Unknown delivery method id", h.logger)
		return 0, false
	}
	return id, true
}

// shipment parses distance and, when withWeight is set, weight.
func (h *DeliveryHandler) shipment(w http.ResponseWriter, r *http.Request, withWeight bool) (float64, float64, bool) {
	distance, err := queryFloat(r, "distance")
	if err != nil || math.IsNaN(distance) || math.IsInf(distance, 0) {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidParameter, "distance must be a number", h.logger)
		return 0, 0, false
	}
	if !withWeight {
		return distance, 0, true
	}

	weight, err := queryFloat(r, "weight")
	if err != nil || math.IsNaN(weight) || math.IsInf(weight, 0) {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidParameter, "weight must be a number", h.logger)
		return 0, 0, false
	}
	return distance, weight, true
}
