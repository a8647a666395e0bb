package handler

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"sport-shop/internal/model"
	"sport-shop/internal/payment"
)

// PaymentRequest asks for a payment by method code.
type PaymentRequest struct {
	OrderID       int64           `json:"orderId"`
	PaymentMethod string          `json:"paymentMethod"`
	Amount        decimal.Decimal `json:"amount"`
}

// PaymentByIDRequest asks for a payment by method id.
type PaymentByIDRequest struct {
	OrderID         int64           `json:"orderId"`
	PaymentMethodID int64           `json:"paymentMethodId"`
	Amount          decimal.Decimal `json:"amount"`
}

// PaymentResult is returned for both accepted and declined payments.
type PaymentResult struct {
	Success         bool   `json:"success"`
	OrderID         int64  `json:"orderId"`
	PaymentMethod   string `json:"paymentMethod,omitempty"`
	PaymentMethodID int64  `json:"paymentMethodId,omitempty"`
	Message         string `json:"message"`
}

// PaymentHandler exposes payment methods and processing.
type PaymentHandler struct {
	resolver  *payment.Resolver
	decisions *prometheus.CounterVec
	logger    zerolog.Logger
}

// NewPaymentHandler creates a new payment handler. decisions may be nil.
func NewPaymentHandler(resolver *payment.Resolver, decisions *prometheus.CounterVec, logger zerolog.Logger) *PaymentHandler {
	return &PaymentHandler{
		resolver:  resolver,
		decisions: decisions,
		logger:    logger.With().Str("handler", "payment").Logger(),
	}
}

// Methods handles GET /payments/methods: code to display name.
func (h *PaymentHandler) Methods(w http.ResponseWriter, r *http.Request) {
	out := make(map[string]string)
	for _, m := range h.resolver.Methods() {
		out[m.Code] = m.Name
	}
	writeJSON(w, http.StatusOK, out)
}

// MethodIDs handles GET /payments/methods/ids: id to code.
func (h *PaymentHandler) MethodIDs(w http.ResponseWriter, r *http.Request) {
	out := make(map[int64]string)
	for id, m := range h.resolver.MethodsByID() {
		out[id] = m.Code
	}
	writeJSON(w, http.StatusOK, out)
}

// Process handles POST /payments/process.
func (h *PaymentHandler) Process(w http.ResponseWriter, r *http.Request) {
	var req PaymentRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	if !h.resolver.IsKnown(req.PaymentMethod) {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeUnknownPayment, "Unknown payment method: "+req.PaymentMethod, h.logger)
		return
	}

	ok := h.resolver.Process(r.Context(), req.PaymentMethod, req.OrderID, req.Amount)
	h.respond(w, req.PaymentMethod, ok, PaymentResult{
		Success:       ok,
		OrderID:       req.OrderID,
		PaymentMethod: req.PaymentMethod,
	})
}

// ProcessByID handles POST /payments/process/by-id.
func (h *PaymentHandler) ProcessByID(w http.ResponseWriter, r *http.Request) {
	var req PaymentByIDRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	code, known := h.resolver.CodeByID(req.PaymentMethodID)
	if !known {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeUnknownPayment, "Unknown payment method id", h.logger)
		return
	}

	ok := h.resolver.ProcessByID(r.Context(), req.PaymentMethodID, req.OrderID, req.Amount)
	h.respond(w, code, ok, PaymentResult{
		Success:         ok,
		OrderID:         req.OrderID,
		PaymentMethodID: req.PaymentMethodID,
	})
}

func (h *PaymentHandler) respond(w http.ResponseWriter, code string, ok bool, result PaymentResult) {
	outcome := "declined"
	status := http.StatusBadRequest
	result.Message = "Payment declined"
	if ok {
		outcome = "accepted"
		status = http.StatusOK
		result.Message = "Payment processed successfully"
	}

	if h.decisions != nil {
		h.decisions.WithLabelValues(code, outcome).Inc()
	}

	writeJSON(w, status, result)
}
