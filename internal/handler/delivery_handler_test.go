package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sport-shop/internal/delivery"
	"sport-shop/internal/payment"
)

func TestDeliveryHandler(t *testing.T) {
	handler := NewDeliveryHandler(delivery.NewResolver(), zerolog.Nop())

	tests := []struct {
		name           string
		serve          http.HandlerFunc
		query          string
		expectedStatus int
		expectedBody   string
	}{
		{name: "courier cost", serve: handler.Cost, query: "method=COURIER&distance=10&weight=5", expectedStatus: http.StatusOK, expectedBody: `"750"`},
		{name: "cost by id", serve: handler.CostByID, query: "methodId=1&distance=10&weight=5", expectedStatus: http.StatusOK, expectedBody: `"750"`},
		{name: "unavailable courier costs zero", serve: handler.Cost, query: "method=COURIER&distance=31&weight=1", expectedStatus: http.StatusOK, expectedBody: `"0"`},
		{name: "unknown method", serve: handler.Cost, query: "method=DRONE&distance=1&weight=1", expectedStatus: http.StatusBadRequest},
		{name: "unknown id", serve: handler.CostByID, query: "methodId=9&distance=1&weight=1", expectedStatus: http.StatusBadRequest},
		{name: "missing weight", serve: handler.Cost, query: "method=POST&distance=1", expectedStatus: http.StatusBadRequest},
		{name: "bad distance", serve: handler.Time, query: "method=POST&distance=far", expectedStatus: http.StatusBadRequest},
		{name: "NaN distance", serve: handler.Time, query: "method=POST&distance=NaN", expectedStatus: http.StatusBadRequest},
		{name: "post time", serve: handler.Time, query: "method=POST&distance=600", expectedStatus: http.StatusOK, expectedBody: `6`},
		{name: "post time huge distance", serve: handler.Time, query: "method=POST&distance=1e22", expectedStatus: http.StatusOK, expectedBody: `2147483647`},
		{name: "time by id", serve: handler.TimeByID, query: "methodId=4&distance=101", expectedStatus: http.StatusOK, expectedBody: `-1`},
		{name: "pickup available", serve: handler.Available, query: "method=PICKUP&distance=0&weight=50", expectedStatus: http.StatusOK, expectedBody: `true`},
		{name: "express unavailable by id", serve: handler.AvailableByID, query: "methodId=4&distance=10&weight=11", expectedStatus: http.StatusOK, expectedBody: `false`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.serve(w, httptest.NewRequest(http.MethodGet, "/delivery?"+tt.query, nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedBody != "" {
				assert.JSONEq(t, tt.expectedBody, w.Body.String())
			}
		})
	}
}

func TestDeliveryHandler_Methods(t *testing.T) {
	handler := NewDeliveryHandler(delivery.NewResolver(), zerolog.Nop())

	w := httptest.NewRecorder()
	handler.Methods(w, httptest.NewRequest(http.MethodGet, "/delivery/methods", nil))
	var byCode map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&byCode))
	assert.Len(t, byCode, 4)
	assert.Contains(t, byCode, delivery.CodeExpress)

	w = httptest.NewRecorder()
	handler.MethodIDs(w, httptest.NewRequest(http.MethodGet, "/delivery/methods/ids", nil))
	assert.JSONEq(t, `{"1":"COURIER","2":"POST","3":"SELF_PICKUP","4":"EXPRESS"}`, w.Body.String())
}

func TestPaymentHandler_Process(t *testing.T) {
	decisions := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "decisions"}, []string{"method", "outcome"})
	handler := NewPaymentHandler(payment.NewResolver(zerolog.Nop()), decisions, zerolog.Nop())

	tests := []struct {
		name           string
		serve          http.HandlerFunc
		body           string
		expectedStatus int
		expectSuccess  bool
	}{
		{name: "card", serve: handler.Process, body: `{"orderId":1,"paymentMethod":"CREDIT_CARD","amount":"100"}`, expectedStatus: http.StatusOK, expectSuccess: true},
		{name: "cod at limit", serve: handler.Process, body: `{"orderId":1,"paymentMethod":"CASH_ON_DELIVERY","amount":"50000"}`, expectedStatus: http.StatusOK, expectSuccess: true},
		{name: "cod over limit", serve: handler.Process, body: `{"orderId":1,"paymentMethod":"CASH_ON_DELIVERY","amount":"50000.01"}`, expectedStatus: http.StatusBadRequest},
		{name: "cod over limit by id", serve: handler.ProcessByID, body: `{"orderId":1,"paymentMethodId":3,"amount":60000}`, expectedStatus: http.StatusBadRequest},
		{name: "paypal by id", serve: handler.ProcessByID, body: `{"orderId":1,"paymentMethodId":2,"amount":60000}`, expectedStatus: http.StatusOK, expectSuccess: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.serve(w, httptest.NewRequest(http.MethodPost, "/payments/process", strings.NewReader(tt.body)))

			assert.Equal(t, tt.expectedStatus, w.Code)
			var result PaymentResult
			require.NoError(t, json.NewDecoder(w.Body).Decode(&result))
			assert.Equal(t, tt.expectSuccess, result.Success)
			assert.Equal(t, int64(1), result.OrderID)
			assert.NotEmpty(t, result.Message)
		})
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(decisions.WithLabelValues(payment.CodeCashOnDelivery, "declined")))
	assert.Equal(t, 1.0, testutil.ToFloat64(decisions.WithLabelValues(payment.CodeCashOnDelivery, "accepted")))
}

func TestPaymentHandler_UnknownMethod(t *testing.T) {
	handler := NewPaymentHandler(payment.NewResolver(zerolog.Nop()), nil, zerolog.Nop())

	w := httptest.NewRecorder()
	handler.Process(w, httptest.NewRequest(http.MethodPost, "/payments/process", strings.NewReader(`{"orderId":1,"paymentMethod":"BARTER","amount":1}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	handler.ProcessByID(w, httptest.NewRequest(http.MethodPost, "/payments/process/by-id", strings.NewReader(`{"orderId":1,"paymentMethodId":42,"amount":1}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	handler.Methods(w, httptest.NewRequest(http.MethodGet, "/payments/methods", nil))
	var methods map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&methods))
	assert.Len(t, methods, 3)
}
