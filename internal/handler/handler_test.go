package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"sport-shop/internal/model"
)

func TestHandleServiceError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{name: "validation", err: model.ErrEmptyOrder, expectedStatus: http.StatusBadRequest, expectedCode: model.ErrCodeEmptyOrder},
		{name: "not found", err: model.ErrOrderNotFound, expectedStatus: http.StatusNotFound, expectedCode: model.ErrCodeOrderNotFound},
		{name: "conflict", err: model.ErrDuplicateEmail, expectedStatus: http.StatusConflict, expectedCode: model.ErrCodeDuplicateEmail},
		{name: "unauthorised", err: model.ErrBadCredentials, expectedStatus: http.StatusUnauthorized, expectedCode: model.ErrCodeBadCredentials},
		{
			name:           "forbidden",
			err:            model.NewDomainError(model.KindForbidden, model.ErrCodeForbidden, "no"),
			expectedStatus: http.StatusForbidden,
			expectedCode:   model.ErrCodeForbidden,
		},
		{
			name:           "wrapped domain error",
			err:            fmt.Errorf("failed to delete product: %w", model.ErrProductInUse),
			expectedStatus: http.StatusConflict,
			expectedCode:   model.ErrCodeProductInUse,
		},
		{name: "infrastructure", err: errors.New("boom"), expectedStatus: http.StatusInternalServerError, expectedCode: model.ErrCodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handleServiceError(w, httptest.NewRequest(http.MethodGet, "/", nil), tt.err, zerolog.Nop())

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.Equal(t, tt.expectedCode, decodeError(t, w).Error)
		})
	}
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

func TestHealthHandler(t *testing.T) {
	w := httptest.NewRecorder()
	NewHealthHandler(fakePinger{}, zerolog.Nop()).Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = httptest.NewRecorder()
	NewHealthHandler(fakePinger{err: errors.New("down")}, zerolog.Nop()).Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
