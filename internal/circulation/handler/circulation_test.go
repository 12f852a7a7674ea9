package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"circulation/internal/circulation/service"
	"circulation/internal/circulation/validator"
	"circulation/pkg/contracts"
	apperrors "circulation/pkg/errors"
	httputil "circulation/pkg/http"
	"circulation/pkg/logger"
	"circulation/pkg/model"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ contracts.Handler = (*CirculationHandler)(nil)

// mockCirculationService implements only what a test sets; any other call
// panics on the nil embedded interface.
type mockCirculationService struct {
	service.CirculationService

	checkOutFunc    func(ctx context.Context, assetID, cardID string) error
	checkInFunc     func(ctx context.Context, assetID string) error
	placeHoldFunc   func(ctx context.Context, assetID, cardID string) (*model.Hold, error)
	cancelHoldFunc  func(ctx context.Context, holdID string) error
	latestFunc      func(ctx context.Context, assetID string) (*model.Checkout, error)
	holdsFunc       func(ctx context.Context, assetID string) ([]*model.Hold, error)
	getAllCheckouts func(ctx context.Context, limit int, offset int64) ([]*model.Checkout, int64, error)
	statusFunc      func(ctx context.Context, assetID string) (*model.CirculationStatus, error)
	markLostFunc    func(ctx context.Context, assetID string) error
}

func (m *mockCirculationService) CheckOutItem(ctx context.Context, assetID, cardID string) error {
	return m.checkOutFunc(ctx, assetID, cardID)
}

func (m *mockCirculationService) CheckInItem(ctx context.Context, assetID string) error {
	return m.checkInFunc(ctx, assetID)
}

func (m *mockCirculationService) PlaceHold(ctx context.Context, assetID, cardID string) (*model.Hold, error) {
	return m.placeHoldFunc(ctx, assetID, cardID)
}

func (m *mockCirculationService) CancelHold(ctx context.Context, holdID string) error {
	return m.cancelHoldFunc(ctx, holdID)
}

func (m *mockCirculationService) GetLatestCheckout(ctx context.Context, assetID string) (*model.Checkout, error) {
	return m.latestFunc(ctx, assetID)
}

func (m *mockCirculationService) GetCurrentHolds(ctx context.Context, assetID string) ([]*model.Hold, error) {
	return m.holdsFunc(ctx, assetID)
}

func (m *mockCirculationService) GetAllCheckouts(ctx context.Context, limit int, offset int64) ([]*model.Checkout, int64, error) {
	return m.getAllCheckouts(ctx, limit, offset)
}

func (m *mockCirculationService) GetStatus(ctx context.Context, assetID string) (*model.CirculationStatus, error) {
	return m.statusFunc(ctx, assetID)
}

func (m *mockCirculationService) MarkLost(ctx context.Context, assetID string) error {
	return m.markLostFunc(ctx, assetID)
}

func newTestRouter(svc service.CirculationService) *httprouter.Router {
	log := logger.Discard()
	router := httprouter.New()
	NewCirculationHandler(svc, validator.NewCardValidator(log), log).RegisterRoutes(router)
	return router
}

func serve(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) httputil.ErrorResponse {
	t.Helper()
	var resp httputil.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestCheckOut(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		serviceErr error
		wantStatus int
		wantCode   string
		wantCalled bool
	}{
		{
			name:       "checked out",
			body:       `{"card_id":"card-1"}`,
			wantStatus: http.StatusNoContent,
			wantCalled: true,
		},
		{
			name:       "missing body",
			wantStatus: http.StatusBadRequest,
			wantCode:   apperrors.CodeInvalidInput,
		},
		{
			name:       "malformed json",
			body:       `{"card_id":`,
			wantStatus: http.StatusBadRequest,
			wantCode:   apperrors.CodeInvalidInput,
		},
		{
			name:       "missing card id",
			body:       `{}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   apperrors.CodeValidation,
		},
		{
			name:       "unknown asset",
			body:       `{"card_id":"card-1"}`,
			serviceErr: apperrors.NotFoundWithID("Asset", "asset-a"),
			wantStatus: http.StatusNotFound,
			wantCode:   apperrors.CodeNotFound,
			wantCalled: true,
		},
		{
			name:       "missing status reads as not found",
			body:       `{"card_id":"card-1"}`,
			serviceErr: apperrors.InvalidState("Status Checked Out is not registered"),
			wantStatus: http.StatusNotFound,
			wantCode:   apperrors.CodeNotFound,
			wantCalled: true,
		},
		{
			name:       "store failure is retryable",
			body:       `{"card_id":"card-1"}`,
			serviceErr: apperrors.TransactionFailure("Check out failed", errors.New("write conflict")),
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   apperrors.CodeTransactionFailure,
			wantCalled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			svc := &mockCirculationService{
				checkOutFunc: func(_ context.Context, assetID, cardID string) error {
					called = true
					assert.Equal(t, "asset-a", assetID)
					assert.Equal(t, "card-1", cardID)
					return tt.serviceErr
				},
			}

			rec := serve(newTestRouter(svc), http.MethodPost, "/api/v1/assets/id/asset-a/checkout", tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCalled, called)
			if tt.wantCode != "" {
				resp := decodeError(t, rec)
				assert.Equal(t, tt.wantCode, resp.Code)
				if tt.wantCode == apperrors.CodeTransactionFailure {
					assert.True(t, resp.Retryable)
				}
			}
		})
	}
}

func TestCheckIn(t *testing.T) {
	svc := &mockCirculationService{
		checkInFunc: func(_ context.Context, assetID string) error {
			if assetID == "missing" {
				return apperrors.NotFoundWithID("Asset", assetID)
			}
			return nil
		},
	}
	router := newTestRouter(svc)

	rec := serve(router, http.MethodPost, "/api/v1/assets/id/asset-a/checkin", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = serve(router, http.MethodPost, "/api/v1/assets/id/missing/checkin", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPlaceHold(t *testing.T) {
	placed := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	svc := &mockCirculationService{
		placeHoldFunc: func(_ context.Context, assetID, cardID string) (*model.Hold, error) {
			return &model.Hold{ID: "hold-1", AssetID: assetID, CardID: cardID, Placed: placed}, nil
		},
	}

	rec := serve(newTestRouter(svc), http.MethodPost, "/api/v1/assets/id/asset-a/holds", `{"card_id":"  card-2 "}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp struct {
		Data model.Hold `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "hold-1", resp.Data.ID)
	assert.Equal(t, "card-2", resp.Data.CardID)
	assert.Equal(t, placed, resp.Data.Placed)
}

func TestCancelHold(t *testing.T) {
	svc := &mockCirculationService{
		cancelHoldFunc: func(_ context.Context, holdID string) error {
			if holdID != "hold-1" {
				return apperrors.NotFoundWithID("Hold", holdID)
			}
			return nil
		},
	}
	router := newTestRouter(svc)

	assert.Equal(t, http.StatusNoContent, serve(router, http.MethodDelete, "/api/v1/holds/id/hold-1", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodDelete, "/api/v1/holds/id/hold-2", "").Code)
}

func TestGetLatestCheckout(t *testing.T) {
	svc := &mockCirculationService{
		latestFunc: func(_ context.Context, assetID string) (*model.Checkout, error) {
			if assetID == "asset-a" {
				return &model.Checkout{ID: "checkout-1", AssetID: assetID, CardID: "card-1"}, nil
			}
			return nil, nil
		},
	}
	router := newTestRouter(svc)

	rec := serve(router, http.MethodGet, "/api/v1/assets/id/asset-a/checkout", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"checkout-1"`)

	rec = serve(router, http.MethodGet, "/api/v1/assets/id/asset-b/checkout", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetCurrentHolds_EmptyQueue(t *testing.T) {
	svc := &mockCirculationService{
		holdsFunc: func(context.Context, string) ([]*model.Hold, error) {
			return []*model.Hold{}, nil
		},
	}

	rec := serve(newTestRouter(svc), http.MethodGet, "/api/v1/assets/id/asset-a/holds", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":[]}`, rec.Body.String())
}

func TestGetStatus(t *testing.T) {
	svc := &mockCirculationService{
		statusFunc: func(_ context.Context, assetID string) (*model.CirculationStatus, error) {
			return &model.CirculationStatus{
				AssetID:      assetID,
				Status:       model.StatusCheckedOut,
				IsCheckedOut: true,
				PatronName:   "Ada Lovelace",
				HoldCount:    2,
			}, nil
		},
	}

	rec := serve(newTestRouter(svc), http.MethodGet, "/api/v1/assets/id/asset-a/status", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{"asset_id":"asset-a","status":"Checked Out","is_checked_out":true,"patron_name":"Ada Lovelace","hold_count":2}}`, rec.Body.String())
}

func TestMarkLost_InternalErrorIsHidden(t *testing.T) {
	svc := &mockCirculationService{
		markLostFunc: func(context.Context, string) error {
			return errors.New("driver exploded")
		},
	}

	rec := serve(newTestRouter(svc), http.MethodPost, "/api/v1/assets/id/asset-a/lost", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "driver exploded")
}

func TestGetAllCheckouts_QueryParameters(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		wantStatus   int
		wantLimit    int
		wantOffset   int64
		expectCalled bool
	}{
		{name: "explicit values", query: "?limit=5&offset=10", wantStatus: http.StatusOK, wantLimit: 5, wantOffset: 10, expectCalled: true},
		{name: "non numeric limit", query: "?limit=abc", wantStatus: http.StatusBadRequest},
		{name: "non numeric offset", query: "?offset=x", wantStatus: http.StatusBadRequest},
		{name: "negative offset normalized", query: "?limit=5&offset=-3", wantStatus: http.StatusOK, wantLimit: 5, wantOffset: 0, expectCalled: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			svc := &mockCirculationService{
				getAllCheckouts: func(_ context.Context, limit int, offset int64) ([]*model.Checkout, int64, error) {
					called = true
					assert.Equal(t, tt.wantLimit, limit)
					assert.Equal(t, tt.wantOffset, offset)
					return []*model.Checkout{}, 0, nil
				},
			}

			rec := serve(newTestRouter(svc), http.MethodGet, "/api/v1/checkouts"+tt.query, "")

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.expectCalled, called)
		})
	}
}
