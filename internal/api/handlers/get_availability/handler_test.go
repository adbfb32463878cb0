package get_availability

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tourvia/TRV-BookingService/internal/domain"
	getAvailability "github.com/tourvia/TRV-BookingService/internal/usecase/get_availability"
)

type MockUseCase struct {
	ExecuteFunc func(ctx context.Context, req *getAvailability.Request) (*getAvailability.Response, error)
}

func (m *MockUseCase) Execute(ctx context.Context, req *getAvailability.Request) (*getAvailability.Response, error) {
	return m.ExecuteFunc(ctx, req)
}

type NopLogger struct{}

func (NopLogger) Info(format string, v ...interface{})  {}
func (NopLogger) Warn(format string, v ...interface{})  {}
func (NopLogger) Error(format string, v ...interface{}) {}

func newTestRouter(useCase GetAvailabilityUseCase) *mux.Router {
	handler := NewHandler(useCase, NopLogger{})

	r := mux.NewRouter()
	r.HandleFunc("/api/v1/tours/{tourId}/availability", handler.Handle).Methods(http.MethodGet)
	return r
}

func TestHandle_Success(t *testing.T) {
	availability := domain.NewMonthAvailability()
	availability.AvailableSlotsByDate["2026-07-15"] = []domain.OpenSlot{
		{Time: "10:00", Remaining: 6, Capacity: 10},
	}
	availability.FullyBookedDates = []string{"2026-07-20"}

	router := newTestRouter(&MockUseCase{
		ExecuteFunc: func(ctx context.Context, req *getAvailability.Request) (*getAvailability.Response, error) {
			assert.Equal(t, int64(1), req.TourID)
			assert.Equal(t, "2026-07", req.Month)
			require.NotNil(t, req.OptionID)
			assert.Equal(t, "premium", *req.OptionID)

			return &getAvailability.Response{
				TourID:       req.TourID,
				Month:        req.Month,
				Availability: availability,
			}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tours/1/availability?month=2026-07&optionId=premium", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp AvailabilityResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, int64(1), resp.TourID)
	assert.Equal(t, "2026-07", resp.Month)
	require.Len(t, resp.AvailableSlotsByDate["2026-07-15"], 1)
	assert.Equal(t, "10:00", resp.AvailableSlotsByDate["2026-07-15"][0].Time)
	assert.Equal(t, 6, resp.AvailableSlotsByDate["2026-07-15"][0].Remaining)
	assert.Equal(t, []string{"2026-07-20"}, resp.FullyBookedDates)
}

func TestHandle_WithoutOption(t *testing.T) {
	router := newTestRouter(&MockUseCase{
		ExecuteFunc: func(ctx context.Context, req *getAvailability.Request) (*getAvailability.Response, error) {
			assert.Nil(t, req.OptionID)
			return &getAvailability.Response{
				TourID:       req.TourID,
				Month:        req.Month,
				Availability: domain.NewMonthAvailability(),
			}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tours/1/availability?month=2026-07", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		useCaseErr error
		wantStatus int
	}{
		{
			name:       "invalid month",
			url:        "/api/v1/tours/1/availability?month=july",
			useCaseErr: getAvailability.ErrInvalidMonth,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing month",
			url:        "/api/v1/tours/1/availability",
			useCaseErr: getAvailability.ErrInvalidInput,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "tour not found",
			url:        "/api/v1/tours/42/availability?month=2026-07",
			useCaseErr: getAvailability.ErrTourNotFound,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "tour has no template",
			url:        "/api/v1/tours/1/availability?month=2026-07",
			useCaseErr: getAvailability.ErrTourHasNoTemplate,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "internal error",
			url:        "/api/v1/tours/1/availability?month=2026-07",
			useCaseErr: getAvailability.ErrInternal,
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&MockUseCase{
				ExecuteFunc: func(ctx context.Context, req *getAvailability.Request) (*getAvailability.Response, error) {
					return nil, tt.useCaseErr
				},
			})

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)

			var errResp struct {
				Error string `json:"error"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
			assert.NotEmpty(t, errResp.Error)
		})
	}
}

func TestHandle_InvalidTourID(t *testing.T) {
	router := newTestRouter(&MockUseCase{
		ExecuteFunc: func(ctx context.Context, req *getAvailability.Request) (*getAvailability.Response, error) {
			t.Fatal("use case не должен вызываться при некорректном ID тура")
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tours/abc/availability?month=2026-07", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
