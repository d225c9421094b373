package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gocampus/carpool/internal/domain"
	"github.com/gocampus/carpool/internal/pkg/logger"
	"github.com/gocampus/carpool/internal/usecase/ride"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRideService struct {
	mock.Mock
}

func (m *mockRideService) Publish(ctx context.Context, driverID uuid.UUID, req *ride.PublishRequest) (*domain.Ride, error) {
	args := m.Called(ctx, driverID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ride), args.Error(1)
}

func (m *mockRideService) Cancel(ctx context.Context, rideID, callerID uuid.UUID) (*domain.Ride, error) {
	args := m.Called(ctx, rideID, callerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ride), args.Error(1)
}

func (m *mockRideService) Finish(ctx context.Context, rideID, callerID uuid.UUID) (*domain.Ride, error) {
	args := m.Called(ctx, rideID, callerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ride), args.Error(1)
}

func (m *mockRideService) Search(ctx context.Context, req *ride.SearchRequest) ([]*domain.Ride, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Ride), args.Error(1)
}

func (m *mockRideService) GetByID(ctx context.Context, rideID uuid.UUID) (*domain.Ride, error) {
	args := m.Called(ctx, rideID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ride), args.Error(1)
}

func (m *mockRideService) GetByDriver(ctx context.Context, driverID uuid.UUID) ([]*domain.Ride, error) {
	args := m.Called(ctx, driverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Ride), args.Error(1)
}

func TestRideHandler_PublishRide(t *testing.T) {
	driverID := uuid.New()
	vehicleID := uuid.New()

	tests := []struct {
		name           string
		requestBody    interface{}
		setupMock      func(svc *mockRideService)
		expectedStatus int
	}{
		{
			name: "успешная публикация",
			requestBody: map[string]interface{}{
				"vehicle_id":   vehicleID,
				"address_from": "Campus Nord",
				"address_to":   "Campus Sud",
				"departure":    time.Now().Add(24 * time.Hour).Format(time.RFC3339),
				"max_seats":    3,
				"price":        5.50,
			},
			setupMock: func(svc *mockRideService) {
				svc.On("Publish", mock.Anything, driverID, mock.AnythingOfType("*ride.PublishRequest")).
					Return(CreateTestRide(uuid.New(), driverID, vehicleID), nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "чужой или несуществующий автомобиль",
			requestBody: map[string]interface{}{
				"vehicle_id":   vehicleID,
				"address_from": "Campus Nord",
				"address_to":   "Campus Sud",
				"departure":    time.Now().Add(24 * time.Hour).Format(time.RFC3339),
				"max_seats":    3,
			},
			setupMock: func(svc *mockRideService) {
				svc.On("Publish", mock.Anything, driverID, mock.AnythingOfType("*ride.PublishRequest")).
					Return(nil, domain.ErrVehicleNotOwned)
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name: "некорректные данные поездки",
			requestBody: map[string]interface{}{
				"vehicle_id": vehicleID,
				"max_seats":  0,
			},
			setupMock: func(svc *mockRideService) {
				svc.On("Publish", mock.Anything, driverID, mock.AnythingOfType("*ride.PublishRequest")).
					Return(nil, domain.ErrInvalidRideData)
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "невалидное тело запроса",
			requestBody:    "not-json",
			setupMock:      func(svc *mockRideService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockRideService)
			tt.setupMock(svc)

			handler := NewRideHandler(svc, logger.NewNoop())

			var body []byte
			if s, ok := tt.requestBody.(string); ok {
				body = []byte(s)
			} else {
				var err error
				body, err = json.Marshal(tt.requestBody)
				require.NoError(t, err)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/v1/rides", bytes.NewReader(body))
			req = req.WithContext(CreateAuthContext(t, driverID, "driver@campus.edu", domain.RoleNormal))

			rec := httptest.NewRecorder()
			handler.PublishRide(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestRideHandler_SearchRides(t *testing.T) {
	t.Run("поиск с фильтрами", func(t *testing.T) {
		svc := new(mockRideService)
		svc.On("Search", mock.Anything, mock.MatchedBy(func(req *ride.SearchRequest) bool {
			return req.AddressFrom == "Nord" && req.AddressTo == "Sud" &&
				req.DepartureAfter != nil && req.Limit == 10
		})).Return([]*domain.Ride{
			CreateTestRide(uuid.New(), uuid.New(), uuid.New()),
		}, nil)

		handler := NewRideHandler(svc, logger.NewNoop())

		req := httptest.NewRequest(http.MethodGet, "/api/v1/rides?from=Nord&to=Sud&date=2026-09-01&limit=10", nil)
		rec := httptest.NewRecorder()
		handler.SearchRides(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var response struct {
			Success bool           `json:"success"`
			Data    []*domain.Ride `json:"data"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Len(t, response.Data, 1)
		svc.AssertExpectations(t)
	})

	t.Run("невалидная дата", func(t *testing.T) {
		handler := NewRideHandler(new(mockRideService), logger.NewNoop())

		req := httptest.NewRequest(http.MethodGet, "/api/v1/rides?date=01-09-2026", nil)
		rec := httptest.NewRecorder()
		handler.SearchRides(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("пустой результат как пустой список", func(t *testing.T) {
		svc := new(mockRideService)
		svc.On("Search", mock.Anything, mock.AnythingOfType("*ride.SearchRequest")).Return(nil, nil)

		handler := NewRideHandler(svc, logger.NewNoop())

		req := httptest.NewRequest(http.MethodGet, "/api/v1/rides", nil)
		rec := httptest.NewRecorder()
		handler.SearchRides(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"data":[]`)
	})
}

func TestRideHandler_GetRideByID(t *testing.T) {
	rideID := uuid.New()

	tests := []struct {
		name           string
		rideID         string
		setupMock      func(svc *mockRideService)
		expectedStatus int
	}{
		{
			name:   "поездка найдена",
			rideID: rideID.String(),
			setupMock: func(svc *mockRideService) {
				svc.On("GetByID", mock.Anything, rideID).
					Return(CreateTestRide(rideID, uuid.New(), uuid.New()), nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "поездка не существует",
			rideID: rideID.String(),
			setupMock: func(svc *mockRideService) {
				svc.On("GetByID", mock.Anything, rideID).Return(nil, domain.ErrRideNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "невалидный ID",
			rideID:         "not-a-uuid",
			setupMock:      func(svc *mockRideService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockRideService)
			tt.setupMock(svc)

			handler := NewRideHandler(svc, logger.NewNoop())

			req := httptest.NewRequest(http.MethodGet, "/api/v1/rides/"+tt.rideID, nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.rideID)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			rec := httptest.NewRecorder()
			handler.GetRideByID(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestRideHandler_CancelRide(t *testing.T) {
	driverID := uuid.New()
	rideID := uuid.New()

	tests := []struct {
		name           string
		setupMock      func(svc *mockRideService)
		expectedStatus int
	}{
		{
			name: "успешная отмена",
			setupMock: func(svc *mockRideService) {
				canceled := CreateTestRide(rideID, driverID, uuid.New())
				canceled.Status = domain.RideStatusCanceled
				svc.On("Cancel", mock.Anything, rideID, driverID).Return(canceled, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "поездка не существует",
			setupMock: func(svc *mockRideService) {
				svc.On("Cancel", mock.Anything, rideID, driverID).Return(nil, domain.ErrRideNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "не водитель поездки",
			setupMock: func(svc *mockRideService) {
				svc.On("Cancel", mock.Anything, rideID, driverID).Return(nil, domain.ErrForbidden)
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name: "поездка уже закрыта",
			setupMock: func(svc *mockRideService) {
				svc.On("Cancel", mock.Anything, rideID, driverID).Return(nil, domain.ErrRideAlreadyCanceled)
			},
			expectedStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockRideService)
			tt.setupMock(svc)

			handler := NewRideHandler(svc, logger.NewNoop())

			req := httptest.NewRequest(http.MethodPost, "/api/v1/rides/"+rideID.String()+"/cancel", nil)
			req = req.WithContext(CreateAuthContext(t, driverID, "driver@campus.edu", domain.RoleNormal))

			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", rideID.String())
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			rec := httptest.NewRecorder()
			handler.CancelRide(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestRideHandler_FinishRide(t *testing.T) {
	driverID := uuid.New()
	rideID := uuid.New()

	t.Run("успешное завершение", func(t *testing.T) {
		finished := CreateTestRide(rideID, driverID, uuid.New())
		finished.Status = domain.RideStatusFinished

		svc := new(mockRideService)
		svc.On("Finish", mock.Anything, rideID, driverID).Return(finished, nil)

		handler := NewRideHandler(svc, logger.NewNoop())

		req := httptest.NewRequest(http.MethodPost, "/api/v1/rides/"+rideID.String()+"/finish", nil)
		req = req.WithContext(CreateAuthContext(t, driverID, "driver@campus.edu", domain.RoleNormal))

		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", rideID.String())
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

		rec := httptest.NewRecorder()
		handler.FinishRide(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})
}

func TestRideHandler_GetMyRides(t *testing.T) {
	driverID := uuid.New()

	t.Run("пустой список вместо null", func(t *testing.T) {
		svc := new(mockRideService)
		svc.On("GetByDriver", mock.Anything, driverID).Return(nil, nil)

		handler := NewRideHandler(svc, logger.NewNoop())

		req := httptest.NewRequest(http.MethodGet, "/api/v1/rides/me", nil)
		req = req.WithContext(CreateAuthContext(t, driverID, "driver@campus.edu", domain.RoleNormal))

		rec := httptest.NewRecorder()
		handler.GetMyRides(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"data":[]`)
	})
}
