package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-train-seat-reservation/internal/domain/seat"
)

// MockAvailabilityService はAvailabilityServiceInterfaceのモック
type MockAvailabilityService struct {
	mock.Mock
}

func (m *MockAvailabilityService) IsSeatAvailable(ctx context.Context, seatID, departureStationID, arrivalStationID int64) (bool, error) {
	args := m.Called(ctx, seatID, departureStationID, arrivalStationID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAvailabilityService) ListAvailability(ctx context.Context, departureStationID, arrivalStationID int64) ([]seat.Availability, error) {
	args := m.Called(ctx, departureStationID, arrivalStationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]seat.Availability), args.Error(1)
}

func (m *MockAvailabilityService) CountAvailable(ctx context.Context, departureStationID, arrivalStationID int64) (int, error) {
	args := m.Called(ctx, departureStationID, arrivalStationID)
	return args.Int(0), args.Error(1)
}

func TestSeatHandler_ListAvailability(t *testing.T) {
	e := NewTestEcho()

	t.Run("空き状況を車両番号・座席番号順に返す", func(t *testing.T) {
		mockService := new(MockAvailabilityService)
		mockService.On("ListAvailability", mock.Anything, int64(1), int64(3)).
			Return([]seat.Availability{
				{Seat: seat.Seat{ID: 1, CarNumber: 1, SeatNumber: 1}, IsAvailable: true},
				{Seat: seat.Seat{ID: 2, CarNumber: 1, SeatNumber: 2}, IsAvailable: false},
			}, nil)

		handler := NewSeatHandler(mockService)
		req := httptest.NewRequest(http.MethodGet,
			"/seats/availability?departure_station_id=1&arrival_station_id=3", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.ListAvailability(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp []SeatAvailabilityResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp, 2)
		assert.True(t, resp[0].IsAvailable)
		assert.False(t, resp[1].IsAvailable)
	})

	t.Run("区間パラメータがない場合400", func(t *testing.T) {
		mockService := new(MockAvailabilityService)
		handler := NewSeatHandler(mockService)
		req := httptest.NewRequest(http.MethodGet, "/seats/availability", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.ListAvailability(c)

		require.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, he.Code)
		mockService.AssertNotCalled(t, "ListAvailability", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestSeatHandler_CheckSeat(t *testing.T) {
	e := NewTestEcho()

	t.Run("座席の空きを確認できる", func(t *testing.T) {
		mockService := new(MockAvailabilityService)
		mockService.On("IsSeatAvailable", mock.Anything, int64(42), int64(1), int64(3)).
			Return(true, nil)

		handler := NewSeatHandler(mockService)
		req := httptest.NewRequest(http.MethodGet,
			"/seats/42/availability?departure_station_id=1&arrival_station_id=3", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("42")

		err := handler.CheckSeat(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"is_available":true`)
	})

	t.Run("座席IDが不正な場合400", func(t *testing.T) {
		mockService := new(MockAvailabilityService)
		handler := NewSeatHandler(mockService)
		req := httptest.NewRequest(http.MethodGet,
			"/seats/abc/availability?departure_station_id=1&arrival_station_id=3", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("abc")

		err := handler.CheckSeat(c)

		require.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, he.Code)
	})
}

func TestSeatHandler_CountAvailable(t *testing.T) {
	e := NewTestEcho()

	t.Run("空席数を返す", func(t *testing.T) {
		mockService := new(MockAvailabilityService)
		mockService.On("CountAvailable", mock.Anything, int64(1), int64(3)).Return(7, nil)

		handler := NewSeatHandler(mockService)
		req := httptest.NewRequest(http.MethodGet,
			"/seats/availability/count?departure_station_id=1&arrival_station_id=3", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.CountAvailable(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp map[string]int
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 7, resp["count"])
	})
}
