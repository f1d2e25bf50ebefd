package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-train-seat-reservation/internal/domain/seat"
)

type SeatHandler struct {
	service AvailabilityServiceInterface
}

func NewSeatHandler(s AvailabilityServiceInterface) *SeatHandler {
	return &SeatHandler{service: s}
}

type SeatAvailabilityResponse struct {
	SeatID      int64 `json:"seat_id"`
	CarNumber   int   `json:"car_number"`
	SeatNumber  int   `json:"seat_number"`
	IsAvailable bool  `json:"is_available"`
}

func toAvailabilityResponse(a seat.Availability) SeatAvailabilityResponse {
	return SeatAvailabilityResponse{
		SeatID:      a.Seat.ID,
		CarNumber:   a.Seat.CarNumber,
		SeatNumber:  a.Seat.SeatNumber,
		IsAvailable: a.IsAvailable,
	}
}

// ListAvailability は指定区間の全座席の空き状況を取得する
// @Summary 空席一覧を取得
// @Tags seats
// @Produce json
// @Param departure_station_id query int true "出発駅ID"
// @Param arrival_station_id query int true "到着駅ID"
// @Success 200 {array} SeatAvailabilityResponse
// @Failure 400 {object} map[string]string
// @Router /seats/availability [get]
func (h *SeatHandler) ListAvailability(c echo.Context) error {
	depID, arrID, err := journeyParams(c)
	if err != nil {
		return err
	}
	availability, err := h.service.ListAvailability(c.Request().Context(), depID, arrID)
	if err != nil {
		return err
	}
	resp := make([]SeatAvailabilityResponse, len(availability))
	for i, a := range availability {
		resp[i] = toAvailabilityResponse(a)
	}
	return c.JSON(http.StatusOK, resp)
}

// CheckSeat は指定座席が区間で予約可能かを取得する
// @Summary 座席の空き確認
// @Tags seats
// @Produce json
// @Param id path int true "座席ID"
// @Param departure_station_id query int true "出発駅ID"
// @Param arrival_station_id query int true "到着駅ID"
// @Success 200 {object} map[string]bool
// @Router /seats/{id}/availability [get]
func (h *SeatHandler) CheckSeat(c echo.Context) error {
	seatID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || seatID < 1 {
		return echo.NewHTTPError(http.StatusBadRequest, "座席IDが不正です")
	}
	depID, arrID, err := journeyParams(c)
	if err != nil {
		return err
	}
	available, err := h.service.IsSeatAvailable(c.Request().Context(), seatID, depID, arrID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"seat_id":      seatID,
		"is_available": available,
	})
}

// CountAvailable は指定区間の空席数を取得する
// @Summary 空席数を取得
// @Tags seats
// @Produce json
// @Param departure_station_id query int true "出発駅ID"
// @Param arrival_station_id query int true "到着駅ID"
// @Success 200 {object} map[string]int
// @Router /seats/availability/count [get]
func (h *SeatHandler) CountAvailable(c echo.Context) error {
	depID, arrID, err := journeyParams(c)
	if err != nil {
		return err
	}
	count, err := h.service.CountAvailable(c.Request().Context(), depID, arrID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]int{"count": count})
}

func journeyParams(c echo.Context) (int64, int64, error) {
	depID, err := strconv.ParseInt(c.QueryParam("departure_station_id"), 10, 64)
	if err != nil || depID < 1 {
		return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "出発駅IDが必要です")
	}
	arrID, err := strconv.ParseInt(c.QueryParam("arrival_station_id"), 10, 64)
	if err != nil || arrID < 1 {
		return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "到着駅IDが必要です")
	}
	return depID, arrID, nil
}
