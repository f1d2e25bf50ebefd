package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-train-seat-reservation/internal/domain/station"
)

type StationHandler struct {
	service StationServiceInterface
}

func NewStationHandler(s StationServiceInterface) *StationHandler {
	return &StationHandler{service: s}
}

type StationResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Ordinal int    `json:"ordinal"`
}

func toStationResponse(s *station.Station) StationResponse {
	return StationResponse{ID: s.ID, Name: s.Name, Ordinal: s.Ordinal}
}

// List は全駅を路線順に取得する
func (h *StationHandler) List(c echo.Context) error {
	stations, err := h.service.ListStations(c.Request().Context())
	if err != nil {
		return err
	}
	resp := make([]StationResponse, len(stations))
	for i, s := range stations {
		resp[i] = toStationResponse(s)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetByID はIDから駅を取得する
func (h *StationHandler) GetByID(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		return echo.NewHTTPError(http.StatusBadRequest, "駅IDが不正です")
	}
	s, err := h.service.GetStation(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toStationResponse(s))
}
