package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-train-seat-reservation/internal/application"
	"github.com/sanosuguru/go-train-seat-reservation/internal/domain/booking"
)

type BookingHandler struct {
	service BookingServiceInterface
}

func NewBookingHandler(s BookingServiceInterface) *BookingHandler {
	return &BookingHandler{service: s}
}

type CreateBookingRequest struct {
	DepartureStationID int64 `json:"departure_station_id" validate:"required,min=1"`
	ArrivalStationID   int64 `json:"arrival_station_id" validate:"required,min=1"`
	SeatID             int64 `json:"seat_id" validate:"required,min=1"`
}

type CreateMultipleBookingsRequest struct {
	DepartureStationID int64   `json:"departure_station_id" validate:"required,min=1"`
	ArrivalStationID   int64   `json:"arrival_station_id" validate:"required,min=1"`
	SeatIDs            []int64 `json:"seat_ids" validate:"required,min=1,max=10,dive,min=1"`
}

type BookingResponse struct {
	ID               string     `json:"id"`
	UserID           string     `json:"user_id"`
	SeatID           int64      `json:"seat_id"`
	DepartureOrdinal int        `json:"departure_ordinal"`
	ArrivalOrdinal   int        `json:"arrival_ordinal"`
	Status           string     `json:"status"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        *time.Time `json:"updated_at,omitempty"`
}

type UserBookingResponse struct {
	BookingResponse
	DepartureStation string `json:"departure_station"`
	ArrivalStation   string `json:"arrival_station"`
	CarNumber        int    `json:"car_number"`
	SeatNumber       int    `json:"seat_number"`
}

func toBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:               b.ID,
		UserID:           b.UserID,
		SeatID:           b.SeatID,
		DepartureOrdinal: b.Journey.DepartureOrdinal,
		ArrivalOrdinal:   b.Journey.ArrivalOrdinal,
		Status:           string(b.Status),
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}
}

func toUserBookingResponse(b *booking.UserBooking) UserBookingResponse {
	return UserBookingResponse{
		BookingResponse:  toBookingResponse(&b.Booking),
		DepartureStation: b.DepartureStation,
		ArrivalStation:   b.ArrivalStation,
		CarNumber:        b.CarNumber,
		SeatNumber:       b.SeatNumber,
	}
}

// Create は1座席の予約を作成する
// @Summary 予約を作成
// @Tags bookings
// @Accept json
// @Produce json
// @Param request body CreateBookingRequest true "予約情報"
// @Success 201 {object} BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string "座席が既に予約済み"
// @Router /bookings [post]
func (h *BookingHandler) Create(c echo.Context) error {
	userID, err := authenticatedUserID(c)
	if err != nil {
		return err
	}
	var req CreateBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	b, err := h.service.CreateBooking(c.Request().Context(), application.CreateBookingInput{
		UserID:             userID,
		DepartureStationID: req.DepartureStationID,
		ArrivalStationID:   req.ArrivalStationID,
		SeatID:             req.SeatID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toBookingResponse(b))
}

// CreateBatch は複数座席の予約をアトミックに作成する
// @Summary 複数座席を一括予約
// @Tags bookings
// @Accept json
// @Produce json
// @Param request body CreateMultipleBookingsRequest true "予約情報（最大10席）"
// @Success 201 {array} BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string "全席を確保できない"
// @Router /bookings/batch [post]
func (h *BookingHandler) CreateBatch(c echo.Context) error {
	userID, err := authenticatedUserID(c)
	if err != nil {
		return err
	}
	var req CreateMultipleBookingsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	bookings, err := h.service.CreateMultipleBookings(c.Request().Context(), application.CreateMultipleBookingsInput{
		UserID:             userID,
		DepartureStationID: req.DepartureStationID,
		ArrivalStationID:   req.ArrivalStationID,
		SeatIDs:            req.SeatIDs,
	})
	if err != nil {
		return err
	}
	resp := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		resp[i] = toBookingResponse(b)
	}
	return c.JSON(http.StatusCreated, resp)
}

// Cancel は予約をキャンセルする
// @Summary 予約をキャンセル
// @Tags bookings
// @Produce json
// @Param id path string true "予約ID"
// @Success 200 {object} BookingResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /bookings/{id}/cancel [post]
func (h *BookingHandler) Cancel(c echo.Context) error {
	userID, err := authenticatedUserID(c)
	if err != nil {
		return err
	}
	b, err := h.service.CancelBooking(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBookingResponse(b))
}

// GetUserBookings はログインユーザーの予約一覧を取得する
// @Summary ユーザーの予約一覧を取得
// @Tags bookings
// @Produce json
// @Success 200 {array} UserBookingResponse
// @Failure 401 {object} map[string]string
// @Router /bookings [get]
func (h *BookingHandler) GetUserBookings(c echo.Context) error {
	userID, err := authenticatedUserID(c)
	if err != nil {
		return err
	}
	bookings, err := h.service.GetUserBookings(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	resp := make([]UserBookingResponse, len(bookings))
	for i, b := range bookings {
		resp[i] = toUserBookingResponse(b)
	}
	return c.JSON(http.StatusOK, resp)
}

// authenticatedUserID は認証ミドルウェアが設定したユーザーIDを取り出す
// 検証自体は上流の責務であり、ここでは存在の確認のみ行う
func authenticatedUserID(c echo.Context) (string, error) {
	if v, ok := c.Get("user_id").(string); ok && v != "" {
		return v, nil
	}
	return "", echo.NewHTTPError(http.StatusUnauthorized, "ユーザーIDが必要です")
}
