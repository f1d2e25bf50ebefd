package handler

import (
	"context"

	"github.com/sanosuguru/go-train-seat-reservation/internal/application"
	"github.com/sanosuguru/go-train-seat-reservation/internal/domain/booking"
	"github.com/sanosuguru/go-train-seat-reservation/internal/domain/seat"
	"github.com/sanosuguru/go-train-seat-reservation/internal/domain/station"
)

// BookingServiceInterface は予約サービスのインターフェース
type BookingServiceInterface interface {
	CreateBooking(ctx context.Context, input application.CreateBookingInput) (*booking.Booking, error)
	CreateMultipleBookings(ctx context.Context, input application.CreateMultipleBookingsInput) ([]*booking.Booking, error)
	CancelBooking(ctx context.Context, bookingID, userID string) (*booking.Booking, error)
	GetUserBookings(ctx context.Context, userID string) ([]*booking.UserBooking, error)
}

// AvailabilityServiceInterface は空席サービスのインターフェース
type AvailabilityServiceInterface interface {
	IsSeatAvailable(ctx context.Context, seatID, departureStationID, arrivalStationID int64) (bool, error)
	ListAvailability(ctx context.Context, departureStationID, arrivalStationID int64) ([]seat.Availability, error)
	CountAvailable(ctx context.Context, departureStationID, arrivalStationID int64) (int, error)
}

// StationServiceInterface は駅サービスのインターフェース
type StationServiceInterface interface {
	ListStations(ctx context.Context) ([]*station.Station, error)
	GetStation(ctx context.Context, id int64) (*station.Station, error)
}
