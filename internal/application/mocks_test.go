package application

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/sanosuguru/go-train-seat-reservation/internal/domain/booking"
	"github.com/sanosuguru/go-train-seat-reservation/internal/domain/seat"
	"github.com/sanosuguru/go-train-seat-reservation/internal/domain/station"
	"github.com/sanosuguru/go-train-seat-reservation/internal/domain/transaction"
)

// MockTx はtransaction.Txのモック
type MockTx struct {
	mock.Mock
}

func (m *MockTx) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockTx) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

// MockTxManager はtransaction.Managerのモック
type MockTxManager struct {
	mock.Mock
}

func (m *MockTxManager) Begin(ctx context.Context) (transaction.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(transaction.Tx), args.Error(1)
}

// MockBookingRepository はbooking.Repositoryのモック
type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, tx transaction.Tx, b *booking.Booking) error {
	args := m.Called(ctx, tx, b)
	return args.Error(0)
}

func (m *MockBookingRepository) GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id, userID string) (*booking.Booking, error) {
	args := m.Called(ctx, tx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Booking), args.Error(1)
}

func (m *MockBookingRepository) FindOverlappingForUpdate(ctx context.Context, tx transaction.Tx, seatID int64, journey booking.Journey) ([]*booking.Booking, error) {
	args := m.Called(ctx, tx, seatID, journey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*booking.Booking), args.Error(1)
}

func (m *MockBookingRepository) UpdateStatus(ctx context.Context, tx transaction.Tx, b *booking.Booking) error {
	args := m.Called(ctx, tx, b)
	return args.Error(0)
}

func (m *MockBookingRepository) AppendHistory(ctx context.Context, tx transaction.Tx, h *booking.HistoryRecord) error {
	args := m.Called(ctx, tx, h)
	return args.Error(0)
}

func (m *MockBookingRepository) GetByUserID(ctx context.Context, userID string) ([]*booking.UserBooking, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*booking.UserBooking), args.Error(1)
}

func (m *MockBookingRepository) CountByStatus(ctx context.Context) (map[booking.Status]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[booking.Status]int), args.Error(1)
}

// MockSeatRepository はseat.Repositoryのモック
type MockSeatRepository struct {
	mock.Mock
}

func (m *MockSeatRepository) GetByID(ctx context.Context, id int64) (*seat.Seat, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*seat.Seat), args.Error(1)
}

func (m *MockSeatRepository) GetByIDs(ctx context.Context, ids []int64) ([]*seat.Seat, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*seat.Seat), args.Error(1)
}

func (m *MockSeatRepository) List(ctx context.Context) ([]*seat.Seat, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*seat.Seat), args.Error(1)
}

// MockStationRepository はstation.Repositoryのモック
type MockStationRepository struct {
	mock.Mock
}

func (m *MockStationRepository) GetByID(ctx context.Context, id int64) (*station.Station, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*station.Station), args.Error(1)
}

func (m *MockStationRepository) List(ctx context.Context) ([]*station.Station, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*station.Station), args.Error(1)
}

// MockSeatLocker はSeatLockerのモック
type MockSeatLocker struct {
	mock.Mock
}

func (m *MockSeatLocker) AcquireSeatLock(ctx context.Context, tx transaction.Tx, seatID int64, journey booking.Journey) error {
	args := m.Called(ctx, tx, seatID, journey)
	return args.Error(0)
}

func (m *MockSeatLocker) AcquireSeatLocks(ctx context.Context, tx transaction.Tx, seatIDs []int64, journey booking.Journey) error {
	args := m.Called(ctx, tx, seatIDs, journey)
	return args.Error(0)
}

// MockAvailabilityReader はAvailabilityReaderのモック
type MockAvailabilityReader struct {
	mock.Mock
}

func (m *MockAvailabilityReader) IsSeatAvailable(ctx context.Context, seatID int64, journey booking.Journey) (bool, error) {
	args := m.Called(ctx, seatID, journey)
	return args.Bool(0), args.Error(1)
}

func (m *MockAvailabilityReader) ListAvailability(ctx context.Context, journey booking.Journey) ([]seat.Availability, error) {
	args := m.Called(ctx, journey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]seat.Availability), args.Error(1)
}

// MockAvailabilityCache はAvailabilityCacheのモック
type MockAvailabilityCache struct {
	mock.Mock
}

func (m *MockAvailabilityCache) GetAvailableCount(ctx context.Context, journey booking.Journey) (int, error) {
	args := m.Called(ctx, journey)
	return args.Int(0), args.Error(1)
}

func (m *MockAvailabilityCache) SetAvailableCount(ctx context.Context, journey booking.Journey, count int, ttl time.Duration) error {
	args := m.Called(ctx, journey, count, ttl)
	return args.Error(0)
}

func (m *MockAvailabilityCache) InvalidateAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
