package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sanosuguru/go-train-seat-reservation/internal/domain/booking"
	"github.com/sanosuguru/go-train-seat-reservation/internal/domain/seat"
)

type seatRow struct {
	ID         int64 `db:"id"`
	CarNumber  int   `db:"car_number"`
	SeatNumber int   `db:"seat_number"`
}

func (r *seatRow) toEntity() *seat.Seat {
	return &seat.Seat{ID: r.ID, CarNumber: r.CarNumber, SeatNumber: r.SeatNumber}
}

type availabilityRow struct {
	seatRow
	IsAvailable bool `db:"is_available"`
}

type SeatRepository struct{ db *sqlx.DB }

func NewSeatRepository(db *sqlx.DB) *SeatRepository { return &SeatRepository{db: db} }

func (r *SeatRepository) GetByID(ctx context.Context, id int64) (*seat.Seat, error) {
	var row seatRow
	query := `SELECT id, car_number, seat_number FROM seats WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, seat.ErrSeatNotFound
		}
		return nil, fmt.Errorf("座席取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

func (r *SeatRepository) GetByIDs(ctx context.Context, ids []int64) ([]*seat.Seat, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []seatRow
	query := `SELECT id, car_number, seat_number FROM seats WHERE id = ANY($1) ORDER BY car_number, seat_number`
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("座席取得に失敗: %w", err)
	}
	seats := make([]*seat.Seat, len(rows))
	for i, row := range rows {
		seats[i] = row.toEntity()
	}
	return seats, nil
}

func (r *SeatRepository) List(ctx context.Context) ([]*seat.Seat, error) {
	var rows []seatRow
	query := `SELECT id, car_number, seat_number FROM seats ORDER BY car_number, seat_number`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("座席一覧取得に失敗: %w", err)
	}
	seats := make([]*seat.Seat, len(rows))
	for i, row := range rows {
		seats[i] = row.toEntity()
	}
	return seats, nil
}

// IsSeatAvailable は指定区間に重なる有効な予約が存在しないかを返す（読み取り専用）
func (r *SeatRepository) IsSeatAvailable(ctx context.Context, seatID int64, journey booking.Journey) (bool, error) {
	var booked bool
	query := `SELECT EXISTS (
	            SELECT 1 FROM bookings
	            WHERE seat_id = $1
	              AND status = 'active'
	              AND departure_ordinal < $3
	              AND arrival_ordinal > $2
	          )`
	if err := r.db.GetContext(ctx, &booked, query, seatID, journey.DepartureOrdinal, journey.ArrivalOrdinal); err != nil {
		return false, fmt.Errorf("空席確認に失敗: %w", err)
	}
	return !booked, nil
}

// ListAvailability は全座席について指定区間の空き状況を返す
// 車両番号・座席番号の順で並ぶ
func (r *SeatRepository) ListAvailability(ctx context.Context, journey booking.Journey) ([]seat.Availability, error) {
	var rows []availabilityRow
	query := `SELECT s.id, s.car_number, s.seat_number,
	                 NOT EXISTS (
	                   SELECT 1 FROM bookings b
	                   WHERE b.seat_id = s.id
	                     AND b.status = 'active'
	                     AND b.departure_ordinal < $2
	                     AND b.arrival_ordinal > $1
	                 ) AS is_available
	          FROM seats s
	          ORDER BY s.car_number, s.seat_number`
	if err := r.db.SelectContext(ctx, &rows, query, journey.DepartureOrdinal, journey.ArrivalOrdinal); err != nil {
		return nil, fmt.Errorf("空席一覧取得に失敗: %w", err)
	}

	result := make([]seat.Availability, len(rows))
	for i, row := range rows {
		result[i] = seat.Availability{Seat: *row.seatRow.toEntity(), IsAvailable: row.IsAvailable}
	}
	return result, nil
}

var _ seat.Repository = (*SeatRepository)(nil)
