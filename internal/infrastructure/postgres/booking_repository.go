package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sanosuguru/go-train-seat-reservation/internal/domain/booking"
	"github.com/sanosuguru/go-train-seat-reservation/internal/domain/transaction"
)

type bookingRow struct {
	ID               string     `db:"id"`
	UserID           string     `db:"user_id"`
	SeatID           int64      `db:"seat_id"`
	DepartureOrdinal int        `db:"departure_ordinal"`
	ArrivalOrdinal   int        `db:"arrival_ordinal"`
	Status           string     `db:"status"`
	CreatedAt        time.Time  `db:"created_at"`
	UpdatedAt        *time.Time `db:"updated_at"`
}

func (r *bookingRow) toEntity() *booking.Booking {
	return &booking.Booking{
		ID:     r.ID,
		UserID: r.UserID,
		SeatID: r.SeatID,
		Journey: booking.Journey{
			DepartureOrdinal: r.DepartureOrdinal,
			ArrivalOrdinal:   r.ArrivalOrdinal,
		},
		Status:    booking.Status(r.Status),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type userBookingRow struct {
	bookingRow
	DepartureStation string `db:"departure_station"`
	ArrivalStation   string `db:"arrival_station"`
	CarNumber        int    `db:"car_number"`
	SeatNumber       int    `db:"seat_number"`
}

type BookingRepository struct{ db *sqlx.DB }

func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Create(ctx context.Context, tx transaction.Tx, b *booking.Booking) error {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return fmt.Errorf("トランザクションが不正です")
	}

	b.ID = uuid.New().String()
	query := `INSERT INTO bookings (id, user_id, seat_id, departure_ordinal, arrival_ordinal, status, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := sqlxTx.ExecContext(ctx, query,
		b.ID, b.UserID, b.SeatID, b.Journey.DepartureOrdinal, b.Journey.ArrivalOrdinal, string(b.Status), b.CreatedAt,
	); err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23503" {
			return booking.ErrSeatIDRequired
		}
		return fmt.Errorf("予約作成に失敗: %w", err)
	}
	return nil
}

func (r *BookingRepository) GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id, userID string) (*booking.Booking, error) {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return nil, fmt.Errorf("トランザクションが不正です")
	}

	var row bookingRow
	query := `SELECT id, user_id, seat_id, departure_ordinal, arrival_ordinal, status, created_at, updated_at
	          FROM bookings WHERE id = $1 AND user_id = $2 FOR UPDATE`
	if err := sqlxTx.GetContext(ctx, &row, query, id, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrBookingNotFound
		}
		return nil, fmt.Errorf("予約取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

// FindOverlappingForUpdate は有効な予約のうち区間が重なる行を行ロック付きで取得する
// 重なり判定は半開区間の標準形（既存.departure < 候補.arrival AND
// 候補.departure < 既存.arrival）。隣接区間は一致しない
func (r *BookingRepository) FindOverlappingForUpdate(ctx context.Context, tx transaction.Tx, seatID int64, journey booking.Journey) ([]*booking.Booking, error) {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return nil, fmt.Errorf("トランザクションが不正です")
	}

	var rows []bookingRow
	query := `SELECT id, user_id, seat_id, departure_ordinal, arrival_ordinal, status, created_at, updated_at
	          FROM bookings
	          WHERE seat_id = $1
	            AND status = 'active'
	            AND departure_ordinal < $3
	            AND arrival_ordinal > $2
	          FOR UPDATE`
	if err := sqlxTx.SelectContext(ctx, &rows, query, seatID, journey.DepartureOrdinal, journey.ArrivalOrdinal); err != nil {
		return nil, fmt.Errorf("重複予約の確認に失敗: %w", err)
	}

	result := make([]*booking.Booking, len(rows))
	for i, row := range rows {
		result[i] = row.toEntity()
	}
	return result, nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, tx transaction.Tx, b *booking.Booking) error {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return fmt.Errorf("トランザクションが不正です")
	}

	query := `UPDATE bookings SET status = $1, updated_at = $2 WHERE id = $3`
	result, err := sqlxTx.ExecContext(ctx, query, string(b.Status), b.UpdatedAt, b.ID)
	if err != nil {
		return fmt.Errorf("予約更新に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return booking.ErrBookingNotFound
	}
	return nil
}

func (r *BookingRepository) AppendHistory(ctx context.Context, tx transaction.Tx, h *booking.HistoryRecord) error {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return fmt.Errorf("トランザクションが不正です")
	}

	h.ID = uuid.New().String()
	query := `INSERT INTO booking_history
	          (id, booking_id, user_id, seat_id, departure_ordinal, arrival_ordinal, old_status, new_status, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	if _, err := sqlxTx.ExecContext(ctx, query,
		h.ID, h.BookingID, h.UserID, h.SeatID,
		h.Journey.DepartureOrdinal, h.Journey.ArrivalOrdinal,
		string(h.OldStatus), string(h.NewStatus), h.CreatedAt,
	); err != nil {
		return fmt.Errorf("予約履歴の追記に失敗: %w", err)
	}
	return nil
}

func (r *BookingRepository) GetByUserID(ctx context.Context, userID string) ([]*booking.UserBooking, error) {
	var rows []userBookingRow
	query := `SELECT b.id, b.user_id, b.seat_id, b.departure_ordinal, b.arrival_ordinal, b.status, b.created_at, b.updated_at,
	                 d.name AS departure_station, a.name AS arrival_station,
	                 s.car_number, s.seat_number
	          FROM bookings b
	          JOIN stations d ON d.ordinal = b.departure_ordinal
	          JOIN stations a ON a.ordinal = b.arrival_ordinal
	          JOIN seats s ON s.id = b.seat_id
	          WHERE b.user_id = $1
	          ORDER BY b.created_at DESC`
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("予約一覧取得に失敗: %w", err)
	}

	result := make([]*booking.UserBooking, len(rows))
	for i, row := range rows {
		result[i] = &booking.UserBooking{
			Booking:          *row.bookingRow.toEntity(),
			DepartureStation: row.DepartureStation,
			ArrivalStation:   row.ArrivalStation,
			CarNumber:        row.CarNumber,
			SeatNumber:       row.SeatNumber,
		}
	}
	return result, nil
}

func (r *BookingRepository) CountByStatus(ctx context.Context) (map[booking.Status]int, error) {
	var rows []struct {
		Status string `db:"status"`
		Count  int    `db:"count"`
	}
	if err := r.db.SelectContext(ctx, &rows, `SELECT status, COUNT(*) AS count FROM bookings GROUP BY status`); err != nil {
		return nil, fmt.Errorf("予約件数の集計に失敗: %w", err)
	}

	result := make(map[booking.Status]int, len(rows))
	for _, row := range rows {
		result[booking.Status(row.Status)] = row.Count
	}
	return result, nil
}

var _ booking.Repository = (*BookingRepository)(nil)
