package booking

import "time"

// Status は予約の状態を表す
type Status string

const (
	StatusActive    Status = "active"
	StatusCancelled Status = "cancelled"
)

// Booking は予約エンティティを表す
// 物理削除は行わず、キャンセルは active→cancelled の状態遷移のみ
type Booking struct {
	ID        string
	UserID    string
	SeatID    int64
	Journey   Journey
	Status    Status
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// NewBooking は新しい予約を作成する
func NewBooking(userID string, seatID int64, journey Journey) *Booking {
	return &Booking{
		UserID:    userID,
		SeatID:    seatID,
		Journey:   journey,
		Status:    StatusActive,
		CreatedAt: time.Now(),
	}
}

// IsActive は予約が有効かを返す
func (b *Booking) IsActive() bool {
	return b.Status == StatusActive
}

// Cancel は予約をキャンセルする
// 有効でない予約のキャンセルは呼び出し側から NotFound として扱う
func (b *Booking) Cancel() error {
	if b.Status != StatusActive {
		return ErrBookingNotActive
	}
	now := time.Now()
	b.Status = StatusCancelled
	b.UpdatedAt = &now
	return nil
}

// Validate は予約の検証を行う
func (b *Booking) Validate() error {
	if b.UserID == "" {
		return ErrUserIDRequired
	}
	if b.SeatID <= 0 {
		return ErrSeatIDRequired
	}
	return b.Journey.Validate()
}

// HistoryRecord は予約の状態遷移を記録する追記専用のレコード
// 1回の状態遷移につき正確に1件作成される
type HistoryRecord struct {
	ID        string
	BookingID string
	UserID    string
	SeatID    int64
	Journey   Journey
	OldStatus Status
	NewStatus Status
	CreatedAt time.Time
}

// NewHistoryRecord は状態遷移から履歴レコードを作成する
func NewHistoryRecord(b *Booking, oldStatus, newStatus Status) *HistoryRecord {
	return &HistoryRecord{
		BookingID: b.ID,
		UserID:    b.UserID,
		SeatID:    b.SeatID,
		Journey:   b.Journey,
		OldStatus: oldStatus,
		NewStatus: newStatus,
		CreatedAt: time.Now(),
	}
}

// UserBooking は表示用の結合済み予約情報
type UserBooking struct {
	Booking
	DepartureStation string
	ArrivalStation   string
	CarNumber        int
	SeatNumber       int
}
