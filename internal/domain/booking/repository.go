package booking

import (
	"context"

	"github.com/sanosuguru/go-train-seat-reservation/internal/domain/transaction"
)

// Repository は予約リポジトリのインターフェース
type Repository interface {
	// Create は新しい予約を作成する（トランザクション必須）
	Create(ctx context.Context, tx transaction.Tx, b *Booking) error

	// GetByIDForUpdate はIDと所有ユーザーから予約を行ロック付きで取得する
	// 一致する行がない場合は ErrBookingNotFound を返す（存在と権限は区別しない）
	GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id, userID string) (*Booking, error)

	// FindOverlappingForUpdate は指定座席の有効な予約のうち、区間が重なる行を
	// 行ロック付きで取得する（可用性の再チェックはこのロック下で行う）
	FindOverlappingForUpdate(ctx context.Context, tx transaction.Tx, seatID int64, journey Journey) ([]*Booking, error)

	// UpdateStatus は予約の状態を更新する（トランザクション必須）
	UpdateStatus(ctx context.Context, tx transaction.Tx, b *Booking) error

	// AppendHistory は状態遷移の履歴レコードを追記する（トランザクション必須）
	AppendHistory(ctx context.Context, tx transaction.Tx, h *HistoryRecord) error

	// GetByUserID はユーザーの予約一覧を表示情報付きで新しい順に取得する
	GetByUserID(ctx context.Context, userID string) ([]*UserBooking, error)

	// CountByStatus は状態ごとの予約件数を取得する
	CountByStatus(ctx context.Context) (map[Status]int, error)
}
