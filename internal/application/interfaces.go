package application

import (
	"context"
	"time"

	"github.com/sanosuguru/go-train-seat-reservation/internal/domain/booking"
	"github.com/sanosuguru/go-train-seat-reservation/internal/domain/seat"
	"github.com/sanosuguru/go-train-seat-reservation/internal/domain/transaction"
)

// SeatLocker は座席の区間スコープのアドバイザリロックを取得するインターフェース
// ロックはトランザクションに紐づき、コミットまたはロールバックで解放される
// アドバイザリロックはアプリケーションレベルの「予約する意図」を直列化する：
// 行がまだ存在しない段階（バッチの全席確保を含む）でも競合を検出できる。
// 行ロックはその後の再チェックで、既に永続化された状態を守る
type SeatLocker interface {
	// AcquireSeatLock は1座席のロックを取得する
	AcquireSeatLock(ctx context.Context, tx transaction.Tx, seatID int64, journey booking.Journey) error

	// AcquireSeatLocks はバッチの全座席のロックを取得する（全取得か失敗か）
	AcquireSeatLocks(ctx context.Context, tx transaction.Tx, seatIDs []int64, journey booking.Journey) error
}

// AvailabilityReader は読み取り専用の空席クエリのインターフェース
type AvailabilityReader interface {
	// IsSeatAvailable は指定区間に重なる有効な予約が存在しないかを返す
	IsSeatAvailable(ctx context.Context, seatID int64, journey booking.Journey) (bool, error)

	// ListAvailability は全座席の空き状況を車両番号・座席番号順に返す
	ListAvailability(ctx context.Context, journey booking.Journey) ([]seat.Availability, error)
}

// AvailabilityCache は空席数キャッシュのインターフェース
type AvailabilityCache interface {
	GetAvailableCount(ctx context.Context, journey booking.Journey) (int, error)
	SetAvailableCount(ctx context.Context, journey booking.Journey, count int, ttl time.Duration) error
	InvalidateAll(ctx context.Context) error
}
