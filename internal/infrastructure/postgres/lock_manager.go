package postgres

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sanosuguru/go-train-seat-reservation/internal/domain/booking"
	"github.com/sanosuguru/go-train-seat-reservation/internal/domain/transaction"
	"github.com/sanosuguru/go-train-seat-reservation/internal/pkg/metrics"
)

// lockKeyRange はPostgreSQLのアドバイザリロックで安全に使える符号付き31bitの範囲
const lockKeyRange = 2147483647

// LockKey は (座席, 区間) から決定的なロックキーを導出する
// 衝突しても余分な直列化が起きるだけで、ロックの取り逃しは起きない
func LockKey(seatID int64, journey booking.Journey) int64 {
	key := seatID*100000 + int64(journey.DepartureOrdinal)*1000 + int64(journey.ArrivalOrdinal)
	return key % lockKeyRange
}

// LockManager はトランザクションスコープのアドバイザリロックを管理する
// pg_try_advisory_xact_lock で取得したロックはコミットまたはロールバックで
// 自動的に解放され、トランザクションの外に持ち越されることはない
type LockManager struct {
	metrics *metrics.Metrics
}

// NewLockManager は新しい LockManager を作成する
func NewLockManager(m *metrics.Metrics) *LockManager {
	return &LockManager{metrics: m}
}

// AcquireSeatLock は座席の区間スコープのアドバイザリロックを取得する
// 取得できない場合は booking.ErrLockNotAcquired を返す（保持者の存在は
// 競合中の書き込みの証拠なので、待たずに失敗させる）
func (m *LockManager) AcquireSeatLock(ctx context.Context, tx transaction.Tx, seatID int64, journey booking.Journey) error {
	start := time.Now()

	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return fmt.Errorf("トランザクションが不正です")
	}

	var acquired bool
	err := sqlxTx.GetContext(ctx, &acquired, `SELECT pg_try_advisory_xact_lock($1)`, LockKey(seatID, journey))
	if err != nil {
		m.observe("acquire", "error", start)
		return fmt.Errorf("ロック取得に失敗: %w", err)
	}
	if !acquired {
		m.observe("acquire", "failed", start)
		return booking.ErrLockNotAcquired
	}

	m.observe("acquire", "success", start)
	return nil
}

// AcquireSeatLocks はバッチ内の全座席のロックを取得する
// 1つでも取得できなければ booking.ErrLockNotAcquired（部分的な成功は許さない）
// 競合するバッチ同士の取得順序を安定させるため座席IDの昇順で取得する
func (m *LockManager) AcquireSeatLocks(ctx context.Context, tx transaction.Tx, seatIDs []int64, journey booking.Journey) error {
	start := time.Now()

	sorted := make([]int64, len(seatIDs))
	copy(sorted, seatIDs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	for _, seatID := range sorted {
		if err := m.AcquireSeatLock(ctx, tx, seatID, journey); err != nil {
			m.observe("acquire_batch", "failed", start)
			return err
		}
	}

	m.observe("acquire_batch", "success", start)
	return nil
}

func (m *LockManager) observe(operation, status string, start time.Time) {
	if m.metrics == nil {
		return
	}
	m.metrics.AdvisoryLockDuration.WithLabelValues(operation, status).Observe(time.Since(start).Seconds())
}
