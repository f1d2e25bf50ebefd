package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sanosuguru/go-train-seat-reservation/internal/domain/booking"
)

var (
	ErrCacheMiss = errors.New("キャッシュが見つかりません")
)

// AvailabilityCache は区間ごとの空席数キャッシュを管理する
// 読み取り経路の負荷軽減用であり、トランザクション内の判定には決して使わない
type AvailabilityCache struct {
	client *redis.Client
}

// NewAvailabilityCache は新しいAvailabilityCacheインスタンスを作成する
func NewAvailabilityCache(client *redis.Client) *AvailabilityCache {
	return &AvailabilityCache{client: client}
}

// GetAvailableCount は区間の空席数をキャッシュから取得する
func (c *AvailabilityCache) GetAvailableCount(ctx context.Context, journey booking.Journey) (int, error) {
	val, err := c.client.Get(ctx, c.countKey(journey)).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrCacheMiss
		}
		return 0, fmt.Errorf("キャッシュ取得に失敗: %w", err)
	}
	return val, nil
}

// SetAvailableCount は区間の空席数をキャッシュに保存する
func (c *AvailabilityCache) SetAvailableCount(ctx context.Context, journey booking.Journey, count int, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.countKey(journey), count, ttl).Err(); err != nil {
		return fmt.Errorf("キャッシュ保存に失敗: %w", err)
	}
	return nil
}

// InvalidateAll は全区間の空席数キャッシュを無効化する
// 予約・キャンセルのコミット後に呼ぶ。1座席の変更は複数の区間キーに影響するため
// 区間単位ではなく全体を無効化する
func (c *AvailabilityCache) InvalidateAll(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, "availability:count:*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("キャッシュ無効化に失敗: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("キャッシュ無効化に失敗: %w", err)
	}
	return nil
}

func (c *AvailabilityCache) countKey(journey booking.Journey) string {
	return fmt.Sprintf("availability:count:%d:%d", journey.DepartureOrdinal, journey.ArrivalOrdinal)
}
