package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-train-seat-reservation/internal/domain/booking"
	"github.com/sanosuguru/go-train-seat-reservation/internal/pkg/logger"
	"github.com/sanosuguru/go-train-seat-reservation/internal/pkg/metrics"
)

// BookingCounter は状態別の予約件数を数えるインターフェース
type BookingCounter interface {
	CountBookingsByStatus(ctx context.Context) (map[booking.Status]int, error)
}

// BookingStatsCollector は予約件数のゲージを定期更新するワーカー
type BookingStatsCollector struct {
	counter  BookingCounter
	metrics  *metrics.Metrics
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewBookingStatsCollector は新しいコレクターを作成
func NewBookingStatsCollector(counter BookingCounter, m *metrics.Metrics, interval time.Duration) *BookingStatsCollector {
	return &BookingStatsCollector{
		counter:  counter,
		metrics:  m,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start はコレクターを開始
func (c *BookingStatsCollector) Start(ctx context.Context) {
	logger.Info("予約統計コレクター開始", zap.Duration("interval", c.interval))

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	defer close(c.doneCh)

	for {
		select {
		case <-ctx.Done():
			logger.Info("予約統計コレクター停止（コンテキストキャンセル）")
			return
		case <-c.stopCh:
			logger.Info("予約統計コレクター停止（シグナル受信）")
			return
		case <-ticker.C:
			c.collect(ctx)
		}
	}
}

// Stop はコレクターを停止
func (c *BookingStatsCollector) Stop() {
	close(c.stopCh)
	<-c.doneCh
}

// collect は状態別の予約件数をゲージへ反映する
func (c *BookingStatsCollector) collect(ctx context.Context) {
	counts, err := c.counter.CountBookingsByStatus(ctx)
	if err != nil {
		logger.Error("予約件数の集計失敗", zap.Error(err))
		return
	}

	for _, status := range []booking.Status{booking.StatusActive, booking.StatusCancelled} {
		c.metrics.ActiveBookings.WithLabelValues(string(status)).Set(float64(counts[status]))
	}
}
