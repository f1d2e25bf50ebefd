package application

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-train-seat-reservation/internal/domain/seat"
	"github.com/sanosuguru/go-train-seat-reservation/internal/domain/station"
	redisinfra "github.com/sanosuguru/go-train-seat-reservation/internal/infrastructure/redis"
	"github.com/sanosuguru/go-train-seat-reservation/internal/pkg/apperror"
	"github.com/sanosuguru/go-train-seat-reservation/internal/pkg/logger"
)

const availabilityCacheTTL = 30 * time.Second

// AvailabilityService は読み取り専用の空席クエリを提供する
// すべてのクエリに制限時間を設け、遅いクエリは呼び出し元を塞がずに
// Timeout として失敗する
type AvailabilityService struct {
	reader       AvailabilityReader
	stationRepo  station.Repository
	cache        AvailabilityCache
	queryTimeout time.Duration
}

// NewAvailabilityService は新しい AvailabilityService を作成する
func NewAvailabilityService(reader AvailabilityReader, str station.Repository, cache AvailabilityCache, queryTimeout time.Duration) *AvailabilityService {
	return &AvailabilityService{
		reader:       reader,
		stationRepo:  str,
		cache:        cache,
		queryTimeout: queryTimeout,
	}
}

// IsSeatAvailable は指定座席が区間で予約可能かを返す
func (s *AvailabilityService) IsSeatAvailable(ctx context.Context, seatID int64, departureStationID, arrivalStationID int64) (bool, error) {
	journey, err := resolveJourney(ctx, s.stationRepo, departureStationID, arrivalStationID)
	if err != nil {
		return false, err
	}

	queryCtx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	available, err := s.reader.IsSeatAvailable(queryCtx, seatID, journey)
	if err != nil {
		return false, s.classifyQueryError(err, "空席確認に失敗")
	}
	return available, nil
}

// ListAvailability は全座席の空き状況を車両番号・座席番号順に返す
func (s *AvailabilityService) ListAvailability(ctx context.Context, departureStationID, arrivalStationID int64) ([]seat.Availability, error) {
	journey, err := resolveJourney(ctx, s.stationRepo, departureStationID, arrivalStationID)
	if err != nil {
		return nil, err
	}

	queryCtx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	availability, err := s.reader.ListAvailability(queryCtx, journey)
	if err != nil {
		return nil, s.classifyQueryError(err, "空席一覧取得に失敗")
	}
	return availability, nil
}

// CountAvailable は区間の空席数を返す。短いTTLのキャッシュを経由する
func (s *AvailabilityService) CountAvailable(ctx context.Context, departureStationID, arrivalStationID int64) (int, error) {
	journey, err := resolveJourney(ctx, s.stationRepo, departureStationID, arrivalStationID)
	if err != nil {
		return 0, err
	}

	// キャッシュから取得を試みる
	if s.cache != nil {
		count, err := s.cache.GetAvailableCount(ctx, journey)
		if err == nil {
			logger.Debug("キャッシュヒット",
				zap.Int("departure", journey.DepartureOrdinal),
				zap.Int("arrival", journey.ArrivalOrdinal),
				zap.Int("count", count))
			return count, nil
		}
		if !errors.Is(err, redisinfra.ErrCacheMiss) {
			logger.Warn("キャッシュ取得エラー", zap.Error(err))
		}
	}

	queryCtx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	availability, err := s.reader.ListAvailability(queryCtx, journey)
	if err != nil {
		return 0, s.classifyQueryError(err, "空席数取得に失敗")
	}

	count := 0
	for _, a := range availability {
		if a.IsAvailable {
			count++
		}
	}

	// キャッシュに保存
	if s.cache != nil {
		if cacheErr := s.cache.SetAvailableCount(ctx, journey, count, availabilityCacheTTL); cacheErr != nil {
			logger.Warn("キャッシュ保存エラー", zap.Error(cacheErr))
		}
	}

	return count, nil
}

func (s *AvailabilityService) classifyQueryError(err error, message string) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperror.Timeout(message+"（制限時間超過）", err)
	}
	return apperror.Internal(message, err)
}
