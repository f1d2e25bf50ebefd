package application

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-train-seat-reservation/internal/domain/booking"
	"github.com/sanosuguru/go-train-seat-reservation/internal/domain/seat"
	"github.com/sanosuguru/go-train-seat-reservation/internal/domain/station"
	"github.com/sanosuguru/go-train-seat-reservation/internal/domain/transaction"
	"github.com/sanosuguru/go-train-seat-reservation/internal/pkg/apperror"
	"github.com/sanosuguru/go-train-seat-reservation/internal/pkg/logger"
	"github.com/sanosuguru/go-train-seat-reservation/internal/pkg/metrics"
)

// MaxSeatsPerBooking は1回のバッチで予約できる座席数の上限
const MaxSeatsPerBooking = 10

// BookingService は予約の作業単位を編成する
// ロック取得 → ロック下での再チェック → 書き込み → 履歴 → コミット の順序を守り、
// 途中のいかなる失敗でも作業単位全体をロールバックする
type BookingService struct {
	txManager   transaction.Manager
	bookingRepo booking.Repository
	seatRepo    seat.Repository
	stationRepo station.Repository
	lockManager SeatLocker
	cache       AvailabilityCache
	metrics     *metrics.Metrics
	lockTimeout time.Duration
}

// NewBookingService は新しい BookingService を作成する
func NewBookingService(
	tm transaction.Manager,
	br booking.Repository,
	sr seat.Repository,
	str station.Repository,
	lm SeatLocker,
	cache AvailabilityCache,
	m *metrics.Metrics,
	lockTimeout time.Duration,
) *BookingService {
	return &BookingService{
		txManager:   tm,
		bookingRepo: br,
		seatRepo:    sr,
		stationRepo: str,
		lockManager: lm,
		cache:       cache,
		metrics:     m,
		lockTimeout: lockTimeout,
	}
}

// CreateBookingInput は単一座席の予約入力
type CreateBookingInput struct {
	UserID             string
	DepartureStationID int64
	ArrivalStationID   int64
	SeatID             int64
}

// CreateBooking は1座席を予約する
func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*booking.Booking, error) {
	b, err := s.createBooking(ctx, input)
	s.recordBooking(err)
	return b, err
}

func (s *BookingService) createBooking(ctx context.Context, input CreateBookingInput) (*booking.Booking, error) {
	// 検証はトランザクション開始前に行う
	journey, err := resolveJourney(ctx, s.stationRepo, input.DepartureStationID, input.ArrivalStationID)
	if err != nil {
		return nil, err
	}
	if _, err := s.seatRepo.GetByID(ctx, input.SeatID); err != nil {
		if errors.Is(err, seat.ErrSeatNotFound) {
			return nil, apperror.Validation(seat.ErrSeatNotFound)
		}
		return nil, apperror.Internal("座席の確認に失敗", err)
	}

	b := booking.NewBooking(input.UserID, input.SeatID, journey)
	if err := b.Validate(); err != nil {
		return nil, apperror.Validation(err)
	}

	// ロック取得と行ロック付き再チェックには制限時間を設ける
	txCtx, cancel := context.WithTimeout(ctx, s.lockTimeout)
	defer cancel()

	tx, err := s.txManager.Begin(txCtx)
	if err != nil {
		return nil, apperror.Internal("トランザクション開始に失敗", err)
	}
	defer tx.Rollback()

	// アドバイザリロック（意図の直列化）
	if err := s.lockManager.AcquireSeatLock(txCtx, tx, input.SeatID, journey); err != nil {
		return nil, s.classifyLockError(err, input.SeatID)
	}

	// ロック下で永続化済みの状態を再チェック（行ロック付き）
	overlapping, err := s.bookingRepo.FindOverlappingForUpdate(txCtx, tx, input.SeatID, journey)
	if err != nil {
		return nil, s.classifyTxError(err, "重複予約の確認に失敗")
	}
	if len(overlapping) > 0 {
		return nil, apperror.Conflict(
			fmt.Sprintf("座席 %d はこの区間では既に予約されています", input.SeatID),
			input.SeatID, booking.ErrSeatNotAvailable)
	}

	if err := s.bookingRepo.Create(txCtx, tx, b); err != nil {
		return nil, s.classifyTxError(err, "予約作成に失敗")
	}

	if err := tx.Commit(); err != nil {
		return nil, apperror.Internal("コミットに失敗", err)
	}

	s.invalidateCache(ctx)
	return b, nil
}

// CreateMultipleBookingsInput は複数座席の一括予約入力
type CreateMultipleBookingsInput struct {
	UserID             string
	DepartureStationID int64
	ArrivalStationID   int64
	SeatIDs            []int64
}

// CreateMultipleBookings は複数座席をアトミックに予約する
// 全席の予約が成功するか、1件も永続化されないかのいずれか。部分的な成功は
// 補償キャンセルを必要とするため禁止されている
func (s *BookingService) CreateMultipleBookings(ctx context.Context, input CreateMultipleBookingsInput) ([]*booking.Booking, error) {
	bs, err := s.createMultipleBookings(ctx, input)
	s.recordBooking(err)
	return bs, err
}

func (s *BookingService) createMultipleBookings(ctx context.Context, input CreateMultipleBookingsInput) ([]*booking.Booking, error) {
	if len(input.SeatIDs) == 0 {
		return nil, apperror.Validation(booking.ErrNoSeatsSpecified)
	}
	if len(input.SeatIDs) > MaxSeatsPerBooking {
		return nil, apperror.Validation(booking.ErrTooManySeats)
	}

	journey, err := resolveJourney(ctx, s.stationRepo, input.DepartureStationID, input.ArrivalStationID)
	if err != nil {
		return nil, err
	}

	seatIDs := dedupeSorted(input.SeatIDs)

	// 全座席の存在確認
	seats, err := s.seatRepo.GetByIDs(ctx, seatIDs)
	if err != nil {
		return nil, apperror.Internal("座席の確認に失敗", err)
	}
	if len(seats) != len(seatIDs) {
		return nil, apperror.Validation(seat.ErrSeatNotFound)
	}

	txCtx, cancel := context.WithTimeout(ctx, s.lockTimeout)
	defer cancel()

	tx, err := s.txManager.Begin(txCtx)
	if err != nil {
		return nil, apperror.Internal("トランザクション開始に失敗", err)
	}
	defer tx.Rollback()

	// バッチ全体のアドバイザリロック。1つでも取れなければバッチ全体を中止する
	if err := s.lockManager.AcquireSeatLocks(txCtx, tx, seatIDs, journey); err != nil {
		if errors.Is(err, booking.ErrLockNotAcquired) {
			return nil, apperror.Conflict(
				"選択した座席の一部を確保できませんでした。他のユーザーが予約中の可能性があります",
				0, booking.ErrLockNotAcquired)
		}
		return nil, s.classifyTxError(err, "ロック取得に失敗")
	}

	// 座席ごとにロック下で再チェック
	for _, seatID := range seatIDs {
		overlapping, err := s.bookingRepo.FindOverlappingForUpdate(txCtx, tx, seatID, journey)
		if err != nil {
			return nil, s.classifyTxError(err, "重複予約の確認に失敗")
		}
		if len(overlapping) > 0 {
			return nil, apperror.Conflict(
				fmt.Sprintf("座席 %d はこの区間では既に予約されています", seatID),
				seatID, booking.ErrSeatNotAvailable)
		}
	}

	// 全席が確保できたので予約行を順次作成する
	bookings := make([]*booking.Booking, 0, len(seatIDs))
	for _, seatID := range seatIDs {
		b := booking.NewBooking(input.UserID, seatID, journey)
		if err := b.Validate(); err != nil {
			return nil, apperror.Validation(err)
		}
		if err := s.bookingRepo.Create(txCtx, tx, b); err != nil {
			return nil, s.classifyTxError(err, "予約作成に失敗")
		}
		bookings = append(bookings, b)
	}

	if err := tx.Commit(); err != nil {
		return nil, apperror.Internal("コミットに失敗", err)
	}

	s.invalidateCache(ctx)
	return bookings, nil
}

// CancelBooking は予約をキャンセルし履歴を追記する
// 予約が存在しない場合と所有者でない場合は意図的に同じ NotFound を返す
func (s *BookingService) CancelBooking(ctx context.Context, bookingID, userID string) (*booking.Booking, error) {
	b, err := s.cancelBooking(ctx, bookingID, userID)
	s.recordCancellation(err)
	return b, err
}

func (s *BookingService) cancelBooking(ctx context.Context, bookingID, userID string) (*booking.Booking, error) {
	if bookingID == "" || userID == "" {
		return nil, apperror.Validation(booking.ErrBookingNotFound)
	}

	txCtx, cancel := context.WithTimeout(ctx, s.lockTimeout)
	defer cancel()

	tx, err := s.txManager.Begin(txCtx)
	if err != nil {
		return nil, apperror.Internal("トランザクション開始に失敗", err)
	}
	defer tx.Rollback()

	// ID と所有ユーザーで行ロック付き取得
	b, err := s.bookingRepo.GetByIDForUpdate(txCtx, tx, bookingID, userID)
	if err != nil {
		if errors.Is(err, booking.ErrBookingNotFound) {
			return nil, apperror.NotFound(booking.ErrBookingNotFound.Error(), bookingID)
		}
		return nil, s.classifyTxError(err, "予約取得に失敗")
	}

	// 有効でない予約のキャンセルは NotFound（履歴の重複は作らない）
	if !b.IsActive() {
		return nil, apperror.NotFound(booking.ErrBookingNotFound.Error(), bookingID)
	}

	// 同じ座席・区間への並行予約やキャンセルと競合しないようロックを取る
	if err := s.lockManager.AcquireSeatLock(txCtx, tx, b.SeatID, b.Journey); err != nil {
		return nil, s.classifyLockError(err, b.SeatID)
	}

	oldStatus := b.Status
	if err := b.Cancel(); err != nil {
		return nil, apperror.NotFound(booking.ErrBookingNotFound.Error(), bookingID)
	}

	if err := s.bookingRepo.UpdateStatus(txCtx, tx, b); err != nil {
		return nil, s.classifyTxError(err, "予約更新に失敗")
	}

	history := booking.NewHistoryRecord(b, oldStatus, b.Status)
	if err := s.bookingRepo.AppendHistory(txCtx, tx, history); err != nil {
		return nil, s.classifyTxError(err, "予約履歴の追記に失敗")
	}

	if err := tx.Commit(); err != nil {
		return nil, apperror.Internal("コミットに失敗", err)
	}

	s.invalidateCache(ctx)
	return b, nil
}

// GetUserBookings はユーザーの予約一覧を新しい順に返す
func (s *BookingService) GetUserBookings(ctx context.Context, userID string) ([]*booking.UserBooking, error) {
	if userID == "" {
		return nil, apperror.Validation(booking.ErrUserIDRequired)
	}
	bookings, err := s.bookingRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, apperror.Internal("予約一覧取得に失敗", err)
	}
	return bookings, nil
}

// CountBookingsByStatus は状態別の予約件数を返す（統計ワーカー用）
func (s *BookingService) CountBookingsByStatus(ctx context.Context) (map[booking.Status]int, error) {
	return s.bookingRepo.CountByStatus(ctx)
}

func (s *BookingService) classifyLockError(err error, seatID int64) error {
	if errors.Is(err, booking.ErrLockNotAcquired) {
		return apperror.Conflict(
			fmt.Sprintf("座席 %d は他のユーザーによって処理中です。時間をおいて再度お試しください", seatID),
			seatID, booking.ErrLockNotAcquired)
	}
	return s.classifyTxError(err, "ロック取得に失敗")
}

func (s *BookingService) classifyTxError(err error, message string) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperror.Timeout(message+"（制限時間超過）", err)
	}
	return apperror.Internal(message, err)
}

func (s *BookingService) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateAll(ctx); err != nil {
		logger.Warn("キャッシュ無効化エラー", zap.Error(err))
	}
}

func (s *BookingService) recordBooking(err error) {
	if s.metrics == nil {
		return
	}
	status := "success"
	if err != nil {
		status = apperror.KindOf(err).String()
	}
	s.metrics.BookingsTotal.WithLabelValues(status).Inc()
}

func (s *BookingService) recordCancellation(err error) {
	if s.metrics == nil {
		return
	}
	status := "success"
	if err != nil {
		status = apperror.KindOf(err).String()
	}
	s.metrics.CancellationsTotal.WithLabelValues(status).Inc()
}

// dedupeSorted は座席IDを重複排除して昇順に並べる
// ロックの取得順序を競合するバッチ間で安定させるための前処理
func dedupeSorted(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	result := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}
