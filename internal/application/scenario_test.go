//go:build integration
// +build integration

package application

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-train-seat-reservation/internal/config"
	"github.com/sanosuguru/go-train-seat-reservation/internal/infrastructure/postgres"
	"github.com/sanosuguru/go-train-seat-reservation/internal/pkg/apperror"
)

func setupTestEnv(t *testing.T) (*BookingService, *sqlx.DB, func()) {
	cfg := config.Load()

	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		t.Skipf("DB接続エラー: %v", err)
	}

	if err := postgres.RunMigrations(db.DB, "../../migrations"); err != nil {
		db.Close()
		t.Skipf("マイグレーション実行エラー: %v", err)
	}

	bookingRepo := postgres.NewBookingRepository(db)
	seatRepo := postgres.NewSeatRepository(db)
	stationRepo := postgres.NewStationRepository(db)
	txManager := postgres.NewTxManager(db)
	lockManager := postgres.NewLockManager(nil)

	bookingService := NewBookingService(
		txManager, bookingRepo, seatRepo, stationRepo, lockManager,
		nil, nil, cfg.Booking.QueryTimeout)

	resetTables(db)

	cleanup := func() {
		resetTables(db)
		db.Close()
	}

	return bookingService, db, cleanup
}

func resetTables(db *sqlx.DB) {
	db.Exec("TRUNCATE TABLE booking_history, bookings, seats, stations RESTART IDENTITY CASCADE")
	db.Exec(`INSERT INTO stations (name, ordinal) VALUES
		('東京', 1), ('品川', 2), ('新横浜', 3), ('名古屋', 4), ('京都', 5), ('新大阪', 6)`)
	db.Exec(`INSERT INTO seats (car_number, seat_number) VALUES
		(1, 1), (1, 2), (1, 3), (1, 4), (1, 5),
		(2, 1), (2, 2), (2, 3), (2, 4), (2, 5)`)
}

func countActiveBookings(t *testing.T, db *sqlx.DB, seatID int64) int {
	t.Helper()
	var count int
	require.NoError(t, db.Get(&count,
		`SELECT COUNT(*) FROM bookings WHERE seat_id = $1 AND status = 'active'`, seatID))
	return count
}

// TestScenario_MultipleUsersCompeting は複数ユーザーが同じ座席・同じ区間を競合するシナリオ
func TestScenario_MultipleUsersCompeting(t *testing.T) {
	bookingService, db, cleanup := setupTestEnv(t)
	defer cleanup()

	ctx := context.Background()

	t.Run("50人が同時に同じ座席・同じ区間を予約", func(t *testing.T) {
		const numUsers = 50
		var successCount int32
		var conflictCount int32
		var otherErrorCount int32
		var wg sync.WaitGroup

		for i := 0; i < numUsers; i++ {
			wg.Add(1)
			go func(userNum int) {
				defer wg.Done()
				_, err := bookingService.CreateBooking(ctx, CreateBookingInput{
					UserID:             fmt.Sprintf("user-%02d", userNum),
					DepartureStationID: 1,
					ArrivalStationID:   4,
					SeatID:             1,
				})
				switch {
				case err == nil:
					atomic.AddInt32(&successCount, 1)
				case apperror.IsKind(err, apperror.KindConflict):
					atomic.AddInt32(&conflictCount, 1)
				default:
					atomic.AddInt32(&otherErrorCount, 1)
				}
			}(i)
		}
		wg.Wait()

		// 予約は1人だけが成功し、残りは全て競合として拒否される
		assert.Equal(t, int32(1), successCount, "1人だけが予約成功")
		assert.Equal(t, int32(numUsers-1), conflictCount+otherErrorCount, "残りは全て失敗")
		assert.Equal(t, 1, countActiveBookings(t, db, 1), "有効な予約行はちょうど1件")
		t.Logf("成功: %d, 競合: %d, その他エラー: %d", successCount, conflictCount, otherErrorCount)
	})
}

// TestScenario_CompetingBatches は同じ座席集合を狙う一括予約同士の競合シナリオ
// どのユーザーも全席を獲得するか1席も獲得しないかのいずれかで、部分的なコミットは起きない
func TestScenario_CompetingBatches(t *testing.T) {
	bookingService, db, cleanup := setupTestEnv(t)
	defer cleanup()

	ctx := context.Background()

	t.Run("20人が同時に同じ3席を一括予約", func(t *testing.T) {
		const numUsers = 20
		seatIDs := []int64{1, 2, 3}
		var successCount int32
		var wg sync.WaitGroup

		for i := 0; i < numUsers; i++ {
			wg.Add(1)
			go func(userNum int) {
				defer wg.Done()
				_, err := bookingService.CreateMultipleBookings(ctx, CreateMultipleBookingsInput{
					UserID:             fmt.Sprintf("batch-user-%02d", userNum),
					DepartureStationID: 2,
					ArrivalStationID:   5,
					SeatIDs:            seatIDs,
				})
				if err == nil {
					atomic.AddInt32(&successCount, 1)
				} else {
					assert.True(t, apperror.IsKind(err, apperror.KindConflict) ||
						apperror.IsKind(err, apperror.KindTimeout),
						"失敗は競合か制限時間超過のみ: %v", err)
				}
			}(i)
		}
		wg.Wait()

		assert.Equal(t, int32(1), successCount, "1人だけが一括予約に成功")

		// 各座席の有効な予約はちょうど1件
		for _, seatID := range seatIDs {
			assert.Equal(t, 1, countActiveBookings(t, db, seatID),
				"座席 %d の有効な予約は1件", seatID)
		}

		// 部分的なコミットがないこと: ユーザーごとの行数は0か全席数のどちらか
		type userRows struct {
			UserID string `db:"user_id"`
			Count  int    `db:"count"`
		}
		var rows []userRows
		require.NoError(t, db.Select(&rows,
			`SELECT user_id, COUNT(*) AS count FROM bookings
			 WHERE status = 'active' GROUP BY user_id`))
		require.Len(t, rows, 1, "予約行を持つユーザーは1人だけ")
		assert.Equal(t, len(seatIDs), rows[0].Count, "成功したユーザーは全席を保持")
	})

	t.Run("区間が重ならない一括予約は同時に成功できる", func(t *testing.T) {
		resetTables(db)

		var wg sync.WaitGroup
		var successCount int32
		journeys := []struct {
			dep, arr int64
		}{
			{1, 3}, // 東京→新横浜
			{3, 6}, // 新横浜→新大阪（隣接は重複しない）
		}

		for i, j := range journeys {
			wg.Add(1)
			go func(userNum int, dep, arr int64) {
				defer wg.Done()
				_, err := bookingService.CreateMultipleBookings(ctx, CreateMultipleBookingsInput{
					UserID:             fmt.Sprintf("segment-user-%d", userNum),
					DepartureStationID: dep,
					ArrivalStationID:   arr,
					SeatIDs:            []int64{4, 5},
				})
				if err == nil {
					atomic.AddInt32(&successCount, 1)
				}
			}(i, j.dep, j.arr)
		}
		wg.Wait()

		assert.Equal(t, int32(2), successCount, "重ならない区間は両方成功")
		assert.Equal(t, 2, countActiveBookings(t, db, 4))
		assert.Equal(t, 2, countActiveBookings(t, db, 5))
	})
}
