package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sanosuguru/go-train-seat-reservation/internal/domain/booking"
)

func TestLockKey(t *testing.T) {
	t.Run("同じ入力からは常に同じキーが導出される", func(t *testing.T) {
		j := booking.NewJourney(1, 3)
		assert.Equal(t, LockKey(42, j), LockKey(42, j))
	})

	t.Run("キーは符号付き31bitの範囲に収まる", func(t *testing.T) {
		keys := []int64{
			LockKey(1, booking.NewJourney(1, 2)),
			LockKey(9999999, booking.NewJourney(1, 999)),
			LockKey(21474836470, booking.NewJourney(500, 999)),
		}
		for _, key := range keys {
			assert.GreaterOrEqual(t, key, int64(0))
			assert.Less(t, key, int64(2147483647))
		}
	})

	t.Run("座席が異なればキーも異なる", func(t *testing.T) {
		j := booking.NewJourney(1, 3)
		assert.NotEqual(t, LockKey(1, j), LockKey(2, j))
	})

	t.Run("区間が異なればキーも異なる", func(t *testing.T) {
		assert.NotEqual(t,
			LockKey(42, booking.NewJourney(1, 3)),
			LockKey(42, booking.NewJourney(3, 5)))
		assert.NotEqual(t,
			LockKey(42, booking.NewJourney(1, 3)),
			LockKey(42, booking.NewJourney(1, 4)))
	})

	t.Run("期待する算術に一致する", func(t *testing.T) {
		// seatID*100000 + departure*1000 + arrival (mod 2^31-1)
		assert.Equal(t, int64(42*100000+1*1000+3), LockKey(42, booking.NewJourney(1, 3)))
	})
}
