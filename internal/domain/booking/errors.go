package booking

import "errors"

// Booking ドメインのエラー定義
var (
	ErrBookingNotFound       = errors.New("予約が見つからないか、操作する権限がありません")
	ErrBookingNotActive      = errors.New("予約は有効ではありません")
	ErrSeatNotAvailable      = errors.New("座席は既にこの区間で予約されています")
	ErrLockNotAcquired       = errors.New("座席ロックを取得できませんでした")
	ErrUserIDRequired        = errors.New("ユーザーIDは必須です")
	ErrSeatIDRequired        = errors.New("座席IDは必須です")
	ErrInvalidOrdinal        = errors.New("駅の順序値は1以上である必要があります")
	ErrDepartureAfterArrival = errors.New("出発駅は到着駅より前である必要があります")
	ErrTooManySeats          = errors.New("一度に予約できる座席は10席までです")
	ErrNoSeatsSpecified      = errors.New("座席IDは必須です")
)
