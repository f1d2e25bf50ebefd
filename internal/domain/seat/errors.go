package seat

import "errors"

// Seat ドメインのエラー定義
var (
	ErrSeatNotFound      = errors.New("座席が見つかりません")
	ErrInvalidCarNumber  = errors.New("車両番号は1以上である必要があります")
	ErrInvalidSeatNumber = errors.New("座席番号は1以上である必要があります")
)
