package apperror

import (
	"errors"
	"fmt"
)

// Kind はエラーの分類を表す閉じた列挙
// 呼び出し側はメッセージ文字列ではなく Kind で分岐する
type Kind int

const (
	// KindValidation は入力不備（トランザクション開始前に拒否される）
	KindValidation Kind = iota + 1
	// KindConflict は競合（再チェック時の座席重複、ロック取得失敗など）
	// リトライは呼び出し側の判断であり、エンジンは自動リトライしない
	KindConflict
	// KindNotFound は対象が存在しないか権限がない（両者は意図的に区別しない）
	KindNotFound
	// KindTimeout はロックまたはクエリが制限時間を超過した
	KindTimeout
	// KindInternal はストレージ障害等の予期しない失敗
	KindInternal
)

// String は Kind の文字列表現を返す（ログ・メトリクスのラベル用）
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindTimeout:
		return "timeout"
	default:
		return "internal"
	}
}

// Error は分類と構造化フィールドを持つアプリケーションエラー
type Error struct {
	Kind      Kind
	Message   string
	SeatID    int64
	BookingID string
	Err       error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New は指定した分類のエラーを作成する
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap は既存のエラーを分類付きでラップする
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Validation は入力検証エラーを作成する
func Validation(err error) *Error {
	return &Error{Kind: KindValidation, Message: err.Error(), Err: err}
}

// Conflict は競合エラーを作成する
// err にはドメインの番兵エラー（ErrSeatNotAvailable 等）を渡し、
// 呼び出し側が errors.Is で原因を判別できるようにする
func Conflict(message string, seatID int64, err error) *Error {
	return &Error{Kind: KindConflict, Message: message, SeatID: seatID, Err: err}
}

// NotFound は未検出エラーを作成する
func NotFound(message string, bookingID string) *Error {
	return &Error{Kind: KindNotFound, Message: message, BookingID: bookingID}
}

// Timeout は制限時間超過エラーを作成する
func Timeout(message string, err error) *Error {
	return &Error{Kind: KindTimeout, Message: message, Err: err}
}

// Internal は内部エラーを作成する
func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// KindOf はエラーから分類を取り出す。分類されていないエラーは KindInternal
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// IsKind はエラーが指定した分類かを返す
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
