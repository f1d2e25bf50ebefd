package seat

import "context"

// Repository は座席リポジトリのインターフェース
type Repository interface {
	// GetByID はIDから座席を取得する
	GetByID(ctx context.Context, id int64) (*Seat, error)

	// GetByIDs は複数IDから座席を取得する（存在しないIDは結果に含まれない）
	GetByIDs(ctx context.Context, ids []int64) ([]*Seat, error)

	// List は全座席を車両番号・座席番号順に取得する
	List(ctx context.Context) ([]*Seat, error)
}
