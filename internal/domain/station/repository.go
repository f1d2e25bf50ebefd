package station

import "context"

// Repository は駅リポジトリのインターフェース
// 駅台帳は外部コラボレーターであり、予約エンジンは順序値の解決のみに使う
type Repository interface {
	// GetByID はIDから駅を取得する
	GetByID(ctx context.Context, id int64) (*Station, error)

	// List は全駅を路線順（順序値の昇順）に取得する
	List(ctx context.Context) ([]*Station, error)
}
