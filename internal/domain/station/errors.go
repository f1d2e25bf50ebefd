package station

import "errors"

// Station ドメインのエラー定義
var (
	ErrStationNotFound = errors.New("駅が見つかりません")
)
