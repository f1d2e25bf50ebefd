package station

// Station は駅エンティティを表す
// Ordinal は路線上の位置を表す整数で、路線に沿って狭義単調増加する
// 作成後は不変
type Station struct {
	ID      int64
	Name    string
	Ordinal int
}
