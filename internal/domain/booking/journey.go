package booking

// Journey は1座席の予約区間を表す値オブジェクト
// 駅の順序値による半開区間 [DepartureOrdinal, ArrivalOrdinal) として扱う
type Journey struct {
	DepartureOrdinal int
	ArrivalOrdinal   int
}

// NewJourney は新しい乗車区間を作成する
func NewJourney(departureOrdinal, arrivalOrdinal int) Journey {
	return Journey{
		DepartureOrdinal: departureOrdinal,
		ArrivalOrdinal:   arrivalOrdinal,
	}
}

// Validate は区間の検証を行う
func (j Journey) Validate() error {
	if j.DepartureOrdinal < 1 || j.ArrivalOrdinal < 1 {
		return ErrInvalidOrdinal
	}
	if j.DepartureOrdinal >= j.ArrivalOrdinal {
		return ErrDepartureAfterArrival
	}
	return nil
}

// Overlaps は2つの区間が競合するかを返す
// 半開区間の標準的な重なり判定。隣接する区間（j.ArrivalOrdinal ==
// other.DepartureOrdinal 等）は競合しない：駅Xで降りた座席は駅Xから再販できる
func (j Journey) Overlaps(other Journey) bool {
	return j.DepartureOrdinal < other.ArrivalOrdinal && other.DepartureOrdinal < j.ArrivalOrdinal
}

// Contains は指定した順序値が区間内に含まれるかを返す
func (j Journey) Contains(ordinal int) bool {
	return j.DepartureOrdinal <= ordinal && ordinal < j.ArrivalOrdinal
}
