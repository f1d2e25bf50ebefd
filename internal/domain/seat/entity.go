package seat

// Seat は座席エンティティを表す（作成後は不変の参照データ）
type Seat struct {
	ID         int64
	CarNumber  int
	SeatNumber int
}

// Validate は座席の検証を行う
func (s *Seat) Validate() error {
	if s.CarNumber < 1 {
		return ErrInvalidCarNumber
	}
	if s.SeatNumber < 1 {
		return ErrInvalidSeatNumber
	}
	return nil
}

// Availability は指定区間に対する座席の空き状況
type Availability struct {
	Seat        Seat
	IsAvailable bool
}
