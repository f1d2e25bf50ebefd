package application

import (
	"context"
	"errors"

	"github.com/sanosuguru/go-train-seat-reservation/internal/domain/booking"
	"github.com/sanosuguru/go-train-seat-reservation/internal/domain/station"
	"github.com/sanosuguru/go-train-seat-reservation/internal/pkg/apperror"
)

// resolveJourney は駅IDの組を路線上の順序値による区間へ解決する
// 駅が存在しない・出発が到着より後などの不備はトランザクション開始前に
// ValidationError として拒否される
func resolveJourney(ctx context.Context, stations station.Repository, departureStationID, arrivalStationID int64) (booking.Journey, error) {
	dep, err := stations.GetByID(ctx, departureStationID)
	if err != nil {
		if errors.Is(err, station.ErrStationNotFound) {
			return booking.Journey{}, apperror.Validation(station.ErrStationNotFound)
		}
		return booking.Journey{}, apperror.Internal("出発駅の解決に失敗", err)
	}

	arr, err := stations.GetByID(ctx, arrivalStationID)
	if err != nil {
		if errors.Is(err, station.ErrStationNotFound) {
			return booking.Journey{}, apperror.Validation(station.ErrStationNotFound)
		}
		return booking.Journey{}, apperror.Internal("到着駅の解決に失敗", err)
	}

	journey := booking.NewJourney(dep.Ordinal, arr.Ordinal)
	if err := journey.Validate(); err != nil {
		return booking.Journey{}, apperror.Validation(err)
	}
	return journey, nil
}
