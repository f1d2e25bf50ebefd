package application

import (
	"context"
	"errors"

	"github.com/sanosuguru/go-train-seat-reservation/internal/domain/station"
	"github.com/sanosuguru/go-train-seat-reservation/internal/pkg/apperror"
)

// StationService は駅台帳の読み取りを提供する（外部コラボレーターの薄い表面）
type StationService struct {
	stationRepo station.Repository
}

// NewStationService は新しい StationService を作成する
func NewStationService(sr station.Repository) *StationService {
	return &StationService{stationRepo: sr}
}

// ListStations は全駅を路線順に返す
func (s *StationService) ListStations(ctx context.Context) ([]*station.Station, error) {
	stations, err := s.stationRepo.List(ctx)
	if err != nil {
		return nil, apperror.Internal("駅一覧取得に失敗", err)
	}
	return stations, nil
}

// GetStation はIDから駅を返す
func (s *StationService) GetStation(ctx context.Context, id int64) (*station.Station, error) {
	st, err := s.stationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, station.ErrStationNotFound) {
			return nil, apperror.NotFound(station.ErrStationNotFound.Error(), "")
		}
		return nil, apperror.Internal("駅取得に失敗", err)
	}
	return st, nil
}
