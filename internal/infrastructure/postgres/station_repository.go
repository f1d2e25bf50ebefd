package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-train-seat-reservation/internal/domain/station"
)

type stationRow struct {
	ID      int64  `db:"id"`
	Name    string `db:"name"`
	Ordinal int    `db:"ordinal"`
}

func (r *stationRow) toEntity() *station.Station {
	return &station.Station{ID: r.ID, Name: r.Name, Ordinal: r.Ordinal}
}

type StationRepository struct{ db *sqlx.DB }

func NewStationRepository(db *sqlx.DB) *StationRepository {
	return &StationRepository{db: db}
}

func (r *StationRepository) GetByID(ctx context.Context, id int64) (*station.Station, error) {
	var row stationRow
	query := `SELECT id, name, ordinal FROM stations WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, station.ErrStationNotFound
		}
		return nil, fmt.Errorf("駅取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

func (r *StationRepository) List(ctx context.Context) ([]*station.Station, error) {
	var rows []stationRow
	query := `SELECT id, name, ordinal FROM stations ORDER BY ordinal`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("駅一覧取得に失敗: %w", err)
	}
	stations := make([]*station.Station, len(rows))
	for i, row := range rows {
		stations[i] = row.toEntity()
	}
	return stations, nil
}

var _ station.Repository = (*StationRepository)(nil)
