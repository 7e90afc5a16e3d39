// Package refstore provides read-only access to the curated reference
// tables consumed by the jetlag scorer. This service never writes them.
package refstore

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kurosh87/optimalflight/internal/models"
)

// PostgresStore reads reference profiles from Postgres.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Aircraft(ctx context.Context, code string) (*models.AircraftProfile, error) {
	const q = `
		SELECT code, name, generation
		FROM aircraft_profiles
		WHERE code = $1`

	var p models.AircraftProfile
	err := s.pool.QueryRow(ctx, q, code).Scan(&p.Code, &p.Name, &p.Generation)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PostgresStore) Airline(ctx context.Context, code string) (*models.AirlineProfile, error) {
	const q = `
		SELECT code, name, status = 'active', service_quality, reliability,
		       has_jetlag_program, cabin_lighting_tuned
		FROM airline_profiles
		WHERE code = $1`

	var p models.AirlineProfile
	err := s.pool.QueryRow(ctx, q, code).Scan(
		&p.Code, &p.Name, &p.Active, &p.ServiceQuality, &p.Reliability,
		&p.HasJetlagProgram, &p.CabinLightingTuned,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PostgresStore) Airport(ctx context.Context, code string) (*models.AirportProfile, error) {
	const q = `
		SELECT code, name, has_sleep_pods, has_showers, has_quiet_zones,
		       stress_level, congestion_rate
		FROM airport_profiles
		WHERE code = $1`

	var p models.AirportProfile
	err := s.pool.QueryRow(ctx, q, code).Scan(
		&p.Code, &p.Name, &p.HasSleepPods, &p.HasShowers, &p.HasQuietZones,
		&p.StressLevel, &p.CongestionRate,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PostgresStore) Route(ctx context.Context, origin, destination string) (*models.RouteProfile, error) {
	const q = `
		SELECT origin, destination, difficulty, pre_adjustment_days,
		       direction, timezone_delta
		FROM route_profiles
		WHERE origin = $1 AND destination = $2`

	var p models.RouteProfile
	err := s.pool.QueryRow(ctx, q, origin, destination).Scan(
		&p.Origin, &p.Destination, &p.Difficulty, &p.PreAdjustmentDays,
		&p.Direction, &p.TimezoneDelta,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
