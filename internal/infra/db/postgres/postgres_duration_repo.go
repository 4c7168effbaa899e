package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"telegram-vip-subscription/internal/domain"
	"telegram-vip-subscription/internal/domain/model"
	"telegram-vip-subscription/internal/domain/ports/repository"
)

// Ensure durationRepo implements repository.DurationRepository
var _ repository.DurationRepository = (*durationRepo)(nil)

// durationRepo serves the sub_durations allow-list. Reference data: rows are
// seeded once and read often, so no caching layer is warranted.
type durationRepo struct {
	pool *pgxpool.Pool
}

func NewDurationRepo(pool *pgxpool.Pool) *durationRepo {
	return &durationRepo{pool: pool}
}

func (r *durationRepo) Save(ctx context.Context, tx repository.Tx, d *model.Duration) error {
	const q = `
INSERT INTO sub_durations (id, magnitude, unit)
VALUES ($1,$2,$3)
ON CONFLICT (magnitude, unit) DO NOTHING;`

	_, err := execSQL(ctx, r.pool, tx, q, d.ID, d.Magnitude, string(d.Unit))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidArgument), errors.Is(err, domain.ErrInvalidExecContext):
			return err
		default:
			return domain.ErrOperationFailed
		}
	}
	return nil
}

func (r *durationRepo) Find(ctx context.Context, tx repository.Tx, magnitude int, unit model.DurationUnit) (*model.Duration, error) {
	const q = `
SELECT id, magnitude, unit
  FROM sub_durations
 WHERE magnitude=$1 AND unit=$2;`
	return r.queryOne(ctx, tx, q, magnitude, string(unit))
}

func (r *durationRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Duration, error) {
	const q = `
SELECT id, magnitude, unit
  FROM sub_durations
 WHERE id=$1;`
	return r.queryOne(ctx, tx, q, id)
}

func (r *durationRepo) FindAll(ctx context.Context, tx repository.Tx) ([]*model.Duration, error) {
	const q = `
SELECT id, magnitude, unit
  FROM sub_durations
 ORDER BY unit, magnitude;`
	rows, err := queryRows(ctx, r.pool, tx, q)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidArgument), errors.Is(err, domain.ErrInvalidExecContext):
			return nil, err
		default:
			return nil, domain.ErrOperationFailed
		}
	}
	defer rows.Close()

	var out []*model.Duration
	for rows.Next() {
		d, err := scanDuration(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

func (r *durationRepo) queryOne(ctx context.Context, tx repository.Tx, sql string, args ...any) (*model.Duration, error) {
	row, err := pickRow(ctx, r.pool, tx, sql, args...)
	if err != nil {
		return nil, err
	}
	d := &model.Duration{}
	var unit string
	if err := row.Scan(&d.ID, &d.Magnitude, &unit); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	d.Unit = model.DurationUnit(unit)
	return d, nil
}

func scanDuration(rows pgx.Rows) (*model.Duration, error) {
	d := &model.Duration{}
	var unit string
	if err := rows.Scan(&d.ID, &d.Magnitude, &unit); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	d.Unit = model.DurationUnit(unit)
	return d, nil
}
