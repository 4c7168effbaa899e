package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"telegram-vip-subscription/internal/domain"
	"telegram-vip-subscription/internal/domain/model"
	"telegram-vip-subscription/internal/domain/ports/repository"
)

// Ensure trialTimerRepo implements repository.TrialTimerRepository
var _ repository.TrialTimerRepository = (*trialTimerRepo)(nil)

type trialTimerRepo struct {
	pool *pgxpool.Pool
}

func NewTrialTimerRepo(pool *pgxpool.Pool) *trialTimerRepo {
	return &trialTimerRepo{pool: pool}
}

func (r *trialTimerRepo) Save(ctx context.Context, tx repository.Tx, t *model.TrialTimer) error {
	const q = `
INSERT INTO trial_timers (id, user_id, started_at, expires_at)
VALUES ($1,$2,$3,$4)
ON CONFLICT (user_id) DO NOTHING;`

	_, err := execSQL(ctx, r.pool, tx, q, t.ID, t.UserID, t.StartedAt, t.ExpiresAt)
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

func (r *trialTimerRepo) FindDue(ctx context.Context, tx repository.Tx, now time.Time) ([]*model.TrialTimer, error) {
	const q = `
SELECT id, user_id, started_at, expires_at
  FROM trial_timers
 WHERE expires_at<=$1
 ORDER BY expires_at ASC;`
	rows, err := queryRows(ctx, r.pool, tx, q, now)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidArgument), errors.Is(err, domain.ErrInvalidExecContext):
			return nil, err
		default:
			return nil, domain.ErrOperationFailed
		}
	}
	defer rows.Close()

	var out []*model.TrialTimer
	for rows.Next() {
		t := &model.TrialTimer{}
		if err := rows.Scan(&t.ID, &t.UserID, &t.StartedAt, &t.ExpiresAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

func (r *trialTimerRepo) FindByUser(ctx context.Context, tx repository.Tx, userID string) (*model.TrialTimer, error) {
	const q = `
SELECT id, user_id, started_at, expires_at
  FROM trial_timers
 WHERE user_id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, userID)
	if err != nil {
		return nil, err
	}
	t := &model.TrialTimer{}
	if err := row.Scan(&t.ID, &t.UserID, &t.StartedAt, &t.ExpiresAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return t, nil
}

func (r *trialTimerRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	const q = `DELETE FROM trial_timers WHERE id=$1;`
	_, err := execSQL(ctx, r.pool, tx, q, id)
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
