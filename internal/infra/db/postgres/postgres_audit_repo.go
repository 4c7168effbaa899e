package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v4/pgxpool"

	"telegram-vip-subscription/internal/domain"
	"telegram-vip-subscription/internal/domain/model"
	"telegram-vip-subscription/internal/domain/ports/repository"
)

// Ensure compile-time conformance
var (
	_ repository.GrantRepository  = (*grantRepo)(nil)
	_ repository.RevokeRepository = (*revokeRepo)(nil)
)

// Append-only ledgers: INSERT without ON CONFLICT, no update or delete paths.

type grantRepo struct {
	pool *pgxpool.Pool
}

func NewGrantRepo(pool *pgxpool.Pool) *grantRepo {
	return &grantRepo{pool: pool}
}

func (r *grantRepo) Save(ctx context.Context, tx repository.Tx, g *model.Grant) error {
	const q = `
INSERT INTO sub_grants (id, action, original_end_at, new_end_at, duration_id, subscription_id, admin_id, user_id, at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9);`

	_, err := execSQL(ctx, r.pool, tx, q,
		g.ID, string(g.Action), g.OriginalEndAt, g.NewEndAt, g.DurationID, g.SubscriptionID, g.AdminID, g.UserID, g.At)
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

func (r *grantRepo) FindByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.Grant, error) {
	const q = `
SELECT id, action, original_end_at, new_end_at, duration_id, subscription_id, admin_id, user_id, at
  FROM sub_grants
 WHERE user_id=$1
 ORDER BY at DESC;`
	rows, err := queryRows(ctx, r.pool, tx, q, userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidArgument), errors.Is(err, domain.ErrInvalidExecContext):
			return nil, err
		default:
			return nil, domain.ErrOperationFailed
		}
	}
	defer rows.Close()

	var out []*model.Grant
	for rows.Next() {
		g := &model.Grant{}
		var action string
		if err := rows.Scan(&g.ID, &action, &g.OriginalEndAt, &g.NewEndAt, &g.DurationID, &g.SubscriptionID, &g.AdminID, &g.UserID, &g.At); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		g.Action = model.GrantAction(action)
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

type revokeRepo struct {
	pool *pgxpool.Pool
}

func NewRevokeRepo(pool *pgxpool.Pool) *revokeRepo {
	return &revokeRepo{pool: pool}
}

func (r *revokeRepo) Save(ctx context.Context, tx repository.Tx, v *model.Revoke) error {
	const q = `
INSERT INTO sub_revokes (id, action, original_end_at, new_end_at, duration_id, subscription_id, admin_id, user_id, at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9);`

	// NULL duration for bare revokes
	durationID := sql.NullString{String: v.DurationID, Valid: v.DurationID != ""}
	_, err := execSQL(ctx, r.pool, tx, q,
		v.ID, string(v.Action), v.OriginalEndAt, v.NewEndAt, durationID, v.SubscriptionID, v.AdminID, v.UserID, v.At)
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

func (r *revokeRepo) FindByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.Revoke, error) {
	const q = `
SELECT id, action, original_end_at, new_end_at, duration_id, subscription_id, admin_id, user_id, at
  FROM sub_revokes
 WHERE user_id=$1
 ORDER BY at DESC;`
	rows, err := queryRows(ctx, r.pool, tx, q, userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidArgument), errors.Is(err, domain.ErrInvalidExecContext):
			return nil, err
		default:
			return nil, domain.ErrOperationFailed
		}
	}
	defer rows.Close()

	var out []*model.Revoke
	for rows.Next() {
		v := &model.Revoke{}
		var action string
		var durationID sql.NullString
		if err := rows.Scan(&v.ID, &action, &v.OriginalEndAt, &v.NewEndAt, &durationID, &v.SubscriptionID, &v.AdminID, &v.UserID, &v.At); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		v.Action = model.RevokeAction(action)
		v.DurationID = durationID.String
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}
