package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"telegram-vip-subscription/internal/domain"
	"telegram-vip-subscription/internal/domain/model"
	"telegram-vip-subscription/internal/domain/ports/repository"
)

// Ensure compile-time conformance
var (
	_ repository.UniqueCodeRepository   = (*uniqueCodeRepo)(nil)
	_ repository.RedeemedCodeRepository = (*redeemedCodeRepo)(nil)
)

type uniqueCodeRepo struct {
	pool *pgxpool.Pool
}

func NewUniqueCodeRepo(pool *pgxpool.Pool) *uniqueCodeRepo {
	return &uniqueCodeRepo{pool: pool}
}

func (r *uniqueCodeRepo) Save(ctx context.Context, tx repository.Tx, c *model.UniqueCode) error {
	const q = `
INSERT INTO unique_codes (id, code, duration_id, admin_id, redeemed, redeemed_by, created_at, expires_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
ON CONFLICT (id) DO UPDATE SET
  redeemed=$5, redeemed_by=$6;`

	_, err := execSQL(ctx, r.pool, tx, q, c.ID, c.Code, c.DurationID, c.AdminID, c.Redeemed, c.RedeemedByUserID, c.CreatedAt, c.ExpiresAt)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidArgument), errors.Is(err, domain.ErrInvalidExecContext):
			return err
		default:
			var pgErr *pgconn.PgError
			// 23505: the code string is already live
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return domain.ErrAlreadyExists
			}
			return domain.ErrOperationFailed
		}
	}
	return nil
}

func (r *uniqueCodeRepo) FindByCode(ctx context.Context, tx repository.Tx, code string) (*model.UniqueCode, error) {
	const q = `
SELECT id, code, duration_id, admin_id, redeemed, redeemed_by, created_at, expires_at
  FROM unique_codes
 WHERE code=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, code)
	if err != nil {
		return nil, err
	}
	c := &model.UniqueCode{}
	if err := row.Scan(&c.ID, &c.Code, &c.DurationID, &c.AdminID, &c.Redeemed, &c.RedeemedByUserID, &c.CreatedAt, &c.ExpiresAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return c, nil
}

func (r *uniqueCodeRepo) DeleteExpiredUnredeemed(ctx context.Context, tx repository.Tx, now time.Time) (int, error) {
	const q = `DELETE FROM unique_codes WHERE redeemed=FALSE AND expires_at<=$1;`
	tag, err := execSQL(ctx, r.pool, tx, q, now)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidArgument), errors.Is(err, domain.ErrInvalidExecContext):
			return 0, err
		default:
			return 0, domain.ErrOperationFailed
		}
	}
	return int(tag.RowsAffected()), nil
}

type redeemedCodeRepo struct {
	pool *pgxpool.Pool
}

func NewRedeemedCodeRepo(pool *pgxpool.Pool) *redeemedCodeRepo {
	return &redeemedCodeRepo{pool: pool}
}

func (r *redeemedCodeRepo) Save(ctx context.Context, tx repository.Tx, rc *model.RedeemedCode) error {
	const q = `
INSERT INTO redeemed_codes (id, unique_code_id, subscription_id, redeemed_at)
VALUES ($1,$2,$3,$4);`

	_, err := execSQL(ctx, r.pool, tx, q, rc.ID, rc.UniqueCodeID, rc.SubscriptionID, rc.RedeemedAt)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidArgument), errors.Is(err, domain.ErrInvalidExecContext):
			return err
		default:
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return domain.ErrAlreadyExists
			}
			return domain.ErrOperationFailed
		}
	}
	return nil
}

func (r *redeemedCodeRepo) FindByUniqueCodeID(ctx context.Context, tx repository.Tx, codeID string) (*model.RedeemedCode, error) {
	const q = `
SELECT id, unique_code_id, subscription_id, redeemed_at
  FROM redeemed_codes
 WHERE unique_code_id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, codeID)
	if err != nil {
		return nil, err
	}
	rc := &model.RedeemedCode{}
	if err := row.Scan(&rc.ID, &rc.UniqueCodeID, &rc.SubscriptionID, &rc.RedeemedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return rc, nil
}
