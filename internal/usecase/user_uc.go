package usecase

import (
	"context"
	"errors"
	"strings"

	"telegram-vip-subscription/internal/domain"
	"telegram-vip-subscription/internal/domain/model"
	"telegram-vip-subscription/internal/domain/ports/repository"

	"github.com/rs/zerolog"
)

var _ UserUseCase = (*userUC)(nil)

type UserUseCase interface {
	// RegisterOrFetch returns the user for a platform id, creating a record
	// lazily on first sight. The second return reports whether the user is
	// new. An existing user's display name is refreshed when it changed.
	RegisterOrFetch(ctx context.Context, tgID int64, username string) (*model.User, bool, error)
	GetByTelegramID(ctx context.Context, tgID int64) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	List(ctx context.Context) ([]*model.User, error)
	Count(ctx context.Context) (int, error)
}

type userUC struct {
	users repository.UserRepository
	log   *zerolog.Logger
}

func NewUserUseCase(users repository.UserRepository, logger *zerolog.Logger) *userUC {
	l := logger.With().Str("component", "UserUC").Logger()
	return &userUC{users: users, log: &l}
}

func (uc *userUC) RegisterOrFetch(ctx context.Context, tgID int64, username string) (*model.User, bool, error) {
	u, err := uc.users.FindByTelegramID(ctx, repository.NoTX, tgID)
	if err == nil {
		if username != "" && u.Username != username {
			u.Username = username
			if err := uc.users.Save(ctx, repository.NoTX, u); err != nil {
				return nil, false, err
			}
		}
		return u, false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, false, err
	}

	u, err = model.NewUser("", tgID, username)
	if err != nil {
		return nil, false, err
	}
	if err := uc.users.Save(ctx, repository.NoTX, u); err != nil {
		return nil, false, err
	}
	uc.log.Debug().Int64("tg_id", tgID).Str("username", username).Msg("registered new user")
	return u, true, nil
}

func (uc *userUC) GetByTelegramID(ctx context.Context, tgID int64) (*model.User, error) {
	return uc.users.FindByTelegramID(ctx, repository.NoTX, tgID)
}

func (uc *userUC) GetByID(ctx context.Context, id string) (*model.User, error) {
	return uc.users.FindByID(ctx, repository.NoTX, id)
}

func (uc *userUC) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return uc.users.FindByUsername(ctx, repository.NoTX, strings.TrimPrefix(username, "@"))
}

func (uc *userUC) List(ctx context.Context) ([]*model.User, error) {
	return uc.users.FindAll(ctx, repository.NoTX)
}

func (uc *userUC) Count(ctx context.Context) (int, error) {
	return uc.users.CountUsers(ctx, repository.NoTX)
}
