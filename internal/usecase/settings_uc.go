package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"telegram-vip-subscription/internal/domain/model"
	"telegram-vip-subscription/internal/domain/ports/repository"
)

var _ SettingsUseCase = (*settingsUC)(nil)

// SettingsUseCase exposes the admin runtime toggles.
type SettingsUseCase interface {
	Get(ctx context.Context) (model.Settings, error)
	SetQuiet(ctx context.Context, on bool) (model.Settings, error)
	SetRoleSync(ctx context.Context, on bool) (model.Settings, error)
	SetAutoCheck(ctx context.Context, on bool) (model.Settings, error)
}

type settingsUC struct {
	settings repository.SettingsRepository
	log      *zerolog.Logger
}

func NewSettingsUseCase(settings repository.SettingsRepository, logger *zerolog.Logger) *settingsUC {
	l := logger.With().Str("component", "SettingsUC").Logger()
	return &settingsUC{settings: settings, log: &l}
}

func (uc *settingsUC) Get(ctx context.Context) (model.Settings, error) {
	return uc.settings.Get(ctx)
}

func (uc *settingsUC) SetQuiet(ctx context.Context, on bool) (model.Settings, error) {
	return uc.update(ctx, func(s *model.Settings) { s.Quiet = on })
}

func (uc *settingsUC) SetRoleSync(ctx context.Context, on bool) (model.Settings, error) {
	return uc.update(ctx, func(s *model.Settings) { s.RoleSync = on })
}

func (uc *settingsUC) SetAutoCheck(ctx context.Context, on bool) (model.Settings, error) {
	return uc.update(ctx, func(s *model.Settings) { s.AutoCheck = on })
}

func (uc *settingsUC) update(ctx context.Context, mutate func(*model.Settings)) (model.Settings, error) {
	s, err := uc.settings.Get(ctx)
	if err != nil {
		return model.Settings{}, err
	}
	mutate(&s)
	if err := uc.settings.Set(ctx, s); err != nil {
		return model.Settings{}, err
	}
	uc.log.Info().
		Bool("quiet", s.Quiet).
		Bool("rolesync", s.RoleSync).
		Bool("autocheck", s.AutoCheck).
		Msg("settings updated")
	return s, nil
}
