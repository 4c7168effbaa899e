package repository

import (
	"context"

	"telegram-vip-subscription/internal/domain/model"
)

// SettingsRepository stores the admin runtime toggles. Reads fall back to the
// provided defaults when nothing has been written yet.
type SettingsRepository interface {
	Get(ctx context.Context) (model.Settings, error)
	Set(ctx context.Context, s model.Settings) error
}
