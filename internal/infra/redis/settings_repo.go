package redis

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/go-redis/redis/v8"

	"telegram-vip-subscription/internal/domain/model"
	"telegram-vip-subscription/internal/domain/ports/repository"
)

var _ repository.SettingsRepository = (*settingsRepo)(nil)

const settingsKey = "vipsub:settings"

// settingsRepo keeps the runtime toggles as a single JSON blob. A missing key
// yields the configured defaults; the blob has no TTL.
type settingsRepo struct {
	cli      *redis.Client
	defaults model.Settings
}

func NewSettingsRepo(c *Client, defaults model.Settings) *settingsRepo {
	return &settingsRepo{cli: c.cli, defaults: defaults}
}

func (r *settingsRepo) Get(ctx context.Context) (model.Settings, error) {
	raw, err := r.cli.Get(ctx, settingsKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return r.defaults, nil
		}
		return model.Settings{}, err
	}
	var s model.Settings
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return model.Settings{}, err
	}
	return s, nil
}

func (r *settingsRepo) Set(ctx context.Context, s model.Settings) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.cli.Set(ctx, settingsKey, raw, 0).Err()
}
