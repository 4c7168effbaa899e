package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"telegram-vip-subscription/internal/domain"
	"telegram-vip-subscription/internal/domain/model"
	"telegram-vip-subscription/internal/domain/ports/repository"
)

var _ DurationUseCase = (*durationUC)(nil)

// InvalidDurationError carries the accepted short forms so the command layer
// can show the admin what would have worked.
type InvalidDurationError struct {
	Accepted []string
}

func (e *InvalidDurationError) Error() string {
	return fmt.Sprintf("invalid duration, accepted forms: %s", strings.Join(e.Accepted, ", "))
}

func (e *InvalidDurationError) Unwrap() error { return domain.ErrInvalidDuration }

type DurationUseCase interface {
	// Resolve parses a short-form token and looks the pair up in the
	// configured allow-list.
	Resolve(ctx context.Context, token string) (*model.Duration, error)
	// Validate looks a (magnitude, unit) pair up in the allow-list.
	Validate(ctx context.Context, magnitude int, unit model.DurationUnit) (*model.Duration, error)
	List(ctx context.Context) ([]*model.Duration, error)
}

type durationUC struct {
	durations repository.DurationRepository
}

func NewDurationUseCase(durations repository.DurationRepository) *durationUC {
	return &durationUC{durations: durations}
}

func (uc *durationUC) Resolve(ctx context.Context, token string) (*model.Duration, error) {
	magnitude, unit, err := model.ParseDurationToken(token)
	if err != nil {
		return nil, uc.invalid(ctx)
	}
	return uc.Validate(ctx, magnitude, unit)
}

func (uc *durationUC) Validate(ctx context.Context, magnitude int, unit model.DurationUnit) (*model.Duration, error) {
	d, err := uc.durations.Find(ctx, repository.NoTX, magnitude, unit)
	if err != nil {
		if err == domain.ErrNotFound {
			return nil, uc.invalid(ctx)
		}
		return nil, err
	}
	return d, nil
}

func (uc *durationUC) List(ctx context.Context) ([]*model.Duration, error) {
	return uc.durations.FindAll(ctx, repository.NoTX)
}

// invalid builds an InvalidDurationError listing every accepted token.
func (uc *durationUC) invalid(ctx context.Context) error {
	all, err := uc.durations.FindAll(ctx, repository.NoTX)
	if err != nil {
		return domain.ErrInvalidDuration
	}
	accepted := make([]string, 0, len(all))
	for _, d := range all {
		accepted = append(accepted, d.Token())
	}
	sort.Strings(accepted)
	return &InvalidDurationError{Accepted: accepted}
}
