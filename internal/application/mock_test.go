//go:build !integration

package application_test

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"telegram-vip-subscription/internal/domain"
	"telegram-vip-subscription/internal/domain/model"
	"telegram-vip-subscription/internal/domain/ports/adapter"
	"telegram-vip-subscription/internal/usecase"
)

// Func-field mocks for every usecase the facade composes. Defaults are the
// empty-system answers; tests override only what they exercise.

type mockUserUC struct {
	RegisterOrFetchFunc func(ctx context.Context, tgID int64, username string) (*model.User, bool, error)
	GetByTelegramIDFunc func(ctx context.Context, tgID int64) (*model.User, error)
	GetByIDFunc         func(ctx context.Context, id string) (*model.User, error)
	GetByUsernameFunc   func(ctx context.Context, username string) (*model.User, error)
	ListFunc            func(ctx context.Context) ([]*model.User, error)
	CountFunc           func(ctx context.Context) (int, error)
}

var _ usecase.UserUseCase = (*mockUserUC)(nil)

func (m *mockUserUC) RegisterOrFetch(ctx context.Context, tgID int64, username string) (*model.User, bool, error) {
	if m.RegisterOrFetchFunc != nil {
		return m.RegisterOrFetchFunc(ctx, tgID, username)
	}
	u, _ := model.NewUser("", tgID, username)
	return u, false, nil
}

func (m *mockUserUC) GetByTelegramID(ctx context.Context, tgID int64) (*model.User, error) {
	if m.GetByTelegramIDFunc != nil {
		return m.GetByTelegramIDFunc(ctx, tgID)
	}
	return nil, domain.ErrNotFound
}

func (m *mockUserUC) GetByID(ctx context.Context, id string) (*model.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockUserUC) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	if m.GetByUsernameFunc != nil {
		return m.GetByUsernameFunc(ctx, username)
	}
	return nil, domain.ErrNotFound
}

func (m *mockUserUC) List(ctx context.Context) ([]*model.User, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *mockUserUC) Count(ctx context.Context) (int, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}
	return 0, nil
}

type mockDurationUC struct {
	ResolveFunc  func(ctx context.Context, token string) (*model.Duration, error)
	ValidateFunc func(ctx context.Context, magnitude int, unit model.DurationUnit) (*model.Duration, error)
	ListFunc     func(ctx context.Context) ([]*model.Duration, error)
}

var _ usecase.DurationUseCase = (*mockDurationUC)(nil)

func (m *mockDurationUC) Resolve(ctx context.Context, token string) (*model.Duration, error) {
	if m.ResolveFunc != nil {
		return m.ResolveFunc(ctx, token)
	}
	return nil, &usecase.InvalidDurationError{Accepted: []string{"7d", "1m"}}
}

func (m *mockDurationUC) Validate(ctx context.Context, magnitude int, unit model.DurationUnit) (*model.Duration, error) {
	if m.ValidateFunc != nil {
		return m.ValidateFunc(ctx, magnitude, unit)
	}
	return nil, &usecase.InvalidDurationError{Accepted: []string{"7d", "1m"}}
}

func (m *mockDurationUC) List(ctx context.Context) ([]*model.Duration, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

type mockSubUC struct {
	GetActiveFunc     func(ctx context.Context, userID string) (*model.Subscription, error)
	ListFunc          func(ctx context.Context, userID string) ([]*model.Subscription, error)
	GrantFunc         func(ctx context.Context, admin, user *model.User, d *model.Duration) (*usecase.GrantResult, error)
	GrantAtFunc       func(ctx context.Context, admin, user *model.User, start time.Time, d *model.Duration) (*usecase.GrantResult, error)
	ReduceFunc        func(ctx context.Context, admin, user *model.User, d *model.Duration) (*usecase.RevokeResult, error)
	RevokeFunc        func(ctx context.Context, admin, user *model.User) (*usecase.RevokeResult, error)
	EndFunc           func(ctx context.Context, sub *model.Subscription) error
	CountActiveFunc   func(ctx context.Context) (int, error)
	ListAllActiveFunc func(ctx context.Context) ([]*model.Subscription, error)
}

var _ usecase.SubscriptionUseCase = (*mockSubUC)(nil)

func (m *mockSubUC) GetActive(ctx context.Context, userID string) (*model.Subscription, error) {
	if m.GetActiveFunc != nil {
		return m.GetActiveFunc(ctx, userID)
	}
	return nil, domain.ErrNoActiveSubscription
}

func (m *mockSubUC) List(ctx context.Context, userID string) ([]*model.Subscription, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockSubUC) Grant(ctx context.Context, admin, user *model.User, d *model.Duration) (*usecase.GrantResult, error) {
	if m.GrantFunc != nil {
		return m.GrantFunc(ctx, admin, user, d)
	}
	sub, _ := model.NewSubscription(user.ID, time.Now(), d)
	return &usecase.GrantResult{Subscription: sub, OriginalEnd: sub.EndAt}, nil
}

func (m *mockSubUC) GrantAt(ctx context.Context, admin, user *model.User, start time.Time, d *model.Duration) (*usecase.GrantResult, error) {
	if m.GrantAtFunc != nil {
		return m.GrantAtFunc(ctx, admin, user, start, d)
	}
	sub, _ := model.NewSubscription(user.ID, start, d)
	return &usecase.GrantResult{Subscription: sub, OriginalEnd: sub.EndAt}, nil
}

func (m *mockSubUC) Reduce(ctx context.Context, admin, user *model.User, d *model.Duration) (*usecase.RevokeResult, error) {
	if m.ReduceFunc != nil {
		return m.ReduceFunc(ctx, admin, user, d)
	}
	return nil, domain.ErrNoActiveSubscription
}

func (m *mockSubUC) Revoke(ctx context.Context, admin, user *model.User) (*usecase.RevokeResult, error) {
	if m.RevokeFunc != nil {
		return m.RevokeFunc(ctx, admin, user)
	}
	return nil, domain.ErrNoActiveSubscription
}

func (m *mockSubUC) End(ctx context.Context, sub *model.Subscription) error {
	if m.EndFunc != nil {
		return m.EndFunc(ctx, sub)
	}
	return nil
}

func (m *mockSubUC) CountActive(ctx context.Context) (int, error) {
	if m.CountActiveFunc != nil {
		return m.CountActiveFunc(ctx)
	}
	return 0, nil
}

func (m *mockSubUC) ListAllActive(ctx context.Context) ([]*model.Subscription, error) {
	if m.ListAllActiveFunc != nil {
		return m.ListAllActiveFunc(ctx)
	}
	return nil, nil
}

type mockCodeUC struct {
	GenerateFunc func(ctx context.Context, admin *model.User, d *model.Duration) (*model.UniqueCode, error)
	RedeemFunc   func(ctx context.Context, user *model.User, code string) (*usecase.RedeemResult, error)
	InspectFunc  func(ctx context.Context, code string) (*model.UniqueCode, *model.RedeemedCode, error)
}

var _ usecase.CodeUseCase = (*mockCodeUC)(nil)

func (m *mockCodeUC) Generate(ctx context.Context, admin *model.User, d *model.Duration) (*model.UniqueCode, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, admin, d)
	}
	return model.NewUniqueCode("AAAA-BBBB-CCCC", d, admin, 7*24*time.Hour)
}

func (m *mockCodeUC) Redeem(ctx context.Context, user *model.User, code string) (*usecase.RedeemResult, error) {
	if m.RedeemFunc != nil {
		return m.RedeemFunc(ctx, user, code)
	}
	return nil, domain.ErrCodeNotFound
}

func (m *mockCodeUC) Inspect(ctx context.Context, code string) (*model.UniqueCode, *model.RedeemedCode, error) {
	if m.InspectFunc != nil {
		return m.InspectFunc(ctx, code)
	}
	return nil, nil, domain.ErrCodeNotFound
}

type mockAdminUC struct {
	RegisterAllFunc     func(ctx context.Context) (*usecase.BulkReport, error)
	RegisterAllVIPsFunc func(ctx context.Context, admin *model.User, d *model.Duration) (*usecase.BulkReport, error)
	MassRevokeFunc      func(ctx context.Context, admin *model.User) (*usecase.BulkReport, error)
}

var _ usecase.AdminUseCase = (*mockAdminUC)(nil)

func (m *mockAdminUC) RegisterAll(ctx context.Context) (*usecase.BulkReport, error) {
	if m.RegisterAllFunc != nil {
		return m.RegisterAllFunc(ctx)
	}
	return &usecase.BulkReport{}, nil
}

func (m *mockAdminUC) RegisterAllVIPs(ctx context.Context, admin *model.User, d *model.Duration) (*usecase.BulkReport, error) {
	if m.RegisterAllVIPsFunc != nil {
		return m.RegisterAllVIPsFunc(ctx, admin, d)
	}
	return &usecase.BulkReport{}, nil
}

func (m *mockAdminUC) MassRevoke(ctx context.Context, admin *model.User) (*usecase.BulkReport, error) {
	if m.MassRevokeFunc != nil {
		return m.MassRevokeFunc(ctx, admin)
	}
	return &usecase.BulkReport{}, nil
}

type mockSettingsUC struct {
	Settings model.Settings

	GetFunc          func(ctx context.Context) (model.Settings, error)
	SetQuietFunc     func(ctx context.Context, on bool) (model.Settings, error)
	SetRoleSyncFunc  func(ctx context.Context, on bool) (model.Settings, error)
	SetAutoCheckFunc func(ctx context.Context, on bool) (model.Settings, error)
}

var _ usecase.SettingsUseCase = (*mockSettingsUC)(nil)

func (m *mockSettingsUC) Get(ctx context.Context) (model.Settings, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx)
	}
	return m.Settings, nil
}

func (m *mockSettingsUC) SetQuiet(ctx context.Context, on bool) (model.Settings, error) {
	if m.SetQuietFunc != nil {
		return m.SetQuietFunc(ctx, on)
	}
	m.Settings.Quiet = on
	return m.Settings, nil
}

func (m *mockSettingsUC) SetRoleSync(ctx context.Context, on bool) (model.Settings, error) {
	if m.SetRoleSyncFunc != nil {
		return m.SetRoleSyncFunc(ctx, on)
	}
	m.Settings.RoleSync = on
	return m.Settings, nil
}

func (m *mockSettingsUC) SetAutoCheck(ctx context.Context, on bool) (model.Settings, error) {
	if m.SetAutoCheckFunc != nil {
		return m.SetAutoCheckFunc(ctx, on)
	}
	m.Settings.AutoCheck = on
	return m.Settings, nil
}

type mockReconcileUC struct {
	RunFunc func(ctx context.Context) (*usecase.Report, error)
}

var _ usecase.ReconcileUseCase = (*mockReconcileUC)(nil)

func (m *mockReconcileUC) Run(ctx context.Context) (*usecase.Report, error) {
	if m.RunFunc != nil {
		return m.RunFunc(ctx)
	}
	return &usecase.Report{}, nil
}

// mockChat records direct messages and flag changes so tests can assert
// member notices and role sync.
type mockChat struct {
	mu   sync.Mutex
	Sent map[int64][]string
	vip  map[int64]bool
}

var _ adapter.ChatAdapter = (*mockChat)(nil)

func newMockChat() *mockChat {
	return &mockChat{Sent: map[int64][]string{}, vip: map[int64]bool{}}
}

// VIP reports the fake platform's current flag for a member.
func (c *mockChat) VIP(tgID int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.vip[tgID]
}

func (c *mockChat) ResolveMember(ctx context.Context, tgID int64) (*adapter.Member, error) {
	return &adapter.Member{TelegramID: tgID}, nil
}

func (c *mockChat) SendDirect(ctx context.Context, tgID int64, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Sent[tgID] = append(c.Sent[tgID], text)
	return nil
}

func (c *mockChat) SetVIP(ctx context.Context, tgID int64, vip bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vip[tgID] = vip
	return nil
}

func (c *mockChat) HasVIP(ctx context.Context, tgID int64) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.vip[tgID], nil
}

func (c *mockChat) Members(ctx context.Context) ([]adapter.Member, error) { return nil, nil }

func (c *mockChat) MembersWithVIP(ctx context.Context) ([]adapter.Member, error) { return nil, nil }

type mockSettingsStore struct {
	Settings model.Settings
}

func (s *mockSettingsStore) Get(ctx context.Context) (model.Settings, error) {
	return s.Settings, nil
}

func (s *mockSettingsStore) Set(ctx context.Context, v model.Settings) error {
	s.Settings = v
	return nil
}

func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}
