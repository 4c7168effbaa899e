//go:build !integration

package usecase_test

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"telegram-vip-subscription/internal/domain"
	"telegram-vip-subscription/internal/domain/model"
	"telegram-vip-subscription/internal/domain/ports/adapter"
	"telegram-vip-subscription/internal/domain/ports/repository"
	"telegram-vip-subscription/internal/usecase"
)

// Every mock keeps a small in-memory store for the default behavior and a
// Func field per method so individual tests can override exactly what they
// need.

// =============================
// Repositories
// =============================

// ---- Mock UserRepository ----

type MockUserRepo struct {
	mu   sync.Mutex
	data map[string]*model.User // by id

	SaveFunc             func(ctx context.Context, tx repository.Tx, u *model.User) error
	FindByTelegramIDFunc func(ctx context.Context, tx repository.Tx, tgID int64) (*model.User, error)
	FindByUsernameFunc   func(ctx context.Context, tx repository.Tx, username string) (*model.User, error)
	FindByIDFunc         func(ctx context.Context, tx repository.Tx, id string) (*model.User, error)
	FindAllFunc          func(ctx context.Context, tx repository.Tx) ([]*model.User, error)
	CountUsersFunc       func(ctx context.Context, tx repository.Tx) (int, error)
}

var _ repository.UserRepository = (*MockUserRepo)(nil)

func NewMockUserRepo() *MockUserRepo {
	return &MockUserRepo{data: map[string]*model.User{}}
}

func (r *MockUserRepo) Save(ctx context.Context, tx repository.Tx, u *model.User) error {
	if r.SaveFunc != nil {
		return r.SaveFunc(ctx, tx, u)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	cp := *u
	r.data[u.ID] = &cp
	return nil
}

func (r *MockUserRepo) FindByTelegramID(ctx context.Context, tx repository.Tx, tgID int64) (*model.User, error) {
	if r.FindByTelegramIDFunc != nil {
		return r.FindByTelegramIDFunc(ctx, tx, tgID)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.data {
		if u.TelegramID == tgID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *MockUserRepo) FindByUsername(ctx context.Context, tx repository.Tx, username string) (*model.User, error) {
	if r.FindByUsernameFunc != nil {
		return r.FindByUsernameFunc(ctx, tx, username)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.data {
		if strings.EqualFold(u.Username, username) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *MockUserRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	if r.FindByIDFunc != nil {
		return r.FindByIDFunc(ctx, tx, id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.data[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *MockUserRepo) FindAll(ctx context.Context, tx repository.Tx) ([]*model.User, error) {
	if r.FindAllFunc != nil {
		return r.FindAllFunc(ctx, tx)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.User, 0, len(r.data))
	for _, u := range r.data {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (r *MockUserRepo) CountUsers(ctx context.Context, tx repository.Tx) (int, error) {
	if r.CountUsersFunc != nil {
		return r.CountUsersFunc(ctx, tx)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.data), nil
}

// ---- Mock SubscriptionRepository ----

type MockSubscriptionRepo struct {
	mu   sync.Mutex
	data map[string]*model.Subscription // by id

	SaveFunc             func(ctx context.Context, tx repository.Tx, s *model.Subscription) error
	FindByIDFunc         func(ctx context.Context, tx repository.Tx, id string) (*model.Subscription, error)
	FindActiveByUserFunc func(ctx context.Context, tx repository.Tx, userID string, now time.Time) (*model.Subscription, error)
	FindByUserFunc       func(ctx context.Context, tx repository.Tx, userID string) ([]*model.Subscription, error)
	FindAllActiveFunc    func(ctx context.Context, tx repository.Tx, now time.Time) ([]*model.Subscription, error)
	CountActiveFunc      func(ctx context.Context, tx repository.Tx, now time.Time) (int, error)
}

var _ repository.SubscriptionRepository = (*MockSubscriptionRepo)(nil)

func NewMockSubscriptionRepo() *MockSubscriptionRepo {
	return &MockSubscriptionRepo{data: map[string]*model.Subscription{}}
}

func (r *MockSubscriptionRepo) Save(ctx context.Context, tx repository.Tx, s *model.Subscription) error {
	if r.SaveFunc != nil {
		return r.SaveFunc(ctx, tx, s)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	cp := *s
	r.data[s.ID] = &cp
	return nil
}

func (r *MockSubscriptionRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Subscription, error) {
	if r.FindByIDFunc != nil {
		return r.FindByIDFunc(ctx, tx, id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.data[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *MockSubscriptionRepo) FindActiveByUser(ctx context.Context, tx repository.Tx, userID string, now time.Time) (*model.Subscription, error) {
	if r.FindActiveByUserFunc != nil {
		return r.FindActiveByUserFunc(ctx, tx, userID, now)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var best *model.Subscription
	for _, s := range r.data {
		if s.UserID == userID && s.IsActiveAt(now) && (best == nil || s.StartAt.After(best.StartAt)) {
			best = s
		}
	}
	if best == nil {
		return nil, domain.ErrNotFound
	}
	cp := *best
	return &cp, nil
}

func (r *MockSubscriptionRepo) FindByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.Subscription, error) {
	if r.FindByUserFunc != nil {
		return r.FindByUserFunc(ctx, tx, userID)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Subscription
	for _, s := range r.data {
		if s.UserID == userID {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *MockSubscriptionRepo) FindAllActive(ctx context.Context, tx repository.Tx, now time.Time) ([]*model.Subscription, error) {
	if r.FindAllActiveFunc != nil {
		return r.FindAllActiveFunc(ctx, tx, now)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Subscription
	for _, s := range r.data {
		if s.IsActiveAt(now) {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *MockSubscriptionRepo) CountActive(ctx context.Context, tx repository.Tx, now time.Time) (int, error) {
	if r.CountActiveFunc != nil {
		return r.CountActiveFunc(ctx, tx, now)
	}
	subs, _ := r.FindAllActive(ctx, tx, now)
	return len(subs), nil
}

// ---- Mock DurationRepository ----

type MockDurationRepo struct {
	mu   sync.Mutex
	data map[string]*model.Duration // by id

	SaveFunc     func(ctx context.Context, tx repository.Tx, d *model.Duration) error
	FindFunc     func(ctx context.Context, tx repository.Tx, magnitude int, unit model.DurationUnit) (*model.Duration, error)
	FindByIDFunc func(ctx context.Context, tx repository.Tx, id string) (*model.Duration, error)
	FindAllFunc  func(ctx context.Context, tx repository.Tx) ([]*model.Duration, error)
}

var _ repository.DurationRepository = (*MockDurationRepo)(nil)

func NewMockDurationRepo() *MockDurationRepo {
	return &MockDurationRepo{data: map[string]*model.Duration{}}
}

func (r *MockDurationRepo) Save(ctx context.Context, tx repository.Tx, d *model.Duration) error {
	if r.SaveFunc != nil {
		return r.SaveFunc(ctx, tx, d)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	cp := *d
	r.data[d.ID] = &cp
	return nil
}

func (r *MockDurationRepo) Find(ctx context.Context, tx repository.Tx, magnitude int, unit model.DurationUnit) (*model.Duration, error) {
	if r.FindFunc != nil {
		return r.FindFunc(ctx, tx, magnitude, unit)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.data {
		if d.Magnitude == magnitude && d.Unit == unit {
			cp := *d
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *MockDurationRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Duration, error) {
	if r.FindByIDFunc != nil {
		return r.FindByIDFunc(ctx, tx, id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.data[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (r *MockDurationRepo) FindAll(ctx context.Context, tx repository.Tx) ([]*model.Duration, error) {
	if r.FindAllFunc != nil {
		return r.FindAllFunc(ctx, tx)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.Duration, 0, len(r.data))
	for _, d := range r.data {
		cp := *d
		out = append(out, &cp)
	}
	return out, nil
}

// ---- Mock UniqueCodeRepository ----

type MockUniqueCodeRepo struct {
	mu   sync.Mutex
	data map[string]*model.UniqueCode // by code string

	SaveFunc                    func(ctx context.Context, tx repository.Tx, c *model.UniqueCode) error
	FindByCodeFunc              func(ctx context.Context, tx repository.Tx, code string) (*model.UniqueCode, error)
	DeleteExpiredUnredeemedFunc func(ctx context.Context, tx repository.Tx, now time.Time) (int, error)
}

var _ repository.UniqueCodeRepository = (*MockUniqueCodeRepo)(nil)

func NewMockUniqueCodeRepo() *MockUniqueCodeRepo {
	return &MockUniqueCodeRepo{data: map[string]*model.UniqueCode{}}
}

func (r *MockUniqueCodeRepo) Save(ctx context.Context, tx repository.Tx, c *model.UniqueCode) error {
	if r.SaveFunc != nil {
		return r.SaveFunc(ctx, tx, c)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.data[c.Code] = &cp
	return nil
}

func (r *MockUniqueCodeRepo) FindByCode(ctx context.Context, tx repository.Tx, code string) (*model.UniqueCode, error) {
	if r.FindByCodeFunc != nil {
		return r.FindByCodeFunc(ctx, tx, code)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.data[code]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *MockUniqueCodeRepo) DeleteExpiredUnredeemed(ctx context.Context, tx repository.Tx, now time.Time) (int, error) {
	if r.DeleteExpiredUnredeemedFunc != nil {
		return r.DeleteExpiredUnredeemedFunc(ctx, tx, now)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	pruned := 0
	for code, c := range r.data {
		if !c.Redeemed && c.IsExpiredAt(now) {
			delete(r.data, code)
			pruned++
		}
	}
	return pruned, nil
}

// ---- Mock RedeemedCodeRepository ----

type MockRedeemedCodeRepo struct {
	mu   sync.Mutex
	data map[string]*model.RedeemedCode // by unique code id

	SaveFunc               func(ctx context.Context, tx repository.Tx, rc *model.RedeemedCode) error
	FindByUniqueCodeIDFunc func(ctx context.Context, tx repository.Tx, codeID string) (*model.RedeemedCode, error)
}

var _ repository.RedeemedCodeRepository = (*MockRedeemedCodeRepo)(nil)

func NewMockRedeemedCodeRepo() *MockRedeemedCodeRepo {
	return &MockRedeemedCodeRepo{data: map[string]*model.RedeemedCode{}}
}

func (r *MockRedeemedCodeRepo) Save(ctx context.Context, tx repository.Tx, rc *model.RedeemedCode) error {
	if r.SaveFunc != nil {
		return r.SaveFunc(ctx, tx, rc)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *rc
	r.data[rc.UniqueCodeID] = &cp
	return nil
}

func (r *MockRedeemedCodeRepo) FindByUniqueCodeID(ctx context.Context, tx repository.Tx, codeID string) (*model.RedeemedCode, error) {
	if r.FindByUniqueCodeIDFunc != nil {
		return r.FindByUniqueCodeIDFunc(ctx, tx, codeID)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	rc, ok := r.data[codeID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *rc
	return &cp, nil
}

// ---- Mock audit repositories ----

type MockGrantRepo struct {
	mu      sync.Mutex
	Entries []*model.Grant

	SaveFunc func(ctx context.Context, tx repository.Tx, g *model.Grant) error
}

var _ repository.GrantRepository = (*MockGrantRepo)(nil)

func NewMockGrantRepo() *MockGrantRepo { return &MockGrantRepo{} }

func (r *MockGrantRepo) Save(ctx context.Context, tx repository.Tx, g *model.Grant) error {
	if r.SaveFunc != nil {
		return r.SaveFunc(ctx, tx, g)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *g
	r.Entries = append(r.Entries, &cp)
	return nil
}

func (r *MockGrantRepo) FindByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.Grant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Grant
	for _, g := range r.Entries {
		if g.UserID == userID {
			cp := *g
			out = append(out, &cp)
		}
	}
	return out, nil
}

type MockRevokeRepo struct {
	mu      sync.Mutex
	Entries []*model.Revoke

	SaveFunc func(ctx context.Context, tx repository.Tx, rv *model.Revoke) error
}

var _ repository.RevokeRepository = (*MockRevokeRepo)(nil)

func NewMockRevokeRepo() *MockRevokeRepo { return &MockRevokeRepo{} }

func (r *MockRevokeRepo) Save(ctx context.Context, tx repository.Tx, rv *model.Revoke) error {
	if r.SaveFunc != nil {
		return r.SaveFunc(ctx, tx, rv)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *rv
	r.Entries = append(r.Entries, &cp)
	return nil
}

func (r *MockRevokeRepo) FindByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.Revoke, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Revoke
	for _, rv := range r.Entries {
		if rv.UserID == userID {
			cp := *rv
			out = append(out, &cp)
		}
	}
	return out, nil
}

// ---- Mock TrialTimerRepository ----

type MockTrialTimerRepo struct {
	mu   sync.Mutex
	data map[string]*model.TrialTimer // by id

	SaveFunc       func(ctx context.Context, tx repository.Tx, t *model.TrialTimer) error
	FindDueFunc    func(ctx context.Context, tx repository.Tx, now time.Time) ([]*model.TrialTimer, error)
	FindByUserFunc func(ctx context.Context, tx repository.Tx, userID string) (*model.TrialTimer, error)
	DeleteFunc     func(ctx context.Context, tx repository.Tx, id string) error
}

var _ repository.TrialTimerRepository = (*MockTrialTimerRepo)(nil)

func NewMockTrialTimerRepo() *MockTrialTimerRepo {
	return &MockTrialTimerRepo{data: map[string]*model.TrialTimer{}}
}

func (r *MockTrialTimerRepo) Save(ctx context.Context, tx repository.Tx, t *model.TrialTimer) error {
	if r.SaveFunc != nil {
		return r.SaveFunc(ctx, tx, t)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *t
	r.data[t.ID] = &cp
	return nil
}

func (r *MockTrialTimerRepo) FindDue(ctx context.Context, tx repository.Tx, now time.Time) ([]*model.TrialTimer, error) {
	if r.FindDueFunc != nil {
		return r.FindDueFunc(ctx, tx, now)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.TrialTimer
	for _, t := range r.data {
		if t.IsDueAt(now) {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *MockTrialTimerRepo) FindByUser(ctx context.Context, tx repository.Tx, userID string) (*model.TrialTimer, error) {
	if r.FindByUserFunc != nil {
		return r.FindByUserFunc(ctx, tx, userID)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.data {
		if t.UserID == userID {
			cp := *t
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *MockTrialTimerRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	if r.DeleteFunc != nil {
		return r.DeleteFunc(ctx, tx, id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.data, id)
	return nil
}

// ---- Mock SettingsRepository ----

type MockSettingsRepo struct {
	mu       sync.Mutex
	Settings model.Settings

	GetFunc func(ctx context.Context) (model.Settings, error)
	SetFunc func(ctx context.Context, s model.Settings) error
}

var _ repository.SettingsRepository = (*MockSettingsRepo)(nil)

func NewMockSettingsRepo() *MockSettingsRepo {
	return &MockSettingsRepo{Settings: model.Settings{RoleSync: true, AutoCheck: true}}
}

func (r *MockSettingsRepo) Get(ctx context.Context) (model.Settings, error) {
	if r.GetFunc != nil {
		return r.GetFunc(ctx)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Settings, nil
}

func (r *MockSettingsRepo) Set(ctx context.Context, s model.Settings) error {
	if r.SetFunc != nil {
		return r.SetFunc(ctx, s)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Settings = s
	return nil
}

// ---- Mock TransactionManager ----

type MockTxManager struct {
	WithTxFunc func(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error
}

var _ repository.TransactionManager = (*MockTxManager)(nil)

func NewMockTxManager() *MockTxManager { return &MockTxManager{} }

func (m *MockTxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	if m.WithTxFunc != nil {
		return m.WithTxFunc(ctx, txOpt, fn)
	}
	// By default, execute the function immediately with NoTX.
	return fn(ctx, repository.NoTX)
}

// =============================
// Adapters
// =============================

// ---- Mock ChatAdapter ----

type sentMessage struct {
	TgID int64
	Text string
}

type MockChatAdapter struct {
	mu      sync.Mutex
	members map[int64]adapter.Member
	vip     map[int64]bool
	Sent    []sentMessage

	ResolveMemberFunc  func(ctx context.Context, tgID int64) (*adapter.Member, error)
	SendDirectFunc     func(ctx context.Context, tgID int64, text string) error
	SetVIPFunc         func(ctx context.Context, tgID int64, vip bool) error
	HasVIPFunc         func(ctx context.Context, tgID int64) (bool, error)
	MembersFunc        func(ctx context.Context) ([]adapter.Member, error)
	MembersWithVIPFunc func(ctx context.Context) ([]adapter.Member, error)
}

var _ adapter.ChatAdapter = (*MockChatAdapter)(nil)

func NewMockChatAdapter() *MockChatAdapter {
	return &MockChatAdapter{
		members: map[int64]adapter.Member{},
		vip:     map[int64]bool{},
	}
}

// AddMember seeds the fake community roster.
func (a *MockChatAdapter) AddMember(tgID int64, username string, vip bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.members[tgID] = adapter.Member{TelegramID: tgID, Username: username}
	a.vip[tgID] = vip
}

// VIP reads back the fake flag for assertions.
func (a *MockChatAdapter) VIP(tgID int64) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.vip[tgID]
}

// SentTo returns the messages delivered to one member.
func (a *MockChatAdapter) SentTo(tgID int64) []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []string
	for _, s := range a.Sent {
		if s.TgID == tgID {
			out = append(out, s.Text)
		}
	}
	return out
}

func (a *MockChatAdapter) ResolveMember(ctx context.Context, tgID int64) (*adapter.Member, error) {
	if a.ResolveMemberFunc != nil {
		return a.ResolveMemberFunc(ctx, tgID)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	m, ok := a.members[tgID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &m, nil
}

func (a *MockChatAdapter) SendDirect(ctx context.Context, tgID int64, text string) error {
	if a.SendDirectFunc != nil {
		return a.SendDirectFunc(ctx, tgID, text)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Sent = append(a.Sent, sentMessage{TgID: tgID, Text: text})
	return nil
}

func (a *MockChatAdapter) SetVIP(ctx context.Context, tgID int64, vip bool) error {
	if a.SetVIPFunc != nil {
		return a.SetVIPFunc(ctx, tgID, vip)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.vip[tgID] = vip
	return nil
}

func (a *MockChatAdapter) HasVIP(ctx context.Context, tgID int64) (bool, error) {
	if a.HasVIPFunc != nil {
		return a.HasVIPFunc(ctx, tgID)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.vip[tgID], nil
}

func (a *MockChatAdapter) Members(ctx context.Context) ([]adapter.Member, error) {
	if a.MembersFunc != nil {
		return a.MembersFunc(ctx)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]adapter.Member, 0, len(a.members))
	for _, m := range a.members {
		out = append(out, m)
	}
	return out, nil
}

func (a *MockChatAdapter) MembersWithVIP(ctx context.Context) ([]adapter.Member, error) {
	if a.MembersWithVIPFunc != nil {
		return a.MembersWithVIPFunc(ctx)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []adapter.Member
	for id, m := range a.members {
		if a.vip[id] {
			out = append(out, m)
		}
	}
	return out, nil
}

// ---- Mock Locker ----

type MockLocker struct {
	TryLockFunc func(ctx context.Context, key string, ttl time.Duration) (func(), error)
}

var _ adapter.Locker = (*MockLocker)(nil)

func NewMockLocker() *MockLocker { return &MockLocker{} }

func (l *MockLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	if l.TryLockFunc != nil {
		return l.TryLockFunc(ctx, key, ttl)
	}
	return func() {}, nil
}

// =============================
// Helpers
// =============================

// newTestLogger creates a silent zerolog.Logger for use in tests.
func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

func newTestNotifier(chat adapter.ChatAdapter, settings repository.SettingsRepository) *usecase.Notifier {
	return usecase.NewNotifier(chat, settings, []int64{staffTgID}, newTestLogger())
}

const staffTgID int64 = 777

func mustDuration(t interface {
	Fatalf(format string, args ...any)
}, magnitude int, unit model.DurationUnit) *model.Duration {
	d, err := model.NewDuration(uuid.NewString(), magnitude, unit)
	if err != nil {
		t.Fatalf("build duration: %v", err)
	}
	return d
}

func mustUser(t interface {
	Fatalf(format string, args ...any)
}, tgID int64, username string) *model.User {
	u, err := model.NewUser("", tgID, username)
	if err != nil {
		t.Fatalf("build user: %v", err)
	}
	return u
}
