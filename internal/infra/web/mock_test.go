//go:build !integration

package web

import (
	"context"
	"sync"

	"telegram-vip-subscription/internal/domain"
	"telegram-vip-subscription/internal/domain/model"
	"telegram-vip-subscription/internal/usecase"
)

// --- Mock Use Cases ---
// The server only reads; mocks embed the interface and override the handful
// of methods the routes actually call.

type mockUserUC struct {
	usecase.UserUseCase
	mu         sync.Mutex
	users      []*model.User
	ListError  error
	CountError error
}

func (m *mockUserUC) List(ctx context.Context) ([]*model.User, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users, nil
}

func (m *mockUserUC) Count(ctx context.Context) (int, error) {
	if m.CountError != nil {
		return 0, m.CountError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users), nil
}

func (m *mockUserUC) GetByID(ctx context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

type mockSubUC struct {
	usecase.SubscriptionUseCase
	mu        sync.Mutex
	subs      []*model.Subscription
	ListError error
}

func (m *mockSubUC) List(ctx context.Context, userID string) ([]*model.Subscription, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*model.Subscription{}
	for _, s := range m.subs {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockSubUC) CountActive(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, s := range m.subs {
		if s.Active {
			n++
		}
	}
	return n, nil
}

func (m *mockSubUC) ListAllActive(ctx context.Context) ([]*model.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*model.Subscription{}
	for _, s := range m.subs {
		if s.Active {
			out = append(out, s)
		}
	}
	return out, nil
}

type mockSettingsUC struct {
	usecase.SettingsUseCase
	Settings model.Settings
	GetError error
}

func (m *mockSettingsUC) Get(ctx context.Context) (model.Settings, error) {
	if m.GetError != nil {
		return model.Settings{}, m.GetError
	}
	return m.Settings, nil
}
