package telegram

import (
	"context"
	"log"
	"sync"

	"telegram-vip-subscription/internal/domain"
	"telegram-vip-subscription/internal/domain/ports/adapter"
)

var _ adapter.ChatAdapter = (*NoopBotAdapter)(nil)

// NoopBotAdapter implements adapter.ChatAdapter for local/dev testing.
// It logs messages instead of talking to Telegram and keeps the VIP roster
// in memory.
type NoopBotAdapter struct {
	mu      sync.Mutex
	members map[int64]adapter.Member
	vip     map[int64]bool
}

// NewNoopBotAdapter constructs the noop adapter.
func NewNoopBotAdapter() *NoopBotAdapter {
	return &NoopBotAdapter{
		members: map[int64]adapter.Member{},
		vip:     map[int64]bool{},
	}
}

// AddMember seeds a community member.
func (b *NoopBotAdapter) AddMember(m adapter.Member, vip bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.members[m.TelegramID] = m
	b.vip[m.TelegramID] = vip
}

func (b *NoopBotAdapter) ResolveMember(ctx context.Context, tgID int64) (*adapter.Member, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	m, ok := b.members[tgID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &m, nil
}

func (b *NoopBotAdapter) SendDirect(ctx context.Context, tgID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	log.Printf("[noop-telegram] To user %d: %s\n", tgID, text)
	return nil
}

func (b *NoopBotAdapter) SetVIP(ctx context.Context, tgID int64, vip bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.vip[tgID] = vip
	log.Printf("[noop-telegram] SetVIP(%d, %t)\n", tgID, vip)
	return nil
}

func (b *NoopBotAdapter) HasVIP(ctx context.Context, tgID int64) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.vip[tgID], nil
}

func (b *NoopBotAdapter) Members(ctx context.Context) ([]adapter.Member, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]adapter.Member, 0, len(b.members))
	for _, m := range b.members {
		out = append(out, m)
	}
	return out, nil
}

func (b *NoopBotAdapter) MembersWithVIP(ctx context.Context) ([]adapter.Member, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []adapter.Member
	for id, m := range b.members {
		if b.vip[id] {
			out = append(out, m)
		}
	}
	return out, nil
}
