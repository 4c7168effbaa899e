package adapter

import "context"

// Member is the chat platform's view of a community member.
type Member struct {
	TelegramID int64
	Username   string
}

// ChatAdapter is everything the core requires from the chat platform. The
// core never parses commands or formats messages; command handling and
// presentation live with the adapter implementation.
type ChatAdapter interface {
	// ResolveMember looks a member up by platform id.
	ResolveMember(ctx context.Context, tgID int64) (*Member, error)
	// SendDirect sends a direct message. Failures (user blocked DMs) are
	// expected; callers log and continue.
	SendDirect(ctx context.Context, tgID int64, text string) error
	// SetVIP sets or clears the external VIP flag for a member.
	SetVIP(ctx context.Context, tgID int64, vip bool) error
	// HasVIP reads the current external VIP flag.
	HasVIP(ctx context.Context, tgID int64) (bool, error)
	// Members enumerates all known community members.
	Members(ctx context.Context) ([]Member, error)
	// MembersWithVIP enumerates members currently holding the VIP flag.
	MembersWithVIP(ctx context.Context) ([]Member, error)
}
