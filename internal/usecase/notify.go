package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"telegram-vip-subscription/internal/domain/ports/adapter"
	"telegram-vip-subscription/internal/domain/ports/repository"
)

// Notifier fans messages out to members and staff. Delivery is best-effort:
// a member who blocked DMs must never fail the operation that triggered the
// notice, so every error is logged and swallowed.
type Notifier struct {
	chat     adapter.ChatAdapter
	settings repository.SettingsRepository
	staffIDs []int64
	log      *zerolog.Logger
}

func NewNotifier(chat adapter.ChatAdapter, settings repository.SettingsRepository, staffIDs []int64, logger *zerolog.Logger) *Notifier {
	l := logger.With().Str("component", "Notifier").Logger()
	return &Notifier{chat: chat, settings: settings, staffIDs: staffIDs, log: &l}
}

// NotifyMember DMs a member unless quiet mode is on. Staff notices are not
// affected by quiet mode.
func (n *Notifier) NotifyMember(ctx context.Context, tgID int64, text string) {
	s, err := n.settings.Get(ctx)
	if err != nil {
		n.log.Warn().Err(err).Msg("settings read failed, notifying anyway")
	} else if s.Quiet {
		n.log.Debug().Int64("tg_id", tgID).Msg("quiet mode, member notice suppressed")
		return
	}
	if err := n.chat.SendDirect(ctx, tgID, text); err != nil {
		n.log.Warn().Err(err).Int64("tg_id", tgID).Msg("member notice undeliverable")
	}
}

// NotifyStaff DMs every configured staff member.
func (n *Notifier) NotifyStaff(ctx context.Context, text string) {
	for _, id := range n.staffIDs {
		if err := n.chat.SendDirect(ctx, id, text); err != nil {
			n.log.Warn().Err(err).Int64("tg_id", id).Msg("staff notice undeliverable")
		}
	}
}
