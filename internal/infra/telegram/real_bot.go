package telegram

import (
	"context"
	"errors"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"telegram-vip-subscription/internal/application"
	"telegram-vip-subscription/internal/config"
	"telegram-vip-subscription/internal/domain"
	"telegram-vip-subscription/internal/domain/ports/adapter"
	"telegram-vip-subscription/internal/usecase"
)

var _ adapter.ChatAdapter = (*RealTelegramBotAdapter)(nil)

// RealTelegramBotAdapter uses tgbotapi to poll updates and delegates commands
// to the BotFacade. It is also the ChatAdapter implementation: the external
// VIP flag is membership of the configured VIP group.
type RealTelegramBotAdapter struct {
	bot    *tgbotapi.BotAPI
	cfg    *config.BotConfig
	facade *application.BotFacade
	trials usecase.TrialUseCase
	users  usecase.UserUseCase
	log    *zerolog.Logger

	adminIDsMap   map[int64]struct{}
	updateWorkers int
	cancelPolling context.CancelFunc
}

func NewRealTelegramBotAdapter(cfg *config.BotConfig, users usecase.UserUseCase, logger *zerolog.Logger) (*RealTelegramBotAdapter, error) {
	if cfg == nil {
		return nil, errors.New("bot config is nil")
	}
	updateWorkers := cfg.Workers
	if updateWorkers <= 0 {
		updateWorkers = 5
	}

	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, err
	}

	adminMap := map[int64]struct{}{}
	for _, id := range cfg.AdminIDs {
		adminMap[id] = struct{}{}
	}

	l := logger.With().Str("component", "TelegramBot").Logger()
	return &RealTelegramBotAdapter{
		bot:           bot,
		cfg:           cfg,
		users:         users,
		log:           &l,
		adminIDsMap:   adminMap,
		updateWorkers: updateWorkers,
	}, nil
}

// SetFacade and SetTrialUseCase wire the command and trial layers in after
// construction. Both sit above use cases that need this ChatAdapter, so the
// dependency is circular at build time.
func (r *RealTelegramBotAdapter) SetFacade(facade *application.BotFacade) {
	r.facade = facade
}

func (r *RealTelegramBotAdapter) SetTrialUseCase(trials usecase.TrialUseCase) {
	r.trials = trials
}

func (r *RealTelegramBotAdapter) StartPolling(ctx context.Context) error {
	if r.facade == nil {
		return errors.New("bot facade is not wired")
	}
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := r.bot.GetUpdatesChan(u)

	ctx, cancel := context.WithCancel(ctx)
	r.cancelPolling = cancel

	var wg sync.WaitGroup
	updateChan := make(chan tgbotapi.Update, 100)

	for i := 0; i < r.updateWorkers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case up := <-updateChan:
					if err := r.handleUpdate(ctx, up); err != nil {
						r.log.Error().Err(err).Int("worker", id).Msg("update handling failed")
					}
				}
			}
		}(i)
	}

	for {
		select {
		case <-ctx.Done():
			close(updateChan)
			wg.Wait()
			return ctx.Err()
		case up := <-updates:
			updateChan <- up
		}
	}
}

func (r *RealTelegramBotAdapter) StopPolling() {
	if r.cancelPolling != nil {
		r.cancelPolling()
	}
}

func (r *RealTelegramBotAdapter) handleUpdate(ctx context.Context, update tgbotapi.Update) error {
	if update.Message == nil {
		return nil
	}
	msg := update.Message

	// Joins in the community group start the free trial.
	if len(msg.NewChatMembers) > 0 {
		return r.handleJoins(ctx, msg)
	}

	if msg.From == nil || !msg.IsCommand() {
		return nil
	}
	// Commands are handled in private chat only; group noise is ignored.
	if msg.Chat == nil || !msg.Chat.IsPrivate() {
		return nil
	}

	if fn, ok := r.commandRoutes()[msg.Command()]; ok {
		return fn(ctx, msg)
	}
	return r.SendDirect(ctx, msg.Chat.ID, "Unknown command. Send /help for the command list.")
}

func (r *RealTelegramBotAdapter) handleJoins(ctx context.Context, msg *tgbotapi.Message) error {
	if r.trials == nil || r.cfg.CommunityChatID == 0 || msg.Chat.ID != r.cfg.CommunityChatID {
		return nil
	}
	for _, joined := range msg.NewChatMembers {
		if joined.IsBot {
			continue
		}
		member := adapter.Member{TelegramID: joined.ID, Username: displayName(&joined)}
		if _, err := r.trials.Begin(ctx, member); err != nil {
			r.log.Error().Err(err).Int64("tg_id", joined.ID).Msg("trial start failed")
		}
	}
	return nil
}

// ----- adapter.ChatAdapter -----

func (r *RealTelegramBotAdapter) ResolveMember(ctx context.Context, tgID int64) (*adapter.Member, error) {
	m, err := r.bot.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{ChatID: r.cfg.VIPChatID, UserID: tgID},
	})
	if err == nil && m.User != nil {
		return &adapter.Member{TelegramID: tgID, Username: displayName(m.User)}, nil
	}
	// Not in the VIP group; fall back to our own records.
	u, uerr := r.users.GetByTelegramID(ctx, tgID)
	if uerr != nil {
		return nil, domain.ErrNotFound
	}
	return &adapter.Member{TelegramID: u.TelegramID, Username: u.Username}, nil
}

func (r *RealTelegramBotAdapter) SendDirect(ctx context.Context, tgID int64, text string) error {
	msg := tgbotapi.NewMessage(tgID, text)
	_, err := r.bot.Send(msg)
	return err
}

// SetVIP adds or removes VIP-group membership. The bot API cannot force-join
// a user, so granting sends a single-use invite link; revoking kicks
// (ban+unban so the user may be re-invited later).
func (r *RealTelegramBotAdapter) SetVIP(ctx context.Context, tgID int64, vip bool) error {
	if vip {
		// Lift any previous kick first, otherwise the invite bounces.
		_, _ = r.bot.Request(tgbotapi.UnbanChatMemberConfig{
			ChatMemberConfig: tgbotapi.ChatMemberConfig{ChatID: r.cfg.VIPChatID, UserID: tgID},
			OnlyIfBanned:     true,
		})
		link, err := r.bot.GetInviteLink(tgbotapi.ChatInviteLinkConfig{
			ChatConfig: tgbotapi.ChatConfig{ChatID: r.cfg.VIPChatID},
		})
		if err != nil {
			return err
		}
		return r.SendDirect(ctx, tgID, "Here is your VIP group invite:\n"+link)
	}

	if _, err := r.bot.Request(tgbotapi.BanChatMemberConfig{
		ChatMemberConfig: tgbotapi.ChatMemberConfig{ChatID: r.cfg.VIPChatID, UserID: tgID},
	}); err != nil {
		return err
	}
	_, err := r.bot.Request(tgbotapi.UnbanChatMemberConfig{
		ChatMemberConfig: tgbotapi.ChatMemberConfig{ChatID: r.cfg.VIPChatID, UserID: tgID},
		OnlyIfBanned:     true,
	})
	return err
}

func (r *RealTelegramBotAdapter) HasVIP(ctx context.Context, tgID int64) (bool, error) {
	m, err := r.bot.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{ChatID: r.cfg.VIPChatID, UserID: tgID},
	})
	if err != nil {
		return false, err
	}
	switch m.Status {
	case "creator", "administrator", "member", "restricted":
		return true, nil
	default:
		return false, nil
	}
}

// Members enumerates registered users. The bot API offers no way to list a
// group's members, so the user store is the roster; /regall keeps it fresh.
func (r *RealTelegramBotAdapter) Members(ctx context.Context) ([]adapter.Member, error) {
	users, err := r.users.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]adapter.Member, 0, len(users))
	for _, u := range users {
		out = append(out, adapter.Member{TelegramID: u.TelegramID, Username: u.Username})
	}
	return out, nil
}

func (r *RealTelegramBotAdapter) MembersWithVIP(ctx context.Context) ([]adapter.Member, error) {
	members, err := r.Members(ctx)
	if err != nil {
		return nil, err
	}
	var out []adapter.Member
	for _, m := range members {
		has, err := r.HasVIP(ctx, m.TelegramID)
		if err != nil {
			r.log.Warn().Err(err).Int64("tg_id", m.TelegramID).Msg("member status lookup failed")
			continue
		}
		if has {
			out = append(out, m)
		}
	}
	return out, nil
}

func displayName(u *tgbotapi.User) string {
	if u.UserName != "" {
		return u.UserName
	}
	name := u.FirstName
	if u.LastName != "" {
		name += " " + u.LastName
	}
	return name
}
