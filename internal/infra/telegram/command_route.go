package telegram

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-vip-subscription/internal/infra/metrics"
)

type commandHandler func(ctx context.Context, message *tgbotapi.Message) error

// commandRoutes defines all available bot commands and their handlers.
func (r *RealTelegramBotAdapter) commandRoutes() map[string]commandHandler {
	return map[string]commandHandler{
		"start":  r.handleStartCommand,
		"redeem": r.handleRedeemCommand,
		"status": r.handleStatusCommand,
		"help":   r.handleHelpCommand,

		// These handlers are wrapped in the adminOnly middleware.
		"generate":   r.adminOnly(r.handleGenerateCommand),
		"code":       r.adminOnly(r.handleCodeCommand),
		"grant":      r.adminOnly(r.handleGrantCommand),
		"revoke":     r.adminOnly(r.handleRevokeCommand),
		"reduce":     r.adminOnly(r.handleReduceCommand),
		"ustatus":    r.adminOnly(r.handleUserStatusCommand),
		"history":    r.adminOnly(r.handleHistoryCommand),
		"listsubs":   r.adminOnly(r.handleListSubsCommand),
		"listusers":  r.adminOnly(r.handleListUsersCommand),
		"regall":     r.adminOnly(r.handleRegisterAllCommand),
		"regvips":    r.adminOnly(r.handleRegisterVIPsCommand),
		"massrevoke": r.adminOnly(r.handleMassRevokeCommand),
		"check":      r.adminOnly(r.handleCheckCommand),
		"quiet":      r.adminOnly(r.toggleHandler("quiet")),
		"rolesync":   r.adminOnly(r.toggleHandler("rolesync")),
		"autocheck":  r.adminOnly(r.toggleHandler("autocheck")),
		"info":       r.adminOnly(r.handleInfoCommand),
	}
}

func (r *RealTelegramBotAdapter) adminOnly(next commandHandler) commandHandler {
	return func(ctx context.Context, message *tgbotapi.Message) error {
		if _, isAdmin := r.adminIDsMap[message.From.ID]; !isAdmin {
			metrics.IncAdminCommand("/"+message.Command(), "unauthorized")
			return r.SendDirect(ctx, message.Chat.ID, "You are not allowed to use this command.")
		}
		metrics.IncAdminCommand("/"+message.Command(), "authorized")
		return next(ctx, message)
	}
}

// reply forwards a facade result, masking internal errors behind a generic
// line so admins never see storage details in chat.
func (r *RealTelegramBotAdapter) reply(ctx context.Context, message *tgbotapi.Message, text string, err error) error {
	if err != nil {
		r.log.Error().Err(err).Str("command", message.Command()).Msg("command failed")
		text = "Something went wrong, try again later."
	}
	return r.SendDirect(ctx, message.Chat.ID, text)
}

func (r *RealTelegramBotAdapter) handleStartCommand(ctx context.Context, message *tgbotapi.Message) error {
	text, err := r.facade.HandleStart(ctx, message.From.ID, displayName(message.From))
	return r.reply(ctx, message, text, err)
}

func (r *RealTelegramBotAdapter) handleRedeemCommand(ctx context.Context, message *tgbotapi.Message) error {
	text, err := r.facade.HandleRedeem(ctx, message.From.ID, displayName(message.From), message.CommandArguments())
	return r.reply(ctx, message, text, err)
}

func (r *RealTelegramBotAdapter) handleStatusCommand(ctx context.Context, message *tgbotapi.Message) error {
	text, err := r.facade.HandleStatus(ctx, message.From.ID)
	return r.reply(ctx, message, text, err)
}

func (r *RealTelegramBotAdapter) handleHelpCommand(ctx context.Context, message *tgbotapi.Message) error {
	var sb strings.Builder
	sb.WriteString("Commands:\n")
	sb.WriteString("/start - register\n")
	sb.WriteString("/redeem <code> - redeem an activation code\n")
	sb.WriteString("/status - show your subscription\n")
	if _, isAdmin := r.adminIDsMap[message.From.ID]; isAdmin {
		sb.WriteString("\nAdmin commands:\n")
		sb.WriteString("/generate <duration> - mint an activation code\n")
		sb.WriteString("/code <code> - inspect a code\n")
		sb.WriteString("/grant <user> <duration> [YYYY-MM-DD] - grant or extend\n")
		sb.WriteString("/revoke <user> - revoke immediately\n")
		sb.WriteString("/reduce <user> <duration> - shorten\n")
		sb.WriteString("/ustatus <user> - user's subscription\n")
		sb.WriteString("/history <user> - user's subscription history\n")
		sb.WriteString("/listsubs - active subscriptions\n")
		sb.WriteString("/listusers - registered users\n")
		sb.WriteString("/regall - register all members\n")
		sb.WriteString("/regvips <duration> - grant to VIP holders without subs\n")
		sb.WriteString("/massrevoke - revoke everything\n")
		sb.WriteString("/check - run a reconcile pass now\n")
		sb.WriteString("/quiet|/rolesync|/autocheck on|off - toggles\n")
		sb.WriteString("/info - stats and toggles\n")
	}
	return r.SendDirect(ctx, message.Chat.ID, sb.String())
}

func (r *RealTelegramBotAdapter) handleGenerateCommand(ctx context.Context, message *tgbotapi.Message) error {
	text, err := r.facade.HandleGenerate(ctx, message.From.ID, displayName(message.From), message.CommandArguments())
	return r.reply(ctx, message, text, err)
}

func (r *RealTelegramBotAdapter) handleCodeCommand(ctx context.Context, message *tgbotapi.Message) error {
	arg := strings.TrimSpace(message.CommandArguments())
	if arg == "" {
		return r.SendDirect(ctx, message.Chat.ID, "Usage: /code <code>")
	}
	text, err := r.facade.HandleCodeInfo(ctx, arg)
	return r.reply(ctx, message, text, err)
}

func (r *RealTelegramBotAdapter) handleGrantCommand(ctx context.Context, message *tgbotapi.Message) error {
	args := strings.Fields(message.CommandArguments())
	if len(args) < 2 {
		return r.SendDirect(ctx, message.Chat.ID, "Usage: /grant <user> <duration> [YYYY-MM-DD]")
	}
	startDate := ""
	if len(args) >= 3 {
		startDate = args[2]
	}
	text, err := r.facade.HandleGrant(ctx, message.From.ID, displayName(message.From), args[0], args[1], startDate)
	return r.reply(ctx, message, text, err)
}

func (r *RealTelegramBotAdapter) handleRevokeCommand(ctx context.Context, message *tgbotapi.Message) error {
	arg := strings.TrimSpace(message.CommandArguments())
	if arg == "" {
		return r.SendDirect(ctx, message.Chat.ID, "Usage: /revoke <user>")
	}
	text, err := r.facade.HandleRevoke(ctx, message.From.ID, displayName(message.From), arg)
	return r.reply(ctx, message, text, err)
}

func (r *RealTelegramBotAdapter) handleReduceCommand(ctx context.Context, message *tgbotapi.Message) error {
	args := strings.Fields(message.CommandArguments())
	if len(args) < 2 {
		return r.SendDirect(ctx, message.Chat.ID, "Usage: /reduce <user> <duration>")
	}
	text, err := r.facade.HandleReduce(ctx, message.From.ID, displayName(message.From), args[0], args[1])
	return r.reply(ctx, message, text, err)
}

func (r *RealTelegramBotAdapter) handleUserStatusCommand(ctx context.Context, message *tgbotapi.Message) error {
	arg := strings.TrimSpace(message.CommandArguments())
	if arg == "" {
		return r.SendDirect(ctx, message.Chat.ID, "Usage: /ustatus <user>")
	}
	text, err := r.facade.HandleUserStatus(ctx, arg)
	return r.reply(ctx, message, text, err)
}

func (r *RealTelegramBotAdapter) handleHistoryCommand(ctx context.Context, message *tgbotapi.Message) error {
	arg := strings.TrimSpace(message.CommandArguments())
	if arg == "" {
		return r.SendDirect(ctx, message.Chat.ID, "Usage: /history <user>")
	}
	text, err := r.facade.HandleHistory(ctx, arg)
	return r.reply(ctx, message, text, err)
}

func (r *RealTelegramBotAdapter) handleListSubsCommand(ctx context.Context, message *tgbotapi.Message) error {
	text, err := r.facade.HandleListActive(ctx)
	return r.reply(ctx, message, text, err)
}

func (r *RealTelegramBotAdapter) handleListUsersCommand(ctx context.Context, message *tgbotapi.Message) error {
	text, err := r.facade.HandleListUsers(ctx)
	return r.reply(ctx, message, text, err)
}

func (r *RealTelegramBotAdapter) handleRegisterAllCommand(ctx context.Context, message *tgbotapi.Message) error {
	text, err := r.facade.HandleRegisterAll(ctx)
	return r.reply(ctx, message, text, err)
}

func (r *RealTelegramBotAdapter) handleRegisterVIPsCommand(ctx context.Context, message *tgbotapi.Message) error {
	text, err := r.facade.HandleRegisterVIPs(ctx, message.From.ID, displayName(message.From), message.CommandArguments())
	return r.reply(ctx, message, text, err)
}

func (r *RealTelegramBotAdapter) handleMassRevokeCommand(ctx context.Context, message *tgbotapi.Message) error {
	text, err := r.facade.HandleMassRevoke(ctx, message.From.ID, displayName(message.From))
	return r.reply(ctx, message, text, err)
}

func (r *RealTelegramBotAdapter) handleCheckCommand(ctx context.Context, message *tgbotapi.Message) error {
	text, err := r.facade.HandleForceCheck(ctx)
	return r.reply(ctx, message, text, err)
}

func (r *RealTelegramBotAdapter) toggleHandler(name string) commandHandler {
	return func(ctx context.Context, message *tgbotapi.Message) error {
		var on bool
		switch strings.ToLower(strings.TrimSpace(message.CommandArguments())) {
		case "on":
			on = true
		case "off":
			on = false
		default:
			return r.SendDirect(ctx, message.Chat.ID, "Usage: /"+name+" on|off")
		}
		text, err := r.facade.HandleToggle(ctx, name, on)
		return r.reply(ctx, message, text, err)
	}
}

func (r *RealTelegramBotAdapter) handleInfoCommand(ctx context.Context, message *tgbotapi.Message) error {
	text, err := r.facade.HandleInfo(ctx)
	return r.reply(ctx, message, text, err)
}
