package application

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"telegram-vip-subscription/internal/domain"
	"telegram-vip-subscription/internal/domain/model"
	"telegram-vip-subscription/internal/domain/ports/adapter"
	"telegram-vip-subscription/internal/infra/metrics"
	"telegram-vip-subscription/internal/usecase"
)

const dateLayout = "2006-01-02"

// BotFacade composes usecases into high-level bot commands.
// Facade methods return strings so the Telegram adapter just forwards them to
// the chat; it never formats domain state itself.
type BotFacade struct {
	UserUC      usecase.UserUseCase
	DurationUC  usecase.DurationUseCase
	SubUC       usecase.SubscriptionUseCase
	CodeUC      usecase.CodeUseCase
	AdminUC     usecase.AdminUseCase
	SettingsUC  usecase.SettingsUseCase
	ReconcileUC usecase.ReconcileUseCase
	Notifier    *usecase.Notifier
	Chat        adapter.ChatAdapter

	log *zerolog.Logger
}

func NewBotFacade(
	userUC usecase.UserUseCase,
	durationUC usecase.DurationUseCase,
	subUC usecase.SubscriptionUseCase,
	codeUC usecase.CodeUseCase,
	adminUC usecase.AdminUseCase,
	settingsUC usecase.SettingsUseCase,
	reconcileUC usecase.ReconcileUseCase,
	notifier *usecase.Notifier,
	chat adapter.ChatAdapter,
	logger *zerolog.Logger,
) *BotFacade {
	l := logger.With().Str("component", "BotFacade").Logger()
	return &BotFacade{
		UserUC:      userUC,
		DurationUC:  durationUC,
		SubUC:       subUC,
		CodeUC:      codeUC,
		AdminUC:     adminUC,
		SettingsUC:  settingsUC,
		ReconcileUC: reconcileUC,
		Notifier:    notifier,
		Chat:        chat,
		log:         &l,
	}
}

// syncVIPFlag mirrors a command-time entitlement change onto the chat
// platform when rolesync is on. The periodic pass remains the safety net, so
// a failed sync is logged, never surfaced to the caller.
func (b *BotFacade) syncVIPFlag(ctx context.Context, tgID int64, vip bool) {
	s, err := b.SettingsUC.Get(ctx)
	if err != nil {
		b.log.Warn().Err(err).Msg("settings read failed, skipping flag sync")
		return
	}
	if !s.RoleSync {
		return
	}
	if err := b.Chat.SetVIP(ctx, tgID, vip); err != nil {
		b.log.Warn().Err(err).Int64("tg_id", tgID).Bool("vip", vip).Msg("flag sync failed")
	}
}

// HandleStart registers or fetches the user and returns a welcome string.
func (b *BotFacade) HandleStart(ctx context.Context, tgID int64, username string) (string, error) {
	u, isNew, err := b.UserUC.RegisterOrFetch(ctx, tgID, username)
	if err != nil {
		return "", fmt.Errorf("register/fetch user: %w", err)
	}
	if isNew {
		return fmt.Sprintf("Hello %s! You are registered now.\nUse /redeem <code> to activate a VIP subscription.", username), nil
	}
	return fmt.Sprintf("Welcome back %s!\nUse /status to check your subscription.", u.Username), nil
}

// HandleRedeem burns an activation code for the calling user.
func (b *BotFacade) HandleRedeem(ctx context.Context, tgID int64, username, code string) (string, error) {
	if strings.TrimSpace(code) == "" {
		return "Usage: /redeem <code>", nil
	}
	user, _, err := b.UserUC.RegisterOrFetch(ctx, tgID, username)
	if err != nil {
		return "", err
	}
	res, err := b.CodeUC.Redeem(ctx, user, code)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCodeNotFound):
			metrics.IncCodeRedeemed("not_found")
			return "That code does not exist. Check for typos and try again.", nil
		case errors.Is(err, domain.ErrCodeAlreadyRedeemed):
			metrics.IncCodeRedeemed("already_redeemed")
			return "That code has already been redeemed.", nil
		case errors.Is(err, domain.ErrCodeExpired):
			metrics.IncCodeRedeemed("expired")
			return "That code has expired.", nil
		default:
			return "", err
		}
	}
	metrics.IncCodeRedeemed("ok")
	b.syncVIPFlag(ctx, user.TelegramID, true)
	if res.Extended {
		return fmt.Sprintf("✅ Code accepted! Your VIP subscription was extended by %s.\nNew expiry: %s",
			res.Duration.String(), res.Subscription.EndAt.Format(dateLayout)), nil
	}
	return fmt.Sprintf("✅ Code accepted! You now have VIP access for %s.\nExpires: %s",
		res.Duration.String(), res.Subscription.EndAt.Format(dateLayout)), nil
}

// HandleStatus shows the caller's own subscription.
func (b *BotFacade) HandleStatus(ctx context.Context, tgID int64) (string, error) {
	user, err := b.UserUC.GetByTelegramID(ctx, tgID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "You are not registered yet. Send /start first.", nil
		}
		return "", err
	}
	return b.formatStatus(ctx, user)
}

// HandleUserStatus shows a target user's subscription (admin view).
func (b *BotFacade) HandleUserStatus(ctx context.Context, target string) (string, error) {
	user, err := b.resolveTarget(ctx, target)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "No such user.", nil
		}
		return "", err
	}
	return b.formatStatus(ctx, user)
}

func (b *BotFacade) formatStatus(ctx context.Context, user *model.User) (string, error) {
	sub, err := b.SubUC.GetActive(ctx, user.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNoActiveSubscription) {
			return fmt.Sprintf("%s has no active VIP subscription.", user.Username), nil
		}
		return "", err
	}
	days := int(time.Until(sub.EndAt).Hours() / 24)
	return fmt.Sprintf("VIP subscription for %s:\nActive since: %s\nExpires: %s (%d days left)",
		user.Username, sub.StartAt.Format(dateLayout), sub.EndAt.Format(dateLayout), days), nil
}

// HandleGenerate mints a new activation code worth the given duration.
func (b *BotFacade) HandleGenerate(ctx context.Context, adminTgID int64, adminUsername, token string) (string, error) {
	admin, _, err := b.UserUC.RegisterOrFetch(ctx, adminTgID, adminUsername)
	if err != nil {
		return "", err
	}
	d, err := b.resolveDuration(ctx, token)
	if err != nil {
		return durationUsage(err, "Usage: /generate <duration>")
	}
	code, err := b.CodeUC.Generate(ctx, admin, d)
	if err != nil {
		return "", err
	}
	metrics.IncCodeIssued()
	return fmt.Sprintf("Code for %s:\n`%s`\nValid until %s.",
		d.String(), code.Code, code.ExpiresAt.Format(dateLayout)), nil
}

// HandleCodeInfo reports the status of an activation code.
func (b *BotFacade) HandleCodeInfo(ctx context.Context, code string) (string, error) {
	c, rc, err := b.CodeUC.Inspect(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrCodeNotFound) {
			return "No such code.", nil
		}
		return "", err
	}
	switch {
	case c.Redeemed && rc != nil:
		return fmt.Sprintf("Code %s: redeemed on %s.", c.Code, rc.RedeemedAt.Format(dateLayout)), nil
	case c.Redeemed:
		return fmt.Sprintf("Code %s: redeemed.", c.Code), nil
	case c.IsExpiredAt(time.Now()):
		return fmt.Sprintf("Code %s: expired on %s, never redeemed.", c.Code, c.ExpiresAt.Format(dateLayout)), nil
	default:
		return fmt.Sprintf("Code %s: unredeemed, valid until %s.", c.Code, c.ExpiresAt.Format(dateLayout)), nil
	}
}

// HandleGrant gives or extends a subscription. An optional start date
// ("YYYY-MM-DD") backdates or postpones the grant.
func (b *BotFacade) HandleGrant(ctx context.Context, adminTgID int64, adminUsername, target, token, startDate string) (string, error) {
	admin, _, err := b.UserUC.RegisterOrFetch(ctx, adminTgID, adminUsername)
	if err != nil {
		return "", err
	}
	user, err := b.resolveTarget(ctx, target)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "No such user.", nil
		}
		return "", err
	}
	d, err := b.resolveDuration(ctx, token)
	if err != nil {
		return durationUsage(err, "Usage: /grant <user> <duration> [YYYY-MM-DD]")
	}

	var res *usecase.GrantResult
	if startDate != "" {
		start, perr := time.Parse(dateLayout, startDate)
		if perr != nil {
			return "Bad date, expected YYYY-MM-DD.", nil
		}
		res, err = b.SubUC.GrantAt(ctx, admin, user, start, d)
	} else {
		res, err = b.SubUC.Grant(ctx, admin, user, d)
	}
	if err != nil {
		return "", err
	}

	// A future-dated window confers nothing yet; the pass picks it up when it
	// starts.
	if res.Subscription.IsActiveAt(time.Now()) {
		b.syncVIPFlag(ctx, user.TelegramID, true)
	}
	b.Notifier.NotifyMember(ctx, user.TelegramID, fmt.Sprintf(
		"You have been granted VIP access until %s.", res.Subscription.EndAt.Format(dateLayout)))
	if res.Extended {
		metrics.IncGrant("extend")
		return fmt.Sprintf("Extended %s's subscription: %s → %s.",
			user.Username, res.OriginalEnd.Format(dateLayout), res.Subscription.EndAt.Format(dateLayout)), nil
	}
	metrics.IncGrant("grant")
	return fmt.Sprintf("Granted %s a subscription until %s.",
		user.Username, res.Subscription.EndAt.Format(dateLayout)), nil
}

// HandleRevoke cuts a user's subscription off immediately.
func (b *BotFacade) HandleRevoke(ctx context.Context, adminTgID int64, adminUsername, target string) (string, error) {
	admin, _, err := b.UserUC.RegisterOrFetch(ctx, adminTgID, adminUsername)
	if err != nil {
		return "", err
	}
	user, err := b.resolveTarget(ctx, target)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "No such user.", nil
		}
		return "", err
	}
	if _, err := b.SubUC.Revoke(ctx, admin, user); err != nil {
		if errors.Is(err, domain.ErrNoActiveSubscription) {
			return fmt.Sprintf("%s has no active subscription to revoke.", user.Username), nil
		}
		return "", err
	}
	metrics.IncRevoke("revoke")
	b.syncVIPFlag(ctx, user.TelegramID, false)
	b.Notifier.NotifyMember(ctx, user.TelegramID, "Your VIP subscription has been revoked.")
	return fmt.Sprintf("Revoked %s's subscription.", user.Username), nil
}

// HandleReduce shortens a user's subscription by the given duration.
func (b *BotFacade) HandleReduce(ctx context.Context, adminTgID int64, adminUsername, target, token string) (string, error) {
	admin, _, err := b.UserUC.RegisterOrFetch(ctx, adminTgID, adminUsername)
	if err != nil {
		return "", err
	}
	user, err := b.resolveTarget(ctx, target)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "No such user.", nil
		}
		return "", err
	}
	d, err := b.resolveDuration(ctx, token)
	if err != nil {
		return durationUsage(err, "Usage: /reduce <user> <duration>")
	}
	res, err := b.SubUC.Reduce(ctx, admin, user, d)
	if err != nil {
		if errors.Is(err, domain.ErrNoActiveSubscription) {
			return fmt.Sprintf("%s has no active subscription to reduce.", user.Username), nil
		}
		return "", err
	}
	metrics.IncRevoke("reduce")
	if !res.Subscription.IsActiveAt(time.Now()) {
		b.syncVIPFlag(ctx, user.TelegramID, false)
	}
	b.Notifier.NotifyMember(ctx, user.TelegramID, fmt.Sprintf(
		"Your VIP subscription was shortened; it now ends on %s.", res.Subscription.EndAt.Format(dateLayout)))
	return fmt.Sprintf("Reduced %s's subscription: %s → %s.",
		user.Username, res.OriginalEnd.Format(dateLayout), res.Subscription.EndAt.Format(dateLayout)), nil
}

// HandleListActive lists every active subscription.
func (b *BotFacade) HandleListActive(ctx context.Context) (string, error) {
	subs, err := b.SubUC.ListAllActive(ctx)
	if err != nil {
		return "", err
	}
	if len(subs) == 0 {
		return "No active subscriptions.", nil
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Active subscriptions (%d):\n", len(subs)))
	for _, s := range subs {
		name := s.UserID
		if u, err := b.UserUC.GetByID(ctx, s.UserID); err == nil {
			name = u.Username
		}
		sb.WriteString(fmt.Sprintf("- %s: until %s\n", name, s.EndAt.Format(dateLayout)))
	}
	return sb.String(), nil
}

// HandleListUsers lists registered users.
func (b *BotFacade) HandleListUsers(ctx context.Context) (string, error) {
	users, err := b.UserUC.List(ctx)
	if err != nil {
		return "", err
	}
	if len(users) == 0 {
		return "No registered users.", nil
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Registered users (%d):\n", len(users)))
	for _, u := range users {
		sb.WriteString(fmt.Sprintf("- %s (%d)\n", u.Username, u.TelegramID))
	}
	return sb.String(), nil
}

// HandleHistory lists a user's full subscription history.
func (b *BotFacade) HandleHistory(ctx context.Context, target string) (string, error) {
	user, err := b.resolveTarget(ctx, target)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "No such user.", nil
		}
		return "", err
	}
	subs, err := b.SubUC.List(ctx, user.ID)
	if err != nil {
		return "", err
	}
	if len(subs) == 0 {
		return fmt.Sprintf("%s has no subscription history.", user.Username), nil
	}
	now := time.Now()
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Subscriptions for %s:\n", user.Username))
	for _, s := range subs {
		state := "expired"
		switch {
		case s.IsActiveAt(now):
			state = "active"
		case s.IsFutureAt(now):
			state = "future"
		}
		sb.WriteString(fmt.Sprintf("- %s → %s (%s)\n",
			s.StartAt.Format(dateLayout), s.EndAt.Format(dateLayout), state))
	}
	return sb.String(), nil
}

// HandleRegisterAll registers every community member.
func (b *BotFacade) HandleRegisterAll(ctx context.Context) (string, error) {
	report, err := b.AdminUC.RegisterAll(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Registered %d new users out of %d members (%d failures).",
		report.Changed, report.Seen, report.Failed), nil
}

// HandleRegisterVIPs grants the duration to all VIP-flag holders without a
// subscription.
func (b *BotFacade) HandleRegisterVIPs(ctx context.Context, adminTgID int64, adminUsername, token string) (string, error) {
	admin, _, err := b.UserUC.RegisterOrFetch(ctx, adminTgID, adminUsername)
	if err != nil {
		return "", err
	}
	d, err := b.resolveDuration(ctx, token)
	if err != nil {
		return durationUsage(err, "Usage: /regvips <duration>")
	}
	report, err := b.AdminUC.RegisterAllVIPs(ctx, admin, d)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Granted %s to %d of %d VIP holders (%d failures).",
		d.String(), report.Changed, report.Seen, report.Failed), nil
}

// HandleMassRevoke revokes every active subscription.
func (b *BotFacade) HandleMassRevoke(ctx context.Context, adminTgID int64, adminUsername string) (string, error) {
	admin, _, err := b.UserUC.RegisterOrFetch(ctx, adminTgID, adminUsername)
	if err != nil {
		return "", err
	}
	report, err := b.AdminUC.MassRevoke(ctx, admin)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Revoked %d of %d active subscriptions (%d failures).",
		report.Changed, report.Seen, report.Failed), nil
}

// HandleForceCheck triggers a reconciliation pass immediately.
func (b *BotFacade) HandleForceCheck(ctx context.Context) (string, error) {
	report, err := b.ReconcileUC.Run(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrPassInProgress) {
			return "A check is already running.", nil
		}
		return "", err
	}
	return fmt.Sprintf("Check complete: %d members scanned, %d records updated.",
		report.UsersScanned, report.RecordsUpdated), nil
}

// HandleToggle flips one of the runtime toggles.
func (b *BotFacade) HandleToggle(ctx context.Context, name string, on bool) (string, error) {
	var (
		s   model.Settings
		err error
	)
	switch name {
	case "quiet":
		s, err = b.SettingsUC.SetQuiet(ctx, on)
	case "rolesync":
		s, err = b.SettingsUC.SetRoleSync(ctx, on)
	case "autocheck":
		s, err = b.SettingsUC.SetAutoCheck(ctx, on)
	default:
		return "Unknown toggle.", nil
	}
	if err != nil {
		return "", err
	}
	return formatSettings(s), nil
}

// HandleInfo reports overall stats and current toggles.
func (b *BotFacade) HandleInfo(ctx context.Context) (string, error) {
	users, err := b.UserUC.Count(ctx)
	if err != nil {
		return "", err
	}
	active, err := b.SubUC.CountActive(ctx)
	if err != nil {
		return "", err
	}
	s, err := b.SettingsUC.Get(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Users: %d\nActive subscriptions: %d\n%s", users, active, formatSettings(s)), nil
}

// resolveTarget accepts a numeric Telegram id or an @username.
func (b *BotFacade) resolveTarget(ctx context.Context, target string) (*model.User, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return nil, domain.ErrNotFound
	}
	if tgID, err := strconv.ParseInt(target, 10, 64); err == nil {
		return b.UserUC.GetByTelegramID(ctx, tgID)
	}
	return b.UserUC.GetByUsername(ctx, target)
}

func (b *BotFacade) resolveDuration(ctx context.Context, token string) (*model.Duration, error) {
	if strings.TrimSpace(token) == "" {
		return nil, domain.ErrInvalidDuration
	}
	return b.DurationUC.Resolve(ctx, token)
}

// durationUsage turns an invalid-duration error into a user-facing hint;
// anything else propagates.
func durationUsage(err error, usage string) (string, error) {
	var inv *usecase.InvalidDurationError
	if errors.As(err, &inv) {
		return fmt.Sprintf("%s\nAccepted durations: %s", usage, strings.Join(inv.Accepted, ", ")), nil
	}
	if errors.Is(err, domain.ErrInvalidDuration) {
		return usage, nil
	}
	return "", err
}

func formatSettings(s model.Settings) string {
	onOff := func(v bool) string {
		if v {
			return "on"
		}
		return "off"
	}
	return fmt.Sprintf("Toggles: quiet=%s rolesync=%s autocheck=%s",
		onOff(s.Quiet), onOff(s.RoleSync), onOff(s.AutoCheck))
}
