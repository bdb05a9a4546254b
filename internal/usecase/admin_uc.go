package usecase

import (
	"context"
	"strconv"
	"strings"

	"vk-ticket-bot/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ AdminUseCase = (*adminUC)(nil)

// AdminUseCase recognizes and executes privileged commands. They are checked
// before everything else in every conversation state and never touch
// conversation state themselves.
type AdminUseCase interface {
	// TryExecute returns (reply, true) when text was an admin command from
	// an authorized sender. Capability failures are relayed to the admin as
	// formatted text, never as errors.
	TryExecute(ctx context.Context, senderID int64, text string) (string, bool)
}

type adminUC struct {
	users    UserUseCase
	adminIDs map[int64]struct{}
	log      *zerolog.Logger
}

// NewAdminUseCase builds the admin command handler. With an empty adminIDs
// list any sender matching an admin pattern is accepted, mirroring the
// original deployment; configure the list to close that gap.
func NewAdminUseCase(users UserUseCase, adminIDs []int64, logger *zerolog.Logger) *adminUC {
	idx := make(map[int64]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		idx[id] = struct{}{}
	}
	l := logger.With().Str("component", "AdminUC").Logger()
	return &adminUC{users: users, adminIDs: idx, log: &l}
}

func (a *adminUC) authorized(senderID int64) bool {
	if len(a.adminIDs) == 0 {
		return true
	}
	_, ok := a.adminIDs[senderID]
	return ok
}

func (a *adminUC) TryExecute(ctx context.Context, senderID int64, text string) (string, bool) {
	fields := strings.Fields(strings.TrimSpace(text))
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return "", false
	}

	cmd := strings.ToLower(fields[0])
	args := fields[1:]

	switch cmd {
	case "/стат", "/stats":
	case "/найти", "/find":
	case "/бан", "/ban":
	case "/разбан", "/unban":
	default:
		// Not an admin pattern; let the dialog pipeline handle it.
		return "", false
	}

	if !a.authorized(senderID) {
		a.log.Warn().Int64("vk_id", senderID).Str("command", cmd).Msg("unauthorized admin command")
		return "", false
	}
	metrics.IncAdminCommand(cmd)

	switch cmd {
	case "/стат", "/stats":
		reply, err := a.users.Stats(ctx)
		if err != nil {
			a.log.Warn().Err(err).Msg("stats command failed")
			return "Не получилось собрать статистику: " + err.Error(), true
		}
		return reply, true

	case "/найти", "/find":
		if len(args) == 0 {
			return "Использование: " + cmd + " <подстрока имени>", true
		}
		query := strings.Join(args, " ")
		reply, err := a.users.Search(ctx, query, 10)
		if err != nil {
			a.log.Warn().Err(err).Str("query", query).Msg("search command failed")
			return "Не получилось выполнить поиск: " + err.Error(), true
		}
		return reply, true

	case "/бан", "/ban", "/разбан", "/unban":
		ban := cmd == "/бан" || cmd == "/ban"
		if len(args) == 0 {
			return "Использование: " + cmd + " <id> [причина]", true
		}
		vkID, err := strconv.ParseInt(strings.TrimPrefix(args[0], "id"), 10, 64)
		if err != nil || vkID <= 0 {
			return "Некорректный id: " + args[0], true
		}
		reason := strings.Join(args[1:], " ")
		reply, err := a.users.Manage(ctx, vkID, ban, reason)
		if err != nil {
			a.log.Warn().Err(err).Int64("target", vkID).Msg("manage command failed")
			return "Не получилось изменить пользователя: " + err.Error(), true
		}
		return reply, true
	}

	return "", false
}
