package usecase

import (
	"context"
	"fmt"
	"strings"

	"vk-ticket-bot/internal/domain"
	"vk-ticket-bot/internal/domain/model"
	"vk-ticket-bot/internal/domain/ports/repository"
	"vk-ticket-bot/internal/infra/logging"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ UserUseCase = (*userUC)(nil)

// UserUseCase exposes the user bookkeeping consumed by the dispatcher and
// the admin commands. Everything here is best-effort from the dialog
// pipeline's perspective; only admin-initiated calls surface errors as text.
type UserUseCase interface {
	Sync(ctx context.Context, vkID int64, firstName, lastName, username string, online bool) error
	IncrementMessageCount(ctx context.Context, vkID int64) error
	UpdateActivity(ctx context.Context, vkID int64, online bool) error
	IsBanned(ctx context.Context, vkID int64) (bool, error)
	Stats(ctx context.Context) (string, error)
	Search(ctx context.Context, query string, limit int) (string, error)
	Manage(ctx context.Context, vkID int64, ban bool, reason string) (string, error)
}

type userUC struct {
	users repository.UserRepository
	log   *zerolog.Logger
}

func NewUserUseCase(users repository.UserRepository, logger *zerolog.Logger) *userUC {
	l := logger.With().Str("component", "UserUC").Logger()
	return &userUC{users: users, log: &l}
}

func (u *userUC) Sync(ctx context.Context, vkID int64, firstName, lastName, username string, online bool) error {
	defer logging.TraceDuration(u.log, "UserUC.Sync")()
	user, err := model.NewUser(vkID, firstName, lastName, username)
	if err != nil {
		return err
	}
	user.IsOnline = online
	return u.users.Upsert(ctx, user)
}

func (u *userUC) IncrementMessageCount(ctx context.Context, vkID int64) error {
	return u.users.IncrementMessageCount(ctx, vkID)
}

func (u *userUC) UpdateActivity(ctx context.Context, vkID int64, online bool) error {
	return u.users.UpdateActivity(ctx, vkID, online)
}

func (u *userUC) IsBanned(ctx context.Context, vkID int64) (bool, error) {
	user, err := u.users.FindByVKID(ctx, vkID)
	if err != nil {
		// Unseen users are not banned.
		if err == domain.ErrNotFound {
			return false, nil
		}
		return false, err
	}
	return user.Banned, nil
}

func (u *userUC) Stats(ctx context.Context) (string, error) {
	defer logging.TraceDuration(u.log, "UserUC.Stats")()
	s, err := u.users.Stats(ctx)
	if err != nil {
		return "", fmt.Errorf("get stats: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("📊 Статистика бота:\n\n")
	sb.WriteString(fmt.Sprintf("👥 Пользователей: %d\n", s.Total))
	sb.WriteString(fmt.Sprintf("🟢 Онлайн: %d\n", s.Online))
	sb.WriteString(fmt.Sprintf("🚫 В бане: %d\n", s.Banned))
	sb.WriteString(fmt.Sprintf("✉️ Сообщений всего: %d\n", s.Messages))
	return sb.String(), nil
}

func (u *userUC) Search(ctx context.Context, query string, limit int) (string, error) {
	defer logging.TraceDuration(u.log, "UserUC.Search")()
	users, err := u.users.Search(ctx, query, limit)
	if err != nil {
		return "", fmt.Errorf("search users: %w", err)
	}
	if len(users) == 0 {
		return fmt.Sprintf("По запросу «%s» никого не нашлось.", query), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🔍 Найдено по запросу «%s»:\n\n", query))
	for _, usr := range users {
		status := "🔵"
		if usr.IsOnline {
			status = "🟢"
		}
		if usr.Banned {
			status = "🚫"
		}
		sb.WriteString(fmt.Sprintf("%s %s (id%d), сообщений: %d\n",
			status, usr.FullName(), usr.VKID, usr.MessageCount))
	}
	return sb.String(), nil
}

func (u *userUC) Manage(ctx context.Context, vkID int64, ban bool, reason string) (string, error) {
	defer logging.TraceDuration(u.log, "UserUC.Manage")()
	if err := u.users.SetBanned(ctx, vkID, ban, reason); err != nil {
		if err == domain.ErrNotFound {
			return fmt.Sprintf("Пользователь id%d не найден.", vkID), nil
		}
		return "", fmt.Errorf("manage user: %w", err)
	}
	if ban {
		if reason == "" {
			return fmt.Sprintf("Пользователь id%d забанен.", vkID), nil
		}
		return fmt.Sprintf("Пользователь id%d забанен. Причина: %s", vkID, reason), nil
	}
	return fmt.Sprintf("Пользователь id%d разбанен.", vkID), nil
}
