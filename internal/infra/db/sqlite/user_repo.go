package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"vk-ticket-bot/internal/domain"
	"vk-ticket-bot/internal/domain/model"
	"vk-ticket-bot/internal/domain/ports/repository"
	"vk-ticket-bot/internal/infra/metrics"

	"github.com/rs/zerolog"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo persists the bot's user ledger.
type UserRepo struct {
	db  *sql.DB
	log *zerolog.Logger
}

func NewUserRepo(db *sql.DB, logger *zerolog.Logger) *UserRepo {
	l := logger.With().Str("component", "UserRepo").Logger()
	return &UserRepo{db: db, log: &l}
}

const userColumns = `vk_id, first_name, last_name, username, message_count,
	is_online, banned, ban_reason, registered_at, last_activity`

func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.VKID, &u.FirstName, &u.LastName, &u.Username, &u.MessageCount,
		&u.IsOnline, &u.Banned, &u.BanReason, &u.RegisteredAt, &u.LastActiveAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) FindByVKID(ctx context.Context, vkID int64) (*model.User, error) {
	start := time.Now()
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE vk_id = ?`, vkID)
	u, err := scanUser(row)
	metrics.ObserveDBQuery("users_find", time.Since(start))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return u, err
}

func (r *UserRepo) Upsert(ctx context.Context, user *model.User) error {
	start := time.Now()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (vk_id, first_name, last_name, username, is_online, last_activity)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(vk_id) DO UPDATE SET
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			username = excluded.username,
			is_online = excluded.is_online,
			last_activity = CURRENT_TIMESTAMP`,
		user.VKID, user.FirstName, user.LastName, user.Username, user.IsOnline)
	metrics.ObserveDBQuery("users_upsert", time.Since(start))
	return err
}

func (r *UserRepo) IncrementMessageCount(ctx context.Context, vkID int64) error {
	start := time.Now()
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET message_count = message_count + 1 WHERE vk_id = ?`, vkID)
	metrics.ObserveDBQuery("users_inc_messages", time.Since(start))
	return err
}

func (r *UserRepo) UpdateActivity(ctx context.Context, vkID int64, online bool) error {
	start := time.Now()
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET is_online = ?, last_activity = CURRENT_TIMESTAMP WHERE vk_id = ?`,
		online, vkID)
	metrics.ObserveDBQuery("users_update_activity", time.Since(start))
	return err
}

func (r *UserRepo) MarkOfflineIdle(ctx context.Context, idleFor time.Duration) (int, error) {
	start := time.Now()
	// CURRENT_TIMESTAMP is stored in UTC, compare in UTC.
	cutoff := time.Now().UTC().Add(-idleFor)
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET is_online = 0 WHERE is_online = 1 AND last_activity < ?`, cutoff)
	metrics.ObserveDBQuery("users_mark_offline", time.Since(start))
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (r *UserRepo) Stats(ctx context.Context) (*repository.UserStats, error) {
	start := time.Now()
	row := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COALESCE(SUM(is_online), 0),
			COALESCE(SUM(banned), 0),
			COALESCE(SUM(message_count), 0)
		FROM users`)
	var s repository.UserStats
	err := row.Scan(&s.Total, &s.Online, &s.Banned, &s.Messages)
	metrics.ObserveDBQuery("users_stats", time.Since(start))
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *UserRepo) Search(ctx context.Context, query string, limit int) ([]*model.User, error) {
	if limit <= 0 {
		limit = 10
	}
	start := time.Now()
	pattern := "%" + query + "%"
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE first_name LIKE ? OR last_name LIKE ? OR username LIKE ?
		ORDER BY last_activity DESC LIMIT ?`,
		pattern, pattern, pattern, limit)
	metrics.ObserveDBQuery("users_search", time.Since(start))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *UserRepo) SetBanned(ctx context.Context, vkID int64, banned bool, reason string) error {
	if !banned {
		reason = ""
	}
	start := time.Now()
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET banned = ?, ban_reason = ? WHERE vk_id = ?`, banned, reason, vkID)
	metrics.ObserveDBQuery("users_set_banned", time.Since(start))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
