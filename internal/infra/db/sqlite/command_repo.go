package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"time"

	"vk-ticket-bot/internal/domain"
	"vk-ticket-bot/internal/domain/model"
	"vk-ticket-bot/internal/domain/ports/repository"
	"vk-ticket-bot/internal/infra/metrics"

	"github.com/rs/zerolog"
)

var _ repository.CommandRepository = (*CommandRepo)(nil)

// CommandRepo reads the command table. The whole table is small (tens of
// rows), so lookups run against an in-process cache reloaded on every write.
type CommandRepo struct {
	db  *sql.DB
	log *zerolog.Logger

	mu    sync.RWMutex
	cache []*model.Command
}

func NewCommandRepo(db *sql.DB, logger *zerolog.Logger) (*CommandRepo, error) {
	l := logger.With().Str("component", "CommandRepo").Logger()
	r := &CommandRepo{db: db, log: &l}
	if err := r.reload(context.Background()); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *CommandRepo) reload(ctx context.Context) error {
	start := time.Now()
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, triggers, response, keyboard, type FROM commands ORDER BY id`)
	if err != nil {
		return err
	}
	defer rows.Close()

	var cmds []*model.Command
	for rows.Next() {
		var c model.Command
		var triggers string
		if err := rows.Scan(&c.ID, &c.Name, &triggers, &c.Response, &c.Keyboard, &c.Type); err != nil {
			return err
		}
		c.Triggers = splitTriggers(triggers)
		cmds = append(cmds, &c)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	metrics.ObserveDBQuery("commands_reload", time.Since(start))

	r.mu.Lock()
	r.cache = cmds
	r.mu.Unlock()
	r.log.Debug().Int("count", len(cmds)).Msg("command cache reloaded")
	return nil
}

// FindByText resolves inbound text against the cached trigger list.
// First match in table order wins.
func (r *CommandRepo) FindByText(ctx context.Context, text string) (*model.Command, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.cache {
		if c.Matches(text) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *CommandRepo) List(ctx context.Context) ([]*model.Command, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*model.Command, 0, len(r.cache))
	for _, c := range r.cache {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (r *CommandRepo) Save(ctx context.Context, cmd *model.Command) error {
	start := time.Now()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO commands (name, triggers, response, keyboard, type)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			triggers = excluded.triggers,
			response = excluded.response,
			keyboard = excluded.keyboard,
			type = excluded.type`,
		cmd.Name, joinTriggers(cmd.Triggers), cmd.Response, cmd.Keyboard, cmd.Type)
	metrics.ObserveDBQuery("commands_save", time.Since(start))
	if err != nil {
		return err
	}
	return r.reload(ctx)
}

func (r *CommandRepo) Delete(ctx context.Context, name string) error {
	start := time.Now()
	res, err := r.db.ExecContext(ctx, `DELETE FROM commands WHERE name = ? COLLATE NOCASE`, name)
	metrics.ObserveDBQuery("commands_delete", time.Since(start))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return r.reload(ctx)
}

// Triggers are stored as a single semicolon-separated column, the way the
// admin panel edits them.
func splitTriggers(s string) []string {
	parts := strings.Split(s, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func joinTriggers(ts []string) string {
	return strings.Join(ts, ";")
}
