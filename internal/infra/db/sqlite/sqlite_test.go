// File: internal/infra/db/sqlite/sqlite_test.go
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"vk-ticket-bot/internal/domain"
	"vk-ticket-bot/internal/domain/model"

	"github.com/rs/zerolog"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "bot.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

func mustCommand(t *testing.T, name string, triggers []string, response string) *model.Command {
	t.Helper()
	c, err := model.NewCommand(name, triggers, response, "")
	if err != nil {
		t.Fatalf("NewCommand: %v", err)
	}
	return c
}

func TestCommandRepo(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	repo, err := NewCommandRepo(db, testLogger())
	if err != nil {
		t.Fatalf("NewCommandRepo: %v", err)
	}

	t.Run("empty table finds nothing", func(t *testing.T) {
		if _, err := repo.FindByText(ctx, "цены"); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("FindByText = %v, want ErrNotFound", err)
		}
	})

	t.Run("save then find by any trigger", func(t *testing.T) {
		cmd := mustCommand(t, "prices", []string{"цены", "прайс"}, "Прайс на сайте.")
		if err := repo.Save(ctx, cmd); err != nil {
			t.Fatalf("Save: %v", err)
		}

		got, err := repo.FindByText(ctx, "скиньте ПРАЙС пожалуйста")
		if err != nil {
			t.Fatalf("FindByText: %v", err)
		}
		if got.Response != cmd.Response {
			t.Errorf("response = %q, want %q", got.Response, cmd.Response)
		}
		if len(got.Triggers) != 2 {
			t.Errorf("triggers = %v, want both back from storage", got.Triggers)
		}
	})

	t.Run("save same name updates in place", func(t *testing.T) {
		cmd := mustCommand(t, "prices", []string{"цены"}, "Обновлённый прайс.")
		if err := repo.Save(ctx, cmd); err != nil {
			t.Fatalf("Save update: %v", err)
		}
		got, err := repo.FindByText(ctx, "цены")
		if err != nil {
			t.Fatalf("FindByText: %v", err)
		}
		if got.Response != "Обновлённый прайс." {
			t.Errorf("response = %q, want the updated text", got.Response)
		}
		list, _ := repo.List(ctx)
		if len(list) != 1 {
			t.Errorf("list = %d commands, want 1 after upsert", len(list))
		}
	})

	t.Run("first match in table order wins", func(t *testing.T) {
		second := mustCommand(t, "prices2", []string{"цены"}, "Другой ответ.")
		if err := repo.Save(ctx, second); err != nil {
			t.Fatalf("Save: %v", err)
		}
		got, err := repo.FindByText(ctx, "цены")
		if err != nil {
			t.Fatalf("FindByText: %v", err)
		}
		if got.Name != "prices" {
			t.Errorf("matched %q, want the earlier row", got.Name)
		}
	})

	t.Run("delete is case-insensitive on name", func(t *testing.T) {
		if err := repo.Delete(ctx, "PRICES2"); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if err := repo.Delete(ctx, "prices2"); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("second delete = %v, want ErrNotFound", err)
		}
	})

	t.Run("cache survives a reopen", func(t *testing.T) {
		again, err := NewCommandRepo(db, testLogger())
		if err != nil {
			t.Fatalf("NewCommandRepo: %v", err)
		}
		if _, err := again.FindByText(ctx, "цены"); err != nil {
			t.Errorf("FindByText after reload: %v", err)
		}
	})
}

func TestUserRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepo(openTestDB(t), testLogger())

	newUser := func(t *testing.T, id int64, first, last string) *model.User {
		t.Helper()
		u, err := model.NewUser(id, first, last, "")
		if err != nil {
			t.Fatalf("NewUser: %v", err)
		}
		return u
	}

	t.Run("find of unknown user is ErrNotFound", func(t *testing.T) {
		if _, err := repo.FindByVKID(ctx, 404); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("FindByVKID = %v, want ErrNotFound", err)
		}
	})

	t.Run("upsert preserves counters", func(t *testing.T) {
		u := newUser(t, 10, "Анна", "Иванова")
		u.IsOnline = true
		if err := repo.Upsert(ctx, u); err != nil {
			t.Fatalf("Upsert: %v", err)
		}
		if err := repo.IncrementMessageCount(ctx, 10); err != nil {
			t.Fatalf("IncrementMessageCount: %v", err)
		}

		// Profile refresh must not reset the message counter.
		u.LastName = "Сидорова"
		if err := repo.Upsert(ctx, u); err != nil {
			t.Fatalf("Upsert again: %v", err)
		}
		got, err := repo.FindByVKID(ctx, 10)
		if err != nil {
			t.Fatalf("FindByVKID: %v", err)
		}
		if got.LastName != "Сидорова" || got.MessageCount != 1 {
			t.Errorf("user = %+v, want refreshed name and kept counter", got)
		}
	})

	t.Run("ban round-trip", func(t *testing.T) {
		if err := repo.SetBanned(ctx, 10, true, "спам"); err != nil {
			t.Fatalf("SetBanned: %v", err)
		}
		got, _ := repo.FindByVKID(ctx, 10)
		if !got.Banned || got.BanReason != "спам" {
			t.Errorf("user = %+v, want banned with reason", got)
		}

		// Unban wipes the reason regardless of what the caller passes.
		if err := repo.SetBanned(ctx, 10, false, "остаток"); err != nil {
			t.Fatalf("SetBanned unban: %v", err)
		}
		got, _ = repo.FindByVKID(ctx, 10)
		if got.Banned || got.BanReason != "" {
			t.Errorf("user = %+v, want clean after unban", got)
		}
	})

	t.Run("ban of unknown user is ErrNotFound", func(t *testing.T) {
		if err := repo.SetBanned(ctx, 404, true, ""); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("SetBanned = %v, want ErrNotFound", err)
		}
	})

	t.Run("stats aggregates the ledger", func(t *testing.T) {
		u := newUser(t, 11, "Пётр", "Петров")
		if err := repo.Upsert(ctx, u); err != nil {
			t.Fatalf("Upsert: %v", err)
		}
		s, err := repo.Stats(ctx)
		if err != nil {
			t.Fatalf("Stats: %v", err)
		}
		if s.Total != 2 || s.Messages != 1 {
			t.Errorf("stats = %+v", s)
		}
	})

	t.Run("search matches name substrings", func(t *testing.T) {
		users, err := repo.Search(ctx, "Петр", 10)
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		if len(users) != 1 || users[0].VKID != 11 {
			t.Errorf("search = %+v, want Пётр Петров", users)
		}
	})

	t.Run("mark offline flips only stale online users", func(t *testing.T) {
		if err := repo.UpdateActivity(ctx, 10, true); err != nil {
			t.Fatalf("UpdateActivity: %v", err)
		}
		// Nobody is older than an hour, nothing flips.
		n, err := repo.MarkOfflineIdle(ctx, time.Hour)
		if err != nil {
			t.Fatalf("MarkOfflineIdle: %v", err)
		}
		if n != 0 {
			t.Errorf("marked %d users offline, want 0", n)
		}
		// A zero idle window makes every online user stale.
		n, err = repo.MarkOfflineIdle(ctx, -time.Second)
		if err != nil {
			t.Fatalf("MarkOfflineIdle: %v", err)
		}
		if n == 0 {
			t.Error("expected at least one user flipped offline")
		}
		got, _ := repo.FindByVKID(ctx, 10)
		if got.IsOnline {
			t.Error("user 10 still online after the sweep")
		}
	})
}
