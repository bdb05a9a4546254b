// File: internal/usecase/admin_uc_test.go
package usecase

import (
	"context"
	"strings"
	"testing"

	"vk-ticket-bot/internal/domain/model"
)

func newAdminFixture(adminIDs []int64) (*adminUC, *mockUserRepo) {
	log := newTestLogger()
	repo := newMockUserRepo()
	return NewAdminUseCase(NewUserUseCase(repo, log), adminIDs, log), repo
}

func seedUser(t *testing.T, repo *mockUserRepo, vkID int64, first, last string) {
	t.Helper()
	u, err := model.NewUser(vkID, first, last, "")
	if err != nil {
		t.Fatalf("new user: %v", err)
	}
	if err := repo.Upsert(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
}

func TestAdminTryExecute(t *testing.T) {
	ctx := context.Background()

	t.Run("plain text is not an admin command", func(t *testing.T) {
		admin, _ := newAdminFixture(nil)
		if _, ok := admin.TryExecute(ctx, 1, "привет"); ok {
			t.Error("plain text must fall through")
		}
	})

	t.Run("unknown slash command falls through", func(t *testing.T) {
		admin, _ := newAdminFixture(nil)
		if _, ok := admin.TryExecute(ctx, 1, "/help"); ok {
			t.Error("/help is not an admin command and must fall through")
		}
	})

	t.Run("stats reports totals", func(t *testing.T) {
		admin, repo := newAdminFixture(nil)
		seedUser(t, repo, 10, "Анна", "Иванова")
		seedUser(t, repo, 11, "Пётр", "Петров")

		reply, ok := admin.TryExecute(ctx, 1, "/стат")
		if !ok {
			t.Fatal("expected /стат to be handled")
		}
		if !strings.Contains(reply, "Пользователей: 2") {
			t.Errorf("reply = %q, want the user total", reply)
		}
	})

	t.Run("find returns matches and usage on empty query", func(t *testing.T) {
		admin, repo := newAdminFixture(nil)
		seedUser(t, repo, 10, "Анна", "Иванова")

		reply, ok := admin.TryExecute(ctx, 1, "/найти анна")
		if !ok {
			t.Fatal("expected /найти to be handled")
		}
		if !strings.Contains(reply, "Анна Иванова") {
			t.Errorf("reply = %q, want the found user", reply)
		}

		reply, ok = admin.TryExecute(ctx, 1, "/найти")
		if !ok || !strings.Contains(reply, "Использование") {
			t.Errorf("reply = %q, want usage hint", reply)
		}
	})

	t.Run("ban and unban flip the flag", func(t *testing.T) {
		admin, repo := newAdminFixture(nil)
		seedUser(t, repo, 10, "Анна", "Иванова")

		reply, ok := admin.TryExecute(ctx, 1, "/бан 10 спам")
		if !ok {
			t.Fatal("expected /бан to be handled")
		}
		if !strings.Contains(reply, "забанен") || !strings.Contains(reply, "спам") {
			t.Errorf("reply = %q, want ban confirmation with reason", reply)
		}
		if u, _ := repo.FindByVKID(ctx, 10); !u.Banned || u.BanReason != "спам" {
			t.Errorf("user after ban = %+v", u)
		}

		reply, _ = admin.TryExecute(ctx, 1, "/unban id10")
		if !strings.Contains(reply, "разбанен") {
			t.Errorf("reply = %q, want unban confirmation", reply)
		}
		if u, _ := repo.FindByVKID(ctx, 10); u.Banned {
			t.Error("user still banned after /unban")
		}
	})

	t.Run("ban of unknown user replies politely", func(t *testing.T) {
		admin, _ := newAdminFixture(nil)
		reply, ok := admin.TryExecute(ctx, 1, "/ban 999")
		if !ok || !strings.Contains(reply, "не найден") {
			t.Errorf("reply = %q, want not-found text", reply)
		}
	})

	t.Run("malformed id is rejected", func(t *testing.T) {
		admin, _ := newAdminFixture(nil)
		reply, ok := admin.TryExecute(ctx, 1, "/бан вася")
		if !ok || !strings.Contains(reply, "Некорректный id") {
			t.Errorf("reply = %q, want malformed-id text", reply)
		}
	})

	t.Run("allowlist blocks strangers and admits members", func(t *testing.T) {
		admin, _ := newAdminFixture([]int64{42})

		if _, ok := admin.TryExecute(ctx, 7, "/стат"); ok {
			t.Error("sender 7 is not on the allowlist and must fall through")
		}
		if _, ok := admin.TryExecute(ctx, 42, "/стат"); !ok {
			t.Error("sender 42 is on the allowlist and must be handled")
		}
	})

	t.Run("empty allowlist admits anyone", func(t *testing.T) {
		admin, _ := newAdminFixture(nil)
		if _, ok := admin.TryExecute(ctx, 7, "/stats"); !ok {
			t.Error("with no allowlist configured any sender is accepted")
		}
	})
}
