package services

import (
	"context"
	"testing"

	"github.com/rpupo63/game-catalog-backend/database"
	"github.com/rpupo63/game-catalog-backend/errs"
)

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	_, q := openTestDB(t)
	accounts := NewAccounts(q).WithCost(4)

	account, err := accounts.Register(ctx, "Gamer42", "hunter22")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if account.Admin {
		t.Fatalf("registered accounts must not be admins")
	}
	if account.PasswordHash == "hunter22" {
		t.Fatalf("password stored in clear text")
	}

	if _, err := accounts.Register(ctx, "gamer42", "other-password"); !errs.IsConflict(err) {
		t.Fatalf("expected a conflict for the same name in another case, got %v", err)
	}

	logged, err := accounts.Login(ctx, "GAMER42", "hunter22")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if logged.ID != account.ID {
		t.Fatalf("logged into account %d, want %d", logged.ID, account.ID)
	}
	if _, err := accounts.Login(ctx, "Gamer42", "wrong"); !errs.IsAuthRequired(err) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if _, err := accounts.Login(ctx, "nobody", "hunter22"); !errs.IsAuthRequired(err) {
		t.Fatalf("expected invalid credentials for an unknown user, got %v", err)
	}
}

func TestEnsureAdmin(t *testing.T) {
	ctx := context.Background()
	_, q := openTestDB(t)
	accounts := NewAccounts(q).WithCost(4)

	if err := accounts.EnsureAdmin(ctx, "", ""); err != nil {
		t.Fatalf("empty admin name should be ignored, got %v", err)
	}
	if err := accounts.EnsureAdmin(ctx, "root", ""); !errs.IsInvalidInput(err) {
		t.Fatalf("expected a missing password error, got %v", err)
	}
	if err := accounts.EnsureAdmin(ctx, "root", "toor-toor"); err != nil {
		t.Fatalf("ensure admin: %v", err)
	}
	if err := accounts.EnsureAdmin(ctx, "root", "toor-toor"); err != nil {
		t.Fatalf("ensure admin twice: %v", err)
	}
	admin, err := accounts.Login(ctx, "root", "toor-toor")
	if err != nil {
		t.Fatalf("admin login: %v", err)
	}
	if !admin.Admin {
		t.Fatalf("expected admin rights")
	}

	user, err := accounts.Register(ctx, "promoted", "secret1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := accounts.EnsureAdmin(ctx, "promoted", ""); err != nil {
		t.Fatalf("promote: %v", err)
	}
	promoted, err := accounts.Login(ctx, "promoted", "secret1")
	if err != nil || !promoted.Admin || promoted.ID != user.ID {
		t.Fatalf("expected %d to be promoted, got %+v, %v", user.ID, promoted, err)
	}
}

func TestUsernameIndexIgnoresCase(t *testing.T) {
	ctx := context.Background()
	_, q := openTestDB(t)
	accounts := NewAccounts(q).WithCost(4)

	if _, err := accounts.Register(ctx, "Bob", "secret1"); err != nil {
		t.Fatalf("register: %v", err)
	}

	// straight inserts skip the lookup in Register, the index still has to refuse them
	_, err := q.Execute(ctx, database.KindAccount, database.OpInsert, database.WithData(database.Fields{
		"Username":     "bob",
		"PasswordHash": "x",
	}))
	if !errs.IsConflict(err) {
		t.Fatalf("expected a conflict for bob, got %v", err)
	}

	carol, err := accounts.Register(ctx, "carol", "secret1")
	if err != nil {
		t.Fatalf("register carol: %v", err)
	}
	_, err = q.Execute(ctx, database.KindAccount, database.OpUpdate,
		database.ByID(uint64(carol.ID)).Set(database.Fields{"Username": "BOB"}))
	if !errs.IsConflict(err) {
		t.Fatalf("expected a conflict renaming carol to BOB, got %v", err)
	}
	if _, err := q.Execute(ctx, database.KindAccount, database.OpUpdate,
		database.ByID(uint64(carol.ID)).Set(database.Fields{"Admin": true})); err != nil {
		t.Fatalf("updates that keep the name must pass, got %v", err)
	}
}
