package adapter

import (
	"context"
	"testing"

	usersrepo "presupuestos_backend/internal/users/repository"
	"presupuestos_backend/platform/apperr"

	"github.com/google/uuid"
)

type readerStub struct{ user *usersrepo.User }

func (r readerStub) GetByID(context.Context, uuid.UUID) (usersrepo.User, error) {
	return usersrepo.User{}, apperr.NotFound("user not found")
}

func (r readerStub) GetByEmail(context.Context, string) (usersrepo.User, error) {
	if r.user == nil {
		return usersrepo.User{}, apperr.NotFound("user not found")
	}
	return *r.user, nil
}

func TestGetAccountByEmailMapsUser(t *testing.T) {
	user := usersrepo.User{ID: uuid.New(), Email: "ana@example.com", Role: "SALES", Active: true, PasswordHash: "hash"}
	account, err := NewUserAccountAdapter(readerStub{user: &user}).GetAccountByEmail(context.Background(), "ana@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if account.ID != user.ID || account.Role != "SALES" || !account.Active || account.PasswordHash != "hash" {
		t.Fatalf("unexpected account %+v", account)
	}
}

func TestGetAccountByEmailKeepsNotFound(t *testing.T) {
	_, err := NewUserAccountAdapter(readerStub{}).GetAccountByEmail(context.Background(), "nadie@example.com")
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
