package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/repurpose/repurpose/internal/model"
)

func mustUser(t *testing.T, db *sql.DB, name string, role model.Role) *model.User {
	t.Helper()
	user, err := CreateUser(context.Background(), db, name, name+"@example.com", "x", role)
	if err != nil {
		t.Fatalf("creating user %s: %v", name, err)
	}
	return user
}

func mustItem(t *testing.T, db *sql.DB, ownerID int64, title string) *model.Item {
	t.Helper()
	item, err := CreateItem(context.Background(), db, ownerID, 0, title, "", "")
	if err != nil {
		t.Fatalf("creating item %s: %v", title, err)
	}
	return item
}

func asPrincipal(u *model.User) model.Principal {
	return model.Principal{ID: u.ID, Name: u.Name, Role: u.Role}
}
