package store

import (
	"context"
	"errors"
	"testing"

	"github.com/repurpose/repurpose/internal/db"
	"github.com/repurpose/repurpose/internal/model"
)

func TestSendMessageAuthorization(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	donor := mustUser(t, database, "Donor", model.RoleIndividual)
	ngo := mustUser(t, database, "Helpers", model.RoleNGO)
	stranger := mustUser(t, database, "Stranger", model.RoleIndividual)
	item := mustItem(t, database, donor.ID, "Coats")

	// The owner may message anyone about their item.
	if _, err := SendMessage(ctx, database, item.ID, donor.ID, ngo.ID, "Still available"); err != nil {
		t.Errorf("owner sending: %v", err)
	}

	// Anyone may message the owner, request history or not.
	if _, err := SendMessage(ctx, database, item.ID, stranger.ID, donor.ID, "Is it warm?"); err != nil {
		t.Errorf("stranger messaging owner: %v", err)
	}

	// Two non-owners may not message each other about the item.
	_, err := SendMessage(ctx, database, item.ID, stranger.ID, ngo.ID, "psst")
	if !errors.Is(err, model.ErrForbidden) {
		t.Errorf("expected ErrForbidden for non-owner pair, got %v", err)
	}
}

func TestSendMessageValidation(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	donor := mustUser(t, database, "Donor", model.RoleIndividual)
	ngo := mustUser(t, database, "Helpers", model.RoleNGO)
	item := mustItem(t, database, donor.ID, "Coats")

	_, err := SendMessage(ctx, database, item.ID, ngo.ID, donor.ID, "   ")
	if !errors.Is(err, model.ErrValidation) {
		t.Errorf("expected ErrValidation for blank body, got %v", err)
	}

	_, err = SendMessage(ctx, database, 999, ngo.ID, donor.ID, "hello")
	if !errors.Is(err, model.ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing item, got %v", err)
	}

	_, err = SendMessage(ctx, database, item.ID, donor.ID, 999, "hello")
	if !errors.Is(err, model.ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing receiver, got %v", err)
	}
}

func TestGetConversationSymmetry(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	donor := mustUser(t, database, "Donor", model.RoleIndividual)
	ngo := mustUser(t, database, "Helpers", model.RoleNGO)
	item := mustItem(t, database, donor.ID, "Coats")

	SendMessage(ctx, database, item.ID, ngo.ID, donor.ID, "Can I collect it?")
	SendMessage(ctx, database, item.ID, donor.ID, ngo.ID, "Sure, tomorrow works")
	SendMessage(ctx, database, item.ID, ngo.ID, donor.ID, "Great, see you then")

	fromDonor, err := GetConversation(ctx, database, item.ID, donor.ID, ngo.ID)
	if err != nil {
		t.Fatalf("GetConversation (donor): %v", err)
	}
	fromNGO, err := GetConversation(ctx, database, item.ID, ngo.ID, donor.ID)
	if err != nil {
		t.Fatalf("GetConversation (ngo): %v", err)
	}

	if len(fromDonor) != 3 || len(fromNGO) != 3 {
		t.Fatalf("expected 3 messages from both views, got %d and %d", len(fromDonor), len(fromNGO))
	}
	for i := range fromDonor {
		if fromDonor[i].ID != fromNGO[i].ID {
			t.Errorf("views diverge at index %d: %d vs %d", i, fromDonor[i].ID, fromNGO[i].ID)
		}
	}

	// Ascending by creation time.
	for i := 1; i < len(fromDonor); i++ {
		if fromDonor[i].CreatedAt.Before(fromDonor[i-1].CreatedAt) {
			t.Errorf("messages out of order at index %d", i)
		}
	}
	if fromDonor[0].Body != "Can I collect it?" {
		t.Errorf("expected oldest message first, got %q", fromDonor[0].Body)
	}
}

func TestGetConversationForbiddenForOutsiders(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	donor := mustUser(t, database, "Donor", model.RoleIndividual)
	ngo := mustUser(t, database, "Helpers", model.RoleNGO)
	stranger := mustUser(t, database, "Stranger", model.RoleIndividual)
	item := mustItem(t, database, donor.ID, "Coats")

	SendMessage(ctx, database, item.ID, ngo.ID, donor.ID, "Can I collect it?")

	_, err := GetConversation(ctx, database, item.ID, stranger.ID, ngo.ID)
	if !errors.Is(err, model.ErrForbidden) {
		t.Errorf("expected ErrForbidden for outsider, got %v", err)
	}
}

func TestListConversationsGrouping(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	donor := mustUser(t, database, "Donor", model.RoleIndividual)
	ngo := mustUser(t, database, "Helpers", model.RoleNGO)
	shelter := mustUser(t, database, "Shelter", model.RoleNGO)
	coats := mustItem(t, database, donor.ID, "Coats")
	books := mustItem(t, database, donor.ID, "Books")

	SendMessage(ctx, database, coats.ID, ngo.ID, donor.ID, "Can I collect it?")
	SendMessage(ctx, database, coats.ID, donor.ID, ngo.ID, "Sure")
	SendMessage(ctx, database, coats.ID, shelter.ID, donor.ID, "We need these")
	SendMessage(ctx, database, books.ID, ngo.ID, donor.ID, "Books too please")

	conversations, err := ListConversations(ctx, database, donor.ID)
	if err != nil {
		t.Fatalf("ListConversations: %v", err)
	}

	// Three distinct (item, counterpart) pairs.
	if len(conversations) != 3 {
		t.Fatalf("expected 3 conversations, got %d", len(conversations))
	}

	// Newest thread first; the representative is the latest message.
	if conversations[0].ItemID != books.ID || conversations[0].LastMessage != "Books too please" {
		t.Errorf("unexpected newest conversation: %+v", conversations[0])
	}

	for _, c := range conversations {
		if c.ItemID == coats.ID && c.CounterpartID == ngo.ID {
			if c.LastMessage != "Sure" {
				t.Errorf("expected latest message 'Sure', got %q", c.LastMessage)
			}
			if c.CounterpartName != "Helpers" {
				t.Errorf("expected counterpart name resolved, got %q", c.CounterpartName)
			}
			if c.ItemTitle != "Coats" {
				t.Errorf("expected item title resolved, got %q", c.ItemTitle)
			}
		}
	}

	// Descending by last message time.
	for i := 1; i < len(conversations); i++ {
		if conversations[i].LastMessageTime.After(conversations[i-1].LastMessageTime) {
			t.Errorf("conversations out of order at index %d", i)
		}
	}

	// The counterpart sees the same thread from their side.
	ngoConversations, _ := ListConversations(ctx, database, ngo.ID)
	if len(ngoConversations) != 2 {
		t.Errorf("expected 2 conversations for ngo, got %d", len(ngoConversations))
	}
	for _, c := range ngoConversations {
		if c.CounterpartID != donor.ID {
			t.Errorf("expected donor as counterpart, got %d", c.CounterpartID)
		}
	}
}

func TestListConversationsEmpty(t *testing.T) {
	database := db.NewTestDB(t)

	loner := mustUser(t, database, "Loner", model.RoleIndividual)

	conversations, err := ListConversations(context.Background(), database, loner.ID)
	if err != nil {
		t.Fatalf("ListConversations: %v", err)
	}
	if len(conversations) != 0 {
		t.Errorf("expected no conversations, got %d", len(conversations))
	}
}
