package store

import (
	"context"
	"errors"
	"testing"

	"github.com/repurpose/repurpose/internal/db"
	"github.com/repurpose/repurpose/internal/model"
)

func TestCreateRequestStartsPending(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	donor := mustUser(t, database, "Donor", model.RoleIndividual)
	ngo := mustUser(t, database, "Helpers", model.RoleNGO)
	item := mustItem(t, database, donor.ID, "Winter coats")

	request, err := CreateRequest(ctx, database, item.ID, ngo.ID)
	if err != nil {
		t.Fatalf("CreateRequest: %v", err)
	}
	if request.Status != model.RequestPending {
		t.Errorf("expected pending, got %s", request.Status)
	}
	if request.ItemTitle != "Winter coats" || request.RequesterName != "Helpers" {
		t.Errorf("expected joined names, got %+v", request)
	}
}

func TestCreateRequestOwnItemRejected(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	donor := mustUser(t, database, "Donor", model.RoleIndividual)
	item := mustItem(t, database, donor.ID, "Bookshelf")

	_, err := CreateRequest(ctx, database, item.ID, donor.ID)
	if !errors.Is(err, model.ErrValidation) {
		t.Errorf("expected ErrValidation for own-item request, got %v", err)
	}
}

func TestCreateRequestMissingItem(t *testing.T) {
	database := db.NewTestDB(t)

	ngo := mustUser(t, database, "Helpers", model.RoleNGO)

	_, err := CreateRequest(context.Background(), database, 999, ngo.ID)
	if !errors.Is(err, model.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestTransitionUnknownStatus(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	donor := mustUser(t, database, "Donor", model.RoleIndividual)
	ngo := mustUser(t, database, "Helpers", model.RoleNGO)
	admin := mustUser(t, database, "Admin", model.RoleAdmin)
	item := mustItem(t, database, donor.ID, "Lamp")
	request, _ := CreateRequest(ctx, database, item.ID, ngo.ID)

	_, err := TransitionRequest(ctx, database, request.ID, "archived", asPrincipal(admin))
	if !errors.Is(err, model.ErrValidation) {
		t.Errorf("expected ErrValidation for unknown status, got %v", err)
	}
}

func TestTransitionAuthorization(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	donor := mustUser(t, database, "Donor", model.RoleIndividual)
	ngo := mustUser(t, database, "Helpers", model.RoleNGO)
	item := mustItem(t, database, donor.ID, "Lamp")
	request, _ := CreateRequest(ctx, database, item.ID, ngo.ID)

	// Only an admin may approve; not the requester, not even the item owner.
	for _, actor := range []*model.User{ngo, donor} {
		_, err := TransitionRequest(ctx, database, request.ID, model.RequestApproved, asPrincipal(actor))
		if !errors.Is(err, model.ErrForbidden) {
			t.Errorf("expected ErrForbidden for %s approving, got %v", actor.Name, err)
		}
	}
}

func TestCompleteCreditsOwnerOnce(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	donor := mustUser(t, database, "Donor", model.RoleIndividual)
	ngo := mustUser(t, database, "Helpers", model.RoleNGO)
	admin := mustUser(t, database, "Admin", model.RoleAdmin)
	item := mustItem(t, database, donor.ID, "Lamp")
	request, _ := CreateRequest(ctx, database, item.ID, ngo.ID)

	if _, err := TransitionRequest(ctx, database, request.ID, model.RequestApproved, asPrincipal(admin)); err != nil {
		t.Fatalf("approve: %v", err)
	}

	updated, err := TransitionRequest(ctx, database, request.ID, model.RequestCompleted, asPrincipal(admin))
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if updated.Status != model.RequestCompleted {
		t.Errorf("expected completed, got %s", updated.Status)
	}

	points, _ := GetPoints(ctx, database, donor.ID)
	if points != model.CompletionPoints {
		t.Errorf("expected owner to have %d points, got %d", model.CompletionPoints, points)
	}

	// Completing again must conflict and must not credit again.
	_, err = TransitionRequest(ctx, database, request.ID, model.RequestCompleted, asPrincipal(admin))
	if !errors.Is(err, model.ErrConflict) {
		t.Errorf("expected ErrConflict for duplicate completion, got %v", err)
	}
	points, _ = GetPoints(ctx, database, donor.ID)
	if points != model.CompletionPoints {
		t.Errorf("duplicate completion double-credited: %d points", points)
	}

	// The completed item is marked donated.
	got, _ := GetItem(ctx, database, item.ID)
	if got.Status != model.ItemStatusDonated {
		t.Errorf("expected item donated, got %s", got.Status)
	}
}

func TestOwnerMayComplete(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	donor := mustUser(t, database, "Donor", model.RoleIndividual)
	ngo := mustUser(t, database, "Helpers", model.RoleNGO)
	admin := mustUser(t, database, "Admin", model.RoleAdmin)
	item := mustItem(t, database, donor.ID, "Chairs")
	request, _ := CreateRequest(ctx, database, item.ID, ngo.ID)

	TransitionRequest(ctx, database, request.ID, model.RequestApproved, asPrincipal(admin))

	if _, err := TransitionRequest(ctx, database, request.ID, model.RequestCompleted, asPrincipal(donor)); err != nil {
		t.Fatalf("owner completing: %v", err)
	}

	// The requester may not complete.
	request2, _ := CreateRequest(ctx, database, mustItem(t, database, donor.ID, "Desk").ID, ngo.ID)
	TransitionRequest(ctx, database, request2.ID, model.RequestApproved, asPrincipal(admin))
	_, err := TransitionRequest(ctx, database, request2.ID, model.RequestCompleted, asPrincipal(ngo))
	if !errors.Is(err, model.ErrForbidden) {
		t.Errorf("expected ErrForbidden for requester completing, got %v", err)
	}
}

func TestIllegalTransitions(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	donor := mustUser(t, database, "Donor", model.RoleIndividual)
	ngo := mustUser(t, database, "Helpers", model.RoleNGO)
	admin := mustUser(t, database, "Admin", model.RoleAdmin)
	item := mustItem(t, database, donor.ID, "Lamp")
	request, _ := CreateRequest(ctx, database, item.ID, ngo.ID)

	// pending → completed skips approval.
	_, err := TransitionRequest(ctx, database, request.ID, model.RequestCompleted, asPrincipal(admin))
	if !errors.Is(err, model.ErrConflict) {
		t.Errorf("expected ErrConflict for pending → completed, got %v", err)
	}

	// rejected is terminal.
	TransitionRequest(ctx, database, request.ID, model.RequestRejected, asPrincipal(admin))
	_, err = TransitionRequest(ctx, database, request.ID, model.RequestApproved, asPrincipal(admin))
	if !errors.Is(err, model.ErrConflict) {
		t.Errorf("expected ErrConflict for rejected → approved, got %v", err)
	}

	// Nothing transitions back to pending.
	_, err = TransitionRequest(ctx, database, request.ID, model.RequestPending, asPrincipal(admin))
	if !errors.Is(err, model.ErrConflict) {
		t.Errorf("expected ErrConflict for → pending, got %v", err)
	}
}

func TestTransitionMissingRequest(t *testing.T) {
	database := db.NewTestDB(t)

	admin := mustUser(t, database, "Admin", model.RoleAdmin)

	_, err := TransitionRequest(context.Background(), database, 12345, model.RequestApproved, asPrincipal(admin))
	if !errors.Is(err, model.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListRequestsFiltered(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	donor := mustUser(t, database, "Donor", model.RoleIndividual)
	ngo := mustUser(t, database, "Helpers", model.RoleNGO)
	admin := mustUser(t, database, "Admin", model.RoleAdmin)

	r1, _ := CreateRequest(ctx, database, mustItem(t, database, donor.ID, "A").ID, ngo.ID)
	CreateRequest(ctx, database, mustItem(t, database, donor.ID, "B").ID, ngo.ID)
	TransitionRequest(ctx, database, r1.ID, model.RequestApproved, asPrincipal(admin))

	all, err := ListRequests(ctx, database, "")
	if err != nil {
		t.Fatalf("ListRequests: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 requests, got %d", len(all))
	}

	pending, _ := ListRequests(ctx, database, model.RequestPending)
	if len(pending) != 1 {
		t.Errorf("expected 1 pending request, got %d", len(pending))
	}

	if _, err := ListRequests(ctx, database, "bogus"); !errors.Is(err, model.ErrValidation) {
		t.Errorf("expected ErrValidation for bogus filter, got %v", err)
	}
}

func TestDeleteRequest(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	donor := mustUser(t, database, "Donor", model.RoleIndividual)
	ngo := mustUser(t, database, "Helpers", model.RoleNGO)
	other := mustUser(t, database, "Other", model.RoleIndividual)
	item := mustItem(t, database, donor.ID, "Lamp")
	request, _ := CreateRequest(ctx, database, item.ID, ngo.ID)

	// A third party (even the item owner) may not delete.
	for _, actor := range []*model.User{other, donor} {
		if err := DeleteRequest(ctx, database, request.ID, asPrincipal(actor)); !errors.Is(err, model.ErrForbidden) {
			t.Errorf("expected ErrForbidden for %s deleting, got %v", actor.Name, err)
		}
	}

	if err := DeleteRequest(ctx, database, request.ID, asPrincipal(ngo)); err != nil {
		t.Fatalf("requester deleting: %v", err)
	}

	if err := DeleteRequest(ctx, database, request.ID, asPrincipal(ngo)); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}
