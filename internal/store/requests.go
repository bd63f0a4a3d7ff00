package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/repurpose/repurpose/internal/model"
)

// CreateRequest records a user's intent to receive an item. Requests are
// born pending. Requesting your own item is rejected.
func CreateRequest(ctx context.Context, db *sql.DB, itemID, requesterID int64) (*model.Request, error) {
	item, err := GetItem(ctx, db, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: item %d", model.ErrNotFound, itemID)
	}
	if item.OwnerID == requesterID {
		return nil, fmt.Errorf("%w: cannot request your own item", model.ErrValidation)
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO requests (item_id, requester_id, status) VALUES (?, ?, ?)`,
		itemID, requesterID, string(model.RequestPending),
	)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting request id: %w", err)
	}

	return GetRequest(ctx, db, id)
}

// GetRequest returns a request by ID, or nil if absent.
func GetRequest(ctx context.Context, db *sql.DB, id int64) (*model.Request, error) {
	r := &model.Request{}
	var status string
	err := db.QueryRowContext(ctx,
		`SELECT r.id, r.item_id, r.requester_id, r.status, r.created_at,
		        u.name AS requester_name, i.title AS item_title
		 FROM requests r
		 JOIN users u ON u.id = r.requester_id
		 JOIN items i ON i.id = r.item_id
		 WHERE r.id = ?`, id,
	).Scan(&r.ID, &r.ItemID, &r.RequesterID, &status, &r.CreatedAt, &r.RequesterName, &r.ItemTitle)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting request: %w", err)
	}
	r.Status = model.RequestStatus(status)
	return r, nil
}

// ListRequests returns requests joined with requester and item names,
// optionally filtered by status.
func ListRequests(ctx context.Context, db *sql.DB, status model.RequestStatus) ([]model.Request, error) {
	if status != "" && !model.ValidRequestStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", model.ErrValidation, status)
	}

	query := `SELECT r.id, r.item_id, r.requester_id, r.status, r.created_at,
	                 u.name AS requester_name, i.title AS item_title
	          FROM requests r
	          JOIN users u ON u.id = r.requester_id
	          JOIN items i ON i.id = r.item_id`
	var args []any

	if status != "" {
		query += ` WHERE r.status = ?`
		args = append(args, string(status))
	}

	query += ` ORDER BY r.created_at DESC, r.id DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing requests: %w", err)
	}
	defer rows.Close()

	var requests []model.Request
	for rows.Next() {
		var r model.Request
		var s string
		if err := rows.Scan(&r.ID, &r.ItemID, &r.RequesterID, &s, &r.CreatedAt, &r.RequesterName, &r.ItemTitle); err != nil {
			return nil, fmt.Errorf("scanning request: %w", err)
		}
		r.Status = model.RequestStatus(s)
		requests = append(requests, r)
	}
	return requests, rows.Err()
}

// TransitionRequest moves a request to a new lifecycle status. Admins
// approve and reject; the item's owner or an admin completes. Completing a
// request credits the item owner in the same transaction, so the status
// change and the points credit can never diverge. The status-guarded UPDATE
// makes the credit idempotent: once completed, a request can never be
// completed (or credited) again.
func TransitionRequest(ctx context.Context, db *sql.DB, id int64, target model.RequestStatus, actor model.Principal) (*model.Request, error) {
	if !model.ValidRequestStatus(target) {
		return nil, fmt.Errorf("%w: unknown status %q", model.ErrValidation, target)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var itemID, ownerID int64
	var current string
	err = tx.QueryRowContext(ctx,
		`SELECT r.item_id, r.status, i.owner_id
		 FROM requests r
		 JOIN items i ON i.id = r.item_id
		 WHERE r.id = ?`, id,
	).Scan(&itemID, &current, &ownerID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: request %d", model.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("getting request: %w", err)
	}

	switch target {
	case model.RequestCompleted:
		if !actor.IsAdmin() && actor.ID != ownerID {
			return nil, fmt.Errorf("%w: only an admin or the item owner may complete a request", model.ErrForbidden)
		}
	default:
		if !actor.IsAdmin() {
			return nil, fmt.Errorf("%w: only an admin may change request status", model.ErrForbidden)
		}
	}

	source, ok := model.TransitionSource(target)
	if !ok || model.RequestStatus(current) != source {
		return nil, fmt.Errorf("%w: cannot transition request from %s to %s", model.ErrConflict, current, target)
	}

	// The status guard re-checks under the write lock so that two concurrent
	// transitions cannot both succeed.
	result, err := tx.ExecContext(ctx,
		`UPDATE requests SET status = ? WHERE id = ? AND status = ?`,
		string(target), id, string(source),
	)
	if err != nil {
		return nil, fmt.Errorf("updating request status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("checking update result: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("%w: cannot transition request from %s to %s", model.ErrConflict, current, target)
	}

	if target == model.RequestCompleted {
		if err := CreditPoints(ctx, tx, ownerID, model.CompletionPoints); err != nil {
			return nil, err
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE items SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
			model.ItemStatusDonated, itemID,
		); err != nil {
			return nil, fmt.Errorf("marking item donated: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transition: %w", err)
	}

	return GetRequest(ctx, db, id)
}

// DeleteRequest hard-deletes a request. Only the original requester or an
// admin may delete.
func DeleteRequest(ctx context.Context, db *sql.DB, id int64, actor model.Principal) error {
	var requesterID int64
	err := db.QueryRowContext(ctx,
		`SELECT requester_id FROM requests WHERE id = ?`, id,
	).Scan(&requesterID)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: request %d", model.ErrNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("getting request: %w", err)
	}

	if requesterID != actor.ID && !actor.IsAdmin() {
		return fmt.Errorf("%w: only the requester or an admin may delete a request", model.ErrForbidden)
	}

	if _, err := db.ExecContext(ctx, `DELETE FROM requests WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting request: %w", err)
	}
	return nil
}
