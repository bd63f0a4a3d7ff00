package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/repurpose/repurpose/internal/model"
)

// CreateItem registers a donated item offered by its owner.
func CreateItem(ctx context.Context, db *sql.DB, ownerID, categoryID int64, title, description, location string) (*model.Item, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", model.ErrValidation)
	}

	var category sql.NullInt64
	if categoryID > 0 {
		category = sql.NullInt64{Int64: categoryID, Valid: true}
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO items (owner_id, category_id, title, description, location) VALUES (?, ?, ?, ?, ?)`,
		ownerID, category, title, description, location,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting item id: %w", err)
	}

	return GetItem(ctx, db, id)
}

// GetItem returns an item by ID, or nil if absent or deleted.
func GetItem(ctx context.Context, db *sql.DB, id int64) (*model.Item, error) {
	item := &model.Item{}
	var category sql.NullInt64
	var description, location sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT i.id, i.owner_id, i.category_id, i.title, i.description, i.location, i.status,
		        i.created_at, i.updated_at, u.name AS owner_name
		 FROM items i
		 JOIN users u ON u.id = i.owner_id
		 WHERE i.id = ? AND i.deleted_at IS NULL`, id,
	).Scan(&item.ID, &item.OwnerID, &category, &item.Title, &description, &location,
		&item.Status, &item.CreatedAt, &item.UpdatedAt, &item.OwnerName)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	item.CategoryID = category.Int64
	item.Description = description.String
	item.Location = location.String
	return item, nil
}

// ListItems returns all non-deleted items, optionally filtered by category
// and status.
func ListItems(ctx context.Context, db *sql.DB, categoryID int64, status string) ([]model.Item, error) {
	query := `SELECT i.id, i.owner_id, i.category_id, i.title, i.description, i.location, i.status,
	                 i.created_at, i.updated_at, u.name AS owner_name
	          FROM items i
	          JOIN users u ON u.id = i.owner_id
	          WHERE i.deleted_at IS NULL`
	var args []any

	if categoryID > 0 {
		query += ` AND i.category_id = ?`
		args = append(args, categoryID)
	}
	if status != "" {
		query += ` AND i.status = ?`
		args = append(args, status)
	}

	query += ` ORDER BY i.created_at DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		var item model.Item
		var category sql.NullInt64
		var description, location sql.NullString
		if err := rows.Scan(&item.ID, &item.OwnerID, &category, &item.Title, &description, &location,
			&item.Status, &item.CreatedAt, &item.UpdatedAt, &item.OwnerName); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		item.CategoryID = category.Int64
		item.Description = description.String
		item.Location = location.String
		items = append(items, item)
	}
	return items, rows.Err()
}

// DeleteItem soft-deletes an item. Only the owner or an admin may delete.
func DeleteItem(ctx context.Context, db *sql.DB, id int64, actor model.Principal) error {
	item, err := GetItem(ctx, db, id)
	if err != nil {
		return err
	}
	if item == nil {
		return fmt.Errorf("%w: item %d", model.ErrNotFound, id)
	}
	if item.OwnerID != actor.ID && !actor.IsAdmin() {
		return fmt.Errorf("%w: only the owner or an admin may delete an item", model.ErrForbidden)
	}

	_, err = db.ExecContext(ctx,
		`UPDATE items SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`, id,
	)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	return nil
}

// ListCategories returns all item categories.
func ListCategories(ctx context.Context, db *sql.DB) ([]model.Category, error) {
	rows, err := db.QueryContext(ctx, `SELECT id, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}
