package model

import "time"

// Item is a donated physical item offered by its owner.
type Item struct {
	ID          int64      `json:"id"`
	OwnerID     int64      `json:"owner_id"`
	CategoryID  int64      `json:"category_id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Location    string     `json:"location,omitempty"`
	Status      string     `json:"status"`
	OwnerName   string     `json:"owner_name,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}

// Item statuses.
const (
	ItemStatusAvailable = "available"
	ItemStatusReserved  = "reserved"
	ItemStatusDonated   = "donated"
)

// Category is a lookup value for grouping items.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
