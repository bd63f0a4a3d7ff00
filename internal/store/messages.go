package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/repurpose/repurpose/internal/model"
)

// authorizeThread checks whether self may exchange messages with other
// about the given item. The item's owner may talk to anyone; everyone else
// may only talk to the owner. Returns the item owner's ID.
func authorizeThread(ctx context.Context, db *sql.DB, itemID, self, other int64) (int64, error) {
	item, err := GetItem(ctx, db, itemID)
	if err != nil {
		return 0, err
	}
	if item == nil {
		return 0, fmt.Errorf("%w: item %d", model.ErrNotFound, itemID)
	}

	if self != item.OwnerID && other != item.OwnerID {
		return 0, fmt.Errorf("%w: you can only message the owner of this item", model.ErrForbidden)
	}
	return item.OwnerID, nil
}

// SendMessage validates, authorizes and appends a message about an item.
// The timestamp is assigned here, never by the caller.
func SendMessage(ctx context.Context, db *sql.DB, itemID, senderID, receiverID int64, body string) (*model.Message, error) {
	if strings.TrimSpace(body) == "" {
		return nil, fmt.Errorf("%w: message body must not be empty", model.ErrValidation)
	}

	if _, err := authorizeThread(ctx, db, itemID, senderID, receiverID); err != nil {
		return nil, err
	}

	receiver, err := GetUser(ctx, db, receiverID)
	if err != nil {
		return nil, err
	}
	if receiver == nil || receiver.DeletedAt != nil {
		return nil, fmt.Errorf("%w: receiver %d", model.ErrNotFound, receiverID)
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO messages (item_id, sender_id, receiver_id, body, created_at) VALUES (?, ?, ?, ?, ?)`,
		itemID, senderID, receiverID, body, time.Now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("sending message: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting message id: %w", err)
	}

	return getMessage(ctx, db, id)
}

func getMessage(ctx context.Context, db *sql.DB, id int64) (*model.Message, error) {
	m := &model.Message{}
	err := db.QueryRowContext(ctx,
		`SELECT m.id, m.item_id, m.sender_id, m.receiver_id, m.body, m.created_at, u.name AS sender_name
		 FROM messages m
		 JOIN users u ON u.id = m.sender_id
		 WHERE m.id = ?`, id,
	).Scan(&m.ID, &m.ItemID, &m.SenderID, &m.ReceiverID, &m.Body, &m.CreatedAt, &m.SenderName)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: message %d", model.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("getting message: %w", err)
	}
	return m, nil
}

// GetConversation returns the full thread between self and other about an
// item, both directions, oldest first. The authorization rule is the same
// as for sending, so the thread looks identical from either side.
func GetConversation(ctx context.Context, db *sql.DB, itemID, self, other int64) ([]model.Message, error) {
	if _, err := authorizeThread(ctx, db, itemID, self, other); err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx,
		`SELECT m.id, m.item_id, m.sender_id, m.receiver_id, m.body, m.created_at, u.name AS sender_name
		 FROM messages m
		 JOIN users u ON u.id = m.sender_id
		 WHERE m.item_id = ?
		   AND ((m.sender_id = ? AND m.receiver_id = ?) OR (m.sender_id = ? AND m.receiver_id = ?))
		 ORDER BY m.created_at ASC, m.id ASC`,
		itemID, self, other, other, self,
	)
	if err != nil {
		return nil, fmt.Errorf("getting conversation: %w", err)
	}
	defer rows.Close()

	var messages []model.Message
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.ItemID, &m.SenderID, &m.ReceiverID, &m.Body, &m.CreatedAt, &m.SenderName); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// threadKey identifies one conversation: one counterpart about one item.
type threadKey struct {
	itemID        int64
	counterpartID int64
}

// representative tracks the newest message seen so far for a thread.
type representative struct {
	conv      model.Conversation
	messageID int64
}

// ListConversations summarizes all of self's message threads, one row per
// (item, counterpart) pair, newest thread first. It is a single streaming
// pass over self's messages: each row either starts a group or replaces the
// group's representative when it is newer, so the work stays linear in the
// number of messages.
func ListConversations(ctx context.Context, db *sql.DB, self int64) ([]model.Conversation, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT m.id, m.item_id, m.body, m.created_at,
		        CASE WHEN m.sender_id = ? THEN m.receiver_id ELSE m.sender_id END AS counterpart_id,
		        CASE WHEN m.sender_id = ? THEN ru.name ELSE su.name END AS counterpart_name,
		        i.title AS item_title
		 FROM messages m
		 JOIN users su ON su.id = m.sender_id
		 JOIN users ru ON ru.id = m.receiver_id
		 JOIN items i ON i.id = m.item_id
		 WHERE m.sender_id = ? OR m.receiver_id = ?`,
		self, self, self, self,
	)
	if err != nil {
		return nil, fmt.Errorf("listing conversations: %w", err)
	}
	defer rows.Close()

	threads := make(map[threadKey]representative)
	for rows.Next() {
		var id, itemID, counterpartID int64
		var body, counterpartName, itemTitle string
		var createdAt time.Time
		if err := rows.Scan(&id, &itemID, &body, &createdAt, &counterpartID, &counterpartName, &itemTitle); err != nil {
			return nil, fmt.Errorf("scanning conversation message: %w", err)
		}

		key := threadKey{itemID: itemID, counterpartID: counterpartID}
		rep, seen := threads[key]
		if seen && !newer(createdAt, id, rep.conv.LastMessageTime, rep.messageID) {
			continue
		}
		threads[key] = representative{
			messageID: id,
			conv: model.Conversation{
				ItemID:          itemID,
				ItemTitle:       itemTitle,
				CounterpartID:   counterpartID,
				CounterpartName: counterpartName,
				LastMessage:     body,
				LastMessageTime: createdAt,
			},
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing conversations: %w", err)
	}

	conversations := lo.Map(lo.Values(threads), func(rep representative, _ int) model.Conversation {
		return rep.conv
	})
	sort.Slice(conversations, func(i, j int) bool {
		a, b := conversations[i], conversations[j]
		if !a.LastMessageTime.Equal(b.LastMessageTime) {
			return a.LastMessageTime.After(b.LastMessageTime)
		}
		if a.ItemID != b.ItemID {
			return a.ItemID < b.ItemID
		}
		return a.CounterpartID < b.CounterpartID
	})
	return conversations, nil
}

// newer reports whether message a is newer than message b, using the row ID
// to break timestamp ties.
func newer(aTime time.Time, aID int64, bTime time.Time, bID int64) bool {
	if !aTime.Equal(bTime) {
		return aTime.After(bTime)
	}
	return aID > bID
}
