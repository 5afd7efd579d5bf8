package postgres

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"

	"github.com/workbenchhq/workbench/store"
)

// CreateChatSession creates a chat session.
func (d *DB) CreateChatSession(ctx context.Context, create *store.ChatSession) (*store.ChatSession, error) {
	stmt := `
		INSERT INTO chat_session (uid, tenant_id, creator_id, title, created_ts, updated_ts)
		VALUES (` + placeholders(6) + `)
		RETURNING id
	`
	err := d.db.QueryRowContext(ctx, stmt,
		create.UID,
		create.TenantID,
		create.CreatorID,
		create.Title,
		create.CreatedTs,
		create.UpdatedTs,
	).Scan(&create.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create chat session")
	}
	return create, nil
}

// ListChatSessions lists chat sessions ordered by update time descending.
func (d *DB) ListChatSessions(ctx context.Context, find *store.FindChatSession) ([]*store.ChatSession, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.ID != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *find.ID)
	}
	if find.UID != nil {
		where, args = append(where, "uid = "+placeholder(len(args)+1)), append(args, *find.UID)
	}
	if find.TenantID != nil {
		where, args = append(where, "tenant_id = "+placeholder(len(args)+1)), append(args, *find.TenantID)
	}
	if find.CreatorID != nil {
		where, args = append(where, "creator_id = "+placeholder(len(args)+1)), append(args, *find.CreatorID)
	}

	query := `
		SELECT id, uid, tenant_id, creator_id, title, created_ts, updated_ts
		FROM chat_session
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY updated_ts DESC
	`
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list chat sessions")
	}
	defer rows.Close()

	list := []*store.ChatSession{}
	for rows.Next() {
		var session store.ChatSession
		if err := rows.Scan(
			&session.ID,
			&session.UID,
			&session.TenantID,
			&session.CreatorID,
			&session.Title,
			&session.CreatedTs,
			&session.UpdatedTs,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan chat session")
		}
		list = append(list, &session)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

// UpdateChatSession updates a chat session.
func (d *DB) UpdateChatSession(ctx context.Context, update *store.UpdateChatSession) (*store.ChatSession, error) {
	set, args := []string{}, []any{}
	if update.Title != nil {
		set, args = append(set, "title = "+placeholder(len(args)+1)), append(args, *update.Title)
	}
	if update.UpdatedTs != nil {
		set, args = append(set, "updated_ts = "+placeholder(len(args)+1)), append(args, *update.UpdatedTs)
	}
	if len(set) == 0 {
		return nil, errors.New("no fields to update")
	}
	args = append(args, update.ID)

	stmt := `
		UPDATE chat_session
		SET ` + strings.Join(set, ", ") + `
		WHERE id = ` + placeholder(len(args)) + `
		RETURNING id, uid, tenant_id, creator_id, title, created_ts, updated_ts
	`
	var session store.ChatSession
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(
		&session.ID,
		&session.UID,
		&session.TenantID,
		&session.CreatorID,
		&session.Title,
		&session.CreatedTs,
		&session.UpdatedTs,
	); err != nil {
		return nil, errors.Wrap(err, "failed to update chat session")
	}
	return &session, nil
}

// DeleteChatSession deletes a chat session; messages cascade.
func (d *DB) DeleteChatSession(ctx context.Context, delete *store.DeleteChatSession) error {
	stmt := `DELETE FROM chat_session WHERE id = $1`
	if _, err := d.db.ExecContext(ctx, stmt, delete.ID); err != nil {
		return errors.Wrap(err, "failed to delete chat session")
	}
	return nil
}

// CreateChatMessagePair appends a user message and the assistant reply in a
// single transaction so a failure never leaves a half-written exchange.
func (d *DB) CreateChatMessagePair(ctx context.Context, userMsg, assistantMsg *store.ChatMessage) ([]*store.ChatMessage, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	stmt := `
		INSERT INTO chat_message (uid, session_id, role, content, citations, created_ts)
		VALUES (` + placeholders(6) + `)
		RETURNING id
	`
	for _, msg := range []*store.ChatMessage{userMsg, assistantMsg} {
		citations, err := json.Marshal(msg.Citations)
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal citations")
		}
		if msg.Citations == nil {
			citations = []byte("[]")
		}
		if err := tx.QueryRowContext(ctx, stmt,
			msg.UID,
			msg.SessionID,
			msg.Role,
			msg.Content,
			string(citations),
			msg.CreatedTs,
		).Scan(&msg.ID); err != nil {
			return nil, errors.Wrap(err, "failed to create chat message")
		}
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE chat_session SET updated_ts = $1 WHERE id = $2`,
		assistantMsg.CreatedTs, assistantMsg.SessionID,
	); err != nil {
		return nil, errors.Wrap(err, "failed to touch chat session")
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "failed to commit message pair")
	}
	return []*store.ChatMessage{userMsg, assistantMsg}, nil
}

// ListChatMessages lists chat messages in chronological order.
func (d *DB) ListChatMessages(ctx context.Context, find *store.FindChatMessage) ([]*store.ChatMessage, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.ID != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *find.ID)
	}
	if find.SessionID != nil {
		where, args = append(where, "session_id = "+placeholder(len(args)+1)), append(args, *find.SessionID)
	}

	query := `
		SELECT id, uid, session_id, role, content, citations, created_ts
		FROM chat_message
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_ts ASC, id ASC
	`
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list chat messages")
	}
	defer rows.Close()

	list := []*store.ChatMessage{}
	for rows.Next() {
		var msg store.ChatMessage
		var citations string
		if err := rows.Scan(
			&msg.ID,
			&msg.UID,
			&msg.SessionID,
			&msg.Role,
			&msg.Content,
			&citations,
			&msg.CreatedTs,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan chat message")
		}
		if err := json.Unmarshal([]byte(citations), &msg.Citations); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal citations")
		}
		list = append(list, &msg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}
