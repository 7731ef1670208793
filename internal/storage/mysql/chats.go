package mysql

import (
	"context"
	"database/sql"

	"github.com/JooruBackend/jooru-backend-sub001/internal/domain"
)

// EnsureChat inserts the chat for a request or returns the existing one.
// LAST_INSERT_ID(id) in the upsert makes LastInsertId yield the surviving row.
func (r *Repo) EnsureChat(ctx context.Context, c domain.Chat) (domain.Chat, error) {
	res, err := r.db.ExecContext(ctx, ensureChatSQL, c.RequestID, c.ClientID, c.ProfessionalID)
	if err != nil {
		return domain.Chat{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Chat{}, err
	}
	return r.GetChat(ctx, id)
}

func (r *Repo) GetChat(ctx context.Context, id int64) (domain.Chat, error) {
	var c domain.Chat
	err := r.db.QueryRowContext(ctx, getChatSQL, id).Scan(
		&c.ID, &c.RequestID, &c.ClientID, &c.ProfessionalID, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return domain.Chat{}, domain.ErrNotFound
	}
	return c, err
}

func (r *Repo) ListChatsFor(ctx context.Context, userID int64) ([]domain.Chat, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, request_id, client_id, professional_id, created_at
		 FROM chats WHERE client_id=? OR professional_id=? ORDER BY created_at DESC`,
		userID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Chat
	for rows.Next() {
		var c domain.Chat
		if err := rows.Scan(&c.ID, &c.RequestID, &c.ClientID, &c.ProfessionalID, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repo) AppendMessage(ctx context.Context, m domain.Message) error {
	_, err := r.db.ExecContext(ctx, insertMessageSQL, m.ID, m.ChatID, m.SenderID, m.Body)
	if isDuplicate(err) {
		return domain.ErrConflict
	}
	return err
}

func (r *Repo) ListMessages(ctx context.Context, chatID int64, pg domain.PageQuery) ([]domain.Message, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM messages WHERE chat_id=?`, chatID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, chat_id, sender_id, body, created_at, read_at
		 FROM messages WHERE chat_id=?
		 ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		chatID, pg.PerPage, pg.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []domain.Message
	for rows.Next() {
		var m domain.Message
		var readAt sql.NullTime
		if err := rows.Scan(&m.ID, &m.ChatID, &m.SenderID, &m.Body, &m.CreatedAt, &readAt); err != nil {
			return nil, 0, err
		}
		if readAt.Valid {
			t := readAt.Time
			m.ReadAt = &t
		}
		out = append(out, m)
	}
	return out, total, rows.Err()
}

// MarkRead stamps read_at on the given messages, but only those sent by the
// reader's peer; a sender cannot mark its own messages read.
func (r *Repo) MarkRead(ctx context.Context, chatID int64, readerID int64, messageIDs []string) error {
	if len(messageIDs) == 0 {
		return nil
	}
	args := []any{chatID, readerID}
	for _, id := range messageIDs {
		args = append(args, id)
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE messages SET read_at=CURRENT_TIMESTAMP
		 WHERE chat_id=? AND sender_id<>? AND read_at IS NULL AND id IN (`+placeholders(len(messageIDs))+`)`,
		args...)
	return err
}
