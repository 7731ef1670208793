package mysql

import (
	"context"
	"database/sql"
	"strings"

	"github.com/JooruBackend/jooru-backend-sub001/internal/domain"
)

func (r *Repo) CreateNotifications(ctx context.Context, ns []domain.Notification) error {
	if len(ns) == 0 {
		return nil
	}
	values := make([]string, 0, len(ns))
	args := make([]any, 0, len(ns)*4)
	for _, n := range ns {
		values = append(values, "(?,?,?,?)")
		args = append(args, n.UserID, string(n.Kind), valJSON(n.Payload), n.Queued)
	}
	sqlStr := `INSERT INTO notifications (user_id, kind, payload, queued) VALUES ` + strings.Join(values, ",")
	_, err := r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *Repo) ListNotifications(ctx context.Context, userID int64, pg domain.PageQuery) ([]domain.Notification, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id=?`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, kind, payload, is_read, queued, created_at
		 FROM notifications WHERE user_id=?
		 ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		userID, pg.PerPage, pg.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out, err := scanNotifications(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *Repo) MarkNotificationsRead(ctx context.Context, userID int64, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	args := []any{userID}
	for _, id := range ids {
		args = append(args, id)
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read=1 WHERE user_id=? AND id IN (`+placeholders(len(ids))+`)`,
		args...)
	return err
}

func (r *Repo) CountUnread(ctx context.Context, userID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id=? AND is_read=0`, userID).Scan(&n)
	return n, err
}

func (r *Repo) DequeueBatch(ctx context.Context, limit int) ([]domain.Notification, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx,
		`SELECT id, user_id, kind, payload, is_read, queued, created_at
		 FROM notifications WHERE queued=1 ORDER BY id LIMIT ? FOR UPDATE SKIP LOCKED`, limit)
	if err != nil {
		return nil, err
	}
	ns, err := scanNotifications(rows)
	if err != nil {
		return nil, err
	}
	if len(ns) == 0 {
		return nil, tx.Commit()
	}

	args := make([]any, 0, len(ns))
	for _, n := range ns {
		args = append(args, n.ID)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE notifications SET queued=0 WHERE id IN (`+placeholders(len(ns))+`)`, args...); err != nil {
		return nil, err
	}
	return ns, tx.Commit()
}

func scanNotifications(rows *sql.Rows) ([]domain.Notification, error) {
	defer rows.Close()
	var out []domain.Notification
	for rows.Next() {
		var n domain.Notification
		var payload []byte
		if err := rows.Scan(&n.ID, &n.UserID, &n.Kind, &payload, &n.Read, &n.Queued, &n.CreatedAt); err != nil {
			return nil, err
		}
		n.Payload = payload
		out = append(out, n)
	}
	return out, rows.Err()
}
