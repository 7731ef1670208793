package mysql

import (
	"context"
	"database/sql"
	"strings"

	"github.com/JooruBackend/jooru-backend-sub001/internal/domain"
)

func (r *Repo) CreateRequest(ctx context.Context, sr domain.ServiceRequest) (int64, error) {
	res, err := r.db.ExecContext(ctx, insertRequestSQL,
		sr.ClientID, sr.Category, sr.Title, sr.Description,
		valStr(sr.Address), valF64(sr.Budget), string(sr.Status))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *Repo) GetRequest(ctx context.Context, id int64) (domain.ServiceRequest, error) {
	var sr domain.ServiceRequest
	var addr sql.NullString
	var budget sql.NullFloat64
	err := r.db.QueryRowContext(ctx, getRequestSQL, id).Scan(
		&sr.ID, &sr.ClientID, &sr.Category, &sr.Title, &sr.Description,
		&addr, &budget, &sr.Status, &sr.CreatedAt, &sr.UpdatedAt)
	if err == sql.ErrNoRows {
		return domain.ServiceRequest{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.ServiceRequest{}, err
	}
	sr.Address = nullStr(addr)
	sr.Budget = nullF64(budget)
	return sr, nil
}

func (r *Repo) SetRequestStatus(ctx context.Context, id int64, status domain.RequestStatus) error {
	_, err := r.db.ExecContext(ctx, `UPDATE service_requests SET status=? WHERE id=?`, string(status), id)
	return err
}

func (r *Repo) ListRequests(ctx context.Context, q domain.RequestsQuery) ([]domain.ServiceRequest, int, error) {
	var conds []string
	var args []any
	if q.ClientID != nil {
		conds = append(conds, "client_id = ?")
		args = append(args, *q.ClientID)
	}
	if q.Category != nil {
		conds = append(conds, "category = ?")
		args = append(args, *q.Category)
	}
	if q.Status != nil {
		conds = append(conds, "status = ?")
		args = append(args, string(*q.Status))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM service_requests`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	listArgs := append(args, q.PerPage, (q.Page-1)*q.PerPage)
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, client_id, category, title, description, address, budget, status, created_at, updated_at
		 FROM service_requests`+where+` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`, listArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []domain.ServiceRequest
	for rows.Next() {
		var sr domain.ServiceRequest
		var addr sql.NullString
		var budget sql.NullFloat64
		if err := rows.Scan(&sr.ID, &sr.ClientID, &sr.Category, &sr.Title, &sr.Description,
			&addr, &budget, &sr.Status, &sr.CreatedAt, &sr.UpdatedAt); err != nil {
			return nil, 0, err
		}
		sr.Address = nullStr(addr)
		sr.Budget = nullF64(budget)
		out = append(out, sr)
	}
	return out, total, rows.Err()
}

func (r *Repo) CreateQuote(ctx context.Context, q domain.Quote) (int64, error) {
	res, err := r.db.ExecContext(ctx, insertQuoteSQL,
		q.RequestID, q.ProfessionalID, q.Amount, valStr(q.Message), string(q.Status))
	if err != nil {
		if isDuplicate(err) {
			return 0, domain.ErrConflict
		}
		return 0, err
	}
	return res.LastInsertId()
}

func (r *Repo) GetQuote(ctx context.Context, id int64) (domain.Quote, error) {
	var q domain.Quote
	var msg sql.NullString
	err := r.db.QueryRowContext(ctx, getQuoteSQL, id).Scan(
		&q.ID, &q.RequestID, &q.ProfessionalID, &q.Amount, &msg, &q.Status, &q.CreatedAt, &q.UpdatedAt)
	if err == sql.ErrNoRows {
		return domain.Quote{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Quote{}, err
	}
	q.Message = nullStr(msg)
	return q, nil
}

func (r *Repo) SetQuoteStatus(ctx context.Context, id int64, status domain.QuoteStatus) error {
	_, err := r.db.ExecContext(ctx, `UPDATE quotes SET status=? WHERE id=?`, string(status), id)
	return err
}

func (r *Repo) AcceptQuote(ctx context.Context, requestID, quoteID int64) ([]int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Lock the request row first so two racing accepts serialize on it.
	var reqStatus string
	err = tx.QueryRowContext(ctx,
		`SELECT status FROM service_requests WHERE id=? FOR UPDATE`, requestID).Scan(&reqStatus)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if reqStatus != string(domain.RequestQuoted) {
		return nil, domain.ErrConflict
	}

	var quoteStatus string
	err = tx.QueryRowContext(ctx,
		`SELECT status FROM quotes WHERE id=? AND request_id=? FOR UPDATE`,
		quoteID, requestID).Scan(&quoteStatus)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if quoteStatus != string(domain.QuotePending) {
		return nil, domain.ErrConflict
	}

	rows, err := tx.QueryContext(ctx,
		`SELECT professional_id FROM quotes WHERE request_id=? AND id<>? AND status='pending'`,
		requestID, quoteID)
	if err != nil {
		return nil, err
	}
	var pros []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		pros = append(pros, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE quotes SET status='accepted' WHERE id=?`, quoteID); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE quotes SET status='rejected' WHERE request_id=? AND id<>? AND status='pending'`,
		requestID, quoteID); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE service_requests SET status='accepted' WHERE id=?`, requestID); err != nil {
		return nil, err
	}
	return pros, tx.Commit()
}

func (r *Repo) ListQuotes(ctx context.Context, requestID int64) ([]domain.Quote, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, request_id, professional_id, amount, message, status, created_at, updated_at
		 FROM quotes WHERE request_id=? ORDER BY created_at, id`, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Quote
	for rows.Next() {
		var q domain.Quote
		var msg sql.NullString
		if err := rows.Scan(&q.ID, &q.RequestID, &q.ProfessionalID, &q.Amount, &msg,
			&q.Status, &q.CreatedAt, &q.UpdatedAt); err != nil {
			return nil, err
		}
		q.Message = nullStr(msg)
		out = append(out, q)
	}
	return out, rows.Err()
}
