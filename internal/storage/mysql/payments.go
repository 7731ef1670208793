package mysql

import (
	"context"
	"database/sql"

	"github.com/JooruBackend/jooru-backend-sub001/internal/domain"
)

func (r *Repo) CreatePayment(ctx context.Context, p domain.Payment) (int64, error) {
	res, err := r.db.ExecContext(ctx, insertPaymentSQL,
		p.QuoteID, p.PayerID, p.PayeeID, p.Amount, p.Currency, p.Reference, string(p.Status))
	if err != nil {
		if isDuplicate(err) {
			return 0, domain.ErrConflict
		}
		return 0, err
	}
	return res.LastInsertId()
}

func (r *Repo) GetPayment(ctx context.Context, id int64) (domain.Payment, error) {
	var p domain.Payment
	err := r.db.QueryRowContext(ctx, getPaymentSQL, id).Scan(
		&p.ID, &p.QuoteID, &p.PayerID, &p.PayeeID, &p.Amount, &p.Currency,
		&p.Reference, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return domain.Payment{}, domain.ErrNotFound
	}
	return p, err
}

func (r *Repo) SetPaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus) error {
	_, err := r.db.ExecContext(ctx, `UPDATE payments SET status=? WHERE id=?`, string(status), id)
	return err
}

func (r *Repo) ListPayments(ctx context.Context, q domain.PaymentsQuery) ([]domain.Payment, int, error) {
	where := ` WHERE (payer_id = ? OR payee_id = ?)`
	args := []any{q.UserID, q.UserID}
	if q.Status != nil {
		where += ` AND status = ?`
		args = append(args, string(*q.Status))
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM payments`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, q.PerPage, (q.Page-1)*q.PerPage)
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, quote_id, payer_id, payee_id, amount, currency, reference, status, created_at, updated_at
		 FROM payments`+where+` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []domain.Payment
	for rows.Next() {
		var p domain.Payment
		if err := rows.Scan(&p.ID, &p.QuoteID, &p.PayerID, &p.PayeeID, &p.Amount,
			&p.Currency, &p.Reference, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

func (r *Repo) CreateInvoice(ctx context.Context, inv domain.Invoice) (int64, error) {
	res, err := r.db.ExecContext(ctx, insertInvoiceSQL, inv.PaymentID, inv.Number, valJSON(inv.ItemsJSON))
	if err != nil {
		if isDuplicate(err) {
			return 0, domain.ErrConflict
		}
		return 0, err
	}
	return res.LastInsertId()
}

func (r *Repo) GetInvoice(ctx context.Context, id int64) (domain.Invoice, error) {
	var inv domain.Invoice
	var items []byte
	err := r.db.QueryRowContext(ctx, getInvoiceSQL, id).Scan(
		&inv.ID, &inv.PaymentID, &inv.Number, &inv.IssuedAt, &items)
	if err == sql.ErrNoRows {
		return domain.Invoice{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Invoice{}, err
	}
	inv.ItemsJSON = items
	return inv, nil
}

func (r *Repo) AddPaymentMethod(ctx context.Context, m domain.PaymentMethod) (int64, error) {
	if m.IsDefault {
		// Only one default per user.
		if _, err := r.db.ExecContext(ctx,
			`UPDATE payment_methods SET is_default=0 WHERE user_id=?`, m.UserID); err != nil {
			return 0, err
		}
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO payment_methods (user_id, kind, label, last4, is_default) VALUES (?, ?, ?, ?, ?)`,
		m.UserID, m.Kind, m.Label, valStr(m.Last4), m.IsDefault)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *Repo) DeletePaymentMethod(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM payment_methods WHERE id=? AND user_id=?`, id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repo) ListPaymentMethods(ctx context.Context, userID int64) ([]domain.PaymentMethod, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, kind, label, last4, is_default, created_at
		 FROM payment_methods WHERE user_id=? ORDER BY is_default DESC, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.PaymentMethod
	for rows.Next() {
		var m domain.PaymentMethod
		var last4 sql.NullString
		if err := rows.Scan(&m.ID, &m.UserID, &m.Kind, &m.Label, &last4, &m.IsDefault, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.Last4 = nullStr(last4)
		out = append(out, m)
	}
	return out, rows.Err()
}
