package mysql

import (
	"context"
	"database/sql"

	"github.com/JooruBackend/jooru-backend-sub001/internal/domain"
)

func (r *Repo) CreateReview(ctx context.Context, rv domain.Review, rollRating bool) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, insertReviewSQL,
		rv.RequestID, rv.ReviewerID, rv.RevieweeID, rv.Rating, valStr(rv.Comment))
	if err != nil {
		if isDuplicate(err) {
			return 0, domain.ErrConflict
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	// The rating roll commits with the insert so a crash cannot leave a
	// review unreflected in the aggregate.
	if rollRating {
		if _, err := tx.ExecContext(ctx, applyRatingSQL, rv.Rating, rv.RevieweeID); err != nil {
			return 0, err
		}
	}
	return id, tx.Commit()
}

func (r *Repo) HasReview(ctx context.Context, requestID, reviewerID int64) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reviews WHERE request_id=? AND reviewer_id=?`,
		requestID, reviewerID).Scan(&n)
	return n > 0, err
}

func (r *Repo) ListReviewsFor(ctx context.Context, revieweeID int64, pg domain.PageQuery) ([]domain.Review, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reviews WHERE reviewee_id=?`, revieweeID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, request_id, reviewer_id, reviewee_id, rating, comment, created_at
		 FROM reviews WHERE reviewee_id=?
		 ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		revieweeID, pg.PerPage, pg.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []domain.Review
	for rows.Next() {
		var rv domain.Review
		var comment sql.NullString
		if err := rows.Scan(&rv.ID, &rv.RequestID, &rv.ReviewerID, &rv.RevieweeID,
			&rv.Rating, &comment, &rv.CreatedAt); err != nil {
			return nil, 0, err
		}
		rv.Comment = nullStr(comment)
		out = append(out, rv)
	}
	return out, total, rows.Err()
}
