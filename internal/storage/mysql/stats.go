package mysql

import (
	"context"

	"github.com/JooruBackend/jooru-backend-sub001/internal/domain"
)

func (r *Repo) CollectStats(ctx context.Context) (domain.AdminStats, error) {
	var s domain.AdminStats
	err := r.db.QueryRowContext(ctx, `
SELECT
  (SELECT COUNT(*) FROM users),
  (SELECT COUNT(*) FROM users WHERE role='professional'),
  (SELECT COUNT(*) FROM service_requests WHERE status IN ('open','quoted')),
  (SELECT COUNT(*) FROM quotes WHERE status='pending'),
  (SELECT COALESCE(SUM(amount*100),0) FROM payments WHERE status='succeeded'),
  (SELECT COUNT(*) FROM reviews)
`).Scan(&s.Users, &s.Professionals, &s.OpenRequests, &s.ActiveQuotes, &s.PaymentsVolume, &s.Reviews)
	return s, err
}
