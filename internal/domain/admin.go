package domain

import "context"

// AdminStats is the aggregate snapshot served to the back office.
type AdminStats struct {
	Users          int `json:"users"`
	Professionals  int `json:"professionals"`
	OpenRequests   int `json:"open_requests"`
	ActiveQuotes   int `json:"active_quotes"`
	PaymentsVolume int `json:"payments_volume_cents"`
	Reviews        int `json:"reviews"`
}

type StatsRepository interface {
	CollectStats(ctx context.Context) (AdminStats, error)
}
