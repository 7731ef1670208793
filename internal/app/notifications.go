package app

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/JooruBackend/jooru-backend-sub001/internal/domain"
)

// Notifier is the slice of NotificationService the other services depend on.
type Notifier interface {
	Notify(ctx context.Context, userID int64, kind domain.NotificationKind, payload any)
}

type NotificationService struct {
	repo     domain.NotificationRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewNotificationService(repo domain.NotificationRepository, cache domain.Cache, ttl time.Duration) *NotificationService {
	return &NotificationService{repo: repo, cache: cache, cacheTTL: ttl}
}

// Notify records a notification for userID. Failures are logged, not
// returned: a lost notification must never fail the triggering operation.
func (s *NotificationService) Notify(ctx context.Context, userID int64, kind domain.NotificationKind, payload any) {
	b, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Str("kind", string(kind)).Msg("marshal notification payload")
		return
	}
	n := domain.Notification{UserID: userID, Kind: kind, Payload: b, Queued: true}
	if err := s.repo.CreateNotifications(ctx, []domain.Notification{n}); err != nil {
		log.Error().Err(err).Int64("user_id", userID).Str("kind", string(kind)).Msg("create notification")
		return
	}
	_ = s.cache.Del(ctx, unreadKey(userID))
}

func (s *NotificationService) List(ctx context.Context, userID int64, pg domain.PageQuery) (domain.NotificationsPage, error) {
	items, total, err := s.repo.ListNotifications(ctx, userID, pg)
	if err != nil {
		return domain.NotificationsPage{}, err
	}
	return domain.NotificationsPage{Items: items, Meta: domain.NewPageMeta(pg.Page, pg.PerPage, total)}, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, userID int64, ids []int64) error {
	if err := s.repo.MarkNotificationsRead(ctx, userID, ids); err != nil {
		return err
	}
	_ = s.cache.Del(ctx, unreadKey(userID))
	return nil
}

func (s *NotificationService) CountUnread(ctx context.Context, userID int64) (int, error) {
	key := unreadKey(userID)
	var n int
	if ok, _ := s.cache.Get(ctx, key, &n); ok {
		return n, nil
	}
	n, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return 0, err
	}
	_ = s.cache.Set(ctx, key, n, int(s.cacheTTL.Seconds()))
	return n, nil
}

func unreadKey(userID int64) string { return fmt.Sprintf("notif:unread:%d", userID) }
