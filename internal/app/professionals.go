package app

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/JooruBackend/jooru-backend-sub001/internal/domain"
)

type ProfessionalService struct {
	users    domain.UserRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewProfessionalService(users domain.UserRepository, cache domain.Cache, ttl time.Duration) *ProfessionalService {
	return &ProfessionalService{users: users, cache: cache, cacheTTL: ttl}
}

type ProfessionalsPage struct {
	Items []domain.ProfessionalView
	Meta  domain.PageMeta
}

func (s *ProfessionalService) List(ctx context.Context, q domain.ProfessionalsQuery) (ProfessionalsPage, error) {
	key := listKey(q)
	var out ProfessionalsPage
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}
	items, total, err := s.users.ListProfessionals(ctx, q)
	if err != nil {
		return ProfessionalsPage{}, err
	}
	out = ProfessionalsPage{Items: items, Meta: domain.NewPageMeta(q.Page, q.PerPage, total)}
	_ = s.cache.Set(ctx, key, out, int(s.cacheTTL.Seconds()))
	return out, nil
}

func (s *ProfessionalService) Get(ctx context.Context, userID int64) (domain.ProfessionalView, error) {
	key := profileKey(userID)
	var v domain.ProfessionalView
	if ok, _ := s.cache.Get(ctx, key, &v); ok {
		return v, nil
	}
	u, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return domain.ProfessionalView{}, err
	}
	if u.Role != domain.RoleProfessional {
		return domain.ProfessionalView{}, domain.ErrNotFound
	}
	p, err := s.users.GetProfile(ctx, userID)
	if err != nil {
		return domain.ProfessionalView{}, err
	}
	v = domain.ProfessionalView{
		UserID:       u.ID,
		FullName:     u.FullName,
		City:         u.City,
		BusinessName: p.BusinessName,
		Category:     p.Category,
		Bio:          p.Bio,
		HourlyRate:   p.HourlyRate,
		ServiceArea:  p.ServiceArea,
		RatingAvg:    p.RatingAvg,
		RatingCount:  p.RatingCount,
	}
	_ = s.cache.Set(ctx, key, v, int(s.cacheTTL.Seconds()))
	return v, nil
}

type ProfileInput struct {
	BusinessName string
	Category     string
	Bio          *string
	HourlyRate   *float64
	ServiceArea  *string
}

func (s *ProfessionalService) PutProfile(ctx context.Context, userID int64, in ProfileInput) (domain.ProfessionalProfile, error) {
	u, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return domain.ProfessionalProfile{}, err
	}
	if u.Role != domain.RoleProfessional {
		return domain.ProfessionalProfile{}, domain.ErrForbidden
	}
	p := domain.ProfessionalProfile{
		UserID:       userID,
		BusinessName: in.BusinessName,
		Category:     in.Category,
		Bio:          in.Bio,
		HourlyRate:   in.HourlyRate,
		ServiceArea:  in.ServiceArea,
	}
	if err := s.users.UpsertProfile(ctx, p); err != nil {
		return domain.ProfessionalProfile{}, err
	}
	s.Invalidate(ctx, userID)
	return s.users.GetProfile(ctx, userID)
}

// Invalidate drops the per-professional cache entry. Listing entries expire by
// TTL; their filter space is unbounded so they are not tracked individually.
func (s *ProfessionalService) Invalidate(ctx context.Context, userID int64) {
	_ = s.cache.Del(ctx, profileKey(userID))
}

func profileKey(id int64) string { return fmt.Sprintf("pros:profile:%d", id) }

func listKey(q domain.ProfessionalsQuery) string {
	raw := fmt.Sprintf("%v|%v|%v|%d|%d",
		strPtr(q.Category), strPtr(q.City), f64Ptr(q.MinRating), q.Page, q.PerPage)
	sum := sha1.Sum([]byte(raw))
	return "pros:list:" + hex.EncodeToString(sum[:8])
}

func strPtr(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func f64Ptr(p *float64) string {
	if p == nil {
		return ""
	}
	return fmt.Sprintf("%.2f", *p)
}
