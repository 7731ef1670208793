package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/JooruBackend/jooru-backend-sub001/internal/app"
	"github.com/JooruBackend/jooru-backend-sub001/internal/domain"
)

func TestGetProfessional_CacheMissThenHit(t *testing.T) {
	users := newFakeUsers()
	pro := users.add(domain.User{Email: "p@x.y", Role: domain.RoleProfessional, Status: domain.UserActive, FullName: "Pia"})
	users.profiles[pro.ID] = domain.ProfessionalProfile{
		UserID: pro.ID, BusinessName: "Pia Plumbing", Category: "plumbing", RatingAvg: 4.5, RatingCount: 12,
	}
	cache := &fakeCache{}
	svc := app.NewProfessionalService(users, cache, 10*time.Minute)
	ctx := context.Background()

	// Miss (first time, populates cache)
	v, err := svc.Get(ctx, pro.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if v.BusinessName != "Pia Plumbing" || v.RatingCount != 12 {
		t.Fatalf("unexpected view: %+v", v)
	}

	// Mutate repo to ensure second read indeed comes from cache
	p := users.profiles[pro.ID]
	p.BusinessName = "SHOULD NOT SEE THIS"
	users.profiles[pro.ID] = p

	v2, err := svc.Get(ctx, pro.ID)
	if err != nil {
		t.Fatalf("get again: %v", err)
	}
	if v2.BusinessName != "Pia Plumbing" {
		t.Fatalf("expected cached view, got %+v", v2)
	}
}

func TestGetProfessional_ClientLooksLikeMissing(t *testing.T) {
	users := newFakeUsers()
	c := users.add(domain.User{Email: "c@x.y", Role: domain.RoleClient, Status: domain.UserActive})
	svc := app.NewProfessionalService(users, &fakeCache{}, time.Minute)

	if _, err := svc.Get(context.Background(), c.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want not found for non-professional, got %v", err)
	}
}

func TestListProfessionals_Cached(t *testing.T) {
	users := newFakeUsers()
	users.pros = []domain.ProfessionalView{{UserID: 1, FullName: "Pia", BusinessName: "Pia Plumbing"}}
	cache := &fakeCache{}
	svc := app.NewProfessionalService(users, cache, 10*time.Minute)
	ctx := context.Background()

	q := domain.ProfessionalsQuery{Category: pstr("plumbing"), Page: 1, PerPage: 20}
	out, err := svc.List(ctx, q)
	if err != nil || len(out.Items) != 1 {
		t.Fatalf("list: %v %+v", err, out)
	}

	users.pros[0].BusinessName = "Changed"
	out2, err := svc.List(ctx, q)
	if err != nil {
		t.Fatalf("list again: %v", err)
	}
	if out2.Items[0].BusinessName != "Pia Plumbing" {
		t.Fatalf("expected cached listing, got %+v", out2.Items)
	}
}

func TestPutProfile_RoleGateAndInvalidation(t *testing.T) {
	users := newFakeUsers()
	client := users.add(domain.User{Email: "c@x.y", Role: domain.RoleClient, Status: domain.UserActive})
	pro := users.add(domain.User{Email: "p@x.y", Role: domain.RoleProfessional, Status: domain.UserActive})
	cache := &fakeCache{store: map[string]any{"pros:profile:2": domain.ProfessionalView{UserID: 2}}}
	svc := app.NewProfessionalService(users, cache, time.Minute)
	ctx := context.Background()

	if _, err := svc.PutProfile(ctx, client.ID, app.ProfileInput{BusinessName: "X", Category: "y"}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("client profile: want forbidden, got %v", err)
	}

	p, err := svc.PutProfile(ctx, pro.ID, app.ProfileInput{BusinessName: "Pro Co", Category: "cleaning", HourlyRate: pfloat(35)})
	if err != nil {
		t.Fatalf("put profile: %v", err)
	}
	if p.BusinessName != "Pro Co" {
		t.Fatalf("unexpected profile: %+v", p)
	}
	if _, still := cache.store["pros:profile:2"]; still {
		t.Fatalf("profile cache not invalidated")
	}
}
