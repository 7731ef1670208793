package app_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/JooruBackend/jooru-backend-sub001/internal/app"
	"github.com/JooruBackend/jooru-backend-sub001/internal/domain"
)

func chatFixture(t *testing.T) (*app.ChatService, *fakeChats, *fakeNotify, domain.Chat) {
	t.Helper()
	chats := newFakeChats()
	c, err := chats.EnsureChat(context.Background(), domain.Chat{RequestID: 7, ClientID: 1, ProfessionalID: 2})
	if err != nil {
		t.Fatalf("ensure chat: %v", err)
	}
	notify := &fakeNotify{}
	return app.NewChatService(chats, notify), chats, notify, c
}

func TestChatAuthorize(t *testing.T) {
	svc, _, _, c := chatFixture(t)
	ctx := context.Background()

	if _, err := svc.Authorize(ctx, c.ID, 1); err != nil {
		t.Fatalf("client: %v", err)
	}
	if _, err := svc.Authorize(ctx, c.ID, 2); err != nil {
		t.Fatalf("professional: %v", err)
	}
	if _, err := svc.Authorize(ctx, c.ID, 3); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("stranger: want forbidden, got %v", err)
	}
	if _, err := svc.Authorize(ctx, 999, 1); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing chat: want not found, got %v", err)
	}
}

func TestSend_PersistsAndQueuesOfflineNotification(t *testing.T) {
	svc, chats, notify, c := chatFixture(t)
	ctx := context.Background()

	m, err := svc.Send(ctx, c.ID, 1, "  hello there  ", true)
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if m.Body != "hello there" || m.ID == "" {
		t.Fatalf("unexpected message: %+v", m)
	}
	if len(chats.messages[c.ID]) != 1 {
		t.Fatalf("message not persisted")
	}
	if !notify.has(2, domain.NotifyNewMessage) {
		t.Fatalf("offline peer not notified: %v", notify.calls)
	}
}

func TestSend_OnlinePeerSkipsNotification(t *testing.T) {
	svc, _, notify, c := chatFixture(t)
	if _, err := svc.Send(context.Background(), c.ID, 2, "hi", false); err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(notify.calls) != 0 {
		t.Fatalf("unexpected notification: %v", notify.calls)
	}
}

func TestSend_BodyRules(t *testing.T) {
	svc, _, _, c := chatFixture(t)
	ctx := context.Background()

	if _, err := svc.Send(ctx, c.ID, 1, "   ", false); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("blank body: want validation, got %v", err)
	}
	long := strings.Repeat("a", 4001)
	if _, err := svc.Send(ctx, c.ID, 1, long, false); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("oversized body: want validation, got %v", err)
	}
	if _, err := svc.Send(ctx, c.ID, 9, "hi", false); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("outsider send: want forbidden, got %v", err)
	}
}

func TestMarkRead_ParticipantsOnly(t *testing.T) {
	svc, _, _, c := chatFixture(t)
	ctx := context.Background()

	if err := svc.MarkRead(ctx, c.ID, 2, []string{"m1"}); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if err := svc.MarkRead(ctx, c.ID, 9, []string{"m1"}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("outsider: want forbidden, got %v", err)
	}
}
