package httpserver_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/JooruBackend/jooru-backend-sub001/internal/adapters/chat"
	httpserver "github.com/JooruBackend/jooru-backend-sub001/internal/adapters/http_server"
	"github.com/JooruBackend/jooru-backend-sub001/internal/auth"
	"github.com/JooruBackend/jooru-backend-sub001/internal/domain"
)

type wsChatSvc struct{}

func (wsChatSvc) Authorize(_ context.Context, chatID, userID int64) (domain.Chat, error) {
	c := domain.Chat{ID: chatID, RequestID: 1, ClientID: 1, ProfessionalID: 2}
	if !c.HasParticipant(userID) {
		return domain.Chat{}, domain.ErrForbidden
	}
	return c, nil
}

func (wsChatSvc) Send(_ context.Context, chatID, senderID int64, body string, _ bool) (domain.Message, error) {
	return domain.Message{ID: "m-1", ChatID: chatID, SenderID: senderID, Body: body, CreatedAt: time.Now()}, nil
}

func (wsChatSvc) MarkRead(context.Context, int64, int64, []string) error { return nil }

func (wsChatSvc) ListFor(context.Context, int64) ([]domain.Chat, error) { return nil, nil }

// The socket endpoint sits behind the same metrics and logging wrappers as
// the REST routes, so the upgrade must hijack through them.
func TestServeWS_UpgradesThroughRouterMiddleware(t *testing.T) {
	issuer := auth.NewIssuer("test-secret", time.Minute, time.Hour)

	srv := httpserver.New()
	srv.MountHandlers(&httpserver.Handlers{
		Hub:          chat.NewHub(wsChatSvc{}),
		ChatMsgRate:  100,
		ChatMsgBurst: 100,
	}, issuer)

	ts := httptest.NewServer(srv.Mux())
	defer ts.Close()

	toks, err := issuer.Issue(1, domain.RoleClient)
	require.NoError(t, err)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/v1/ws?token=" + toks.AccessToken
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err, "handshake must succeed through Metrics/Logger")
	require.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(map[string]any{"event": "room:join", "chat_id": 1}))
	require.NoError(t, conn.WriteJSON(map[string]any{"event": "message:send", "chat_id": 1, "body": "hello"}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, frame, err := conn.ReadMessage()
	require.NoError(t, err)

	var got struct {
		Event string `json:"event"`
		Body  string `json:"body"`
	}
	require.NoError(t, json.Unmarshal(frame, &got))
	require.Equal(t, "message:new", got.Event)
	require.Equal(t, "hello", got.Body)
}

func TestServeWS_RejectsBadToken(t *testing.T) {
	issuer := auth.NewIssuer("test-secret", time.Minute, time.Hour)

	srv := httpserver.New()
	srv.MountHandlers(&httpserver.Handlers{
		Hub:          chat.NewHub(wsChatSvc{}),
		ChatMsgRate:  100,
		ChatMsgBurst: 100,
	}, issuer)

	ts := httptest.NewServer(srv.Mux())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/v1/ws?token=garbage"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	if conn != nil {
		conn.Close()
	}
}
