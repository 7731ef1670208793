package chat

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxFrameSize   = 8 << 10
	sendBufferSize = 64
)

// Client is one websocket connection for one authenticated user. A user may
// hold several at once (multiple tabs, devices).
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	userID  int64
	send    chan []byte
	joined  map[int64]struct{} // chatIDs this socket has joined
	limiter *rate.Limiter
}

// NewClient wraps an upgraded connection. msgRate and msgBurst bound how many
// message:send events a single socket may emit.
func NewClient(hub *Hub, conn *websocket.Conn, userID int64, msgRate, msgBurst int) *Client {
	return &Client{
		hub:     hub,
		conn:    conn,
		userID:  userID,
		send:    make(chan []byte, sendBufferSize),
		joined:  make(map[int64]struct{}),
		limiter: rate.NewLimiter(rate.Limit(msgRate), msgBurst),
	}
}

// Run registers the client and drives both pumps. It returns when the
// connection closes.
func (c *Client) Run(ctx context.Context) {
	c.hub.register(ctx, c)
	go c.writePump()
	c.readPump(ctx)
}

func (c *Client) readPump(ctx context.Context) {
	defer func() {
		c.hub.unregister(ctx, c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxFrameSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Int64("user_id", c.userID).Msg("websocket closed")
			}
			return
		}
		var in inbound
		if err := json.Unmarshal(raw, &in); err != nil {
			c.enqueue(encode(outbound{Event: EvError, Error: "malformed event"}))
			continue
		}
		c.hub.handle(ctx, c, in)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case frame, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// enqueue hands a frame to the write pump. A full buffer means the consumer
// has stalled, so the connection is dropped rather than blocking the hub.
func (c *Client) enqueue(frame []byte) {
	select {
	case c.send <- frame:
	default:
		log.Warn().Int64("user_id", c.userID).Msg("slow consumer, dropping connection")
		c.conn.Close()
	}
}
