package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"
	"sync"
	"time"

	"github.com/canopy-network/stakex/pkg/retry"
	"github.com/canopy-network/stakex/pkg/utils"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// resubscribe paces reconnects to Redis after the subscription drops.
var resubscribe = retry.Config{InitialDelay: time.Second, MaxDelay: 30 * time.Second, Multiplier: 2, Jitter: true}

// ClientMessage represents messages sent by WebSocket clients.
type ClientMessage struct {
	Action    string `json:"action"`    // "subscribe" or "unsubscribe"
	AccountID string `json:"accountId"` // account to follow, or "*" for all
}

// ServerMessage represents messages sent to WebSocket clients.
type ServerMessage struct {
	Type    string      `json:"type"` // "staking.step", "subscribed", "unsubscribed", "error", "info"
	Payload interface{} `json:"payload"`
}

// Subscriptions tracks the accounts a client follows.
type Subscriptions struct {
	mu       sync.RWMutex
	accounts map[string]bool
}

func NewSubscriptions() *Subscriptions {
	return &Subscriptions{accounts: make(map[string]bool)}
}

func (s *Subscriptions) Subscribe(accountID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[accountID] = true
}

func (s *Subscriptions) Unsubscribe(accountID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.accounts, accountID)
}

// IsSubscribed reports whether accountID is followed; "*" matches every account.
func (s *Subscriptions) IsSubscribed(accountID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accounts["*"] || s.accounts[accountID]
}

// HandleWebSocket streams staking step events to the client.
//
// Client sends: {"action": "subscribe", "accountId": "alice.near"}
// Server sends: {"type": "staking.step", "payload": {...}}
func (c *Controller) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	if c.App.RedisClient == nil {
		http.Error(w, "Real-time events not available (Redis disabled)", http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.App.Logger.Error("Failed to upgrade WebSocket connection", zap.Error(err))
		return
	}
	defer func() {
		if err := conn.Close(); err != nil {
			c.App.Logger.Debug("Failed to close WebSocket connection", zap.Error(err))
		}
	}()
	c.App.Logger.Info("WebSocket client connected", zap.String("remote_addr", r.RemoteAddr))

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	subs := NewSubscriptions()
	send := make(chan ServerMessage, 256)

	guard := func(run func()) func() {
		return func() {
			defer func() {
				if rec := recover(); rec != nil {
					c.App.Logger.Error("Panic in WebSocket goroutine",
						zap.Any("panic", rec),
						zap.String("stack", string(debug.Stack())),
						zap.String("remote_addr", r.RemoteAddr))
					cancel()
				}
			}()
			run()
		}
	}

	// producers write to send; it is closed only after they return
	var producers sync.WaitGroup
	for _, run := range []func(){
		func() { c.subscribeToRedis(ctx, send, subs) },
		func() { c.sendPings(ctx, conn) },
	} {
		producers.Add(1)
		go func() {
			defer producers.Done()
			guard(run)()
		}()
	}
	written := make(chan struct{})
	go func() {
		defer close(written)
		guard(func() { c.writeMessages(conn, send) })()
	}()

	c.readClientMessages(ctx, conn, cancel, subs, send)

	cancel()
	producers.Wait()
	close(send)
	<-written

	c.App.Logger.Info("WebSocket client disconnected", zap.String("remote_addr", r.RemoteAddr))
}

// subscribeToRedis forwards step events for subscribed accounts until ctx
// ends, resubscribing with backoff when Redis drops the subscription.
func (c *Controller) subscribeToRedis(ctx context.Context, send chan<- ServerMessage, subs *Subscriptions) {
	for attempt := 1; ; attempt++ {
		err := c.forwardSteps(ctx, send, subs)
		if ctx.Err() != nil {
			return
		}
		delay := retry.Backoff(resubscribe, attempt)
		c.App.Logger.Warn("Redis subscription lost, will retry",
			zap.Error(err),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", delay))
		if !trySend(ctx, send, ServerMessage{Type: "error", Payload: map[string]interface{}{
			"message":     "Redis connection lost, attempting to reconnect...",
			"retryIn":     delay.Seconds(),
			"recoverable": true,
		}}) {
			return
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return
		}
	}
}

func (c *Controller) forwardSteps(ctx context.Context, send chan<- ServerMessage, subs *Subscriptions) error {
	pubsub := c.App.RedisClient.Subscribe(ctx, utils.StakingStepsChannel)
	defer func(pubsub *redis.PubSub) { _ = pubsub.Close() }(pubsub)

	receiveCtx, receiveCancel := context.WithTimeout(ctx, 5*time.Second)
	defer receiveCancel()
	if _, err := pubsub.Receive(receiveCtx); err != nil {
		return fmt.Errorf("failed to confirm Redis subscription: %w", err)
	}
	if !trySend(ctx, send, ServerMessage{Type: "info", Payload: map[string]string{"message": "Redis connection established"}}) {
		return ctx.Err()
	}

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var payload map[string]interface{}
			if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
				c.App.Logger.Error("Failed to parse step event", zap.Error(err))
				continue
			}
			accountID, _ := payload["accountId"].(string)
			if !subs.IsSubscribed(accountID) {
				continue
			}
			if !trySend(ctx, send, ServerMessage{Type: "staking.step", Payload: payload}) {
				return ctx.Err()
			}
		}
	}
}

func trySend(ctx context.Context, send chan<- ServerMessage, msg ServerMessage) bool {
	select {
	case send <- msg:
		return true
	case <-ctx.Done():
		return false
	}
}

// sendPings keeps the connection alive; the client's pong resets the read deadline.
func (c *Controller) sendPings(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(10*time.Second)); err != nil {
				c.App.Logger.Debug("Failed to send ping", zap.Error(err))
				return
			}
		}
	}
}

func (c *Controller) writeMessages(conn *websocket.Conn, send <-chan ServerMessage) {
	for msg := range send {
		if err := conn.WriteJSON(msg); err != nil {
			c.App.Logger.Debug("Failed to write WebSocket message", zap.Error(err))
			return
		}
	}
}

func (c *Controller) readClientMessages(ctx context.Context, conn *websocket.Conn, cancel context.CancelFunc, subs *Subscriptions, send chan<- ServerMessage) {
	const readTimeout = 60 * time.Second
	_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readTimeout))
	})

	for ctx.Err() == nil {
		var msg ClientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.App.Logger.Warn("WebSocket read error", zap.Error(err))
			}
			cancel()
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(readTimeout))

		if msg.AccountID == "" && (msg.Action == "subscribe" || msg.Action == "unsubscribe") {
			trySend(ctx, send, ServerMessage{Type: "error", Payload: map[string]string{"message": "accountId is required"}})
			continue
		}
		switch msg.Action {
		case "subscribe":
			subs.Subscribe(msg.AccountID)
			trySend(ctx, send, ServerMessage{Type: "subscribed", Payload: map[string]string{"accountId": msg.AccountID}})
		case "unsubscribe":
			subs.Unsubscribe(msg.AccountID)
			trySend(ctx, send, ServerMessage{Type: "unsubscribed", Payload: map[string]string{"accountId": msg.AccountID}})
		default:
			trySend(ctx, send, ServerMessage{Type: "error", Payload: map[string]string{"message": "unknown action: " + msg.Action}})
		}
	}
}
