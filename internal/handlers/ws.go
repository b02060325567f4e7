// internal/handlers/ws.go
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/majakthesecond-sys/USA-TANK-V4-5/internal/auth"
	"github.com/majakthesecond-sys/USA-TANK-V4-5/internal/match"
	"github.com/majakthesecond-sys/USA-TANK-V4-5/internal/middleware"
)

// playerCookieName holds the signed player identity token.
const playerCookieName = "player_token"

// outBufferSize is the per-client outbound queue depth. A client that falls
// further behind than this starts losing messages rather than blocking the
// matchmaker.
const outBufferSize = 16

// wsClient adapts a websocket connection to the matchmaker's Conn. Outbound
// messages go through a buffered channel drained by the write pump; Send
// never blocks and Close is safe from any goroutine, including while the
// matchmaker holds its lock.
type wsClient struct {
	conn   *websocket.Conn
	out    chan map[string]interface{}
	cancel context.CancelFunc
	once   sync.Once
	log    *logrus.Logger
}

func (c *wsClient) Send(msg map[string]interface{}) {
	select {
	case c.out <- msg:
	default:
		msgType, _ := msg["type"].(string)
		c.log.Warnf("outbound queue full or closed, dropped %q message", msgType)
	}
}

func (c *wsClient) Close() {
	c.once.Do(func() {
		c.cancel()
		_ = c.conn.CloseNow()
	})
}

// MatchWSHandler upgrades the HTTP connection, registers a session with the
// matchmaker, and runs the read loop until the channel closes or errors.
func MatchWSHandler(logger *logrus.Logger, m *match.Matchmaker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// The identity cookie has to be settled before the upgrade writes
		// the response headers.
		playerID := ensurePlayerID(w, r, logger)

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"tank"},
			OriginPatterns: []string{"*"}, // Adjust for production security.
		})
		if err != nil {
			logger.Warnf("websocket accept error: %v", err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "handler exit")

		if c.Subprotocol() != "tank" {
			c.Close(BadSubprotocolError, "client must speak the tank subprotocol")
			return
		}
		middleware.LogWebSocketConnect(logger, r.RemoteAddr, r.URL.Path)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		client := &wsClient{
			conn:   c,
			out:    make(chan map[string]interface{}, outBufferSize),
			cancel: cancel,
			log:    logger,
		}

		m.Register(client, playerID)

		go writePump(ctx, c, client, logger)

		readErr := readLoop(ctx, c, m, client, logger)

		// Closure and error are the same teardown path.
		m.Disconnect(client)
		client.Close()
		middleware.LogWebSocketDisconnect(logger, r.RemoteAddr, r.URL.Path, readErr)
	}
}

// readLoop decodes type-keyed JSON packets and dispatches them. Malformed
// payloads and unknown types are dropped without a response; nothing a
// client sends can end its own connection here.
func readLoop(ctx context.Context, c *websocket.Conn, m *match.Matchmaker, client *wsClient, logger *logrus.Logger) error {
	for {
		typ, data, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				return nil
			}
			return err
		}
		if typ != websocket.MessageText {
			continue
		}

		var packet map[string]interface{}
		if err := json.Unmarshal(data, &packet); err != nil {
			logger.Debugf("dropping unparseable packet: %v", err)
			continue
		}
		dispatch(m, client, packet, logger)
	}
}

func dispatch(m *match.Matchmaker, client *wsClient, packet map[string]interface{}, logger *logrus.Logger) {
	msgType, _ := packet["type"].(string)
	switch msgType {
	case "join":
		m.Join(client,
			asString(packet["mode"]),
			asString(packet["tankName"]),
			asString(packet["username"]),
			asInt(packet["tier"]),
		)
	case "input":
		m.RelayInput(client, packet["payload"])
	case "init", "snapshot":
		m.RelayState(client, msgType, packet["payload"])
	default:
		logger.Debugf("ignoring unknown message type %q", msgType)
	}
}

// writePump drains the client's outbound queue onto the wire and keeps the
// connection alive with periodic pings.
func writePump(ctx context.Context, c *websocket.Conn, client *wsClient, logger *logrus.Logger) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-client.out:
			data, err := json.Marshal(msg)
			if err != nil {
				logger.Warnf("failed to marshal outbound message: %v", err)
				continue
			}
			writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err = c.Write(writeCtx, websocket.MessageText, data)
			cancel()
			if err != nil {
				// Broken pipe; the read loop sees the closure and runs the
				// full teardown.
				return
			}
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			err := c.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}
		}
	}
}

// ensurePlayerID resolves the caller's player identity: a valid cookie keeps
// its stable id, anything else mints a fresh one and sets the cookie.
func ensurePlayerID(w http.ResponseWriter, r *http.Request, logger *logrus.Logger) uuid.UUID {
	if cookie, err := r.Cookie(playerCookieName); err == nil {
		if sub, err := auth.VerifyToken(cookie.Value); err == nil {
			if id, err := uuid.Parse(sub); err == nil {
				return id
			}
		}
	}

	id := uuid.New()
	token, err := auth.CreateToken(id.String())
	if err != nil {
		logger.Warnf("failed to sign player token: %v", err)
		return id
	}
	http.SetCookie(w, &http.Cookie{
		Name:     playerCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
	})
	return id
}

// asString coerces a decoded JSON value to a string.
func asString(v interface{}) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}

// asInt coerces a decoded JSON value to an int. Unparseable input yields 0,
// which the matchmaker treats as "use the default".
func asInt(v interface{}) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case string:
		i, err := strconv.Atoi(n)
		if err != nil {
			return 0
		}
		return i
	default:
		return 0
	}
}
