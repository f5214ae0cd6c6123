// internal/handlers/ws.go
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/jason-s-yu/fodinha/internal/middleware"
	"github.com/jason-s-yu/fodinha/internal/session"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Subprotocol is the websocket subprotocol clients must request.
const Subprotocol = "fodinha"

const (
	pingInterval      = 30 * time.Second
	writeTimeout      = 5 * time.Second
	disconnectTimeout = 5 * time.Second

	// rateWaitLimit bounds how long a reader may sit on an empty bucket
	rateWaitLimit = 10 * time.Second
)

// Gateway is the part of the session gateway a socket needs.
type Gateway interface {
	Connect(ctx context.Context, c *session.Connection) error
	Dispatch(ctx context.Context, connID string, raw []byte) error
	Disconnect(ctx context.Context, connID string) error
}

// WSConfig tunes the game socket.
type WSConfig struct {
	OriginPatterns    []string
	MessagesPerSecond float64
	Burst             int
	OutboundBuffer    int
}

// WSHandler upgrades to a websocket, registers the connection with the
// gateway and pumps frames both ways until either side goes away.
func WSHandler(logger *logrus.Logger, gw Gateway, cfg WSConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{Subprotocol},
			OriginPatterns: cfg.OriginPatterns,
		})
		if err != nil {
			logger.Warnf("websocket accept error: %v", err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "handler finished")

		if c.Subprotocol() != Subprotocol {
			c.Close(BadSubprotocolError, "client must speak the fodinha subprotocol")
			return
		}

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		conn := session.NewConnection(r.RemoteAddr, cfg.OutboundBuffer)
		if err := gw.Connect(ctx, conn); err != nil {
			logger.WithError(err).Warn("gateway refused connection")
			c.Close(GatewayUnavailableError, "server unavailable")
			return
		}
		middleware.LogWebSocketConnect(logger, r.RemoteAddr, r.URL.Path, conn.ID)

		go writePump(ctx, c, conn, logger)

		limit := rate.Inf
		if cfg.MessagesPerSecond > 0 {
			limit = rate.Limit(cfg.MessagesPerSecond)
		}
		limiter := rate.NewLimiter(limit, cfg.Burst)
		readErr := readPump(ctx, c, gw, conn, limiter, logger)
		cancel()

		dctx, dcancel := context.WithTimeout(context.Background(), disconnectTimeout)
		if err := gw.Disconnect(dctx, conn.ID); err != nil {
			logger.WithField("conn", conn.ID).WithError(err).Warn("failed to deregister connection")
		}
		dcancel()
		middleware.LogWebSocketDisconnect(logger, r.RemoteAddr, r.URL.Path, conn.ID, readErr)

		if errors.Is(readErr, errRateLimited) {
			c.Close(RateLimitedError, "too many messages")
			return
		}
		c.Close(websocket.StatusNormalClosure, "")
	}
}

var errRateLimited = errors.New("rate limit wait exceeded")

// readPump forwards text frames to the gateway. It returns nil on a normal
// close and the read error otherwise.
func readPump(ctx context.Context, c *websocket.Conn, gw Gateway, conn *session.Connection, l *rate.Limiter, logger *logrus.Logger) error {
	entry := logger.WithField("conn", conn.ID)
	for {
		wctx, cancel := context.WithTimeout(ctx, rateWaitLimit)
		err := l.Wait(wctx)
		cancel()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return errRateLimited
		}

		typ, msg, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway || ctx.Err() != nil {
				return nil
			}
			return err
		}
		if typ != websocket.MessageText {
			entry.Warnf("ignoring non-text message type %d", typ)
			continue
		}

		if err := gw.Dispatch(ctx, conn.ID, msg); err != nil {
			return err
		}
	}
}

// writePump drains the connection's OutChan and keeps the socket alive.
func writePump(ctx context.Context, c *websocket.Conn, conn *session.Connection, logger *logrus.Logger) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-conn.OutChan:
			wctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := c.Write(wctx, websocket.MessageText, msg)
			cancel()
			if err != nil {
				logger.WithField("conn", conn.ID).Warnf("write failed: %v", err)
				return
			}
		case <-ticker.C:
			pctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := c.Ping(pctx)
			cancel()
			if err != nil {
				logger.WithField("conn", conn.ID).Debugf("ping failed: %v", err)
				return
			}
		}
	}
}
