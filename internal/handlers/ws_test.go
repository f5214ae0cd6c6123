// internal/handlers/ws_test.go
package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/jason-s-yu/fodinha/internal/session"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type wireEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func setupTestServer(t *testing.T) string {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	ctx, cancel := context.WithCancel(context.Background())
	gw := session.New(logger)
	go gw.Run(ctx)

	srv := httptest.NewServer(WSHandler(logger, gw, WSConfig{
		OriginPatterns:    []string{"*"},
		MessagesPerSecond: 100,
		Burst:             100,
	}))
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, ctx context.Context, url string) *websocket.Conn {
	conn, _, err := websocket.Dial(ctx, url, &websocket.DialOptions{Subprotocols: []string{Subprotocol}})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "") })
	return conn
}

func readEvent(t *testing.T, ctx context.Context, conn *websocket.Conn) wireEvent {
	_, data, err := conn.Read(ctx)
	require.NoError(t, err)
	var ev wireEvent
	require.NoError(t, json.Unmarshal(data, &ev))
	return ev
}

func writeEvent(t *testing.T, ctx context.Context, conn *websocket.Conn, typ string, data any) {
	raw, err := json.Marshal(map[string]any{"type": typ, "data": data})
	require.NoError(t, err)
	require.NoError(t, conn.Write(ctx, websocket.MessageText, raw))
}

func TestWSCreateAndJoin(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	url := setupTestServer(t)

	host := dial(t, ctx, url)
	ev := readEvent(t, ctx, host)
	require.Equal(t, session.EventConnected, ev.Type)

	writeEvent(t, ctx, host, session.TypeCreateRoom, "Ana")
	ev = readEvent(t, ctx, host)
	require.Equal(t, session.EventRoomCreated, ev.Type)
	var code string
	require.NoError(t, json.Unmarshal(ev.Data, &code))
	assert.Len(t, code, 4)
	assert.Equal(t, session.EventRoomUpdated, readEvent(t, ctx, host).Type)

	guest := dial(t, ctx, url)
	require.Equal(t, session.EventConnected, readEvent(t, ctx, guest).Type)
	writeEvent(t, ctx, guest, session.TypeJoinRoom, map[string]string{"roomId": code, "playerName": "Bia"})

	for _, c := range []*websocket.Conn{host, guest} {
		ev := readEvent(t, ctx, c)
		require.Equal(t, session.EventRoomUpdated, ev.Type)
		var view struct {
			Players []struct {
				Name string `json:"name"`
			} `json:"players"`
		}
		require.NoError(t, json.Unmarshal(ev.Data, &view))
		assert.Len(t, view.Players, 2)
	}

	// the host leaving hands the room to the guest
	require.NoError(t, host.Close(websocket.StatusNormalClosure, "bye"))
	ev = readEvent(t, ctx, guest)
	require.Equal(t, session.EventRoomUpdated, ev.Type)
	var view struct {
		Players []struct {
			Name   string `json:"name"`
			IsHost bool   `json:"isHost"`
		} `json:"players"`
	}
	require.NoError(t, json.Unmarshal(ev.Data, &view))
	require.Len(t, view.Players, 1)
	assert.Equal(t, "Bia", view.Players[0].Name)
	assert.True(t, view.Players[0].IsHost)
}

func TestWSRejectsMissingSubprotocol(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	url := setupTestServer(t)

	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	_, _, err = conn.Read(ctx)
	require.Error(t, err)
	assert.Equal(t, websocket.StatusCode(BadSubprotocolError), websocket.CloseStatus(err))
}
