package api

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"alto_bot/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeed_BroadcastsWithdrawals(t *testing.T) {
	gin.SetMode(gin.TestMode)
	feed := NewFeed()
	router := gin.New()
	router.GET("/feed", feed.HandleWebSocket)

	server := httptest.NewServer(router)
	defer server.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http")+"/feed", nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return feed.Clients() == 1 }, time.Second, 10*time.Millisecond)

	req := model.WithdrawalRequest{
		RequestID:   uuid.New(),
		UserID:      "6281111",
		Amount:      500,
		Bank:        "bca",
		Name:        "Jane",
		Number:      "08123456789",
		RequestedAt: time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC),
	}
	feed.NotifyWithdrawal(context.Background(), req)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg struct {
		Type string                  `json:"type"`
		Data model.WithdrawalRequest `json:"data"`
	}
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, MessageWithdrawalRequested, msg.Type)
	assert.Equal(t, req.RequestID, msg.Data.RequestID)
	assert.Equal(t, int64(500), msg.Data.Amount)
	assert.True(t, req.RequestedAt.Equal(msg.Data.RequestedAt))

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return feed.Clients() == 0 }, time.Second, 10*time.Millisecond)
}

func TestFeed_NoClients(t *testing.T) {
	feed := NewFeed()

	assert.NotPanics(t, func() {
		feed.NotifyWithdrawal(context.Background(), model.WithdrawalRequest{Amount: 1})
		feed.Close()
	})
}
