package transport

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"alto_bot/internal/model"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type echoHandler struct {
	received []model.Inbound
}

func (h *echoHandler) HandleMessage(_ context.Context, in model.Inbound) []model.Outgoing {
	h.received = append(h.received, in)
	return []model.Outgoing{
		{To: in.SenderID, Text: "echo: " + in.Text},
		{To: "777", Text: "notice"},
	}
}

type fakeSender struct {
	sent []tgbotapi.MessageConfig
	err  error
}

func (s *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if s.err != nil {
		return tgbotapi.Message{}, s.err
	}
	s.sent = append(s.sent, c.(tgbotapi.MessageConfig))
	return tgbotapi.Message{}, nil
}

func TestTelegram_Handle(t *testing.T) {
	handler := &echoHandler{}
	sender := &fakeSender{}
	tg := &Telegram{sender: sender, handler: handler, log: zap.NewNop()}

	tg.handle(context.Background(), &tgbotapi.Message{
		Chat: &tgbotapi.Chat{ID: 6281111},
		Text: "  3 ",
	})

	require.Len(t, handler.received, 1)
	assert.Equal(t, model.Inbound{SenderID: "6281111", Text: "3"}, handler.received[0])

	require.Len(t, sender.sent, 2)
	assert.Equal(t, int64(6281111), sender.sent[0].ChatID)
	assert.Equal(t, "echo: 3", sender.sent[0].Text)
	assert.Equal(t, int64(777), sender.sent[1].ChatID)
}

func TestTelegram_Send(t *testing.T) {
	tests := []struct {
		name      string
		to        string
		senderErr error
		wantErr   bool
	}{
		{name: "Sent", to: "42"},
		{name: "Invalid chat id", to: "abc", wantErr: true},
		{name: "API failure", to: "42", senderErr: errors.New("Forbidden: bot was blocked by the user"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tg := &Telegram{sender: &fakeSender{err: tt.senderErr}, log: zap.NewNop()}

			err := tg.Send(model.Outgoing{To: tt.to, Text: "hi"})

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConsole_Run(t *testing.T) {
	handler := &echoHandler{}
	var out bytes.Buffer
	console := NewConsole(handler, "local", strings.NewReader("halo\n\n  1  \n"), &out)

	require.NoError(t, console.Run(context.Background()))

	require.Len(t, handler.received, 2)
	assert.Equal(t, "halo", handler.received[0].Text)
	assert.Equal(t, "1", handler.received[1].Text)
	assert.Equal(t, "local", handler.received[0].SenderID)

	printed := out.String()
	assert.Contains(t, printed, "echo: halo")
	assert.Contains(t, printed, "[to 777]\nnotice")
}
