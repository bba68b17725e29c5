package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"alto_bot/internal/api"
	"alto_bot/internal/model"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

func newFeedCmd() *cobra.Command {
	var (
		url      string
		initData string
	)

	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Print withdrawal requests from a running bot's operator feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			if initData == "" {
				initData = os.Getenv("APP_FEED_INITDATA")
			}

			header := http.Header{}
			header.Add("Authorization", "Telegram "+initData)

			conn, _, err := websocket.DefaultDialer.DialContext(cmd.Context(), url, header)
			if err != nil {
				return fmt.Errorf("dial %s: %w", url, err)
			}
			defer conn.Close()

			return readFeed(conn, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&url, "url", "ws://localhost:8888/api/v1/admin/feed", "Feed websocket URL.")
	cmd.Flags().StringVar(&initData, "init-data", "", "Telegram Mini App init data of an admin (or APP_FEED_INITDATA).")

	return cmd
}

type messageReader interface {
	ReadMessage() (int, []byte, error)
}

func readFeed(conn messageReader, out io.Writer) error {
	for {
		_, p, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}

		line, err := formatFeedMessage(p)
		if err != nil {
			fmt.Fprintf(out, "unreadable message: %s\n", p)
			continue
		}
		fmt.Fprintln(out, line)
	}
}

func formatFeedMessage(p []byte) (string, error) {
	var msg struct {
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(p, &msg); err != nil {
		return "", err
	}

	if msg.Type != api.MessageWithdrawalRequested {
		return strings.TrimSpace(fmt.Sprintf("%s %s", msg.Type, msg.Data)), nil
	}

	var req model.WithdrawalRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		return "", err
	}

	return fmt.Sprintf("%s withdraw %s user=%s amount=%d bank=%s name=%q number=%s",
		req.RequestedAt.Format("2006-01-02 15:04:05"), req.RequestID, req.UserID, req.Amount, req.Bank, req.Name, req.Number), nil
}
