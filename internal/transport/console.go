package transport

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"alto_bot/internal/model"
)

// Console plays one local user against the bot over a terminal.
type Console struct {
	handler Handler
	userID  string
	in      io.Reader
	out     io.Writer
}

func NewConsole(handler Handler, userID string, in io.Reader, out io.Writer) *Console {
	return &Console{
		handler: handler,
		userID:  userID,
		in:      in,
		out:     out,
	}
}

// Run reads lines until EOF or ctx is cancelled. Messages addressed to other
// users, e.g. operator notifications, are printed with their recipient.
func (c *Console) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(c.in)
	fmt.Fprint(c.out, "> ")

	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}

		text := strings.TrimSpace(scanner.Text())
		if text != "" {
			for _, msg := range c.handler.HandleMessage(ctx, model.Inbound{SenderID: c.userID, Text: text}) {
				if msg.To != c.userID {
					fmt.Fprintf(c.out, "[to %s]\n", msg.To)
				}
				fmt.Fprintf(c.out, "%s\n\n", msg.Text)
			}
		}
		fmt.Fprint(c.out, "> ")
	}

	return scanner.Err()
}
