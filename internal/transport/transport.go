// Package transport connects the bot to chat networks.
package transport

import (
	"context"

	"alto_bot/internal/model"
)

type Handler interface {
	HandleMessage(ctx context.Context, in model.Inbound) []model.Outgoing
}
