package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/line/line-bot-sdk-go/v7/linebot"
)

// Mediator handles one user message and always produces a reply text.
type Mediator interface {
	HandleMessage(ctx context.Context, text, userID string) string
}

// WebhookParser validates the channel-secret signature and decodes the
// webhook body. *linebot.Client satisfies it.
type WebhookParser interface {
	ParseRequest(r *http.Request) ([]*linebot.Event, error)
}

// Replier delivers the reply for a webhook event.
type Replier interface {
	Reply(ctx context.Context, replyToken, text string) error
}

// WebhookHandler receives LINE webhook deliveries and mediates each text
// message they carry.
type WebhookHandler struct {
	mediator  Mediator
	parser    WebhookParser
	replier   Replier
	responder responder
}

// NewWebhookHandler wires the webhook endpoint.
func NewWebhookHandler(mediator Mediator, parser WebhookParser, replier Replier, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{
		mediator:  mediator,
		parser:    parser,
		replier:   replier,
		responder: newResponder(logger),
	}
}

// Receive handles one webhook delivery. Each delivery may batch several
// events; non-message and non-text events are skipped. Mediation failures
// never fail the delivery: the user already got an apology reply, and LINE
// would redeliver the whole batch on a non-2xx status.
func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.mediator == nil || h.parser == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	ctx := r.Context()
	events, err := h.parser.ParseRequest(r)
	if err != nil {
		if errors.Is(err, linebot.ErrInvalidSignature) {
			h.responder.writeError(ctx, w, http.StatusForbidden, nil)
			return
		}
		h.responder.writeError(ctx, w, http.StatusBadRequest, nil)
		return
	}

	for _, event := range events {
		if event.Type != linebot.EventTypeMessage {
			continue
		}
		message, ok := event.Message.(*linebot.TextMessage)
		if !ok {
			continue
		}

		userID := ""
		if event.Source != nil {
			userID = event.Source.UserID
		}

		reply := h.mediator.HandleMessage(ctx, message.Text, userID)
		if reply == "" || event.ReplyToken == "" || h.replier == nil {
			continue
		}
		if err := h.replier.Reply(ctx, event.ReplyToken, reply); err != nil {
			h.responder.loggerFor(ctx).ErrorContext(ctx, "failed to deliver reply", "error", err)
		}
	}

	h.responder.writeJSON(ctx, w, http.StatusOK, statusResponse{Status: "ok"})
}
