package task

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/LavanyaThanigaivel/GigConnect/internal/infrastructure/queue/port"
	"github.com/LavanyaThanigaivel/GigConnect/internal/infrastructure/realtime"
	"github.com/LavanyaThanigaivel/GigConnect/internal/pkg/chat/presentation/event"
)

// DeliverMessageTaskType is the queue task that fans a persisted message out
// to the relay. Enqueued by the HTTP send path after the message is durable,
// so a delivery failure can never un-send a message.
const DeliverMessageTaskType = "chat:deliver_message"

// DeliverMessagePayload is the JSON payload transported via the queue.
type DeliverMessagePayload struct {
	ConversationID string        `json:"conversation_id"`
	ReceiverID     string        `json:"receiver_id"`
	Message        event.Message `json:"message"`
	Sender         event.Sender  `json:"sender"`
}

// RegisterDeliverMessageTask binds the fan-out handler to the worker. The
// handler broadcasts to the conversation channel and pokes the receiver's
// personal channel; recipients with no live connection simply catch up on
// their next message listing, so delivery is never retried for them.
func RegisterDeliverMessageTask(srv port.Server, router *realtime.Router, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	srv.Register(DeliverMessageTaskType, func(ctx context.Context, t port.Task) error {
		var p DeliverMessagePayload
		if err := json.Unmarshal(t.Payload, &p); err != nil {
			// malformed payload: retrying cannot help
			logger.Error("deliver_message: bad payload", "error", err)
			return nil
		}

		broadcast := event.Marshal(event.NewReceiveMessage(p.ConversationID, p.Message, p.Sender))
		delivered := router.Broadcast(p.ConversationID, broadcast, "")

		notify := event.Marshal(event.NewNotification(p.ConversationID, p.Message.Content, p.Sender))
		notified := router.NotifyUser(p.ReceiverID, notify)

		logger.Debug("deliver_message: fanned out",
			"conversation_id", p.ConversationID,
			"delivered", delivered,
			"receiver_notified", notified,
		)
		return nil
	})
}
