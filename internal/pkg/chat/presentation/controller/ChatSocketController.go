package controller

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/LavanyaThanigaivel/GigConnect/internal/infrastructure/realtime"
	"github.com/LavanyaThanigaivel/GigConnect/internal/middleware"
	"github.com/LavanyaThanigaivel/GigConnect/internal/pkg/chat/application/usecase"
	chat "github.com/LavanyaThanigaivel/GigConnect/internal/pkg/chat/domain"
	repository "github.com/LavanyaThanigaivel/GigConnect/internal/pkg/chat/persistence/repository/port"
	"github.com/LavanyaThanigaivel/GigConnect/internal/pkg/chat/presentation/event"
	"github.com/LavanyaThanigaivel/GigConnect/internal/userdir"
)

// ChatSocketController handles the websocket endpoint for realtime chat
// traffic. Attaching a connection implicitly joins the user's personal
// channel; joining a conversation channel requires a server-side participant
// check before the relay admits the session.
type ChatSocketController struct {
	router          *realtime.Router
	sendMessageUC   *usecase.SendMessageUseCase
	joinChannelUC   *usecase.JoinConversationUseCase
	logger          *slog.Logger
	inflightTimeout time.Duration
}

func NewChatSocketController(repo repository.ChatRepository, users userdir.Directory, router *realtime.Router, logger *slog.Logger) *ChatSocketController {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChatSocketController{
		router:          router,
		sendMessageUC:   usecase.NewSendMessageUseCase(repo, users),
		joinChannelUC:   usecase.NewJoinConversationUseCase(repo),
		logger:          logger,
		inflightTimeout: 5 * time.Second,
	}
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The JWT middleware has already authenticated the caller; browsers
		// of any origin may connect.
		return true
	},
}

const defaultReadTimeout = 60 * time.Second

// Handle upgrades the request to a websocket and processes frames until the
// client disconnects.
func (ctl *ChatSocketController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.CallerID(c)
		if userID == "" {
			c.JSON(http.StatusUnauthorized, errorResponse{Error: "authentication required", Code: "unauthorized"})
			return
		}

		ws, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the response.
			return
		}

		conn := realtime.NewConnection(userID, ws)
		ctl.router.Attach(conn)
		defer func() {
			ctl.router.Detach(conn)
			conn.Close(websocket.CloseNormalClosure, "session closed")
		}()

		ws.SetReadLimit(1 << 20) // 1MB payload cap
		_ = ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		})

		_ = conn.Send(event.Marshal(event.Ack{Type: event.TypeConnected}))

		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) ||
					errors.Is(err, websocket.ErrCloseSent) {
					return
				}
				ctl.replyError(conn, "read_error", err.Error())
				return
			}

			var frame event.Inbound
			if err := json.Unmarshal(data, &frame); err != nil {
				ctl.replyError(conn, "bad_request", "invalid payload")
				continue
			}

			switch frame.Type {
			case event.TypeJoinConversation:
				ctl.handleJoin(c, conn, frame)
			case event.TypeLeaveConversation:
				ctl.handleLeave(conn, frame)
			case event.TypeTypingStart:
				ctl.handleTyping(conn, frame, true)
			case event.TypeTypingStop:
				ctl.handleTyping(conn, frame, false)
			case event.TypeSendMessage:
				ctl.handleSend(c, conn, frame)
			default:
				ctl.replyError(conn, "unsupported_type", "unknown frame type")
			}
		}
	}
}

func (ctl *ChatSocketController) handleJoin(c *gin.Context, conn *realtime.Connection, frame event.Inbound) {
	if frame.ConversationID == "" {
		ctl.replyError(conn, "bad_request", "conversation_id is required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.inflightTimeout)
	defer cancel()

	err := ctl.joinChannelUC.Execute(ctx, usecase.JoinConversationInput{
		ConversationID: frame.ConversationID,
		UserID:         conn.UserID,
	})
	if err != nil {
		ctl.handleUseCaseError(conn, err)
		return
	}

	ctl.router.Join(frame.ConversationID, conn)
	_ = conn.Send(event.Marshal(event.Ack{Type: event.TypeJoined, ConversationID: frame.ConversationID}))
}

func (ctl *ChatSocketController) handleLeave(conn *realtime.Connection, frame event.Inbound) {
	if frame.ConversationID == "" {
		ctl.replyError(conn, "bad_request", "conversation_id is required")
		return
	}
	ctl.router.Leave(frame.ConversationID, conn)
	_ = conn.Send(event.Marshal(event.Ack{Type: event.TypeLeft, ConversationID: frame.ConversationID}))
}

func (ctl *ChatSocketController) handleTyping(conn *realtime.Connection, frame event.Inbound, typing bool) {
	if frame.ConversationID == "" {
		ctl.replyError(conn, "bad_request", "conversation_id is required")
		return
	}
	// Typing relays only flow inside channels the session has joined; the
	// join path already proved membership.
	if !ctl.router.InChannel(frame.ConversationID, conn) {
		ctl.replyError(conn, "forbidden", "join the conversation before sending typing events")
		return
	}

	payload := event.Marshal(event.UserTyping{
		Type:           event.TypeUserTyping,
		ConversationID: frame.ConversationID,
		UserID:         conn.UserID,
		Typing:         typing,
	})
	ctl.router.Broadcast(frame.ConversationID, payload, conn.UserID)
}

func (ctl *ChatSocketController) handleSend(c *gin.Context, conn *realtime.Connection, frame event.Inbound) {
	var target usecase.SendTarget
	switch {
	case frame.ConversationID != "":
		target = usecase.ByConversation{ConversationID: frame.ConversationID}
	case frame.ReceiverID != "":
		target = usecase.ByReceiver{ReceiverID: frame.ReceiverID}
	default:
		ctl.replyError(conn, "bad_request", "conversation_id or receiver_id is required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.inflightTimeout)
	defer cancel()

	out, err := ctl.sendMessageUC.Execute(ctx, usecase.SendMessageInput{
		CallerID: conn.UserID,
		Target:   target,
		Content:  frame.Content,
	})
	if err != nil {
		ctl.handleUseCaseError(conn, err)
		return
	}

	m := out.Message.Message
	sender := event.Sender{ID: m.SenderID, DisplayName: out.Message.SenderName}
	wireMsg := event.Message{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		ReceiverID:     m.ReceiverID,
		Content:        m.Content,
		Read:           m.Read,
		CreatedAt:      m.CreatedAt,
	}

	payload := event.Marshal(event.NewReceiveMessage(m.ConversationID, wireMsg, sender))
	ctl.router.Broadcast(m.ConversationID, payload, "")

	// A sender who targeted a receiver id may not have joined the channel
	// yet; echo directly so their UI always sees the persisted message.
	if !ctl.router.InChannel(m.ConversationID, conn) {
		_ = conn.Send(payload)
	}

	notify := event.Marshal(event.NewNotification(m.ConversationID, m.Content, sender))
	if !ctl.router.NotifyUser(m.ReceiverID, notify) {
		ctl.logger.Debug("receiver offline, notification skipped",
			"conversation_id", m.ConversationID, "receiver_id", m.ReceiverID)
	}
}

func (ctl *ChatSocketController) handleUseCaseError(conn *realtime.Connection, err error) {
	switch {
	case errors.Is(err, usecase.ErrPersistence):
		ctl.replyError(conn, "internal_error", "failed to save message")
	case errors.Is(err, chat.ErrNotParticipant):
		ctl.replyError(conn, "forbidden", "caller is not a participant in this conversation")
	case errors.Is(err, chat.ErrNotFound), errors.Is(err, chat.ErrUnknownUser):
		ctl.replyError(conn, "not_found", err.Error())
	default:
		ctl.replyError(conn, "bad_request", err.Error())
	}
}

func (ctl *ChatSocketController) replyError(conn *realtime.Connection, code string, message string) {
	_ = conn.Send(event.Marshal(event.Error{
		Type:  event.TypeMessageError,
		Code:  code,
		Error: message,
	}))
}
