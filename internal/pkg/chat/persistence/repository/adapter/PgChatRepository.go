package adapter

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	chat "github.com/LavanyaThanigaivel/GigConnect/internal/pkg/chat/domain"
)

const pgUniqueViolation = "23505"

// PgChatRepository implements the ChatRepository port on Postgres via pgx.
type PgChatRepository struct {
	pool *pgxpool.Pool
}

func NewPgChatRepository(pool *pgxpool.Pool) *PgChatRepository {
	return &PgChatRepository{pool: pool}
}

func (r *PgChatRepository) CreateConversation(ctx context.Context, c chat.Conversation) (chat.Conversation, error) {
	if r == nil || r.pool == nil {
		return chat.Conversation{}, errors.New("PgChatRepository: nil pool")
	}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO chat.conversation (participant_a, participant_b, last_message, last_message_at, created_at, updated_at)
		VALUES ($1::uuid, $2::uuid, $3, $4, $5, $5)
		RETURNING id::text
	`, c.ParticipantA, c.ParticipantB, c.LastMessage, c.LastMessageAt, c.CreatedAt).Scan(&c.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return chat.Conversation{}, chat.ErrDuplicatePair
		}
		return chat.Conversation{}, err
	}
	return c, nil
}

func (r *PgChatRepository) FindConversationByID(ctx context.Context, id string) (chat.Conversation, error) {
	if r == nil || r.pool == nil {
		return chat.Conversation{}, errors.New("PgChatRepository: nil pool")
	}
	return r.scanConversation(r.pool.QueryRow(ctx, `
		SELECT id::text, participant_a::text, participant_b::text, last_message, last_message_at, created_at, updated_at
		FROM chat.conversation
		WHERE id = $1::uuid
	`, id))
}

func (r *PgChatRepository) FindConversationByPair(ctx context.Context, participantA, participantB string) (chat.Conversation, error) {
	if r == nil || r.pool == nil {
		return chat.Conversation{}, errors.New("PgChatRepository: nil pool")
	}
	return r.scanConversation(r.pool.QueryRow(ctx, `
		SELECT id::text, participant_a::text, participant_b::text, last_message, last_message_at, created_at, updated_at
		FROM chat.conversation
		WHERE participant_a = $1::uuid AND participant_b = $2::uuid
	`, participantA, participantB))
}

func (r *PgChatRepository) ListConversationsByUser(ctx context.Context, userID string) ([]chat.Conversation, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, participant_a::text, participant_b::text, last_message, last_message_at, created_at, updated_at
		FROM chat.conversation
		WHERE participant_a = $1::uuid OR participant_b = $1::uuid
		ORDER BY last_message_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var convs []chat.Conversation
	for rows.Next() {
		var c chat.Conversation
		if err := rows.Scan(&c.ID, &c.ParticipantA, &c.ParticipantB, &c.LastMessage, &c.LastMessageAt, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		convs = append(convs, c)
	}
	return convs, rows.Err()
}

// AppendMessage refreshes the conversation projection and inserts the message
// in one transaction so readers never observe a message whose conversation
// still shows an older last_message_at than the log.
func (r *PgChatRepository) AppendMessage(ctx context.Context, m chat.Message) (chat.Message, error) {
	if r == nil || r.pool == nil {
		return chat.Message{}, errors.New("PgChatRepository: nil pool")
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return chat.Message{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ct, err := tx.Exec(ctx, `
		UPDATE chat.conversation
		SET last_message = $2, last_message_at = $3, updated_at = $3
		WHERE id = $1::uuid
	`, m.ConversationID, m.Content, m.CreatedAt)
	if err != nil {
		return chat.Message{}, err
	}
	if ct.RowsAffected() == 0 {
		return chat.Message{}, chat.ErrNotFound
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO chat.message (conversation_id, sender_id, receiver_id, content, read, created_at)
		VALUES ($1::uuid, $2::uuid, $3::uuid, $4, $5, $6)
		RETURNING id::text
	`, m.ConversationID, m.SenderID, m.ReceiverID, m.Content, m.Read, m.CreatedAt).Scan(&m.ID)
	if err != nil {
		return chat.Message{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return chat.Message{}, err
	}
	return m, nil
}

func (r *PgChatRepository) ListMessages(ctx context.Context, conversationID string) ([]chat.Message, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, conversation_id::text, sender_id::text, receiver_id::text, content, read, created_at
		FROM chat.message
		WHERE conversation_id = $1::uuid
		ORDER BY created_at ASC, id ASC
	`, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []chat.Message
	for rows.Next() {
		var m chat.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.ReceiverID, &m.Content, &m.Read, &m.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func (r *PgChatRepository) MarkMessagesRead(ctx context.Context, conversationID, receiverID string) (int64, error) {
	if r == nil || r.pool == nil {
		return 0, errors.New("PgChatRepository: nil pool")
	}
	ct, err := r.pool.Exec(ctx, `
		UPDATE chat.message
		SET read = TRUE
		WHERE conversation_id = $1::uuid AND receiver_id = $2::uuid AND read = FALSE
	`, conversationID, receiverID)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}

func (r *PgChatRepository) scanConversation(row pgx.Row) (chat.Conversation, error) {
	var c chat.Conversation
	err := row.Scan(&c.ID, &c.ParticipantA, &c.ParticipantB, &c.LastMessage, &c.LastMessageAt, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return chat.Conversation{}, chat.ErrNotFound
	}
	if err != nil {
		return chat.Conversation{}, err
	}
	return c, nil
}
