package adapter

import (
	"context"
	"sort"
	"strconv"
	"sync"

	chat "github.com/LavanyaThanigaivel/GigConnect/internal/pkg/chat/domain"
)

// MemoryChatRepository is an in-memory ChatRepository used by tests and local
// runs without Postgres. It honors the same contracts as the Pg adapter,
// including the unique-pair rejection surfaced as chat.ErrDuplicatePair.
type MemoryChatRepository struct {
	mu            sync.RWMutex
	nextID        int
	conversations map[string]chat.Conversation // id -> conversation
	pairIndex     map[[2]string]string         // normalized pair -> conversation id
	messages      map[string][]chat.Message    // conversation id -> append-ordered log
}

func NewMemoryChatRepository() *MemoryChatRepository {
	return &MemoryChatRepository{
		conversations: make(map[string]chat.Conversation),
		pairIndex:     make(map[[2]string]string),
		messages:      make(map[string][]chat.Message),
	}
}

func (r *MemoryChatRepository) CreateConversation(_ context.Context, c chat.Conversation) (chat.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := [2]string{c.ParticipantA, c.ParticipantB}
	if _, exists := r.pairIndex[key]; exists {
		return chat.Conversation{}, chat.ErrDuplicatePair
	}

	r.nextID++
	c.ID = "conv-" + strconv.Itoa(r.nextID)
	r.conversations[c.ID] = c
	r.pairIndex[key] = c.ID
	return c, nil
}

func (r *MemoryChatRepository) FindConversationByID(_ context.Context, id string) (chat.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.conversations[id]
	if !ok {
		return chat.Conversation{}, chat.ErrNotFound
	}
	return c, nil
}

func (r *MemoryChatRepository) FindConversationByPair(_ context.Context, participantA, participantB string) (chat.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.pairIndex[[2]string{participantA, participantB}]
	if !ok {
		return chat.Conversation{}, chat.ErrNotFound
	}
	return r.conversations[id], nil
}

func (r *MemoryChatRepository) ListConversationsByUser(_ context.Context, userID string) ([]chat.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var convs []chat.Conversation
	for _, c := range r.conversations {
		if c.HasParticipant(userID) {
			convs = append(convs, c)
		}
	}
	sort.Slice(convs, func(i, j int) bool {
		return convs[i].LastMessageAt.After(convs[j].LastMessageAt)
	})
	return convs, nil
}

func (r *MemoryChatRepository) AppendMessage(_ context.Context, m chat.Message) (chat.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.conversations[m.ConversationID]
	if !ok {
		return chat.Message{}, chat.ErrNotFound
	}

	c.LastMessage = m.Content
	c.LastMessageAt = m.CreatedAt
	c.UpdatedAt = m.CreatedAt
	r.conversations[c.ID] = c

	r.nextID++
	m.ID = "msg-" + strconv.Itoa(r.nextID)
	r.messages[c.ID] = append(r.messages[c.ID], m)
	return m, nil
}

func (r *MemoryChatRepository) ListMessages(_ context.Context, conversationID string) ([]chat.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	log := r.messages[conversationID]
	msgs := make([]chat.Message, len(log))
	copy(msgs, log)
	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].CreatedAt.Before(msgs[j].CreatedAt)
	})
	return msgs, nil
}

func (r *MemoryChatRepository) MarkMessagesRead(_ context.Context, conversationID, receiverID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var updated int64
	log := r.messages[conversationID]
	for i := range log {
		if log[i].ReceiverID == receiverID && !log[i].Read {
			log[i].Read = true
			updated++
		}
	}
	return updated, nil
}
