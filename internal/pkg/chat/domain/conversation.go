package chat

import (
	"time"

	"github.com/google/uuid"
)

// Conversation is the unique thread between exactly two users.
//
// The pair is stored normalized (ParticipantA < ParticipantB lexically) so a
// single unique index on (participant_a, participant_b) enforces at most one
// conversation per unordered pair regardless of who initiated it.
//
// LastMessage/LastMessageAt are a denormalized projection of the message log
// kept for cheap list rendering; the message table is the source of truth and
// concurrent senders race on these fields with last-writer-wins.
type Conversation struct {
	ID            string    `db:"id"`
	ParticipantA  string    `db:"participant_a"`
	ParticipantB  string    `db:"participant_b"`
	LastMessage   string    `db:"last_message"`
	LastMessageAt time.Time `db:"last_message_at"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

// canonicalID lowers a uuid to its canonical text form so Go's lexical
// comparison agrees with the store's uuid ordering. Non-uuid ids pass through
// unchanged.
func canonicalID(id string) string {
	if u, err := uuid.Parse(id); err == nil {
		return u.String()
	}
	return id
}

// NormalizePair orders two distinct user ids into the canonical (a, b) form.
// It rejects empty ids and self-pairs; uuid ids are canonicalized first, so a
// mixed-case variant of the same uuid still counts as a self-pair.
func NormalizePair(first, second string) (string, string, error) {
	if first == "" || second == "" {
		return "", "", ErrUnknownUser
	}
	first, second = canonicalID(first), canonicalID(second)
	if first == second {
		return "", "", ErrSelfConversation
	}
	if first < second {
		return first, second, nil
	}
	return second, first, nil
}

// NewConversation builds an unpersisted conversation for the given pair.
// lastMessageAt is seeded to the creation time so new conversations sort by
// recency alongside active ones.
func NewConversation(first, second string, now time.Time) (Conversation, error) {
	a, b, err := NormalizePair(first, second)
	if err != nil {
		return Conversation{}, err
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}
	return Conversation{
		ParticipantA:  a,
		ParticipantB:  b,
		LastMessage:   "",
		LastMessageAt: now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// HasParticipant tells whether userID belongs to this conversation.
func (c Conversation) HasParticipant(userID string) bool {
	return userID != "" && (userID == c.ParticipantA || userID == c.ParticipantB)
}

// OtherParticipant returns the peer of userID, or "" when userID is not a
// participant.
func (c Conversation) OtherParticipant(userID string) string {
	switch userID {
	case c.ParticipantA:
		return c.ParticipantB
	case c.ParticipantB:
		return c.ParticipantA
	}
	return ""
}

// Participants returns both participant ids in canonical order.
func (c Conversation) Participants() [2]string {
	return [2]string{c.ParticipantA, c.ParticipantB}
}
