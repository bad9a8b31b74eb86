package chat

import "errors"

// Domain-level errors for conversation and message behaviors.
// Controllers map these to HTTP statuses; use cases return them unwrapped
// (or wrapped with %w) so callers can test with errors.Is.
var (
	ErrNotFound         = errors.New("chat: conversation not found")
	ErrUnknownUser      = errors.New("chat: user not found")
	ErrNotParticipant   = errors.New("chat: caller is not a participant in the conversation")
	ErrEmptyContent     = errors.New("chat: message content is empty")
	ErrSelfConversation = errors.New("chat: a conversation needs two distinct users")
	ErrDuplicatePair    = errors.New("chat: conversation already exists for this pair")
)
