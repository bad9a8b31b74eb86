package usecase

import "fmt"

// ErrPersistence indicates an infrastructure/repository failure inside a use
// case. Domain errors (chat.ErrNotFound, chat.ErrNotParticipant, ...) pass
// through untouched; only unexpected storage failures are wrapped with this.
var ErrPersistence = fmt.Errorf("chat use case persistence error")
