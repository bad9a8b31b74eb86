package realtime

import (
	"sync"
)

// Router is the relay's channel registry. Every attached connection has a
// personal channel (keyed by user id, served by NotifyUser) and may join any
// number of conversation channels after the caller verifies membership.
// Membership is connection-scoped and vanishes on disconnect; the router
// holds no durable state.
type Router struct {
	mu           sync.RWMutex
	sessions     map[string]*Connection            // sessionID -> connection
	userSessions map[string]string                 // userID -> sessionID
	channels     map[string]map[string]*Connection // conversationID -> sessionID -> connection
	sessionSubs  map[string]map[string]struct{}    // sessionID -> set of conversationIDs
}

// NewRouter constructs an initialized Router.
func NewRouter() *Router {
	return &Router{
		sessions:     make(map[string]*Connection),
		userSessions: make(map[string]string),
		channels:     make(map[string]map[string]*Connection),
		sessionSubs:  make(map[string]map[string]struct{}),
	}
}

// Attach registers a connection for the given user. A previous session for
// the same user is closed after the swap to enforce one active socket per
// user.
func (r *Router) Attach(conn *Connection) {
	var previous *Connection

	r.mu.Lock()
	if existingID, ok := r.userSessions[conn.UserID]; ok {
		if existing := r.sessions[existingID]; existing != nil {
			previous = existing
			r.detachLocked(existingID)
		}
	}

	r.sessions[conn.ID] = conn
	r.userSessions[conn.UserID] = conn.ID
	r.sessionSubs[conn.ID] = make(map[string]struct{})
	r.mu.Unlock()

	conn.Start()

	if previous != nil {
		previous.Close(4001, "session replaced")
	}
}

// Detach removes a connection if it is still tracked.
func (r *Router) Detach(conn *Connection) {
	r.mu.Lock()
	r.detachLocked(conn.ID)
	r.mu.Unlock()
}

// Join subscribes the connection to the conversation channel. Callers must
// verify the user is a participant of the conversation before joining.
func (r *Router) Join(conversationID string, conn *Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[conn.ID]; !ok {
		return
	}

	channel := r.channels[conversationID]
	if channel == nil {
		channel = make(map[string]*Connection)
		r.channels[conversationID] = channel
	}
	channel[conn.ID] = conn

	subs := r.sessionSubs[conn.ID]
	if subs == nil {
		subs = make(map[string]struct{})
		r.sessionSubs[conn.ID] = subs
	}
	subs[conversationID] = struct{}{}
}

// Leave unsubscribes the connection from the conversation channel.
func (r *Router) Leave(conversationID string, conn *Connection) {
	r.mu.Lock()
	r.leaveLocked(conversationID, conn.ID)
	r.mu.Unlock()
}

// InChannel reports whether the connection is currently subscribed to the
// conversation channel.
func (r *Router) InChannel(conversationID string, conn *Connection) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	subs, ok := r.sessionSubs[conn.ID]
	if !ok {
		return false
	}
	_, ok = subs[conversationID]
	return ok
}

// Broadcast writes payload to every member of the conversation channel.
// excludeUserID, when non-empty, skips that user (typing relays exclude the
// originator). Returns the number of successful deliveries.
func (r *Router) Broadcast(conversationID string, payload []byte, excludeUserID string) int {
	r.mu.RLock()
	channel := r.channels[conversationID]
	if len(channel) == 0 {
		r.mu.RUnlock()
		return 0
	}

	delivered := 0
	for _, conn := range channel {
		if excludeUserID != "" && conn.UserID == excludeUserID {
			continue
		}
		if err := conn.Send(payload); err == nil {
			delivered++
		}
	}
	r.mu.RUnlock()
	return delivered
}

// NotifyUser delivers payload to the personal channel of the given user.
// Returns false when the user has no live connection; delivery is best-effort
// and callers must not treat a miss as an error.
func (r *Router) NotifyUser(userID string, payload []byte) bool {
	r.mu.RLock()
	sessionID, ok := r.userSessions[userID]
	if !ok {
		r.mu.RUnlock()
		return false
	}
	conn := r.sessions[sessionID]
	r.mu.RUnlock()
	if conn == nil {
		return false
	}
	return conn.Send(payload) == nil
}

// Close terminates all tracked connections and clears router state.
func (r *Router) Close() {
	r.mu.Lock()
	sessions := make([]*Connection, 0, len(r.sessions))
	for _, conn := range r.sessions {
		sessions = append(sessions, conn)
	}
	r.sessions = make(map[string]*Connection)
	r.userSessions = make(map[string]string)
	r.channels = make(map[string]map[string]*Connection)
	r.sessionSubs = make(map[string]map[string]struct{})
	r.mu.Unlock()

	for _, conn := range sessions {
		conn.Close(1001, "router shutdown")
	}
}

func (r *Router) detachLocked(sessionID string) {
	conn, ok := r.sessions[sessionID]
	if !ok {
		return
	}
	delete(r.sessions, sessionID)

	if current, ok := r.userSessions[conn.UserID]; ok && current == sessionID {
		delete(r.userSessions, conn.UserID)
	}

	for channelID := range r.sessionSubs[sessionID] {
		r.leaveLocked(channelID, sessionID)
	}
	delete(r.sessionSubs, sessionID)
}

func (r *Router) leaveLocked(conversationID string, sessionID string) {
	if sessionID == "" {
		return
	}
	channel := r.channels[conversationID]
	if channel == nil {
		return
	}
	delete(channel, sessionID)
	if len(channel) == 0 {
		delete(r.channels, conversationID)
	}
	if subs, ok := r.sessionSubs[sessionID]; ok {
		delete(subs, conversationID)
		if len(subs) == 0 {
			delete(r.sessionSubs, sessionID)
		}
	}
}
