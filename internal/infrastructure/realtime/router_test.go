package realtime

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSocket records writes in memory in place of a real websocket.
type fakeSocket struct {
	mu     sync.Mutex
	frames [][]byte
	closed bool
}

func (s *fakeSocket) WriteMessage(_ int, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	s.frames = append(s.frames, cp)
	return nil
}

func (s *fakeSocket) WriteControl(_ int, _ []byte, _ time.Time) error { return nil }
func (s *fakeSocket) SetWriteDeadline(_ time.Time) error              { return nil }

func (s *fakeSocket) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *fakeSocket) received() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]byte, len(s.frames))
	copy(out, s.frames)
	return out
}

func (s *fakeSocket) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestBroadcastReachesChannelMembers(t *testing.T) {
	r := NewRouter()
	defer r.Close()

	s1, s2, s3 := &fakeSocket{}, &fakeSocket{}, &fakeSocket{}
	c1 := NewConnection("u1", s1)
	c2 := NewConnection("u2", s2)
	c3 := NewConnection("u3", s3)
	r.Attach(c1)
	r.Attach(c2)
	r.Attach(c3)

	r.Join("conv-1", c1)
	r.Join("conv-1", c2)

	delivered := r.Broadcast("conv-1", []byte("hello"), "")
	assert.Equal(t, 2, delivered)

	waitFor(t, func() bool { return len(s1.received()) == 1 && len(s2.received()) == 1 })
	assert.Empty(t, s3.received(), "non-member must not receive channel traffic")
}

func TestBroadcastExcludesOriginator(t *testing.T) {
	r := NewRouter()
	defer r.Close()

	s1, s2 := &fakeSocket{}, &fakeSocket{}
	c1 := NewConnection("u1", s1)
	c2 := NewConnection("u2", s2)
	r.Attach(c1)
	r.Attach(c2)
	r.Join("conv-1", c1)
	r.Join("conv-1", c2)

	delivered := r.Broadcast("conv-1", []byte("typing"), "u1")
	assert.Equal(t, 1, delivered)

	waitFor(t, func() bool { return len(s2.received()) == 1 })
	assert.Empty(t, s1.received())
}

func TestNotifyUserHitsPersonalChannel(t *testing.T) {
	r := NewRouter()
	defer r.Close()

	s := &fakeSocket{}
	c := NewConnection("u1", s)
	r.Attach(c)

	assert.True(t, r.NotifyUser("u1", []byte("ping")))
	assert.False(t, r.NotifyUser("offline-user", []byte("ping")))

	waitFor(t, func() bool { return len(s.received()) == 1 })
}

func TestAttachReplacesPreviousSession(t *testing.T) {
	r := NewRouter()
	defer r.Close()

	oldSock, newSock := &fakeSocket{}, &fakeSocket{}
	oldConn := NewConnection("u1", oldSock)
	r.Attach(oldConn)
	r.Join("conv-1", oldConn)

	newConn := NewConnection("u1", newSock)
	r.Attach(newConn)

	waitFor(t, oldSock.isClosed)

	// the replaced session also lost its channel subscriptions
	assert.False(t, r.InChannel("conv-1", oldConn))

	r.Join("conv-1", newConn)
	delivered := r.Broadcast("conv-1", []byte("hi"), "")
	assert.Equal(t, 1, delivered)
}

func TestDetachClearsSubscriptions(t *testing.T) {
	r := NewRouter()
	defer r.Close()

	s := &fakeSocket{}
	c := NewConnection("u1", s)
	r.Attach(c)
	r.Join("conv-1", c)
	require.True(t, r.InChannel("conv-1", c))

	r.Detach(c)

	assert.False(t, r.InChannel("conv-1", c))
	assert.Equal(t, 0, r.Broadcast("conv-1", []byte("hi"), ""))
	assert.False(t, r.NotifyUser("u1", []byte("hi")))
}

func TestJoinIgnoresUnattachedConnection(t *testing.T) {
	r := NewRouter()
	defer r.Close()

	c := NewConnection("u1", &fakeSocket{})
	r.Join("conv-1", c)
	assert.False(t, r.InChannel("conv-1", c))
}
