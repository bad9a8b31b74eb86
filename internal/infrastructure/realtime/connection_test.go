package realtime

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingSocket rejects every data write.
type failingSocket struct {
	fakeSocket
}

func (s *failingSocket) WriteMessage(int, []byte) error {
	return errors.New("broken pipe")
}

func TestConnectionClosesAfterWriteFailure(t *testing.T) {
	s := &failingSocket{}
	c := NewConnection("u1", s)
	c.Start()

	require.NoError(t, c.Send([]byte("payload")))

	// the failed write tears the connection down instead of leaving it
	// half-open with a filling buffer
	waitFor(t, s.isClosed)
	assert.Error(t, c.Send([]byte("after failure")))
}

func TestConnectionSendAfterClose(t *testing.T) {
	s := &fakeSocket{}
	c := NewConnection("u1", s)
	c.Start()
	c.Close(1000, "bye")

	assert.Error(t, c.Send([]byte("late")))
	assert.True(t, s.isClosed())
}
