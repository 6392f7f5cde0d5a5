package mail

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	mu      sync.Mutex
	sent    []Message
	fail    map[string]bool
	release chan struct{}
}

func (s *recordingSender) Send(ctx context.Context, msg Message) error {
	if s.release != nil {
		<-s.release
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail[msg.To] {
		return errors.New("smtp rejected")
	}
	s.sent = append(s.sent, msg)
	return nil
}

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestDispatcher_DeliversAndCounts(t *testing.T) {
	sender := &recordingSender{fail: map[string]bool{"bad@uni.test": true}}
	d := NewDispatcher(sender, 3, 10, time.Second, quietLogger())
	d.Start()

	assert.True(t, d.Enqueue(PasswordResetDone("a@uni.test")))
	assert.True(t, d.Enqueue(ClassRepAssigned("b@uni.test")))
	assert.True(t, d.Enqueue(PasswordResetDone("bad@uni.test")))

	require.NoError(t, d.Close(context.Background()))

	assert.Len(t, sender.sent, 2)
	assert.Equal(t, Stats{Sent: 2, Failed: 1}, d.Stats())
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	sender := &recordingSender{release: make(chan struct{})}
	d := NewDispatcher(sender, 1, 1, time.Second, quietLogger())

	// Not started: the single slot fills and the rest are dropped.
	assert.True(t, d.Enqueue(PasswordResetDone("a@uni.test")))
	assert.False(t, d.Enqueue(PasswordResetDone("b@uni.test")))
	assert.False(t, d.Enqueue(PasswordResetDone("c@uni.test")))

	d.Start()
	close(sender.release)
	require.NoError(t, d.Close(context.Background()))

	assert.Equal(t, Stats{Sent: 1, Dropped: 2}, d.Stats())
}

func TestDispatcher_RejectsAfterClose(t *testing.T) {
	d := NewDispatcher(&recordingSender{}, 1, 4, 0, quietLogger())
	d.Start()
	require.NoError(t, d.Close(context.Background()))
	require.NoError(t, d.Close(context.Background()))

	assert.False(t, d.Enqueue(PasswordResetDone("late@uni.test")))
	assert.Equal(t, int64(1), d.Stats().Dropped)
}

func TestDispatcher_CloseHonoursContext(t *testing.T) {
	sender := &recordingSender{release: make(chan struct{})}
	defer close(sender.release)
	d := NewDispatcher(sender, 1, 4, 0, quietLogger())
	d.Start()
	d.Enqueue(PasswordResetDone("slow@uni.test"))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, d.Close(ctx), context.DeadlineExceeded)
}

func TestPasswordResetRequest(t *testing.T) {
	msg := PasswordResetRequest("a@uni.test", "http://app.test/reset-password/abc")
	assert.Equal(t, "Password Reset Request", msg.Subject)
	assert.Contains(t, msg.Text, "http://app.test/reset-password/abc")
	assert.Contains(t, msg.HTML, `href="http://app.test/reset-password/abc"`)
}

func TestLogSender_RespectsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, NewLogSender(quietLogger()).Send(ctx, Message{To: "x"}), context.Canceled)
	assert.NoError(t, NewLogSender(quietLogger()).Send(context.Background(), Message{To: "x"}))
}
