package realtime

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	mu       sync.Mutex
	received []DashboardUpdate
	failing  bool
	closed   bool
	deadline time.Time
	block    chan struct{} // WriteJSON waits on it when set
}

func (c *fakeConn) SetWriteDeadline(t time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deadline = t
	return nil
}

func (c *fakeConn) WriteJSON(v interface{}) error {
	if c.block != nil {
		<-c.block
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failing {
		return errors.New("broken pipe")
	}
	c.received = append(c.received, v.(DashboardUpdate))
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.received)
}

func TestHubDeliversToTeamClientsOnly(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	teamA := &fakeConn{}
	teamB := &fakeConn{}
	hub.Register(1, teamA)
	hub.Register(2, teamB)

	hub.Publish(1, "reviewed")

	require.Eventually(t, func() bool { return teamA.count() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, teamB.count())
	assert.Equal(t, uint(1), teamA.received[0].TeamID)
	assert.Equal(t, "reviewed", teamA.received[0].UpdateType)
}

func TestHubWritesWithDeadline(t *testing.T) {
	hub := NewHub()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	hub.now = func() time.Time { return now }
	conn := &fakeConn{}
	hub.Register(1, conn)

	hub.deliver(DashboardUpdate{TeamID: 1, UpdateType: "reviewed"})

	assert.Equal(t, 1, conn.count())
	assert.Equal(t, now.Add(writeWait), conn.deadline)
}

func TestHubSlowClientDoesNotBlockOtherTeams(t *testing.T) {
	hub := NewHub()
	slow := &fakeConn{block: make(chan struct{})}
	hub.Register(1, slow)

	delivered := make(chan struct{})
	go func() {
		hub.deliver(DashboardUpdate{TeamID: 1, UpdateType: "submitted"})
		close(delivered)
	}()

	registered := make(chan struct{})
	go func() {
		hub.Register(2, &fakeConn{})
		hub.Unregister(1, &fakeConn{})
		close(registered)
	}()

	select {
	case <-registered:
	case <-time.After(time.Second):
		t.Fatal("hub stayed locked while writing to a slow client")
	}
	assert.Equal(t, 1, hub.ClientCount(2))

	close(slow.block)
	<-delivered
	assert.Equal(t, 1, slow.count())
	assert.Equal(t, 1, hub.ClientCount(1))
}

func TestHubDropsBrokenClients(t *testing.T) {
	hub := NewHub()
	broken := &fakeConn{failing: true}
	hub.Register(3, broken)
	require.Equal(t, 1, hub.ClientCount(3))

	hub.deliver(DashboardUpdate{TeamID: 3, UpdateType: "submitted"})

	assert.True(t, broken.closed)
	assert.Equal(t, 0, hub.ClientCount(3))
}

func TestHubUnregisterAndShutdown(t *testing.T) {
	hub := NewHub()
	a := &fakeConn{}
	b := &fakeConn{}
	hub.Register(1, a)
	hub.Register(1, b)
	hub.Unregister(1, a)
	hub.Unregister(1, a)
	assert.Equal(t, 1, hub.ClientCount(1))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()
	cancel()
	<-done

	assert.True(t, b.closed)
	assert.Equal(t, 0, hub.ClientCount(1))
}
