package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	name   string
	closed bool
}

func (f *fakeConn) Send(message any) error { return nil }
func (f *fakeConn) Close() error           { f.closed = true; return nil }

func TestRegisterReplacesPreviousConn(t *testing.T) {
	conns := NewConnections()
	first := &fakeConn{name: "first"}
	second := &fakeConn{name: "second"}

	replaced := conns.Register("p1", first)
	assert.Nil(t, replaced)
	assert.Equal(t, 1, conns.Len())

	replaced = conns.Register("p1", second)
	assert.Same(t, first, replaced)
	assert.Equal(t, 1, conns.Len())

	got, ok := conns.Get("p1")
	require.True(t, ok)
	assert.Same(t, second, got)

	// The replaced connection is fully unbound.
	_, ok = conns.PlayerID(first)
	assert.False(t, ok)
	id, ok := conns.PlayerID(second)
	require.True(t, ok)
	assert.Equal(t, "p1", id)
}

func TestRegisterSameConnTwice(t *testing.T) {
	conns := NewConnections()
	conn := &fakeConn{name: "only"}

	conns.Register("p1", conn)
	replaced := conns.Register("p1", conn)
	assert.Nil(t, replaced, "re-registering the same conn must not report it replaced")
	assert.Equal(t, 1, conns.Len())
}

func TestUnregisterOnlyIfSameConn(t *testing.T) {
	conns := NewConnections()
	stale := &fakeConn{name: "stale"}
	live := &fakeConn{name: "live"}

	conns.Register("p1", stale)
	conns.Register("p1", live)

	// The stale connection's close handler fires after the reconnect
	// already replaced it; the live binding must survive.
	assert.False(t, conns.Unregister("p1", stale))
	got, ok := conns.Get("p1")
	require.True(t, ok)
	assert.Same(t, live, got)

	assert.True(t, conns.Unregister("p1", live))
	_, ok = conns.Get("p1")
	assert.False(t, ok)
	assert.Equal(t, 0, conns.Len())
}
