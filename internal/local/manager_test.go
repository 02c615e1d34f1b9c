package local

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_ReleaseCurrent(t *testing.T) {
	a := NewStorage()
	b := NewStorage()
	m := NewManager([]Local{a, b})

	a.Set("x", 1)
	b.Set("y", 2)

	m.ReleaseCurrent()

	_, err := a.Get("x")
	assert.ErrorIs(t, err, ErrUnbound)
	_, err = b.Get("y")
	assert.ErrorIs(t, err, ErrUnbound)
	assert.Equal(t, uint64(1), m.Releases())
}

func TestManager_ReleaseCurrent_EmptyMemberDoesNotShortCircuit(t *testing.T) {
	empty := NewStorage() // first in order, never written
	full := NewStorage()
	m := NewManager([]Local{empty, full})

	full.Set("y", 2)

	m.ReleaseCurrent()

	_, err := full.Get("y")
	assert.ErrorIs(t, err, ErrUnbound, "release must continue past members with no data")
}

func TestManager_ReleaseCurrent_MixedMembers(t *testing.T) {
	storage := NewStorage()
	stack := NewStack()
	m := NewManager([]Local{storage, stack})

	storage.Set("x", 1)
	stack.Push("v")

	m.ReleaseCurrent()

	_, err := storage.Get("x")
	assert.ErrorIs(t, err, ErrUnbound)
	_, ok := stack.Top()
	assert.False(t, ok)
}

func TestManager_IdentOverride_AppliesToInitialMembers(t *testing.T) {
	a := NewStorage()
	b := NewStack()

	NewManager([]Local{a, b}, WithManagerIdent(FixedIdent(7)))

	assert.Equal(t, ContextID(7), a.Ident())
	assert.Equal(t, ContextID(7), b.Ident())
}

func TestManager_IdentOverride_NotAppliedToLaterMembers(t *testing.T) {
	m := NewManager(nil, WithManagerIdent(FixedIdent(7)))

	late := NewStorage(WithIdent(FixedIdent(1)))
	m.Register(late)

	assert.Equal(t, ContextID(1), late.Ident(), "later members keep their own identity function")
}

func TestManager_Register_ReleasesNewMember(t *testing.T) {
	m := NewManager(nil)

	s := NewStorage()
	m.Register(s)
	s.Set("x", 1)

	m.ReleaseCurrent()

	_, err := s.Get("x")
	assert.ErrorIs(t, err, ErrUnbound)
}

func TestManager_ReleaseLeavesHandleUnbound(t *testing.T) {
	s := NewStorage()
	m := NewManager([]Local{s})
	p := s.Proxy("answer")

	s.Set("answer", 42)

	v, err := p.Resolve()
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	m.ReleaseCurrent()

	_, err = p.Resolve()
	assert.ErrorIs(t, err, ErrUnbound)
	_, err = p.Attr("anything")
	assert.ErrorIs(t, err, ErrUnbound)
}

func TestManager_WrapBody_ReleasesOnEOF(t *testing.T) {
	s := NewStorage()
	m := NewManager([]Local{s})

	s.Set("x", 1)

	body := m.WrapBody(io.NopCloser(strings.NewReader("response body")))

	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "response body", string(data))

	_, err = s.Get("x")
	assert.ErrorIs(t, err, ErrUnbound)
	assert.Equal(t, uint64(1), m.Releases())

	// Closing after exhaustion must not release twice.
	require.NoError(t, body.Close())
	assert.Equal(t, uint64(1), m.Releases())
}

func TestManager_WrapBody_ReleasesOnEarlyClose(t *testing.T) {
	s := NewStorage()
	m := NewManager([]Local{s})

	s.Set("x", 1)

	body := m.WrapBody(io.NopCloser(strings.NewReader("never read")))
	require.NoError(t, body.Close())

	_, err := s.Get("x")
	assert.ErrorIs(t, err, ErrUnbound)
	assert.Equal(t, uint64(1), m.Releases())
}

func TestManager_String(t *testing.T) {
	m := NewManager([]Local{NewStorage(), NewStack()})

	assert.Equal(t, "<Manager storages: 2>", m.String())
}
