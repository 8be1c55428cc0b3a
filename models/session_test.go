package models

import (
	"context"
	"sync"
	"testing"

	"github.com/aukilabs/gecko/camera"
	"github.com/aukilabs/gecko/geometry"
	"github.com/stretchr/testify/require"
)

func newTestSession(id uint32) *Session {
	cam := camera.NewOrbit(geometry.V3[float32](0, 0, 10), geometry.Zero3[float32]())
	return NewSession(id, "client-test", cam)
}

func TestNewSession(t *testing.T) {
	a := newTestSession(1)
	b := newTestSession(2)

	require.Equal(t, uint32(1), a.ID)
	require.Equal(t, "client-test", a.ClientID)
	require.NotEmpty(t, a.SessionUUID)
	require.NotEqual(t, a.SessionUUID, b.SessionUUID)
	require.False(t, a.StartedAt.IsZero())
}

func TestSessionUseCamera(t *testing.T) {
	session := newTestSession(1)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			session.UseCamera(func(o *camera.Orbit) {
				o.ChangeRadius(-0.5)
			})
		}()
	}
	wg.Wait()

	session.UseCamera(func(o *camera.Orbit) {
		require.InDelta(t, 5, o.Radius(), 1e-9)
	})
}

func TestSessionModuleState(t *testing.T) {
	session := newTestSession(1)

	_, ok := session.ModuleState("probe")
	require.False(t, ok)

	session.SetModuleState("probe", 21)
	state, ok := session.ModuleState("probe")
	require.True(t, ok)
	require.Equal(t, 21, state)
}

func TestSessionClose(t *testing.T) {
	session := newTestSession(1)

	select {
	case <-session.Done():
		t.Fatal("session is done before being closed")
	default:
	}

	session.Close()
	session.Close()
	<-session.Done()
}

func TestSessionStore(t *testing.T) {
	t.Run("add and get", func(t *testing.T) {
		var store SessionStore
		session := newTestSession(store.NewID())
		store.Add(context.Background(), session)

		got, ok := store.Get(session.ID)
		require.True(t, ok)
		require.Equal(t, session, got)
		require.Equal(t, 1, store.Count())
	})

	t.Run("remove closes the session and reuses its id", func(t *testing.T) {
		var store SessionStore

		a := newTestSession(store.NewID())
		b := newTestSession(store.NewID())
		store.Add(context.Background(), a)
		store.Add(context.Background(), b)

		store.Remove(context.Background(), a)
		_, ok := store.Get(a.ID)
		require.False(t, ok)
		require.Equal(t, 1, store.Count())
		<-a.Done()

		require.Equal(t, a.ID, store.NewID())

		store.Remove(context.Background(), a)
		require.Equal(t, 1, store.Count())
	})

	t.Run("global session id", func(t *testing.T) {
		var store SessionStore
		require.Equal(t, "geckox1f", store.GlobalSessionID(31))

		named := &SessionStore{ServerID: "eu1"}
		require.Equal(t, "eu1xa", named.GlobalSessionID(10))
	})
}
