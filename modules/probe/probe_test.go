package probe

import (
	"context"
	"testing"

	"github.com/aukilabs/gecko/geometry"
	"github.com/aukilabs/gecko/protocol"
	"github.com/aukilabs/gecko/scalarfield"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/stretchr/testify/require"
)

type testResponseSender struct {
	msgs []protocol.Msg
}

func (s *testResponseSender) Send(msgType string, requestID uint32, data any) {
	msg, err := protocol.NewMsg(msgType, requestID, data)
	if err != nil {
		panic(err)
	}
	s.SendMsg(msg)
}

func (s *testResponseSender) SendMsg(msg protocol.Msg) {
	s.msgs = append(s.msgs, msg)
}

func newTestModule(t *testing.T) *Module {
	f, err := scalarfield.New(geometry.Constant3[float32](-1), geometry.Constant3[float32](1), 3, 3, 3, float32(0))
	require.NoError(t, err)
	require.NoError(t, f.Set(2, 1, 0, 4.5))

	return &Module{Field: f}
}

func probe(t *testing.T, m *Module, req protocol.ProbeRequest) protocol.Msg {
	msg, err := protocol.NewMsg(protocol.MsgTypeProbeRequest, 5, req)
	require.NoError(t, err)

	var respond testResponseSender
	require.NoError(t, m.HandleMsg(context.Background(), &respond, msg))
	require.Len(t, respond.msgs, 1)
	require.Equal(t, uint32(5), respond.msgs[0].RequestID)
	return respond.msgs[0]
}

func TestModuleProbe(t *testing.T) {
	m := newTestModule(t)

	t.Run("sample", func(t *testing.T) {
		res := probe(t, m, protocol.ProbeRequest{I: 2, J: 1, K: 0})
		require.Equal(t, protocol.MsgTypeProbeResponse, res.Type)

		var payload protocol.ProbeResponse
		require.NoError(t, res.DataTo(&payload))
		require.Equal(t, float32(4.5), payload.Value)
		require.Equal(t, geometry.V3[float32](1, 0, -1), payload.Position)
	})

	t.Run("out of range", func(t *testing.T) {
		res := probe(t, m, protocol.ProbeRequest{I: 0, J: 0, K: 3})
		require.Equal(t, protocol.MsgTypeErrorResponse, res.Type)

		var payload protocol.ErrorResponse
		require.NoError(t, res.DataTo(&payload))
		require.Equal(t, scalarfield.ErrTypeOutOfRange, payload.Code)
	})

	t.Run("skip", func(t *testing.T) {
		var respond testResponseSender
		err := m.HandleMsg(context.Background(), &respond, protocol.Msg{Type: protocol.MsgTypePing})
		require.True(t, errors.IsType(err, protocol.ErrTypeMsgSkip))
	})
}
