// Package probe implements the module that reads single samples of the
// scalar field.
package probe

import (
	"context"

	"github.com/aukilabs/gecko/models"
	"github.com/aukilabs/gecko/modules"
	"github.com/aukilabs/gecko/protocol"
	"github.com/aukilabs/gecko/scalarfield"
)

type Module struct {
	Field *scalarfield.Field[float32]

	session *models.Session
}

func (m *Module) Name() string {
	return "probe"
}

func (m *Module) Init(s *models.Session) {
	m.session = s
}

func (m *Module) HandleMsg(ctx context.Context, respond protocol.ResponseSender, msg protocol.Msg) error {
	if msg.Type != protocol.MsgTypeProbeRequest {
		return modules.SkipMsg(m.Name(), msg)
	}

	var req protocol.ProbeRequest
	if err := msg.DataTo(&req); err != nil {
		return err
	}

	value, err := m.Field.At(req.I, req.J, req.K)
	if err != nil {
		protocol.SendError(respond, msg.RequestID, err)
		return nil
	}

	respond.Send(protocol.MsgTypeProbeResponse, msg.RequestID, protocol.ProbeResponse{
		I:        req.I,
		J:        req.J,
		K:        req.K,
		Value:    value,
		Position: m.Field.ElementPosition(req.I, req.J, req.K),
	})
	return nil
}

func (m *Module) HandleDisconnect() {
	m.session = nil
}
