// Package orbit implements the module that drives the session camera around
// the scalar field.
package orbit

import (
	"context"

	"github.com/aukilabs/gecko/camera"
	"github.com/aukilabs/gecko/geometry"
	"github.com/aukilabs/gecko/models"
	"github.com/aukilabs/gecko/modules"
	"github.com/aukilabs/gecko/protocol"
	"github.com/aukilabs/go-tooling/pkg/errors"
)

const (
	ErrTypeSessionNotStarted = "session_not_started"
)

// Module answers every camera change with the resulting view.
type Module struct {
	// Model places the unit cube mesh on the field bounds.
	Model geometry.Mat4

	session *models.Session
}

func (m *Module) Name() string {
	return "orbit"
}

func (m *Module) Init(s *models.Session) {
	m.session = s
}

func (m *Module) HandleMsg(ctx context.Context, respond protocol.ResponseSender, msg protocol.Msg) error {
	switch msg.Type {
	case protocol.MsgTypeOrbitRotate,
		protocol.MsgTypeOrbitPan,
		protocol.MsgTypeOrbitZoom,
		protocol.MsgTypeOrbitReset,
		protocol.MsgTypeOrbitViewRequest:

	default:
		return modules.SkipMsg(m.Name(), msg)
	}

	if m.session == nil {
		return errors.New("session not started").
			WithType(ErrTypeSessionNotStarted).
			WithTag("msg_type", msg.Type)
	}

	move, err := m.parseMove(msg)
	if err != nil {
		return err
	}

	var view protocol.OrbitView
	m.session.UseCamera(func(o *camera.Orbit) {
		move(o)
		view = m.view(o)
	})

	inv, err := m.Model.Inverse()
	if err != nil {
		protocol.SendError(respond, msg.RequestID, err)
		return nil
	}
	view.EyeModel = inv.TransformPoint(view.Eye)

	respond.Send(protocol.MsgTypeOrbitView, msg.RequestID, view)
	return nil
}

func (m *Module) HandleDisconnect() {
	m.session = nil
}

func (m *Module) parseMove(msg protocol.Msg) (func(*camera.Orbit), error) {
	switch msg.Type {
	case protocol.MsgTypeOrbitRotate:
		var req protocol.OrbitRotate
		if err := msg.DataTo(&req); err != nil {
			return nil, err
		}
		return func(o *camera.Orbit) {
			o.RotateVertical(req.DPhi)
			o.RotateHorizontal(req.DTheta)
		}, nil

	case protocol.MsgTypeOrbitPan:
		var req protocol.OrbitPan
		if err := msg.DataTo(&req); err != nil {
			return nil, err
		}
		return func(o *camera.Orbit) {
			o.MoveRight(req.Right)
			o.MoveUp(req.Up)
		}, nil

	case protocol.MsgTypeOrbitZoom:
		var req protocol.OrbitZoom
		if err := msg.DataTo(&req); err != nil {
			return nil, err
		}
		return func(o *camera.Orbit) {
			o.ChangeRadius(req.DRadius)
		}, nil

	case protocol.MsgTypeOrbitReset:
		return (*camera.Orbit).ResetAt, nil

	default:
		return func(*camera.Orbit) {}, nil
	}
}

func (m *Module) view(o *camera.Orbit) protocol.OrbitView {
	eye, view := o.EyeAndView()

	return protocol.OrbitView{
		Eye:    eye,
		At:     o.At(),
		View:   view,
		Model:  m.Model,
		Phi:    o.Phi(),
		Theta:  o.Theta(),
		Radius: o.Radius(),
	}
}
