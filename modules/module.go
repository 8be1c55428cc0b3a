package modules

import (
	"context"

	"github.com/aukilabs/gecko/models"
	"github.com/aukilabs/gecko/protocol"
	"github.com/aukilabs/go-tooling/pkg/errors"
)

// Module is the interface that describes a module that handles camera client
// messages once a session is started.
type Module interface {
	// Returns the module name.
	Name() string

	// Initializes the module with the session of the client it serves.
	Init(*models.Session)

	// Handles a given message. Modules are free to decide whether they handle a
	// message.
	//
	// Returning an error typed protocol.ErrTypeMsgSkip indicates that handling
	// a message was skipped.
	//
	// Any other returned errors causes the current WebSocket client to be
	// disconnected.
	HandleMsg(context.Context, protocol.ResponseSender, protocol.Msg) error

	// Handles a client disconnection.
	HandleDisconnect()
}

// SkipMsg returns the error a module returns for a message it does not
// handle.
func SkipMsg(module string, msg protocol.Msg) error {
	return errors.New("message skipped").
		WithType(protocol.ErrTypeMsgSkip).
		WithTag("module", module).
		WithTag("msg_type", msg.Type)
}
