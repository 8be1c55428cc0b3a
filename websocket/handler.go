package websocket

import (
	"context"
	"time"

	"github.com/aukilabs/gecko/models"
	"github.com/aukilabs/gecko/modules"
	"github.com/aukilabs/gecko/protocol"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"golang.org/x/net/websocket"
	"golang.org/x/sync/errgroup"
)

const (
	sendChanSize    = 512
	receiveChanSize = 64
)

// Handler represents a camera client handler.
type Handler interface {
	// Handles a client connection.
	HandleConnect(conn *websocket.Conn)

	// Handles a ping request.
	HandlePing(ctx context.Context, respond protocol.ResponseSender, msg protocol.Msg) error

	// Handles a request to start a camera session. A client that already has
	// a session gets a new one.
	HandleSessionStart(ctx context.Context, respond protocol.ResponseSender, msg protocol.Msg) error

	// Handle a message with a module.
	HandleWithModule(ctx context.Context, module modules.Module, respond protocol.ResponseSender, msg protocol.Msg) error

	// Handles a message that neither the handler nor a module handled.
	HandleUnknownMsg(ctx context.Context, respond protocol.ResponseSender, msg protocol.Msg) error

	// Handles a client's disconnection.
	HandleDisconnect(error)

	// Creates a message receiver used to receive incoming messages.
	Receiver() protocol.Receiver

	// Creates a message sender passed in service methods in order to send
	// messages.
	Sender() protocol.Sender

	// Closes the service and releases its allocated resources.
	Close()

	// The time a client is idle before being disconnected.
	IdleTimeout() time.Duration

	// Returns the session store.
	GetSessions() *models.SessionStore

	// Returns the modules.
	GetModules() []modules.Module

	// The current session.
	CurrentSession() *models.Session

	// Get ClientID
	GetClientID() string
}

// Handle serves a camera client until it disconnects, goes idle or ctx is
// done.
func Handle(ctx context.Context, conn *websocket.Conn, h Handler) {
	c := connection{
		conn:    conn,
		handler: h,
		outbox:  make(chan protocol.Msg, sendChanSize),
		inbox:   make(chan protocol.Msg, receiveChanSize),
		send:    h.Sender(),
		receive: h.Receiver(),
	}
	c.serve(ctx)
}

// connection pumps messages between a websocket and its handler. Reads and
// writes run in their own goroutines; handlers run on the dispatch loop.
type connection struct {
	conn    *websocket.Conn
	handler Handler
	outbox  chan protocol.Msg
	inbox   chan protocol.Msg
	send    protocol.Sender
	receive protocol.Receiver
	done    <-chan struct{}
}

func (c *connection) serve(ctx context.Context) {
	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	c.handler.HandleConnect(c.conn)

	g, gctx := errgroup.WithContext(ctx)
	c.done = gctx.Done()
	g.Go(func() error { return c.writeLoop(gctx) })
	g.Go(func() error { return c.readLoop(gctx) })

	reason := c.dispatch(gctx)
	cancel(reason)

	// Unblocks the read loop.
	c.conn.Close()
	g.Wait()

	c.handler.HandleDisconnect(reason)
}

func (c *connection) dispatch(ctx context.Context) error {
	idleTimeout := c.handler.IdleTimeout()
	idle := time.NewTimer(idleTimeout)
	defer idle.Stop()

	for {
		select {
		case <-ctx.Done():
			return context.Cause(ctx)

		case <-idle.C:
			return errors.New("idle connection").WithTag("duration", idleTimeout)

		case msg := <-c.inbox:
			idle.Reset(idleTimeout)

			if err := c.handleMessage(ctx, msg); err != nil {
				return errors.New("handling message failed").Wrap(err)
			}
		}
	}
}

// handleMessage runs the built-in handlers and then the modules. A message
// that nobody handled is reported to the client.
func (c *connection) handleMessage(ctx context.Context, msg protocol.Msg) error {
	switch msg.Type {
	case protocol.MsgTypePing:
		return c.handler.HandlePing(ctx, c, msg)

	case protocol.MsgTypeSessionStartRequest:
		return c.handler.HandleSessionStart(ctx, c, msg)
	}

	if c.handler.CurrentSession() != nil {
		for _, m := range c.handler.GetModules() {
			err := c.handler.HandleWithModule(ctx, m, c, msg)
			if errors.IsType(err, protocol.ErrTypeMsgSkip) {
				continue
			}
			return err
		}
	}

	return c.handler.HandleUnknownMsg(ctx, c, msg)
}

func (c *connection) writeLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case msg := <-c.outbox:
			if _, err := c.send(msg); err != nil {
				return errors.New("sending message failed").
					WithTag("msg_type", msg.Type).
					Wrap(err)
			}
		}
	}
}

func (c *connection) readLoop(ctx context.Context) error {
	for {
		msg, _, err := c.receive()
		if errors.IsType(err, protocol.ErrTypeInvalidMsg) {
			logs.WithTag(logs.ClientIDTag, c.handler.GetClientID()).Debug(err)
			continue
		}
		if err != nil {
			return errors.New("receiving message failed").Wrap(err)
		}

		select {
		case <-ctx.Done():
			return nil

		case c.inbox <- msg:
		}
	}
}

// Send implements protocol.ResponseSender.
func (c *connection) Send(msgType string, requestID uint32, data any) {
	msg, err := protocol.NewMsg(msgType, requestID, data)
	if err != nil {
		logs.WithTag(logs.ClientIDTag, c.handler.GetClientID()).
			WithTag("msg_type", msgType).
			Warn(err)
		return
	}
	c.SendMsg(msg)
}

// SendMsg implements protocol.ResponseSender. Messages sent after the
// connection is done are dropped.
func (c *connection) SendMsg(msg protocol.Msg) {
	if msg.Timestamp == 0 {
		msg.Timestamp = time.Now().UnixMilli()
	}

	select {
	case <-c.done:
	case c.outbox <- msg:
	}
}
