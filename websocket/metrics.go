package websocket

import (
	"context"
	"time"

	"github.com/aukilabs/gecko/modules"
	"github.com/aukilabs/gecko/protocol"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/net/websocket"
)

const (
	errTypeLabel        = "error_type"
	msgTypeLabel        = "msg_type"
	moduleLabel         = "module"
	publicEndpointLabel = "public_endpoint"

	defaultModule = "gecko"
)

var (
	wsConnectedClients = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "gecko_ws_connected_clients",
		Help: "The number of connected camera clients.",
	}, []string{publicEndpointLabel})

	wsReceivedMsgs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gecko_ws_received_msgs",
		Help: "The number of messages received from camera clients.",
	}, []string{publicEndpointLabel, msgTypeLabel})

	wsReceivedBytes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gecko_ws_received_bytes",
		Help: "The number of bytes received from camera clients.",
	}, []string{publicEndpointLabel, msgTypeLabel})

	wsReceiveErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gecko_ws_receive_errors",
		Help: "The errors that occurred while receiving a message.",
	}, []string{publicEndpointLabel, errTypeLabel})

	wsSentMsgs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gecko_ws_sent_msgs",
		Help: "The number of messages sent to camera clients.",
	}, []string{publicEndpointLabel, msgTypeLabel})

	wsSentBytes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gecko_ws_sent_bytes",
		Help: "The number of bytes sent to camera clients.",
	}, []string{publicEndpointLabel, msgTypeLabel})

	wsSendErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gecko_ws_send_errors",
		Help: "The errors that occurred while sending a message.",
	}, []string{publicEndpointLabel, errTypeLabel, msgTypeLabel})

	wsUnknownMsgs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gecko_ws_unknown_msgs",
		Help: "The number of messages that no handler or module handled.",
	}, []string{publicEndpointLabel, msgTypeLabel})

	wsModuleErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gecko_ws_module_errors",
		Help: "The errors returned by modules, which end the connection.",
	}, []string{publicEndpointLabel, moduleLabel, errTypeLabel})

	wsMsgLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gecko_ws_msg_latency",
		Help:    "The time to process a camera message.",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
	}, []string{publicEndpointLabel, msgTypeLabel, moduleLabel})
)

// HandlerWithMetrics decorates h with prometheus metrics labelled by
// publicEndpoint.
func HandlerWithMetrics(h Handler, publicEndpoint string) Handler {
	endpoint := prometheus.Labels{publicEndpointLabel: publicEndpoint}

	return &handlerWithMetrics{
		Handler:       h,
		connected:     wsConnectedClients.With(endpoint),
		receivedMsgs:  wsReceivedMsgs.MustCurryWith(endpoint),
		receivedBytes: wsReceivedBytes.MustCurryWith(endpoint),
		receiveErrors: wsReceiveErrors.MustCurryWith(endpoint),
		sentMsgs:      wsSentMsgs.MustCurryWith(endpoint),
		sentBytes:     wsSentBytes.MustCurryWith(endpoint),
		sendErrors:    wsSendErrors.MustCurryWith(endpoint),
		unknownMsgs:   wsUnknownMsgs.MustCurryWith(endpoint),
		moduleErrors:  wsModuleErrors.MustCurryWith(endpoint),
		latency:       wsMsgLatency.MustCurryWith(endpoint),
	}
}

type handlerWithMetrics struct {
	Handler

	connected     prometheus.Gauge
	receivedMsgs  *prometheus.CounterVec
	receivedBytes *prometheus.CounterVec
	receiveErrors *prometheus.CounterVec
	sentMsgs      *prometheus.CounterVec
	sentBytes     *prometheus.CounterVec
	sendErrors    *prometheus.CounterVec
	unknownMsgs   *prometheus.CounterVec
	moduleErrors  *prometheus.CounterVec
	latency       prometheus.ObserverVec
}

func (h *handlerWithMetrics) HandleConnect(conn *websocket.Conn) {
	h.connected.Inc()
	h.Handler.HandleConnect(conn)
}

func (h *handlerWithMetrics) HandlePing(ctx context.Context, respond protocol.ResponseSender, msg protocol.Msg) error {
	return h.measureLatency(msg, defaultModule, func() error {
		return h.Handler.HandlePing(ctx, respond, msg)
	})
}

func (h *handlerWithMetrics) HandleSessionStart(ctx context.Context, respond protocol.ResponseSender, msg protocol.Msg) error {
	return h.measureLatency(msg, defaultModule, func() error {
		return h.Handler.HandleSessionStart(ctx, respond, msg)
	})
}

func (h *handlerWithMetrics) HandleWithModule(ctx context.Context, module modules.Module, respond protocol.ResponseSender, msg protocol.Msg) error {
	err := h.measureLatency(msg, module.Name(), func() error {
		return h.Handler.HandleWithModule(ctx, module, respond, msg)
	})
	if err != nil && !errors.IsType(err, protocol.ErrTypeMsgSkip) {
		h.moduleErrors.WithLabelValues(module.Name(), errors.Type(err)).Inc()
	}
	return err
}

func (h *handlerWithMetrics) HandleUnknownMsg(ctx context.Context, respond protocol.ResponseSender, msg protocol.Msg) error {
	h.unknownMsgs.WithLabelValues(msg.Type).Inc()
	return h.Handler.HandleUnknownMsg(ctx, respond, msg)
}

func (h *handlerWithMetrics) HandleDisconnect(err error) {
	h.connected.Dec()
	h.Handler.HandleDisconnect(err)
}

func (h *handlerWithMetrics) Receiver() protocol.Receiver {
	receive := h.Handler.Receiver()

	return func() (protocol.Msg, int, error) {
		msg, n, err := receive()
		if err != nil {
			h.receiveErrors.WithLabelValues(errors.Type(err)).Inc()
		} else {
			h.receivedMsgs.WithLabelValues(msg.Type).Inc()
		}

		if n != 0 {
			h.receivedBytes.WithLabelValues(msg.Type).Add(float64(n))
		}
		return msg, n, err
	}
}

func (h *handlerWithMetrics) Sender() protocol.Sender {
	send := h.Handler.Sender()

	return func(msg protocol.Msg) (int, error) {
		n, err := send(msg)
		if err != nil {
			h.sendErrors.WithLabelValues(errors.Type(err), msg.Type).Inc()
		}

		if n != 0 {
			h.sentMsgs.WithLabelValues(msg.Type).Inc()
			h.sentBytes.WithLabelValues(msg.Type).Add(float64(n))
		}
		return n, err
	}
}

// Skipped messages are not observed since the module did no work.
func (h *handlerWithMetrics) measureLatency(msg protocol.Msg, module string, f func() error) error {
	start := time.Now()

	err := f()
	if errors.IsType(err, protocol.ErrTypeMsgSkip) {
		return err
	}

	h.latency.WithLabelValues(msg.Type, module).Observe(time.Since(start).Seconds())
	return err
}
