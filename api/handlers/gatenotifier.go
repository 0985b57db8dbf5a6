package handlers

import (
	socketio "github.com/googollee/go-socket.io"
	"github.com/googollee/go-socket.io/engineio"
	"github.com/googollee/go-socket.io/engineio/transport"
	"github.com/googollee/go-socket.io/engineio/transport/polling"
	"github.com/googollee/go-socket.io/engineio/transport/websocket"
	"go.uber.org/zap"

	"github.com/societyhq/society-api/models"
)

// GateNotifier pushes approval events to guard stations. Handlers depend on
// this interface so tests can capture emissions without a socket server.
type GateNotifier interface {
	VisitorApproved(visitor *models.VisitorRequest)
}

// SocketNotifier is the socket.io backed GateNotifier. Guard stations join a
// gate-<id> room and receive events for every request scoped to their gate.
type SocketNotifier struct {
	server    *socketio.Server
	broadcast func(room, event string, args ...interface{}) bool
}

// NewSocketNotifier builds the socket.io server and starts serving in the
// background. Callers mount Handler() on the router.
func NewSocketNotifier() *SocketNotifier {
	server := socketio.NewServer(&engineio.Options{
		Transports: []transport.Transport{
			polling.Default,
			websocket.Default,
		},
	})

	server.OnConnect("/", func(s socketio.Conn) error {
		s.SetContext("")
		zap.S().Debugw("socket.io client connected", "id", s.ID())
		return nil
	})

	server.OnError("/", func(s socketio.Conn, e error) {
		zap.S().Warnw("socket.io error", "error", e)
	})

	server.OnDisconnect("/", func(s socketio.Conn, reason string) {
		zap.S().Debugw("socket.io client disconnected", "id", s.ID(), "reason", reason)
	})

	server.OnEvent("/", "join_gate", func(s socketio.Conn, msg map[string]interface{}) {
		gateID, ok := msg["gateId"].(string)
		if ok && models.IsValidGate(gateID) {
			s.Join("gate-" + gateID)
			zap.S().Debugw("guard station joined gate room", "gateId", gateID)
		}
	})

	server.OnEvent("/", "leave_gate", func(s socketio.Conn, msg map[string]interface{}) {
		gateID, ok := msg["gateId"].(string)
		if ok {
			s.Leave("gate-" + gateID)
			zap.S().Debugw("guard station left gate room", "gateId", gateID)
		}
	})

	go func() {
		if err := server.Serve(); err != nil {
			zap.S().Errorw("socket.io server stopped", "error", err)
		}
	}()

	return &SocketNotifier{
		server: server,
		broadcast: func(room, event string, args ...interface{}) bool {
			return server.BroadcastToRoom("/", room, event, args...)
		},
	}
}

// Handler exposes the underlying socket.io HTTP handler for router mounting
func (n *SocketNotifier) Handler() *socketio.Server {
	return n.server
}

// Close shuts the socket.io server down
func (n *SocketNotifier) Close() error {
	return n.server.Close()
}

// VisitorApproved fans the approval out to every gate room the request is
// scoped to, so all relevant guard stations see the count advance
func (n *SocketNotifier) VisitorApproved(visitor *models.VisitorRequest) {
	data := map[string]interface{}{
		"visitor":         visitor,
		"displayName":     visitor.DisplayName(),
		"progress":        visitor.Progress(),
		"isFullyApproved": visitor.IsFullyApproved(),
	}
	for _, gateID := range visitor.GateIDs {
		n.broadcast("gate-"+gateID, "visitorApproved", data)
	}
}
