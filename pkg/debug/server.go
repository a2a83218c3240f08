// Package debug provides an optional WebSocket observability sink. It
// implements agent.Sink by broadcasting state snapshots to every connected
// client; events are buffered per client and dropped when a client falls
// behind, so the agent control path is never awaited.
package debug

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/kingbootoshi/feather/pkg/agent"
	"github.com/kingbootoshi/feather/pkg/llm"
)

const clientSendBuffer = 64

// Event is the wire envelope for one sink notification.
type Event struct {
	Type      string      `json:"type"`
	Event     string      `json:"event"`
	AgentID   string      `json:"agent_id,omitempty"`
	Iteration int         `json:"iteration,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
	Seq       uint64      `json:"seq"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Server is a WebSocket fan-out for agent debug events.
type Server struct {
	addr     string
	logger   zerolog.Logger
	upgrader websocket.Upgrader
	server   *http.Server
	seq      uint64

	mu      sync.Mutex
	clients map[*client]struct{}
}

// NewServer creates a debug server listening on addr once started.
func NewServer(addr string, logger zerolog.Logger) *Server {
	return &Server{
		addr:   addr,
		logger: logger.With().Str("component", "debug").Logger(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
}

// Start begins serving WebSocket connections on /ws in the background.
func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)

	s.server = &http.Server{Addr: s.addr, Handler: mux}

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error().Err(err).Msg("Debug server stopped")
		}
	}()

	s.logger.Info().Str("addr", s.addr).Msg("Debug server started")
	return nil
}

// Stop shuts the server down and disconnects all clients.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	for c := range s.clients {
		close(c.send)
		delete(s.clients, c)
	}
	s.mu.Unlock()

	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	c := &client{conn: conn, send: make(chan []byte, clientSendBuffer)}

	s.mu.Lock()
	s.clients[c] = struct{}{}
	count := len(s.clients)
	s.mu.Unlock()

	s.logger.Debug().Int("clients", count).Msg("Debug client connected")

	go s.writePump(c)
	go s.readPump(c)
}

func (s *Server) writePump(c *client) {
	for data := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			break
		}
	}
	c.conn.Close()
}

// readPump discards inbound frames; the sink is write-only. It exists to
// detect client disconnects.
func (s *Server) readPump(c *client) {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
	s.drop(c)
}

func (s *Server) drop(c *client) {
	s.mu.Lock()
	if _, ok := s.clients[c]; ok {
		delete(s.clients, c)
		close(c.send)
	}
	s.mu.Unlock()
}

// broadcast sends an event to every connected client without blocking. A
// client whose buffer is full loses the event.
func (s *Server) broadcast(event Event) {
	event.Type = "event"
	event.Timestamp = time.Now().UnixMilli()
	event.Seq = atomic.AddUint64(&s.seq, 1)

	data, err := json.Marshal(event)
	if err != nil {
		s.logger.Error().Err(err).Str("event", event.Event).Msg("Failed to marshal event")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		select {
		case c.send <- data:
		default:
			s.logger.Debug().Str("event", event.Event).Msg("Dropping event for slow client")
		}
	}
}

// OnAgentRegistered implements agent.Sink.
func (s *Server) OnAgentRegistered(info agent.Info) {
	s.broadcast(Event{Event: "agent_registered", AgentID: info.ID, Data: info})
}

// OnSystemPromptUpdated implements agent.Sink.
func (s *Server) OnSystemPromptUpdated(agentID, prompt string) {
	s.broadcast(Event{Event: "system_prompt_updated", AgentID: agentID, Data: prompt})
}

// OnMessageHistoryUpdated implements agent.Sink.
func (s *Server) OnMessageHistoryUpdated(agentID string, messages []llm.Message) {
	s.broadcast(Event{Event: "message_history_updated", AgentID: agentID, Data: messages})
}

// OnLLMRequestStored implements agent.Sink.
func (s *Server) OnLLMRequestStored(agentID string, iteration int, req llm.ChatRequest) {
	s.broadcast(Event{Event: "llm_request_stored", AgentID: agentID, Iteration: iteration, Data: req})
}

// OnLLMResponseStored implements agent.Sink.
func (s *Server) OnLLMResponseStored(agentID string, iteration int, resp llm.ChatResponse) {
	s.broadcast(Event{Event: "llm_response_stored", AgentID: agentID, Iteration: iteration, Data: resp})
}

// OnErrorUpdated implements agent.Sink.
func (s *Server) OnErrorUpdated(agentID, message string) {
	s.broadcast(Event{Event: "error_updated", AgentID: agentID, Data: message})
}

// OnLogAppended implements agent.Sink.
func (s *Server) OnLogAppended(agentID, line string) {
	s.broadcast(Event{Event: "log_appended", AgentID: agentID, Data: line})
}
