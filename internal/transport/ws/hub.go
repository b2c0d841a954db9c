package ws

import (
	"encoding/json"
	"log"
	"sync"
)

// MessageType defines the type of WebSocket message.
type MessageType string

const (
	MsgProspectReply MessageType = "prospect_reply"
	MsgStateUpdate   MessageType = "state_update"
	MsgSessionEnded  MessageType = "session_ended"
	MsgAnalysisReady MessageType = "analysis_ready"
	MsgError         MessageType = "error"
)

// Message is the WebSocket envelope format.
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub manages WebSocket connections per roleplay session: one trainee
// connection and any number of coach observers.
type Hub struct {
	traineeConns  map[string]*Connection          // sessionID -> conn
	observerConns map[string]map[*Connection]bool // sessionID -> conns

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
}

// Connection represents a WebSocket connection.
type Connection struct {
	SessionID  string
	IsObserver bool
	Send       chan []byte
	Hub        *Hub
}

// BroadcastMessage is a message to broadcast.
type BroadcastMessage struct {
	SessionID   string
	ToObservers bool
	Message     *Message
}

// NewHub creates a new WebSocket hub.
func NewHub() *Hub {
	h := &Hub{
		traineeConns:  make(map[string]*Connection),
		observerConns: make(map[string]map[*Connection]bool),
		register:      make(chan *Connection),
		unregister:    make(chan *Connection),
		broadcast:     make(chan *BroadcastMessage, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if conn.IsObserver {
				if h.observerConns[conn.SessionID] == nil {
					h.observerConns[conn.SessionID] = make(map[*Connection]bool)
				}
				h.observerConns[conn.SessionID][conn] = true
				log.Printf("Observer connected to session %s", conn.SessionID)
			} else {
				h.traineeConns[conn.SessionID] = conn
				log.Printf("Trainee connected to session %s", conn.SessionID)
			}
			h.mu.Unlock()

		case conn := <-h.unregister:
			h.mu.Lock()
			if conn.IsObserver {
				if observers, ok := h.observerConns[conn.SessionID]; ok && observers[conn] {
					delete(observers, conn)
					close(conn.Send)
					log.Printf("Observer disconnected from session %s", conn.SessionID)
				}
			} else {
				if existing, ok := h.traineeConns[conn.SessionID]; ok && existing == conn {
					delete(h.traineeConns, conn.SessionID)
					close(conn.Send)
					log.Printf("Trainee disconnected from session %s", conn.SessionID)
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			data, _ := json.Marshal(msg.Message)

			if msg.ToObservers {
				for conn := range h.observerConns[msg.SessionID] {
					select {
					case conn.Send <- data:
					default:
						// Drop message if buffer full
					}
				}
			} else {
				if conn, ok := h.traineeConns[msg.SessionID]; ok {
					select {
					case conn.Send <- data:
					default:
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection.
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection.
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// BroadcastToTrainee sends a message to the session's trainee (implements
// service.Broadcaster).
func (h *Hub) BroadcastToTrainee(sessionID string, msgType string, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &BroadcastMessage{
		SessionID: sessionID,
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}
}

// BroadcastToObservers sends a message to the session's observers
// (implements service.Broadcaster).
func (h *Hub) BroadcastToObservers(sessionID string, msgType string, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &BroadcastMessage{
		SessionID:   sessionID,
		ToObservers: true,
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}
}

// DisconnectSession drops every connection for a session (implements
// service.Broadcaster).
func (h *Hub) DisconnectSession(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conn, ok := h.traineeConns[sessionID]; ok {
		delete(h.traineeConns, sessionID)
		close(conn.Send)
	}
	for conn := range h.observerConns[sessionID] {
		close(conn.Send)
	}
	delete(h.observerConns, sessionID)
}
