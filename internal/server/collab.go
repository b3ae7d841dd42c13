package server

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"podium/internal/logging"
)

// collabHub relays edit messages between members of a room. Messages
// pass through untouched; there is no persistence and no merge logic,
// so the last writer wins on concurrent edits.
type collabHub struct {
	logger          *slog.Logger
	maxMessageBytes int64
	upgrader        websocket.Upgrader

	mu    sync.Mutex
	rooms map[string]map[string]*collabClient
}

type collabClient struct {
	id   string
	conn *websocket.Conn
	send chan outboundMessage
}

type outboundMessage struct {
	messageType int
	payload     []byte
}

func newCollabHub(maxMessageBytes int64, logger *slog.Logger) *collabHub {
	return &collabHub{
		logger:          logger.With(logging.String(logging.FieldComponent, "collab")),
		maxMessageBytes: maxMessageBytes,
		upgrader: websocket.Upgrader{
			// The daemon binds to loopback; cross-origin browser access
			// is a deployment concern, not ours.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		rooms: make(map[string]map[string]*collabClient),
	}
}

func (h *collabHub) handleJoin(w http.ResponseWriter, r *http.Request) {
	room := mux.Vars(r)["room"]
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", logging.Error(err))
		return
	}
	if h.maxMessageBytes > 0 {
		conn.SetReadLimit(h.maxMessageBytes)
	}

	client := &collabClient{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan outboundMessage, 16),
	}
	h.register(room, client)
	h.logger.Info("collab client joined",
		logging.String("room", room),
		logging.String("client_id", client.id))

	go h.writeLoop(client)
	h.readLoop(room, client)
}

func (h *collabHub) register(room string, client *collabClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	members := h.rooms[room]
	if members == nil {
		members = make(map[string]*collabClient)
		h.rooms[room] = members
	}
	members[client.id] = client
}

func (h *collabHub) unregister(room string, client *collabClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	members := h.rooms[room]
	if members == nil {
		return
	}
	if _, ok := members[client.id]; !ok {
		return
	}
	delete(members, client.id)
	close(client.send)
	if len(members) == 0 {
		delete(h.rooms, room)
	}
}

// readLoop relays every inbound message to the other members of the
// room until the connection drops.
func (h *collabHub) readLoop(room string, client *collabClient) {
	defer func() {
		h.unregister(room, client)
		_ = client.conn.Close()
		h.logger.Info("collab client left",
			logging.String("room", room),
			logging.String("client_id", client.id))
	}()

	for {
		messageType, payload, err := client.conn.ReadMessage()
		if err != nil {
			return
		}
		h.broadcast(room, client.id, outboundMessage{messageType: messageType, payload: payload})
	}
}

func (h *collabHub) writeLoop(client *collabClient) {
	for msg := range client.send {
		if err := client.conn.WriteMessage(msg.messageType, msg.payload); err != nil {
			return
		}
	}
}

// broadcast fans a message out to every room member except the sender.
// A member with a full send buffer is skipped rather than blocking the
// relay.
func (h *collabHub) broadcast(room, senderID string, msg outboundMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, member := range h.rooms[room] {
		if id == senderID {
			continue
		}
		select {
		case member.send <- msg:
		default:
			h.logger.Warn("collab client send buffer full, dropping message",
				logging.String("room", room),
				logging.String("client_id", id))
		}
	}
}

func (h *collabHub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for room, members := range h.rooms {
		for _, client := range members {
			_ = client.conn.Close()
			close(client.send)
		}
		delete(h.rooms, room)
	}
}
