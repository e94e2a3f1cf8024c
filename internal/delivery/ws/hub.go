package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Vovarama1992/archive/internal/models"
)

// writeWait bounds a single socket write so a stalled client cannot hold
// up the rest of its room.
const writeWait = 5 * time.Second

// client serialises writes to one socket; a websocket.Conn allows one
// writer at a time.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) write(msg []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, msg)
}

// Hub fans upload progress out to the sockets joined to a room. One browser
// tab is one room; the admin form passes the room id along with its upload.
type Hub struct {
	mu    sync.Mutex
	rooms map[string]map[*websocket.Conn]*client
}

func NewHub() *Hub {
	log.Printf("[hub] init")
	return &Hub{
		rooms: make(map[string]map[*websocket.Conn]*client),
	}
}

// Register adds conn to the room and writes hello to it before any event
// sent to the room can reach the socket.
func (h *Hub) Register(roomID string, conn *websocket.Conn, hello []byte) error {
	c := &client{conn: conn}
	c.mu.Lock()
	defer c.mu.Unlock()

	if hello != nil {
		if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			return err
		}
		if err := conn.WriteMessage(websocket.TextMessage, hello); err != nil {
			return err
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.rooms[roomID]; !ok {
		h.rooms[roomID] = make(map[*websocket.Conn]*client)
		log.Printf("[hub] create room=%s", roomID)
	}

	h.rooms[roomID][conn] = c
	log.Printf("[hub] register room=%s conns=%d", roomID, len(h.rooms[roomID]))
	return nil
}

func (h *Hub) Unregister(roomID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.rooms[roomID]
	if !ok {
		return
	}

	if _, ok := conns[conn]; ok {
		delete(conns, conn)
		conn.Close()
		log.Printf("[hub] unregister room=%s conns=%d", roomID, len(conns))
	}

	if len(conns) == 0 {
		delete(h.rooms, roomID)
		log.Printf("[hub] delete room=%s", roomID)
	}
}

// Rooms reports how many sockets each room holds.
func (h *Hub) Rooms() map[string]int {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make(map[string]int, len(h.rooms))
	for id, conns := range h.rooms {
		out[id] = len(conns)
	}
	return out
}

// SendToRoom writes msg to every socket in the room. The hub lock is only
// held to snapshot the room.
func (h *Hub) SendToRoom(roomID string, msg []byte) {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.rooms[roomID]))
	for _, c := range h.rooms[roomID] {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	if len(clients) == 0 {
		log.Printf("[hub][SEND-SKIP] room=%s reason=no_active_connections", roomID)
		return
	}

	for _, c := range clients {
		if err := c.write(msg); err != nil {
			log.Printf("[hub][SEND-ERR] room=%s err=%v", roomID, err)
		}
	}
}

// Run forwards upload events to their rooms until events is closed or ctx ends.
func (h *Hub) Run(ctx context.Context, events <-chan models.UploadEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			payload, err := json.Marshal(ev)
			if err != nil {
				log.Printf("[hub][ERR] marshal event: %v", err)
				continue
			}
			log.Printf("[hub][EVENT] room=%s stage=%s", ev.RoomID, ev.Stage)
			h.SendToRoom(ev.RoomID, payload)
		}
	}
}

var Upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}
