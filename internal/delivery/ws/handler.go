package ws

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"
)

type joinedMsg struct {
	Stage  string `json:"stage"`
	RoomID string `json:"roomID"`
}

// WSHandler joins the socket to ?roomID=, or to a fresh room whose id is sent
// back as the first message, and keeps it there until the client goes away.
func WSHandler(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := Upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("[WS] upgrade failed: %v", err)
			return
		}

		roomID := r.URL.Query().Get("roomID")
		if roomID == "" {
			roomID = uuid.NewString()
		}

		hello, _ := json.Marshal(joinedMsg{Stage: "joined", RoomID: roomID})
		if err := hub.Register(roomID, conn, hello); err != nil {
			log.Printf("[WS] hello failed room=%s: %v", roomID, err)
			conn.Close()
			return
		}
		defer hub.Unregister(roomID, conn)

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				log.Printf("[WS] disconnect room=%s", roomID)
				return
			}
		}
	}
}
