// internal/handlers/rooms.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/jason-s-yu/fodinha/internal/room"
)

// RoomLister reports live rooms.
type RoomLister interface {
	Rooms(ctx context.Context) ([]room.Summary, error)
}

// ListRoomsHandler returns every live room as JSON.
func ListRoomsHandler(rl RoomLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		rooms, err := rl.Rooms(r.Context())
		if err != nil {
			http.Error(w, "rooms unavailable", http.StatusServiceUnavailable)
			return
		}
		if rooms == nil {
			rooms = []room.Summary{}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(rooms)
	}
}

// PingHandler answers liveness checks.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("fodinha server running"))
}
