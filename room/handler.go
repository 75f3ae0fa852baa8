package room

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/decred/slog"

	"tetrecs/logging"
	"tetrecs/network"
)

// DefaultRoom is joined when a client names no room.
const DefaultRoom = "LOBBY"

// Handler accepts websocket players. The room comes from the "room" query
// parameter and the display name from "name".
func Handler(m *Manager, log slog.Logger) http.Handler {
	log = logging.OrDisabled(log)
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		code := req.URL.Query().Get("room")
		if code == "" {
			code = DefaultRoom
		}
		conn, err := network.Accept(w, req, log)
		if err != nil {
			log.Warnf("accept: %v", err)
			return
		}
		defer conn.Close()

		r := m.GetOrCreateRoom(code)
		reply := make(chan JoinResult, 1)
		if !deliver(req.Context(), r, Join{Conn: conn, Name: req.URL.Query().Get("name"), Reply: reply}) {
			return
		}
		var res JoinResult
		select {
		case res = <-reply:
		case <-r.Done():
			return
		case <-req.Context().Done():
			return
		}

		err = conn.ReadLoop(req.Context(), func(line string) {
			deliver(req.Context(), r, Line{PlayerID: res.PlayerID, Text: line})
		})
		if err != nil {
			log.Debugf("player %s: %v", res.PlayerID, err)
		}
		deliver(context.Background(), r, Leave{PlayerID: res.PlayerID})
	})
}

func deliver(ctx context.Context, r *Room, cmd any) bool {
	select {
	case r.Inbox <- cmd:
		return true
	case <-r.Done():
		return false
	case <-ctx.Done():
		return false
	}
}

// ListHandler serves the room list as JSON, or the members of one room
// when a "code" query parameter is given.
func ListHandler(m *Manager) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		code := req.URL.Query().Get("code")
		if code == "" {
			_ = json.NewEncoder(w).Encode(m.ListRooms())
			return
		}
		r := m.Room(code)
		if r == nil {
			http.Error(w, "no such room", http.StatusNotFound)
			return
		}
		reply := make(chan []MemberInfo, 1)
		if !deliver(req.Context(), r, Members{Reply: reply}) {
			http.Error(w, "room closed", http.StatusGone)
			return
		}
		select {
		case members := <-reply:
			_ = json.NewEncoder(w).Encode(members)
		case <-r.Done():
			http.Error(w, "room closed", http.StatusGone)
		case <-req.Context().Done():
		}
	})
}
