package trie_api

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rskv-p/minitrie/pkg/x_log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// handleWS serves typeahead: every text frame is a prefix and is answered
// with one SearchResponse. ?limit= bounds every answer.
func handleWS(d Dictionary) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := limitParam(r)
		if err != nil {
			writeError(w, CodeBadRequest, "limit must be an integer")
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade already replied
			return
		}
		defer conn.Close()

		log := x_log.From(r.Context())
		conn.SetReadLimit(64 * 1024)
		for {
			mt, data, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					log.Warn().Err(err).Msg("typeahead connection dropped")
				}
				return
			}
			if mt != websocket.TextMessage {
				continue
			}
			prefix := string(data)
			if err := conn.WriteJSON(SearchResponse{Prefix: prefix, Words: d.Search(prefix, limit)}); err != nil {
				return
			}
		}
	}
}
