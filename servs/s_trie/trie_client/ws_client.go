package trie_client

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/rskv-p/minitrie/servs/s_trie/trie_api"
)

// WSClient is a typeahead session. Each Lookup sends a prefix and waits
// for its answer, so a WSClient must not be shared between goroutines.
type WSClient struct {
	conn *websocket.Conn
}

// DialWS opens /ws/search on baseURL (http or ws scheme). limit bounds
// every answer; negative is unbounded.
func DialWS(ctx context.Context, baseURL string, limit int) (*WSClient, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/") + "/ws/search")
	if err != nil {
		return nil, err
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	if limit >= 0 {
		u.RawQuery = url.Values{"limit": {strconv.Itoa(limit)}}.Encode()
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, err
	}
	return &WSClient{conn: conn}, nil
}

// Lookup returns the words under prefix.
func (ws *WSClient) Lookup(prefix string) (trie_api.SearchResponse, error) {
	var out trie_api.SearchResponse
	if err := ws.conn.WriteMessage(websocket.TextMessage, []byte(prefix)); err != nil {
		return out, err
	}
	err := ws.conn.ReadJSON(&out)
	return out, err
}

// Close sends a close frame and drops the connection.
func (ws *WSClient) Close() error {
	_ = ws.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return ws.conn.Close()
}
