package service

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/tieubaoca/retriever-be/repository"
	"github.com/tieubaoca/retriever-be/types"
)

const (
	wsReadLimit    = 512 * 1024 // 512KB max message size
	wsReadDeadline = 60 * time.Second
)

// WebSocketService streams search results over a persistent connection,
// letting clients issue repeated queries without re-handshaking.
type WebSocketService struct {
	documentRepo repository.DocumentRepo
	upgrader     websocket.Upgrader
}

func NewWebSocketService(documentRepo repository.DocumentRepo) *WebSocketService {
	return &WebSocketService{
		documentRepo: documentRepo,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins (adjust for production)
			},
		},
	}
}

func (s *WebSocketService) HandleSearch(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("Upgrade error:", err)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(wsReadLimit)
	conn.SetReadDeadline(time.Now().Add(wsReadDeadline))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(wsReadDeadline))
		return nil
	})

	ctx := r.Context()
	for {
		_, p, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(wsReadDeadline))

		var req types.WebsocketRequest
		if err := json.Unmarshal(p, &req); err != nil {
			log.Println("Unmarshal error:", err)
			s.writeError(conn, "invalid message")
			continue
		}

		switch req.Type {
		case types.TypeWebsocketPing:
			if err := conn.WriteJSON(types.WebsocketResponse{Type: types.TypeWebsocketPong}); err != nil {
				log.Println("Write error:", err)
				return
			}
		case types.TypeWebsocketSearch:
			limit := req.Payload.Limit
			if limit <= 0 {
				limit = 10
			}
			scored, err := s.documentRepo.SearchDocuments(ctx, req.Payload.Query, limit)
			if err != nil {
				log.Println("Search error:", err)
				s.writeError(conn, "search failed")
				continue
			}
			results := make([]types.DocumentResponse, 0, len(scored))
			for _, item := range scored {
				results = append(results, types.DocumentResponse{
					Metadata: item.Document.Metadata,
					Content:  item.Document.Content,
				})
			}
			resp := types.WebsocketResponse{
				Type: types.TypeWebsocketSearch,
				Payload: types.SearchResponse{
					Query:        req.Payload.Query,
					TotalResults: len(results),
					Results:      results,
				},
			}
			if err := conn.WriteJSON(resp); err != nil {
				log.Println("Write error:", err)
				return
			}
		default:
			s.writeError(conn, "unknown message type")
		}
	}
}

func (s *WebSocketService) writeError(conn *websocket.Conn, message string) {
	resp := types.WebsocketResponse{
		Type:    types.TypeWebsocketError,
		Payload: map[string]string{"error": message},
	}
	if err := conn.WriteJSON(resp); err != nil {
		log.Println("Write error:", err)
	}
}
