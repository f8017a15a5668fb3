package types

type SearchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

type CreateDocumentRequest struct {
	Metadata DocumentMetadata `json:"metadata"`
	Content  string           `json:"content"`
}

const (
	TypeWebsocketPing   = "ping"
	TypeWebsocketPong   = "pong"
	TypeWebsocketSearch = "search"
	TypeWebsocketError  = "error"
)

type WebsocketRequest struct {
	Type    string        `json:"type"`
	Payload SearchRequest `json:"payload"`
}

type WebsocketResponse struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}
