package types

const (
	TypeWebsocketPing    = "ping"
	TypeWebsocketPong    = "pong"
	TypeWebsocketQuery   = "query"
	TypeWebsocketResults = "results"
	TypeWebsocketError   = "error"
)

type WebsocketRequest struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type WebSocketResponse struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type WebSocketQueryPayload struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k,omitempty"`
}
