package types

type DataResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type UploadResponse struct {
	Source      string `json:"source"`
	TotalChunks int    `json:"total_chunks"`
}

// QueryResult is one ranked match. Text and Source are omitted when the
// stored metadata does not carry them.
type QueryResult struct {
	Score  float32 `json:"score"`
	Text   string  `json:"text,omitempty"`
	Source string  `json:"source,omitempty"`
}

type QueryResponse struct {
	Query   string        `json:"query"`
	Results []QueryResult `json:"results"`
}

type ProcessingDocumentStatus struct {
	Status          string  `json:"status"`
	Message         string  `json:"message"`
	Progress        float64 `json:"progress"`
	TotalChunks     int     `json:"total_chunks"`
	ProcessedChunks int     `json:"processed_chunks"`
}
