package types

// Chunk is a contiguous, token-bounded span of sentences treated as one
// retrieval unit. Chunks are immutable once built; Index is the only
// relationship between them.
type Chunk struct {
	Index         int    // 0-based, contiguous position within the document
	Text          string // sentences joined with single spaces
	TokenCount    int    // whitespace-delimited word count approximation
	OverlapPrefix int    // sentences carried over from the previous chunk (0 or 1)
}

// ChunkMetadata is stored alongside every vector. Field names are a
// compatibility contract for downstream consumers of the index.
type ChunkMetadata struct {
	ChunkIndex  int    `json:"chunk_index"`
	Language    string `json:"language"`
	Source      string `json:"source"`
	TotalChunks int    `json:"total_chunks"`
	ChunkType   string `json:"chunk_type"`
}

// EmbeddedChunk is a chunk plus its vector and metadata, owned by the
// ingest flow until handed to the vector store.
type EmbeddedChunk struct {
	ID       string
	Chunk    Chunk
	Vector   []float32
	Metadata ChunkMetadata
}

// DocumentServiceConfig contains configuration options for text chunking
type DocumentServiceConfig struct {
	MaxTokens      int  // Maximum word count per chunk
	OverlapEnabled bool // Carry the last sentence into the next chunk
}

type UploadRequest struct {
	Source string   `json:"source"`
	Tags   []string `json:"tags"`
}

// IngestRecord is the registry entry written after a successful ingest.
type IngestRecord struct {
	ID          string   `bson:"_id,omitempty" json:"id"`
	Source      string   `bson:"source" json:"source"`
	Title       string   `bson:"title" json:"title"`
	Language    string   `bson:"language" json:"language"`
	ChunkType   string   `bson:"chunk_type" json:"chunk_type"`
	TotalChunks int      `bson:"total_chunks" json:"total_chunks"`
	Tags        []string `bson:"tags" json:"tags"`
	CreatedAt   int64    `bson:"created_at" json:"created_at"`
}
