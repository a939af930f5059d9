package service

import (
	"regexp"
	"strings"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
	"github.com/tieubaoca/pdf-rag-be/types"
)

var (
	newlineRuns    = regexp.MustCompile(`\n+`)
	whitespaceRuns = regexp.MustCompile(`\s+`)
	sentenceEnders = regexp.MustCompile(`[.!?]+`)
)

var DefaultDocumentServiceConfig = types.DocumentServiceConfig{
	MaxTokens:      500,
	OverlapEnabled: true,
}

// ChunkService turns raw extracted text into token-bounded, overlapping
// chunks ready for embedding.
type ChunkService struct {
	maxTokens int
	overlap   bool
	tokenizer *sentences.DefaultSentenceTokenizer
}

// NewChunkService creates a chunk service. The punkt tokenizer is loaded
// once here; when loading fails the service silently falls back to
// regex-based segmentation.
func NewChunkService(config types.DocumentServiceConfig) *ChunkService {
	maxTokens := config.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultDocumentServiceConfig.MaxTokens
	}
	tokenizer, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		tokenizer = nil
	}
	return &ChunkService{
		maxTokens: maxTokens,
		overlap:   config.OverlapEnabled,
		tokenizer: tokenizer,
	}
}

// NormalizeText collapses newline runs and whitespace runs into single
// spaces and trims the result. Idempotent; empty input yields empty output.
func NormalizeText(text string) string {
	text = newlineRuns.ReplaceAllString(text, " ")
	text = whitespaceRuns.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// SegmentSentences splits normalized text into ordered sentences. The punkt
// tokenizer is tried first; if it is unavailable or produces nothing the
// text is split on runs of '.', '!', '?'. Never fails.
func (s *ChunkService) SegmentSentences(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if s.tokenizer != nil {
		toks := s.tokenizer.Tokenize(text)
		result := make([]string, 0, len(toks))
		for _, tok := range toks {
			if trimmed := strings.TrimSpace(tok.Text); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallbackSegment(text)
}

// fallbackSegment splits on the separator class [.!?]+, trimming each
// segment and discarding empty ones. Deterministic regex rule shared with
// the tests.
func fallbackSegment(text string) []string {
	parts := sentenceEnders.Split(text, -1)
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// BuildChunks greedily packs sentences into chunks of at most maxTokens
// words. When overlap is enabled the last sentence of a flushed chunk
// seeds the next one. A single sentence longer than maxTokens is kept
// whole; it is never split mid-sentence.
func (s *ChunkService) BuildChunks(sents []string) []types.Chunk {
	var chunks []types.Chunk
	var current []string
	currentLen := 0
	overlapPrefix := 0

	flush := func() {
		chunks = append(chunks, types.Chunk{
			Index:         len(chunks),
			Text:          strings.Join(current, " "),
			TokenCount:    currentLen,
			OverlapPrefix: overlapPrefix,
		})
	}

	for _, sent := range sents {
		w := wordCount(sent)
		if currentLen+w > s.maxTokens && len(current) > 0 {
			flush()
			if s.overlap {
				last := current[len(current)-1]
				current = []string{last, sent}
				currentLen = wordCount(last) + w
				overlapPrefix = 1
			} else {
				current = []string{sent}
				currentLen = w
				overlapPrefix = 0
			}
		} else {
			current = append(current, sent)
			currentLen += w
		}
	}
	if len(current) > 0 {
		flush()
	}
	return chunks
}

// ChunkText is the full text-to-chunks path: normalize, segment, build.
func (s *ChunkService) ChunkText(text string) []types.Chunk {
	return s.BuildChunks(s.SegmentSentences(NormalizeText(text)))
}

// wordCount approximates the token count as the number of
// whitespace-delimited words. This is deliberately not a model tokenizer
// count; the bound only needs to be consistent across the pipeline.
func wordCount(s string) int {
	return len(strings.Fields(s))
}
