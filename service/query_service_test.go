package service

import (
	"context"
	"errors"
	"testing"

	"github.com/tieubaoca/pdf-rag-be/database"
	"github.com/tieubaoca/pdf-rag-be/types"
)

func TestNewQueryServiceDimensionMismatch(t *testing.T) {
	_, err := NewQueryService(&fakeEmbedder{dimension: 1536}, &fakeVectorDB{dimension: 300})
	if err == nil {
		t.Fatal("expected a dimension mismatch error")
	}
}

func TestQuery(t *testing.T) {
	vectorDB := &fakeVectorDB{
		dimension: 300,
		matches: []database.VectorMatch{
			{Score: 0.93, Text: "Le chat dort.", Metadata: types.ChunkMetadata{Source: "animaux.pdf"}},
			{Score: 0.81, Text: "Le chien court.", Metadata: types.ChunkMetadata{Source: "animaux.pdf"}},
			{Score: 0.64, Text: "Les oiseaux chantent.", Metadata: types.ChunkMetadata{Source: "oiseaux.pdf"}},
		},
	}
	svc, err := NewQueryService(&fakeEmbedder{dimension: 300}, vectorDB)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("fewer matches than top_k", func(t *testing.T) {
		resp, err := svc.Query(context.Background(), "Que fait le chat ?", 5)
		if err != nil {
			t.Fatal(err)
		}
		if resp.Query != "Que fait le chat ?" {
			t.Errorf("query echoed as %q", resp.Query)
		}
		if len(resp.Results) != 3 {
			t.Fatalf("expected 3 results, got %d", len(resp.Results))
		}
		for i := 1; i < len(resp.Results); i++ {
			if resp.Results[i].Score > resp.Results[i-1].Score {
				t.Errorf("results not sorted by descending score: %v", resp.Results)
			}
		}
		if resp.Results[0].Text != "Le chat dort." || resp.Results[0].Source != "animaux.pdf" {
			t.Errorf("unexpected top result: %+v", resp.Results[0])
		}
	})

	t.Run("top_k limits results", func(t *testing.T) {
		resp, err := svc.Query(context.Background(), "chien", 2)
		if err != nil {
			t.Fatal(err)
		}
		if len(resp.Results) != 2 {
			t.Fatalf("expected 2 results, got %d", len(resp.Results))
		}
	})

	t.Run("zero top_k uses the default", func(t *testing.T) {
		resp, err := svc.Query(context.Background(), "chien", 0)
		if err != nil {
			t.Fatal(err)
		}
		if len(resp.Results) != 3 {
			t.Fatalf("expected all 3 results under the default top_k, got %d", len(resp.Results))
		}
	})
}

func TestQueryNoMatches(t *testing.T) {
	svc, err := NewQueryService(&fakeEmbedder{dimension: 300}, &fakeVectorDB{dimension: 300})
	if err != nil {
		t.Fatal(err)
	}
	resp, err := svc.Query(context.Background(), "rien", 5)
	if err != nil {
		t.Fatal(err)
	}
	// An empty index answers with an empty list, not null and not an error
	if resp.Results == nil || len(resp.Results) != 0 {
		t.Errorf("expected empty non-nil results, got %#v", resp.Results)
	}
}

func TestQueryEmbedFailure(t *testing.T) {
	svc, err := NewQueryService(&fakeEmbedder{dimension: 300, err: errors.New("quota exceeded")}, &fakeVectorDB{dimension: 300})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Query(context.Background(), "chat", 5); err == nil {
		t.Fatal("expected the embed failure to propagate")
	}
}

func TestQueryStoreFailure(t *testing.T) {
	svc, err := NewQueryService(&fakeEmbedder{dimension: 300}, &fakeVectorDB{dimension: 300, queryErr: errors.New("unreachable")})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Query(context.Background(), "chat", 5); err == nil {
		t.Fatal("expected the store failure to propagate")
	}
}
