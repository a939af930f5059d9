package repository

import (
	"context"
	"fmt"

	"github.com/tieubaoca/pdf-rag-be/types"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type DocumentRepo interface {
	CreateIngestRecord(ctx context.Context, record *types.IngestRecord) error
	GetBySource(ctx context.Context, source string) (*types.IngestRecord, error)
	ListIngestRecords(ctx context.Context, limit, offset int64) ([]*types.IngestRecord, error)
	DeleteBySource(ctx context.Context, source string) error
}

type documentRepo struct {
	collection *mongo.Collection
}

func NewDocumentRepo(db *mongo.Database) (DocumentRepo, error) {
	collection := db.Collection("documents")
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "source", Value: 1},
			},
		},
		{
			Keys: bson.D{
				{Key: "created_at", Value: -1},
			},
		},
	}
	if _, err := collection.Indexes().CreateMany(context.Background(), indexes); err != nil {
		return nil, fmt.Errorf("failed to create indexes: %w", err)
	}
	return &documentRepo{
		collection: collection,
	}, nil
}

func (r *documentRepo) CreateIngestRecord(ctx context.Context, record *types.IngestRecord) error {
	// One record per source; re-ingesting a document replaces its record
	// the same way re-upserting its vectors overwrites them.
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.D{{Key: "source", Value: record.Source}}, record, opts)
	return err
}

func (r *documentRepo) GetBySource(ctx context.Context, source string) (*types.IngestRecord, error) {
	var record types.IngestRecord
	err := r.collection.FindOne(ctx, bson.D{{Key: "source", Value: source}}).Decode(&record)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *documentRepo) ListIngestRecords(ctx context.Context, limit, offset int64) ([]*types.IngestRecord, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(offset)
	cursor, err := r.collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []*types.IngestRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *documentRepo) DeleteBySource(ctx context.Context, source string) error {
	_, err := r.collection.DeleteMany(ctx, bson.D{{Key: "source", Value: source}})
	return err
}
