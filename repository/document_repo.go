package repository

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/tieubaoca/retriever-be/types"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type DocumentRepo interface {
	CreateDocument(ctx context.Context, doc *types.Document) error
	GetDocument(ctx context.Context, id string) (*types.Document, error)
	ListDocuments(ctx context.Context, limit int, contentType, source string) ([]types.DocumentMetadata, int64, error)
	SearchDocuments(ctx context.Context, query string, limit int) ([]types.ScoredDocument, error)
	DeleteDocument(ctx context.Context, id string) error
	CountDocuments(ctx context.Context) (int64, error)
}

type documentRepo struct {
	collection *mongo.Collection
}

func NewDocumentRepo(db *mongo.Database) (DocumentRepo, error) {
	// check if collection does not exist, create one
	collectionNames, err := db.ListCollectionNames(context.Background(), bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	collectionExists := false
	for _, name := range collectionNames {
		if name == "documents" {
			collectionExists = true
			break
		}
	}
	collection := db.Collection("documents")
	if !collectionExists {
		_, err = collection.Indexes().CreateMany(context.Background(), documentIndexes())
		if err != nil {
			return nil, fmt.Errorf("failed to create indexes: %w", err)
		}
	}

	return &documentRepo{
		collection: collection,
	}, nil
}

// documentIndexes declares the indexes created alongside the documents
// collection: a unique id index plus the two list-filter fields.
func documentIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "metadata._id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "metadata.content_type", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "metadata.source", Value: 1}},
		},
	}
}

func (r *documentRepo) CreateDocument(ctx context.Context, doc *types.Document) error {
	_, err := r.collection.InsertOne(ctx, doc)
	return err
}

func (r *documentRepo) GetDocument(ctx context.Context, id string) (*types.Document, error) {
	var doc types.Document
	err := r.collection.FindOne(ctx, map[string]string{"metadata._id": id}).Decode(&doc)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *documentRepo) ListDocuments(ctx context.Context, limit int, contentType, source string) ([]types.DocumentMetadata, int64, error) {
	filter := make(map[string]interface{})
	if contentType != "" {
		filter["metadata.content_type"] = contentType
	}
	if source != "" {
		filter["metadata.source"] = source
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetLimit(int64(limit)))
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var metadatas []types.DocumentMetadata
	for cursor.Next(ctx) {
		var doc types.Document
		if err := cursor.Decode(&doc); err != nil {
			return nil, 0, err
		}
		metadatas = append(metadatas, doc.Metadata)
	}
	return metadatas, total, nil
}

// SearchDocuments finds candidates whose title, keywords or content match
// the query, scores them for relevance and returns the top results.
func (r *documentRepo) SearchDocuments(ctx context.Context, query string, limit int) ([]types.ScoredDocument, error) {
	pattern := regexp.QuoteMeta(query)
	regex := map[string]string{"$regex": pattern, "$options": "i"}
	filter := map[string]interface{}{
		"$or": []interface{}{
			map[string]interface{}{"metadata.title": regex},
			map[string]interface{}{"metadata.keywords": regex},
			map[string]interface{}{"content": regex},
		},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var scored []types.ScoredDocument
	for cursor.Next(ctx) {
		var doc types.Document
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		scored = append(scored, types.ScoredDocument{
			Document: doc,
			Score:    relevanceScore(&doc, query),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

func (r *documentRepo) DeleteDocument(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, map[string]string{"metadata._id": id})
	return err
}

func (r *documentRepo) CountDocuments(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

// relevanceScore weighs where the query appears: title matches count the
// most, then keyword matches, then content matches with a small bonus per
// occurrence capped at 0.4.
func relevanceScore(doc *types.Document, query string) float64 {
	needle := strings.ToLower(query)
	score := 0.0

	if strings.Contains(strings.ToLower(doc.Metadata.Title), needle) {
		score += 0.3
	}
	for _, keyword := range doc.Metadata.Keywords {
		if strings.Contains(strings.ToLower(keyword), needle) {
			score += 0.2
		}
	}
	content := strings.ToLower(doc.Content)
	if strings.Contains(content, needle) {
		score += 0.1
		bonus := 0.05 * float64(strings.Count(content, needle))
		if bonus > 0.4 {
			bonus = 0.4
		}
		score += bonus
	}
	return score
}
