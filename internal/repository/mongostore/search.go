package mongostore

import (
	"ClipHub/internal/model"
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type searchHistoryRepository struct {
	coll *mongo.Collection
}

func (r *searchHistoryRepository) Create(ctx context.Context, entry *model.SearchHistory) error {
	doc := searchHistoryDoc{Query: entry.Query, CreatedAt: entry.CreatedAt}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now()
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return translate(err)
	}
	entry.ID = res.InsertedID.(primitive.ObjectID).Hex()
	entry.CreatedAt = doc.CreatedAt
	return nil
}
