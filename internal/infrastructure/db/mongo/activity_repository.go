package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/zapastore/storefront/internal/core/domain"
)

const activityCollection = "cart_activity"

// MongoActivityRepository stores cart activity entries in an append-only
// audit collection.
type MongoActivityRepository struct {
	coll *mongo.Collection
}

func NewActivityRepository(db *mongo.Database) *MongoActivityRepository {
	return &MongoActivityRepository{coll: db.Collection(activityCollection)}
}

func (r *MongoActivityRepository) Insert(ctx context.Context, activity *domain.CartActivity) error {
	if _, err := r.coll.InsertOne(ctx, activity); err != nil {
		return fmt.Errorf("insert cart activity: %w", err)
	}
	return nil
}
