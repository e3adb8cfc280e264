// Package mongo stores each record as one document. Save is a ReplaceOne
// upsert keyed by _id, so every write replaces the whole document.
package mongo

import (
	"context"
	"errors"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"placementcell/internal/common"
)

type collection[T any] struct {
	coll   *mongo.Collection
	entity string
}

func (c collection[T]) find(ctx context.Context, filter bson.M, sort bson.D) ([]T, error) {
	opts := options.Find()
	if len(sort) > 0 {
		opts.SetSort(sort)
	}
	cursor, err := c.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list "+c.entity+"s", err)
	}
	var items []T
	if err := cursor.All(ctx, &items); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to decode "+c.entity+"s", err)
	}
	return items, nil
}

func (c collection[T]) findOne(ctx context.Context, filter bson.M) (*T, error) {
	var item T
	if err := c.coll.FindOne(ctx, filter).Decode(&item); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.NewError(common.CodeNotFound, c.entity+" not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load "+c.entity, err)
	}
	return &item, nil
}

func (c collection[T]) replace(ctx context.Context, id common.UUID, doc T) error {
	_, err := c.coll.ReplaceOne(ctx, bson.M{"_id": id}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return common.NewError(common.CodeConflict, c.entity+" already exists", err)
		}
		return common.NewError(common.CodeInternal, "failed to save "+c.entity, err)
	}
	return nil
}

func (c collection[T]) delete(ctx context.Context, id common.UUID) error {
	if _, err := c.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return common.NewError(common.CodeInternal, "failed to delete "+c.entity, err)
	}
	return nil
}

// emailFilter matches an address case-insensitively.
func emailFilter(field, email string) bson.M {
	return bson.M{field: bson.M{"$regex": "^" + regexp.QuoteMeta(email) + "$", "$options": "i"}}
}
