package mongotools

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nikmy/klaro/pkg/errors"
)

func FilterByID(id string) bson.M {
	return bson.M{"_id": id}
}

// FindOne decodes the single document matching filter.
// found is false when nothing matches.
func FindOne[T any](ctx context.Context, coll *mongo.Collection, filter any) (doc T, found bool, err error) {
	r := coll.FindOne(ctx, filter)

	err = r.Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return doc, false, nil
	}
	if err != nil {
		return doc, false, errors.WrapFail(err, "find document")
	}

	err = r.Decode(&doc)
	if err != nil {
		return doc, false, errors.WrapFail(err, "decode document")
	}

	return doc, true, nil
}
