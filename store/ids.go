package store

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"cityfix-be/apperr"
)

// parseID converts an externally supplied id into an ObjectID. A malformed
// id is a validation error, distinct from a well-formed id that matches no
// document.
func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apperr.Wrap(apperr.Validation, "invalid id", err)
	}
	return oid, nil
}
