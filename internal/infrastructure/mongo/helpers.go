package mongo

import (
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	auditdomain "github.com/auditworks/audit-api/internal/audit/domain"
)

// parseObjectID converts an external id string. Malformed hex behaves like
// a lookup miss so handlers answer 404 instead of 500.
func parseObjectID(id string) (primitive.ObjectID, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return primitive.NilObjectID, auditdomain.ErrNotFound
	}
	return objectID, nil
}

// parseObjectIDs converts a batch, skipping malformed entries. Absent ids
// surface as referential validation failures upstream, not as decode errors.
func parseObjectIDs(ids []string) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
		if err != nil {
			continue
		}
		out = append(out, objectID)
	}
	return out
}

func mapFindOneErr(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return auditdomain.ErrNotFound
	}
	return err
}

// aliveFilter builds an id filter that excludes soft-deleted documents.
func aliveFilter(id primitive.ObjectID) bson.M {
	return bson.M{"_id": id, "deletedAt": nil}
}
