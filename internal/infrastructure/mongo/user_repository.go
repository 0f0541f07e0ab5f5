package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	auditdomain "github.com/auditworks/audit-api/internal/audit/domain"
)

// UserRepository reads assignee reference data.
type UserRepository struct {
	users *mongo.Collection
}

func NewUserRepository(db *mongo.Database, userCollection string) *UserRepository {
	return &UserRepository{users: db.Collection(userCollection)}
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*auditdomain.User, error) {
	objectID, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	var doc UserDocument
	if err := r.users.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc); err != nil {
		return nil, mapFindOneErr(err)
	}
	user := mapUserDocument(doc)
	return &user, nil
}

func (r *UserRepository) List(ctx context.Context) ([]auditdomain.User, error) {
	cursor, err := r.users.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := make([]auditdomain.User, 0)
	for cursor.Next(ctx) {
		var doc UserDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		users = append(users, mapUserDocument(doc))
	}
	return users, cursor.Err()
}

func mapUserDocument(doc UserDocument) auditdomain.User {
	return auditdomain.User{
		ID:    doc.ID.Hex(),
		Name:  doc.Name,
		Email: doc.Email,
	}
}
