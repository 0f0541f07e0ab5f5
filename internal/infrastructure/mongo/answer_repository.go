package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	auditdomain "github.com/auditworks/audit-api/internal/audit/domain"
)

// AnswerRepository persists the append-only answer journal. Entries are
// never updated; cascades delete them wholesale.
type AnswerRepository struct {
	answers *mongo.Collection
}

func NewAnswerRepository(db *mongo.Database, answerCollection string) *AnswerRepository {
	return &AnswerRepository{answers: db.Collection(answerCollection)}
}

func (r *AnswerRepository) Create(ctx context.Context, answer *auditdomain.Answer) error {
	if answer == nil {
		return errors.New("answer payload is nil")
	}
	doc, err := mapDomainAnswerToDocument(answer)
	if err != nil {
		return err
	}
	_, err = r.answers.InsertOne(ctx, doc)
	return err
}

// ListByAudit returns the journal in insertion order.
func (r *AnswerRepository) ListByAudit(ctx context.Context, auditID string) ([]auditdomain.Answer, error) {
	objectID, err := parseObjectID(auditID)
	if err != nil {
		return nil, err
	}
	findOpts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.answers.Find(ctx, bson.M{"auditId": objectID}, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	answers := make([]auditdomain.Answer, 0)
	for cursor.Next(ctx) {
		var doc AnswerDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		answers = append(answers, mapAnswerDocument(doc))
	}
	return answers, cursor.Err()
}

func (r *AnswerRepository) DeleteByAudit(ctx context.Context, auditID string) error {
	objectID, err := parseObjectID(auditID)
	if err != nil {
		return err
	}
	_, err = r.answers.DeleteMany(ctx, bson.M{"auditId": objectID})
	return err
}

func (r *AnswerRepository) DeleteByQuestions(ctx context.Context, questionIDs []string) error {
	ids := parseObjectIDs(questionIDs)
	if len(ids) == 0 {
		return nil
	}
	_, err := r.answers.DeleteMany(ctx, bson.M{"questionId": bson.M{"$in": ids}})
	return err
}

func mapAnswerDocument(doc AnswerDocument) auditdomain.Answer {
	return auditdomain.Answer{
		ID:         doc.ID,
		AuditID:    doc.AuditID.Hex(),
		QuestionID: doc.QuestionID.Hex(),
		Answer:     doc.Answer,
		Comments:   doc.Comments,
		CreatedAt:  doc.CreatedAt,
	}
}

func mapDomainAnswerToDocument(answer *auditdomain.Answer) (AnswerDocument, error) {
	auditID, err := parseObjectID(answer.AuditID)
	if err != nil {
		return AnswerDocument{}, err
	}
	questionID, err := parseObjectID(answer.QuestionID)
	if err != nil {
		return AnswerDocument{}, err
	}
	createdAt := answer.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	return AnswerDocument{
		ID:         answer.ID,
		AuditID:    auditID,
		QuestionID: questionID,
		Answer:     answer.Answer,
		Comments:   answer.Comments,
		CreatedAt:  createdAt,
	}, nil
}
