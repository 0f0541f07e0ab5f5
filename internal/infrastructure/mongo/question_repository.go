package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	auditapp "github.com/auditworks/audit-api/internal/audit/application"
	auditdomain "github.com/auditworks/audit-api/internal/audit/domain"
)

// QuestionRepository persists questions with their embedded option sets.
// A question and its options are one document, so scalar fields and the
// reconciled options commit in a single write.
type QuestionRepository struct {
	questions *mongo.Collection
}

func NewQuestionRepository(db *mongo.Database, questionCollection string) *QuestionRepository {
	return &QuestionRepository{questions: db.Collection(questionCollection)}
}

func (r *QuestionRepository) Find(ctx context.Context, filter auditapp.QuestionFilter, paging auditapp.Paging) ([]auditdomain.Question, int64, error) {
	mongoFilter := bson.M{"deletedAt": nil}
	if filter.SectionID != "" {
		sectionID, err := parseObjectID(filter.SectionID)
		if err != nil {
			return nil, 0, err
		}
		mongoFilter["sectionId"] = sectionID
	}

	total, err := r.questions.CountDocuments(ctx, mongoFilter)
	if err != nil {
		return nil, 0, err
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(paging.Skip()).
		SetLimit(int64(paging.Limit))
	cursor, err := r.questions.Find(ctx, mongoFilter, findOpts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	questions := make([]auditdomain.Question, 0)
	for cursor.Next(ctx) {
		var doc QuestionDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, 0, err
		}
		question, err := mapQuestionDocument(doc)
		if err != nil {
			return nil, 0, err
		}
		questions = append(questions, question)
	}
	return questions, total, cursor.Err()
}

func (r *QuestionRepository) FindByID(ctx context.Context, id string) (*auditdomain.Question, error) {
	objectID, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	var doc QuestionDocument
	if err := r.questions.FindOne(ctx, aliveFilter(objectID)).Decode(&doc); err != nil {
		return nil, mapFindOneErr(err)
	}
	question, err := mapQuestionDocument(doc)
	if err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *QuestionRepository) Create(ctx context.Context, question *auditdomain.Question) error {
	if question == nil {
		return errors.New("question payload is nil")
	}
	doc, err := mapDomainQuestionToDocument(question)
	if err != nil {
		return err
	}
	doc.ID = primitive.NewObjectID()
	question.ID = doc.ID.Hex()
	_, err = r.questions.InsertOne(ctx, doc)
	return err
}

// Update rewrites the document guarded by the version the caller read. A
// filter miss on a live document means an interleaving writer bumped the
// version, which surfaces as ErrConflict.
func (r *QuestionRepository) Update(ctx context.Context, question *auditdomain.Question) error {
	if question == nil {
		return errors.New("question payload is nil")
	}
	doc, err := mapDomainQuestionToDocument(question)
	if err != nil {
		return err
	}
	objectID, err := parseObjectID(question.ID)
	if err != nil {
		return err
	}

	filter := bson.M{"_id": objectID, "version": question.Version, "deletedAt": nil}
	update := bson.M{
		"$set": bson.M{
			"sectionId":      doc.SectionID,
			"question":       doc.Question,
			"type":           doc.Type,
			"required":       doc.Required,
			"hasDescription": doc.HasDescription,
			"order":          doc.Order,
			"options":        doc.Options,
			"updatedAt":      doc.UpdatedAt,
		},
		"$inc": bson.M{"version": 1},
	}
	res, err := r.questions.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// Distinguish a vanished question from a stale version.
		count, err := r.questions.CountDocuments(ctx, aliveFilter(objectID))
		if err != nil {
			return err
		}
		if count == 0 {
			return auditdomain.ErrNotFound
		}
		return auditdomain.ErrConflict
	}
	question.Version++
	return nil
}

func (r *QuestionRepository) SoftDelete(ctx context.Context, id string) error {
	objectID, err := parseObjectID(id)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	res, err := r.questions.UpdateOne(ctx, aliveFilter(objectID),
		bson.M{"$set": bson.M{"deletedAt": now, "updatedAt": now}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return auditdomain.ErrNotFound
	}
	return nil
}

// DeleteBySection soft-deletes every live question of the section.
func (r *QuestionRepository) DeleteBySection(ctx context.Context, sectionID string) error {
	objectID, err := parseObjectID(sectionID)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	_, err = r.questions.UpdateMany(ctx, bson.M{"sectionId": objectID, "deletedAt": nil},
		bson.M{"$set": bson.M{"deletedAt": now, "updatedAt": now}})
	return err
}

func (r *QuestionRepository) ListIDsBySection(ctx context.Context, sectionID string) ([]string, error) {
	objectID, err := parseObjectID(sectionID)
	if err != nil {
		return nil, err
	}
	cursor, err := r.questions.Find(ctx, bson.M{"sectionId": objectID, "deletedAt": nil},
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	ids := make([]string, 0)
	for cursor.Next(ctx) {
		var doc struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		ids = append(ids, doc.ID.Hex())
	}
	return ids, cursor.Err()
}

func mapQuestionDocument(doc QuestionDocument) (auditdomain.Question, error) {
	qType, err := auditdomain.ParseQuestionType(doc.Type)
	if err != nil {
		return auditdomain.Question{}, err
	}
	var opts []auditdomain.Option
	for _, o := range doc.Options {
		opts = append(opts, auditdomain.Option{ID: o.ID, Label: o.Label, Value: o.Value, Order: o.Order})
	}
	return auditdomain.Question{
		ID:             doc.ID.Hex(),
		SectionID:      doc.SectionID.Hex(),
		Text:           doc.Question,
		Type:           qType,
		Required:       doc.Required,
		HasDescription: doc.HasDescription,
		Order:          doc.Order,
		Options:        opts,
		Version:        doc.Version,
		CreatedAt:      doc.CreatedAt,
		UpdatedAt:      doc.UpdatedAt,
	}, nil
}

func mapDomainQuestionToDocument(question *auditdomain.Question) (QuestionDocument, error) {
	sectionID, err := parseObjectID(question.SectionID)
	if err != nil {
		return QuestionDocument{}, err
	}
	var opts []QuestionOptionDocument
	for _, o := range question.Options {
		opts = append(opts, QuestionOptionDocument{ID: o.ID, Label: o.Label, Value: o.Value, Order: o.Order})
	}
	createdAt := question.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	updatedAt := question.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}
	return QuestionDocument{
		SectionID:      sectionID,
		Question:       question.Text,
		Type:           string(question.Type),
		Required:       question.Required,
		HasDescription: question.HasDescription,
		Order:          question.Order,
		Options:        opts,
		Version:        question.Version,
		CreatedAt:      createdAt,
		UpdatedAt:      updatedAt,
	}, nil
}
