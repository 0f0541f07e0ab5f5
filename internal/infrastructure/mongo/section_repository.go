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

// SectionRepository persists audit sections. Question counts and section
// detail joins read from the questions collection.
type SectionRepository struct {
	sections  *mongo.Collection
	questions *mongo.Collection
}

func NewSectionRepository(db *mongo.Database, sectionCollection, questionCollection string) *SectionRepository {
	return &SectionRepository{
		sections:  db.Collection(sectionCollection),
		questions: db.Collection(questionCollection),
	}
}

// Find lists sections newest-first with their live question counts.
func (r *SectionRepository) Find(ctx context.Context, paging auditapp.Paging) ([]auditdomain.SectionSummary, int64, error) {
	total, err := r.sections.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(paging.Skip()).
		SetLimit(int64(paging.Limit))
	cursor, err := r.sections.Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	summaries := make([]auditdomain.SectionSummary, 0)
	ids := make([]primitive.ObjectID, 0)
	for cursor.Next(ctx) {
		var doc SectionDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, 0, err
		}
		summaries = append(summaries, auditdomain.SectionSummary{Section: mapSectionDocument(doc)})
		ids = append(ids, doc.ID)
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, err
	}

	counts, err := r.questionCounts(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range summaries {
		summaries[i].QuestionCount = counts[summaries[i].ID]
	}
	return summaries, total, nil
}

// FindByID returns the section with its questions ordered for display.
func (r *SectionRepository) FindByID(ctx context.Context, id string) (*auditdomain.SectionDetail, error) {
	objectID, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	var doc SectionDocument
	if err := r.sections.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc); err != nil {
		return nil, mapFindOneErr(err)
	}

	findOpts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.questions.Find(ctx, bson.M{"sectionId": objectID, "deletedAt": nil}, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	detail := &auditdomain.SectionDetail{Section: mapSectionDocument(doc)}
	for cursor.Next(ctx) {
		var qdoc QuestionDocument
		if err := cursor.Decode(&qdoc); err != nil {
			return nil, err
		}
		question, err := mapQuestionDocument(qdoc)
		if err != nil {
			return nil, err
		}
		detail.Questions = append(detail.Questions, question)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return detail, nil
}

func (r *SectionRepository) Create(ctx context.Context, section *auditdomain.Section) error {
	if section == nil {
		return errors.New("section payload is nil")
	}
	doc := mapDomainSectionToDocument(section)
	doc.ID = primitive.NewObjectID()
	section.ID = doc.ID.Hex()
	_, err := r.sections.InsertOne(ctx, doc)
	return err
}

func (r *SectionRepository) Update(ctx context.Context, section *auditdomain.Section) error {
	if section == nil {
		return errors.New("section payload is nil")
	}
	objectID, err := parseObjectID(section.ID)
	if err != nil {
		return err
	}
	update := bson.M{
		"title":       section.Title,
		"description": section.Description,
		"updatedAt":   section.UpdatedAt,
	}
	res, err := r.sections.UpdateByID(ctx, objectID, bson.M{"$set": update})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return auditdomain.ErrNotFound
	}
	return nil
}

// Delete hard-deletes the section document. Cascades to questions, answers
// and audit link-sets are orchestrated by the application service.
func (r *SectionRepository) Delete(ctx context.Context, id string) error {
	objectID, err := parseObjectID(id)
	if err != nil {
		return err
	}
	res, err := r.sections.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return auditdomain.ErrNotFound
	}
	return nil
}

// ExistingIDs filters the given ids down to those that reference a section.
func (r *SectionRepository) ExistingIDs(ctx context.Context, ids []string) ([]string, error) {
	objectIDs := parseObjectIDs(ids)
	if len(objectIDs) == 0 {
		return nil, nil
	}
	cursor, err := r.sections.Find(ctx, bson.M{"_id": bson.M{"$in": objectIDs}},
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	found := make([]string, 0, len(objectIDs))
	for cursor.Next(ctx) {
		var doc struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		found = append(found, doc.ID.Hex())
	}
	return found, cursor.Err()
}

// questionCounts aggregates live question counts per section.
func (r *SectionRepository) questionCounts(ctx context.Context, sectionIDs []primitive.ObjectID) (map[string]int64, error) {
	counts := make(map[string]int64, len(sectionIDs))
	if len(sectionIDs) == 0 {
		return counts, nil
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"sectionId": bson.M{"$in": sectionIDs}, "deletedAt": nil}}},
		{{Key: "$group", Value: bson.M{"_id": "$sectionId", "count": bson.M{"$sum": 1}}}},
	}
	cursor, err := r.questions.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var agg struct {
			ID    primitive.ObjectID `bson:"_id"`
			Count int64              `bson:"count"`
		}
		if err := cursor.Decode(&agg); err != nil {
			return nil, err
		}
		counts[agg.ID.Hex()] = agg.Count
	}
	return counts, cursor.Err()
}

func mapSectionDocument(doc SectionDocument) auditdomain.Section {
	return auditdomain.Section{
		ID:          doc.ID.Hex(),
		Title:       doc.Title,
		Description: doc.Description,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}
}

func mapDomainSectionToDocument(section *auditdomain.Section) SectionDocument {
	createdAt := section.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	updatedAt := section.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}
	return SectionDocument{
		Title:       section.Title,
		Description: section.Description,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
}
