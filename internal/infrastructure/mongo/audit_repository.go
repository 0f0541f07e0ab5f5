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

// AuditRepository persists audits and their section link-set. The link-set
// lives as an ObjectID array on the audit document, so a full replacement
// is one atomic write.
type AuditRepository struct {
	audits *mongo.Collection
}

func NewAuditRepository(db *mongo.Database, auditCollection string) *AuditRepository {
	return &AuditRepository{audits: db.Collection(auditCollection)}
}

func (r *AuditRepository) Find(ctx context.Context, filter auditapp.AuditFilter, paging auditapp.Paging) ([]auditdomain.Audit, int64, error) {
	mongoFilter := bson.M{"deletedAt": nil}
	if filter.Status != "" {
		mongoFilter["status"] = filter.Status
	}
	if filter.AssignedTo != "" {
		assignee, err := parseObjectID(filter.AssignedTo)
		if err != nil {
			return nil, 0, err
		}
		mongoFilter["assignedTo"] = assignee
	}

	total, err := r.audits.CountDocuments(ctx, mongoFilter)
	if err != nil {
		return nil, 0, err
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "scheduledAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(paging.Skip()).
		SetLimit(int64(paging.Limit))
	cursor, err := r.audits.Find(ctx, mongoFilter, findOpts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	audits := make([]auditdomain.Audit, 0)
	for cursor.Next(ctx) {
		var doc AuditDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, 0, err
		}
		audit, err := mapAuditDocument(doc)
		if err != nil {
			return nil, 0, err
		}
		audits = append(audits, audit)
	}
	return audits, total, cursor.Err()
}

func (r *AuditRepository) FindByID(ctx context.Context, id string) (*auditdomain.Audit, error) {
	objectID, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	var doc AuditDocument
	if err := r.audits.FindOne(ctx, aliveFilter(objectID)).Decode(&doc); err != nil {
		return nil, mapFindOneErr(err)
	}
	audit, err := mapAuditDocument(doc)
	if err != nil {
		return nil, err
	}
	return &audit, nil
}

func (r *AuditRepository) Create(ctx context.Context, audit *auditdomain.Audit) error {
	if audit == nil {
		return errors.New("audit payload is nil")
	}
	doc, err := mapDomainAuditToDocument(audit)
	if err != nil {
		return err
	}
	doc.ID = primitive.NewObjectID()
	audit.ID = doc.ID.Hex()
	_, err = r.audits.InsertOne(ctx, doc)
	return err
}

func (r *AuditRepository) Update(ctx context.Context, audit *auditdomain.Audit) error {
	if audit == nil {
		return errors.New("audit payload is nil")
	}
	doc, err := mapDomainAuditToDocument(audit)
	if err != nil {
		return err
	}
	objectID, err := parseObjectID(audit.ID)
	if err != nil {
		return err
	}
	update := bson.M{
		"title":          doc.Title,
		"description":    doc.Description,
		"assignedTo":     doc.AssignedTo,
		"scheduledAt":    doc.ScheduledAt,
		"downloadedAt":   doc.DownloadedAt,
		"startedAt":      doc.StartedAt,
		"completedAt":    doc.CompletedAt,
		"reminderSentAt": doc.ReminderSentAt,
		"status":         doc.Status,
		"updatedAt":      doc.UpdatedAt,
	}
	res, err := r.audits.UpdateOne(ctx, aliveFilter(objectID), bson.M{"$set": update})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return auditdomain.ErrNotFound
	}
	return nil
}

// Delete soft-deletes the audit. Answers are removed by the application
// service before this runs.
func (r *AuditRepository) Delete(ctx context.Context, id string) error {
	objectID, err := parseObjectID(id)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	res, err := r.audits.UpdateOne(ctx, aliveFilter(objectID),
		bson.M{"$set": bson.M{"deletedAt": now, "updatedAt": now}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return auditdomain.ErrNotFound
	}
	return nil
}

// ReplaceSections swaps the whole link-set in one write. The caller has
// already deduplicated and validated the ids.
func (r *AuditRepository) ReplaceSections(ctx context.Context, auditID string, sectionIDs []string) error {
	objectID, err := parseObjectID(auditID)
	if err != nil {
		return err
	}
	ids := parseObjectIDs(sectionIDs)
	res, err := r.audits.UpdateOne(ctx, aliveFilter(objectID),
		bson.M{"$set": bson.M{"sectionIds": ids, "updatedAt": time.Now().UTC()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return auditdomain.ErrNotFound
	}
	return nil
}

// DetachSection pulls one id from the link-set. Pulling an absent id
// matches the document and changes nothing, which is the wanted no-op.
func (r *AuditRepository) DetachSection(ctx context.Context, auditID, sectionID string) error {
	objectID, err := parseObjectID(auditID)
	if err != nil {
		return err
	}
	sectionObjectID, err := parseObjectID(sectionID)
	if err != nil {
		return err
	}
	res, err := r.audits.UpdateOne(ctx, aliveFilter(objectID),
		bson.M{
			"$pull": bson.M{"sectionIds": sectionObjectID},
			"$set":  bson.M{"updatedAt": time.Now().UTC()},
		})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return auditdomain.ErrNotFound
	}
	return nil
}

// PullSectionFromAll removes a deleted section's id from every audit,
// soft-deleted audits included so a restore never resurrects the link.
func (r *AuditRepository) PullSectionFromAll(ctx context.Context, sectionID string) error {
	sectionObjectID, err := parseObjectID(sectionID)
	if err != nil {
		return err
	}
	_, err = r.audits.UpdateMany(ctx, bson.M{"sectionIds": sectionObjectID},
		bson.M{
			"$pull": bson.M{"sectionIds": sectionObjectID},
			"$set":  bson.M{"updatedAt": time.Now().UTC()},
		})
	return err
}

// MarkReminderSent stamps reminderSentAt iff the audit is live and still
// scheduled. Returns false when the stamp did not apply.
func (r *AuditRepository) MarkReminderSent(ctx context.Context, auditID string, at time.Time) (bool, error) {
	objectID, err := parseObjectID(auditID)
	if err != nil {
		return false, nil
	}
	res, err := r.audits.UpdateOne(ctx,
		bson.M{"_id": objectID, "deletedAt": nil, "status": string(auditdomain.StatusScheduled), "reminderSentAt": nil},
		bson.M{"$set": bson.M{"reminderSentAt": at.UTC(), "updatedAt": time.Now().UTC()}})
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

func mapAuditDocument(doc AuditDocument) (auditdomain.Audit, error) {
	status, err := auditdomain.ParseAuditStatus(doc.Status)
	if err != nil {
		return auditdomain.Audit{}, err
	}
	sectionIDs := make([]string, 0, len(doc.SectionIDs))
	for _, id := range doc.SectionIDs {
		sectionIDs = append(sectionIDs, id.Hex())
	}
	return auditdomain.Audit{
		ID:             doc.ID.Hex(),
		Title:          doc.Title,
		Description:    doc.Description,
		AssignedTo:     doc.AssignedTo.Hex(),
		ScheduledAt:    doc.ScheduledAt,
		DownloadedAt:   doc.DownloadedAt,
		StartedAt:      doc.StartedAt,
		CompletedAt:    doc.CompletedAt,
		ReminderSentAt: doc.ReminderSentAt,
		Status:         status,
		SectionIDs:     auditdomain.NormalizeSectionIDs(sectionIDs),
		CreatedAt:      doc.CreatedAt,
		UpdatedAt:      doc.UpdatedAt,
	}, nil
}

func mapDomainAuditToDocument(audit *auditdomain.Audit) (AuditDocument, error) {
	assignee, err := parseObjectID(audit.AssignedTo)
	if err != nil {
		return AuditDocument{}, err
	}
	sectionIDs := parseObjectIDs(audit.SectionIDs)
	if sectionIDs == nil {
		sectionIDs = []primitive.ObjectID{}
	}
	createdAt := audit.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	updatedAt := audit.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}
	return AuditDocument{
		Title:          audit.Title,
		Description:    audit.Description,
		AssignedTo:     assignee,
		ScheduledAt:    audit.ScheduledAt,
		DownloadedAt:   audit.DownloadedAt,
		StartedAt:      audit.StartedAt,
		CompletedAt:    audit.CompletedAt,
		ReminderSentAt: audit.ReminderSentAt,
		Status:         string(audit.Status),
		SectionIDs:     sectionIDs,
		CreatedAt:      createdAt,
		UpdatedAt:      updatedAt,
	}, nil
}
