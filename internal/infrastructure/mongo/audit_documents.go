package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SectionDocument is the MongoDB schema for a reusable audit section.
type SectionDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	Title       string             `bson:"title"`
	Description string             `bson:"description,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

// QuestionOptionDocument is one embedded choice of a select question. The
// id is a stable uuid so answers survive option edits.
type QuestionOptionDocument struct {
	ID    string `bson:"id"`
	Label string `bson:"label"`
	Value string `bson:"value"`
	Order int    `bson:"order"`
}

// QuestionDocument stores a question with its options inline. Scalar fields
// and the option set always change together in a single write; version backs
// the optimistic guard on that write.
type QuestionDocument struct {
	ID             primitive.ObjectID       `bson:"_id"`
	SectionID      primitive.ObjectID       `bson:"sectionId"`
	Question       string                   `bson:"question"`
	Type           string                   `bson:"type"`
	Required       bool                     `bson:"required"`
	HasDescription bool                     `bson:"hasDescription"`
	Order          int                      `bson:"order"`
	Options        []QuestionOptionDocument `bson:"options,omitempty"`
	Version        int64                    `bson:"version"`
	CreatedAt      time.Time                `bson:"createdAt"`
	UpdatedAt      time.Time                `bson:"updatedAt"`
	DeletedAt      *time.Time               `bson:"deletedAt,omitempty"`
}

// AuditDocument stores an audit. SectionIDs is the link-set of attached
// sections, kept duplicate-free by the repository.
type AuditDocument struct {
	ID             primitive.ObjectID   `bson:"_id"`
	Title          string               `bson:"title"`
	Description    string               `bson:"description,omitempty"`
	AssignedTo     primitive.ObjectID   `bson:"assignedTo"`
	ScheduledAt    time.Time            `bson:"scheduledAt"`
	DownloadedAt   *time.Time           `bson:"downloadedAt,omitempty"`
	StartedAt      *time.Time           `bson:"startedAt,omitempty"`
	CompletedAt    *time.Time           `bson:"completedAt,omitempty"`
	ReminderSentAt *time.Time           `bson:"reminderSentAt,omitempty"`
	Status         string               `bson:"status"`
	SectionIDs     []primitive.ObjectID `bson:"sectionIds"`
	CreatedAt      time.Time            `bson:"createdAt"`
	UpdatedAt      time.Time            `bson:"updatedAt"`
	DeletedAt      *time.Time           `bson:"deletedAt,omitempty"`
}

// AnswerDocument is one entry of the append-only answer journal.
type AnswerDocument struct {
	ID         string             `bson:"_id"`
	AuditID    primitive.ObjectID `bson:"auditId"`
	QuestionID primitive.ObjectID `bson:"questionId"`
	Answer     string             `bson:"answer,omitempty"`
	Comments   string             `bson:"comments,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt"`
}

// UserDocument is assignee reference data, seeded out of band.
type UserDocument struct {
	ID    primitive.ObjectID `bson:"_id"`
	Name  string             `bson:"name"`
	Email string             `bson:"email"`
}
