package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	mongodoc "github.com/auditworks/audit-api/internal/infrastructure/mongo"
)

type seedOptions struct {
	envFile         string
	dropCollections bool
}

type collections struct {
	audits    string
	sections  string
	questions string
	answers   string
	users     string
}

func main() {
	opts := parseFlags()

	if opts.envFile != "" {
		if err := godotenv.Load(opts.envFile); err != nil {
			log.Fatalf("failed to load env file %s: %v", opts.envFile, err)
		}
	} else {
		_ = godotenv.Load()
	}

	cfg := collections{
		audits:    envOrDefault("AUDIT_COLLECTION", "audits"),
		sections:  envOrDefault("SECTION_COLLECTION", "audit_sections"),
		questions: envOrDefault("QUESTION_COLLECTION", "audit_questions"),
		answers:   envOrDefault("ANSWER_COLLECTION", "audit_answers"),
		users:     envOrDefault("USER_COLLECTION", "users"),
	}

	mongoURI := envOrDefault("MONGO_URI", "mongodb://localhost:27017")
	dbName := envOrDefault("MONGO_DB", "audit-api")

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("failed to connect to MongoDB: %v", err)
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	db := client.Database(dbName)

	if opts.dropCollections {
		dropAll(ctx, db, cfg)
		log.Printf("dropped existing collections")
	}

	if err := ensureIndexes(ctx, db, cfg); err != nil {
		log.Fatalf("failed to create indexes: %v", err)
	}

	now := time.Now().UTC()

	users := seedUsers()
	if err := insertMany(ctx, db.Collection(cfg.users), toAnySlice(users)); err != nil {
		log.Fatalf("failed to insert users: %v", err)
	}

	sections := seedSections(now)
	if err := insertMany(ctx, db.Collection(cfg.sections), toAnySlice(sections)); err != nil {
		log.Fatalf("failed to insert sections: %v", err)
	}

	questions := seedQuestions(sections, now)
	if err := insertMany(ctx, db.Collection(cfg.questions), toAnySlice(questions)); err != nil {
		log.Fatalf("failed to insert questions: %v", err)
	}

	audits := seedAudits(users, sections, now)
	if err := insertMany(ctx, db.Collection(cfg.audits), toAnySlice(audits)); err != nil {
		log.Fatalf("failed to insert audits: %v", err)
	}

	log.Printf("seed complete: users=%d sections=%d questions=%d audits=%d",
		len(users), len(sections), len(questions), len(audits))
	log.Printf("Mongo: %s / %s", mongoURI, dbName)
}

func parseFlags() seedOptions {
	var opts seedOptions
	flag.StringVar(&opts.envFile, "env-file", "", "path to an env file (defaults to ./.env when present)")
	flag.BoolVar(&opts.dropCollections, "drop", true, "drop existing collections before inserting")
	flag.Parse()
	return opts
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func dropAll(ctx context.Context, db *mongo.Database, cfg collections) {
	for _, name := range []string{cfg.audits, cfg.sections, cfg.questions, cfg.answers, cfg.users} {
		if err := db.Collection(name).Drop(ctx); err != nil {
			// Drop also errs on missing collections, a warning is enough.
			log.Printf("WARN: failed to drop collection %s: %v", name, err)
		}
	}
}

func ensureIndexes(ctx context.Context, db *mongo.Database, cfg collections) error {
	questionIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "sectionId", Value: 1}, {Key: "order", Value: 1}}},
		{Keys: bson.D{{Key: "deletedAt", Value: 1}}},
	}
	if _, err := db.Collection(cfg.questions).Indexes().CreateMany(ctx, questionIndexes); err != nil {
		return err
	}

	auditIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "scheduledAt", Value: -1}}},
		{Keys: bson.D{{Key: "assignedTo", Value: 1}}},
		{Keys: bson.D{{Key: "sectionIds", Value: 1}}},
		{Keys: bson.D{{Key: "deletedAt", Value: 1}}},
	}
	if _, err := db.Collection(cfg.audits).Indexes().CreateMany(ctx, auditIndexes); err != nil {
		return err
	}

	answerIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "auditId", Value: 1}, {Key: "questionId", Value: 1}}},
	}
	if _, err := db.Collection(cfg.answers).Indexes().CreateMany(ctx, answerIndexes); err != nil {
		return err
	}

	userIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	_, err := db.Collection(cfg.users).Indexes().CreateMany(ctx, userIndexes)
	return err
}

func seedUsers() []mongodoc.UserDocument {
	return []mongodoc.UserDocument{
		{ID: primitive.NewObjectID(), Name: "Laura Mendoza", Email: "laura.mendoza@example.com"},
		{ID: primitive.NewObjectID(), Name: "Carlos Rivas", Email: "carlos.rivas@example.com"},
		{ID: primitive.NewObjectID(), Name: "Ana Torres", Email: "ana.torres@example.com"},
	}
}

func seedSections(now time.Time) []mongodoc.SectionDocument {
	titles := []struct {
		title       string
		description string
	}{
		{"Información General", "Datos básicos del establecimiento auditado"},
		{"Cumplimiento Normativo", "Verificación de normas y permisos vigentes"},
		{"Seguridad", "Condiciones de seguridad e higiene en sitio"},
	}
	sections := make([]mongodoc.SectionDocument, 0, len(titles))
	for _, t := range titles {
		sections = append(sections, mongodoc.SectionDocument{
			ID:          primitive.NewObjectID(),
			Title:       t.title,
			Description: t.description,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}
	return sections
}

func seedQuestions(sections []mongodoc.SectionDocument, now time.Time) []mongodoc.QuestionDocument {
	questions := make([]mongodoc.QuestionDocument, 0, len(sections)*2+1)
	for _, section := range sections {
		questions = append(questions,
			mongodoc.QuestionDocument{
				ID:        primitive.NewObjectID(),
				SectionID: section.ID,
				Question:  "¿Cumple con los requisitos de " + section.Title + "?",
				Type:      "boolean",
				Required:  true,
				Order:     0,
				Version:   1,
				CreatedAt: now,
				UpdatedAt: now,
			},
			mongodoc.QuestionDocument{
				ID:             primitive.NewObjectID(),
				SectionID:      section.ID,
				Question:       "Observaciones sobre " + section.Title,
				Type:           "text",
				Required:       false,
				HasDescription: true,
				Order:          1,
				Version:        1,
				CreatedAt:      now,
				UpdatedAt:      now,
			},
		)
	}

	// One select question so the option path has sample data.
	questions = append(questions, mongodoc.QuestionDocument{
		ID:        primitive.NewObjectID(),
		SectionID: sections[2].ID,
		Question:  "Nivel de riesgo observado",
		Type:      "select",
		Required:  true,
		Order:     2,
		Options: []mongodoc.QuestionOptionDocument{
			{ID: uuid.NewString(), Label: "Bajo", Value: "low", Order: 0},
			{ID: uuid.NewString(), Label: "Medio", Value: "medium", Order: 1},
			{ID: uuid.NewString(), Label: "Alto", Value: "high", Order: 2},
		},
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	})
	return questions
}

func seedAudits(users []mongodoc.UserDocument, sections []mongodoc.SectionDocument, now time.Time) []mongodoc.AuditDocument {
	allSections := make([]primitive.ObjectID, 0, len(sections))
	for _, section := range sections {
		allSections = append(allSections, section.ID)
	}

	inTwoDays := now.Add(48 * time.Hour)
	yesterday := now.Add(-24 * time.Hour)
	lastWeek := now.Add(-7 * 24 * time.Hour)
	started := yesterday.Add(2 * time.Hour)
	completed := lastWeek.Add(6 * time.Hour)

	return []mongodoc.AuditDocument{
		{
			ID:          primitive.NewObjectID(),
			Title:       "Auditoría Sucursal Centro",
			Description: "Revisión trimestral programada",
			AssignedTo:  users[0].ID,
			ScheduledAt: inTwoDays,
			Status:      "scheduled",
			SectionIDs:  allSections,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:           primitive.NewObjectID(),
			Title:        "Auditoría Bodega Norte",
			Description:  "Inspección de seguridad en curso",
			AssignedTo:   users[1].ID,
			ScheduledAt:  yesterday,
			DownloadedAt: &yesterday,
			StartedAt:    &started,
			Status:       "in_progress",
			SectionIDs:   allSections[:2],
			CreatedAt:    now,
			UpdatedAt:    now,
		},
		{
			ID:           primitive.NewObjectID(),
			Title:        "Auditoría Planta Sur",
			Description:  "Auditoría cerrada del mes anterior",
			AssignedTo:   users[2].ID,
			ScheduledAt:  lastWeek,
			DownloadedAt: &lastWeek,
			StartedAt:    &lastWeek,
			CompletedAt:  &completed,
			Status:       "completed",
			SectionIDs:   allSections[2:],
			CreatedAt:    now,
			UpdatedAt:    now,
		},
	}
}

func insertMany(ctx context.Context, col *mongo.Collection, docs []interface{}) error {
	if len(docs) == 0 {
		return nil
	}
	_, err := col.InsertMany(ctx, docs)
	return err
}

func toAnySlice[T any](in []T) []interface{} {
	out := make([]interface{}, 0, len(in))
	for _, v := range in {
		out = append(out, v)
	}
	return out
}
