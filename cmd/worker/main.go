package main

import (
	"context"

	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/auditworks/audit-api/internal/config"
	mongodoc "github.com/auditworks/audit-api/internal/infrastructure/mongo"
	"github.com/auditworks/audit-api/internal/jobs"
)

func main() {
	cfg := config.Load()
	if cfg.RedisAddr == "" {
		cfg.ServerLog.Fatal("REDIS_ADDR must be set for the reminder worker")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	clientOptions := options.Client().ApplyURI(cfg.MongoURI).SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		cfg.ServerLog.Fatalf("failed to connect to MongoDB: %v", err)
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	auditRepo := mongodoc.NewAuditRepository(client.Database(cfg.MongoDatabase), cfg.AuditCollection)
	handler := jobs.NewReminderHandler(auditRepo, cfg.ServerLog)

	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		asynq.Config{Concurrency: 5},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(jobs.TypeAuditReminder, handler.HandleAuditReminder)

	cfg.ServerLog.Printf("reminder worker starting, redis=%s", cfg.RedisAddr)
	if err := srv.Run(mux); err != nil {
		cfg.ServerLog.Fatalf("reminder worker exited: %v", err)
	}
}
