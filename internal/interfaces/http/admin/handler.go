package admin

import (
	"log"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	auditapp "github.com/auditworks/audit-api/internal/audit/application"
)

// Handler wires the audit HTTP endpoints to application services.
type Handler struct {
	logger          *log.Logger
	validate        *validator.Validate
	auditService    auditapp.AuditService
	sectionService  auditapp.SectionService
	questionService auditapp.QuestionService
	answerService   auditapp.AnswerService
	userService     auditapp.UserService
}

// Config provides dependencies for Handler.
type Config struct {
	Logger          *log.Logger
	AuditService    auditapp.AuditService
	SectionService  auditapp.SectionService
	QuestionService auditapp.QuestionService
	AnswerService   auditapp.AnswerService
	UserService     auditapp.UserService
}

// NewHandler constructs the audit HTTP handler set.
func NewHandler(cfg Config) *Handler {
	validate := validator.New()
	// Report validation failures under the JSON field name.
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Handler{
		logger:          cfg.Logger,
		validate:        validate,
		auditService:    cfg.AuditService,
		sectionService:  cfg.SectionService,
		questionService: cfg.QuestionService,
		answerService:   cfg.AnswerService,
		userService:     cfg.UserService,
	}
}

// Register mounts the audit routes onto router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/users", h.userListHandler())

	r.Get("/audits", h.auditListHandler())
	r.Post("/audits", h.auditCreateHandler())
	r.Get("/audits/{id}", h.auditDetailHandler())
	r.Put("/audits/{id}", h.auditUpdateHandler())
	r.Delete("/audits/{id}", h.auditDeleteHandler())
	r.Post("/audits/{id}/sections", h.auditSyncSectionsHandler())
	r.Delete("/audits/{id}/sections/{sectionID}", h.auditDetachSectionHandler())
	r.Get("/audits/{id}/answers", h.answerListHandler())
	r.Post("/audits/{id}/answers", h.answerCreateHandler())

	r.Get("/sections", h.sectionListHandler())
	r.Post("/sections", h.sectionCreateHandler())
	r.Get("/sections/{id}", h.sectionDetailHandler())
	r.Put("/sections/{id}", h.sectionUpdateHandler())
	r.Delete("/sections/{id}", h.sectionDeleteHandler())

	r.Get("/questions", h.questionListHandler())
	r.Post("/questions", h.questionCreateHandler())
	r.Get("/questions/{id}", h.questionDetailHandler())
	r.Put("/questions/{id}", h.questionUpdateHandler())
	r.Delete("/questions/{id}", h.questionDeleteHandler())
}
