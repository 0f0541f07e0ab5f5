package admin

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	auditapp "github.com/auditworks/audit-api/internal/audit/application"
	"github.com/auditworks/audit-api/internal/interfaces/http/common"
)

func (h *Handler) answerListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		auditID := strings.TrimSpace(chi.URLParam(r, "id"))

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		answers, err := h.answerService.ListByAudit(ctx, auditID)
		if err != nil {
			h.writeDomainError(w, err)
			return
		}

		items := make([]answerResponse, 0, len(answers))
		for _, answer := range answers {
			items = append(items, answerDomainToResponse(answer))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{"items": items})
	}
}

func (h *Handler) answerCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		auditID := strings.TrimSpace(chi.URLParam(r, "id"))
		var req answerRequest
		if !h.decodeJSON(w, r, &req) {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		answer, err := h.answerService.Record(ctx, auditapp.RecordAnswerCommand{
			AuditID:    auditID,
			QuestionID: req.QuestionID,
			Answer:     req.Answer,
			Comments:   req.Comments,
		})
		if err != nil {
			h.writeDomainError(w, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusCreated, answerDomainToResponse(*answer))
	}
}
