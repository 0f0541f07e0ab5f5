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

func (h *Handler) questionListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		page, limit := common.ParsePaging(query.Get("page"), query.Get("limit"))
		filter := auditapp.QuestionFilter{SectionID: strings.TrimSpace(query.Get("sectionId"))}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		result, err := h.questionService.List(ctx, filter, auditapp.Paging{Page: page, Limit: limit})
		if err != nil {
			h.writeDomainError(w, err)
			return
		}

		items := make([]questionResponse, 0, len(result.Items))
		for _, question := range result.Items {
			items = append(items, questionDomainToResponse(question))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, pageResponse[questionResponse]{
			Items:      items,
			Total:      result.Total,
			Page:       result.Page,
			Limit:      result.Limit,
			TotalPages: result.TotalPages,
		})
	}
}

func (h *Handler) questionDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "id"))

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		question, err := h.questionService.Detail(ctx, id)
		if err != nil {
			h.writeDomainError(w, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, questionDomainToResponse(*question))
	}
}

func (h *Handler) questionCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req questionRequest
		if !h.decodeJSON(w, r, &req) {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		question, err := h.questionService.Create(ctx, buildQuestionCommand(req))
		if err != nil {
			h.writeDomainError(w, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusCreated, questionDomainToResponse(*question))
	}
}

func (h *Handler) questionUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "id"))
		var req questionRequest
		if !h.decodeJSON(w, r, &req) {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		question, err := h.questionService.Update(ctx, id, buildQuestionCommand(req))
		if err != nil {
			h.writeDomainError(w, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, questionDomainToResponse(*question))
	}
}

func (h *Handler) questionDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "id"))

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := h.questionService.Delete(ctx, id); err != nil {
			h.writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func buildQuestionCommand(req questionRequest) auditapp.UpsertQuestionCommand {
	options := make([]auditapp.OptionCommand, 0, len(req.Options))
	for _, opt := range req.Options {
		options = append(options, auditapp.OptionCommand{
			ID:    opt.ID,
			Label: opt.Label,
			Value: opt.Value,
			Order: opt.Order,
		})
	}
	return auditapp.UpsertQuestionCommand{
		SectionID:      req.SectionID,
		Text:           req.Question,
		Type:           req.Type,
		Required:       req.Required,
		HasDescription: req.HasDescription,
		Order:          req.Order,
		Options:        options,
	}
}
