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

func (h *Handler) sectionListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		page, limit := common.ParsePaging(query.Get("page"), query.Get("limit"))

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		result, err := h.sectionService.List(ctx, auditapp.Paging{Page: page, Limit: limit})
		if err != nil {
			h.writeDomainError(w, err)
			return
		}

		items := make([]sectionResponse, 0, len(result.Items))
		for _, summary := range result.Items {
			items = append(items, sectionDomainToResponse(summary.Section, summary.QuestionCount))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, pageResponse[sectionResponse]{
			Items:      items,
			Total:      result.Total,
			Page:       result.Page,
			Limit:      result.Limit,
			TotalPages: result.TotalPages,
		})
	}
}

func (h *Handler) sectionDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "id"))

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		detail, err := h.sectionService.Detail(ctx, id)
		if err != nil {
			h.writeDomainError(w, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, sectionDetailDomainToResponse(*detail))
	}
}

func (h *Handler) sectionCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req sectionRequest
		if !h.decodeJSON(w, r, &req) {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		section, err := h.sectionService.Create(ctx, auditapp.UpsertSectionCommand{
			Title:       req.Title,
			Description: req.Description,
		})
		if err != nil {
			h.writeDomainError(w, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusCreated, sectionDomainToResponse(*section, 0))
	}
}

func (h *Handler) sectionUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "id"))
		var req sectionRequest
		if !h.decodeJSON(w, r, &req) {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		section, err := h.sectionService.Update(ctx, id, auditapp.UpsertSectionCommand{
			Title:       req.Title,
			Description: req.Description,
		})
		if err != nil {
			h.writeDomainError(w, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, sectionDomainToResponse(*section, 0))
	}
}

func (h *Handler) sectionDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "id"))

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		if err := h.sectionService.Delete(ctx, id); err != nil {
			h.writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
