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

func (h *Handler) auditListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		page, limit := common.ParsePaging(query.Get("page"), query.Get("limit"))
		filter := auditapp.AuditFilter{
			Status:     strings.TrimSpace(query.Get("status")),
			AssignedTo: strings.TrimSpace(query.Get("assignedTo")),
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		result, err := h.auditService.List(ctx, filter, auditapp.Paging{Page: page, Limit: limit})
		if err != nil {
			h.writeDomainError(w, err)
			return
		}

		items := make([]auditResponse, 0, len(result.Items))
		for _, detail := range result.Items {
			items = append(items, auditDetailDomainToResponse(detail))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, pageResponse[auditResponse]{
			Items:      items,
			Total:      result.Total,
			Page:       result.Page,
			Limit:      result.Limit,
			TotalPages: result.TotalPages,
		})
	}
}

func (h *Handler) auditDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "id"))

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		detail, err := h.auditService.Detail(ctx, id)
		if err != nil {
			h.writeDomainError(w, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, auditDetailDomainToResponse(*detail))
	}
}

func (h *Handler) auditCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req auditRequest
		if !h.decodeJSON(w, r, &req) {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		audit, err := h.auditService.Create(ctx, buildAuditCommand(req))
		if err != nil {
			h.writeDomainError(w, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusCreated, auditDomainToResponse(*audit))
	}
}

func (h *Handler) auditUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "id"))
		var req auditRequest
		if !h.decodeJSON(w, r, &req) {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		audit, err := h.auditService.Update(ctx, id, buildAuditCommand(req))
		if err != nil {
			h.writeDomainError(w, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, auditDomainToResponse(*audit))
	}
}

func (h *Handler) auditDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "id"))

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		if err := h.auditService.Delete(ctx, id); err != nil {
			h.writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *Handler) auditSyncSectionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "id"))
		var req syncSectionsRequest
		if !h.decodeJSON(w, r, &req) {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		detail, err := h.auditService.SyncSections(ctx, id, req.SectionIDs)
		if err != nil {
			h.writeDomainError(w, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, auditDetailDomainToResponse(*detail))
	}
}

func (h *Handler) auditDetachSectionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "id"))
		sectionID := strings.TrimSpace(chi.URLParam(r, "sectionID"))

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := h.auditService.DetachSection(ctx, id, sectionID); err != nil {
			h.writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func buildAuditCommand(req auditRequest) auditapp.UpsertAuditCommand {
	return auditapp.UpsertAuditCommand{
		Title:       req.Title,
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
		ScheduledAt: req.ScheduledAt,
		Status:      req.Status,
	}
}
