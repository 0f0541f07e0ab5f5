package admin

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"

	auditdomain "github.com/auditworks/audit-api/internal/audit/domain"
	"github.com/auditworks/audit-api/internal/interfaces/http/common"
)

// decodeJSON reads a size-limited JSON body into dst and runs struct
// validation. The returned flag tells the caller the response is written.
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(io.LimitReader(r.Body, common.MaxAuditRequestBody)).Decode(dst); err != nil {
		common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			common.WriteJSON(h.logger, w, http.StatusUnprocessableEntity, map[string]any{
				"error":  "validation failed",
				"fields": validationFields(verrs),
			})
			return false
		}
		common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
		return false
	}
	return true
}

// validationFields flattens validator errors to field → message.
func validationFields(verrs validator.ValidationErrors) map[string]string {
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			fields[fe.Field()] = "is required"
		case "oneof":
			fields[fe.Field()] = "must be one of: " + fe.Param()
		case "min":
			fields[fe.Field()] = "must be at least " + fe.Param()
		default:
			fields[fe.Field()] = "is invalid"
		}
	}
	return fields
}

// writeDomainError maps the domain error taxonomy onto HTTP statuses.
func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	var verr *auditdomain.ValidationError
	if errors.As(err, &verr) {
		common.WriteJSON(h.logger, w, http.StatusUnprocessableEntity, map[string]any{
			"error":  "validation failed",
			"fields": verr.Fields,
		})
		return
	}
	var terr *auditdomain.InvalidTransitionError
	if errors.As(err, &terr) {
		common.WriteJSON(h.logger, w, http.StatusConflict, map[string]string{"error": terr.Error()})
		return
	}
	switch {
	case errors.Is(err, auditdomain.ErrNotFound):
		common.WriteJSON(h.logger, w, http.StatusNotFound, map[string]string{"error": "resource not found"})
	case errors.Is(err, auditdomain.ErrConflict):
		common.WriteJSON(h.logger, w, http.StatusConflict, map[string]string{"error": "resource was modified concurrently, retry"})
	default:
		h.logger.Printf("request failed: %v", err)
		common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}
