package admin

import (
	"context"
	"net/http"
	"time"

	"github.com/auditworks/audit-api/internal/interfaces/http/common"
)

func (h *Handler) userListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		users, err := h.userService.List(ctx)
		if err != nil {
			h.writeDomainError(w, err)
			return
		}

		items := make([]userResponse, 0, len(users))
		for _, user := range users {
			items = append(items, userDomainToResponse(user))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{"items": items})
	}
}
