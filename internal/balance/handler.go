package balance

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mzidan/divvy/internal/group"
	"github.com/mzidan/divvy/pkg/middleware"
	"github.com/mzidan/divvy/pkg/response"
)

// Handler handles HTTP requests for balance views
type Handler struct {
	service *Service
}

// NewHandler creates a new balance handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for balance endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/me", h.Me)
	r.Get("/group/{groupId}", h.Group)

	return r
}

// Group handles GET /balances/group/{groupId}
// @Summary      Group balance
// @Description  Get the caller's net balances within one group
// @Tags         balances
// @Produce      json
// @Param        groupId path int true "Group ID"
// @Success      200 {object} response.APIResponse{data=Summary}
// @Failure      403 {object} response.APIResponse
// @Router       /balances/group/{groupId} [get]
func (h *Handler) Group(w http.ResponseWriter, r *http.Request) {
	groupID, err := strconv.ParseInt(chi.URLParam(r, "groupId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	summary, err := h.service.GroupBalance(r.Context(), userID, groupID)
	if err != nil {
		if errors.Is(err, group.ErrNotMember) {
			response.Forbidden(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to compute balances")
		return
	}

	response.JSON(w, http.StatusOK, summary)
}

// Me handles GET /balances/me
// @Summary      Global balance
// @Description  Get the caller's net balances across all their groups
// @Tags         balances
// @Produce      json
// @Success      200 {object} response.APIResponse{data=Summary}
// @Failure      401 {object} response.APIResponse
// @Router       /balances/me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	summary, err := h.service.GlobalBalance(r.Context(), userID)
	if err != nil {
		response.InternalError(w, "Failed to compute balances")
		return
	}

	response.JSON(w, http.StatusOK, summary)
}
