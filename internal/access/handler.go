package access

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	internal "github.com/grupomivyca/mivyca-backend/internal"
	"github.com/grupomivyca/mivyca-backend/internal/metrics"
	"github.com/grupomivyca/mivyca-backend/internal/transport"
	"github.com/grupomivyca/mivyca-backend/pkg/logger"
)

type ServiceAPI interface {
	HasAccess(userID, companyID string) (bool, error)
	RoleIn(userID, companyID string) (*Role, error)
	Grant(actor *internal.Principal, userID, companyID string, role Role) (*CompanyAccess, error)
	Revoke(actor *internal.Principal, userID, companyID string) error
	ChangeRole(actor *internal.Principal, userID, companyID string, role Role) (*CompanyAccess, error)
	ListForUser(userID string) ([]*CompanyAccess, error)
	ListForCompany(companyID string) ([]*CompanyAccess, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.L()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) Grant(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.PrincipalFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto GrantAccessDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	if err := dto.Validate(); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	role, _ := ParseRole(dto.Role)
	granted, err := h.Service.Grant(actor, chi.URLParam(r, "id"), dto.CompanyID, role)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	metrics.RecordAccessMutation("grant")
	h.WriteJSON(w, http.StatusCreated, granted)
}

func (h *Handler) Revoke(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.PrincipalFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	err := h.Service.Revoke(actor, chi.URLParam(r, "id"), chi.URLParam(r, "companyId"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	metrics.RecordAccessMutation("revoke")
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.PrincipalFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto ChangeRoleDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	if err := dto.Validate(); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	role, _ := ParseRole(dto.Role)
	changed, err := h.Service.ChangeRole(actor, chi.URLParam(r, "id"), chi.URLParam(r, "companyId"), role)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	metrics.RecordAccessMutation("change_role")
	h.WriteJSON(w, http.StatusOK, changed)
}

func (h *Handler) ListForUser(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Service.ListForUser(chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, rows)
}

func (h *Handler) ListForCompany(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Service.ListForCompany(chi.URLParam(r, "companyId"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, rows)
}

// RoleInCompany answers the role lookup with a nullable role: no access is a
// null payload, not an error.
func (h *Handler) RoleInCompany(w http.ResponseWriter, r *http.Request) {
	role, err := h.Service.RoleIn(chi.URLParam(r, "id"), chi.URLParam(r, "companyId"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, RoleResponse{Role: role})
}

func (h *Handler) CheckAccess(w http.ResponseWriter, r *http.Request) {
	has, err := h.Service.HasAccess(chi.URLParam(r, "id"), chi.URLParam(r, "companyId"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, HasAccessResponse{HasAccess: has})
}
