package user

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	internal "github.com/grupomivyca/mivyca-backend/internal"
	"github.com/grupomivyca/mivyca-backend/internal/access"
	"github.com/grupomivyca/mivyca-backend/internal/transport"
	"github.com/grupomivyca/mivyca-backend/pkg/logger"
)

type ServiceAPI interface {
	CreateUser(dto CreateUserDTO) (*User, error)
	GetUser(id string) (*User, error)
	ListUsers() ([]*User, error)
	ListUsersByCompany(companyID string) ([]*User, error)
	UpdateUser(id string, dto UpdateUserDTO) (*User, error)
	DeleteUser(id string) error
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

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	if err := h.requireManage(r); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	var dto CreateUserDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	u, err := h.Service.CreateUser(dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, u)
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.Service.GetUser(chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	if err := h.requireManage(r); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	users, err := h.Service.ListUsers()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, users)
}

func (h *Handler) ListUsersByCompany(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.ListUsersByCompany(chi.URLParam(r, "companyId"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, users)
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	if err := h.requireManage(r); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	var dto UpdateUserDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	u, err := h.Service.UpdateUser(chi.URLParam(r, "id"), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.requireManage(r); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	if err := h.Service.DeleteUser(chi.URLParam(r, "id")); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// requireManage gates user administration on the token's role.
func (h *Handler) requireManage(r *http.Request) error {
	principal, ok := internal.PrincipalFromContext(r.Context())
	if !ok {
		return internal.ErrNotAuthenticated
	}
	if !access.Can(access.Role(principal.Role), access.ActionManageUsers) {
		return internal.ErrInsufficientRole
	}
	return nil
}
