package company

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
	CreateCompany(dto CreateCompanyDTO) (*Company, error)
	GetCompany(id string) (*Company, error)
	GetCompanyBySlug(slug string) (*Company, error)
	ListCompanies() ([]*Company, error)
	UpdateCompany(id string, dto UpdateCompanyDTO) (*Company, error)
	DeleteCompany(id string) error
	CompanyStats(id string) (*Stats, error)
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

func (h *Handler) CreateCompany(w http.ResponseWriter, r *http.Request) {
	if err := h.requireManage(r); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	var dto CreateCompanyDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	c, err := h.Service.CreateCompany(dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, c)
}

func (h *Handler) GetCompany(w http.ResponseWriter, r *http.Request) {
	c, err := h.Service.GetCompany(chi.URLParam(r, "companyId"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) GetCompanyBySlug(w http.ResponseWriter, r *http.Request) {
	c, err := h.Service.GetCompanyBySlug(chi.URLParam(r, "slug"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.Service.ListCompanies()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, companies)
}

func (h *Handler) UpdateCompany(w http.ResponseWriter, r *http.Request) {
	if err := h.requireManage(r); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	var dto UpdateCompanyDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	c, err := h.Service.UpdateCompany(chi.URLParam(r, "companyId"), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) DeleteCompany(w http.ResponseWriter, r *http.Request) {
	if err := h.requireManage(r); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	if err := h.Service.DeleteCompany(chi.URLParam(r, "companyId")); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) CompanyStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.CompanyStats(chi.URLParam(r, "companyId"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, stats)
}

// requireManage gates company mutations on the token's role.
func (h *Handler) requireManage(r *http.Request) error {
	principal, ok := internal.PrincipalFromContext(r.Context())
	if !ok {
		return internal.ErrNotAuthenticated
	}
	if !access.Can(access.Role(principal.Role), access.ActionManageCompany) {
		return internal.ErrInsufficientRole
	}
	return nil
}
