package auth

import (
	"net/http"

	"github.com/go-chi/chi"
	internal "github.com/grupomivyca/mivyca-backend/internal"
	"github.com/grupomivyca/mivyca-backend/internal/metrics"
	"github.com/grupomivyca/mivyca-backend/internal/transport"
)

// CompanyGuard rejects requests whose {companyId} path parameter does not
// match the company the token was minted for. Routes without a {companyId}
// parameter pass through untouched; request bodies are never consulted.
//
// There is no role that bypasses the guard. A SUPER_ADMIN of one company is
// a stranger in every other until they log in there.
func CompanyGuard(base *transport.BaseHandler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			companyID := chi.URLParam(r, "companyId")
			if companyID == "" {
				next.ServeHTTP(w, r)
				return
			}

			principal, ok := internal.PrincipalFromContext(r.Context())
			if !ok {
				metrics.RecordGuardDenial()
				base.HandleServiceError(w, internal.ErrNotAuthenticated)
				return
			}

			if principal.CompanyID != companyID {
				metrics.RecordGuardDenial()
				base.Logger.Warn("cross-tenant request blocked",
					"user_id", principal.UserID,
					"token_company", principal.CompanyID,
					"path_company", companyID)
				base.HandleServiceError(w, internal.ErrCrossTenant)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
