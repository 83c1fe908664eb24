package auth_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"

	"github.com/go-chi/chi"
	internal "github.com/grupomivyca/mivyca-backend/internal"
	"github.com/grupomivyca/mivyca-backend/internal/auth"
	"github.com/grupomivyca/mivyca-backend/internal/transport"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// principalInjector stands in for the auth middleware.
func principalInjector(p *internal.Principal) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if p != nil {
				r = r.WithContext(internal.ContextWithPrincipal(r.Context(), p))
			}
			next.ServeHTTP(w, r)
		})
	}
}

var _ = Describe("CompanyGuard", func() {
	var base *transport.BaseHandler

	newRouter := func(p *internal.Principal) *chi.Mux {
		router := chi.NewRouter()
		router.Use(principalInjector(p))
		router.Use(auth.CompanyGuard(base))
		ok := func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}
		router.Get("/companies/{companyId}/orders", ok)
		router.Get("/users", ok)
		return router
	}

	errorCode := func(rec *httptest.ResponseRecorder) string {
		var body struct {
			Error struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		return body.Error.Code
	}

	BeforeEach(func() {
		lg := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		base = transport.NewBaseHandler(lg)
	})

	It("should pass requests whose path company matches the token", func() {
		principal := &internal.Principal{UserID: "u1", CompanyID: "almivyca", Role: "USER"}
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/companies/almivyca/orders", nil)

		newRouter(principal).ServeHTTP(rec, req)
		Expect(rec.Code).To(Equal(http.StatusOK))
	})

	It("should block a token minted for another company", func() {
		principal := &internal.Principal{UserID: "u1", CompanyID: "transmivyca", Role: "SUPER_ADMIN"}
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/companies/almivyca/orders", nil)

		newRouter(principal).ServeHTTP(rec, req)
		Expect(rec.Code).To(Equal(http.StatusForbidden))
		Expect(errorCode(rec)).To(Equal("CROSS_TENANT_ACCESS"))
	})

	It("should not let any role bypass the tenant match", func() {
		for _, role := range []string{"SUPER_ADMIN", "ADMIN", "MANAGER", "SUPERVISOR", "USER"} {
			principal := &internal.Principal{UserID: "u1", CompanyID: "camabar", Role: role}
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/companies/almivyca/orders", nil)

			newRouter(principal).ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusForbidden), "role %s should be blocked", role)
		}
	})

	It("should reject requests without a principal", func() {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/companies/almivyca/orders", nil)

		newRouter(nil).ServeHTTP(rec, req)
		Expect(rec.Code).To(Equal(http.StatusForbidden))
		Expect(errorCode(rec)).To(Equal("NOT_AUTHENTICATED"))
	})

	It("should ignore routes without a companyId parameter", func() {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/users", nil)

		newRouter(nil).ServeHTTP(rec, req)
		Expect(rec.Code).To(Equal(http.StatusOK))
	})
})
