package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/logiscore/logiscore-backend/internal/health"
	"github.com/logiscore/logiscore-backend/internal/http/handler"
	"github.com/logiscore/logiscore-backend/internal/http/middleware"
	"github.com/logiscore/logiscore-backend/internal/http/response"
	"github.com/logiscore/logiscore-backend/internal/security"
)

type Dependencies struct {
	AuthHandler      *handler.AuthHandler
	UserHandler      *handler.UserHandler
	ForwarderHandler *handler.ForwarderHandler
	ReviewHandler    *handler.ReviewHandler
	SearchHandler    *handler.SearchHandler
	AdminHandler     *handler.AdminHandler
	JWTManager       *security.JWTManager
	UserLoader       middleware.UserLoader
	CORSOrigins      []string
	AuthRateLimitRPM int
	APIRateLimitRPM  int
	APIRateLimiter   func(http.Handler) http.Handler
	AuthRateLimiter  func(http.Handler) http.Handler
	Readiness        *health.ProbeRunner
	EnableOTelHTTP   bool
}

func NewRouter(dep Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.StructuredRequestLogger)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(dep.CORSOrigins))
	if dep.APIRateLimiter != nil {
		r.Use(dep.APIRateLimiter)
	} else {
		r.Use(middleware.NewRateLimiter(dep.APIRateLimitRPM, time.Minute, "api").Middleware())
	}

	authLimiter := dep.AuthRateLimiter
	if authLimiter == nil {
		authLimiter = middleware.NewRateLimiter(dep.AuthRateLimitRPM, time.Minute, "auth").Middleware()
	}
	requireAuth := middleware.AuthMiddleware(dep.JWTManager)
	requireAdmin := middleware.RequireAdmin(dep.UserLoader)

	// MaxBytesReader clamps cannot be widened further in, so the JSON
	// cap is applied per route group and the logo upload route carries
	// its own larger one.
	jsonBody := middleware.BodyLimit(1 << 20)
	logoBody := middleware.BodyLimit(6 << 20)

	r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		if dep.Readiness == nil {
			response.JSON(w, r, http.StatusOK, map[string]any{"status": "ready", "checks": []any{}})
			return
		}
		ready, results := dep.Readiness.Ready(r.Context())
		if ready {
			response.JSON(w, r, http.StatusOK, map[string]any{"status": "ready", "checks": results})
			return
		}
		response.Error(w, r, http.StatusServiceUnavailable, "DEPENDENCY_UNREADY", "dependencies are not ready", map[string]any{"checks": results})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(jsonBody)
			r.Use(authLimiter)
			r.Post("/signup", dep.AuthHandler.Signup)
			r.Post("/signin", dep.AuthHandler.Signin)
			r.With(requireAuth).Post("/change-password", dep.AuthHandler.ChangePassword)
			r.Post("/forgot-password", dep.AuthHandler.ForgotPassword)
			r.Post("/reset-password", dep.AuthHandler.ResetPassword)
			r.Post("/send-code", dep.AuthHandler.SendCode)
			r.Post("/verify-code", dep.AuthHandler.VerifyCode)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(jsonBody)
			r.With(authLimiter).Get("/auth/github/url", dep.UserHandler.GitHubAuthorize)
			r.With(authLimiter).Post("/auth/github", dep.UserHandler.GitHubAuth)
			r.With(authLimiter).Get("/auth/github/callback", dep.UserHandler.GitHubCallback)
			r.With(requireAuth).Get("/me", dep.UserHandler.Me)
			r.With(requireAuth).Put("/me", dep.UserHandler.UpdateProfile)
			r.Get("/{userID}", dep.UserHandler.Get)
		})

		r.Route("/freight-forwarders", func(r chi.Router) {
			r.Use(jsonBody)
			r.Get("/", dep.ForwarderHandler.List)
			r.Get("/{forwarderID}", dep.ForwarderHandler.Get)
			r.Get("/{forwarderID}/branches", dep.ForwarderHandler.Branches)
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Use(jsonBody)
			r.Get("/", dep.ReviewHandler.List)
			r.With(requireAuth).Get("/my", dep.ReviewHandler.Mine)
			r.With(requireAuth).Post("/", dep.ReviewHandler.Submit)
			r.Get("/{reviewID}", dep.ReviewHandler.Get)
			r.With(requireAuth).Post("/{reviewID}/dispute", dep.ReviewHandler.FileDispute)
		})

		r.Route("/search", func(r chi.Router) {
			r.Use(jsonBody)
			r.Get("/freight-forwarders", dep.SearchHandler.Forwarders)
			r.Get("/suggestions", dep.SearchHandler.Suggestions)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(requireAuth)
			r.Use(requireAdmin)
			r.Group(func(r chi.Router) {
				r.Use(jsonBody)
				r.Get("/dashboard/stats", dep.AdminHandler.DashboardStats)
				r.Get("/users", dep.AdminHandler.ListUsers)
				r.Put("/users/{userID}/subscription", dep.AdminHandler.UpdateSubscription)
				r.Get("/reviews", dep.AdminHandler.ListReviews)
				r.Put("/reviews/{reviewID}/approve", dep.AdminHandler.ApproveReview)
				r.Put("/reviews/{reviewID}/reject", dep.AdminHandler.RejectReview)
				r.Get("/disputes", dep.AdminHandler.ListDisputes)
				r.Put("/disputes/{disputeID}/resolve", dep.AdminHandler.ResolveDispute)
				r.Get("/companies", dep.AdminHandler.ListCompanies)
				r.Post("/companies", dep.AdminHandler.CreateCompany)
				r.Get("/campaigns", dep.AdminHandler.ListCampaigns)
				r.Post("/campaigns", dep.AdminHandler.CreateCampaign)
			})
			// Logo uploads carry image bytes well past the JSON cap.
			r.With(logoBody).Post("/companies/{forwarderID}/logo", dep.AdminHandler.UploadCompanyLogo)
		})
	})

	var h http.Handler = r
	if dep.EnableOTelHTTP {
		h = otelhttp.NewHandler(r, "http.server")
	}
	return h
}
