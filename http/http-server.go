package http

import (
	"net/http"

	"github.com/gapeval/backend/auth"
	"github.com/gapeval/backend/catalog"
	"github.com/gapeval/backend/category"
	"github.com/gapeval/backend/logger"
	"github.com/gapeval/backend/metrics"
	"github.com/gapeval/backend/subm"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
)

type HttpServer struct {
	authSrvc     *auth.AuthSrvc
	categorySrvc *category.CategorySrvc
	questionSrvc *catalog.QuestionSrvc
	submSrvc     *subm.SubmSrvc
	router       *chi.Mux
}

func NewHttpServer(
	log *httplog.Logger,
	origins []string,
	authSrvc *auth.AuthSrvc,
	categorySrvc *category.CategorySrvc,
	questionSrvc *catalog.QuestionSrvc,
	submSrvc *subm.SubmSrvc,
) *HttpServer {
	router := chi.NewRouter()

	router.Use(httplog.RequestLogger(log))
	router.Use(requestLoggerInContext)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           3000,
	}))

	router.Use(metrics.Instrument)
	router.Use(bearerClaimsMiddleware(authSrvc))

	server := &HttpServer{
		authSrvc:     authSrvc,
		categorySrvc: categorySrvc,
		questionSrvc: questionSrvc,
		submSrvc:     submSrvc,
		router:       router,
	}

	server.routes()

	return server
}

func (httpserver *HttpServer) Handler() http.Handler {
	return httpserver.router
}

func (httpserver *HttpServer) routes() {
	r := httpserver.router

	r.Post("/category", httpserver.createCategory)
	r.Get("/categories", httpserver.listCategories)
	r.Get("/categories/{slug}", httpserver.getCategory)

	r.Get("/questions", httpserver.listQuestions)

	r.With(requireAuth).Post("/submission", httpserver.createSubmission)
	r.Get("/submissions/{id}", httpserver.getSubmission)
	r.Get("/submissions/{id}/evaluations", httpserver.listSubmissionEvaluations)

	r.With(requireRole(auth.RoleEvaluator)).Post("/evaluation", httpserver.createEvaluation)
	r.Get("/evaluations/{id}", httpserver.getEvaluation)

	r.Get("/auth/nonce", httpserver.authNonce)
	r.Post("/auth/verify", httpserver.authVerify)
	r.With(requireAuth).Get("/auth/session", httpserver.authSession)

	r.Handle("/metrics", metrics.Handler())
	r.Get("/healthz", httpserver.healthz)
}

// requestLoggerInContext exposes the request-scoped httplog entry to
// services through logger.FromContext.
func requestLoggerInContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logger.WithLogger(r.Context(), httplog.LogEntry(r.Context()))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
