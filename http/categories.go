package http

import (
	"net/http"

	"github.com/gapeval/backend/category"
	"github.com/gapeval/backend/httpjson"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"
)

type createCategoryRequest struct {
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	Slug        string   `json:"slug"`
	Evaluators  []string `json:"evaluators"`
}

func (httpserver *HttpServer) createCategory(w http.ResponseWriter, r *http.Request) {
	logger := httplog.LogEntry(r.Context())

	var req createCategoryRequest
	if err := decodeBody(w, r, &req, category.ErrCodeInvalidCategory); err != nil {
		httpjson.HandleError(logger, w, err)
		return
	}

	c, err := httpserver.categorySrvc.CreateCategory(r.Context(), category.CreateCategoryParams{
		Name:        req.Name,
		Description: req.Description,
		Slug:        req.Slug,
		Evaluators:  req.Evaluators,
	})
	if err != nil {
		httpjson.HandleError(logger, w, err)
		return
	}

	httpjson.WriteSuccessJson(w, mapCategory(*c))
}

func (httpserver *HttpServer) listCategories(w http.ResponseWriter, r *http.Request) {
	logger := httplog.LogEntry(r.Context())

	cs, err := httpserver.categorySrvc.ListCategories(r.Context())
	if err != nil {
		httpjson.HandleError(logger, w, err)
		return
	}

	httpjson.WriteSuccessJson(w, mapCategories(cs))
}

func (httpserver *HttpServer) getCategory(w http.ResponseWriter, r *http.Request) {
	logger := httplog.LogEntry(r.Context())
	slug := chi.URLParam(r, "slug")

	c, err := httpserver.categorySrvc.GetCategory(r.Context(), slug)
	if err != nil {
		httpjson.HandleError(logger, w, err)
		return
	}

	summaries, err := httpserver.submSrvc.ListCategorySubmissions(r.Context(), slug)
	if err != nil {
		httpjson.HandleError(logger, w, err)
		return
	}

	response := CategoryWithSubmissions{
		Category:    mapCategory(*c),
		Submissions: make([]SubmissionSummary, 0, len(summaries)),
	}
	for _, s := range summaries {
		response.Submissions = append(response.Submissions, mapSubmissionSummary(s, *c))
	}

	httpjson.WriteSuccessJson(w, response)
}
