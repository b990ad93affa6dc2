package http

import (
	"net/http"

	"github.com/gapeval/backend/httpjson"
	"github.com/go-chi/httplog/v2"
)

func (httpserver *HttpServer) listQuestions(w http.ResponseWriter, r *http.Request) {
	logger := httplog.LogEntry(r.Context())

	qs, err := httpserver.questionSrvc.ListQuestions(r.Context())
	if err != nil {
		httpjson.HandleError(logger, w, err)
		return
	}

	httpjson.WriteSuccessJson(w, mapQuestions(qs))
}

func (httpserver *HttpServer) healthz(w http.ResponseWriter, r *http.Request) {
	httpjson.WriteSuccessJson(w, "ok")
}
