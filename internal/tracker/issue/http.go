// Copyright (c) 2026 Bugtrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package issue

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/bugtrack/internal/platform/request"
	"github.com/taibuivan/bugtrack/internal/platform/respond"
	"github.com/taibuivan/bugtrack/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts issue and comment endpoints. Callers must authenticate
// first; permissions are decided in the service.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.listIssues)
	router.Post("/", handler.createIssue)

	router.Route("/{issueID}", func(r chi.Router) {
		r.Get("/", handler.getIssue)
		r.Patch("/", handler.updateIssue)
		r.Post("/assign/{userID}", handler.assignIssue)
		r.Post("/close", handler.closeIssue)

		r.Get("/comments", handler.listComments)
		r.Post("/comments", handler.addComment)
		r.Delete("/comments/{commentID}", handler.deleteComment)
	})
}

func (handler *Handler) listIssues(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	query := request.URL.Query()
	filter := Filter{
		ProjectID:  query.Get("project_id"),
		Status:     Status(query.Get("status")),
		AssigneeID: query.Get("assignee_id"),
	}

	issues, total, err := handler.service.List(request.Context(), actor, filter, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, issues, pagination.NewMeta(params, total))
}

func (handler *Handler) getIssue(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	issue, err := handler.service.Get(request.Context(), actor, requestutil.Param(request, "issueID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, issue)
}

func (handler *Handler) createIssue(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	issue, err := handler.service.Create(request.Context(), actor, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, issue)
}

func (handler *Handler) updateIssue(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input UpdateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	issue, err := handler.service.Update(request.Context(), actor, requestutil.Param(request, "issueID"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, issue)
}

func (handler *Handler) assignIssue(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	issue, err := handler.service.Assign(request.Context(), actor,
		requestutil.Param(request, "issueID"),
		requestutil.Param(request, "userID"),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, issue)
}

func (handler *Handler) closeIssue(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	issue, err := handler.service.Close(request.Context(), actor, requestutil.Param(request, "issueID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, issue)
}
