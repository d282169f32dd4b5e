package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/attendance-dashboard/internal/repository"
	"github.com/stemsi/attendance-dashboard/internal/response"
	"github.com/stemsi/attendance-dashboard/internal/service"
)

// failure is the HTTP rendering of a service error.
type failure struct {
	status int
	code   response.ErrCode
	fields map[string]string
}

// classify maps load and export errors to HTTP status and error code.
func classify(err error) failure {
	var schemaErr *repository.SchemaError
	var cellErr *repository.CellError

	switch {
	case errors.As(err, &schemaErr):
		return failure{http.StatusUnprocessableEntity, response.ErrSchemaMismatch, map[string]string{
			"sheet":   schemaErr.Sheet,
			"missing": strings.Join(schemaErr.Missing, ", "),
			"found":   strings.Join(schemaErr.Found, ", "),
		}}
	case errors.As(err, &cellErr):
		return failure{http.StatusUnprocessableEntity, response.ErrSchemaMismatch, map[string]string{
			"row":    strconv.Itoa(cellErr.Row),
			"column": string(cellErr.Column),
			"value":  cellErr.Value,
		}}
	case errors.Is(err, repository.ErrSchemaMismatch):
		return failure{http.StatusUnprocessableEntity, response.ErrSchemaMismatch, map[string]string{"detail": err.Error()}}
	case errors.Is(err, repository.ErrFileNotFound):
		return failure{http.StatusNotFound, response.ErrDatasetNotFound, map[string]string{"detail": err.Error()}}
	case errors.Is(err, repository.ErrFileUnreadable):
		return failure{http.StatusInternalServerError, response.ErrDatasetUnreadable, map[string]string{"detail": err.Error()}}
	case errors.Is(err, service.ErrExportFailed):
		return failure{http.StatusInternalServerError, response.ErrExportFailed, nil}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return failure{http.StatusServiceUnavailable, response.ErrInternal, nil}
	default:
		return failure{http.StatusInternalServerError, response.ErrInternal, nil}
	}
}

// fail logs err and writes the JSON error envelope.
func fail(c *gin.Context, log zerolog.Logger, err error) {
	f := classify(err)
	event := log.Warn()
	if f.status >= http.StatusInternalServerError {
		event = log.Error()
	}
	event.Err(err).
		Str("request_id", response.RequestID(c)).
		Str("path", c.Request.URL.Path).
		Str("code", string(f.code)).
		Msg("Request failed")

	if f.fields != nil {
		response.FailWithFields(c, f.status, f.code, f.fields)
		return
	}
	response.Fail(c, f.status, f.code)
}
