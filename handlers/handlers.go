package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/WQTY-MASTER/SGMS/services"
	"github.com/WQTY-MASTER/SGMS/utils"
)

// decodeJSON decodes the request body into dst, answering 400 on failure.
// Returns false when the response has already been written.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		_ = utils.WriteBadRequest(w, "invalid request body")
		return false
	}
	return true
}

// writeServiceError maps a service error onto the response envelope:
// forbidden errors become the 403 envelope, validation / conflict /
// not-found errors become 400 with the domain message, everything else
// becomes an opaque 500.
func writeServiceError(w http.ResponseWriter, err error) {
	switch services.GetErrorType(err) {
	case services.ErrorTypeForbidden:
		_ = utils.WriteForbidden(w)
	case services.ErrorTypeUnauthorized:
		_ = utils.WriteUnauthorized(w)
	case services.ErrorTypeValidation, services.ErrorTypeConflict, services.ErrorTypeNotFound:
		_ = utils.WriteBadRequest(w, services.ClientMessage(err))
	default:
		_ = utils.WriteInternalServerError(w, "")
	}
}

// pathID parses the named chi URL parameter as a positive int64
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// queryInt64 parses an optional int64 query parameter, zero when absent
func queryInt64(r *http.Request, name string) (int64, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

// queryPage parses page/size query parameters with defaults
func queryPage(r *http.Request) (page, size int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	size, _ = strconv.Atoi(r.URL.Query().Get("size"))
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 10
	}
	return page, size
}
