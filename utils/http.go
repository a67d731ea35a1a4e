package utils

import (
	"encoding/json"
	"net/http"
)

// Result is the uniform response envelope shared by every endpoint:
// code 200 = success, 400 = request error, 401 = not authenticated,
// 403 = insufficient role. The HTTP status mirrors the code.
type Result struct {
	Code int         `json:"code"`
	Msg  string      `json:"msg"`
	Data interface{} `json:"data"`
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return nil
	}

	return json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a 200 envelope with optional data
func WriteSuccess(w http.ResponseWriter, data interface{}) error {
	return WriteJSON(w, http.StatusOK, Result{
		Code: http.StatusOK,
		Msg:  "success",
		Data: data,
	})
}

// WriteBadRequest writes a 400 envelope with an error message
func WriteBadRequest(w http.ResponseWriter, msg string) error {
	if msg == "" {
		msg = "bad request"
	}
	return WriteJSON(w, http.StatusBadRequest, Result{
		Code: http.StatusBadRequest,
		Msg:  msg,
	})
}

// WriteUnauthorized writes the 401 envelope used for every authentication
// failure; the concrete cause is logged, never sent to the client
func WriteUnauthorized(w http.ResponseWriter) error {
	return WriteJSON(w, http.StatusUnauthorized, Result{
		Code: http.StatusUnauthorized,
		Msg:  "not logged in or token expired",
	})
}

// WriteForbidden writes the 403 envelope for role mismatches
func WriteForbidden(w http.ResponseWriter) error {
	return WriteJSON(w, http.StatusForbidden, Result{
		Code: http.StatusForbidden,
		Msg:  "permission denied",
	})
}

// WriteInternalServerError writes a 500 envelope
func WriteInternalServerError(w http.ResponseWriter, msg string) error {
	if msg == "" {
		msg = "internal server error"
	}
	return WriteJSON(w, http.StatusInternalServerError, Result{
		Code: http.StatusInternalServerError,
		Msg:  msg,
	})
}
