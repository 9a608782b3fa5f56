// Package http provides HTTP handlers for authentication and task CRUD.
package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/atinyakov/TaskKeeper/internal/apperr"
)

// validate is the shared request-body validator.
var validate = validator.New()

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// fail translates err into the uniform error envelope. Failures outside
// the taxonomy are logged with full detail and surfaced as an opaque 500.
func fail(w http.ResponseWriter, log *zap.Logger, err error) {
	e := apperr.From(err)
	if e.Code == apperr.CodeInternal {
		log.Error("unhandled error", zap.Error(err))
	}
	apperr.Write(w, e)
}

// failValidation renders a validator error as a 422 envelope with
// per-field details.
func failValidation(w http.ResponseWriter, err error) {
	details := map[string]string{}
	var fieldErrs validator.ValidationErrors
	if ok := asValidationErrors(err, &fieldErrs); ok {
		for _, fe := range fieldErrs {
			details[fe.Field()] = fe.Tag()
		}
	}
	apperr.Write(w, apperr.Validation("", details))
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	ve, ok := err.(validator.ValidationErrors)
	if ok {
		*target = ve
	}
	return ok
}

// decodeBody parses the JSON request body into dst and validates it.
// Returns false after writing the failure response.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		apperr.Write(w, apperr.Validation("Malformed JSON body", nil))
		return false
	}
	if err := validate.Struct(dst); err != nil {
		failValidation(w, err)
		return false
	}
	return true
}
