package utils

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// NewValidator reports fields by their JSON names.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}

		return name
	})

	return v
}

// ParseAndValidate decodes a required JSON body into dest and validates it.
// On failure it has already written the response.
func ParseAndValidate(r *http.Request, w http.ResponseWriter, dest any, validate *validator.Validate) bool {

	if err := DecodeJSONBody(r, dest); err != nil {
		response.Error(w, appErrors.BadRequestError("Invalid request body").WithDetail(err.Error()).WithError(err))
		return false
	}

	return Validate(w, dest, validate)
}

// Validate writes the validation failure response and reports false when
// dest is invalid.
func Validate(w http.ResponseWriter, dest any, validate *validator.Validate) bool {

	err := ValidateStruct(validate, dest)
	if err == nil {
		return true
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		response.ValidationError(w, validationErrs)
		return false
	}

	response.Error(w, appErrors.BadRequestError("Invalid request body").WithError(err))

	return false
}

// ParseID reads a UUID path parameter.
func ParseID(r *http.Request, key string) (uuid.UUID, error) {

	raw := r.PathValue(key)

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, appErrors.BadRequestError(fmt.Sprintf("Invalid %s format", key)).WithError(err)
	}

	return id, nil
}

// ParseInt64 reads a positive integer path parameter.
func ParseInt64(r *http.Request, key string) (int64, error) {

	raw := r.PathValue(key)

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, appErrors.BadRequestError(fmt.Sprintf("Invalid %s format", key))
	}

	return id, nil
}

// QueryInt returns the query parameter as an int, or def when it is missing
// or not a number.
func QueryInt(r *http.Request, key string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return def
	}

	return v
}
