package validators

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/angelmondragon/gradevault-backend/pkg/errors"
)

// MaxBodyBytes bounds any JSON request body.
const MaxBodyBytes = 8 << 20

var validate = func() *validator.Validate {
	v := validator.New()
	// Report json names so details line up with what the client sent.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		switch name {
		case "":
			return f.Name
		case "-":
			return ""
		}
		return name
	})
	return v
}()

// tagMessages maps validator tags to client text; %s receives the tag param.
var tagMessages = map[string]string{
	"required": "is required",
	"min":      "must be at least %s",
	"max":      "must be at most %s",
	"gte":      "must be greater than or equal to %s",
	"gt":       "must be greater than %s",
	"oneof":    "must be one of [%s]",
	"url":      "must be a valid URL",
	"email":    "must be a valid email",
	"uuid":     "must be a valid UUID",
}

// DecodeJSONBody reads exactly one JSON object into dest and runs struct
// validation on it. Unknown fields and trailing content are rejected.
func DecodeJSONBody(r *http.Request, dest any) error {
	dec, done := bodyDecoder(r)
	defer done()
	dec.DisallowUnknownFields()
	if err := decodeOne(dec, dest); err != nil {
		return badBody(err, "invalid request body")
	}
	if err := validate.Struct(dest); err != nil {
		return fieldErrors(err)
	}
	return nil
}

// DecodeJSONRows decodes a JSON array of loosely typed objects. Numbers are
// kept as json.Number so callers control coercion.
func DecodeJSONRows(r *http.Request) ([]map[string]any, error) {
	dec, done := bodyDecoder(r)
	defer done()
	dec.UseNumber()
	var rows []map[string]any
	if err := decodeOne(dec, &rows); err != nil {
		return nil, badBody(err, "request body must be a JSON array of objects")
	}
	return rows, nil
}

func bodyDecoder(r *http.Request) (*json.Decoder, func()) {
	body := io.LimitReader(r.Body, MaxBodyBytes)
	return json.NewDecoder(body), func() { _, _ = io.Copy(io.Discard, body) }
}

func decodeOne(dec *json.Decoder, dest any) error {
	if err := dec.Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("body is empty")
		}
		return err
	}
	if dec.More() {
		return errors.New("body must contain a single JSON value")
	}
	return nil
}

func badBody(err error, msg string) error {
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, msg).WithDetails(map[string]any{"error": err.Error()})
}

func fieldErrors(err error) error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
	}
	details := make(map[string]string, len(errs))
	for _, fe := range errs {
		details[fe.Field()] = fieldMessage(fe)
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
}

func fieldMessage(fe validator.FieldError) string {
	msg, ok := tagMessages[fe.Tag()]
	if !ok {
		return "is invalid"
	}
	if strings.Contains(msg, "%s") {
		return fmt.Sprintf(msg, fe.Param())
	}
	return msg
}
