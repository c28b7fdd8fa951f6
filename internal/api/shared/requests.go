package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Global validator instance for reuse
var validate = newValidator()

// newValidator reports fields by their JSON name.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// maxBodyBytes caps request bodies; every form in the service is tiny.
const maxBodyBytes = 64 << 10

// ErrUnsupportedMediaType is returned for bodies that are neither JSON nor form data.
var ErrUnsupportedMediaType = errors.New("unsupported content type")

// FormDecoder is implemented by requests that can be filled from form values.
type FormDecoder interface {
	DecodeForm(values url.Values) error
}

// DecodeJSON decodes the request body into the given struct.
func DecodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return err
	}
	return nil
}

// DecodeRequest fills v from a JSON body or from url-encoded/multipart form data.
// Form decoding requires v to implement FormDecoder.
func DecodeRequest(w http.ResponseWriter, r *http.Request, v interface{}) error {
	if r.Body != nil {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	}

	mediaType := ""
	if ct := r.Header.Get("Content-Type"); ct != "" {
		parsed, _, err := mime.ParseMediaType(ct)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUnsupportedMediaType, err)
		}
		mediaType = parsed
	}

	switch mediaType {
	case "application/json":
		return DecodeJSON(r, v)
	case "", "application/x-www-form-urlencoded", "multipart/form-data":
		fd, ok := v.(FormDecoder)
		if !ok {
			return fmt.Errorf("%w: %T cannot be decoded from a form", ErrUnsupportedMediaType, v)
		}
		if mediaType == "multipart/form-data" {
			if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
				return err
			}
		} else if err := r.ParseForm(); err != nil {
			return err
		}
		return fd.DecodeForm(r.PostForm)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedMediaType, mediaType)
	}
}

// ValidateRequest validates the given struct using the validator package.
func ValidateRequest(v interface{}) error {
	return validate.Struct(v)
}
