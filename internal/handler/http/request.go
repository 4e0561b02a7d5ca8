package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/photo"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

const (
	// maxRequestBodyBytes caps every request body: the largest inline photo
	// plus room for the surrounding JSON or multipart framing.
	maxRequestBodyBytes = photo.MaxEncodedBytes + 1<<20

	// maxMultipartMemory bounds the in-memory part of a photo upload.
	maxMultipartMemory = 8 << 20
)

var (
	errInvalidJSON  = errors.New("invalid request format")
	errBodyTooLarge = errors.New("request body too large")
)

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return bodyError(err)
	}
	return nil
}

func bodyError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return errBodyTooLarge
	}
	return errInvalidJSON
}

// handleDecodeError reports malformed bodies as 400, oversized ones as 413 and
// anything else through the domain error mapping.
func handleDecodeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errInvalidJSON):
		response.BadRequest(w, "Invalid request format", nil)
	case errors.Is(err, errBodyTooLarge):
		response.PayloadTooLarge(w, "Request body exceeds the upload limit")
	default:
		response.HandleError(w, err)
	}
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// decodeWithPhoto reads either a multipart form (JSON in the `data` field,
// image in the `photo` file) or a plain JSON body into dst. The uploaded
// image, if any, is returned separately.
func decodeWithPhoto(r *http.Request, dst interface{}) (*photo.Photo, error) {
	if !isMultipart(r) {
		return nil, decodeJSON(r, dst)
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		return nil, bodyError(err)
	}

	if data := r.FormValue("data"); data != "" {
		if err := json.Unmarshal([]byte(data), dst); err != nil {
			return nil, errInvalidJSON
		}
	}

	file, _, err := r.FormFile("photo")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	p, err := photo.FromReader(file)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func principal(r *http.Request) (user.Principal, error) {
	p, ok := middleware.Principal(r.Context())
	if !ok {
		return user.Principal{}, auth.ErrInvalidToken
	}
	return p, nil
}

// pathID returns the {id} route parameter. Identifiers are UUID columns, so
// anything else is rejected before it reaches the database.
func pathID(r *http.Request) (string, error) {
	id := chi.URLParam(r, "id")
	if errs := validator.ValidateID("id", id); len(errs) > 0 {
		return "", errs
	}
	return id, nil
}

func queryString(r *http.Request, key string) *string {
	if v := r.URL.Query().Get(key); v != "" {
		return &v
	}
	return nil
}

// queryInt returns 0 for missing or malformed values; validation applies defaults.
func queryInt(r *http.Request, key string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return n
}

func queryBool(r *http.Request, key string) *bool {
	b, err := strconv.ParseBool(r.URL.Query().Get(key))
	if err != nil {
		return nil
	}
	return &b
}
