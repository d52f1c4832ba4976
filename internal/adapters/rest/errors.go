package rest

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/matchforge/sportadmin/internal/domain"
)

// errorBody covers the two shapes the backend emits for failures: a
// wrapped form {"detail": ..., "errors": {...}} and the bare DRF form where
// field names sit at the top level.
type errorBody struct {
	Detail  string              `json:"detail"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

func networkError(cause error) *domain.APIError {
	return domain.NewAPIError(0, "Network unreachable. Please check your connection.", domain.ErrNetwork, cause)
}

// normalizeError maps a non-2xx response onto the uniform error shape.
// Status decides the sentinel and the human-readable message; field-level
// validation detail is flattened into the message so callers can render it
// as-is.
func normalizeError(statusCode int, raw []byte) *domain.APIError {
	body := parseErrorBody(raw)

	var (
		kind    error
		message string
	)
	switch statusCode {
	case http.StatusBadRequest:
		kind = domain.ErrValidation
		message = "Bad request. Please check your input."
		if flat := domain.FlattenFields(body.Errors); flat != "" {
			message = flat
		}
	case http.StatusUnauthorized:
		kind = domain.ErrUnauthorized
		message = "Unauthorized. Please login again."
	case http.StatusForbidden:
		kind = domain.ErrForbidden
		message = "You do not have permission to perform this action."
	case http.StatusNotFound:
		kind = domain.ErrNotFound
		message = "Resource not found."
	case http.StatusConflict:
		kind = domain.ErrConflict
		message = "Conflict. The resource is referenced or already exists."
		if body.Detail != "" {
			message = body.Detail
		}
	case http.StatusInternalServerError:
		kind = domain.ErrServer
		message = "Internal server error. Please try again later."
	default:
		if statusCode >= 500 {
			kind = domain.ErrServer
		} else {
			kind = domain.ErrValidation
		}
		switch {
		case body.Detail != "":
			message = body.Detail
		case body.Message != "":
			message = body.Message
		default:
			message = "Request failed."
		}
	}

	apiErr := domain.NewAPIError(statusCode, message, kind, nil)
	apiErr.Fields = body.Errors
	return apiErr
}

func parseErrorBody(raw []byte) errorBody {
	var body errorBody
	if len(raw) == 0 {
		return body
	}
	if err := json.Unmarshal(raw, &body); err == nil && (body.Detail != "" || body.Message != "" || len(body.Errors) > 0) {
		return body
	}

	// Bare DRF form: {"name": ["too short"], "detail": "..."} with field
	// names at the top level. Values may be a list or a single string.
	var loose map[string]any
	if err := json.Unmarshal(raw, &loose); err != nil {
		return body
	}
	fields := make(map[string][]string)
	for name, v := range loose {
		if name == "detail" || name == "message" {
			continue
		}
		switch val := v.(type) {
		case string:
			fields[name] = []string{val}
		case []any:
			msgs := make([]string, 0, len(val))
			for _, item := range val {
				if s, ok := item.(string); ok {
					msgs = append(msgs, s)
				}
			}
			if len(msgs) > 0 {
				fields[name] = msgs
			}
		}
	}
	if len(fields) > 0 {
		body.Errors = fields
	}
	if d, ok := loose["detail"].(string); ok {
		body.Detail = strings.TrimSpace(d)
	}
	return body
}
