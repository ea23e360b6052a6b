package api

import (
	"encoding/json/v2"
	"strings"

	"github.com/linkshelf/linkshelf/internal/errors"
)

// ErrorResponse is the body the API returns for rejected requests.
// Message is either a string or a list of strings (one per failed field).
type ErrorResponse struct {
	Message    Messages `json:"message"`
	StatusCode int      `json:"statusCode"`
	Error      string   `json:"error"`
}

// Messages holds the server-supplied message lines.
type Messages []string

// UnmarshalJSON accepts both a single string and an array of strings.
func (m *Messages) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*m = Messages{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*m = many
	return nil
}

// String joins the lines with "; ", dropping blanks.
func (m Messages) String() string {
	parts := make([]string, 0, len(m))
	for _, s := range m {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "; ")
}

// parseErrorResponse maps a rejected response to a typed error. A body that
// does not follow the error shape yields an error without a displayable message.
func parseErrorResponse(status int, body []byte) error {
	var payload ErrorResponse
	if len(body) > 0 {
		if err := json.Unmarshal(body, &payload); err != nil {
			return errors.FromResponse(status, "")
		}
	}
	e := errors.FromResponse(status, payload.Message.String())
	if payload.Error != "" {
		e = e.WithDetails(map[string]string{"error": payload.Error})
	}
	return e
}
