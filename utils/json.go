// utils/json.go
package utils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// ParseJSON decodes a JSON request body into v. An absent or empty body
// is an error: every endpoint taking a body requires one.
func ParseJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return errors.New("request body required")
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body required")
		}
		return err
	}
	return nil
}
