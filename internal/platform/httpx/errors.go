// Package httpx provides HTTP response utilities.
package httpx

import (
	"errors"
	"net/http"
)

// ErrorStatus maps a sentinel error to a problem response.
type ErrorStatus struct {
	Err    error
	Status int
	Title  string
}

// RespondError writes the first matching mapping as an RFC7807 problem, or
// a bare 500 when nothing matches. Details of unmapped errors are not exposed.
func RespondError(w http.ResponseWriter, err error, mappings ...ErrorStatus) {
	for _, m := range mappings {
		if errors.Is(err, m.Err) {
			Problem(w, m.Status, m.Title, err.Error())
			return
		}
	}
	Problem(w, http.StatusInternalServerError, "Server Error", "")
}
