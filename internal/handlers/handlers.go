// Package handlers contains the HTTP handlers for the FreelancerCMS API.
// Every handler follows the same shape: the router's gate has already
// authorized the role, so handlers validate input, run the store operation
// and serialize the result. Store failures become a generic 500; no internal
// detail leaks to the client.
package handlers

import (
	"net/http"
	"strconv"
	"strings"
)

// parseID reads the {id} path value as a positive integer. A malformed id is
// a 400 for the caller, distinct from a 404 for a well-formed id that matches
// nothing.
func parseID(r *http.Request) (uint, bool) {
	raw := strings.TrimSpace(r.PathValue("id"))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func isDuplicateErr(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique")
}
