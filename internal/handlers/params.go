package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/GregMSThompson/finance-tracker/internal/errs"
)

// monthYear reads the optional month and year query parameters.
func monthYear(r *http.Request) (*int, *int, error) {
	month, err := optionalInt(r, "month")
	if err != nil {
		return nil, nil, err
	}
	year, err := optionalInt(r, "year")
	if err != nil {
		return nil, nil, err
	}
	return month, year, nil
}

func optionalInt(r *http.Request, key string) (*int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, errs.NewValidationError(key + " must be an integer")
	}
	return &v, nil
}

func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errs.NewValidationError("invalid request body")
	}
	return nil
}
