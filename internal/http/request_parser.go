package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"budget/internal/core"
)

const maxBodyBytes = 1 << 20

var errBadRequest = errors.New("bad request")

// parsePeriodQuery reads the period from ?period=YYYY-MM or from
// ?month=&year= labels (month names and numbers are both accepted). It
// returns nil when neither is present.
func parsePeriodQuery(r *http.Request) (*core.PeriodKey, error) {
	q := r.URL.Query()
	if v := strings.TrimSpace(q.Get("period")); v != "" {
		p, err := core.ParsePeriod(v)
		if err != nil {
			return nil, err
		}
		return &p, nil
	}

	month, year := strings.TrimSpace(q.Get("month")), strings.TrimSpace(q.Get("year"))
	if month == "" && year == "" {
		return nil, nil
	}
	p, ok := core.NewPeriodKey(month, year)
	if !ok {
		return nil, fmt.Errorf("%w: month=%q year=%q", core.ErrInvalidPeriod, month, year)
	}
	return &p, nil
}

// decodeJSON reads a single JSON object into dst, rejecting unknown fields
// and trailing data.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", errBadRequest, err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return fmt.Errorf("%w: body must contain a single JSON object", errBadRequest)
	}
	return nil
}

// sanitizeInput trims whitespace and strips control characters other than
// tab and newlines.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, s)
}

func sanitizePtr(s *string) {
	if s != nil {
		*s = sanitizeInput(*s)
	}
}
