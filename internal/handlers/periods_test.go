package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/GregMSThompson/finance-tracker/internal/period"
)

func TestResolvePeriodHandler(t *testing.T) {
	deps := newTestDeps()
	deps.Clock = func() time.Time { return testNow }
	routes := NewPeriodHandlers(deps).PeriodRoutes()

	rr := serve(routes, http.MethodGet, "/?month=1&year=2025", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body=%s", rr.Code, rr.Body.String())
	}
	p := decodeData[period.Context](t, rr)
	if p.Month != 1 || p.Year != 2025 || p.PrevMonth != 0 || p.PrevYear != 2024 || p.NextMonth != 2 || !p.Readonly {
		t.Fatalf("unexpected period: %+v", p)
	}

	rr = serve(routes, http.MethodGet, "/", nil)
	p = decodeData[period.Context](t, rr)
	if p.Month != 6 || p.Year != 2025 || p.Readonly || p.MonthName != "Jun" {
		t.Fatalf("unexpected default period: %+v", p)
	}
}
