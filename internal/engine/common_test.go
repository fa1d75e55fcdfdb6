package engine

import (
	"testing"
	"time"
)

var t0 = time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)

func testConfig(slots int) Config {
	cfg := DefaultConfig()
	cfg.FranchiseSlots = slots
	cfg.SalaryCap = 100_000_000
	cfg.LuxuryTaxLine = 120_000_000
	cfg.FirstApron = 130_000_000
	cfg.SecondApron = 140_000_000
	return cfg
}

func newTestLeague(slots int) *League {
	return NewLeague("lg-test", testConfig(slots), t0)
}

// tradeLeague returns a league in a trade-legal phase with two owned
// franchises seeded with the given payrolls (one contract each).
func tradeLeague(t *testing.T, payrollA, payrollB int64) *League {
	t.Helper()
	l := newTestLeague(2)
	l.Phase = PhaseFreeAgency
	l.Franchises[0].GMID = "gmA"
	l.Franchises[1].GMID = "gmB"
	if payrollA > 0 {
		seedContract(t, l, "F1", Contract{PlayerID: "playerA", Position: "C", Salary: payrollA, YearsRemaining: 2})
	}
	if payrollB > 0 {
		seedContract(t, l, "F2", Contract{PlayerID: "playerB", Position: "PG", Salary: payrollB, YearsRemaining: 3})
	}
	return l
}

func seedContract(t *testing.T, l *League, franchiseID string, c Contract) {
	t.Helper()
	if err := ImportRoster(l, franchiseID, []Contract{c}, nil); err != nil {
		t.Fatalf("seed contract %s on %s: %v", c.PlayerID, franchiseID, err)
	}
}

func seedPick(t *testing.T, l *League, franchiseID string, p DraftPick) {
	t.Helper()
	if err := ImportRoster(l, franchiseID, nil, []DraftPick{p}); err != nil {
		t.Fatalf("seed pick %s on %s: %v", p, franchiseID, err)
	}
}

func hasReason(reasons []Reason, rule string) bool {
	for _, r := range reasons {
		if r.Rule == rule {
			return true
		}
	}
	return false
}
