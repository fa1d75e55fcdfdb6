package engine

type Classification string

const (
	UnderCap    Classification = "under_cap"
	OverCap     Classification = "over_cap"
	LuxuryTax   Classification = "luxury_tax"
	FirstApron  Classification = "first_apron"
	SecondApron Classification = "second_apron"
)

// Tier orders classifications from least to most restricted.
func (c Classification) Tier() int {
	switch c {
	case UnderCap:
		return 0
	case OverCap:
		return 1
	case LuxuryTax:
		return 2
	case FirstApron:
		return 3
	case SecondApron:
		return 4
	}
	return -1
}

// ComputePayroll sums the franchise's contract salaries.
func ComputePayroll(f *Franchise) int64 {
	var total int64
	for _, c := range f.Contracts {
		total += c.Salary
	}
	return total
}

// CapSpace is cap minus payroll; negative means over the cap.
func CapSpace(l *League, f *Franchise) int64 {
	return l.Config.SalaryCap - ComputePayroll(f)
}

// Classify compares a payroll against the configured thresholds, highest
// exceeded threshold wins.
func Classify(cfg Config, payroll int64) Classification {
	switch {
	case payroll > cfg.SecondApron:
		return SecondApron
	case payroll > cfg.FirstApron:
		return FirstApron
	case payroll > cfg.LuxuryTaxLine:
		return LuxuryTax
	case payroll > cfg.SalaryCap:
		return OverCap
	default:
		return UnderCap
	}
}

// ClassifyFranchise is the sole input to trade legality. Always recomputed
// from the live roster, never read from a cached snapshot.
func ClassifyFranchise(l *League, f *Franchise) Classification {
	return Classify(l.Config, ComputePayroll(f))
}

// refreshCap recomputes the cached snapshot after a roster mutation.
func refreshCap(l *League, f *Franchise) {
	payroll := ComputePayroll(f)
	f.Cap = CapSnapshot{
		Payroll:        payroll,
		CapSpace:       l.Config.SalaryCap - payroll,
		Classification: Classify(l.Config, payroll),
	}
}
