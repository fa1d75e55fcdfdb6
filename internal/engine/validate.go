package engine

import "fmt"

// Validate is the stateless legality check. It runs before Submit and again,
// mandatorily, inside Execute: ownership can go stale if another trade
// committed in between. Every violated rule is reported, not just the first.
func Validate(l *League, p *TradeProposal) (bool, []Reason) {
	var reasons []Reason

	fa := l.Franchise(p.FranchiseA)
	fb := l.Franchise(p.FranchiseB)
	if fa == nil || fb == nil {
		return false, []Reason{{Rule: RuleOwnership, Detail: "participating franchise missing"}}
	}

	if p.PackageA.Empty() && p.PackageB.Empty() {
		reasons = append(reasons, Reason{Rule: RuleNonEmpty, Detail: "no assets on either side"})
	}

	reasons = append(reasons, ownershipReasons(fa, p.PackageA)...)
	reasons = append(reasons, ownershipReasons(fb, p.PackageB)...)

	reasons = append(reasons, salaryMatchReasons(l, fa, p.PackageA, p.PackageB)...)
	reasons = append(reasons, salaryMatchReasons(l, fb, p.PackageB, p.PackageA)...)

	if !l.Config.TradingAllowed(l.Phase) {
		reasons = append(reasons, Reason{
			Rule:   RulePhase,
			Detail: fmt.Sprintf("trading not permitted during %s", l.Phase),
		})
	}

	reasons = append(reasons, rosterReasons(l, fa, p.PackageA, p.PackageB)...)
	reasons = append(reasons, rosterReasons(l, fb, p.PackageB, p.PackageA)...)

	return len(reasons) == 0, reasons
}

func ownershipReasons(f *Franchise, out TradePackage) []Reason {
	var reasons []Reason
	for _, c := range out.Contracts {
		held := f.Contract(c.PlayerID)
		if held == nil {
			reasons = append(reasons, Reason{
				Rule:   RuleOwnership,
				Detail: fmt.Sprintf("%s does not hold player %s", f.ID, c.PlayerID),
			})
			continue
		}
		if held.NoTrade {
			reasons = append(reasons, Reason{
				Rule:   RuleNoTrade,
				Detail: fmt.Sprintf("player %s has a no-trade clause", c.PlayerID),
			})
		}
	}
	for _, pick := range out.Picks {
		if !f.HasPick(pick) {
			reasons = append(reasons, Reason{
				Rule:   RuleOwnership,
				Detail: fmt.Sprintf("%s does not hold pick %s", f.ID, pick),
			})
		}
	}
	return reasons
}

// salaryMatchReasons applies the CBA band for one side, using that side's own
// classification. Under the cap, room absorbs the trade; over it, incoming is
// capped at 125% of outgoing plus $100k. Each side is evaluated independently.
func salaryMatchReasons(l *League, f *Franchise, out, in TradePackage) []Reason {
	outgoing := out.SalaryOut()
	incoming := in.SalaryOut()
	if incoming == 0 {
		return nil
	}
	var limit int64
	switch ClassifyFranchise(l, f) {
	case UnderCap:
		limit = CapSpace(l, f) + outgoing
	default:
		limit = outgoing*125/100 + 100_000
	}
	if incoming > limit {
		return []Reason{{
			Rule:   RuleSalaryMatching,
			Detail: fmt.Sprintf("%s takes back %d, limit %d", f.ID, incoming, limit),
		}}
	}
	return nil
}

func rosterReasons(l *League, f *Franchise, out, in TradePackage) []Reason {
	size := len(f.Contracts) - len(out.Contracts) + len(in.Contracts)
	if size < l.Config.RosterMin || size > l.Config.RosterMax {
		return []Reason{{
			Rule:   RuleRosterSize,
			Detail: fmt.Sprintf("%s would carry %d players, bounds %d-%d", f.ID, size, l.Config.RosterMin, l.Config.RosterMax),
		}}
	}
	return nil
}
