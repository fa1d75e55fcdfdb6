package engine

import (
	"slices"
	"time"
)

// Execute commits a proposed trade. Validation runs again right here so a
// concurrently committed trade can never move an asset twice; after it
// passes, nothing below can fail, which is what makes the swap all-or-nothing
// over the snapshot.
func Execute(l *League, proposalID string, now time.Time) error {
	p := l.Proposal(proposalID)
	if p == nil {
		return ErrProposalNotFound
	}
	if p.Status != StatusProposed {
		return ErrInvalidState
	}
	if !p.ExpiresAt.IsZero() && !now.Before(p.ExpiresAt) {
		// Overdue. The sweep marks it expired; this call just refuses.
		return ErrInvalidState
	}
	if ok, reasons := Validate(l, p); !ok {
		return &TradeInvalidError{Reasons: reasons}
	}

	fa := l.Franchise(p.FranchiseA)
	fb := l.Franchise(p.FranchiseB)
	moveAssets(fa, fb, p.PackageA)
	moveAssets(fb, fa, p.PackageB)
	refreshCap(l, fa)
	refreshCap(l, fb)

	p.Status = StatusAccepted
	p.ResolvedAt = now
	return nil
}

// moveAssets transfers one side's outgoing package from sender to receiver.
// Pick assets keep their original franchise id; only the holder changes.
func moveAssets(from, to *Franchise, out TradePackage) {
	for _, c := range out.Contracts {
		for i := range from.Contracts {
			if from.Contracts[i].PlayerID == c.PlayerID {
				from.Contracts = slices.Delete(from.Contracts, i, i+1)
				break
			}
		}
		to.Contracts = append(to.Contracts, c)
	}
	for _, pick := range out.Picks {
		idx := slices.Index(from.Picks, pick)
		if idx >= 0 {
			from.Picks = slices.Delete(from.Picks, idx, idx+1)
		}
		to.Picks = append(to.Picks, pick)
	}
	from.Cash -= out.Cash
	to.Cash += out.Cash
}

// ImportRoster seeds contracts and pick assets onto a franchise from the
// data-import feed. Allowed while paused; it is a manual data operation.
// Duplicate players on the franchise or duplicate pick triples anywhere in
// the league are rejected before anything is applied.
func ImportRoster(l *League, franchiseID string, contracts []Contract, picks []DraftPick) error {
	f := l.Franchise(franchiseID)
	if f == nil {
		return ErrFranchiseNotFound
	}
	seenPlayers := map[string]bool{}
	for _, c := range contracts {
		if f.Contract(c.PlayerID) != nil || seenPlayers[c.PlayerID] {
			return ErrAssetAlreadyIncluded
		}
		seenPlayers[c.PlayerID] = true
	}
	seenPicks := map[DraftPick]bool{}
	for _, p := range picks {
		if l.PickHeldAnywhere(p) || seenPicks[p] {
			return ErrDuplicatePick
		}
		seenPicks[p] = true
	}
	f.Contracts = append(f.Contracts, contracts...)
	f.Picks = append(f.Picks, picks...)
	refreshCap(l, f)
	return nil
}
