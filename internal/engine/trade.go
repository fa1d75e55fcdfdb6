package engine

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// NewProposal opens a draft proposal between two franchises. Nothing in the
// league moves until Execute.
func NewProposal(l *League, franchiseA, franchiseB string, now time.Time) (*TradeProposal, error) {
	if franchiseA == franchiseB {
		return nil, ErrInvalidState
	}
	if l.Franchise(franchiseA) == nil || l.Franchise(franchiseB) == nil {
		return nil, ErrFranchiseNotFound
	}
	p := TradeProposal{
		ID:         uuid.NewString(),
		Status:     StatusDraft,
		FranchiseA: franchiseA,
		FranchiseB: franchiseB,
		PackageA:   TradePackage{Contracts: []Contract{}, Picks: []DraftPick{}},
		PackageB:   TradePackage{Contracts: []Contract{}, Picks: []DraftPick{}},
		CreatedAt:  now,
	}
	l.Proposals = append(l.Proposals, p)
	return &l.Proposals[len(l.Proposals)-1], nil
}

func (l *League) draftProposal(proposalID string) (*TradeProposal, error) {
	p := l.Proposal(proposalID)
	if p == nil {
		return nil, ErrProposalNotFound
	}
	if p.Status != StatusDraft {
		// Proposals are immutable to asset edits once submitted.
		return nil, ErrInvalidState
	}
	return p, nil
}

// AddPlayer copies the named contract from the side's franchise into its
// outgoing package.
func AddPlayer(l *League, proposalID string, side Side, playerID string) error {
	p, err := l.draftProposal(proposalID)
	if err != nil {
		return err
	}
	f := l.Franchise(p.franchise(side))
	c := f.Contract(playerID)
	if c == nil {
		return ErrAssetNotOwned
	}
	pkg := p.pkg(side)
	for _, have := range pkg.Contracts {
		if have.PlayerID == playerID {
			return ErrAssetAlreadyIncluded
		}
	}
	pkg.Contracts = append(pkg.Contracts, *c)
	return nil
}

func AddPick(l *League, proposalID string, side Side, pick DraftPick) error {
	p, err := l.draftProposal(proposalID)
	if err != nil {
		return err
	}
	f := l.Franchise(p.franchise(side))
	if !f.HasPick(pick) {
		return ErrAssetNotOwned
	}
	pkg := p.pkg(side)
	if slices.Contains(pkg.Picks, pick) {
		return ErrAssetAlreadyIncluded
	}
	pkg.Picks = append(pkg.Picks, pick)
	return nil
}

func AddCash(l *League, proposalID string, side Side, amount int64) error {
	p, err := l.draftProposal(proposalID)
	if err != nil {
		return err
	}
	if amount <= 0 {
		return ErrInvalidState
	}
	p.pkg(side).Cash += amount
	return nil
}

func RemoveCash(l *League, proposalID string, side Side, amount int64) error {
	p, err := l.draftProposal(proposalID)
	if err != nil {
		return err
	}
	if amount <= 0 {
		return ErrInvalidState
	}
	pkg := p.pkg(side)
	if amount > pkg.Cash {
		return ErrAssetNotIncluded
	}
	pkg.Cash -= amount
	return nil
}

func RemovePlayer(l *League, proposalID string, side Side, playerID string) error {
	p, err := l.draftProposal(proposalID)
	if err != nil {
		return err
	}
	pkg := p.pkg(side)
	for i, c := range pkg.Contracts {
		if c.PlayerID == playerID {
			pkg.Contracts = slices.Delete(pkg.Contracts, i, i+1)
			return nil
		}
	}
	return ErrAssetNotIncluded
}

func RemovePick(l *League, proposalID string, side Side, pick DraftPick) error {
	p, err := l.draftProposal(proposalID)
	if err != nil {
		return err
	}
	pkg := p.pkg(side)
	idx := slices.Index(pkg.Picks, pick)
	if idx < 0 {
		return ErrAssetNotIncluded
	}
	pkg.Picks = slices.Delete(pkg.Picks, idx, idx+1)
	return nil
}

// Submit validates the draft and moves it to proposed, stamping the expiry
// window. Asset edits are frozen from here on; a counter-offer is a new
// proposal, never an in-place edit.
func Submit(l *League, proposalID string, now time.Time) error {
	p, err := l.draftProposal(proposalID)
	if err != nil {
		return err
	}
	if ok, reasons := Validate(l, p); !ok {
		return &TradeInvalidError{Reasons: reasons}
	}
	p.Status = StatusProposed
	p.ExpiresAt = now.Add(l.Config.ProposalTTL)
	return nil
}

// Counter opens a fresh draft seeded with the original's packages and marks
// the original countered. History is never lost: the original stays in the
// ledger with its terminal-ish status and the link points back at it.
func Counter(l *League, originalID string, now time.Time) (*TradeProposal, error) {
	orig := l.Proposal(originalID)
	if orig == nil {
		return nil, ErrProposalNotFound
	}
	if orig.Status != StatusProposed {
		return nil, ErrInvalidState
	}
	orig.Status = StatusCountered
	orig.ResolvedAt = now
	p := TradeProposal{
		ID:         uuid.NewString(),
		Status:     StatusDraft,
		FranchiseA: orig.FranchiseA,
		FranchiseB: orig.FranchiseB,
		PackageA:   TradePackage{Contracts: slices.Clone(orig.PackageA.Contracts), Picks: slices.Clone(orig.PackageA.Picks), Cash: orig.PackageA.Cash},
		PackageB:   TradePackage{Contracts: slices.Clone(orig.PackageB.Contracts), Picks: slices.Clone(orig.PackageB.Picks), Cash: orig.PackageB.Cash},
		CounterOf:  originalID,
		CreatedAt:  now,
	}
	l.Proposals = append(l.Proposals, p)
	return &l.Proposals[len(l.Proposals)-1], nil
}

// Reject is a pure status transition, no asset movement.
func Reject(l *League, proposalID string, now time.Time) error {
	p := l.Proposal(proposalID)
	if p == nil {
		return ErrProposalNotFound
	}
	if p.Status != StatusProposed {
		return ErrInvalidState
	}
	p.Status = StatusRejected
	p.ResolvedAt = now
	return nil
}

// Cancel withdraws a draft or proposed trade.
func Cancel(l *League, proposalID string, now time.Time) error {
	p := l.Proposal(proposalID)
	if p == nil {
		return ErrProposalNotFound
	}
	if p.Status != StatusDraft && p.Status != StatusProposed {
		return ErrInvalidState
	}
	p.Status = StatusCancelled
	p.ResolvedAt = now
	return nil
}

// ExpireIfPast marks a proposed trade expired once its window has passed.
// Data-driven: the calling layer invokes this lazily or periodically, there
// are no timers inside the engine.
func ExpireIfPast(l *League, proposalID string, now time.Time) (bool, error) {
	p := l.Proposal(proposalID)
	if p == nil {
		return false, ErrProposalNotFound
	}
	if p.Status != StatusProposed || now.Before(p.ExpiresAt) {
		return false, nil
	}
	p.Status = StatusExpired
	p.ResolvedAt = now
	return true, nil
}

// HasOverdue reports whether a sweep would expire anything, without touching
// the league.
func HasOverdue(l *League, now time.Time) bool {
	for i := range l.Proposals {
		p := &l.Proposals[i]
		if p.Status == StatusProposed && !now.Before(p.ExpiresAt) {
			return true
		}
	}
	return false
}

// ExpireOverdue sweeps every proposed trade past its expiry and returns the
// ids that flipped.
func ExpireOverdue(l *League, now time.Time) []string {
	var expired []string
	for i := range l.Proposals {
		p := &l.Proposals[i]
		if p.Status == StatusProposed && !now.Before(p.ExpiresAt) {
			p.Status = StatusExpired
			p.ResolvedAt = now
			expired = append(expired, p.ID)
		}
	}
	return expired
}

// PurgeTerminal drops terminal proposals older than the retention window
// and returns how many were removed.
func PurgeTerminal(l *League, now time.Time) int {
	cutoff := now.Add(-l.Config.ProposalRetention)
	kept := l.Proposals[:0]
	removed := 0
	for _, p := range l.Proposals {
		if p.Status.Terminal() && !p.ResolvedAt.IsZero() && p.ResolvedAt.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, p)
	}
	l.Proposals = kept
	return removed
}
