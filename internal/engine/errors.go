package engine

import (
	"errors"
	"fmt"
	"strings"
)

var ErrRegistrationClosed = errors.New("registration closed")
var ErrAlreadyRegistered = errors.New("already registered")
var ErrLotteryFull = errors.New("lottery full")
var ErrNotRegistered = errors.New("not registered")
var ErrNoRegistrants = errors.New("no registrants")
var ErrNotYourTurn = errors.New("not your turn")
var ErrFranchiseTaken = errors.New("franchise taken")
var ErrFranchiseNotFound = errors.New("franchise not found")
var ErrProposalNotFound = errors.New("proposal not found")
var ErrAssetNotOwned = errors.New("asset not owned")
var ErrAssetAlreadyIncluded = errors.New("asset already included")
var ErrAssetNotIncluded = errors.New("asset not included")
var ErrTradeInvalid = errors.New("trade invalid")
var ErrLeaguePaused = errors.New("league paused")
var ErrInvalidState = errors.New("invalid state")
var ErrDuplicatePick = errors.New("duplicate pick asset")
var ErrUnsupportedCommand = errors.New("unsupported command")

// Reason is one violated trade rule. Validate returns every violation so
// callers can present a complete diagnosis instead of trial-and-error.
type Reason struct {
	Rule   string `json:"rule"`
	Detail string `json:"detail"`
}

const (
	RuleOwnership      = "ownership"
	RuleNonEmpty       = "non-empty"
	RuleSalaryMatching = "salary-matching"
	RulePhase          = "phase"
	RuleRosterSize     = "roster-size"
	RuleNoTrade        = "no-trade"
)

type TradeInvalidError struct {
	Reasons []Reason
}

func (e *TradeInvalidError) Error() string {
	parts := make([]string, len(e.Reasons))
	for i, r := range e.Reasons {
		parts[i] = fmt.Sprintf("%s: %s", r.Rule, r.Detail)
	}
	return "trade invalid: " + strings.Join(parts, "; ")
}

func (e *TradeInvalidError) Unwrap() error { return ErrTradeInvalid }
