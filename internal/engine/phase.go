package engine

import "time"

type Phase string

const (
	PhaseSetup               Phase = "setup"
	PhaseGmLottery           Phase = "gm_lottery"
	PhasePreDraft            Phase = "pre_draft"
	PhaseDraftLottery        Phase = "draft_lottery"
	PhaseDraft               Phase = "draft"
	PhaseFreeAgencyMoratorium Phase = "fa_moratorium"
	PhaseFreeAgency          Phase = "free_agency"
	PhaseTrainingCamp        Phase = "training_camp"
	PhaseRegularSeason       Phase = "regular_season"
	PhaseTradeDeadline       Phase = "trade_deadline"
	PhasePlayoffs            Phase = "playoffs"
	PhaseOffseason           Phase = "offseason"
)

// PhaseOrder is the season lifecycle. Offseason is terminal for one season
// instance; a new season restarts at Setup.
var PhaseOrder = []Phase{
	PhaseSetup,
	PhaseGmLottery,
	PhasePreDraft,
	PhaseDraftLottery,
	PhaseDraft,
	PhaseFreeAgencyMoratorium,
	PhaseFreeAgency,
	PhaseTrainingCamp,
	PhaseRegularSeason,
	PhaseTradeDeadline,
	PhasePlayoffs,
	PhaseOffseason,
}

// Next returns the following phase, or false from Offseason.
func (p Phase) Next() (Phase, bool) {
	for i, cur := range PhaseOrder {
		if cur == p {
			if i == len(PhaseOrder)-1 {
				return p, false
			}
			return PhaseOrder[i+1], true
		}
	}
	return p, false
}

// AdvancePhase moves the league one step along PhaseOrder.
func AdvancePhase(l *League) (Phase, error) {
	if l.Paused {
		return l.Phase, ErrLeaguePaused
	}
	next, ok := l.Phase.Next()
	if !ok {
		return l.Phase, ErrInvalidState
	}
	l.Phase = next
	return next, nil
}

// Pause blocks phase advancement and time-based transitions. Manual data
// operations (roster imports, trade building) stay allowed.
func Pause(l *League, now time.Time) error {
	if l.Paused {
		return ErrInvalidState
	}
	l.Paused = true
	l.PausedAt = now
	return nil
}

func Resume(l *League) error {
	if !l.Paused {
		return ErrInvalidState
	}
	l.Paused = false
	l.PausedAt = time.Time{}
	return nil
}
