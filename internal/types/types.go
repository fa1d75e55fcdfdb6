package types

import (
	"time"

	"github.com/hoopdesk/gm-league-backend/internal/engine"
)

// CreateLeagueRequest configures a new league. Zero-valued fields fall back
// to engine.DefaultConfig.
type CreateLeagueRequest struct {
	FranchiseSlots int      `json:"franchise_slots,omitempty"`
	SalaryCap      int64    `json:"salary_cap,omitempty"`
	LuxuryTaxLine  int64    `json:"luxury_tax_line,omitempty"`
	FirstApron     int64    `json:"first_apron,omitempty"`
	SecondApron    int64    `json:"second_apron,omitempty"`
	RosterMin      int      `json:"roster_min,omitempty"`
	RosterMax      int      `json:"roster_max,omitempty"`
	FranchiseNames []string `json:"franchise_names,omitempty"`
}

func (r CreateLeagueRequest) Config() engine.Config {
	cfg := engine.DefaultConfig()
	if r.FranchiseSlots > 0 {
		cfg.FranchiseSlots = r.FranchiseSlots
	}
	if r.SalaryCap > 0 {
		cfg.SalaryCap = r.SalaryCap
	}
	if r.LuxuryTaxLine > 0 {
		cfg.LuxuryTaxLine = r.LuxuryTaxLine
	}
	if r.FirstApron > 0 {
		cfg.FirstApron = r.FirstApron
	}
	if r.SecondApron > 0 {
		cfg.SecondApron = r.SecondApron
	}
	if r.RosterMin > 0 {
		cfg.RosterMin = r.RosterMin
	}
	if r.RosterMax > 0 {
		cfg.RosterMax = r.RosterMax
	}
	if len(r.FranchiseNames) > 0 {
		cfg.FranchiseNames = r.FranchiseNames
	}
	return cfg
}

type ClaimRequest struct {
	FranchiseID string `json:"franchise_id"`
}

type AssignRequest struct {
	ParticipantID string `json:"participant_id"`
}

type ImportRequest struct {
	Contracts []engine.Contract  `json:"contracts,omitempty"`
	Picks     []engine.DraftPick `json:"picks,omitempty"`
}

type NewProposalRequest struct {
	FranchiseA string `json:"franchise_a"`
	FranchiseB string `json:"franchise_b"`
}

// AssetEditRequest is one builder mutation on a draft proposal.
// Action is "add" or "remove"; exactly one of PlayerID, Pick, Cash is set.
type AssetEditRequest struct {
	Action   string            `json:"action"`
	Side     engine.Side       `json:"side"`
	PlayerID string            `json:"player_id,omitempty"`
	Pick     *engine.DraftPick `json:"pick,omitempty"`
	Cash     int64             `json:"cash,omitempty"`
}

// Command translates the edit into an engine command, or false when the
// shape is unrecognized.
func (r AssetEditRequest) Command(proposalID string, now time.Time) (engine.Command, bool) {
	if r.Side != engine.SideA && r.Side != engine.SideB {
		return engine.Command{}, false
	}
	cmd := engine.Command{
		ProposalID: proposalID,
		Side:       r.Side,
		PlayerID:   r.PlayerID,
		Pick:       r.Pick,
		Cash:       r.Cash,
		Now:        now,
	}
	switch {
	case r.Action == "add" && r.PlayerID != "":
		cmd.Type = engine.CmdAddPlayer
	case r.Action == "add" && r.Pick != nil:
		cmd.Type = engine.CmdAddPick
	case r.Action == "add" && r.Cash > 0:
		cmd.Type = engine.CmdAddCash
	case r.Action == "remove" && r.PlayerID != "":
		cmd.Type = engine.CmdRemovePlayer
	case r.Action == "remove" && r.Pick != nil:
		cmd.Type = engine.CmdRemovePick
	case r.Action == "remove" && r.Cash > 0:
		cmd.Type = engine.CmdRemoveCash
	default:
		return engine.Command{}, false
	}
	return cmd, true
}

// ValidateResponse carries the full diagnosis, not just the first failure.
type ValidateResponse struct {
	OK      bool            `json:"ok"`
	Reasons []engine.Reason `json:"reasons,omitempty"`
}

type CommandResponse struct {
	League *engine.League `json:"league,omitempty"`
	Events []EventView    `json:"events,omitempty"`
}

type EventView struct {
	Type       string   `json:"type"`
	Phase      string   `json:"phase,omitempty"`
	ProposalID string   `json:"proposal_id,omitempty"`
	Order      []string `json:"order,omitempty"`
	Count      int      `json:"count,omitempty"`
}

func Events(events []engine.Event) []EventView {
	out := make([]EventView, len(events))
	for i, e := range events {
		out[i] = EventView{
			Type:       string(e.Type),
			Phase:      string(e.Phase),
			ProposalID: e.ProposalID,
			Order:      e.Order,
			Count:      e.Count,
		}
	}
	return out
}
