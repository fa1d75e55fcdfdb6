package engine

import "time"

type CommandType string

const (
	CmdAdvancePhase    CommandType = "AdvancePhase"
	CmdPause           CommandType = "Pause"
	CmdResume          CommandType = "Resume"
	CmdRegister        CommandType = "Register"
	CmdUnregister      CommandType = "Unregister"
	CmdDraw            CommandType = "Draw"
	CmdClaimFranchise  CommandType = "ClaimFranchise"
	CmdAssignFranchise CommandType = "AssignFranchise"
	CmdImportRoster    CommandType = "ImportRoster"
	CmdNewProposal     CommandType = "NewProposal"
	CmdAddPlayer       CommandType = "AddPlayer"
	CmdAddPick         CommandType = "AddPick"
	CmdAddCash         CommandType = "AddCash"
	CmdRemovePlayer    CommandType = "RemovePlayer"
	CmdRemovePick      CommandType = "RemovePick"
	CmdRemoveCash      CommandType = "RemoveCash"
	CmdSubmit          CommandType = "Submit"
	CmdCounter         CommandType = "Counter"
	CmdExecute         CommandType = "Execute"
	CmdReject          CommandType = "Reject"
	CmdCancel          CommandType = "Cancel"
	CmdExpireOverdue   CommandType = "ExpireOverdue"
	CmdPurgeTerminal   CommandType = "PurgeTerminal"
)

// Command is one engine operation. The calling layer fills only the fields
// its type needs and supplies Now; the engine itself never reads the clock.
type Command struct {
	Type CommandType

	ParticipantID string
	FranchiseID   string
	FranchiseA    string
	FranchiseB    string
	ProposalID    string
	Side          Side
	PlayerID      string
	Pick          *DraftPick
	Cash          int64
	Contracts     []Contract
	Picks         []DraftPick
	Now           time.Time
}

type EventType string

const (
	EvtPhaseAdvanced     EventType = "PhaseAdvanced"
	EvtLeaguePaused      EventType = "LeaguePaused"
	EvtLeagueResumed     EventType = "LeagueResumed"
	EvtRegistered        EventType = "Registered"
	EvtUnregistered      EventType = "Unregistered"
	EvtLotteryDrawn      EventType = "LotteryDrawn"
	EvtFranchiseClaimed  EventType = "FranchiseClaimed"
	EvtFranchiseAssigned EventType = "FranchiseAssigned"
	EvtRosterImported    EventType = "RosterImported"
	EvtProposalCreated   EventType = "ProposalCreated"
	EvtProposalUpdated   EventType = "ProposalUpdated"
	EvtProposalSubmitted EventType = "ProposalSubmitted"
	EvtTradeExecuted     EventType = "TradeExecuted"
	EvtProposalRejected  EventType = "ProposalRejected"
	EvtProposalCancelled EventType = "ProposalCancelled"
	EvtProposalsExpired  EventType = "ProposalsExpired"
	EvtProposalsPurged   EventType = "ProposalsPurged"
)

type Event struct {
	Type          EventType
	Phase         Phase
	ParticipantID string
	FranchiseID   string
	ProposalID    string
	Order         []string
	Count         int
}

// Apply dispatches one command against the snapshot. On success the version
// and updated-timestamp are bumped; on error the league is untouched.
func Apply(l *League, cmd Command) ([]Event, error) {
	events, err := dispatch(l, cmd)
	if err != nil {
		return nil, err
	}
	l.Version++
	l.UpdatedAt = cmd.Now
	return events, nil
}

func dispatch(l *League, cmd Command) ([]Event, error) {
	switch cmd.Type {
	case CmdAdvancePhase:
		phase, err := AdvancePhase(l)
		if err != nil {
			return nil, err
		}
		return []Event{{Type: EvtPhaseAdvanced, Phase: phase}}, nil

	case CmdPause:
		if err := Pause(l, cmd.Now); err != nil {
			return nil, err
		}
		return []Event{{Type: EvtLeaguePaused}}, nil

	case CmdResume:
		if err := Resume(l); err != nil {
			return nil, err
		}
		return []Event{{Type: EvtLeagueResumed}}, nil

	case CmdRegister:
		count, err := Register(l, cmd.ParticipantID)
		if err != nil {
			return nil, err
		}
		return []Event{{Type: EvtRegistered, ParticipantID: cmd.ParticipantID, Count: count}}, nil

	case CmdUnregister:
		if err := Unregister(l, cmd.ParticipantID); err != nil {
			return nil, err
		}
		return []Event{{Type: EvtUnregistered, ParticipantID: cmd.ParticipantID}}, nil

	case CmdDraw:
		order, err := Draw(l)
		if err != nil {
			return nil, err
		}
		return []Event{{Type: EvtLotteryDrawn, Order: order}}, nil

	case CmdClaimFranchise:
		if err := ClaimFranchise(l, cmd.ParticipantID, cmd.FranchiseID); err != nil {
			return nil, err
		}
		return []Event{{Type: EvtFranchiseClaimed, ParticipantID: cmd.ParticipantID, FranchiseID: cmd.FranchiseID}}, nil

	case CmdAssignFranchise:
		if err := AssignFranchise(l, cmd.ParticipantID, cmd.FranchiseID); err != nil {
			return nil, err
		}
		return []Event{{Type: EvtFranchiseAssigned, ParticipantID: cmd.ParticipantID, FranchiseID: cmd.FranchiseID}}, nil

	case CmdImportRoster:
		if err := ImportRoster(l, cmd.FranchiseID, cmd.Contracts, cmd.Picks); err != nil {
			return nil, err
		}
		return []Event{{Type: EvtRosterImported, FranchiseID: cmd.FranchiseID, Count: len(cmd.Contracts) + len(cmd.Picks)}}, nil

	case CmdNewProposal:
		p, err := NewProposal(l, cmd.FranchiseA, cmd.FranchiseB, cmd.Now)
		if err != nil {
			return nil, err
		}
		return []Event{{Type: EvtProposalCreated, ProposalID: p.ID}}, nil

	case CmdAddPlayer:
		if err := AddPlayer(l, cmd.ProposalID, cmd.Side, cmd.PlayerID); err != nil {
			return nil, err
		}
		return []Event{{Type: EvtProposalUpdated, ProposalID: cmd.ProposalID}}, nil

	case CmdAddPick:
		if cmd.Pick == nil {
			return nil, ErrAssetNotOwned
		}
		if err := AddPick(l, cmd.ProposalID, cmd.Side, *cmd.Pick); err != nil {
			return nil, err
		}
		return []Event{{Type: EvtProposalUpdated, ProposalID: cmd.ProposalID}}, nil

	case CmdAddCash:
		if err := AddCash(l, cmd.ProposalID, cmd.Side, cmd.Cash); err != nil {
			return nil, err
		}
		return []Event{{Type: EvtProposalUpdated, ProposalID: cmd.ProposalID}}, nil

	case CmdRemovePlayer:
		if err := RemovePlayer(l, cmd.ProposalID, cmd.Side, cmd.PlayerID); err != nil {
			return nil, err
		}
		return []Event{{Type: EvtProposalUpdated, ProposalID: cmd.ProposalID}}, nil

	case CmdRemovePick:
		if cmd.Pick == nil {
			return nil, ErrAssetNotIncluded
		}
		if err := RemovePick(l, cmd.ProposalID, cmd.Side, *cmd.Pick); err != nil {
			return nil, err
		}
		return []Event{{Type: EvtProposalUpdated, ProposalID: cmd.ProposalID}}, nil

	case CmdRemoveCash:
		if err := RemoveCash(l, cmd.ProposalID, cmd.Side, cmd.Cash); err != nil {
			return nil, err
		}
		return []Event{{Type: EvtProposalUpdated, ProposalID: cmd.ProposalID}}, nil

	case CmdSubmit:
		if err := Submit(l, cmd.ProposalID, cmd.Now); err != nil {
			return nil, err
		}
		return []Event{{Type: EvtProposalSubmitted, ProposalID: cmd.ProposalID}}, nil

	case CmdCounter:
		p, err := Counter(l, cmd.ProposalID, cmd.Now)
		if err != nil {
			return nil, err
		}
		return []Event{{Type: EvtProposalCreated, ProposalID: p.ID}}, nil

	case CmdExecute:
		if err := Execute(l, cmd.ProposalID, cmd.Now); err != nil {
			return nil, err
		}
		return []Event{{Type: EvtTradeExecuted, ProposalID: cmd.ProposalID}}, nil

	case CmdReject:
		if err := Reject(l, cmd.ProposalID, cmd.Now); err != nil {
			return nil, err
		}
		return []Event{{Type: EvtProposalRejected, ProposalID: cmd.ProposalID}}, nil

	case CmdCancel:
		if err := Cancel(l, cmd.ProposalID, cmd.Now); err != nil {
			return nil, err
		}
		return []Event{{Type: EvtProposalCancelled, ProposalID: cmd.ProposalID}}, nil

	case CmdExpireOverdue:
		expired := ExpireOverdue(l, cmd.Now)
		return []Event{{Type: EvtProposalsExpired, Count: len(expired)}}, nil

	case CmdPurgeTerminal:
		removed := PurgeTerminal(l, cmd.Now)
		return []Event{{Type: EvtProposalsPurged, Count: removed}}, nil

	default:
		return nil, ErrUnsupportedCommand
	}
}

// ContainsEvent reports whether an event of the given type was emitted.
func ContainsEvent(events []Event, eventType EventType) bool {
	for _, event := range events {
		if event.Type == eventType {
			return true
		}
	}
	return false
}
