package engine

import (
	"fmt"
	"slices"
	"time"
)

// Config carries the per-league rule constants. Thresholds are dollars and
// must satisfy SalaryCap < LuxuryTaxLine < FirstApron < SecondApron.
type Config struct {
	SalaryCap     int64 `json:"salary_cap"`
	LuxuryTaxLine int64 `json:"luxury_tax_line"`
	FirstApron    int64 `json:"first_apron"`
	SecondApron   int64 `json:"second_apron"`

	FranchiseSlots int `json:"franchise_slots"`
	RosterMin      int `json:"roster_min"`
	RosterMax      int `json:"roster_max"`

	// Phases in which trade execution is blocked. The predicate lives in
	// TradingAllowed so the rule has exactly one home.
	TradesBlockedIn []Phase `json:"trades_blocked_in"`

	ProposalTTL       time.Duration `json:"proposal_ttl"`
	ProposalRetention time.Duration `json:"proposal_retention"`

	// Optional display names, one per slot. Missing entries fall back to
	// "Franchise N".
	FranchiseNames []string `json:"franchise_names,omitempty"`
}

func DefaultConfig() Config {
	return Config{
		SalaryCap:       140_000_000,
		LuxuryTaxLine:   170_000_000,
		FirstApron:      178_000_000,
		SecondApron:     189_000_000,
		FranchiseSlots:  30,
		RosterMin:       0,
		RosterMax:       15,
		TradesBlockedIn: []Phase{PhaseGmLottery, PhaseDraft},
		ProposalTTL:     24 * time.Hour,
		ProposalRetention: 30 * 24 * time.Hour,
	}
}

// TradingAllowed reports whether trades may be executed in the given phase.
func (c Config) TradingAllowed(p Phase) bool {
	return !slices.Contains(c.TradesBlockedIn, p)
}

type Contract struct {
	PlayerID          string `json:"player_id"`
	Position          string `json:"position"`
	Salary            int64  `json:"salary"`
	YearsRemaining    int    `json:"years_remaining"`
	NoTrade           bool   `json:"no_trade,omitempty"`
	ExtensionEligible bool   `json:"extension_eligible,omitempty"`
}

// DraftPick is a tradable future selection. The triple (Year, Round,
// OriginalFranchiseID) identifies it forever; only the holder changes.
type DraftPick struct {
	Year                int    `json:"year"`
	Round               int    `json:"round"`
	OriginalFranchiseID string `json:"original_franchise_id"`
}

func (p DraftPick) String() string {
	return fmt.Sprintf("%d R%d (%s)", p.Year, p.Round, p.OriginalFranchiseID)
}

// CapSnapshot is derived state. It is recomputed on every roster mutation
// and must never be trusted across one.
type CapSnapshot struct {
	Payroll        int64          `json:"payroll"`
	CapSpace       int64          `json:"cap_space"`
	Classification Classification `json:"classification"`
}

type Franchise struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	GMID      string      `json:"gm_id,omitempty"` // empty means unclaimed
	Contracts []Contract  `json:"contracts"`
	Picks     []DraftPick `json:"picks"`
	Cash      int64       `json:"cash"` // net cash received via trades
	Cap       CapSnapshot `json:"cap"`
}

func (f *Franchise) Contract(playerID string) *Contract {
	for i := range f.Contracts {
		if f.Contracts[i].PlayerID == playerID {
			return &f.Contracts[i]
		}
	}
	return nil
}

func (f *Franchise) HasPick(p DraftPick) bool {
	return slices.Contains(f.Picks, p)
}

type LotteryState struct {
	RegistrationOpen bool     `json:"registration_open"`
	Registered       []string `json:"registered"`
	Order            []string `json:"order"`
}

type ProposalStatus string

const (
	StatusDraft     ProposalStatus = "draft"
	StatusProposed  ProposalStatus = "proposed"
	StatusAccepted  ProposalStatus = "accepted"
	StatusRejected  ProposalStatus = "rejected"
	StatusCountered ProposalStatus = "countered"
	StatusExpired   ProposalStatus = "expired"
	StatusCancelled ProposalStatus = "cancelled"
)

func (s ProposalStatus) Terminal() bool {
	switch s {
	case StatusAccepted, StatusRejected, StatusExpired, StatusCancelled:
		return true
	}
	return false
}

type Side string

const (
	SideA Side = "A"
	SideB Side = "B"
)

// TradePackage collects the assets one side sends away.
type TradePackage struct {
	Contracts []Contract  `json:"contracts"`
	Picks     []DraftPick `json:"picks"`
	Cash      int64       `json:"cash"`
}

func (p TradePackage) Empty() bool {
	return len(p.Contracts) == 0 && len(p.Picks) == 0 && p.Cash == 0
}

func (p TradePackage) SalaryOut() int64 {
	var total int64
	for _, c := range p.Contracts {
		total += c.Salary
	}
	return total
}

type TradeProposal struct {
	ID         string         `json:"id"`
	Status     ProposalStatus `json:"status"`
	FranchiseA string         `json:"franchise_a"`
	FranchiseB string         `json:"franchise_b"`
	PackageA   TradePackage   `json:"package_a"` // assets leaving franchise A
	PackageB   TradePackage   `json:"package_b"` // assets leaving franchise B
	CounterOf  string         `json:"counter_of,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	ExpiresAt  time.Time      `json:"expires_at,omitzero"`
	ResolvedAt time.Time      `json:"resolved_at,omitzero"`
}

func (p *TradeProposal) franchise(side Side) string {
	if side == SideA {
		return p.FranchiseA
	}
	return p.FranchiseB
}

func (p *TradeProposal) pkg(side Side) *TradePackage {
	if side == SideA {
		return &p.PackageA
	}
	return &p.PackageB
}

// League is the aggregate root. One instance per league document; every
// engine operation takes the snapshot and mutates it only on success.
type League struct {
	ID        string          `json:"id"`
	Phase     Phase           `json:"phase"`
	Paused    bool            `json:"paused"`
	PausedAt  time.Time       `json:"paused_at,omitzero"`
	Config    Config          `json:"config"`
	Franchises []Franchise    `json:"franchises"` // one per slot, fixed order
	Lottery   LotteryState    `json:"lottery"`
	Proposals []TradeProposal `json:"proposals"` // pending + history, creation order
	Version   int64           `json:"version"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// NewLeague creates a league in Setup with one unclaimed franchise per slot
// and registration open.
func NewLeague(id string, cfg Config, now time.Time) *League {
	l := &League{
		ID:        id,
		Phase:     PhaseSetup,
		Config:    cfg,
		Lottery:   LotteryState{RegistrationOpen: true, Registered: []string{}, Order: []string{}},
		Proposals: []TradeProposal{},
		UpdatedAt: now,
	}
	for i := 0; i < cfg.FranchiseSlots; i++ {
		name := fmt.Sprintf("Franchise %d", i+1)
		if i < len(cfg.FranchiseNames) && cfg.FranchiseNames[i] != "" {
			name = cfg.FranchiseNames[i]
		}
		f := Franchise{
			ID:        fmt.Sprintf("F%d", i+1),
			Name:      name,
			Contracts: []Contract{},
			Picks:     []DraftPick{},
		}
		refreshCap(l, &f)
		l.Franchises = append(l.Franchises, f)
	}
	return l
}

func (l *League) Franchise(id string) *Franchise {
	for i := range l.Franchises {
		if l.Franchises[i].ID == id {
			return &l.Franchises[i]
		}
	}
	return nil
}

// FranchiseOwnedBy returns the franchise a participant controls, or nil.
// No participant may hold two franchises, so the first hit is the only one.
func (l *League) FranchiseOwnedBy(participantID string) *Franchise {
	if participantID == "" {
		return nil
	}
	for i := range l.Franchises {
		if l.Franchises[i].GMID == participantID {
			return &l.Franchises[i]
		}
	}
	return nil
}

func (l *League) Proposal(id string) *TradeProposal {
	for i := range l.Proposals {
		if l.Proposals[i].ID == id {
			return &l.Proposals[i]
		}
	}
	return nil
}

// PickHeldAnywhere reports whether any franchise currently holds the pick.
// The league must never contain two assets with the same triple.
func (l *League) PickHeldAnywhere(p DraftPick) bool {
	for i := range l.Franchises {
		if l.Franchises[i].HasPick(p) {
			return true
		}
	}
	return false
}

// Clone deep-copies the aggregate so callers can stage mutations and throw
// them away on failure.
func (l *League) Clone() *League {
	out := *l
	out.Config.TradesBlockedIn = slices.Clone(l.Config.TradesBlockedIn)
	out.Config.FranchiseNames = slices.Clone(l.Config.FranchiseNames)
	out.Franchises = make([]Franchise, len(l.Franchises))
	for i, f := range l.Franchises {
		f.Contracts = slices.Clone(f.Contracts)
		f.Picks = slices.Clone(f.Picks)
		out.Franchises[i] = f
	}
	out.Lottery.Registered = slices.Clone(l.Lottery.Registered)
	out.Lottery.Order = slices.Clone(l.Lottery.Order)
	out.Proposals = make([]TradeProposal, len(l.Proposals))
	for i, p := range l.Proposals {
		p.PackageA.Contracts = slices.Clone(p.PackageA.Contracts)
		p.PackageA.Picks = slices.Clone(p.PackageA.Picks)
		p.PackageB.Contracts = slices.Clone(p.PackageB.Contracts)
		p.PackageB.Picks = slices.Clone(p.PackageB.Picks)
		out.Proposals[i] = p
	}
	return &out
}
