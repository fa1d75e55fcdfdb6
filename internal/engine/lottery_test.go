package engine

import (
	"errors"
	"slices"
	"testing"
)

func TestRegister(t *testing.T) {
	cases := []struct {
		name    string
		setup   func(*League)
		pid     string
		wantErr error
		wantN   int
	}{
		{
			name:  "first registrant",
			setup: func(l *League) {},
			pid:   "gm1",
			wantN: 1,
		},
		{
			name: "duplicate rejected",
			setup: func(l *League) {
				l.Lottery.Registered = []string{"gm1"}
			},
			pid:     "gm1",
			wantErr: ErrAlreadyRegistered,
		},
		{
			name: "full lottery rejected",
			setup: func(l *League) {
				l.Lottery.Registered = []string{"gm1", "gm2"}
			},
			pid:     "gm3",
			wantErr: ErrLotteryFull,
		},
		{
			name: "closed registration rejected",
			setup: func(l *League) {
				l.Lottery.RegistrationOpen = false
			},
			pid:     "gm1",
			wantErr: ErrRegistrationClosed,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l := newTestLeague(2)
			tc.setup(l)
			n, err := Register(l, tc.pid)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("Register: got err %v, want %v", err, tc.wantErr)
			}
			if tc.wantErr == nil && n != tc.wantN {
				t.Fatalf("Register: got count %d, want %d", n, tc.wantN)
			}
		})
	}
}

func TestUnregister(t *testing.T) {
	l := newTestLeague(2)
	if err := Unregister(l, "gm1"); !errors.Is(err, ErrNotRegistered) {
		t.Fatalf("unregister unknown: got %v, want ErrNotRegistered", err)
	}

	if _, err := Register(l, "gm1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := Unregister(l, "gm1"); err != nil {
		t.Fatalf("unregister: %v", err)
	}
	if len(l.Lottery.Registered) != 0 {
		t.Fatalf("expected empty pool, got %v", l.Lottery.Registered)
	}

	// Withdrawal after the draw is meaningless.
	_, _ = Register(l, "gm1")
	if _, err := Draw(l); err != nil {
		t.Fatalf("draw: %v", err)
	}
	if err := Unregister(l, "gm1"); !errors.Is(err, ErrRegistrationClosed) {
		t.Fatalf("unregister after draw: got %v, want ErrRegistrationClosed", err)
	}
}

func TestDraw(t *testing.T) {
	l := newTestLeague(4)
	l.Config.FranchiseSlots = 4

	if _, err := Draw(l); !errors.Is(err, ErrNoRegistrants) {
		t.Fatalf("empty draw: got %v, want ErrNoRegistrants", err)
	}

	for _, pid := range []string{"gm1", "gm2", "gm3"} {
		if _, err := Register(l, pid); err != nil {
			t.Fatalf("register %s: %v", pid, err)
		}
	}

	order, err := Draw(l)
	if err != nil {
		t.Fatalf("draw: %v", err)
	}
	if len(order) != 3 {
		t.Fatalf("order length: got %d, want 3", len(order))
	}
	for _, pid := range []string{"gm1", "gm2", "gm3"} {
		if !slices.Contains(order, pid) {
			t.Fatalf("order %v missing %s", order, pid)
		}
	}
	if l.Lottery.RegistrationOpen {
		t.Fatalf("registration should close on draw")
	}
	if _, err := Draw(l); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("second draw: got %v, want ErrInvalidState", err)
	}
}

// Over many draws every registrant should land in every position with
// roughly equal frequency. Bounds are loose on purpose; this guards against
// a biased shuffle, not for exact uniformity.
func TestDrawUniformity(t *testing.T) {
	const trials = 6000
	pids := []string{"gm1", "gm2", "gm3", "gm4"}
	firsts := map[string]int{}

	for i := 0; i < trials; i++ {
		l := newTestLeague(4)
		for _, pid := range pids {
			if _, err := Register(l, pid); err != nil {
				t.Fatalf("register: %v", err)
			}
		}
		order, err := Draw(l)
		if err != nil {
			t.Fatalf("draw: %v", err)
		}
		firsts[order[0]]++
	}

	want := trials / len(pids)
	for _, pid := range pids {
		got := firsts[pid]
		if got < want*7/10 || got > want*13/10 {
			t.Fatalf("registrant %s drew first %d times, expected near %d", pid, got, want)
		}
	}
}

func TestClaimFranchise(t *testing.T) {
	l := newTestLeague(2)
	_, _ = Register(l, "gm1")
	_, _ = Register(l, "gm2")
	l.Lottery.Order = []string{"gm2", "gm1"}
	l.Lottery.RegistrationOpen = false

	picker, ok := CurrentPicker(l)
	if !ok || picker != "gm2" {
		t.Fatalf("current picker: got %q ok=%v, want gm2", picker, ok)
	}

	if err := ClaimFranchise(l, "gm1", "F1"); !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("out-of-turn claim: got %v, want ErrNotYourTurn", err)
	}
	if err := ClaimFranchise(l, "gm2", "F9"); !errors.Is(err, ErrFranchiseNotFound) {
		t.Fatalf("unknown franchise: got %v, want ErrFranchiseNotFound", err)
	}
	if err := ClaimFranchise(l, "gm2", "F1"); err != nil {
		t.Fatalf("claim: %v", err)
	}

	// Pointer is derived: gm2 owns a franchise now, so gm1 is up.
	picker, ok = CurrentPicker(l)
	if !ok || picker != "gm1" {
		t.Fatalf("current picker after claim: got %q ok=%v, want gm1", picker, ok)
	}

	if err := ClaimFranchise(l, "gm1", "F1"); !errors.Is(err, ErrFranchiseTaken) {
		t.Fatalf("claim taken franchise: got %v, want ErrFranchiseTaken", err)
	}
	if err := ClaimFranchise(l, "gm1", "F2"); err != nil {
		t.Fatalf("claim: %v", err)
	}
	if _, ok := CurrentPicker(l); ok {
		t.Fatalf("expected no picker once everyone claimed")
	}
}

func TestNoParticipantHoldsTwoFranchises(t *testing.T) {
	l := newTestLeague(3)
	if err := AssignFranchise(l, "gm1", "F1"); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if err := AssignFranchise(l, "gm1", "F2"); !errors.Is(err, ErrFranchiseTaken) {
		t.Fatalf("double assign: got %v, want ErrFranchiseTaken", err)
	}

	owners := map[string]int{}
	for _, f := range l.Franchises {
		if f.GMID != "" {
			owners[f.GMID]++
		}
	}
	for pid, n := range owners {
		if n > 1 {
			t.Fatalf("participant %s owns %d franchises", pid, n)
		}
	}
}
