package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hoopdesk/gm-league-backend/internal/engine"
	"github.com/hoopdesk/gm-league-backend/internal/hub"
	"github.com/hoopdesk/gm-league-backend/internal/store"
	"github.com/hoopdesk/gm-league-backend/internal/types"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	return newTestServerWith(t, store.NewMemory())
}

func newTestServerWith(t *testing.T, st store.Store) *httptest.Server {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	h := hub.New(ctx, st, zap.NewNop())
	srv := httptest.NewServer(SetupRoutes(h, zap.NewNop()))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, participant string, body any) (*http.Response, []byte) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if participant != "" {
		req.Header.Set("X-Participant-ID", participant)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	var out bytes.Buffer
	_, err = out.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, out.Bytes()
}

func decodeLeague(t *testing.T, body []byte) *engine.League {
	t.Helper()
	var res types.CommandResponse
	require.NoError(t, json.Unmarshal(body, &res))
	require.NotNil(t, res.League)
	return res.League
}

func TestLeagueLifecycleOverHTTP(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/leagues", "", types.CreateLeagueRequest{
		FranchiseSlots: 2,
		SalaryCap:      100_000_000,
		LuxuryTaxLine:  120_000_000,
		FirstApron:     130_000_000,
		SecondApron:    140_000_000,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	lg := decodeLeague(t, body)
	require.Len(t, lg.Franchises, 2)
	base := fmt.Sprintf("%s/leagues/%s", srv.URL, lg.ID)

	// Setup -> GmLottery
	resp, _ = doJSON(t, http.MethodPost, base+"/advance", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	for _, gm := range []string{"alice", "bob"} {
		resp, _ = doJSON(t, http.MethodPost, base+"/lottery/register", gm, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
	// Duplicate registration is a domain conflict.
	resp, _ = doJSON(t, http.MethodPost, base+"/lottery/register", "alice", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, body = doJSON(t, http.MethodPost, base+"/lottery/draw", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	order := decodeLeague(t, body).Lottery.Order
	require.Len(t, order, 2)

	// Claims in drawn order; an out-of-turn claim is rejected.
	resp, _ = doJSON(t, http.MethodPost, base+"/lottery/claim", order[1], types.ClaimRequest{FranchiseID: "F1"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp, _ = doJSON(t, http.MethodPost, base+"/lottery/claim", order[0], types.ClaimRequest{FranchiseID: "F1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = doJSON(t, http.MethodPost, base+"/lottery/claim", order[1], types.ClaimRequest{FranchiseID: "F2"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, base+"/franchises/F1/import", "", types.ImportRequest{
		Contracts: []engine.Contract{{PlayerID: "star", Position: "SF", Salary: 20_000_000, YearsRemaining: 3}},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = doJSON(t, http.MethodPost, base+"/franchises/F2/import", "", types.ImportRequest{
		Contracts: []engine.Contract{{PlayerID: "role", Position: "PG", Salary: 5_000_000, YearsRemaining: 1}},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Walk out of the lottery window.
	for {
		resp, body = doJSON(t, http.MethodPost, base+"/advance", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		if decodeLeague(t, body).Phase == engine.PhaseFreeAgency {
			break
		}
	}

	resp, body = doJSON(t, http.MethodPost, base+"/proposals/", "", types.NewProposalRequest{
		FranchiseA: "F1", FranchiseB: "F2",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	proposals := decodeLeague(t, body).Proposals
	require.Len(t, proposals, 1)
	pid := proposals[0].ID
	pbase := fmt.Sprintf("%s/proposals/%s", base, pid)

	for _, edit := range []types.AssetEditRequest{
		{Action: "add", Side: engine.SideA, PlayerID: "star"},
		{Action: "add", Side: engine.SideB, PlayerID: "role"},
	} {
		resp, _ = doJSON(t, http.MethodPost, pbase+"/assets", "", edit)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, body = doJSON(t, http.MethodGet, pbase+"/validate", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var verdict types.ValidateResponse
	require.NoError(t, json.Unmarshal(body, &verdict))
	assert.True(t, verdict.OK, "reasons: %v", verdict.Reasons)

	resp, _ = doJSON(t, http.MethodPost, pbase+"/submit", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, body = doJSON(t, http.MethodPost, pbase+"/execute", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	final := decodeLeague(t, body)
	assert.Equal(t, int64(5_000_000), final.Franchise("F1").Cap.Payroll)
	assert.Equal(t, int64(20_000_000), final.Franchise("F2").Cap.Payroll)
	assert.Equal(t, engine.StatusAccepted, final.Proposal(pid).Status)
}

func TestTradeInvalidReturnsFullDiagnosis(t *testing.T) {
	srv := newTestServer(t)

	_, body := doJSON(t, http.MethodPost, srv.URL+"/leagues", "", types.CreateLeagueRequest{
		FranchiseSlots: 2,
		SalaryCap:      100_000_000,
		LuxuryTaxLine:  120_000_000,
		FirstApron:     130_000_000,
		SecondApron:    140_000_000,
	})
	lg := decodeLeague(t, body)
	base := fmt.Sprintf("%s/leagues/%s", srv.URL, lg.ID)

	// Over-cap franchise tries to take back 50M for 10M out.
	doJSON(t, http.MethodPost, base+"/franchises/F1/import", "", types.ImportRequest{
		Contracts: []engine.Contract{
			{PlayerID: "out", Position: "C", Salary: 10_000_000},
			{PlayerID: "anchor", Position: "PF", Salary: 140_000_000},
		},
	})
	doJSON(t, http.MethodPost, base+"/franchises/F2/import", "", types.ImportRequest{
		Contracts: []engine.Contract{{PlayerID: "in", Position: "PG", Salary: 50_000_000}},
	})

	_, body = doJSON(t, http.MethodPost, base+"/proposals/", "", types.NewProposalRequest{
		FranchiseA: "F1", FranchiseB: "F2",
	})
	pid := decodeLeague(t, body).Proposals[0].ID
	pbase := fmt.Sprintf("%s/proposals/%s", base, pid)

	doJSON(t, http.MethodPost, pbase+"/assets", "", types.AssetEditRequest{Action: "add", Side: engine.SideA, PlayerID: "out"})
	doJSON(t, http.MethodPost, pbase+"/assets", "", types.AssetEditRequest{Action: "add", Side: engine.SideB, PlayerID: "in"})

	resp, body := doJSON(t, http.MethodPost, pbase+"/submit", "", nil)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var verdict types.ValidateResponse
	require.NoError(t, json.Unmarshal(body, &verdict))
	assert.False(t, verdict.OK)
	found := false
	for _, reason := range verdict.Reasons {
		if reason.Rule == engine.RuleSalaryMatching {
			found = true
		}
	}
	assert.True(t, found, "reasons: %v", verdict.Reasons)
}

func TestUnknownLeagueIs404(t *testing.T) {
	srv := newTestServer(t)
	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/leagues/nope/advance", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// A persisted league stays reachable after the process restarts: a fresh
// hub over the same store revives it on the next request.
func TestLeagueSurvivesRestart(t *testing.T) {
	st := store.NewMemory()
	srv1 := newTestServerWith(t, st)

	resp, body := doJSON(t, http.MethodPost, srv1.URL+"/leagues", "", types.CreateLeagueRequest{FranchiseSlots: 2})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	lg := decodeLeague(t, body)

	resp, _ = doJSON(t, http.MethodPost, fmt.Sprintf("%s/leagues/%s/advance", srv1.URL, lg.ID), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	srv1.Close()

	srv2 := newTestServerWith(t, st)
	resp, body = doJSON(t, http.MethodGet, fmt.Sprintf("%s/leagues/%s", srv2.URL, lg.ID), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	revived := decodeLeague(t, body)
	assert.Equal(t, engine.PhaseGmLottery, revived.Phase)
	assert.Equal(t, int64(1), revived.Version)
}

// Reading a league with nothing overdue must not mutate it.
func TestGetLeagueIsReadOnlyWhenNothingExpires(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/leagues", "", types.CreateLeagueRequest{FranchiseSlots: 2})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	lg := decodeLeague(t, body)
	base := fmt.Sprintf("%s/leagues/%s", srv.URL, lg.ID)

	for i := 0; i < 3; i++ {
		resp, body = doJSON(t, http.MethodGet, base, "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, int64(0), decodeLeague(t, body).Version)
	}
}

func TestAssetEditRejectsUnknownShapes(t *testing.T) {
	srv := newTestServer(t)

	_, body := doJSON(t, http.MethodPost, srv.URL+"/leagues", "", types.CreateLeagueRequest{FranchiseSlots: 2})
	lg := decodeLeague(t, body)
	base := fmt.Sprintf("%s/leagues/%s", srv.URL, lg.ID)

	_, body = doJSON(t, http.MethodPost, base+"/proposals/", "", types.NewProposalRequest{
		FranchiseA: "F1", FranchiseB: "F2",
	})
	pid := decodeLeague(t, body).Proposals[0].ID
	pbase := fmt.Sprintf("%s/proposals/%s", base, pid)

	for name, edit := range map[string]types.AssetEditRequest{
		"unknown side":  {Action: "add", Side: "C", Cash: 1_000_000},
		"missing side":  {Action: "add", Cash: 1_000_000},
		"empty edit":    {Action: "add", Side: engine.SideA},
		"wrong action":  {Action: "swap", Side: engine.SideA, PlayerID: "star"},
		"negative cash": {Action: "remove", Side: engine.SideA, Cash: -5},
	} {
		resp, _ := doJSON(t, http.MethodPost, pbase+"/assets", "", edit)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, name)
	}
}

func TestCashRemovalIsSymmetric(t *testing.T) {
	srv := newTestServer(t)

	_, body := doJSON(t, http.MethodPost, srv.URL+"/leagues", "", types.CreateLeagueRequest{FranchiseSlots: 2})
	lg := decodeLeague(t, body)
	base := fmt.Sprintf("%s/leagues/%s", srv.URL, lg.ID)

	_, body = doJSON(t, http.MethodPost, base+"/proposals/", "", types.NewProposalRequest{
		FranchiseA: "F1", FranchiseB: "F2",
	})
	pid := decodeLeague(t, body).Proposals[0].ID
	pbase := fmt.Sprintf("%s/proposals/%s", base, pid)

	resp, _ := doJSON(t, http.MethodPost, pbase+"/assets", "", types.AssetEditRequest{Action: "add", Side: engine.SideA, Cash: 3_000_000})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = doJSON(t, http.MethodPost, pbase+"/assets", "", types.AssetEditRequest{Action: "remove", Side: engine.SideA, Cash: 2_000_000})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(1_000_000), decodeLeague(t, body).Proposal(pid).PackageA.Cash)

	// Removing more than the package holds is a domain conflict.
	resp, _ = doJSON(t, http.MethodPost, pbase+"/assets", "", types.AssetEditRequest{Action: "remove", Side: engine.SideA, Cash: 2_000_000})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}
