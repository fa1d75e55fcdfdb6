package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hoopdesk/gm-league-backend/internal/engine"
	"github.com/hoopdesk/gm-league-backend/internal/hub"
	"github.com/hoopdesk/gm-league-backend/internal/league"
	"github.com/hoopdesk/gm-league-backend/internal/store"
	"github.com/hoopdesk/gm-league-backend/internal/types"
)

// participantHeader carries the verified acting identity. Authentication is
// the upstream layer's problem; the engine just needs to know who acts.
const participantHeader = "X-Participant-ID"

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func CreateLeague(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.CreateLeagueRequest
		if err := decodeBody(r, &req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}

		id := uuid.NewString()
		reply := make(chan hub.Reply, 1)
		h.Inbox() <- hub.CreateLeague{ID: id, Cfg: req.Config(), Now: time.Now().UTC(), Reply: reply}
		res := <-reply
		if res.Err != nil {
			log.Error("create league", zap.Error(res.Err))
			http.Error(w, "failed to create league", http.StatusInternalServerError)
			return
		}

		view := getView(res.Actor)
		writeJSON(w, http.StatusCreated, types.CommandResponse{League: view.League})
	}
}

func GetLeague(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a := actorFor(h, w, r)
		if a == nil {
			return
		}
		// Expiry is data-driven: sweep lazily on read, but only when an
		// overdue proposal exists so idle reads stay read-only.
		now := time.Now().UTC()
		view := getView(a)
		if engine.HasOverdue(view.League, now) {
			_ = do(a, engine.Command{Type: engine.CmdExpireOverdue, Now: now})
			view = getView(a)
		}
		writeJSON(w, http.StatusOK, types.CommandResponse{League: view.League})
	}
}

func AdvancePhase(h *hub.Hub) http.HandlerFunc {
	return commandHandler(h, func(r *http.Request) (engine.Command, error) {
		return engine.Command{Type: engine.CmdAdvancePhase}, nil
	})
}

func Pause(h *hub.Hub) http.HandlerFunc {
	return commandHandler(h, func(r *http.Request) (engine.Command, error) {
		return engine.Command{Type: engine.CmdPause}, nil
	})
}

func Resume(h *hub.Hub) http.HandlerFunc {
	return commandHandler(h, func(r *http.Request) (engine.Command, error) {
		return engine.Command{Type: engine.CmdResume}, nil
	})
}

func Register(h *hub.Hub) http.HandlerFunc {
	return commandHandler(h, func(r *http.Request) (engine.Command, error) {
		return engine.Command{Type: engine.CmdRegister, ParticipantID: participant(r)}, nil
	})
}

func Unregister(h *hub.Hub) http.HandlerFunc {
	return commandHandler(h, func(r *http.Request) (engine.Command, error) {
		return engine.Command{Type: engine.CmdUnregister, ParticipantID: participant(r)}, nil
	})
}

func Draw(h *hub.Hub) http.HandlerFunc {
	return commandHandler(h, func(r *http.Request) (engine.Command, error) {
		return engine.Command{Type: engine.CmdDraw}, nil
	})
}

func Claim(h *hub.Hub) http.HandlerFunc {
	return commandHandler(h, func(r *http.Request) (engine.Command, error) {
		var req types.ClaimRequest
		if err := decodeBody(r, &req); err != nil {
			return engine.Command{}, err
		}
		return engine.Command{
			Type:          engine.CmdClaimFranchise,
			ParticipantID: participant(r),
			FranchiseID:   req.FranchiseID,
		}, nil
	})
}

func Assign(h *hub.Hub) http.HandlerFunc {
	return commandHandler(h, func(r *http.Request) (engine.Command, error) {
		var req types.AssignRequest
		if err := decodeBody(r, &req); err != nil {
			return engine.Command{}, err
		}
		return engine.Command{
			Type:          engine.CmdAssignFranchise,
			ParticipantID: req.ParticipantID,
			FranchiseID:   chi.URLParam(r, "fid"),
		}, nil
	})
}

func Import(h *hub.Hub) http.HandlerFunc {
	return commandHandler(h, func(r *http.Request) (engine.Command, error) {
		var req types.ImportRequest
		if err := decodeBody(r, &req); err != nil {
			return engine.Command{}, err
		}
		return engine.Command{
			Type:        engine.CmdImportRoster,
			FranchiseID: chi.URLParam(r, "fid"),
			Contracts:   req.Contracts,
			Picks:       req.Picks,
		}, nil
	})
}

func NewProposal(h *hub.Hub) http.HandlerFunc {
	return commandHandler(h, func(r *http.Request) (engine.Command, error) {
		var req types.NewProposalRequest
		if err := decodeBody(r, &req); err != nil {
			return engine.Command{}, err
		}
		return engine.Command{
			Type:       engine.CmdNewProposal,
			FranchiseA: req.FranchiseA,
			FranchiseB: req.FranchiseB,
		}, nil
	})
}

func EditAssets(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a := actorFor(h, w, r)
		if a == nil {
			return
		}
		var req types.AssetEditRequest
		if err := decodeBody(r, &req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		cmd, ok := req.Command(chi.URLParam(r, "pid"), time.Now().UTC())
		if !ok {
			http.Error(w, "unknown asset edit", http.StatusBadRequest)
			return
		}
		respond(w, do(a, cmd))
	}
}

func proposalCommand(h *hub.Hub, t engine.CommandType) http.HandlerFunc {
	return commandHandler(h, func(r *http.Request) (engine.Command, error) {
		return engine.Command{Type: t, ProposalID: chi.URLParam(r, "pid")}, nil
	})
}

func Submit(h *hub.Hub) http.HandlerFunc  { return proposalCommand(h, engine.CmdSubmit) }
func Execute(h *hub.Hub) http.HandlerFunc { return proposalCommand(h, engine.CmdExecute) }
func Reject(h *hub.Hub) http.HandlerFunc  { return proposalCommand(h, engine.CmdReject) }
func Cancel(h *hub.Hub) http.HandlerFunc  { return proposalCommand(h, engine.CmdCancel) }
func Counter(h *hub.Hub) http.HandlerFunc { return proposalCommand(h, engine.CmdCounter) }

func Purge(h *hub.Hub) http.HandlerFunc {
	return commandHandler(h, func(r *http.Request) (engine.Command, error) {
		return engine.Command{Type: engine.CmdPurgeTerminal}, nil
	})
}

// Validate is read-only: it reports the full diagnosis without touching the
// proposal.
func Validate(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a := actorFor(h, w, r)
		if a == nil {
			return
		}
		view := getView(a)
		p := view.League.Proposal(chi.URLParam(r, "pid"))
		if p == nil {
			http.Error(w, "proposal not found", http.StatusNotFound)
			return
		}
		ok, reasons := engine.Validate(view.League, p)
		writeJSON(w, http.StatusOK, types.ValidateResponse{OK: ok, Reasons: reasons})
	}
}

func commandHandler(h *hub.Hub, build func(*http.Request) (engine.Command, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a := actorFor(h, w, r)
		if a == nil {
			return
		}
		cmd, err := build(r)
		if err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		cmd.Now = time.Now().UTC()
		respond(w, do(a, cmd))
	}
}

// actorFor resolves the league actor, reviving it from the store if a prior
// process persisted it.
func actorFor(h *hub.Hub, w http.ResponseWriter, r *http.Request) *league.Actor {
	reply := make(chan hub.Reply, 1)
	h.Inbox() <- hub.OpenLeague{ID: chi.URLParam(r, "id"), Reply: reply}
	res := <-reply
	if res.Err != nil {
		if errors.Is(res.Err, store.ErrNotFound) {
			http.Error(w, "league not found", http.StatusNotFound)
		} else {
			writeError(w, res.Err)
		}
		return nil
	}
	return res.Actor
}

func do(a *league.Actor, cmd engine.Command) league.Result {
	reply := make(chan league.Result, 1)
	a.Inbox() <- league.Do{Cmd: cmd, Reply: reply}
	return <-reply
}

func getView(a *league.Actor) league.View {
	reply := make(chan league.View, 1)
	a.Inbox() <- league.GetState{Reply: reply}
	return <-reply
}

func respond(w http.ResponseWriter, res league.Result) {
	if res.Err != nil {
		writeError(w, res.Err)
		return
	}
	writeJSON(w, http.StatusOK, types.CommandResponse{
		League: res.League,
		Events: types.Events(res.Events),
	})
}

func writeError(w http.ResponseWriter, err error) {
	var invalid *engine.TradeInvalidError
	if errors.As(err, &invalid) {
		writeJSON(w, http.StatusUnprocessableEntity, types.ValidateResponse{OK: false, Reasons: invalid.Reasons})
		return
	}
	switch {
	case errors.Is(err, engine.ErrFranchiseNotFound), errors.Is(err, engine.ErrProposalNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, engine.ErrUnsupportedCommand):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, store.ErrCorruptState):
		http.Error(w, err.Error(), http.StatusInternalServerError)
	default:
		// Domain rejections: the request was well-formed but the league
		// state refuses it.
		http.Error(w, err.Error(), http.StatusConflict)
	}
}

func decodeBody(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil // empty body means defaults
	}
	return err
}

func participant(r *http.Request) string {
	return r.Header.Get(participantHeader)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
