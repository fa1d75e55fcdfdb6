package league

import (
	"context"

	"go.uber.org/zap"

	"github.com/hoopdesk/gm-league-backend/internal/engine"
	"github.com/hoopdesk/gm-league-backend/internal/store"
)

type Msg interface{ isLeagueMsg() }

// Do runs one engine command against the league snapshot.
type Do struct {
	Cmd   engine.Command
	Reply chan Result
}

func (Do) isLeagueMsg() {}

type Result struct {
	Events []engine.Event
	League *engine.League
	Err    error
}

type Join struct {
	ClientID string
	Outbox   chan Snapshot // where this client wants to receive snapshots
}

func (Join) isLeagueMsg() {}

type Leave struct{ ClientID string }

func (Leave) isLeagueMsg() {}

type Shutdown struct{}

func (Shutdown) isLeagueMsg() {}

type GetState struct {
	Reply chan View
}

func (GetState) isLeagueMsg() {}

type Snapshot struct {
	Version int64
	League  *engine.League
}

type View struct {
	Version    int64
	NumClients int
	League     *engine.League
}

// Actor owns one league and processes messages one at a time, which is the
// whole concurrency story: operations against the same league never
// interleave their load-modify-save cycle.
type Actor struct {
	inbox   chan Msg
	league  *engine.League
	store   store.Store
	log     *zap.Logger
	clients map[string]chan Snapshot
	ctx     context.Context
	cancel  context.CancelFunc
}

func New(parent context.Context, l *engine.League, st store.Store, log *zap.Logger) *Actor {
	ctx, cancel := context.WithCancel(parent)

	a := &Actor{
		inbox:   make(chan Msg, 64),
		league:  l,
		store:   st,
		log:     log,
		clients: make(map[string]chan Snapshot),
		ctx:     ctx,
		cancel:  cancel,
	}

	go a.loop()
	return a
}

func (a *Actor) loop() {
	for {
		select {
		case <-a.ctx.Done():
			a.shutdown()
			return

		case m := <-a.inbox:
			switch msg := m.(type) {
			case Join:
				a.clients[msg.ClientID] = msg.Outbox
				msg.Outbox <- Snapshot{Version: a.league.Version, League: a.league.Clone()}

			case Leave:
				// The actor is the sole sender on the outbox, so closing
				// here is race-free and lets the client's writer exit.
				if ch, ok := a.clients[msg.ClientID]; ok {
					close(ch)
					delete(a.clients, msg.ClientID)
				}

			case Do:
				a.apply(msg)

			case GetState:
				msg.Reply <- View{
					Version:    a.league.Version,
					NumClients: len(a.clients),
					League:     a.league.Clone(),
				}

			case Shutdown:
				a.shutdown()
				return
			}
		}
	}
}

// apply stages the command on a clone, persists, then swaps. A failure at
// either step leaves the held snapshot exactly as it was.
func (a *Actor) apply(msg Do) {
	work := a.league.Clone()
	events, err := engine.Apply(work, msg.Cmd)
	if err != nil {
		msg.Reply <- Result{Err: err}
		return
	}
	if err := a.store.Save(a.ctx, work); err != nil {
		a.log.Error("persist league",
			zap.String("league", a.league.ID),
			zap.String("command", string(msg.Cmd.Type)),
			zap.Error(err))
		msg.Reply <- Result{Err: err}
		return
	}
	a.league = work
	a.log.Info("command applied",
		zap.String("league", work.ID),
		zap.String("command", string(msg.Cmd.Type)),
		zap.Int64("version", work.Version))
	a.broadcast(Snapshot{Version: work.Version, League: work.Clone()})
	msg.Reply <- Result{Events: events, League: work.Clone()}
}

func (a *Actor) shutdown() {
	for id, ch := range a.clients {
		close(ch)
		delete(a.clients, id)
	}
	a.cancel()
}

func (a *Actor) broadcast(snap Snapshot) {
	for id, ch := range a.clients {
		select {
		case ch <- snap:
			// ok
		default:
			// Client is slow/full - drop them.
			close(ch)
			delete(a.clients, id)
		}
	}
}

// Inbox exposes the message channel to the ws/http layers and tests.
func (a *Actor) Inbox() chan<- Msg { return a.inbox }
