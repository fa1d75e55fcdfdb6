package hub

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/hoopdesk/gm-league-backend/internal/engine"
	"github.com/hoopdesk/gm-league-backend/internal/league"
	"github.com/hoopdesk/gm-league-backend/internal/store"
)

type HubMsg interface{ isHubMsg() }

// CreateLeague makes a fresh league in Setup, or returns the existing actor
// if the id is already live.
type CreateLeague struct {
	ID    string
	Cfg   engine.Config
	Now   time.Time
	Reply chan Reply
}

type GetLeague struct {
	ID    string
	Reply chan *league.Actor
}

// OpenLeague resolves an actor for an existing league: live actor first,
// then the stored document. Unknown ids get store.ErrNotFound rather than
// a fresh league.
type OpenLeague struct {
	ID    string
	Reply chan Reply
}

// EnsureLeague resolves an actor for the id: live actor, stored document,
// or a new league created from Cfg, in that order.
type EnsureLeague struct {
	ID    string
	Cfg   engine.Config
	Now   time.Time
	Reply chan Reply
}

type RemoveLeague struct {
	ID string
}

type ShutdownHub struct{}

func (CreateLeague) isHubMsg() {}
func (GetLeague) isHubMsg()    {}
func (OpenLeague) isHubMsg()   {}
func (EnsureLeague) isHubMsg() {}
func (RemoveLeague) isHubMsg() {}
func (ShutdownHub) isHubMsg()  {}

type Reply struct {
	Actor *league.Actor
	Err   error
}

type Hub struct {
	inbox   chan HubMsg
	leagues map[string]*league.Actor
	store   store.Store
	log     *zap.Logger
	ctx     context.Context
	cancel  context.CancelFunc
}

func New(parent context.Context, st store.Store, log *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:   make(chan HubMsg, 64),
		leagues: make(map[string]*league.Actor),
		store:   st,
		log:     log,
		ctx:     ctx,
		cancel:  cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case CreateLeague:
				if a := h.leagues[msg.ID]; a != nil {
					msg.Reply <- Reply{Actor: a}
					break
				}
				msg.Reply <- h.create(msg.ID, msg.Cfg, msg.Now)

			case GetLeague:
				msg.Reply <- h.leagues[msg.ID] // May be nil

			case OpenLeague:
				if a := h.leagues[msg.ID]; a != nil {
					msg.Reply <- Reply{Actor: a}
					break
				}
				msg.Reply <- h.open(msg.ID)

			case EnsureLeague:
				if a := h.leagues[msg.ID]; a != nil {
					msg.Reply <- Reply{Actor: a}
					break
				}
				msg.Reply <- h.revive(msg.ID, msg.Cfg, msg.Now)

			case RemoveLeague:
				if a := h.leagues[msg.ID]; a != nil {
					a.Inbox() <- league.Shutdown{}
				}
				delete(h.leagues, msg.ID)

			case ShutdownHub:
				for _, a := range h.leagues {
					a.Inbox() <- league.Shutdown{}
				}
				clear(h.leagues)
				h.cancel()
			}
		}
	}
}

func (h *Hub) create(id string, cfg engine.Config, now time.Time) Reply {
	l := engine.NewLeague(id, cfg, now)
	if err := h.store.Save(h.ctx, l); err != nil {
		return Reply{Err: err}
	}
	a := league.New(h.ctx, l, h.store, h.log)
	h.leagues[id] = a
	h.log.Info("league created", zap.String("league", id), zap.Int("slots", cfg.FranchiseSlots))
	return Reply{Actor: a}
}

// revive loads the stored document if there is one. Corrupt snapshots are
// surfaced, never repaired.
func (h *Hub) revive(id string, cfg engine.Config, now time.Time) Reply {
	l, err := h.store.Load(h.ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return h.create(id, cfg, now)
	}
	if err != nil {
		h.log.Error("load league", zap.String("league", id), zap.Error(err))
		return Reply{Err: err}
	}
	a := league.New(h.ctx, l, h.store, h.log)
	h.leagues[id] = a
	return Reply{Actor: a}
}

// open revives a stored league but never creates one.
func (h *Hub) open(id string) Reply {
	l, err := h.store.Load(h.ctx, id)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			h.log.Error("load league", zap.String("league", id), zap.Error(err))
		}
		return Reply{Err: err}
	}
	a := league.New(h.ctx, l, h.store, h.log)
	h.leagues[id] = a
	return Reply{Actor: a}
}
