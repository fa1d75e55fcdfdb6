package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hoopdesk/gm-league-backend/internal/hub"
	"github.com/hoopdesk/gm-league-backend/internal/ws"
)

func SetupRoutes(h *hub.Hub, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Post("/leagues", CreateLeague(h, log))
	r.Get("/healthz", Healthz)
	r.Get("/ws", ws.Handler(h, log))

	r.Route("/leagues/{id}", func(r chi.Router) {
		r.Get("/", GetLeague(h))
		r.Post("/advance", AdvancePhase(h))
		r.Post("/pause", Pause(h))
		r.Post("/resume", Resume(h))
		r.Post("/purge", Purge(h))

		r.Route("/lottery", func(r chi.Router) {
			r.Post("/register", Register(h))
			r.Post("/unregister", Unregister(h))
			r.Post("/draw", Draw(h))
			r.Post("/claim", Claim(h))
		})

		r.Route("/franchises/{fid}", func(r chi.Router) {
			r.Post("/assign", Assign(h))
			r.Post("/import", Import(h))
		})

		r.Route("/proposals", func(r chi.Router) {
			r.Post("/", NewProposal(h))
			r.Route("/{pid}", func(r chi.Router) {
				r.Post("/assets", EditAssets(h))
				r.Post("/submit", Submit(h))
				r.Get("/validate", Validate(h))
				r.Post("/execute", Execute(h))
				r.Post("/reject", Reject(h))
				r.Post("/cancel", Cancel(h))
				r.Post("/counter", Counter(h))
			})
		})
	})

	return r
}
