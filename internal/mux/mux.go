package mux

import (
	"net/http"

	"holdem-server/internal/config"
	"holdem-server/pkg/room"

	gmux "github.com/gorilla/mux"
)

// Mux handles HTTP requests
type Mux struct {
	*gmux.Router
	version string
	pitBoss *room.PitBoss
}

// NewMux returns a new HTTP mux
func NewMux(version string) *Mux {
	cfg := config.Instance()

	pitBoss := room.NewPitBoss(room.Options{
		SmallBlind:    cfg.Game.SmallBlind,
		BigBlind:      cfg.Game.BigBlind,
		StartingChips: cfg.Game.StartingChips,
		MaxPlayers:    cfg.Game.MaxPlayers,
	})
	pitBoss.StartShift()

	this := &Mux{
		Router:  gmux.NewRouter(),
		version: version,
		pitBoss: pitBoss,
	}

	r := this.Router
	health := this.getHealth()
	r.Methods(http.MethodGet).Path("/health").Handler(health)
	r.Methods(http.MethodGet).Path("/api/health").Handler(health)
	r.Methods(http.MethodPost).Path("/api/rooms").Handler(this.postRooms())
	r.Methods(http.MethodGet).Path("/api/rooms/{code:[A-Z0-9]{6}}/ws").Handler(this.getRoomCodeWS())

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSONError(w, http.StatusNotFound, nil)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSONError(w, http.StatusMethodNotAllowed, nil)
	})

	return this
}
