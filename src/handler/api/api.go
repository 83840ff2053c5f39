package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"purps/src/jukebox"
)

// InitRouter attaches all API routes to the specified router.
func InitRouter(r chi.Router, jb *jukebox.Jukebox) {
	api := API{jukebox: jb}
	r.Use(jsonCtx)

	r.Route("/tracks", func(r chi.Router) {
		r.Get("/", api.trackList)
		r.Post("/", api.trackAdd)
		r.Route("/{trackID}", func(r chi.Router) {
			r.Delete("/", api.trackRemove)
			r.Post("/like", api.trackLike)
		})
	})

	r.Route("/player", func(r chi.Router) {
		r.Post("/init", api.playerInit)
		r.Get("/status", api.playerStatus)
		r.Post("/current", api.playerSetCurrent)
		r.Post("/playstate", api.playerTogglePlaystate)
		r.Post("/time", api.playerSetTime)
		r.Post("/volume", api.playerSetVolume)
		r.Post("/next", api.playerNext)
		r.Post("/previous", api.playerPrevious)
	})

	r.Get("/events", api.events)
}

// WriteError writes an error to the client.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	log.Errorf("Error serving %s: %v", r.RemoteAddr, err)
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": err.Error(),
	})
}

func jsonCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}
