package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"purps/src/jukebox"
	"purps/src/library"
	"purps/src/player"
	"purps/src/util/eventsource"
)

const eventKeepAliveInterval = 30 * time.Second

// API contains the state that is accessible over the REST API.
type API struct {
	jukebox *jukebox.Jukebox
}

func (api *API) trackList(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(map[string]interface{}{
		"tracks": api.jukebox.Tracks(),
	})
}

func (api *API) trackAdd(w http.ResponseWriter, r *http.Request) {
	var input library.TrackInput
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		WriteError(w, r, err)
		return
	}

	track := api.jukebox.AddTrack(r.Context(), input)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"track": track,
	})
}

func (api *API) trackRemove(w http.ResponseWriter, r *http.Request) {
	api.jukebox.RemoveTrack(chi.URLParam(r, "trackID"))
	w.Write([]byte("{}"))
}

func (api *API) trackLike(w http.ResponseWriter, r *http.Request) {
	api.jukebox.LikeTrack(chi.URLParam(r, "trackID"))
	w.Write([]byte("{}"))
}

func (api *API) playerInit(w http.ResponseWriter, r *http.Request) {
	api.jukebox.InitSession()
	w.Write([]byte("{}"))
}

func (api *API) playerStatus(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(api.jukebox.Status())
}

func (api *API) playerSetCurrent(w http.ResponseWriter, r *http.Request) {
	var data struct {
		Track string `json:"track"`
	}
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		WriteError(w, r, err)
		return
	}

	api.jukebox.SelectTrack(data.Track)
	w.Write([]byte("{}"))
}

func (api *API) playerTogglePlaystate(w http.ResponseWriter, r *http.Request) {
	api.jukebox.TogglePlay()
	w.Write([]byte("{}"))
}

func (api *API) playerSetTime(w http.ResponseWriter, r *http.Request) {
	var data struct {
		Time float64 `json:"time"`
	}
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		WriteError(w, r, err)
		return
	}

	api.jukebox.Seek(data.Time)
	w.Write([]byte("{}"))
}

func (api *API) playerSetVolume(w http.ResponseWriter, r *http.Request) {
	var data struct {
		Volume float64 `json:"volume"`
	}
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		WriteError(w, r, err)
		return
	}

	api.jukebox.SetVolume(data.Volume)
	w.Write([]byte("{}"))
}

func (api *API) playerNext(w http.ResponseWriter, r *http.Request) {
	api.jukebox.Next()
	w.Write([]byte("{}"))
}

func (api *API) playerPrevious(w http.ResponseWriter, r *http.Request) {
	api.jukebox.Previous()
	w.Write([]byte("{}"))
}

// events streams the observable state over Server-Sent Events. The full state
// is replayed on connect so the UI can render without additional requests.
func (api *API) events(w http.ResponseWriter, r *http.Request) {
	es, err := eventsource.Begin(w, r)
	if err != nil {
		log.Errorf("%v", err)
		return
	}
	listener := api.jukebox.Listen(r.Context())

	es.EventJSON("library", map[string]interface{}{"tracks": api.jukebox.Tracks()})
	status := api.jukebox.Status()
	es.EventJSON("current", map[string]interface{}{"track": status.Track})
	es.EventJSON("playstate", map[string]interface{}{"playing": status.Playing})
	es.EventJSON("time", map[string]interface{}{"time": status.Time})
	es.EventJSON("volume", map[string]interface{}{"volume": status.Volume})

	keepAlive := time.NewTicker(eventKeepAliveInterval)
	defer keepAlive.Stop()

	for {
		var event interface{}
		select {
		case event = <-listener:
		case <-keepAlive.C:
			es.KeepAlive()
			continue
		case <-r.Context().Done():
			return
		}

		switch t := event.(type) {
		case library.UpdateEvent:
			es.EventJSON("library", map[string]interface{}{"tracks": api.jukebox.Tracks()})
			// Counters of the current track live in the catalog, so the
			// current view may have changed as well.
			es.EventJSON("current", map[string]interface{}{"track": api.jukebox.Status().Track})
		case player.TrackEvent:
			es.EventJSON("current", map[string]interface{}{"track": api.jukebox.Status().Track})
		case player.PlayStateEvent:
			es.EventJSON("playstate", map[string]interface{}{"playing": t.Playing})
		case player.TimeEvent:
			es.EventJSON("time", map[string]interface{}{"time": t.Seconds})
		case player.VolumeEvent:
			es.EventJSON("volume", map[string]interface{}{"volume": t.Volume})
		case player.NoticeEvent:
			es.EventJSON("notice", map[string]interface{}{"level": t.Level, "message": t.Message})
		default:
			log.Debugf("Unmapped event %#v", event)
		}
	}
}
