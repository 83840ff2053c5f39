package web

import (
	"bytes"
	"io/fs"
	"mime"
	"net/http"
	"path"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"

	"purps/src/handler/api"
	"purps/src/handler/webui"
	"purps/src/jukebox"
	"purps/src/util"
)

type webUI struct {
	build, version string
	urlRoot        string
	jukebox        *jukebox.Jukebox
}

// New assembles the complete HTTP handler: the web UI at the root and the
// JSON API under /data.
func New(build, version, urlRoot string, jb *jukebox.Jukebox) chi.Router {
	web := webUI{
		build:   build,
		version: version,
		urlRoot: urlRoot,
		jukebox: jb,
	}

	service := chi.NewRouter()
	service.Use(util.LogHandler)
	service.Use(middleware.Compress(5))

	assets := loadAssets(web.build)
	service.Get("/", assets.serve("index.html"))
	service.Get("/app.js", assets.serve("app.js"))
	service.Get("/style.css", assets.serve("style.css"))

	service.Route("/data", func(r chi.Router) {
		api.InitRouter(r, web.jukebox)
	})

	return service
}

type assetSet struct {
	files   map[string][]byte
	modTime time.Time
}

// loadAssets reads the embedded UI files and minifies them once at startup.
func loadAssets(build string) *assetSet {
	m := minify.New()
	m.AddFunc("text/html", html.Minify)
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("application/javascript", js.Minify)

	assets := &assetSet{
		files:   map[string][]byte{},
		modTime: time.Now(),
	}
	root := webui.Files(build)
	err := fs.WalkDir(root, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		raw, err := fs.ReadFile(root, name)
		if err != nil {
			return err
		}
		minified, err := m.Bytes(mediaType(name), raw)
		if err != nil {
			// Not minifiable, serve as is.
			minified = raw
		}
		assets.files[name] = minified
		return nil
	})
	if err != nil {
		log.Fatalf("Could not load web assets: %v", err)
	}
	return assets
}

func (assets *assetSet) serve(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, ok := assets.files[name]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", mediaType(name))
		http.ServeContent(w, r, name, assets.modTime, bytes.NewReader(body))
	}
}

func mediaType(name string) string {
	switch path.Ext(name) {
	case ".html":
		return "text/html"
	case ".css":
		return "text/css"
	case ".js":
		return "application/javascript"
	}
	return mime.TypeByExtension(path.Ext(name))
}
