package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"purps/src/handler/web"
	"purps/src/jukebox"
	"purps/src/library"
	"purps/src/library/probe"
	"purps/src/player"
	"purps/src/player/mpdout"
	"purps/src/player/sim"
)

const confFile = "config.yaml"

var (
	build       = "%BUILD%"
	version     = "%VERSION%"
	versionDate = "%VERSION_DATE%"
)

type config struct {
	Address string `yaml:"bind"`
	URLRoot string `yaml:"url_root"`

	DefaultVolume *float64 `yaml:"default_volume"`
	DemoTracks    bool     `yaml:"demo_tracks"`
	ProbeTimeout  string   `yaml:"probe_timeout"`

	MPD *struct {
		Network  string  `yaml:"network"`
		Address  string  `yaml:"address"`
		Password *string `yaml:"password"`
	} `yaml:"mpd"`
}

func (conf *config) Validate() (errs []error) {
	if conf.Address == "" {
		errs = append(errs, fmt.Errorf("config: `bind` is required"))
	}
	if conf.ProbeTimeout != "" {
		if _, err := time.ParseDuration(conf.ProbeTimeout); err != nil {
			errs = append(errs, fmt.Errorf("config: invalid `probe_timeout`: %v", err))
		}
	}
	if conf.DefaultVolume != nil && (*conf.DefaultVolume < 0 || *conf.DefaultVolume > 1) {
		errs = append(errs, fmt.Errorf("config: `default_volume` must be in [0, 1]"))
	}
	return
}

func LoadConfig(filename string) (*config, error) {
	fd, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer fd.Close()

	d := yaml.NewDecoder(fd)
	d.KnownFields(true)
	var conf config
	if err := d.Decode(&conf); err != nil {
		return nil, err
	}

	return &conf, nil
}

func main() {
	defaultLogLevel := "warn"
	if build == "debug" {
		defaultLogLevel = "debug"
	}

	configFile := flag.String("conf", confFile, "Path to the configuration file")
	printVersion := flag.Bool("version", false, "Print version information and exit")
	logLevel := flag.String("log", defaultLogLevel, "Sets the log level. [debug, info, warn, error]")
	flag.Parse()

	if ll, err := log.ParseLevel(*logLevel); err != nil {
		log.Fatalf("Could not parse log level: %v", err)
	} else {
		log.SetLevel(ll)
	}

	if *printVersion {
		fmt.Printf("Version: %v (%v)\n", version, versionDate)
		fmt.Printf("Build: %v\n", build)
		return
	}

	log.Infof("Version: %v (%v)\n", version, build)
	config, err := LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("Could not load config: %v", err)
	}
	if errs := config.Validate(); len(errs) > 0 {
		log.Fatalf("Could not load config: %v", errs)
	}

	catalog := library.NewCatalog()
	if config.DemoTracks {
		catalog.Seed(library.DemoTracks())
	}

	output, err := connectToOutput(config, catalog)
	if err != nil {
		log.Fatal(err)
	}

	prober := probe.New()
	if config.ProbeTimeout != "" {
		prober.Timeout, _ = time.ParseDuration(config.ProbeTimeout)
	}

	queue := player.NewQueue()
	session := player.NewSession(output, queue, catalog, player.NewMetrics(catalog))
	if config.DefaultVolume != nil {
		session.SetVolume(*config.DefaultVolume)
	}

	jb := jukebox.New(catalog, queue, session, prober)

	service := web.New(build, version, config.URLRoot, jb)

	log.Infof("Now accepting HTTP connections on %v", config.Address)
	server := &http.Server{
		Addr:           config.Address,
		Handler:        service,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}
	log.Fatalf("Error running webserver: %v", server.ListenAndServe())
}

// connectToOutput picks the audio device. With an MPD server configured the
// sound comes out of MPD; otherwise playback is simulated in-process, which
// still exercises the whole engine including completion and play counting.
func connectToOutput(config *config, catalog *library.Catalog) (player.Output, error) {
	if config.MPD != nil {
		output, err := mpdout.Connect(config.MPD.Network, config.MPD.Address, config.MPD.Password)
		if err != nil {
			return nil, fmt.Errorf("unable to connect to MPD: %v", err)
		}
		log.Infof("Using MPD at %v as audio output", config.MPD.Address)
		return output, nil
	}

	output := sim.NewTicking(time.Second)
	output.DurationFunc = func(url string) float64 {
		for _, track := range catalog.Tracks() {
			if track.AudioURL == url {
				return track.Duration
			}
		}
		return library.FallbackDuration
	}
	log.Info("No media server configured, using simulated audio output")
	return output, nil
}
