package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/rviscarra/canvas-player/internal/api"
	"github.com/rviscarra/canvas-player/internal/capture"
	"github.com/rviscarra/canvas-player/internal/config"
	"github.com/rviscarra/canvas-player/internal/player"
	"github.com/rviscarra/canvas-player/internal/source"
)

// configPath finds -config before the full flag set is parsed, so file
// values can become flag defaults. It scans args the way the flag package
// does: parsing stops at "--" or the first non-flag argument, and every
// player flag takes a value.
func configPath(args []string) string {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" || arg == "-" || !strings.HasPrefix(arg, "-") {
			return ""
		}
		name := strings.TrimPrefix(strings.TrimPrefix(arg, "-"), "-")
		if key, value, found := strings.Cut(name, "="); found {
			if key == "config" {
				return value
			}
			continue
		}
		if name == "config" {
			if i+1 < len(args) {
				return args[i+1]
			}
			return ""
		}
		// skip the flag's value
		i++
	}
	return ""
}

func loadConfig(args []string) (config.Config, error) {
	cfg := config.Default()
	if path := configPath(args); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return cfg, err
		}
	}

	fs := flag.NewFlagSet("player", flag.ExitOnError)
	fs.String("config", "", "YAML config file")
	cfg.BindFlags(fs)
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func newVideoSource(cfg config.Config) (source.VideoSource, error) {
	if cfg.Source == config.SourcePattern {
		return source.NewPatternSource(cfg.Width, cfg.Height, cfg.FPS, cfg.PatternFrames), nil
	}

	var video source.Service
	video, err := source.NewVideoProvider()
	if err != nil {
		return nil, err
	}
	screens, err := video.Screens()
	if err != nil {
		return nil, fmt.Errorf("can't get screens: %w", err)
	}
	if len(screens) == 0 {
		return nil, fmt.Errorf("no available screens")
	}
	screenIx := cfg.Screen
	if screenIx < 0 || screenIx >= len(screens) {
		screenIx = 0
	}
	return video.CreateScreenSource(screens[screenIx], cfg.FPS)
}

func main() {
	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		logrus.Fatalf("Invalid configuration: %v", err)
	}
	level, _ := logrus.ParseLevel(cfg.LogLevel)
	logrus.SetLevel(level)

	video, err := newVideoSource(cfg)
	if err != nil {
		logrus.Fatalf("Can't init video: %v", err)
	}

	ctrl, err := player.NewFromConfig(cfg, video, capture.NewEncoderService())
	if err != nil {
		logrus.Fatalf("Can't create player: %v", err)
	}
	defer ctrl.Close()

	mux := http.NewServeMux()

	mux.Handle("/api/", http.StripPrefix("/api", api.MakeHandler(ctrl)))

	// Serve static assets
	mux.Handle("/static/", http.StripPrefix("/static", http.FileServer(http.Dir("./web"))))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		http.ServeFile(w, r, "./web/index.html")
	})

	errors := make(chan error, 2)
	go func() {
		logrus.WithFields(logrus.Fields{
			"port":   cfg.HTTPPort,
			"source": cfg.Source,
			"fps":    cfg.FPS,
		}).Info("Starting player server")
		errors <- http.ListenAndServe(fmt.Sprintf(":%s", cfg.HTTPPort), mux)
	}()

	go func() {
		interrupt := make(chan os.Signal, 1)
		signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
		errors <- fmt.Errorf("received %v signal", <-interrupt)
	}()

	err = <-errors
	logrus.Infof("%s, exiting.", err)
}
