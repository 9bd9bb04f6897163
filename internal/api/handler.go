package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rviscarra/canvas-player/internal/capture"
	"github.com/rviscarra/canvas-player/internal/player"
	"github.com/rviscarra/canvas-player/internal/pump"
	"github.com/rviscarra/canvas-player/internal/source"
	"github.com/rviscarra/canvas-player/internal/transform"
)

// Player is the controller surface exposed over HTTP
type Player interface {
	Play(mode transform.Mode) error
	Pause() error
	SetMode(mode transform.Mode)
	Frame() (*image.RGBA, error)
	Capture(format capture.Format) (*capture.Capture, error)
	DownloadCapture() (*capture.Capture, error)
	Status() player.Status
}

var errBadBody = errors.New("malformed request body")

func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadBody),
		errors.Is(err, transform.ErrUnknownMode),
		errors.Is(err, capture.ErrUnsupportedFormat):
		return http.StatusBadRequest
	case errors.Is(err, pump.ErrNoSurface),
		errors.Is(err, player.ErrNoCaptureAvailable),
		errors.Is(err, source.ErrStreamEnded):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func handleError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	entry := logrus.WithFields(logrus.Fields{
		"function": "api.handleError",
		"path":     r.URL.Path,
		"status":   status,
		"error":    err.Error(),
	})
	if status >= http.StatusInternalServerError {
		entry.Error("Request failed")
	} else {
		entry.Debug("Request rejected")
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	payload, err := json.Marshal(v)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(payload)
}

// decodeBody decodes an optional JSON body; an empty body leaves v untouched.
func decodeBody(r *http.Request, v interface{}) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return fmt.Errorf("%w: %w", errBadBody, err)
}

func method(m string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != m {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		next(w, r)
	}
}

func toCaptureResponse(c *capture.Capture) *captureResponse {
	if c == nil {
		return nil
	}
	return &captureResponse{
		ID:      c.ID,
		Format:  string(c.Format),
		Size:    c.Size(),
		TakenAt: c.TakenAt.Format(time.RFC3339Nano),
	}
}

func toStatusResponse(s player.Status) statusResponse {
	return statusResponse{
		Playing: s.Playing,
		Mode:    s.Mode,
		Source: sourcePayload{
			Width:  s.Source.Dx(),
			Height: s.Source.Dy(),
			FPS:    s.SourceFPS,
		},
		Pump: pumpPayload{
			State:   s.Pump.State.String(),
			Ticks:   s.Pump.Ticks,
			Skipped: s.Pump.Skipped,
			Clamped: s.Pump.Clamped,
			Frames:  s.Pump.Frames,
			Scaled:  s.Pump.Scaled,
		},
		LastCapture: toCaptureResponse(s.LastCapture),
	}
}

// MakeHandler returns an HTTP handler for the playback controller
func MakeHandler(p Player) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/play", method(http.MethodPost, func(w http.ResponseWriter, r *http.Request) {
		req := playRequest{}
		if err := decodeBody(r, &req); err != nil {
			handleError(w, r, err)
			return
		}
		if err := p.Play(req.Mode); err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toStatusResponse(p.Status()))
	}))

	mux.HandleFunc("/pause", method(http.MethodPost, func(w http.ResponseWriter, r *http.Request) {
		if err := p.Pause(); err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toStatusResponse(p.Status()))
	}))

	mux.HandleFunc("/mode", method(http.MethodPost, func(w http.ResponseWriter, r *http.Request) {
		req := modeRequest{}
		if err := decodeBody(r, &req); err != nil {
			handleError(w, r, err)
			return
		}
		p.SetMode(req.Mode)
		writeJSON(w, http.StatusOK, toStatusResponse(p.Status()))
	}))

	mux.HandleFunc("/status", method(http.MethodGet, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, toStatusResponse(p.Status()))
	}))

	mux.HandleFunc("/frame", method(http.MethodGet, func(w http.ResponseWriter, r *http.Request) {
		img, err := p.Frame()
		if err != nil {
			handleError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-store")
		if err := png.Encode(w, img); err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "api.frame",
				"error":    err.Error(),
			}).Warn("Writing frame failed")
		}
	}))

	mux.HandleFunc("/capture", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			req := captureRequest{Format: r.URL.Query().Get("format")}
			if err := decodeBody(r, &req); err != nil {
				handleError(w, r, err)
				return
			}
			format, err := capture.ParseFormat(req.Format)
			if err != nil {
				handleError(w, r, err)
				return
			}
			shot, err := p.Capture(format)
			if err != nil {
				handleError(w, r, err)
				return
			}
			writeJSON(w, http.StatusCreated, toCaptureResponse(shot))

		case http.MethodGet:
			shot, err := p.DownloadCapture()
			if err != nil {
				handleError(w, r, err)
				return
			}
			data := shot.Data()
			w.Header().Set("Content-Type", shot.ContentType)
			w.Header().Set("Content-Length", strconv.Itoa(len(data)))
			w.Header().Set("Content-Disposition", `attachment; filename="`+shot.Filename()+`"`)
			w.Write(data)

		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	return mux
}
