package api

import "github.com/rviscarra/canvas-player/internal/transform"

type playRequest struct {
	Mode transform.Mode `json:"mode"`
}

type modeRequest struct {
	Mode transform.Mode `json:"mode"`
}

type captureRequest struct {
	Format string `json:"format"`
}

type captureResponse struct {
	ID      string `json:"id"`
	Format  string `json:"format"`
	Size    int    `json:"size"`
	TakenAt string `json:"taken_at"`
}

type pumpPayload struct {
	State   string `json:"state"`
	Ticks   uint64 `json:"ticks"`
	Skipped uint64 `json:"skipped"`
	Clamped uint64 `json:"clamped"`
	Frames  uint64 `json:"frames"`
	Scaled  uint64 `json:"scaled"`
}

type sourcePayload struct {
	Width  int `json:"width"`
	Height int `json:"height"`
	FPS    int `json:"fps"`
}

type statusResponse struct {
	Playing     bool             `json:"playing"`
	Mode        transform.Mode   `json:"mode"`
	Source      sourcePayload    `json:"source"`
	Pump        pumpPayload      `json:"pump"`
	LastCapture *captureResponse `json:"last_capture,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}
