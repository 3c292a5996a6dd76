package server

import (
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vango-dev/vdiff/internal/errors"
	"github.com/vango-dev/vdiff/pkg/dom"
	"github.com/vango-dev/vdiff/pkg/protocol"
	"github.com/vango-dev/vdiff/pkg/vdom"
)

// Content types served by the diff endpoints.
const (
	ContentTypeJSON  = "application/json"
	ContentTypeFrame = "application/vnd.vdiff.frame"
)

// DiffRequest is the body of POST /diff.
type DiffRequest struct {
	Old string `json:"old"`
	New string `json:"new"`

	// Render asks for the markup of the new tree in the response.
	Render bool `json:"render,omitempty"`
}

// DiffResponse is the JSON reply of POST /diff.
type DiffResponse struct {
	Patches vdom.Patches `json:"patches"`
	HTML    string       `json:"html,omitempty"`
}

// FramesResponse is the reply of GET /sessions/{session}/frames.
type FramesResponse struct {
	Session string   `json:"session"`
	Frames  []uint64 `json:"frames"`
}

type errorResponse struct {
	Error *errors.Error `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

func (s *Server) handleDiff(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	status := http.StatusOK
	defer func() {
		s.metrics.requestsTotal.WithLabelValues(format, strconv.Itoa(status)).Inc()
	}()

	if format != "json" && format != "binary" {
		status = http.StatusBadRequest
		writeError(w, status, errors.New(errors.CodeUnknownFormat).
			WithDetailf("format %q is not one of json, binary", format))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxMessageBytes)
	var req DiffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
			writeError(w, status, errors.New(errors.CodeInputUnreadable).
				WithDetailf("request body exceeds %d bytes", tooLarge.Limit))
			return
		}
		status = http.StatusBadRequest
		writeError(w, status, errors.New(errors.CodeInputUnreadable).Wrap(err))
		return
	}

	prev, err := dom.ParseString(req.Old)
	if err != nil {
		status = http.StatusBadRequest
		writeError(w, status, errors.FromError(err, errors.CodeHTMLParse).WithDetail("old document"))
		return
	}
	next, err := dom.ParseString(req.New)
	if err != nil {
		status = http.StatusBadRequest
		writeError(w, status, errors.FromError(err, errors.CodeHTMLParse).WithDetail("new document"))
		return
	}

	patches := s.differ.Diff(r.Context(), prev, next)

	if format == "binary" {
		w.Header().Set("Content-Type", ContentTypeFrame)
		w.Write(protocol.NewPatchesFrame(&protocol.PatchesFrame{Patches: patches}).Encode())
		return
	}

	resp := DiffResponse{Patches: patches}
	if req.Render {
		html, err := s.renderer.RenderToString(next)
		if err != nil {
			status = http.StatusInternalServerError
			writeError(w, status, errors.Newf(errors.CategoryCLI, "render failed").Wrap(err))
			return
		}
		resp.HTML = html
	}
	writeJSON(w, status, resp)
}

func (s *Server) handleListFrames(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "session")
	frames, err := s.Frames(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, errors.FromError(err, errors.CodeStoreRead))
		return
	}
	if len(frames) == 0 {
		writeError(w, http.StatusNotFound, errors.New(errors.CodeObjectNotFound).
			WithDetailf("no frames for session %q", id))
		return
	}
	writeJSON(w, http.StatusOK, FramesResponse{Session: id, Frames: frames})
}

func (s *Server) handleGetFrame(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "session")
	seq, err := strconv.ParseUint(chi.URLParam(r, "seq"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New(errors.CodeInputUnreadable).
			WithDetailf("invalid sequence number %q", chi.URLParam(r, "seq")))
		return
	}

	frame, err := s.Frame(r.Context(), id, seq)
	switch {
	case stderrors.Is(err, ErrFrameNotFound):
		writeError(w, http.StatusNotFound, errors.New(errors.CodeObjectNotFound).
			WithDetailf("no frame %d for session %q", seq, id))
	case err != nil:
		writeError(w, http.StatusInternalServerError, errors.FromError(err, errors.CodeStoreRead))
	default:
		w.Header().Set("Content-Type", ContentTypeFrame)
		w.Write(frame)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", ContentTypeJSON)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err *errors.Error) {
	writeJSON(w, status, errorResponse{Error: err})
}

// logRequests logs one line per request at Info, or Warn for 5xx.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		level := slogLevelFor(ww.Status())
		s.logger.Log(r.Context(), level, "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func slogLevelFor(status int) slog.Level {
	if status >= 500 {
		return slog.LevelWarn
	}
	return slog.LevelInfo
}
