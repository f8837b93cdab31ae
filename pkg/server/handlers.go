package server

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/cfgview/pkg/errors"
	"github.com/matzehuels/cfgview/pkg/pipeline"
)

var contentTypes = map[string]string{
	pipeline.FormatJSON: "application/json",
	pipeline.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleFunctions(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "fileID")
	funcs, err := s.store.Functions(id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"file_id": id, "functions": funcs})
}

func (s *Server) handleCFG(w http.ResponseWriter, r *http.Request) {
	payload, err := s.store.ReadCFG(chi.URLParam(r, "fileID"), chi.URLParam(r, "address"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.serveLayout(w, r, payload)
}

func (s *Server) handleDisassembly(w http.ResponseWriter, r *http.Request) {
	id, addr := chi.URLParam(r, "fileID"), chi.URLParam(r, "addr")
	data, err := s.store.ReadDisassembly(id, addr)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !json.Valid(data) {
		s.writeError(w, r, errors.New(errors.ErrCodeInternal, "stored disassembly for %s is not valid JSON", addr))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"file_id":     id,
		"addr":        addr,
		"disassembly": json.RawMessage(data),
	})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			s.writeError(w, r, errors.New(errors.ErrCodeTooLarge, "payload exceeds %d bytes", tooLarge.Limit))
			return
		}
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body"))
		return
	}
	s.serveLayout(w, r, payload)
}

// serveLayout runs the pipeline on payload and writes the artifact chosen
// by ?format.
func (s *Server) serveLayout(w http.ResponseWriter, r *http.Request, payload []byte) {
	q := r.URL.Query()
	format := q.Get("format")
	if format == "" {
		format = pipeline.FormatJSON
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}
	detailed, _ := strconv.ParseBool(q.Get("detailed"))

	opts := s.cfg.Options
	opts.Formats = []string{format}
	opts.Detailed = detailed

	res, err := s.runner.Execute(r.Context(), payload, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-CFG-Strategy", res.Strategy)
	w.Header().Set("X-Cache", cacheStatus(res.CacheInfo.LayoutHit && res.CacheInfo.RenderHit))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

func cacheStatus(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}
