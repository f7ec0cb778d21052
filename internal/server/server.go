// Package server exposes the extraction engine over HTTP. Validation-class
// engine errors map to 400 responses, anything else to 500.
package server

import (
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/uttrekk-dev/uttrekk/internal/extract"
	"github.com/uttrekk-dev/uttrekk/internal/model"
	"github.com/uttrekk-dev/uttrekk/internal/table"
)

const (
	defaultMaxUploadBytes = 20 << 20
	previewDecodeRows     = 10
	previewBodyRows       = 5
)

// Options tunes the HTTP surface; zero values get defaults.
type Options struct {
	EnableMetrics  bool
	EnableCORS     bool
	MaxUploadBytes int64
}

// Server handles upload, listing, and preview requests against an injected
// extractor registry.
type Server struct {
	registry *extract.Registry
	log      zerolog.Logger
	metrics  *metrics
	opts     Options
}

// New creates a Server around the given registry.
func New(registry *extract.Registry, log zerolog.Logger, opts Options) *Server {
	if opts.MaxUploadBytes == 0 {
		opts.MaxUploadBytes = defaultMaxUploadBytes
	}
	return &Server{
		registry: registry,
		log:      log,
		metrics:  newMetrics(),
		opts:     opts,
	}
}

// Handler builds the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /extractors", s.handleListExtractors)
	mux.HandleFunc("POST /extract", s.handleExtract)
	mux.HandleFunc("POST /preview", s.handlePreview)
	if s.opts.EnableMetrics {
		mux.Handle("GET /metrics", s.metrics.handler())
	}

	var h http.Handler = mux
	if s.opts.EnableCORS {
		h = cors(h)
	}
	h = requestLogger(s.log)(h)
	h = requestID(h)
	h = recovery(s.log)(h)
	return h
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "uttrekk"})
}

func (s *Server) handleListExtractors(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]extract.Info{"extractors": s.registry.List()})
}

// extractionResponse is the envelope the budgeting frontend consumes.
type extractionResponse struct {
	Success       bool                         `json:"success"`
	Message       string                       `json:"message"`
	Transactions  []model.ExtractedTransaction `json:"transactions"`
	ExtractorUsed string                       `json:"extractor_used"`
	Skipped       []extract.SkippedRow         `json:"skipped,omitempty"`
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	data, filename, ok := s.readUpload(w, r)
	if !ok {
		return
	}
	name := r.FormValue("extractor")
	if name == "" {
		writeError(w, http.StatusBadRequest, "missing form field: extractor")
		return
	}

	res, err := s.registry.Run(name, data, filename)
	if err != nil {
		if extract.IsValidation(err) {
			s.metrics.observe(name, "client_error")
			s.log.Warn().Err(err).Str("extractor", name).Str("filename", filename).Msg("Extraction rejected")
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.metrics.observe(name, "server_error")
		s.log.Error().Err(err).Str("extractor", name).Str("filename", filename).Msg("Extraction failed")
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("extraction failed: %s", err))
		return
	}
	s.metrics.observe(name, "ok")

	txns := res.Transactions
	if txns == nil {
		txns = []model.ExtractedTransaction{}
	}
	msg := fmt.Sprintf("Successfully extracted %d transactions", len(txns))
	if n := len(res.Skipped); n > 0 {
		msg = fmt.Sprintf("%s (%d rows skipped)", msg, n)
	}
	writeJSON(w, http.StatusOK, extractionResponse{
		Success:       true,
		Message:       msg,
		Transactions:  txns,
		ExtractorUsed: name,
		Skipped:       res.Skipped,
	})
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	data, _, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	var (
		tbl *table.Table
		err error
	)
	if table.IsExcel(data) {
		tbl, err = table.DecodeExcel(data, 0)
	} else {
		tbl, err = table.DecodeCSV(data, table.SniffSep(data))
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("could not preview file: %s", err))
		return
	}

	rows := tbl.Rows
	if len(rows) > previewDecodeRows {
		rows = rows[:previewDecodeRows]
	}
	body := rows
	if len(body) > previewBodyRows {
		body = body[:previewBodyRows]
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"columns":            tbl.Columns,
		"rows":               body,
		"total_preview_rows": len(rows),
	})
}

// readUpload pulls the multipart "file" field into memory.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, string, bool) {
	if err := r.ParseMultipartForm(s.opts.MaxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid multipart upload: %s", err))
		return nil, "", false
	}
	file, hdr, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing form field: file")
		return nil, "", false
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, s.opts.MaxUploadBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("reading upload: %s", err))
		return nil, "", false
	}
	return data, hdr.Filename, true
}
