package httpadapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	api "threatledger/internal/api"
	"threatledger/internal/domain"
	"threatledger/internal/ports"
)

const (
	maxJSONBytes          = 16 << 10
	defaultMaxUploadBytes = 25 << 20
	uploadField           = "analysisFile"
)

type Options struct {
	UploadDir      string
	MaxUploadBytes int64
	// CORSOrigins lists the browser origins allowed to call the API.
	// Empty or "*" allows any origin.
	CORSOrigins    []string
	Logger         *slog.Logger
}

// Server implements the generated api.ServerInterface.
type Server struct {
	analyzer  ports.Analyzer
	attester  ports.Attester
	uploadDir string
	maxUpload int64
	origins   []string
	logger    *slog.Logger
}

var _ api.ServerInterface = (*Server)(nil)

func New(analyzer ports.Analyzer, attester ports.Attester, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	maxUpload := opts.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = defaultMaxUploadBytes
	}
	return &Server{
		analyzer:  analyzer,
		attester:  attester,
		uploadDir: opts.UploadDir,
		maxUpload: maxUpload,
		origins:   opts.CORSOrigins,
		logger:    logger,
	}
}

// Routes returns a chi.Router mounting the generated handlers.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(s.recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorEnvelope(http.StatusNotFound, "route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorEnvelope(http.StatusMethodNotAllowed, "method not allowed"))
	})
	api.HandlerWithOptions(s, api.ChiServerOptions{
		BaseRouter: r,
		ErrorHandlerFunc: func(w http.ResponseWriter, r *http.Request, err error) {
			s.writeError(w, r, fmt.Errorf("%w: %w", domain.ErrInvalidIdentifier, err))
		},
	})
	return r
}

func (s *Server) GetHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, api.Health{Status: "ok"})
}

func (s *Server) PostAnalysisText(w http.ResponseWriter, r *http.Request) {
	text, err := decodeText(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rec, err := s.analyzer.Ingest(r.Context(), ports.AnalysisInput{Kind: domain.InputText, Content: text})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, recordEnvelope(http.StatusCreated, "text analyzed", rec))
}

func (s *Server) PostAnalysisFile(w http.ResponseWriter, r *http.Request) {
	localPath, err := s.spoolUpload(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defer removeSpooled(localPath)

	rec, err := s.analyzer.Ingest(r.Context(), ports.AnalysisInput{Kind: domain.InputFile, LocalPath: localPath})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, recordEnvelope(http.StatusCreated, "file analyzed", rec))
}

func (s *Server) GetAnalysisId(w http.ResponseWriter, r *http.Request, id api.RecordId) {
	rec, err := s.analyzer.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recordEnvelope(http.StatusOK, "record found", rec))
}

func (s *Server) PostBlockchainShareId(w http.ResponseWriter, r *http.Request, id api.RecordId) {
	txID, err := s.attester.Attest(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, api.AttestationEnvelope{
		StatusCode: http.StatusOK,
		Data:       api.Attestation{TransactionHash: txID},
		Message:    "record shared on chain",
		Success:    true,
	})
}

func decodeText(w http.ResponseWriter, r *http.Request) (string, error) {
	var body api.PostAnalysisTextJSONRequestBody
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBytes))
	if err := dec.Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", fmt.Errorf("%w: request body exceeds %d bytes", domain.ErrValidation, maxJSONBytes)
		}
		return "", fmt.Errorf("%w: body must be a JSON object with a string text field", domain.ErrValidation)
	}
	return validText(body.Text)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.DebugContext(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// recoverer turns a handler panic into a logged 500 with the error envelope.
func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rvr := recover()
			if rvr == nil {
				return
			}
			if rvr == http.ErrAbortHandler {
				panic(rvr)
			}
			s.logger.Error("handler panic",
				"method", r.Method,
				"path", r.URL.Path,
				"request_id", middleware.GetReqID(r.Context()),
				"panic", rvr,
				"stack", string(debug.Stack()),
			)
			writeJSON(w, http.StatusInternalServerError, errorEnvelope(http.StatusInternalServerError, "internal server error"))
		}()
		next.ServeHTTP(w, r)
	})
}
