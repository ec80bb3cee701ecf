package analysis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"threatledger/internal/domain"
	"threatledger/internal/ports"
)

var tracer = otel.Tracer("threatledger/internal/services/analysis")

// Service chooses the upstream clients for an input, normalizes their
// response and persists complete drafts. Each external call is attempted once.
type Service struct {
	records ports.RecordRepository
	text    ports.TextAnalyzer
	media   ports.MediaAnalyzer
	content ports.ContentStore
	logger  *slog.Logger
}

func New(records ports.RecordRepository, text ports.TextAnalyzer, media ports.MediaAnalyzer, content ports.ContentStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{records: records, text: text, media: media, content: content, logger: logger}
}

// Analyze produces a complete draft or fails with domain.ErrUpstreamUnavailable.
// Content store failures additionally match domain.ErrStorageUnavailable.
func (s *Service) Analyze(ctx context.Context, in ports.AnalysisInput) (draft domain.Draft, err error) {
	ctx, span := tracer.Start(ctx, "analysis.analyze")
	span.SetAttributes(attribute.String("input.kind", string(in.Kind)))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "analysis failed")
		}
		span.End()
	}()

	switch in.Kind {
	case domain.InputText:
		return s.analyzeText(ctx, in.Content)
	case domain.InputFile:
		return s.analyzeFile(ctx, in.LocalPath)
	default:
		return domain.Draft{}, fmt.Errorf("%w: unknown input kind %q", domain.ErrValidation, in.Kind)
	}
}

func (s *Service) analyzeText(ctx context.Context, text string) (domain.Draft, error) {
	res, err := s.text.AnalyzeText(ctx, text)
	if err != nil {
		s.logger.WarnContext(ctx, "text analysis failed", "error", err)
		return domain.Draft{}, fmt.Errorf("%w: text analysis: %w", domain.ErrUpstreamUnavailable, err)
	}
	draft := NormalizeText(res)
	draft.InputKind = domain.InputText
	draft.OriginalContent = text
	return draft, nil
}

func (s *Service) analyzeFile(ctx context.Context, localPath string) (domain.Draft, error) {
	mediaURL, err := s.content.Upload(ctx, localPath)
	if err != nil {
		s.logger.WarnContext(ctx, "content upload failed", "error", err)
		if !errors.Is(err, domain.ErrStorageUnavailable) {
			err = fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err)
		}
		return domain.Draft{}, fmt.Errorf("%w: %w", domain.ErrUpstreamUnavailable, err)
	}
	if mediaURL == "" {
		return domain.Draft{}, fmt.Errorf("%w: %w: content store returned no url", domain.ErrUpstreamUnavailable, domain.ErrStorageUnavailable)
	}

	res, err := s.media.AnalyzeMedia(ctx, mediaURL)
	if err != nil {
		s.logger.WarnContext(ctx, "media analysis failed", "url", mediaURL, "error", err)
		return domain.Draft{}, fmt.Errorf("%w: media analysis: %w", domain.ErrUpstreamUnavailable, err)
	}
	draft := NormalizeMedia(res)
	draft.InputKind = domain.InputFile
	draft.OriginalContent = mediaURL
	return draft, nil
}

// Ingest analyzes the input and persists the resulting record. A failed
// analysis never reaches the store.
func (s *Service) Ingest(ctx context.Context, in ports.AnalysisInput) (domain.ThreatRecord, error) {
	draft, err := s.Analyze(ctx, in)
	if err != nil {
		return domain.ThreatRecord{}, err
	}
	rec, err := s.records.Create(ctx, draft)
	if err != nil {
		if !errors.Is(err, domain.ErrPersistence) {
			err = fmt.Errorf("%w: %w", domain.ErrPersistence, err)
		}
		return domain.ThreatRecord{}, err
	}
	s.logger.InfoContext(ctx, "threat record created", "id", rec.ID, "kind", rec.InputKind, "entities", len(rec.ThreatEntities))
	return rec, nil
}

// Get loads a persisted record by its external identifier.
func (s *Service) Get(ctx context.Context, rawID string) (domain.ThreatRecord, error) {
	id, err := domain.ParseRecordID(rawID)
	if err != nil {
		return domain.ThreatRecord{}, err
	}
	return s.records.GetByID(ctx, id)
}
