package httpadapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	api "threatledger/internal/api"
	"threatledger/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func errorEnvelope(status int, message string, details ...string) api.ErrorEnvelope {
	if details == nil {
		details = []string{}
	}
	return api.ErrorEnvelope{StatusCode: status, Success: false, Message: message, Errors: details}
}

func recordEnvelope(status int, message string, rec domain.ThreatRecord) api.RecordEnvelope {
	return api.RecordEnvelope{StatusCode: status, Data: toAPIRecord(rec), Message: message, Success: true}
}

// writeError maps the domain taxonomy onto status codes. Order matters: an
// error may match more than one kind.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		status  int
		message string
		details []string
	)
	var attestErr *domain.AttestationPersistenceError
	switch {
	case errors.As(err, &attestErr):
		status, message = http.StatusInternalServerError, "ledger transaction written but not recorded"
		details = []string{attestErr.TransactionID}
	case errors.Is(err, domain.ErrStorageUnavailable):
		status, message = http.StatusInternalServerError, "content storage unavailable"
	case errors.Is(err, domain.ErrInvalidIdentifier):
		status, message = http.StatusBadRequest, "invalid record id"
	case errors.Is(err, domain.ErrRecordNotFound):
		status, message = http.StatusNotFound, "record not found"
	case errors.Is(err, domain.ErrAlreadyAttested):
		status, message = http.StatusBadRequest, "record already shared on chain"
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		status, message = http.StatusBadGateway, "analysis service unavailable"
	case errors.Is(err, domain.ErrAttestationUnavailable):
		status, message = http.StatusBadGateway, "ledger unavailable"
	case errors.Is(err, domain.ErrPersistence):
		status, message = http.StatusInternalServerError, "record could not be saved"
	case errors.Is(err, domain.ErrValidation):
		status, message = http.StatusBadRequest, "invalid request"
		details = []string{validationDetail(err)}
	default:
		status, message = http.StatusInternalServerError, "internal server error"
	}

	level := s.logger.Warn
	if status >= http.StatusInternalServerError {
		level = s.logger.Error
	}
	level("request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", middleware.GetReqID(r.Context()),
		"status", status,
		"error", err,
	)
	writeJSON(w, status, errorEnvelope(status, message, details...))
}

// validationDetail drops the sentinel prefix so only the caller-facing
// description is returned.
func validationDetail(err error) string {
	msg := err.Error()
	if i := strings.LastIndex(msg, domain.ErrValidation.Error()+": "); i >= 0 {
		return msg[i+len(domain.ErrValidation.Error())+2:]
	}
	return msg
}

func validText(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: text must be a non-empty string", domain.ErrValidation)
	}
	return text, nil
}

func toAPIRecord(rec domain.ThreatRecord) api.ThreatRecord {
	entities := make([]api.ThreatEntity, 0, len(rec.ThreatEntities))
	for _, e := range rec.ThreatEntities {
		entities = append(entities, api.ThreatEntity{Name: e.Name, Type: e.Type, Count: e.Count, Score: e.Score})
	}
	var graph api.ThreatGraph
	if !rec.ThreatGraph.Empty() {
		nodes := make([]api.GraphNode, 0, len(rec.ThreatGraph.Nodes))
		for _, n := range rec.ThreatGraph.Nodes {
			nodes = append(nodes, api.GraphNode{Id: n.ID, Label: n.Label, Value: n.Value})
		}
		edges := make([]api.GraphEdge, 0, len(rec.ThreatGraph.Edges))
		for _, e := range rec.ThreatGraph.Edges {
			edges = append(edges, api.GraphEdge{From: e.From, To: e.To})
		}
		graph = api.ThreatGraph{Nodes: &nodes, Edges: &edges}
	}
	return api.ThreatRecord{
		Id:                      rec.ID,
		InputKind:               api.ThreatRecordInputKind(rec.InputKind),
		OriginalContent:         rec.OriginalContent,
		AiDetectionScore:        rec.AIDetectionScore,
		ThreatEntities:          entities,
		ThreatGraph:             graph,
		IsSharedOnChain:         rec.IsSharedOnChain,
		BlockchainTransactionId: rec.BlockchainTransactionID,
		CreatedAt:               rec.CreatedAt,
		UpdatedAt:               rec.UpdatedAt,
	}
}
