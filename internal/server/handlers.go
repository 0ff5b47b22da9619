package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"newslens/internal/categorization"
	"newslens/internal/clustering"
	"newslens/internal/core"
	"newslens/internal/logger"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 64 << 20

var errBatchTooLarge = errors.New("batch too large")

// HealthResponse is returned by /health
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// ClusterRequest is the body of POST /api/clusters
type ClusterRequest struct {
	Articles []core.Article `json:"articles"`
}

// ClusterResponse is the result of POST /api/clusters
type ClusterResponse struct {
	Articles []core.ClusteredArticle `json:"articles"`
	Summary  []core.ClusterSummary   `json:"summary"`
	Windows  int                     `json:"windows"`
	Dropped  int                     `json:"dropped"`
	Noise    int                     `json:"noise"`
}

// IssuesRequest is the body of POST /api/issues. Articles are filtered by
// period and category when both dates are set, otherwise by category only.
// With no articles the period is loaded from the repository.
type IssuesRequest struct {
	Articles []core.Article `json:"articles"`
	Start    string         `json:"start,omitempty"` // YYYY-MM-DD
	End      string         `json:"end,omitempty"`   // YYYY-MM-DD
	Category string         `json:"category,omitempty"`
}

// IssuesResponse is the result of POST /api/issues
type IssuesResponse struct {
	Issues     map[string][]string `json:"issues"`
	Ordered    []core.Issue        `json:"ordered"`
	Documents  int                 `json:"documents"`
	Vocabulary int                 `json:"vocabulary"`
}

// ErrorResponse is the body of every error reply
type ErrorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{"database": "disabled"}

	if s.deps.Repo != nil {
		if err := s.deps.Repo.Ping(r.Context()); err != nil {
			checks["database"] = "error"
			s.respondJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "unhealthy", Checks: checks})
			return
		}
		checks["database"] = "ok"
	}

	s.respondJSON(w, http.StatusOK, HealthResponse{Status: "ok", Checks: checks})
}

func (s *Server) handleClusters(w http.ResponseWriter, r *http.Request) {
	if s.deps.Clusterer == nil {
		s.respondError(w, http.StatusServiceUnavailable, "clustering is not configured")
		return
	}

	var req ClusterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.deps.Clusterer.ClusterArticles(r.Context(), req.Articles)
	if err != nil {
		logger.Error("Clustering request failed", err, "articles", len(req.Articles))
		s.respondError(w, http.StatusBadGateway, err.Error())
		return
	}

	articles := result.Articles
	if articles == nil {
		articles = []core.ClusteredArticle{}
	}
	s.respondJSON(w, http.StatusOK, ClusterResponse{
		Articles: articles,
		Summary:  clustering.AnalyzeClusters(result.Articles),
		Windows:  result.Windows,
		Dropped:  result.Dropped,
		Noise:    result.Noise,
	})
}

func (s *Server) handleIssues(w http.ResponseWriter, r *http.Request) {
	if s.deps.Extractor == nil {
		s.respondError(w, http.StatusServiceUnavailable, "issue extraction is not configured")
		return
	}

	var req IssuesRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	articles, status, err := s.issueBatch(r, req)
	if err != nil {
		s.respondError(w, status, err.Error())
		return
	}

	result, err := s.deps.Extractor.ExtractIssues(r.Context(), articles)
	if err != nil {
		logger.Error("Issue request failed", err, "articles", len(articles))
		s.respondError(w, http.StatusBadGateway, err.Error())
		return
	}

	ordered := result.Issues
	if ordered == nil {
		ordered = []core.Issue{}
	}
	s.respondJSON(w, http.StatusOK, IssuesResponse{
		Issues:     result.Map(),
		Ordered:    ordered,
		Documents:  result.Documents,
		Vocabulary: result.Vocabulary,
	})
}

// issueBatch resolves the filtered articles of a request and the HTTP status
// to answer with when that fails.
func (s *Server) issueBatch(r *http.Request, req IssuesRequest) ([]core.Article, int, error) {
	hasPeriod := req.Start != "" || req.End != ""

	var filter categorization.Filter
	if hasPeriod {
		if req.Start == "" || req.End == "" {
			return nil, http.StatusBadRequest, fmt.Errorf("both start and end are required for a period filter")
		}
		f, err := categorization.ParseFilter(req.Start, req.End, req.Category)
		if err != nil {
			return nil, http.StatusBadRequest, err
		}
		filter = f
	}

	var articles []core.Article
	switch {
	case len(req.Articles) > 0 && hasPeriod:
		articles = s.deps.Hierarchy.FilterArticles(req.Articles, filter)
	case len(req.Articles) > 0:
		for _, a := range req.Articles {
			if req.Category == "" || s.deps.Hierarchy.Matches(req.Category, a.Category) {
				articles = append(articles, a)
			}
		}
	case s.deps.Repo == nil:
		return nil, http.StatusBadRequest, fmt.Errorf("articles are required when no database is configured")
	case !hasPeriod:
		return nil, http.StatusBadRequest, fmt.Errorf("start and end are required to load articles from the database")
	default:
		var categories []string
		if req.Category != "" {
			categories = s.deps.Hierarchy.Subcategories(req.Category)
		}
		stored, err := s.deps.Repo.ListByPeriod(r.Context(), filter.Start, filter.End, categories)
		if err != nil {
			logger.Error("Failed to load articles", err, "start", req.Start, "end", req.End)
			return nil, http.StatusInternalServerError, fmt.Errorf("failed to load articles: %w", err)
		}
		articles = stored
	}

	if s.deps.MaxBatch > 0 && len(articles) > s.deps.MaxBatch {
		return nil, http.StatusRequestEntityTooLarge,
			fmt.Errorf("%w: %d articles, limit %d", errBatchTooLarge, len(articles), s.deps.MaxBatch)
	}
	return articles, http.StatusOK, nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// respondJSON writes a JSON response
func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Failed to encode JSON response", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, ErrorResponse{Error: message})
}
