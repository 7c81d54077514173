package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	gochi "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/scgursel/kakule-katalog/internal/domain"
	"github.com/scgursel/kakule-katalog/internal/domain/category"
	"github.com/scgursel/kakule-katalog/internal/domain/product"
	"github.com/scgursel/kakule-katalog/internal/domain/search/filter"
	"github.com/scgursel/kakule-katalog/internal/domain/search/request"
	"github.com/scgursel/kakule-katalog/internal/domain/search/result"
	cataloguc "github.com/scgursel/kakule-katalog/internal/usecase/catalog"
	healthuc "github.com/scgursel/kakule-katalog/internal/usecase/health"
	searchuc "github.com/scgursel/kakule-katalog/internal/usecase/search"
)

// Error codes returned in ErrorResponse.Code.
const (
	CodeBadRequest        = "bad_request"
	CodeUnauthorized      = "unauthorized"
	CodeNotFound          = "not_found"
	CodeUnknownCategory   = "unknown_category"
	CodeSourceUnavailable = "source_unavailable"
	CodeInternalError     = "internal_error"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ProductListResponse wraps product listings.
type ProductListResponse struct {
	Items []product.Product `json:"items"`
	Total int               `json:"total"`
}

// SearchResultItem is one ranked product.
type SearchResultItem struct {
	Product product.Product `json:"product"`
	Score   int             `json:"score"`
}

// SearchResponse is returned by GET /search.
type SearchResponse struct {
	Query string             `json:"query"`
	Items []SearchResultItem `json:"items"`
	Total int                `json:"total"`
}

// CategoryListResponse is returned by GET /categories.
type CategoryListResponse struct {
	Items []category.Category `json:"items"`
}

// SuggestionsResponse is returned by GET /search/suggestions.
type SuggestionsResponse struct {
	Suggestions []string `json:"suggestions"`
}

// TagsResponse is returned by GET /tags/popular.
type TagsResponse struct {
	Tags []string `json:"tags"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Limits bounds the search page size.
type Limits struct {
	Default int
	Max     int
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the catalog HTTP API.
type Server struct {
	catalog       *cataloguc.Service
	search        *searchuc.Service
	health        *healthuc.Service
	limits        Limits
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. Zero limits fall back to the
// request package defaults.
func NewServer(
	catalog *cataloguc.Service,
	search *searchuc.Service,
	health *healthuc.Service,
	limits Limits,
	logger *zap.Logger,
) *Server {
	if limits.Default <= 0 {
		limits.Default = request.DefaultLimit
	}
	if limits.Max <= 0 || limits.Max > request.MaxLimit {
		limits.Max = request.MaxLimit
	}
	limits.Default = min(limits.Default, limits.Max)
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		catalog: catalog,
		search:  search,
		health:  health,
		limits:  limits,
		logger:  logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, CodeNotFound),
		sentinelHandler(domain.ErrUnknownCategory, http.StatusBadRequest, CodeUnknownCategory),
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, CodeBadRequest),
		sentinelHandler(domain.ErrRepositoryUnavailable, http.StatusServiceUnavailable, CodeSourceUnavailable),
	}
	return s
}

// Register mounts the API routes on r.
func (s *Server) Register(r gochi.Router) {
	r.Get("/products", s.ListProducts)
	r.Get("/products/code/{code}", s.GetProductByCode)
	r.Get("/products/{id}", s.GetProduct)
	r.Get("/categories", s.ListCategories)
	r.Get("/categories/{id}/products", s.ListCategoryProducts)
	r.Get("/search", s.Search)
	r.Get("/search/suggestions", s.Suggestions)
	r.Get("/tags/popular", s.PopularTags)
	r.Post("/cache/invalidate", s.InvalidateCache)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, CodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, CodeBadRequest, "method not allowed")
	})
}

// ListProducts handles GET /products.
func (s *Server) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	featured, err := parseBool(q.Get("featured"))
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "featured must be a boolean")
		return
	}

	var items []product.Product
	if c := q.Get("category"); c != "" {
		items, err = s.catalog.ByCategory(r.Context(), c)
	} else {
		items, err = s.catalog.All(r.Context())
	}
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	if featured {
		kept := items[:0:0]
		for i := range items {
			if items[i].Featured {
				kept = append(kept, items[i])
			}
		}
		items = kept
	}
	writeJSON(w, http.StatusOK, productList(items))
}

// GetProduct handles GET /products/{id}.
func (s *Server) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := s.catalog.ByID(r.Context(), gochi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// GetProductByCode handles GET /products/code/{code}.
func (s *Server) GetProductByCode(w http.ResponseWriter, r *http.Request) {
	p, err := s.catalog.ByCode(r.Context(), gochi.URLParam(r, "code"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// ListCategories handles GET /categories.
func (s *Server) ListCategories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, CategoryListResponse{Items: s.catalog.Categories()})
}

// ListCategoryProducts handles GET /categories/{id}/products. An unknown
// category is a missing resource here, not a bad filter.
func (s *Server) ListCategoryProducts(w http.ResponseWriter, r *http.Request) {
	items, err := s.catalog.ByCategory(r.Context(), gochi.URLParam(r, "id"))
	if errors.Is(err, domain.ErrUnknownCategory) {
		writeError(w, http.StatusNotFound, CodeUnknownCategory, domain.ErrUnknownCategory.Error())
		return
	}
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, productList(items))
}

// Search handles GET /search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filters, err := filtersFromQuery(q.Get)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}

	limit, err := s.limit(q.Get("limit"))
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}

	req, err := request.New(q.Get("q"), filters, limit)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownCategory) {
			s.handleDomainError(w, err)
			return
		}
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}

	results, err := s.search.Search(r.Context(), &req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]SearchResultItem, len(results))
	for i := range results {
		items[i] = searchResultToResponse(&results[i])
	}
	writeJSON(w, http.StatusOK, SearchResponse{
		Query: req.Query(),
		Items: items,
		Total: len(items),
	})
}

// Suggestions handles GET /search/suggestions.
func (s *Server) Suggestions(w http.ResponseWriter, r *http.Request) {
	tags, err := s.search.Suggest(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SuggestionsResponse{Suggestions: tags})
}

// PopularTags handles GET /tags/popular.
func (s *Server) PopularTags(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, CodeBadRequest, "limit must be an integer")
			return
		}
		if n <= 0 {
			writeJSON(w, http.StatusOK, TagsResponse{Tags: []string{}})
			return
		}
		limit = n
	}

	tags, err := s.search.PopularTags(r.Context(), limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, TagsResponse{Tags: tags})
}

// InvalidateCache handles POST /cache/invalidate.
func (s *Server) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.InvalidateCache(r.Context()); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func (s *Server) limit(raw string) (int, error) {
	if raw == "" {
		return s.limits.Default, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, errors.New("limit must be a positive integer")
	}
	return min(n, s.limits.Max), nil
}

func filtersFromQuery(get func(string) string) (filter.Set, error) {
	f := filter.Set{
		Category: strings.TrimSpace(get("category")),
		Color:    strings.TrimSpace(get("color")),
		Material: strings.TrimSpace(get("material")),
	}

	if raw := get("availability"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return filter.Set{}, errors.New("availability must be a boolean")
		}
		f.Availability = filter.Bool(v)
	}

	featured, err := parseBool(get("featured"))
	if err != nil {
		return filter.Set{}, errors.New("featured must be a boolean")
	}
	f.Featured = featured
	return f, nil
}

func parseBool(raw string) (bool, error) {
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, err //nolint:wrapcheck // callers replace the message
	}
	return v, nil
}

func productList(items []product.Product) ProductListResponse {
	if items == nil {
		items = []product.Product{}
	}
	return ProductListResponse{Items: items, Total: len(items)}
}

func searchResultToResponse(r *result.Result) SearchResultItem {
	return SearchResultItem{Product: r.Product(), Score: r.Score()}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrNotFound,
		domain.ErrUnknownCategory,
		domain.ErrInvalidRequest,
		domain.ErrRepositoryUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
