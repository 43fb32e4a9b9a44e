package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Nexo9/hermes-news-hub-sub001/internal/db"
	"github.com/Nexo9/hermes-news-hub-sub001/internal/middleware"
	"github.com/Nexo9/hermes-news-hub-sub001/internal/models"
	"github.com/Nexo9/hermes-news-hub-sub001/internal/search"
)

// Ingester — конвейер, обслуживающий запросы загрузки и поиска.
type Ingester interface {
	Run(ctx context.Context) models.IngestResult
	Search(ctx context.Context, query string, synthesize bool) models.SearchResult
}

// Server хранит зависимости HTTP-обработчиков: конвейер и БД.
type Server struct {
	pipeline Ingester
	db       *db.Database
}

// NewServer создаёт новый экземпляр Server.
func NewServer(pipeline Ingester, database *db.Database) *Server {
	return &Server{pipeline: pipeline, db: database}
}

// Routes собирает маршруты и оборачивает их в middleware.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/ingest", s.HandleIngest)
	mux.HandleFunc("POST /api/search", s.HandleSearch)
	mux.HandleFunc("GET /api/news/{limit}", s.GetNews)
	mux.HandleFunc("GET /health", s.HealthCheck)
	mux.Handle("GET /metrics", promhttp.Handler())

	handler := middleware.RequestID(mux)
	handler = middleware.CORS(handler)
	handler = middleware.Logging(handler)
	return handler
}

// HandleIngest запускает прогон конвейера и возвращает его итог.
// Ответ всегда 200: вердикт несёт флаг success, а не HTTP-статус.
func (s *Server) HandleIngest(w http.ResponseWriter, r *http.Request) {
	result := s.pipeline.Run(r.Context())
	writeJSON(w, http.StatusOK, result)
}

type searchRequest struct {
	Query      string `json:"query"`
	Synthesize bool   `json:"synthesize"`
}

type searchResponse struct {
	Success bool `json:"success"`
	models.SearchResult
}

// HandleSearch проверяет запрос и выполняет поиск по всем источникам.
// Слишком короткий запрос отклоняется до каких-либо сетевых обращений.
func (s *Server) HandleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	query := strings.TrimSpace(req.Query)
	if len([]rune(query)) < search.MinQueryLen {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Query too short"})
		return
	}

	result := s.pipeline.Search(r.Context(), query, req.Synthesize)
	writeJSON(w, http.StatusOK, searchResponse{Success: true, SearchResult: result})
}

// GetNews возвращает JSON-массив последних limit синтезированных новостей.
func (s *Server) GetNews(w http.ResponseWriter, r *http.Request) {
	limit, err := strconv.Atoi(r.PathValue("limit"))
	if err != nil || limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	news, err := s.db.ListNews(r.Context(), limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if news == nil {
		news = []models.News{}
	}
	writeJSON(w, http.StatusOK, news)
}

// HealthCheck отвечает 200 OK, если база доступна, иначе 503.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Pool.Ping(r.Context()); err != nil {
		http.Error(w, "DB unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Write([]byte("OK"))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
