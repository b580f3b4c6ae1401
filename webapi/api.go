package webapi

import (
	"context"
	"fmt"
	"net/http"

	"privacyguard/catalog"
	"privacyguard/config"
	"privacyguard/logger"
	"privacyguard/session"
	"privacyguard/stats"
)

// APIResponse 统一的 API 响应格式
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Server Web API 服务器
type Server struct {
	cfg      *config.Config
	sessions *session.Manager
	catalog  *catalog.Manager
	lists    *catalog.UserLists
	stats    *stats.Stats
	listener http.Server
}

// NewServer 创建新的 Web API 服务器
func NewServer(cfg *config.Config, sessions *session.Manager, cat *catalog.Manager, lists *catalog.UserLists, st *stats.Stats) *Server {
	return &Server{
		cfg:      cfg,
		sessions: sessions,
		catalog:  cat,
		lists:    lists,
		stats:    st,
	}
}

// Start 启动 Web API 服务
func (s *Server) Start() error {
	if !s.cfg.WebUI.Enabled {
		logger.Infof("WebAPI is disabled")
		return nil
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/api/session/open", s.handleSessionOpen)
	mux.HandleFunc("/api/session/navigate", s.handleSessionNavigate)
	mux.HandleFunc("/api/session/close", s.handleSessionClose)
	mux.HandleFunc("/api/session/stats", s.handleSessionStats)

	mux.HandleFunc("/api/lists", s.handleLists)

	mux.HandleFunc("/api/catalog/status", s.handleCatalogStatus)
	mux.HandleFunc("/api/catalog/update", s.handleCatalogUpdate)
	mux.HandleFunc("/api/catalog/test", s.handleCatalogTest)

	mux.HandleFunc("/api/stats", s.handleStats)
	mux.HandleFunc("/api/stats/clear", s.handleClearStats)
	mux.HandleFunc("/health", s.handleHealth)

	s.listener = http.Server{
		Addr:    fmt.Sprintf(":%d", s.cfg.WebUI.ListenPort),
		Handler: s.corsMiddleware(mux),
	}

	logger.Infof("Web API server started on http://localhost:%d", s.cfg.WebUI.ListenPort)
	return s.listener.ListenAndServe()
}

// Shutdown 关闭 Web API 服务
func (s *Server) Shutdown(ctx context.Context) error {
	return s.listener.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSONSuccess(w, "ok", map[string]interface{}{
		"sessions":      s.sessions.Len(),
		"catalog_rules": s.catalog.Count(),
	})
}
