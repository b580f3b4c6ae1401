package webapi

import (
	"net/http"

	"privacyguard/logger"
)

// handleCatalogStatus 查询追踪器目录状态
func (s *Server) handleCatalogStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeJSONError(w, "Invalid request method", http.StatusMethodNotAllowed)
		return
	}
	s.writeJSONSuccess(w, "Catalog status retrieved successfully", s.catalog.GetStatus())
}

// handleCatalogUpdate 强制更新追踪器目录
func (s *Server) handleCatalogUpdate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeJSONError(w, "Invalid request method", http.StatusMethodNotAllowed)
		return
	}

	result, err := s.catalog.Update(r.Context(), true)
	if err != nil {
		logger.Errorf("[catalog] forced update failed: %v", err)
		s.writeJSONError(w, "Catalog update failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	s.writeJSONSuccess(w, "Catalog updated", result)
}

// handleCatalogTest 测试一个主机名是否会命中目录
func (s *Server) handleCatalogTest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeJSONError(w, "Invalid request method", http.StatusMethodNotAllowed)
		return
	}

	host := r.URL.Query().Get("host")
	if host == "" {
		s.writeJSONError(w, "Missing host", http.StatusBadRequest)
		return
	}

	matched, domain := s.catalog.CheckHost(host)
	s.writeJSONSuccess(w, "Catalog test completed", map[string]interface{}{
		"host":    host,
		"matched": matched,
		"domain":  domain,
	})
}
