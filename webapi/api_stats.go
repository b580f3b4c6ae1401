package webapi

import (
	"net/http"
)

// handleStats 查询进程级统计
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeJSONError(w, "Invalid request method", http.StatusMethodNotAllowed)
		return
	}
	s.writeJSONSuccess(w, "Stats retrieved successfully", s.stats.GetStats())
}

// handleClearStats 清空进程级统计
func (s *Server) handleClearStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeJSONError(w, "Invalid request method", http.StatusMethodNotAllowed)
		return
	}
	s.stats.Reset()
	s.writeJSONSuccess(w, "Stats cleared", nil)
}
