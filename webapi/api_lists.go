package webapi

import (
	"encoding/json"
	"net/http"

	"privacyguard/logger"
)

// handleLists 读取或整体替换用户的屏蔽/放行名单
func (s *Server) handleLists(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		blocklist, allowlist := s.lists.Entries()
		s.writeJSONSuccess(w, "User lists retrieved successfully", map[string]interface{}{
			"blocklist": blocklist,
			"allowlist": allowlist,
		})

	case http.MethodPut:
		var payload struct {
			Blocklist []string `json:"blocklist"`
			Allowlist []string `json:"allowlist"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			s.writeJSONError(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		rejected := s.lists.Set(payload.Blocklist, payload.Allowlist)
		if len(rejected) > 0 {
			logger.Warnf("[lists] rejected %d invalid entries: %v", len(rejected), rejected)
		}
		s.writeJSONSuccess(w, "User lists updated", map[string]interface{}{
			"rejected": rejected,
		})

	default:
		s.writeJSONError(w, "Invalid request method", http.StatusMethodNotAllowed)
	}
}
