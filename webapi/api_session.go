package webapi

import (
	"encoding/json"
	"net/http"

	"github.com/c2h5oh/datasize"

	"privacyguard/session"
)

// sessionStatsView 会话快照的 API 视图，附带便于展示的存储占用
type sessionStatsView struct {
	session.Session
	StorageHuman storageHuman `json:"storage_human"`
}

type storageHuman struct {
	LocalBytes   string `json:"local_bytes"`
	SessionBytes string `json:"session_bytes"`
}

// handleSessionStats 查询会话统计快照
func (s *Server) handleSessionStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeJSONError(w, "Invalid request method", http.StatusMethodNotAllowed)
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		s.writeJSONError(w, "Missing session id", http.StatusBadRequest)
		return
	}

	snap, ok := s.sessions.Stats(id)
	if !ok {
		s.writeJSONError(w, "Unknown session id", http.StatusNotFound)
		return
	}

	view := sessionStatsView{
		Session: snap,
		StorageHuman: storageHuman{
			LocalBytes:   datasize.ByteSize(snap.Storage.Local.Bytes).HumanReadable(),
			SessionBytes: datasize.ByteSize(snap.Storage.Session.Bytes).HumanReadable(),
		},
	}
	s.writeJSONSuccess(w, "Session stats retrieved successfully", view)
}

// handleSessionOpen 创建会话
func (s *Server) handleSessionOpen(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeJSONError(w, "Invalid request method", http.StatusMethodNotAllowed)
		return
	}

	var payload struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	id := s.sessions.Open(payload.URL)
	s.writeJSONSuccess(w, "Session opened", map[string]string{"id": id})
}

// handleSessionNavigate 导航到新页面，重置会话状态
func (s *Server) handleSessionNavigate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeJSONError(w, "Invalid request method", http.StatusMethodNotAllowed)
		return
	}

	var payload struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if payload.ID == "" {
		s.writeJSONError(w, "Missing session id", http.StatusBadRequest)
		return
	}

	s.sessions.Navigate(payload.ID, payload.URL)
	s.writeJSONSuccess(w, "Session navigated", nil)
}

// handleSessionClose 销毁会话
func (s *Server) handleSessionClose(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeJSONError(w, "Invalid request method", http.StatusMethodNotAllowed)
		return
	}

	var payload struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	s.sessions.Close(payload.ID)
	s.writeJSONSuccess(w, "Session closed", nil)
}
