package server

import (
	"encoding/json"
	"net/http"

	"github.com/abhimanyu-1/Shibu-App/interview"
	"github.com/abhimanyu-1/Shibu-App/session"
	"github.com/abhimanyu-1/Shibu-App/speech"
)

type startRequest struct {
	SessionID  string `json:"session_id"`
	Name       string `json:"name"`
	Domain     string `json:"domain"`
	Age        string `json:"age"`
	Experience string `json:"experience"`
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// replyResponse is the shared response shape for start and chat. Audio is a
// base64 string or null; question_count and is_finished appear only when the
// reply carries them.
type replyResponse struct {
	Reply         string  `json:"reply"`
	Audio         *string `json:"audio"`
	IsFinished    *bool   `json:"is_finished,omitempty"`
	QuestionCount *int    `json:"question_count,omitempty"`
}

type healthResponse struct {
	Status    string `json:"status"`
	RAGStatus string `json:"rag_status"`
}

// fieldError describes one invalid or missing request field.
type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type validationResponse struct {
	Detail []fieldError `json:"detail"`
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidation(w, []fieldError{{Field: "body", Message: "invalid JSON"}})
		return
	}

	var errs []fieldError
	for _, f := range []struct{ name, value string }{
		{"session_id", req.SessionID},
		{"name", req.Name},
		{"domain", req.Domain},
		{"age", req.Age},
		{"experience", req.Experience},
	} {
		if f.value == "" {
			errs = append(errs, fieldError{Field: f.name, Message: "field required"})
		}
	}
	if len(errs) > 0 {
		writeValidation(w, errs)
		return
	}

	reply := s.interviewer.Start(r.Context(), req.SessionID, session.Profile{
		Name:       req.Name,
		Domain:     req.Domain,
		Age:        req.Age,
		Experience: req.Experience,
	})
	writeJSON(w, http.StatusOK, toResponse(reply, false))
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidation(w, []fieldError{{Field: "body", Message: "invalid JSON"}})
		return
	}

	var errs []fieldError
	if req.SessionID == "" {
		errs = append(errs, fieldError{Field: "session_id", Message: "field required"})
	}
	if req.Message == "" {
		errs = append(errs, fieldError{Field: "message", Message: "field required"})
	}
	if len(errs) > 0 {
		writeValidation(w, errs)
		return
	}

	reply := s.interviewer.Chat(r.Context(), req.SessionID, req.Message)
	writeJSON(w, http.StatusOK, toResponse(reply, true))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		RAGStatus: s.interviewer.RAGStatus(),
	})
}

func toResponse(reply interview.Reply, chat bool) replyResponse {
	resp := replyResponse{Reply: reply.Text}
	if reply.Audio.Source != speech.SourceNone {
		encoded := reply.Audio.Base64()
		resp.Audio = &encoded
	}
	if chat {
		if reply.Finished {
			finished := true
			resp.IsFinished = &finished
		}
		if reply.QuestionCount > 0 {
			count := reply.QuestionCount
			resp.QuestionCount = &count
		}
	}
	return resp
}

func writeValidation(w http.ResponseWriter, errs []fieldError) {
	writeJSON(w, http.StatusUnprocessableEntity, validationResponse{Detail: errs})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
