package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/xiaot623/docchat/config"
	"github.com/xiaot623/docchat/internal/adapter/llm"
	"github.com/xiaot623/docchat/internal/domain"
	"github.com/xiaot623/docchat/internal/service"
	transport "github.com/xiaot623/docchat/internal/transport/http"
	"github.com/xiaot623/docchat/tests/helpers"
)

func TestConversationFlow(t *testing.T) {
	history := helpers.NewTestHistory(t)
	cfg := &config.Config{LLMMaxRetries: 3, LLMRetryDelay: 0, LLMMaxConcurrent: 2}
	svc := service.New(history, llm.NewMockClient(), cfg)
	e := transport.NewServer(svc, []string{"*"})

	var sessionID string

	t.Run("Create Session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/session/new", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp map[string]string
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		sessionID = resp["session_id"]
		assert.NotEmpty(t, sessionID)
	})

	t.Run("First Turn", func(t *testing.T) {
		body, _ := json.Marshal(domain.ChatRequest{
			Message:   "What does the report cover?",
			SessionID: sessionID,
			UserID:    "u1",
		})
		req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp domain.ChatResponse
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, sessionID, resp.SessionID)
		assert.Contains(t, resp.Response, "What does the report cover?")
	})

	t.Run("History Shows Both Rows", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/session/"+sessionID+"/history", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Messages  []domain.HistoryMessage `json:"messages"`
			SessionID string                  `json:"session_id"`
		}
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, sessionID, resp.SessionID)
		if assert.Len(t, resp.Messages, 2) {
			assert.Equal(t, domain.RoleUser, resp.Messages[0].Role)
			assert.Equal(t, domain.RoleAssistant, resp.Messages[1].Role)
		}
	})

	t.Run("Session Info Counts Rows", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/session/"+sessionID+"/info", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			SessionID    string `json:"session_id"`
			StoreEnabled bool   `json:"store_enabled"`
			MessageCount int    `json:"message_count"`
		}
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.StoreEnabled)
		assert.Equal(t, 2, resp.MessageCount)
	})

	t.Run("Clear Keeps Rows", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/session/"+sessionID+"/clear", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Success bool `json:"success"`
		}
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Success)

		infoReq := httptest.NewRequest(http.MethodGet, "/session/"+sessionID+"/info", nil)
		infoRec := httptest.NewRecorder()
		e.ServeHTTP(infoRec, infoReq)

		var info struct {
			MessageCount int `json:"message_count"`
		}
		assert.NoError(t, json.Unmarshal(infoRec.Body.Bytes(), &info))
		assert.Equal(t, 2, info.MessageCount)
	})

	t.Run("User History Across Sessions", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/user/u1/history", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Messages []domain.HistoryMessage `json:"messages"`
			UserID   string                  `json:"user_id"`
		}
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "u1", resp.UserID)
		// Both rows of the turn are stored under the requesting user.
		assert.Len(t, resp.Messages, 2)
	})
}
