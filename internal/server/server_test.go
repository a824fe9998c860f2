package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/minhtn/ragchat/internal/answerer"
	"github.com/minhtn/ragchat/internal/history"
)

type stubAsker struct {
	result *answerer.Result
	err    error
}

func (s *stubAsker) Ask(ctx context.Context, question string) (*answerer.Result, error) {
	if s.err != nil {
		return nil, s.err
	}
	r := *s.result
	r.Question = question
	return &r, nil
}

func newTestServer(t *testing.T, asker Asker) (*Server, *history.Store) {
	t.Helper()
	hist := history.Open(filepath.Join(t.TempDir(), "history.db"))
	t.Cleanup(func() { hist.Close() })
	return New(asker, hist), hist
}

func TestHandleAsk(t *testing.T) {
	asker := &stubAsker{result: &answerer.Result{
		Answer:     "Tuyên Quang được hình thành từ Hà Giang.",
		Context:    []string{"doc"},
		Confidence: 1,
		Provider:   "gemini",
	}}
	srv, hist := newTestServer(t, asker)

	body := `{"question":"Tuyên Quang?","session_id":"s1"}`
	req := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp QueryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "Tuyên Quang?", resp.Question)
	require.Equal(t, "Tuyên Quang được hình thành từ Hà Giang.", resp.Answer)
	require.Equal(t, "gemini", resp.LLMProvider)
	require.Equal(t, float64(1), resp.Confidence)
	require.Equal(t, "s1", resp.SessionID, "a provided session id is echoed back")

	msgs := hist.List("s1")
	require.Len(t, msgs, 2)
	require.Equal(t, "user", msgs[0].Role)
	require.Equal(t, "bot", msgs[1].Role)
}

func TestHandleAsk_GeneratedSessionIsRetrievable(t *testing.T) {
	asker := &stubAsker{result: &answerer.Result{Answer: "a", Confidence: 1, Provider: "gemini"}}
	srv, _ := newTestServer(t, asker)
	h := srv.Handler()

	// No session_id in the request: the handler generates one and must
	// reveal it, or the stored transcript is unreachable.
	req := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(`{"question":"q"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp QueryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.SessionID, "response must reveal the session id the transcript was stored under")

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/history?session="+resp.SessionID, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var msgs []history.Message
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msgs))
	require.Len(t, msgs, 2)

	// A follow-up question resent with that id extends the same session.
	body := `{"question":"q2","session_id":"` + resp.SessionID + `"}`
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/history?session="+resp.SessionID, nil))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msgs))
	require.Len(t, msgs, 4)
}

func TestHandleAsk_EmptyQuestion(t *testing.T) {
	srv, _ := newTestServer(t, &stubAsker{result: &answerer.Result{}})

	req := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(`{"question":"   "}`))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleAsk_InvalidBody(t *testing.T) {
	srv, _ := newTestServer(t, &stubAsker{result: &answerer.Result{}})

	req := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader("not json"))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleAsk_AskerError(t *testing.T) {
	srv, _ := newTestServer(t, &stubAsker{err: errors.New("fuseki down")})

	req := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(`{"question":"q"}`))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotContains(t, rec.Body.String(), "fuseki", "internal detail must not leak to clients")
}

func TestHandleHistory(t *testing.T) {
	srv, hist := newTestServer(t, &stubAsker{result: &answerer.Result{}})
	hist.Save(history.Message{SessionID: "s1", Role: "user", Content: "hi"})

	req := httptest.NewRequest(http.MethodGet, "/history?session=s1", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var msgs []history.Message
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msgs))
	require.Len(t, msgs, 1)
	require.Equal(t, "hi", msgs[0].Content)
}

func TestHandleHistory_MissingSession(t *testing.T) {
	srv, _ := newTestServer(t, &stubAsker{result: &answerer.Result{}})

	req := httptest.NewRequest(http.MethodGet, "/history", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestIndexAndStatic(t *testing.T) {
	srv, _ := newTestServer(t, &stubAsker{result: &answerer.Result{}})
	h := srv.Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Chatbot")

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/chat.js", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "submitQuestion")
}
