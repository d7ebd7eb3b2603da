package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liliang-cn/askclinic/internal/domain"
)

type stubService struct {
	result  *domain.ChatResult
	err     error
	queries []string
	logs    []domain.LogQueryRequest
}

func (s *stubService) Chat(_ context.Context, query string) (*domain.ChatResult, error) {
	s.queries = append(s.queries, query)
	return s.result, s.err
}

func (s *stubService) LogClient(_ context.Context, query, status string) {
	s.logs = append(s.logs, domain.LogQueryRequest{Query: query, Status: status})
}

func newRouter(svc Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r)
	return r
}

func post(r http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) domain.ChatResponse {
	t.Helper()
	var resp domain.ChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestChat(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		result     *domain.ChatResult
		err        error
		wantStatus int
		wantResp   string
		wantSrcs   []domain.Source
	}{
		{
			name: "answered",
			body: `{"query":"What are implants?"}`,
			result: &domain.ChatResult{
				Outcome: domain.OutcomeAnswered,
				Text:    "Implants replace teeth.",
				Sources: []domain.Source{{URL: "https://clinic.test/en/implants"}},
			},
			wantStatus: http.StatusOK,
			wantResp:   "Implants replace teeth.",
			wantSrcs:   []domain.Source{{URL: "https://clinic.test/en/implants"}},
		},
		{
			name:       "no context",
			body:       `{"query":"¿Precio?"}`,
			result:     &domain.ChatResult{Outcome: domain.OutcomeNoContext, Text: domain.Refusal("es")},
			wantStatus: http.StatusOK,
			wantResp:   domain.Refusal("es"),
			wantSrcs:   []domain.Source{},
		},
		{
			name:       "empty query",
			body:       `{"query":"  "}`,
			err:        domain.ErrEmptyQuery,
			wantStatus: http.StatusBadRequest,
			wantResp:   MsgInvalidQuery,
			wantSrcs:   []domain.Source{},
		},
		{
			name:       "malformed body",
			body:       `{not json`,
			err:        domain.ErrEmptyQuery,
			wantStatus: http.StatusBadRequest,
			wantResp:   MsgInvalidQuery,
			wantSrcs:   []domain.Source{},
		},
		{
			name:       "not initialized",
			body:       `{"query":"hi"}`,
			err:        errors.Join(domain.ErrNotInitialized, errors.New("no key")),
			wantStatus: http.StatusServiceUnavailable,
			wantResp:   MsgNotInitialized,
			wantSrcs:   []domain.Source{},
		},
		{
			name:       "internal failure",
			body:       `{"query":"hi"}`,
			err:        domain.NewStageError(domain.StageRetrieve, errors.New("connection refused")),
			wantStatus: http.StatusInternalServerError,
			wantResp:   msgInternalPrefix + "retrieve failed (unknown): connection refused",
			wantSrcs:   []domain.Source{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubService{result: tt.result, err: tt.err}
			w := post(newRouter(svc), "/chat", tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decode(t, w)
			assert.Equal(t, tt.wantResp, resp.Response)
			assert.Equal(t, tt.wantSrcs, resp.Sources)
			assert.Contains(t, w.Body.String(), `"sources":[`)
		})
	}
}

func TestChatPassesQuery(t *testing.T) {
	svc := &stubService{result: &domain.ChatResult{Text: "ok"}}
	post(newRouter(svc), "/chat", `{"query":"Quels sont les tarifs ?"}`)
	assert.Equal(t, []string{"Quels sont les tarifs ?"}, svc.queries)
}

func TestLogQuery(t *testing.T) {
	svc := &stubService{}
	r := newRouter(svc)

	for _, body := range []string{`{"query":"hello","status":"ERROR"}`, `garbage`} {
		w := post(r, "/log_query", body)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"logged"}`, w.Body.String())
	}

	require.Len(t, svc.logs, 2)
	assert.Equal(t, domain.LogQueryRequest{Query: "hello", Status: "ERROR"}, svc.logs[0])
}
