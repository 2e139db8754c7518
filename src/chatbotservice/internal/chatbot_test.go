package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"iter"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/Sudharsan1-5/SudharsanBuilds/internal/catalog"
)

// fakeGemini returns canned replies and records what it was sent.
type fakeGemini struct {
	unconfigured bool
	resp         *genai.GenerateContentResponse
	chunks       []*genai.GenerateContentResponse
	err          error
	streamErr    error

	calls        int
	lastContents []*genai.Content
	lastConfig   *genai.GenerateContentConfig
}

func (f *fakeGemini) Configured() bool { return !f.unconfigured }

func (f *fakeGemini) GenerateContent(ctx context.Context, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.calls++
	f.lastContents = contents
	f.lastConfig = config
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func (f *fakeGemini) GenerateContentStream(ctx context.Context, contents []*genai.Content, config *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error] {
	f.calls++
	f.lastContents = contents
	f.lastConfig = config
	return func(yield func(*genai.GenerateContentResponse, error) bool) {
		if f.err != nil {
			yield(nil, f.err)
			return
		}
		for _, c := range f.chunks {
			if !yield(c, nil) {
				return
			}
		}
		if f.streamErr != nil {
			yield(nil, f.streamErr)
		}
	}
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content:      genai.NewContentFromText(text, genai.RoleModel),
			FinishReason: genai.FinishReasonStop,
		}},
	}
}

type MockMemory struct {
	mock.Mock
}

func (m *MockMemory) History(ctx context.Context, userID string) ([]ChatTurn, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ChatTurn), args.Error(1)
}

func (m *MockMemory) Append(ctx context.Context, userID string, turns ...ChatTurn) error {
	return m.Called(ctx, userID, turns).Error(0)
}

func newTestService(gemini Generator, memory ChatMemory) *ChatbotService {
	return NewChatbotService(gemini, memory, catalog.Default())
}

func post(t *testing.T, h http.Handler, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/ai-chatbot", bytes.NewReader(b))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

const textReply = "Hi! Our **Landing Page** starts at ₹15,000."

func TestChat_EmptyMessage(t *testing.T) {
	f := &fakeGemini{resp: textResponse(textReply)}

	rec := post(t, NewHandler(newTestService(f, nil)), map[string]any{"message": "   "})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Message cannot be empty"}`, rec.Body.String())
	assert.Equal(t, 0, f.calls)
}

func TestChat_NotConfigured(t *testing.T) {
	f := &fakeGemini{unconfigured: true}

	rec := post(t, NewHandler(newTestService(f, nil)), map[string]any{"message": "hello"})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"AI service not configured"}`, rec.Body.String())
	assert.Equal(t, 0, f.calls)
}

func TestChat_TextReply(t *testing.T) {
	f := &fakeGemini{resp: textResponse(textReply)}

	history := []ChatTurn{}
	for i := 0; i < 8; i++ {
		role := roleUser
		if i%2 == 1 {
			role = roleAssistant
		}
		history = append(history, ChatTurn{Role: role, Content: string(rune('a' + i))})
	}

	rec := post(t, NewHandler(newTestService(f, nil)), map[string]any{
		"message":             "How much is a landing page?",
		"conversationHistory": history,
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var res ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, res.Success)
	assert.Equal(t, "assistant", res.Role)
	assert.Contains(t, res.Message, "Landing Page")
	require.Len(t, res.ServiceCards, 1)
	assert.Equal(t, "Landing Page", res.ServiceCards[0].Name)

	// prompt + ack + last 6 turns + message
	contents := f.lastContents
	require.Len(t, contents, 9)
	assert.True(t, strings.HasPrefix(contents[0].Parts[0].Text, "System context: "))
	assert.Contains(t, contents[0].Parts[0].Text, "- Page: UnknownPage")
	assert.Equal(t, "model", contents[1].Role)
	assert.Equal(t, "c", contents[2].Parts[0].Text)
	assert.Equal(t, "model", contents[3].Role)
	assert.Equal(t, "user", contents[8].Role)
	assert.Equal(t, "How much is a landing page?", contents[8].Parts[0].Text)

	cfg := f.lastConfig
	require.NotNil(t, cfg.Temperature)
	require.NotNil(t, cfg.TopP)
	assert.InDelta(t, 0.7, *cfg.Temperature, 1e-6)
	assert.InDelta(t, 0.95, *cfg.TopP, 1e-6)
	assert.EqualValues(t, 400, cfg.MaxOutputTokens)
	require.Len(t, cfg.Tools, 1)
	assert.Len(t, cfg.Tools[0].FunctionDeclarations, 4)
}

func TestChat_FunctionCall(t *testing.T) {
	f := &fakeGemini{resp: &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Role: "model",
				Parts: []*genai.Part{
					{Text: "Taking you there!"},
					{FunctionCall: &genai.FunctionCall{Name: "scrollToSection", Args: map[string]any{"section": "contact"}}},
				},
			},
			FinishReason: genai.FinishReasonStop,
		}},
	}}

	rec := post(t, NewHandler(newTestService(f, nil)), map[string]any{"message": "take me to contact"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"success": true,
		"functionCall": {"name": "scrollToSection", "args": {"section": "contact"}},
		"message": "Taking you there!",
		"role": "assistant"
	}`, rec.Body.String())
}

func TestChat_FunctionCallWithoutArgs(t *testing.T) {
	f := &fakeGemini{resp: &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{FunctionCall: &genai.FunctionCall{Name: "openContactForm"}}}},
		}},
	}}

	res, err := newTestService(f, nil).Chat(context.Background(), &ChatRequest{Message: "I want to start a project"})

	require.NoError(t, err)
	require.NotNil(t, res.FunctionCall)
	assert.Equal(t, "openContactForm", res.FunctionCall.Name)
	assert.Equal(t, map[string]any{}, res.FunctionCall.Args)
}

func TestChat_BlockedCandidate(t *testing.T) {
	f := &fakeGemini{resp: &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{}, FinishReason: genai.FinishReasonSafety}},
	}}

	rec := post(t, NewHandler(newTestService(f, nil)), map[string]any{"message": "something off topic"})

	require.Equal(t, http.StatusOK, rec.Code)
	var res ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, blockedReply, res.Message)
}

func TestChat_EmptyTextFallsBack(t *testing.T) {
	f := &fakeGemini{resp: textResponse("")}

	res, err := newTestService(f, nil).Chat(context.Background(), &ChatRequest{Message: "hi"})

	require.NoError(t, err)
	assert.Equal(t, fallbackReply, res.Message)
}

func TestChat_NoCandidates(t *testing.T) {
	f := &fakeGemini{resp: &genai.GenerateContentResponse{}}

	rec := post(t, NewHandler(newTestService(f, nil)), map[string]any{"message": "hi"})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "AI service returned an unexpected response", decodeError(t, rec)["error"])
}

func TestChat_VendorErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"rate limited", &vendorError{Status: 429, Body: "Resource has been exhausted"}, 429, "QUOTA_EXCEEDED"},
		{"quota text", &vendorError{Status: 500, Body: "You exceeded your current quota"}, 429, "QUOTA_EXCEEDED"},
		{"bad key", &vendorError{Status: 403, Body: "denied"}, 503, "AUTH_ERROR"},
		{"server", &vendorError{Status: 502, Body: "upstream"}, 503, "SERVER_ERROR"},
		{"transport", &transportError{err: errors.New("connection refused")}, 503, "NETWORK_ERROR"},
		{"parse", &parseError{err: errors.New("unexpected end of JSON input")}, 500, "PARSE_ERROR"},
		{"other", errors.New("boom"), 500, "UNEXPECTED_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeGemini{err: tt.err}

			rec := post(t, NewHandler(newTestService(f, nil)), map[string]any{"message": "hi"})

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, tt.wantCode, body["error"])
			assert.NotEmpty(t, body["userMessage"])
			assert.NotContains(t, rec.Body.String(), "upstream")
			assert.Equal(t, 1, f.calls, "no retries")
		})
	}
}

func TestChat_Memory(t *testing.T) {
	f := &fakeGemini{resp: textResponse(textReply)}
	memory := new(MockMemory)

	memory.On("History", mock.Anything, "user-42").
		Return([]ChatTurn{{Role: roleUser, Content: "earlier question"}, {Role: roleAssistant, Content: "earlier answer"}}, nil)
	memory.On("Append", mock.Anything, "user-42", []ChatTurn{
		{Role: roleUser, Content: "and the price?"},
		{Role: roleAssistant, Content: textReply},
	}).Return(nil).Once()

	_, err := newTestService(f, memory).Chat(context.Background(), &ChatRequest{Message: "and the price?", UserID: "user-42"})
	require.NoError(t, err)

	require.Len(t, f.lastContents, 5)
	assert.Equal(t, "earlier question", f.lastContents[2].Parts[0].Text)
	assert.Equal(t, "model", f.lastContents[3].Role)
	assert.Contains(t, f.lastContents[0].Parts[0].Text, "Returning visitor")
	memory.AssertExpectations(t)
}

func TestChat_AnonymousSkipsMemory(t *testing.T) {
	f := &fakeGemini{resp: textResponse(textReply)}
	memory := new(MockMemory)

	_, err := newTestService(f, memory).Chat(context.Background(), &ChatRequest{Message: "hi"})

	require.NoError(t, err)
	memory.AssertNotCalled(t, "History", mock.Anything, mock.Anything)
	memory.AssertNotCalled(t, "Append", mock.Anything, mock.Anything, mock.Anything)
}

func sseFrames(t *testing.T, chunks ...*genai.GenerateContentResponse) string {
	t.Helper()
	var b strings.Builder
	for _, c := range chunks {
		data, err := json.Marshal(c)
		require.NoError(t, err)
		b.WriteString("data: " + string(data) + "\n\n")
	}
	return b.String()
}

func TestChat_Streaming(t *testing.T) {
	chunks := []*genai.GenerateContentResponse{textResponse("Hel"), textResponse("lo")}
	f := &fakeGemini{chunks: chunks}

	rec := post(t, NewHandler(newTestService(f, nil)), map[string]any{"message": "hi", "enableStreaming": true})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
	assert.Equal(t, sseFrames(t, chunks...), rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"text":"Hel"`)
	assert.Equal(t, 1, f.calls)
}

func TestChat_StreamingInterrupted(t *testing.T) {
	first := textResponse("Hel")
	f := &fakeGemini{chunks: []*genai.GenerateContentResponse{first}, streamErr: &transportError{err: errors.New("reset")}}

	rec := post(t, NewHandler(newTestService(f, nil)), map[string]any{"message": "hi", "enableStreaming": true})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, sseFrames(t, first), rec.Body.String())
}

func TestChat_StreamingErrors(t *testing.T) {
	tests := []struct {
		status     int
		wantStatus int
		wantCode   string
	}{
		{429, 429, "QUOTA_EXCEEDED"},
		{401, 503, "AUTH_ERROR"},
		{500, 500, "STREAMING_ERROR"},
	}

	for _, tt := range tests {
		f := &fakeGemini{err: &vendorError{Status: tt.status, Body: "nope"}}

		rec := post(t, NewHandler(newTestService(f, nil)), map[string]any{"message": "hi", "enableStreaming": true})

		assert.Equal(t, tt.wantStatus, rec.Code)
		assert.Equal(t, tt.wantCode, decodeError(t, rec)["error"])
	}
}

func TestPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/ai-chatbot", nil)
	rec := httptest.NewRecorder()
	NewHandler(newTestService(&fakeGemini{}, nil)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.Equal(t, "ok", string(body))
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}
