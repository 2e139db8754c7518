package internal

import (
	"context"
	"errors"
	"iter"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"github.com/Sudharsan1-5/SudharsanBuilds/internal/catalog"
)

const historyTurns = 6

type ChatbotService struct {
	gemini  Generator
	memory  ChatMemory
	catalog *catalog.Catalog
}

func NewChatbotService(gemini Generator, memory ChatMemory, cat *catalog.Catalog) *ChatbotService {
	return &ChatbotService{
		gemini:  gemini,
		memory:  memory,
		catalog: cat,
	}
}

// Chat relays one message and returns the model's reply. No retries: a
// failed vendor call is reported straight away.
func (x *ChatbotService) Chat(ctx context.Context, in *ChatRequest) (*ChatResponse, error) {

	req, err := x.prepare(ctx, in)
	if err != nil {
		return nil, err
	}

	resp, err := x.gemini.GenerateContent(ctx, req.contents, req.config)
	if err != nil {
		logGeminiError("gemini api error", err)
		return nil, err
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		slog.Error("gemini returned no candidates", "promptFeedback", resp.PromptFeedback)
		return nil, errNoCandidates
	}

	out := x.reply(resp.Candidates[0], in.Message)
	x.remember(ctx, in, out)
	return out, nil
}

// reply picks the first function call if any, then checks the finish
// reason, then falls back to the first text part.
func (x *ChatbotService) reply(c *genai.Candidate, userMessage string) *ChatResponse {
	var parts []*genai.Part
	if c.Content != nil {
		parts = c.Content.Parts
	}

	var (
		call *FunctionCall
		text string
	)
	for _, p := range parts {
		if p == nil {
			continue
		}
		if call == nil && p.FunctionCall != nil {
			call = &FunctionCall{Name: p.FunctionCall.Name, Args: p.FunctionCall.Args}
		}
		if text == "" && p.Text != "" {
			text = p.Text
		}
	}

	if call != nil {
		if call.Args == nil {
			call.Args = map[string]any{}
		}
		return &ChatResponse{
			Success:      true,
			FunctionCall: call,
			Message:      text,
			Role:         roleAssistant,
		}
	}

	if c.FinishReason != "" && c.FinishReason != genai.FinishReasonStop {
		slog.Warn("gemini blocked content", "finishReason", c.FinishReason)
		return &ChatResponse{
			Success: true,
			Message: blockedReply,
			Role:    roleAssistant,
		}
	}

	msg := fallbackReply
	if len(parts) > 0 && parts[0] != nil && parts[0].Text != "" {
		msg = parts[0].Text
	}

	return &ChatResponse{
		Success:      true,
		Message:      msg,
		Role:         roleAssistant,
		ServiceCards: detectIntent(x.catalog, userMessage),
	}
}

// ReplyStream hands out the model's partial replies in order. Close must
// be called once the caller is done.
type ReplyStream struct {
	first *genai.GenerateContentResponse
	next  func() (*genai.GenerateContentResponse, error, bool)
	stop  func()
}

// Chunks yields every partial reply. It stops after the first error.
func (s *ReplyStream) Chunks() iter.Seq2[*genai.GenerateContentResponse, error] {
	return func(yield func(*genai.GenerateContentResponse, error) bool) {
		if s.first != nil {
			first := s.first
			s.first = nil
			if !yield(first, nil) {
				return
			}
		}
		for {
			resp, err, ok := s.next()
			if !ok {
				return
			}
			if !yield(resp, err) || err != nil {
				return
			}
		}
	}
}

func (s *ReplyStream) Close() {
	s.stop()
}

// Stream starts a streamed reply. A vendor failure before the first chunk
// is returned as an error so the client still gets a status code.
func (x *ChatbotService) Stream(ctx context.Context, in *ChatRequest) (*ReplyStream, error) {

	req, err := x.prepare(ctx, in)
	if err != nil {
		return nil, err
	}

	next, stop := iter.Pull2(x.gemini.GenerateContentStream(ctx, req.contents, req.config))

	first, err, ok := next()
	if ok && err != nil {
		stop()
		logGeminiError("gemini streaming api error", err)
		return nil, err
	}

	return &ReplyStream{first: first, next: next, stop: stop}, nil
}

func logGeminiError(msg string, err error) {
	var ve *vendorError
	if errors.As(err, &ve) {
		slog.Error(msg, "status", ve.Status, "body", ve.Body)
		return
	}
	slog.Error(msg, "err", err)
}

type vendorRequest struct {
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

// prepare applies defaults, checks the message and builds the vendor
// request.
func (x *ChatbotService) prepare(ctx context.Context, in *ChatRequest) (*vendorRequest, error) {

	if strings.TrimSpace(in.Message) == "" {
		return nil, errEmptyMessage
	}
	if in.Context == "" {
		in.Context = defaultPageContext
	}
	if in.UserID == "" {
		in.UserID = anonymousUser
	}

	if !x.gemini.Configured() {
		return nil, errNotConfigured
	}

	history := in.ConversationHistory
	if len(history) == 0 && x.signedIn(in) {
		stored, err := x.memory.History(ctx, in.UserID)
		if err != nil {
			slog.Warn("load chat memory", "userId", in.UserID, "err", err)
		}
		history = stored
	}

	return x.buildRequest(in, history), nil
}

func (x *ChatbotService) buildRequest(in *ChatRequest, history []ChatTurn) *vendorRequest {
	prompt := buildSystemPrompt(x.catalog, in.Context, in.PageSummary, in.UserID != anonymousUser)

	contents := []*genai.Content{
		genai.NewContentFromText("System context: "+prompt, genai.RoleUser),
		genai.NewContentFromText(promptAck, genai.RoleModel),
	}

	if len(history) > historyTurns {
		history = history[len(history)-historyTurns:]
	}
	for _, t := range history {
		role := genai.Role(genai.RoleUser)
		if t.Role == roleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(t.Content, role))
	}

	contents = append(contents, genai.NewContentFromText(in.Message, genai.RoleUser))

	return &vendorRequest{
		contents: contents,
		config: &genai.GenerateContentConfig{
			Temperature:     genai.Ptr[float32](0.7),
			TopP:            genai.Ptr[float32](0.95),
			MaxOutputTokens: 400,
			Tools:           []*genai.Tool{{FunctionDeclarations: functionDeclarations(x.catalog)}},
		},
	}
}

func (x *ChatbotService) signedIn(in *ChatRequest) bool {
	return x.memory != nil && in.UserID != anonymousUser
}

// remember stores the exchange for signed-in users. Function calls are
// not stored, the client acts on them instead of showing text.
func (x *ChatbotService) remember(ctx context.Context, in *ChatRequest, out *ChatResponse) {
	if !x.signedIn(in) || out.FunctionCall != nil {
		return
	}

	err := x.memory.Append(ctx, in.UserID,
		ChatTurn{Role: roleUser, Content: in.Message},
		ChatTurn{Role: roleAssistant, Content: out.Message},
	)
	if err != nil {
		slog.Warn("save chat memory", "userId", in.UserID, "err", err)
	}
}
