package widget

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/qmuntal/stateless"

	"github.com/minhtn/ragchat/internal/logger"
)

// Sender identifies which side of the conversation produced a message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// ChatMessage is one bubble in the transcript. Text holds the rendered
// markup produced by RenderMarkup. Messages are never mutated or removed
// once appended.
type ChatMessage struct {
	Text   string `json:"text"`
	Sender Sender `json:"sender"`
}

// QueryRequest is the wire format of a question posted to the backend.
type QueryRequest struct {
	Question  string `json:"question"`
	SessionID string `json:"session_id,omitempty"`
}

// QueryResponse is the backend's answer payload. Only Answer drives the
// display; the remaining fields are decoded and kept for forward
// compatibility. Answer is a pointer so a body that lacks the field is
// distinguishable from an empty answer.
type QueryResponse struct {
	Question    string          `json:"question"`
	Answer      *string         `json:"answer"`
	Context     json.RawMessage `json:"context"`
	Confidence  float64         `json:"confidence"`
	LLMProvider string          `json:"llm_provider"`
}

// FSM states for a single submission cycle.
type WidgetState stateless.State

var (
	StateIdle     WidgetState = "Idle"
	StateSending  WidgetState = "Sending"
	StateRendered WidgetState = "Rendered"
	StateErrored  WidgetState = "Errored"
)

// FSM triggers.
type WidgetTrigger stateless.Trigger

var (
	TriggerSubmit         WidgetTrigger = "Submit"
	TriggerAnswerRendered WidgetTrigger = "AnswerRendered"
	TriggerCallFailed     WidgetTrigger = "CallFailed"
	TriggerReset          WidgetTrigger = "Reset"
)

// ErrBusy is returned when a question is submitted while another is in flight.
var ErrBusy = errors.New("widget: a question is already in flight")

// errorBubbleText is the single user-facing error message. All failure modes
// (transport, status, parse) collapse into it; detail goes to the log only.
const errorBubbleText = "Xin lỗi, đã có lỗi xảy ra. Vui lòng thử lại sau."

const defaultTimeout = 30 * time.Second

// Config is the injected widget configuration. No ambient environment
// lookup happens inside the widget.
type Config struct {
	EndpointBaseURL string
	// Timeout bounds each /ask call so a hung backend cannot leave the
	// widget in Sending forever. Zero selects a 30s default.
	Timeout time.Duration
}

// Widget mediates between user input, the backend /ask endpoint and an
// append-only transcript. One Widget owns one session; it is not safe for
// concurrent SubmitQuestion calls by design (re-entrant submissions are
// rejected with ErrBusy, mirroring a disabled send control).
type Widget struct {
	cfg     Config
	client  *http.Client
	session string
	fsm     *stateless.StateMachine

	mu           sync.Mutex
	transcript   []ChatMessage
	input        string
	inputEnabled bool
	inputFocused bool
}

// New creates a widget bound to the given backend.
func New(cfg Config) *Widget {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	w := &Widget{
		cfg:          cfg,
		client:       &http.Client{Timeout: cfg.Timeout},
		session:      uuid.NewString(),
		inputEnabled: true,
		inputFocused: true,
	}

	fsm := stateless.NewStateMachine(StateIdle)
	fsm.Configure(StateIdle).
		Permit(TriggerSubmit, StateSending)
	fsm.Configure(StateSending).
		OnEntry(func(_ context.Context, _ ...any) error {
			w.setInteractive(false)
			return nil
		}).
		Permit(TriggerAnswerRendered, StateRendered).
		Permit(TriggerCallFailed, StateErrored)
	fsm.Configure(StateRendered).
		OnEntry(func(_ context.Context, _ ...any) error {
			w.setInteractive(true)
			return nil
		}).
		Permit(TriggerReset, StateIdle)
	fsm.Configure(StateErrored).
		OnEntry(func(_ context.Context, _ ...any) error {
			w.setInteractive(true)
			return nil
		}).
		Permit(TriggerReset, StateIdle)
	w.fsm = fsm

	return w
}

// SubmitQuestion runs one full submission cycle: append the user bubble,
// call the backend, append either the answer or the fixed error bubble.
// Empty or whitespace-only input is a silent no-op. All network and parse
// failures are converted into the error bubble and never propagate.
func (w *Widget) SubmitQuestion(ctx context.Context, rawText string) error {
	question := strings.TrimSpace(rawText)
	if question == "" {
		return nil
	}

	if ok, _ := w.fsm.CanFire(TriggerSubmit); !ok {
		return ErrBusy
	}

	w.appendMessage(question, SenderUser)
	w.SetInput("")
	if err := w.fsm.FireCtx(ctx, TriggerSubmit); err != nil {
		return err
	}

	resp, err := w.fetchAnswer(ctx, question)
	if err != nil {
		logger.L.Error("ask request failed", "error", err, "session", w.session)
		w.appendMessage(errorBubbleText, SenderBot)
		if err := w.fsm.FireCtx(ctx, TriggerCallFailed); err != nil {
			return err
		}
	} else {
		w.appendMessage("**Answer:** "+*resp.Answer, SenderBot)
		if err := w.fsm.FireCtx(ctx, TriggerAnswerRendered); err != nil {
			return err
		}
	}

	return w.fsm.FireCtx(ctx, TriggerReset)
}

// fetchAnswer posts the question and decodes the response. Any non-2xx
// status, transport error or body without an answer field is an error.
func (w *Widget) fetchAnswer(ctx context.Context, question string) (*QueryResponse, error) {
	payload, err := json.Marshal(QueryRequest{Question: question, SessionID: w.session})
	if err != nil {
		return nil, err
	}

	url := strings.TrimRight(w.cfg.EndpointBaseURL, "/") + "/ask"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var qr QueryResponse
	if err := json.NewDecoder(resp.Body).Decode(&qr); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if qr.Answer == nil {
		return nil, errors.New("response missing answer field")
	}
	return &qr, nil
}

// appendMessage renders text and appends one bubble to the transcript.
func (w *Widget) appendMessage(text string, sender Sender) {
	rendered := RenderMarkup(text)
	w.mu.Lock()
	w.transcript = append(w.transcript, ChatMessage{Text: rendered, Sender: sender})
	w.mu.Unlock()
}

func (w *Widget) setInteractive(enabled bool) {
	w.mu.Lock()
	w.inputEnabled = enabled
	w.inputFocused = enabled
	w.mu.Unlock()
}

// Transcript returns a copy of the message list, oldest first.
func (w *Widget) Transcript() []ChatMessage {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]ChatMessage, len(w.transcript))
	copy(out, w.transcript)
	return out
}

// SetInput stores the pending input text.
func (w *Widget) SetInput(text string) {
	w.mu.Lock()
	w.input = text
	w.mu.Unlock()
}

// Input returns the pending input text.
func (w *Widget) Input() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.input
}

// InputEnabled reports whether the input and send control accept interaction.
// It is false exactly while a request is in flight.
func (w *Widget) InputEnabled() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.inputEnabled
}

// InputFocused reports whether the input has focus; it regains focus after
// every resolution, success or failure.
func (w *Widget) InputFocused() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.inputFocused
}

// State returns the current FSM state.
func (w *Widget) State() WidgetState {
	return WidgetState(w.fsm.MustState())
}

// Session returns the session identifier sent with every question.
func (w *Widget) Session() string {
	return w.session
}
