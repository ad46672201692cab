package chat

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/suPer8Hu/health-triage/internal/ai"
	"github.com/suPer8Hu/health-triage/internal/locale"
	"github.com/suPer8Hu/health-triage/internal/metrics"
	"github.com/suPer8Hu/health-triage/internal/risk"
	"github.com/suPer8Hu/health-triage/internal/speech"
	"github.com/suPer8Hu/health-triage/internal/triage"
)

var (
	ErrEmptyMessage = errors.New("message is empty")
	ErrSendInFlight = errors.New("a send is already in flight for this session")
)

const (
	SourceLive    = "live"
	SourceOffline = "offline"
)

// RiskEvent is emitted once per assistant reply.
type RiskEvent struct {
	SessionID string        `json:"session_id"`
	MessageID string        `json:"message_id"`
	Score     int           `json:"score"`
	Severity  risk.Severity `json:"severity"`
	Source    string        `json:"source"`
	Intent    triage.Intent `json:"intent"`
	At        time.Time     `json:"at"`
}

type RiskPublisher interface {
	PublishRisk(ctx context.Context, ev RiskEvent) error
}

// UtteranceCompleted is a finished voice utterance addressed to a session.
type UtteranceCompleted struct {
	SessionID  string
	Transcript string
}

type ControllerOption func(*Controller)

func WithBroker(b *Broker) ControllerOption {
	return func(c *Controller) { c.broker = b }
}

func WithOutput(o *speech.OutputController) ControllerOption {
	return func(c *Controller) { c.output = o }
}

// WithRecognizer gives the controller its speech input. Transcript updates
// and recognition errors are published on the broker.
func WithRecognizer(rec speech.Recognizer, opts ...speech.InputOption) ControllerOption {
	return func(c *Controller) {
		c.recognizer = rec
		c.inputOpts = opts
	}
}

func WithRiskPublisher(p RiskPublisher) ControllerOption {
	return func(c *Controller) { c.publisher = p }
}

func WithLanguage(l locale.Language) ControllerOption {
	return func(c *Controller) {
		if l.Valid() {
			c.lang = l
		}
	}
}

// Controller runs the send cycle: user message, generation or offline
// fallback, risk, assistant message, optional speech.
type Controller struct {
	ctx       context.Context
	store     *SessionStore
	gateway   *ai.Gateway
	engine    *triage.Engine
	broker    *Broker
	output    *speech.OutputController
	input     *speech.InputController
	publisher RiskPublisher

	recognizer speech.Recognizer
	inputOpts  []speech.InputOption

	mu           sync.Mutex
	inFlight     map[string]bool
	lang         locale.Language
	listenTarget string

	wg sync.WaitGroup
}

// NewController wires the collaborators. ctx bounds in-flight sends; it is
// not tied to any single request.
func NewController(ctx context.Context, store *SessionStore, gateway *ai.Gateway, engine *triage.Engine, opts ...ControllerOption) *Controller {
	if engine == nil {
		engine = triage.NewEngine()
	}
	if gateway == nil {
		gateway = ai.NewGateway(nil)
	}
	c := &Controller{
		ctx:      ctx,
		store:    store,
		gateway:  gateway,
		engine:   engine,
		inFlight: make(map[string]bool),
		lang:     locale.Default,
	}
	for _, o := range opts {
		o(c)
	}
	if c.output == nil {
		c.output = speech.NewOutputController(nil)
	}

	inputOpts := append([]speech.InputOption{
		speech.OnTranscript(func(t string) {
			c.broker.Publish(Event{Type: EventTranscript, SessionID: c.target(), Data: t})
		}),
		speech.OnError(func(err error) {
			log.Printf("[Controller] recognition error err=%v", err)
			c.broker.Publish(Event{Type: EventWarning, Data: err.Error()})
		}),
	}, c.inputOpts...)
	c.input = speech.NewInputController(c.recognizer, func(u speech.UtteranceCompleted) {
		c.HandleUtterance(UtteranceCompleted{SessionID: c.target(), Transcript: u.Transcript})
	}, inputOpts...)
	return c
}

func (c *Controller) Store() *SessionStore { return c.store }

func (c *Controller) Language() locale.Language {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lang
}

func (c *Controller) SetLanguage(l locale.Language) error {
	if !l.Valid() {
		return locale.ErrUnknownLanguage
	}
	c.mu.Lock()
	c.lang = l
	c.mu.Unlock()
	c.broker.Publish(Event{Type: EventLanguage, Data: l})
	return nil
}

// InFlight reports whether sessionID has a send awaiting its reply.
func (c *Controller) InFlight(sessionID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight[sessionID]
}

// SendMessage appends the user message and produces the reply in the
// background. The returned channel yields the assistant message once it is
// appended; it is closed without a value if the session was deleted first.
func (c *Controller) SendMessage(sessionID, text string, viaVoice bool) (<-chan Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		metrics.RejectedSends.WithLabelValues("empty").Inc()
		return nil, ErrEmptyMessage
	}
	sess, ok := c.store.Get(sessionID)
	if !ok {
		metrics.RejectedSends.WithLabelValues("not_found").Inc()
		return nil, ErrSessionNotFound
	}

	c.mu.Lock()
	if c.inFlight[sessionID] {
		c.mu.Unlock()
		metrics.RejectedSends.WithLabelValues("in_flight").Inc()
		log.Printf("[SendMessage] rejected, send in flight session_id=%s", sessionID)
		return nil, ErrSendInFlight
	}
	c.inFlight[sessionID] = true
	lang := c.lang
	c.mu.Unlock()

	history := make([]ai.HistoryTurn, 0, len(sess.Messages))
	for _, m := range sess.Messages {
		role := ai.RoleUser
		if m.Role == RoleAssistant {
			role = ai.RoleModel
		}
		history = append(history, ai.HistoryTurn{Role: role, Text: m.Content, Synthetic: m.Synthetic})
	}

	userMsg := Message{
		ID:               NewMessageID(),
		Role:             RoleUser,
		Content:          text,
		CreatedAt:        now(),
		DeliveredByVoice: viaVoice,
	}
	c.store.Append(c.ctx, sessionID, userMsg)
	c.store.RenameIfDefault(c.ctx, sessionID, text)
	c.broker.Publish(Event{Type: EventMessage, SessionID: sessionID, Data: userMsg})
	c.broker.Publish(Event{Type: EventSend, SessionID: sessionID, Data: SendStatus{InFlight: true}})

	out := make(chan Message, 1)
	c.wg.Add(1)
	go c.complete(sessionID, history, text, lang, viaVoice, out)
	return out, nil
}

func (c *Controller) complete(sessionID string, history []ai.HistoryTurn, text string, lang locale.Language, viaVoice bool, out chan<- Message) {
	defer c.wg.Done()
	defer close(out)

	reply, source := c.generate(sessionID, history, text, lang)
	assessed := risk.Assess(reply, text)
	score := assessed.Score

	msg := Message{
		ID:               NewMessageID(),
		Role:             RoleAssistant,
		Content:          reply,
		CreatedAt:        now(),
		Severity:         assessed.Severity,
		RiskScore:        &score,
		DeliveredByVoice: viaVoice,
	}
	appended := c.store.Append(c.ctx, sessionID, msg)
	if appended {
		c.store.SetLastRisk(c.ctx, sessionID, assessed)
	} else {
		log.Printf("[SendMessage] session gone before reply, dropped session_id=%s", sessionID)
	}

	c.mu.Lock()
	delete(c.inFlight, sessionID)
	c.mu.Unlock()

	metrics.Sends.WithLabelValues(source).Inc()
	c.broker.Publish(Event{Type: EventSend, SessionID: sessionID, Data: SendStatus{InFlight: false, Source: source}})
	if !appended {
		return
	}

	metrics.Replies.WithLabelValues(string(assessed.Severity)).Inc()
	c.broker.Publish(Event{Type: EventMessage, SessionID: sessionID, Data: msg})
	if viaVoice {
		c.output.Speak(reply, lang)
	}
	c.publishRisk(RiskEvent{
		SessionID: sessionID,
		MessageID: msg.ID,
		Score:     assessed.Score,
		Severity:  assessed.Severity,
		Source:    source,
		Intent:    c.engine.Classify(text),
		At:        msg.CreatedAt,
	})
	out <- msg
}

// generate asks the live service and falls back to the offline engine on
// any GenerationError.
func (c *Controller) generate(sessionID string, history []ai.HistoryTurn, text string, lang locale.Language) (string, string) {
	if c.gateway.Configured() {
		start := time.Now()
		reply, err := c.gateway.Send(c.ctx, history, text, lang)
		metrics.GenerationLatency.Observe(time.Since(start).Seconds())
		if err == nil {
			return reply, SourceLive
		}
		cause := "unknown"
		var ge *ai.GenerationError
		if errors.As(err, &ge) {
			cause = ge.Cause
		}
		metrics.GenerationErrors.WithLabelValues(cause).Inc()
		log.Printf("[SendMessage] generation failed, using offline engine session_id=%s cost=%s err=%v",
			sessionID, time.Since(start), err)
	}
	return c.engine.Reply(text), SourceOffline
}

func (c *Controller) publishRisk(ev RiskEvent) {
	if c.publisher == nil {
		return
	}
	if err := c.publisher.PublishRisk(c.ctx, ev); err != nil {
		log.Printf("[SendMessage] publish risk event failed session_id=%s message_id=%s err=%v", ev.SessionID, ev.MessageID, err)
	}
}

// ListenFor starts speech input; the finished utterance is sent to
// sessionID. Any playing reply is cancelled first.
func (c *Controller) ListenFor(sessionID string) error {
	if _, ok := c.store.Get(sessionID); !ok {
		return ErrSessionNotFound
	}
	c.output.Cancel()
	c.mu.Lock()
	c.listenTarget = sessionID
	lang := c.lang
	c.mu.Unlock()
	return c.input.Start(lang)
}

func (c *Controller) StopListening() { c.input.Stop() }

func (c *Controller) Listening() bool { return c.input.State() == speech.Listening }

func (c *Controller) Transcript() string { return c.input.Transcript() }

func (c *Controller) CancelSpeech() { c.output.Cancel() }

func (c *Controller) Speaking() bool { return c.output.Speaking() }

// HandleUtterance sends a completed utterance as a voice message.
func (c *Controller) HandleUtterance(u UtteranceCompleted) {
	if _, err := c.SendMessage(u.SessionID, u.Transcript, true); err != nil {
		log.Printf("[HandleUtterance] auto-send skipped session_id=%s err=%v", u.SessionID, err)
		c.broker.Publish(Event{Type: EventWarning, SessionID: u.SessionID, Data: err.Error()})
	}
}

// Wait blocks until every in-flight send has finished.
func (c *Controller) Wait() { c.wg.Wait() }

func (c *Controller) target() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.listenTarget
}
