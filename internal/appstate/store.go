// Package appstate is the single source of truth for screen data. It
// decides data provenance once at construction, exposes fetch and mutate
// operations, tracks loading and error state per lane, and owns the one
// realtime chat subscription.
package appstate

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "elite-customer/internal/common/errors"
	"elite-customer/internal/common/logger"
	"elite-customer/internal/common/metrics"
	"elite-customer/internal/hosted/hostedchat"
	"elite-customer/internal/hosted/hostedjobs"
	"elite-customer/internal/models"
	"elite-customer/internal/services/chat"
	"elite-customer/internal/services/jobs"
	"elite-customer/internal/services/notifications"
	"elite-customer/internal/services/payments"
	"elite-customer/internal/session"
)

// Config wires the store's collaborators. Services for unconfigured
// sources may be nil; provenance guarantees they are never called.
type Config struct {
	Provenance Provenance
	JobID      string

	Jobs          *jobs.Service
	Chat          *chat.Service
	Payments      *payments.Service
	Notifications *notifications.Service

	HostedJobs *hostedjobs.Service
	HostedChat *hostedchat.Service

	Session *session.Service
	Logger  logger.Logger
}

// laneState is one lane's loading flag and error string.
type laneState struct {
	loading bool
	err     string
}

// Store holds canonical in-memory state for the whole app. Old data stays
// visible while a refetch is in flight; a failed fetch leaves the last
// good value in place and only sets that lane's error.
type Store struct {
	cfg   Config
	log   logger.Logger
	jobID string

	mu sync.RWMutex

	user           *models.UserProfile
	jobSummary     *models.JobSummary
	features       []models.FeatureCard
	progressSteps  []models.ProgressStep
	paymentSummary *models.PaymentSummary
	paymentHistory []models.PaymentEntry
	notifications  []models.NotificationEntry
	chatMessages   []models.ChatMessage
	darkMode       bool

	lanes map[Lane]*laneState

	// lastDemoID keeps demo message ids strictly increasing even when
	// two sends land in the same millisecond.
	lastDemoID int64

	subMu       sync.Mutex
	unsubscribe func()
}

// New builds the store. Under demo provenance every lane is seeded from
// the fixtures; networked lanes start empty and fill on first fetch.
func New(ctx context.Context, cfg Config) *Store {
	s := &Store{
		cfg:      cfg,
		log:      cfg.Logger,
		jobID:    cfg.JobID,
		features: demoFeatures(),
		lanes:    make(map[Lane]*laneState, len(Lanes)),
	}
	if s.jobID == "" {
		s.jobID = DemoJobID
	}
	for _, lane := range Lanes {
		s.lanes[lane] = &laneState{}
	}

	prov := cfg.Provenance
	if prov.For(LaneJob) == SourceDemo {
		s.jobSummary = demoJobSummary()
		s.progressSteps = demoProgressSteps()
		s.user = demoUser()
	}
	if prov.For(LaneChat) == SourceDemo {
		s.chatMessages = demoChatMessages(time.Now())
	}
	if prov.For(LanePayments) == SourceDemo {
		s.paymentSummary = demoPaymentSummary()
		s.paymentHistory = demoPaymentHistory()
	}
	if prov.For(LaneNotifications) == SourceDemo {
		s.notifications = demoNotifications()
	}

	if cfg.Session != nil {
		s.darkMode = cfg.Session.DarkMode(ctx)
	}

	s.log.Info("app state initialized", map[string]interface{}{
		"job_id":        s.jobID,
		"job_source":    string(prov.Job),
		"chat_source":   string(prov.Chat),
		"payments":      string(prov.Payments),
		"notifications": string(prov.Notifications),
	})

	return s
}

// Provenance returns the resolved per-lane sources.
func (s *Store) Provenance() Provenance {
	return s.cfg.Provenance
}

// JobID returns the active job id.
func (s *Store) JobID() string {
	return s.jobID
}

// ==========================
// Lane State Accessors
// ==========================

// Loading reports whether a lane has a fetch in flight.
func (s *Store) Loading(lane Lane) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lanes[lane].loading
}

// LaneError returns a lane's error string, "" when healthy.
func (s *Store) LaneError(lane Lane) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lanes[lane].err
}

func (s *Store) beginFetch(lane Lane) {
	s.mu.Lock()
	s.lanes[lane].loading = true
	s.lanes[lane].err = ""
	s.mu.Unlock()
}

func (s *Store) endFetch(lane Lane, errMsg string) {
	s.mu.Lock()
	s.lanes[lane].loading = false
	if errMsg != "" {
		s.lanes[lane].err = errMsg
	}
	s.mu.Unlock()
}

// ==========================
// Data Accessors
// ==========================

func (s *Store) User() *models.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Store) SetUser(u *models.UserProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u == nil {
		s.user = nil
		return
	}
	copied := *u
	s.user = &copied
}

func (s *Store) JobSummary() *models.JobSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.jobSummary == nil {
		return nil
	}
	j := *s.jobSummary
	return &j
}

func (s *Store) Features() []models.FeatureCard {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.FeatureCard(nil), s.features...)
}

func (s *Store) ProgressSteps() []models.ProgressStep {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.ProgressStep(nil), s.progressSteps...)
}

func (s *Store) PaymentSummary() *models.PaymentSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.paymentSummary == nil {
		return nil
	}
	p := *s.paymentSummary
	return &p
}

func (s *Store) PaymentHistory() []models.PaymentEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.PaymentEntry(nil), s.paymentHistory...)
}

func (s *Store) Notifications() []models.NotificationEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.NotificationEntry(nil), s.notifications...)
}

func (s *Store) ChatMessages() []models.ChatMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.ChatMessage(nil), s.chatMessages...)
}

func (s *Store) DarkMode() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.darkMode
}

// ==========================
// Fetch Operations
// ==========================

// FetchJobData loads the job summary and progress steps. Under the REST
// source the two calls run concurrently; steps that succeeded are applied
// even when the summary fails, and only the summary failure sets the lane
// error. A no-op under demo provenance.
func (s *Store) FetchJobData(ctx context.Context, jobID string) {
	source := s.cfg.Provenance.For(LaneJob)
	if source == SourceDemo {
		return
	}

	s.beginFetch(LaneJob)
	timer := s.laneTimer(LaneJob, source)
	defer timer()

	switch source {
	case SourceHostedBackend:
		s.fetchJobHosted(ctx, jobID)
	default:
		s.fetchJobRemote(ctx, jobID)
	}
}

func (s *Store) fetchJobRemote(ctx context.Context, jobID string) {
	var (
		wg         sync.WaitGroup
		summary    models.JobSummary
		summaryErr error
		steps      []models.ProgressStep
		stepsErr   error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		summary, summaryErr = s.cfg.Jobs.GetJobSummary(ctx, jobID)
	}()
	go func() {
		defer wg.Done()
		steps, stepsErr = s.cfg.Jobs.GetProgressSteps(ctx, jobID)
	}()
	wg.Wait()

	s.mu.Lock()
	if summaryErr == nil {
		s.jobSummary = &summary
	}
	if stepsErr == nil {
		s.progressSteps = steps
	}
	s.mu.Unlock()

	errMsg := ""
	if summaryErr != nil {
		errMsg = summaryErr.Error()
		s.countLaneFailure(LaneJob, SourceRemoteAPI, summaryErr)
	}
	s.endFetch(LaneJob, errMsg)
}

func (s *Store) fetchJobHosted(ctx context.Context, jobID string) {
	job, err := s.cfg.HostedJobs.GetJob(ctx, jobID)
	if err != nil {
		s.countLaneFailure(LaneJob, SourceHostedBackend, err)
		s.endFetch(LaneJob, err.Error())
		return
	}

	s.mu.Lock()
	// The hosted schema has no delivery estimate; keep whatever the
	// last source reported.
	estimated := ""
	if s.jobSummary != nil {
		estimated = s.jobSummary.EstimatedDelivery
	}
	s.jobSummary = &models.JobSummary{
		Status:            job.Status,
		EstimatedDelivery: estimated,
	}
	s.progressSteps = job.Timeline
	s.mu.Unlock()

	s.endFetch(LaneJob, "")
}

// FetchChatMessages replaces the confirmed message list with the fetched
// page. Locally pending messages survive the replace; they are reconciled
// by client id when their send resolves.
func (s *Store) FetchChatMessages(ctx context.Context, jobID string) {
	source := s.cfg.Provenance.For(LaneChat)
	if source == SourceDemo {
		return
	}

	s.beginFetch(LaneChat)
	timer := s.laneTimer(LaneChat, source)
	defer timer()

	var (
		fetched []models.ChatMessage
		err     error
	)
	if source == SourceHostedBackend {
		fetched, err = s.cfg.HostedChat.GetMessages(ctx, jobID)
	} else {
		fetched, err = s.cfg.Chat.GetMessages(ctx, jobID)
	}

	if err != nil {
		s.countLaneFailure(LaneChat, source, err)
		s.endFetch(LaneChat, err.Error())
		return
	}

	s.mu.Lock()
	var pending []models.ChatMessage
	for _, m := range s.chatMessages {
		if m.Delivery == models.DeliveryPending {
			pending = append(pending, m)
		}
	}
	s.chatMessages = append(fetched, pending...)
	s.mu.Unlock()

	s.endFetch(LaneChat, "")
}

// FetchPayments loads the payment summary and history concurrently; like
// the job lane, history that succeeded is applied even when the summary
// fails.
func (s *Store) FetchPayments(ctx context.Context, jobID string) {
	source := s.cfg.Provenance.For(LanePayments)
	if source == SourceDemo {
		return
	}

	s.beginFetch(LanePayments)
	timer := s.laneTimer(LanePayments, source)
	defer timer()

	var (
		wg         sync.WaitGroup
		summary    models.PaymentSummary
		summaryErr error
		history    []models.PaymentEntry
		historyErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		summary, summaryErr = s.cfg.Payments.GetSummary(ctx, jobID)
	}()
	go func() {
		defer wg.Done()
		history, historyErr = s.cfg.Payments.GetHistory(ctx, jobID)
	}()
	wg.Wait()

	s.mu.Lock()
	if summaryErr == nil {
		s.paymentSummary = &summary
	}
	if historyErr == nil {
		s.paymentHistory = history
	}
	s.mu.Unlock()

	errMsg := ""
	if summaryErr != nil {
		errMsg = summaryErr.Error()
		s.countLaneFailure(LanePayments, source, summaryErr)
	}
	s.endFetch(LanePayments, errMsg)
}

// FetchNotifications loads the notification list.
func (s *Store) FetchNotifications(ctx context.Context) {
	source := s.cfg.Provenance.For(LaneNotifications)
	if source == SourceDemo {
		return
	}

	s.beginFetch(LaneNotifications)
	timer := s.laneTimer(LaneNotifications, source)
	defer timer()

	entries, err := s.cfg.Notifications.GetNotifications(ctx)
	if err != nil {
		s.countLaneFailure(LaneNotifications, source, err)
		s.endFetch(LaneNotifications, err.Error())
		return
	}

	s.mu.Lock()
	s.notifications = entries
	s.mu.Unlock()
	s.endFetch(LaneNotifications, "")
}

// RefreshAll fires all four lane fetches concurrently, with no ordering
// guarantee between them. A complete no-op under demo provenance.
func (s *Store) RefreshAll(ctx context.Context) {
	if s.cfg.Provenance.AllDemo() {
		return
	}

	var wg sync.WaitGroup
	wg.Add(4)
	go func() { defer wg.Done(); s.FetchJobData(ctx, s.jobID) }()
	go func() { defer wg.Done(); s.FetchChatMessages(ctx, s.jobID) }()
	go func() { defer wg.Done(); s.FetchPayments(ctx, s.jobID) }()
	go func() { defer wg.Done(); s.FetchNotifications(ctx) }()
	wg.Wait()
}

// ==========================
// Chat Mutations
// ==========================

// SendChatMessage sends a customer message. Under demo provenance it is a
// synchronous local append with a send-time id and no network. Under a
// networked source a single pending entry keyed by a client id is
// appended first, collapsed into the server echo on success, and removed
// on failure with the error returned so the caller can offer a retry.
func (s *Store) SendChatMessage(ctx context.Context, text, imageURL string) error {
	source := s.cfg.Provenance.For(LaneChat)

	if source == SourceDemo {
		s.mu.Lock()
		s.chatMessages = append(s.chatMessages, models.ChatMessage{
			ID:        s.nextDemoIDLocked(),
			Text:      text,
			Sender:    models.SenderCustomer,
			Timestamp: time.Now(),
			ImageURL:  imageURL,
			Delivery:  models.DeliveryConfirmed,
		})
		s.mu.Unlock()
		metrics.ChatMessagesSent.WithLabelValues(string(SourceDemo), "ok").Inc()
		return nil
	}

	clientID := uuid.NewString()
	pending := models.ChatMessage{
		ID:        clientID,
		ClientID:  clientID,
		Text:      text,
		Sender:    models.SenderCustomer,
		Timestamp: time.Now(),
		ImageURL:  imageURL,
		Delivery:  models.DeliveryPending,
	}

	s.mu.Lock()
	s.chatMessages = append(s.chatMessages, pending)
	s.mu.Unlock()

	var (
		echoed models.ChatMessage
		err    error
	)
	if source == SourceHostedBackend {
		senderID, senderName := s.senderIdentity()
		echoed, err = s.cfg.HostedChat.SendMessage(ctx, s.jobID, senderID, senderName, text, imageURL)
	} else {
		echoed, err = s.cfg.Chat.SendMessage(ctx, s.jobID, chat.SendMessageRequest{Text: text, ImageURL: imageURL})
	}

	if err != nil {
		s.removePending(clientID)
		s.mu.Lock()
		s.lanes[LaneChat].err = err.Error()
		s.mu.Unlock()
		s.log.Warn("chat send failed", map[string]interface{}{"error": err.Error()})
		return err
	}

	echoed.ClientID = clientID
	s.confirmPending(clientID, echoed)
	return nil
}

func (s *Store) senderIdentity() (string, string) {
	if s.cfg.Session != nil {
		if user := s.cfg.Session.CurrentUser(); user != nil {
			return user.ID, user.Name
		}
	}
	return "", ""
}

func (s *Store) removePending(clientID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.chatMessages[:0]
	for _, m := range s.chatMessages {
		if m.ClientID != clientID {
			kept = append(kept, m)
		}
	}
	s.chatMessages = kept
}

func (s *Store) confirmPending(clientID string, echoed models.ChatMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, m := range s.chatMessages {
		if m.ClientID == clientID {
			s.chatMessages[i] = echoed
			return
		}
	}
	// The pending entry was dropped by a concurrent list replace; append
	// the confirmed message instead of losing it.
	s.chatMessages = append(s.chatMessages, echoed)
}

// nextDemoIDLocked generates a strictly increasing send-time id. Caller
// must hold s.mu, which also makes id order match append order.
func (s *Store) nextDemoIDLocked() string {
	now := time.Now().UnixMilli()
	if now <= s.lastDemoID {
		now = s.lastDemoID + 1
	}
	s.lastDemoID = now
	return strconv.FormatInt(now, 10)
}

// AddChatMessage appends one message, used by the realtime push path.
// A message whose id is already present is skipped so the push of our
// own just-confirmed insert does not duplicate it.
func (s *Store) AddChatMessage(msg models.ChatMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.chatMessages {
		if existing.ID == msg.ID {
			return
		}
	}
	s.chatMessages = append(s.chatMessages, msg)
}

// SubmitDesignApproval records a design verdict. Demo provenance appends
// the synthetic confirmation locally; the REST source posts the approval
// then refetches chat to reconcile; the hosted source sends the verdict
// as an ordinary chat message.
func (s *Store) SubmitDesignApproval(ctx context.Context, messageID string, approved bool, feedback string) error {
	text := approvalText(approved, feedback)
	source := s.cfg.Provenance.For(LaneChat)

	switch source {
	case SourceDemo:
		s.mu.Lock()
		s.chatMessages = append(s.chatMessages, models.ChatMessage{
			ID:        s.nextDemoIDLocked(),
			Text:      text,
			Sender:    models.SenderCustomer,
			Timestamp: time.Now(),
			Delivery:  models.DeliveryConfirmed,
		})
		s.mu.Unlock()
		return nil

	case SourceRemoteAPI:
		err := s.cfg.Chat.SubmitDesignApproval(ctx, s.jobID, chat.DesignApprovalRequest{
			MessageID: messageID,
			Approved:  approved,
			Feedback:  feedback,
		})
		if err != nil {
			s.mu.Lock()
			s.lanes[LaneChat].err = err.Error()
			s.mu.Unlock()
			return err
		}
		s.FetchChatMessages(ctx, s.jobID)
		return nil

	default:
		return s.SendChatMessage(ctx, text, "")
	}
}

func approvalText(approved bool, feedback string) string {
	if approved {
		return "✅ Design Approved! Looking forward to the final version."
	}
	return "\U0001F4DD Feedback on design:\n\n" + feedback
}

// ==========================
// Realtime Lifecycle
// ==========================

// StartChatSubscription opens the realtime chat channel. Only meaningful
// under the hosted source; anything else is a no-op. Starting twice
// tears the previous channel down first.
func (s *Store) StartChatSubscription(ctx context.Context) error {
	if s.cfg.Provenance.For(LaneChat) != SourceHostedBackend {
		return nil
	}

	s.subMu.Lock()
	defer s.subMu.Unlock()

	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}

	teardown, err := s.cfg.HostedChat.SubscribeToMessages(ctx, s.jobID, s.AddChatMessage)
	if err != nil {
		return err
	}
	s.unsubscribe = teardown
	return nil
}

// StopChatSubscription tears the channel down. Idempotent.
func (s *Store) StopChatSubscription() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
}

// ==========================
// Preferences
// ==========================

// ToggleDarkMode flips the UI preference and persists it.
func (s *Store) ToggleDarkMode(ctx context.Context) bool {
	s.mu.Lock()
	s.darkMode = !s.darkMode
	enabled := s.darkMode
	s.mu.Unlock()

	if s.cfg.Session != nil {
		if err := s.cfg.Session.SetDarkMode(ctx, enabled); err != nil {
			s.log.Warn("dark mode persist failed", map[string]interface{}{"error": err.Error()})
		}
	}
	return enabled
}

// ==========================
// Metrics Helpers
// ==========================

func (s *Store) laneTimer(lane Lane, source Source) func() {
	metrics.LaneFetchesTotal.WithLabelValues(string(lane), string(source)).Inc()
	start := time.Now()
	return func() {
		metrics.LaneFetchDuration.WithLabelValues(string(lane), string(source)).Observe(time.Since(start).Seconds())
	}
}

func (s *Store) countLaneFailure(lane Lane, source Source, err error) {
	code := "unknown"
	if c := apperrors.CodeOf(err); c != "" {
		code = string(c)
	}
	metrics.LaneFetchFailures.WithLabelValues(string(lane), string(source), code).Inc()
}
