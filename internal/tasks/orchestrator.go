package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/agilsa/GorbyJump/internal/auth"
	"github.com/agilsa/GorbyJump/internal/client"
	"github.com/agilsa/GorbyJump/internal/client/storage"
	"github.com/agilsa/GorbyJump/internal/logger"

	"github.com/google/uuid"
)

// API is the backend surface the orchestrator drives. client.Client
// satisfies it; tests substitute function-field mocks.
type API interface {
	AuthURL(ctx context.Context) (string, error)
	CheckFollow(ctx context.Context, userID, targetUsername string) (*client.FollowStatus, error)
	CheckRetweet(ctx context.Context, tweetID string) (*client.RetweetStatus, error)
	PostTweet(ctx context.Context, text string) (*client.TweetResult, error)
	Logout(ctx context.Context) error
}

// verification is an in-flight delayed check. It is ephemeral: it is
// never persisted, and closing the orchestrator cancels it.
type verification struct {
	id        string
	task      string
	startedAt time.Time
	timer     *time.Timer
}

// Orchestrator runs the per-task state machine: Available → Pending →
// Completed, or back to Available when verification does not confirm.
// Completion is monotonic; only an explicit unlink resets it. All
// state mutation happens under one mutex, so verification callbacks
// and UI reads never race.
type Orchestrator struct {
	api   API
	store storage.Store

	order []string
	defs  map[string]Task

	mu        sync.Mutex
	identity  *auth.Identity
	completed map[string]bool
	pending   map[string]*verification
	closed    bool

	online        func() bool
	navigate      func(url string)
	openExternal  func(url string)
	verifyTimeout time.Duration
}

// Option adjusts an Orchestrator at construction.
type Option func(*Orchestrator)

// WithConnectivityGate wires the connectivity monitor's verdict in
// front of identity-linking actions.
func WithConnectivityGate(online func() bool) Option {
	return func(o *Orchestrator) { o.online = online }
}

// WithNavigator sets the callback that sends the browser to the
// provider authorization page.
func WithNavigator(fn func(url string)) Option {
	return func(o *Orchestrator) { o.navigate = fn }
}

// WithOpener sets the callback that opens a task's external action
// link in a new browsing context.
func WithOpener(fn func(url string)) Option {
	return func(o *Orchestrator) { o.openExternal = fn }
}

// WithVerifyTimeout bounds each verification call.
func WithVerifyTimeout(d time.Duration) Option {
	return func(o *Orchestrator) { o.verifyTimeout = d }
}

func NewOrchestrator(api API, store storage.Store, defs []Task, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		api:           api,
		store:         store,
		order:         make([]string, 0, len(defs)),
		defs:          make(map[string]Task, len(defs)),
		completed:     make(map[string]bool),
		pending:       make(map[string]*verification),
		online:        func() bool { return true },
		navigate:      func(string) {},
		openExternal:  func(string) {},
		verifyTimeout: 10 * time.Second,
	}
	for _, t := range defs {
		o.order = append(o.order, t.Name)
		o.defs[t.Name] = t
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Restore loads the persisted identity and completion records. A
// corrupt entry is discarded and its key removed; the orchestrator
// proceeds as if it were absent.
func (o *Orchestrator) Restore() {
	if data, ok, err := o.store.Get(storage.KeyIdentity); err == nil && ok {
		id, derr := auth.DecodeIdentity(data)
		if derr != nil {
			logger.Warn("discarding stored identity", map[string]any{
				"error": storage.ErrPersistenceCorrupt.Error(),
				"cause": derr.Error(),
			})
			_ = o.store.Delete(storage.KeyIdentity)
		} else {
			o.mu.Lock()
			o.identity = id
			o.mu.Unlock()
		}
	}

	if data, ok, err := o.store.Get(storage.KeyTaskStatus); err == nil && ok {
		var records map[string]bool
		if uerr := json.Unmarshal(data, &records); uerr != nil {
			logger.Warn("discarding stored task status", map[string]any{
				"error": storage.ErrPersistenceCorrupt.Error(),
				"cause": uerr.Error(),
			})
			_ = o.store.Delete(storage.KeyTaskStatus)
		} else {
			o.mu.Lock()
			for name, done := range records {
				if done {
					o.completed[name] = true
				}
			}
			o.mu.Unlock()
		}
	}
}

// ConsumeAuthRedirect reconciles the OAuth callback: when the raw URL
// carries a twitter_auth payload, the identity is decoded, stored, and
// the parameter scrubbed so a reload does not replay the callback. A
// malformed payload leaves identity state and storage untouched.
func (o *Orchestrator) ConsumeAuthRedirect(raw string) (string, bool) {
	u, err := url.Parse(raw)
	if err != nil {
		return raw, false
	}

	q := u.Query()
	payload := q.Get("twitter_auth")
	if payload == "" {
		return raw, false
	}

	identity, err := auth.DecodeIdentity([]byte(payload))
	if err != nil {
		logger.Error("twitter auth payload malformed", map[string]any{
			"error": err.Error(),
		})
		return raw, false
	}

	o.mu.Lock()
	o.identity = identity
	o.mu.Unlock()

	if data, err := identity.Encode(); err == nil {
		if serr := o.store.Set(storage.KeyIdentity, data); serr != nil {
			logger.Error("persist identity failed", map[string]any{
				"error": serr.Error(),
			})
		}
	}

	logger.Info("twitter connected", map[string]any{
		"username": identity.Username,
	})

	q.Del("twitter_auth")
	u.RawQuery = q.Encode()
	return u.String(), true
}

// Identity returns the linked identity, or nil when unlinked.
func (o *Orchestrator) Identity() *auth.Identity {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.identity
}

// Tasks returns the task definitions in configured order.
func (o *Orchestrator) Tasks() []Task {
	out := make([]Task, 0, len(o.order))
	for _, name := range o.order {
		out = append(out, o.defs[name])
	}
	return out
}

// Status reports a task's state machine position.
func (o *Orchestrator) Status(name string) Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	switch {
	case o.completed[name]:
		return StatusCompleted
	case o.pending[name] != nil:
		return StatusPending
	default:
		return StatusAvailable
	}
}

// Progress returns completed and total task counts.
func (o *Orchestrator) Progress() (done, total int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, name := range o.order {
		if o.completed[name] {
			done++
		}
	}
	return done, len(o.order)
}

// Connect starts the identity-linking flow: fetch the authorization
// URL and hand it to the navigator. Gated on backend reachability.
func (o *Orchestrator) Connect(ctx context.Context) error {
	if !o.online() {
		return client.ErrBackendUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, o.verifyTimeout)
	defer cancel()

	authURL, err := o.api.AuthURL(ctx)
	if err != nil {
		return err
	}

	o.navigate(authURL)
	return nil
}

// Click handles a task click. An auth-requiring task with no linked
// identity triggers the linking flow instead of the task action; a
// completed or already-pending task is a no-op; otherwise the task
// enters Pending, its external link opens, and verification fires
// after the task's delay.
func (o *Orchestrator) Click(name string) error {
	o.mu.Lock()
	task, ok := o.defs[name]
	if !ok {
		o.mu.Unlock()
		return fmt.Errorf("tasks: unknown task %q", name)
	}

	if task.RequiresAuth && o.identity == nil {
		o.mu.Unlock()
		return o.Connect(context.Background())
	}

	if o.completed[name] || o.pending[name] != nil || o.closed {
		o.mu.Unlock()
		return nil
	}

	// Register before releasing the lock so simultaneous clicks on the
	// same task collapse into one claim and one link open.
	req := &verification{
		id:        uuid.NewString(),
		task:      name,
		startedAt: time.Now(),
	}
	req.timer = time.AfterFunc(task.Delay, func() {
		o.resolve(req, task)
	})
	o.pending[name] = req
	o.mu.Unlock()

	if task.Link != "" {
		o.openExternal(task.Link)
	}

	logger.Info("task pending", map[string]any{
		"task":       name,
		"request_id": req.id,
	})
	return nil
}

// resolve runs after the task's delay. A negative verdict or an
// upstream failure returns the task to Available with nothing but a
// log line; only a positive verdict completes it.
func (o *Orchestrator) resolve(req *verification, task Task) {
	o.mu.Lock()
	if o.closed || o.pending[task.Name] != req {
		// Torn down or superseded; the result is dropped.
		o.mu.Unlock()
		return
	}
	identity := o.identity
	o.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), o.verifyTimeout)
	defer cancel()

	confirmed, err := o.verdict(ctx, task, identity)

	o.mu.Lock()
	delete(o.pending, task.Name)
	if err != nil || !confirmed {
		o.mu.Unlock()
		if err != nil {
			logger.Error("task verification failed", map[string]any{
				"task":       task.Name,
				"request_id": req.id,
				"error":      err.Error(),
			})
		} else {
			logger.Info("task not confirmed", map[string]any{
				"task":       task.Name,
				"request_id": req.id,
			})
		}
		return
	}

	o.completed[task.Name] = true
	o.persistCompletedLocked()
	o.mu.Unlock()

	logger.Info("task completed", map[string]any{
		"task":   task.Name,
		"reward": task.Reward,
	})
}

func (o *Orchestrator) verdict(ctx context.Context, task Task, identity *auth.Identity) (bool, error) {
	switch task.Verify {
	case VerifyNone:
		return true, nil

	case VerifyFollow:
		if identity == nil {
			return false, client.ErrNotAuthenticated
		}
		st, err := o.api.CheckFollow(ctx, identity.ID, task.Target)
		if err != nil {
			return false, err
		}
		return st.IsFollowing, nil

	case VerifyRetweet:
		if identity == nil {
			return false, client.ErrNotAuthenticated
		}
		st, err := o.api.CheckRetweet(ctx, task.Target)
		if err != nil {
			return false, err
		}
		return st.HasRetweeted, nil

	case VerifyTweet:
		if identity == nil {
			return false, client.ErrNotAuthenticated
		}
		res, err := o.api.PostTweet(ctx, task.Target)
		if err != nil {
			return false, err
		}
		return res.Success, nil

	default:
		return false, fmt.Errorf("tasks: unknown verify kind %q", task.Verify)
	}
}

// persistCompletedLocked writes the completion records. Caller holds
// the mutex.
func (o *Orchestrator) persistCompletedLocked() {
	data, err := json.Marshal(o.completed)
	if err != nil {
		return
	}
	if err := o.store.Set(storage.KeyTaskStatus, data); err != nil {
		logger.Error("persist task status failed", map[string]any{
			"error": err.Error(),
		})
	}
}

// Unlink clears the identity and every completion record. The server
// logout is best-effort: local state clears even when it fails, since
// local storage is the durability boundary.
func (o *Orchestrator) Unlink(ctx context.Context) {
	if err := o.api.Logout(ctx); err != nil {
		logger.Error("server logout failed", map[string]any{
			"error": err.Error(),
		})
	}

	o.mu.Lock()
	o.identity = nil
	o.completed = make(map[string]bool)
	for name, req := range o.pending {
		req.timer.Stop()
		delete(o.pending, name)
	}
	o.mu.Unlock()

	if err := o.store.Delete(storage.KeyIdentity); err != nil {
		logger.Error("clear stored identity failed", map[string]any{
			"error": err.Error(),
		})
	}
	if err := o.store.Delete(storage.KeyTaskStatus); err != nil {
		logger.Error("clear stored task status failed", map[string]any{
			"error": err.Error(),
		})
	}
	if err := o.store.Delete(storage.KeySession); err != nil {
		logger.Error("clear stored session failed", map[string]any{
			"error": err.Error(),
		})
	}

	logger.Info("twitter disconnected", nil)
}

// Close cancels every pending verification. Results that would have
// fired into a torn-down context are dropped instead.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.closed = true
	for name, req := range o.pending {
		req.timer.Stop()
		delete(o.pending, name)
	}
}
