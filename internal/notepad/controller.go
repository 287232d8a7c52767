package notepad

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/starford/notepad/internal/models"
)

// Option configures a Controller.
type Option func(*Controller)

// WithVariant selects the thread or dashboard behaviour.
func WithVariant(v Variant) Option {
	return func(c *Controller) { c.variant = v }
}

// WithUser sets the current user. Reminders are per user and the thread
// view marks notes owned by this user.
func WithUser(id, name string) Option {
	return func(c *Controller) {
		c.userID = id
		c.userName = name
	}
}

// WithParent scopes the thread view to one parent record.
func WithParent(id, typ string) Option {
	return func(c *Controller) {
		c.parentID = id
		c.parentType = typ
	}
}

// WithDashboardQuery sets the dashboard filters. maxRecords <= 0 means no limit.
func WithDashboardQuery(includeCompleted bool, maxRecords int) Option {
	return func(c *Controller) {
		c.includeCompleted = includeCompleted
		c.maxRecords = maxRecords
	}
}

// WithLocation sets the time zone used for display dates.
func WithLocation(loc *time.Location) Option {
	return func(c *Controller) { c.loc = loc }
}

// WithRecordURL sets the related record link template; {id} is replaced by
// the record ID.
func WithRecordURL(tmpl string) Option {
	return func(c *Controller) { c.recordURL = tmpl }
}

// WithNotifier sets the toast receiver.
func WithNotifier(n Notifier) Option {
	return func(c *Controller) { c.notifier = n }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithHydrationLimit bounds the number of concurrent reminder checks.
func WithHydrationLimit(n int) Option {
	return func(c *Controller) { c.hydrationLimit = n }
}

// Controller owns the note list of one view and implements its actions.
// All methods are safe for concurrent use; remote calls are made without
// holding the lock and block the caller until they complete.
type Controller struct {
	gw Gateway

	variant          Variant
	caps             Capabilities
	userID           string
	userName         string
	parentID         string
	parentType       string
	includeCompleted bool
	maxRecords       int
	loc              *time.Location
	recordURL        string
	notifier         Notifier
	logger           *slog.Logger
	hydrationLimit   int

	mu        sync.Mutex
	store     *noteStore
	loadSeq   uint64
	loading   int
	isAdding  bool
	newText   string
	gate      deleteGate
	pending   map[mutationKey]*mutation
	observers []func(Snapshot)
}

// New creates a controller over gw.
func New(gw Gateway, opts ...Option) *Controller {
	c := &Controller{
		gw:             gw,
		variant:        VariantThread,
		recordURL:      DefaultRecordURL,
		notifier:       discardNotifier{},
		logger:         slog.Default(),
		hydrationLimit: 8,
		store:          newNoteStore(),
		pending:        make(map[mutationKey]*mutation),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.loc == nil {
		c.loc = time.Local
	}
	c.caps = c.variant.Capabilities()
	return c
}

// Variant returns the configured variant.
func (c *Controller) Variant() Variant { return c.variant }

// Capabilities returns the capability set of the configured variant.
func (c *Controller) Capabilities() Capabilities { return c.caps }

// UserID returns the current user.
func (c *Controller) UserID() string { return c.userID }

// OnChange registers fn to receive a snapshot after every state change.
// fn is called without the controller lock held and may call back into the
// controller.
func (c *Controller) OnChange(fn func(Snapshot)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, fn)
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Loading reports whether a load is in flight.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading > 0
}

func (c *Controller) snapshotLocked() Snapshot {
	s := Snapshot{
		Notes:                  c.store.list(),
		IsAdding:               c.isAdding,
		NewNoteText:            c.newText,
		Loading:                c.loading > 0,
		ShowDeleteConfirmation: c.gate.open(),
		Capabilities:           c.caps,
	}
	if v, ok := c.gate.target(); ok {
		s.PendingDelete = &v
	}
	return s
}

// unlockAndEmit releases the lock taken by the caller and notifies observers
// of the state it left behind.
func (c *Controller) unlockAndEmit() {
	s := c.snapshotLocked()
	obs := make([]func(Snapshot), len(c.observers))
	copy(obs, c.observers)
	c.mu.Unlock()
	for _, fn := range obs {
		fn(s)
	}
}

func (c *Controller) notify(t Toast) {
	c.notifier.Notify(t)
}

func (c *Controller) query() models.ListQuery {
	if c.variant == VariantDashboard {
		return models.ListQuery{
			OwnerID:          c.userID,
			IncludeCompleted: c.includeCompleted,
			MaxRecords:       c.maxRecords,
		}
	}
	return models.ListQuery{ParentID: c.parentID, ParentType: c.parentType}
}

func (c *Controller) mapContext() MapContext {
	return MapContext{UserID: c.userID, Location: c.loc, Capabilities: c.caps}
}

// Load runs the base query, replaces the list with its result and hydrates
// the new entries. On failure the previous list is kept and an error toast is
// emitted. Open edit sessions survive the reload for notes that still exist.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	c.loadSeq++
	seq := c.loadSeq
	c.loading++
	q := c.query()
	c.unlockAndEmit()

	notes, err := c.gw.ListNotes(ctx, q)

	c.mu.Lock()
	c.loading--
	if err != nil {
		c.unlockAndEmit()
		c.logger.Error("load notes failed", slog.String("error", err.Error()))
		c.notify(toastLoadFailed)
		return fmt.Errorf("notepad: load: %w", err)
	}
	if seq < c.store.gen {
		// A newer load already landed.
		c.unlockAndEmit()
		c.logger.Debug("stale load dropped", slog.Uint64("generation", seq))
		return nil
	}

	drafts := make(map[string]string)
	for _, v := range c.store.views {
		if v.IsEditing {
			drafts[v.ID] = v.Draft
		}
	}
	mc := c.mapContext()
	views := make([]NoteView, len(notes))
	for i, n := range notes {
		v := Map(n, mc)
		if d, ok := drafts[n.ID]; ok {
			v.IsEditing = true
			v.Draft = d
		}
		views[i] = v
	}
	c.store.reset(seq, views)
	views = c.store.list()
	c.unlockAndEmit()

	c.hydrate(ctx, seq, views)
	return nil
}

// Reload re-runs the base query. Hosts call it when the backend reports a
// change.
func (c *Controller) Reload(ctx context.Context) error {
	return c.Load(ctx)
}

// reload is the post-mutation refresh; its failure is already reported.
func (c *Controller) reload(ctx context.Context) {
	_ = c.Load(ctx)
}

// RecordLink returns the related record link of a note. It is empty until
// company links are hydrated or when the company is unknown.
func (c *Controller) RecordLink(id string) (string, error) {
	if !c.caps.Navigation {
		return "", ErrUnsupported
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.store.get(id)
	if !ok {
		return "", ErrUnknownNote
	}
	return v.RelatedRecordLink, nil
}
