package notepad

import (
	"context"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"
)

// hydrate enriches the entries of load gen with reminder state and, for
// views with company links, related record IDs. Failures are logged and
// leave the defaults in place. Results are applied only while gen is still
// the current load.
func (c *Controller) hydrate(ctx context.Context, gen uint64, views []NoteView) {
	var g errgroup.Group
	if c.hydrationLimit > 0 {
		g.SetLimit(c.hydrationLimit)
	}

	if c.caps.CompanyLinks {
		g.Go(func() error {
			c.hydrateCompanyLinks(ctx, gen, views)
			return nil
		})
	}
	for _, v := range views {
		id := v.ID
		g.Go(func() error {
			c.hydrateReminder(ctx, gen, id)
			return nil
		})
	}
	_ = g.Wait()
}

func (c *Controller) hydrateReminder(ctx context.Context, gen uint64, id string) {
	exists, err := c.gw.ReminderExists(ctx, c.userID, id)
	if err != nil {
		c.logger.Warn("reminder check failed", slog.String("note_id", id), slog.String("error", err.Error()))
		return
	}

	c.mu.Lock()
	if !c.currentLocked(gen, "reminder", id) {
		c.mu.Unlock()
		return
	}
	if _, busy := c.pending[mutationKey{kind: kindReminder, noteID: id}]; busy {
		c.mu.Unlock()
		c.logger.Debug("reminder hydration skipped during toggle", slog.String("note_id", id))
		return
	}
	c.store.update(id, func(v NoteView) NoteView { return withReminder(v, exists) })
	c.unlockAndEmit()
}

func (c *Controller) hydrateCompanyLinks(ctx context.Context, gen uint64, views []NoteView) {
	keys := companyKeys(views)
	if len(keys) == 0 {
		return
	}

	found, err := c.gw.LookupRecordIDsByNames(ctx, keys)
	if err != nil {
		c.logger.Warn("company lookup failed", slog.String("error", err.Error()))
		return
	}
	ids := make(map[string]string, len(found))
	for name, id := range found {
		if k := normalizeName(name); k != "" && id != "" {
			ids[k] = id
		}
	}
	if len(ids) == 0 {
		return
	}

	c.mu.Lock()
	if !c.currentLocked(gen, "company links", "") {
		c.mu.Unlock()
		return
	}
	for _, v := range c.store.list() {
		if id, ok := ids[normalizeName(v.CompanyName)]; ok {
			c.store.put(withLink(v, id, c.recordURL))
		}
	}
	c.unlockAndEmit()
}

// currentLocked reports whether gen is still the live load.
func (c *Controller) currentLocked(gen uint64, what, id string) bool {
	if gen == c.store.gen {
		return true
	}
	c.logger.Debug("stale hydration dropped",
		slog.String("kind", what),
		slog.String("note_id", id),
		slog.Uint64("generation", gen),
		slog.Uint64("current_generation", c.store.gen))
	return false
}

// companyKeys returns the sorted, deduplicated lookup keys of views.
func companyKeys(views []NoteView) []string {
	seen := make(map[string]struct{})
	var keys []string
	for _, v := range views {
		k := normalizeName(v.CompanyName)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
