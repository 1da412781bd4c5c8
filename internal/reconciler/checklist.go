package reconciler

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/SscSPs/pbc_workflow_app/internal/core/domain"
	"github.com/SscSPs/pbc_workflow_app/internal/core/ports/gateway"
	"github.com/SscSPs/pbc_workflow_app/internal/realtime"
)

// Checklist mirrors an engagement's checklist, keyed by item key.
type Checklist struct {
	base
	gateway gateway.ChecklistGateway

	items []domain.ChecklistItem
	index map[string]int
}

// NewChecklist creates an unmounted checklist reconciler.
func NewChecklist(gw gateway.ChecklistGateway, channel realtime.Channel, opts ...Option) *Checklist {
	return &Checklist{
		base:    newBase(channel, "checklist_reconciler", opts),
		gateway: gw,
		index:   make(map[string]int),
	}
}

func (c *Checklist) reset() {
	c.items = nil
	c.index = make(map[string]int)
}

// Mount subscribes to checklist updates of engagementID, dropping any
// previous engagement's state and subscription.
func (c *Checklist) Mount(ctx context.Context, engagementID string) error {
	return c.mount(ctx, engagementID, c.reset, map[string]func(json.RawMessage){
		realtime.EventChecklistUpdate: func(payload json.RawMessage) {
			if item, ok := decode[domain.ChecklistItem](c.logger, realtime.EventChecklistUpdate, payload); ok {
				c.applyLocked(item)
			}
		},
	})
}

// Unmount drops the subscription and the local state.
func (c *Checklist) Unmount(ctx context.Context) {
	c.unmount(ctx, c.reset)
}

// Load replaces the local checklist with the server snapshot. On failure
// the previous state is kept and the error returned.
func (c *Checklist) Load(ctx context.Context) error {
	engagementID, gen, err := c.beginLoad()
	if err != nil {
		return err
	}

	items, err := c.gateway.GetChecklistByEngagement(ctx, engagementID)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.endLoad()
	if err != nil {
		c.logger.Warn("Failed to load checklist", slog.String("engagement_id", engagementID), slog.Any("error", err))
		return err
	}
	if c.generation != gen {
		c.logger.Debug("Discarding checklist snapshot for stale engagement", slog.String("engagement_id", engagementID))
		return nil
	}
	c.items = append([]domain.ChecklistItem(nil), items...)
	c.index = make(map[string]int, len(items))
	for i, item := range c.items {
		c.index[item.Key] = i
	}
	return nil
}

// Toggle persists the inverse of the item's completion flag and applies the
// confirmed item. An unknown key is a no-op.
func (c *Checklist) Toggle(ctx context.Context, key string) error {
	c.mu.Lock()
	if c.engagementID == "" {
		c.mu.Unlock()
		return ErrNotMounted
	}
	gen := c.generation
	i, ok := c.index[key]
	var item domain.ChecklistItem
	if ok {
		item = c.items[i]
	}
	c.mu.Unlock()
	if !ok {
		c.logger.Debug("Toggle of unknown checklist key ignored", slog.String("key", key))
		return nil
	}

	next := !item.Completed
	updated, err := c.gateway.UpdateChecklistItem(ctx, item.ItemID, domain.ChecklistItemPatch{Completed: &next})
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != gen {
		return nil
	}
	confirmed := *updated
	if confirmed.Key == "" {
		confirmed.Key = key
	}
	c.applyLocked(confirmed)
	return nil
}

// ApplyUpdate merges an externally received item. Only known keys of the
// mounted engagement are replaced.
func (c *Checklist) ApplyUpdate(item domain.ChecklistItem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.applyLocked(item)
}

func (c *Checklist) applyLocked(item domain.ChecklistItem) {
	if item.EngagementID != "" && item.EngagementID != c.engagementID {
		return
	}
	i, ok := c.index[item.Key]
	if !ok {
		return
	}
	if item.EngagementID == "" {
		item.EngagementID = c.engagementID
	}
	c.items[i] = item
}

// Items returns a copy of the checklist in server order.
func (c *Checklist) Items() []domain.ChecklistItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.ChecklistItem(nil), c.items...)
}

// State returns the completion flag per key.
func (c *Checklist) State() map[string]bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]bool, len(c.items))
	for _, item := range c.items {
		out[item.Key] = item.Completed
	}
	return out
}
