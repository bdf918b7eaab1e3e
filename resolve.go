package choices

import (
	"context"
	"slices"
	"strings"
	"time"
)

// idSetKey identifies a resolution request. The same ids in any order
// share a key.
func idSetKey(ids []OptionID) string {
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, id.key())
	}
	slices.Sort(keys)
	keys = slices.Compact(keys)
	return strings.Join(keys, ",")
}

func indexOptions(options []Option) map[OptionID]Option {
	out := make(map[OptionID]Option, len(options))
	for _, opt := range options {
		if opt.ID.IsNull() {
			continue
		}
		out[opt.ID] = opt
	}
	return out
}

// resolveRemote calls resolver for ids. Concurrent calls for the same id set
// share one in-flight request. Must be called without the lock.
func (c *Controller) resolveRemote(ctx context.Context, resolver Resolver, ids []OptionID) ([]Option, error) {
	if resolver == nil || len(ids) == 0 {
		return nil, nil
	}
	start := time.Now()
	result, err, shared := c.flights.Do(idSetKey(ids), func() (any, error) {
		return resolver.Resolve(ctx, slices.Clone(ids))
	})
	c.log(LogEvent{
		Op:       "resolve",
		IDs:      len(ids),
		Duration: time.Since(start),
		Shared:   shared,
		Err:      err,
	})
	if err != nil {
		return nil, err
	}
	options, _ := result.([]Option)
	wanted := make(map[OptionID]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	out := make([]Option, 0, len(options))
	for _, opt := range options {
		if _, ok := wanted[opt.ID]; ok {
			out = append(out, opt)
		}
	}
	return out, nil
}

// storeResolved writes resolved options into the cache unless the cache was
// cleared since the resolution started.
func (c *Controller) storeResolved(epoch uint64, found []Option) {
	if epoch != c.cacheEpoch {
		return
	}
	for _, opt := range found {
		if opt.ID.IsNull() {
			continue
		}
		c.items.Set(opt.ID, opt)
	}
}

func (c *Controller) clearItemCache() {
	c.items.Clear()
	c.cacheEpoch++
}

// GetItems returns items for ids, in order. Ids nothing held locally are
// resolved through the Resolver; failures and unknown ids degrade to
// placeholders whose text is the id.
func (c *Controller) GetItems(ctx context.Context, ids []OptionID) []OptionItem {
	var (
		missing  []OptionID
		resolver Resolver
		epoch    uint64
	)
	c.update(func() {
		for _, id := range ids {
			if id.IsNull() {
				continue
			}
			if _, ok := c.lookup(id); !ok {
				missing = append(missing, id)
			}
		}
		resolver = c.resolver
		epoch = c.cacheEpoch
	})

	var resolved map[OptionID]Option
	if len(missing) > 0 && resolver != nil {
		found, _ := c.resolveRemote(ctx, resolver, missing)
		resolved = indexOptions(found)
		c.update(func() { c.storeResolved(epoch, found) })
	}

	var out []OptionItem
	c.update(func() {
		out = c.formatItems(c.placeholders(ids, resolved), c.cfg.formatOption)
	})
	return out
}

// GetItem returns the item for id without blocking. When the id is not held
// a placeholder is returned and a background resolution fills the cache.
func (c *Controller) GetItem(id OptionID) OptionItem {
	var item OptionItem
	c.update(func() {
		if opt, ok := c.lookup(id); ok {
			item = c.itemsFor([]Option{opt})[0]
		} else {
			item = c.itemsFor([]Option{placeholder(id)})[0]
			if c.resolver != nil && !id.IsNull() {
				c.resolveInBackground([]OptionID{id})
			}
		}
		item = c.formatItem(item, c.cfg.formatOption)
	})
	return item
}

func (c *Controller) resolveInBackground(ids []OptionID) {
	epoch := c.cacheEpoch
	resolver := c.resolver
	c.spawn(func(ctx context.Context) {
		found, err := c.resolveRemote(ctx, resolver, ids)
		if err != nil || len(found) == 0 {
			return
		}
		c.update(func() {
			c.storeResolved(epoch, found)
			if c.closed {
				return
			}
			c.selected = c.placeholders(c.value.IDs(), nil)
		})
	})
}
