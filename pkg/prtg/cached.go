// prtgcli/pkg/prtg/cached.go

package prtg

import (
	"context"

	"rgehrsitz/prtgcli/pkg/engine"
	"rgehrsitz/prtgcli/pkg/logging"
	"rgehrsitz/prtgcli/pkg/object"
	"rgehrsitz/prtgcli/pkg/store"
)

// CachedClient serves Fetch from a store and falls back to the wrapped
// client on a miss. The full object set is cached per content kind; filters
// are applied after loading.
type CachedClient struct {
	Client
	store store.Store
}

func NewCachedClient(c Client, s store.Store) *CachedClient {
	return &CachedClient{Client: c, store: s}
}

func (c *CachedClient) Fetch(ctx context.Context, content Content, filter Filter) ([]object.MonitoredObject, error) {
	objects, ok, err := c.store.LoadObjects(ctx, string(content))
	if err != nil {
		// A broken cache should not stop a read.
		logging.LogError(logging.Logger, err)
		ok = false
	}
	if !ok {
		objects, err = c.Refresh(ctx, content)
		if err != nil {
			return nil, err
		}
	} else {
		logging.Logger.Debug().Str("content", string(content)).Int("count", len(objects)).Msg("Serving objects from cache")
	}
	return filter.Apply(objects)
}

// Refresh fetches the unfiltered set for content and replaces the cached copy.
func (c *CachedClient) Refresh(ctx context.Context, content Content) ([]object.MonitoredObject, error) {
	objects, err := c.Client.Fetch(ctx, content, Filter{})
	if err != nil {
		return nil, err
	}
	if err := c.store.SaveObjects(ctx, string(content), objects); err != nil {
		return nil, err
	}
	return objects, nil
}

// Submit forwards to the wrapped client, applies the change to the cached
// sets and announces it. Once the remote accepted the command, a cache write
// failure is logged rather than returned so the command is not submitted twice.
func (c *CachedClient) Submit(ctx context.Context, cmd engine.UpdateCommand) error {
	if err := c.Client.Submit(ctx, cmd); err != nil {
		return err
	}
	c.updateCache(ctx, cmd)
	return c.store.PublishUpdate(ctx, cmd)
}

func (c *CachedClient) updateCache(ctx context.Context, cmd engine.UpdateCommand) {
	for _, content := range []Content{ContentDevices, ContentSensors} {
		objects, ok, err := c.store.LoadObjects(ctx, string(content))
		if err != nil {
			logging.LogError(logging.Logger, err)
			continue
		}
		if !ok {
			continue
		}
		updated, changed := ApplyUpdates(objects, []engine.UpdateCommand{cmd})
		if changed == 0 {
			continue
		}
		if err := c.store.SaveObjects(ctx, string(content), updated); err != nil {
			logging.LogError(logging.Logger, err)
			continue
		}
		logging.Logger.Debug().Str("content", string(content)).Int("objid", cmd.ObjectID).Msg("Applied update to cache")
	}
}
