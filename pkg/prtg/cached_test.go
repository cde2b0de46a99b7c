// prtgcli/pkg/prtg/cached_test.go

package prtg

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rgehrsitz/prtgcli/pkg/engine"
	"rgehrsitz/prtgcli/pkg/object"
	"rgehrsitz/prtgcli/pkg/rules"
	"rgehrsitz/prtgcli/pkg/store"
)

func newCachedClient(t *testing.T) (*CachedClient, *fakeAPI, *miniredis.Miniredis) {
	c, api := newTestClient(t)

	s, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(s.Close)

	rs, err := store.NewRedisStore(context.Background(), store.Options{Addr: s.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { rs.Close() })

	return NewCachedClient(c, rs), api, s
}

func TestCachedFetch(t *testing.T) {
	c, api, s := newCachedClient(t)
	ctx := context.Background()

	devices, err := c.Fetch(ctx, ContentDevices, Filter{Pattern: "^core"})
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, 2001, devices[0].ID)
	assert.True(t, s.Exists("prtgcli:objects:devices"))
	assert.Len(t, api.queries, 1)

	// Second read is served from the cache with a different filter.
	devices, err = c.Fetch(ctx, ContentDevices, Filter{Attribute: "host", Pattern: `^10\.0\.0\.`})
	require.NoError(t, err)
	require.Len(t, devices, 2)
	assert.Len(t, api.queries, 1)
}

func TestCachedFetchCorruptCacheFallsBack(t *testing.T) {
	c, api, s := newCachedClient(t)
	s.Set("prtgcli:objects:sensors", "{broken")

	sensors, err := c.Fetch(context.Background(), ContentSensors, Filter{})
	require.NoError(t, err)
	assert.Len(t, sensors, 3)
	assert.Len(t, api.queries, 1)
}

func TestCachedRefresh(t *testing.T) {
	c, api, _ := newCachedClient(t)
	ctx := context.Background()

	_, err := c.Fetch(ctx, ContentSensors, Filter{})
	require.NoError(t, err)
	_, err = c.Refresh(ctx, ContentSensors)
	require.NoError(t, err)
	assert.Len(t, api.queries, 2)
}

func TestCachedSubmitPublishes(t *testing.T) {
	c, api, s := newCachedClient(t)
	ctx := context.Background()

	ps := s.NewSubscriber()
	defer ps.Close()
	ps.Subscribe(store.DefaultChannel)
	// miniredis delivers on an unbuffered channel; drain it while Submit runs.
	received := make(chan string, 1)
	go func() {
		for msg := range ps.Messages() {
			received <- msg.Message
		}
	}()

	cmd := engine.UpdateCommand{ObjectID: 2002, Attribute: "tags", Value: "edge"}
	require.NoError(t, c.Submit(ctx, cmd))
	assert.Equal(t, []engine.UpdateCommand{cmd}, api.updates)

	assert.Equal(t, "2002:tags=edge", <-received)

	err := c.Submit(ctx, engine.UpdateCommand{ObjectID: 9999, Attribute: "tags", Value: "x"})
	assert.Error(t, err)
}

func TestCachedSubmitUpdatesCachedObjects(t *testing.T) {
	c, api, _ := newCachedClient(t)
	ctx := context.Background()
	filter := Filter{Pattern: "^core"}

	appendTag := func(tag string) []engine.UpdateCommand {
		devices, err := c.Fetch(ctx, ContentDevices, filter)
		require.NoError(t, err)
		commands, err := engine.Evaluate(devices, []rules.Rule{{
			Target: "tags",
			Match:  rules.Condition{Attribute: "name", Value: "core-sw-01", Mode: rules.MatchExact},
			Value:  []string{tag},
			Update: true,
		}})
		require.NoError(t, err)
		require.Len(t, commands, 1)
		return commands
	}

	first := appendTag("b")
	assert.Equal(t, "network core b", first[0].Value)
	require.NoError(t, c.Submit(ctx, first[0]))

	devices, err := c.Fetch(ctx, ContentDevices, filter)
	require.NoError(t, err)
	require.Len(t, devices, 1)
	tags, ok := devices[0].Get("tags")
	require.True(t, ok)
	assert.Equal(t, object.KindStringList, tags.Kind())
	assert.Equal(t, "network core b", tags.String())

	second := appendTag("c")
	assert.Equal(t, "network core b c", second[0].Value)

	// One table query and one submit; later reads came from the cache.
	assert.Len(t, api.queries, 2)
}
