// prtgcli/tools/cache_seed/cache_seed_main_test.go

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rgehrsitz/prtgcli/pkg/object"
	"rgehrsitz/prtgcli/pkg/prtg"
	"rgehrsitz/prtgcli/pkg/store"
)

const devicesFixture = `{"treesize":2,"devices":[
	{"objid":2001,"parentid":40,"name":"core-sw-01","tags":"network core","status_raw":3},
	{"objid":2002,"parentid":40,"name":"edge-rtr-01","tags":"edge"}
]}`

const sensorsFixture = `{"treesize":1,"sensors":[
	{"objid":3001,"parentid":2001,"name":"Ping","tags":"pingsensor"}
]}`

func writeFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func setupStore(t *testing.T) (*miniredis.Miniredis, *store.RedisStore) {
	s, err := miniredis.Run()
	if err != nil {
		panic(err)
	}
	t.Cleanup(s.Close)

	rs, err := store.NewRedisStore(context.Background(), store.Options{Addr: s.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { rs.Close() })
	return s, rs
}

func TestParseFlags(t *testing.T) {
	opts, err := parseFlags(nil)
	require.NoError(t, err)
	assert.Equal(t, options{addr: "localhost:6379", devices: "devices.json", sensors: "sensors.json"}, opts)

	opts, err = parseFlags([]string{"-redis", "cache:6380", "-sensors", "", "-ttl", "5m"})
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", opts.addr)
	assert.Equal(t, "", opts.sensors)
	assert.Equal(t, 5*time.Minute, opts.ttl)
}

func TestLoadFixture(t *testing.T) {
	path := writeFile(t, "devices.json", devicesFixture)

	objects, err := loadFixture(path, prtg.ContentDevices)
	require.NoError(t, err)
	require.Len(t, objects, 2)
	assert.Equal(t, 2001, objects[0].ID)
	tags, ok := objects[0].Get("tags")
	require.True(t, ok)
	assert.Equal(t, object.KindStringList, tags.Kind())

	_, err = loadFixture(path, prtg.ContentSensors)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "devices.json")

	_, err = loadFixture(writeFile(t, "bad.json", "{"), prtg.ContentDevices)
	assert.Error(t, err)
}

func TestSeed(t *testing.T) {
	s, rs := setupStore(t)
	opts := options{
		devices: writeFile(t, "devices.json", devicesFixture),
		sensors: writeFile(t, "sensors.json", sensorsFixture),
	}

	counts, err := seed(context.Background(), rs, opts)
	require.NoError(t, err)
	assert.Equal(t, map[prtg.Content]int{prtg.ContentDevices: 2, prtg.ContentSensors: 1}, counts)
	assert.True(t, s.Exists("prtgcli:objects:devices"))

	sensors, ok, err := rs.LoadObjects(context.Background(), "sensors")
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, sensors, 1)
	assert.Equal(t, 2001, sensors[0].ParentID)
}

func TestSeedSkipsEmptyPathAndStopsOnError(t *testing.T) {
	s, rs := setupStore(t)

	counts, err := seed(context.Background(), rs, options{
		devices: writeFile(t, "devices.json", devicesFixture),
		sensors: filepath.Join(t.TempDir(), "missing.json"),
	})
	assert.Error(t, err)
	assert.Equal(t, 2, counts[prtg.ContentDevices])
	assert.False(t, s.Exists("prtgcli:objects:sensors"))

	counts, err = seed(context.Background(), rs, options{sensors: writeFile(t, "sensors.json", sensorsFixture)})
	require.NoError(t, err)
	assert.Equal(t, map[prtg.Content]int{prtg.ContentSensors: 1}, counts)
}

func TestReportOrder(t *testing.T) {
	counts := map[prtg.Content]int{prtg.ContentSensors: 7, prtg.ContentDevices: 3}
	for i := 0; i < 10; i++ {
		var buf bytes.Buffer
		report(&buf, counts)
		assert.Equal(t, "Cached 3 devices\nCached 7 sensors\n", buf.String())
	}

	var buf bytes.Buffer
	report(&buf, map[prtg.Content]int{prtg.ContentSensors: 1})
	assert.Equal(t, "Cached 1 sensors\n", buf.String())
}
