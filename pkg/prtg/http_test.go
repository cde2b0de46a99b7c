// prtgcli/pkg/prtg/http_test.go

package prtg

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rgehrsitz/prtgcli/pkg/engine"
	"rgehrsitz/prtgcli/pkg/logging"
	"rgehrsitz/prtgcli/pkg/object"
)

const devicesJSON = `{"prtg-version":"23.1","treesize":3,"devices":[
	{"objid":2001,"parentid":40,"name":"core-sw-01","host":"10.0.0.1","status":"Up","status_raw":3,"tags":"network core","priority":"3"},
	{"objid":2002,"parentid":40,"name":"edge-rtr-01","host":"10.0.0.2","status":"Down","status_raw":5,"tags":"","priority":"4"},
	{"objid":2003,"parentid":41,"name":"db-01","host":"10.0.1.5","status":"Up","status_raw":3,"tags":"linux","priority":"3"}
]}`

const sensorsJSON = `{"sensors":[
	{"objid":3001,"parentid":2001,"device":"core-sw-01","name":"Ping","lastvalue":"1 msec","tags":"pingsensor"},
	{"objid":3002,"parentid":2003,"device":"db-01","name":"Ping","lastvalue":"2 msec","tags":"pingsensor"},
	{"objid":3003,"parentid":2003,"device":"db-01","name":"Disk Free","lastvalue":"40 %","tags":"wmi"}
]}`

type fakeAPI struct {
	mu      sync.Mutex
	updates []engine.UpdateCommand
	queries []string
}

func (f *fakeAPI) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/table.json", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		switch r.URL.Query().Get("content") {
		case "devices":
			w.Write([]byte(devicesJSON))
		case "sensors":
			w.Write([]byte(sensorsJSON))
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	})
	mux.HandleFunc("/api/setobjectproperty.htm", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		q := r.URL.Query()
		if q.Get("id") == "9999" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		id, _ := strconv.Atoi(q.Get("id"))
		f.updates = append(f.updates, engine.UpdateCommand{ObjectID: id, Attribute: q.Get("name"), Value: q.Get("value")})
		w.Write([]byte("<HTML><BODY>OK</BODY></HTML>"))
	})
	mux.HandleFunc("/api/getstatus.json", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		w.Write([]byte(`{"Version":"23.1.82","NewAlarms":"2","Alarms":4,"Clock":"10/19/2026 10:00:00 AM"}`))
	})
	return mux
}

func (f *fakeAPI) record(r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, r.URL.RawQuery)
}

func newTestClient(t *testing.T) (*HTTPClient, *fakeAPI) {
	api := &fakeAPI{}
	srv := httptest.NewServer(api.handler(t))
	t.Cleanup(srv.Close)

	c, err := NewHTTPClient(Config{Endpoint: srv.URL, Username: "prtgadmin", Passhash: "123456"})
	require.NoError(t, err)
	return c, api
}

func TestNewHTTPClientValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"Missing endpoint", Config{Username: "u", Password: "p"}},
		{"Missing username", Config{Endpoint: "https://prtg", Password: "p"}},
		{"Missing credentials", Config{Endpoint: "https://prtg", Username: "u"}},
		{"Endpoint without scheme", Config{Endpoint: "prtg.local", Username: "u", Password: "p"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewHTTPClient(tt.cfg)
			assert.Error(t, err)
			assert.True(t, logging.IsConfigurationError(err))
		})
	}
}

func TestFetchDevices(t *testing.T) {
	c, api := newTestClient(t)

	devices, err := c.Fetch(context.Background(), ContentDevices, Filter{})
	require.NoError(t, err)
	require.Len(t, devices, 3)

	first := devices[0]
	assert.Equal(t, 2001, first.ID)
	assert.Equal(t, 40, first.ParentID)

	tags, ok := first.Get("tags")
	require.True(t, ok)
	assert.Equal(t, object.KindStringList, tags.Kind())
	assert.Equal(t, []string{"network", "core"}, tags.Strings())

	_, ok = first.Get("status_raw")
	assert.False(t, ok)

	require.NotEmpty(t, api.queries)
	assert.Contains(t, api.queries[0], "passhash=123456")
	assert.Contains(t, api.queries[0], "username=prtgadmin")
}

func TestFetchWithFilter(t *testing.T) {
	c, _ := newTestClient(t)

	devices, err := c.Fetch(context.Background(), ContentDevices, Filter{Attribute: "host", Pattern: `^10\.0\.0\.`})
	require.NoError(t, err)
	require.Len(t, devices, 2)
	assert.Equal(t, 2001, devices[0].ID)
	assert.Equal(t, 2002, devices[1].ID)

	_, err = c.Fetch(context.Background(), ContentDevices, Filter{Pattern: "("})
	assert.True(t, logging.IsConfigurationError(err))
}

func TestFetchParents(t *testing.T) {
	c, _ := newTestClient(t)

	devices, err := FetchParents(context.Background(), c, Filter{Pattern: "^Ping$"})
	require.NoError(t, err)
	require.Len(t, devices, 2)
	assert.Equal(t, 2001, devices[0].ID)
	assert.Equal(t, 2003, devices[1].ID)

	devices, err = FetchParents(context.Background(), c, Filter{Pattern: "nothing-matches"})
	require.NoError(t, err)
	assert.Empty(t, devices)
}

func TestDecodeTable(t *testing.T) {
	tests := []struct {
		name    string
		content Content
		body    string
		count   int
		wantErr bool
	}{
		{"Devices", ContentDevices, devicesJSON, 3, false},
		{"Sensors", ContentSensors, sensorsJSON, 3, false},
		{"Empty rows", ContentDevices, `{"treesize":0,"devices":[]}`, 0, false},
		{"Missing content key", ContentSensors, devicesJSON, 0, true},
		{"Malformed body", ContentDevices, `{`, 0, true},
		{"Rows not an array", ContentDevices, `{"devices":{"objid":1}}`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			objects, err := DecodeTable(tt.content, []byte(tt.body))
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, logging.IsType(err, logging.ErrorTypeRemote))
				return
			}
			require.NoError(t, err)
			assert.Len(t, objects, tt.count)
		})
	}

	objects, err := DecodeTable(ContentDevices, []byte(devicesJSON))
	require.NoError(t, err)
	tags, ok := objects[0].Get("tags")
	require.True(t, ok)
	assert.Equal(t, []string{"network", "core"}, tags.Strings())
}

func TestSubmit(t *testing.T) {
	c, api := newTestClient(t)

	err := c.Submit(context.Background(), engine.UpdateCommand{ObjectID: 2001, Attribute: "tags", Value: "network core critical"})
	require.NoError(t, err)
	assert.Equal(t, []engine.UpdateCommand{{ObjectID: 2001, Attribute: "tags", Value: "network core critical"}}, api.updates)

	err = c.Submit(context.Background(), engine.UpdateCommand{ObjectID: 9999, Attribute: "tags", Value: "x"})
	assert.Error(t, err)
	assert.True(t, logging.IsType(err, logging.ErrorTypeRemote))
}

func TestStatus(t *testing.T) {
	c, _ := newTestClient(t)

	status, err := c.Status(context.Background())
	require.NoError(t, err)

	v, ok := status.Get("Alarms")
	require.True(t, ok)
	assert.Equal(t, "4", v.String())
	v, _ = status.Get("Version")
	assert.Equal(t, "23.1.82", v.String())
}

func TestParseContent(t *testing.T) {
	c, err := ParseContent("sensors")
	assert.NoError(t, err)
	assert.Equal(t, ContentSensors, c)

	_, err = ParseContent("groups")
	assert.True(t, logging.IsConfigurationError(err))
}
