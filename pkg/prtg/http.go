// prtgcli/pkg/prtg/http.go

package prtg

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"rgehrsitz/prtgcli/pkg/engine"
	"rgehrsitz/prtgcli/pkg/logging"
	"rgehrsitz/prtgcli/pkg/object"
)

// DefaultColumns are requested from the table API per content kind.
var DefaultColumns = map[Content][]string{
	ContentDevices: {"objid", "parentid", "probe", "group", "name", "host", "status", "tags", "priority"},
	ContentSensors: {"objid", "parentid", "probe", "group", "device", "name", "status", "lastvalue", "tags", "priority"},
}

// listAttributes arrive as space-separated strings and are exposed as lists.
var listAttributes = map[string]bool{"tags": true}

type Config struct {
	Endpoint string
	Username string
	Password string
	Passhash string
	Timeout  time.Duration
	Columns  map[Content][]string
}

// HTTPClient talks to the PRTG JSON API.
type HTTPClient struct {
	base    *url.URL
	auth    url.Values
	columns map[Content][]string
	http    *http.Client
}

// NewHTTPClient validates cfg. Missing endpoint, username or credentials are
// CONFIG errors.
func NewHTTPClient(cfg Config) (*HTTPClient, error) {
	if cfg.Endpoint == "" {
		return nil, logging.ConfigError("missing monitoring endpoint (PRTGENDPOINT)", nil)
	}
	if cfg.Username == "" {
		return nil, logging.ConfigError("missing username (PRTGUSERNAME)", nil)
	}
	if cfg.Password == "" && cfg.Passhash == "" {
		return nil, logging.ConfigError("missing password (PRTGPASSWORD) or passhash (PRTGPASSHASH)", nil)
	}
	base, err := url.Parse(strings.TrimRight(cfg.Endpoint, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, logging.NewError(logging.ErrorTypeConfig,
			fmt.Sprintf("invalid endpoint '%s'", cfg.Endpoint), err, nil)
	}

	auth := url.Values{}
	auth.Set("username", cfg.Username)
	if cfg.Passhash != "" {
		auth.Set("passhash", cfg.Passhash)
	} else {
		auth.Set("password", cfg.Password)
	}

	columns := cfg.Columns
	if columns == nil {
		columns = DefaultColumns
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &HTTPClient{
		base:    base,
		auth:    auth,
		columns: columns,
		http:    &http.Client{Timeout: timeout},
	}, nil
}

func (c *HTTPClient) Fetch(ctx context.Context, content Content, filter Filter) ([]object.MonitoredObject, error) {
	query := url.Values{}
	query.Set("content", string(content))
	query.Set("output", "json")
	query.Set("count", "*")
	query.Set("columns", strings.Join(c.columns[content], ","))

	body, err := c.get(ctx, "/api/table.json", query)
	if err != nil {
		return nil, err
	}

	objects, err := DecodeTable(content, body)
	if err != nil {
		return nil, err
	}
	logging.Logger.Debug().Str("content", string(content)).Int("count", len(objects)).Msg("Fetched objects")
	return filter.Apply(objects)
}

// DecodeTable reads a table.json response body. The rows live under a key
// named after content; a body without that key is a REMOTE error.
func DecodeTable(content Content, body []byte) ([]object.MonitoredObject, error) {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, logging.NewError(logging.ErrorTypeRemote, "invalid table response", err, nil)
	}
	raw, ok := payload[string(content)]
	if !ok {
		return nil, logging.NewError(logging.ErrorTypeRemote, "table response has no rows", nil,
			map[string]interface{}{"content": content})
	}
	var rows []map[string]object.Value
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, logging.NewError(logging.ErrorTypeRemote, "invalid table rows", err,
			map[string]interface{}{"content": content})
	}

	objects := make([]object.MonitoredObject, 0, len(rows))
	for _, row := range rows {
		objects = append(objects, DecodeRow(row))
	}
	return objects, nil
}

func (c *HTTPClient) Submit(ctx context.Context, cmd engine.UpdateCommand) error {
	query := url.Values{}
	query.Set("id", strconv.Itoa(cmd.ObjectID))
	query.Set("name", cmd.Attribute)
	query.Set("value", cmd.Value)

	if _, err := c.get(ctx, "/api/setobjectproperty.htm", query); err != nil {
		return fmt.Errorf("submit %s on %d: %w", cmd.Attribute, cmd.ObjectID, err)
	}
	logging.Logger.Info().Int("objid", cmd.ObjectID).Str("attribute", cmd.Attribute).Str("value", cmd.Value).Msg("Submitted update")
	return nil
}

func (c *HTTPClient) Status(ctx context.Context) (object.MonitoredObject, error) {
	body, err := c.get(ctx, "/api/getstatus.json", url.Values{})
	if err != nil {
		return object.MonitoredObject{}, err
	}
	var row map[string]object.Value
	if err := json.Unmarshal(body, &row); err != nil {
		return object.MonitoredObject{}, logging.NewError(logging.ErrorTypeRemote, "invalid status response", err, nil)
	}
	return DecodeRow(row), nil
}

func (c *HTTPClient) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	u := *c.base
	u.Path = c.base.Path + path
	for k, vs := range c.auth {
		query[k] = vs
	}
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, logging.NewError(logging.ErrorTypeRemote, "failed to build request", err, nil)
	}

	logging.Logger.Debug().Str("path", path).Msg("Calling monitoring API")
	resp, err := c.http.Do(req)
	if err != nil {
		logging.Logger.Error().Err(err).Str("path", path).Msg("Request failed")
		return nil, logging.NewError(logging.ErrorTypeRemote, "request failed", err,
			map[string]interface{}{"path": path})
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, logging.NewError(logging.ErrorTypeRemote, "failed to read response", err, nil)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logging.Logger.Error().Int("status", resp.StatusCode).Str("path", path).Msg("Unexpected response status")
		return nil, logging.NewError(logging.ErrorTypeRemote,
			fmt.Sprintf("unexpected status %d", resp.StatusCode), nil,
			map[string]interface{}{"path": path})
	}
	return body, nil
}

// DecodeRow turns one API row into an object. objid and parentid fill ID and
// ParentID; "_raw" companion columns are dropped.
func DecodeRow(row map[string]object.Value) object.MonitoredObject {
	obj := object.New(0, 0, make(object.Attributes, len(row)))
	for name, v := range row {
		if strings.HasSuffix(name, "_raw") {
			continue
		}
		if listAttributes[name] && v.Kind() == object.KindString {
			v = object.StringList(v.Strings()...)
		}
		obj.Set(name, v)
	}
	obj.ID = intAttr(obj, "objid")
	obj.ParentID = intAttr(obj, "parentid")
	return obj
}

func intAttr(obj object.MonitoredObject, name string) int {
	v, ok := obj.Get(name)
	if !ok {
		return 0
	}
	if n, ok := v.Int(); ok {
		return int(n)
	}
	n, err := strconv.Atoi(strings.TrimSpace(v.String()))
	if err != nil {
		return 0
	}
	return n
}
