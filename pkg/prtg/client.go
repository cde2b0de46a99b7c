// prtgcli/pkg/prtg/client.go

package prtg

import (
	"context"
	"fmt"

	"rgehrsitz/prtgcli/pkg/engine"
	"rgehrsitz/prtgcli/pkg/logging"
	"rgehrsitz/prtgcli/pkg/object"
)

// Content is the kind of object a table query returns.
type Content string

const (
	ContentDevices Content = "devices"
	ContentSensors Content = "sensors"
)

func ParseContent(s string) (Content, error) {
	switch Content(s) {
	case ContentDevices, ContentSensors:
		return Content(s), nil
	default:
		return "", logging.NewError(logging.ErrorTypeConfig,
			fmt.Sprintf("unknown content '%s' (want devices or sensors)", s), nil, nil)
	}
}

// Client is the monitoring service as seen by the CLI.
type Client interface {
	// Fetch returns the objects of the given kind that pass filter.
	Fetch(ctx context.Context, content Content, filter Filter) ([]object.MonitoredObject, error)
	// Submit applies one property change.
	Submit(ctx context.Context, cmd engine.UpdateCommand) error
	// Status returns the service status as a single object.
	Status(ctx context.Context) (object.MonitoredObject, error)
}

// FetchParents returns the devices that own the sensors passing filter.
func FetchParents(ctx context.Context, c Client, filter Filter) ([]object.MonitoredObject, error) {
	sensors, err := c.Fetch(ctx, ContentSensors, filter)
	if err != nil {
		return nil, err
	}
	parents := make(map[int]struct{})
	for _, id := range ParentIDs(sensors) {
		parents[id] = struct{}{}
	}
	if len(parents) == 0 {
		return nil, nil
	}

	devices, err := c.Fetch(ctx, ContentDevices, Filter{})
	if err != nil {
		return nil, err
	}
	out := make([]object.MonitoredObject, 0, len(parents))
	for _, dev := range devices {
		if _, ok := parents[dev.ID]; ok {
			out = append(out, dev)
		}
	}
	logging.Logger.Debug().Int("sensors", len(sensors)).Int("devices", len(out)).Msg("Resolved parent devices")
	return out, nil
}
