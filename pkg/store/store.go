// prtgcli/pkg/store/store.go

package store

import (
	"context"

	"rgehrsitz/prtgcli/pkg/engine"
	"rgehrsitz/prtgcli/pkg/object"
)

// Store caches fetched objects and holds update commands staged for a later
// commit.
type Store interface {
	SaveObjects(ctx context.Context, content string, objects []object.MonitoredObject) error
	// LoadObjects reports false when nothing is cached for content.
	LoadObjects(ctx context.Context, content string) ([]object.MonitoredObject, bool, error)
	StageUpdates(ctx context.Context, commands []engine.UpdateCommand) error
	PendingUpdates(ctx context.Context) ([]engine.UpdateCommand, error)
	// TrimUpdates drops the first n staged commands.
	TrimUpdates(ctx context.Context, n int) error
	PublishUpdate(ctx context.Context, cmd engine.UpdateCommand) error
	Close() error
}
