// prtgcli/cmd/prtgcli/main.go

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"rgehrsitz/prtgcli/pkg/prtg"
	"rgehrsitz/prtgcli/pkg/store"
)

// ClientFactory is an interface for creating the remote client
type ClientFactory interface {
	NewClient(cfg prtg.Config) (prtg.Client, error)
}

// StoreFactory is an interface for creating a store
type StoreFactory interface {
	NewStore(ctx context.Context, opts store.Options) (store.Store, error)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr, &RealClientFactory{}, &RealStoreFactory{})
	cancel()
	os.Exit(code)
}

// RealClientFactory implements ClientFactory
type RealClientFactory struct{}

func (f *RealClientFactory) NewClient(cfg prtg.Config) (prtg.Client, error) {
	c, err := prtg.NewHTTPClient(cfg)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// RealStoreFactory implements StoreFactory
type RealStoreFactory struct{}

func (f *RealStoreFactory) NewStore(ctx context.Context, opts store.Options) (store.Store, error) {
	s, err := store.NewRedisStore(ctx, opts)
	if err != nil {
		return nil, err
	}
	return s, nil
}
