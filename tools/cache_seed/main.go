// prtgcli/tools/cache_seed/main.go

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"rgehrsitz/prtgcli/pkg/object"
	"rgehrsitz/prtgcli/pkg/prtg"
	"rgehrsitz/prtgcli/pkg/store"
)

type options struct {
	addr    string
	devices string
	sensors string
	ttl     time.Duration
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("cache_seed", flag.ContinueOnError)
	fs.StringVar(&opts.addr, "redis", "localhost:6379", "Redis address")
	fs.StringVar(&opts.devices, "devices", "devices.json", "Devices table.json fixture (empty to skip)")
	fs.StringVar(&opts.sensors, "sensors", "sensors.json", "Sensors table.json fixture (empty to skip)")
	fs.DurationVar(&opts.ttl, "ttl", 0, "Cache TTL (0 keeps entries until the next refresh)")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	return opts, nil
}

// loadFixture decodes a table.json payload saved from the API.
func loadFixture(path string, content prtg.Content) ([]object.MonitoredObject, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	objects, err := prtg.DecodeTable(content, data)
	if err != nil {
		return nil, fmt.Errorf("error loading %s: %w", path, err)
	}
	return objects, nil
}

func seed(ctx context.Context, s store.Store, opts options) (map[prtg.Content]int, error) {
	counts := make(map[prtg.Content]int)
	files := []struct {
		content prtg.Content
		path    string
	}{
		{prtg.ContentDevices, opts.devices},
		{prtg.ContentSensors, opts.sensors},
	}
	for _, f := range files {
		if f.path == "" {
			continue
		}
		objects, err := loadFixture(f.path, f.content)
		if err != nil {
			return counts, err
		}
		if err := s.SaveObjects(ctx, string(f.content), objects); err != nil {
			return counts, err
		}
		counts[f.content] = len(objects)
	}
	return counts, nil
}

// report prints counts devices first, then sensors.
func report(w io.Writer, counts map[prtg.Content]int) {
	for _, content := range []prtg.Content{prtg.ContentDevices, prtg.ContentSensors} {
		if n, ok := counts[content]; ok {
			fmt.Fprintf(w, "Cached %d %s\n", n, content)
		}
	}
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	ctx := context.Background()
	s, err := store.NewRedisStore(ctx, store.Options{Addr: opts.addr, TTL: opts.ttl})
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	counts, err := seed(ctx, s, opts)
	report(os.Stdout, counts)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		s.Close()
		os.Exit(1)
	}
}
