// prtgcli/tools/fixture_gen/main.go

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"rgehrsitz/prtgcli/pkg/rules"
)

var probes = []string{"Local Probe", "Remote Probe DC1", "Remote Probe DC2"}

var groups = []string{"Network", "Servers", "Storage", "Linux", "Windows"}

var deviceTags = []string{"network", "core", "edge", "linux", "windows", "vmware", "critical", "backup"}

var sensorKinds = map[string]string{
	"Ping":         "pingsensor",
	"HTTP":         "httpsensor",
	"SNMP Traffic": "snmptrafficsensor",
	"Disk Free":    "wmidiskspace",
	"CPU Load":     "wmicpuloadsensor",
	"Memory":       "wmimemorysensor",
}

var statuses = []string{"Up", "Up", "Up", "Warning", "Down", "Paused"}

type options struct {
	devices   int
	sensors   int
	rules     int
	outputDir string
	seed      uint64
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("fixture_gen", flag.ContinueOnError)
	fs.IntVar(&opts.devices, "devices", 50, "Number of devices to generate")
	fs.IntVar(&opts.sensors, "sensors", 4, "Sensors per device")
	fs.IntVar(&opts.rules, "rules", 10, "Number of rules to generate")
	fs.StringVar(&opts.outputDir, "output", ".", "Output directory")
	fs.Uint64Var(&opts.seed, "seed", 0, "Random seed (0 uses the clock)")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	return opts, nil
}

type generator struct {
	faker  *gofakeit.Faker
	nextID int
}

func newGenerator(seed uint64) *generator {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &generator{faker: gofakeit.New(seed), nextID: 2000}
}

func (g *generator) id() int {
	g.nextID++
	return g.nextID
}

func (g *generator) tags(n int) string {
	picked := make([]string, 0, n)
	for i := 0; i < n; i++ {
		tag := g.faker.RandomString(deviceTags)
		if !slices.Contains(picked, tag) {
			picked = append(picked, tag)
		}
	}
	return strings.Join(picked, " ")
}

// generateDevices returns rows in the shape of a table.json "devices" array.
func (g *generator) generateDevices(n int) []map[string]interface{} {
	devices := make([]map[string]interface{}, 0, n)
	for i := 0; i < n; i++ {
		status := g.faker.RandomString(statuses)
		devices = append(devices, map[string]interface{}{
			"objid":      g.id(),
			"parentid":   g.faker.IntRange(40, 45),
			"probe":      g.faker.RandomString(probes),
			"group":      g.faker.RandomString(groups),
			"name":       fmt.Sprintf("%s-%s-%02d", strings.ToLower(g.faker.Noun()), g.faker.RandomString([]string{"sw", "rtr", "srv", "fw"}), i+1),
			"host":       g.faker.IPv4Address(),
			"status":     status,
			"status_raw": statusRaw(status),
			"tags":       g.tags(g.faker.IntRange(0, 3)),
			"priority":   fmt.Sprint(g.faker.IntRange(1, 5)),
		})
	}
	return devices
}

// generateSensors returns perDevice sensors for every device.
func (g *generator) generateSensors(devices []map[string]interface{}, perDevice int) []map[string]interface{} {
	names := make([]string, 0, len(sensorKinds))
	for name := range sensorKinds {
		names = append(names, name)
	}
	// map order is random; keep output reproducible for a seed
	sort.Strings(names)

	sensors := make([]map[string]interface{}, 0, len(devices)*perDevice)
	for _, dev := range devices {
		for i := 0; i < perDevice; i++ {
			name := g.faker.RandomString(names)
			status := g.faker.RandomString(statuses)
			sensors = append(sensors, map[string]interface{}{
				"objid":      g.id(),
				"parentid":   dev["objid"],
				"probe":      dev["probe"],
				"group":      dev["group"],
				"device":     dev["name"],
				"name":       name,
				"status":     status,
				"status_raw": statusRaw(status),
				"lastvalue":  fmt.Sprintf("%d %%", g.faker.IntRange(0, 100)),
				"tags":       sensorKinds[name],
				"priority":   fmt.Sprint(g.faker.IntRange(1, 5)),
			})
		}
	}
	return sensors
}

func (g *generator) generateRule(index int) rules.Rule {
	rule := rules.Rule{
		Name:   fmt.Sprintf("rule-%d", index),
		Target: "tags",
		Value:  []string{strings.ToLower(g.faker.Adjective())},
		Update: g.faker.Bool(),
	}
	switch g.faker.IntRange(0, 2) {
	case 0:
		rule.Match = rules.Condition{Attribute: "group", Value: g.faker.RandomString(groups), Mode: rules.MatchExact}
	case 1:
		rule.Match = rules.Condition{Attribute: "name", Value: "-" + g.faker.RandomString([]string{"sw", "rtr", "srv", "fw"}) + "-", Mode: rules.MatchRegex}
	default:
		rule.Match = rules.Condition{Attribute: "tags", Value: g.faker.RandomString(deviceTags), Mode: rules.MatchContains}
	}
	return rule
}

func (g *generator) generateRuleset(n int) rules.Ruleset {
	ruleset := rules.Ruleset{Rules: make([]rules.Rule, n)}
	for i := range ruleset.Rules {
		ruleset.Rules[i] = g.generateRule(i + 1)
	}
	return ruleset
}

func statusRaw(status string) int {
	switch status {
	case "Up":
		return 3
	case "Warning":
		return 4
	case "Down":
		return 5
	case "Paused":
		return 7
	default:
		return 1
	}
}

func writeJSON(path string, v interface{}) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("error encoding JSON: %w", err)
	}
	return nil
}

func generate(opts options) error {
	g := newGenerator(opts.seed)
	devices := g.generateDevices(opts.devices)
	sensors := g.generateSensors(devices, opts.sensors)

	files := map[string]interface{}{
		"devices.json": map[string]interface{}{"treesize": len(devices), "devices": devices},
		"sensors.json": map[string]interface{}{"treesize": len(sensors), "sensors": sensors},
		"rules.json":   g.generateRuleset(opts.rules),
	}
	for name, v := range files {
		if err := writeJSON(filepath.Join(opts.outputDir, name), v); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}
	if err := generate(opts); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generated %d devices, %d sensors and %d rules in %s\n",
		opts.devices, opts.devices*opts.sensors, opts.rules, opts.outputDir)
}
