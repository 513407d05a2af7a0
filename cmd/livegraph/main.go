// Command livegraph is a small demo harness around the livegraph engine: it
// classifies a fixed sample Go value through the reflected introspector
// adapter, runs it through Engine.Serialize, and prints the resulting
// emission plan (spec §6, §8).
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/viant/livegraph"
	"github.com/viant/livegraph/introspect/reflected"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to a YAML options file (spec §6 options)")
		verbose    = flag.Bool("verbose", false, "enable debug logging")
		sample     = flag.String("sample", "sequence", "sample value to serialize: sequence|cycle|mapping")
	)
	flag.Parse()

	if err := run(*configPath, *sample, *verbose); err != nil {
		fmt.Fprintln(os.Stderr, "livegraph:", err)
		os.Exit(1)
	}
}

func run(configPath, sample string, verbose bool) error {
	cfg := livegraph.Config{}
	if configPath != "" {
		loaded, err := livegraph.LoadConfigFile(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	opts := []livegraph.Option{livegraph.WithConfig(cfg)}
	if verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("build logger: %w", err)
		}
		opts = append(opts, livegraph.WithLogger(logger.Sugar()))
	}

	engine := livegraph.NewEngine(reflected.New(), opts...)

	root, err := sampleValue(sample)
	if err != nil {
		return err
	}

	out, err := engine.Serialize(reflected.Of(root))
	if err != nil {
		return err
	}

	fmt.Println(out.Text)
	return nil
}

func sampleValue(name string) (interface{}, error) {
	switch name {
	case "sequence":
		return []interface{}{1, 2, 3}, nil
	case "cycle":
		a := make([]interface{}, 1)
		a[0] = a
		return a, nil
	case "mapping":
		m := map[interface{}]interface{}{}
		m["self"] = m
		return m, nil
	default:
		return nil, fmt.Errorf("unknown sample %q", name)
	}
}
