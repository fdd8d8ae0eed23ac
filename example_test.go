package bpart_test

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/hupe1980/bpart"
)

// Example_partition orders documents so that documents sharing features are
// adjacent.
func Example_partition() {
	docs := []*bpart.Document{
		bpart.NewDocument(1, 1, 2),
		bpart.NewDocument(3, 3, 4),
		bpart.NewDocument(2, 1, 2),
		bpart.NewDocument(4, 3, 4),
		bpart.NewDocument(5, 4),
	}

	p, err := bpart.New(bpart.DefaultConfig())
	if err != nil {
		log.Fatal(err)
	}

	if err := p.Run(context.Background(), docs); err != nil {
		log.Fatal(err)
	}

	fmt.Println(bpart.IDs(docs))
	// Output: [1 2 3 4 5]
}

// Example_loadConfig reads the configuration from YAML.
func Example_loadConfig() {
	cfg, err := bpart.LoadConfig(strings.NewReader(`
split_depth: 8
skip_probability: 0.2
`))
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(cfg.SplitDepth, cfg.IterationsPerSplit, cfg.SkipProbability)
	// Output: 8 40 0.2
}
