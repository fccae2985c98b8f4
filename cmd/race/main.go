// Command race runs a single one-hop path search from the command line:
//
//	race <start> <finish>
//
// It prints the resulting path, one title per line, or reports why no path
// was produced. Exit code 0 covers Found and NotFound; Invalid and faults
// exit non-zero.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"wikiracer/application/queries"
	"wikiracer/infrastructure/config"
	"wikiracer/infrastructure/di"
)

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintf(os.Stderr, "usage: %s <start> <finish>\n", os.Args[0])
		os.Exit(2)
	}
	start, finish := os.Args[1], os.Args[2]

	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	container, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	defer container.Logger.Sync()

	result, err := container.QueryBus.Ask(ctx, queries.FindPathQuery{Start: start, Finish: finish})
	if err != nil {
		fmt.Fprintf(os.Stderr, "race failed: %v\n", err)
		os.Exit(1)
	}

	pathResult, ok := result.(*queries.PathResult)
	if !ok {
		fmt.Fprintln(os.Stderr, "race failed: unexpected result type")
		os.Exit(1)
	}

	switch pathResult.Outcome {
	case queries.OutcomeFound:
		for _, title := range pathResult.Path {
			fmt.Println(title)
		}
	case queries.OutcomeNotFound:
		fmt.Printf("no path from %q to %q within one hop\n", start, finish)
	case queries.OutcomeInvalid:
		fmt.Fprintf(os.Stderr, "can't resolve corpus page %q\n", pathResult.InvalidTitle)
		os.Exit(1)
	}
}
