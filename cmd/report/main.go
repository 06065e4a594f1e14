// Package main provides the offline report tool: it loads one simulation
// dump directory, prints a summary and writes the statistics CSVs without
// starting a server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"ln-sim-viz/internal/aggregate"
	"ln-sim-viz/internal/reporting"
	"ln-sim-viz/internal/session"
	"ln-sim-viz/internal/timeline"
)

func main() {
	dir := flag.String("dir", "", "Simulation dump directory (required)")
	outputDir := flag.String("output-dir", "output", "Output directory for CSV reports")

	flag.Parse()

	logger := log.New(os.Stdout, "[report] ", log.LstdFlags)

	if *dir == "" {
		logger.Fatal("--dir is required")
	}

	ctx := context.Background()

	snap, err := session.Load(ctx, session.DirSource{Dir: *dir})
	if err != nil {
		logger.Fatalf("Load failed: %v", err)
	}

	events := timeline.Derive(snap.Payments)
	stats := aggregate.Compute(snap)
	summary := reporting.Build(snap, events)

	fmt.Printf("Run summary for %s\n", *dir)
	fmt.Printf("  Nodes:            %d\n", summary.NodeCount)
	fmt.Printf("  Channels:         %d\n", summary.ChannelCount)
	fmt.Printf("  Edges:            %d\n", summary.EdgeCount)
	fmt.Printf("  Payments:         %d (%d roots, %d shards, %d MPP)\n",
		summary.TotalPayments, summary.RootPayments, summary.ShardPayments, summary.MPPPayments)
	fmt.Printf("  Root success:     %d/%d (%.1f%%)\n",
		summary.SuccessfulRoots, summary.RootPayments, summary.SuccessRate*100)
	fmt.Printf("  Attempts:         %d\n", summary.TotalAttempts)
	fmt.Printf("  Timeline events:  %d\n", summary.TotalEvents)
	fmt.Printf("  Total fee paid:   %d msat (median %d)\n", summary.TotalFeePaid, summary.MedianFee)

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		logger.Fatalf("Failed to create output directory: %v", err)
	}

	reports := map[string]string{
		"edge_stats.csv":    reporting.RenderEdgeStatsCSV(stats),
		"channel_stats.csv": reporting.RenderChannelStatsCSV(stats),
		"node_stats.csv":    reporting.RenderNodeStatsCSV(stats),
	}
	for name, body := range reports {
		path := filepath.Join(*outputDir, name)
		if err := os.WriteFile(path, []byte(body), 0644); err != nil {
			logger.Fatalf("Failed to write %s: %v", path, err)
		}
		logger.Printf("Wrote %s", path)
	}
}
