package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"ln-sim-viz/internal/parse"
)

// ErrIncompleteLoad is returned when one or more required streams fail to
// load. The load is atomic: no partial snapshot is ever produced.
var ErrIncompleteLoad = errors.New("incomplete load set")

// Load reads the five required streams concurrently, joins them, and
// parses a complete snapshot. The reads share no state; any single
// failure fails the whole load.
func Load(ctx context.Context, src Source) (*Snapshot, error) {
	type result struct {
		name string
		data []byte
		err  error
	}

	results := make(chan result, len(requiredStreams))
	var wg sync.WaitGroup
	for _, name := range requiredStreams {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			data, err := src.ReadStream(ctx, name)
			results <- result{name: name, data: data, err: err}
		}(name)
	}
	wg.Wait()
	close(results)

	streams := make(map[string][]byte, len(requiredStreams))
	for r := range results {
		if r.err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrIncompleteLoad, r.name, r.err)
		}
		streams[r.name] = r.data
	}

	nodes, err := parse.Nodes(streams[StreamNodes])
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrIncompleteLoad, StreamNodes, err)
	}
	channels, err := parse.Channels(streams[StreamChannels])
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrIncompleteLoad, StreamChannels, err)
	}
	edges, err := parse.Edges(streams[StreamEdges])
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrIncompleteLoad, StreamEdges, err)
	}
	payments, err := parse.Payments(streams[StreamPayments])
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrIncompleteLoad, StreamPayments, err)
	}
	cfg := parse.Config(streams[StreamConfig])

	return newSnapshot(nodes, channels, edges, payments, cfg), nil
}
