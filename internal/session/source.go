package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Stream names of a simulation dump, matching the simulator's output
// file layout.
const (
	StreamNodes    = "nodes_output.csv"
	StreamChannels = "channels_output.csv"
	StreamEdges    = "edges_output.csv"
	StreamPayments = "payments_output.csv"
	StreamConfig   = "cloth_input.txt"
)

// requiredStreams lists every stream a load must supply.
var requiredStreams = []string{
	StreamNodes,
	StreamChannels,
	StreamEdges,
	StreamPayments,
	StreamConfig,
}

// Source supplies the raw bytes of one dump's input streams.
type Source interface {
	// ReadStream returns the full contents of the named stream.
	ReadStream(ctx context.Context, name string) ([]byte, error)
}

// DirSource reads dump streams from files in a directory.
type DirSource struct {
	Dir string
}

// ReadStream reads the named file from the source directory.
func (s DirSource) ReadStream(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.Dir, name))
	if err != nil {
		return nil, fmt.Errorf("read stream %s: %w", name, err)
	}
	return data, nil
}
