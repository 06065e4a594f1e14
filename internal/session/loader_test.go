package session

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeDump writes a minimal but complete dump directory.
func writeDump(t *testing.T, dir string) {
	t.Helper()

	files := map[string]string{
		StreamNodes: "id,open_edges\n" +
			"1,100\n" +
			"2,101\n",
		StreamChannels: "id,edge1,edge2,node1,node2,capacity,is_closed\n" +
			"200,100,101,1,2,1000000,0\n",
		StreamEdges: "id,channel_id,counter_edge_id,from_node_id,to_node_id,balance,fee_base,fee_proportional,min_htlc,timelock,is_closed,tot_flows,cul_threshold,channel_updates,group\n" +
			"100,200,101,1,2,600000,1000,10,1,40,0,0,0,0,NULL\n" +
			"101,200,100,2,1,400000,1000,10,1,40,0,0,0,0,NULL\n",
		StreamPayments: "id,sender_id,receiver_id,amount,start_time,max_fee_limit,end_time,mpp,is_success,no_balance_count,offline_node_count,timeout_exp,attempts,route,total_fee,parent_payment_id,is_shard,shard1_id,shard2_id,shards,is_rolledback,attempts_history\n" +
			"1,1,2,10000,1000,500,1500,0,1,0,0,0,1,100,30,-1,0,-1,-1,,0,\n",
		StreamConfig: "routing_method=cloth_original\nmpp=0\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeDump(t, dir)

	snap, err := Load(context.Background(), DirSource{Dir: dir})
	require.NoError(t, err)

	assert.Len(t, snap.Nodes, 2)
	assert.Len(t, snap.Channels, 1)
	assert.Len(t, snap.Edges, 2)
	assert.Len(t, snap.Payments, 1)
	assert.Equal(t, "cloth_original", snap.Config.RoutingMethod)

	// Indexes cover every collection.
	assert.Contains(t, snap.NodeByID, int64(1))
	assert.Contains(t, snap.ChannelByID, int64(200))
	assert.Contains(t, snap.EdgeByID, int64(101))
	assert.Contains(t, snap.PaymentByID, int64(1))

	assert.Equal(t, int64(200), snap.ChannelOfEdge(100))
	assert.Equal(t, int64(-1), snap.ChannelOfEdge(999))
}

func TestLoad_MissingStreamFailsAtomically(t *testing.T) {
	dir := t.TempDir()
	writeDump(t, dir)
	require.NoError(t, os.Remove(filepath.Join(dir, StreamPayments)))

	snap, err := Load(context.Background(), DirSource{Dir: dir})
	assert.Nil(t, snap)
	assert.ErrorIs(t, err, ErrIncompleteLoad)
}

func TestLoad_CanceledContext(t *testing.T) {
	dir := t.TempDir()
	writeDump(t, dir)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, DirSource{Dir: dir})
	assert.ErrorIs(t, err, ErrIncompleteLoad)
}

func TestManager_LoadAndReset(t *testing.T) {
	dir := t.TempDir()
	writeDump(t, dir)

	m := NewManager()
	assert.Nil(t, m.Current())

	snap, err := m.Load(context.Background(), DirSource{Dir: dir})
	require.NoError(t, err)
	assert.Same(t, snap, m.Current())

	m.Reset()
	assert.Nil(t, m.Current())
}

func TestManager_FailedLoadKeepsPriorSnapshot(t *testing.T) {
	dir := t.TempDir()
	writeDump(t, dir)

	m := NewManager()
	snap, err := m.Load(context.Background(), DirSource{Dir: dir})
	require.NoError(t, err)

	_, err = m.Load(context.Background(), DirSource{Dir: t.TempDir()})
	require.Error(t, err)

	// The failed reload leaves the previous snapshot active.
	assert.Same(t, snap, m.Current())
}

func TestManager_ConcurrentAccess(t *testing.T) {
	dir := t.TempDir()
	writeDump(t, dir)

	m := NewManager()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = m.Load(context.Background(), DirSource{Dir: dir})
			_ = m.Current()
		}()
	}
	wg.Wait()

	require.NotNil(t, m.Current())
	assert.Len(t, m.Current().Payments, 1)
}
