package metrics

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grimm.is/nftjson/internal/logging"
	"grimm.is/nftjson/internal/nft"
	"grimm.is/nftjson/internal/schema"
)

type staticLister struct {
	doc   schema.Document
	err   error
	calls int
}

func (s *staticLister) ListRuleset(context.Context) (schema.Document, error) {
	s.calls++
	return s.doc, s.err
}

func u64(v uint64) *uint64 { return &v }
func u32(v uint32) *uint32 { return &v }

func testRuleset() schema.Document {
	return schema.Document{Objects: []schema.Object{
		schema.Metainfo{},
		schema.Table{Family: schema.FamilyINet, Name: "filter"},
		schema.Counter{Family: schema.FamilyINet, Table: "filter", Name: "ssh", Packets: u64(12), Bytes: u64(3400)},
		schema.Quota{Family: schema.FamilyINet, Table: "filter", Name: "month", Bytes: u64(1 << 30), Used: u64(4096)},
		schema.Set{Family: schema.FamilyINet, Table: "filter", Name: "blocked", Elem: []schema.Expression{
			schema.String("10.0.0.1"), schema.String("10.0.0.2"),
		}},
		schema.Rule{Family: schema.FamilyINet, Table: "filter", Chain: "input", Handle: u32(7), Expr: []schema.Statement{
			schema.CounterStmt{Packets: u64(5), Bytes: u64(600)},
			schema.Accept{},
		}},
		schema.Rule{Family: schema.FamilyINet, Table: "filter", Chain: "input", Expr: []schema.Statement{
			schema.CounterStmt{Packets: u64(1), Bytes: u64(1)},
		}},
	}}
}

func TestCollector_Collect(t *testing.T) {
	reg := New(prometheus.NewRegistry())
	lister := &staticLister{doc: testRuleset()}
	c := NewCollector(reg, lister, logging.Discard(), time.Minute)

	require.NoError(t, c.Collect(t.Context()))

	assert.Equal(t, 12.0, testutil.ToFloat64(reg.CounterPackets.WithLabelValues("inet", "filter", "ssh")))
	assert.Equal(t, 3400.0, testutil.ToFloat64(reg.CounterBytes.WithLabelValues("inet", "filter", "ssh")))
	assert.Equal(t, 4096.0, testutil.ToFloat64(reg.QuotaUsedBytes.WithLabelValues("inet", "filter", "month")))
	assert.Equal(t, 2.0, testutil.ToFloat64(reg.SetElements.WithLabelValues("inet", "filter", "blocked", "set")))
	assert.Equal(t, 5.0, testutil.ToFloat64(reg.RuleCounterPackets.WithLabelValues("inet", "filter", "input", "7")))
	assert.Equal(t, 1, testutil.CollectAndCount(reg.RuleCounterPackets))
	assert.Equal(t, 2.0, testutil.ToFloat64(reg.Objects.WithLabelValues("rule")))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.Objects.WithLabelValues("metainfo")))

	stats := c.GetCounterStats()
	assert.Equal(t, CounterStats{Family: schema.FamilyINet, Table: "filter", Name: "ssh", Packets: 12, Bytes: 3400}, stats["inet/filter/ssh"])
	assert.Equal(t, uint64(1<<30), c.GetQuotaStats()["inet/filter/month"].Limit)
	assert.False(t, c.GetLastUpdate().IsZero())
}

func TestCollector_RemovedObjectsDisappear(t *testing.T) {
	reg := New(prometheus.NewRegistry())
	lister := &staticLister{doc: testRuleset()}
	c := NewCollector(reg, lister, logging.Discard(), time.Minute)
	require.NoError(t, c.Collect(t.Context()))

	lister.doc = schema.Document{}
	require.NoError(t, c.Collect(t.Context()))

	assert.Equal(t, 0, testutil.CollectAndCount(reg.CounterPackets))
	assert.Empty(t, c.GetCounterStats())
}

func TestCollector_ErrorKeepsValues(t *testing.T) {
	reg := New(prometheus.NewRegistry())
	lister := &staticLister{doc: testRuleset()}
	c := NewCollector(reg, lister, logging.Discard(), time.Minute)
	require.NoError(t, c.Collect(t.Context()))

	lister.err = errors.New("nft went away")
	assert.Error(t, c.Collect(t.Context()))

	assert.Equal(t, 1.0, testutil.ToFloat64(reg.ScrapeErrors))
	assert.Equal(t, 12.0, testutil.ToFloat64(reg.CounterPackets.WithLabelValues("inet", "filter", "ssh")))
	assert.Len(t, c.GetCounterStats(), 1)
}

func TestCollector_StartStop(t *testing.T) {
	reg := New(prometheus.NewRegistry())
	lister := &staticLister{doc: testRuleset()}
	c := NewCollector(reg, lister, logging.Discard(), time.Hour)

	done := make(chan struct{})
	go func() {
		c.Start(t.Context())
		close(done)
	}()

	require.Eventually(t, func() bool { return !c.GetLastUpdate().IsZero() }, time.Second, 5*time.Millisecond)
	c.Stop()
	c.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("collector did not stop")
	}
}

func TestRegistry_Observer(t *testing.T) {
	reg := New(prometheus.NewRegistry())

	reg.ObserveState(nft.OpApply, nft.StateSpawned)
	reg.ObserveResult(nft.OpApply, nil, 512, 20*time.Millisecond)
	reg.ObserveResult(nft.OpApply, &nft.ProcessFailedError{ExitCode: 1}, 512, time.Millisecond)
	reg.ObserveResult(nft.OpList, fmt.Errorf("decode: %w", &schema.DecodeError{}), 0, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(reg.StateTransitions.WithLabelValues("apply", "spawned")))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.Operations.WithLabelValues("apply", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.Operations.WithLabelValues("apply", "process_failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.Operations.WithLabelValues("list", "decode_error")))

	expected := `
# HELP nftjson_operations_total nft invocations by operation and result
# TYPE nftjson_operations_total counter
nftjson_operations_total{op="apply",result="process_failed"} 1
nftjson_operations_total{op="apply",result="success"} 1
nftjson_operations_total{op="list",result="decode_error"} 1
`
	require.NoError(t, testutil.CollectAndCompare(reg.Operations, strings.NewReader(expected)))
}

func TestResult(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "success"},
		{&nft.SpawnError{Program: "nft", Op: "start", Err: errors.New("x")}, "spawn_failed"},
		{&nft.SpawnError{Program: "nft", Op: "wait", Err: context.DeadlineExceeded}, "canceled"},
		{&nft.OutputEncodingError{}, "encoding_error"},
		{&schema.EncodeError{Err: errors.New("x")}, "encode_error"},
		{errors.New("other"), "error"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, Result(tc.err))
	}
}
