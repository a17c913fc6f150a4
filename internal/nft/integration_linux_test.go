//go:build linux

package nft_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grimm.is/nftjson/internal/batch"
	"grimm.is/nftjson/internal/kernel"
	"grimm.is/nftjson/internal/nft"
	"grimm.is/nftjson/internal/schema"
	"grimm.is/nftjson/internal/testutil"
)

func newNSClient(t *testing.T) (*nft.Client, string) {
	nftPath := testutil.RequireIntegration(t)
	ns := testutil.WithNetNS(t)
	return nft.New(nft.Config{Program: "ip", Args: []string{"netns", "exec", ns, nftPath}}), ns
}

func TestIntegration_ApplyAndList(t *testing.T) {
	c, ns := newNSClient(t)
	ctx := t.Context()

	tbl := schema.Table{Family: schema.FamilyINet, Name: "nftjson_test"}
	hook, typ, prio, policy := schema.HookInput, schema.ChainTypeFilter, int32(0), schema.PolicyAccept
	chain := schema.Chain{Family: schema.FamilyINet, Table: tbl.Name, Name: "input", Type: &typ, Hook: &hook, Prio: &prio, Policy: &policy}
	rule := schema.Rule{Family: schema.FamilyINet, Table: tbl.Name, Chain: "input", Expr: []schema.Statement{
		schema.Match{Op: schema.OpEq, Left: schema.Payload{Protocol: "tcp", Field: "dport"}, Right: schema.Number(22)},
		schema.CounterStmt{},
		schema.Accept{},
	}}

	doc := batch.New().Add(tbl).Add(chain).Add(rule).Document()
	require.NoError(t, c.Check(ctx, doc))
	require.NoError(t, c.Apply(ctx, doc))

	listed, err := c.ListRuleset(ctx)
	require.NoError(t, err)

	var sawTable, sawRule bool
	for _, obj := range listed.ListObjects() {
		switch o := obj.(type) {
		case schema.Table:
			sawTable = sawTable || o.Name == tbl.Name
		case schema.Rule:
			if o.Chain == "input" {
				sawRule = true
				require.NotNil(t, o.Handle)
				assert.Len(t, o.Expr, 3)
			}
		}
	}
	assert.True(t, sawTable)
	assert.True(t, sawRule)

	snap, err := kernel.NewReader(ns).Snapshot(ctx)
	require.NoError(t, err)
	assert.Contains(t, snap.Objects, schema.Object(tbl))
}

func TestIntegration_FailureIsAtomic(t *testing.T) {
	c, _ := newNSClient(t)
	ctx := t.Context()

	good := schema.Table{Family: schema.FamilyIP, Name: "kept_out"}
	missing := schema.Table{Family: schema.FamilyIP, Name: "does_not_exist"}

	err := c.Apply(ctx, batch.New().Add(good).Delete(missing).Document())
	var pf *nft.ProcessFailedError
	require.ErrorAs(t, err, &pf)
	assert.NotZero(t, pf.ExitCode)
	assert.NotEmpty(t, pf.Stderr)

	listed, err := c.ListRuleset(ctx)
	require.NoError(t, err)
	for _, obj := range listed.ListObjects() {
		if tbl, ok := obj.(schema.Table); ok {
			assert.NotEqual(t, good.Name, tbl.Name)
		}
	}
}

func TestIntegration_ReplaceRuleset(t *testing.T) {
	c, _ := newNSClient(t)
	ctx := t.Context()

	require.NoError(t, c.Apply(ctx, batch.New().Add(schema.Table{Family: schema.FamilyIP, Name: "old"}).Document()))

	desired := schema.Document{Objects: []schema.Object{schema.Table{Family: schema.FamilyIP6, Name: "new"}}}
	require.NoError(t, c.ReplaceRuleset(ctx, desired))

	listed, err := c.ListRuleset(ctx)
	require.NoError(t, err)
	var names []string
	for _, obj := range listed.ListObjects() {
		if tbl, ok := obj.(schema.Table); ok {
			names = append(names, tbl.Name)
		}
	}
	assert.Equal(t, []string{"new"}, names)
}
