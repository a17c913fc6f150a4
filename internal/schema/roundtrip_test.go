package schema

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// modelGen builds arbitrary but well formed model values from a seed.
type modelGen struct {
	r *rand.Rand
}

func (g modelGen) pick(n int) int { return g.r.Intn(n) }
func (g modelGen) coin() bool     { return g.r.Intn(2) == 0 }

func (g modelGen) name() string {
	names := []string{"filter", "nat", "t0", "input", "wan<>&", "ssh \"jail\"", "élan", ""}
	return names[g.pick(len(names))]
}

func pickOf[T any](g modelGen, vs []T) T { return vs[g.pick(len(vs))] }

func maybe[T any](g modelGen, v T) *T {
	if g.coin() {
		return nil
	}
	return &v
}

func (g modelGen) optString() *string { return maybe(g, g.name()) }
func (g modelGen) optU32() *uint32    { return maybe(g, g.r.Uint32()) }
func (g modelGen) optU64() *uint64    { return maybe(g, g.r.Uint64()) }
func (g modelGen) optBool() *bool     { return maybe(g, g.coin()) }

func oneOrMany[T ~string](g modelGen, vs []T) OneOrMany[T] {
	switch g.pick(3) {
	case 0:
		return OneOrMany[T]{}
	case 1:
		return One(pickOf(g, vs))
	default:
		out := make([]T, 1+g.pick(3))
		for i := range out {
			out[i] = pickOf(g, vs)
		}
		return Many(out...)
	}
}

// scalar returns an expression that is never an array, so it can stand
// alone as an anonymous set element.
func (g modelGen) scalar(depth int) Expression {
	leaf := depth <= 0
	n := 28
	if leaf {
		n = 3
	}
	switch g.pick(n) {
	case 0:
		return String(g.name())
	case 1:
		return Number(g.r.Uint64())
	case 2:
		return Boolean(g.coin())
	case 3:
		return BinOp{Op: pickOf(g, binaryOpValues), Left: g.expr(depth - 1), Right: g.expr(depth - 1)}
	case 4:
		return Range{Low: g.expr(depth - 1), High: g.expr(depth - 1)}
	case 5:
		return Concat(g.exprs(depth - 1))
	case 6:
		items := make(AnonSet, g.pick(3))
		for i := range items {
			items[i] = SetItem{Key: g.scalar(depth - 1)}
			if g.coin() {
				items[i].Value = g.expr(depth - 1)
			}
		}
		return items
	case 7:
		return MapLookup{Key: g.expr(depth - 1), Data: g.expr(depth - 1)}
	case 8:
		return Prefix{Addr: g.expr(depth - 1), Len: g.r.Uint32()}
	case 9:
		return Payload{Protocol: g.name(), Field: g.name()}
	case 10:
		return PayloadRaw{Base: pickOf(g, payloadBaseValues), Offset: g.r.Uint32(), Len: g.r.Uint32()}
	case 11:
		return Exthdr{Name: g.name(), Field: g.optString(), Offset: g.optU32()}
	case 12:
		return TCPOption{Name: g.name(), Field: g.optString()}
	case 13:
		return SCTPChunk{Name: g.name(), Field: g.optString()}
	case 14:
		return DCCPOption{Type: g.r.Uint32()}
	case 15:
		return Meta{Key: pickOf(g, metaKeyValues)}
	case 16:
		return RT{Key: pickOf(g, rtKeyValues), Family: maybe(g, pickOf(g, familyValues))}
	case 17:
		return CT{Key: g.name(), Family: maybe(g, pickOf(g, familyValues)), Dir: maybe(g, pickOf(g, ctDirValues))}
	case 18:
		return Numgen{Mode: pickOf(g, ngModeValues), Mod: g.r.Uint32(), Offset: g.optU32()}
	case 19:
		return JHash{Mod: g.r.Uint32(), Offset: g.optU32(), Expr: g.expr(depth - 1), Seed: g.optU32()}
	case 20:
		return SymHash{Mod: g.r.Uint32(), Offset: g.optU32()}
	case 21:
		return Fib{Result: pickOf(g, fibResultValues), Flags: oneOrMany(g, fibFlagValues)}
	case 22:
		e := Elem{Val: g.expr(depth - 1), Timeout: g.optU32(), Expires: g.optU32(), Comment: g.optString()}
		if g.coin() {
			e.Counter = &ElemCounter{Packets: g.optU64(), Bytes: g.optU64()}
		}
		return e
	case 23:
		return Socket{Key: g.name()}
	case 24:
		return Osf{Key: g.name(), TTL: maybe(g, pickOf(g, osfTTLValues))}
	case 25:
		return pickOf(g, []Expression{Accept{}, Drop{}, Continue{}, Return{}})
	case 26:
		return Jump{Target: g.name()}
	default:
		return Goto{Target: g.name()}
	}
}

func (g modelGen) expr(depth int) Expression {
	if depth > 0 && g.pick(8) == 0 {
		return List(g.exprs(depth - 1))
	}
	return g.scalar(depth)
}

func (g modelGen) exprs(depth int) []Expression {
	out := make([]Expression, g.pick(3))
	for i := range out {
		out[i] = g.expr(depth)
	}
	return out
}

func (g modelGen) optExpr(depth int) Expression {
	if g.coin() {
		return nil
	}
	return g.expr(depth)
}

func (g modelGen) nat() NAT {
	return NAT{
		Addr:   g.optExpr(1),
		Family: maybe(g, pickOf(g, familyValues)),
		Port:   g.optExpr(1),
		Flags:  oneOrMany(g, natFlagValues),
	}
}

func (g modelGen) stmt(depth int) Statement {
	switch g.pick(38) {
	case 0:
		return Accept{}
	case 1:
		return Drop{}
	case 2:
		return Continue{}
	case 3:
		return Return{}
	case 4:
		return Jump{Target: g.name()}
	case 5:
		return Goto{Target: g.name()}
	case 6:
		return Match{Op: pickOf(g, operatorValues), Left: g.expr(2), Right: g.expr(2)}
	case 7:
		return CounterStmt{Packets: g.optU64(), Bytes: g.optU64()}
	case 8:
		return CounterRef(g.name())
	case 9:
		return Mangle{Key: g.expr(1), Value: g.expr(1)}
	case 10:
		return QuotaStmt{Val: g.r.Uint64(), ValUnit: g.name(), Used: g.optU64(), UsedUnit: g.optString(), Inv: g.optBool()}
	case 11:
		return QuotaRef(g.name())
	case 12:
		return LimitStmt{
			Rate: g.r.Uint64(), RateUnit: g.optString(), Per: maybe(g, pickOf(g, timeUnitValues)),
			Burst: g.optU64(), BurstUnit: g.optString(), Inv: g.optBool(),
		}
	case 13:
		return LimitRef(g.name())
	case 14:
		return Flow{Op: pickOf(g, setOpValues), Flowtable: g.name()}
	case 15:
		return Fwd{Dev: g.optExpr(1), Family: maybe(g, pickOf(g, familyValues)), Addr: g.optExpr(1)}
	case 16:
		return Notrack{}
	case 17:
		return Dup{Addr: g.expr(1), Dev: g.optExpr(1)}
	case 18:
		return SNAT(g.nat())
	case 19:
		return DNAT(g.nat())
	case 20:
		return Masquerade(g.nat())
	case 21:
		return Redirect(g.nat())
	case 22:
		return Reject{Type: maybe(g, pickOf(g, rejectTypeValues)), Expr: maybe(g, pickOf(g, rejectCodeValues))}
	case 23:
		return SetStmt{Op: pickOf(g, setOpValues), Elem: g.expr(1), Set: g.name()}
	case 24:
		return MapStmt{Op: pickOf(g, setOpValues), Elem: g.expr(1), Data: g.expr(1), Map: g.name()}
	case 25:
		return Log{
			Prefix: g.optString(), Group: g.optU32(), Snaplen: g.optU32(), QueueThreshold: g.optU32(),
			Level: maybe(g, pickOf(g, logLevelValues)), Flags: oneOrMany(g, logFlagValues),
		}
	case 26:
		return CTHelperStmt{Expr: g.expr(1)}
	case 27:
		if depth <= 0 {
			return Accept{}
		}
		return Meter{Name: g.name(), Key: g.expr(1), Stmt: g.stmt(depth - 1)}
	case 28:
		return Queue{Num: g.optExpr(1), Flags: oneOrMany(g, queueFlagValues)}
	case 29:
		return VerdictMap{Key: g.expr(1), Data: g.expr(2)}
	case 30:
		return CTCount{Val: g.expr(1), Inv: g.optBool()}
	case 31:
		return CTTimeoutStmt{Expr: g.expr(1)}
	case 32:
		return CTExpectationStmt{Expr: g.expr(1)}
	case 33:
		if g.coin() {
			return XT{}
		}
		return XT{Raw: json.RawMessage(`{"type":"match","name":"conntrack"}`)}
	case 34:
		return SynProxyStmt{MSS: maybe(g, uint16(g.r.Uint32())), WScale: maybe(g, uint8(g.r.Uint32())), Flags: oneOrMany(g, synProxyFlagValues)}
	case 35:
		return TProxy{Family: maybe(g, pickOf(g, familyValues)), Addr: g.optExpr(1), Port: g.optExpr(1)}
	default:
		return Match{Op: OpEq, Left: Payload{Protocol: "tcp", Field: "dport"}, Right: g.expr(1)}
	}
}

func (g modelGen) optExprs() []Expression {
	if g.coin() {
		return nil
	}
	return g.exprs(2)
}

func (g modelGen) listObject() ListObject {
	fam := pickOf(g, familyValues)
	switch g.pick(16) {
	case 0:
		return Table{Family: fam, Name: g.name(), Handle: g.optU32()}
	case 1:
		return Chain{
			Family: fam, Table: g.name(), Name: g.name(), NewName: g.optString(), Handle: g.optU32(),
			Type: maybe(g, pickOf(g, chainTypeValues)), Hook: maybe(g, pickOf(g, hookValues)),
			Prio: maybe(g, int32(g.r.Uint32())), Dev: g.optString(), Policy: maybe(g, pickOf(g, chainPolicyValues)),
		}
	case 2:
		var stmts []Statement
		if g.coin() {
			stmts = make([]Statement, g.pick(5))
			for i := range stmts {
				stmts[i] = g.stmt(2)
			}
		}
		return Rule{Family: fam, Table: g.name(), Chain: g.name(), Expr: stmts, Handle: g.optU32(), Index: g.optU32(), Comment: g.optString()}
	case 3:
		return Set{
			Family: fam, Table: g.name(), Name: g.name(), Handle: g.optU32(),
			Type: oneOrMany(g, []SetType{SetTypeIPv4Addr, SetTypeInetService, "ct_state"}),
			Policy: maybe(g, pickOf(g, setPolicyValues)), Elem: g.optExprs(),
			Timeout: g.optU32(), GCInterval: g.optU32(), Size: g.optU32(), Comment: g.optString(),
		}
	case 4:
		var flags []SetFlag
		if g.coin() {
			flags = []SetFlag{pickOf(g, setFlagValues)}
		}
		return Map{
			Family: fam, Table: g.name(), Name: g.name(), Handle: g.optU32(),
			Type: One(SetTypeIPv4Addr), Map: oneOrMany(g, []SetType{SetTypeMark, "verdict"}),
			Flags: flags, Elem: g.optExprs(), Size: g.optU32(),
		}
	case 5:
		return Element{Family: fam, Table: g.name(), Name: g.name(), Elem: g.exprs(2)}
	case 6:
		return FlowTable{Family: fam, Table: g.name(), Name: g.name(), Handle: g.optU32(),
			Hook: maybe(g, HookIngress), Prio: maybe(g, int32(-300)), Dev: oneOrMany(g, []string{"eth0", "eth1"})}
	case 7:
		return Counter{Family: fam, Table: g.name(), Name: g.name(), Handle: g.optU32(), Packets: g.optU64(), Bytes: g.optU64()}
	case 8:
		return Quota{Family: fam, Table: g.name(), Name: g.name(), Handle: g.optU32(), Bytes: g.optU64(), Used: g.optU64(), Inv: g.optBool()}
	case 9:
		return CTHelper{Family: fam, Table: g.name(), Name: g.name(), Handle: g.optU32(), Type: "ftp",
			Protocol: maybe(g, pickOf(g, ctProtoValues)), L3Proto: g.optString()}
	case 10:
		return Limit{Family: fam, Table: g.name(), Name: g.name(), Handle: g.optU32(), Rate: g.optU64(),
			Per: maybe(g, pickOf(g, timeUnitValues)), Burst: g.optU64(), Unit: maybe(g, pickOf(g, limitUnitValues)), Inv: g.optBool()}
	case 11:
		return Metainfo{Version: g.optString(), ReleaseName: g.optString(), JSONSchemaVersion: g.optU32()}
	case 12:
		return CTTimeout{Family: fam, Table: g.name(), Name: g.name(), Handle: g.optU32(),
			Protocol: maybe(g, pickOf(g, ctProtoValues)), State: g.optString(), Value: g.optU32(), L3Proto: g.optString()}
	case 13:
		return CTExpectation{Family: fam, Table: g.name(), Name: g.name(), Handle: g.optU32(), L3Proto: g.optString(),
			Protocol: maybe(g, pickOf(g, ctProtoValues)), Dport: g.optU32(), Timeout: g.optU32(), Size: g.optU32()}
	case 14:
		return SynProxy{Family: fam, Table: g.name(), Name: g.name(), Handle: g.optU32(),
			MSS: maybe(g, uint16(1460)), WScale: maybe(g, uint8(7)), Flags: oneOrMany(g, synProxyFlagValues)}
	default:
		return Ruleset{}
	}
}

func (g modelGen) document() Document {
	n := g.pick(6)
	if n == 0 {
		return Document{}
	}
	doc := Document{Objects: make([]Object, n)}
	for i := range doc.Objects {
		obj := g.listObject()
		if g.coin() {
			doc.Objects[i] = obj
			continue
		}
		doc.Objects[i] = Command{Verb: pickOf(g, verbValues), Object: obj}
	}
	return doc
}

func TestRoundTrip_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500
	properties := gopter.NewProperties(parameters)

	properties.Property("decode(encode(doc)) == doc", prop.ForAll(
		func(seed int64) bool {
			doc := modelGen{r: rand.New(rand.NewSource(seed))}.document()
			out, err := Encode(doc)
			if err != nil {
				t.Logf("encode seed %d: %v", seed, err)
				return false
			}
			back, err := Decode(out)
			if err != nil {
				t.Logf("decode seed %d: %v\n%s", seed, err, out)
				return false
			}
			return assert.ObjectsAreEqual(doc, back)
		},
		gen.Int64(),
	))

	properties.Property("encoding is stable across a decode", prop.ForAll(
		func(seed int64) bool {
			doc := modelGen{r: rand.New(rand.NewSource(seed))}.document()
			first, err := Encode(doc)
			if err != nil {
				return false
			}
			back, err := Decode(first)
			if err != nil {
				return false
			}
			second, err := Encode(back)
			return err == nil && string(first) == string(second)
		},
		gen.Int64(),
	))

	properties.TestingRun(t)
}

func TestOmission_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("unset optional fields never render and decode back unset", prop.ForAll(
		func(seed int64) bool {
			g := modelGen{r: rand.New(rand.NewSource(seed))}
			c := Chain{Family: pickOf(g, familyValues), Table: g.name(), Name: g.name(), Prio: maybe(g, int32(0)), Handle: maybe(g, uint32(0))}

			out, err := marshal(c)
			if err != nil {
				return false
			}
			var body map[string]map[string]json.RawMessage
			if err := json.Unmarshal(out, &body); err != nil {
				return false
			}
			_, hasPrio := body["chain"]["prio"]
			_, hasHandle := body["chain"]["handle"]
			_, hasHook := body["chain"]["hook"]
			if hasPrio != (c.Prio != nil) || hasHandle != (c.Handle != nil) || hasHook {
				return false
			}

			doc, err := Decode([]byte(`{"nftables":[` + string(out) + `]}`))
			if err != nil {
				return false
			}
			return assert.ObjectsAreEqual(c, doc.Objects[0])
		},
		gen.Int64(),
	))

	properties.TestingRun(t)
}

func TestRoundTrip_EveryStatementKind(t *testing.T) {
	g := modelGen{r: rand.New(rand.NewSource(1))}
	seen := map[string]bool{}
	for i := 0; i < 2000; i++ {
		st := g.stmt(2)
		out, err := marshal(st)
		require.NoError(t, err)

		var probe map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(out, &probe))
		for k := range probe {
			seen[k] = true
		}
	}
	for _, k := range statementKeys {
		assert.True(t, seen[k], "generator never produced statement %q", k)
	}
}
