package schema

// Table is the top level container of chains, sets and stateful objects.
type Table struct {
	Family Family  `json:"family"`
	Name   string  `json:"name"`
	Handle *uint32 `json:"handle,omitzero"`
}

// Chain holds rules. Type, Hook, Prio and Policy are set together for base
// chains and absent for regular chains.
type Chain struct {
	Family  Family       `json:"family"`
	Table   string       `json:"table"`
	Name    string       `json:"name"`
	NewName *string      `json:"newname,omitzero"`
	Handle  *uint32      `json:"handle,omitzero"`
	Type    *ChainType   `json:"type,omitzero"`
	Hook    *Hook        `json:"hook,omitzero"`
	Prio    *int32       `json:"prio,omitzero"`
	Dev     *string      `json:"dev,omitzero"`
	Policy  *ChainPolicy `json:"policy,omitzero"`
}

// IsBaseChain reports whether the chain is attached to a hook.
func (c Chain) IsBaseChain() bool {
	return c.Hook != nil
}

// Rule is an ordered list of statements inside a chain. Index is the
// position handle used by add and insert; Handle identifies an existing rule.
type Rule struct {
	Family  Family      `json:"family"`
	Table   string      `json:"table"`
	Chain   string      `json:"chain"`
	Expr    []Statement `json:"expr,omitzero"`
	Handle  *uint32     `json:"handle,omitzero"`
	Index   *uint32     `json:"index,omitzero"`
	Comment *string     `json:"comment,omitzero"`
}

// Set is a named set. Timeout and GCInterval are in seconds.
type Set struct {
	Family     Family       `json:"family"`
	Table      string       `json:"table"`
	Name       string       `json:"name"`
	Handle     *uint32      `json:"handle,omitzero"`
	Type       SetTypeValue `json:"type,omitzero"`
	Policy     *SetPolicy   `json:"policy,omitzero"`
	Flags      []SetFlag    `json:"flags,omitzero"`
	Elem       []Expression `json:"elem,omitzero"`
	Timeout    *uint32      `json:"timeout,omitzero"`
	GCInterval *uint32      `json:"gc-interval,omitzero"`
	Size       *uint32      `json:"size,omitzero"`
	Comment    *string      `json:"comment,omitzero"`
}

// Map is a named map; Map is the type of the values.
type Map struct {
	Family     Family       `json:"family"`
	Table      string       `json:"table"`
	Name       string       `json:"name"`
	Handle     *uint32      `json:"handle,omitzero"`
	Type       SetTypeValue `json:"type,omitzero"`
	Map        SetTypeValue `json:"map,omitzero"`
	Policy     *SetPolicy   `json:"policy,omitzero"`
	Flags      []SetFlag    `json:"flags,omitzero"`
	Elem       []Expression `json:"elem,omitzero"`
	Timeout    *uint32      `json:"timeout,omitzero"`
	GCInterval *uint32      `json:"gc-interval,omitzero"`
	Size       *uint32      `json:"size,omitzero"`
	Comment    *string      `json:"comment,omitzero"`
}

// Element adds elements to, or removes them from, a named set or map.
type Element struct {
	Family Family       `json:"family"`
	Table  string       `json:"table"`
	Name   string       `json:"name"`
	Elem   []Expression `json:"elem"`
}

// FlowTable is a fast path for established flows.
type FlowTable struct {
	Family Family            `json:"family"`
	Table  string            `json:"table"`
	Name   string            `json:"name"`
	Handle *uint32           `json:"handle,omitzero"`
	Hook   *Hook             `json:"hook,omitzero"`
	Prio   *int32            `json:"prio,omitzero"`
	Dev    OneOrMany[string] `json:"dev,omitzero"`
}

// Counter is a named counter.
type Counter struct {
	Family  Family  `json:"family"`
	Table   string  `json:"table"`
	Name    string  `json:"name"`
	Handle  *uint32 `json:"handle,omitzero"`
	Packets *uint64 `json:"packets,omitzero"`
	Bytes   *uint64 `json:"bytes,omitzero"`
}

// Quota is a named quota.
type Quota struct {
	Family Family  `json:"family"`
	Table  string  `json:"table"`
	Name   string  `json:"name"`
	Handle *uint32 `json:"handle,omitzero"`
	Bytes  *uint64 `json:"bytes,omitzero"`
	Used   *uint64 `json:"used,omitzero"`
	Inv    *bool   `json:"inv,omitzero"`
}

// CTHelper is a named conntrack helper such as "ftp".
type CTHelper struct {
	Family   Family   `json:"family"`
	Table    string   `json:"table"`
	Name     string   `json:"name"`
	Handle   *uint32  `json:"handle,omitzero"`
	Type     string   `json:"type"`
	Protocol *CTProto `json:"protocol,omitzero"`
	L3Proto  *string  `json:"l3proto,omitzero"`
}

// Limit is a named rate limit.
type Limit struct {
	Family Family     `json:"family"`
	Table  string     `json:"table"`
	Name   string     `json:"name"`
	Handle *uint32    `json:"handle,omitzero"`
	Rate   *uint64    `json:"rate,omitzero"`
	Per    *TimeUnit  `json:"per,omitzero"`
	Burst  *uint64    `json:"burst,omitzero"`
	Unit   *LimitUnit `json:"unit,omitzero"`
	Inv    *bool      `json:"inv,omitzero"`
}

// Metainfo is emitted first by "nft -j list" and describes the producer.
type Metainfo struct {
	Version           *string `json:"version,omitzero"`
	ReleaseName       *string `json:"release_name,omitzero"`
	JSONSchemaVersion *uint32 `json:"json_schema_version,omitzero"`
}

// CTTimeout is a named conntrack timeout policy.
type CTTimeout struct {
	Family   Family   `json:"family"`
	Table    string   `json:"table"`
	Name     string   `json:"name"`
	Handle   *uint32  `json:"handle,omitzero"`
	Protocol *CTProto `json:"protocol,omitzero"`
	State    *string  `json:"state,omitzero"`
	Value    *uint32  `json:"value,omitzero"`
	L3Proto  *string  `json:"l3proto,omitzero"`
}

// CTExpectation is a named conntrack expectation.
type CTExpectation struct {
	Family   Family   `json:"family"`
	Table    string   `json:"table"`
	Name     string   `json:"name"`
	Handle   *uint32  `json:"handle,omitzero"`
	L3Proto  *string  `json:"l3proto,omitzero"`
	Protocol *CTProto `json:"protocol,omitzero"`
	Dport    *uint32  `json:"dport,omitzero"`
	Timeout  *uint32  `json:"timeout,omitzero"`
	Size     *uint32  `json:"size,omitzero"`
}

// SynProxy is a named synproxy object.
type SynProxy struct {
	Family Family                  `json:"family"`
	Table  string                  `json:"table"`
	Name   string                  `json:"name"`
	Handle *uint32                 `json:"handle,omitzero"`
	MSS    *uint16                 `json:"mss,omitzero"`
	WScale *uint8                  `json:"wscale,omitzero"`
	Flags  OneOrMany[SynProxyFlag] `json:"flags,omitzero"`
}

// Ruleset stands for the whole ruleset in "flush ruleset" and "list ruleset".
type Ruleset struct{}

func (Table) isObject()         {}
func (Chain) isObject()         {}
func (Rule) isObject()          {}
func (Set) isObject()           {}
func (Map) isObject()           {}
func (Element) isObject()       {}
func (FlowTable) isObject()     {}
func (Counter) isObject()       {}
func (Quota) isObject()         {}
func (CTHelper) isObject()      {}
func (Limit) isObject()         {}
func (Metainfo) isObject()      {}
func (CTTimeout) isObject()     {}
func (CTExpectation) isObject() {}
func (SynProxy) isObject()      {}
func (Ruleset) isObject()       {}

const (
	KindTable         = "table"
	KindChain         = "chain"
	KindRule          = "rule"
	KindSet           = "set"
	KindMap           = "map"
	KindElement       = "element"
	KindFlowTable     = "flowtable"
	KindCounter       = "counter"
	KindQuota         = "quota"
	KindCTHelper      = "ct helper"
	KindLimit         = "limit"
	KindMetainfo      = "metainfo"
	KindCTTimeout     = "ct timeout"
	KindCTExpectation = "ct expectation"
	KindSynProxy      = "synproxy"
	KindRuleset       = "ruleset"
)

func (Table) Kind() string         { return KindTable }
func (Chain) Kind() string         { return KindChain }
func (Rule) Kind() string          { return KindRule }
func (Set) Kind() string           { return KindSet }
func (Map) Kind() string           { return KindMap }
func (Element) Kind() string       { return KindElement }
func (FlowTable) Kind() string     { return KindFlowTable }
func (Counter) Kind() string       { return KindCounter }
func (Quota) Kind() string         { return KindQuota }
func (CTHelper) Kind() string      { return KindCTHelper }
func (Limit) Kind() string         { return KindLimit }
func (Metainfo) Kind() string      { return KindMetainfo }
func (CTTimeout) Kind() string     { return KindCTTimeout }
func (CTExpectation) Kind() string { return KindCTExpectation }
func (SynProxy) Kind() string      { return KindSynProxy }
func (Ruleset) Kind() string       { return KindRuleset }

func (t Table) MarshalJSON() ([]byte, error) {
	type plain Table
	return wrap(KindTable, plain(t))
}

func (c Chain) MarshalJSON() ([]byte, error) {
	type plain Chain
	return wrap(KindChain, plain(c))
}

func (r Rule) MarshalJSON() ([]byte, error) {
	type plain Rule
	return wrap(KindRule, plain(r))
}

func (s Set) MarshalJSON() ([]byte, error) {
	type plain Set
	return wrap(KindSet, plain(s))
}

func (m Map) MarshalJSON() ([]byte, error) {
	type plain Map
	return wrap(KindMap, plain(m))
}

func (e Element) MarshalJSON() ([]byte, error) {
	type plain Element
	if e.Elem == nil {
		e.Elem = []Expression{}
	}
	return wrap(KindElement, plain(e))
}

func (f FlowTable) MarshalJSON() ([]byte, error) {
	type plain FlowTable
	return wrap(KindFlowTable, plain(f))
}

func (c Counter) MarshalJSON() ([]byte, error) {
	type plain Counter
	return wrap(KindCounter, plain(c))
}

func (q Quota) MarshalJSON() ([]byte, error) {
	type plain Quota
	return wrap(KindQuota, plain(q))
}

func (h CTHelper) MarshalJSON() ([]byte, error) {
	type plain CTHelper
	return wrap(KindCTHelper, plain(h))
}

func (l Limit) MarshalJSON() ([]byte, error) {
	type plain Limit
	return wrap(KindLimit, plain(l))
}

func (m Metainfo) MarshalJSON() ([]byte, error) {
	type plain Metainfo
	return wrap(KindMetainfo, plain(m))
}

func (t CTTimeout) MarshalJSON() ([]byte, error) {
	type plain CTTimeout
	return wrap(KindCTTimeout, plain(t))
}

func (e CTExpectation) MarshalJSON() ([]byte, error) {
	type plain CTExpectation
	return wrap(KindCTExpectation, plain(e))
}

func (s SynProxy) MarshalJSON() ([]byte, error) {
	type plain SynProxy
	return wrap(KindSynProxy, plain(s))
}

func (Ruleset) MarshalJSON() ([]byte, error) {
	return wrapNull(KindRuleset)
}
