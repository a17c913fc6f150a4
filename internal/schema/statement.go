package schema

import (
	"bytes"
	"encoding/json"
)

// Statement is one clause of a rule. The set of statements is closed; each
// one renders as a single-key object named after the statement.
type Statement interface {
	isStatement()
}

// Verdicts. They are both statements and expressions (vmap data, set
// mappings).
type (
	Accept   struct{}
	Drop     struct{}
	Continue struct{}
	Return   struct{}
	Jump     struct {
		Target string `json:"target"`
	}
	Goto struct {
		Target string `json:"target"`
	}
)

// Match compares Left with Right using Op.
type Match struct {
	Op    Operator   `json:"op"`
	Left  Expression `json:"left"`
	Right Expression `json:"right"`
}

// CounterStmt is an anonymous counter. Both fields are absent when adding.
type CounterStmt struct {
	Packets *uint64 `json:"packets,omitzero"`
	Bytes   *uint64 `json:"bytes,omitzero"`
}

// CounterRef references a named counter.
type CounterRef string

type Mangle struct {
	Key   Expression `json:"key"`
	Value Expression `json:"value"`
}

// QuotaStmt is an anonymous quota.
type QuotaStmt struct {
	Val      uint64  `json:"val"`
	ValUnit  string  `json:"val_unit"`
	Used     *uint64 `json:"used,omitzero"`
	UsedUnit *string `json:"used_unit,omitzero"`
	Inv      *bool   `json:"inv,omitzero"`
}

// QuotaRef references a named quota.
type QuotaRef string

// LimitStmt is an anonymous rate limit.
type LimitStmt struct {
	Rate      uint64    `json:"rate"`
	RateUnit  *string   `json:"rate_unit,omitzero"`
	Per       *TimeUnit `json:"per,omitzero"`
	Burst     *uint64   `json:"burst,omitzero"`
	BurstUnit *string   `json:"burst_unit,omitzero"`
	Inv       *bool     `json:"inv,omitzero"`
}

// LimitRef references a named limit.
type LimitRef string

// Flow offloads the connection to a flowtable.
type Flow struct {
	Op        SetOp  `json:"op"`
	Flowtable string `json:"flowtable"`
}

// Fwd forwards the packet to another device (netdev family).
type Fwd struct {
	Dev    Expression `json:"dev,omitzero"`
	Family *Family    `json:"family,omitzero"`
	Addr   Expression `json:"addr,omitzero"`
}

type Notrack struct{}

// Dup duplicates the packet to Addr, optionally through Dev.
type Dup struct {
	Addr Expression `json:"addr"`
	Dev  Expression `json:"dev,omitzero"`
}

// NAT holds the fields shared by the address translation statements.
type NAT struct {
	Addr   Expression         `json:"addr,omitzero"`
	Family *Family            `json:"family,omitzero"`
	Port   Expression         `json:"port,omitzero"`
	Flags  OneOrMany[NATFlag] `json:"flags,omitzero"`
}

func (n NAT) isEmpty() bool {
	return n.Addr == nil && n.Family == nil && n.Port == nil && n.Flags.IsZero()
}

type (
	SNAT       NAT
	DNAT       NAT
	Masquerade NAT
	Redirect   NAT
)

type Reject struct {
	Type *RejectType `json:"type,omitzero"`
	Expr *RejectCode `json:"expr,omitzero"`
}

// SetStmt adds or updates an element of a named set from the packet path.
type SetStmt struct {
	Op   SetOp      `json:"op"`
	Elem Expression `json:"elem"`
	Set  string     `json:"set"`
}

// MapStmt adds or updates an element of a named map from the packet path.
type MapStmt struct {
	Op   SetOp      `json:"op"`
	Elem Expression `json:"elem"`
	Data Expression `json:"data"`
	Map  string     `json:"map"`
}

type Log struct {
	Prefix         *string            `json:"prefix,omitzero"`
	Group          *uint32            `json:"group,omitzero"`
	Snaplen        *uint32            `json:"snaplen,omitzero"`
	QueueThreshold *uint32            `json:"queue-threshold,omitzero"`
	Level          *LogLevel          `json:"level,omitzero"`
	Flags          OneOrMany[LogFlag] `json:"flags,omitzero"`
}

func (l Log) isEmpty() bool {
	return l.Prefix == nil && l.Group == nil && l.Snaplen == nil &&
		l.QueueThreshold == nil && l.Level == nil && l.Flags.IsZero()
}

// CTHelperStmt assigns a conntrack helper, usually by name.
type CTHelperStmt struct {
	Expr Expression
}

// Meter applies Stmt per distinct Key (legacy dynamic sets).
type Meter struct {
	Name string     `json:"name"`
	Key  Expression `json:"key"`
	Stmt Statement  `json:"stmt"`
}

type Queue struct {
	Num   Expression           `json:"num,omitzero"`
	Flags OneOrMany[QueueFlag] `json:"flags,omitzero"`
}

// VerdictMap looks Key up in Data and applies the resulting verdict.
type VerdictMap struct {
	Key  Expression `json:"key"`
	Data Expression `json:"data"`
}

type CTCount struct {
	Val Expression `json:"val"`
	Inv *bool      `json:"inv,omitzero"`
}

type CTTimeoutStmt struct {
	Expr Expression
}

type CTExpectationStmt struct {
	Expr Expression
}

// XT carries an iptables extension nft could not translate. The payload is
// opaque; a nil Raw renders as null.
type XT struct {
	Raw json.RawMessage
}

type SynProxyStmt struct {
	MSS    *uint16                 `json:"mss,omitzero"`
	WScale *uint8                  `json:"wscale,omitzero"`
	Flags  OneOrMany[SynProxyFlag] `json:"flags,omitzero"`
}

type TProxy struct {
	Family *Family    `json:"family,omitzero"`
	Addr   Expression `json:"addr,omitzero"`
	Port   Expression `json:"port,omitzero"`
}

func (Accept) isStatement()            {}
func (Drop) isStatement()              {}
func (Continue) isStatement()          {}
func (Return) isStatement()            {}
func (Jump) isStatement()              {}
func (Goto) isStatement()              {}
func (Match) isStatement()             {}
func (CounterStmt) isStatement()       {}
func (CounterRef) isStatement()        {}
func (Mangle) isStatement()            {}
func (QuotaStmt) isStatement()         {}
func (QuotaRef) isStatement()          {}
func (LimitStmt) isStatement()         {}
func (LimitRef) isStatement()          {}
func (Flow) isStatement()              {}
func (Fwd) isStatement()               {}
func (Notrack) isStatement()           {}
func (Dup) isStatement()               {}
func (SNAT) isStatement()              {}
func (DNAT) isStatement()              {}
func (Masquerade) isStatement()        {}
func (Redirect) isStatement()          {}
func (Reject) isStatement()            {}
func (SetStmt) isStatement()           {}
func (MapStmt) isStatement()           {}
func (Log) isStatement()               {}
func (CTHelperStmt) isStatement()      {}
func (Meter) isStatement()             {}
func (Queue) isStatement()             {}
func (VerdictMap) isStatement()        {}
func (CTCount) isStatement()           {}
func (CTTimeoutStmt) isStatement()     {}
func (CTExpectationStmt) isStatement() {}
func (XT) isStatement()                {}
func (SynProxyStmt) isStatement()      {}
func (TProxy) isStatement()            {}

func (Accept) MarshalJSON() ([]byte, error)   { return wrapNull("accept") }
func (Drop) MarshalJSON() ([]byte, error)     { return wrapNull("drop") }
func (Continue) MarshalJSON() ([]byte, error) { return wrapNull("continue") }
func (Return) MarshalJSON() ([]byte, error)   { return wrapNull("return") }
func (Notrack) MarshalJSON() ([]byte, error)  { return wrapNull("notrack") }

func (j Jump) MarshalJSON() ([]byte, error) {
	type plain Jump
	return wrap("jump", plain(j))
}

func (g Goto) MarshalJSON() ([]byte, error) {
	type plain Goto
	return wrap("goto", plain(g))
}

func (m Match) MarshalJSON() ([]byte, error) {
	type plain Match
	return wrap("match", plain(m))
}

func (c CounterStmt) MarshalJSON() ([]byte, error) {
	if c.Packets == nil && c.Bytes == nil {
		return wrapNull("counter")
	}
	type plain CounterStmt
	return wrap("counter", plain(c))
}

func (c CounterRef) MarshalJSON() ([]byte, error) {
	return wrap("counter", string(c))
}

func (m Mangle) MarshalJSON() ([]byte, error) {
	type plain Mangle
	return wrap("mangle", plain(m))
}

func (q QuotaStmt) MarshalJSON() ([]byte, error) {
	type plain QuotaStmt
	return wrap("quota", plain(q))
}

func (q QuotaRef) MarshalJSON() ([]byte, error) {
	return wrap("quota", string(q))
}

func (l LimitStmt) MarshalJSON() ([]byte, error) {
	type plain LimitStmt
	return wrap("limit", plain(l))
}

func (l LimitRef) MarshalJSON() ([]byte, error) {
	return wrap("limit", string(l))
}

func (f Flow) MarshalJSON() ([]byte, error) {
	type plain Flow
	return wrap("flow", plain(f))
}

func (f Fwd) MarshalJSON() ([]byte, error) {
	if f.Dev == nil && f.Family == nil && f.Addr == nil {
		return wrapNull("fwd")
	}
	type plain Fwd
	return wrap("fwd", plain(f))
}

func (d Dup) MarshalJSON() ([]byte, error) {
	type plain Dup
	return wrap("dup", plain(d))
}

func marshalNAT(key string, n NAT) ([]byte, error) {
	if n.isEmpty() {
		return wrapNull(key)
	}
	type plain NAT
	return wrap(key, plain(n))
}

func (s SNAT) MarshalJSON() ([]byte, error)       { return marshalNAT("snat", NAT(s)) }
func (d DNAT) MarshalJSON() ([]byte, error)       { return marshalNAT("dnat", NAT(d)) }
func (m Masquerade) MarshalJSON() ([]byte, error) { return marshalNAT("masquerade", NAT(m)) }
func (r Redirect) MarshalJSON() ([]byte, error)   { return marshalNAT("redirect", NAT(r)) }

func (r Reject) MarshalJSON() ([]byte, error) {
	if r.Type == nil && r.Expr == nil {
		return wrapNull("reject")
	}
	type plain Reject
	return wrap("reject", plain(r))
}

func (s SetStmt) MarshalJSON() ([]byte, error) {
	type plain SetStmt
	return wrap("set", plain(s))
}

func (m MapStmt) MarshalJSON() ([]byte, error) {
	type plain MapStmt
	return wrap("map", plain(m))
}

func (l Log) MarshalJSON() ([]byte, error) {
	if l.isEmpty() {
		return wrapNull("log")
	}
	type plain Log
	return wrap("log", plain(l))
}

func (c CTHelperStmt) MarshalJSON() ([]byte, error) {
	return wrap("ct helper", c.Expr)
}

func (m Meter) MarshalJSON() ([]byte, error) {
	type plain Meter
	return wrap("meter", plain(m))
}

func (q Queue) MarshalJSON() ([]byte, error) {
	type plain Queue
	return wrap("queue", plain(q))
}

func (v VerdictMap) MarshalJSON() ([]byte, error) {
	type plain VerdictMap
	return wrap("vmap", plain(v))
}

func (c CTCount) MarshalJSON() ([]byte, error) {
	type plain CTCount
	return wrap("ct count", plain(c))
}

func (c CTTimeoutStmt) MarshalJSON() ([]byte, error) {
	return wrap("ct timeout", c.Expr)
}

func (c CTExpectationStmt) MarshalJSON() ([]byte, error) {
	return wrap("ct expectation", c.Expr)
}

func (x XT) MarshalJSON() ([]byte, error) {
	if x.Raw == nil {
		return wrapNull("xt")
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, x.Raw); err != nil {
		return nil, &EncodeError{Err: err}
	}
	return wrapRaw("xt", buf.Bytes())
}

func (s SynProxyStmt) MarshalJSON() ([]byte, error) {
	type plain SynProxyStmt
	return wrap("synproxy", plain(s))
}

func (t TProxy) MarshalJSON() ([]byte, error) {
	type plain TProxy
	return wrap("tproxy", plain(t))
}
