package schema

// Expression is a value inside a statement: an immediate (string, number,
// boolean, list) or a structured single-key object.
type Expression interface {
	isExpression()
}

// String is a string immediate. Set references ("@name") and the "*"
// wildcard are strings too.
type String string

// Number is an unsigned numeric immediate.
type Number uint64

type Boolean bool

// List is an array immediate.
type List []Expression

// BinOp combines two expressions with a bitwise or shift operator.
type BinOp struct {
	Op    BinaryOp
	Left  Expression
	Right Expression
}

// Range is an inclusive interval.
type Range struct {
	Low  Expression
	High Expression
}

// Concat joins expressions into a tuple.
type Concat []Expression

// AnonSet is an anonymous set or map literal.
type AnonSet []SetItem

// SetItem is an element of an anonymous set. A non-nil Value turns the
// item into a mapping and renders it as a [key, value] pair.
type SetItem struct {
	Key   Expression
	Value Expression
}

// MapLookup looks Key up in the map Data.
type MapLookup struct {
	Key  Expression `json:"key"`
	Data Expression `json:"data"`
}

type Prefix struct {
	Addr Expression `json:"addr"`
	Len  uint32     `json:"len"`
}

// Payload references a named header field, e.g. ip saddr.
type Payload struct {
	Protocol string `json:"protocol"`
	Field    string `json:"field"`
}

// PayloadRaw references Len bits at Offset bits from Base.
type PayloadRaw struct {
	Base   PayloadBase `json:"base"`
	Offset uint32      `json:"offset"`
	Len    uint32      `json:"len"`
}

// Exthdr references an IPv6 extension header. Without Field it tests for
// existence.
type Exthdr struct {
	Name   string  `json:"name"`
	Field  *string `json:"field,omitzero"`
	Offset *uint32 `json:"offset,omitzero"`
}

type TCPOption struct {
	Name  string  `json:"name"`
	Field *string `json:"field,omitzero"`
}

type SCTPChunk struct {
	Name  string  `json:"name"`
	Field *string `json:"field,omitzero"`
}

type DCCPOption struct {
	Type uint32 `json:"type"`
}

type Meta struct {
	Key MetaKey `json:"key"`
}

type RT struct {
	Key    RTKey   `json:"key"`
	Family *Family `json:"family,omitzero"`
}

// CT references conntrack state. The key set depends on the kernel and is
// not validated.
type CT struct {
	Key    string  `json:"key"`
	Family *Family `json:"family,omitzero"`
	Dir    *CTDir  `json:"dir,omitzero"`
}

type Numgen struct {
	Mode   NgMode  `json:"mode"`
	Mod    uint32  `json:"mod"`
	Offset *uint32 `json:"offset,omitzero"`
}

type JHash struct {
	Mod    uint32     `json:"mod"`
	Offset *uint32    `json:"offset,omitzero"`
	Expr   Expression `json:"expr"`
	Seed   *uint32    `json:"seed,omitzero"`
}

type SymHash struct {
	Mod    uint32  `json:"mod"`
	Offset *uint32 `json:"offset,omitzero"`
}

type Fib struct {
	Result FibResult          `json:"result"`
	Flags  OneOrMany[FibFlag] `json:"flags,omitzero"`
}

// ElemCounter is the counter attached to a set element.
type ElemCounter struct {
	Packets *uint64 `json:"packets,omitzero"`
	Bytes   *uint64 `json:"bytes,omitzero"`
}

// Elem decorates a set element with timeouts, a comment or a counter.
type Elem struct {
	Val     Expression   `json:"val"`
	Timeout *uint32      `json:"timeout,omitzero"`
	Expires *uint32      `json:"expires,omitzero"`
	Comment *string      `json:"comment,omitzero"`
	Counter *ElemCounter `json:"counter,omitzero"`
}

type Socket struct {
	Key string `json:"key"`
}

// Osf matches the passive OS fingerprint.
type Osf struct {
	Key string  `json:"key"`
	TTL *OsfTTL `json:"ttl,omitzero"`
}

func (String) isExpression()     {}
func (Number) isExpression()     {}
func (Boolean) isExpression()    {}
func (List) isExpression()       {}
func (BinOp) isExpression()      {}
func (Range) isExpression()      {}
func (Concat) isExpression()     {}
func (AnonSet) isExpression()    {}
func (MapLookup) isExpression()  {}
func (Prefix) isExpression()     {}
func (Payload) isExpression()    {}
func (PayloadRaw) isExpression() {}
func (Exthdr) isExpression()     {}
func (TCPOption) isExpression()  {}
func (SCTPChunk) isExpression()  {}
func (DCCPOption) isExpression() {}
func (Meta) isExpression()       {}
func (RT) isExpression()         {}
func (CT) isExpression()         {}
func (Numgen) isExpression()     {}
func (JHash) isExpression()      {}
func (SymHash) isExpression()    {}
func (Fib) isExpression()        {}
func (Elem) isExpression()       {}
func (Socket) isExpression()     {}
func (Osf) isExpression()        {}
func (Accept) isExpression()     {}
func (Drop) isExpression()       {}
func (Continue) isExpression()   {}
func (Return) isExpression()     {}
func (Jump) isExpression()       {}
func (Goto) isExpression()       {}

func (l List) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return marshal([]Expression(l))
}

func (b BinOp) MarshalJSON() ([]byte, error) {
	return wrap(string(b.Op), [2]Expression{b.Left, b.Right})
}

func (r Range) MarshalJSON() ([]byte, error) {
	return wrap("range", [2]Expression{r.Low, r.High})
}

func (c Concat) MarshalJSON() ([]byte, error) {
	items := []Expression(c)
	if items == nil {
		items = []Expression{}
	}
	return wrap("concat", items)
}

func (s AnonSet) MarshalJSON() ([]byte, error) {
	items := []SetItem(s)
	if items == nil {
		items = []SetItem{}
	}
	return wrap("set", items)
}

func (i SetItem) MarshalJSON() ([]byte, error) {
	if i.Value == nil {
		return marshal(i.Key)
	}
	return marshal([2]Expression{i.Key, i.Value})
}

func (m MapLookup) MarshalJSON() ([]byte, error) {
	type plain MapLookup
	return wrap("map", plain(m))
}

func (p Prefix) MarshalJSON() ([]byte, error) {
	type plain Prefix
	return wrap("prefix", plain(p))
}

func (p Payload) MarshalJSON() ([]byte, error) {
	type plain Payload
	return wrap("payload", plain(p))
}

func (p PayloadRaw) MarshalJSON() ([]byte, error) {
	type plain PayloadRaw
	return wrap("payload", plain(p))
}

func (e Exthdr) MarshalJSON() ([]byte, error) {
	type plain Exthdr
	return wrap("exthdr", plain(e))
}

func (o TCPOption) MarshalJSON() ([]byte, error) {
	type plain TCPOption
	return wrap("tcp option", plain(o))
}

func (c SCTPChunk) MarshalJSON() ([]byte, error) {
	type plain SCTPChunk
	return wrap("sctp chunk", plain(c))
}

func (o DCCPOption) MarshalJSON() ([]byte, error) {
	type plain DCCPOption
	return wrap("dccp option", plain(o))
}

func (m Meta) MarshalJSON() ([]byte, error) {
	type plain Meta
	return wrap("meta", plain(m))
}

func (r RT) MarshalJSON() ([]byte, error) {
	type plain RT
	return wrap("rt", plain(r))
}

func (c CT) MarshalJSON() ([]byte, error) {
	type plain CT
	return wrap("ct", plain(c))
}

func (n Numgen) MarshalJSON() ([]byte, error) {
	type plain Numgen
	return wrap("numgen", plain(n))
}

func (h JHash) MarshalJSON() ([]byte, error) {
	type plain JHash
	return wrap("jhash", plain(h))
}

func (h SymHash) MarshalJSON() ([]byte, error) {
	type plain SymHash
	return wrap("symhash", plain(h))
}

func (f Fib) MarshalJSON() ([]byte, error) {
	type plain Fib
	return wrap("fib", plain(f))
}

func (e Elem) MarshalJSON() ([]byte, error) {
	type plain Elem
	return wrap("elem", plain(e))
}

func (s Socket) MarshalJSON() ([]byte, error) {
	type plain Socket
	return wrap("socket", plain(s))
}

func (o Osf) MarshalJSON() ([]byte, error) {
	type plain Osf
	return wrap("osf", plain(o))
}
