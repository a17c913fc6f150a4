package schema

import "fmt"

var expressionKeys = []string{
	"&", "|", "^", "<<", ">>", "range", "concat", "set", "map", "prefix", "payload",
	"exthdr", "tcp option", "sctp chunk", "dccp option", "meta", "rt", "ct",
	"numgen", "jhash", "symhash", "fib", "elem", "socket", "osf",
	"accept", "drop", "continue", "return", "jump", "goto",
}

// expression decodes immediates first and structured expressions second.
func (d *decoder) expression(n node) (Expression, error) {
	switch n.kind() {
	case kindString:
		s, err := n.str()
		return String(s), err
	case kindNumber:
		v, err := n.uint(64)
		return Number(v), err
	case kindBool:
		b, err := n.boolean()
		return Boolean(b), err
	case kindArray:
		items, err := d.expressionList(n)
		return List(items), err
	case kindNull:
		return nil, n.fail("expression")
	}

	key, body, err := n.single()
	if err != nil {
		return nil, err
	}
	if v, ok, err := d.verdict(key, body); ok {
		return v, err
	}

	switch key {
	case "&", "|", "^", "<<", ">>":
		l, r, err := body.pair()
		if err != nil {
			return nil, err
		}
		left, err := d.expression(l)
		if err != nil {
			return nil, err
		}
		right, err := d.expression(r)
		if err != nil {
			return nil, err
		}
		return BinOp{Op: BinaryOp(key), Left: left, Right: right}, nil
	case "range":
		l, h, err := body.pair()
		if err != nil {
			return nil, err
		}
		low, err := d.expression(l)
		if err != nil {
			return nil, err
		}
		high, err := d.expression(h)
		if err != nil {
			return nil, err
		}
		return Range{Low: low, High: high}, nil
	case "concat":
		items, err := d.expressionList(body)
		return Concat(items), err
	case "set":
		return d.anonSet(body)
	}

	f := d.fields(body)
	var e Expression
	switch key {
	case "map":
		e = MapLookup{Key: f.expr("key"), Data: f.expr("data")}
	case "prefix":
		e = Prefix{Addr: f.expr("addr"), Len: f.u32("len")}
	case "payload":
		if _, raw := f.m["base"]; raw {
			e = PayloadRaw{
				Base:   reqEnum(f, "base", payloadBaseValues),
				Offset: f.u32("offset"),
				Len:    f.u32("len"),
			}
		} else {
			e = Payload{Protocol: f.str("protocol"), Field: f.str("field")}
		}
	case "exthdr":
		e = Exthdr{Name: f.str("name"), Field: f.optStr("field"), Offset: f.optU32("offset")}
	case "tcp option":
		e = TCPOption{Name: f.str("name"), Field: f.optStr("field")}
	case "sctp chunk":
		e = SCTPChunk{Name: f.str("name"), Field: f.optStr("field")}
	case "dccp option":
		e = DCCPOption{Type: f.u32("type")}
	case "meta":
		e = Meta{Key: reqEnum(f, "key", metaKeyValues)}
	case "rt":
		e = RT{Key: reqEnum(f, "key", rtKeyValues), Family: optEnum(f, "family", familyValues)}
	case "ct":
		e = CT{
			Key:    f.str("key"),
			Family: optEnum(f, "family", familyValues),
			Dir:    optEnum(f, "dir", ctDirValues),
		}
	case "numgen":
		e = Numgen{
			Mode:   reqEnum(f, "mode", ngModeValues),
			Mod:    f.u32("mod"),
			Offset: f.optU32("offset"),
		}
	case "jhash":
		e = JHash{
			Mod:    f.u32("mod"),
			Offset: f.optU32("offset"),
			Expr:   f.expr("expr"),
			Seed:   f.optU32("seed"),
		}
	case "symhash":
		e = SymHash{Mod: f.u32("mod"), Offset: f.optU32("offset")}
	case "fib":
		e = Fib{
			Result: reqEnum(f, "result", fibResultValues),
			Flags:  optOneOrMany(f, "flags", fibFlagValues),
		}
	case "elem":
		e = Elem{
			Val:     f.expr("val"),
			Timeout: f.optU32("timeout"),
			Expires: f.optU32("expires"),
			Comment: f.optStr("comment"),
			Counter: d.elemCounter(f),
		}
	case "socket":
		e = Socket{Key: f.str("key")}
	case "osf":
		e = Osf{Key: f.str("key"), TTL: optEnum(f, "ttl", osfTTLValues)}
	default:
		return nil, &DecodeError{
			Path:     n.path,
			Expected: "expression, one of " + quoteKeys(expressionKeys),
			Actual:   fmt.Sprintf("unknown expression %q", key),
		}
	}
	if err := f.done(); err != nil {
		return nil, err
	}
	return e, nil
}

func (d *decoder) expressionList(n node) ([]Expression, error) {
	items, err := n.array()
	if err != nil {
		return nil, err
	}
	out := make([]Expression, 0, len(items))
	for _, item := range items {
		e, err := d.expression(item)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// anonSet decodes a set literal. A two element array inside a set is a
// [key, value] mapping; a plain list as a set element is not representable.
func (d *decoder) anonSet(n node) (AnonSet, error) {
	items, err := n.array()
	if err != nil {
		return nil, err
	}
	out := make(AnonSet, 0, len(items))
	for _, item := range items {
		if item.kind() == kindArray {
			k, v, err := item.pair()
			if err != nil {
				return nil, err
			}
			key, err := d.expression(k)
			if err != nil {
				return nil, err
			}
			val, err := d.expression(v)
			if err != nil {
				return nil, err
			}
			out = append(out, SetItem{Key: key, Value: val})
			continue
		}
		key, err := d.expression(item)
		if err != nil {
			return nil, err
		}
		out = append(out, SetItem{Key: key})
	}
	return out, nil
}

func (d *decoder) elemCounter(f *fields) *ElemCounter {
	n, ok := f.lookup("counter")
	if !ok {
		return nil
	}
	cf := d.fields(n)
	c := &ElemCounter{Packets: cf.optU64("packets"), Bytes: cf.optU64("bytes")}
	f.setErr(cf.done())
	return c
}
