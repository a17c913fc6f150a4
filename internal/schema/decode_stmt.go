package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
)

var statementKeys = []string{
	"accept", "drop", "continue", "return", "jump", "goto", "match", "counter",
	"mangle", "quota", "limit", "flow", "fwd", "notrack", "dup", "snat", "dnat",
	"masquerade", "redirect", "reject", "set", "map", "log", "ct helper", "meter",
	"queue", "vmap", "ct count", "ct timeout", "ct expectation", "xt", "synproxy",
	"tproxy",
}

func (d *decoder) statement(n node) (Statement, error) {
	key, body, err := n.single()
	if err != nil {
		return nil, err
	}
	if v, ok, err := d.verdict(key, body); ok {
		return v, err
	}

	switch key {
	case "notrack":
		return Notrack{}, body.emptyBody()
	case "counter":
		switch body.kind() {
		case kindString:
			s, err := body.str()
			return CounterRef(s), err
		case kindNull:
			return CounterStmt{}, nil
		}
		f := d.fields(body)
		c := CounterStmt{Packets: f.optU64("packets"), Bytes: f.optU64("bytes")}
		return c, f.done()
	case "quota":
		if body.kind() == kindString {
			s, err := body.str()
			return QuotaRef(s), err
		}
		f := d.fields(body)
		q := QuotaStmt{
			Val:      f.u64("val"),
			ValUnit:  f.str("val_unit"),
			Used:     f.optU64("used"),
			UsedUnit: f.optStr("used_unit"),
			Inv:      f.optBool("inv"),
		}
		return q, f.done()
	case "limit":
		if body.kind() == kindString {
			s, err := body.str()
			return LimitRef(s), err
		}
		f := d.fields(body)
		l := LimitStmt{
			Rate:      f.u64("rate"),
			RateUnit:  f.optStr("rate_unit"),
			Per:       optEnum(f, "per", timeUnitValues),
			Burst:     f.optU64("burst"),
			BurstUnit: f.optStr("burst_unit"),
			Inv:       f.optBool("inv"),
		}
		return l, f.done()
	case "snat", "dnat", "masquerade", "redirect":
		nat, err := d.nat(body)
		if err != nil {
			return nil, err
		}
		switch key {
		case "snat":
			return SNAT(nat), nil
		case "dnat":
			return DNAT(nat), nil
		case "masquerade":
			return Masquerade(nat), nil
		default:
			return Redirect(nat), nil
		}
	case "reject":
		if body.kind() == kindNull {
			return Reject{}, nil
		}
		f := d.fields(body)
		r := Reject{
			Type: optEnum(f, "type", rejectTypeValues),
			Expr: optEnum(f, "expr", rejectCodeValues),
		}
		return r, f.done()
	case "fwd":
		if body.kind() == kindNull {
			return Fwd{}, nil
		}
		f := d.fields(body)
		fw := Fwd{
			Dev:    f.optExpr("dev"),
			Family: optEnum(f, "family", familyValues),
			Addr:   f.optExpr("addr"),
		}
		return fw, f.done()
	case "log":
		if body.kind() == kindNull {
			return Log{}, nil
		}
		f := d.fields(body)
		l := Log{
			Prefix:         f.optStr("prefix"),
			Group:          f.optU32("group"),
			Snaplen:        f.optU32("snaplen"),
			QueueThreshold: f.optU32("queue-threshold"),
			Level:          optEnum(f, "level", logLevelValues),
			Flags:          optOneOrMany(f, "flags", logFlagValues),
		}
		return l, f.done()
	case "ct helper":
		e, err := d.expression(body)
		return CTHelperStmt{Expr: e}, err
	case "ct timeout":
		e, err := d.expression(body)
		return CTTimeoutStmt{Expr: e}, err
	case "ct expectation":
		e, err := d.expression(body)
		return CTExpectationStmt{Expr: e}, err
	case "xt":
		if body.kind() == kindNull {
			return XT{}, nil
		}
		var buf bytes.Buffer
		if err := json.Compact(&buf, body.raw); err != nil {
			return nil, body.fail("JSON value")
		}
		return XT{Raw: json.RawMessage(buf.Bytes())}, nil
	case "queue":
		if body.kind() == kindNull {
			return Queue{}, nil
		}
		f := d.fields(body)
		q := Queue{
			Num:   f.optExpr("num"),
			Flags: optOneOrMany(f, "flags", queueFlagValues),
		}
		return q, f.done()
	case "synproxy":
		if body.kind() == kindNull {
			return SynProxyStmt{}, nil
		}
		f := d.fields(body)
		s := SynProxyStmt{
			MSS:    f.optU16("mss"),
			WScale: f.optU8("wscale"),
			Flags:  optOneOrMany(f, "flags", synProxyFlagValues),
		}
		return s, f.done()
	}

	f := d.fields(body)
	var st Statement
	switch key {
	case "match":
		st = Match{
			Op:    reqEnum(f, "op", operatorValues),
			Left:  f.expr("left"),
			Right: f.expr("right"),
		}
	case "mangle":
		st = Mangle{Key: f.expr("key"), Value: f.expr("value")}
	case "flow":
		st = Flow{Op: reqEnum(f, "op", setOpValues), Flowtable: f.str("flowtable")}
	case "dup":
		st = Dup{Addr: f.expr("addr"), Dev: f.optExpr("dev")}
	case "set":
		st = SetStmt{Op: reqEnum(f, "op", setOpValues), Elem: f.expr("elem"), Set: f.str("set")}
	case "map":
		st = MapStmt{
			Op:   reqEnum(f, "op", setOpValues),
			Elem: f.expr("elem"),
			Data: f.expr("data"),
			Map:  f.str("map"),
		}
	case "meter":
		st = Meter{Name: f.str("name"), Key: f.expr("key"), Stmt: f.stmt("stmt")}
	case "vmap":
		st = VerdictMap{Key: f.expr("key"), Data: f.expr("data")}
	case "ct count":
		st = CTCount{Val: f.expr("val"), Inv: f.optBool("inv")}
	case "tproxy":
		st = TProxy{
			Family: optEnum(f, "family", familyValues),
			Addr:   f.optExpr("addr"),
			Port:   f.optExpr("port"),
		}
	default:
		return nil, &DecodeError{
			Path:     n.path,
			Expected: "statement, one of " + quoteKeys(statementKeys),
			Actual:   fmt.Sprintf("unknown statement %q", key),
		}
	}
	if err := f.done(); err != nil {
		return nil, err
	}
	return st, nil
}

func (d *decoder) nat(body node) (NAT, error) {
	if body.kind() == kindNull {
		return NAT{}, nil
	}
	f := d.fields(body)
	nat := NAT{
		Addr:   f.optExpr("addr"),
		Family: optEnum(f, "family", familyValues),
		Port:   f.optExpr("port"),
		Flags:  optOneOrMany(f, "flags", natFlagValues),
	}
	return nat, f.done()
}

// verdict decodes the verdict forms shared by statements and expressions.
// ok is false when key is not a verdict.
func (d *decoder) verdict(key string, body node) (v verdictValue, ok bool, err error) {
	switch key {
	case "accept":
		return Accept{}, true, body.emptyBody()
	case "drop":
		return Drop{}, true, body.emptyBody()
	case "continue":
		return Continue{}, true, body.emptyBody()
	case "return":
		return Return{}, true, body.emptyBody()
	case "jump", "goto":
		f := d.fields(body)
		target := f.str("target")
		if err := f.done(); err != nil {
			return nil, true, err
		}
		if key == "jump" {
			return Jump{Target: target}, true, nil
		}
		return Goto{Target: target}, true, nil
	}
	return nil, false, nil
}

// verdictValue is implemented by the verdicts, which are valid both as
// statements and as expressions.
type verdictValue interface {
	Statement
	Expression
}
