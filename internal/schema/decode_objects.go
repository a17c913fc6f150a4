package schema

import "fmt"

var listObjectKinds = []string{
	KindTable, KindChain, KindRule, KindSet, KindMap, KindElement, KindFlowTable,
	KindCounter, KindQuota, KindCTHelper, KindLimit, KindMetainfo, KindCTTimeout,
	KindCTExpectation, KindSynProxy, KindRuleset,
}

func (d *decoder) listObject(n node) (ListObject, error) {
	kind, body, err := n.single()
	if err != nil {
		return nil, err
	}
	switch kind {
	case KindRuleset:
		if err := body.emptyBody(); err != nil {
			return nil, err
		}
		return Ruleset{}, nil
	case KindMetainfo:
		f := d.fields(body)
		m := Metainfo{
			Version:           f.optStr("version"),
			ReleaseName:       f.optStr("release_name"),
			JSONSchemaVersion: f.optU32("json_schema_version"),
		}
		return m, f.done()
	}

	f := d.fields(body)
	var obj ListObject
	switch kind {
	case KindTable:
		obj = Table{
			Family: reqEnum(f, "family", familyValues),
			Name:   f.str("name"),
			Handle: f.optU32("handle"),
		}
	case KindChain:
		obj = Chain{
			Family:  reqEnum(f, "family", familyValues),
			Table:   f.str("table"),
			Name:    f.str("name"),
			NewName: f.optStr("newname"),
			Handle:  f.optU32("handle"),
			Type:    optEnum(f, "type", chainTypeValues),
			Hook:    optEnum(f, "hook", hookValues),
			Prio:    f.optI32("prio"),
			Dev:     f.optStr("dev"),
			Policy:  optEnum(f, "policy", chainPolicyValues),
		}
	case KindRule:
		obj = Rule{
			Family:  reqEnum(f, "family", familyValues),
			Table:   f.str("table"),
			Chain:   f.str("chain"),
			Expr:    f.stmts("expr"),
			Handle:  f.optU32("handle"),
			Index:   f.optU32("index"),
			Comment: f.optStr("comment"),
		}
	case KindSet:
		obj = Set{
			Family:     reqEnum(f, "family", familyValues),
			Table:      f.str("table"),
			Name:       f.str("name"),
			Handle:     f.optU32("handle"),
			Type:       optOneOrMany[SetType](f, "type", nil),
			Policy:     optEnum(f, "policy", setPolicyValues),
			Flags:      optEnums(f, "flags", setFlagValues),
			Elem:       f.exprs("elem", false),
			Timeout:    f.optU32("timeout"),
			GCInterval: f.optU32("gc-interval"),
			Size:       f.optU32("size"),
			Comment:    f.optStr("comment"),
		}
	case KindMap:
		obj = Map{
			Family:     reqEnum(f, "family", familyValues),
			Table:      f.str("table"),
			Name:       f.str("name"),
			Handle:     f.optU32("handle"),
			Type:       optOneOrMany[SetType](f, "type", nil),
			Map:        optOneOrMany[SetType](f, "map", nil),
			Policy:     optEnum(f, "policy", setPolicyValues),
			Flags:      optEnums(f, "flags", setFlagValues),
			Elem:       f.exprs("elem", false),
			Timeout:    f.optU32("timeout"),
			GCInterval: f.optU32("gc-interval"),
			Size:       f.optU32("size"),
			Comment:    f.optStr("comment"),
		}
	case KindElement:
		obj = Element{
			Family: reqEnum(f, "family", familyValues),
			Table:  f.str("table"),
			Name:   f.str("name"),
			Elem:   f.exprs("elem", true),
		}
	case KindFlowTable:
		obj = FlowTable{
			Family: reqEnum(f, "family", familyValues),
			Table:  f.str("table"),
			Name:   f.str("name"),
			Handle: f.optU32("handle"),
			Hook:   optEnum(f, "hook", hookValues),
			Prio:   f.optI32("prio"),
			Dev:    optOneOrMany[string](f, "dev", nil),
		}
	case KindCounter:
		obj = Counter{
			Family:  reqEnum(f, "family", familyValues),
			Table:   f.str("table"),
			Name:    f.str("name"),
			Handle:  f.optU32("handle"),
			Packets: f.optU64("packets"),
			Bytes:   f.optU64("bytes"),
		}
	case KindQuota:
		obj = Quota{
			Family: reqEnum(f, "family", familyValues),
			Table:  f.str("table"),
			Name:   f.str("name"),
			Handle: f.optU32("handle"),
			Bytes:  f.optU64("bytes"),
			Used:   f.optU64("used"),
			Inv:    f.optBool("inv"),
		}
	case KindCTHelper:
		obj = CTHelper{
			Family:   reqEnum(f, "family", familyValues),
			Table:    f.str("table"),
			Name:     f.str("name"),
			Handle:   f.optU32("handle"),
			Type:     f.str("type"),
			Protocol: optEnum(f, "protocol", ctProtoValues),
			L3Proto:  f.optStr("l3proto"),
		}
	case KindLimit:
		obj = Limit{
			Family: reqEnum(f, "family", familyValues),
			Table:  f.str("table"),
			Name:   f.str("name"),
			Handle: f.optU32("handle"),
			Rate:   f.optU64("rate"),
			Per:    optEnum(f, "per", timeUnitValues),
			Burst:  f.optU64("burst"),
			Unit:   optEnum(f, "unit", limitUnitValues),
			Inv:    f.optBool("inv"),
		}
	case KindCTTimeout:
		obj = CTTimeout{
			Family:   reqEnum(f, "family", familyValues),
			Table:    f.str("table"),
			Name:     f.str("name"),
			Handle:   f.optU32("handle"),
			Protocol: optEnum(f, "protocol", ctProtoValues),
			State:    f.optStr("state"),
			Value:    f.optU32("value"),
			L3Proto:  f.optStr("l3proto"),
		}
	case KindCTExpectation:
		obj = CTExpectation{
			Family:   reqEnum(f, "family", familyValues),
			Table:    f.str("table"),
			Name:     f.str("name"),
			Handle:   f.optU32("handle"),
			L3Proto:  f.optStr("l3proto"),
			Protocol: optEnum(f, "protocol", ctProtoValues),
			Dport:    f.optU32("dport"),
			Timeout:  f.optU32("timeout"),
			Size:     f.optU32("size"),
		}
	case KindSynProxy:
		obj = SynProxy{
			Family: reqEnum(f, "family", familyValues),
			Table:  f.str("table"),
			Name:   f.str("name"),
			Handle: f.optU32("handle"),
			MSS:    f.optU16("mss"),
			WScale: f.optU8("wscale"),
			Flags:  optOneOrMany(f, "flags", synProxyFlagValues),
		}
	default:
		return nil, &DecodeError{
			Path:     n.path,
			Expected: "list object, one of " + quoteKeys(listObjectKinds),
			Actual:   fmt.Sprintf("unknown kind %q", kind),
		}
	}
	if err := f.done(); err != nil {
		return nil, err
	}
	return obj, nil
}
