// Package diff computes the commands that turn one ruleset into another.
//
// Plan is pure: it inspects two documents and returns a batch, and never
// talks to nft. Objects are matched by identity (kind, family, table and
// name); handles are ignored. A chain whose rule list differs in any way
// is flushed and refilled so that rule order always matches the desired
// document.
package diff

import (
	"encoding/json"
	"slices"

	"grimm.is/nftjson/internal/batch"
	"grimm.is/nftjson/internal/schema"
)

type tableKey struct {
	family schema.Family
	name   string
}

type objectKey struct {
	kind   string
	family schema.Family
	table  string
	name   string
	// extra separates elements of the same set.
	extra string
}

func (k objectKey) parent() tableKey { return tableKey{k.family, k.table} }

// entry is an object plus its handle-free encoding.
type entry struct {
	obj   schema.ListObject
	canon string
}

type ruleset struct {
	tables     map[tableKey]entry
	tableOrder []tableKey
	chains     map[objectKey]entry
	chainOrder []objectKey
	named      map[objectKey]entry
	namedOrder []objectKey
	rules      map[objectKey][]entry
	ruleChains []objectKey
}

// Plan returns the batch that transforms current into desired.
//
// Deletes come first (rules, named objects, chains, tables) and adds
// follow (tables, chains, named objects, rules). A modified object is
// deleted and re-added. Deleting a table removes everything in it, so a
// modified table is rebuilt from the desired document. Bare objects and
// add/create commands in either document are considered; metainfo and
// every other command are ignored.
func Plan(current, desired schema.Document) *batch.Batch {
	cur := collect(current)
	want := collect(desired)
	b := batch.New()

	// Tables that are deleted take their contents with them.
	droppedTables := make(map[tableKey]bool)
	for _, k := range cur.tableOrder {
		w, ok := want.tables[k]
		if !ok || w.canon != cur.tables[k].canon {
			droppedTables[k] = true
		}
	}

	droppedChains := make(map[objectKey]bool)
	for _, k := range cur.chainOrder {
		if droppedTables[k.parent()] {
			continue
		}
		w, ok := want.chains[k]
		if !ok || w.canon != cur.chains[k].canon {
			droppedChains[k] = true
		}
	}

	// Chains whose rules are rebuilt from scratch.
	refill := make(map[objectKey]bool)
	for _, k := range cur.ruleChains {
		if droppedTables[k.parent()] {
			continue
		}
		if droppedChains[k] || !sameRules(cur.rules[k], want.rules[k]) {
			if len(cur.rules[k]) > 0 {
				b.Flush(schema.Chain{Family: k.family, Table: k.table, Name: k.name})
			}
			refill[k] = true
		}
	}
	for _, k := range want.ruleChains {
		if _, ok := cur.rules[k]; !ok {
			refill[k] = true
		}
	}

	for _, k := range cur.namedOrder {
		if droppedTables[k.parent()] {
			continue
		}
		w, ok := want.named[k]
		if !ok || w.canon != cur.named[k].canon {
			b.Delete(identity(cur.named[k].obj, k))
		}
	}
	for _, k := range cur.chainOrder {
		if droppedChains[k] {
			b.Delete(identity(cur.chains[k].obj, k))
		}
	}
	for _, k := range cur.tableOrder {
		if droppedTables[k] {
			b.Delete(schema.Table{Family: k.family, Name: k.name})
		}
	}

	for _, k := range want.tableOrder {
		if _, ok := cur.tables[k]; !ok || droppedTables[k] {
			b.Add(want.tables[k].obj)
		}
	}
	for _, k := range want.chainOrder {
		c, ok := cur.chains[k]
		if !ok || droppedChains[k] || droppedTables[k.parent()] || c.canon != want.chains[k].canon {
			b.Add(want.chains[k].obj)
		}
	}
	for _, k := range want.namedOrder {
		c, ok := cur.named[k]
		if !ok || droppedTables[k.parent()] || c.canon != want.named[k].canon {
			b.Add(want.named[k].obj)
		}
	}
	for _, k := range want.ruleChains {
		if !refill[k] && !droppedTables[k.parent()] {
			continue
		}
		for _, r := range want.rules[k] {
			b.Add(r.obj)
		}
	}
	return b
}

func collect(doc schema.Document) *ruleset {
	rs := &ruleset{
		tables: make(map[tableKey]entry),
		chains: make(map[objectKey]entry),
		named:  make(map[objectKey]entry),
		rules:  make(map[objectKey][]entry),
	}
	for _, o := range Normalize(doc).Objects {
		rs.add(o.(schema.ListObject))
	}
	return rs
}

func (rs *ruleset) add(obj schema.ListObject) {
	e := entry{obj: obj, canon: canonical(obj)}
	switch o := obj.(type) {
	case schema.Table:
		k := tableKey{o.Family, o.Name}
		if _, ok := rs.tables[k]; !ok {
			rs.tableOrder = append(rs.tableOrder, k)
		}
		rs.tables[k] = e
	case schema.Chain:
		k := objectKey{kind: schema.KindChain, family: o.Family, table: o.Table, name: o.Name}
		if _, ok := rs.chains[k]; !ok {
			rs.chainOrder = append(rs.chainOrder, k)
		}
		rs.chains[k] = e
	case schema.Rule:
		k := objectKey{kind: schema.KindChain, family: o.Family, table: o.Table, name: o.Chain}
		if _, ok := rs.rules[k]; !ok {
			rs.ruleChains = append(rs.ruleChains, k)
		}
		rs.rules[k] = append(rs.rules[k], e)
	default:
		k := namedKey(obj)
		if o, ok := obj.(schema.Element); ok {
			k.extra = canonical(o)
		}
		if _, ok := rs.named[k]; !ok {
			rs.namedOrder = append(rs.namedOrder, k)
		}
		rs.named[k] = e
	}
}

func namedKey(obj schema.ListObject) objectKey {
	k := objectKey{kind: obj.Kind()}
	switch o := obj.(type) {
	case schema.Set:
		k.family, k.table, k.name = o.Family, o.Table, o.Name
	case schema.Map:
		k.family, k.table, k.name = o.Family, o.Table, o.Name
	case schema.Element:
		k.family, k.table, k.name = o.Family, o.Table, o.Name
	case schema.FlowTable:
		k.family, k.table, k.name = o.Family, o.Table, o.Name
	case schema.Counter:
		k.family, k.table, k.name = o.Family, o.Table, o.Name
	case schema.Quota:
		k.family, k.table, k.name = o.Family, o.Table, o.Name
	case schema.CTHelper:
		k.family, k.table, k.name = o.Family, o.Table, o.Name
	case schema.Limit:
		k.family, k.table, k.name = o.Family, o.Table, o.Name
	case schema.CTTimeout:
		k.family, k.table, k.name = o.Family, o.Table, o.Name
	case schema.CTExpectation:
		k.family, k.table, k.name = o.Family, o.Table, o.Name
	case schema.SynProxy:
		k.family, k.table, k.name = o.Family, o.Table, o.Name
	}
	return k
}

// identity returns the minimal object nft needs to address obj in a
// delete or flush command.
func identity(obj schema.ListObject, k objectKey) schema.ListObject {
	switch o := obj.(type) {
	case schema.Chain:
		return schema.Chain{Family: k.family, Table: k.table, Name: k.name}
	case schema.Set:
		return schema.Set{Family: k.family, Table: k.table, Name: k.name}
	case schema.Map:
		return schema.Map{Family: k.family, Table: k.table, Name: k.name}
	case schema.Element:
		return o
	case schema.FlowTable:
		return schema.FlowTable{Family: k.family, Table: k.table, Name: k.name}
	case schema.Counter:
		return schema.Counter{Family: k.family, Table: k.table, Name: k.name}
	case schema.Quota:
		return schema.Quota{Family: k.family, Table: k.table, Name: k.name}
	case schema.CTHelper:
		return schema.CTHelper{Family: k.family, Table: k.table, Name: k.name}
	case schema.Limit:
		return schema.Limit{Family: k.family, Table: k.table, Name: k.name}
	case schema.CTTimeout:
		return schema.CTTimeout{Family: k.family, Table: k.table, Name: k.name}
	case schema.CTExpectation:
		return schema.CTExpectation{Family: k.family, Table: k.table, Name: k.name}
	case schema.SynProxy:
		return schema.SynProxy{Family: k.family, Table: k.table, Name: k.name}
	}
	return obj
}

func stripHandle(obj schema.ListObject) schema.ListObject {
	switch o := obj.(type) {
	case schema.Table:
		o.Handle = nil
		return o
	case schema.Chain:
		o.Handle = nil
		return o
	case schema.Rule:
		o.Handle, o.Index = nil, nil
		return o
	case schema.Set:
		o.Handle = nil
		return o
	case schema.Map:
		o.Handle = nil
		return o
	case schema.FlowTable:
		o.Handle = nil
		return o
	case schema.Counter:
		o.Handle = nil
		return o
	case schema.Quota:
		o.Handle = nil
		return o
	case schema.CTHelper:
		o.Handle = nil
		return o
	case schema.Limit:
		o.Handle = nil
		return o
	case schema.CTTimeout:
		o.Handle = nil
		return o
	case schema.CTExpectation:
		o.Handle = nil
		return o
	case schema.SynProxy:
		o.Handle = nil
		return o
	}
	return obj
}

// canonical is the JSON form used for equality. Encoding failures leave
// the object unequal to everything.
func canonical(obj schema.ListObject) string {
	out, err := json.Marshal(obj)
	if err != nil {
		return "\x00" + err.Error()
	}
	return string(out)
}

func sameRules(a, b []entry) bool {
	return slices.EqualFunc(a, b, func(x, y entry) bool { return x.canon == y.canon })
}

// Normalize returns the objects Plan compares: add and create commands are
// unwrapped, handles and rule indexes are cleared, and metainfo and every
// other command are dropped. Order is kept.
func Normalize(doc schema.Document) schema.Document {
	var out []schema.Object
	for _, o := range doc.Objects {
		var obj schema.ListObject
		switch v := o.(type) {
		case schema.Command:
			if v.Verb != schema.VerbAdd && v.Verb != schema.VerbCreate {
				continue
			}
			obj = v.Object
		case schema.ListObject:
			obj = v
		default:
			continue
		}
		switch obj.(type) {
		case schema.Metainfo, schema.Ruleset:
			continue
		}
		out = append(out, stripHandle(obj))
	}
	return schema.Document{Objects: out}
}
