package schema

import "encoding/json"

// Document is a complete nftables JSON document: an ordered sequence of
// commands (write path) or bare list objects (read path).
type Document struct {
	Objects []Object
}

// Object is an element of a Document: a Command or a ListObject.
type Object interface {
	isObject()
}

// ListObject is anything nft can add, delete or list: tables, chains,
// rules, sets and the named stateful objects.
type ListObject interface {
	Object
	// Kind returns the JSON key of the object, e.g. "chain" or "ct helper".
	Kind() string
}

// Verb is the command a Command performs on its object.
type Verb string

const (
	VerbAdd     Verb = "add"
	VerbReplace Verb = "replace"
	VerbCreate  Verb = "create"
	VerbInsert  Verb = "insert"
	VerbDelete  Verb = "delete"
	VerbList    Verb = "list"
	VerbReset   Verb = "reset"
	VerbFlush   Verb = "flush"
	VerbRename  Verb = "rename"
)

var verbValues = []Verb{VerbAdd, VerbReplace, VerbCreate, VerbInsert, VerbDelete, VerbList, VerbReset, VerbFlush, VerbRename}

func isVerb(key string) bool {
	for _, v := range verbValues {
		if string(v) == key {
			return true
		}
	}
	return false
}

// Command applies a verb to a list object.
type Command struct {
	Verb   Verb
	Object ListObject
}

func (Command) isObject() {}

func (c Command) MarshalJSON() ([]byte, error) {
	if c.Object == nil {
		return wrapRaw(string(c.Verb), []byte("null"))
	}
	return wrap(string(c.Verb), c.Object)
}

// Commands returns the commands of the document, skipping bare list objects.
func (d Document) Commands() []Command {
	var out []Command
	for _, o := range d.Objects {
		if c, ok := o.(Command); ok {
			out = append(out, c)
		}
	}
	return out
}

// ListObjects returns the bare list objects of the document, in order.
func (d Document) ListObjects() []ListObject {
	var out []ListObject
	for _, o := range d.Objects {
		if l, ok := o.(ListObject); ok {
			out = append(out, l)
		}
	}
	return out
}

func (d Document) MarshalJSON() ([]byte, error) {
	objs := d.Objects
	if objs == nil {
		objs = []Object{}
	}
	return wrap("nftables", objs)
}

func (d *Document) UnmarshalJSON(data []byte) error {
	doc, err := Decode(data)
	if err != nil {
		return err
	}
	*d = doc
	return nil
}

var (
	_ json.Marshaler   = Document{}
	_ json.Unmarshaler = (*Document)(nil)
)
