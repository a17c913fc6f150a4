// Package batch accumulates nftables commands into a single document that
// nft applies as one transaction.
package batch

import "grimm.is/nftjson/internal/schema"

// Batch is an ordered list of commands. Commands are emitted in the order
// they were added; nothing is reordered, merged or deduplicated, and no
// flush is injected.
type Batch struct {
	objects []schema.Object
}

// New creates an empty batch.
func New() *Batch {
	return &Batch{objects: make([]schema.Object, 0, 16)}
}

// AddCommand appends a prebuilt command.
func (b *Batch) AddCommand(cmd schema.Command) *Batch {
	b.objects = append(b.objects, cmd)
	return b
}

func (b *Batch) command(verb schema.Verb, obj schema.ListObject) *Batch {
	return b.AddCommand(schema.Command{Verb: verb, Object: obj})
}

// Add appends an add command.
func (b *Batch) Add(obj schema.ListObject) *Batch { return b.command(schema.VerbAdd, obj) }

// Create appends a create command, which fails if the object exists.
func (b *Batch) Create(obj schema.ListObject) *Batch { return b.command(schema.VerbCreate, obj) }

// Insert appends an insert command (rules only: prepends to the chain, or
// places the rule before Rule.Index).
func (b *Batch) Insert(obj schema.ListObject) *Batch { return b.command(schema.VerbInsert, obj) }

// Replace appends a replace command (rules only, addressed by Rule.Handle).
func (b *Batch) Replace(obj schema.ListObject) *Batch { return b.command(schema.VerbReplace, obj) }

// Delete appends a delete command.
func (b *Batch) Delete(obj schema.ListObject) *Batch { return b.command(schema.VerbDelete, obj) }

// Flush appends a flush command. Flush(schema.Ruleset{}) clears everything.
func (b *Batch) Flush(obj schema.ListObject) *Batch { return b.command(schema.VerbFlush, obj) }

// Reset appends a reset command (counters and quotas).
func (b *Batch) Reset(obj schema.ListObject) *Batch { return b.command(schema.VerbReset, obj) }

// Rename appends a rename command; set Chain.NewName.
func (b *Batch) Rename(obj schema.ListObject) *Batch { return b.command(schema.VerbRename, obj) }

// AddObject appends a bare list object. nft only prints these; they are
// accepted here so listed rulesets can be rebuilt verbatim.
func (b *Batch) AddObject(obj schema.ListObject) *Batch {
	b.objects = append(b.objects, obj)
	return b
}

// AddAll appends an add command for every object, in order.
func (b *Batch) AddAll(objs ...schema.ListObject) *Batch {
	for _, obj := range objs {
		b.Add(obj)
	}
	return b
}

// Len returns the number of queued objects.
func (b *Batch) Len() int {
	return len(b.objects)
}

// Document returns the queued objects as a document. The batch keeps no
// reference to the returned slice.
func (b *Batch) Document() schema.Document {
	if len(b.objects) == 0 {
		return schema.Document{}
	}
	objs := make([]schema.Object, len(b.objects))
	copy(objs, b.objects)
	return schema.Document{Objects: objs}
}

// Bytes renders the batch as JSON.
func (b *Batch) Bytes() ([]byte, error) {
	return schema.Encode(b.Document())
}

// String returns the JSON for debugging.
func (b *Batch) String() string {
	out, err := b.Bytes()
	if err != nil {
		return err.Error()
	}
	return string(out)
}
