package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"
)

// DecodeOptions tunes Decode.
type DecodeOptions struct {
	// AllowUnknownFields skips object keys the model does not know instead
	// of failing. Unknown statement, expression and object kinds are still
	// rejected.
	AllowUnknownFields bool
}

// Decode parses a libnftables JSON document. Unknown keys are rejected.
func Decode(data []byte) (Document, error) {
	return DecodeWithOptions(data, DecodeOptions{})
}

// DecodeWithOptions parses a libnftables JSON document. Failures are
// reported as *DecodeError carrying the path of the offending value.
func DecodeWithOptions(data []byte, opts DecodeOptions) (Document, error) {
	var probe json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		var syn *json.SyntaxError
		if errors.As(err, &syn) {
			return Document{}, &DecodeError{Expected: "valid JSON", Actual: syn.Error(), Offset: syn.Offset}
		}
		return Document{}, &DecodeError{Expected: "valid JSON", Actual: err.Error()}
	}
	d := &decoder{opts: opts}
	return d.document(node{raw: probe})
}

type decoder struct {
	opts DecodeOptions
}

type jsonKind int

const (
	kindNull jsonKind = iota
	kindBool
	kindNumber
	kindString
	kindArray
	kindObject
)

// node is a raw JSON value together with its location.
type node struct {
	raw  json.RawMessage
	path Path
}

func (n node) kind() jsonKind {
	b := bytes.TrimLeft(n.raw, " \t\r\n")
	if len(b) == 0 {
		return kindNull
	}
	switch b[0] {
	case 'n':
		return kindNull
	case 't', 'f':
		return kindBool
	case '"':
		return kindString
	case '[':
		return kindArray
	case '{':
		return kindObject
	default:
		return kindNumber
	}
}

func (n node) describe() string {
	switch n.kind() {
	case kindNull:
		return "null"
	case kindBool:
		return "boolean " + string(bytes.TrimSpace(n.raw))
	case kindNumber:
		return "number " + string(bytes.TrimSpace(n.raw))
	case kindString:
		s := string(bytes.TrimSpace(n.raw))
		if len(s) > 40 {
			s = s[:37] + `..."`
		}
		return "string " + s
	case kindArray:
		return "array"
	default:
		var m map[string]json.RawMessage
		if err := json.Unmarshal(n.raw, &m); err != nil || len(m) == 0 {
			return "object"
		}
		return "object with keys " + quoteKeys(sortedKeys(m))
	}
}

func (n node) fail(expected string) error {
	return &DecodeError{Path: n.path, Expected: expected, Actual: n.describe()}
}

func (n node) str() (string, error) {
	if n.kind() != kindString {
		return "", n.fail("string")
	}
	var s string
	if err := json.Unmarshal(n.raw, &s); err != nil {
		return "", n.fail("string")
	}
	return s, nil
}

func (n node) boolean() (bool, error) {
	if n.kind() != kindBool {
		return false, n.fail("boolean")
	}
	return bytes.Equal(bytes.TrimSpace(n.raw), []byte("true")), nil
}

func (n node) uint(bits int) (uint64, error) {
	expected := fmt.Sprintf("unsigned %d-bit integer", bits)
	if n.kind() != kindNumber {
		return 0, n.fail(expected)
	}
	v, err := strconv.ParseUint(string(bytes.TrimSpace(n.raw)), 10, bits)
	if err != nil {
		return 0, n.fail(expected)
	}
	return v, nil
}

func (n node) int(bits int) (int64, error) {
	expected := fmt.Sprintf("signed %d-bit integer", bits)
	if n.kind() != kindNumber {
		return 0, n.fail(expected)
	}
	v, err := strconv.ParseInt(string(bytes.TrimSpace(n.raw)), 10, bits)
	if err != nil {
		return 0, n.fail(expected)
	}
	return v, nil
}

func (n node) array() ([]node, error) {
	if n.kind() != kindArray {
		return nil, n.fail("array")
	}
	var raws []json.RawMessage
	if err := json.Unmarshal(n.raw, &raws); err != nil {
		return nil, n.fail("array")
	}
	out := make([]node, len(raws))
	for i, r := range raws {
		out[i] = node{raw: r, path: n.path.index(i)}
	}
	return out, nil
}

func (n node) object() (map[string]json.RawMessage, error) {
	if n.kind() != kindObject {
		return nil, n.fail("object")
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(n.raw, &m); err != nil {
		return nil, n.fail("object")
	}
	return m, nil
}

// single unpacks a tagged union member {"key": body}.
func (n node) single() (string, node, error) {
	m, err := n.object()
	if err != nil {
		return "", node{}, n.fail("object with a single key")
	}
	if len(m) != 1 {
		return "", node{}, n.fail("object with a single key")
	}
	for k, v := range m {
		return k, node{raw: v, path: n.path.key(k)}, nil
	}
	panic("unreachable")
}

// pair unpacks a two element array.
func (n node) pair() (node, node, error) {
	items, err := n.array()
	if err != nil {
		return node{}, node{}, n.fail("array of two elements")
	}
	if len(items) != 2 {
		return node{}, node{}, &DecodeError{
			Path:     n.path,
			Expected: "array of two elements",
			Actual:   fmt.Sprintf("array of %d elements", len(items)),
		}
	}
	return items[0], items[1], nil
}

// emptyBody accepts the body of a statement without arguments.
func (n node) emptyBody() error {
	switch n.kind() {
	case kindNull:
		return nil
	case kindObject:
		m, err := n.object()
		if err != nil {
			return err
		}
		if len(m) == 0 {
			return nil
		}
	}
	return n.fail("null or empty object")
}

func enumValue[T ~string](n node, allowed []T) (T, error) {
	s, err := n.str()
	if err != nil {
		return "", err
	}
	v := T(s)
	if allowed == nil || slices.Contains(allowed, v) {
		return v, nil
	}
	vals := make([]string, len(allowed))
	for i, a := range allowed {
		vals[i] = string(a)
	}
	return "", n.fail("one of " + quoteKeys(vals))
}

func sortedKeys(m map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func quoteKeys(keys []string) string {
	q := make([]string, len(keys))
	for i, k := range keys {
		q[i] = strconv.Quote(k)
	}
	return "[" + strings.Join(q, ", ") + "]"
}

// fields reads the members of one JSON object. The first failure is sticky:
// later reads are no-ops and done returns it.
type fields struct {
	d     *decoder
	n     node
	m     map[string]json.RawMessage
	known []string
	err   error
}

func (d *decoder) fields(n node) *fields {
	f := &fields{d: d, n: n}
	f.m, f.err = n.object()
	return f
}

func (f *fields) setErr(err error) {
	if f.err == nil && err != nil {
		f.err = err
	}
}

func (f *fields) lookup(key string) (node, bool) {
	f.known = append(f.known, key)
	if f.err != nil {
		return node{}, false
	}
	raw, ok := f.m[key]
	if !ok {
		return node{}, false
	}
	return node{raw: raw, path: f.n.path.key(key)}, true
}

func (f *fields) require(key string) (node, bool) {
	n, ok := f.lookup(key)
	if !ok && f.err == nil {
		f.err = &DecodeError{Path: f.n.path.key(key), Expected: "required field", Actual: "missing"}
	}
	return n, ok
}

// done reports the first error, or the first unknown key.
func (f *fields) done() error {
	if f.err != nil {
		return f.err
	}
	if f.d.opts.AllowUnknownFields {
		return nil
	}
	for _, k := range sortedKeys(f.m) {
		if !slices.Contains(f.known, k) {
			return &DecodeError{
				Path:     f.n.path.key(k),
				Expected: "one of the fields " + quoteKeys(f.known),
				Actual:   "unknown field",
			}
		}
	}
	return nil
}

func (f *fields) str(key string) string {
	n, ok := f.require(key)
	if !ok {
		return ""
	}
	s, err := n.str()
	f.setErr(err)
	return s
}

func (f *fields) optStr(key string) *string {
	n, ok := f.lookup(key)
	if !ok {
		return nil
	}
	s, err := n.str()
	f.setErr(err)
	return &s
}

func (f *fields) optBool(key string) *bool {
	n, ok := f.lookup(key)
	if !ok {
		return nil
	}
	b, err := n.boolean()
	f.setErr(err)
	return &b
}

func (f *fields) u32(key string) uint32 {
	n, ok := f.require(key)
	if !ok {
		return 0
	}
	v, err := n.uint(32)
	f.setErr(err)
	return uint32(v)
}

func (f *fields) u64(key string) uint64 {
	n, ok := f.require(key)
	if !ok {
		return 0
	}
	v, err := n.uint(64)
	f.setErr(err)
	return v
}

func (f *fields) optU8(key string) *uint8 {
	n, ok := f.lookup(key)
	if !ok {
		return nil
	}
	v, err := n.uint(8)
	f.setErr(err)
	u := uint8(v)
	return &u
}

func (f *fields) optU16(key string) *uint16 {
	n, ok := f.lookup(key)
	if !ok {
		return nil
	}
	v, err := n.uint(16)
	f.setErr(err)
	u := uint16(v)
	return &u
}

func (f *fields) optU32(key string) *uint32 {
	n, ok := f.lookup(key)
	if !ok {
		return nil
	}
	v, err := n.uint(32)
	f.setErr(err)
	u := uint32(v)
	return &u
}

func (f *fields) optU64(key string) *uint64 {
	n, ok := f.lookup(key)
	if !ok {
		return nil
	}
	v, err := n.uint(64)
	f.setErr(err)
	return &v
}

func (f *fields) optI32(key string) *int32 {
	n, ok := f.lookup(key)
	if !ok {
		return nil
	}
	v, err := n.int(32)
	f.setErr(err)
	i := int32(v)
	return &i
}

func (f *fields) expr(key string) Expression {
	n, ok := f.require(key)
	if !ok {
		return nil
	}
	e, err := f.d.expression(n)
	f.setErr(err)
	return e
}

func (f *fields) optExpr(key string) Expression {
	n, ok := f.lookup(key)
	if !ok {
		return nil
	}
	e, err := f.d.expression(n)
	f.setErr(err)
	return e
}

// exprs reads an optional array of expressions. An absent key is nil, an
// empty array is a non-nil empty slice.
func (f *fields) exprs(key string, required bool) []Expression {
	var (
		n  node
		ok bool
	)
	if required {
		n, ok = f.require(key)
	} else {
		n, ok = f.lookup(key)
	}
	if !ok {
		return nil
	}
	items, err := n.array()
	if err != nil {
		f.setErr(err)
		return nil
	}
	out := make([]Expression, 0, len(items))
	for _, item := range items {
		e, err := f.d.expression(item)
		if err != nil {
			f.setErr(err)
			return nil
		}
		out = append(out, e)
	}
	return out
}

func (f *fields) stmt(key string) Statement {
	n, ok := f.require(key)
	if !ok {
		return nil
	}
	s, err := f.d.statement(n)
	f.setErr(err)
	return s
}

func (f *fields) stmts(key string) []Statement {
	n, ok := f.lookup(key)
	if !ok {
		return nil
	}
	items, err := n.array()
	if err != nil {
		f.setErr(err)
		return nil
	}
	out := make([]Statement, 0, len(items))
	for _, item := range items {
		s, err := f.d.statement(item)
		if err != nil {
			f.setErr(err)
			return nil
		}
		out = append(out, s)
	}
	return out
}

func reqEnum[T ~string](f *fields, key string, allowed []T) T {
	n, ok := f.require(key)
	if !ok {
		return ""
	}
	v, err := enumValue(n, allowed)
	f.setErr(err)
	return v
}

func optEnum[T ~string](f *fields, key string, allowed []T) *T {
	n, ok := f.lookup(key)
	if !ok {
		return nil
	}
	v, err := enumValue(n, allowed)
	f.setErr(err)
	return &v
}

func optEnums[T ~string](f *fields, key string, allowed []T) []T {
	n, ok := f.lookup(key)
	if !ok {
		return nil
	}
	items, err := n.array()
	if err != nil {
		f.setErr(err)
		return nil
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		v, err := enumValue(item, allowed)
		if err != nil {
			f.setErr(err)
			return nil
		}
		out = append(out, v)
	}
	return out
}

func optOneOrMany[T ~string](f *fields, key string, allowed []T) OneOrMany[T] {
	n, ok := f.lookup(key)
	if !ok {
		return OneOrMany[T]{}
	}
	v, err := decodeOneOrMany(n, allowed)
	f.setErr(err)
	return v
}

func (d *decoder) document(n node) (Document, error) {
	f := d.fields(n)
	root, ok := f.require("nftables")
	if err := f.done(); err != nil {
		return Document{}, err
	}
	if !ok {
		return Document{}, nil
	}
	items, err := root.array()
	if err != nil {
		return Document{}, err
	}
	var doc Document
	for _, item := range items {
		obj, err := d.object(item)
		if err != nil {
			return Document{}, err
		}
		doc.Objects = append(doc.Objects, obj)
	}
	return doc, nil
}

// object decodes a command or a bare list object.
func (d *decoder) object(n node) (Object, error) {
	key, body, err := n.single()
	if err != nil {
		return nil, err
	}
	if !isVerb(key) {
		return d.listObject(n)
	}
	if body.kind() == kindNull {
		return nil, body.fail("list object")
	}
	obj, err := d.listObject(body)
	if err != nil {
		return nil, err
	}
	return Command{Verb: Verb(key), Object: obj}, nil
}
