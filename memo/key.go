package memo

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Args is the argument list of a single call: ordered positional values
// plus a set of named values.
type Args struct {
	Positional []any
	Named      map[string]any
}

// NewArgs returns Args holding only positional values.
func NewArgs(positional ...any) Args {
	return Args{Positional: positional}
}

// With returns a copy of a with the named value set. The receiver is not
// modified.
func (a Args) With(name string, value any) Args {
	named := make(map[string]any, len(a.Named)+1)
	for k, v := range a.Named {
		named[k] = v
	}
	named[name] = value
	return Args{Positional: a.Positional, Named: named}
}

// Key is the canonical encoding of an Args value. Two Args produce the same
// Key iff their positional values are pairwise equal in order and their named
// values are equal as a set of name/value pairs.
//
// Values are compared the way reflect.DeepEqual compares them: same dynamic
// type, then element-wise for arrays, slices, structs (unexported fields
// included) and maps, and by pointee for pointers. Distinct types never share
// a key, even same-named types declared in different functions. Non-nil
// funcs, channels, unsafe pointers, NaN floats and cyclic values cannot be
// encoded.
//
// Keys are only meaningful inside the process that built them.
type Key string

// String returns the encoded key.
func (k Key) String() string {
	return string(k)
}

// BuildKey encodes args into a Key.
//
// A call with exactly one positional value and no named values is keyed by
// the bare value. Every other call is keyed by a tuple whose encoding starts
// with '(' so it never coincides with a bare value: f(x, y) and f([x, y])
// stay distinct.
func BuildKey(args Args) (Key, error) {
	e := newKeyEncoder()

	if len(args.Positional) == 1 && len(args.Named) == 0 {
		if err := e.encodeAny(reflect.ValueOf(args.Positional[0])); err != nil {
			return "", err
		}
		return Key(e.String()), nil
	}

	e.WriteByte('(')
	for i, v := range args.Positional {
		if i > 0 {
			e.WriteByte(',')
		}
		if err := e.encodeAny(reflect.ValueOf(v)); err != nil {
			return "", fmt.Errorf("positional argument %d: %w", i, err)
		}
	}
	e.WriteByte(';')

	names := make([]string, 0, len(args.Named))
	for name := range args.Named {
		if name == "" {
			return "", fmt.Errorf("%w: empty argument name", ErrUnhashableArguments)
		}
		names = append(names, name)
	}
	sort.Strings(names)

	for i, name := range names {
		if i > 0 {
			e.WriteByte(',')
		}
		e.WriteString(strconv.Quote(name))
		e.WriteByte('=')
		if err := e.encodeAny(reflect.ValueOf(args.Named[name])); err != nil {
			return "", fmt.Errorf("argument %q: %w", name, err)
		}
	}
	e.WriteByte(')')

	return Key(e.String()), nil
}

// visit identifies a reference value currently being encoded.
type visit struct {
	ptr uintptr
	typ reflect.Type
	len int
}

// keyEncoder writes a type-tagged canonical form of a value. Type tags are
// written at the top level and wherever a static type is an interface; below
// that the static type already determines the layout.
type keyEncoder struct {
	strings.Builder
	active map[visit]struct{}
}

func newKeyEncoder() *keyEncoder {
	return &keyEncoder{active: make(map[visit]struct{})}
}

func (e *keyEncoder) sub() *keyEncoder {
	return &keyEncoder{active: e.active}
}

func (e *keyEncoder) encodeAny(v reflect.Value) error {
	if !v.IsValid() {
		e.WriteString("nil")
		return nil
	}
	e.WriteString(typeName(v.Type()))
	e.WriteByte('(')
	if err := e.encodeValue(v); err != nil {
		return err
	}
	e.WriteByte(')')
	return nil
}

func (e *keyEncoder) encodeValue(v reflect.Value) error {
	switch v.Kind() {
	case reflect.Bool:
		e.WriteString(strconv.FormatBool(v.Bool()))

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		e.WriteString(strconv.FormatInt(v.Int(), 10))

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		e.WriteString(strconv.FormatUint(v.Uint(), 10))

	case reflect.Float32, reflect.Float64:
		f := v.Float()
		if math.IsNaN(f) {
			return unhashable(v, "NaN is not equal to itself")
		}
		e.WriteString(strconv.FormatFloat(normalizeZero(f), 'g', -1, 64))

	case reflect.Complex64, reflect.Complex128:
		c := v.Complex()
		if math.IsNaN(real(c)) || math.IsNaN(imag(c)) {
			return unhashable(v, "NaN is not equal to itself")
		}
		c = complex(normalizeZero(real(c)), normalizeZero(imag(c)))
		e.WriteString(strconv.FormatComplex(c, 'g', -1, 128))

	case reflect.String:
		e.WriteString(strconv.Quote(v.String()))

	case reflect.Array:
		return e.encodeList(v)

	case reflect.Slice:
		if v.IsNil() {
			e.WriteString("nil")
			return nil
		}
		leave, err := e.enter(v, v.Len())
		if err != nil {
			return err
		}
		defer leave()
		return e.encodeList(v)

	case reflect.Map:
		if v.IsNil() {
			e.WriteString("nil")
			return nil
		}
		leave, err := e.enter(v, 0)
		if err != nil {
			return err
		}
		defer leave()
		return e.encodeMap(v)

	case reflect.Struct:
		e.WriteByte('{')
		for i := 0; i < v.NumField(); i++ {
			if i > 0 {
				e.WriteByte(',')
			}
			if err := e.encodeValue(v.Field(i)); err != nil {
				return err
			}
		}
		e.WriteByte('}')

	case reflect.Pointer:
		if v.IsNil() {
			e.WriteString("nil")
			return nil
		}
		leave, err := e.enter(v, 0)
		if err != nil {
			return err
		}
		defer leave()
		e.WriteByte('&')
		return e.encodeValue(v.Elem())

	case reflect.Interface:
		if v.IsNil() {
			e.WriteString("nil")
			return nil
		}
		return e.encodeAny(v.Elem())

	case reflect.Func:
		if v.IsNil() {
			e.WriteString("nil")
			return nil
		}
		return unhashable(v, "functions have no structural equality")

	case reflect.Chan, reflect.UnsafePointer:
		if v.IsNil() {
			e.WriteString("nil")
			return nil
		}
		return unhashable(v, "only identity equality")

	default:
		return unhashable(v, "unsupported kind")
	}
	return nil
}

func (e *keyEncoder) encodeList(v reflect.Value) error {
	e.WriteByte('[')
	for i := 0; i < v.Len(); i++ {
		if i > 0 {
			e.WriteByte(',')
		}
		if err := e.encodeValue(v.Index(i)); err != nil {
			return err
		}
	}
	e.WriteByte(']')
	return nil
}

// encodeMap writes entries sorted by their encoded form.
func (e *keyEncoder) encodeMap(v reflect.Value) error {
	type pair struct{ k, v string }
	pairs := make([]pair, 0, v.Len())

	iter := v.MapRange()
	for iter.Next() {
		ke := e.sub()
		if err := ke.encodeValue(iter.Key()); err != nil {
			return err
		}
		ve := e.sub()
		if err := ve.encodeValue(iter.Value()); err != nil {
			return err
		}
		pairs = append(pairs, pair{k: ke.String(), v: ve.String()})
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].k != pairs[j].k {
			return pairs[i].k < pairs[j].k
		}
		return pairs[i].v < pairs[j].v
	})

	e.WriteByte('{')
	for i, p := range pairs {
		if i > 0 {
			e.WriteByte(',')
		}
		e.WriteString(p.k)
		e.WriteByte(':')
		e.WriteString(p.v)
	}
	e.WriteByte('}')
	return nil
}

// enter marks a reference value as being encoded and fails if it already is.
func (e *keyEncoder) enter(v reflect.Value, n int) (func(), error) {
	ptr := v.Pointer()
	if ptr == 0 {
		return func() {}, nil
	}
	vis := visit{ptr: ptr, typ: v.Type(), len: n}
	if _, ok := e.active[vis]; ok {
		return nil, unhashable(v, "cyclic value")
	}
	e.active[vis] = struct{}{}
	return func() { delete(e.active, vis) }, nil
}

// typeNames gives every distinct type a distinct tag. Types declared inside
// functions share their package-qualified name with any other local type of
// the same name, so later ones get a "#n" suffix in order of first use.
var typeNames struct {
	tags  sync.Map // reflect.Type -> string
	mu    sync.Mutex
	byTag map[string]int
}

func typeName(t reflect.Type) string {
	if tag, ok := typeNames.tags.Load(t); ok {
		return tag.(string)
	}

	name := t.String()
	if t.Name() != "" && t.PkgPath() != "" {
		name = t.PkgPath() + "." + t.Name()
	}

	typeNames.mu.Lock()
	defer typeNames.mu.Unlock()
	if tag, ok := typeNames.tags.Load(t); ok {
		return tag.(string)
	}
	if typeNames.byTag == nil {
		typeNames.byTag = make(map[string]int)
	}
	n := typeNames.byTag[name]
	typeNames.byTag[name] = n + 1

	tag := name
	if n > 0 {
		tag = name + "#" + strconv.Itoa(n+1)
	}
	typeNames.tags.Store(t, tag)
	return tag
}

func normalizeZero(f float64) float64 {
	if f == 0 {
		return 0
	}
	return f
}

func unhashable(v reflect.Value, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrUnhashableArguments, v.Type(), reason)
}
