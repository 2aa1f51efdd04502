package objectgraph

import (
	"reflect"
	"sync/atomic"

	"github.com/govalid/objectgraph/pool"
)

// IdentityKey identifies an object by reference, not by value equality.
// Two distinct instances that compare equal under their own equality
// semantics still get distinct keys. The zero key is never produced.
type IdentityKey struct {
	typ  reflect.Type
	addr uintptr
}

// IdentityOf returns the identity key for v, or ok=false when v has no
// stable reference identity (a plain value copy). Pointers, maps, and
// slices are identifiable; value copies cannot alias each other and so
// never need one.
func IdentityOf(v any) (IdentityKey, bool) {
	if v == nil {
		return IdentityKey{}, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		if rv.IsNil() {
			return IdentityKey{}, false
		}
		return IdentityKey{typ: rv.Type(), addr: rv.Pointer()}, true
	default:
		return IdentityKey{}, false
	}
}

// uniqueSerial feeds identity keys for owners without reference identity.
var uniqueSerial atomic.Uintptr

func uniqueIdentity() IdentityKey {
	return IdentityKey{addr: uniqueSerial.Add(1)}
}

// topLevelOwner is the sentinel owner for path roots that are not real
// objects, e.g. a bare parameter validated on its own.
// The padding byte keeps the sentinel from sharing an address with other
// zero-size allocations.
type topLevelOwner struct{ _ byte }

var topOwner = &topLevelOwner{}
var topOwnerKey, _ = IdentityOf(topOwner)

// FieldIdentifier is an immutable reference to a field on an owner object,
// by property name or by element index, chained to its parent identifier.
// Identifiers are created fresh during each walk step and never mutated;
// cycles in the data cannot produce cycles in the identifier chain because
// chains are always built top-down.
type FieldIdentifier struct {
	owner    any
	ownerKey IdentityKey
	field    string
	index    int
	indexed  bool
	parent   *FieldIdentifier
}

// Key is the comparable form of a FieldIdentifier used for map lookups.
// Owner identity is by reference; the parent chain is compared by pointer
// identity, matching how identifiers are constructed within one walk.
type Key struct {
	Owner   IdentityKey
	Field   string
	Index   int
	Indexed bool
	Parent  *FieldIdentifier
}

// NewFieldID creates an identifier for the named field on owner.
func NewFieldID(owner any, field string, parent *FieldIdentifier) *FieldIdentifier {
	return &FieldIdentifier{
		owner:    owner,
		ownerKey: ownerIdentity(owner),
		field:    field,
		parent:   parent,
	}
}

// NewIndexID creates an identifier for the element at index within owner.
func NewIndexID(owner any, index int, parent *FieldIdentifier) *FieldIdentifier {
	return &FieldIdentifier{
		owner:    owner,
		ownerKey: ownerIdentity(owner),
		index:    index,
		indexed:  true,
		parent:   parent,
	}
}

// TopLevelField creates an identifier rooted at the top-level fake owner.
// name is the caller-supplied name for the bare value; an empty name
// renders as "$".
func TopLevelField(name string) *FieldIdentifier {
	return &FieldIdentifier{owner: topOwner, ownerKey: topOwnerKey, field: name}
}

// TopLevelIndex creates an element identifier rooted at the top-level fake
// owner, rendered as "$[index]".
func TopLevelIndex(index int) *FieldIdentifier {
	return &FieldIdentifier{owner: topOwner, ownerKey: topOwnerKey, index: index, indexed: true}
}

func ownerIdentity(owner any) IdentityKey {
	if k, ok := IdentityOf(owner); ok {
		return k
	}
	return uniqueIdentity()
}

// Owner returns the owning object reference.
func (id *FieldIdentifier) Owner() any { return id.owner }

// FieldName returns the field name, or "" for indexed identifiers.
func (id *FieldIdentifier) FieldName() string { return id.field }

// Index returns the element index and whether this identifier is indexed.
func (id *FieldIdentifier) Index() (int, bool) { return id.index, id.indexed }

// Parent returns the owning model's identifier, or nil at the root.
func (id *FieldIdentifier) Parent() *FieldIdentifier { return id.parent }

// IsTopLevel reports whether the owning model is the top-level fake owner,
// meaning there is no real root object, just a bare named value.
func (id *FieldIdentifier) IsTopLevel() bool { return id.owner == topOwner }

// Key returns the comparable lookup key for this identifier.
func (id *FieldIdentifier) Key() Key {
	return Key{
		Owner:   id.ownerKey,
		Field:   id.field,
		Index:   id.index,
		Indexed: id.indexed,
		Parent:  id.parent,
	}
}

// Equal reports whether two identifiers refer to the same field: same
// owner by reference, same name or index, same parent chain by identity.
func (id *FieldIdentifier) Equal(other *FieldIdentifier) bool {
	if id == nil || other == nil {
		return id == other
	}
	return id.Key() == other.Key()
}

// String renders a JSONPath-like path, e.g. "$.Child[3].Name" for an
// unnamed root or "input.Level1.Name" when the top-level value was named.
func (id *FieldIdentifier) String() string {
	// Collect the chain root-first.
	var chain []*FieldIdentifier
	for cur := id; cur != nil; cur = cur.parent {
		chain = append(chain, cur)
	}

	pb := pool.AcquirePathBuilder()
	defer pb.Release()

	for i := len(chain) - 1; i >= 0; i-- {
		seg := chain[i]
		switch {
		case seg.indexed:
			if pb.Len() == 0 {
				pb.WriteString("$")
			}
			pb.AppendIndex(seg.index)
		case seg.field == "":
			if pb.Len() == 0 {
				pb.WriteString("$")
			}
		default:
			pb.AppendWithDot(seg.field)
		}
	}

	if pb.Len() == 0 {
		return "$"
	}
	return pb.String()
}
