package scheduler

import (
	"k8s.io/apimachinery/pkg/api/resource"
)

// Quantity is a fixed-point scalar with exact decimal arithmetic, never
// binary floating point. "0.1 CPU" must sum exactly, which is exactly what
// resource.Quantity already guarantees. Quantity itself can hold negative
// values; non-negativity is enforced by ResourceSet.Subtract, which refuses
// any result that would go negative.
type Quantity = resource.Quantity

// ZeroQuantity returns the additive identity.
func ZeroQuantity() Quantity {
	return *resource.NewQuantity(0, resource.DecimalSI)
}

// QuantityFromMilli builds a Quantity from a milli-unit integer, e.g.
// QuantityFromMilli(100) == 0.1.
func QuantityFromMilli(milli int64) Quantity {
	return *resource.NewMilliQuantity(milli, resource.DecimalSI)
}

// QuantityFromInt64 builds a Quantity from a whole-unit integer, e.g. a byte
// count reported by an object-store usage callback.
func QuantityFromInt64(v int64) Quantity {
	return *resource.NewQuantity(v, resource.DecimalSI)
}

// ParseQuantity parses a string like "0.5", "4", "512Mi" into a Quantity.
func ParseQuantity(s string) (Quantity, error) {
	q, err := resource.ParseQuantity(s)
	if err != nil {
		return Quantity{}, err
	}
	return q, nil
}

// ResourceSet is a sparse mapping from resource name to quantity. Zero-valued
// entries are normalized away: a missing key and a present-but-zero key are
// the same thing everywhere in this package.
type ResourceSet map[string]Quantity

// NewResourceSet builds a normalized ResourceSet from a plain map, dropping
// zero-valued entries.
func NewResourceSet(values map[string]Quantity) ResourceSet {
	rs := make(ResourceSet, len(values))
	for name, q := range values {
		if q.IsZero() {
			continue
		}
		rs[name] = q
	}
	return rs
}

// Get returns the quantity for a resource name, or zero if absent.
func (rs ResourceSet) Get(name string) Quantity {
	if q, ok := rs[name]; ok {
		return q
	}
	return ZeroQuantity()
}

// Clone returns a deep, independent copy.
func (rs ResourceSet) Clone() ResourceSet {
	out := make(ResourceSet, len(rs))
	for name, q := range rs {
		out[name] = q.DeepCopy()
	}
	return out
}

// Add returns a new ResourceSet that is the componentwise sum of rs and
// other. rs and other are left unchanged.
func (rs ResourceSet) Add(other ResourceSet) ResourceSet {
	out := rs.Clone()
	for name, q := range other {
		cur := out.Get(name)
		cur.Add(q)
		if cur.IsZero() {
			delete(out, name)
			continue
		}
		out[name] = cur
	}
	return out
}

// Subtract returns the componentwise difference rs - other. If any resulting
// quantity would go negative, ok is false and rs is returned completely
// unchanged: the operand is never partially mutated on failure.
func (rs ResourceSet) Subtract(other ResourceSet) (result ResourceSet, ok bool) {
	out := rs.Clone()
	for name, q := range other {
		cur := out.Get(name)
		cur.Sub(q)
		if cur.Sign() < 0 {
			return rs, false
		}
		if cur.IsZero() {
			delete(out, name)
			continue
		}
		out[name] = cur
	}
	return out, true
}

// GreaterOrEqual reports whether rs >= other componentwise, treating any key
// missing from rs as zero. Keys present only in rs are ignored.
func (rs ResourceSet) GreaterOrEqual(other ResourceSet) bool {
	for name, want := range other {
		have := rs.Get(name)
		if have.Cmp(want) < 0 {
			return false
		}
	}
	return true
}

// GreaterOrEqualIgnoring is GreaterOrEqual but skips the named resource
// entirely — used for the object-store-memory carve-out on the local node.
func (rs ResourceSet) GreaterOrEqualIgnoring(other ResourceSet, ignore string) bool {
	for name, want := range other {
		if name == ignore {
			continue
		}
		have := rs.Get(name)
		if have.Cmp(want) < 0 {
			return false
		}
	}
	return true
}

// IsSubsetOf reports whether every resource in rs is present in other at a
// quantity no greater than other's.
func (rs ResourceSet) IsSubsetOf(other ResourceSet) bool {
	return other.GreaterOrEqual(rs)
}

// IsEmpty reports whether every quantity in rs is zero.
func (rs ResourceSet) IsEmpty() bool {
	for _, q := range rs {
		if !q.IsZero() {
			return false
		}
	}
	return true
}

// Equal reports exact equality (after normalization, a missing key and a
// zero-valued key compare equal).
func (rs ResourceSet) Equal(other ResourceSet) bool {
	for name, q := range rs {
		if !q.IsZero() && q.Cmp(other.Get(name)) != 0 {
			return false
		}
	}
	for name, q := range other {
		if !q.IsZero() && q.Cmp(rs.Get(name)) != 0 {
			return false
		}
	}
	return true
}
