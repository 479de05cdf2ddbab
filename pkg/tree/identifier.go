// Package tree holds the navigable state of a collapsible list: path-based
// addressing into an owned tree, flattening of the visible nodes, the
// navigation state machine, and variable-height viewport windowing.
//
// Nothing in this package draws. Rendering lives in pkg/ui and only consumes
// the Frame produced by Layout.
package tree

import (
	"slices"
	"strconv"
	"strings"
)

// Identifier addresses a node by the child index at each depth, root index
// first. The empty Identifier means "no node".
type Identifier []int

// Equal reports whether both identifiers address the same path.
func (id Identifier) Equal(other Identifier) bool {
	return slices.Equal(id, other)
}

// IsEmpty reports whether id is the "no node" sentinel.
func (id Identifier) IsEmpty() bool {
	return len(id) == 0
}

// Depth returns the nesting level of the addressed node (0 for roots).
// The empty identifier has depth -1.
func (id Identifier) Depth() int {
	return len(id) - 1
}

// Clone returns a copy that does not share backing storage with id.
func (id Identifier) Clone() Identifier {
	if id == nil {
		return nil
	}
	return slices.Clone(id)
}

// Child returns the identifier of the i-th child of id.
// Always allocates so sibling identifiers never alias.
func (id Identifier) Child(i int) Identifier {
	out := make(Identifier, len(id)+1)
	copy(out, id)
	out[len(id)] = i
	return out
}

// Parent drops the last path segment. On the empty identifier it returns the
// empty identifier again with ok=false.
func (id Identifier) Parent() (parent Identifier, leaf int, ok bool) {
	if len(id) == 0 {
		return Identifier{}, 0, false
	}
	return id[:len(id)-1].Clone(), id[len(id)-1], true
}

// Key returns the canonical string form used for set membership.
func (id Identifier) Key() string {
	if len(id) == 0 {
		return ""
	}
	buf := make([]byte, 0, len(id)*3)
	for i, n := range id {
		if i > 0 {
			buf = append(buf, '.')
		}
		buf = strconv.AppendInt(buf, int64(n), 10)
	}
	return string(buf)
}

func (id Identifier) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, n := range id {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(strconv.Itoa(n))
	}
	sb.WriteByte(']')
	return sb.String()
}

// ParseKey is the inverse of Key. Malformed input yields the empty identifier.
func ParseKey(key string) Identifier {
	if key == "" {
		return Identifier{}
	}
	parts := strings.Split(key, ".")
	id := make(Identifier, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return Identifier{}
		}
		id = append(id, n)
	}
	return id
}
