// Package item defines the work items that flow through the pipeline.
package item

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Kind is the category of a work item. The set of kinds is fixed.
type Kind uint8

const (
	// Pizza is a pizza order.
	Pizza Kind = iota
	// Soup is a soup order.
	Soup
	// Steak is a steak order.
	Steak
	// Salad is a salad order.
	Salad
	// Sushi is a sushi order.
	Sushi

	numKinds
)

var kindNames = [numKinds]string{
	Pizza: "pizza",
	Soup:  "soup",
	Steak: "steak",
	Salad: "salad",
	Sushi: "sushi",
}

// String returns the lowercase name of the kind, or "unknown" for values
// outside the fixed set.
func (k Kind) String() string {
	if !k.Valid() {
		return "unknown"
	}
	return kindNames[k]
}

// Valid reports whether k is one of the fixed kinds.
func (k Kind) Valid() bool {
	return k < numKinds
}

// Kinds returns every valid kind in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, numKinds)
	for k := Kind(0); k < numKinds; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// ParseKind returns the kind with the given name. Matching is case-insensitive.
func ParseKind(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range kindNames {
		if n == name {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown item kind %q", name)
}

// Item is a single unit of work. Items are values and are never modified
// after they are created.
type Item struct {
	// ID uniquely identifies the item across pipelines.
	ID uuid.UUID

	// Seq is the position of the item in the order it was produced,
	// starting from 1.
	Seq uint64

	// Kind is the item's category.
	Kind Kind

	// CreatedAt is when the item was produced.
	CreatedAt time.Time
}

// String implements fmt.Stringer.
func (i Item) String() string {
	return fmt.Sprintf("#%d %s", i.Seq, i.Kind)
}
