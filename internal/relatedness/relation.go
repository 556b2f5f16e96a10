package relatedness

import (
	"errors"
	"fmt"
	"strings"
)

// RelationType names one kind of relation between two review items.
type RelationType int

const (
	SameMethod RelationType = iota
	CallFlow
	DataFlow
	DeclarationUse
	TextualSimilarity
	SameFile
	LogicalDependency
	Override
	ClassReference
	GlobalOrder
)

var (
	ErrUnknownRelation   = errors.New("unknown relation type")
	ErrDuplicateRelation = errors.New("duplicate relation type")
)

var relationNames = map[RelationType]string{
	SameMethod:        "same-method",
	CallFlow:          "call-flow",
	DataFlow:          "data-flow",
	DeclarationUse:    "declaration-use",
	TextualSimilarity: "textual-similarity",
	SameFile:          "same-file",
	LogicalDependency: "logical-dependency",
	Override:          "override",
	ClassReference:    "class-reference",
	GlobalOrder:       "global-order",
}

func (r RelationType) String() string {
	if name, ok := relationNames[r]; ok {
		return name
	}
	return fmt.Sprintf("relation(%d)", int(r))
}

// ParseRelationType maps a configuration name such as "same-file" to its
// RelationType. Matching ignores case and accepts underscores for dashes.
func ParseRelationType(name string) (RelationType, error) {
	n := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
	for r, rn := range relationNames {
		if rn == n {
			return r, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownRelation, name)
}

// ParseRelationTypes parses a priority-ordered list of relation names.
// Duplicates are rejected because every kind owns exactly one vector slot.
func ParseRelationTypes(names []string) ([]RelationType, error) {
	kinds := make([]RelationType, 0, len(names))
	seen := make(map[RelationType]bool, len(names))
	for _, name := range names {
		r, err := ParseRelationType(name)
		if err != nil {
			return nil, err
		}
		if seen[r] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateRelation, r)
		}
		seen[r] = true
		kinds = append(kinds, r)
	}
	return kinds, nil
}
