package glblocks

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Catalog resolves block kinds by id. A missing kind is reported with ok=false,
// callers routinely look up missing kinds so it is not an error.
type Catalog interface {
	Kind(id string) (kind BlockKind, ok bool)
}

var _ Catalog = (*Library)(nil) // Interface implementation compile-time check.

// Library is an immutable catalog of block kinds. It is safe for concurrent use.
type Library struct {
	kinds []BlockKind
	index map[string]int
}

// NewLibrary validates kinds and returns a library holding them in the given order.
// All problems found are returned joined, not only the first.
func NewLibrary(kinds ...BlockKind) (*Library, error) {
	lib := &Library{
		kinds: make([]BlockKind, 0, len(kinds)),
		index: make(map[string]int, len(kinds)),
	}
	var errs []error
	for i := range kinds {
		k := kinds[i]
		if err := checkKind(&k); err != nil {
			errs = append(errs, err)
			continue
		}
		if _, dup := lib.index[k.ID]; dup {
			errs = append(errs, fmt.Errorf("duplicate block kind id %q", k.ID))
			continue
		}
		lib.index[k.ID] = len(lib.kinds)
		lib.kinds = append(lib.kinds, k)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return lib, nil
}

// MustLibrary is like [NewLibrary] but panics on error. Meant for package level catalogs.
func MustLibrary(kinds ...BlockKind) *Library {
	lib, err := NewLibrary(kinds...)
	if err != nil {
		panic(err)
	}
	return lib
}

func checkKind(k *BlockKind) error {
	var errs []error
	kindErrorf := func(msg string, args ...any) {
		errs = append(errs, fmt.Errorf("block kind %q: "+msg, append([]any{k.ID}, args...)...))
	}
	if k.ID == "" {
		kindErrorf("empty id")
	}
	if strings.TrimSpace(k.Name) == "" {
		kindErrorf("empty name")
	}
	if !k.Category.valid() {
		kindErrorf("invalid category %s", k.Category)
	}
	if len(k.Outputs) == 0 {
		kindErrorf("no output ports")
	}
	// Definitions and call sites share one naming rule, the template must agree with it.
	fnDecl := functionPrefix(k.Name) + "_" + PlaceholderID + "("
	if !strings.Contains(k.Template, fnDecl) {
		kindErrorf("template does not declare function %s", fnDecl)
	}
	seen := make(map[string]bool)
	for _, p := range k.Inputs {
		if p.ID == "" {
			kindErrorf("input with empty id")
		} else if seen[p.ID] {
			kindErrorf("duplicate input %q", p.ID)
		}
		seen[p.ID] = true
		if p.Type.Width() == 0 {
			kindErrorf("input %q has invalid type %s", p.ID, p.Type)
		}
		switch p.Default.Kind() {
		case ValueScalar, ValueVector:
			if p.Default.Len() != p.Type.Width() {
				kindErrorf("input %q default has %d components, want %d", p.ID, p.Default.Len(), p.Type.Width())
			}
		case ValueFreeVar:
			if p.Default.Name() != FreeVarUV {
				kindErrorf("input %q default free variable %q is not %q", p.ID, p.Default.Name(), FreeVarUV)
			} else if p.Type != TypeVec2 {
				kindErrorf("input %q default %q requires vec2 port", p.ID, FreeVarUV)
			}
		case ValueConnection:
			kindErrorf("input %q default cannot be a connection", p.ID)
		}
	}
	for _, p := range k.Outputs {
		if p.ID == "" {
			kindErrorf("output with empty id")
		}
		if p.Type.Width() == 0 {
			kindErrorf("output %q has invalid type %s", p.ID, p.Type)
		}
	}
	return errors.Join(errs...)
}

// Kind returns the block kind with the given id.
func (lib *Library) Kind(id string) (BlockKind, bool) {
	i, ok := lib.index[id]
	if !ok {
		return BlockKind{}, false
	}
	return lib.kinds[i], true
}

// Kinds returns all kinds in registration order.
func (lib *Library) Kinds() []BlockKind {
	return append([]BlockKind(nil), lib.kinds...)
}

// ListByCategory returns the kinds of category c in registration order.
func (lib *Library) ListByCategory(c Category) []BlockKind {
	var kinds []BlockKind
	for _, k := range lib.kinds {
		if k.Category == c {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// ListCategories returns the categories with at least one kind, in canonical order.
func (lib *Library) ListCategories() []Category {
	var present [categoryEnd]bool
	for _, k := range lib.kinds {
		present[k.Category] = true
	}
	var cats []Category
	for c := CategoryShape; c < categoryEnd; c++ {
		if present[c] {
			cats = append(cats, c)
		}
	}
	return cats
}

// Suggest returns up to n kind ids that approximately match id, best match first.
func (lib *Library) Suggest(id string, n int) []string {
	ids := make([]string, len(lib.kinds))
	for i := range lib.kinds {
		ids[i] = lib.kinds[i].ID
	}
	ranks := fuzzy.RankFindNormalizedFold(id, ids)
	if len(ranks) == 0 {
		// Typos rarely survive subsequence matching, try the other direction.
		for i, target := range ids {
			if fuzzy.MatchNormalizedFold(target, id) {
				ranks = append(ranks, fuzzy.Rank{Source: id, Target: target, OriginalIndex: i})
			}
		}
	}
	sort.Stable(ranks)
	var out []string
	for i := 0; i < len(ranks) && len(out) < n; i++ {
		out = append(out, ranks[i].Target)
	}
	return out
}
