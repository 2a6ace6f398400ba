package plan

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/cybernetics/specnaz/internal/spec"
	"github.com/cybernetics/specnaz/internal/tree"
)

// PathSeparator joins group and test descriptions into test IDs.
const PathSeparator = " / "

// fingerprintDomain prefixes fingerprint input so a plan fingerprint can
// never collide with another hash computed over the same bytes.
const fingerprintDomain = "specnaz/plan/v1"

// Plan is the structural description of what a spec would run.
type Plan struct {
	Root *tree.Node[PlannedGroup]
}

// Entry is one planned test together with its position in the tree.
type Entry struct {
	// ID is the NFC-normalized path of group descriptions and the test
	// description joined by PathSeparator. Unique as long as siblings are.
	ID string `json:"id"`

	// Path holds the enclosing group descriptions, root first.
	Path []string `json:"path"`

	Description string `json:"description"`
	Mode        string `json:"mode"`
}

// Build replays trace against a fresh Builder and returns the plan.
// Building never invokes a hook action or a test body.
func Build(trace spec.Trace) (*Plan, error) {
	b := NewBuilder()
	if err := spec.Replay(trace, b); err != nil {
		return nil, err
	}
	root, err := b.Tree()
	if err != nil {
		return nil, err
	}
	return &Plan{Root: root}, nil
}

// Count returns the number of tests in the plan.
func (p *Plan) Count() int {
	return p.Root.Value.TestsInSubtree
}

// Description returns the top-level group description.
func (p *Plan) Description() string {
	return p.Root.Value.Description
}

// Entries lists every planned test depth-first: a group's own tests first,
// then its child groups, in declaration order.
func (p *Plan) Entries() []Entry {
	entries := make([]Entry, 0, p.Count())
	var visit func(node *tree.Node[PlannedGroup], path []string)
	visit = func(node *tree.Node[PlannedGroup], path []string) {
		path = append(path[:len(path):len(path)], node.Value.Description)
		for _, test := range node.Value.Tests {
			entries = append(entries, Entry{
				ID:          TestID(path, test.Description),
				Path:        path,
				Description: test.Description,
				Mode:        test.Mode.String(),
			})
		}
		for _, child := range node.Children() {
			visit(child, path)
		}
	}
	visit(p.Root, nil)
	return entries
}

// HasFocused reports whether any planned test is focused. When it is,
// execution skips every unfocused test.
func (p *Plan) HasFocused() bool {
	focused := false
	p.Root.Walk(func(node *tree.Node[PlannedGroup], _ int) bool {
		for _, test := range node.Value.Tests {
			if test.Mode == spec.ModeFocused {
				focused = true
			}
		}
		return !focused
	})
	return focused
}

// Fingerprint returns a stable hex digest of the plan's structure: every
// group with its subtree count and every test with its mode. Replaying the
// same trace always yields the same fingerprint. Descriptions are quoted,
// so no description can forge the line structure.
func (p *Plan) Fingerprint() string {
	var sb strings.Builder
	p.Root.Walk(func(node *tree.Node[PlannedGroup], depth int) bool {
		fmt.Fprintf(&sb, "G%d %q %d %s\n", depth, norm.NFC.String(node.Value.Description),
			node.Value.TestsInSubtree, node.Value.Mode)
		for _, test := range node.Value.Tests {
			fmt.Fprintf(&sb, "T%d %q %s\n", depth, norm.NFC.String(test.Description), test.Mode)
		}
		return true
	})

	h := sha256.New()
	h.Write([]byte(fingerprintDomain))
	h.Write([]byte{0x00})
	h.Write([]byte(sb.String()))
	return hex.EncodeToString(h.Sum(nil))
}

// TestID builds the ID of a test from its enclosing group path.
// Descriptions are NFC-normalized so visually identical names compare equal.
func TestID(path []string, description string) string {
	parts := make([]string, 0, len(path)+1)
	for _, p := range path {
		parts = append(parts, norm.NFC.String(p))
	}
	parts = append(parts, norm.NFC.String(description))
	return strings.Join(parts, PathSeparator)
}
