// Package query implements the structural scans over a kbd tree: include
// references, the defsrc template block and the deflayer blocks aligned to
// it. It is the only place that knows the block keywords.
package query

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yaklabco/kbdfmt/pkg/cst"
)

// Block keywords.
const (
	KeywordInclude  = "include"
	KeywordTemplate = "defsrc"
	KeywordLayer    = "deflayer"
)

// Structural validation errors.
var (
	// ErrMalformedInclude indicates an include block without exactly one path.
	ErrMalformedInclude = errors.New("malformed include block")

	// ErrMultipleTemplates indicates more than one defsrc block in a file.
	ErrMultipleTemplates = errors.New("multiple `defsrc` definitions in a single file")

	// ErrNestedList indicates a list among the defsrc keys.
	ErrNestedList = errors.New("found a list in `defsrc`")
)

// Block is a top-level list whose first item is an atom.
type Block struct {
	// Index is the block's position among the top-level nodes.
	Index int

	// Node is the top-level node holding the list.
	Node *cst.Node

	// Items is the list body, keyword included.
	Items *cst.NodeList
}

// Keyword returns the block's first atom.
func (b Block) Keyword() string {
	a, _ := b.Items.At(0).Atom()
	return a.Text
}

// Blocks returns the top-level lists whose first item is the atom keyword,
// in source order.
func Blocks(tree *cst.Tree, keyword string) []Block {
	var blocks []Block
	for i, n := range tree.Root.Nodes() {
		list, ok := n.List()
		if !ok || list.Items.IsEmpty() {
			continue
		}
		head, ok := list.Items.At(0).Atom()
		if !ok || head.Text != keyword {
			continue
		}
		blocks = append(blocks, Block{Index: i, Node: n, Items: &list.Items})
	}
	return blocks
}

// Includes returns the paths of every include block in source order.
// One layer of surrounding double quotes is removed; escapes are not
// interpreted.
func Includes(tree *cst.Tree) ([]string, error) {
	var paths []string
	for _, b := range Blocks(tree, KeywordInclude) {
		const includeArity = 2
		if b.Items.Len() != includeArity {
			return nil, fmt.Errorf("%w: expected exactly one path, found %q",
				ErrMalformedInclude, strings.TrimSpace(b.Node.ExprString()))
		}
		path, ok := b.Items.At(1).Atom()
		if !ok {
			return nil, fmt.Errorf("%w: path must be an atom, found %q",
				ErrMalformedInclude, strings.TrimSpace(b.Node.ExprString()))
		}
		paths = append(paths, strings.Trim(path.Text, `"`))
	}
	return paths, nil
}

// TemplateBlock returns the single defsrc block of tree. found is false when
// the file has none. More than one block, or a list among its keys, is an
// error.
func TemplateBlock(tree *cst.Tree) (block Block, found bool, err error) {
	blocks := Blocks(tree, KeywordTemplate)
	switch len(blocks) {
	case 0:
		return Block{}, false, nil
	case 1:
	default:
		return Block{}, false, ErrMultipleTemplates
	}

	block = blocks[0]
	for i, n := range block.Items.Nodes()[1:] {
		if _, ok := n.List(); ok {
			return Block{}, false, fmt.Errorf("%w: key %d", ErrNestedList, i)
		}
	}
	return block, true, nil
}

// TemplateKeys returns the ordered key names of the defsrc block.
func TemplateKeys(tree *cst.Tree) (keys []string, found bool, err error) {
	block, found, err := TemplateBlock(tree)
	if err != nil || !found {
		return nil, found, err
	}

	slots := block.Items.Nodes()[1:]
	keys = make([]string, 0, len(slots))
	for _, n := range slots {
		a, _ := n.Atom()
		keys = append(keys, a.Text)
	}
	return keys, true, nil
}

// LayerBlocks returns every deflayer block in source order.
func LayerBlocks(tree *cst.Tree) []Block {
	return Blocks(tree, KeywordLayer)
}

// LayerName returns the name atom of a deflayer block, or "" when missing.
func LayerName(b Block) string {
	n := b.Items.At(1)
	if n == nil {
		return ""
	}
	return strings.TrimSpace(n.ExprString())
}
