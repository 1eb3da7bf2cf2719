package layout

import (
	"strings"

	"github.com/rivo/uniseg"

	"github.com/yaklabco/kbdfmt/pkg/cst"
	"github.com/yaklabco/kbdfmt/pkg/query"
)

// SkippedLayer records a deflayer left untouched because its key count does
// not match the layout.
type SkippedLayer struct {
	Name     string
	Index    int
	Keys     int
	Expected int
}

// Result summarizes an Apply call.
type Result struct {
	// Aligned lists the names of the deflayer blocks that were rewritten.
	Aligned []string

	// Skipped lists the deflayer blocks whose key count did not match.
	Skipped []SkippedLayer
}

// Apply rewrites the trailing trivia of every deflayer key so the block
// follows l. Comments are kept in order; other whitespace is replaced.
// Leading trivia and non-deflayer blocks are never touched.
func Apply(tree *cst.Tree, l Layout, eol LineEnding) Result {
	var res Result

	// A key that continues onto a new line is padded with a single column
	// rather than its template width.
	adjusted := l.Clone()
	for _, entry := range adjusted {
		if len(entry) >= 2 {
			entry[0] = 1
		}
	}

	for _, b := range query.LayerBlocks(tree) {
		const headerLen = 2 // keyword and layer name
		if b.Items.Len() <= headerLen {
			continue
		}

		keys := b.Items.Nodes()[headerLen:]
		if len(keys) != len(adjusted) {
			res.Skipped = append(res.Skipped, SkippedLayer{
				Name:     query.LayerName(b),
				Index:    b.Index,
				Keys:     len(keys),
				Expected: len(adjusted),
			})
			continue
		}

		last := len(keys) - 1
		for i, n := range keys {
			n.Post = trailing(n, adjusted[i], i == last, eol)
		}
		res.Aligned = append(res.Aligned, query.LayerName(b))
	}

	return res
}

func trailing(n *cst.Node, entry []int, isLast bool, eol LineEnding) []cst.Metadata {
	var comments []cst.Metadata
	for _, md := range n.Post {
		if md.IsComment() {
			comments = append(comments, md)
		}
	}

	if len(comments) == 0 {
		return padding(n, entry, isLast, eol)
	}
	return withComments(comments, entry, isLast, eol)
}

func padding(n *cst.Node, entry []int, isLast bool, eol LineEnding) []cst.Metadata {
	var post []cst.Metadata

	width := uniseg.GraphemeClusterCount(n.ExprString())
	switch {
	case len(entry) >= 2 || isLast:
	case width < entry[0]:
		post = append(post, whitespace(strings.Repeat(" ", entry[0]-width)))
	default:
		post = append(post, whitespace(" "))
	}

	for _, indent := range entry[1:] {
		post = append(post, whitespace(string(eol)+strings.Repeat(" ", indent)))
	}
	return post
}

func withComments(comments []cst.Metadata, entry []int, isLast bool, eol LineEnding) []cst.Metadata {
	indent, hasIndent := 0, len(entry) >= 2
	if hasIndent {
		indent = entry[1]
	}

	post := []cst.Metadata{whitespace(" ")}
	for i, c := range comments {
		post = append(post, c)

		switch c.Kind {
		case cst.LineComment:
			if !isLast {
				post = append(post, whitespace(strings.Repeat(" ", indent)))
			}
		case cst.BlockComment:
			lastComment := i == len(comments)-1
			switch {
			case hasIndent && lastComment:
				post = append(post, whitespace(string(eol)))
				if !isLast {
					post = append(post, whitespace(strings.Repeat(" ", indent)))
				}
			case !isLast:
				post = append(post, whitespace(" "))
			}
		}
	}
	return post
}

func whitespace(text string) cst.Metadata {
	return cst.Metadata{Kind: cst.Whitespace, Text: text}
}
