// Package trie stores paths split into segments and answers whether a path
// lies under one of them.
//
// Nodes live in a single slice and refer to their children by index.
package trie

import (
	"path/filepath"
	"sort"
	"strings"
)

// NodeIndex is the position of a node in its arena.
type NodeIndex int

// Arena holds every node of one trie. Index 0 is the root.
type Arena struct {
	nodes []arenaNode
}

type arenaNode struct {
	// children maps a path segment to the index of its node.
	children map[string]NodeIndex
	// isEnd marks the last segment of an inserted sequence.
	isEnd bool
}

func NewArena() *Arena {
	arena := &Arena{nodes: make([]arenaNode, 0, 64)}
	arena.newNode()
	return arena
}

func (a *Arena) newNode() NodeIndex {
	idx := NodeIndex(len(a.nodes))
	a.nodes = append(a.nodes, arenaNode{children: make(map[string]NodeIndex)})
	return idx
}

// Insert adds a sequence of segments.
func (a *Arena) Insert(sequence []string) {
	current := NodeIndex(0)
	for _, part := range sequence {
		childIdx, exists := a.nodes[current].children[part]
		if !exists {
			childIdx = a.newNode()
			a.nodes[current].children[part] = childIdx
		}
		current = childIdx
	}
	a.nodes[current].isEnd = true
}

// HasPrefix reports whether an inserted sequence equals sequence or is a
// prefix of it.
func (a *Arena) HasPrefix(sequence []string) bool {
	current := NodeIndex(0)
	if a.nodes[current].isEnd {
		return true
	}
	for _, part := range sequence {
		child, ok := a.nodes[current].children[part]
		if !ok {
			return false
		}
		if a.nodes[child].isEnd {
			return true
		}
		current = child
	}
	return false
}

// DebugString renders the trie with sorted children, "*" marking the end
// of a sequence.
func (a *Arena) DebugString() string {
	return a.debugStringNode(NodeIndex(0))
}

func (a *Arena) debugStringNode(idx NodeIndex) string {
	node := a.nodes[idx]
	var sb strings.Builder
	if node.isEnd {
		sb.WriteString("*")
	}

	keys := make([]string, 0, len(node.children))
	for key := range node.children {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		sb.WriteString(key)
		sb.WriteString("(")
		sb.WriteString(a.debugStringNode(node.children[key]))
		sb.WriteString(")")
	}
	return sb.String()
}

// PathSet is a set of file system paths. A path is contained when it is
// one of the paths or lies below one of them. The zero value is empty and
// ready to use. Add must not run concurrently with Contains.
type PathSet struct {
	arena *Arena
}

func (s *PathSet) Add(path string) {
	if s.arena == nil {
		s.arena = NewArena()
	}
	s.arena.Insert(segments(path))
}

func (s *PathSet) Contains(path string) bool {
	if s == nil || s.arena == nil {
		return false
	}
	return s.arena.HasPrefix(segments(path))
}

func segments(path string) []string {
	return strings.Split(filepath.ToSlash(filepath.Clean(path)), "/")
}
