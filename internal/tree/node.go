// Package tree converts parent-pointer records into a pre-order flat array
// annotated with subtree ranges, and answers ancestry questions against it.
package tree

// RawNode is one input record. Field names are resolved through a FieldMapper,
// so records may carry any extra fields a source provides.
type RawNode map[string]any

// NewRawNode builds a record using the default field names. An empty parentID
// produces a root record.
func NewRawNode(id, parentID, name string) RawNode {
	raw := RawNode{"id": id, "name": name, "parentId": nil}
	if parentID != "" {
		raw["parentId"] = parentID
	}
	return raw
}

// FieldMapper names the record fields holding each normalized attribute.
type FieldMapper struct {
	ID       string `mapstructure:"id" yaml:"id"`
	ParentID string `mapstructure:"parent-id" yaml:"parent-id"`
	Name     string `mapstructure:"name" yaml:"name"`
	Children string `mapstructure:"children" yaml:"children"`
	Icon     string `mapstructure:"icon" yaml:"icon"`
}

// DefaultFieldMapper returns the id/parentId/name mapping.
func DefaultFieldMapper() FieldMapper {
	return FieldMapper{
		ID:       "id",
		ParentID: "parentId",
		Name:     "name",
		Children: "children",
		Icon:     "icon",
	}
}

// WithDefaults fills blank entries from DefaultFieldMapper.
func (m FieldMapper) WithDefaults() FieldMapper {
	def := DefaultFieldMapper()
	if m.ID == "" {
		m.ID = def.ID
	}
	if m.ParentID == "" {
		m.ParentID = def.ParentID
	}
	if m.Name == "" {
		m.Name = def.Name
	}
	if m.Children == "" {
		m.Children = def.Children
	}
	if m.Icon == "" {
		m.Icon = def.Icon
	}
	return m
}

// FlatNode is a node in pre-order position. [Index, SubtreeEnd] covers the
// node and every descendant.
type FlatNode struct {
	ID          string
	Name        string
	ParentID    string // empty for roots
	Icon        string
	Depth       int
	Index       int
	SubtreeEnd  int
	HasChildren bool
}

// IsRoot reports whether the node has no parent.
func (n *FlatNode) IsRoot() bool {
	return n.ParentID == ""
}

// IsLeaf reports whether the node has no children.
func (n *FlatNode) IsLeaf() bool {
	return !n.HasChildren
}

// Contains reports whether other lies in n's subtree (n contains itself).
func (n *FlatNode) Contains(other *FlatNode) bool {
	if n == nil || other == nil {
		return false
	}
	return other.Index >= n.Index && other.Index <= n.SubtreeEnd
}

// Size returns the number of nodes in the subtree rooted at n.
func (n *FlatNode) Size() int {
	return n.SubtreeEnd - n.Index + 1
}

// Index is the lookup bundle built alongside the flat array.
type Index struct {
	NodeMap  map[string]*FlatNode
	IndexMap map[string]int
	// ChildrenMap is keyed by parent id; the empty key holds the roots.
	ChildrenMap map[string][]string
	RootIDs     []string

	// Orphans lists, in input order, records that cannot be reached from a
	// root because their parent chain never ends at a root.
	Orphans []string
	// Skipped counts records dropped for an empty or duplicate id.
	Skipped int
}

// Tree owns the flat array and its index. NodeMap points into Nodes.
type Tree struct {
	Nodes []FlatNode
	Index Index
}

// Len returns the number of reachable nodes.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Nodes)
}

// Node looks up a node by id.
func (t *Tree) Node(id string) (*FlatNode, bool) {
	if t == nil {
		return nil, false
	}
	n, ok := t.Index.NodeMap[id]
	return n, ok
}

// At returns the node at flat position i.
func (t *Tree) At(i int) (*FlatNode, bool) {
	if t == nil || i < 0 || i >= len(t.Nodes) {
		return nil, false
	}
	return &t.Nodes[i], true
}

// IndexOf returns the flat position of id, or -1.
func (t *Tree) IndexOf(id string) int {
	if t == nil {
		return -1
	}
	if i, ok := t.Index.IndexMap[id]; ok {
		return i
	}
	return -1
}

// Children returns the ordered child ids of id. Use "" for the roots.
func (t *Tree) Children(id string) []string {
	if t == nil {
		return nil
	}
	return t.Index.ChildrenMap[id]
}

// Parent returns the parent node of id.
func (t *Tree) Parent(id string) (*FlatNode, bool) {
	n, ok := t.Node(id)
	if !ok || n.IsRoot() {
		return nil, false
	}
	return t.Node(n.ParentID)
}
