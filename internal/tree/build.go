package tree

import (
	"fmt"
	"io"
	"log"
	"strconv"
)

type buildConfig struct {
	fields FieldMapper
	logger *log.Logger
}

// BuildOption configures Build.
type BuildOption func(*buildConfig)

// WithFieldMapper resolves record fields through m. Blank entries keep their
// defaults.
func WithFieldMapper(m FieldMapper) BuildOption {
	return func(cfg *buildConfig) {
		cfg.fields = m.WithDefaults()
	}
}

// WithLogger reports skipped and orphaned records to l.
func WithLogger(l *log.Logger) BuildOption {
	return func(cfg *buildConfig) {
		if l != nil {
			cfg.logger = l
		}
	}
}

type record struct {
	id       string
	parentID string
	name     string
	icon     string
}

type phase uint8

const (
	phaseEnter phase = iota
	phaseExit
)

// frame is one DFS stack entry: enter a node at depth, or close its range.
type frame struct {
	id    string
	depth int
	phase phase
}

// Build flattens raw records into pre-order. Children keep the order in which
// they first appear in raw. Records whose parent chain does not end at a root
// are left out and listed in Index.Orphans. Build never fails.
func Build(raw []RawNode, opts ...BuildOption) *Tree {
	cfg := buildConfig{
		fields: DefaultFieldMapper(),
		logger: log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	f := cfg.fields

	records := make(map[string]record, len(raw))
	order := make([]string, 0, len(raw))
	childrenMap := make(map[string][]string)
	skipped := 0

	for pos, r := range raw {
		id, ok := stringValue(r[f.ID])
		if !ok || id == "" {
			skipped++
			cfg.logger.Printf("skip record %d: empty %q field", pos, f.ID)
			continue
		}
		if _, dup := records[id]; dup {
			skipped++
			cfg.logger.Printf("skip record %d: duplicate id %q", pos, id)
			continue
		}
		parentID, _ := stringValue(r[f.ParentID])
		name, _ := stringValue(r[f.Name])
		icon, _ := stringValue(r[f.Icon])

		records[id] = record{id: id, parentID: parentID, name: name, icon: icon}
		order = append(order, id)
		childrenMap[parentID] = append(childrenMap[parentID], id)
	}

	rootIDs := childrenMap[""]
	nodes := make([]FlatNode, 0, len(order))
	indexMap := make(map[string]int, len(order))

	stack := make([]frame, 0, 64)
	for i := len(rootIDs) - 1; i >= 0; i-- {
		stack = append(stack, frame{id: rootIDs[i], depth: 0, phase: phaseEnter})
	}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if top.phase == phaseExit {
			nodes[indexMap[top.id]].SubtreeEnd = len(nodes) - 1
			continue
		}

		rec := records[top.id]
		children := childrenMap[top.id]
		idx := len(nodes)
		nodes = append(nodes, FlatNode{
			ID:          rec.id,
			Name:        rec.name,
			ParentID:    rec.parentID,
			Icon:        rec.icon,
			Depth:       top.depth,
			Index:       idx,
			SubtreeEnd:  idx,
			HasChildren: len(children) > 0,
		})
		indexMap[top.id] = idx

		// The exit frame goes under the children so it pops after all of them.
		stack = append(stack, frame{id: top.id, depth: top.depth, phase: phaseExit})
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, frame{id: children[i], depth: top.depth + 1, phase: phaseEnter})
		}
	}

	nodeMap := make(map[string]*FlatNode, len(nodes))
	for i := range nodes {
		nodeMap[nodes[i].ID] = &nodes[i]
	}

	var orphans []string
	if len(nodes) < len(order) {
		for _, id := range order {
			if _, ok := indexMap[id]; !ok {
				orphans = append(orphans, id)
				cfg.logger.Printf("orphan %q: parent %q is not reachable from a root", id, records[id].parentID)
			}
		}
	}

	return &Tree{
		Nodes: nodes,
		Index: Index{
			NodeMap:     nodeMap,
			IndexMap:    indexMap,
			ChildrenMap: childrenMap,
			RootIDs:     rootIDs,
			Orphans:     orphans,
			Skipped:     skipped,
		},
	}
}

// stringValue normalizes an id, parent or label value. nil reports false.
func stringValue(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		return x, true
	case int:
		return strconv.Itoa(x), true
	case int32:
		return strconv.FormatInt(int64(x), 10), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case uint:
		return strconv.FormatUint(uint64(x), 10), true
	case uint32:
		return strconv.FormatUint(uint64(x), 10), true
	case uint64:
		return strconv.FormatUint(x, 10), true
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case []byte:
		return string(x), true
	case fmt.Stringer:
		return x.String(), true
	default:
		return fmt.Sprint(x), true
	}
}
