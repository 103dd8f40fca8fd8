package ui

import (
	"fmt"
	"strings"

	"treekit/internal/tree"
)

// renderDetail shows the node under the cursor as markdown.
func (m *App) renderDetail(width, height int) string {
	n, ok := m.eng.NodeAtVisible(m.cursor)
	if !ok {
		return m.styles.muted.Render("Nothing selected.")
	}

	md := m.detailMarkdown(n)
	cacheKey := fmt.Sprintf("%d\x00%s", width, md)
	out, ok := m.detailCache[cacheKey]
	if !ok {
		out = buildMarkdownRenderer(m.cfg.DetailFormat, width)(md)
		m.detailCache[cacheKey] = out
	}

	lines := strings.Split(out, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}

func (m *App) detailMarkdown(n *tree.FlatNode) string {
	name := n.Name
	if name == "" {
		name = n.ID
	}

	t := m.eng.Tree()
	ancestors := tree.AncestorIDs(n.ID, &t.Index)
	path := make([]string, 0, len(ancestors)+1)
	for i := len(ancestors) - 1; i >= 0; i-- {
		if a, ok := t.Node(ancestors[i]); ok && a.Name != "" {
			path = append(path, a.Name)
		} else {
			path = append(path, ancestors[i])
		}
	}
	path = append(path, name)

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", name)
	fmt.Fprintf(&b, "- **ID:** `%s`\n", n.ID)
	fmt.Fprintf(&b, "- **Path:** %s\n", strings.Join(path, " / "))
	fmt.Fprintf(&b, "- **Depth:** %d\n", n.Depth)
	if n.HasChildren {
		fmt.Fprintf(&b, "- **Children:** %d\n", len(t.Children(n.ID)))
		fmt.Fprintf(&b, "- **Descendants:** %d\n", n.Size()-1)
	}
	if m.eng.Options().Checkable {
		fmt.Fprintf(&b, "- **Checkbox:** %s\n", m.eng.CheckState(n.ID))
	}
	if m.eng.IsMatch(n.ID) {
		b.WriteString("- **Matches the current search**\n")
	}
	return b.String()
}
