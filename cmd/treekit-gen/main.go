// Command treekit-gen writes a synthetic tree for trying treekit on large
// inputs.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"os"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

type genOptions struct {
	nodes    int
	depth    int
	children int
	seed     uint64
	shape    string
	format   string
}

// record keeps the field order stable in the output.
type record struct {
	ID       string `json:"id" yaml:"id"`
	ParentID string `json:"parentId,omitempty" yaml:"parentId,omitempty"`
	Name     string `json:"name" yaml:"name"`
	Icon     string `json:"icon,omitempty" yaml:"icon,omitempty"`
}

var fileExts = []string{".go", ".md", ".json", ".yaml", ".txt"}

func main() {
	fs := flag.NewFlagSet("treekit-gen", flag.ExitOnError)
	opts := genOptions{}
	fs.IntVar(&opts.nodes, "nodes", 1000, "Number of nodes to generate")
	fs.IntVar(&opts.depth, "depth", 6, "Maximum depth")
	fs.IntVar(&opts.children, "children", 8, "Maximum children per branch")
	fs.Uint64Var(&opts.seed, "seed", 1, "Random seed")
	fs.StringVar(&opts.shape, "shape", "tree", "Naming scheme: tree or fs")
	fs.StringVar(&opts.format, "format", "json", "Output format: json or yaml")
	out := fs.String("out", "", "Output file (stdout when empty)")
	_ = fs.Parse(os.Args[1:])

	if err := run(opts, *out); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts genOptions, path string) error {
	if err := opts.validate(); err != nil {
		return err
	}
	records := generate(opts)

	var w io.Writer = os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		w = f
	}
	bw := bufio.NewWriter(w)
	if err := encode(bw, opts.format, records); err != nil {
		return err
	}
	return bw.Flush()
}

func (o genOptions) validate() error {
	switch {
	case o.nodes < 0:
		return fmt.Errorf("--nodes must not be negative")
	case o.depth < 1:
		return fmt.Errorf("--depth must be at least 1")
	case o.children < 1:
		return fmt.Errorf("--children must be at least 1")
	}
	switch o.shape {
	case "tree", "fs":
	default:
		return fmt.Errorf("unknown shape %q", o.shape)
	}
	switch o.format {
	case "json", "yaml":
	default:
		return fmt.Errorf("unknown format %q", o.format)
	}
	return nil
}

// generate grows the tree breadth first until opts.nodes records exist.
// Passes repeat while some branch has room under the depth and child caps;
// once every branch is full another root is started. The same seed always
// yields the same records.
func generate(opts genOptions) []record {
	rng := rand.New(rand.NewPCG(opts.seed, opts.seed^0x9e3779b97f4a7c15))
	records := make([]record, 0, opts.nodes)
	depths := make([]int, 0, opts.nodes)
	counts := make([]int, 0, opts.nodes)

	add := func(parent string, depth int) {
		records = append(records, record{ID: fmt.Sprintf("n%d", len(records)), ParentID: parent})
		depths = append(depths, depth)
		counts = append(counts, 0)
	}

	for i := 0; i < opts.children && len(records) < opts.nodes; i++ {
		add("", 0)
	}
	for len(records) < opts.nodes {
		grown := false
		for next := 0; next < len(records) && len(records) < opts.nodes; next++ {
			room := opts.children - counts[next]
			if depths[next]+1 >= opts.depth || room <= 0 {
				continue
			}
			n := 1 + rng.IntN(room)
			for i := 0; i < n && len(records) < opts.nodes; i++ {
				add(records[next].ID, depths[next]+1)
				counts[next]++
				grown = true
			}
		}
		if !grown {
			add("", 0)
		}
	}

	branches := make(map[string]bool)
	for _, r := range records {
		if r.ParentID != "" {
			branches[r.ParentID] = true
		}
	}
	for i := range records {
		records[i].Name, records[i].Icon = nameFor(opts.shape, i, branches[records[i].ID], rng)
	}
	return records
}

func nameFor(shape string, i int, branch bool, rng *rand.Rand) (name, icon string) {
	if shape != "fs" {
		return fmt.Sprintf("Node %d", i), ""
	}
	if branch {
		return fmt.Sprintf("dir-%d", i), "📁"
	}
	return fmt.Sprintf("file-%d%s", i, fileExts[rng.IntN(len(fileExts))]), "📄"
}

func encode(w io.Writer, format string, records []record) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	}
}
