package cli

import (
	"fmt"
	"sort"

	"github.com/mberjans/iffc-chatbot-jules/internal/graph"
	"github.com/spf13/cobra"
)

var inspectIndex string

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect <graph.graphml>",
	Short: "Summarize a serialized graph",
	Long: `Inspect loads a GraphML artifact and prints node and edge counts
broken down by entity type and relation type. With --index it also checks
that a chunk index file agrees with the graph.

Example:
  kgraph inspect corpus.graphml
  kgraph inspect corpus.graphml --index corpus.index.json`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().StringVar(&inspectIndex, "index", "", "chunk index file to validate against the graph")
}

func runInspect(cmd *cobra.Command, args []string) error {
	path := args[0]

	g, err := graph.Load(path)
	if err != nil {
		return err
	}

	fmt.Printf("Graph:  %s\n", path)
	fmt.Printf("Nodes:  %d\n", g.NumNodes())
	fmt.Printf("Edges:  %d\n", g.NumEdges())

	nodeTypes := make(map[string]int)
	chunkNodes := 0
	for _, n := range g.Nodes() {
		if t, ok := n.Attrs[graph.AttrEntityType]; ok {
			nodeTypes[t]++
		} else {
			chunkNodes++
		}
	}
	if chunkNodes > 0 {
		fmt.Printf("\nChunk nodes: %d\n", chunkNodes)
	}
	if len(nodeTypes) > 0 {
		fmt.Printf("\nEntity types:\n")
		for _, t := range sortedCountKeys(nodeTypes) {
			fmt.Printf("  %-20s %d\n", t, nodeTypes[t])
		}
	}

	edgeTypes := make(map[string]int)
	undirected := 0
	for _, e := range g.Edges() {
		edgeTypes[string(e.Type)]++
		if e.Undirected {
			undirected++
		}
	}
	if len(edgeTypes) > 0 {
		fmt.Printf("\nRelation types:\n")
		for _, t := range sortedCountKeys(edgeTypes) {
			fmt.Printf("  %-20s %d\n", t, edgeTypes[t])
		}
	}
	if undirected > 0 {
		fmt.Printf("\nUndirected edges: %d\n", undirected)
	}

	if inspectIndex != "" {
		idx, err := graph.LoadIndex(inspectIndex)
		if err != nil {
			return err
		}
		if err := idx.Validate(g); err != nil {
			return fmt.Errorf("index %s: %w", inspectIndex, err)
		}
		fmt.Printf("\n✓ Index %s agrees with the graph (%d entries)\n", inspectIndex, len(idx))
	}

	return nil
}

func sortedCountKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
