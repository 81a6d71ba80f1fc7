package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/stackform/stackform/pkg/construct"
)

// nodeInfo is the JSON shape of one tree node in inspect output.
type nodeInfo struct {
	Path       string   `json:"path"`
	LogicalID  string   `json:"logical_id,omitempty"`
	Type       string   `json:"type,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	Properties []string `json:"properties,omitempty"`
}

func newInspectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show the resource tree built from a manifest",
		Long: `Inspect builds the resource tree and prints every node with its path,
logical ID, type, advertised tags, and property names. Links and tweaks are
resolved first, so the output reflects the tree as it would be rendered.`,
		Example: `  # Print the tree
  stackform inspect -m stack.yaml

  # Machine-readable output
  stackform inspect -m stack.yaml --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, _, err := buildTree(cmd.Context(), manifestPath, nil)
			if err != nil {
				return err
			}

			nodes := collectNodes(root)

			if jsonOutput {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(nodes)
			}

			for _, n := range nodes {
				depth := strings.Count(n.Path, "/")
				indent := strings.Repeat("  ", depth)
				label := n.Path
				if i := strings.LastIndex(n.Path, "/"); i >= 0 {
					label = n.Path[i+1:]
				}
				if label == "" {
					label = "<root>"
				}
				line := indent + label
				if n.Type != "" {
					line += fmt.Sprintf(" (%s)", n.Type)
				}
				if len(n.Tags) > 0 {
					line += fmt.Sprintf(" tags=[%s]", strings.Join(n.Tags, ", "))
				}
				fmt.Println(line)
				if len(n.Properties) > 0 {
					fmt.Printf("%s  properties: %s\n", indent, strings.Join(n.Properties, ", "))
				}
			}
			return nil
		},
	}

	return cmd
}

// collectNodes walks the tree depth-first in child-insertion order.
func collectNodes(root *construct.Construct) []nodeInfo {
	var nodes []nodeInfo
	var walk func(c *construct.Construct)
	walk = func(c *construct.Construct) {
		info := nodeInfo{
			Path: c.PathString(),
			Tags: c.Advertises(),
		}
		if res := c.Resource(); res != nil {
			info.LogicalID = res.LogicalID()
			info.Type = res.Type()
			info.Properties = res.PropertyNames()
		}
		nodes = append(nodes, info)
		for _, child := range c.Children() {
			walk(child)
		}
	}
	walk(root)
	return nodes
}
