package config

import (
	"fmt"
	"os"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"
)

// loadKDLFile reads and parses a .cachelens.kdl file layered on top of
// base, returning (nil, nil) when the file doesn't exist — absence is not
// an error, the caller just keeps the base config.
func loadKDLFile(path string, base *Config) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return parseKDL(string(content), base)
}

// parseKDL overlays content's directives onto a copy of base.
func parseKDL(content string, base *Config) (*Config, error) {
	cfg := *base // shallow copy: all fields are value types

	doc, err := kdl.Parse(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse KDL config: %w", err)
	}

	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "project":
			for _, cn := range n.Children {
				assignSimpleString(cn, "root", func(v string) { cfg.Project.Root = v })
			}
		case "ingest":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "max_bytes":
					if v, ok := firstIntArg(cn); ok {
						cfg.Ingest.MaxBytes = int64(v)
					}
				case "source_subdir":
					if s, ok := firstStringArg(cn); ok {
						cfg.Ingest.SourceSubdir = s
					}
				}
			}
		case "disasm":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "tool":
					if s, ok := firstStringArg(cn); ok {
						cfg.Disasm.Tool = s
					}
				case "timeout_ms":
					if v, ok := firstIntArg(cn); ok {
						cfg.Disasm.TimeoutMs = v
					}
				}
			}
		case "search":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "max_prefix_expand":
					if v, ok := firstIntArg(cn); ok {
						cfg.Search.MaxPrefixExpand = v
					}
				case "max_substring_expand":
					if v, ok := firstIntArg(cn); ok {
						cfg.Search.MaxSubstringExpand = v
					}
				}
			}
		}
	}

	return &cfg, nil
}

func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func firstIntArg(n *document.Node) (int, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func firstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	if s, ok := n.Arguments[0].Value.(string); ok {
		return s, true
	}
	return "", false
}

func assignSimpleString(n *document.Node, target string, set func(string)) {
	if nodeName(n) == target {
		if s, ok := firstStringArg(n); ok {
			set(s)
		}
	}
}
