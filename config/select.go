package config

import (
	"fmt"
	"log/slog"
	"strings"
)

// Rule is one step of the config block fallback chain.
type Rule struct {
	Name  string
	Match func(b *Block) bool
}

// Rules returns the fallback chain for a workflow/template pair, most
// specific first. Workflow rules are left out when workflow is blank.
func Rules(workflow, template string) []Rule {
	var rules []Rule
	if strings.TrimSpace(workflow) != "" {
		rules = append(rules,
			Rule{Name: "workflow+template", Match: func(b *Block) bool {
				return b.HasWorkflow(workflow) && b.HasTemplate(template)
			}},
			Rule{Name: "workflow", Match: func(b *Block) bool {
				return b.HasWorkflow(workflow)
			}},
		)
	}
	return append(rules,
		Rule{Name: "template", Match: func(b *Block) bool {
			return b.HasTemplate(template)
		}},
		Rule{Name: "wildcard", Match: func(b *Block) bool {
			return b.HasTemplate(Wildcard)
		}},
	)
}

// Select returns the first block matched by the first succeeding rule.
func Select(blocks []Block, workflow, template string) (*Block, error) {
	for _, rule := range Rules(workflow, template) {
		for i := range blocks {
			if rule.Match(&blocks[i]) {
				slog.Debug("selected config block", "rule", rule.Name, "workflow", workflow, "template", template, "index", i)
				return &blocks[i], nil
			}
		}
	}
	return nil, fmt.Errorf("workflow %q, template %q: %w", workflow, template, ErrNoConfig)
}

// Select picks the block for a workflow/template pair.
func (pc *PluginConfig) Select(workflow, template string) (*Block, error) {
	return Select(pc.Blocks, workflow, template)
}
