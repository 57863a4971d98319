package ai

import (
	"embed"
	"fmt"
	"strings"
)

//go:embed prompts/*.md
var promptFiles embed.FS

const systemSeparator = "\n---\n"

// render fills {{KEY}} placeholders of an embedded template. Text before the first "---" line is
// returned as the system instruction.
func render(name string, vars map[string]string) (system, prompt string, err error) {
	raw, err := promptFiles.ReadFile("prompts/" + name + ".md")
	if err != nil {
		return "", "", fmt.Errorf("load prompt %s: %w", name, err)
	}

	template := string(raw)
	if head, body, ok := strings.Cut(template, systemSeparator); ok {
		system = strings.TrimSpace(head)
		template = body
	}

	pairs := make([]string, 0, len(vars)*2)
	for key, value := range vars {
		pairs = append(pairs, "{{"+key+"}}", value)
	}

	return system, strings.TrimSpace(strings.NewReplacer(pairs...).Replace(template)), nil
}

// listValue renders a list for a prompt; an empty list reads as "None".
func listValue(items []string) string {
	cleaned := cleanList(items)
	if len(cleaned) == 0 {
		return "None"
	}
	return strings.Join(cleaned, ", ")
}

func textValue(s string) string {
	return strings.TrimSpace(s)
}
