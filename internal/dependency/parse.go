package dependency

import (
	"strings"
)

// branch markers drawn by systemctl, two runes per level
var branches = []string{"├─", "└─", "│ ", "  "}

// statusMarks prefix each line on systemd releases that print unit state.
const statusMarks = "●○×"

// ParseTree builds a tree from systemctl list-dependencies output. The
// header line names the root; root is used when the output is empty.
func ParseTree(root, out string) (*Tree, error) {
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if first := strings.TrimSpace(lines[0]); first != "" {
		root = first
	}
	t := NewTree(root)

	// stack[d] is the most recent unit seen at depth d.
	stack := []string{root}
	for _, line := range lines[1:] {
		name, depth := splitLine(line)
		if name == "" || depth == 0 {
			continue
		}
		if depth > len(stack) {
			depth = len(stack)
		}
		parent := stack[depth-1]
		if name != parent {
			if err := t.AddDependency(parent, name); err != nil {
				return nil, err
			}
		}
		stack = append(stack[:depth], name)
	}
	return t, nil
}

// splitLine returns the unit name and its depth below the root.
func splitLine(line string) (string, int) {
	rest := line
	for _, r := range statusMarks {
		if after, ok := strings.CutPrefix(rest, string(r)+" "); ok {
			rest = after
			break
		}
	}

	depth := 0
	for {
		matched := false
		for _, b := range branches {
			if after, ok := strings.CutPrefix(rest, b); ok {
				rest = after
				depth++
				matched = true
				break
			}
		}
		if !matched {
			break
		}
	}
	return strings.TrimSpace(rest), depth
}

// StripBranches drops the header and the first four runes of every other
// line, which removes the status mark and the first level of branch drawing.
func StripBranches(out string) string {
	lines := strings.Split(out, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) <= 1 {
		return ""
	}

	var b strings.Builder
	for _, line := range lines[1:] {
		runes := []rune(line)
		if len(runes) > 4 {
			b.WriteString(string(runes[4:]))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
