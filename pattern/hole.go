package pattern

import (
	"fmt"
	"strings"

	"github.com/treefactor/treefactor/bindings"
)

// HoleConfig stores the parsed form of one metavariable occurrence.
type HoleConfig struct {
	Name string
	Kind bindings.Kind
}

// ParseHole parses a hole expression like ":[name]", ":[[name]]" or
// ":[name:kind]" into a HoleConfig. The kind hint defaults to expr.
func ParseHole(hole string) (*HoleConfig, error) {
	if len(hole) < 4 || hole[0] != ':' || hole[1] != '[' {
		return nil, fmt.Errorf("invalid hole %q", hole)
	}

	start := 2
	end := len(hole) - 1
	if hole[2] == '[' {
		// long form :[[ ... ]]
		if !strings.HasSuffix(hole, "]]") {
			return nil, fmt.Errorf("invalid hole %q: unbalanced brackets", hole)
		}
		start = 3
		end = len(hole) - 2
	} else if hole[end] != ']' {
		return nil, fmt.Errorf("invalid hole %q: missing closing bracket", hole)
	}

	content := hole[start:end]
	if content == "" {
		return nil, fmt.Errorf("invalid hole %q: empty name", hole)
	}

	cfg := &HoleConfig{Kind: bindings.KindExpr}
	name, hint, hinted := strings.Cut(content, ":")
	cfg.Name = name
	if !isIdentifier(name) {
		return nil, fmt.Errorf("invalid hole %q: name %q is not an identifier", hole, name)
	}
	if hinted {
		kind := bindings.KindFromString(hint)
		if kind == 0 {
			return nil, fmt.Errorf("invalid hole %q: unknown kind hint %q", hole, hint)
		}
		// declarations can be a pattern's kind but not a hole's: there is
		// no declaration position a bare metavariable could occupy
		if kind == bindings.KindDecl {
			return nil, fmt.Errorf("invalid hole %q: declarations cannot be captured by a hole", hole)
		}
		cfg.Kind = kind
	}
	return cfg, nil
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_', 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case '0' <= c && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
