// Package syntaxlex is the plug-in lexer set: one vex.SyntaxLexer per
// language, selected by file extension. Each lexer is a
// small hand-written state machine implementing the
// Calculate(*vex.SyntaxState) int contract.
package syntaxlex

import "github.com/vexedit/vex"

// All returns every lexer this package ships, in a stable order (used by
// ForPath, and by cmd/vex to list lexers in `--version` output and to
// resolve a lexer by name).
func All() []vex.SyntaxLexer {
	return []vex.SyntaxLexer{
		C{}, Python{}, Rust{}, Diff{}, Makefile{}, JSON{}, XML{}, INI{},
		Shell{}, Markdown{},
	}
}

// ForPath picks the lexer whose Extensions contains path's suffix, longest
// match wins (so "Makefile" beats a hypothetical generic catch-all), or nil
// if nothing matches.
func ForPath(path string) vex.SyntaxLexer {
	var best vex.SyntaxLexer
	bestLen := -1
	for _, lx := range All() {
		for _, ext := range lx.Extensions() {
			if matchExt(path, ext) && len(ext) > bestLen {
				best = lx
				bestLen = len(ext)
			}
		}
	}
	return best
}

func matchExt(path, ext string) bool {
	if len(ext) > len(path) {
		return false
	}
	if ext[0] == '.' {
		return path[len(path)-len(ext):] == ext
	}
	return path[len(path)-len(ext):] == ext && (len(path) == len(ext) || path[len(path)-len(ext)-1] == '/')
}
