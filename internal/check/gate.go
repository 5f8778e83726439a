package check

import (
	"obanlint/internal/ast"
)

// Admits reports whether a module opts into the job-worker framework:
// some `use` directive in its header names the framework. Matching is by
// path segment — `use Oban` and `use Oban.Worker` both admit — restricted
// to the last two segments so an incidental `MyApp.ObanHelpers.Thing`
// prefix does not. Any header shape the gate does not recognize counts as
// not adopting; skipping an unrelated module is always the safe outcome.
func Admits(mod *ast.Module, opts Options) bool {
	opts = opts.normalized()
	for _, dir := range mod.Header {
		if dir.Kind != ast.DirUse {
			continue
		}
		if dir.Arg == nil || dir.Arg.Kind != ast.NodeAlias {
			continue
		}
		if pathTailContains(dir.Arg.Path, opts.FrameworkTail) {
			return true
		}
	}
	return false
}

// pathTailContains checks the last two segments of path for seg.
func pathTailContains(path []string, seg string) bool {
	for i := len(path) - 1; i >= 0 && i >= len(path)-2; i-- {
		if path[i] == seg {
			return true
		}
	}
	return false
}
