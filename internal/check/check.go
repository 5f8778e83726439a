package check

import (
	"obanlint/internal/ast"
)

// CheckFile runs the rule over every module of a parsed file and returns
// the issues in source order. Modules that do not adopt the job framework
// are skipped wholesale. Each definition gets a fresh Evidence; sightings
// never leak between functions, so a helper containing the flagged shape
// is reported at the helper even when only another function calls it.
func CheckFile(file *ast.File, opts Options) []Issue {
	if file == nil {
		return nil
	}
	opts = opts.normalized()
	var issues []Issue
	for i := range file.Modules {
		mod := &file.Modules[i]
		if !Admits(mod, opts) {
			continue
		}
		for _, def := range mod.Defs {
			ev := Walk(def.Body, Evidence{}, opts)
			if iss := Verdict(ev, opts); iss != nil {
				issues = append(issues, *iss)
			}
		}
	}
	return issues
}
