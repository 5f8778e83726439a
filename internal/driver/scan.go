package driver

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"obanlint/internal/check"
	"obanlint/internal/diag"
	"obanlint/internal/lexer"
	"obanlint/internal/parser"
	"obanlint/internal/source"
	"obanlint/internal/token"
)

// ScanOptions configure one scan run.
type ScanOptions struct {
	// MaxDiagnostics caps the per-file diagnostic bag.
	MaxDiagnostics int
	// Jobs bounds parallelism; <=0 means GOMAXPROCS.
	Jobs int
	// Check configures the rule.
	Check check.Options
	// Cache, when non-nil, short-circuits unchanged files.
	Cache *DiskCache
}

// FileResult is the outcome for one scanned file.
type FileResult struct {
	Path      string
	FileID    source.FileID
	Bag       *diag.Bag
	Issues    []check.Issue
	FromCache bool
}

const defaultMaxDiagnostics = 256

func (o ScanOptions) maxDiagnostics() int {
	if o.MaxDiagnostics <= 0 {
		return defaultMaxDiagnostics
	}
	return o.MaxDiagnostics
}

// ScanFile lexes, parses and checks one already loaded file.
func ScanFile(fs *source.FileSet, fileID source.FileID, opts ScanOptions) FileResult {
	bag := diag.NewBag(opts.maxDiagnostics())
	rep := diag.BagReporter{Bag: bag}

	file := fs.Get(fileID)
	lx := lexer.New(file, lexer.Options{Reporter: rep})
	res := parser.ParseFile(fs, fileID, lx, parser.Options{Reporter: rep})

	issues := check.CheckFile(res.File, opts.Check)
	for _, iss := range issues {
		bag.Add(issueDiagnostic(iss))
	}
	bag.Sort()

	return FileResult{
		Path:   file.Path,
		FileID: fileID,
		Bag:    bag,
		Issues: issues,
	}
}

// issueDiagnostic converts a rule issue into a warning diagnostic. The
// trigger label rides along as a note on the same span.
func issueDiagnostic(iss check.Issue) diag.Diagnostic {
	d := diag.Diagnostic{
		Severity: diag.SevWarning,
		Code:     diag.LintUnhandledMultiError,
		Message:  iss.Message,
		Primary:  iss.Span,
	}
	if iss.Trigger != "" {
		d = d.WithNote(iss.Span, "transaction built via "+iss.Trigger)
	}
	return d
}

// newIssueBag rebuilds the diagnostic view of a set of issues, used when
// issues come back from the cache without a parse.
func newIssueBag(issues []check.Issue) *diag.Bag {
	bag := diag.NewBag(defaultMaxDiagnostics)
	for _, iss := range issues {
		bag.Add(issueDiagnostic(iss))
	}
	bag.Sort()
	return bag
}

// ScanDir scans every Elixir source file under dir in parallel. Results
// come back in the deterministic file order regardless of scheduling; a
// per-file failure becomes a diagnostic in that file's bag, not an error
// for the whole scan.
func ScanDir(ctx context.Context, dir string, opts ScanOptions) (*source.FileSet, []FileResult, error) {
	files, err := ListSourceFiles(dir)
	if err != nil {
		return nil, nil, err
	}

	fileSet := source.NewFileSetWithBase(dir)
	if len(files) == 0 {
		return fileSet, nil, nil
	}

	// preload sequentially: FileSet mutation is not concurrency-safe
	fileIDs := make(map[string]source.FileID, len(files))
	loadErrors := make(map[string]error, len(files))
	for _, path := range files {
		id, err := fileSet.Load(path)
		if err != nil {
			loadErrors[path] = err
			continue
		}
		fileIDs[path] = id
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	results := make([]FileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			if loadErr, ok := loadErrors[path]; ok {
				bag := diag.NewBag(opts.maxDiagnostics())
				bag.Add(diag.Diagnostic{
					Severity: diag.SevError,
					Code:     diag.IOLoadFileError,
					Message:  "failed to load file: " + loadErr.Error(),
				})
				results[i] = FileResult{Path: path, Bag: bag}
				return nil
			}

			fileID := fileIDs[path]
			if res, ok := opts.Cache.Lookup(fileSet, fileID, opts.Check); ok {
				results[i] = res
				return nil
			}

			res := ScanFile(fileSet, fileID, opts)
			opts.Cache.Store(fileSet, fileID, opts.Check, res)
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}
	return fileSet, results, nil
}

// TokenizeFile lexes one file to its full token stream.
func TokenizeFile(fs *source.FileSet, fileID source.FileID, maxDiagnostics int) ([]token.Token, *diag.Bag) {
	bag := diag.NewBag(maxDiagnostics)
	lx := lexer.New(fs.Get(fileID), lexer.Options{Reporter: diag.BagReporter{Bag: bag}})

	var tokens []token.Token
	for {
		tok := lx.Next()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return tokens, bag
}

// ParseOne parses one file without running the check.
func ParseOne(fs *source.FileSet, fileID source.FileID, maxDiagnostics int) parser.Result {
	bag := diag.NewBag(maxDiagnostics)
	rep := diag.BagReporter{Bag: bag}
	lx := lexer.New(fs.Get(fileID), lexer.Options{Reporter: rep})
	return parser.ParseFile(fs, fileID, lx, parser.Options{Reporter: rep})
}
