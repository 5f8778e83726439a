// Package diag carries diagnostics from the lexer, parser, and check
// through to output formatting. Analysis problems are diagnostics, not Go
// errors: every stage keeps going and reports what it saw.
package diag
