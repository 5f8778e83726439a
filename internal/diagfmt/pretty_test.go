package diagfmt_test

import (
	"strings"
	"testing"

	"obanlint/internal/diag"
	"obanlint/internal/diagfmt"
	"obanlint/internal/source"
)

func sampleBag(t *testing.T) (*diag.Bag, *source.FileSet, source.Span) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("worker.ex", []byte("defmodule M do\n  Ecto.Multi.new()\nend\n"))
	// span over "Ecto.Multi.new" on line 2
	span := source.Span{File: id, Start: 17, End: 31}

	bag := diag.NewBag(8)
	bag.Add(diag.Diagnostic{
		Severity: diag.SevWarning,
		Code:     diag.LintUnhandledMultiError,
		Message:  "transaction result is not narrowed",
		Primary:  span,
		Notes:    []diag.Note{{Span: span, Msg: "builder constructed here"}},
	})
	return bag, fs, span
}

func TestPrettyHeading(t *testing.T) {
	bag, fs, _ := sampleBag(t)
	var sb strings.Builder
	diagfmt.Pretty(&sb, bag, fs, diagfmt.PrettyOpts{})
	out := sb.String()

	if !strings.Contains(out, "worker.ex:2:3: WARNING LINT0001: transaction result is not narrowed") {
		t.Errorf("missing heading, got:\n%s", out)
	}
	if !strings.Contains(out, "  Ecto.Multi.new()") {
		t.Errorf("missing source context, got:\n%s", out)
	}
}

func TestPrettyUnderlineWidth(t *testing.T) {
	bag, fs, _ := sampleBag(t)
	var sb strings.Builder
	diagfmt.Pretty(&sb, bag, fs, diagfmt.PrettyOpts{})
	out := sb.String()

	// "Ecto.Multi.new" is 14 cells: one caret plus 13 tildes
	want := "^" + strings.Repeat("~", 13)
	if !strings.Contains(out, want) {
		t.Errorf("missing underline %q, got:\n%s", want, out)
	}
}

func TestPrettyNotes(t *testing.T) {
	bag, fs, _ := sampleBag(t)

	var without strings.Builder
	diagfmt.Pretty(&without, bag, fs, diagfmt.PrettyOpts{})
	if strings.Contains(without.String(), "builder constructed here") {
		t.Error("notes printed without ShowNotes")
	}

	var with strings.Builder
	diagfmt.Pretty(&with, bag, fs, diagfmt.PrettyOpts{ShowNotes: true})
	if !strings.Contains(with.String(), "builder constructed here") {
		t.Error("ShowNotes did not print notes")
	}
}

func TestPrettyNoColorByDefault(t *testing.T) {
	bag, fs, _ := sampleBag(t)
	var sb strings.Builder
	diagfmt.Pretty(&sb, bag, fs, diagfmt.PrettyOpts{Color: false})
	if strings.Contains(sb.String(), "\x1b[") {
		t.Error("escape sequences present with color disabled")
	}
}
