package parser_test

import (
	"testing"

	"obanlint/internal/ast"
	"obanlint/internal/diag"
	"obanlint/internal/lexer"
	"obanlint/internal/parser"
	"obanlint/internal/source"
)

func parse(t *testing.T, src string) (parser.Result, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.ex", []byte(src))
	bag := diag.NewBag(64)
	rep := diag.BagReporter{Bag: bag}
	lx := lexer.New(fs.Get(id), lexer.Options{Reporter: rep})
	res := parser.ParseFile(fs, id, lx, parser.Options{Reporter: rep})
	if res.File == nil {
		t.Fatalf("no file produced; diagnostics: %v", bag.Items())
	}
	return res, bag
}

func parseClean(t *testing.T, src string) *ast.File {
	t.Helper()
	res, bag := parse(t, src)
	if bag.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", bag.Items())
	}
	return res.File
}

func onlyModule(t *testing.T, file *ast.File) *ast.Module {
	t.Helper()
	if len(file.Modules) != 1 {
		t.Fatalf("expected one module, got %d", len(file.Modules))
	}
	return &file.Modules[0]
}

func TestModuleHeaderAndDefs(t *testing.T) {
	file := parseClean(t, `defmodule MyApp.Worker do
  use Oban.Worker, queue: :default
  alias Ecto.Multi
  import Ecto.Query
  require Logger
  @impl Oban.Worker

  def perform(job) do
    job
  end

  defp helper(a, b) do
    a
  end
end
`)
	mod := onlyModule(t, file)
	if len(mod.Name) != 2 || mod.Name[0] != "MyApp" || mod.Name[1] != "Worker" {
		t.Errorf("module name = %v", mod.Name)
	}
	if len(mod.Header) != 5 {
		t.Fatalf("expected 5 header directives, got %d", len(mod.Header))
	}
	if mod.Header[0].Kind != ast.DirUse {
		t.Errorf("first directive kind = %v, want use", mod.Header[0].Kind)
	}
	arg := mod.Header[0].Arg
	if arg == nil || arg.Kind != ast.NodeAlias || len(arg.Path) != 2 || arg.Path[1] != "Worker" {
		t.Errorf("use argument = %+v", arg)
	}
	if mod.Header[4].Kind != ast.DirAttr {
		t.Errorf("fifth directive kind = %v, want attr", mod.Header[4].Kind)
	}

	if len(mod.Defs) != 2 {
		t.Fatalf("expected 2 defs, got %d", len(mod.Defs))
	}
	if mod.Defs[0].Name != "perform" || mod.Defs[0].Arity != 1 || mod.Defs[0].Private {
		t.Errorf("def perform = %+v", mod.Defs[0])
	}
	if mod.Defs[1].Name != "helper" || mod.Defs[1].Arity != 2 || !mod.Defs[1].Private {
		t.Errorf("defp helper = %+v", mod.Defs[1])
	}
}

func TestNestedModulesFlattened(t *testing.T) {
	file := parseClean(t, `defmodule Outer do
  defmodule Inner do
    def f do
      :ok
    end
  end
end
`)
	if len(file.Modules) != 2 {
		t.Fatalf("expected 2 modules, got %d", len(file.Modules))
	}
	inner := file.Modules[1]
	if len(inner.Name) != 2 || inner.Name[0] != "Outer" || inner.Name[1] != "Inner" {
		t.Errorf("inner module name = %v", inner.Name)
	}
	if len(inner.Defs) != 1 {
		t.Errorf("inner module defs = %d", len(inner.Defs))
	}
}

func TestDotChainFoldsIntoCallPath(t *testing.T) {
	file := parseClean(t, `defmodule M do
  def f do
    Ecto.Multi.new()
  end
end
`)
	body := onlyModule(t, file).Defs[0].Body
	if body == nil || body.Kind != ast.NodeCall {
		t.Fatalf("body kind = %v, want Call", body.Kind)
	}
	want := []string{"Ecto", "Multi", "new"}
	if len(body.Path) != len(want) {
		t.Fatalf("path = %v", body.Path)
	}
	for i := range want {
		if body.Path[i] != want[i] {
			t.Fatalf("path = %v, want %v", body.Path, want)
		}
	}
}

func TestLowercaseDotCall(t *testing.T) {
	file := parseClean(t, `defmodule M do
  def f(repo, multi) do
    repo.transaction(multi)
  end
end
`)
	body := onlyModule(t, file).Defs[0].Body
	if body.Kind != ast.NodeCall || len(body.Path) != 2 ||
		body.Path[0] != "repo" || body.Path[1] != "transaction" {
		t.Fatalf("body = kind %v path %v", body.Kind, body.Path)
	}
	if len(body.Args) != 1 || body.Args[0].Kind != ast.NodeName {
		t.Fatalf("args = %+v", body.Args)
	}
}

func TestMultiLinePipelineJoined(t *testing.T) {
	file := parseClean(t, `defmodule M do
  def f do
    Ecto.Multi.new()
    |> Ecto.Multi.insert(:a, x)
    |> Repo.transaction()
  end
end
`)
	body := onlyModule(t, file).Defs[0].Body
	stages := ast.FlattenPipe(body)
	if len(stages) != 3 {
		t.Fatalf("expected 3 pipeline stages, got %d", len(stages))
	}
	if tail := ast.PathTail(stages[2].Path); tail != "transaction" {
		t.Errorf("last stage tail = %q", tail)
	}
}

func TestPipedCaseHasNilSubject(t *testing.T) {
	file := parseClean(t, `defmodule M do
  def f do
    g()
    |> case do
      {:ok, v} -> v
      {:error, _step, reason, _changes} -> {:error, reason}
    end
  end
end
`)
	body := onlyModule(t, file).Defs[0].Body
	stages := ast.FlattenPipe(body)
	if len(stages) != 2 {
		t.Fatalf("expected 2 stages, got %d", len(stages))
	}
	cs := stages[1]
	if cs.Kind != ast.NodeCase || cs.Subject != nil {
		t.Fatalf("piped case: kind %v subject %+v", cs.Kind, cs.Subject)
	}
	if cs.Body == nil || cs.Body.Kind != ast.NodeMultiClause || len(cs.Body.Clauses) != 2 {
		t.Fatalf("case body = %+v", cs.Body)
	}
	second := cs.Body.Clauses[1]
	if second.Pattern.Kind != ast.NodeTuple || len(second.Pattern.Elems) != 4 {
		t.Errorf("second arm pattern = %+v", second.Pattern)
	}
	if tag, ok := ast.Tag(second.Pattern); !ok || tag != "error" {
		t.Errorf("second arm tag = %q ok=%v", tag, ok)
	}
}

func TestCaseWithSubjectAndGuard(t *testing.T) {
	file := parseClean(t, `defmodule M do
  def f(x) do
    case x do
      n when n > 0 -> :pos
      _ -> :other
    end
  end
end
`)
	body := onlyModule(t, file).Defs[0].Body
	if body.Kind != ast.NodeCase || body.Subject == nil || body.Subject.Kind != ast.NodeName {
		t.Fatalf("case = %+v", body)
	}
	first := body.Body.Clauses[0]
	if first.Guard == nil {
		t.Error("first arm missing guard")
	}
	second := body.Body.Clauses[1]
	if second.Pattern.Kind != ast.NodeBind {
		t.Errorf("wildcard arm pattern kind = %v", second.Pattern.Kind)
	}
}

func TestMultiStatementArmBody(t *testing.T) {
	file := parseClean(t, `defmodule M do
  def f(x) do
    case x do
      {:ok, v} ->
        log(v)
        v

      {:error, reason} ->
        {:error, reason}
    end
  end
end
`)
	body := onlyModule(t, file).Defs[0].Body
	first := body.Body.Clauses[0]
	if first.Body.Kind != ast.NodeBlock || len(first.Body.Stmts) != 2 {
		t.Fatalf("first arm body = %+v", first.Body)
	}
}

func TestIfElse(t *testing.T) {
	file := parseClean(t, `defmodule M do
  def f(x) do
    if x do
      :yes
    else
      :no
    end
  end
end
`)
	body := onlyModule(t, file).Defs[0].Body
	if body.Kind != ast.NodeCond || body.Then == nil || body.Else == nil {
		t.Fatalf("if = %+v", body)
	}
}

func TestOneLineIf(t *testing.T) {
	file := parseClean(t, `defmodule M do
  def f(x), do: if x, do: :yes, else: :no
end
`)
	mod := onlyModule(t, file)
	if len(mod.Defs) != 1 || mod.Defs[0].Body == nil {
		t.Fatalf("defs = %+v", mod.Defs)
	}
}

func TestAssignment(t *testing.T) {
	file := parseClean(t, `defmodule M do
  def f do
    multi = Ecto.Multi.new()
    multi
  end
end
`)
	body := onlyModule(t, file).Defs[0].Body
	if body.Kind != ast.NodeBlock || len(body.Stmts) != 2 {
		t.Fatalf("body = %+v", body)
	}
	assign := body.Stmts[0]
	if assign.Kind != ast.NodeAssign || assign.Pattern.Kind != ast.NodeName || assign.Value.Kind != ast.NodeCall {
		t.Fatalf("assign = %+v", assign)
	}
}

func TestOpaqueConstructs(t *testing.T) {
	// with-blocks, struct literals and captures parse to opaque nodes
	// without derailing the rest of the module.
	file := parseClean(t, `defmodule M do
  def f(args) do
    with {:ok, a} <- fetch(args) do
      a
    end
  end

  def g(args) do
    %MyApp.Record{field: args}
  end

  def h do
    Enum.map([1, 2], &to_string/1)
  end
end
`)
	mod := onlyModule(t, file)
	if len(mod.Defs) != 3 {
		t.Fatalf("expected 3 defs, got %d", len(mod.Defs))
	}
	if mod.Defs[0].Body.Kind != ast.NodeOpaque {
		t.Errorf("with body kind = %v, want Opaque", mod.Defs[0].Body.Kind)
	}
	if mod.Defs[1].Body.Kind != ast.NodeOpaque {
		t.Errorf("struct body kind = %v, want Opaque", mod.Defs[1].Body.Kind)
	}
}

func TestSyntaxErrorRecovers(t *testing.T) {
	res, bag := parse(t, `defmodule M do
  )

  def fine do
    :ok
  end
end
`)
	if !bag.HasErrors() {
		t.Fatal("expected parse diagnostics")
	}
	mod := onlyModule(t, res.File)
	found := false
	for _, def := range mod.Defs {
		if def.Name == "fine" {
			found = true
		}
	}
	if !found {
		t.Error("parser did not recover to parse the following def")
	}
}

func TestSpanAnchorsLine(t *testing.T) {
	fs := source.NewFileSet()
	src := `defmodule M do
  def f do
    Ecto.Multi.new()
  end
end
`
	id := fs.AddVirtual("test.ex", []byte(src))
	lx := lexer.New(fs.Get(id), lexer.Options{Reporter: diag.NopReporter{}})
	res := parser.ParseFile(fs, id, lx, parser.Options{Reporter: diag.NopReporter{}})
	body := res.File.Modules[0].Defs[0].Body
	start, _ := fs.Resolve(body.Span)
	if start.Line != 3 {
		t.Errorf("builder call resolves to line %d, want 3", start.Line)
	}
}
