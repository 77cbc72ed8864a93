package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alexandresoliveira/bfgex/internal/ast"
)

// runCLI executes a fresh command tree inside dir.
func runCLI(t *testing.T, dir, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	t.Chdir(dir)
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, ".cache"))

	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err = root.Execute()
	finishTracing(root, err)
	if stopErr := stopProfiling(); stopErr != nil {
		t.Fatalf("stop profiling: %v", stopErr)
	}
	return out.String(), errOut.String(), err
}

func TestParseCommandFormats(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"canonical", []string{"parse", `ab\w+`}, "(UNION,(LITERAL,a),(LITERAL,b),(QUANTIFY,(RANDOM,WORD),+))\n"},
		{"extended", []string{"parse", "--extended", "a?"}, "(QUANTIFY,(LITERAL,a),?)\n"},
		{"core_question", []string{"parse", "a?"}, "(UNION,(LITERAL,a),(LITERAL,?))\n"},
		{"tree", []string{"parse", "--format", "tree", "x"}, "LITERAL 'x'\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := runCLI(t, "", "", tt.args...)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out != tt.want {
				t.Errorf("output = %q, want %q", out, tt.want)
			}
		})
	}
}

func TestParseCommandJSONAndMsgpack(t *testing.T) {
	out, _, err := runCLI(t, "", "", "parse", "--format", "json", "[a-f]{3}")
	if err != nil {
		t.Fatal(err)
	}
	var decoded struct {
		Pattern   string `json:"pattern"`
		Canonical string `json:"canonical"`
	}
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("invalid json %q: %v", out, err)
	}
	if decoded.Pattern != "[a-f]{3}" || decoded.Canonical != "(QUANTIFY,(CHARCLASS,(RANGE,(LITERAL,a),(LITERAL,f))),3)" {
		t.Errorf("decoded = %+v", decoded)
	}

	out, _, err = runCLI(t, "", "", "parse", "--format", "msgpack", "x*")
	if err != nil {
		t.Fatal(err)
	}
	tree, err := ast.UnmarshalMsgpack([]byte(out))
	if err != nil {
		t.Fatal(err)
	}
	if got := ast.Render(tree); got != "(QUANTIFY,(LITERAL,x),*)" {
		t.Errorf("msgpack tree = %s", got)
	}
}

func TestParseCommandGo(t *testing.T) {
	out, _, err := runCLI(t, "", "", "parse", "--format", "go", "--package", "gen", "--name", "Vowels", "[aeiou]")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"package gen", "VowelsSource", "VowelsCanonical", "DO NOT EDIT"} {
		if !strings.Contains(out, want) {
			t.Errorf("generated code missing %q:\n%s", want, out)
		}
	}
}

func TestParseCommandReportsError(t *testing.T) {
	out, errOut, err := runCLI(t, "", "", "parse", "--color", "off", "(ab")
	if !errors.Is(err, errReported) {
		t.Fatalf("err = %v, want errReported", err)
	}
	if out != "" {
		t.Errorf("stdout must stay empty on failure, got %q", out)
	}
	if !strings.Contains(errOut, "<pattern>:1:") || !strings.Contains(errOut, "ERROR") {
		t.Errorf("stderr = %q", errOut)
	}
	if strings.Contains(errOut, "\x1b[") {
		t.Errorf("--color off must not emit escapes: %q", errOut)
	}
}

func TestParseCommandStdin(t *testing.T) {
	out, _, err := runCLI(t, "", "x\n", "parse", "--stdin")
	if err != nil {
		t.Fatal(err)
	}
	if out != "(LITERAL,x)\n" {
		t.Errorf("output = %q", out)
	}

	if _, _, err := runCLI(t, "", "x", "parse", "--stdin", "y"); err == nil {
		t.Error("--stdin with an argument must fail")
	}
	if _, _, err := runCLI(t, "", "", "parse"); err == nil {
		t.Error("missing pattern must fail")
	}
}

func TestParseCommandCache(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 2; i++ {
		out, _, err := runCLI(t, dir, "", "parse", "--cache", `\d{4}`)
		if err != nil {
			t.Fatal(err)
		}
		if out != "(QUANTIFY,(RANDOM,DIGIT),4)\n" {
			t.Fatalf("run %d output = %q", i, out)
		}
	}
	entries, err := filepath.Glob(filepath.Join(dir, ".cache", "bfgex", "trees", "*", "*.mp"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("cache entries = %v", entries)
	}

	out, _, err := runCLI(t, dir, "", "cache", "dir")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != filepath.Join(dir, ".cache", "bfgex") {
		t.Errorf("cache dir = %q", out)
	}
	if _, _, err := runCLI(t, dir, "", "--quiet", "cache", "clean"); err != nil {
		t.Fatal(err)
	}
	entries, _ = filepath.Glob(filepath.Join(dir, ".cache", "bfgex", "trees", "*", "*.mp"))
	if len(entries) != 0 {
		t.Fatalf("cache not cleaned: %v", entries)
	}
}

func TestParseCommandTimings(t *testing.T) {
	_, errOut, err := runCLI(t, "", "", "--timings", "--color", "off", "parse", "x")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(errOut, "timings (parse)") {
		t.Errorf("stderr = %q", errOut)
	}
}

func TestConfigClassesReachParser(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, configFileName), "[classes]\ns = \"SPACE\"\n\n[parse]\nextended = true\n")
	sub := filepath.Join(dir, "nested")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}

	out, _, err := runCLI(t, sub, "", "parse", `\s?`)
	if err != nil {
		t.Fatal(err)
	}
	if out != "(QUANTIFY,(RANDOM,SPACE),?)\n" {
		t.Errorf("output = %q", out)
	}

	// флаг важнее конфига
	out, _, err = runCLI(t, sub, "", "parse", "--extended=false", `\s?`)
	if err != nil {
		t.Fatal(err)
	}
	if out != "(UNION,(RANDOM,SPACE),(LITERAL,?))\n" {
		t.Errorf("output = %q", out)
	}
}

func TestTokenizeCommand(t *testing.T) {
	out, _, err := runCLI(t, "", "", "tokenize", "--format", "json", "a*")
	if err != nil {
		t.Fatal(err)
	}
	var tokens []map[string]any
	if err := json.Unmarshal([]byte(out), &tokens); err != nil {
		t.Fatalf("invalid json %q: %v", out, err)
	}
	if len(tokens) != 3 {
		t.Errorf("tokens = %v, want literal, star, EOF", tokens)
	}
}

func TestCheckCommand(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "good.pat"), "# comment\na*\n\n[a-z]{2}\n")
	writeFile(t, filepath.Join(dir, "bad.pat"), "ok\n(ab\n")

	out, errOut, err := runCLI(t, dir, "", "check", "--ui", "off", "--format", "short", ".")
	if !errors.Is(err, errReported) {
		t.Fatalf("err = %v, want errReported", err)
	}
	if strings.Count(out, "\n") != 1 || !strings.Contains(out, "bad.pat:2:") {
		t.Errorf("short output = %q", out)
	}
	if !strings.Contains(errOut, "checked 4 patterns in 2 files, 1 failed") {
		t.Errorf("summary = %q", errOut)
	}

	out, errOut, err = runCLI(t, dir, "", "check", "--ui", "off", "good.pat")
	if err != nil {
		t.Fatalf("clean file must pass: %v (%s)", err, errOut)
	}
	if out != "" {
		t.Errorf("clean check printed %q", out)
	}
}

func TestCheckCommandJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bad.pat"), "a{3,1}\n")
	out, errOut, err := runCLI(t, dir, "", "check", "--format", "json", "bad.pat")
	if !errors.Is(err, errReported) {
		t.Fatalf("err = %v", err)
	}
	if errOut != "" {
		t.Errorf("json mode prints no summary, got %q", errOut)
	}
	if !json.Valid([]byte(out)) {
		t.Fatalf("invalid json: %q", out)
	}
}

func TestCanonCommand(t *testing.T) {
	out, _, err := runCLI(t, "", "", "canon", "(UNION,(LITERAL,a),(QUANTIFY,(RANDOM,WORD),Range[1,2]))")
	if err != nil {
		t.Fatal(err)
	}
	if out != "(UNION,(LITERAL,a),(QUANTIFY,(RANDOM,WORD),Range[1,2]))\n" {
		t.Errorf("output = %q", out)
	}
	if _, _, err := runCLI(t, "", "", "canon", "(UNION,(LITERAL,a)"); err == nil {
		t.Error("broken canonical text must fail")
	}
}

func TestTraceToStderr(t *testing.T) {
	_, errOut, err := runCLI(t, "", "", "--trace", "-", "--trace-format", "ndjson", "parse", "x")
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(errOut), "\n")
	if len(lines) < 4 {
		t.Fatalf("trace lines = %q", errOut)
	}
	var first map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatal(err)
	}
	if first["scope"] != "driver" || first["name"] != "bfgex parse" {
		t.Errorf("first event = %v", first)
	}
}

func TestRingTraceDumpedOnFailure(t *testing.T) {
	_, errOut, err := runCLI(t, "", "", "--trace-level", "phase", "--trace-mode", "ring", "--color", "off", "parse", "(")
	if err == nil {
		t.Fatal("expected failure")
	}
	if !strings.Contains(errOut, "bfgex parse") || !strings.Contains(errOut, "\u2190 parse") {
		t.Errorf("ring dump missing from stderr: %q", errOut)
	}
}

func TestVersionCommand(t *testing.T) {
	out, _, err := runCLI(t, "", "", "version", "--format", "json", "--full")
	if err != nil {
		t.Fatal(err)
	}
	var payload versionPayload
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatal(err)
	}
	if payload.Tool != "bfgex" || payload.GitCommit != "unknown" {
		t.Errorf("payload = %+v", payload)
	}

	out, _, err = runCLI(t, "", "", "version", "--color", "off")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "bfgex ") || strings.Contains(out, "\x1b[") {
		t.Errorf("pretty = %q", out)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestParseCommandFix(t *testing.T) {
	out, errOut, err := runCLI(t, "", "", "parse", "--color", "off", "--fix", "(ab")
	if err != nil {
		t.Fatalf("fixed pattern must parse: %v\n%s", err, errOut)
	}
	if out != "(UNION,(LITERAL,a),(LITERAL,b))\n" {
		t.Errorf("output = %q", out)
	}
	if !strings.Contains(errOut, "fix: insert ')': (ab)") {
		t.Errorf("stderr = %q", errOut)
	}

	// у пустой ветки нет автоматического исправления
	if _, _, err := runCLI(t, "", "", "parse", "--fix", "a||b"); !errors.Is(err, errReported) {
		t.Errorf("err = %v, want errReported", err)
	}
}

func TestCheckCommandFix(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.pat")
	writeFile(t, path, "(ab\n[cd\nok\n")

	_, errOut, err := runCLI(t, dir, "", "check", "--ui", "off", "--color", "off", "--fix", "bad.pat")
	if !errors.Is(err, errReported) {
		t.Fatalf("err = %v", err)
	}
	if strings.Count(errOut, "fixed bad.pat") != 2 {
		t.Errorf("stderr = %q", errOut)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "(ab)\n[cd]\nok\n" {
		t.Fatalf("file = %q", data)
	}

	if _, _, err := runCLI(t, dir, "", "check", "--ui", "off", "bad.pat"); err != nil {
		t.Fatalf("fixed file must pass: %v", err)
	}
}

func TestProfilingFlags(t *testing.T) {
	dir := t.TempDir()
	cpu := filepath.Join(dir, "cpu.pprof")
	mem := filepath.Join(dir, "mem.pprof")
	if _, _, err := runCLI(t, dir, "", "--cpuprofile", cpu, "--memprofile", mem, "parse", "a"); err != nil {
		t.Fatal(err)
	}
	for _, path := range []string{cpu, mem} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("profile missing: %v", err)
		}
	}
}
