package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validDocument = `{
  "Virtual Screening": [
    {
      "tag": "section",
      "text": "Docking",
      "openItem": "True",
      "children": [
        {"tag": "protocol", "text": "Glide docking", "value": "ProtSchrodingerGlideDocking"}
      ]
    },
    {
      "tag": "section",
      "text": "Ligand Based Filters",
      "children": []
    }
  ]
}`

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	if err := os.WriteFile(filepath.Join(".", name), []byte(content), 0o600); err != nil {
		t.Fatalf("write fixture %s: %v", name, err)
	}
	return name
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := cli(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestValidDocumentPasses(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeFixture(t, "menu.json", validDocument)

	code, stdout, stderr := runCLI(t, "-menu", path)
	if code != 0 {
		t.Fatalf("expected exit 0, got %d: %s", code, stderr)
	}
	if !strings.Contains(stdout, "Menu validation passed.") {
		t.Fatalf("unexpected stdout: %q", stdout)
	}
}

func TestSchemaViolationFails(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeFixture(t, "menu.json", `{
  "Virtual Screening": [
    {"tag": "section", "text": "Docking", "badge": "new", "children": []}
  ]
}`)

	code, _, stderr := runCLI(t, "-menu", path)
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(stderr, "schema validation") || !strings.Contains(stderr, "badge") {
		t.Fatalf("expected schema violation naming the property, got %q", stderr)
	}
}

func TestStructuralViolationFails(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeFixture(t, "menu.json", `{
  "Virtual Screening": [
    {"tag": "protocol", "text": "Glide docking", "value": "ProtSchrodingerGlideDocking"}
  ]
}`)

	code, _, stderr := runCLI(t, "-menu", path)
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(stderr, "structural validation") {
		t.Fatalf("expected structural failure, got %q", stderr)
	}
}

func TestInvalidOpenItemFails(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeFixture(t, "menu.json", `{
  "Virtual Screening": [
    {"tag": "section", "text": "Docking", "openItem": "yes", "children": []}
  ]
}`)

	code, _, stderr := runCLI(t, "-menu", path)
	if code != 1 {
		t.Fatalf("expected exit 1, got %d: %s", code, stderr)
	}
}

func TestProtocolCrossCheck(t *testing.T) {
	t.Chdir(t.TempDir())
	menuPath := writeFixture(t, "menu.json", validDocument)
	descPath := writeFixture(t, "protocols.json", `[{"key": "ProtSchrodingerGlideDocking"}]`)

	code, _, stderr := runCLI(t, "-menu", menuPath, "-protocols", descPath)
	if code != 0 {
		t.Fatalf("expected exit 0, got %d: %s", code, stderr)
	}

	emptyPath := writeFixture(t, "other.json", `[{"key": "ProtSchrodingerLigPrep"}]`)
	code, _, stderr = runCLI(t, "-menu", menuPath, "-protocols", emptyPath)
	if code != 1 {
		t.Fatalf("expected exit 1 for unresolved leaf, got %d", code)
	}
	if !strings.Contains(stderr, "ProtSchrodingerGlideDocking") {
		t.Fatalf("expected unresolved key in error, got %q", stderr)
	}
}

func TestPathValidation(t *testing.T) {
	if code, _, _ := runCLI(t, "-menu", "/etc/passwd"); code != 1 {
		t.Fatalf("expected exit 1 for absolute path, got %d", code)
	}
	if code, _, _ := runCLI(t, "-menu", "../menu.json"); code != 1 {
		t.Fatalf("expected exit 1 for traversal, got %d", code)
	}
}

func TestUnknownFlag(t *testing.T) {
	if code, _, _ := runCLI(t, "-nope"); code != 2 {
		t.Fatalf("expected exit 2 for unknown flag, got %d", code)
	}
}

func TestMissingFile(t *testing.T) {
	t.Chdir(t.TempDir())
	if code, _, _ := runCLI(t, "-menu", "absent.json"); code != 1 {
		t.Fatalf("expected exit 1 for missing file, got %d", code)
	}
}
