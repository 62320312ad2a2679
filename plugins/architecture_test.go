package plugins

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestPluginsDoNotImportDomain enforces that plugin packages do not import
// the domain model directly. Plugins must depend only on the stable facades
// in pkg/pluginapi and pkg/menu.
func TestPluginsDoNotImportDomain(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("cannot get working dir: %v", err)
	}

	root := wd // this file lives in the plugins directory
	forbidden := "menucore/pkg/domain"

	var violations []string

	walkErr := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".go") {
			return nil
		}
		if path == filepath.Join(root, "architecture_test.go") {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		inImport := false
		for _, raw := range strings.Split(string(data), "\n") {
			line := strings.TrimSpace(raw)
			if !inImport {
				if strings.HasPrefix(line, "import (") {
					inImport = true
					continue
				}
				if strings.HasPrefix(line, "import ") {
					if extractQuoted(line) == forbidden {
						violations = append(violations, path)
					}
				}
				continue
			}
			if line == ")" {
				inImport = false
				continue
			}
			if extractQuoted(line) == forbidden {
				violations = append(violations, path)
			}
		}
		return nil
	})
	if walkErr != nil {
		t.Fatalf("walk plugins dir: %v", walkErr)
	}

	for _, v := range violations {
		t.Errorf("plugin file imports forbidden %s: %s", forbidden, v)
	}
}

func extractQuoted(line string) string {
	start := strings.Index(line, "\"")
	if start == -1 {
		return ""
	}
	end := strings.Index(line[start+1:], "\"")
	if end == -1 {
		return ""
	}
	return line[start+1 : start+1+end]
}
