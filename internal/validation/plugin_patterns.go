// Package validation lints plugin source for menu-construction anti-patterns.
package validation

import (
	"bufio"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// Error represents a plugin pattern violation found in code.
type Error struct {
	File    string
	Line    int
	Message string
	Code    string
}

// ValidatePluginDirectory validates all Go files in a plugin directory for
// menu-construction compliance. Test files are skipped; they may build raw
// node literals as fixtures.
func ValidatePluginDirectory(dir string) []Error {
	var errors []Error

	err := filepath.Walk(dir, func(path string, _ os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		errors = append(errors, validatePluginFile(path)...)
		return nil
	})
	if err != nil {
		errors = append(errors, Error{
			File:    dir,
			Message: "Failed to walk directory: " + err.Error(),
		})
	}

	return errors
}

func validatePluginFile(filePath string) []Error {
	var errors []Error
	errors = append(errors, validateFileText(filePath)...)
	errors = append(errors, validateFileAST(filePath)...)
	return errors
}

func validateFileText(filePath string) []Error {
	var errors []Error

	file, err := os.Open(filepath.Clean(filePath))
	if err != nil {
		return append(errors, Error{
			File:    filePath,
			Message: "Failed to open file: " + err.Error(),
		})
	}
	defer func() {
		_ = file.Close()
	}()

	antiPatterns := getAntiPatterns()

	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" || isCommentLine(line) {
			continue
		}
		for pattern, message := range antiPatterns {
			if matched, _ := regexp.MatchString(pattern, line); matched {
				errors = append(errors, Error{
					File:    filePath,
					Line:    lineNum,
					Message: message,
					Code:    strings.TrimSpace(line),
				})
			}
		}
	}

	return errors
}

func getAntiPatterns() map[string]string {
	return map[string]string{
		`Tag:\s*"(section|protocol_group|protocol)"`: "Use menu.Section/menu.Group/menu.Protocol constructors or the menu.Tag constants instead of raw tag strings",
		`OpenItem:\s*"`:                      "Use menu.OpenTrue/menu.OpenFalse or Node.SetOpen instead of raw openItem literals",
		`Severity:\s*"(block|warn|log)"`:     "Use the pluginapi severity constants instead of raw strings",
		`Entity:\s*"(menu_document|protocol|plugin)"`: "Use the pluginapi entity constants instead of raw strings",
	}
}

func validateFileAST(filePath string) []Error {
	var errors []Error

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filePath, nil, parser.ParseComments)
	if err != nil {
		// Unparseable files are skipped; the compiler reports those.
		return errors
	}

	for _, imp := range file.Imports {
		path, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			continue
		}
		if path == "menucore/pkg/domain" {
			pos := fset.Position(imp.Pos())
			errors = append(errors, Error{
				File:    pos.Filename,
				Line:    pos.Line,
				Message: "Plugins must depend on pkg/pluginapi, not the domain model",
				Code:    imp.Path.Value,
			})
		}
	}

	ast.Inspect(file, func(n ast.Node) bool {
		lit, ok := n.(*ast.CompositeLit)
		if !ok || !isMenuNodeLiteral(lit.Type) {
			return true
		}
		errors = append(errors, validateNodeLiteral(fset, lit)...)
		return true
	})

	return errors
}

// validateNodeLiteral flags raw string assignments inside a menu.Node
// composite literal where the menu package offers constructors and constants.
func validateNodeLiteral(fset *token.FileSet, lit *ast.CompositeLit) []Error {
	var errors []Error
	for _, elt := range lit.Elts {
		kv, ok := elt.(*ast.KeyValueExpr)
		if !ok {
			continue
		}
		key, ok := kv.Key.(*ast.Ident)
		if !ok {
			continue
		}
		val, ok := kv.Value.(*ast.BasicLit)
		if !ok || val.Kind != token.STRING {
			continue
		}
		pos := fset.Position(kv.Pos())
		switch key.Name {
		case "Tag":
			errors = append(errors, Error{
				File:    pos.Filename,
				Line:    pos.Line,
				Message: "Use menu.Section/menu.Group/menu.Protocol constructors or the menu.Tag constants",
				Code:    "Tag: " + val.Value,
			})
		case "OpenItem":
			errors = append(errors, Error{
				File:    pos.Filename,
				Line:    pos.Line,
				Message: "Use menu.OpenTrue/menu.OpenFalse or Node.SetOpen",
				Code:    "OpenItem: " + val.Value,
			})
		}
	}
	return errors
}

func isMenuNodeLiteral(expr ast.Expr) bool {
	sel, ok := expr.(*ast.SelectorExpr)
	if !ok || sel.Sel.Name != "Node" {
		return false
	}
	ident, ok := sel.X.(*ast.Ident)
	return ok && ident.Name == "menu"
}

func isCommentLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "/*")
}
