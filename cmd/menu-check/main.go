// Command menu-check validates a menu document file against the embedded
// menu-node JSON Schema and the structural invariants of the menu tree, and
// optionally cross-checks protocol leaves against a descriptor list.
package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"menucore/docs/schema"
	"menucore/pkg/menu"
)

var exitFunc = os.Exit

const (
	schemaTypeObject = "object"
	schemaTypeArray  = "array"
	schemaTypeString = "string"
)

// jsonSchema covers the subset of JSON Schema the embedded menu-node schema
// uses: typed objects and arrays, string enums, local $ref into definitions,
// and additionalProperties carrying either a bool or a nested schema.
type jsonSchema struct {
	Schema               string                 `json:"$schema,omitempty"`
	ID                   string                 `json:"$id,omitempty"`
	Ref                  string                 `json:"$ref,omitempty"`
	Version              string                 `json:"version,omitempty"`
	Title                string                 `json:"title,omitempty"`
	Description          string                 `json:"description,omitempty"`
	Type                 string                 `json:"type,omitempty"`
	Required             []string               `json:"required,omitempty"`
	Properties           map[string]*jsonSchema `json:"properties,omitempty"`
	Items                *jsonSchema            `json:"items,omitempty"`
	Enum                 []string               `json:"enum,omitempty"`
	MinLength            *int                   `json:"minLength,omitempty"`
	MinProperties        *int                   `json:"minProperties,omitempty"`
	AdditionalProperties *schemaOrBool          `json:"additionalProperties,omitempty"`
	Definitions          map[string]*jsonSchema `json:"definitions,omitempty"`
}

// schemaOrBool decodes the two wire forms additionalProperties takes: a bare
// boolean or a nested schema applied to unknown properties.
type schemaOrBool struct {
	Allowed bool
	Schema  *jsonSchema
}

func (s *schemaOrBool) UnmarshalJSON(data []byte) error {
	switch string(bytes.TrimSpace(data)) {
	case "true":
		s.Allowed = true
		return nil
	case "false":
		s.Allowed = false
		return nil
	}
	s.Allowed = true
	s.Schema = &jsonSchema{}
	return json.Unmarshal(data, s.Schema)
}

// main runs the command-line interface using the program arguments and exits
// the process with the status code returned by cli.
func main() {
	code := cli(os.Args[1:], os.Stdout, os.Stderr)
	exitFunc(code)
}

func cli(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("menu-check", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var menuPath string
	var protocolsPath string
	fs.StringVar(&menuPath, "menu", "plugins/schrodinger/virtual_screening.json", "path to menu document json")
	fs.StringVar(&protocolsPath, "protocols", "", "optional path to a protocol descriptor json array; leaf values must resolve against it")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if err := run(menuPath, protocolsPath); err != nil {
		if _, writeErr := fmt.Fprintf(stderr, "Menu validation failed: %v\n", err); writeErr != nil {
			return 1
		}
		return 1
	}
	if _, writeErr := fmt.Fprintln(stdout, "Menu validation passed."); writeErr != nil {
		return 1
	}
	return 0
}

// validatePath ensures the input file path stays within the working tree and
// is not an absolute or path-traversing reference.
func validatePath(p string) (string, error) {
	if strings.TrimSpace(p) == "" {
		return "", fmt.Errorf("empty path")
	}
	if filepath.IsAbs(p) {
		return "", fmt.Errorf("absolute paths not allowed: %s", p)
	}
	clean := filepath.Clean(p)
	if strings.Contains(clean, "..") {
		return "", fmt.Errorf("path traversal not allowed: %s", p)
	}
	return clean, nil
}

// run validates the menu document at menuPath: first against the embedded
// JSON Schema, then against the structural invariants of the parsed tree.
// When protocolsPath is set, every protocol leaf value must appear in the
// descriptor list it names.
func run(menuPath, protocolsPath string) error {
	safePath, err := validatePath(menuPath)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(safePath) // #nosec G304: path validated by validatePath
	if err != nil {
		return fmt.Errorf("read menu document: %w", err)
	}

	root, err := loadEmbeddedSchema()
	if err != nil {
		return fmt.Errorf("load schema: %w", err)
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse menu document: %w", err)
	}
	if err := validateValue(raw, root, root, "$"); err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}

	doc, err := menu.ParseDocument(data)
	if err != nil {
		return fmt.Errorf("parse menu tree: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return fmt.Errorf("structural validation: %w", err)
	}

	if protocolsPath == "" {
		return nil
	}
	known, err := loadProtocolKeys(protocolsPath)
	if err != nil {
		return err
	}
	for _, key := range doc.ProtocolKeys() {
		if _, ok := known[key]; !ok {
			return fmt.Errorf("protocol resolution: leaf value %q not in descriptor list", key)
		}
	}
	return nil
}

func loadEmbeddedSchema() (*jsonSchema, error) {
	var root jsonSchema
	if err := json.Unmarshal(schema.MenuNodeSchema(), &root); err != nil {
		return nil, fmt.Errorf("parse embedded schema: %w", err)
	}
	if err := checkSchema(&root, &root, "$"); err != nil {
		return nil, err
	}
	return &root, nil
}

// checkSchema rejects schema constructs the validator does not implement so a
// schema edit cannot silently stop validating.
func checkSchema(s, root *jsonSchema, path string) error {
	if s == nil {
		return fmt.Errorf("%s: schema is nil", path)
	}
	if s.Ref != "" {
		if _, err := resolveRef(root, s.Ref); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		return nil
	}
	if s.MinLength != nil && *s.MinLength < 0 {
		return fmt.Errorf("%s: minLength must be >= 0", path)
	}
	if s.MinProperties != nil && *s.MinProperties < 0 {
		return fmt.Errorf("%s: minProperties must be >= 0", path)
	}
	if len(s.Enum) > 0 && s.Type != schemaTypeString {
		return fmt.Errorf("%s: enum only supported for string type", path)
	}
	switch s.Type {
	case schemaTypeObject:
		for key, prop := range s.Properties {
			if err := checkSchema(prop, root, path+"."+key); err != nil {
				return err
			}
		}
		if ap := s.AdditionalProperties; ap != nil && ap.Schema != nil {
			if err := checkSchema(ap.Schema, root, path+".additionalProperties"); err != nil {
				return err
			}
		}
	case schemaTypeArray:
		if s.Items == nil {
			return fmt.Errorf("%s: array schema missing items", path)
		}
		if err := checkSchema(s.Items, root, path+"[]"); err != nil {
			return err
		}
	case schemaTypeString:
	default:
		return fmt.Errorf("%s: unsupported schema type %q", path, s.Type)
	}
	for name, def := range s.Definitions {
		if err := checkSchema(def, root, path+".definitions."+name); err != nil {
			return err
		}
	}
	return nil
}

// resolveRef resolves a local reference of the form #/definitions/<name>
// against the root schema.
func resolveRef(root *jsonSchema, ref string) (*jsonSchema, error) {
	const prefix = "#/definitions/"
	if !strings.HasPrefix(ref, prefix) {
		return nil, fmt.Errorf("unsupported $ref %q", ref)
	}
	name := strings.TrimPrefix(ref, prefix)
	def, ok := root.Definitions[name]
	if !ok || def == nil {
		return nil, fmt.Errorf("unresolved $ref %q", ref)
	}
	return def, nil
}

func validateValue(value any, s, root *jsonSchema, path string) error {
	if s == nil {
		return fmt.Errorf("%s: schema is nil", path)
	}
	if s.Ref != "" {
		def, err := resolveRef(root, s.Ref)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		return validateValue(value, def, root, path)
	}
	switch s.Type {
	case schemaTypeObject:
		m, ok := value.(map[string]any)
		if !ok {
			return fmt.Errorf("%s: expected object", path)
		}
		if s.MinProperties != nil && len(m) < *s.MinProperties {
			return fmt.Errorf("%s: expected at least %d properties", path, *s.MinProperties)
		}
		for _, req := range s.Required {
			if _, ok := m[req]; !ok {
				return fmt.Errorf("%s: missing required property %q", path, req)
			}
		}
		for key, val := range m {
			propSchema, ok := s.Properties[key]
			if !ok {
				ap := s.AdditionalProperties
				switch {
				case ap == nil:
					continue
				case !ap.Allowed:
					return fmt.Errorf("%s: unknown property %q", path, key)
				case ap.Schema != nil:
					if err := validateValue(val, ap.Schema, root, path+"."+key); err != nil {
						return err
					}
				}
				continue
			}
			if err := validateValue(val, propSchema, root, path+"."+key); err != nil {
				return err
			}
		}
	case schemaTypeArray:
		list, ok := value.([]any)
		if !ok {
			return fmt.Errorf("%s: expected array", path)
		}
		for i, item := range list {
			if err := validateValue(item, s.Items, root, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
	case schemaTypeString:
		str, ok := value.(string)
		if !ok {
			return fmt.Errorf("%s: expected string", path)
		}
		if s.MinLength != nil && len(str) < *s.MinLength {
			return fmt.Errorf("%s: expected min length %d", path, *s.MinLength)
		}
		if len(s.Enum) > 0 && !stringInSlice(str, s.Enum) {
			return fmt.Errorf("%s: value %q not in enum", path, str)
		}
	default:
		return fmt.Errorf("%s: unsupported schema type %q", path, s.Type)
	}
	return nil
}

func stringInSlice(value string, values []string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}

// loadProtocolKeys reads a descriptor list and returns the set of protocol
// keys it declares. The file holds a JSON array of objects with a "key"
// field, matching the /v1/protocols response shape.
func loadProtocolKeys(path string) (map[string]struct{}, error) {
	safePath, err := validatePath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(safePath) // #nosec G304: path validated by validatePath
	if err != nil {
		return nil, fmt.Errorf("read descriptor list: %w", err)
	}
	var descs []struct {
		Key string `json:"key"`
	}
	if err := json.Unmarshal(data, &descs); err != nil {
		return nil, fmt.Errorf("parse descriptor list: %w", err)
	}
	if len(descs) == 0 {
		return nil, errors.New("descriptor list is empty")
	}
	known := make(map[string]struct{}, len(descs))
	for i, desc := range descs {
		if strings.TrimSpace(desc.Key) == "" {
			return nil, fmt.Errorf("descriptors[%d]: missing key", i)
		}
		known[desc.Key] = struct{}{}
	}
	return known, nil
}
