// Package schema checks the remote catalog payloads against the shapes this
// server expects. Findings are advisory: ingestion already drops unusable
// rows one by one, validation explains what was wrong in one place.
package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// maxFindings caps the findings reported per payload. A catalog with a
// thousand malformed rows produces the same conclusion as one with twenty.
const maxFindings = 20

// catalogSchema describes mares.json: an object mapping paths to record or
// error rows. Field presence is deliberately loose; row-level validation
// during ingestion decides what is usable.
const catalogSchema = `{
  "type": "object",
  "additionalProperties": {
    "type": "object",
    "properties": {
      "name": {"type": "string"},
      "author": {"type": "string"},
      "description": {"type": "string"},
      "personality": {"type": "string"},
      "scenario": {"type": "string"},
      "greetings": {
        "anyOf": [
          {"type": "string"},
          {"type": "array", "items": {"type": "string"}}
        ]
      },
      "datecreate": {"type": "string"},
      "dateupdate": {"type": "string"},
      "error": {"type": "string"}
    }
  }
}`

// filterSchema describes assets/filters.json: three category path lists and
// the path-to-tags mapping.
const filterSchema = `{
  "type": "object",
  "properties": {
    "nsfw": {"type": "array", "items": {"type": "string"}},
    "eqg": {"type": "array", "items": {"type": "string"}},
    "anthro": {"type": "array", "items": {"type": "string"}},
    "tags": {
      "type": "object",
      "additionalProperties": {"type": "array", "items": {"type": "string"}}
    }
  },
  "required": ["tags"]
}`

var (
	compileCatalogOnce = sync.OnceValues(func() (*jsonschema.Schema, error) {
		return compile("catalog.json", catalogSchema)
	})
	compileFilterOnce = sync.OnceValues(func() (*jsonschema.Schema, error) {
		return compile("filters.json", filterSchema)
	})
)

// CheckCatalog returns findings for a catalog payload. Empty means clean.
func CheckCatalog(data []byte) []string {
	schema, err := compileCatalogOnce()
	if err != nil {
		return []string{fmt.Sprintf("compiling catalog schema: %s", err)}
	}
	return check(schema, data)
}

// CheckFilterIndex returns findings for a filter index payload.
func CheckFilterIndex(data []byte) []string {
	schema, err := compileFilterOnce()
	if err != nil {
		return []string{fmt.Sprintf("compiling filter schema: %s", err)}
	}
	return check(schema, data)
}

// compile builds a validator from an embedded schema document.
func compile(name, schemaStr string) (*jsonschema.Schema, error) {
	var doc any
	if err := json.Unmarshal([]byte(schemaStr), &doc); err != nil {
		return nil, err
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, doc); err != nil {
		return nil, err
	}
	return compiler.Compile(name)
}

// check validates a payload and flattens the result into findings.
func check(schema *jsonschema.Schema, data []byte) []string {
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return []string{fmt.Sprintf("invalid JSON: %s", err)}
	}

	err := schema.Validate(value)
	if err == nil {
		return nil
	}

	var validationErr *jsonschema.ValidationError
	if !errors.As(err, &validationErr) {
		return []string{err.Error()}
	}

	findings := flattenFindings(validationErr)
	if len(findings) > maxFindings {
		findings = append(findings[:maxFindings],
			fmt.Sprintf("... and %d more", len(findings)-maxFindings))
	}
	return findings
}

// printer renders validation messages in English.
var printer = message.NewPrinter(language.English)

// flattenFindings collects leaf errors, deduplicated per instance path.
func flattenFindings(err *jsonschema.ValidationError) []string {
	byPath := make(map[string][]string)
	collectLeaves(err, byPath)

	paths := make([]string, 0, len(byPath))
	for path := range byPath {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var out []string
	for _, path := range paths {
		seen := make(map[string]bool)
		for _, msg := range byPath[path] {
			if seen[msg] {
				continue
			}
			seen[msg] = true
			if path != "" {
				out = append(out, fmt.Sprintf("%s: %s", path, msg))
			} else {
				out = append(out, msg)
			}
		}
	}
	return out
}

// collectLeaves recursively gathers errors that carry no causes of their own.
func collectLeaves(err *jsonschema.ValidationError, byPath map[string][]string) {
	instancePath := ""
	if len(err.InstanceLocation) > 0 {
		instancePath = "/" + strings.Join(err.InstanceLocation, "/")
	}

	if err.ErrorKind != nil && len(err.Causes) == 0 {
		msg := err.ErrorKind.LocalizedString(printer)
		// Reference bookkeeping messages explain nothing about the payload.
		if !strings.HasPrefix(msg, "$ref ") && !strings.HasPrefix(msg, "doesn't validate with") {
			byPath[instancePath] = append(byPath[instancePath], msg)
		}
	}

	for _, cause := range err.Causes {
		collectLeaves(cause, byPath)
	}
}
