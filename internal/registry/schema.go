package registry

import (
	"fmt"
	"sort"
	"strings"
)

// ItemSchema is the fetchable schema document describing the registry item
// shape: required field names plus per-field type and enum constraints.
type ItemSchema struct {
	Required   []string                `json:"required"`
	Properties map[string]PropertySpec `json:"properties"`
}

// PropertySpec constrains a single schema field.
type PropertySpec struct {
	Type  string        `json:"type,omitempty"`
	Enum  []any         `json:"enum,omitempty"`
	Items *PropertySpec `json:"items,omitempty"`
}

// ValidationReport is the outcome of validating one item against the schema.
// Warnings never affect validity.
type ValidationReport struct {
	Errors   []string
	Warnings []string
}

// Valid reports whether the item passed validation.
func (r *ValidationReport) Valid() bool { return len(r.Errors) == 0 }

// ValidateItem checks a raw registry item against the schema: required
// fields, per-field type and enum constraints, and unknown-field warnings.
// Fields named name/type are implicitly known; fields starting with "$" and
// the metadata/meta fields are treated as metadata and never validated.
// Pure and synchronous.
func ValidateItem(schema *ItemSchema, item map[string]any) *ValidationReport {
	report := &ValidationReport{}

	for _, name := range schema.Required {
		if _, ok := item[name]; !ok {
			report.Errors = append(report.Errors, "Missing required field: "+name)
		}
	}

	// Deterministic order for field-level checks.
	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		value, ok := item[name]
		if !ok || isMetadataField(name) {
			continue
		}
		checkField(report, name, schema.Properties[name], value)
	}

	keys := make([]string, 0, len(item))
	for key := range item {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if key == "name" || key == "type" || isMetadataField(key) {
			continue
		}
		if _, declared := schema.Properties[key]; declared {
			continue
		}
		if containsString(schema.Required, key) {
			continue
		}
		report.Warnings = append(report.Warnings, "Unknown field: "+key)
	}

	return report
}

// checkField applies one property spec to a present field value.
func checkField(report *ValidationReport, name string, spec PropertySpec, value any) {
	switch spec.Type {
	case "string":
		if _, ok := value.(string); !ok {
			report.Errors = append(report.Errors, fmt.Sprintf("Field %s must be a string", name))
			return
		}
	case "array":
		arr, ok := value.([]any)
		if !ok {
			report.Errors = append(report.Errors, fmt.Sprintf("Field %s must be an array", name))
			return
		}
		if spec.Items != nil && spec.Items.Type == "string" {
			for i, el := range arr {
				if _, ok := el.(string); !ok {
					report.Errors = append(report.Errors, fmt.Sprintf("Field %s[%d] must be a string", name, i))
				}
			}
		}
	case "object":
		if _, ok := value.(map[string]any); !ok {
			report.Errors = append(report.Errors, fmt.Sprintf("Field %s must be an object", name))
			return
		}
	}

	if len(spec.Enum) > 0 && !enumContains(spec.Enum, value) {
		allowed := make([]string, len(spec.Enum))
		for i, e := range spec.Enum {
			allowed[i] = fmt.Sprint(e)
		}
		report.Errors = append(report.Errors,
			fmt.Sprintf("Field %s must be one of: %s", name, strings.Join(allowed, ", ")))
	}
}

// enumContains reports enum membership by string-normalized comparison.
func enumContains(enum []any, value any) bool {
	for _, e := range enum {
		if e == value {
			return true
		}
		if fmt.Sprint(e) == fmt.Sprint(value) {
			return true
		}
	}
	return false
}

// isMetadataField reports whether a field is exempt from validation.
func isMetadataField(name string) bool {
	if strings.HasPrefix(name, "$") {
		return true
	}
	return name == "metadata" || name == "meta"
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
