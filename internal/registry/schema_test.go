package registry

import (
	"strings"
	"testing"
)

// testSchema mirrors the shape of the registry's schema.json document.
func testSchema() *ItemSchema {
	return &ItemSchema{
		Required: []string{"name", "type"},
		Properties: map[string]PropertySpec{
			"name":        {Type: "string"},
			"type":        {Type: "string", Enum: []any{"registry:component", "registry:block", "registry:lib"}},
			"description": {Type: "string"},
			"dependencies": {
				Type:  "array",
				Items: &PropertySpec{Type: "string"},
			},
			"files":   {Type: "array"},
			"cssVars": {Type: "object"},
		},
	}
}

func TestValidateItemMissingRequired(t *testing.T) {
	report := ValidateItem(testSchema(), map[string]any{})

	if report.Valid() {
		t.Fatal("empty item should not be valid")
	}
	if len(report.Errors) != 2 {
		t.Fatalf("got %d errors, want 2: %v", len(report.Errors), report.Errors)
	}
	if report.Errors[0] != "Missing required field: name" {
		t.Errorf("first error = %q", report.Errors[0])
	}
	if report.Errors[1] != "Missing required field: type" {
		t.Errorf("second error = %q", report.Errors[1])
	}
}

func TestValidateItemValid(t *testing.T) {
	item := map[string]any{
		"name":         "button",
		"type":         "registry:component",
		"description":  "A button",
		"dependencies": []any{"react"},
		"cssVars":      map[string]any{"theme": map[string]any{"primary": "#000"}},
	}

	report := ValidateItem(testSchema(), item)
	if !report.Valid() {
		t.Fatalf("expected valid, got errors: %v", report.Errors)
	}
	if len(report.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", report.Warnings)
	}
}

func TestValidateItemTypeChecks(t *testing.T) {
	tests := []struct {
		name    string
		item    map[string]any
		wantErr string
	}{
		{
			name:    "string field",
			item:    map[string]any{"name": "x", "type": "registry:component", "description": 42.0},
			wantErr: "Field description must be a string",
		},
		{
			name:    "array field",
			item:    map[string]any{"name": "x", "type": "registry:component", "dependencies": "react"},
			wantErr: "Field dependencies must be an array",
		},
		{
			name:    "object field",
			item:    map[string]any{"name": "x", "type": "registry:component", "cssVars": []any{}},
			wantErr: "Field cssVars must be an object",
		},
		{
			name:    "enum membership",
			item:    map[string]any{"name": "x", "type": "registry:banana"},
			wantErr: "Field type must be one of: registry:component, registry:block, registry:lib",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := ValidateItem(testSchema(), tt.item)
			if report.Valid() {
				t.Fatal("expected validation errors")
			}
			found := false
			for _, e := range report.Errors {
				if e == tt.wantErr {
					found = true
				}
			}
			if !found {
				t.Errorf("errors %v missing %q", report.Errors, tt.wantErr)
			}
		})
	}
}

func TestValidateItemArrayElementIndexes(t *testing.T) {
	item := map[string]any{
		"name":         "x",
		"type":         "registry:component",
		"dependencies": []any{"react", 1.0, true},
	}

	report := ValidateItem(testSchema(), item)
	if report.Valid() {
		t.Fatal("expected validation errors")
	}

	// Each failing index is reported separately.
	var indexed []string
	for _, e := range report.Errors {
		if strings.Contains(e, "dependencies[") {
			indexed = append(indexed, e)
		}
	}
	if len(indexed) != 2 {
		t.Fatalf("got %d indexed errors, want 2: %v", len(indexed), report.Errors)
	}
	if indexed[0] != "Field dependencies[1] must be a string" {
		t.Errorf("first indexed error = %q", indexed[0])
	}
	if indexed[1] != "Field dependencies[2] must be a string" {
		t.Errorf("second indexed error = %q", indexed[1])
	}
}

func TestValidateItemUnknownFieldWarns(t *testing.T) {
	item := map[string]any{
		"name":    "x",
		"type":    "registry:component",
		"sparkle": true,
	}

	report := ValidateItem(testSchema(), item)
	if !report.Valid() {
		t.Fatalf("warnings must not affect validity, got errors: %v", report.Errors)
	}
	if len(report.Warnings) != 1 || report.Warnings[0] != "Unknown field: sparkle" {
		t.Errorf("warnings = %v, want [Unknown field: sparkle]", report.Warnings)
	}
}

func TestValidateItemMetadataExempt(t *testing.T) {
	item := map[string]any{
		"name":     "x",
		"type":     "registry:component",
		"$schema":  "https://example.com/schema.json",
		"$id":      "button",
		"metadata": map[string]any{"any": "thing"},
		"meta":     42.0,
	}

	report := ValidateItem(testSchema(), item)
	if !report.Valid() {
		t.Fatalf("metadata fields must not be validated, got errors: %v", report.Errors)
	}
	if len(report.Warnings) != 0 {
		t.Errorf("metadata fields must never be flagged unknown, got: %v", report.Warnings)
	}
}
