package transform

import (
	"testing"

	"github.com/stencil-ui/stencil/internal/project"
)

func testConfig() *project.Config {
	return project.Default("/project")
}

func TestResolveTargetAliases(t *testing.T) {
	cfg := testConfig()

	tests := []struct {
		name    string
		virtual string
		want    string
	}{
		{"components", "registry/nextjs/components/button.tsx", "/project/src/components/button.tsx"},
		{"components subdir", "registry/nextjs/components/forms/input.tsx", "/project/src/components/forms/input.tsx"},
		{"lib", "registry/nextjs/lib/utils.ts", "/project/src/lib/utils.ts"},
		{"lib universal platform", "registry/universal/lib/utils.ts", "/project/src/lib/utils.ts"},
		{"hooks", "registry/react/hooks/use-toast.ts", "/project/src/hooks/use-toast.ts"},
		{"blocks", "registry/nextjs/blocks/hero.tsx", "/project/src/blocks/hero.tsx"},
		{"ui falls back to components", "registry/nextjs/ui/button.tsx", "/project/src/components/button.tsx"},
		{"leading alias prefix is immaterial", "@/registry/nextjs/components/button.tsx", "/project/src/components/button.tsx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveTarget(tt.virtual, cfg, true)
			if got != tt.want {
				t.Errorf("ResolveTarget(%q) = %q, want %q", tt.virtual, got, tt.want)
			}
		})
	}
}

func TestResolveTargetExplicitUIAlias(t *testing.T) {
	cfg := testConfig()
	cfg.Aliases.UI = "@/components/ui"

	got := ResolveTarget("registry/nextjs/ui/button.tsx", cfg, true)
	want := "/project/src/components/ui/button.tsx"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestResolveTargetUnmatchedPreserved(t *testing.T) {
	cfg := testConfig()

	got := ResolveTarget("registry/nextjs/styles/tokens.css", cfg, true)
	want := "/project/registry/nextjs/styles/tokens.css"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestResolveTargetUnmatchedFlattened(t *testing.T) {
	cfg := testConfig()

	got := ResolveTarget("registry/nextjs/styles/tokens.css", cfg, false)
	want := "/project/tokens.css"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestResolveTargetDeterministic(t *testing.T) {
	cfg := testConfig()

	first := ResolveTarget("registry/nextjs/components/button.tsx", cfg, true)
	second := ResolveTarget("registry/nextjs/components/button.tsx", cfg, true)
	if first != second {
		t.Errorf("resolution not deterministic: %q vs %q", first, second)
	}
}
