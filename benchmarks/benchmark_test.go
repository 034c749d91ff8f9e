package benchmarks

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/GBeurier/nirs4all-webapp-sub006/internal/pipeline"
	"github.com/GBeurier/nirs4all-webapp-sub006/internal/validation"
)

var (
	validFixture  = filepath.Join("..", "testdata", "valid_pipeline.yaml")
	branchFixture = filepath.Join("..", "testdata", "branch_pipeline.json")
)

// --- Parse benchmarks ---

func BenchmarkLoadYAML(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, err := pipeline.Load(validFixture); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkLoadJSON(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, err := pipeline.Load(branchFixture); err != nil {
			b.Fatal(err)
		}
	}
}

// --- Validation benchmarks ---

func BenchmarkValidateSmall(b *testing.B) {
	p, err := pipeline.Load(validFixture)
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		validation.Validate(p.Steps, validation.Options{})
	}
}

func BenchmarkValidateBranched(b *testing.B) {
	p, err := pipeline.Load(branchFixture)
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		validation.Validate(p.Steps, validation.Options{})
	}
}

func BenchmarkValidateWithSchemas(b *testing.B) {
	p, err := pipeline.Load(validFixture)
	if err != nil {
		b.Fatal(err)
	}
	opts := validation.Options{Schemas: validation.NewSchemaRegistry()}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		validation.Validate(p.Steps, opts)
	}
}

// BenchmarkValidateWide measures a flat tree with many steps, the shape an
// editor produces for long preprocessing chains.
func BenchmarkValidateWide(b *testing.B) {
	for _, size := range []int{10, 100, 1000} {
		b.Run(fmt.Sprintf("steps-%d", size), func(b *testing.B) {
			steps := syntheticSteps(size)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				validation.Validate(steps, validation.Options{})
			}
		})
	}
}

// BenchmarkValidateDeep measures nested branch groups.
func BenchmarkValidateDeep(b *testing.B) {
	for _, depth := range []int{4, 16} {
		b.Run(fmt.Sprintf("depth-%d", depth), func(b *testing.B) {
			steps := nestedBranches(depth)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				validation.Validate(steps, validation.Options{})
			}
		})
	}
}

func syntheticSteps(n int) []pipeline.Step {
	steps := make([]pipeline.Step, 0, n+2)
	for i := 0; i < n; i++ {
		steps = append(steps, pipeline.Step{
			ID:     fmt.Sprintf("prep-%d", i),
			Name:   "SNV",
			Type:   pipeline.TypePreprocessing,
			Params: map[string]any{"scale": true},
		})
	}
	steps = append(steps,
		pipeline.Step{ID: "split", Name: "KFold", Type: pipeline.TypeSplitting, Params: map[string]any{"n_splits": 5}},
		pipeline.Step{ID: "model", Name: "PLSRegression", Type: pipeline.TypeModel, Params: map[string]any{"n_components": 10}},
	)
	return steps
}

func nestedBranches(depth int) []pipeline.Step {
	inner := []pipeline.Step{
		{ID: fmt.Sprintf("leaf-%d", depth), Name: "SNV", Type: pipeline.TypePreprocessing},
	}
	for d := depth - 1; d >= 0; d-- {
		inner = []pipeline.Step{
			{
				ID:       fmt.Sprintf("branch-%d", d),
				Name:     "Branch",
				Type:     pipeline.TypeFlow,
				SubType:  pipeline.SubTypeBranch,
				Branches: [][]pipeline.Step{inner},
			},
			{
				ID:      fmt.Sprintf("merge-%d", d),
				Name:    "Merge",
				Type:    pipeline.TypeFlow,
				SubType: pipeline.SubTypeMerge,
			},
		}
	}
	return inner
}
