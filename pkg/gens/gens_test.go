package gens_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/semigroups/pkg/element"
	"github.com/matzehuels/semigroups/pkg/errors"
	"github.com/matzehuels/semigroups/pkg/gens"
)

func writeSpec(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadTOMLSpec(t *testing.T) {
	path := writeSpec(t, "t3.toml", `
type = "transf"
degree = 3
generators = [[2, 1, 3], [2, 3, 1], [1, 1, 3]]
`)
	spec, err := gens.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if spec.Type != gens.TypeTransf || spec.Degree != 3 || len(spec.Generators) != 3 {
		t.Fatalf("LoadFile = %+v", spec)
	}

	xs, err := spec.Transfs()
	if err != nil {
		t.Fatalf("Transfs: %v", err)
	}
	// 1-based (2, 1, 3) is the transposition swapping the first two
	// points.
	want, _ := element.NewTransf([]uint32{1, 0, 2})
	if !xs[0].Equal(want) {
		t.Fatalf("Transfs[0] = %v, want %v", xs[0], want)
	}
}

func TestLoadJSONSpec(t *testing.T) {
	path := writeSpec(t, "swap.json", `{
  "type": "pperm",
  "degree": 2,
  "generators": [[2, 1], [1, 0]]
}`)
	spec, err := gens.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	ps, err := spec.PPerms()
	if err != nil {
		t.Fatalf("PPerms: %v", err)
	}
	// 0 marks an undefined point on the boundary.
	imgs := ps[1].Images()
	if imgs[0] != 0 || imgs[1] != element.UndefinedPoint {
		t.Fatalf("PPerms[1] images = %v, want [0 -]", imgs)
	}
}

func TestLoadFileRejectsUnknownExtension(t *testing.T) {
	path := writeSpec(t, "spec.yaml", "type: transf")
	if _, err := gens.LoadFile(path); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Fatalf("LoadFile error = %v, want INVALID_FORMAT", err)
	}
}

func TestValidateRejectsBadSpecs(t *testing.T) {
	tests := []struct {
		name string
		spec gens.Spec
	}{
		{"unknown type", gens.Spec{Type: "matrix", Degree: 2, Generators: [][]int{{1, 2}}}},
		{"zero degree", gens.Spec{Type: "transf", Degree: 0, Generators: [][]int{{}}}},
		{"bmat8 degree too large", gens.Spec{Type: "bmat8", Degree: 9, Generators: [][]int{{1}}}},
		{"no generators", gens.Spec{Type: "transf", Degree: 2}},
		{"wrong entry count", gens.Spec{Type: "transf", Degree: 3, Generators: [][]int{{1, 2}}}},
		{"bmat8 wrong entry count", gens.Spec{Type: "bmat8", Degree: 2, Generators: [][]int{{1, 0}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.spec.Validate(); err == nil {
				t.Fatalf("Validate accepted %+v", tt.spec)
			}
		})
	}
}

func TestConversionErrors(t *testing.T) {
	// A transformation may not leave points undefined.
	spec := gens.Spec{Type: gens.TypeTransf, Degree: 2, Generators: [][]int{{0, 1}}}
	if _, err := spec.Transfs(); err == nil {
		t.Fatal("Transfs accepted an undefined point")
	}

	// Image out of range.
	spec = gens.Spec{Type: gens.TypeTransf, Degree: 2, Generators: [][]int{{3, 1}}}
	if _, err := spec.Transfs(); err == nil {
		t.Fatal("Transfs accepted an out-of-range image")
	}

	// Non-bijective images for a permutation.
	spec = gens.Spec{Type: gens.TypePerm, Degree: 2, Generators: [][]int{{1, 1}}}
	if _, err := spec.Perms(); !errors.Is(err, errors.ErrCodeInvalidElement) {
		t.Fatalf("Perms error = %v, want INVALID_ELEMENT", err)
	}

	// Matrix entries must be 0 or 1.
	spec = gens.Spec{Type: gens.TypeBMat8, Degree: 2, Generators: [][]int{{1, 2, 0, 1}}}
	if _, err := spec.BMat8s(); err == nil {
		t.Fatal("BMat8s accepted an entry outside {0, 1}")
	}
}

func TestOpenAndSummarize(t *testing.T) {
	ctx := context.Background()
	spec := &gens.Spec{
		Type:   gens.TypeTransf,
		Degree: 3,
		// Full transformation monoid on three points.
		Generators: [][]int{{2, 1, 3}, {2, 3, 1}, {1, 1, 3}},
	}
	eng, err := gens.Open(spec)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	sum, err := gens.Summarize(ctx, spec, eng)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if sum.Size != 27 || sum.Idempotents != 10 || !sum.ContainsOne {
		t.Fatalf("Summarize = %+v", sum)
	}
	total := 0
	for _, n := range sum.ElementsOfLength {
		total += n
	}
	if total != 27 {
		t.Fatalf("length counts sum to %d, want 27", total)
	}

	strs, err := eng.ElementStrings(ctx)
	if err != nil {
		t.Fatalf("ElementStrings: %v", err)
	}
	if len(strs) != 27 || strs[0] == "" {
		t.Fatalf("ElementStrings returned %d entries", len(strs))
	}
}

func TestOpenBMat8(t *testing.T) {
	ctx := context.Background()
	spec := &gens.Spec{
		Type:       gens.TypeBMat8,
		Degree:     2,
		Generators: [][]int{{0, 1, 0, 0}},
	}
	eng, err := gens.Open(spec)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	size, err := eng.Size(ctx)
	if err != nil {
		t.Fatalf("Size: %v", err)
	}
	if size != 2 {
		t.Fatalf("Size = %d, want 2", size)
	}
}

func TestGeneratorVectors(t *testing.T) {
	spec := &gens.Spec{Type: gens.TypePPerm, Degree: 2, Generators: [][]int{{2, 1}, {1, 0}}}
	vecs, err := spec.GeneratorVectors()
	if err != nil {
		t.Fatalf("GeneratorVectors: %v", err)
	}
	if vecs[0][0] != 1 || vecs[0][1] != 0 {
		t.Fatalf("vecs[0] = %v, want [1 0]", vecs[0])
	}
	if vecs[1][1] != element.UndefinedPoint {
		t.Fatalf("vecs[1][1] = %d, want the undefined marker", vecs[1][1])
	}
}
