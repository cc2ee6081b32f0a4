// Package gens parses generator specifications and runs enumerations
// over them without the caller committing to a concrete element type.
//
// A specification names an element type, a degree, and a list of
// generators. On the boundary, point maps use 1-based images with 0
// marking an undefined point, which matches how partial maps are
// written in the literature; the conversion to the 0-based internal
// convention happens here and nowhere else. Boolean matrices are given
// as row-major 0/1 entries.
//
// Specifications load from TOML or JSON files:
//
//	type = "transf"
//	degree = 3
//	generators = [[2, 1, 3], [2, 3, 1], [1, 1, 3]]
package gens

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/semigroups/pkg/element"
	"github.com/matzehuels/semigroups/pkg/errors"
)

// Element type names accepted in specifications.
const (
	TypeTransf = "transf"
	TypePPerm  = "pperm"
	TypePerm   = "perm"
	TypeBMat8  = "bmat8"
)

// Spec is a parsed generator specification.
type Spec struct {
	// Type is one of the Type* constants.
	Type string `toml:"type" json:"type"`

	// Degree is the number of points (or the matrix dimension for
	// bmat8, at most 8).
	Degree int `toml:"degree" json:"degree"`

	// Generators holds one entry per generator. For point maps each
	// entry lists the 1-based images of 1..Degree, with 0 marking an
	// undefined point. For bmat8 each entry lists Degree*Degree row-major
	// 0/1 entries.
	Generators [][]int `toml:"generators" json:"generators"`
}

// LoadFile parses a specification from a TOML or JSON file, chosen by
// extension.
func LoadFile(path string) (*Spec, error) {
	if err := errors.ValidateInputFilename(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "reading %s", path)
	}

	var spec Spec
	if strings.HasSuffix(path, ".json") {
		if err := json.Unmarshal(data, &spec); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parsing %s", path)
		}
	} else {
		if err := toml.Unmarshal(data, &spec); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parsing %s", path)
		}
	}

	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &spec, nil
}

// Validate checks the specification's shape; entry values are checked
// during conversion.
func (s *Spec) Validate() error {
	if err := errors.ValidateElementType(s.Type); err != nil {
		return err
	}
	switch s.Type {
	case TypeTransf, TypePPerm, TypePerm:
		if err := errors.ValidateDegree(s.Degree, 0); err != nil {
			return err
		}
	case TypeBMat8:
		if err := errors.ValidateDegree(s.Degree, 8); err != nil {
			return err
		}
	default:
		return errors.New(errors.ErrCodeInvalidElement,
			"unknown element type %q (want transf, pperm, perm, or bmat8)", s.Type)
	}
	if len(s.Generators) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "specification has no generators")
	}

	want := s.Degree
	if s.Type == TypeBMat8 {
		want = s.Degree * s.Degree
	}
	for i, g := range s.Generators {
		if len(g) != want {
			return errors.New(errors.ErrCodeInvalidInput,
				"generator %d has %d entries, want %d", i+1, len(g), want)
		}
	}
	return nil
}

// imagesFromOneBased converts 1-based images with 0 = undefined to the
// 0-based internal convention.
func imagesFromOneBased(entries []int, degree int, allowUndefined bool) ([]uint32, error) {
	imgs := make([]uint32, len(entries))
	for i, v := range entries {
		switch {
		case v == 0:
			if !allowUndefined {
				return nil, errors.New(errors.ErrCodeInvalidInput,
					"point %d has no image; only partial permutations may leave points undefined", i+1)
			}
			imgs[i] = element.UndefinedPoint
		case v < 0 || v > degree:
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"point %d maps to %d, want 0..%d", i+1, v, degree)
		default:
			imgs[i] = uint32(v - 1)
		}
	}
	return imgs, nil
}

// Transfs converts the generators to transformations.
func (s *Spec) Transfs() ([]element.Transf, error) {
	out := make([]element.Transf, len(s.Generators))
	for i, g := range s.Generators {
		imgs, err := imagesFromOneBased(g, s.Degree, false)
		if err != nil {
			return nil, err
		}
		x, err := element.NewTransf(imgs)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidElement, err, "generator %d", i+1)
		}
		out[i] = x
	}
	return out, nil
}

// PPerms converts the generators to partial permutations.
func (s *Spec) PPerms() ([]element.PPerm, error) {
	out := make([]element.PPerm, len(s.Generators))
	for i, g := range s.Generators {
		imgs, err := imagesFromOneBased(g, s.Degree, true)
		if err != nil {
			return nil, err
		}
		x, err := element.NewPPerm(imgs)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidElement, err, "generator %d", i+1)
		}
		out[i] = x
	}
	return out, nil
}

// Perms converts the generators to permutations.
func (s *Spec) Perms() ([]element.Perm, error) {
	out := make([]element.Perm, len(s.Generators))
	for i, g := range s.Generators {
		imgs, err := imagesFromOneBased(g, s.Degree, false)
		if err != nil {
			return nil, err
		}
		x, err := element.NewPerm(imgs)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidElement, err, "generator %d", i+1)
		}
		out[i] = x
	}
	return out, nil
}

// BMat8s converts the generators to boolean matrices.
func (s *Spec) BMat8s() ([]element.BMat8, error) {
	out := make([]element.BMat8, len(s.Generators))
	for i, g := range s.Generators {
		rows := make([][]bool, s.Degree)
		for r := 0; r < s.Degree; r++ {
			rows[r] = make([]bool, s.Degree)
			for c := 0; c < s.Degree; c++ {
				switch g[r*s.Degree+c] {
				case 0:
				case 1:
					rows[r][c] = true
				default:
					return nil, errors.New(errors.ErrCodeInvalidInput,
						"generator %d entry (%d, %d) is %d, want 0 or 1", i+1, r+1, c+1, g[r*s.Degree+c])
				}
			}
		}
		out[i] = element.NewBMat8FromRows(rows)
	}
	return out, nil
}

// SpecFromVectors rebuilds a boundary specification from internal
// generator vectors, inverting the 1-based conversion performed by
// [Spec.GeneratorVectors].
func SpecFromVectors(elementType string, degree int, vectors [][]uint32) *Spec {
	spec := &Spec{Type: elementType, Degree: degree, Generators: make([][]int, len(vectors))}
	for i, v := range vectors {
		g := make([]int, len(v))
		for j, e := range v {
			switch {
			case elementType == TypeBMat8:
				g[j] = int(e)
			case e == element.UndefinedPoint:
				g[j] = 0
			default:
				g[j] = int(e) + 1
			}
		}
		spec.Generators[i] = g
	}
	return spec
}

// GeneratorVectors returns the generators in the internal 0-based form,
// suitable for cache keys. Boolean matrix entries pass through
// unchanged.
func (s *Spec) GeneratorVectors() ([][]uint32, error) {
	out := make([][]uint32, len(s.Generators))
	switch s.Type {
	case TypeBMat8:
		for i, g := range s.Generators {
			v := make([]uint32, len(g))
			for j, e := range g {
				if e < 0 {
					return nil, errors.New(errors.ErrCodeInvalidInput,
						"generator %d has negative entry %d", i+1, e)
				}
				v[j] = uint32(e)
			}
			out[i] = v
		}
	default:
		for i, g := range s.Generators {
			imgs, err := imagesFromOneBased(g, s.Degree, s.Type == TypePPerm)
			if err != nil {
				return nil, err
			}
			out[i] = imgs
		}
	}
	return out, nil
}
