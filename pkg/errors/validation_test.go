package errors

import (
	"testing"
)

func TestValidateElementType(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"transf", "transf", false},
		{"pperm", "pperm", false},
		{"perm", "perm", false},
		{"bmat8", "bmat8", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 100)), true},
		{"control char", "tra\x01nsf", true},
		{"newline", "transf\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateElementType(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateElementType(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateOutputFormat(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"dot", "dot", false},
		{"svg", "svg", false},
		{"png", "png", false},

		{"empty", "", true},
		{"pdf", "pdf", true},
		{"uppercase", "SVG", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOutputFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidFormat) {
				t.Errorf("ValidateOutputFormat(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestValidateInputFilename(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"toml", "gens.toml", false},
		{"json", "gens.json", false},
		{"nested toml", "examples/t3.toml", false},

		{"empty", "", true},
		{"null byte", "gens\x00.toml", true},
		{"wrong extension", "gens.yaml", true},
		{"no extension", "gens", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateInputFilename(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateInputFilename(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateDegree(t *testing.T) {
	tests := []struct {
		name    string
		degree  int
		max     int
		wantErr bool
	}{
		{"valid", 3, 0, false},
		{"valid at max", 8, 8, false},
		{"no max", 1000, 0, false},

		{"zero", 0, 0, true},
		{"negative", -1, 0, true},
		{"above max", 9, 8, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDegree(tt.degree, tt.max)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDegree(%d, %d) error = %v, wantErr %v", tt.degree, tt.max, err, tt.wantErr)
			}
		})
	}
}
