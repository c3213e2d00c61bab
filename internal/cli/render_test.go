package cli

import (
	"testing"

	"github.com/matzehuels/boxtower/pkg/errors"
)

func TestSVGPath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "tower.json", "tower.svg"},
		{"", "runs/tower.solution.json", "runs/tower.solution.svg"},
		{"", "noext", "noext.svg"},
		{"out.svg", "tower.json", "out.svg"},
	}
	for _, tt := range tests {
		if got := svgPath(tt.output, tt.input); got != tt.want {
			t.Errorf("svgPath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestCheckSVGPath(t *testing.T) {
	tests := []struct {
		path    string
		wantErr bool
	}{
		{"tower.svg", false},
		{"Tower.SVG", false},
		{"tower", false},
		{"tower.png", true},
		{"out/tower.pdf", true},
	}
	for _, tt := range tests {
		err := checkSVGPath(tt.path)
		if (err != nil) != tt.wantErr {
			t.Errorf("checkSVGPath(%q) = %v, wantErr %v", tt.path, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeUnsupported) {
			t.Errorf("checkSVGPath(%q) code = %v, want UNSUPPORTED", tt.path, errors.GetCode(err))
		}
	}
}
