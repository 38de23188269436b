package walker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsBinaryExtension(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"main.go", false},
		{"README", false},
		{"libc.so", true},
		{"libfoo.so.1.2.3", true},
		{"archive.a", true},
		{"photo.JPG", true},
		{"data.gz", true},
		{".DS_Store", true},
		{"notes.txt", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsBinaryExtension(tt.name))
		})
	}
}
