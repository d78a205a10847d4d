package images

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveDriveLinks(t *testing.T) {
	tests := []struct {
		name string
		ref  string
	}{
		{"file view link", "https://drive.google.com/file/d/ABC123/view?usp=sharing"},
		{"open link", "https://drive.google.com/open?id=ABC123"},
		{"uc link", "https://drive.google.com/uc?export=view&id=ABC123"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.ref, 800)
			assert.Equal(t, "https://drive.google.com/thumbnail?id=ABC123&sz=w800", got)
		})
	}
}

func TestResolvePassthrough(t *testing.T) {
	direct := "https://cdn.example.com/photo.jpg"
	assert.Equal(t, direct, Resolve(direct, 800))

	// Unrecognized drive URL shapes pass through rather than break.
	odd := "https://drive.google.com/drive/folders/XYZ"
	assert.Equal(t, odd, Resolve(odd, 800))
}

func TestResolveWidth(t *testing.T) {
	got := Resolve("https://drive.google.com/file/d/ABC123/view", 300)
	assert.Contains(t, got, "sz=w300")
}

func TestResolveAll(t *testing.T) {
	refs := []string{
		"https://drive.google.com/file/d/first/view",
		"",
		"https://cdn.example.com/2.jpg",
		"  ",
	}
	got := ResolveAll(refs, 800)
	assert.Equal(t, []string{
		"https://drive.google.com/thumbnail?id=first&sz=w800",
		"https://cdn.example.com/2.jpg",
	}, got)
}
