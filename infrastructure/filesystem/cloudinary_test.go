package filesystem

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractPublicID(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "versioned folder url",
			url:  "https://res.cloudinary.com/demo/image/upload/v1699999999/jobs/abc123.jpg",
			want: "jobs/abc123",
		},
		{
			name: "unversioned url",
			url:  "https://res.cloudinary.com/demo/image/upload/abc123.png",
			want: "abc123",
		},
		{
			name: "no extension",
			url:  "https://res.cloudinary.com/demo/image/upload/v12/signatures/xyz",
			want: "signatures/xyz",
		},
		{
			name: "segment starting with v but not a version",
			url:  "https://res.cloudinary.com/demo/image/upload/vault/abc.jpg",
			want: "vault/abc",
		},
		{
			name: "not a cloudinary delivery url",
			url:  "https://example.com/photo.jpg",
			want: "https://example.com/photo.jpg",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractPublicID(tt.url))
		})
	}
}
