package toolchain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		content string
		profile Profile
		want    Toolchain
	}{
		{
			name:    "breeze layout",
			content: `@vite(['resources/css/app.css', 'resources/js/app.js'])<body class="font-sans antialiased">`,
			profile: Layout,
			want:    Incompatible,
		},
		{
			name:    "layout with only tailwind body classes",
			content: `<div class="min-h-screen bg-gray-100">`,
			profile: Layout,
			want:    Incompatible,
		},
		{
			name:    "balkit layout",
			content: `@vite(['resources/sass/app.scss', 'resources/js/app.js'])`,
			profile: Layout,
			want:    BalKit,
		},
		{
			name:    "mixed markers prefer incompatible",
			content: `@vite(['resources/sass/app.scss', 'resources/css/app.css'])`,
			profile: Layout,
			want:    Incompatible,
		},
		{
			name:    "hand written layout",
			content: `<html><body>@yield('content')</body></html>`,
			profile: Layout,
			want:    Unknown,
		},
		{
			name:    "default welcome page",
			content: `<style>/*! tailwindcss v3.4.1 | MIT License */</style>`,
			profile: Page,
			want:    Incompatible,
		},
		{
			name:    "font-sans is not a page marker",
			content: `<body class="font-sans antialiased">`,
			profile: Page,
			want:    Unknown,
		},
		{
			name:    "breeze vite config",
			content: `input: ['resources/css/app.css', 'resources/js/app.js']`,
			profile: Bundler,
			want:    Incompatible,
		},
		{
			name:    "balkit vite config",
			content: `input: ['resources/sass/app.scss', 'resources/js/app.js']`,
			profile: Bundler,
			want:    BalKit,
		},
		{
			name:    "empty",
			content: "",
			profile: Bundler,
			want:    Unknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify([]byte(tt.content), tt.profile))
		})
	}
}

func TestIncompatibleMarker(t *testing.T) {
	marker, ok := Layout.IncompatibleMarker([]byte(`<div class="min-h-screen bg-gray-100">`))
	assert.True(t, ok)
	assert.Equal(t, "min-h-screen bg-gray-100", marker)

	_, ok = Layout.IncompatibleMarker([]byte(`resources/sass/app.scss`))
	assert.False(t, ok)
}

func TestToolchainString(t *testing.T) {
	assert.Equal(t, "unknown", Unknown.String())
	assert.Equal(t, "balkit", BalKit.String())
	assert.Equal(t, "incompatible", Incompatible.String())
}
