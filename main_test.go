package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"github.com/df07/go-tiled-pathtracer/pkg/log"
)

func TestRenderCommand(t *testing.T) {
	tests := []struct {
		name  string
		scene string
		out   string
	}{
		{"default scene", "default", "default.bmp"},
		{"cornell scene", "cornell", "cornell.png"},
		{"sphere field", "spheres", "spheres.png"},
		{"yaml scene by id", "glass-trio", "glass.png"},
		{"yaml scene by path", "scenes/cornell-empty.yaml", "empty.bmp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), tt.out)
			err := newApp().Run([]string{"pathtracer", "render",
				"--scene", tt.scene,
				"--width", "16", "--height", "12",
				"--spp", "2", "--workers", "3",
				"--thumbnail", "8",
				"-o", out,
			})
			require.NoError(t, err)

			info, err := os.Stat(out)
			require.NoError(t, err)
			assert.Greater(t, info.Size(), int64(0))

			ext := filepath.Ext(out)
			_, err = os.Stat(strings.TrimSuffix(out, ext) + "_thumb" + ext)
			assert.NoError(t, err, "thumbnail")
		})
	}
}

func TestRenderCommand_BMPSize(t *testing.T) {
	out := filepath.Join(t.TempDir(), "frame.bmp")
	require.NoError(t, newApp().Run([]string{"pathtracer", "render", "--width", "10", "--height", "6", "--spp", "1", "-o", out}))

	file, err := os.Open(out)
	require.NoError(t, err)
	defer file.Close()

	cfg, err := bmp.DecodeConfig(file)
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Width)
	assert.Equal(t, 6, cfg.Height)
}

func TestRenderCommand_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown scene", []string{"--scene", "nope"}},
		{"bad size", []string{"--width", "0"}},
		{"bad extension", []string{"-o", filepath.Join(t.TempDir(), "frame.gif")}},
		{"missing preset", []string{"--config", filepath.Join(t.TempDir(), "missing.toml")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"pathtracer", "render", "--width", "4", "--height", "4", "--spp", "1"}, tt.args...)
			assert.Error(t, newApp().Run(args))
		})
	}
}

func TestScenesCommand(t *testing.T) {
	assert.NoError(t, newApp().Run([]string{"pathtracer", "scenes"}))
}

func TestGlobalFlags(t *testing.T) {
	defer log.SetLevel(log.Notice)

	tests := []struct {
		name string
		args []string
	}{
		{"verbose", []string{"-v", "scenes"}},
		{"very verbose", []string{"-vv", "scenes"}},
		{"quiet", []string{"--log-level", "warning", "scenes"}},
		{"verbose render", []string{"-v", "render", "--width", "4", "--height", "4", "--spp", "1",
			"-o", filepath.Join(t.TempDir(), "tiny.png")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NoError(t, newApp().Run(append([]string{"pathtracer"}, tt.args...)))
		})
	}
}

func TestGlobalFlags_BadLogLevel(t *testing.T) {
	defer log.SetLevel(log.Notice)
	assert.Error(t, newApp().Run([]string{"pathtracer", "--log-level", "chatty", "scenes"}))
}

func TestVersionFlag(t *testing.T) {
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out

	require.NoError(t, app.Run([]string{"pathtracer", "--version"}))
	assert.Contains(t, out.String(), app.Version)
}
