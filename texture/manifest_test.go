package texture_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naisuuuu/ptexfilter"
	"github.com/naisuuuu/ptexfilter/texture"
)

func TestLoadManifest(t *testing.T) {
	const doc = `
mesh: quad
channels: 1
faces:
  - res: [1, 1]
    pixels: [0, 1, 2, 3]
  - res: [2, 2]
    fill: [0.5]
links:
  - {a: 0, a_edge: right, b: 1, b_edge: left}
`
	tex, err := texture.LoadManifest(strings.NewReader(doc), "")
	require.NoError(t, err)

	assert.Equal(t, ptexfilter.MeshQuad, tex.MeshType())
	assert.Equal(t, 2, tex.NumFaces())
	assert.Equal(t, 1, tex.NumChannels())

	out := make([]float32, 1)
	tex.GetPixel(0, 1, 1, out, 0, 1)
	assert.Equal(t, float32(3), out[0])
	tex.GetPixel(1, 2, 3, out, 0, 1)
	assert.Equal(t, float32(0.5), out[0])

	fa := tex.FaceInfo(0)
	assert.Equal(t, int32(1), fa.AdjFace(ptexfilter.EdgeRight))
	assert.True(t, tex.FaceInfo(1).IsConstant())
}

func TestLoadManifestSubfaces(t *testing.T) {
	const doc = `
mesh: quad
channels: 1
faces:
  - res: [3, 3]
    fill: [1]
  - res: [2, 2]
    fill: [1]
  - res: [2, 2]
    fill: [1]
subface_links:
  - {main: 0, edge: right, primary: 1, secondary: 2}
`
	tex, err := texture.LoadManifest(strings.NewReader(doc), "")
	require.NoError(t, err)
	assert.True(t, tex.FaceInfo(1).IsSubface())
	assert.True(t, tex.FaceInfo(2).IsSubface())

	// a sample at the T-junction returns the shared value; all three faces are
	// constant and equal, so the full face takes the constant-neighborhood path
	f := ptexfilter.GetFilter(tex, ptexfilter.Options{Filter: ptexfilter.KindMitchell})
	out := make([]float32, 1)
	f.Eval(out, 0, 1, 0, 0.99, 0.6, 0.1, 0.1)
	assert.InDelta(t, 1.0, out[0], 1e-6)
}

func TestLoadManifestErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not yaml", `:{`},
		{"bad mesh", "mesh: pentagon\nchannels: 1\nfaces: [{res: [1, 1], fill: [0]}]"},
		{"no channels", "mesh: quad\nfaces: [{res: [1, 1], fill: [0]}]"},
		{"no data", "mesh: quad\nchannels: 1\nfaces: [{res: [1, 1]}]"},
		{"bad pixels", "mesh: quad\nchannels: 1\nfaces: [{res: [1, 1], pixels: [0]}]"},
		{"bad edge", "mesh: quad\nchannels: 1\nfaces: [{res: [0, 0], fill: [0]}, {res: [0, 0], fill: [0]}]\nlinks: [{a: 0, a_edge: diagonal, b: 1, b_edge: left}]"},
		{"bad link id", "mesh: quad\nchannels: 1\nfaces: [{res: [0, 0], fill: [0]}]\nlinks: [{a: 0, a_edge: right, b: 7, b_edge: left}]"},
		{"missing image", "mesh: quad\nchannels: 1\nfaces: [{res: [1, 1], image: nope.png}]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := texture.LoadManifest(strings.NewReader(tt.doc), t.TempDir())
			assert.Error(t, err)
		})
	}
}
