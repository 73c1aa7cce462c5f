package ptexfilter_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/naisuuuu/ptexfilter"
	"github.com/naisuuuu/ptexfilter/kernel"
	"github.com/naisuuuu/ptexfilter/texture"
)

// addPixFace appends a face filled from f(i, j) to a one-channel texture.
func addPixFace(t *testing.T, tex *texture.Texture, ulog2, vlog2 int8, f func(i, j int) float32) int {
	t.Helper()
	res := kernel.NewRes(ulog2, vlog2)
	pix := make([]float32, res.Size())
	for j := 0; j < res.V(); j++ {
		for i := 0; i < res.U(); i++ {
			pix[j*res.U()+i] = f(i, j)
		}
	}
	id, err := tex.AddFace(res, pix)
	if err != nil {
		t.Fatalf("AddFace: %v", err)
	}
	return id
}

func finalize(t *testing.T, tex *texture.Texture) *texture.Texture {
	t.Helper()
	if err := tex.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	return tex
}

func evalOne(f ptexfilter.Filter, face int, u, v, uw, vw float32) float32 {
	var out [1]float32
	f.Eval(out[:], 0, 1, face, u, v, uw, vw)
	return out[0]
}

func TestScenarios(t *testing.T) {
	tests := []struct {
		name  string
		build func(t *testing.T) *texture.Texture
		opts  ptexfilter.Options
		face  int
		u, v  float32
		uw, vw float32
		want  float32
		tol   float64
	}{
		{
			name: "constant 1x1 mitchell",
			build: func(t *testing.T) *texture.Texture {
				tex := texture.New(ptexfilter.MeshQuad, 1)
				addPixFace(t, tex, 0, 0, func(i, j int) float32 { return 0.5 })
				return finalize(t, tex)
			},
			opts: ptexfilter.Options{Filter: ptexfilter.KindMitchell},
			u:    0.25, v: 0.75, uw: 0.1, vw: 0.1,
			want: 0.5, tol: 1e-6,
		},
		{
			name: "point 4x4",
			build: func(t *testing.T) *texture.Texture {
				tex := texture.New(ptexfilter.MeshQuad, 1)
				addPixFace(t, tex, 2, 2, func(i, j int) float32 { return float32(i + 4*j) })
				return finalize(t, tex)
			},
			opts: ptexfilter.Options{Filter: ptexfilter.KindPoint},
			u:    0.5, v: 0.5,
			want: 10, tol: 0,
		},
		{
			name: "bilinear 2x2",
			build: func(t *testing.T) *texture.Texture {
				tex := texture.New(ptexfilter.MeshQuad, 1)
				addPixFace(t, tex, 1, 1, func(i, j int) float32 { return float32(i + 2*j) })
				return finalize(t, tex)
			},
			opts: ptexfilter.Options{Filter: ptexfilter.KindBilinear},
			u:    0.5, v: 0.5, uw: 0.5, vw: 0.5,
			want: 1.5, tol: 1e-6,
		},
		{
			name: "box 8x8 ones",
			build: func(t *testing.T) *texture.Texture {
				tex := texture.New(ptexfilter.MeshQuad, 1)
				addPixFace(t, tex, 3, 3, func(i, j int) float32 { return 1 })
				return finalize(t, tex)
			},
			opts: ptexfilter.Options{Filter: ptexfilter.KindBox},
			u:    0.5, v: 0.5, uw: 1, vw: 1,
			want: 1, tol: 1e-6,
		},
		{
			name: "catmullrom 32x32 ramp",
			build: func(t *testing.T) *texture.Texture {
				tex := texture.New(ptexfilter.MeshQuad, 1)
				addPixFace(t, tex, 5, 5, func(i, j int) float32 { return float32(i) / 31 })
				return finalize(t, tex)
			},
			opts: ptexfilter.Options{Filter: ptexfilter.KindCatmullRom},
			u:    0.5, v: 0.5, uw: 1.0 / 32, vw: 1.0 / 32,
			want: 0.5, tol: 1e-3,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := ptexfilter.GetFilter(tt.build(t), tt.opts)
			got := evalOne(f, tt.face, tt.u, tt.v, tt.uw, tt.vw)
			if diff := float64(got) - float64(tt.want); diff > tt.tol || diff < -tt.tol {
				t.Errorf("Eval = %v, want %v (tol %v)", got, tt.want, tt.tol)
			}
		})
	}
}

func TestTriangularPointFilter(t *testing.T) {
	tex := texture.New(ptexfilter.MeshTriangle, 1)
	addPixFace(t, tex, 2, 2, func(i, j int) float32 { return float32(i + 4*j) })
	finalize(t, tex)

	// triangular meshes point-sample regardless of the requested kind
	f := ptexfilter.GetFilter(tex, ptexfilter.Options{Filter: ptexfilter.KindMitchell})

	// (0.1, 0.1) lands on the even sub-triangle at texel (0, 0)
	if got := evalOne(f, 0, 0.1, 0.1, 0, 0); got != 0 {
		t.Errorf("even sample = %v, want 0", got)
	}
	// (0.9, 0.9) lands on the odd sub-triangle, stored rotated at (0, 0)
	// rather than at the naive texel (3, 3)
	if got := evalOne(f, 0, 0.9, 0.9, 0, 0); got != 0 {
		t.Errorf("odd sample = %v, want 0", got)
	}
	if got := evalOne(f, 0, 0.6, 0.3, 0, 0); got != float32(2+4*1) {
		t.Errorf("interior even sample = %v, want 6", got)
	}
}

func TestTriangularDiagonalConsistency(t *testing.T) {
	// where the two half-triangles store the same value, sampling either side
	// of the diagonal agrees
	tex := texture.New(ptexfilter.MeshTriangle, 1)
	addPixFace(t, tex, 1, 1, func(i, j int) float32 { return float32(i+2*j) * 0 })
	finalize(t, tex)
	f := ptexfilter.GetFilter(tex, ptexfilter.Options{Filter: ptexfilter.KindPoint})

	const eps = 1e-4
	a := evalOne(f, 0, 0.5-eps, 0.5, 0, 0)
	b := evalOne(f, 0, 0.5+eps, 0.5, 0, 0)
	if a != b {
		t.Errorf("diagonal samples differ: %v vs %v", a, b)
	}
}

func TestPointFilterIdempotence(t *testing.T) {
	tex := texture.New(ptexfilter.MeshQuad, 1)
	addPixFace(t, tex, 2, 3, func(i, j int) float32 { return float32(i) + float32(j)/8 })
	finalize(t, tex)
	f := ptexfilter.GetFilter(tex, ptexfilter.Options{Filter: ptexfilter.KindPoint})

	for _, uv := range [][2]float32{{0, 0}, {0.3, 0.7}, {0.5, 0.5}, {0.999, 0.001}, {1, 1}} {
		got := evalOne(f, 0, uv[0], uv[1], 0.1, 0.1)
		ui := int(uv[0] * 4)
		vi := int(uv[1] * 8)
		if ui > 3 {
			ui = 3
		}
		if vi > 7 {
			vi = 7
		}
		var want [1]float32
		tex.GetPixel(0, ui, vi, want[:], 0, 1)
		if got != want[0] {
			t.Errorf("Eval(%v, %v) = %v, want texel (%d,%d) = %v", uv[0], uv[1], got, ui, vi, want[0])
		}
	}
}

func TestBilinearExactAtTexelCenters(t *testing.T) {
	tex := texture.New(ptexfilter.MeshQuad, 1)
	addPixFace(t, tex, 2, 2, func(i, j int) float32 { return float32(i) + float32(j)*0.25 })
	finalize(t, tex)
	f := ptexfilter.GetFilter(tex, ptexfilter.Options{Filter: ptexfilter.KindBilinear})

	for j := 0; j < 4; j++ {
		for i := 0; i < 4; i++ {
			u := (float32(i) + 0.5) / 4
			v := (float32(j) + 0.5) / 4
			got := evalOne(f, 0, u, v, 0.25, 0.25)
			want := float32(i) + float32(j)*0.25
			if got != want {
				t.Errorf("Eval(%v, %v) = %v, want %v", u, v, got, want)
			}
		}
	}
}

func TestEvalDegenerateInputs(t *testing.T) {
	tex := texture.New(ptexfilter.MeshQuad, 1)
	addPixFace(t, tex, 1, 1, func(i, j int) float32 { return 1 })
	finalize(t, tex)

	kinds := []ptexfilter.FilterKind{
		ptexfilter.KindPoint, ptexfilter.KindBilinear, ptexfilter.KindBox, ptexfilter.KindMitchell,
	}
	for _, kind := range kinds {
		f := ptexfilter.GetFilter(tex, ptexfilter.Options{Filter: kind})

		// untouched buffer on bad inputs
		out := []float32{42}
		f.Eval(out, 0, 0, 0, 0.5, 0.5, 0.1, 0.1)
		f.Eval(out, 0, 1, -1, 0.5, 0.5, 0.1, 0.1)
		f.Eval(out, 0, 1, 99, 0.5, 0.5, 0.1, 0.1)
		f.Eval(nil, 0, 1, 0, 0.5, 0.5, 0.1, 0.1)
		f.Eval(out, 5, 1, 0, 0.5, 0.5, 0.1, 0.1)
		if out[0] != 42 {
			t.Errorf("kind %v: degenerate input wrote %v", kind, out[0])
		}
	}
}

func TestMultiChannel(t *testing.T) {
	tex := texture.New(ptexfilter.MeshQuad, 3)
	res := kernel.NewRes(2, 2)
	pix := make([]float32, res.Size()*3)
	for j := 0; j < 4; j++ {
		for i := 0; i < 4; i++ {
			o := (j*4 + i) * 3
			pix[o] = 0.25
			pix[o+1] = 0.5
			pix[o+2] = 0.75
		}
	}
	if _, err := tex.AddFace(res, pix); err != nil {
		t.Fatalf("AddFace: %v", err)
	}
	finalize(t, tex)

	f := ptexfilter.GetFilter(tex, ptexfilter.Options{})
	out := make([]float32, 3)
	f.Eval(out, 0, 3, 0, 0.4, 0.6, 0.2, 0.2)
	want := []float32{0.25, 0.5, 0.75}
	if diff := cmp.Diff(want, out, cmpopts.EquateApprox(0, 1e-6)); diff != "" {
		t.Errorf("all channels mismatch (-want +got):\n%s", diff)
	}

	// a partial channel window reads from firstChan and zero-fills the rest
	out = []float32{-1, -1, -1}
	f.Eval(out, 1, 3, 0, 0.4, 0.6, 0.2, 0.2)
	want = []float32{0.5, 0.75, 0}
	if diff := cmp.Diff(want, out, cmpopts.EquateApprox(0, 1e-6)); diff != "" {
		t.Errorf("channel window mismatch (-want +got):\n%s", diff)
	}
}

func TestDispatchSmoke(t *testing.T) {
	tex := texture.New(ptexfilter.MeshQuad, 1)
	addPixFace(t, tex, 3, 3, func(i, j int) float32 { return 0.625 })
	finalize(t, tex)

	kinds := []ptexfilter.FilterKind{
		ptexfilter.KindDefault, ptexfilter.KindPoint, ptexfilter.KindBilinear,
		ptexfilter.KindBox, ptexfilter.KindGaussian, ptexfilter.KindBicubic,
		ptexfilter.KindBSpline, ptexfilter.KindCatmullRom, ptexfilter.KindMitchell,
	}
	for _, kind := range kinds {
		f := ptexfilter.GetFilter(tex, ptexfilter.Options{Filter: kind, Sharpness: 0.4})
		got := evalOne(f, 0, 0.37, 0.58, 0.15, 0.15)
		if diff := float64(got) - 0.625; diff > 1e-6 || diff < -1e-6 {
			t.Errorf("kind %v on uniform face = %v, want 0.625", kind, got)
		}
	}
}
