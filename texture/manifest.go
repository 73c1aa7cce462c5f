package texture

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"

	// This adds webp support.
	_ "golang.org/x/image/webp"
	"gopkg.in/yaml.v3"

	"github.com/naisuuuu/ptexfilter"
	"github.com/naisuuuu/ptexfilter/kernel"
)

var ErrBadManifest = errors.New("bad texture manifest")

// manifest is the YAML description of a multi-face texture. Face resolutions
// are log2 sizes; pixel data may be given inline (fill or pixels) or loaded
// from an image file relative to the manifest.
type manifest struct {
	Mesh     string         `yaml:"mesh"`
	Channels int            `yaml:"channels"`
	Faces    []manifestFace `yaml:"faces"`
	Links    []manifestLink `yaml:"links"`
	Subfaces []manifestTJ   `yaml:"subface_links"`
}

type manifestFace struct {
	Res    [2]int8   `yaml:"res"`
	Fill   []float32 `yaml:"fill"`
	Pixels []float32 `yaml:"pixels"`
	Image  string    `yaml:"image"`
}

type manifestLink struct {
	A     int    `yaml:"a"`
	AEdge string `yaml:"a_edge"`
	B     int    `yaml:"b"`
	BEdge string `yaml:"b_edge"`
}

type manifestTJ struct {
	Main      int    `yaml:"main"`
	Edge      string `yaml:"edge"`
	Primary   int    `yaml:"primary"`
	Secondary int    `yaml:"secondary"`
}

// LoadManifestFile reads a YAML texture manifest from path and builds the
// texture it describes. Image references are resolved relative to the
// manifest's directory.
func LoadManifestFile(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open %s: %w", path, err)
	}
	defer f.Close()
	return LoadManifest(f, filepath.Dir(path))
}

// LoadManifest reads a YAML texture manifest from r and builds the texture it
// describes. Image references are resolved relative to dir.
func LoadManifest(r io.Reader, dir string) (*Texture, error) {
	var m manifest
	if err := yaml.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadManifest, err)
	}

	mesh, err := parseMesh(m.Mesh)
	if err != nil {
		return nil, err
	}
	if m.Channels <= 0 {
		return nil, fmt.Errorf("%w: channels must be positive", ErrBadManifest)
	}

	t := New(mesh, m.Channels)
	for i, mf := range m.Faces {
		if err := addManifestFace(t, mf, dir); err != nil {
			return nil, fmt.Errorf("face %d: %w", i, err)
		}
	}
	for i, l := range m.Links {
		ae, err := parseEdge(l.AEdge)
		if err != nil {
			return nil, fmt.Errorf("link %d: %w", i, err)
		}
		be, err := parseEdge(l.BEdge)
		if err != nil {
			return nil, fmt.Errorf("link %d: %w", i, err)
		}
		if err := t.Link(l.A, ae, l.B, be); err != nil {
			return nil, fmt.Errorf("link %d: %w", i, err)
		}
	}
	for i, s := range m.Subfaces {
		e, err := parseEdge(s.Edge)
		if err != nil {
			return nil, fmt.Errorf("subface link %d: %w", i, err)
		}
		if err := t.LinkSubfaces(s.Main, e, s.Primary, s.Secondary); err != nil {
			return nil, fmt.Errorf("subface link %d: %w", i, err)
		}
	}
	if err := t.Finalize(); err != nil {
		return nil, err
	}
	Log.Info().Int("faces", len(m.Faces)).Str("mesh", m.Mesh).Msg("loaded texture manifest")
	return t, nil
}

func addManifestFace(t *Texture, mf manifestFace, dir string) error {
	res := kernel.NewRes(mf.Res[0], mf.Res[1])
	switch {
	case mf.Image != "":
		img, err := readImage(filepath.Join(dir, mf.Image))
		if err != nil {
			return err
		}
		_, err = t.AddImageFace(img, res)
		return err
	case mf.Fill != nil:
		_, err := t.AddConstantFace(res, mf.Fill...)
		return err
	case mf.Pixels != nil:
		_, err := t.AddFace(res, mf.Pixels)
		return err
	default:
		return fmt.Errorf("%w: face needs fill, pixels or image", ErrBadManifest)
	}
}

func readImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open %s: %w", path, err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("cannot decode %s: %w", path, err)
	}
	return img, nil
}

func parseMesh(s string) (ptexfilter.MeshType, error) {
	switch s {
	case "", "quad":
		return ptexfilter.MeshQuad, nil
	case "triangle":
		return ptexfilter.MeshTriangle, nil
	default:
		return 0, fmt.Errorf("%w: unknown mesh type %q", ErrBadManifest, s)
	}
}

func parseEdge(s string) (ptexfilter.EdgeID, error) {
	switch s {
	case "bottom":
		return ptexfilter.EdgeBottom, nil
	case "right":
		return ptexfilter.EdgeRight, nil
	case "top":
		return ptexfilter.EdgeTop, nil
	case "left":
		return ptexfilter.EdgeLeft, nil
	default:
		return 0, fmt.Errorf("%w: unknown edge %q", ErrBadManifest, s)
	}
}
