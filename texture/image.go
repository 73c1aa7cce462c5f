package texture

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"github.com/naisuuuu/ptexfilter/kernel"
)

// AddImageFace resamples img into a face texel grid at res and appends it,
// returning the face id. One-channel textures take the luma of the image,
// three channels take RGB and four take RGBA; other channel counts are not
// supported. Values are normalized to [0, 1].
func (t *Texture) AddImageFace(img image.Image, res kernel.Res) (int, error) {
	if !res.Valid() {
		return -1, fmt.Errorf("%w: %dx%d log2", ErrInvalidRes, res.ULog2, res.VLog2)
	}
	switch t.channels {
	case 1, 3, 4:
	default:
		return -1, fmt.Errorf("%w: %d not importable from an image", ErrInvalidChannels, t.channels)
	}

	rect := image.Rect(0, 0, res.U(), res.V())
	dst := image.NewRGBA(rect)
	draw.CatmullRom.Scale(dst, rect, img, img.Bounds(), draw.Src, nil)

	pix := make([]float32, res.Size()*t.channels)
	for y := 0; y < res.V(); y++ {
		for x := 0; x < res.U(); x++ {
			o := dst.PixOffset(x, y)
			r, g, b, a := dst.Pix[o], dst.Pix[o+1], dst.Pix[o+2], dst.Pix[o+3]
			// texel rows run bottom-up while image rows run top-down
			p := ((res.V()-1-y)*res.U() + x) * t.channels
			switch t.channels {
			case 1:
				pix[p] = float32(luma(r, g, b)) / 255
			case 3:
				pix[p] = float32(r) / 255
				pix[p+1] = float32(g) / 255
				pix[p+2] = float32(b) / 255
			case 4:
				pix[p] = float32(r) / 255
				pix[p+1] = float32(g) / 255
				pix[p+2] = float32(b) / 255
				pix[p+3] = float32(a) / 255
			}
		}
	}

	id, err := t.AddFace(res, pix)
	if err != nil {
		return -1, err
	}
	Log.Debug().Int("face", id).Int("w", res.U()).Int("h", res.V()).Msg("imported image face")
	return id, nil
}

// luma returns the rec. 601 luma of an 8-bit RGB pixel. The coefficients are
// the fractions 0.299, 0.587 and 0.114 in 16-bit fixed point; note that
// 19595 + 38470 + 7471 equals 65536.
func luma(r, g, b uint8) uint8 {
	return uint8((19595*uint32(r) + 38470*uint32(g) + 7471*uint32(b) + 1<<15) >> 16)
}
