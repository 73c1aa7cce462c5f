package ptexfilter

// pointFilter samples the nearest texel of rectangular textures.
type pointFilter struct {
	tx TextureSource
}

func (f *pointFilter) Eval(result []float32, firstChan, nChan int, faceID int, u, v, uw, vw float32) {
	if f.tx == nil || result == nil || nChan <= 0 || firstChan < 0 {
		return
	}
	if faceID < 0 || faceID >= f.tx.NumFaces() || firstChan >= f.tx.NumChannels() {
		return
	}
	fi := f.tx.FaceInfo(faceID)
	resu, resv := fi.Res.U(), fi.Res.V()
	ui := clampInt(int(u*float32(resu)), 0, resu-1)
	vi := clampInt(int(v*float32(resv)), 0, resv-1)
	f.tx.GetPixel(faceID, ui, vi, result, firstChan, nChan)
}

// pointFilterTri samples the nearest texel of triangular textures. Each face
// stores the "even" sub-triangle in its lower-left half-texture and the "odd"
// one rotated 180 degrees in the upper-right half.
type pointFilterTri struct {
	tx TextureSource
}

func (f *pointFilterTri) Eval(result []float32, firstChan, nChan int, faceID int, u, v, uw, vw float32) {
	if f.tx == nil || result == nil || nChan <= 0 || firstChan < 0 {
		return
	}
	if faceID < 0 || faceID >= f.tx.NumFaces() {
		return
	}
	fi := f.tx.FaceInfo(faceID)
	res := fi.Res.U()
	resm1 := res - 1
	ut, vt := u*float32(res), v*float32(res)
	ui := clampInt(int(ut), 0, resm1)
	vi := clampInt(int(vt), 0, resm1)
	uf, vf := ut-float32(ui), vt-float32(vi)

	if uf+vf <= 1 {
		f.tx.GetPixel(faceID, ui, vi, result, firstChan, nChan)
	} else {
		f.tx.GetPixel(faceID, resm1-vi, resm1-ui, result, firstChan, nChan)
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
