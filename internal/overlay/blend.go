package overlay

import (
	"image"

	"gocv.io/x/gocv"
)

// Layers hold premultiplied BGRA so that "over" is linear per channel:
// out = src*srcAlpha + dst*(1-srcAlpha).

// blendOver composites straight-alpha BGRA src over the premultiplied BGRA dst inside rect.
// Both Mats have the same size.
func blendOver(dst *gocv.Mat, src gocv.Mat, rect image.Rectangle) {
	if rect.Empty() {
		return
	}
	srcROI := src.Region(rect)
	defer srcROI.Close()
	dstROI := dst.Region(rect)
	defer dstROI.Close()

	s := unitChannels(srcROI)
	defer closeAll(s)
	d := unitChannels(dstROI)
	defer closeAll(d)

	alpha := s[3]
	for c := 0; c < 3; c++ {
		gocv.Multiply(s[c], alpha, &s[c])
	}
	over(d, s, alpha)
	storeUnit(&dstROI, d, gocv.MatTypeCV8UC4)
}

// compositeBGR blends the premultiplied BGRA layer onto the BGR frame inside rect
func compositeBGR(frame *gocv.Mat, layer gocv.Mat, rect image.Rectangle) {
	if rect.Empty() {
		return
	}
	layerROI := layer.Region(rect)
	defer layerROI.Close()
	frameROI := frame.Region(rect)
	defer frameROI.Close()

	l := unitChannels(layerROI)
	defer closeAll(l)
	f := unitChannels(frameROI)
	defer closeAll(f)

	over(f, l[:3], l[3])
	storeUnit(&frameROI, f, gocv.MatTypeCV8UC3)
}

// over computes dst[i] = src[i] + dst[i]*(1-alpha) for premultiplied src planes
func over(dst, src []gocv.Mat, alpha gocv.Mat) {
	inv := gocv.NewMat()
	defer inv.Close()
	alpha.ConvertToWithParams(&inv, gocv.MatTypeCV32F, -1, 1)

	kept := gocv.NewMat()
	defer kept.Close()
	for i := range dst {
		gocv.Multiply(dst[i], inv, &kept)
		gocv.Add(src[i], kept, &dst[i])
	}
}

// unitChannels splits an 8-bit Mat into float planes scaled to [0, 1]
func unitChannels(m gocv.Mat) []gocv.Mat {
	f := gocv.NewMat()
	defer f.Close()
	m.ConvertToWithParams(&f, gocv.MatTypeCV32F, 1.0/255, 0)
	return gocv.Split(f)
}

// storeUnit merges [0, 1] planes back to 8-bit and writes them into dst in place
func storeUnit(dst *gocv.Mat, planes []gocv.Mat, typ gocv.MatType) {
	merged := gocv.NewMat()
	defer merged.Close()
	gocv.Merge(planes, &merged)

	out := gocv.NewMat()
	defer out.Close()
	merged.ConvertToWithParams(&out, typ, 255, 0)
	out.CopyTo(dst)
}

func closeAll(mats []gocv.Mat) {
	for i := range mats {
		mats[i].Close()
	}
}

// bounds returns the integer rectangle covering the transformed unit image, clipped to w x h
func bounds(m Affine, iw, ih float64, w, h int) image.Rectangle {
	corners := [4][2]float64{{0, 0}, {iw, 0}, {0, ih}, {iw, ih}}
	minX, minY := m.E, m.F
	maxX, maxY := minX, minY
	for _, c := range corners {
		x := m.A*c[0] + m.C*c[1] + m.E
		y := m.B*c[0] + m.D*c[1] + m.F
		minX, maxX = min(minX, x), max(maxX, x)
		minY, maxY = min(minY, y), max(maxY, y)
	}
	r := image.Rect(int(minX)-1, int(minY)-1, int(maxX)+2, int(maxY)+2)
	return r.Intersect(image.Rect(0, 0, w, h))
}
