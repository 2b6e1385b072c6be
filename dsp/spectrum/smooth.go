package spectrum

// SmoothMovingAverage writes into dst the "same"-length convolution of src
// with a rectangular kernel of width taps, each tap weighted 1/width.
// Positions outside src count as zero, so magnitudes near both band edges are
// pulled towards zero. An even width is widened to the next odd value to keep
// the kernel centred; widths below 3 copy src unchanged.
//
// dst and src must not overlap and must have equal length.
func SmoothMovingAverage(dst, src []float64, width int) {
	if width < 3 {
		copy(dst, src)
		return
	}

	if width%2 == 0 {
		width++
	}

	n := len(src)
	half := width / 2
	scale := 1 / float64(width)

	// Running sum over src[i-half : i+half+1], clipped to [0, n).
	sum := 0.0
	for j := 0; j <= half && j < n; j++ {
		sum += src[j]
	}

	for i := range n {
		dst[i] = sum * scale

		if in := i + half + 1; in < n {
			sum += src[in]
		}
		if out := i - half; out >= 0 {
			sum -= src[out]
		}
	}
}
