package stft_test

import (
	"fmt"

	"github.com/cwbudde/algo-voice/dsp/stft"
)

func ExampleTransform_Forward() {
	tr := stft.New()
	spec, err := tr.Forward(make([]float64, 24000), 1024, 256)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(spec.Bins(), spec.NumFrames())

	// Output:
	// 513 94
}
