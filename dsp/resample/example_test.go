package resample_test

import (
	"fmt"

	"github.com/cwbudde/algo-voice/dsp/resample"
)

func ExampleRatio() {
	up, down, err := resample.Ratio(44100, 48000, 0)
	if err != nil {
		panic(err)
	}

	fmt.Printf("ratio=%d/%d\n", up, down)
	// Output:
	// ratio=160/147
}

func ExampleConvert() {
	in := make([]float64, 16000)

	out, err := resample.Convert(in, 16000, 24000)
	if err != nil {
		panic(err)
	}

	fmt.Println(len(out))
	// Output:
	// 24000
}
