package formant_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-voice/dsp/effects/formant"
)

func ExampleShifter_Shift() {
	s, err := formant.New()
	if err != nil {
		panic(err)
	}

	in := make([]float64, 4800)
	for i := range in {
		in[i] = 0.3 * math.Sin(2*math.Pi*180*float64(i)/24000)
	}

	out := s.Shift(in, 24000, 1.2)
	fmt.Println(len(out))
	// Output:
	// 4800
}

func ExampleClampFactor() {
	fmt.Println(formant.ClampFactor(2), formant.ClampFactor(0.5))
	// Output:
	// 1.4 0.7
}
