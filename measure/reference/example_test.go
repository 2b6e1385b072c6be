package reference_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-voice/measure/reference"
)

func ExampleValidator_ValidateSamples() {
	v, err := reference.New()
	if err != nil {
		panic(err)
	}

	tone := make([]float64, 3*24000)
	for i := range tone {
		tone[i] = 0.2 * math.Sin(2*math.Pi*220*float64(i)/24000)
	}

	fmt.Println(v.ValidateSamples(tone, 24000).Valid)
	fmt.Println(v.ValidateSamples(tone[:24000], 24000).Reason)
	// Output:
	// true
	// Audio too short (minimum 2.0 seconds)
}
