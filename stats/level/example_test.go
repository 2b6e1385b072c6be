package level_test

import (
	"fmt"

	"github.com/cwbudde/algo-voice/stats/level"
)

func ExampleMeasure() {
	st := level.Measure([]float64{0.5, -0.5, 0.5, -0.5})
	fmt.Printf("rms=%.2f peak=%.2f crest=%.1f\n", st.RMS, st.Peak, st.CrestFactor)

	// Output:
	// rms=0.50 peak=0.50 crest=1.0
}
