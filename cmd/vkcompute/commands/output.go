package commands

import (
	"fmt"
	"io"
	"math"
)

// shown clamps the configured output count to n, negative meaning everything
func shown(show, n int) int {
	if show < 0 || show > n {
		return n
	}
	return show
}

func printValues(w io.Writer, label string, values []uint32, show int) {
	n := shown(show, len(values))
	for i := 0; i < n; i++ {
		fmt.Fprintf(w, "%s[%d] = %d\n", label, i, values[i])
	}
	if n < len(values) {
		fmt.Fprintf(w, "... %d more\n", len(values)-n)
	}
}

func printProducts(w io.Writer, in, out []uint32, factor uint32, show int) {
	n := shown(show, len(out))
	for i := 0; i < n; i++ {
		fmt.Fprintf(w, "%d * %d = %d\n", in[i], factor, out[i])
	}
	if n < len(out) {
		fmt.Fprintf(w, "... %d more\n", len(out)-n)
	}
}

// printMatrices prints packed 4x4 float matrices one column per line
func printMatrices(w io.Writer, words []uint32, show int) {
	const perMatrix = 16
	count := len(words) / perMatrix
	n := shown(show, count)
	for m := 0; m < n; m++ {
		fmt.Fprintf(w, "matrix %d\n", m)
		for col := 0; col < 4; col++ {
			base := m*perMatrix + col*4
			fmt.Fprintf(w, "\t%g %g %g %g\n",
				math.Float32frombits(words[base]),
				math.Float32frombits(words[base+1]),
				math.Float32frombits(words[base+2]),
				math.Float32frombits(words[base+3]))
		}
	}
	if n < count {
		fmt.Fprintf(w, "... %d more\n", count-n)
	}
}
