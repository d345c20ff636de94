package codec

import (
	"bufio"
	"fmt"
	"os"

	"imc2ctmdp/internal/domain"
)

// labWriter emits MRMC's .lab format: #DECLARATION, reach, an optional
// absorbing declaration, #END, then per-state membership lines.
type labWriter struct{}

func (labWriter) Write(g *domain.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return domain.NewDomainError(domain.ErrCodeIO, "failed to create "+path, err)
	}
	defer f.Close()
	return writeLabTo(g, bufio.NewWriter(f))
}

func writeLabTo(g *domain.Graph, w *bufio.Writer) error {
	defer w.Flush()

	absorbing := make(map[domain.StateHandle]bool)
	anyAbsorbing := false
	if g.SearchForAbsorbingStates {
		for _, h := range g.States() {
			if isAbsorbing(g, h) {
				absorbing[h] = true
				anyAbsorbing = true
			}
		}
	}

	fmt.Fprintln(w, "#DECLARATION")
	fmt.Fprint(w, "reach")
	if anyAbsorbing {
		fmt.Fprint(w, " absorbing")
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "#END")

	for _, h := range g.States() {
		s, _ := g.State(h)
		fmt.Fprintf(w, "%d reach", s.Number+1)
		if absorbing[h] {
			fmt.Fprint(w, " absorbing")
		}
		fmt.Fprintln(w)
	}
	return nil
}
