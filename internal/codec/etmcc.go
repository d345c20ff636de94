package codec

import (
	"bufio"
	"fmt"
	"os"

	"imc2ctmdp/internal/domain"
)

// etmccWriter emits ETMCC's .tra format and auto-writes a companion
// .lab file.
type etmccWriter struct{}

func (etmccWriter) Write(g *domain.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return domain.NewDomainError(domain.ErrCodeIO, "failed to create "+path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)

	total := 0
	for _, h := range g.States() {
		s, _ := g.State(h)
		total += len(s.Transitions)
	}

	fmt.Fprintf(w, "STATES %d\n", g.Len())
	fmt.Fprintf(w, "TRANSITIONS %d\n", total)

	for _, h := range g.States() {
		s, _ := g.State(h)
		for _, t := range s.Transitions {
			target, _ := g.State(t.Target)
			kind := "M"
			rateText := "0.0"
			if t.IsInteractive() {
				kind = "I"
			} else {
				r, _ := t.Rate()
				rateText = domain.FormatRatePrecise(r)
			}
			fmt.Fprintf(w, "d %d %d %s %s\n", s.Number+1, target.Number+1, rateText, kind)
		}
	}
	if err := w.Flush(); err != nil {
		return domain.NewDomainError(domain.ErrCodeIO, "failed to write "+path, err)
	}

	return labWriter{}.Write(g, replaceExt(path, ".lab"))
}
