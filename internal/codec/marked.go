package codec

import (
	"bufio"
	"fmt"
	"os"

	"imc2ctmdp/internal/domain"
)

// markedWriter emits one 0-based state number per line for every
// marked interactive state. Unlike ctmdp/etmcc/lab, numbers here are
// 0-based.
type markedWriter struct{}

func (markedWriter) Write(g *domain.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return domain.NewDomainError(domain.ErrCodeIO, "failed to create "+path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	defer w.Flush()

	for _, h := range g.States() {
		s, _ := g.State(h)
		if s.Type != domain.Interactive && s.Type != domain.Hybrid {
			continue
		}
		if !s.Mark {
			continue
		}
		fmt.Fprintln(w, s.Number)
	}
	return nil
}
