package codec

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"

	"imc2ctmdp/internal/domain"
)

// bcgCodec is a self-describing binary container standing in for
// CADP's bcg_user.h-backed format. CADP's binary format is proprietary
// to its C library, which has no Go binding and no pure-Go equivalent
// anywhere in the retrieved example pack (see DESIGN.md); this
// container keeps the same logical shape a BCG reader/writer exposes —
// state/transition/label counts, an initial state index, a comment, an
// interned label table, and (src, label, dst) triples — serialized
// with encoding/binary instead of linked against CADP.
type bcgCodec struct{}

var bcgMagic = [4]byte{'B', 'C', 'G', '1'}

func (bcgCodec) Write(g *domain.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return domain.NewDomainError(domain.ErrCodeIO, "failed to create "+path, err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)

	labelIndex := make(map[*domain.Label]uint32)
	var labels []*domain.Label
	type triple struct{ src, label, dst uint32 }
	var triples []triple

	for _, h := range g.States() {
		s, _ := g.State(h)
		for _, t := range s.Transitions {
			id, ok := labelIndex[t.Label]
			if !ok {
				id = uint32(len(labels))
				labelIndex[t.Label] = id
				labels = append(labels, t.Label)
			}
			tgt, _ := g.State(t.Target)
			triples = append(triples, triple{src: uint32(s.Number), label: id, dst: uint32(tgt.Number)})
		}
	}

	initial, hasInitial := g.Initial()
	initialIdx := uint32(0)
	if hasInitial {
		initState, _ := g.State(initial)
		initialIdx = initState.Number
	}

	if _, err := w.Write(bcgMagic[:]); err != nil {
		return domain.NewDomainError(domain.ErrCodeIO, "failed to write "+path, err)
	}
	writeU32(w, uint32(g.Len()))
	writeU32(w, uint32(len(triples)))
	writeU32(w, uint32(len(labels)))
	writeU32(w, initialIdx)
	writeString(w, g.Comment)

	for _, lbl := range labels {
		text := lbl.String()
		if lbl.IsInteractive() {
			text = lbl.Text()
		}
		writeString(w, text)
	}
	for _, tr := range triples {
		writeU32(w, tr.src)
		writeU32(w, tr.label)
		writeU32(w, tr.dst)
	}

	if err := w.Flush(); err != nil {
		return domain.NewDomainError(domain.ErrCodeIO, "failed to write "+path, err)
	}
	return nil
}

func (bcgCodec) Read(g *domain.Graph, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return domain.NewDomainError(domain.ErrCodeIO, "failed to open "+path, err)
	}
	defer f.Close()
	r := bufio.NewReader(f)

	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil || magic != bcgMagic {
		return domain.NewDomainError(domain.ErrCodeParse, path+" is not a recognized bcg container", err)
	}

	nStates := readU32(r)
	nTransitions := readU32(r)
	nLabels := readU32(r)
	initialIdx := readU32(r)
	g.Comment = readString(r)

	labels := make([]*domain.Label, nLabels)
	for i := range labels {
		text := readString(r)
		lbl, err := g.Interner.Get(text)
		if err != nil {
			return err
		}
		labels[i] = lbl
	}

	handles := make([]domain.StateHandle, nStates)
	for i := range handles {
		handles[i] = g.AddState()
	}
	if int(initialIdx) < len(handles) {
		g.SetInitial(handles[initialIdx])
	}

	for i := uint32(0); i < nTransitions; i++ {
		src := readU32(r)
		labelID := readU32(r)
		dst := readU32(r)
		if int(src) >= len(handles) || int(dst) >= len(handles) || int(labelID) >= len(labels) {
			return domain.NewDomainError(domain.ErrCodeParse, "transition references out-of-range index", nil)
		}
		g.AddTransition(handles[src], domain.Transition{Target: handles[dst], Label: labels[labelID]})
	}
	return nil
}

func writeU32(w *bufio.Writer, v uint32) {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	w.Write(buf[:])
}

func readU32(r *bufio.Reader) uint32 {
	var buf [4]byte
	io.ReadFull(r, buf[:])
	return binary.BigEndian.Uint32(buf[:])
}

func writeString(w *bufio.Writer, s string) {
	writeU32(w, uint32(len(s)))
	w.WriteString(s)
}

func readString(r *bufio.Reader) string {
	n := readU32(r)
	buf := make([]byte, n)
	io.ReadFull(r, buf)
	return string(buf)
}
