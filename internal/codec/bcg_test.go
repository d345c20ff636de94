package codec

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"imc2ctmdp/internal/domain"
)

func TestBcgCodec_RoundTrip(t *testing.T) {
	g := buildSimpleCtmdp(t)
	g.Comment = "round trip test"
	path := filepath.Join(t.TempDir(), "model.bcg")
	assert.NoError(t, (bcgCodec{}).Write(g, path))

	g2 := domain.NewGraph()
	assert.NoError(t, (bcgCodec{}).Read(g2, path))

	assert.Equal(t, "round trip test", g2.Comment)
	assert.Equal(t, g.Len(), g2.Len())

	initial, ok := g2.Initial()
	assert.True(t, ok)
	initState, _ := g2.State(initial)
	assert.Equal(t, uint32(0), initState.Number)
	assert.Len(t, initState.Transitions, 1)
	assert.Equal(t, "a", initState.Transitions[0].Label.Text())
}

func TestBcgCodec_RejectsBadMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.bcg")
	assert.NoError(t, os.WriteFile(path, []byte("not a bcg file at all"), 0o644))

	g := domain.NewGraph()
	err := (bcgCodec{}).Read(g, path)
	assert.Error(t, err)
}
