package codec

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"imc2ctmdp/internal/domain"
)

func TestRegistry_UnknownFormatIsDomainError(t *testing.T) {
	r := NewRegistry()
	g := domain.NewGraph()
	err := r.Write(g, "nope", "out")
	assert.Error(t, err)
	var domainErr *domain.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrCodeUnknownFormat, domainErr.Code)
}

func TestRegisterDefaults_WiresAllBuiltins(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)
	g := buildSimpleCtmdp(t)
	dir := t.TempDir()

	assert.NoError(t, r.Write(g, "bcg", filepath.Join(dir, "m.bcg")))
	assert.NoError(t, r.Write(g, "ctmdp", filepath.Join(dir, "m.ctmdp")))
	assert.NoError(t, r.Write(g, "ctmdpi", filepath.Join(dir, "m.ctmdpi")))
	assert.NoError(t, r.Write(g, "etmcc", filepath.Join(dir, "m.tra")))
	assert.NoError(t, r.Write(g, "lab", filepath.Join(dir, "m.lab")))
	assert.NoError(t, r.Write(g, "marked", filepath.Join(dir, "m.marked")))

	g2 := domain.NewGraph()
	assert.NoError(t, r.Read(g2, "bcg", filepath.Join(dir, "m.bcg")))
	assert.Equal(t, g.Len(), g2.Len())
}
