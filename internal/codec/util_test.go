package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReplaceExt(t *testing.T) {
	assert.Equal(t, "model.lab", replaceExt("model.trans", ".lab"))
	assert.Equal(t, "model.lab", replaceExt("model", ".lab"))
}
