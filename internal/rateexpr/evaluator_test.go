package rateexpr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluator_DefineAndReference(t *testing.T) {
	e := NewEvaluator()
	v, err := e.Define("lambda", "3.5")
	assert.NoError(t, err)
	assert.Equal(t, 3.5, v)

	v2, err := e.Define("mu", "lambda * 2")
	assert.NoError(t, err)
	assert.Equal(t, 7.0, v2)
}

func TestEvaluator_EmptyExpressionIsError(t *testing.T) {
	e := NewEvaluator()
	_, err := e.Eval("")
	assert.Error(t, err)
}

func TestEvaluator_BadExpressionIsError(t *testing.T) {
	e := NewEvaluator()
	_, err := e.Eval("not a valid expr (")
	assert.Error(t, err)
}

func TestEvaluator_CachesCompiledProgram(t *testing.T) {
	e := NewEvaluator()
	_, err := e.Eval("1 + 1")
	assert.NoError(t, err)
	_, ok := e.compiledCache["1 + 1"]
	assert.True(t, ok)

	_, err = e.Eval("1 + 1")
	assert.NoError(t, err)
	assert.Len(t, e.compiledCache, 1)
}
