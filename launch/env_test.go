package launch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnviron(t *testing.T) {
	base := []string{"PATH=/usr/bin", "HOME=/root", "NIMBUSIO_LOG_DIR=/old"}

	env := Environ(base,
		[]string{"NIMBUSIO_LOG_DIR=/new", "NIMBUSIO_NODE_NAME=sim-node-01"},
		[]string{"NIMBUSIO_NODE_NAME=sim-node-02", "CODEBASE=/code"},
	)

	assert.Equal(t, []string{
		"PATH=/usr/bin",
		"HOME=/root",
		"NIMBUSIO_LOG_DIR=/new",
		"NIMBUSIO_NODE_NAME=sim-node-02",
		"CODEBASE=/code",
	}, env)
	assert.Len(t, base, 3, "base is not modified")
	assert.Equal(t, "NIMBUSIO_LOG_DIR=/old", base[2])
}

func TestEnvironDeterministic(t *testing.T) {
	base := []string{"A=1", "B=2"}
	overrides := []string{"C=3", "A=4"}
	assert.Equal(t, Environ(base, overrides), Environ(base, overrides))
}

func TestLookup(t *testing.T) {
	env := []string{"A=1", "B=", "A=3"}

	value, ok := Lookup(env, "A")
	assert.True(t, ok)
	assert.Equal(t, "3", value)

	value, ok = Lookup(env, "B")
	assert.True(t, ok)
	assert.Equal(t, "", value)

	_, ok = Lookup(env, "C")
	assert.False(t, ok)
}
