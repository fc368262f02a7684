package nodeconfig

import (
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileName(t *testing.T) {
	assert.Equal(t, "node_01_config.sh", FileName(1))
	assert.Equal(t, "node_10_config.sh", FileName(10))
	assert.Equal(t, "node_123_config.sh", FileName(123))
}

func TestPath(t *testing.T) {
	assert.Equal(t, filepath.Join("sim", "config", "node_02_config.sh"), Path("sim", 2))
}

func TestLoadFromTestdata(t *testing.T) {
	config, err := Load(afero.NewOsFs(), filepath.Join("testdata", "cluster"), 1, lookupFrom(map[string]string{"BASEDIR": "/var/sim"}))
	require.NoError(t, err)

	assert.Empty(t, config.Missing())
	assert.ElementsMatch(t, Catalog, config.Names())

	value, _ := config.Get(LogDir)
	assert.Equal(t, "/var/sim/logs", value)
	value, _ = config.Get(NodeNameSeq)
	assert.Equal(t, "sim-node-01 sim-node-02 sim-node-03", value)
}

func TestLoadMissingFile(t *testing.T) {
	memfs := afero.NewMemMapFs()
	require.NoError(t, memfs.MkdirAll("/sim/config", 0755))

	_, err := Load(memfs, "/sim", 1, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Contains(t, err.Error(), filepath.Join("/sim", "config", "node_01_config.sh"))
}

func TestLoadOtherNode(t *testing.T) {
	memfs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(memfs, "/sim/config/node_03_config.sh", []byte("export NIMBUSIO_NODE_NAME=sim-node-03\n"), 0644))

	config, err := Load(memfs, "/sim", 3, nil)
	require.NoError(t, err)

	value, ok := config.Get(NodeName)
	assert.True(t, ok)
	assert.Equal(t, "sim-node-03", value)
	assert.Len(t, config.Missing(), len(Catalog)-1)
}

func TestLoadInvalidNode(t *testing.T) {
	_, err := Load(afero.NewMemMapFs(), "/sim", 0, nil)
	assert.EqualError(t, err, "invalid node number 0")
}
