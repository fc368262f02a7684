package nodeconfig

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
)

// ConfigDirName is the directory of a cluster-sim basedir holding the node configs.
const ConfigDirName = "config"

// Path returns the location of a node config file inside basedir.
func Path(basedir string, node int) string {
	return filepath.Join(basedir, ConfigDirName, FileName(node))
}

// Load parses the config file of the given node from a cluster-sim basedir.
func Load(fs afero.Fs, basedir string, node int, lookup Lookup) (*NodeConfig, error) {
	if node < 1 {
		return nil, fmt.Errorf("invalid node number %d", node)
	}

	path := Path(basedir, node)
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("no node config found at %s: %w", path, err)
	}
	defer f.Close()

	return Parse(f, path, lookup)
}
