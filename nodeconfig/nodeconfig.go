package nodeconfig

import (
	"fmt"

	"github.com/samber/lo"
)

// Var is a single variable assignment read from a node config file.
type Var struct {
	Name  string
	Value string
	// Line is the 1-based line of the last assignment, 0 for synthesized variables.
	Line int
}

func (v Var) String() string {
	return fmt.Sprintf("%s=%s", v.Name, v.Value)
}

// NodeConfig is the parsed content of a node config file.
// Variables keep the order in which they were first assigned.
type NodeConfig struct {
	File string

	vars  []Var
	index map[string]int
}

func newNodeConfig(file string) *NodeConfig {
	return &NodeConfig{
		File:  file,
		index: map[string]int{},
	}
}

func (c *NodeConfig) set(v Var) {
	if i, ok := c.index[v.Name]; ok {
		c.vars[i] = v
		return
	}
	c.index[v.Name] = len(c.vars)
	c.vars = append(c.vars, v)
}

// Get returns the value of the named variable.
func (c *NodeConfig) Get(name string) (string, bool) {
	i, ok := c.index[name]
	if !ok {
		return "", false
	}
	return c.vars[i].Value, true
}

// Vars returns a copy of the assignments in source order.
func (c *NodeConfig) Vars() []Var {
	return append([]Var(nil), c.vars...)
}

// Names returns the defined variable names in source order.
func (c *NodeConfig) Names() []string {
	return lo.Map(c.vars, func(v Var, _ int) string { return v.Name })
}

// Environ returns the assignments as KEY=value strings, ready for exec.Cmd.Env.
func (c *NodeConfig) Environ() []string {
	return lo.Map(c.vars, func(v Var, _ int) string { return v.String() })
}

// Map returns the assignments keyed by name.
func (c *NodeConfig) Map() map[string]string {
	return lo.SliceToMap(c.vars, func(v Var) (string, string) { return v.Name, v.Value })
}

// Missing lists the catalog variables the file does not define.
func (c *NodeConfig) Missing() []string {
	return lo.Filter(Catalog, func(name string, _ int) bool {
		_, ok := c.index[name]
		return !ok
	})
}

func (c *NodeConfig) Len() int {
	return len(c.vars)
}
