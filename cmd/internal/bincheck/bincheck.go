// Package bincheck answers whether an external binary is discoverable.
// Lookups are cached: the same binary is asked about once per process.
package bincheck

import (
	"os/exec"
	"sync"
)

type Checker struct {
	cache sync.Map
}

func NewChecker() *Checker {
	return &Checker{}
}

// InPath reports whether the named binary resolves via $PATH.
func (c *Checker) InPath(name string) bool {
	if v, ok := c.cache.Load(name); ok {
		found, _ := v.(bool)
		return found
	}

	_, err := exec.LookPath(name)
	actual, _ := c.cache.LoadOrStore(name, err == nil)
	found, _ := actual.(bool)
	return found
}
