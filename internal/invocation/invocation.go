// Package invocation describes a single external-process call: the
// ordered argument vector and the set of filesystem paths the process
// must be able to see. It is independent of how the call is launched;
// the same invocation runs directly on the host or inside a container.
package invocation

import (
	"maps"
	"path/filepath"
	"slices"
)

// Invocation is an ephemeral value describing one external-process call.
// Every path referenced inside Args must also appear in Paths so the
// launcher can guarantee visibility under containerized execution.
type Invocation struct {
	Args  []string
	Paths []string
}

// MountDirs returns the distinct parent directories of the invocation's
// path set, sorted. Paths are expected to be absolute. Mounting by
// parent directory rather than by exact file is required because output
// files that do not yet exist cannot be mounted individually.
func (inv Invocation) MountDirs() []string {
	if len(inv.Paths) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(inv.Paths))
	for _, p := range inv.Paths {
		seen[filepath.Dir(p)] = struct{}{}
	}
	return slices.Sorted(maps.Keys(seen))
}

// DockerArgs returns one "-v dir:dir" bind-mount pair per distinct
// parent directory, so each directory is visible inside the container
// at an identical path.
func (inv Invocation) DockerArgs() []string {
	dirs := inv.MountDirs()
	args := make([]string, 0, len(dirs)*2)
	for _, dir := range dirs {
		args = append(args, "-v", dir+":"+dir)
	}
	return args
}
