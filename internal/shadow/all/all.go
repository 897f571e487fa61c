// Package all imports all shadow packages to ensure they register via init().
// Import this package in harness setup to enable all shadows.
//
// Example:
//
//	import _ "github.com/zboralski/shade/internal/shadow/all"
package all

import (
	// Import all shadow packages for side effects (init registration)
	_ "github.com/zboralski/shade/internal/shadow/android"
)
