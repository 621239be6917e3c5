// Package version reports the resolver daemon's build identity.
package version

// mainpkg is the overall, canonical project import path under which the
// package was built.
var mainpkg = "github.com/hgserve/bundle2push"

// version indicates which version of the binary is running. During build
// it will be replaced by the actual release tag.
var version = "v0.0.0+unknown"

// revision is filled with the VCS revision being used to build the
// program, at link time.
var revision = ""

// Package returns the overall, canonical project import path under which
// the package was built.
func Package() string { return mainpkg }

// Version returns the module version the running binary was built from.
func Version() string { return version }

// Revision returns the VCS revision being used to build the program.
func Revision() string { return revision }
