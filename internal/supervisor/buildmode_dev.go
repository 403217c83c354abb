//go:build !release

package supervisor

// backendDir is relative to the workspace layout used during development.
const backendDir = "../../sentinel-core"

// ReleaseBuild reports whether the binary was built with the release tag.
const ReleaseBuild = false
