//go:build !windows

package python

const (
	binDirName    = "bin"
	pythonExeName = "python"
	pipExeName    = "pip"
)
