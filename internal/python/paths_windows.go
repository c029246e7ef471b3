//go:build windows

package python

const (
	binDirName    = "Scripts"
	pythonExeName = "python.exe"
	pipExeName    = "pip.exe"
)
