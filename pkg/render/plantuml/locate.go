package plantuml

import (
	"os"
	"path/filepath"
	"runtime"
)

// Paths locates the two artifacts the engine needs.
type Paths struct {
	JAR  string // plantuml.jar
	Java string // java executable
}

// Locate returns the bundled artifact paths under resources.
func Locate(resources string) Paths {
	dir := filepath.Join(resources, "plantuml")
	return Paths{
		JAR:  filepath.Join(dir, "plantuml.jar"),
		Java: filepath.Join(dir, "jre", "bin", javaBinary()),
	}
}

// Override replaces the bundled paths with explicit ones where given.
func (p Paths) Override(jar, java string) Paths {
	if jar != "" {
		p.JAR = jar
	}
	if java != "" {
		p.Java = java
	}
	return p
}

// DefaultResourcesDir returns the resources directory shipped next to the
// executable, falling back to ./resources when the executable path is unknown.
func DefaultResourcesDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "resources"
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Join(filepath.Dir(exe), "resources")
}

func javaBinary() string {
	if runtime.GOOS == "windows" {
		return "java.exe"
	}
	return "java"
}
