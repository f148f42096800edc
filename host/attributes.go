package host

import (
	"maps"
	"os"
	"runtime"
	"strings"
)

// Attribute keys reported by System.
const (
	AttrKernel       = "kernel"
	AttrOS           = "os"
	AttrArchitecture = "architecture"
	AttrHostname     = "hostname"
)

// Attributes answers confinement lookups about the host.
type Attributes interface {
	// Attribute returns the value for key and whether it is known.
	Attribute(key string) (string, bool)

	// All returns a copy of every known attribute.
	All() map[string]string
}

// Static is a map-backed Attributes.
type Static map[string]string

// Attribute implements Attributes.
func (s Static) Attribute(key string) (string, bool) {
	v, ok := s[key]
	return v, ok
}

// All implements Attributes.
func (s Static) All() map[string]string {
	return maps.Clone(map[string]string(s))
}

// System returns the attributes of the running host.
func System() Static {
	attrs := Static{
		AttrKernel:       KernelName(runtime.GOOS),
		AttrOS:           runtime.GOOS,
		AttrArchitecture: runtime.GOARCH,
	}
	if name, err := os.Hostname(); err == nil {
		attrs[AttrHostname] = name
	}
	return attrs
}

// Merge layers overrides on top of base. Later overrides win.
func Merge(base Attributes, overrides ...map[string]string) Static {
	merged := Static{}
	if base != nil {
		maps.Copy(merged, base.All())
	}
	for _, o := range overrides {
		maps.Copy(merged, o)
	}
	return merged
}

// KernelName maps a GOOS value to the kernel name configuration-management
// tools report, e.g. "linux" -> "Linux".
func KernelName(goos string) string {
	switch goos {
	case "linux":
		return "Linux"
	case "darwin":
		return "Darwin"
	case "freebsd":
		return "FreeBSD"
	case "openbsd":
		return "OpenBSD"
	case "netbsd":
		return "NetBSD"
	case "solaris", "illumos":
		return "SunOS"
	case "aix":
		return "AIX"
	case "windows":
		return "windows"
	default:
		if goos == "" {
			return ""
		}
		return strings.ToUpper(goos[:1]) + goos[1:]
	}
}
