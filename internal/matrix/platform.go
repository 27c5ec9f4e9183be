// -----------------------------------------------------------------------
// Platform - target triple classification
// -----------------------------------------------------------------------

package matrix

import "strings"

// OS represents the operating system family of a target triple
type OS string

const (
	OSWindows OS = "windows"
	OSAndroid OS = "android"
	OSLinux   OS = "linux"
	OSMac     OS = "mac"
	OSUnknown OS = ""
)

// Arch represents the CPU architecture of a target triple
type Arch string

const (
	ArchX64     Arch = "x86_64"
	ArchX86     Arch = "x86"
	ArchAarch64 Arch = "aarch64"
	ArchArm     Arch = "arm"
	ArchUnknown Arch = ""
)

type osRule struct {
	substr string
	os     OS
}

type archRule struct {
	substr string
	arch   Arch
}

// Checked in order, first match wins. "aarch64-linux-android" is android, not linux.
var osRules = []osRule{
	{"windows", OSWindows},
	{"android", OSAndroid},
	{"linux", OSLinux},
	{"apple", OSMac},
}

var archRules = []archRule{
	{"x86_64", ArchX64},
	{"i686", ArchX86},
	{"aarch64", ArchAarch64},
	{"arm", ArchArm},
}

// Platform is the classification of a single target triple
type Platform struct {
	Target string
	OS     OS
	Arch   Arch
}

// DetectOS returns the OS family a target triple belongs to, or OSUnknown
func DetectOS(target string) OS {
	for _, rule := range osRules {
		if strings.Contains(target, rule.substr) {
			return rule.os
		}
	}
	return OSUnknown
}

// DetectArch returns the architecture a target triple compiles for, or ArchUnknown
func DetectArch(target string) Arch {
	for _, rule := range archRules {
		if strings.Contains(target, rule.substr) {
			return rule.arch
		}
	}
	return ArchUnknown
}

// Classify classifies a target triple into its OS family and architecture
func Classify(target string) Platform {
	return Platform{
		Target: target,
		OS:     DetectOS(target),
		Arch:   DetectArch(target),
	}
}

// IMArch returns the ImageMagick architecture name consumed by the CI workflow.
// Only x64 and x86 are surfaced; arm targets report an empty string.
func (a Arch) IMArch() string {
	switch a {
	case ArchX64:
		return "x64"
	case ArchX86:
		return "x86"
	default:
		return ""
	}
}

// BuildFlag returns the " -arch <name>" suffix appended to build tool invocations
func (a Arch) BuildFlag() string {
	if a == ArchUnknown {
		return ""
	}
	return " -arch " + string(a)
}

// BuildScript returns the build script for the OS family.
// Linux and mac have no prebuilt script and return an empty string.
func (o OS) BuildScript() string {
	switch o {
	case OSWindows:
		return "build-win.ps1"
	case OSAndroid:
		return "build-android.ps1"
	default:
		return ""
	}
}

// Artifact returns the library filename produced for the OS family
func (o OS) Artifact() string {
	switch o {
	case OSWindows:
		return "kmagick.dll"
	case OSAndroid, OSLinux:
		return "libkmagick.so"
	default:
		return ""
	}
}

// String returns a printable name, "unknown" for unmatched values
func (o OS) String() string {
	if o == OSUnknown {
		return "unknown"
	}
	return string(o)
}

// String returns a printable name, "unknown" for unmatched values
func (a Arch) String() string {
	if a == ArchUnknown {
		return "unknown"
	}
	return string(a)
}
