package v8b

import (
	"os"
	"runtime"
	"strings"

	"github.com/rotisserie/eris"
)

// DetectTargetOS maps the host OS to the V8 target_os token.
func DetectTargetOS() (OSEnum, error) {
	switch runtime.GOOS {
	case "linux":
		return OSLinux, nil
	case "darwin":
		return OSMac, nil
	case "windows":
		return OSWin, nil
	default:
		return "", eris.Errorf("unsupported OS: %s", runtime.GOOS)
	}
}

// DetectTargetCPU maps the host machine to the V8 target_cpu token.
func DetectTargetCPU() (ArchEnum, error) {
	switch runtime.GOARCH {
	case "amd64":
		return ArchX64, nil
	case "arm64":
		return ArchArm64, nil
	default:
		return "", eris.Errorf("unsupported architecture: %s", runtime.GOARCH)
	}
}

// ParseArch accepts both V8 tokens and common machine names.
func ParseArch(s string) (ArchEnum, error) {
	switch strings.ToLower(s) {
	case "x64", "x86_64", "amd64":
		return ArchX64, nil
	case "arm64", "aarch64":
		return ArchArm64, nil
	default:
		return "", eris.Errorf("unsupported architecture: %s", s)
	}
}

// ResolveTargetCPUs picks the CPUs to build for: explicit flag values win,
// then the TARGET_CPU environment variable, then the host machine.
func ResolveTargetCPUs(flagVals []string) ([]ArchEnum, error) {
	if len(flagVals) > 0 {
		cpus := make([]ArchEnum, 0, len(flagVals))
		for _, v := range flagVals {
			arch, err := ParseArch(v)
			if err != nil {
				return nil, err
			}
			cpus = append(cpus, arch)
		}
		return cpus, nil
	}
	if env := os.Getenv("TARGET_CPU"); env != "" {
		arch, err := ParseArch(env)
		if err != nil {
			return nil, err
		}
		return []ArchEnum{arch}, nil
	}
	arch, err := DetectTargetCPU()
	if err != nil {
		return nil, err
	}
	return []ArchEnum{arch}, nil
}
