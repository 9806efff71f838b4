package tools

import (
	"regexp"
	"runtime"
	"strconv"
	"strings"
)

func firstLine(text string) string {
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		return text[:idx]
	}
	return text
}

var versionRegex = regexp.MustCompile(`([0-9]+)(?:\.([0-9]+))?(?:\.([0-9]+))?`)

// normalizeVersion pulls the release number out of a line such as
// "ffmpeg version 6.1.1-3ubuntu5 Copyright (c) ...". Git snapshot builds
// ("N-113140-g...") have no release number and are treated as current.
func normalizeVersion(line string) string {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return line
	}
	raw := fields[2]
	if strings.HasPrefix(raw, "N-") || strings.HasPrefix(raw, "git-") {
		return raw
	}
	if match := versionRegex.FindString(raw); match != "" {
		return match
	}
	return raw
}

func meetsMinimum(version, minimum string) bool {
	if minimum == "" {
		return true
	}
	if version == "" {
		return false
	}
	if strings.HasPrefix(version, "N-") || strings.HasPrefix(version, "git-") {
		return true
	}

	vParts := numericParts(version)
	mParts := numericParts(minimum)
	for len(vParts) < len(mParts) {
		vParts = append(vParts, 0)
	}
	for len(mParts) < len(vParts) {
		mParts = append(mParts, 0)
	}
	for i := range vParts {
		if vParts[i] != mParts[i] {
			return vParts[i] > mParts[i]
		}
	}
	return true
}

func numericParts(version string) []int {
	var parts []int
	for _, field := range strings.FieldsFunc(version, func(r rune) bool { return r < '0' || r > '9' }) {
		val, _ := strconv.Atoi(field)
		parts = append(parts, val)
	}
	return parts
}

func installHints() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{"Install ffmpeg via Homebrew: brew install ffmpeg"}
	case "linux":
		return []string{"Install ffmpeg with your distro package manager, e.g. sudo apt install ffmpeg"}
	case "windows":
		return []string{"Install ffmpeg via winget: winget install Gyan.FFmpeg"}
	default:
		return []string{"Install ffmpeg using your platform's package manager"}
	}
}
