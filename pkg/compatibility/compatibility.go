package compatibility

import (
	"regexp"
	"strconv"

	"github.com/meltano/hub-api/pkg/plugin"
)

// Version is the client version extracted from a Meltano User-Agent.
type Version struct {
	Major int
	Minor int
}

// Latest is assumed when no parseable Meltano User-Agent is present.
var Latest = Version{Major: 999, Minor: 999}

// Before reports whether v predates the given release.
func (v Version) Before(major, minor int) bool {
	if v.Major != major {
		return v.Major < major
	}
	return v.Minor < minor
}

var (
	userAgentPattern = regexp.MustCompile(`^Meltano/([a-z0-9.]+)$`)
	versionPattern   = regexp.MustCompile(`^v?(\d+)(?:\.(\d+))?`)
)

// ParseUserAgent extracts the client version from a User-Agent header
// value. Anything other than a well-formed Meltano User-Agent resolves to
// Latest, so unknown clients always get the current response shape.
func ParseUserAgent(ua string) Version {
	m := userAgentPattern.FindStringSubmatch(ua)
	if m == nil {
		return Latest
	}
	v := versionPattern.FindStringSubmatch(m[1])
	if v == nil {
		return Latest
	}
	major, err := strconv.Atoi(v[1])
	if err != nil {
		return Latest
	}
	minor := 0
	if v[2] != "" {
		if minor, err = strconv.Atoi(v[2]); err != nil {
			return Latest
		}
	}
	return Version{Major: major, Minor: minor}
}

// DowngradeSettings rewrites a settings list for older clients:
//
//   - before 3.9 the decimal kind did not exist, so decimal settings are
//     served as integers (values untouched)
//   - before 3.3 the sensitive flag did not exist, so it is cleared
//
// Current clients get the input back unchanged. The returned slice shares
// no modified elements with the input, so callers may hand out cached
// settings safely.
func DowngradeSettings(settings []plugin.Setting, v Version) []plugin.Setting {
	if !v.Before(3, 9) {
		return settings
	}

	out := make([]plugin.Setting, len(settings))
	for i, s := range settings {
		if s.Kind() == plugin.KindDecimal {
			s = plugin.NewSetting(plugin.KindInteger, s.Common(), nil)
		}
		if v.Before(3, 3) {
			c := s.Common()
			if c.Sensitive != nil {
				c.Sensitive = nil
				s = s.WithCommon(c)
			}
		}
		out[i] = s
	}
	return out
}
