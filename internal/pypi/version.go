package pypi

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var versionPattern = regexp.MustCompile(`^v?(?:(\d+)!)?(\d+(?:\.\d+)*)` +
	`(?:[-_.]?(a|b|c|rc|alpha|beta|pre|preview)[-_.]?(\d+)?)?` +
	`(?:-(\d+)|[-_.]?(post|rev|r)[-_.]?(\d+)?)?` +
	`(?:[-_.]?(dev)[-_.]?(\d+)?)?` +
	`(?:\+([a-z0-9]+(?:[-_.][a-z0-9]+)*))?$`)

// Version is a parsed PEP 440 version.
type Version struct {
	Epoch   int
	Release []int
	// PreKind is one of "a", "b" or "rc"; empty when not a pre-release.
	PreKind string
	Pre     int
	// Post and Dev are -1 when absent.
	Post  int
	Dev   int
	Local string

	raw string
}

// ParseVersion parses s as a PEP 440 version.
func ParseVersion(s string) (Version, error) {
	m := versionPattern.FindStringSubmatch(strings.ToLower(strings.TrimSpace(s)))
	if m == nil {
		return Version{}, fmt.Errorf("invalid version %q", s)
	}

	v := Version{Post: -1, Dev: -1, Local: m[10], raw: s}
	v.Epoch = atoi(m[1])
	for _, part := range strings.Split(m[2], ".") {
		v.Release = append(v.Release, atoi(part))
	}

	if m[3] != "" {
		switch m[3] {
		case "a", "alpha":
			v.PreKind = "a"
		case "b", "beta":
			v.PreKind = "b"
		default:
			v.PreKind = "rc"
		}
		v.Pre = atoi(m[4])
	}

	switch {
	case m[5] != "":
		v.Post = atoi(m[5])
	case m[6] != "":
		v.Post = atoi(m[7])
	}

	if m[8] != "" {
		v.Dev = atoi(m[9])
	}
	return v, nil
}

func atoi(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return math.MaxInt32
	}
	return n
}

// String returns the version as it was published.
func (v Version) String() string {
	return v.raw
}

// IsPrerelease reports whether v is a pre-release or development release.
func (v Version) IsPrerelease() bool {
	return v.PreKind != "" || v.Dev >= 0
}

// Compare returns -1, 0 or +1 depending on whether v sorts before, equal to
// or after o. Local version labels are ignored.
func (v Version) Compare(o Version) int {
	if c := cmpInt(v.Epoch, o.Epoch); c != 0 {
		return c
	}
	if c := compareRelease(v.Release, o.Release); c != 0 {
		return c
	}
	if c := cmpInt(v.preRank(), o.preRank()); c != 0 {
		return c
	}
	if v.PreKind != "" {
		if c := cmpInt(v.Pre, o.Pre); c != 0 {
			return c
		}
	}
	if c := cmpInt(v.Post, o.Post); c != 0 {
		return c
	}
	return cmpInt(v.devRank(), o.devRank())
}

// preRank orders 1.0.dev0 < 1.0a1 < 1.0b1 < 1.0rc1 < 1.0.
func (v Version) preRank() int {
	switch v.PreKind {
	case "a":
		return 1
	case "b":
		return 2
	case "rc":
		return 3
	}
	if v.Post < 0 && v.Dev >= 0 {
		return 0
	}
	return 4
}

func (v Version) devRank() int {
	if v.Dev < 0 {
		return math.MaxInt
	}
	return v.Dev
}

func compareRelease(a, b []int) int {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		var x, y int
		if i < len(a) {
			x = a[i]
		}
		if i < len(b) {
			y = b[i]
		}
		if c := cmpInt(x, y); c != 0 {
			return c
		}
	}
	return 0
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Latest returns the greatest final release among versions. Pre-releases
// are considered only when nothing else was published. Unparseable
// versions are skipped.
func Latest(versions []string) (string, bool) {
	var best, bestPre *Version
	for _, s := range versions {
		v, err := ParseVersion(s)
		if err != nil {
			continue
		}
		if v.IsPrerelease() {
			if bestPre == nil || v.Compare(*bestPre) > 0 {
				bestPre = &v
			}
			continue
		}
		if best == nil || v.Compare(*best) > 0 {
			best = &v
		}
	}
	switch {
	case best != nil:
		return best.String(), true
	case bestPre != nil:
		return bestPre.String(), true
	}
	return "", false
}
