package detector

import (
	"bufio"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// LinuxInfo identifies a Linux distribution.
type LinuxInfo struct {
	ID         string   // e.g. "ubuntu", "arch", "fedora"
	IDLike     []string // parent distributions, closest first
	VersionID  string
	PrettyName string
	Name       string
}

// osReleasePaths are tried in order; the second is the freedesktop fallback.
var osReleasePaths = []string{"/etc/os-release", "/usr/lib/os-release"}

// DetectLinux identifies the running distribution. It never fails: an
// unrecognised system is reported with ID "unknown".
func DetectLinux() (*LinuxInfo, error) {
	for _, probe := range []func(*LinuxInfo) error{parseOSRelease, parseLSBRelease, parseReleaseFiles} {
		info := &LinuxInfo{}
		if err := probe(info); err == nil && info.ID != "" {
			return info, nil
		}
	}
	return &LinuxInfo{ID: "unknown", PrettyName: "Unknown Linux"}, nil
}

func parseOSRelease(info *LinuxInfo) error {
	var lastErr error
	for _, path := range osReleasePaths {
		f, err := os.Open(path)
		if err != nil {
			lastErr = err
			continue
		}
		fields, err := readOSRelease(f)
		f.Close()
		if err != nil {
			return err
		}

		info.ID = strings.ToLower(fields["ID"])
		info.IDLike = strings.Fields(strings.ToLower(fields["ID_LIKE"]))
		info.VersionID = fields["VERSION_ID"]
		info.PrettyName = fields["PRETTY_NAME"]
		info.Name = fields["NAME"]
		if info.PrettyName == "" {
			info.PrettyName = info.Name
		}
		return nil
	}
	return lastErr
}

// readOSRelease parses os-release(5) assignments. Values may be bare,
// single quoted or double quoted with backslash escapes.
func readOSRelease(r io.Reader) (map[string]string, error) {
	fields := make(map[string]string)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		fields[strings.TrimSpace(key)] = unquoteValue(strings.TrimSpace(value))
	}
	return fields, scanner.Err()
}

func unquoteValue(v string) string {
	if len(v) < 2 {
		return v
	}
	switch v[0] {
	case '"':
		if s, err := strconv.Unquote(v); err == nil {
			return s
		}
		return strings.Trim(v, `"`)
	case '\'':
		return strings.Trim(v, "'")
	}
	return v
}

// parseLSBRelease asks lsb_release, present on older Debian and Red Hat systems.
func parseLSBRelease(info *LinuxInfo) error {
	out, err := exec.Command("lsb_release", "-sirc").Output()
	if err != nil {
		return err
	}

	fields := strings.Fields(string(out))
	if len(fields) == 0 {
		return os.ErrNotExist
	}
	info.ID = strings.ToLower(fields[0])
	if len(fields) > 1 {
		info.VersionID = fields[1]
	}
	info.PrettyName = strings.Join(fields, " ")
	return nil
}

// releaseFiles maps distribution marker files to distribution IDs.
var releaseFiles = []struct {
	path string
	id   string
}{
	{"/etc/arch-release", "arch"},
	{"/etc/debian_version", "debian"},
	{"/etc/fedora-release", "fedora"},
	{"/etc/centos-release", "centos"},
	{"/etc/amazon-linux-release", "amzn"},
	{"/etc/redhat-release", "rhel"},
	{"/etc/gentoo-release", "gentoo"},
	{"/etc/alpine-release", "alpine"},
	{"/etc/slackware-version", "slackware"},
	{"/etc/void-release", "void"},
	{"/etc/solus-release", "solus"},
}

func parseReleaseFiles(info *LinuxInfo) error {
	for _, rf := range releaseFiles {
		if _, err := os.Stat(rf.path); err == nil {
			info.ID = rf.id
			info.PrettyName = strings.ToUpper(rf.id[:1]) + rf.id[1:] + " Linux"
			return nil
		}
	}
	return os.ErrNotExist
}

// nativeFamilies lists the distribution IDs whose shipped package manager is
// the named backend.
var nativeFamilies = []struct {
	backend string
	ids     []string
}{
	{"apt", []string{"debian", "ubuntu", "linuxmint", "pop", "elementary", "zorin", "kali", "parrot", "mx", "raspbian", "deepin"}},
	{"dnf", []string{"fedora", "rhel", "centos", "rocky", "almalinux", "nobara"}},
	{"yum", []string{"amzn", "ol"}},
	{"pacman", []string{"arch", "manjaro", "endeavouros", "garuda", "arcolinux", "artix", "cachyos"}},
	{"zypper", []string{"opensuse", "opensuse-leap", "opensuse-tumbleweed", "sles", "suse"}},
	{"xbps", []string{"void"}},
	{"apk", []string{"alpine", "postmarketos"}},
	{"emerge", []string{"gentoo", "funtoo"}},
	{"eopkg", []string{"solus"}},
	{"nix", []string{"nixos"}},
	{"slackpkg", []string{"slackware"}},
	{"swupd", []string{"clear-linux-os"}},
}

// GetNativeManager returns the backend a distribution ships with, or "".
func GetNativeManager(distroID string) string {
	for _, fam := range nativeFamilies {
		for _, id := range fam.ids {
			if id == distroID {
				return fam.backend
			}
		}
	}
	return ""
}

// GetNativeManagerForFamily is GetNativeManager falling back to the
// distribution's ID_LIKE parents.
func GetNativeManagerForFamily(distroID string, idLike []string) string {
	for _, id := range append([]string{distroID}, idLike...) {
		if backend := GetNativeManager(id); backend != "" {
			return backend
		}
	}
	return ""
}
