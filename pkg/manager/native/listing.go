package native

import (
	"bufio"
	"strings"
)

// hasFirstField reports whether any line of out starts with the field name.
func hasFirstField(out, name string) bool {
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) > 0 && fields[0] == name {
			return true
		}
	}
	return false
}

// hasLine reports whether any trimmed line of out equals name.
func hasLine(out, name string) bool {
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) == name {
			return true
		}
	}
	return false
}

// hasSlackPackage reports whether a /var/log/packages listing holds name.
// Entries look like name-version-arch-build, and names may contain dashes.
func hasSlackPackage(listing, name string) bool {
	scanner := bufio.NewScanner(strings.NewReader(listing))
	for scanner.Scan() {
		entry := strings.TrimSpace(scanner.Text())
		parts := strings.Split(entry, "-")
		if len(parts) < 4 {
			continue
		}
		if strings.Join(parts[:len(parts)-3], "-") == name {
			return true
		}
	}
	return false
}
