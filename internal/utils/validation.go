package utils

import "regexp"

// Debian policy: paket adları küçük harf, rakam ve "+-." içerebilir,
// alfanümerik başlar. Komut satırına girmeden önce bununla süzülür.
var pkgNameRe = regexp.MustCompile(`^[a-z0-9][a-z0-9+._-]*$`)

// IsValidPackageName reports whether the name is safe to pass to the
// package manager without quoting.
func IsValidPackageName(name string) bool {
	return pkgNameRe.MatchString(name)
}
