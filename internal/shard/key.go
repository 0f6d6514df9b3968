// Package shard derives physical store identities from (tenant, year).
// The mapping is pure: no I/O happens here.
package shard

import (
	"fmt"
	"strconv"
	"strings"
)

// Key identifies one tenant-year shard. It is the registry cache key and
// the derivation rule for the on-disk store name.
type Key struct {
	Tenant string
	Year   int
}

// Resolve builds the shard key for a tenant and a four-digit year.
func Resolve(tenant string, year int) Key {
	return Key{Tenant: tenant, Year: year}
}

// Filename is the on-disk store name for this key.
func (k Key) Filename() string {
	return fmt.Sprintf("tenant_%s_%d.db", k.Tenant, k.Year)
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%d", k.Tenant, k.Year)
}

// ParseFilename recovers a shard key from a store file name. Backup copies
// and unrelated files do not parse.
func ParseFilename(name string) (Key, bool) {
	rest, found := strings.CutPrefix(name, "tenant_")
	if !found {
		return Key{}, false
	}
	rest, found = strings.CutSuffix(rest, ".db")
	if !found {
		return Key{}, false
	}
	// The year is everything after the last underscore; tenant ids may
	// themselves contain underscores.
	i := strings.LastIndex(rest, "_")
	if i <= 0 || i == len(rest)-1 {
		return Key{}, false
	}
	yearPart := rest[i+1:]
	if len(yearPart) != 4 {
		return Key{}, false
	}
	year, err := strconv.Atoi(yearPart)
	if err != nil {
		return Key{}, false
	}
	return Key{Tenant: rest[:i], Year: year}, true
}
