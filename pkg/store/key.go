package store

import (
	"path"
	"strconv"
	"strings"
)

// ParseKey splits a key produced by Key into its session and sequence.
func ParseKey(key string) (session string, seq uint64, ok bool) {
	dir, file := path.Split(key)
	if dir == "" || !strings.HasSuffix(file, Extension) {
		return "", 0, false
	}
	seq, err := strconv.ParseUint(strings.TrimSuffix(file, Extension), 10, 64)
	if err != nil {
		return "", 0, false
	}
	return strings.TrimSuffix(dir, "/"), seq, true
}
