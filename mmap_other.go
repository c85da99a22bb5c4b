//go:build appengine || wasm || js
// +build appengine wasm js

package maxminddb

import "errors"

// Platforms without a usable mmap syscall (Google App Engine, WebAssembly)
// fall back to reading the whole file into memory; see openFallback in
// reader.go.
func mmap(_ int, _ int) (data []byte, err error) {
	return nil, errors.ErrUnsupported
}

func munmap(_ []byte) (err error) {
	return nil
}
