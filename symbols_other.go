//go:build !linux || !(amd64 || arm64)

package aaudio

import (
	"fmt"
	"runtime"
)

func openNative([]string) (Native, string, error) {
	return nil, "", fmt.Errorf("libaaudio is not available on %s/%s", runtime.GOOS, runtime.GOARCH)
}
