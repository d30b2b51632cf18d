package gringotts

import (
	"crypto/rand"
	"runtime"
)

// wipe clears a buffer holding secret material. At SecurityParanoid the
// buffer is first overwritten with random bytes.
func wipe(sec SecurityLevel, bufs ...[]byte) {
	for _, b := range bufs {
		if len(b) == 0 {
			continue
		}
		if sec == SecurityParanoid {
			_, _ = rand.Read(b)
		}
		clear(b)
		runtime.KeepAlive(b)
	}
}
