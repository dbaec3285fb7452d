// Package guard flips the process into test mode on import. Test files pull
// it in through the top-level testing package so guarded mains and services
// refuse to start against real infrastructure.
package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("LECTNEXT_TEST_MODE") == "" {
			_ = os.Setenv("LECTNEXT_TEST_MODE", "1")
		}
	})
}
