package app

import (
	"os"
	"sync"
	"sync/atomic"
)

const testModeEnv = "LECTNEXT_TEST_MODE"

var (
	testMode     atomic.Bool
	testModeInit sync.Once
)

func readTestModeEnv() {
	testMode.Store(os.Getenv(testModeEnv) == "1")
}

// InTestMode reports whether the process runs under the test harness. Mains
// consult this to refuse accidental startup against real infrastructure.
func InTestMode() bool {
	testModeInit.Do(readTestModeEnv)
	return testMode.Load()
}

// RefreshTestMode re-reads the environment flag. Only tests that flip the
// variable mid-process need this.
func RefreshTestMode() {
	readTestModeEnv()
}
