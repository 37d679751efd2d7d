// Package guard switches the process into test mode when imported, so
// packages under test never dial redis, postgres or mongo at start-up.
package guard

import "os"

func init() {
	if os.Getenv("KRISHI_TEST_MODE") == "" {
		_ = os.Setenv("KRISHI_TEST_MODE", "1")
	}
}
