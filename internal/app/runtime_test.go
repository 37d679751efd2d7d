package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRefreshTestMode(t *testing.T) {
	t.Cleanup(func() {
		RefreshTestMode()
	})

	for _, tc := range []struct {
		value string
		want  bool
	}{
		{"1", true},
		{"true", true},
		{"0", false},
		{"", false},
		{"yes", false},
	} {
		t.Setenv(TestModeEnv, tc.value)
		RefreshTestMode()
		assert.Equal(t, tc.want, InTestMode(), "value %q", tc.value)
	}
}
