package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/krishi-ledger/krishi-ledger/internal/app"
	_ "github.com/krishi-ledger/krishi-ledger/testing"
)

func TestMainSkipsStartupInTestMode(t *testing.T) {
	require.True(t, app.InTestMode())
	main()
}
