package testutil

import (
	"context"

	"github.com/flexprice/taxadmin/internal/types"
)

// SetupContext returns a context carrying a fresh request id
func SetupContext() context.Context {
	return types.SetRequestID(context.Background(), "req_test")
}
