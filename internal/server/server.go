package server

import (
	"movieranker/internal/pkg/metrics"

	"github.com/google/wire"
)

// ProviderSet is server providers.
var ProviderSet = wire.NewSet(NewHTTPServer, NewGRPCServer, metrics.New)
