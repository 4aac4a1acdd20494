package server

import (
	"io"
	"testing"

	"movieranker/internal/conf"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/health/grpc_health_v1"
)

func TestNewGRPCServer_RegistersHealth(t *testing.T) {
	c := conf.Default().Server
	srv := NewGRPCServer(&c, log.NewStdLogger(io.Discard))

	services := srv.GetServiceInfo()
	assert.Contains(t, services, grpc_health_v1.Health_ServiceDesc.ServiceName)
}
