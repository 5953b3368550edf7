package global

import (
	"context"
	"testing"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
)

type stubServer struct {
	cron *cron.Cron
	ctx  context.Context
}

func (s *stubServer) GetCron() *cron.Cron     { return s.cron }
func (s *stubServer) GetCtx() context.Context { return s.ctx }

func TestWebServerRegistry(t *testing.T) {
	defer SetWebServer(nil)

	assert.Nil(t, GetWebServer())

	server := &stubServer{cron: cron.New(), ctx: context.Background()}
	SetWebServer(server)

	got := GetWebServer()
	assert.NotNil(t, got)
	assert.Same(t, server.cron, got.GetCron())
	assert.Equal(t, server.ctx, got.GetCtx())
}
