package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	servermocks "github.com/dtroode/flower-server/internal/mocks"
)

func TestHTTPServer_Address(t *testing.T) {
	s := NewHTTPServer(fiber.New(), ":0")
	assert.Equal(t, ":0", s.Address())
}

func TestHTTPServer_StartServeStop(t *testing.T) {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	sec := servermocks.NewSecurityLayer(t)
	sec.On("Listen", "tcp", ":8080").Return(ln, nil).Once()

	srv := NewHTTPServer(app, ":8080")
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start(sec) }()

	var resp *http.Response
	require.Eventually(t, func() bool {
		resp, err = http.Get("http://" + ln.Addr().String() + "/ping")
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, "pong", string(body))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, srv.Stop(ctx))
	assert.NoError(t, <-errCh)
}

func TestHTTPServer_StartListenError(t *testing.T) {
	sec := servermocks.NewSecurityLayer(t)
	sec.On("Listen", "tcp", ":8080").Return(nil, assert.AnError).Once()

	err := NewHTTPServer(fiber.New(), ":8080").Start(sec)
	assert.ErrorIs(t, err, assert.AnError)
}
