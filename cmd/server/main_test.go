package main

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kipko3ch/link-seav1/internal/config"
)

func TestRun(t *testing.T) {
	t.Setenv("PORT", "0")
	t.Setenv("DATABASE_URL", "sqlite://file:run?mode=memory&cache=shared")
	t.Setenv("APP_ENV", "local")
	t.Setenv("GEOIP_DB_PATH", "")

	ctx, cancel := context.WithCancel(context.Background())

	errChan := make(chan error, 1)
	go func() {
		errChan <- Run(ctx)
	}()

	time.Sleep(500 * time.Millisecond)
	cancel()

	select {
	case err := <-errChan:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("Run did not exit in time")
	}
}

func TestRun_ConfigError(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	err := Run(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestRun_DBError(t *testing.T) {
	t.Setenv("DATABASE_URL", "unsupported://db")
	t.Setenv("DB_CONNECT_RETRIES", "0")

	err := Run(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to initialize database")
}

func TestRun_ServerError(t *testing.T) {
	ln, err := net.Listen("tcp", ":0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()
	_, port, _ := net.SplitHostPort(ln.Addr().String())

	t.Setenv("PORT", port)
	t.Setenv("DATABASE_URL", "sqlite://file:busy?mode=memory&cache=shared")
	t.Setenv("GEOIP_DB_PATH", "")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = Run(ctx)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "server error")
}

func TestNewLogger(t *testing.T) {
	assert.NotNil(t, newLogger(config.Config{AppEnv: "production"}))
	assert.NotNil(t, newLogger(config.Config{AppEnv: "local"}))
}
