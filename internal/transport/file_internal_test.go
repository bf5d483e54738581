package transport

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/MichalMitros/catalog-bridge/internal/platform"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// test ed25519 key in authorized_keys format
const testHostKey = "ssh-ed25519 AAAAC3NzaC1lZDI1NTE5AAAAIKKoU3iKOMD9Gh3eERMGGtnGoJJEo1/RqBwGjO0oB5xa test"

func TestUnitFileServerConfigAddress(t *testing.T) {
	tests := map[string]struct {
		cfg         FileServerConfig
		defaultPort int
		want        string
	}{
		"default ftp port": {
			cfg:         FileServerConfig{Host: "ftp.axpol.com.pl"},
			defaultPort: defaultFTPPort,
			want:        "ftp.axpol.com.pl:21",
		},
		"explicit sftp port": {
			cfg:         FileServerConfig{Host: "ftp.inspirion.pl", Port: 2222},
			defaultPort: defaultSFTPPort,
			want:        "ftp.inspirion.pl:2222",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.address(tt.defaultPort), "should build correct address")
		})
	}
}

func TestUnitFileServerConfigTimeout(t *testing.T) {
	assert.Equal(t, defaultTimeout, FileServerConfig{}.timeout(), "should use default timeout")
	assert.Equal(t, time.Second, FileServerConfig{Timeout: time.Second}.timeout(), "should use configured timeout")
}

func TestUnitSFTPHostKeyCallback(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("pinned key", func(t *testing.T) {
		tr := NewSFTP("inspirion", FileServerConfig{HostKey: testHostKey}, &logger)

		callback, err := tr.hostKeyCallback()

		require.NoError(t, err, "should parse host key")
		assert.NotNil(t, callback, "should return callback")
	})

	t.Run("not configured", func(t *testing.T) {
		tr := NewSFTP("inspirion", FileServerConfig{}, &logger)

		callback, err := tr.hostKeyCallback()

		require.NoError(t, err, "shouldn't return error")
		assert.NotNil(t, callback, "should return permissive callback")
	})

	t.Run("bad key", func(t *testing.T) {
		tr := NewSFTP("inspirion", FileServerConfig{HostKey: "not a key"}, &logger)

		_, err := tr.hostKeyCallback()

		require.ErrorContains(t, err, "can't parse host key", "should return parsing error")
	})
}

func TestUnitFileTransportsNotConnected(t *testing.T) {
	logger := zerolog.Nop()

	tests := map[string]interface {
		List(context.Context, string) ([]string, error)
		Fetch(context.Context, string, io.Writer) error
		Close() error
	}{
		"ftp":  NewFTP("axpol", FileServerConfig{}),
		"sftp": NewSFTP("inspirion", FileServerConfig{}, &logger),
	}

	for name, tr := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := tr.List(context.TODO(), "/")
			require.ErrorIs(t, err, ErrNotConnected, "list should require connection")
			require.ErrorIs(t, err, platform.ErrConnection, "list should return connection error")

			err = tr.Fetch(context.TODO(), "/products.xml", &bytes.Buffer{})
			require.ErrorIs(t, err, ErrNotConnected, "fetch should require connection")

			require.NoError(t, tr.Close(), "closing unconnected transport should be no-op")
		})
	}
}
