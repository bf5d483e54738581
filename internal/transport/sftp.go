package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/MichalMitros/catalog-bridge/internal/platform"
	"github.com/pkg/sftp"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/ssh"
)

// SFTP fetches files from SFTP server using password authentication.
type SFTP struct {
	source string
	cfg    FileServerConfig
	logger *zerolog.Logger
	ssh    *ssh.Client
	client *sftp.Client
}

// NewSFTP returns new SFTP transport.
func NewSFTP(source string, cfg FileServerConfig, logger *zerolog.Logger) *SFTP {
	return &SFTP{
		source: source,
		cfg:    cfg,
		logger: logger,
	}
}

// Connect dials SSH server and opens SFTP session.
func (s *SFTP) Connect(ctx context.Context) error {
	if s.client != nil {
		return nil
	}

	addr := s.cfg.address(defaultSFTPPort)
	op := "connect " + addr

	hostKeyCallback, err := s.hostKeyCallback()
	if err != nil {
		return platform.NewError(s.source, op, platform.ErrConnection, err)
	}

	sshCfg := &ssh.ClientConfig{
		User:            s.cfg.Username,
		Auth:            []ssh.AuthMethod{ssh.Password(s.cfg.Password)},
		HostKeyCallback: hostKeyCallback,
		Timeout:         s.cfg.timeout(),
	}

	dialer := net.Dialer{Timeout: s.cfg.timeout()}
	netConn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return platform.NewError(s.source, op, platform.ErrConnection, err)
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(netConn, addr, sshCfg)
	if err != nil {
		_ = netConn.Close()
		return platform.NewError(s.source, "login "+addr, platform.ErrConnection, err)
	}
	sshClient := ssh.NewClient(sshConn, chans, reqs)

	client, err := sftp.NewClient(sshClient)
	if err != nil {
		_ = sshClient.Close()
		return platform.NewError(s.source, op, platform.ErrConnection, fmt.Errorf("can't start sftp session: %w", err))
	}

	s.ssh = sshClient
	s.client = client

	return nil
}

// List returns names of regular files in remote directory.
func (s *SFTP) List(_ context.Context, dir string) ([]string, error) {
	if s.client == nil {
		return nil, platform.NewError(s.source, "list "+dir, platform.ErrConnection, ErrNotConnected)
	}

	entries, err := s.client.ReadDir(dir)
	if err != nil {
		return nil, platform.NewError(s.source, "list "+dir, platform.ErrConnection, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Mode().IsRegular() {
			names = append(names, entry.Name())
		}
	}

	return names, nil
}

// Fetch copies remote file into sink.
func (s *SFTP) Fetch(_ context.Context, remotePath string, sink io.Writer) error {
	op := "fetch " + remotePath
	if s.client == nil {
		return platform.NewError(s.source, op, platform.ErrConnection, ErrNotConnected)
	}

	file, err := s.client.Open(remotePath)
	if err != nil {
		return platform.NewError(s.source, op, platform.ErrFetch, err)
	}
	defer file.Close()

	n, err := io.Copy(sink, file)
	if err != nil {
		return platform.NewError(s.source, op, platform.ErrFetch, fmt.Errorf("can't read remote file: %w", err))
	}

	if n == 0 {
		return platform.NewError(s.source, op, platform.ErrFetch, ErrEmptyBody)
	}

	return nil
}

// Close closes SFTP session and SSH connection.
func (s *SFTP) Close() error {
	if s.client == nil {
		return nil
	}

	err := errors.Join(s.client.Close(), s.ssh.Close())
	s.client, s.ssh = nil, nil
	if err != nil {
		return fmt.Errorf("can't close sftp connection: %w", err)
	}

	return nil
}

func (s *SFTP) hostKeyCallback() (ssh.HostKeyCallback, error) {
	if s.cfg.HostKey == "" {
		s.logger.Warn().
			Str("source", s.source).
			Str("host", s.cfg.Host).
			Msg("sftp host key not configured, accepting any host key")
		return ssh.InsecureIgnoreHostKey(), nil //nolint:gosec // host key pinning is opt-in per source
	}

	key, _, _, _, err := ssh.ParseAuthorizedKey([]byte(s.cfg.HostKey))
	if err != nil {
		return nil, fmt.Errorf("can't parse host key: %w", err)
	}

	return ssh.FixedHostKey(key), nil
}
