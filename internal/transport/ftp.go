package transport

import (
	"context"
	"fmt"
	"io"
	"net"
	"path"
	"strconv"
	"time"

	"github.com/MichalMitros/catalog-bridge/internal/platform"
	"github.com/jlaffaye/ftp"
)

const (
	defaultFTPPort  = 21
	defaultSFTPPort = 22
	defaultTimeout  = 30 * time.Second
)

// FileServerConfig holds file server connection parameters.
type FileServerConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Timeout  time.Duration
	// DisableEPSV forces PASV passive mode on FTP servers without EPSV support.
	DisableEPSV bool
	// HostKey is SFTP server public key in authorized_keys format.
	HostKey string
}

func (c FileServerConfig) address(defaultPort int) string {
	port := c.Port
	if port == 0 {
		port = defaultPort
	}
	return net.JoinHostPort(c.Host, strconv.Itoa(port))
}

func (c FileServerConfig) timeout() time.Duration {
	if c.Timeout <= 0 {
		return defaultTimeout
	}
	return c.Timeout
}

// FTP fetches files from FTP server using password authentication and passive mode.
type FTP struct {
	source string
	cfg    FileServerConfig
	conn   *ftp.ServerConn
}

// NewFTP returns new FTP transport.
func NewFTP(source string, cfg FileServerConfig) *FTP {
	return &FTP{
		source: source,
		cfg:    cfg,
	}
}

// Connect dials FTP server and logs in.
func (f *FTP) Connect(ctx context.Context) error {
	if f.conn != nil {
		return nil
	}

	addr := f.cfg.address(defaultFTPPort)
	conn, err := ftp.Dial(
		addr,
		ftp.DialWithContext(ctx),
		ftp.DialWithTimeout(f.cfg.timeout()),
		ftp.DialWithDisabledEPSV(f.cfg.DisableEPSV),
	)
	if err != nil {
		return platform.NewError(f.source, "connect "+addr, platform.ErrConnection, err)
	}

	if err := conn.Login(f.cfg.Username, f.cfg.Password); err != nil {
		_ = conn.Quit()
		return platform.NewError(f.source, "login "+addr, platform.ErrConnection, err)
	}

	f.conn = conn

	return nil
}

// List returns names of files in remote directory.
func (f *FTP) List(_ context.Context, dir string) ([]string, error) {
	if f.conn == nil {
		return nil, platform.NewError(f.source, "list "+dir, platform.ErrConnection, ErrNotConnected)
	}

	entries, err := f.conn.NameList(dir)
	if err != nil {
		return nil, platform.NewError(f.source, "list "+dir, platform.ErrConnection, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		// some servers return full paths
		names = append(names, path.Base(entry))
	}

	return names, nil
}

// Fetch copies remote file into sink.
func (f *FTP) Fetch(_ context.Context, remotePath string, sink io.Writer) error {
	op := "fetch " + remotePath
	if f.conn == nil {
		return platform.NewError(f.source, op, platform.ErrConnection, ErrNotConnected)
	}

	resp, err := f.conn.Retr(remotePath)
	if err != nil {
		return platform.NewError(f.source, op, platform.ErrFetch, err)
	}
	defer resp.Close()

	n, err := io.Copy(sink, resp)
	if err != nil {
		return platform.NewError(f.source, op, platform.ErrFetch, fmt.Errorf("can't read remote file: %w", err))
	}

	if n == 0 {
		return platform.NewError(f.source, op, platform.ErrFetch, ErrEmptyBody)
	}

	return nil
}

// Close logs out and closes connection.
func (f *FTP) Close() error {
	if f.conn == nil {
		return nil
	}

	err := f.conn.Quit()
	f.conn = nil
	if err != nil {
		return fmt.Errorf("can't close ftp connection: %w", err)
	}

	return nil
}
