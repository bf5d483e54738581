package models

import "time"

// Source kinds.
const (
	KindFTPXML       = "ftp-xml"
	KindSFTPXML      = "sftp-xml"
	KindAPIXML       = "api-xml"
	KindAPIJSONToken = "api-json-token"
)

// Payload formats.
const (
	FormatXML  = "xml"
	FormatJSON = "json"
)

// SourceCredential holds connection parameters of a single source.
type SourceCredential struct {
	ID       string `yaml:"id" validate:"required,alphanum"`
	Name     string `yaml:"name"`
	Kind     string `yaml:"kind" validate:"required,oneof=ftp-xml sftp-xml api-xml api-json-token"`
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host" validate:"required"`
	Port     int    `yaml:"port" validate:"gte=0,lte=65535"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	// Path is remote directory for file transports.
	Path   string `yaml:"path"`
	Format string `yaml:"format" validate:"omitempty,oneof=xml json"`
	// CacheDir is name of local cache subdirectory.
	CacheDir    string                  `yaml:"cache_dir" validate:"required"`
	Endpoints   map[PayloadKind]string  `yaml:"endpoints" validate:"required,dive,keys,oneof=products stocks categories prices images,endkeys,required"`
	Archive     *ArchiveConfig          `yaml:"archive"`
	Images      *ImageServerCredential  `yaml:"images"`
	Auth        *TokenAuthConfig        `yaml:"auth"`
	HostKey     string                  `yaml:"host_key"`
	DisableEPSV bool                    `yaml:"disable_epsv"`
	Timeout     time.Duration           `yaml:"timeout"`
	InsecureTLS bool                    `yaml:"insecure_tls"`
	RateLimit   float64                 `yaml:"rate_limit" validate:"gte=0"`
	Headers     map[string]string       `yaml:"headers"`
}

// ArchiveConfig describes zipped products payload.
type ArchiveConfig struct {
	// Dir is remote directory listed for newest zip file.
	Dir string `yaml:"dir"`
	// Member is name of file extracted from archive.
	Member string `yaml:"member" validate:"required"`
}

// ImageServerCredential holds connection parameters of separate image server.
type ImageServerCredential struct {
	Protocol string `yaml:"protocol" validate:"required,oneof=ftp sftp"`
	Host     string `yaml:"host" validate:"required"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Path     string `yaml:"path"`
}

// TokenAuthConfig holds token authentication endpoints.
type TokenAuthConfig struct {
	LoginPath   string `yaml:"login_path" validate:"required"`
	RefreshPath string `yaml:"refresh_path" validate:"required"`
}
