package main

import (
	"time"

	"github.com/marqueelabs/marquee/internal/model"
)

const (
	defaultBindHost       = "127.0.0.1"
	defaultAPIPort        = 3000
	defaultQueryTimeout   = 30 * time.Second
	defaultUpdateInterval = model.DefaultUpdateInterval
)

// appConfig is internal runtime configuration.
// It is package-private to keep defaults and shape local to the CLI entrypoint.
type appConfig struct {
	DBPath         string        `mapstructure:"db-path"`
	APIEnabled     bool          `mapstructure:"api-enabled"`
	APIPort        int           `mapstructure:"api-port"`
	APIAddr        string        `mapstructure:"api-addr"`
	QueryTimeout   time.Duration `mapstructure:"query-timeout"`
	SocketPath     string        `mapstructure:"socket-path"`
	JournalEnabled bool          `mapstructure:"journal-enabled"`
	JournalPath    string        `mapstructure:"journal-path"`
	SeedDemoData   bool          `mapstructure:"seed-demo-data"`

	BackupEnabled        bool          `mapstructure:"backup-enabled"`
	BackupInterval       time.Duration `mapstructure:"backup-interval"`
	BackupLocalDir       string        `mapstructure:"backup-local-dir"`
	BackupKeepLast       int           `mapstructure:"backup-keep-last"`
	BackupBucketURL      string        `mapstructure:"backup-bucket-url"`
	BackupS3Endpoint     string        `mapstructure:"backup-s3-endpoint"`
	BackupS3Region       string        `mapstructure:"backup-s3-region"`
	BackupS3AccessKey    string        `mapstructure:"backup-s3-access-key"`
	BackupS3SecretKey    string        `mapstructure:"backup-s3-secret-key"`
	BackupS3SessionToken string        `mapstructure:"backup-s3-session-token"`
	BackupS3UseSSL       bool          `mapstructure:"backup-s3-use-ssl"`

	ConfigPath string `mapstructure:"-"` // not from config file
}
