package config

import (
	"fmt"
	"strings"

	msd "github.com/go-sif/sif-msd"
	"github.com/go-sif/sif-msd/logging"
	"github.com/go-sif/sif-msd/shard"
	"github.com/go-sif/sif-msd/sink"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/viper"
)

// ChunkSize is the number of rows in every chunk except possibly the last one of a worker
const ChunkSize = 10000

var errBucketRequired = fmt.Errorf("a bucket is required unless save-local is set")

// EnvPrefix prefixes every environment variable read by Load
const EnvPrefix = "SIF_MSD"

// Options configures a conversion worker
type Options struct {
	DataDir           string `mapstructure:"data-dir"`            // Root of the song tree, one subdirectory per partition key. Defaults to "data".
	Pattern           string `mapstructure:"pattern"`             // Base name pattern of song files. Defaults to "*.h5".
	StagingDir        string `mapstructure:"staging-dir"`         // Directory where chunk files are written. Defaults to "processed".
	SaveLocal         bool   `mapstructure:"save-local"`          // Keep chunk files locally instead of uploading them
	Bucket            string `mapstructure:"bucket"`              // S3 bucket receiving chunk files when SaveLocal is false
	Region            string `mapstructure:"region"`              // AWS region of Bucket. Defaults to the SDK's resolution chain.
	Alphabet          string `mapstructure:"alphabet"`            // Ordered partition keys, one character each. Defaults to A-Z.
	Strategy          string `mapstructure:"strategy"`            // Shard assignment strategy. Defaults to "striped".
	Compression       string `mapstructure:"compression"`         // Chunk file compression. Defaults to "none".
	LogLevel          string `mapstructure:"log-level"`           // Defaults to "info"
	LogFormat         string `mapstructure:"log-format"`          // "text" or "json". Defaults to "text".
	CollectSkipErrors bool   `mapstructure:"collect-skip-errors"` // Keep the cause of every skipped file on the worker report
}

// Defaults returns Options with every default applied
func Defaults() *Options {
	opts := &Options{}
	opts.EnsureDefaults()
	return opts
}

// EnsureDefaults fills in any unset option with its default value
func (opts *Options) EnsureDefaults() {
	if len(opts.DataDir) == 0 {
		opts.DataDir = "data"
	}
	if len(opts.Pattern) == 0 {
		opts.Pattern = "*.h5"
	}
	if len(opts.StagingDir) == 0 {
		opts.StagingDir = "processed"
	}
	if len(opts.Alphabet) == 0 {
		opts.Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	}
	if len(opts.Strategy) == 0 {
		opts.Strategy = shard.Striped
	}
	if len(opts.Compression) == 0 {
		opts.Compression = sink.None
	}
	if len(opts.LogLevel) == 0 {
		opts.LogLevel = "info"
	}
	if len(opts.LogFormat) == 0 {
		opts.LogFormat = logging.TextFormat
	}
}

// Validate reports every invalid option
func (opts *Options) Validate() error {
	var errs *multierror.Error
	if _, err := opts.PartitionKeys(); err != nil {
		errs = multierror.Append(errs, err)
	}
	if err := shard.ValidateStrategy(opts.Strategy); err != nil {
		errs = multierror.Append(errs, err)
	}
	if _, err := sink.CodecFor(opts.Compression); err != nil {
		errs = multierror.Append(errs, err)
	}
	if _, err := logging.ParseLevel(opts.LogLevel); err != nil {
		errs = multierror.Append(errs, err)
	}
	if _, err := logging.New(logging.InfoLevel, opts.LogFormat, nil); err != nil {
		errs = multierror.Append(errs, err)
	}
	if !opts.SaveLocal && len(opts.Bucket) == 0 {
		errs = multierror.Append(errs, errBucketRequired)
	}
	return errs.ErrorOrNil()
}

// PartitionKeys parses the configured alphabet
func (opts *Options) PartitionKeys() (msd.Alphabet, error) {
	return msd.AlphabetFromString(opts.Alphabet)
}

// SetDefaults registers every option's default with v, so that environment variables are
// considered for keys which have no flag
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("data-dir", d.DataDir)
	v.SetDefault("pattern", d.Pattern)
	v.SetDefault("staging-dir", d.StagingDir)
	v.SetDefault("save-local", d.SaveLocal)
	v.SetDefault("bucket", d.Bucket)
	v.SetDefault("region", d.Region)
	v.SetDefault("alphabet", d.Alphabet)
	v.SetDefault("strategy", d.Strategy)
	v.SetDefault("compression", d.Compression)
	v.SetDefault("log-level", d.LogLevel)
	v.SetDefault("log-format", d.LogFormat)
	v.SetDefault("collect-skip-errors", d.CollectSkipErrors)
}

// Load reads Options from v, layering flags bound to v over SIF_MSD_* environment variables,
// over configFile (if not empty), over defaults. The result is not validated, since not every
// command needs every option.
func Load(v *viper.Viper, configFile string) (*Options, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if len(configFile) > 0 {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}
	opts := &Options{}
	if err := v.Unmarshal(opts); err != nil {
		return nil, err
	}
	opts.EnsureDefaults()
	return opts, nil
}
