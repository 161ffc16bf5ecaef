package worker

import (
	"context"

	msd "github.com/go-sif/sif-msd"
	"github.com/go-sif/sif-msd/config"
	"github.com/go-sif/sif-msd/datasource/file"
	"github.com/go-sif/sif-msd/extract"
	"github.com/go-sif/sif-msd/internal/h5"
	"github.com/go-sif/sif-msd/shard"
	"github.com/go-sif/sif-msd/sink"
	uuid "github.com/gofrs/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// Environment supplies the external resources of Workers built by OptionsFromConfig.
// Unset fields are created on demand.
type Environment struct {
	Fs     afero.Fs           // Filesystem holding the song tree and the staging directory. Defaults to the OS filesystem.
	Logger logrus.FieldLogger // Defaults to the standard logrus logger
	Reader extract.SongReader // Defaults to the HDF5 song reader
	S3     sink.PutObjectAPI  // Defaults to a client for conf.Region, created only when uploading
}

// OptionsFromConfig assembles the Options of worker workerID of numWorkers from conf. The
// worker's identity is validated before any resource is created.
func OptionsFromConfig(ctx context.Context, conf *config.Options, numWorkers, workerID int, env *Environment) (*Options, error) {
	identity := shard.Identity{Total: numWorkers, Index: workerID}
	if err := identity.Validate(); err != nil {
		return nil, err
	}
	conf.EnsureDefaults()
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	alphabet, err := conf.PartitionKeys()
	if err != nil {
		return nil, err
	}
	if env == nil {
		env = &Environment{}
	}
	if env.Fs == nil {
		env.Fs = afero.NewOsFs()
	}
	if env.Logger == nil {
		env.Logger = logrus.StandardLogger()
	}
	if env.Reader == nil {
		env.Reader = h5.NewReader()
	}
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	runID := id.String()
	log := env.Logger.WithFields(logrus.Fields{
		"worker":  workerID,
		"workers": numWorkers,
		"run":     runID,
	})

	enumerator := file.CreateDataSource(env.Fs, conf.DataDir, conf.Pattern)
	enumerator.OnReadError(func(path string, err error) {
		log.WithField("path", path).WithError(err).Warn("Unable to read directory, skipping its contents")
	})
	staging, err := sink.NewLocalSink(env.Fs, conf.StagingDir, conf.Compression, log)
	if err != nil {
		return nil, err
	}
	var rowSink msd.RowSink = staging
	if !conf.SaveLocal {
		if env.S3 == nil {
			client, err := sink.NewS3Client(ctx, conf.Region)
			if err != nil {
				return nil, err
			}
			env.S3 = client
		}
		s3Sink, err := sink.NewS3Sink(staging, env.S3, conf.Bucket, runID, log)
		if err != nil {
			return nil, err
		}
		rowSink = s3Sink
	}
	return &Options{
		NumWorkers:        numWorkers,
		WorkerID:          workerID,
		Alphabet:          alphabet,
		Strategy:          conf.Strategy,
		ChunkSize:         config.ChunkSize,
		Enumerator:        enumerator,
		Extractor:         extract.New(env.Reader, extract.WithLogger(log)),
		Sink:              rowSink,
		Logger:            env.Logger,
		RunID:             runID,
		CollectSkipErrors: conf.CollectSkipErrors,
	}, nil
}
