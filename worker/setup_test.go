package worker

import (
	"context"
	"io"
	"math"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-sif/sif-msd/config"
	errors "github.com/go-sif/sif-msd/errors"
	"github.com/go-sif/sif-msd/extract"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

type fakeSong struct{ nan bool }

func (s *fakeSong) Column(group, name string) (interface{}, error) {
	if name == "artist_familiarity" && s.nan {
		return math.NaN(), nil
	}
	if name == "artist_location" {
		return []byte("Memphis, TN\x00\x00"), nil
	}
	return 0.5, nil
}

func (s *fakeSong) Array(group, name string) ([]interface{}, error) {
	return []interface{}{"rock", "pop"}, nil
}

func (s *fakeSong) Close() error { return nil }

type fakeReader struct{}

func (fakeReader) Open(path string) (extract.Song, error) {
	return &fakeSong{nan: strings.Contains(path, "nan")}, nil
}

type fakeS3 struct {
	keys   []string
	bodies []string
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	body, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.keys = append(f.keys, aws.ToString(params.Key))
	f.bodies = append(f.bodies, string(body))
	return &s3.PutObjectOutput{}, nil
}

func createSongTree(t *testing.T) afero.Fs {
	fs := afero.NewMemMapFs()
	for _, path := range []string{
		"data/A/A/B/TRAAB01.h5",
		"data/A/A/TRAA001.h5",
		"data/A/notes.txt",
		"data/B/TRB0001.h5",
		"data/C/TRCnan1.h5",
	} {
		require.Nil(t, afero.WriteFile(fs, path, []byte{}, 0644))
	}
	return fs
}

func TestOptionsFromConfigSavesLocally(t *testing.T) {
	fs := createSongTree(t)
	conf := &config.Options{SaveLocal: true}
	opts, err := OptionsFromConfig(context.Background(), conf, 1, 0, &Environment{Fs: fs, Reader: fakeReader{}})
	require.Nil(t, err)
	require.Equal(t, config.ChunkSize, opts.ChunkSize)
	w, err := CreateWorker(opts)
	require.Nil(t, err)
	report, err := w.Run(context.Background())
	require.Nil(t, err)
	require.True(t, report.Succeeded())
	require.EqualValues(t, 4, report.Stats.GetNumFilesEnumerated())
	require.EqualValues(t, 1, report.Stats.GetNumFilesSkipped())
	require.EqualValues(t, 3, report.Stats.GetNumRowsPersisted())

	data, err := afero.ReadFile(fs, "processed/0_0.csv")
	require.Nil(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, `0.5,0.5,0.5,0.5,"Memphis, TN",0.5,0.5,0.5,rock;pop,rock;pop,rock;pop,`+
		`0.5,0.5,0.5,0.5,0.5,0.5,0.5,0.5,0.5,0.5,0.5,0.5,0.5,0.5`, lines[0])
}

func TestOptionsFromConfigUploads(t *testing.T) {
	fs := createSongTree(t)
	client := &fakeS3{}
	conf := &config.Options{Bucket: "msd-chunks", Compression: "zstd", Alphabet: "CBA"}
	opts, err := OptionsFromConfig(context.Background(), conf, 2, 1, &Environment{Fs: fs, Reader: fakeReader{}, S3: client})
	require.Nil(t, err)
	w, err := CreateWorker(opts)
	require.Nil(t, err)
	require.Equal(t, []string{"B"}, w.Keys().Strings())
	report, err := w.Run(context.Background())
	require.Nil(t, err)
	require.True(t, report.Succeeded())
	require.Equal(t, []string{"processed/1_0.csv.zst"}, client.keys)

	exists, err := afero.Exists(fs, "processed/1_0.csv.zst")
	require.Nil(t, err)
	require.False(t, exists)
}

func TestOptionsFromConfigRejectsBadInput(t *testing.T) {
	env := &Environment{Fs: afero.NewMemMapFs(), Reader: fakeReader{}}
	_, err := OptionsFromConfig(context.Background(), &config.Options{SaveLocal: true}, 2, 2, env)
	_, ok := err.(errors.InvalidWorkerError)
	require.True(t, ok)

	_, err = OptionsFromConfig(context.Background(), &config.Options{}, 2, 0, env)
	require.Error(t, err)

	_, err = OptionsFromConfig(context.Background(), &config.Options{SaveLocal: true, Strategy: "random"}, 2, 0, env)
	require.Error(t, err)
}
