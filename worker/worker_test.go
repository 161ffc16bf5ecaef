package worker

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	msd "github.com/go-sif/sif-msd"
	"github.com/go-sif/sif-msd/datasource/memory"
	errors "github.com/go-sif/sif-msd/errors"
	"github.com/go-sif/sif-msd/shard"
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

// fakeExtractor returns a one-column Row holding the path, and skips every path containing "bad"
type fakeExtractor struct {
	calls int
}

func (e *fakeExtractor) Extract(path string) (msd.Row, error) {
	e.calls++
	if strings.Contains(path, "bad") {
		return nil, errors.SkipError{Path: path, Cause: errors.NaNSentinelError{Field: "metadata/artist_familiarity"}}
	}
	if strings.Contains(path, "empty") {
		return msd.Row{}, nil
	}
	if strings.Contains(path, "broken") {
		return nil, fmt.Errorf("truncated file")
	}
	return msd.Row{path}, nil
}

type recordingSink struct {
	ids   []string
	sizes []int
	rows  []msd.Row
	fail  map[string]bool
}

func (s *recordingSink) Persist(ctx context.Context, id msd.ChunkID, rows []msd.Row) error {
	s.ids = append(s.ids, id.String())
	s.sizes = append(s.sizes, len(rows))
	s.rows = append(s.rows, rows...)
	if s.fail[id.String()] {
		return fmt.Errorf("connection reset")
	}
	return nil
}

func paths(key string, n int) []string {
	res := make([]string, n)
	for i := range res {
		res[i] = fmt.Sprintf("data/%s/%05d.h5", key, i)
	}
	return res
}

func createTestWorker(t *testing.T, opts *Options) (*Worker, *recordingSink) {
	rs := &recordingSink{}
	if opts.Sink == nil {
		opts.Sink = rs
	}
	if opts.Extractor == nil {
		opts.Extractor = &fakeExtractor{}
	}
	w, err := CreateWorker(opts)
	require.Nil(t, err)
	return w, rs
}

func TestTwoWorkersPartitionTheAlphabet(t *testing.T) {
	files := map[msd.PartitionKey][]string{}
	for _, key := range msd.DefaultAlphabet() {
		files[key] = paths(string(key), 3)
	}
	source := memory.CreateDataSource(files)
	seen := map[string]int{}
	for i := 0; i < 2; i++ {
		w, rs := createTestWorker(t, &Options{NumWorkers: 2, WorkerID: i, ChunkSize: 5, Enumerator: source})
		require.Len(t, w.Keys(), 13)
		report, err := w.Run(context.Background())
		require.Nil(t, err)
		require.True(t, report.Succeeded())
		require.EqualValues(t, 39, report.Stats.GetNumRowsPersisted())
		for _, row := range rs.rows {
			seen[row[0]]++
		}
		for _, id := range rs.ids {
			require.True(t, strings.HasPrefix(id, fmt.Sprintf("%d_", i)))
		}
	}
	require.Len(t, seen, 78)
	for path, count := range seen {
		require.Equal(t, 1, count, path)
	}
}

func TestExactChunkProducesNoTrailingChunk(t *testing.T) {
	source := memory.CreateDataSource(map[msd.PartitionKey][]string{"C": paths("C", 10000)})
	w, rs := createTestWorker(t, &Options{NumWorkers: 2, WorkerID: 0, Enumerator: source})
	report, err := w.Run(context.Background())
	require.Nil(t, err)
	require.Equal(t, []string{"0_0"}, rs.ids)
	require.Equal(t, []int{10000}, rs.sizes)
	require.Equal(t, 1, report.NumChunks)
}

func TestOneRowOverProducesShortChunk(t *testing.T) {
	source := memory.CreateDataSource(map[msd.PartitionKey][]string{
		"B": paths("B", 6000),
		"D": paths("D", 4001),
	})
	w, rs := createTestWorker(t, &Options{NumWorkers: 2, WorkerID: 1, Enumerator: source})
	_, err := w.Run(context.Background())
	require.Nil(t, err)
	require.Equal(t, []string{"1_0", "1_1"}, rs.ids)
	require.Equal(t, []int{10000, 1}, rs.sizes)
	require.Equal(t, "data/D/04000.h5", rs.rows[10000][0])
}

func TestAllSkippedProducesNoChunks(t *testing.T) {
	source := memory.CreateDataSource(map[msd.PartitionKey][]string{
		"A": {"data/A/bad1.h5", "data/A/broken.h5", "data/A/empty.h5"},
		"Z": {"data/Z/bad2.h5"},
	})
	extractor := &fakeExtractor{}
	w, rs := createTestWorker(t, &Options{NumWorkers: 1, WorkerID: 0, Enumerator: source, Extractor: extractor, CollectSkipErrors: true})
	report, err := w.Run(context.Background())
	require.Nil(t, err)
	require.Empty(t, rs.ids)
	require.Equal(t, 4, extractor.calls)
	require.Equal(t, 0, report.NumChunks)
	require.EqualValues(t, 4, report.Stats.GetNumFilesSkipped())
	require.EqualValues(t, 4, report.Stats.GetNumFilesEnumerated())
	require.True(t, report.Succeeded())

	merr, ok := report.SkipErrors.(*multierror.Error)
	require.True(t, ok)
	require.Len(t, merr.Errors, 4)
	for _, err := range merr.Errors {
		_, ok := err.(errors.SkipError)
		require.True(t, ok)
	}
}

func TestSkipsNeverAppearInChunks(t *testing.T) {
	source := memory.CreateDataSource(map[msd.PartitionKey][]string{
		"A": {"a0", "bad0", "a1", "a2", "bad1", "empty", "a3", "a4"},
	})
	w, rs := createTestWorker(t, &Options{NumWorkers: 1, WorkerID: 0, ChunkSize: 2, Enumerator: source})
	report, err := w.Run(context.Background())
	require.Nil(t, err)
	require.Equal(t, []string{"0_0", "0_1", "0_2"}, rs.ids)
	require.Equal(t, []int{2, 2, 1}, rs.sizes)
	require.Equal(t, []msd.Row{{"a0"}, {"a1"}, {"a2"}, {"a3"}, {"a4"}}, rs.rows)
	require.EqualValues(t, 3, report.Stats.GetNumFilesSkipped())
	require.Nil(t, report.SkipErrors)
}

func TestFailedChunkDoesNotStopWorker(t *testing.T) {
	source := memory.CreateDataSource(map[msd.PartitionKey][]string{"A": paths("A", 7)})
	rs := &recordingSink{fail: map[string]bool{"0_1": true}}
	w, _ := createTestWorker(t, &Options{NumWorkers: 1, WorkerID: 0, ChunkSize: 3, Enumerator: source, Sink: rs})
	report, err := w.Run(context.Background())
	require.Nil(t, err)
	require.Equal(t, []string{"0_0", "0_1", "0_2"}, rs.ids)
	require.False(t, report.Succeeded())
	require.EqualValues(t, 2, report.Stats.GetNumChunksPersisted())
	require.EqualValues(t, 1, report.Stats.GetNumChunksFailed())
	require.EqualValues(t, 4, report.Stats.GetNumRowsPersisted())
	require.Contains(t, report.PersistErrors.Error(), "0_1")
}

func TestInvalidIdentityFailsBeforeIO(t *testing.T) {
	tests := []struct {
		total int
		index int
	}{
		{0, 0},
		{-1, 0},
		{3, 3},
		{3, -1},
		{26, 100},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_%d", tt.total, tt.index), func(t *testing.T) {
			extractor := &fakeExtractor{}
			_, err := CreateWorker(&Options{
				NumWorkers: tt.total,
				WorkerID:   tt.index,
				Enumerator: memory.CreateDataSource(nil),
				Extractor:  extractor,
				Sink:       &recordingSink{},
			})
			require.Error(t, err)
			_, ok := err.(errors.InvalidWorkerError)
			require.True(t, ok)
			require.Equal(t, 0, extractor.calls)
		})
	}
}

// slowExtractor sleeps longer on one file than on all others
type slowExtractor struct{}

func (slowExtractor) Extract(path string) (msd.Row, error) {
	if strings.Contains(path, "slow") {
		time.Sleep(20 * time.Millisecond)
	}
	return msd.Row{path}, nil
}

func TestFinishLogReportsSlowestFile(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	source := memory.CreateDataSource(map[msd.PartitionKey][]string{
		"A": {"data/A/fast.h5", "data/A/slow.h5", "data/A/fast2.h5"},
	})
	w, _ := createTestWorker(t, &Options{NumWorkers: 1, WorkerID: 0, Enumerator: source, Extractor: slowExtractor{}, Logger: logger})
	report, err := w.Run(context.Background())
	require.Nil(t, err)
	require.GreaterOrEqual(t, report.Stats.GetSlowestFileTime(), 20*time.Millisecond)

	var finished *logrus.Entry
	for _, entry := range hook.AllEntries() {
		if entry.Message == "Finished processing shard" {
			finished = entry
		}
	}
	require.NotNil(t, finished)
	require.Equal(t, report.Stats.GetSlowestFileTime().String(), finished.Data["slowestFile"])
	require.EqualValues(t, 3, finished.Data["rows"])
}

func TestCreateWorkerRequiresCollaborators(t *testing.T) {
	_, err := CreateWorker(&Options{NumWorkers: 1, WorkerID: 0})
	require.Error(t, err)
}

func TestWorkerRunsOnce(t *testing.T) {
	w, _ := createTestWorker(t, &Options{NumWorkers: 1, WorkerID: 0, Enumerator: memory.CreateDataSource(nil)})
	report, err := w.Run(context.Background())
	require.Nil(t, err)
	require.NotEmpty(t, report.RunID)
	require.Equal(t, w.ID(), report.RunID)
	_, err = w.Run(context.Background())
	require.Error(t, err)
}

func TestContiguousStrategy(t *testing.T) {
	w, _ := createTestWorker(t, &Options{
		NumWorkers: 2,
		WorkerID:   1,
		Strategy:   shard.Contiguous,
		Enumerator: memory.CreateDataSource(nil),
	})
	require.Equal(t, "NOPQRSTUVWXYZ", strings.Join(w.Keys().Strings(), ""))
}
