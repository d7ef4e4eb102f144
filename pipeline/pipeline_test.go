package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/teranos/labelgate/annotation"
	"github.com/teranos/labelgate/errors"
	"github.com/teranos/labelgate/gate"
	"github.com/teranos/labelgate/ixgest/annotations"
	"github.com/teranos/labelgate/sink"
)

const wideCSV = `text,labels,annotators,confidence_scores
I need to reset my password,"['login_issue', 'password_reset']","[1, 6]","[0.92, 0.87]"
Reset my password please,"['password_reset', 'password_reset']","[2, 3]","[0.95, 0.9]"
X,['a'],[1],[0.5]
`

type staticLoader struct {
	records []annotation.Record
	err     error
}

func (l staticLoader) LoadFile(string) ([]annotation.Record, error) {
	return l.records, l.err
}

type recordingSink[T any] struct {
	got  [][]T
	path string
	err  error
}

func (s *recordingSink[T]) Write(entries []T) (string, error) {
	s.got = append(s.got, entries)
	if s.err != nil {
		return "", s.err
	}
	if len(entries) == 0 {
		return "", nil
	}
	return s.path, nil
}

func mustRecord(t *testing.T, text string, labels []string, scores []float64) annotation.Record {
	t.Helper()
	ids := make([]annotation.AnnotatorID, len(labels))
	for i := range ids {
		ids[i] = annotation.AnnotatorID(string(rune('a' + i)))
	}
	rec, err := annotation.NewRecord(text, ids, labels, scores)
	require.NoError(t, err)
	return rec
}

func newTestPipeline(t *testing.T, records []annotation.Record) (*Pipeline, *recordingSink[gate.TrainingRecord], *recordingSink[gate.DisagreementEntry]) {
	t.Helper()
	export := &recordingSink[gate.TrainingRecord]{path: "export.jsonl"}
	log := &recordingSink[gate.DisagreementEntry]{path: "disagreements.log"}
	return &Pipeline{
		Loader: staticLoader{records: records},
		Engine: gate.NewEngine(gate.DefaultThreshold, nil),
		Export: export,
		Log:    log,
	}, export, log
}

func TestRun_MixedBatch(t *testing.T) {
	p, export, log := newTestPipeline(t, []annotation.Record{
		mustRecord(t, "agreed", []string{"x", "x"}, []float64{0.9, 0.85}),
		mustRecord(t, "disputed", []string{"x", "y"}, []float64{0.9, 0.85}),
		mustRecord(t, "rejected", []string{"x"}, []float64{0.2}),
	})

	report, err := p.Run(context.Background(), "in.csv")
	require.NoError(t, err)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, gate.Summary{Total: 3, Agreed: 1, Disagreed: 1, Rejected: 1}, report.Summary)
	assert.Equal(t, gate.StatusOK, report.Status)
	assert.Equal(t, "export.jsonl", report.ExportPath)
	assert.Equal(t, "disagreements.log", report.LogPath)

	require.Len(t, export.got, 1)
	assert.Equal(t, []gate.TrainingRecord{{Text: "agreed", Label: "x"}}, export.got[0])
	require.Len(t, log.got, 1)
	require.Len(t, log.got[0], 1)
	assert.Equal(t, "disputed", log.got[0][0].Text)
}

func TestRun_RunIDsAreUnique(t *testing.T) {
	p, _, _ := newTestPipeline(t, nil)
	a, err := p.Run(context.Background(), "in.csv")
	require.NoError(t, err)
	b, err := p.Run(context.Background(), "in.csv")
	require.NoError(t, err)
	assert.NotEqual(t, a.RunID, b.RunID)
}

func TestRun_EmptyBatch(t *testing.T) {
	p, export, log := newTestPipeline(t, nil)

	report, err := p.Run(context.Background(), "in.csv")
	require.NoError(t, err)
	assert.Equal(t, gate.StatusEmpty, report.Status)
	assert.Empty(t, report.ExportPath)
	assert.Empty(t, report.LogPath)
	// Sinks see empty slices and decide to write nothing
	require.Len(t, export.got, 1)
	assert.Empty(t, export.got[0])
	require.Len(t, log.got, 1)
	assert.Empty(t, log.got[0])
}

func TestRun_DryRunWritesNothing(t *testing.T) {
	p, export, log := newTestPipeline(t, []annotation.Record{
		mustRecord(t, "agreed", []string{"x"}, []float64{0.9}),
	})
	p.DryRun = true

	report, err := p.Run(context.Background(), "in.csv")
	require.NoError(t, err)
	assert.True(t, report.DryRun)
	assert.Equal(t, 1, report.Summary.Agreed)
	assert.Empty(t, export.got)
	assert.Empty(t, log.got)
}

func TestRun_LoadErrorIsFatal(t *testing.T) {
	p, export, log := newTestPipeline(t, nil)
	p.Loader = staticLoader{err: errors.NewMalformedRecordError("line 3: bad score")}

	report, err := p.Run(context.Background(), "in.csv")
	require.Error(t, err)
	assert.Nil(t, report)
	assert.True(t, errors.IsMalformedRecord(err))
	assert.Empty(t, export.got)
	assert.Empty(t, log.got)
}

func TestRun_CancelledBeforeWrite(t *testing.T) {
	p, export, log := newTestPipeline(t, []annotation.Record{
		mustRecord(t, "agreed", []string{"x"}, []float64{0.9}),
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Run(ctx, "in.csv")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Empty(t, export.got)
	assert.Empty(t, log.got)
}

func TestRun_WriteFailureKeepsResult(t *testing.T) {
	p, export, log := newTestPipeline(t, []annotation.Record{
		mustRecord(t, "agreed", []string{"x"}, []float64{0.9}),
		mustRecord(t, "disputed", []string{"x", "y"}, []float64{0.9, 0.9}),
	})
	log.err = errors.WrapWriteFailed(os.ErrPermission, "write disagreement log")

	report, err := p.Run(context.Background(), "in.csv")
	require.Error(t, err)
	assert.True(t, errors.IsWriteFailed(err))
	require.NotNil(t, report)
	require.NotNil(t, report.Result)
	assert.Len(t, report.Result.Training, 1)
	// Log is written first; a failed log stops before the export
	assert.Empty(t, export.got)
}

func TestRun_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "raw_annotations.csv")
	require.NoError(t, os.WriteFile(input, []byte(wideCSV), 0o644))

	day := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	dlog := sink.NewDisagreementLog(filepath.Join(dir, "logs"))
	dlog.Now = func() time.Time { return day }

	p := &Pipeline{
		Loader: annotations.NewLoader(annotations.FormatAuto, ',', nil),
		Engine: gate.NewEngine(gate.DefaultThreshold, nil),
		Export: sink.NewExportWriter(filepath.Join(dir, "processed", "clean_training_dataset.jsonl")),
		Log:    dlog,
	}

	report, err := p.Run(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, gate.Summary{Total: 3, Agreed: 1, Disagreed: 1, Rejected: 1}, report.Summary)

	exported, err := os.ReadFile(report.ExportPath)
	require.NoError(t, err)
	assert.Equal(t, `{"text":"Reset my password please","label":"password_reset"}`+"\n", string(exported))

	assert.Equal(t, filepath.Join(dir, "logs", "2026-10-14", "disagreements.log"), report.LogPath)
	logged, err := os.ReadFile(report.LogPath)
	require.NoError(t, err)
	assert.Equal(t,
		`{"text":"I need to reset my password","labels":["login_issue","password_reset"],"annotators":[1,6],"confidence_scores":[0.92,0.87]}`+"\n",
		string(logged))
}

func TestWatcher_RerunsOnWrite(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	input := filepath.Join(dir, "raw_annotations.csv")
	require.NoError(t, os.WriteFile(input, []byte("text,labels,annotators,confidence_scores\n"), 0o644))

	p := &Pipeline{
		Loader: annotations.NewLoader(annotations.FormatAuto, ',', nil),
		Engine: gate.NewEngine(gate.DefaultThreshold, nil),
		DryRun: true,
	}

	reports := make(chan *Report, 4)
	ready := make(chan struct{})
	w := &Watcher{
		Pipeline: p,
		Input:    input,
		Debounce: 100 * time.Millisecond,
		OnRun: func(r *Report, err error) {
			if err != nil {
				return
			}
			select {
			case reports <- r:
			default:
			}
		},
		ready: func() { close(ready) },
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx) }()

	select {
	case <-ready:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not start")
	}

	require.NoError(t, os.WriteFile(input, []byte(wideCSV), 0o644))

	select {
	case r := <-reports:
		assert.Equal(t, 3, r.Summary.Total)
	case <-time.After(5 * time.Second):
		t.Fatal("no run after input write")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatcher_MissingDirectory(t *testing.T) {
	w := &Watcher{
		Pipeline: &Pipeline{},
		Input:    filepath.Join(t.TempDir(), "missing", "in.csv"),
	}
	err := w.Watch(context.Background())
	require.Error(t, err)
	assert.NotEmpty(t, errors.GetAllHints(err))
}
