package gate

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/labelgate/annotation"
)

// Scenario fixtures taken from the password-reset intent review set.
func scenarioA(t *testing.T) annotation.Record {
	return mustRecord(t, "I need to reset my password",
		[]string{"login_issue", "password_reset"},
		[]annotation.AnnotatorID{"1", "6"},
		[]float64{0.92, 0.87})
}

func scenarioB(t *testing.T) annotation.Record {
	return mustRecord(t, "Reset my password please",
		[]string{"password_reset", "password_reset"},
		[]annotation.AnnotatorID{"2", "3"},
		[]float64{0.95, 0.9})
}

func scenarioC(t *testing.T) annotation.Record {
	return mustRecord(t, "X", []string{"a"}, []annotation.AnnotatorID{"1"}, []float64{0.5})
}

func TestEngine_ScenarioA_Disputed(t *testing.T) {
	res, err := NewEngine(DefaultThreshold, nil).Run([]annotation.Record{scenarioA(t)})
	require.NoError(t, err)

	require.Len(t, res.Outcomes, 1)
	assert.Equal(t, annotation.KindDisputed, res.Outcomes[0].Kind())
	assert.Empty(t, res.Training)
	require.Len(t, res.Disagreements, 1)
	assert.Equal(t, []string{"login_issue", "password_reset"}, res.Disagreements[0].Labels)
	assert.Equal(t, []annotation.AnnotatorID{"1", "6"}, res.Disagreements[0].Annotators)
	assert.Equal(t, []float64{0.92, 0.87}, res.Disagreements[0].ConfidenceScores)
}

func TestEngine_ScenarioB_Exported(t *testing.T) {
	res, err := NewEngine(DefaultThreshold, nil).Run([]annotation.Record{scenarioB(t)})
	require.NoError(t, err)

	assert.Equal(t, []TrainingRecord{{Text: "Reset my password please", Label: "password_reset"}}, res.Training)
	assert.Empty(t, res.Disagreements)
	assert.Equal(t, Summary{Total: 1, Agreed: 1}, res.Summary)
}

func TestEngine_ScenarioC_Rejected(t *testing.T) {
	res, err := NewEngine(0.8, nil).Run([]annotation.Record{scenarioC(t)})
	require.NoError(t, err)

	assert.Empty(t, res.Training)
	assert.Empty(t, res.Disagreements)
	rejected := res.Rejected()
	require.Len(t, rejected, 1)
	assert.Equal(t, annotation.ReasonBelowThreshold, rejected[0].Reason)
	assert.Equal(t, Summary{Total: 1, Rejected: 1}, res.Summary)
}

func TestEngine_ScenarioD_AllFailConfidence(t *testing.T) {
	var batch []annotation.Record
	for i := 0; i < 5; i++ {
		batch = append(batch, mustRecord(t, fmt.Sprintf("sample %d", i),
			[]string{"a", "a"},
			[]annotation.AnnotatorID{"1", "2"},
			[]float64{0.9, 0.3}))
	}

	res, err := NewEngine(DefaultThreshold, nil).Run(batch)
	require.NoError(t, err)

	assert.Empty(t, res.Training)
	assert.Empty(t, res.Disagreements)
	assert.Equal(t, StatusAllFailedConfidence, res.Summary.Status())
	assert.Equal(t, "All samples failed the confidence score check.", res.Summary.Message())
}

func TestEngine_ScenarioE_AllPassingDisagree(t *testing.T) {
	batch := []annotation.Record{scenarioA(t), scenarioC(t)}

	res, err := NewEngine(DefaultThreshold, nil).Run(batch)
	require.NoError(t, err)

	assert.Len(t, res.Disagreements, 1)
	assert.Empty(t, res.Training)
	assert.Equal(t, "All samples failed the agreement test.", res.Summary.Message())
}

func TestEngine_EmptyBatch(t *testing.T) {
	res, err := NewEngine(DefaultThreshold, nil).Run(nil)
	require.NoError(t, err)

	assert.Equal(t, StageReported, res.Stage)
	assert.Equal(t, Summary{}, res.Summary)
	assert.Empty(t, res.Outcomes)
	assert.Empty(t, res.Training)
	assert.Empty(t, res.Disagreements)
}

func TestEngine_MixedBatchPreservesOrder(t *testing.T) {
	other := mustRecord(t, "Where is my order",
		[]string{"order_status", "shipping"},
		[]annotation.AnnotatorID{"4", "5"},
		[]float64{0.81, 0.99})
	agreed := mustRecord(t, "Cancel my subscription",
		[]string{"cancel", "cancel", "cancel"},
		[]annotation.AnnotatorID{"1", "2", "7"},
		[]float64{0.85, 0.9, 0.8})
	batch := []annotation.Record{scenarioA(t), scenarioB(t), scenarioC(t), other, agreed}

	res, err := NewEngine(DefaultThreshold, nil).Run(batch)
	require.NoError(t, err)

	kinds := make([]annotation.Kind, len(res.Outcomes))
	for i, o := range res.Outcomes {
		kinds[i] = o.Kind()
	}
	assert.Equal(t, []annotation.Kind{
		annotation.KindDisputed,
		annotation.KindExported,
		annotation.KindRejected,
		annotation.KindDisputed,
		annotation.KindExported,
	}, kinds)

	wantTraining := []TrainingRecord{
		{Text: "Reset my password please", Label: "password_reset"},
		{Text: "Cancel my subscription", Label: "cancel"},
	}
	if diff := cmp.Diff(wantTraining, res.Training); diff != "" {
		t.Errorf("training records mismatch (-want +got):\n%s", diff)
	}

	gotTexts := []string{res.Disagreements[0].Text, res.Disagreements[1].Text}
	assert.Equal(t, []string{"I need to reset my password", "Where is my order"}, gotTexts)
	assert.Equal(t, Summary{Total: 5, Agreed: 2, Disagreed: 2, Rejected: 1}, res.Summary)
}

// A record with any confidence below the threshold never reaches Exported or
// Disputed, whatever its labels.
func TestEngine_ConfidenceGatePrecedence(t *testing.T) {
	unanimousButWeak := mustRecord(t, "weak agree", []string{"a", "a"}, []annotation.AnnotatorID{"1", "2"}, []float64{0.99, 0.1})
	disputedAndWeak := mustRecord(t, "weak dispute", []string{"a", "b"}, []annotation.AnnotatorID{"1", "2"}, []float64{0.1, 0.99})

	res, err := NewEngine(DefaultThreshold, nil).Run([]annotation.Record{unanimousButWeak, disputedAndWeak})
	require.NoError(t, err)

	for _, o := range res.Outcomes {
		assert.Equal(t, annotation.KindRejected, o.Kind())
	}
	assert.Empty(t, res.Disagreements)
	assert.Empty(t, res.Training)
}

func TestEngine_PartitionCompleteness(t *testing.T) {
	thresholds := []float64{0, 0.5, 0.8, 0.9, 1}
	labelSets := [][]string{{"a"}, {"a", "a"}, {"a", "b"}, {"b", "a", "a"}}
	scoreSets := [][]float64{{0.5}, {0.8, 0.95}, {1, 0.2}, {0.85, 0.9, 0.99}}

	var batch []annotation.Record
	for i, labels := range labelSets {
		for j, scores := range scoreSets {
			if len(labels) != len(scores) {
				continue
			}
			annotators := make([]annotation.AnnotatorID, len(labels))
			for k := range labels {
				annotators[k] = annotation.AnnotatorID(fmt.Sprint(k + 1))
			}
			batch = append(batch, mustRecord(t, fmt.Sprintf("r%d-%d", i, j), labels, annotators, scores))
		}
	}
	require.NotEmpty(t, batch)

	for _, threshold := range thresholds {
		res, err := NewEngine(threshold, nil).Run(batch)
		require.NoError(t, err)

		var exported, disputed, rejected int
		for _, o := range res.Outcomes {
			switch o.(type) {
			case annotation.Exported:
				exported++
			case annotation.Disputed:
				disputed++
			case annotation.Rejected:
				rejected++
			}
		}
		assert.Equal(t, len(batch), exported+disputed+rejected, "threshold %v", threshold)
		assert.Equal(t, Summary{Total: len(batch), Agreed: exported, Disagreed: disputed, Rejected: rejected}, res.Summary)
		assert.Len(t, res.Training, exported)
		assert.Len(t, res.Disagreements, disputed)
	}
}

// Permuting (annotator, label, confidence) triples leaves the outcome untouched.
func TestEngine_OrderInvariance(t *testing.T) {
	base := []annotation.Annotation{
		{Annotator: "1", Label: "refund", Confidence: 0.9},
		{Annotator: "2", Label: "refund", Confidence: 0.85},
		{Annotator: "3", Label: "billing", Confidence: 0.95},
	}
	agreeing := []annotation.Annotation{
		{Annotator: "1", Label: "refund", Confidence: 0.9},
		{Annotator: "2", Label: "refund", Confidence: 0.85},
		{Annotator: "3", Label: "refund", Confidence: 0.95},
	}

	for _, triples := range [][]annotation.Annotation{base, agreeing} {
		var wantKind annotation.Kind
		var wantLabel string
		for i, perm := range permutations(triples) {
			rec, err := annotation.FromAnnotations("permuted", perm)
			require.NoError(t, err)

			res, err := NewEngine(DefaultThreshold, nil).Run([]annotation.Record{rec})
			require.NoError(t, err)

			kind := res.Outcomes[0].Kind()
			var label string
			if x, ok := res.Outcomes[0].(annotation.Exported); ok {
				label = x.Label
			}
			if i == 0 {
				wantKind, wantLabel = kind, label
				continue
			}
			assert.Equal(t, wantKind, kind, "permutation %d", i)
			assert.Equal(t, wantLabel, label, "permutation %d", i)
		}
	}
}

func TestEngine_Threshold(t *testing.T) {
	assert.Equal(t, 0.65, NewEngine(0.65, nil).Threshold())
}

func permutations(in []annotation.Annotation) [][]annotation.Annotation {
	if len(in) <= 1 {
		return [][]annotation.Annotation{append([]annotation.Annotation(nil), in...)}
	}
	var out [][]annotation.Annotation
	for i := range in {
		rest := make([]annotation.Annotation, 0, len(in)-1)
		rest = append(rest, in[:i]...)
		rest = append(rest, in[i+1:]...)
		for _, p := range permutations(rest) {
			out = append(out, append([]annotation.Annotation{in[i]}, p...))
		}
	}
	return out
}
