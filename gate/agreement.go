package gate

import "github.com/teranos/labelgate/annotation"

// ResolveAgreement decides the outcome of a record that already passed the
// confidence filter. Agreement holds iff the record carries exactly one
// distinct label; a single annotator agrees trivially. The decision depends
// only on the multiset of labels, never on annotator order.
func ResolveAgreement(rec annotation.Record) annotation.Outcome {
	labels := rec.Labels()
	if distinctLabels(labels) == 1 {
		return annotation.Exported{Text: rec.Text(), Label: labels[0]}
	}
	return annotation.Disputed{Record: rec, Reason: annotation.ReasonLabelMismatch}
}

func distinctLabels(labels []string) int {
	seen := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		seen[l] = struct{}{}
	}
	return len(seen)
}
