package reconcile

import (
	"strings"

	"github.com/locvowork/trial_report/internal/domain"
	"github.com/locvowork/trial_report/pkg/frame"
)

// Project restricts raw to the required columns, in order and named as required.
// Headers are matched case-insensitively after trimming. Missing columns fail with
// *domain.SchemaMismatchError naming source.
func Project(raw *frame.Frame, source string, required []string) (*frame.Frame, error) {
	actual := make(map[string]string, len(raw.Columns()))
	for _, c := range raw.Columns() {
		key := foldColumn(c)
		if _, ok := actual[key]; !ok {
			actual[key] = c
		}
	}

	var missing []string
	picked := make([]string, 0, len(required))
	for _, want := range required {
		got, ok := actual[foldColumn(want)]
		if !ok {
			missing = append(missing, want)
			continue
		}
		picked = append(picked, got)
	}
	if len(missing) > 0 {
		return nil, &domain.SchemaMismatchError{Source: source, Missing: missing}
	}

	out, err := raw.Select(picked...)
	if err != nil {
		return nil, err
	}
	rename := make(map[string]string, len(required))
	for i, want := range required {
		if picked[i] != want {
			rename[picked[i]] = want
		}
	}
	if len(rename) == 0 {
		return out, nil
	}
	return out.Rename(rename), nil
}

func foldColumn(c string) string {
	return strings.ToLower(strings.TrimSpace(c))
}
