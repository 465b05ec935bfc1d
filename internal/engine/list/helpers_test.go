package list

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/richlist/internal/engine/model/modeltest"
)

var testRoles = DefaultRoles(modeltest.Schema)

func stateOf(f modeltest.Fixture) State {
	return State{Doc: f.Doc, Selection: f.Selection()}
}

func run(t *testing.T, fn Transform, f modeltest.Fixture) Result {
	t.Helper()
	res, err := fn(stateOf(f), testRoles)
	require.NoError(t, err)
	return res
}

// requireApplied checks that res applied, produced want's document and, when
// want carries markers, its selection.
func requireApplied(t *testing.T, res Result, want modeltest.Fixture) {
	t.Helper()
	require.True(t, res.Applied(), "not applied: %s", res.Reason())
	assert.Equal(t, want.Doc.String(), res.Doc().String())
	assert.NoError(t, res.Doc().Check())
	if _, ok := want.Tags["n"]; ok {
		assert.True(t, want.NodeSelection().Eq(res.Selection()), "selection %s, want %s", res.Selection(), want.NodeSelection())
		return
	}
	if len(want.Tags) > 0 {
		assert.Equal(t, want.Selection(), res.Selection())
	}
}

func requireNotApplicable(t *testing.T, res Result, reason Reason) {
	t.Helper()
	require.False(t, res.Applied(), "applied: %s", res.Doc())
	assert.Equal(t, reason, res.Reason())
}

type transformCase struct {
	name   string
	in     modeltest.Fixture
	want   modeltest.Fixture
	reason Reason
}

func runCases(t *testing.T, fn Transform, cases []transformCase) {
	t.Helper()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := run(t, fn, tc.in)
			if tc.reason != ReasonNone {
				requireNotApplicable(t, res, tc.reason)
				return
			}
			requireApplied(t, res, tc.want)
		})
	}
}
