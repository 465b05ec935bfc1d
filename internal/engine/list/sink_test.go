package list

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/dshills/richlist/internal/engine/model/modeltest"
)

func TestSinkListItem(t *testing.T) {
	runCases(t, SinkListItem, []transformCase{
		{
			name: "nests under the previous item",
			in:   Doc(UL(LI(P("a")), LI(P("<|>b")))),
			want: Doc(UL(LI(P("a"), UL(LI(P("<|>b")))))),
		},
		{
			name: "joins an existing nested list",
			in:   Doc(UL(LI(P("a"), UL(LI(P("b")))), LI(P("<|>c")))),
			want: Doc(UL(LI(P("a"), UL(LI(P("b")), LI(P("<|>c")))))),
		},
		{
			name: "new nested list takes the parent list type",
			in:   Doc(OL(LI(P("a")), LI(P("<|>b")))),
			want: Doc(OL(LI(P("a"), OL(LI(P("<|>b")))))),
		},
		{
			name: "todo state is kept",
			in:   Doc(UL(Todo(false, P("a")), Todo(true, P("<|>b")))),
			want: Doc(UL(Todo(false, P("a"), UL(Todo(true, P("<|>b")))))),
		},
		{
			name: "several items",
			in:   Doc(UL(LI(P("a")), LI(P("<a>b")), LI(P("c<h>")))),
			want: Doc(UL(LI(P("a"), UL(LI(P("<a>b")), LI(P("c<h>")))))),
		},
		{
			name:   "first item",
			in:     Doc(UL(LI(P("<|>a")), LI(P("b")))),
			reason: ReasonNoPreviousSibling,
		},
		{
			name:   "not in a list",
			in:     Doc(P("<|>a")),
			reason: ReasonNotInList,
		},
		{
			name: "nested list of the moved item counts towards the depth",
			in: Doc(UL(LI(P("a")), LI(P("<|>b"),
				UL(LI(P("c"), UL(LI(P("d"), UL(LI(P("e"), UL(LI(P("f")))))))))))),
			reason: ReasonMaxDepthExceeded,
		},
	})
}

func TestSinkListItemDepthCeiling(t *testing.T) {
	level4 := Doc(UL(LI(P("1"), UL(LI(P("2"), UL(LI(P("3"),
		UL(LI(P("4a")), LI(P("<|>4b"))))))))))
	res := run(t, SinkListItem, level4)
	require.True(t, res.Applied(), "reason: %s", res.Reason())
	rp, err := res.Doc().Resolve(res.Selection().From())
	require.NoError(t, err)
	assert.Equal(t, 5, testRoles.ListLevel(rp, rp.Depth))

	level5 := Doc(UL(LI(P("1"), UL(LI(P("2"), UL(LI(P("3"), UL(LI(P("4"),
		UL(LI(P("5a")), LI(P("<|>5b"))))))))))))
	res = run(t, SinkListItem, level5)
	requireNotApplicable(t, res, ReasonMaxDepthExceeded)
	assert.Nil(t, res.Doc())
}

func TestSinkListItemCustomMaxDepth(t *testing.T) {
	roles, err := NewRoles(Schema, DefaultRoleNames(), 1)
	require.NoError(t, err)
	res, err := SinkListItem(stateOf(Doc(UL(LI(P("a")), LI(P("<|>b"))))), roles)
	require.NoError(t, err)
	requireNotApplicable(t, res, ReasonMaxDepthExceeded)
}
