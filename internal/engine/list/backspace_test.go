package list

import (
	"testing"

	. "github.com/dshills/richlist/internal/engine/model/modeltest"
)

func TestBackspaceAtListItemStart(t *testing.T) {
	runCases(t, BackspaceAtListItemStart, []transformCase{
		{
			name: "merges into previous item",
			in:   Doc(UL(LI(P("foo")), LI(P("<|>bar")))),
			want: Doc(UL(LI(P("foo<|>bar")))),
		},
		{
			name: "merges into the last textblock of a nested list",
			in:   Doc(UL(LI(P("a"), UL(LI(P("b")))), LI(P("<|>c"), P("d")))),
			want: Doc(UL(LI(P("a"), UL(LI(P("b<|>c"), P("d")))))),
		},
		{
			name: "deletes an empty previous item",
			in:   Doc(UL(LI(P("a")), LI(P()), LI(P("<|>b")))),
			want: Doc(UL(LI(P("a")), LI(P("<|>b")))),
		},
		{
			name: "first nested item is outdented",
			in:   Doc(UL(LI(P("a"), UL(LI(P("<|>b")), LI(P("c")))))),
			want: Doc(UL(LI(P("a")), LI(P("<|>b"), UL(LI(P("c")))))),
		},
		{
			name: "first item joins a preceding paragraph",
			in:   Doc(P("x"), UL(LI(P("<|>a")), LI(P("b")))),
			want: Doc(P("x<|>a"), UL(LI(P("b")))),
		},
		{
			name: "nested items of a joined item stay in the list",
			in:   Doc(P("x"), UL(LI(P("<|>a"), UL(LI(P("b")))), LI(P("c")))),
			want: Doc(P("x<|>a"), UL(LI(P("b")), LI(P("c")))),
		},
		{
			name: "first item of a leading list becomes a paragraph",
			in:   Doc(UL(LI(P("<|>a")), LI(P("b")))),
			want: Doc(P("<|>a"), UL(LI(P("b")))),
		},
		{
			name:   "not at the start",
			in:     Doc(UL(LI(P("a<|>b")))),
			reason: ReasonNotAtStart,
		},
		{
			name:   "range selection",
			in:     Doc(UL(LI(P("<a>a<h>b")))),
			reason: ReasonRangeSelection,
		},
		{
			name:   "not in a list",
			in:     Doc(P("<|>a")),
			reason: ReasonNotInList,
		},
	})
}

func TestJoinTextblockIntoPrecedingList(t *testing.T) {
	runCases(t, JoinTextblockIntoPrecedingList, []transformCase{
		{
			name: "joins lists around a middle paragraph",
			in:   Doc(OL(LI(P("A")), LI(P("B"))), P("<|>middle"), OL(LI(P("C")), LI(P("D")))),
			want: Doc(OL(LI(P("A")), LI(P("B<|>middle")), LI(P("C")), LI(P("D")))),
		},
		{
			name: "keeps a following list of another type",
			in:   Doc(UL(LI(P("a"))), P("<|>b"), OL(LI(P("c")))),
			want: Doc(UL(LI(P("a<|>b"))), OL(LI(P("c")))),
		},
		{
			name: "heading content joins",
			in:   Doc(UL(LI(P("a"))), H(2, "<|>b")),
			want: Doc(UL(LI(P("a<|>b")))),
		},
		{
			name:   "no preceding list",
			in:     Doc(P("a"), P("<|>b")),
			reason: ReasonNoPrecedingList,
		},
		{
			name:   "not at the start",
			in:     Doc(UL(LI(P("a"))), P("b<|>")),
			reason: ReasonNotAtStart,
		},
	})
}
