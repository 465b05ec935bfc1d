// Package selection provides the selection types of the list editing engine.
//
// Selection Model:
//
// Two kinds of selection exist:
//   - TextSelection: an anchor/head pair of positions inside textblocks. When
//     anchor == head it is a collapsed cursor. The selection can extend
//     forward (head > anchor) or backward (head < anchor), and transforms
//     preserve that direction.
//   - NodeSelection: exactly one node, identified by the position before it.
//
// Selections never move by themselves. After an edit they are carried over
// with Map, which follows the edit's position mapping:
//   - positions before an edit are unchanged
//   - positions after an edit shift by its size delta
//   - positions inside replaced content collapse to the edit's start
//
// A node selection survives mapping only when the node found at the mapped
// position is the node that was selected; otherwise it collapses to a cursor.
package selection
