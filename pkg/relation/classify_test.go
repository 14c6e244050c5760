package relation

import (
	"testing"

	"github.com/dshills/flowroute/internal/testutil"
	"github.com/dshills/flowroute/pkg/diagram"
	"github.com/dshills/flowroute/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_SimpleChain(t *testing.T) {
	snap := registry.NewSnapshot(testutil.SimpleChain()...)

	set := Classify(snap, NewStaticHost())

	require.Len(t, set.ParentChild, 2)
	assert.Equal(t, ParentChild{Child: "a", Parent: "root", From: "root", Mode: ModeParent}, set.ParentChild[0])
	assert.Equal(t, ParentChild{Child: "b", Parent: "root", From: "a", Mode: ModeSibling, FromHasChildren: false}, set.ParentChild[1])
	assert.Empty(t, set.Incoming)
	assert.Empty(t, set.Outgoing)
	assert.Empty(t, set.Internal)
	assert.Equal(t, 2, set.Len())
}

func TestClassify_FanOutChildrenDrawFromParent(t *testing.T) {
	snap := registry.NewSnapshot(
		testutil.Node("multicast").Build(),
		testutil.Node("a").Parent("multicast").Step(0).Build(),
		testutil.Node("b").Parent("multicast").Step(1).Build(),
		testutil.Node("c").Parent("multicast").Step(2).Build(),
	)

	set := Classify(snap, NewStaticHost().FanOut("multicast"))

	require.Len(t, set.ParentChild, 3)
	for _, pc := range set.ParentChild {
		assert.Equal(t, ModeParent, pc.Mode, "child %s", pc.Child)
		assert.Equal(t, diagram.NodeID("multicast"), pc.From)
	}
}

func TestClassify_ChildOutsideCollectionDrawsFromParent(t *testing.T) {
	snap := registry.NewSnapshot(
		testutil.Node("choice").Build(),
		testutil.Node("otherwise").Parent("choice").Build(),
	)

	set := Classify(snap, NewStaticHost())
	require.Len(t, set.ParentChild, 1)
	assert.Equal(t, ModeParent, set.ParentChild[0].Mode)
}

func TestClassify_ParentModeIgnoresChildCount(t *testing.T) {
	snap := registry.NewSnapshot(
		testutil.Node("route").Build(),
		testutil.Node("first").Parent("route").Step(0).Build(),
		testutil.Node("inner").Parent("first").Step(0).Build(),
	)

	set := Classify(snap, NewStaticHost())
	require.Len(t, set.ParentChild, 2)
	for _, pc := range set.ParentChild {
		assert.Equal(t, ModeParent, pc.Mode, "child %s", pc.Child)
		assert.False(t, pc.FromHasChildren, "child %s", pc.Child)
	}
}

func TestClassify_SiblingAnchorHasChildren(t *testing.T) {
	snap := registry.NewSnapshot(
		testutil.Node("route").Build(),
		testutil.Node("split").Parent("route").Step(0).Build(),
		testutil.Node("inner").Parent("split").Step(0).Build(),
		testutil.Node("log").Parent("route").Step(1).Build(),
	)

	set := Classify(snap, NewStaticHost())
	require.Len(t, set.ParentChild, 3)

	var logRel ParentChild
	for _, pc := range set.ParentChild {
		if pc.Child == "log" {
			logRel = pc
		}
	}
	assert.Equal(t, diagram.NodeID("split"), logRel.From)
	assert.True(t, logRel.FromHasChildren)
}

func TestClassify_MissingParentOrSibling(t *testing.T) {
	// Parent not mounted yet, and b's previous sibling not mounted yet
	snap := registry.NewSnapshot(
		testutil.Node("orphan").Parent("ghost").Step(0).Build(),
		testutil.Node("root").Build(),
		testutil.Node("b").Parent("root").Step(1).Build(),
	)

	set := Classify(snap, NewStaticHost())
	assert.Empty(t, set.ParentChild)
}

func TestClassify_EndpointsSortedWithDenseOrdinals(t *testing.T) {
	snap := registry.NewSnapshot(
		testutil.Node("in-low").CenteredAt(100, 300).Build(),
		testutil.Node("in-high").CenteredAt(100, 20).Build(),
		testutil.Node("in-mid").CenteredAt(100, 150).Build(),
		testutil.Node("out-1").CenteredAt(400, 90).Build(),
		testutil.Node("plain").CenteredAt(200, 0).Build(),
	)
	host := NewStaticHost().
		Incoming("in-low").
		Incoming("in-high").
		Incoming("in-mid").
		Outgoing("out-1")

	set := Classify(snap, host)

	require.Len(t, set.Incoming, 3)
	assert.Equal(t, Endpoint{Node: "in-high", Ordinal: 0, Ordinate: 20}, set.Incoming[0])
	assert.Equal(t, Endpoint{Node: "in-mid", Ordinal: 1, Ordinate: 150}, set.Incoming[1])
	assert.Equal(t, Endpoint{Node: "in-low", Ordinal: 2, Ordinate: 300}, set.Incoming[2])

	require.Len(t, set.Outgoing, 1)
	assert.Equal(t, Endpoint{Node: "out-1", Ordinal: 0, Ordinate: 90}, set.Outgoing[0])
}

func TestClassify_EndpointTieKeepsSnapshotOrder(t *testing.T) {
	snap := registry.NewSnapshot(
		testutil.Node("second").CenteredAt(0, 50).Build(),
		testutil.Node("first").CenteredAt(0, 50).Build(),
	)
	set := Classify(snap, NewStaticHost().Incoming("first").Incoming("second"))

	require.Len(t, set.Incoming, 2)
	assert.Equal(t, diagram.NodeID("second"), set.Incoming[0].Node)
	assert.Equal(t, diagram.NodeID("first"), set.Incoming[1].Node)
}

func TestClassify_InternalLinkSymmetry(t *testing.T) {
	snap := registry.NewSnapshot(
		testutil.Node("A").CenteredAt(100, 100).Build(),
		testutil.Node("B").CenteredAt(300, 400).Build(),
	)
	host := NewStaticHost().Outgoing("A", "X").Incoming("B", "X")

	set := Classify(snap, host)

	require.Len(t, set.Internal, 1)
	assert.Equal(t, InternalLink{From: "A", To: "B", Address: "X", Index: 0}, set.Internal[0])
	assert.Empty(t, set.Outgoing, "A must not also be an outgoing stub")
	assert.Empty(t, set.Incoming, "B must not also be an incoming stub")
}

func TestClassify_UnmatchedAddressStaysExternal(t *testing.T) {
	snap := registry.NewSnapshot(
		testutil.Node("A").Build(),
		testutil.Node("B").Build(),
	)
	host := NewStaticHost().Outgoing("A", "X").Incoming("B", "Y")

	set := Classify(snap, host)
	assert.Empty(t, set.Internal)
	require.Len(t, set.Outgoing, 1)
	require.Len(t, set.Incoming, 1)
}

func TestClassify_MultipleAddressesPerNode(t *testing.T) {
	snap := registry.NewSnapshot(
		testutil.Node("rl").CenteredAt(100, 100).Build(),
		testutil.Node("a").CenteredAt(100, 300).Build(),
		testutil.Node("b").CenteredAt(100, 500).Build(),
	)
	host := NewStaticHost().
		Outgoing("rl", "direct:a", "direct:b", "direct:a").
		Incoming("a", "direct:a").
		Incoming("b", "direct:b")

	set := Classify(snap, host)

	require.Len(t, set.Internal, 2)
	assert.Equal(t, InternalLink{From: "rl", To: "a", Address: "direct:a", Index: 0}, set.Internal[0])
	assert.Equal(t, InternalLink{From: "rl", To: "b", Address: "direct:b", Index: 1}, set.Internal[1])
	assert.Empty(t, set.Outgoing)
	assert.Empty(t, set.Incoming)
}

func TestClassify_PartiallyResolvedNodeKeepsStub(t *testing.T) {
	snap := registry.NewSnapshot(
		testutil.Node("rl").Build(),
		testutil.Node("a").Build(),
	)
	host := NewStaticHost().
		Outgoing("rl", "direct:a", "direct:elsewhere").
		Incoming("a", "direct:a")

	set := Classify(snap, host)

	require.Len(t, set.Internal, 1)
	require.Len(t, set.Outgoing, 1)
	assert.Equal(t, diagram.NodeID("rl"), set.Outgoing[0].Node)
	assert.Empty(t, set.Incoming)
}

// Two outgoing nodes target the same address. Whether the product wants a
// link per claimant is unresolved; for now the first node in snapshot order
// wins and the other is reported as ambiguous.
func TestClassify_AmbiguousFanOutFirstWins(t *testing.T) {
	snap := registry.NewSnapshot(
		testutil.Node("to-1").Build(),
		testutil.Node("to-2").Build(),
		testutil.Node("from").Build(),
	)
	host := NewStaticHost().
		Outgoing("to-1", "direct:x").
		Outgoing("to-2", "direct:x").
		Incoming("from", "direct:x")

	set := Classify(snap, host)

	require.Len(t, set.Internal, 1)
	assert.Equal(t, diagram.NodeID("to-1"), set.Internal[0].From)
	require.Len(t, set.Ambiguous, 1)
	assert.Equal(t, Ambiguity{Address: "direct:x", Winner: "to-1", Losers: []diagram.NodeID{"to-2"}}, set.Ambiguous[0])
	assert.Empty(t, set.Outgoing, "the losing node has a visible counterpart and gets no stub")
	assert.Empty(t, set.Incoming)
	assert.False(t, set.References("to-2"), "the losing node is drawn without any edge")

	// Reversing insertion order flips the winner
	reversed := registry.NewSnapshot(
		testutil.Node("to-2").Build(),
		testutil.Node("to-1").Build(),
		testutil.Node("from").Build(),
	)
	set = Classify(reversed, host)
	require.Len(t, set.Internal, 1)
	assert.Equal(t, diagram.NodeID("to-2"), set.Internal[0].From)
}

func TestClassify_UnmountCompleteness(t *testing.T) {
	reg := registry.New()
	nodes := append(testutil.SimpleChain(),
		testutil.Node("in").CenteredAt(0, 0).Build(),
		testutil.Node("out").CenteredAt(0, 100).Build(),
		testutil.Node("link-in").CenteredAt(0, 200).Build(),
	)
	for _, g := range nodes {
		require.NoError(t, reg.Upsert(g))
	}
	host := NewStaticHost().
		Incoming("in").
		Outgoing("out", "direct:z").
		Incoming("link-in", "direct:z")

	for _, g := range nodes {
		require.True(t, Classify(reg.Snapshot(), host).References(g.ID), "node %s should be referenced before removal", g.ID)
	}

	for _, g := range nodes {
		reg.Remove(g.ID)
		set := Classify(reg.Snapshot(), host)
		assert.False(t, set.References(g.ID), "node %s still referenced after removal", g.ID)
	}
}

func TestEndpointKind_String(t *testing.T) {
	assert.Equal(t, "none", EndpointNone.String())
	assert.Equal(t, "incoming", EndpointIncoming.String())
	assert.Equal(t, "outgoing", EndpointOutgoing.String())
}
