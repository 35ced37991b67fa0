package graph

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/stackplan/internal/resource"
)

func node(id string, kind resource.Kind, deps ...string) resource.Node {
	return resource.New(id, kind, nil, deps...)
}

func mustAdd(t *testing.T, g *Graph, nodes ...resource.Node) {
	t.Helper()
	for _, n := range nodes {
		require.NoError(t, g.AddNode(n))
	}
}

// assertOrdered checks that every dependency edge points forward in order.
func assertOrdered(t *testing.T, g *Graph, order []string) {
	t.Helper()
	pos := make(map[string]int, len(order))
	for i, id := range order {
		pos[id] = i
	}
	require.Len(t, pos, g.Len())
	for _, n := range g.Nodes() {
		deps, err := g.Dependencies(n.ID)
		require.NoError(t, err)
		for _, d := range deps {
			assert.Less(t, pos[d], pos[n.ID], "%s must come before %s", d, n.ID)
		}
	}
}

func TestTopoOrder_NetworkSecurityGroupInstance(t *testing.T) {
	t.Parallel()
	g := New()
	mustAdd(t, g,
		node("n", resource.KindNetwork),
		node("s", resource.KindSecurityGroup, "n"),
		node("i", resource.KindComputeInstance, "s"),
	)

	order, err := g.TopoOrder()
	require.NoError(t, err)
	assert.Equal(t, []string{"n", "s", "i"}, order)
}

func TestTopoOrder_DependencyAddedLater(t *testing.T) {
	t.Parallel()
	g := New()
	mustAdd(t, g,
		node("i", resource.KindComputeInstance, "s"),
		node("s", resource.KindSecurityGroup, "n"),
		node("n", resource.KindNetwork),
	)

	order, err := g.TopoOrder()
	require.NoError(t, err)
	assert.Equal(t, []string{"n", "s", "i"}, order)
}

func TestTopoOrder_KeepsInsertionOrderForIndependentNodes(t *testing.T) {
	t.Parallel()
	g := New()
	mustAdd(t, g,
		node("bucket", resource.KindBucket),
		node("stream", resource.KindManagedStream),
		node("vpc", resource.KindNetwork),
		node("topic", resource.KindTopic),
	)

	order, err := g.TopoOrder()
	require.NoError(t, err)
	assert.Equal(t, []string{"bucket", "stream", "vpc", "topic"}, order)
}

func TestTopoOrder_DependencyOrderIndependentOfDeclaration(t *testing.T) {
	t.Parallel()
	build := func(deps ...string) []string {
		g := New()
		mustAdd(t, g,
			node("a", resource.KindNetwork),
			node("b", resource.KindBucket),
			node("c", resource.KindComputeInstance, deps...),
		)
		order, err := g.TopoOrder()
		require.NoError(t, err)
		return order
	}
	assert.Equal(t, build("a", "b"), build("b", "a"))
}

func TestTopoOrder_RespectsEdgesOnLargerGraph(t *testing.T) {
	t.Parallel()
	g := New()
	for i := 0; i < 30; i++ {
		var deps []string
		for j := 0; j < i; j++ {
			if (i*7+j*3)%5 == 0 {
				deps = append(deps, fmt.Sprintf("n%d", j))
			}
		}
		mustAdd(t, g, node(fmt.Sprintf("n%d", i), resource.KindVolume, deps...))
	}
	require.NoError(t, g.AddEdge("n1", "n29"))

	order, err := g.TopoOrder()
	require.NoError(t, err)
	assertOrdered(t, g, order)
}

func TestTopoOrder_CycleNamesEveryMember(t *testing.T) {
	t.Parallel()
	g := New()
	mustAdd(t, g,
		node("vpc", resource.KindNetwork),
		node("a", resource.KindSecurityGroup, "vpc", "c"),
		node("b", resource.KindComputeInstance, "a"),
		node("c", resource.KindVolume, "b"),
		node("d", resource.KindBucket, "c"),
	)

	_, err := g.TopoOrder()
	var cycleErr *CycleError
	require.ErrorAs(t, err, &cycleErr)
	assert.ElementsMatch(t, []string{"a", "b", "c"}, cycleErr.Members)
	assert.Contains(t, err.Error(), "->")
}

func TestAddEdge_ClosingCycle(t *testing.T) {
	t.Parallel()
	g := New()
	mustAdd(t, g,
		node("n", resource.KindNetwork),
		node("s", resource.KindSecurityGroup, "n"),
		node("i", resource.KindComputeInstance, "s"),
	)
	require.NoError(t, g.AddEdge("i", "n"))

	_, err := g.TopoOrder()
	var cycleErr *CycleError
	require.ErrorAs(t, err, &cycleErr)
	assert.ElementsMatch(t, []string{"n", "s", "i"}, cycleErr.Members)
}

func TestAddEdge_SelfLoop(t *testing.T) {
	t.Parallel()
	g := New()
	mustAdd(t, g, node("n", resource.KindNetwork))

	err := g.AddEdge("n", "n")
	var cycleErr *CycleError
	require.ErrorAs(t, err, &cycleErr)
	assert.Equal(t, []string{"n"}, cycleErr.Members)
}

func TestAddNode_Duplicate(t *testing.T) {
	t.Parallel()
	g := New()
	mustAdd(t, g, node("vpc", resource.KindNetwork))

	err := g.AddNode(node("vpc", resource.KindSubnet))
	var dupErr *DuplicateIDError
	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, "vpc", dupErr.ID)

	n, ok := g.Node("vpc")
	require.True(t, ok)
	assert.Equal(t, resource.KindNetwork, n.Kind)
}

func TestAddNode_InvalidNode(t *testing.T) {
	t.Parallel()
	g := New()
	assert.Error(t, g.AddNode(node("Bad_ID", resource.KindNetwork)))
	assert.Zero(t, g.Len())
}

func TestAddEdge_UnknownNode(t *testing.T) {
	t.Parallel()
	g := New()
	mustAdd(t, g, node("vpc", resource.KindNetwork))

	var unknown *UnknownNodeError
	err := g.AddEdge("vpc", "missing")
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "missing", unknown.ID)

	err = g.AddEdge("missing", "vpc")
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "missing", unknown.ID)
}

func TestAddEdge_Idempotent(t *testing.T) {
	t.Parallel()
	g := New()
	mustAdd(t, g, node("a", resource.KindNetwork), node("b", resource.KindSubnet))
	require.NoError(t, g.AddEdge("a", "b"))
	require.NoError(t, g.AddEdge("a", "b"))

	deps, err := g.Dependencies("b")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, deps)
}

func TestValidate_DanglingDependency(t *testing.T) {
	t.Parallel()
	g := New()
	mustAdd(t, g, node("sg", resource.KindSecurityGroup, "vpc"))

	err := g.Validate()
	var unknown *UnknownNodeError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "vpc", unknown.ID)
	assert.Equal(t, "sg", unknown.Referrer)

	_, err = g.TopoOrder()
	require.ErrorAs(t, err, &unknown)
}

func TestValidate_UndeclaredReference(t *testing.T) {
	t.Parallel()
	g := New()
	mustAdd(t, g,
		node("vpc", resource.KindNetwork),
		resource.Node{
			ID:         "sg",
			Kind:       resource.KindSecurityGroup,
			Attributes: map[string]any{"vpcId": resource.RefTo("vpc", "id")},
		},
	)

	err := g.Validate()
	var undeclared *UndeclaredReferenceError
	require.ErrorAs(t, err, &undeclared)
	assert.Equal(t, "sg", undeclared.NodeID)
	assert.Equal(t, "vpcId", undeclared.Attribute)
	assert.Equal(t, "vpc", undeclared.Target)
}

func TestFinalize_FreezesGraph(t *testing.T) {
	t.Parallel()
	g := New()
	mustAdd(t, g, node("a", resource.KindNetwork), node("b", resource.KindSubnet))
	require.NoError(t, g.Finalize())
	require.True(t, g.Finalized())

	before := g.Export()

	var finalized *GraphFinalizedError
	require.ErrorAs(t, g.AddEdge("a", "b"), &finalized)
	require.ErrorAs(t, g.AddNode(node("c", resource.KindBucket)), &finalized)
	require.ErrorAs(t, g.SetAttribute("a", "cidr", "10.0.0.0/16"), &finalized)

	assert.Equal(t, before, g.Export())
	a, _ := g.Node("a")
	assert.NotContains(t, a.Attributes, "cidr")
}

func TestFinalize_FailureIsPermanent(t *testing.T) {
	t.Parallel()
	g := New()
	mustAdd(t, g, node("a", resource.KindNetwork, "b"), node("b", resource.KindSubnet, "a"))

	err := g.Finalize()
	var cycleErr *CycleError
	require.ErrorAs(t, err, &cycleErr)
	assert.True(t, g.Finalized())
	assert.Equal(t, err, g.Err())
	assert.Equal(t, err, g.Finalize(), "finalize again returns the recorded error")

	var finalized *GraphFinalizedError
	assert.ErrorAs(t, g.AddNode(node("c", resource.KindBucket)), &finalized)
}

func TestSetAttribute_RefAddsDependency(t *testing.T) {
	t.Parallel()
	g := New()
	mustAdd(t, g, node("eip", resource.KindStaticAddress), node("server", resource.KindComputeInstance))
	require.NoError(t, g.SetAttribute("server", "address", resource.RefTo("eip", "allocationId")))

	deps, err := g.Dependencies("server")
	require.NoError(t, err)
	assert.Equal(t, []string{"eip"}, deps)
	require.NoError(t, g.Validate())

	err = g.SetAttribute("missing", "x", 1)
	var unknown *UnknownNodeError
	assert.ErrorAs(t, err, &unknown)
}

func TestNode_ReturnsCopy(t *testing.T) {
	t.Parallel()
	g := New()
	mustAdd(t, g, resource.New("b", resource.KindBucket, map[string]any{"versioned": false}))

	n, ok := g.Node("b")
	require.True(t, ok)
	n.Attributes["versioned"] = true
	n.Kind = resource.KindTopic

	again, _ := g.Node("b")
	assert.Equal(t, false, again.Attributes["versioned"])
	assert.Equal(t, resource.KindBucket, again.Kind)
}

func TestNode_CopyCannotChangeFinalizedGraph(t *testing.T) {
	t.Parallel()
	type rule struct {
		Protocol string
		Port     int
	}
	g := New()
	mustAdd(t, g, resource.New("sg", resource.KindSecurityGroup, map[string]any{
		resource.AttrIngress: []rule{{Protocol: "tcp", Port: 22}},
	}))
	require.NoError(t, g.Finalize())

	n, ok := g.Node("sg")
	require.True(t, ok)
	n.Attributes[resource.AttrIngress].([]rule)[0].Port = 9999
	for _, node := range g.Nodes() {
		node.Attributes[resource.AttrIngress].([]rule)[0].Port = 8080
	}

	again, _ := g.Node("sg")
	assert.Equal(t, 22, again.Attributes[resource.AttrIngress].([]rule)[0].Port)
}

func TestSetAttribute_StoresCopy(t *testing.T) {
	t.Parallel()
	g := New()
	mustAdd(t, g, resource.New("sg", resource.KindSecurityGroup, nil))

	ports := []int{22, 80}
	require.NoError(t, g.SetAttribute("sg", "ports", ports))
	ports[0] = 9999

	n, _ := g.Node("sg")
	assert.Equal(t, []int{22, 80}, n.Attributes["ports"])
}

func TestDependents(t *testing.T) {
	t.Parallel()
	g := New()
	mustAdd(t, g,
		node("vpc", resource.KindNetwork),
		node("subnet", resource.KindSubnet, "vpc"),
		node("sg", resource.KindSecurityGroup, "vpc"),
	)
	deps, err := g.Dependents("vpc")
	require.NoError(t, err)
	assert.Equal(t, []string{"subnet", "sg"}, deps)

	_, err = g.Dependents("nope")
	assert.True(t, errors.As(err, new(*UnknownNodeError)))
}

func TestExport_DOTAndMermaid(t *testing.T) {
	t.Parallel()
	g := New()
	mustAdd(t, g, node("vpc", resource.KindNetwork), node("sg", resource.KindSecurityGroup, "vpc"))

	s := g.Export()
	assert.Equal(t, []string{"vpc", "sg"}, s.TopoOrder)
	assert.Equal(t, []SnapshotEdge{{From: "vpc", To: "sg"}}, s.Edges)

	dot := s.DOT()
	assert.Contains(t, dot, "digraph stack {")
	assert.Contains(t, dot, `n0 [label="vpc\n(Network)"];`)
	assert.Contains(t, dot, "n0 -> n1;")

	mermaid := s.Mermaid()
	assert.Contains(t, mermaid, "graph TD")
	assert.Contains(t, mermaid, "n0 --> n1")
}
