package hackernews

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CrestNiraj12/hnterm/domain"
)

func ids(nodes []domain.CommentNode) []int {
	out := make([]int, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.ID)
	}
	return out
}

func TestTreeBuilder_EmptyInputMakesNoRequests(t *testing.T) {
	api := newFakeAPI()
	gw := newTestGateway(api, GatewayOptions{})

	nodes, err := gw.Trees().Build(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, nodes)
	assert.Empty(t, nodes)
	assert.Empty(t, api.hits)
}

func TestTreeBuilder_PreservesKidsOrder(t *testing.T) {
	api := newFakeAPI()
	order := []int{50, 10, 40, 20, 30}
	for _, id := range order {
		api.comment(id, 1)
	}
	gw := newTestGateway(api, GatewayOptions{})

	nodes, err := gw.Trees().Build(context.Background(), order)
	require.NoError(t, err)
	assert.Equal(t, order, ids(nodes))
	for _, n := range nodes {
		assert.NotNil(t, n.Children)
	}
}

func TestTreeBuilder_BreaksCycles(t *testing.T) {
	api := newFakeAPI()
	api.comment(1, 0, 2)
	api.comment(2, 1, 1)
	gw := newTestGateway(api, GatewayOptions{})

	nodes, err := gw.Trees().Build(context.Background(), []int{1})
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	require.Len(t, nodes[0].Children, 1)
	assert.Empty(t, nodes[0].Children[0].Children)
	assert.Equal(t, 1, api.count("item/1"))
}

func TestTreeBuilder_StopsAtMaxDepth(t *testing.T) {
	api := newFakeAPI()
	api.comment(1, 0, 2)
	api.comment(2, 1, 3)
	api.comment(3, 2)
	gw := newTestGateway(api, GatewayOptions{MaxCommentDepth: 2})

	nodes, err := gw.Trees().Build(context.Background(), []int{1})
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	require.Len(t, nodes[0].Children, 1)
	assert.Empty(t, nodes[0].Children[0].Children)
	assert.Equal(t, []int{3}, nodes[0].Children[0].Kids)
	assert.Zero(t, api.count("item/3"))
}
