package session_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	rendergraph "github.com/nical/rendergraph"
	"github.com/nical/rendergraph/atlas"
	"github.com/nical/rendergraph/geom"
	"github.com/nical/rendergraph/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildOptions() rendergraph.BuilderOptions {
	return rendergraph.BuilderOptions{Targets: rendergraph.PingPong, Culling: true}
}

func TestSessionAddNodeAutoNamesAndResolvesDeps(t *testing.T) {
	s := session.New(geom.Sz(256, 256), atlas.DefaultOptions)

	aID, aName, err := s.AddNode("", rendergraph.RenderTask(1), rendergraph.Color, geom.Sz(10, 10), rendergraph.DynamicAlloc(), nil)
	require.NoError(t, err)
	assert.Equal(t, "#1", aName)

	bID, _, err := s.AddNode("b", rendergraph.RenderTask(2), rendergraph.Color, geom.Sz(10, 10), rendergraph.DynamicAlloc(), []string{aName})
	require.NoError(t, err)
	assert.Equal(t, []rendergraph.NodeID{aID}, s.Graph.Dependencies(bID))

	require.NoError(t, s.AddRoot("b"))
	assert.Equal(t, []rendergraph.NodeID{bID}, s.Graph.Roots())
}

func TestSessionAddNodeUnknownDependencyErrors(t *testing.T) {
	s := session.New(geom.Sz(256, 256), atlas.DefaultOptions)
	_, _, err := s.AddNode("c", rendergraph.RenderTask(1), rendergraph.Color, geom.Sz(10, 10), rendergraph.DynamicAlloc(), []string{"missing"})
	assert.Error(t, err)
}

func TestSessionAddRootUnknownNameErrors(t *testing.T) {
	s := session.New(geom.Sz(256, 256), atlas.DefaultOptions)
	assert.Error(t, s.AddRoot("nope"))
}

func TestSessionBuildRecordsBuiltGraph(t *testing.T) {
	s := session.New(geom.Sz(256, 256), atlas.DefaultOptions)
	aID, _, err := s.AddNode("a", rendergraph.RenderTask(1), rendergraph.Color, geom.Sz(10, 10), rendergraph.DynamicAlloc(), nil)
	require.NoError(t, err)
	require.NoError(t, s.AddRoot("a"))

	built, _, err := s.Build(context.Background(), buildOptions())
	require.NoError(t, err)
	assert.Same(t, built, s.BuiltGraph)

	_, ok := built.AllocatedRectangle(aID)
	assert.True(t, ok)
}

func TestSessionSaveLoadRoundTrip(t *testing.T) {
	s := session.New(geom.Sz(128, 128), atlas.DefaultOptions)
	aID, aName, err := s.AddNode("", rendergraph.RenderTask(1), rendergraph.Color, geom.Sz(8, 8), rendergraph.DynamicAlloc(), nil)
	require.NoError(t, err)
	_, _, err = s.AddNode("b", rendergraph.RenderTask(2), rendergraph.Color, geom.Sz(8, 8), rendergraph.DynamicAlloc(), []string{aName})
	require.NoError(t, err)
	require.NoError(t, s.AddRoot("b"))
	_, _, err = s.Build(context.Background(), buildOptions())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "session.toml")
	require.NoError(t, s.Save(path))

	loaded, err := session.Load(path)
	require.NoError(t, err)

	assert.Equal(t, s.Graph.Len(), loaded.Graph.Len())
	assert.Equal(t, s.Graph.Roots(), loaded.Graph.Roots())
	assert.Equal(t, s.Names, loaded.Names)
	assert.Equal(t, s.AllocatorOptions, loaded.AllocatorOptions)
	assert.Equal(t, s.DefaultSize, loaded.DefaultSize)
	require.NotNil(t, loaded.BuiltGraph)

	_, ok := loaded.BuiltGraph.AllocatedRectangle(aID)
	assert.True(t, ok)
}

func TestSessionSaveWithoutBuildOmitsBuiltGraphJSON(t *testing.T) {
	s := session.New(geom.Sz(64, 64), atlas.DefaultOptions)
	_, _, err := s.AddNode("a", rendergraph.RenderTask(1), rendergraph.Color, geom.Sz(4, 4), rendergraph.DynamicAlloc(), nil)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "session.toml")
	require.NoError(t, s.Save(path))

	loaded, err := session.Load(path)
	require.NoError(t, err)
	assert.Nil(t, loaded.BuiltGraph)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "built_graph_json")
}
