package rgparallel_test

import (
	"sync"
	"testing"

	rendergraph "github.com/nical/rendergraph"
	"github.com/nical/rendergraph/geom"
	"github.com/nical/rendergraph/rgparallel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolverSingleProducer(t *testing.T) {
	r := rgparallel.NewResolver(8)
	b := r.NewBuilder()

	a := b.AddNode(rendergraph.RenderTask(1), rendergraph.Color, geom.Sz(10, 10), rendergraph.DynamicAlloc(), nil)
	c := b.AddNode(rendergraph.RenderTask(2), rendergraph.Color, geom.Sz(10, 10), rendergraph.DynamicAlloc(), []rendergraph.NodeID{a})
	b.AddRoot(c)

	g, err := r.Resolve()
	require.NoError(t, err)
	assert.Equal(t, 2, g.Len())
	assert.Equal(t, []rendergraph.NodeID{c}, g.Roots())
}

func TestResolverConcurrentProducers(t *testing.T) {
	r := rgparallel.NewResolver(64)

	var wg sync.WaitGroup
	roots := make([]rendergraph.NodeID, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			b := r.NewBuilder()
			id := b.AddNode(rendergraph.RenderTask(uint64(i)), rendergraph.Color, geom.Sz(5, 5), rendergraph.DynamicAlloc(), nil)
			roots[i] = id
			b.AddRoot(id)
		}(i)
	}
	wg.Wait()

	g, err := r.Resolve()
	require.NoError(t, err)
	assert.Equal(t, 4, g.Len())
	assert.Len(t, g.Roots(), 4)
}

// TestResolverAddDependencyAfterTheFact exercises the cross-goroutine
// case AddDependency exists for: a second producer discovers an edge
// onto a node another producer already created and reserved an id for,
// and attaches it after the fact instead of at AddNode time.
func TestResolverAddDependencyAfterTheFact(t *testing.T) {
	r := rgparallel.NewResolver(8)
	b1 := r.NewBuilder()
	b2 := r.NewBuilder()

	producer := b1.AddNode(rendergraph.RenderTask(1), rendergraph.Color, geom.Sz(10, 10), rendergraph.DynamicAlloc(), nil)
	consumer := b2.AddNode(rendergraph.RenderTask(2), rendergraph.Color, geom.Sz(10, 10), rendergraph.DynamicAlloc(), nil)
	b2.AddDependency(consumer, producer)
	b2.AddRoot(consumer)

	g, err := r.Resolve()
	require.NoError(t, err)
	assert.Equal(t, 2, g.Len())
	assert.Equal(t, []rendergraph.NodeID{producer}, g.Dependencies(consumer))
}

// TestResolverOutOfOrderArrivalStillResolves runs two producers
// concurrently, so their edits may drain in either order relative to
// id assignment order (which order occurs is not controlled): Resolve
// must place every node at its own id regardless of channel arrival
// order.
func TestResolverOutOfOrderArrivalStillResolves(t *testing.T) {
	r := rgparallel.NewResolver(8)
	b1 := r.NewBuilder()
	b2 := r.NewBuilder()

	var wg sync.WaitGroup
	wg.Add(2)
	started := make(chan struct{}, 2)
	var id1, id2 rendergraph.NodeID
	// Either producer may reserve and send first; the resolver must not
	// assume channel order is id order.
	go func() {
		defer wg.Done()
		started <- struct{}{}
		<-started
		id2 = b2.AddNode(rendergraph.RenderTask(2), rendergraph.Color, geom.Sz(2, 2), rendergraph.DynamicAlloc(), nil)
	}()
	go func() {
		defer wg.Done()
		started <- struct{}{}
		<-started
		id1 = b1.AddNode(rendergraph.RenderTask(1), rendergraph.Color, geom.Sz(1, 1), rendergraph.DynamicAlloc(), nil)
	}()
	wg.Wait()

	g, err := r.Resolve()
	require.NoError(t, err)
	assert.Equal(t, 2, g.Len())
	assert.Equal(t, geom.Sz(1, 1), g.Node(id1).Size)
	assert.Equal(t, geom.Sz(2, 2), g.Node(id2).Size)
}
