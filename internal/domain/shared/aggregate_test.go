package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseAggregateRoot_PullDomainEvents(t *testing.T) {
	now := mustParse("2026-03-01T10:00:00Z")
	root := NewBaseAggregateRoot(now)
	assert.Equal(t, 1, root.Version)
	assert.Equal(t, now, root.CreatedAt)

	created := NewBaseDomainEvent("HouseCreated", "House", root.ID, now)
	updated := NewBaseDomainEvent("HouseUpdated", "House", root.ID, now)
	root.AddDomainEvent(&created)
	root.AddDomainEvent(&updated)

	events := root.PullDomainEvents()
	require.Len(t, events, 2)
	assert.Equal(t, "HouseCreated", events[0].EventType())
	assert.Equal(t, "HouseUpdated", events[1].EventType())
	assert.Empty(t, root.GetDomainEvents())
	assert.Empty(t, root.PullDomainEvents())
}
