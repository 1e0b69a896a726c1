package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandlerRegistry_Register(t *testing.T) {
	r := NewHandlerRegistry()
	houses := newTestHandler()
	audit := newTestHandler()

	r.Register(houses, "HouseCreated", "HouseUpdated")
	r.Register(audit)

	created := r.Handlers("HouseCreated")
	assert.Len(t, created, 2)
	assert.Same(t, houses, created[0])
	assert.Same(t, audit, created[1])

	other := r.Handlers("OfficeBearerAppointed")
	assert.Len(t, other, 1)
	assert.Same(t, audit, other[0])
}

func TestHandlerRegistry_Unregister(t *testing.T) {
	r := NewHandlerRegistry()
	a := newTestHandler()
	b := newTestHandler()

	r.Register(a, "HouseDeleted")
	r.Register(b, "HouseDeleted")
	r.Register(a)

	r.Unregister(a)

	handlers := r.Handlers("HouseDeleted")
	assert.Len(t, handlers, 1)
	assert.Same(t, b, handlers[0])
	assert.Empty(t, r.Handlers("HouseCreated"))

	r.Unregister(b)
	assert.Empty(t, r.Handlers("HouseDeleted"))
	assert.Empty(t, r.handlers)
}

func TestHandlerRegistry_HandlersReturnsCopy(t *testing.T) {
	r := NewHandlerRegistry()
	a := newTestHandler()
	r.Register(a, "HouseCreated")

	handlers := r.Handlers("HouseCreated")
	handlers[0] = newTestHandler()

	assert.Same(t, a, r.Handlers("HouseCreated")[0])
}
