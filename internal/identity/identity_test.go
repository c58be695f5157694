package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	ctx := IntoContext(context.Background(), Identity{UserID: 3, Username: "kate", Role: "admin"})
	id, ok := FromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, uint(3), id.UserID)
	assert.True(t, id.IsAdmin())

	_, ok = FromContext(IntoContext(context.Background(), Identity{}))
	assert.False(t, ok, "zero user id is anonymous")
}
