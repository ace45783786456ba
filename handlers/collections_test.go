package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

// The duplicate-key backstops in the create paths only work if these
// unique keys actually exist.
func TestUniqueIndexDeclarations(t *testing.T) {
	keys := map[string]string{}
	for _, spec := range uniqueIndexes() {
		require.NotNil(t, spec.model.Options, spec.collection)
		require.NotNil(t, spec.model.Options.Unique, spec.collection)
		assert.True(t, *spec.model.Options.Unique, spec.collection)

		d, ok := spec.model.Keys.(bson.D)
		require.True(t, ok, spec.collection)
		require.Len(t, d, 1, spec.collection)
		keys[spec.collection] = d[0].Key
	}

	assert.Equal(t, "vlcCode", keys["vlcassets"])
	assert.Equal(t, "subAdminId", keys["usedassets"])
	assert.Equal(t, "subAdminId", keys["issuedassets"])
	assert.Equal(t, "email", keys["users"])
}
