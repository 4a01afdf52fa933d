package mcpserver

// Test Plan for the entity_material, entity_classifications and
// entity_documents tools:
// - The wall resolves its layered material with thicknesses in set order
// - An entity without a material reports found=false and omits the field
// - The wall's classification chain arrives leaf-first with its system
// - The wall's document merges reference and information fields
// - Entities without associations return empty arrays, never null

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddAssociationTools_Registration(t *testing.T) {
	t.Parallel()

	mcpServer := server.NewMCPServer("test", "1.0.0", server.WithToolCapabilities(true))
	cache := newTestCache(t)

	require.NotPanics(t, func() {
		AddEntityMaterialTool(mcpServer, cache)
		AddEntityClassificationsTool(mcpServer, cache)
		AddEntityDocumentsTool(mcpServer, cache)
	})
}

func TestEntityMaterialHandler_LayerSet(t *testing.T) {
	t.Parallel()

	handler := createEntityMaterialHandler(newTestCache(t))

	result, err := handler(context.Background(), callRequest(map[string]interface{}{
		"model": "models/demo.ifc",
		"id":    float64(10),
	}))
	require.NoError(t, err)
	assert.False(t, result.IsError)

	var response entityMaterialResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &response))

	assert.True(t, response.Found)
	require.NotNil(t, response.Material)
	assert.Equal(t, "LayerSet", response.Material.Type)
	assert.Equal(t, "Ext-200", response.Material.Name)
	require.Len(t, response.Material.Layers, 2)
	assert.Equal(t, "Concrete", response.Material.Layers[0].Material)
	assert.InDelta(t, 200.0, response.Material.Layers[0].Thickness, 1e-9)
	assert.Equal(t, "Insulation", response.Material.Layers[1].Material)
	assert.True(t, response.Material.Layers[1].Ventilated)
}

func TestEntityMaterialHandler_None(t *testing.T) {
	t.Parallel()

	handler := createEntityMaterialHandler(newTestCache(t))

	result, err := handler(context.Background(), callRequest(map[string]interface{}{
		"model": "models/demo.ifc",
		"id":    float64(12),
	}))
	require.NoError(t, err)

	text := resultText(t, result)
	assert.False(t, strings.Contains(text, `"material"`), "absent material must be omitted")

	var response entityMaterialResponse
	require.NoError(t, json.Unmarshal([]byte(text), &response))
	assert.False(t, response.Found)
	assert.Nil(t, response.Material)
}

func TestEntityClassificationsHandler_Chain(t *testing.T) {
	t.Parallel()

	handler := createEntityClassificationsHandler(newTestCache(t))

	result, err := handler(context.Background(), callRequest(map[string]interface{}{
		"model": "models/demo.ifc",
		"id":    float64(10),
	}))
	require.NoError(t, err)

	var response entityClassificationsResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &response))

	require.Equal(t, 1, response.Total)
	cls := response.Classifications[0]
	assert.Equal(t, "Uniclass 2015", cls.System)
	assert.Equal(t, "2015", cls.Edition)
	assert.Equal(t, []string{"EF_25_10_25", "EF_25_10"}, cls.Path)
}

func TestEntityClassificationsHandler_None(t *testing.T) {
	t.Parallel()

	handler := createEntityClassificationsHandler(newTestCache(t))

	result, err := handler(context.Background(), callRequest(map[string]interface{}{
		"model": "models/demo.ifc",
		"id":    float64(12),
	}))
	require.NoError(t, err)

	text := resultText(t, result)
	assert.True(t, strings.Contains(text, `"classifications":[]`), "empty list must encode as an array")

	var response entityClassificationsResponse
	require.NoError(t, json.Unmarshal([]byte(text), &response))
	assert.Equal(t, 0, response.Total)
}

func TestEntityDocumentsHandler_MergedReference(t *testing.T) {
	t.Parallel()

	handler := createEntityDocumentsHandler(newTestCache(t))

	result, err := handler(context.Background(), callRequest(map[string]interface{}{
		"model": "models/demo.ifc",
		"id":    float64(10),
	}))
	require.NoError(t, err)

	var response entityDocumentsResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &response))

	require.Equal(t, 1, response.Total)
	doc := response.Documents[0]
	// The reference names the association; the information record fills
	// the rest.
	assert.Equal(t, "Wall Spec Ref", doc.Name)
	assert.Equal(t, "DOC-7", doc.Identification)
	assert.Equal(t, "Exterior wall data sheet", doc.Description)
	assert.Equal(t, "specs/walls.pdf", doc.Location)
}

func TestEntityDocumentsHandler_None(t *testing.T) {
	t.Parallel()

	handler := createEntityDocumentsHandler(newTestCache(t))

	result, err := handler(context.Background(), callRequest(map[string]interface{}{
		"model": "models/demo.ifc",
		"id":    float64(12),
	}))
	require.NoError(t, err)

	text := resultText(t, result)
	assert.True(t, strings.Contains(text, `"documents":[]`), "empty list must encode as an array")

	var response entityDocumentsResponse
	require.NoError(t, json.Unmarshal([]byte(text), &response))
	assert.Equal(t, 0, response.Total)
}
