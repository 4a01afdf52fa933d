package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/strata-bim/strata/internal/model"
)

// entityMaterialResponse is the JSON payload returned by the entity_material
// tool.
type entityMaterialResponse struct {
	Model    string          `json:"model"`
	ID       uint32          `json:"id"`
	Found    bool            `json:"found"`
	Material *model.Material `json:"material,omitempty"`
}

// entityClassificationsResponse is the JSON payload returned by the
// entity_classifications tool.
type entityClassificationsResponse struct {
	Model           string                 `json:"model"`
	ID              uint32                 `json:"id"`
	Classifications []model.Classification `json:"classifications"`
	Total           int                    `json:"total"`
}

// entityDocumentsResponse is the JSON payload returned by the
// entity_documents tool.
type entityDocumentsResponse struct {
	Model     string           `json:"model"`
	ID        uint32           `json:"id"`
	Documents []model.Document `json:"documents"`
	Total     int              `json:"total"`
}

// AddEntityMaterialTool registers the entity_material tool with an MCP
// server.
func AddEntityMaterialTool(s *server.MCPServer, cache *ModelCache) {
	tool := mcp.NewTool(
		"entity_material",
		mcp.WithDescription("Resolve the material associated with an entity: a single material, a layer set with thicknesses, a profile set or a constituent set. Usage records are followed to the set they wrap."),
		mcp.WithString("model",
			mcp.Required(),
			mcp.Description("Model file path relative to the project root")),
		mcp.WithNumber("id",
			mcp.Required(),
			mcp.Description("Numeric entity id from the exchange file")),
	)

	s.AddTool(tool, createEntityMaterialHandler(cache))
}

// createEntityMaterialHandler creates the handler function for
// entity_material.
func createEntityMaterialHandler(cache *ModelCache) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, ok := request.Params.Arguments.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		id, err := parseEntityID(argsMap)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		lm, errResult := loadModelArg(ctx, cache, argsMap)
		if errResult != nil {
			return errResult, nil
		}

		material := lm.Store.Material(id)

		return toolJSON(&entityMaterialResponse{
			Model:    lm.Rel,
			ID:       id,
			Found:    material != nil,
			Material: material,
		})
	}
}

// AddEntityClassificationsTool registers the entity_classifications tool
// with an MCP server.
func AddEntityClassificationsTool(s *server.MCPServer, cache *ModelCache) {
	tool := mcp.NewTool(
		"entity_classifications",
		mcp.WithDescription("Resolve the classification references associated with an entity, each with its system name, edition and the reference codes leaf-first up to the root system."),
		mcp.WithString("model",
			mcp.Required(),
			mcp.Description("Model file path relative to the project root")),
		mcp.WithNumber("id",
			mcp.Required(),
			mcp.Description("Numeric entity id from the exchange file")),
	)

	s.AddTool(tool, createEntityClassificationsHandler(cache))
}

// createEntityClassificationsHandler creates the handler function for
// entity_classifications.
func createEntityClassificationsHandler(cache *ModelCache) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, ok := request.Params.Arguments.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		id, err := parseEntityID(argsMap)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		lm, errResult := loadModelArg(ctx, cache, argsMap)
		if errResult != nil {
			return errResult, nil
		}

		classifications := lm.Store.Classifications(id)
		if classifications == nil {
			classifications = []model.Classification{}
		}

		return toolJSON(&entityClassificationsResponse{
			Model:           lm.Rel,
			ID:              id,
			Classifications: classifications,
			Total:           len(classifications),
		})
	}
}

// AddEntityDocumentsTool registers the entity_documents tool with an MCP
// server.
func AddEntityDocumentsTool(s *server.MCPServer, cache *ModelCache) {
	tool := mcp.NewTool(
		"entity_documents",
		mcp.WithDescription("Resolve the document references associated with an entity: identification, name, description and location of each referenced document."),
		mcp.WithString("model",
			mcp.Required(),
			mcp.Description("Model file path relative to the project root")),
		mcp.WithNumber("id",
			mcp.Required(),
			mcp.Description("Numeric entity id from the exchange file")),
	)

	s.AddTool(tool, createEntityDocumentsHandler(cache))
}

// createEntityDocumentsHandler creates the handler function for
// entity_documents.
func createEntityDocumentsHandler(cache *ModelCache) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, ok := request.Params.Arguments.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		id, err := parseEntityID(argsMap)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		lm, errResult := loadModelArg(ctx, cache, argsMap)
		if errResult != nil {
			return errResult, nil
		}

		documents := lm.Store.Documents(id)
		if documents == nil {
			documents = []model.Document{}
		}

		return toolJSON(&entityDocumentsResponse{
			Model:     lm.Rel,
			ID:        id,
			Documents: documents,
			Total:     len(documents),
		})
	}
}
