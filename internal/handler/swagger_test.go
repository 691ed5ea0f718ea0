package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertSwagger2(t *testing.T) {
	doc := []byte(`{
		"swagger": "2.0",
		"info": {"title": "Underwriter API"},
		"securityDefinitions": {"BearerAuth": {"type": "apiKey", "in": "header", "name": "Authorization"}},
		"paths": {
			"/deals/{id}": {
				"put": {
					"consumes": ["application/json"],
					"parameters": [
						{"type": "integer", "description": "Deal ID", "name": "id", "in": "path", "required": true},
						{"description": "Deal", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.DealRequest"}}
					],
					"responses": {
						"200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Deal"}},
						"204": {"description": "No Content"}
					}
				}
			}
		},
		"definitions": {
			"handler.DealListResponse": {"properties": {"deals": {"items": {"$ref": "#/definitions/domain.Deal"}}}}
		}
	}`)

	spec, err := ConvertSwagger2(doc, apiServers)
	require.NoError(t, err)

	assert.Equal(t, "3.0.3", spec.OpenAPI)
	assert.Equal(t, "Underwriter API", spec.Info["title"])
	assert.Len(t, spec.Servers, 2)
	assert.Contains(t, spec.Components, "securitySchemes")

	raw, err := json.Marshal(spec)
	require.NoError(t, err)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &out))

	op := out["paths"].(map[string]interface{})["/deals/{id}"].(map[string]interface{})["put"].(map[string]interface{})
	assert.NotContains(t, op, "consumes")

	params := op["parameters"].([]interface{})
	require.Len(t, params, 1)
	assert.Equal(t, map[string]interface{}{"type": "integer"}, params[0].(map[string]interface{})["schema"])

	body := op["requestBody"].(map[string]interface{})
	assert.Equal(t, true, body["required"])
	bodySchema := body["content"].(map[string]interface{})["application/json"].(map[string]interface{})["schema"].(map[string]interface{})
	assert.Equal(t, "#/components/schemas/handler.DealRequest", bodySchema["$ref"])

	responses := op["responses"].(map[string]interface{})
	assert.Contains(t, responses["200"], "content")
	assert.NotContains(t, responses["204"], "content")

	items := out["components"].(map[string]interface{})["schemas"].(map[string]interface{})["handler.DealListResponse"].(map[string]interface{})["properties"].(map[string]interface{})["deals"].(map[string]interface{})["items"].(map[string]interface{})
	assert.Equal(t, "#/components/schemas/domain.Deal", items["$ref"])
}

func TestConvertSwagger2_InvalidJSON(t *testing.T) {
	_, err := ConvertSwagger2([]byte(`{"swagger":`), apiServers)
	assert.Error(t, err)
}

func TestServeOpenAPI3Spec(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/v1/openapi.json", nil), rec)

	require.NoError(t, ServeOpenAPI3Spec(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var spec OpenAPI3Spec
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &spec))
	assert.Equal(t, "3.0.3", spec.OpenAPI)
	assert.Contains(t, spec.Paths, "/calculations/dscr")
	assert.Contains(t, spec.Paths, "/deals/{id}/analyze")
}
