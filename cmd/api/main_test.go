package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// El binario corre desde la raíz del repo; los tests corren desde cmd/api.
func fromRepoRoot(rel string) string {
	return filepath.Join("..", "..", filepath.FromSlash(rel))
}

func TestSwaggerSpec_ExisteYEsOpenAPIValido(t *testing.T) {
	raw, err := os.ReadFile(fromRepoRoot(swaggerSpecFile))
	require.NoError(t, err, "el middleware de swagger hace panic en el arranque si falta el archivo")

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))

	assert.Contains(t, doc, "openapi")
	assert.Contains(t, doc, "info")
	paths, ok := doc["paths"].(map[string]any)
	require.True(t, ok, "el documento debe declarar paths")
	assert.Contains(t, paths, "/health")
	assert.Contains(t, paths, "/api/invoices")
}
