package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogCommand(t *testing.T) {
	t.Run("lists built-in inventory", func(t *testing.T) {
		var out bytes.Buffer
		rootCmd.SetOut(&out)
		rootCmd.SetArgs([]string{"catalog"})

		require.NoError(t, rootCmd.Execute())
		assert.Contains(t, out.String(), "CBL-HV-001")
		assert.Contains(t, out.String(), "TEST-HV")
	})

	t.Run("uses catalog override", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalog.yaml")
		content := `products:
  - id: CUSTOM-1
    name: Custom Cable
    category: Cable
    unit_price: 10
services: []
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		var out bytes.Buffer
		rootCmd.SetOut(&out)
		rootCmd.SetArgs([]string{"catalog", "--catalog", path})
		defer func() { catalogPath = "" }()

		require.NoError(t, rootCmd.Execute())
		assert.Contains(t, out.String(), "CUSTOM-1")
		assert.NotContains(t, out.String(), "CBL-HV-001")
	})
}

func TestQuoteCommand_Validation(t *testing.T) {
	t.Run("rejects unknown format", func(t *testing.T) {
		rootCmd.SetArgs([]string{"quote", "rfp.txt", "--format", "xml"})
		defer func() { quoteFormat = "json" }()

		err := rootCmd.Execute()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "format")
	})

	t.Run("requires a file argument", func(t *testing.T) {
		rootCmd.SetArgs([]string{"quote"})
		assert.Error(t, rootCmd.Execute())
	})

	t.Run("missing file", func(t *testing.T) {
		rootCmd.SetArgs([]string{"quote", filepath.Join(t.TempDir(), "missing.pdf")})
		err := rootCmd.Execute()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read document")
	})
}
