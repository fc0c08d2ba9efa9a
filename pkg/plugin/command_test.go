package plugin

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandMarshalJSON(t *testing.T) {
	t.Run("bare args collapse to a string", func(t *testing.T) {
		data, err := json.Marshal(Command{Args: "--config config.json"})
		require.NoError(t, err)
		assert.Equal(t, `"--config config.json"`, string(data))
	})

	t.Run("structured form keeps the mapping", func(t *testing.T) {
		desc := "Show plugin metadata"
		data, err := json.Marshal(Command{Args: "--about", Description: &desc})
		require.NoError(t, err)
		assert.JSONEq(t, `{"args": "--about", "description": "Show plugin metadata"}`, string(data))
	})
}
