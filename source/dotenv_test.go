// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDotenv_Apply(t *testing.T) {
	t.Run("will return an error", func(t *testing.T) {
		t.Run("if the file at the supplied path cannot be read", func(t *testing.T) {
			src := FromDotenv(filepath.Join(t.TempDir(), "does-not-exist.env"))

			_, err := Apply(src)

			var serr SourceReadError
			require.ErrorAs(t, err, &serr)
			assert.NotEmpty(t, serr.Path)
			assert.Error(t, serr.Unwrap())
		})
	})

	t.Run("will apply the file's pairs", func(t *testing.T) {
		t.Run("if the file contains KEY=VALUE lines", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ".env")
			err := os.WriteFile(path, []byte("UNITTEST_CFG_A=from dotenv\nUNITTEST_CFG_B=b\n"), 0o600)
			require.NoError(t, err)

			m, err := Apply(FromDotenv(path))
			require.NoError(t, err)

			assert.Equal(t, "from dotenv", m["UNITTEST_CFG_A"])
			assert.Equal(t, "b", m["UNITTEST_CFG_B"])
		})
	})
}
