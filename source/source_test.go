// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package source

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type storeFunc func(string, any) error

func (f storeFunc) Set(name string, value any) error {
	return f(name, value)
}

func TestApply(t *testing.T) {
	t.Run("will return an error", func(t *testing.T) {
		t.Run("if a source fails to apply", func(t *testing.T) {
			applyErr := errors.New("failed to apply")
			src := sourceFunc(func(Store) error {
				return applyErr
			})

			_, err := Apply(src)
			require.ErrorIs(t, err, applyErr)
		})
	})

	t.Run("will let later sources win", func(t *testing.T) {
		t.Run("if multiple sources set the same key", func(t *testing.T) {
			m, err := Apply(
				Map{"UNITTEST_CFG_A": "low", "UNITTEST_CFG_B": "b"},
				Map{"UNITTEST_CFG_A": "high"},
			)
			require.NoError(t, err)

			assert.Equal(t, "high", m["UNITTEST_CFG_A"])
			assert.Equal(t, "b", m["UNITTEST_CFG_B"])
		})
	})

	t.Run("will skip nil sources", func(t *testing.T) {
		t.Run("if a layer is not configured", func(t *testing.T) {
			m, err := Apply(nil, Map{"UNITTEST_CFG_A": "a"}, nil)
			require.NoError(t, err)

			assert.Equal(t, Map{"UNITTEST_CFG_A": "a"}, m)
		})
	})
}

type sourceFunc func(Store) error

func (f sourceFunc) Apply(store Store) error {
	return f(store)
}

func TestFilter(t *testing.T) {
	t.Run("will drop keys", func(t *testing.T) {
		t.Run("if the predicate disallows them", func(t *testing.T) {
			src := Filter(
				Map{"UNITTEST_CFG_A": "a", "UNITTEST_CFG_G": "g"},
				func(name string) bool { return name != "UNITTEST_CFG_G" },
			)

			m, err := Apply(src)
			require.NoError(t, err)

			assert.Equal(t, "a", m["UNITTEST_CFG_A"])
			assert.NotContains(t, m, "UNITTEST_CFG_G")
		})
	})

	t.Run("will forward store errors", func(t *testing.T) {
		t.Run("if the underlying store fails", func(t *testing.T) {
			setErr := errors.New("failed to set")
			src := Filter(Map{"UNITTEST_CFG_A": "a"}, func(string) bool { return true })

			err := src.Apply(storeFunc(func(string, any) error {
				return setErr
			}))
			require.ErrorIs(t, err, setErr)
		})
	})
}

func TestEnv_Apply(t *testing.T) {
	t.Run("will apply environment variables", func(t *testing.T) {
		t.Run("if the process environment contains them", func(t *testing.T) {
			src := Env{
				environ: func() []string {
					return []string{
						"UNITTEST_CFG_A=from env",
						"UNITTEST_CFG_EQ=a=b",
						"malformed",
					}
				},
			}

			m, err := Apply(src)
			require.NoError(t, err)

			assert.Equal(t, "from env", m["UNITTEST_CFG_A"])
			assert.Equal(t, "a=b", m["UNITTEST_CFG_EQ"])
			assert.Len(t, m, 2)
		})
	})

	t.Run("will read the environment at apply time", func(t *testing.T) {
		t.Run("if a variable is set after the source is constructed", func(t *testing.T) {
			src := FromEnv()
			t.Setenv("UNITTEST_CFG_FRESH", "fresh")

			m, err := Apply(src)
			require.NoError(t, err)

			assert.Equal(t, "fresh", m["UNITTEST_CFG_FRESH"])
		})
	})
}
