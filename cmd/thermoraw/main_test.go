package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omicstools/thermoraw"
)

func TestParseXICQueries(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		queries, err := parseXICQueries(`[{"mz":488.5384,"tolerance":10,"tolerance_unit":"ppm"}]`)
		require.NoError(t, err)
		require.Len(t, queries, 1)
		assert.Equal(t, thermoraw.XICQuery{Mz: 488.5384, Tolerance: 10, ToleranceUnit: "ppm"}, queries[0])
	})

	t.Run("InvalidJSON", func(t *testing.T) {
		_, err := parseXICQueries(`{"mz":488.5384}`)
		assert.Error(t, err)
	})

	t.Run("Empty", func(t *testing.T) {
		_, err := parseXICQueries(`[]`)
		assert.ErrorContains(t, err, "empty")
	})
}
