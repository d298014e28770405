package adapter

import (
	"bytes"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_Guangdong(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, Render(&out, Guangdong))
	assert.JSONEq(t, `[{"name":"shenzhen","id":11},{"name":"guangzhou","id":12}]`, out.String())
}

func TestRender_Errors(t *testing.T) {
	t.Run("Source failure", func(t *testing.T) {
		failure := errors.New("offline")
		err := Render(&bytes.Buffer{}, func() ([]City, error) { return nil, failure })
		assert.ErrorIs(t, err, failure)
	})

	t.Run("Invalid city", func(t *testing.T) {
		var out bytes.Buffer
		err := Render(&out, func() ([]City, error) {
			return []City{{Name: "shenzhen", ID: 11}, {Name: "", ID: 0}}, nil
		})
		require.Error(t, err)

		var verrs validator.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Len(t, verrs, 2)
		assert.Empty(t, out.String(), "nothing is written when validation fails")
	})

	t.Run("Empty source renders an empty array", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, Render(&out, func() ([]City, error) { return nil, nil }))
		assert.Equal(t, "[]", out.String())
	})
}

func TestAdaptMap(t *testing.T) {
	legacy := func() (map[string]int, error) {
		return map[string]int{"guangzhou": 12, "shenzhen": 11, "foshan": 12}, nil
	}

	cities, err := AdaptMap(legacy)()
	require.NoError(t, err)
	assert.Equal(t, []City{
		{Name: "shenzhen", ID: 11},
		{Name: "foshan", ID: 12},
		{Name: "guangzhou", ID: 12},
	}, cities)

	t.Run("Renders through the adapter", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, Render(&out, AdaptMap(legacy)))
		assert.JSONEq(t, `[{"name":"shenzhen","id":11},{"name":"foshan","id":12},{"name":"guangzhou","id":12}]`, out.String())
	})
}

func TestFileSource(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "data/guangdong.json", []byte(`{"shenzhen": 11, "guangzhou": 12}`), 0644))
	require.NoError(t, afero.WriteFile(fs, "data/broken.json", []byte(`[1, 2`), 0644))

	t.Run("Reads legacy data", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, Render(&out, AdaptMap(FileSource(fs, "data/guangdong.json"))))
		assert.JSONEq(t, `[{"name":"shenzhen","id":11},{"name":"guangzhou","id":12}]`, out.String())
	})

	t.Run("Missing file", func(t *testing.T) {
		_, err := FileSource(fs, "data/missing.json")()
		assert.Error(t, err)
	})

	t.Run("Malformed file", func(t *testing.T) {
		_, err := FileSource(fs, "data/broken.json")()
		assert.Error(t, err)
	})
}
