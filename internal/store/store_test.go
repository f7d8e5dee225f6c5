package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/combo/internal/model"
)

func TestOpen_Backends(t *testing.T) {
	for _, backend := range Backends() {
		t.Run(backend, func(t *testing.T) {
			dir := t.TempDir()
			path := DefaultPath(backend, dir)
			s, err := Open(backend, path, nil)
			require.NoError(t, err)
			defer s.Close()
			assert.Equal(t, path, s.Path())

			ctx := context.Background()
			_, err = Update(ctx, s, func(st *model.State) error {
				_, err := st.AddList("Protein")
				return err
			})
			require.NoError(t, err)

			st, err := s.Load(ctx)
			require.NoError(t, err)
			require.Len(t, st.Lists, 1)
			assert.Equal(t, "Protein", st.Lists[0].Name)
		})
	}
}

func TestOpen_Unknown(t *testing.T) {
	_, err := Open("redis", filepath.Join(t.TempDir(), "x"), nil)
	assert.Error(t, err)
}

func TestUpdate_ErrorSkipsSave(t *testing.T) {
	s, err := Open(BackendJSON, DefaultPath(BackendJSON, t.TempDir()), nil)
	require.NoError(t, err)
	defer s.Close()
	ctx := context.Background()

	boom := errors.New("boom")
	_, err = Update(ctx, s, func(st *model.State) error {
		_, _ = st.AddList("Lost")
		return boom
	})
	assert.ErrorIs(t, err, boom)

	st, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, st.Lists)
}
