package jsonfile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-unique-login/internal/errors"
	"github.com/jrsteele09/go-unique-login/users/jsonfile"
)

func writeUsersFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "users.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadAndLookup(t *testing.T) {
	path := writeUsersFile(t, `[
		{"id": "42", "username": "jdoe", "name": "John Doe"},
		{"id": "7", "username": "asmith", "name": "Anne Smith"}
	]`)

	directory, err := jsonfile.Load(path)
	require.NoError(t, err)

	user, err := directory.GetByID("42")
	require.NoError(t, err)
	require.Equal(t, "jdoe", user.Username)

	_, err = directory.GetByID("999")
	require.ErrorIs(t, err, errors.ErrNotFound)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := jsonfile.Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestLoadRejectsUserWithoutID(t *testing.T) {
	path := writeUsersFile(t, `[{"username": "jdoe"}]`)

	_, err := jsonfile.Load(path)
	require.Error(t, err)
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	path := writeUsersFile(t, `{not json`)

	_, err := jsonfile.Load(path)
	require.Error(t, err)
}
