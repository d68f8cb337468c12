package queue

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendToLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "catalog.log")

	created := `{"kind":"movie.created","movie_id":1,"name":"Interstellar","imdb_id":"tt0816692","occurred_at":"2021-11-05T17:00:00Z"}`
	require.NoError(t, appendToLog(path, []byte(created)))

	show := `{"kind":"show.created","movie_id":1,"show_id":7,"room":"Room 5","occurred_at":"2021-11-05T17:01:00Z"}`
	require.NoError(t, appendToLog(path, []byte(show)))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"2021-11-05T17:00:00Z movie.created movie=1 imdb=tt0816692 name=\"Interstellar\"\n"+
			"2021-11-05T17:01:00Z show.created movie=1 show=7 room=\"Room 5\"\n",
		string(content))
}

func TestAppendToLogRejectsMalformedPayload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.log")

	err := appendToLog(path, []byte("not json"))

	require.Error(t, err)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "a rejected message must not touch the log")
}
