package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const prawINI = `[DEFAULT]
check_for_updates=False

[bot]
client_id=abc123
client_secret=s3cret
username=tally_bot
password=hunter2
user_agent=mentions/1.0 by u/tally_bot

[partial]
client_id=only-id
`

func TestReadProfileName(t *testing.T) {
	dir := t.TempDir()

	t.Run("trims whitespace", func(t *testing.T) {
		path := writeFile(t, filepath.Join(dir, "reddit_name"), "  bot \n")
		name, err := ReadProfileName(path)
		require.NoError(t, err)
		assert.Equal(t, "bot", name)
	})

	t.Run("empty file", func(t *testing.T) {
		path := writeFile(t, filepath.Join(dir, "empty"), "\n")
		_, err := ReadProfileName(path)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ReadProfileName(filepath.Join(dir, "missing"))
		assert.Error(t, err)
	})
}

func TestLoadRedditCredentials(t *testing.T) {
	iniPath := writeFile(t, filepath.Join(t.TempDir(), "praw.ini"), prawINI)

	tests := []struct {
		name    string
		profile string
		wantErr string
		want    *RedditCredentials
	}{
		{
			name:    "complete profile",
			profile: "bot",
			want: &RedditCredentials{
				Profile:      "bot",
				ClientID:     "abc123",
				ClientSecret: "s3cret",
				Username:     "tally_bot",
				Password:     "hunter2",
				UserAgent:    "mentions/1.0 by u/tally_bot",
			},
		},
		{
			name:    "unknown profile",
			profile: "nobody",
			wantErr: "not found",
		},
		{
			name:    "incomplete profile",
			profile: "partial",
			wantErr: "incomplete",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			creds, err := LoadRedditCredentials(iniPath, tt.profile)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, creds)
		})
	}
}

func TestLoadCredentialsForPaths(t *testing.T) {
	paths := NewPaths(t.TempDir())
	writeFile(t, paths.CredentialsFile, prawINI)
	writeFile(t, paths.ProfileFile, "bot\n")

	creds, err := LoadCredentialsForPaths(paths)
	require.NoError(t, err)
	assert.Equal(t, "tally_bot", creds.Username)
}

func TestRedditCredentials_StringHidesSecrets(t *testing.T) {
	creds := RedditCredentials{Profile: "bot", ClientID: "id", ClientSecret: "s3cret", Username: "u", Password: "hunter2"}
	s := creds.String()

	assert.NotContains(t, s, "s3cret")
	assert.NotContains(t, s, "hunter2")
	assert.Contains(t, s, "bot")
}
