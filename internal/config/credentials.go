package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/ini.v1"
)

// RedditCredentials is one profile section of praw.ini
type RedditCredentials struct {
	Profile      string `ini:"-"`
	ClientID     string `ini:"client_id" validate:"required"`
	ClientSecret string `ini:"client_secret" validate:"required"`
	Username     string `ini:"username" validate:"required"`
	Password     string `ini:"password" validate:"required"`
	UserAgent    string `ini:"user_agent" validate:"required"`
}

// String hides the secrets so credentials can be logged safely
func (c RedditCredentials) String() string {
	return fmt.Sprintf("RedditCredentials{profile=%s username=%s client_id=%s}", c.Profile, c.Username, c.ClientID)
}

// ReadProfileName reads the one-line file naming the praw.ini profile to use
func ReadProfileName(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read profile file: %w", err)
	}
	name := strings.TrimSpace(string(data))
	if name == "" {
		return "", fmt.Errorf("profile file %s is empty", path)
	}
	return name, nil
}

// LoadRedditCredentials reads the named profile section from an INI file
func LoadRedditCredentials(iniPath, profile string) (*RedditCredentials, error) {
	file, err := ini.Load(iniPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load credentials file: %w", err)
	}

	section, err := file.GetSection(profile)
	if err != nil {
		return nil, fmt.Errorf("profile %q not found in %s", profile, iniPath)
	}

	creds := &RedditCredentials{Profile: profile}
	if err := section.MapTo(creds); err != nil {
		return nil, fmt.Errorf("failed to map profile %q: %w", profile, err)
	}

	if err := validator.New().Struct(creds); err != nil {
		return nil, fmt.Errorf("profile %q is incomplete: %w", profile, err)
	}

	return creds, nil
}

// LoadCredentialsForPaths resolves the profile name file, then loads that
// profile from the credentials file.
func LoadCredentialsForPaths(paths *Paths) (*RedditCredentials, error) {
	profile, err := ReadProfileName(paths.ProfileFile)
	if err != nil {
		return nil, err
	}
	return LoadRedditCredentials(paths.CredentialsFile, profile)
}
