// Package config provides centralized configuration management for the
// mentions batch job.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. YAML configuration file (config.yaml, configs/config.yaml, .config/config.yaml)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern MENTIONS_<SECTION>_<FIELD>:
//
//	MENTIONS_LOGGING_LEVEL=debug
//	MENTIONS_PATHS_BASE_DIR=/srv/mentions
//	MENTIONS_REDDIT_SUBREDDIT=wallstreetbets
//	MENTIONS_REPORT_FORMAT=xlsx
//
// # Credentials
//
// Reddit credentials never live in config.yaml. They are read from a praw.ini
// style INI file whose section is chosen by the one-line .config/reddit_name
// file:
//
//	[bot]
//	client_id=...
//	client_secret=...
//	username=...
//	password=...
//	user_agent=mentions/1.0 by u/...
//
// # Path Management
//
// Paths lays out every input and output file under one base directory,
// which defaults to the directory holding the executable.
package config
