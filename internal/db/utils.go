package db

import (
	"fmt"
	"strconv"

	dbpkg "github.com/dtnitsch/llm-web-harvester/pkg/db"
	"github.com/urfave/cli/v2"
)

// OpenFromFlags opens the database named by --db, or the default one next to
// the executable.
func OpenFromFlags(c *cli.Context) (*dbpkg.DB, error) {
	if path := c.String("db"); path != "" {
		return dbpkg.OpenPath(path)
	}
	return dbpkg.Open()
}

// ResolveURLFromIDOrURL accepts either a numeric url_id or a URL recorded in
// the database and returns both.
func ResolveURLFromIDOrURL(arg string, database *dbpkg.DB) (int64, string, error) {
	if urlID, err := strconv.ParseInt(arg, 10, 64); err == nil {
		u, err := database.GetURLByID(urlID)
		if err != nil {
			return 0, "", err
		}
		return urlID, u, nil
	}

	urlID, err := database.GetURLID(arg)
	if err != nil {
		return 0, "", fmt.Errorf("%w\nNote: only crawled URLs are tracked", err)
	}
	return urlID, arg, nil
}

// GetSessionIDOrLatest returns the session ID from args, or the latest session if not provided
func GetSessionIDOrLatest(c *cli.Context, database *dbpkg.DB) (int64, error) {
	return resolveSessionID(c.Args().First(), database)
}

func resolveSessionID(arg string, database *dbpkg.DB) (int64, error) {
	if arg == "" {
		sessions, err := database.ListSessions(1)
		if err != nil {
			return 0, fmt.Errorf("failed to get latest session: %w", err)
		}
		if len(sessions) == 0 {
			return 0, fmt.Errorf("no sessions found. Run 'lwh crawl --url \"...\"' first")
		}
		return sessions[0].SessionID, nil
	}

	sessionID, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid session ID: %s", arg)
	}
	return sessionID, nil
}
