// Package npm wraps the npm command line: locating the global prefix,
// querying the registry and reinstalling dependencies.
package npm

import (
	"context"
	"errors"
	"path/filepath"
)

// Client issues npm commands through a Runner.
type Client struct {
	Bin    string
	Runner Runner
}

// NewClient returns a Client for the npm binary bin using os/exec.
func NewClient(bin string) *Client {
	return &Client{Bin: bin, Runner: &ExecRunner{}}
}

// GlobalRoot returns the global node_modules directory (`npm -g root`).
func (c *Client) GlobalRoot(ctx context.Context) (string, error) {
	return c.Runner.Output(ctx, "", c.Bin, "-g", "root")
}

// ViewVersion returns the latest published version of pkg
// (`npm view <pkg> version`).
func (c *Client) ViewVersion(ctx context.Context, pkg string) (string, error) {
	v, err := c.Runner.Output(ctx, "", c.Bin, "view", pkg, "version")
	if err != nil {
		return "", err
	}
	if v == "" {
		return "", errors.New("npm view returned no version for " + pkg)
	}
	return v, nil
}

// Install runs `npm install` in dir with inherited standard streams.
func (c *Client) Install(ctx context.Context, dir string) error {
	return c.Runner.Run(ctx, dir, c.Bin, "install")
}

// PackageDir joins a node_modules directory with a possibly scoped package
// name, e.g. "@scope/name".
func PackageDir(nodeModules, pkg string) string {
	return filepath.Join(nodeModules, filepath.FromSlash(pkg))
}
