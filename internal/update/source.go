package update

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/go-version"
	"github.com/tcnksm/go-latest"
)

// ViewClient is the registry query the npm source needs.
type ViewClient interface {
	ViewVersion(ctx context.Context, pkg string) (string, error)
}

// NPMView is a latest.Source backed by `npm view <pkg> version`.
type NPMView struct {
	Client  ViewClient
	Package string
	Ctx     context.Context
}

func (s *NPMView) Validate() error {
	if s.Client == nil {
		return fmt.Errorf("npm source: no client")
	}
	if s.Package == "" {
		return fmt.Errorf("npm source: package name must be set")
	}
	return nil
}

func (s *NPMView) Fetch() (*latest.FetchResponse, error) {
	ctx := s.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	raw, err := s.Client.ViewVersion(ctx, s.Package)
	if err != nil {
		return nil, err
	}

	fr := &latest.FetchResponse{}
	for _, field := range strings.Fields(raw) {
		v, err := version.NewVersion(field)
		if err != nil {
			fr.Malformeds = append(fr.Malformeds, field)
			continue
		}
		fr.Versions = append(fr.Versions, v)
	}
	return fr, nil
}

// RegistrySource returns a go-latest JSON source reading the "version" field
// of <registry>/<pkg>/latest, which is the shape npm-compatible registries
// serve.
func RegistrySource(registryURL, pkg string) latest.Source {
	return &latest.JSON{
		URL: strings.TrimRight(registryURL, "/") + "/" + pkg + "/latest",
	}
}

// LatestVersion validates and fetches src and returns the highest version it
// reported, in the registry's own spelling.
func LatestVersion(src latest.Source) (string, error) {
	if err := src.Validate(); err != nil {
		return "", err
	}
	fr, err := src.Fetch()
	if err != nil {
		return "", err
	}
	if len(fr.Versions) == 0 {
		if len(fr.Malformeds) > 0 {
			return "", fmt.Errorf("registry returned malformed version %q", fr.Malformeds[0])
		}
		return "", fmt.Errorf("registry returned no version")
	}
	versions := append([]*version.Version(nil), fr.Versions...)
	sort.Sort(version.Collection(versions))
	return versions[len(versions)-1].Original(), nil
}
