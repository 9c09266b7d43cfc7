package catalog_fx

import (
	"context"
	"fmt"

	"go.uber.org/fx"

	"poirec/internal/catalog"
	"poirec/internal/config"
	"poirec/internal/fetch"
	"poirec/internal/repositories"
)

var Module = fx.Provide(provideCatalog)

type catalogParams struct {
	fx.In

	Config     *config.Config
	Fetcher    *fetch.Fetcher
	Embeddings repositories.IPoiEmbededRepository
	POIs       repositories.POIRepository
}

// provideCatalog loads the reference data once. Any load error aborts
// startup.
func provideCatalog(p catalogParams) (*catalog.Catalog, error) {
	ctx, cancel := context.WithTimeout(context.Background(), p.Config.Data.LoadTimeout)
	defer cancel()

	data := p.Config.Data
	var src catalog.Sources
	switch data.Source {
	case "postgres":
		src = catalog.Sources{
			Embeddings: p.Embeddings,
			Metadata:   p.POIs,
			Names:      p.POIs,
		}
	default:
		if p.Config.Fetch.Enabled {
			if err := p.Fetcher.EnsureAll(ctx, Files(data)); err != nil {
				return nil, fmt.Errorf("fetch reference files: %w", err)
			}
		}
		src = catalog.Sources{
			Embeddings: catalog.EmbeddingFile(p.Fetcher.Path(data.Embeddings.File)),
			Metadata:   catalog.MetadataFile(p.Fetcher.Path(data.Metadata.File)),
			Names:      catalog.NamesFile(p.Fetcher.Path(data.Names.File)),
		}
	}
	if data.Landmarks.File != "" {
		// Landmarks are file based in both modes.
		if p.Config.Fetch.Enabled && data.Source == "postgres" {
			landmarks := fetch.File{Name: data.Landmarks.File, DriveID: data.Landmarks.DriveID}
			if err := p.Fetcher.EnsureAll(ctx, []fetch.File{landmarks}); err != nil {
				return nil, fmt.Errorf("fetch landmarks: %w", err)
			}
		}
		src.Landmarks = catalog.LandmarkFile(p.Fetcher.Path(data.Landmarks.File))
	}

	return catalog.Load(ctx, src)
}

// Files lists the reference files for the fetcher. Only landmarks are
// optional.
func Files(data config.DataConfig) []fetch.File {
	files := []fetch.File{
		{Name: data.Embeddings.File, DriveID: data.Embeddings.DriveID, Required: true},
		{Name: data.Metadata.File, DriveID: data.Metadata.DriveID, Required: true},
		{Name: data.Names.File, DriveID: data.Names.DriveID, Required: true},
	}
	if data.Landmarks.File != "" {
		files = append(files, fetch.File{Name: data.Landmarks.File, DriveID: data.Landmarks.DriveID})
	}
	return files
}
