package ports

import (
	"context"
	"errors"
)

// Library identifiers understood by ImportLibrary.
const (
	LibraryCore     = "core"
	LibraryMaps     = "maps"
	LibraryMarker   = "marker"
	LibraryPlaces   = "places"
	LibraryRoutes   = "routes"
	LibraryGeometry = "geometry"
)

// ErrLibraryNotFound is returned when an SDK has no library with the requested name.
var ErrLibraryNotFound = errors.New("library not found")

// A named module of the mapping SDK.
type Library interface {
	Name() string
}

// Port: a loaded mapping SDK. Libraries are loaded on demand.
type SDK interface {
	ImportLibrary(ctx context.Context, name string) (Library, error)
}

// Contract shared by every component that needs a library. consumer names the
// requesting component for log messages and may be empty.
type LibraryImporter interface {
	ImportLibrary(ctx context.Context, name string, consumer string) (Library, error)
}
