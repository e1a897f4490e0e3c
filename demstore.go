package rugged

import "github.com/banshee-data/rugged/internal/demstore"

// DEMStore is the SQLite-backed tile store: it implements the DEM tile
// updater contract a Builder needs for the DUVENHAGE family of algorithms,
// so a *DEMStore can be passed directly to Builder.SetDEMTileUpdater.
type DEMStore = demstore.Store

// OpenDEMStore opens (creating and migrating if necessary) a SQLite tile
// database at path.
func OpenDEMStore(path string) (*DEMStore, error) { return demstore.Open(path) }
