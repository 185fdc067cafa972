// Package application implements the use cases over phonetic inventories.
//
// This package bridges the phonology domain to storage:
//   - Defines the InventoryRepository port implemented by infrastructure
//   - Provides Service, the facade the CLI drives (create, add, remove,
//     show, list, delete, import)
//   - Caches loaded inventories and hands out clones so callers can never
//     mutate cached state
//
// # Architecture
//
// The application layer depends on:
//   - Domain layer (internal/phonology/domain): Phoneme, Inventory, errors
//   - A repository implementation, in production the SQLite adapter in
//     internal/infrastructure/sqlite
//
// # Import Aliasing
//
// This package shares its name with the other application packages. Alias
// it when importing alongside the domain:
//
//	import (
//	    phon "github.com/lexicon-lang/lexicon/internal/phonology/domain"
//	    appphon "github.com/lexicon-lang/lexicon/internal/phonology/application"
//	)
package application
