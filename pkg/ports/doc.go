/*
Package ports defines the driven ports (interfaces) for the tropelink engine.

These interfaces decouple the search core from external implementations, allowing
the engine to work against remote wikis, in-memory graphs and different cache backends.

# Key Interfaces

  - NeighborSource: Discovers the one-hop edges of an entity (e.g., by scraping TV Tropes).
  - EndpointValidator: Turns a user reference into a canonical entity identifier.
  - NameResolver: Provides display names for the presentation layer.
  - NeighborCache: Persists discovered neighbor sets (Memory or Redis).
*/
package ports
