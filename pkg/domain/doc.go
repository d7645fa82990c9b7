/*
Package domain contains the core domain models of the tropelink search engine.

It defines the entities shared by the engine, its collaborators and the presentation
layer. The package is kept pure and free of I/O, following Hexagonal Architecture principles.

# Key Entities

  - Node: A search-tree record (entity, parent link, relation used to reach it).
  - Edge: A one-hop link discovered for an entity.
  - Path: The outcome of a search (found chain, same entity, or no path).
  - SearchHooks: Observability callbacks fired by the engine.
*/
package domain
