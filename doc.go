/*
Package tropelink finds how two works are connected through the tropes they share.

The graph of works is never loaded up front: the neighbors of a work (every other work
featuring one of its tropes) are discovered on demand through a NeighborSource, by default
the TV Tropes wiki. A search engine explores that implicit graph breadth-first and returns
the shortest chain of shared tropes, or reports that the works are not connected.

# Usage

	conn, err := tropelink.New()
	if err != nil {
		log.Fatal(err)
	}

	path, err := conn.Connect(ctx,
		"https://tvtropes.org/pmwiki/pmwiki.php/Series/Firefly",
		"https://tvtropes.org/pmwiki/pmwiki.php/Film/Alien",
	)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(path.Degrees(), "degrees of separation")

# Architecture

  - pkg/domain: nodes, edges, paths, events and errors.
  - pkg/search: frontiers (stack and queue) and the search engine.
  - pkg/ports: the NeighborSource, EndpointValidator, NameResolver and NeighborCache contracts.
  - pkg/adapters: the wiki adapter, an in-memory graph, the neighbor memo and a Redis cache,
    plus the HTTP and MCP servers.

Any graph can be searched by injecting a custom NeighborSource with WithSource.
*/
package tropelink
