// Package catalogd provides an embeddable product catalog resolver.
//
// A Client reads from an ordered chain of sources and returns the first
// answer any of them produces:
//   - a PostgreSQL products table (WithPostgres), optionally behind a
//     Redis/Valkey response cache (WithCache)
//   - an upstream REST catalog gateway (WithGateway)
//   - a deterministic local dataset, always present as the last resort
//
// With no options the client serves the local dataset only:
//
//	client, _ := catalogd.New(ctx)
//	defer client.Close()
//
//	pg, _ := client.ListProducts(ctx, catalogd.ListOptions{
//	    Search:     "lamp",
//	    Categories: []string{"Home"},
//	    PriceMax:   catalogd.Price(200),
//	})
//	p, err := client.GetProduct(ctx, "17")
//	if errors.Is(err, catalogd.ErrNotFound) {
//	    // no such product
//	}
package catalogd
