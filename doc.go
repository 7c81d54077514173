// Package kakule is an embeddable client for the Kakule frame and mat
// catalog. It loads products from Redis, PostgreSQL or the bundled sample
// set, ranks them against free-text queries and answers browsing lookups.
//
//	c, err := kakule.New(kakule.WithRedis("localhost:6379", ""))
//	if err != nil {
//		return err
//	}
//	defer c.Close()
//
//	hits, err := c.Search(ctx, "ceviz 20", kakule.SearchOptions{Category: "cerceveler"})
package kakule
