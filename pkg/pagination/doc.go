// Package pagination walks limit/offset paginated F1 API resources.
//
// The API reports the number of items in MRData.total (a string). The
// fetcher requests offset 0, reads the total once, and keeps requesting
// offset += pageSize while offset < total. Requests are strictly sequential
// and every page after the first is preceded by the politeness delay.
//
// Example usage:
//
//	c, err := client.New(client.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	fetcher := pagination.NewClientFetcher(c)
//	pages, err := fetcher.FetchAll(ctx, "/2023/results/", 100)
//
// Rate limiting (HTTP 429) is handled by the client; any other failure
// aborts the walk and no partial result is returned.
package pagination
