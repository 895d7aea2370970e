// Package client talks to a running 'urlmap serve' instance.
//
// A Client fetches the served table, looks up single namespaces, and
// resolves gi-docgen references through the server's JSON API:
//
//	c := client.NewClient("http://192.168.1.20:8377")
//	table, err := c.Table(ctx)
//	if err != nil {
//	    fmt.Println(client.GetShortErrorMessage(err))
//	}
//
// Transient failures (timeouts, refused connections, 5xx responses) are
// retried with exponential backoff. The fetched table is cached for
// CacheDuration.
//
// Errors are *Error values classified by ErrorType. A namespace the server
// does not know yields an error that matches urlmap.ErrNotFound, so callers
// handle remote and local misses the same way.
package client
