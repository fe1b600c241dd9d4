// Package client talks to the letitbit.net file hosting API.
//
// Every request is a batch: calls are queued with AddCall as controller/method
// routes with optional parameters and sent together by Execute as one form
// POST of the JSON array [apiKey, [route, params], ...]. The server answers
// with an envelope {"status": "OK", "data": [...]} where data[i] belongs to
// the i-th queued call. A status other than "OK" fails the whole batch.
//
// Most callers never build batches by hand. The named operations (KeyInfo,
// CheckLink, FileListing, Upload, ...) queue one call, execute it and unwrap
// its result:
//
//	c, err := client.New(client.Config{APIKey: key})
//	if err != nil {
//		return err
//	}
//	defer c.Close()
//
//	res, err := c.Upload(ctx, "/tmp/movie.avi", client.ProtocolFTP)
//	if err != nil {
//		return err
//	}
//	fmt.Println(res.Link)
//
// # Concurrency
//
// Named operations are safe for concurrent use: each holds the client lock
// while its call is queued and executed. A batch built by hand with AddCall
// and Execute is not; queue and execute it from a single goroutine.
//
// # Errors
//
// Failures are reported as one of *UnknownProtocolError, *ProtocolError,
// *EmptyResultError or *TransportError, or as one of the sentinel errors for
// local preconditions. Nothing is retried.
package client
