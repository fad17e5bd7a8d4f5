// Package canvas provides the base HTTP client for the Canvas LMS REST API.
//
// The client handles the concerns every Canvas endpoint shares:
//   - Bearer-token authorization on every request (via an oauth2 static
//     token source)
//   - JSON request and response bodies
//   - Mapping non-2xx responses to *APIError with status code and body
//   - Pagination by following the response Link header (rel="next")
//
// Domain packages build typed operations on top of it:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	client := canvas.New(cfg)
//	cal := calendar.NewClient(client)
//	events, err := cal.ListEvents(ctx, cfg.StartDate, cfg.EndDate)
//
// There is no retry or backoff policy; a cancelled or deadline-carrying
// context is the only way to abort an in-flight request.
package canvas
