// Package providers talks to the hosted model endpoint.
//
// # Overview
//
// The package has three parts that the assistant service composes:
//
//   - Transport posts a JSON payload to a single bearer-authenticated endpoint
//     with a fixed per-request timeout and no retries.
//   - Normalizer extracts reply text, usage and model name from whichever
//     response envelope the endpoint returned.
//   - Classifier maps transport failures onto a closed set of error kinds so
//     callers can decide whether to retry.
//
// # Basic Usage
//
//	t, err := providers.NewTransport(providers.TransportConfig{
//	    Endpoint: os.Getenv("DATABRICKS_ENDPOINT"),
//	    Token:    os.Getenv("DATABRICKS_PAT"),
//	})
//	if err != nil {
//	    return err // *providers.ConfigError
//	}
//
//	raw, err := t.Post(ctx, payload)
//	if err != nil {
//	    return t.Classifier().Classify(err)
//	}
//	reply, err := providers.Normalize(raw.Body)
//
// # Error Handling
//
// Every classified error implements ClassifiedError:
//
//	switch providers.KindOf(err) {
//	case providers.KindRateLimit:
//	    var rl *providers.RateLimitError
//	    errors.As(err, &rl)
//	    time.Sleep(rl.RetryAfter)
//	case providers.KindAuth:
//	    // credential rejected; not retryable
//	}
//
// EmptyResponseError reports KindUnknown.
package providers
