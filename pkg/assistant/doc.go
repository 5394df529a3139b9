// Package assistant is the entry point for talking to the model.
//
// A Service resolves the caller's locale, puts the persona and safety rules
// in front of the conversation, posts the payload through a Poster and
// normalizes whatever the endpoint returns. Failures come back as one of
// the classified errors in package providers, so callers can switch on
// providers.KindOf(err) and decide whether to retry. The Service itself
// never retries.
//
//	svc := assistant.New(transport, assistant.ConfigFromModel(cfg.Model))
//	reply, err := svc.SendMessage(ctx, history, "es", assistant.RequestOptions{})
package assistant
