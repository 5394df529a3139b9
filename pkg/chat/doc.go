// Package chat turns a user message into an assistant reply.
//
// A Handler ties the session store, the privacy screen and the assistant
// service together. Every turn:
//
//  1. creates the session if needed and records its language,
//  2. removes personal information from the message,
//  3. stores the user turn and sends the conversation to the model,
//  4. stores the reply and adds action buttons and a program citation.
//
// When the model cannot answer, the user gets a localized apology with a
// call button and the error kind, never a raw error.
package chat
