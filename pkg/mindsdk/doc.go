/*
Package mindsdk is a small Go client for the MindCare journaling and
appointment API, plus the request/response types the server itself encodes.

# Client vs Session

Client covers the public endpoints (register, login, health). A successful
login yields a Session that sends the bearer token on every call:

	client := mindsdk.NewClient("http://localhost:8080")

	_, err := client.Register(ctx, mindsdk.RegisterRequest{
		Username: "alice",
		Email:    "a@x.com",
		Password: "secret123",
	})

	session, err := client.Authenticate(ctx, "alice", "secret123")

	entry, err := session.CreateJournalEntry(ctx, mindsdk.JournalEntryRequest{
		Content: "felt okay today",
	})

Tokens live for ten minutes and are never refreshed. When Session.Expired
reports true, authenticate again.

# Errors

Every non-2xx response is returned as an *APIError. The predefined values
(ErrDuplicateUsername, ErrInvalidCredentials, ErrNotFound, ...) compare by
error code, so errors.Is works:

	if errors.Is(err, mindsdk.ErrDuplicateUsername) {
		// pick another name
	}
*/
package mindsdk
