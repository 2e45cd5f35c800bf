package transport

import "context"

// ReplyMatch reports whether a received datagram answers the request in
// flight. Transports that read from a shared socket skip replies it rejects.
type ReplyMatch func(reply []byte) bool

type replyMatchKey struct{}

// WithReplyMatch scopes match to one round trip.
func WithReplyMatch(ctx context.Context, match ReplyMatch) context.Context {
	return context.WithValue(ctx, replyMatchKey{}, match)
}

func replyMatchFrom(ctx context.Context) ReplyMatch {
	match, _ := ctx.Value(replyMatchKey{}).(ReplyMatch)
	return match
}
