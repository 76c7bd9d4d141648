package actor

import "context"

type contextKey string

const actorKey contextKey = "actor"

// Actor identifies who issued an admin request.
type Actor struct {
	Subject string
	IP      string
}

func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey, a)
}

func FromContext(ctx context.Context) Actor {
	a, _ := ctx.Value(actorKey).(Actor)
	return a
}
