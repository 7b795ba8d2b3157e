// Package remote provides async validators backed by Redis.
//
// Uniqueness checks ("is this username taken?") are the typical async rule:
// the value is looked up in a Redis set and reported as taken when it is a
// member.
//
//	rdb := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
//	s := dsl.Object().
//		Field("username", dsl.String().RefineAsync(remote.Unique(rdb, "usernames"), dsl.Debounce(300))).
//		Schema()
//
// For serializable schemas, register the "redisUnique" tag and refer to it
// with dsl.String().CustomAsync(remote.TagUnique, map[string]any{"set": "usernames"}).
package remote

import (
	"context"
	"errors"
	"fmt"

	"github.com/mitchellh/mapstructure"
	backend "github.com/redis/go-redis/v9"

	vskema "github.com/reoring/vskema"
	"github.com/reoring/vskema/i18n"
	"github.com/reoring/vskema/rules"
)

// TagUnique is the async rule tag registered by Register.
const TagUnique = "redisUnique"

// CodeNotUnique is the i18n code used for the default "taken" message.
const CodeNotUnique = "NOT_UNIQUE"

// ErrNoSet is returned when the "set" param is missing.
var ErrNoSet = errors.New("remote: missing set name")

// Unique returns an async check that fails when v (as a string) is a member
// of the Redis set named set.
func Unique(client backend.Cmdable, set string) vskema.AsyncCheck {
	return func(ctx context.Context, v any) (vskema.AsyncOutcome, error) {
		return isMember(ctx, client, set, v)
	}
}

type uniqueParams struct {
	Set    string `mapstructure:"set"`
	Prefix string `mapstructure:"prefix"`
}

// Register installs the TagUnique async validator on reg. When client is
// nil the validator takes the client from the validation context, stored
// there with vskema.WithService[backend.Cmdable].
func Register(reg *rules.Registry, client backend.Cmdable) {
	reg.RegisterAsync(TagUnique, func(ctx context.Context, v any, params map[string]any, _ vskema.ValidatorContext) (vskema.AsyncOutcome, error) {
		var p uniqueParams
		if err := mapstructure.WeakDecode(params, &p); err != nil {
			return vskema.AsyncOutcome{}, fmt.Errorf("remote: decode params: %w", err)
		}
		if p.Set == "" {
			return vskema.AsyncOutcome{}, ErrNoSet
		}
		c := client
		if c == nil {
			var err error
			if c, err = vskema.RequireService[backend.Cmdable](ctx); err != nil {
				return vskema.AsyncOutcome{}, err
			}
		}
		return isMember(ctx, c, p.Prefix+p.Set, v)
	})
}

// Claim adds v to the set so later checks report it as taken.
func Claim(ctx context.Context, client backend.Cmdable, set string, v any) error {
	if err := client.SAdd(ctx, set, fmt.Sprint(v)).Err(); err != nil {
		return fmt.Errorf("remote: claim %q: %w", set, err)
	}
	return nil
}

func isMember(ctx context.Context, client backend.Cmdable, set string, v any) (vskema.AsyncOutcome, error) {
	taken, err := client.SIsMember(ctx, set, fmt.Sprint(v)).Result()
	if err != nil {
		return vskema.AsyncOutcome{}, fmt.Errorf("remote: check %q: %w", set, err)
	}
	if taken {
		return vskema.AsyncOutcome{Valid: false, Message: i18n.T(CodeNotUnique, nil)}, nil
	}
	return vskema.AsyncOutcome{Valid: true}, nil
}
