package client

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"letitbit/internal/cache"
	"letitbit/internal/rpc"
)

// endpoint describes a one-shot remote operation returning T
type endpoint[T any] struct {
	route string
	// strict rejects results that are recursively empty
	strict bool
}

// newEndpoint creates an endpoint. Only list results may legitimately be
// empty, so every other result type is checked strictly.
func newEndpoint[T any](controller, method string) endpoint[T] {
	return endpoint[T]{
		route:  rpc.Route(controller, method),
		strict: reflect.TypeFor[T]().Kind() != reflect.Slice,
	}
}

func strictEndpoint[T any](controller, method string) endpoint[T] {
	return endpoint[T]{route: rpc.Route(controller, method), strict: true}
}

// call executes the operation and decodes its result
func (e endpoint[T]) call(ctx context.Context, c *Client, params rpc.Params) (T, error) {
	var result T

	raw, err := c.callRaw(ctx, e.route, params, e.strict, true)
	if err != nil {
		return result, err
	}

	if err := json.Unmarshal(raw, &result); err != nil {
		return result, &TransportError{Op: "decode", Err: fmt.Errorf("%s result: %w", e.route, err)}
	}
	return result, nil
}

// truth executes the operation and reports the truthiness of its result.
// An empty list is a false result, not a missing one.
func (e endpoint[T]) truth(ctx context.Context, c *Client, params rpc.Params) (bool, error) {
	raw, err := c.callRaw(ctx, e.route, params, false, true)
	if err != nil {
		return false, err
	}
	return rpc.Truthy(raw), nil
}

// exec executes the operation, checking only the status
func (e endpoint[T]) exec(ctx context.Context, c *Client, params rpc.Params) error {
	_, err := c.callRaw(ctx, e.route, params, false, false)
	return err
}

// callRaw queues one call, executes the batch and returns the call's raw result
func (c *Client) callRaw(ctx context.Context, route string, params rpc.Params, strict, needResult bool) (json.RawMessage, error) {
	cacheable := needResult && cache.IsCacheable(route)
	var key string
	if cacheable {
		key = cache.GenerateCacheKey(route, params)
		if data, ok := c.cache.Get(key); ok {
			c.logger.Debug().Str("route", route).Msg("cache hit")
			return data, nil
		}
	}

	c.mu.Lock()
	idx := c.batch.Add(rpc.Call{Route: route, Params: params})
	env, err := c.execute(ctx)
	c.mu.Unlock()
	if err != nil {
		return nil, err
	}

	if !env.IsOK() {
		return nil, &ProtocolError{Route: route, Status: env.Status}
	}
	if !needResult {
		return nil, nil
	}
	if strict && env.IsEmpty() {
		return nil, &EmptyResultError{Route: route}
	}

	raw, ok := env.Result(idx)
	if !ok || rpc.IsNull(raw) || (strict && rpc.EmptyJSON(raw)) {
		return nil, &EmptyResultError{Route: route}
	}

	if cacheable {
		c.cache.Set(key, raw)
	}
	return raw, nil
}
