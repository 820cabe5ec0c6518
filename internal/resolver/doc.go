// Package resolver implements links.Resolver on top of the kkdai/youtube
// client and wraps resolvers with a circuit breaker.
package resolver
