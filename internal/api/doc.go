// Package api contains the HTTP handlers, request/response models, and
// error mapping for the service's JSON API. Handlers stay thin: decode,
// validate, call a service, map the result.
package api
