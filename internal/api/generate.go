// Package api holds the HTTP contract: the OpenAPI document and the types and
// chi routing generated from it.
package api

//go:generate go run github.com/oapi-codegen/oapi-codegen/v2/cmd/oapi-codegen -generate types,chi-server -package api -o api.gen.go openapi.yaml
