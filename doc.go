// Package gqlc provides the runtime types shared by code generated with the
// gqlc compiler.
//
// The compiler (see package compiler) turns a GraphQL schema and a set of
// query/fragment documents into a coordinated bundle of Go artifacts: typed
// operation definitions, a source-to-document registry, a fragment-masking
// package, an optional persisted-operation manifest, and a re-export index.
// Generated code depends on this package for the document value types and on
// package fragment for the masking runtime.
package gqlc
