// Package tool models the callable capabilities an agent may hand to the
// model: schema-described tools registered under unique names, validated
// arguments, and a concurrent batch invoker that folds every result, success
// or failure, into model-readable transcript text.
package tool
