// Package llm provides the OpenAI implementation of the notify.Generator
// interface used for notification enrichment.
package llm
