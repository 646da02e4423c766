// Package notify composes the notification text sent to subscribers when
// a new measurement arrives.
//
// Two modes exist, selected at construction: raw (verbatim payload) and
// enriched (LLM-generated summary of the last one or two readings, with a
// mandatory fallback to raw text when generation fails). The Generator
// interface decouples this package from any particular LLM provider; see
// the llm package for the OpenAI implementation.
package notify
