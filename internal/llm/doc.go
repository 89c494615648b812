// Package llm turns free-text activity descriptions into structured, untrusted
// extractions and asks a language model for footprint reduction tips.
// It supports OpenAI and Anthropic over plain HTTP, with retry logic,
// rate limiting and response caching.
package llm
