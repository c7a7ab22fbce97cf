// Package llm defines the provider-agnostic text generation contract.
// Backends live in subpackages: bedrock (AWS Bedrock runtime) and ollama
// (local Ollama server).
package llm
