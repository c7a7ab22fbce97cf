// Package ollama implements llm.Provider against a local Ollama server. It
// is the offline alternative to the Bedrock backend.
package ollama
