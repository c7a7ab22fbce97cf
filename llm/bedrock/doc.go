// Package bedrock implements llm.Provider on the AWS Bedrock runtime. Each
// model family speaks its own invoke body; the provider picks the dialect
// from the model ID prefix.
package bedrock
