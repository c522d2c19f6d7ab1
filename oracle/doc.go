// Package oracle defines the boundary to remote reasoning backends. An Oracle
// receives a prompt, optional conversation history and tool schemas, and
// returns text plus zero or more requested tool invocations together with a
// token-usage report. Provider subpackages (anthropic, openai) adapt concrete
// APIs to this contract; Mock provides a scripted in-memory implementation for
// tests and examples.
package oracle
