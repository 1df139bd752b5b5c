// Package service exposes match operations behind a transport-agnostic
// interface and defines the contracts the session registry and level manager
// implement.
package service
