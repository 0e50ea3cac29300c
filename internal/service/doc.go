// Package service provides the application layer between the HTTP API and
// the core card and quiz packages. The core packages are single-threaded on
// purpose; the services own the mutexes that serialize concurrent requests
// onto them, and they orchestrate multi-step operations such as duplicate
// resolution and mastery recording.
package service
