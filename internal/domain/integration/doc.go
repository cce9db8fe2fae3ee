// Package integration contains the Integration bounded context.
// This context manages the connection to the store's e-commerce platform.
//
// Key concepts:
//   - OrderSource: Port interface for reading orders from the platform (Shopify)
//   - PlatformCode: Identifies the platform an adapter talks to
//   - Platform errors: Sentinel errors shared by every adapter
//
// Design Pattern: Ports & Adapters
//   - Ports (interfaces) are defined here in the domain layer
//   - Adapters (implementations) are in the infrastructure layer
package integration
