// Package contracts holds the interfaces pkg/app needs from domain packages.
package contracts

import "github.com/julienschmidt/httprouter"

// Handler is implemented by every domain HTTP handler; the application
// mounts each one on the shared API router behind the middleware chain.
type Handler interface {
	RegisterRoutes(router *httprouter.Router)
}
