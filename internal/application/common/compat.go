package common

// Mediator types are re-exported so handlers only import common.
// New code may import internal/application/mediator directly.

import (
	"github.com/andrescamacho/searoutes-go/internal/application/mediator"
)

type (
	Request        = mediator.Request
	Response       = mediator.Response
	RequestHandler = mediator.RequestHandler
	HandlerFunc    = mediator.HandlerFunc
	Middleware     = mediator.Middleware
	Mediator       = mediator.Mediator
)

var NewMediator = mediator.NewMediator
