package api

import (
	"github.com/JaimeStill/stagedoc/internal/analysis"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Analysis analysis.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	return &Domain{
		Analysis: analysis.New(runtime.Workflow, runtime.Metrics, runtime.Logger),
	}
}
