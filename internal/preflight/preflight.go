package preflight

import (
	"context"
	"fmt"

	"airlift/internal/auth"
	"airlift/internal/config"
	"airlift/internal/release"
	"airlift/internal/services"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Check is a pluggable preflight requirement.
type Check func(ctx context.Context) Result

// Request scopes the checks to one publish invocation.
type Request struct {
	Platform   release.Platform
	ProjectDir string
	// Extra checks run after the built-in requirements, in order.
	Extra []Check
}

// Validator evaluates the environment requirements the publish workflow
// assumes. Checks are pure: nothing is created or mutated.
type Validator struct {
	cfg   *config.Config
	creds *auth.Store
}

// NewValidator constructs a validator over the given config and credentials.
func NewValidator(cfg *config.Config, creds *auth.Store) *Validator {
	return &Validator{cfg: cfg, creds: creds}
}

// Validate runs the built-in checks in order and stops at the first failure.
// Host platform support is checked first so an unsupported host fails before
// anything else is touched; its failure carries a distinct marker.
func (v *Validator) Validate(ctx context.Context, req Request) error {
	for _, check := range v.checks(req) {
		result := check(ctx)
		if result.Passed {
			continue
		}
		marker := services.ErrPrecondition
		if result.Name == checkNameHostPlatform {
			marker = services.ErrUnsupported
		}
		return services.Wrap(marker, "preflight", result.Name, result.Detail, nil)
	}
	return nil
}

// RunAll executes every check and reports all outcomes. Used by the doctor
// command, which wants the full picture rather than the first failure.
func (v *Validator) RunAll(ctx context.Context, req Request) []Result {
	checks := v.checks(req)
	results := make([]Result, 0, len(checks))
	for _, check := range checks {
		results = append(results, check(ctx))
	}
	return results
}

func (v *Validator) checks(req Request) []Check {
	checks := []Check{
		func(context.Context) Result { return CheckHostPlatform(req.Platform) },
		func(context.Context) Result { return CheckAuthenticated(v.creds) },
		func(context.Context) Result { return CheckProjectInitialized(req.ProjectDir) },
		func(ctx context.Context) Result { return CheckToolchain(v.cfg) },
		func(context.Context) Result {
			return CheckDirectoryAccess(fmt.Sprintf("Project directory (%s)", req.ProjectDir), req.ProjectDir)
		},
	}
	return append(checks, req.Extra...)
}
