// Package install decides what an install request means for an installed
// package and delegates the resulting create or update to the release manager.
package install

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/arc-language/relpkg/pkg/core"
)

// Action is the outcome of an install decision
type Action int

const (
	// ActionInstall creates the first release of a package
	ActionInstall Action = iota + 1
	// ActionUpgrade moves an installed package to an explicit version
	ActionUpgrade
	// ActionRefresh moves an installed package to the latest version
	ActionRefresh
)

func (a Action) String() string {
	switch a {
	case ActionInstall:
		return "install"
	case ActionUpgrade:
		return "upgrade"
	case ActionRefresh:
		return "refresh"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// Request is the install intent as parsed from the command line
type Request struct {
	Name    string
	Version string // empty means latest
	Refresh bool
}

// Outcome carries the decided action and the before/after releases
type Outcome struct {
	Action   Action
	Package  *core.Package
	Previous *core.Release // nil for ActionInstall
	Release  *core.Release // set once applied
}

// Describe is the message shown before the action runs
func (o *Outcome) Describe() string {
	if o.Action == ActionInstall {
		return fmt.Sprintf("Installing %s", o.Package)
	}
	return fmt.Sprintf("Updating %s to %s", o.Previous, o.Package)
}

// Summary is the message shown after the action ran
func (o *Outcome) Summary() string {
	if o.Action == ActionInstall {
		return fmt.Sprintf("%s installed", o.Release)
	}
	return fmt.Sprintf("%s updated", o.Release)
}

// Engine turns requests into install, upgrade or refresh actions
type Engine struct {
	packages core.PackageLookup
	releases core.ReleaseLookup
	logger   *logrus.Logger
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the logger decisions are traced to
func WithLogger(logger *logrus.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New creates an Engine over the package catalog and the release manager
func New(packages core.PackageLookup, releases core.ReleaseLookup, opts ...Option) *Engine {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	e := &Engine{
		packages: packages,
		releases: releases,
		logger:   discard,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Decide plans the request and applies the planned action.
func (e *Engine) Decide(ctx context.Context, req Request) (*Outcome, error) {
	o, err := e.Plan(req)
	if err != nil {
		return nil, err
	}
	return e.Apply(ctx, o)
}

// Plan works out the action for req without changing any installed state.
// Collaborator errors are returned as they are.
func (e *Engine) Plan(req Request) (*Outcome, error) {
	log := e.logger.WithField("package", req.Name)

	found, err := e.packages.Has(req.Name)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, &core.NotFoundError{Name: req.Name}
	}

	pkg, err := e.packages.Get(req.Name)
	if err != nil {
		return nil, err
	}
	pkg.Version = req.Version

	installed, err := e.releases.Has(req.Name)
	if err != nil {
		return nil, err
	}
	if !installed {
		log.Debug("no installed release, installing")
		return &Outcome{Action: ActionInstall, Package: pkg}, nil
	}

	current, err := e.releases.Current(pkg)
	if err != nil {
		return nil, err
	}
	log = log.WithField("current", current.Version)

	switch {
	case req.Version != "":
		if current.Version == req.Version {
			log.Debug("requested version already installed")
			return nil, &core.AlreadySatisfiedError{Release: current}
		}
		log.WithField("requested", req.Version).Debug("upgrading to requested version")
		return &Outcome{Action: ActionUpgrade, Package: pkg, Previous: current}, nil

	case req.Refresh:
		// No comparison with the latest version: refresh always re-installs.
		log.Debug("refreshing to latest version")
		return &Outcome{Action: ActionRefresh, Package: pkg, Previous: current}, nil

	default:
		return nil, &core.AlreadySatisfiedError{Release: current, Hint: true}
	}
}

// Apply performs the create or update call for a planned outcome and
// records the resulting release on it.
func (e *Engine) Apply(ctx context.Context, o *Outcome) (*Outcome, error) {
	var (
		rel *core.Release
		err error
	)

	switch o.Action {
	case ActionInstall:
		rel, err = e.releases.Create(ctx, o.Package)
	case ActionUpgrade, ActionRefresh:
		rel, err = e.releases.Update(ctx, o.Package)
	default:
		return nil, fmt.Errorf("unsupported action: %s", o.Action)
	}
	if err != nil {
		return nil, err
	}

	o.Release = rel
	e.logger.WithFields(logrus.Fields{
		"package": o.Package.Name,
		"action":  o.Action.String(),
		"version": rel.Version,
	}).Debug("release applied")
	return o, nil
}
