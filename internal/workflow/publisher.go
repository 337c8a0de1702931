package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"

	"airlift/internal/history"
	"airlift/internal/logging"
	"airlift/internal/preflight"
	"airlift/internal/project"
	"airlift/internal/prompt"
	"airlift/internal/release"
	"airlift/internal/services"
	"airlift/internal/services/flutter"
	"airlift/internal/services/releaseapi"
)

// EnvironmentValidator runs the preflight checks a publish depends on.
// *preflight.Validator is the production implementation.
type EnvironmentValidator interface {
	Validate(ctx context.Context, req preflight.Request) error
}

// HistoryRecorder persists a local record of completed publishes.
// *history.Store is the production implementation.
type HistoryRecorder interface {
	Record(ctx context.Context, entry history.Entry) (*history.Entry, error)
}

// Request describes one publish invocation.
type Request struct {
	ProjectDir string
	Version    string
	Platform   release.Platform
	Flavor     string
	// Force skips the interactive confirmation.
	Force bool
}

// Option configures optional Publisher behavior.
type Option func(*Publisher)

// WithConfirmer replaces the interactive terminal confirmer.
func WithConfirmer(confirmer prompt.Confirmer) Option {
	return func(p *Publisher) { p.confirmer = confirmer }
}

// WithHistory enables best-effort local publish history recording.
func WithHistory(recorder HistoryRecorder) Option {
	return func(p *Publisher) { p.history = recorder }
}

// WithProgress registers a callback for artifact upload progress.
func WithProgress(progress func(releaseapi.UploadProgress)) Option {
	return func(p *Publisher) { p.progress = progress }
}

// WithLocker replaces the project directory lock (used in tests).
func WithLocker(locker func(dir string) (func(), error)) Option {
	return func(p *Publisher) { p.locker = locker }
}

// Publisher coordinates the publish workflow. It holds no mutable state
// between runs; every Run is independent.
type Publisher struct {
	logger    *slog.Logger
	api       releaseapi.Client
	toolchain flutter.Toolchain
	validator EnvironmentValidator
	confirmer prompt.Confirmer
	history   HistoryRecorder
	progress  func(releaseapi.UploadProgress)
	locker    func(dir string) (func(), error)
}

// NewPublisher constructs a publisher over the given collaborators.
func NewPublisher(logger *slog.Logger, api releaseapi.Client, toolchain flutter.Toolchain, validator EnvironmentValidator, opts ...Option) *Publisher {
	if logger == nil {
		logger = logging.NewNop()
	}
	p := &Publisher{
		logger:    logger,
		api:       api,
		toolchain: toolchain,
		validator: validator,
		confirmer: prompt.NewTerminal(),
		locker:    acquireProjectLock,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes the publish workflow for one version and platform. A declined
// confirmation returns a nil error with Outcome.Aborted set; every other early
// exit returns an error tagged with a services marker so the caller can map it
// to an exit code.
func (p *Publisher) Run(ctx context.Context, req Request) (*Outcome, error) {
	ctx = services.WithRunID(ctx, uuid.NewString())
	outcome := &Outcome{State: StateValidating}

	logger := logging.WithContext(services.WithStage(ctx, "validate"), p.logger)
	logger.Info(
		"publish started",
		logging.String(logging.FieldEventType, "publish_start"),
		logging.String("version", req.Version),
		logging.String("platform", string(req.Platform)),
	)

	if req.Platform == "" {
		return outcome, services.Wrap(services.ErrValidation, "validate", "platform", "no target platform selected", nil)
	}
	if err := release.ValidateVersion(req.Version); err != nil {
		return outcome, services.Wrap(services.ErrValidation, "validate", req.Version, "", err)
	}

	unlock, err := p.locker(req.ProjectDir)
	if err != nil {
		return outcome, err
	}
	defer unlock()

	if err := p.validator.Validate(ctx, preflight.Request{Platform: req.Platform, ProjectDir: req.ProjectDir}); err != nil {
		return outcome, err
	}

	proj, err := project.Load(req.ProjectDir)
	if err != nil {
		if errors.Is(err, project.ErrNotInitialized) {
			return outcome, services.Wrap(services.ErrPrecondition, "validate", project.FileName, "run 'airlift init' first", err)
		}
		return outcome, services.Wrap(services.ErrConfiguration, "validate", project.FileName, "", err)
	}
	appID, err := proj.ResolveAppID(req.Flavor)
	if err != nil {
		return outcome, services.Wrap(services.ErrConfiguration, "validate", project.FileName, "", err)
	}

	app, err := p.api.GetApp(ctx, appID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return outcome, services.Wrap(services.ErrPrecondition, "resolve", appID,
				"app is not registered; check app_id in "+project.FileName, err)
		}
		return outcome, err
	}
	outcome.State = StateAppResolved

	existing, err := p.api.GetRelease(ctx, appID, req.Version)
	if err != nil {
		return outcome, err
	}
	if existing != nil && existing.ActiveFor(req.Platform) {
		return outcome, services.Wrap(services.ErrConflict, "resolve", req.Version,
			fmt.Sprintf("version %s is already active for %s; bump the version and publish again", req.Version, req.Platform.Label()), nil)
	}
	outcome.State = StateExistingReleaseChecked

	buildCtx := services.WithStage(ctx, "build")
	buildLogger := logging.WithContext(buildCtx, p.logger)

	revision, err := p.toolchain.Revision(buildCtx)
	if err != nil {
		return outcome, err
	}
	if existing != nil && existing.FlutterRevision != "" && revision != "" && existing.FlutterRevision != revision {
		return outcome, services.Wrap(services.ErrConflict, "build", req.Version,
			fmt.Sprintf("existing draft was built from Flutter revision %s but the current toolchain is %s; switch Flutter versions or bump the version",
				shortRevision(existing.FlutterRevision), shortRevision(revision)), nil)
	}

	buildLogger.Info(
		"building framework bundle",
		logging.String(logging.FieldEventType, "build_start"),
		logging.String("platform", string(req.Platform)),
		logging.String("flutter_revision", shortRevision(revision)),
	)
	built, err := p.toolchain.Build(buildCtx, flutter.BuildRequest{
		ProjectRoot: req.ProjectDir,
		Platform:    req.Platform,
		Flavor:      req.Flavor,
	})
	if err != nil {
		return outcome, err
	}
	if _, statErr := os.Stat(built.ArtifactPath); statErr != nil {
		return outcome, services.Wrap(services.ErrPrecondition, "build", built.ArtifactPath,
			"build completed but no artifact exists at the expected path", statErr)
	}
	outcome.State = StateBuilt
	outcome.ArtifactPath = built.ArtifactPath
	outcome.FlutterRevision = revision

	if !req.Force {
		confirmed, err := p.confirmer.Confirm(confirmationQuestion(app, req, revision))
		if err != nil {
			return outcome, services.Wrap(services.ErrPrecondition, "confirm", "", "", err)
		}
		if !confirmed {
			logging.WithContext(ctx, p.logger).Info(
				"publish aborted by user",
				logging.String(logging.FieldEventType, "publish_aborted"),
			)
			outcome.State = StateAbortedByUser
			outcome.Aborted = true
			return outcome, nil
		}
	}
	outcome.State = StateConfirmed

	publishCtx := services.WithStage(ctx, "publish")
	publishLogger := logging.WithContext(publishCtx, p.logger)

	// Lookup-then-create is best-effort idempotence. Two invocations racing on
	// the same version are arbitrated by the service's unique constraint on
	// (app, version), not by anything this client can do.
	rel := existing
	if rel == nil {
		rel, err = p.api.CreateRelease(publishCtx, appID, releaseapi.CreateReleaseRequest{
			Version:         req.Version,
			FlutterRevision: revision,
			Platform:        req.Platform,
		})
		if err != nil {
			return outcome, err
		}
	} else {
		publishLogger.Info(
			"reusing existing draft release",
			logging.String("version", rel.Version),
			logging.Int64("release_id", rel.ID),
		)
	}
	outcome.State = StateReleaseResolved
	outcome.Release = rel

	if err := p.api.UploadArtifact(publishCtx, rel.ID, req.Platform, built.ArtifactPath, p.progress); err != nil {
		return outcome, services.Wrap(services.ErrUpload, "publish", req.Platform.ArtifactName(),
			"the release stays in draft; re-run to retry the upload", err)
	}
	outcome.State = StateArtifactPublished

	if err := p.api.UpdateReleaseStatus(publishCtx, appID, rel.ID, req.Platform, release.StatusActive); err != nil {
		return outcome, services.Wrap(services.ErrActivation, "publish", req.Version,
			"artifact uploaded but the status change failed; verify the release state before retrying", err)
	}
	if rel.PlatformStatus == nil {
		rel.PlatformStatus = make(map[release.Platform]release.Status)
	}
	rel.PlatformStatus[req.Platform] = release.StatusActive
	outcome.State = StateActivated

	p.recordHistory(publishCtx, publishLogger, appID, rel, req.Platform, revision)

	publishLogger.Info(
		"publish complete",
		logging.String(logging.FieldEventType, "publish_complete"),
		logging.String("version", rel.Version),
		logging.String("platform", string(req.Platform)),
		logging.Int64("release_id", rel.ID),
	)
	return outcome, nil
}

// recordHistory is best-effort: a local bookkeeping failure never fails a
// publish that already succeeded remotely.
func (p *Publisher) recordHistory(ctx context.Context, logger *slog.Logger, appID string, rel *release.Release, platform release.Platform, revision string) {
	if p.history == nil {
		return
	}
	_, err := p.history.Record(ctx, history.Entry{
		AppID:           appID,
		ReleaseID:       rel.ID,
		Version:         rel.Version,
		Platform:        platform,
		FlutterRevision: revision,
	})
	if err != nil {
		logger.Warn("failed to record publish history", logging.Error(err))
	}
}

func confirmationQuestion(app *release.App, req Request, revision string) string {
	name := "app"
	if app != nil {
		if strings.TrimSpace(app.DisplayName) != "" {
			name = app.DisplayName
		} else if app.ID != "" {
			name = app.ID
		}
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Publishing %s %s for %s", name, req.Version, req.Platform.Label())
	if revision != "" {
		fmt.Fprintf(&b, " (Flutter revision %s)", shortRevision(revision))
	}
	b.WriteString(". Proceed?")
	return b.String()
}

func shortRevision(revision string) string {
	revision = strings.TrimSpace(revision)
	if len(revision) > 10 {
		return revision[:10]
	}
	return revision
}
